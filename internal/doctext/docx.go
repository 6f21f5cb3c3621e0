// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package doctext

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// documentXML is the part of a DOCX archive holding the document body.
const documentXML = "word/document.xml"

// extractDocx pulls paragraph text out of a DOCX file. A DOCX is a ZIP
// archive; the body lives in word/document.xml as WordprocessingML, where
// <w:t> elements carry text runs and <w:p> elements delimit paragraphs.
func extractDocx(path string, maxRunes int) Result {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return Result{Placeholder: fmt.Sprintf("DOCX read error: %v", err)}
	}
	defer zr.Close()

	var doc *zip.File
	for _, f := range zr.File {
		if f.Name == documentXML {
			doc = f
			break
		}
	}
	if doc == nil {
		return Result{Placeholder: "DOCX read error: no word/document.xml in archive"}
	}

	rc, err := doc.Open()
	if err != nil {
		return Result{Placeholder: fmt.Sprintf("DOCX read error: %v", err)}
	}
	defer rc.Close()

	paragraphs, err := docxParagraphs(rc)
	if err != nil {
		return Result{Placeholder: fmt.Sprintf("DOCX read error: %v", err)}
	}

	text := strings.Join(paragraphs, "\n")
	if text == "" {
		return Result{Placeholder: "document contains no text"}
	}
	return Result{Text: truncate(text, maxRunes)}
}

// docxParagraphs streams the WordprocessingML token-by-token, collecting
// text runs and flushing a paragraph at each </w:p>. Empty paragraphs are
// dropped.
func docxParagraphs(r io.Reader) ([]string, error) {
	dec := xml.NewDecoder(r)

	var paragraphs []string
	var current strings.Builder
	inTextRun := false

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parsing document XML: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inTextRun = true
			case "tab":
				current.WriteByte('\t')
			case "br":
				current.WriteByte('\n')
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inTextRun = false
			case "p":
				if p := strings.TrimSpace(current.String()); p != "" {
					paragraphs = append(paragraphs, p)
				}
				current.Reset()
			}
		case xml.CharData:
			if inTextRun {
				current.Write(t)
			}
		}
	}

	// Text outside any paragraph (rare, but tables can produce it).
	if p := strings.TrimSpace(current.String()); p != "" {
		paragraphs = append(paragraphs, p)
	}

	return paragraphs, nil
}
