// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"testing"
	"unicode/utf8"
)

func TestClip(t *testing.T) {
	tests := []struct {
		name string
		in   string
		n    int
		want string
	}{
		{"short untouched", "doc.txt", 30, "doc.txt"},
		{"exact length untouched", "abcde", 5, "abcde"},
		{"ascii clipped", "a_very_long_document_name.pdf", 10, "a_very_..."},
		{"multibyte clipped on rune boundary", "音楽療法の記録文書.pdf", 8, "音楽療法の..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := clip(tt.in, tt.n)
			if got != tt.want {
				t.Errorf("clip(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
			}
			if !utf8.ValidString(got) {
				t.Errorf("clip produced invalid UTF-8: %q", got)
			}
		})
	}
}

func TestFirstLine(t *testing.T) {
	body := "## doc.txt\n\n**Category**: other\n\nA summary sentence.\nMore text."
	if got := firstLine(body); got != "A summary sentence." {
		t.Errorf("firstLine = %q", got)
	}
	if got := firstLine("## heading only"); got != "" {
		t.Errorf("firstLine on heading-only body = %q", got)
	}
}
