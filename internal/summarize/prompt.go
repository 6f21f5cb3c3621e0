// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package summarize

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"text/template"

	"github.com/pdiddy/archive-engine/internal/httputil"
	"github.com/pdiddy/archive-engine/pkg/types"
)

// summaryPromptTmpl is the prompt sent to the chat-completion API for each
// document. It asks for one structured Markdown section per document:
// category, era, key people, summary, evidence, verbatim quotes, and
// social-media ideas.
var summaryPromptTmpl = template.Must(template.New("summary").Parse(`Read the following document and produce a structured summary in exactly the format given below.

Document name: {{.Name}}

Document content:
{{.Content}}

---

Output format:

## {{.Name}}

**Category**: [choose one: conference presentation / research paper / personal account / commentary / event report / association journal / other]
**Era**: [YYYY — inferred from the document name or content]
**Key people**: [specialists, physicians, and researchers who appear, comma-separated]

### Summary
[3-5 sentences. Add plain-language explanations for technical terms.]

### Key data and evidence
- [numeric data or experimental results, as bullets]
- [subject counts, measurement methods, statistics such as p-values]
- [concrete examples of reported effects]
(Write "None noted" when the document carries no data.)

### Key quotes
> "[a striking verbatim quote from the document]"
> "[a second striking verbatim quote]"
(Quotes must be verbatim.)

### Social media ideas
- **Instagram**: [a concrete post idea]
- **Blog**: [a concrete article idea]

---

If the content cannot be read, say so in the summary instead of inventing material.
`))

// promptData feeds the summary prompt template.
type promptData struct {
	Name    string
	Content string
}

// renderPrompt executes the summary prompt template for one document.
func renderPrompt(name, content string) (string, error) {
	var buf bytes.Buffer
	if err := summaryPromptTmpl.Execute(&buf, promptData{Name: name, Content: content}); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// TextBackend abstracts the chat-completion API so tests can supply a mock.
// Summarize takes one document's name and extracted text and returns the
// structured Markdown section.
type TextBackend interface {
	Summarize(ctx context.Context, name, content string) (string, error)
}

// chatAPIURL is the chat-completions endpoint. Package-level var for test
// substitution.
var chatAPIURL = "https://api.openai.com/v1/chat/completions"

// OpenAIBackend calls an OpenAI-style chat-completions API to summarize one
// document.
type OpenAIBackend struct {
	APIKey      string
	Model       string
	MaxTokens   int
	Temperature float64
	MaxRetries  int
	UserAgent   string
	Client      *http.Client
}

// chatRequest is the request body for the chat-completions API.
type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

// chatMessage is a single message in the chat conversation.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatResponse is the response body from the chat-completions API.
type chatResponse struct {
	Choices []chatChoice `json:"choices"`
}

// chatChoice is one completion choice.
type chatChoice struct {
	Message chatMessage `json:"message"`
}

// Summarize renders the prompt for one document and calls the API.
func (b *OpenAIBackend) Summarize(ctx context.Context, name, content string) (string, error) {
	prompt, err := renderPrompt(name, content)
	if err != nil {
		return "", fmt.Errorf("rendering prompt: %w", err)
	}

	reqBody := chatRequest{
		Model:       b.Model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		MaxTokens:   b.MaxTokens,
		Temperature: b.Temperature,
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, chatAPIURL, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+b.APIKey)
	if b.UserAgent != "" {
		req.Header.Set("User-Agent", b.UserAgent)
	}

	client := b.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := httputil.DoWithRetry(ctx, client, req, b.MaxRetries)
	if err != nil {
		return "", fmt.Errorf("calling chat-completion API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("chat-completion API returned %d: %s", resp.StatusCode, string(body))
	}

	var cResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&cResp); err != nil {
		return "", fmt.Errorf("decoding API response: %w", err)
	}

	if len(cResp.Choices) == 0 || cResp.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("chat-completion API returned no content")
	}

	return cResp.Choices[0].Message.Content, nil
}

// NewOpenAIBackend builds the production backend from stage config, filling
// in defaults for any unset fields.
func NewOpenAIBackend(cfg types.SummarizeConfig, client *http.Client) *OpenAIBackend {
	model := cfg.Model
	if model == "" {
		model = "gpt-4o-mini"
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 1500
	}
	temperature := cfg.Temperature
	if temperature == 0 {
		temperature = 0.3
	}
	return &OpenAIBackend{
		APIKey:      cfg.APIKey,
		Model:       model,
		MaxTokens:   maxTokens,
		Temperature: temperature,
		MaxRetries:  cfg.MaxRetries,
		UserAgent:   cfg.UserAgent,
		Client:      client,
	}
}
