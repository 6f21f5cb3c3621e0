// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package summarize

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pdiddy/archive-engine/pkg/types"
)

func TestRenderPrompt(t *testing.T) {
	prompt, err := renderPrompt("1998_lecture.pdf", "the document body")
	if err != nil {
		t.Fatal(err)
	}

	for _, want := range []string{
		"Document name: 1998_lecture.pdf",
		"the document body",
		"## 1998_lecture.pdf",
		"**Category**:",
		"### Key quotes",
		"Social media ideas",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestOpenAIBackendSummarize(t *testing.T) {
	var gotReq chatRequest
	var gotAuth, gotUA string

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotUA = r.Header.Get("User-Agent")
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		resp := chatResponse{Choices: []chatChoice{{
			Message: chatMessage{Role: "assistant", Content: "## doc.txt\n\nSummary."},
		}}}
		json.NewEncoder(w).Encode(resp)
	}))
	defer ts.Close()

	old := chatAPIURL
	chatAPIURL = ts.URL
	defer func() { chatAPIURL = old }()

	backend := NewOpenAIBackend(types.SummarizeConfig{
		AIConfig:   types.AIConfig{APIKey: "sk-test"},
		HTTPConfig: types.HTTPConfig{UserAgent: "archive-engine/test"},
	}, ts.Client())

	body, err := backend.Summarize(context.Background(), "doc.txt", "content")
	if err != nil {
		t.Fatal(err)
	}
	if body != "## doc.txt\n\nSummary." {
		t.Errorf("body = %q", body)
	}

	if gotAuth != "Bearer sk-test" {
		t.Errorf("auth header = %q", gotAuth)
	}
	if gotUA != "archive-engine/test" {
		t.Errorf("user-agent header = %q", gotUA)
	}
	if gotReq.Model != "gpt-4o-mini" {
		t.Errorf("model = %q, want default gpt-4o-mini", gotReq.Model)
	}
	if gotReq.MaxTokens != 1500 {
		t.Errorf("max_tokens = %d, want default 1500", gotReq.MaxTokens)
	}
	if gotReq.Temperature != 0.3 {
		t.Errorf("temperature = %v, want default 0.3", gotReq.Temperature)
	}
	if len(gotReq.Messages) != 1 || gotReq.Messages[0].Role != "user" {
		t.Fatalf("messages = %+v", gotReq.Messages)
	}
	if !strings.Contains(gotReq.Messages[0].Content, "Document name: doc.txt") {
		t.Error("prompt not embedded in request")
	}
}

func TestOpenAIBackendAPIError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error": "model overloaded"}`, http.StatusInternalServerError)
	}))
	defer ts.Close()

	old := chatAPIURL
	chatAPIURL = ts.URL
	defer func() { chatAPIURL = old }()

	backend := NewOpenAIBackend(types.SummarizeConfig{}, ts.Client())

	_, err := backend.Summarize(context.Background(), "doc.txt", "content")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "500") {
		t.Errorf("error should carry the status code: %v", err)
	}
}

func TestOpenAIBackendEmptyChoices(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(chatResponse{})
	}))
	defer ts.Close()

	old := chatAPIURL
	chatAPIURL = ts.URL
	defer func() { chatAPIURL = old }()

	backend := NewOpenAIBackend(types.SummarizeConfig{}, ts.Client())

	_, err := backend.Summarize(context.Background(), "doc.txt", "content")
	if err == nil || !strings.Contains(err.Error(), "no content") {
		t.Errorf("expected no-content error, got %v", err)
	}
}
