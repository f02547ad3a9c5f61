// Package inference tests
package inference

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func completionBody(content string) string {
	resp := map[string]any{
		"id":    "cmpl-1",
		"model": "gpt-4o-mini",
		"choices": []map[string]any{
			{"index": 0, "message": map[string]string{"role": "assistant", "content": content}},
		},
		"usage": map[string]int{"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15},
	}
	b, _ := json.Marshal(resp)
	return string(b)
}

func TestNewOpenAIClient_RequiresBaseURL(t *testing.T) {
	if _, err := NewOpenAIClient(&OpenAIConfig{}); err == nil {
		t.Fatal("expected error for missing base URL")
	}
}

func TestComplete(t *testing.T) {
	var gotAuth string
	var gotReq openAIRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewDecoder(r.Body).Decode(&gotReq)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(completionBody(`{"response":"ok","actions":[]}`)))
	}))
	defer srv.Close()

	client, err := NewOpenAIClient(&OpenAIConfig{BaseURL: srv.URL, APIKey: "sk-test", Model: "gpt-4o-mini"})
	if err != nil {
		t.Fatalf("NewOpenAIClient() failed: %v", err)
	}

	content, err := client.Complete(context.Background(), "system prompt", "user message")
	if err != nil {
		t.Fatalf("Complete() failed: %v", err)
	}

	if content != `{"response":"ok","actions":[]}` {
		t.Errorf("unexpected content: %q", content)
	}
	if gotAuth != "Bearer sk-test" {
		t.Errorf("expected bearer auth, got %q", gotAuth)
	}
	if len(gotReq.Messages) != 2 || gotReq.Messages[0].Role != "system" || gotReq.Messages[1].Role != "user" {
		t.Errorf("expected system+user messages, got %+v", gotReq.Messages)
	}
	if gotReq.ResponseFormat == nil || gotReq.ResponseFormat.Type != "json_object" {
		t.Errorf("expected json_object response format, got %+v", gotReq.ResponseFormat)
	}
}

func TestComplete_NoAPIKey(t *testing.T) {
	client, err := NewOpenAIClient(&OpenAIConfig{BaseURL: "http://localhost:1"})
	if err != nil {
		t.Fatalf("NewOpenAIClient() failed: %v", err)
	}
	if client.Configured() {
		t.Error("expected Configured()=false without key")
	}
	if _, err := client.Complete(context.Background(), "sys", "msg"); err == nil {
		t.Fatal("expected error without API key")
	}
}

func TestComplete_QuotaClassification(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		wantQuota bool
	}{
		{"429 is quota", http.StatusTooManyRequests, `{"error":{"message":"rate limited"}}`, true},
		{"quota in body", http.StatusBadRequest, `{"error":{"message":"You exceeded your current quota"}}`, true},
		{"billing in body", http.StatusForbidden, `{"error":{"message":"billing hard limit reached"}}`, true},
		{"plain server error", http.StatusInternalServerError, `boom`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			client, _ := NewOpenAIClient(&OpenAIConfig{BaseURL: srv.URL, APIKey: "sk-test"})
			_, err := client.Complete(context.Background(), "sys", "msg")
			if err == nil {
				t.Fatal("expected error")
			}
			if got := errors.Is(err, ErrQuotaExceeded); got != tt.wantQuota {
				t.Errorf("errors.Is(err, ErrQuotaExceeded)=%v, want %v (err=%v)", got, tt.wantQuota, err)
			}
		})
	}
}

func TestComplete_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json at all"))
	}))
	defer srv.Close()

	client, _ := NewOpenAIClient(&OpenAIConfig{BaseURL: srv.URL, APIKey: "sk-test"})
	if _, err := client.Complete(context.Background(), "sys", "msg"); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestComplete_NoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":"cmpl-1","choices":[]}`))
	}))
	defer srv.Close()

	client, _ := NewOpenAIClient(&OpenAIConfig{BaseURL: srv.URL, APIKey: "sk-test"})
	if _, err := client.Complete(context.Background(), "sys", "msg"); err == nil {
		t.Fatal("expected error for empty choices")
	}
}
