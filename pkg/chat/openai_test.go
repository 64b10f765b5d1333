package chat

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestComplete(t *testing.T) {
	var got openaiChatRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
			t.Errorf("auth = %q", auth)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"Très bien!"}}]}`))
	}))
	defer srv.Close()

	p := NewOpenAIWithClient("test-key", srv.URL, srv.Client())
	reply, err := p.Complete(context.Background(), Request{
		System: "Tu es André.",
		Messages: []Message{
			{Role: RoleUser, Content: "Bonjour"},
		},
	})
	if err != nil {
		t.Fatalf("complete: %v", err)
	}

	if reply != "Très bien!" {
		t.Errorf("reply = %q", reply)
	}
	if got.Model != "gpt-4o-mini" || got.Temperature != 0.7 || got.MaxTokens != 400 {
		t.Errorf("defaults not applied: %+v", got)
	}
	if len(got.Messages) != 2 {
		t.Fatalf("messages = %+v", got.Messages)
	}
	if got.Messages[0].Role != RoleSystem || got.Messages[0].Content != "Tu es André." {
		t.Errorf("system message = %+v", got.Messages[0])
	}
	if got.Messages[1].Role != RoleUser {
		t.Errorf("user message = %+v", got.Messages[1])
	}
}

func TestComplete_NoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	p := NewOpenAIWithClient("test-key", srv.URL, srv.Client())
	if _, err := p.Complete(context.Background(), Request{}); err == nil {
		t.Fatalf("expected error on empty choices")
	}
}

func TestComplete_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "server error", http.StatusInternalServerError)
	}))
	defer srv.Close()

	p := NewOpenAIWithClient("test-key", srv.URL, srv.Client())
	if _, err := p.Complete(context.Background(), Request{}); err == nil {
		t.Fatalf("expected error on 500 response")
	}
}
