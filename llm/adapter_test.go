package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestAdapter_Execute(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/mock-model" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer k1" {
			t.Errorf("unexpected auth %q", got)
		}
		var req CompletionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if req.Temperature != 0.2 || req.MaxTokens != 100 {
			t.Errorf("defaults not applied: %+v", req)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"content": "hi " + req.Messages[0].Content})
	}))
	defer srv.Close()

	a, err := NewWithDialect(&mockDialect{}, Config{BaseURL: srv.URL, APIKey: "k1", Temperature: 0.2, MaxTokens: 100})
	if err != nil {
		t.Fatalf("NewWithDialect: %v", err)
	}
	defer a.Close()

	resp, err := a.Execute(context.Background(), CompletionRequest{Messages: []Message{{Role: "user", Content: "there"}}})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if resp.Content != "hi there" {
		t.Errorf("Content = %q", resp.Content)
	}
	if resp.Model != "mock-model" {
		t.Errorf("Model = %q, want fallback to request model", resp.Model)
	}
	if a.Name() != "mock" {
		t.Errorf("Name = %q", a.Name())
	}
}

func TestAdapter_ExecuteUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"quota exceeded"}}`))
	}))
	defer srv.Close()

	a, _ := NewWithDialect(&mockDialect{}, Config{BaseURL: srv.URL})
	_, err := a.Execute(context.Background(), CompletionRequest{})
	if err == nil {
		t.Fatal("expected error")
	}
	if got := err.Error(); got != "llm: mock: HTTP 429: quota exceeded" {
		t.Errorf("unexpected error %q", got)
	}
}

func TestAdapter_IsAvailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			_, _ = w.Write([]byte(`{}`))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	ok, _ := NewWithDialect(&mockDialect{health: "/health"}, Config{BaseURL: srv.URL})
	if !ok.IsAvailable(context.Background()) {
		t.Error("expected available")
	}
	bad, _ := NewWithDialect(&mockDialect{health: "/missing"}, Config{BaseURL: srv.URL})
	if bad.IsAvailable(context.Background()) {
		t.Error("expected unavailable")
	}
	none, _ := NewWithDialect(&mockDialect{}, Config{BaseURL: srv.URL})
	if !none.IsAvailable(context.Background()) {
		t.Error("no health path should report available")
	}
}

func TestNewWithDialect_Nil(t *testing.T) {
	if _, err := NewWithDialect(nil, Config{}); err != ErrNoDialect {
		t.Errorf("expected ErrNoDialect, got %v", err)
	}
}
