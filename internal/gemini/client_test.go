package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// TestCompleteReturnsCandidateText checks request shape and text extraction.
func TestCompleteReturnsCandidateText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, "models/gemini-1.5-flash:generateContent") {
			t.Errorf("path = %q", r.URL.Path)
		}
		if r.URL.Query().Get("key") != "test-key" {
			t.Errorf("key = %q, want test-key", r.URL.Query().Get("key"))
		}

		var req generateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if len(req.Contents) != 1 || req.Contents[0].Parts[0].Text != "analyze this" {
			t.Errorf("unexpected request contents: %+v", req.Contents)
		}
		if req.GenerationConfig == nil || req.GenerationConfig.Temperature != 0.3 {
			t.Errorf("unexpected generation config: %+v", req.GenerationConfig)
		}

		json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{"parts": []map[string]any{
					{"text": "part one"},
					{"text": "part two"},
				}}},
			},
		})
	}))
	defer srv.Close()

	client := NewClient("test-key", "gemini-1.5-flash").WithBaseURL(srv.URL)
	got, err := client.Complete(context.Background(), "analyze this")
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if got != "part one\npart two" {
		t.Fatalf("text = %q", got)
	}
}

// TestCompleteMissingAPIKey checks the configuration sentinel.
func TestCompleteMissingAPIKey(t *testing.T) {
	client := NewClient("", "gemini-1.5-flash")
	if _, err := client.Complete(context.Background(), "x"); !errors.Is(err, ErrMissingAPIKey) {
		t.Fatalf("error = %v, want ErrMissingAPIKey", err)
	}
}

// TestCompleteSurfacesAPIError checks non-2xx handling with message.
func TestCompleteSurfacesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"message": "quota exceeded"},
		})
	}))
	defer srv.Close()

	client := NewClient("k", "gemini-1.5-flash").WithBaseURL(srv.URL)
	_, err := client.Complete(context.Background(), "x")

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error type = %T, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("status = %d", apiErr.StatusCode)
	}
	if !strings.Contains(apiErr.Error(), "quota exceeded") {
		t.Fatalf("message = %q", apiErr.Error())
	}
}

// TestCompleteEmptyCandidates checks the presence check on responses.
func TestCompleteEmptyCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"candidates": []any{}})
	}))
	defer srv.Close()

	client := NewClient("k", "gemini-1.5-flash").WithBaseURL(srv.URL)
	if _, err := client.Complete(context.Background(), "x"); err == nil {
		t.Fatal("expected error for empty candidates")
	}
}
