package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func upstream(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func replyWith(text string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"content": []map[string]string{{"type": "text", "text": text}},
		})
	}
}

func TestClientSendsMessagesRequest(t *testing.T) {
	var got messagesRequest
	var apiKey, version string
	srv := upstream(t, func(w http.ResponseWriter, r *http.Request) {
		apiKey = r.Header.Get("x-api-key")
		version = r.Header.Get("anthropic-version")
		json.NewDecoder(r.Body).Decode(&got)
		replyWith("hello")(w, r)
	})

	c := NewClient(ClientConfig{URL: srv.URL, APIKey: "k", Model: "m", Timeout: time.Second})
	text, err := c.Complete(context.Background(), Prompt{
		System:    "sys",
		Messages:  []Message{{Role: "user", Content: "hi"}},
		MaxTokens: 42,
	})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if text != "hello" {
		t.Errorf("text = %q", text)
	}
	if apiKey != "k" || version != DefaultAPIVersion {
		t.Errorf("headers: key=%q version=%q", apiKey, version)
	}
	if got.Model != "m" || got.MaxTokens != 42 || got.System != "sys" || len(got.Messages) != 1 {
		t.Errorf("unexpected payload: %+v", got)
	}
}

func TestClientErrorKinds(t *testing.T) {
	closed := httptest.NewServer(http.NotFoundHandler())
	closedURL := closed.URL
	closed.Close()

	tests := []struct {
		name    string
		url     func(t *testing.T) string
		timeout time.Duration
		want    error
	}{
		{
			name: "status",
			url: func(t *testing.T) string {
				return upstream(t, func(w http.ResponseWriter, r *http.Request) {
					http.Error(w, "overloaded", http.StatusServiceUnavailable)
				}).URL
			},
			want: ErrUpstreamStatus,
		},
		{
			name: "malformed body",
			url: func(t *testing.T) string {
				return upstream(t, func(w http.ResponseWriter, r *http.Request) {
					w.Write([]byte("not json"))
				}).URL
			},
			want: ErrMalformedResponse,
		},
		{
			name: "empty content",
			url: func(t *testing.T) string {
				return upstream(t, func(w http.ResponseWriter, r *http.Request) {
					w.Write([]byte(`{"content":[]}`))
				}).URL
			},
			want: ErrMalformedResponse,
		},
		{
			name: "timeout",
			url: func(t *testing.T) string {
				return upstream(t, func(w http.ResponseWriter, r *http.Request) {
					time.Sleep(300 * time.Millisecond)
					replyWith("late")(w, r)
				}).URL
			},
			timeout: 50 * time.Millisecond,
			want:    ErrTimeout,
		},
		{
			name: "transport",
			url:  func(t *testing.T) string { return closedURL },
			want: ErrTransport,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			timeout := tt.timeout
			if timeout == 0 {
				timeout = 2 * time.Second
			}
			c := NewClient(ClientConfig{URL: tt.url(t), Model: "m", Timeout: timeout})
			_, err := c.Complete(context.Background(), Prompt{Messages: []Message{{Role: "user", Content: "hi"}}, MaxTokens: 10})
			if !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}
}
