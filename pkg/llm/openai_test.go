package llm

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestAggregateStream(t *testing.T) {
	tests := []struct {
		name   string
		stream string
		want   string
	}{
		{
			name: "content deltas are concatenated",
			stream: `data: {"choices":[{"delta":{"role":"assistant"}}]}

data: {"choices":[{"delta":{"content":"Hello"}}]}

data: {"choices":[{"delta":{"content":", world"}}]}

data: [DONE]
`,
			want: "Hello, world",
		},
		{
			name:   "empty stream yields empty response",
			stream: "data: [DONE]\n",
			want:   "",
		},
		{
			name: "malformed chunks are skipped",
			stream: `data: not json

data: {"choices":[{"delta":{"content":"ok"}}]}

data: [DONE]
`,
			want: "ok",
		},
		{
			name: "non-data lines are ignored",
			stream: `: keep-alive

data: {"choices":[{"delta":{"content":"x"}}]}
`,
			want: "x",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := AggregateStream(strings.NewReader(tt.stream))
			if err != nil {
				t.Fatalf("AggregateStream() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("AggregateStream() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestOpenAIClientInvoke(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("missing auth header, got %q", got)
		}
		w.Header().Set("Content-Type", "text/event-stream")
		_, _ = w.Write([]byte(`data: {"choices":[{"delta":{"content":"<h1>hi</h1>"}}]}

data: [DONE]
`))
	}))
	defer server.Close()

	client := NewOpenAIClient(server.URL, "test-key", "test-model")
	got, err := client.Invoke(context.Background(), "generate a page", Options{MaxTokens: 100, Temperature: 0.2})
	if err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}
	if got != "<h1>hi</h1>" {
		t.Errorf("Invoke() = %q", got)
	}
}

func TestOpenAIClientInvokeNonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model overloaded", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewOpenAIClient(server.URL, "", "test-model")
	_, err := client.Invoke(context.Background(), "prompt", Options{})
	if err == nil {
		t.Fatal("expected error for non-OK status")
	}
	if !strings.Contains(err.Error(), "503") {
		t.Errorf("error should carry status: %v", err)
	}
}

func TestErrorTextShape(t *testing.T) {
	if got := ErrorText(errors.New("timeout")); got != "ERROR: timeout" {
		t.Errorf("ErrorText() = %q", got)
	}
	if !IsErrorText("ERROR: timeout") {
		t.Error("IsErrorText should detect the ERROR: prefix")
	}
	if IsErrorText("all good") {
		t.Error("IsErrorText false positive")
	}
	if IsErrorText("error: lowercase") {
		t.Error("error-shape detection is case-sensitive by contract")
	}
}
