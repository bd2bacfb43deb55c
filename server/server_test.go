package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/richinex/switchboard/transcript"
	"github.com/richinex/switchboard/workflow"
)

// stubRunner returns a fixed result or error and records what it was given.
type stubRunner struct {
	result      workflow.Result
	err         error
	lastInput   string
	lastHistory []transcript.Turn
	calls       int
}

func (s *stubRunner) Run(ctx context.Context, inputText string, history []transcript.Turn) (workflow.Result, error) {
	s.calls++
	s.lastInput = inputText
	s.lastHistory = history
	return s.result, s.err
}

func newTestServer(runner Runner) *httptest.Server {
	handler := NewHandler(runner, nil)
	return httptest.NewServer(Router(handler, nil))
}

func postQuery(t *testing.T, url string, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url+"/query", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST /query failed: %v", err)
	}
	return resp
}

func TestQuerySuccess(t *testing.T) {
	runner := &stubRunner{
		result: workflow.Result{FinalAnswer: "the answer", Path: "internal_q_a"},
	}
	srv := newTestServer(runner)
	defer srv.Close()

	resp := postQuery(t, srv.URL, `{"input_text": "what is our policy?"}`)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var result workflow.Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if result.FinalAnswer != "the answer" {
		t.Errorf("expected 'the answer', got '%s'", result.FinalAnswer)
	}
	if result.Path != "internal_q_a" {
		t.Errorf("expected path 'internal_q_a', got '%s'", result.Path)
	}
	if runner.lastInput != "what is our policy?" {
		t.Errorf("runner got input '%s'", runner.lastInput)
	}
}

func TestQueryForwardsHistory(t *testing.T) {
	runner := &stubRunner{result: workflow.Result{FinalAnswer: "ok", Path: "agent"}}
	srv := newTestServer(runner)
	defer srv.Close()

	body := `{
		"input_text": "and then?",
		"history": [
			{"role": "user", "content": "first question"},
			{"role": "assistant", "content": "first answer"}
		]
	}`
	resp := postQuery(t, srv.URL, body)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if len(runner.lastHistory) != 2 {
		t.Fatalf("expected 2 history turns, got %d", len(runner.lastHistory))
	}
	if runner.lastHistory[0].Role != "user" || runner.lastHistory[0].Text != "first question" {
		t.Errorf("unexpected first turn: %+v", runner.lastHistory[0])
	}
}

func TestQueryEmptyInput(t *testing.T) {
	runner := &stubRunner{}
	srv := newTestServer(runner)
	defer srv.Close()

	for _, body := range []string{`{"input_text": ""}`, `{"input_text": "   "}`, `{}`} {
		resp := postQuery(t, srv.URL, body)
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("body %s: expected 400, got %d", body, resp.StatusCode)
		}
	}
	if runner.calls != 0 {
		t.Errorf("runner should not be called for empty input, got %d calls", runner.calls)
	}
}

func TestQueryMalformedJSON(t *testing.T) {
	srv := newTestServer(&stubRunner{})
	defer srv.Close()

	resp := postQuery(t, srv.URL, `{"input_text": `)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", resp.StatusCode)
	}
}

func TestQueryWorkflowFailure(t *testing.T) {
	runner := &stubRunner{err: errors.New("classify stage failed: provider unavailable")}
	srv := newTestServer(runner)
	defer srv.Close()

	resp := postQuery(t, srv.URL, `{"input_text": "hello"}`)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", resp.StatusCode)
	}

	var body struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode error body: %v", err)
	}
	if !strings.Contains(body.Error, "classify stage failed") {
		t.Errorf("expected stage error in body, got '%s'", body.Error)
	}
}

func TestQueryMethodNotAllowed(t *testing.T) {
	srv := newTestServer(&stubRunner{})
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/query")
	if err != nil {
		t.Fatalf("GET /query failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("expected 405, got %d", resp.StatusCode)
	}
}

func TestPreflightAllowsAnyHeaderAndOrigin(t *testing.T) {
	srv := newTestServer(&stubRunner{})
	defer srv.Close()

	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/query", nil)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Authorization, X-Session-Id")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("preflight request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusOK {
		t.Fatalf("expected preflight success, got %d", resp.StatusCode)
	}

	// The wildcard policy reflects the caller's origin so credentialed
	// requests pass browser checks.
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "https://app.example.com" {
		t.Errorf("expected reflected origin, got %q", got)
	}

	allowHeaders := strings.ToLower(resp.Header.Get("Access-Control-Allow-Headers"))
	for _, h := range []string{"authorization", "x-session-id"} {
		if !strings.Contains(allowHeaders, h) {
			t.Errorf("expected %q in allowed headers, got %q", h, allowHeaders)
		}
	}
}

func TestPreflightRejectsUnlistedOrigin(t *testing.T) {
	handler := NewHandler(&stubRunner{}, nil)
	srv := httptest.NewServer(Router(handler, []string{"https://allowed.example.com"}))
	defer srv.Close()

	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/query", nil)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	req.Header.Set("Origin", "https://other.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("preflight request failed: %v", err)
	}
	defer resp.Body.Close()

	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("expected no allow-origin header for unlisted origin, got %q", got)
	}
}

func TestHealth(t *testing.T) {
	srv := newTestServer(&stubRunner{})
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatalf("GET /health failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("expected status 'ok', got '%s'", body["status"])
	}
}
