package app_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/raysh454/apicli/internal/app"
	"github.com/raysh454/apicli/internal/testutil"
	"github.com/raysh454/apicli/internal/webclient"
)

type stubBanner struct {
	err   error
	calls int
}

func (s *stubBanner) Render(w io.Writer) error {
	s.calls++
	if s.err != nil {
		return s.err
	}
	_, err := io.WriteString(w, "== banner ==\n")
	return err
}

type harness struct {
	app    *app.Application
	client *testutil.DummyWebClient
	logger *testutil.DummyLogger
	banner *stubBanner
	stdout *bytes.Buffer
	stderr *bytes.Buffer
}

func newHarness(answers ...string) *harness {
	h := &harness{
		client: &testutil.DummyWebClient{},
		logger: &testutil.DummyLogger{},
		banner: &stubBanner{},
		stdout: &bytes.Buffer{},
		stderr: &bytes.Buffer{},
	}
	h.app = &app.Application{
		Config:     app.DefaultConfig(),
		Logger:     h.logger,
		Stdout:     h.stdout,
		Stderr:     h.stderr,
		IsTerminal: func() bool { return answers != nil },
		Prompter:   &testutil.ScriptedPrompter{Answers: answers},
		Client:     h.client,
		Banner:     h.banner,
	}
	return h
}

func (h *harness) run(args ...string) int {
	return h.app.Run(context.Background(), args)
}

// ─── Help and usage ────────────────────────────────────────────────────

func TestRun_HelpExitsZeroWithoutRequest(t *testing.T) {
	t.Parallel()
	for _, flag := range []string{"--help", "-h"} {
		h := newHarness()
		if code := h.run("GET", "http://x", flag); code != app.ExitOK {
			t.Errorf("%s: exit code %d", flag, code)
		}
		if !strings.Contains(h.stdout.String(), "Usage:") {
			t.Errorf("%s: usage not printed: %q", flag, h.stdout.String())
		}
		if h.client.Calls() != 0 {
			t.Errorf("%s: made %d requests", flag, h.client.Calls())
		}
	}
}

func TestRun_HelpWinsOverBadFlags(t *testing.T) {
	t.Parallel()
	for _, args := range [][]string{
		{"-h", "--bogus"},
		{"POST", "http://x", "-x1", "--help"},
	} {
		h := newHarness()
		if code := h.run(args...); code != app.ExitOK {
			t.Errorf("%v: exit code %d, stderr %q", args, code, h.stderr.String())
		}
		if !strings.Contains(h.stdout.String(), "Usage:") {
			t.Errorf("%v: usage not printed", args)
		}
		if h.client.Calls() != 0 {
			t.Errorf("%v: made %d requests", args, h.client.Calls())
		}
	}
}

func TestRun_Version(t *testing.T) {
	t.Parallel()
	h := newHarness()
	if code := h.run("--version"); code != app.ExitOK {
		t.Fatalf("exit code %d", code)
	}
	if !strings.HasPrefix(h.stdout.String(), "apicli version ") {
		t.Errorf("stdout = %q", h.stdout.String())
	}
}

func TestRun_MissingArgumentsIsUsageError(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		args []string
	}{
		{name: "Nothing", args: nil},
		{name: "OnlyMethod", args: []string{"GET"}},
		{name: "OnlyOutput", args: []string{"--output", "r.json"}},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			h := newHarness()
			if code := h.run(tt.args...); code != app.ExitFailure {
				t.Errorf("exit code %d, want %d", code, app.ExitFailure)
			}
			if !strings.Contains(h.stderr.String(), "Usage: apicli <method> <url>") {
				t.Errorf("usage hint missing from stderr: %q", h.stderr.String())
			}
			if h.client.Calls() != 0 {
				t.Errorf("made %d requests", h.client.Calls())
			}
		})
	}
}

// ─── Input validation ──────────────────────────────────────────────────

func TestRun_InvalidInputNeverDispatches(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{name: "MalformedJSON", args: []string{"POST", "http://x/items", "{bad"}, wantErr: "invalid JSON data"},
		{name: "TrailingGarbage", args: []string{"PUT", "http://x/items/1", `{"a":1}x`}, wantErr: "invalid JSON data"},
		{name: "BodyOnGet", args: []string{"GET", "http://x/items", `{"a":1}`}, wantErr: "request body not allowed"},
		{name: "UnknownMethod", args: []string{"PATCH", "http://x/items"}, wantErr: "unsupported http method"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			h := newHarness()
			if code := h.run(tt.args...); code != app.ExitFailure {
				t.Errorf("exit code %d", code)
			}
			if !strings.Contains(h.stderr.String(), tt.wantErr) {
				t.Errorf("stderr %q does not mention %q", h.stderr.String(), tt.wantErr)
			}
			if h.client.Calls() != 0 {
				t.Errorf("dispatch invoked %d times", h.client.Calls())
			}
		})
	}
}

// ─── Non-interactive dispatch ──────────────────────────────────────────

func TestRun_SuccessWithOutputFile(t *testing.T) {
	t.Parallel()
	h := newHarness()
	h.client.Response = &webclient.Response{StatusCode: 200, Body: []byte(`{"a":1}`), FetchedAt: time.Now()}
	path := filepath.Join(t.TempDir(), "response.json")

	if code := h.run("get", "http://x/a", "--output", path); code != app.ExitOK {
		t.Fatalf("exit code %d, stderr %q", code, h.stderr.String())
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if string(data) != "{\n  \"a\": 1\n}" {
		t.Errorf("file = %q", data)
	}
	if !strings.Contains(h.stdout.String(), "Status: 200") {
		t.Errorf("stdout = %q", h.stdout.String())
	}
	if got := h.client.Requests[0]; got.Method != "GET" || got.URL != "http://x/a" || got.Body != nil {
		t.Errorf("unexpected request %+v", got)
	}
	if h.banner.calls != 0 {
		t.Error("banner rendered in plain non-interactive mode")
	}
}

func TestRun_TransportFailure(t *testing.T) {
	t.Parallel()
	h := newHarness()
	h.client.Err = &url.Error{Op: "Get", URL: "http://127.0.0.1:1", Err: errors.New("dial tcp 127.0.0.1:1: connect: connection refused")}
	path := filepath.Join(t.TempDir(), "response.json")

	if code := h.run("GET", "http://127.0.0.1:1", "--output", path); code != app.ExitOK {
		t.Fatalf("exit code %d", code)
	}

	if h.stderr.String() != "Error: dial tcp 127.0.0.1:1: connect: connection refused\n" {
		t.Errorf("stderr = %q", h.stderr.String())
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("output file written on transport failure: %v", err)
	}
	if h.stdout.Len() != 0 {
		t.Errorf("stdout = %q", h.stdout.String())
	}
}

func TestRun_RemoteErrorResponse(t *testing.T) {
	t.Parallel()
	h := newHarness()
	h.client.Response = &webclient.Response{StatusCode: 404, Body: []byte(`{"error":"not found"}`)}
	path := filepath.Join(t.TempDir(), "response.json")

	if code := h.run("DELETE", "http://x/items/9", "-o", path); code != app.ExitOK {
		t.Fatalf("exit code %d", code)
	}

	if !strings.Contains(h.stderr.String(), "404") || !strings.Contains(h.stderr.String(), `"error": "not found"`) {
		t.Errorf("stderr = %q", h.stderr.String())
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("output file written on remote error: %v", err)
	}
}

func TestRun_TextBodyKeepsHTMLCharacters(t *testing.T) {
	t.Parallel()
	h := newHarness()
	h.client.Response = &webclient.Response{StatusCode: 200, Body: []byte("<h1>Tom & Jerry</h1>")}
	path := filepath.Join(t.TempDir(), "page.json")

	if code := h.run("GET", "http://x/page", "--output", path); code != app.ExitOK {
		t.Fatalf("exit code %d, stderr %q", code, h.stderr.String())
	}

	const want = `"<h1>Tom & Jerry</h1>"`
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if string(data) != want {
		t.Errorf("file = %q, want %q", data, want)
	}
	if !strings.Contains(h.stdout.String(), "Data: "+want+"\n") {
		t.Errorf("stdout = %q", h.stdout.String())
	}
}

func TestRun_NegativeNumberBody(t *testing.T) {
	t.Parallel()
	h := newHarness()

	if code := h.run("POST", "http://x/counter", "-1"); code != app.ExitOK {
		t.Fatalf("exit code %d, stderr %q", code, h.stderr.String())
	}
	if h.client.Calls() != 1 || string(h.client.Requests[0].Body) != "-1" {
		t.Errorf("requests = %+v", h.client.Requests)
	}
}

func TestRun_SaveFailureReportedOnce(t *testing.T) {
	t.Parallel()
	h := newHarness()
	path := filepath.Join(t.TempDir(), "missing", "r.json")

	if code := h.run("GET", "http://x", "-o", path); code != app.ExitOK {
		t.Fatalf("exit code %d", code)
	}
	if got := strings.Count(h.stderr.String(), "could not save response"); got != 1 {
		t.Errorf("save error printed %d times: %q", got, h.stderr.String())
	}
	if h.logger.WarnCount() != 0 {
		t.Errorf("save error also logged: %v", h.logger.Warns)
	}
}

func TestRun_BannerFlagAndBannerFailure(t *testing.T) {
	t.Parallel()
	h := newHarness()
	h.banner.err = errors.New("font missing")

	if code := h.run("--banner", "GET", "http://x"); code != app.ExitOK {
		t.Fatalf("exit code %d", code)
	}
	if h.banner.calls != 1 {
		t.Errorf("banner calls = %d", h.banner.calls)
	}
	if h.logger.WarnCount() != 1 {
		t.Errorf("expected the banner failure to be logged, warns = %v", h.logger.Warns)
	}
	if h.client.Calls() != 1 {
		t.Errorf("request not performed after banner failure")
	}
}

func TestRun_EndToEndAgainstAPIServer(t *testing.T) {
	t.Parallel()
	srv := testutil.NewAPIServer(t)
	var stdout, stderr bytes.Buffer
	a := &app.Application{
		Config: app.DefaultConfig(),
		Logger: &testutil.DummyLogger{},
		Stdout: &stdout,
		Stderr: &stderr,
	}

	code := a.Run(context.Background(), []string{"post", srv.URL + "/items", `{"name": "x"}`, "-H", "X-Trace: e2e"})
	if code != app.ExitOK {
		t.Fatalf("exit code %d, stderr %q", code, stderr.String())
	}

	if want := "Status: 201\nData: {\n  \"name\": \"x\"\n}\n"; stdout.String() != want {
		t.Errorf("stdout = %q, want %q", stdout.String(), want)
	}
	reqs := srv.Requests()
	if len(reqs) != 1 {
		t.Fatalf("expected 1 request, got %d", len(reqs))
	}
	if reqs[0].Body != `{"name":"x"}` || reqs[0].Headers.Get("X-Trace") != "e2e" {
		t.Errorf("server saw %+v", reqs[0])
	}
	if !strings.HasPrefix(reqs[0].Headers.Get("User-Agent"), "apicli/") {
		t.Errorf("User-Agent = %q", reqs[0].Headers.Get("User-Agent"))
	}
}

// ─── Interactive mode ──────────────────────────────────────────────────

func TestRun_InteractiveRepromptsUntilValid(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "out.json")
	h := newHarness(
		"POST",
		"not a url", "ftp://x/y", "http://api.example.com/items",
		"{bad", `{"a": [1, 2]}`,
		path,
	)

	if code := h.run(); code != app.ExitOK {
		t.Fatalf("exit code %d, stderr %q", code, h.stderr.String())
	}

	if got := strings.Count(h.stderr.String(), "✗"); got != 3 {
		t.Errorf("expected 3 inline rejections, got %d: %q", got, h.stderr.String())
	}
	if h.client.Calls() != 1 {
		t.Fatalf("expected one request, got %d", h.client.Calls())
	}
	req := h.client.Requests[0]
	if req.Method != "POST" || req.URL != "http://api.example.com/items" || string(req.Body) != `{"a":[1,2]}` {
		t.Errorf("unexpected request %s %s %s", req.Method, req.URL, req.Body)
	}
	if h.banner.calls != 1 {
		t.Errorf("banner calls = %d", h.banner.calls)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("output file not written: %v", err)
	}
}

func TestRun_InteractiveGetSkipsBodyPrompt(t *testing.T) {
	t.Parallel()
	h := newHarness("GET", "https://api.example.com/items/1", "")
	prompter := h.app.Prompter.(*testutil.ScriptedPrompter)

	if code := h.run("--interactive"); code != app.ExitOK {
		t.Fatalf("exit code %d", code)
	}
	if len(prompter.Labels) != 3 {
		t.Errorf("expected 3 prompts (method, url, output), got %v", prompter.Labels)
	}
	if h.client.Requests[0].Body != nil {
		t.Errorf("GET carried a body")
	}
}

func TestRun_InteractiveAbortExitsNonZero(t *testing.T) {
	t.Parallel()
	h := newHarness("PUT", "http://x/items/1")

	if code := h.run(); code != app.ExitFailure {
		t.Fatalf("exit code %d", code)
	}
	if !strings.Contains(h.stderr.String(), "prompt aborted") {
		t.Errorf("stderr = %q", h.stderr.String())
	}
	if h.client.Calls() != 0 {
		t.Errorf("made %d requests", h.client.Calls())
	}
}
