package resolve_test

import (
	"bytes"
	"errors"
	"net/http"
	"path/filepath"
	"strings"
	"testing"

	"github.com/raysh454/apicli/internal/cli"
	"github.com/raysh454/apicli/internal/model"
	"github.com/raysh454/apicli/internal/prompt"
	"github.com/raysh454/apicli/internal/resolve"
	"github.com/raysh454/apicli/internal/testutil"
)

// ─── FromArgs ──────────────────────────────────────────────────────────

func TestFromArgs_NormalizesMethodAndCompactsBody(t *testing.T) {
	t.Parallel()
	r := resolve.New(nil, nil, &testutil.DummyLogger{})
	args := &cli.CLIArgs{
		Method:     "post",
		URL:        "http://localhost:3000/items",
		Data:       "{ \"name\" : \"x\" }",
		HasData:    true,
		OutputPath: "out.json",
		Headers:    http.Header{"X-Trace": {"1"}},
	}

	desc, err := r.FromArgs(args)
	if err != nil {
		t.Fatalf("FromArgs: %v", err)
	}
	if desc.Method != model.MethodPost {
		t.Errorf("method = %q", desc.Method)
	}
	if string(desc.Body) != `{"name":"x"}` {
		t.Errorf("body = %s", desc.Body)
	}
	if desc.URL != args.URL || desc.OutputPath != "out.json" {
		t.Errorf("unexpected descriptor %+v", desc)
	}

	args.Headers.Set("X-Trace", "2")
	if desc.Headers.Get("X-Trace") != "1" {
		t.Error("descriptor headers alias the parsed arguments")
	}
}

func TestFromArgs_URLPassedThrough(t *testing.T) {
	t.Parallel()
	r := resolve.New(nil, nil, nil)
	desc, err := r.FromArgs(&cli.CLIArgs{Method: "GET", URL: "localhost:3000/x"})
	if err != nil {
		t.Fatalf("FromArgs: %v", err)
	}
	if desc.URL != "localhost:3000/x" {
		t.Errorf("url rewritten to %q", desc.URL)
	}
}

func TestFromArgs_Errors(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		args *cli.CLIArgs
		want error
	}{
		{name: "Nil", args: nil, want: cli.ErrUsage},
		{name: "MissingURL", args: &cli.CLIArgs{Method: "GET"}, want: cli.ErrUsage},
		{name: "UnknownMethod", args: &cli.CLIArgs{Method: "FETCH", URL: "http://x"}, want: model.ErrUnknownMethod},
		{name: "BadJSON", args: &cli.CLIArgs{Method: "PUT", URL: "http://x", Data: "{bad", HasData: true}, want: resolve.ErrInvalidJSON},
		{name: "EmptyJSON", args: &cli.CLIArgs{Method: "POST", URL: "http://x", Data: "", HasData: true}, want: resolve.ErrInvalidJSON},
		{name: "BodyOnGet", args: &cli.CLIArgs{Method: "get", URL: "http://x", Data: "{}", HasData: true}, want: resolve.ErrBodyNotAllowed},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := resolve.New(nil, nil, nil).FromArgs(tt.args)
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestFromArgs_DeleteMayCarryBody(t *testing.T) {
	t.Parallel()
	desc, err := resolve.New(nil, nil, nil).FromArgs(&cli.CLIArgs{
		Method: "DELETE", URL: "http://x/items/1", Data: `[1,2]`, HasData: true,
	})
	if err != nil {
		t.Fatalf("FromArgs: %v", err)
	}
	if string(desc.Body) != "[1,2]" {
		t.Errorf("body = %s", desc.Body)
	}
}

// ─── Interactive ───────────────────────────────────────────────────────

func TestInteractive_FullFlow(t *testing.T) {
	t.Parallel()
	p := &testutil.ScriptedPrompter{Answers: []string{
		"put",
		"", "HTTP://Bücher.example/items/1",
		`{"a":`, `{"a": true}`,
		"result.json",
	}}
	var errOut bytes.Buffer
	r := resolve.New(p, &errOut, nil)

	desc, err := r.Interactive(&cli.CLIArgs{Headers: http.Header{"Authorization": {"Bearer t"}}})
	if err != nil {
		t.Fatalf("Interactive: %v", err)
	}

	if desc.Method != model.MethodPut {
		t.Errorf("method = %q", desc.Method)
	}
	if desc.URL != "http://xn--bcher-kva.example/items/1" {
		t.Errorf("url = %q", desc.URL)
	}
	if string(desc.Body) != `{"a":true}` {
		t.Errorf("body = %s", desc.Body)
	}
	if desc.OutputPath != "result.json" {
		t.Errorf("output = %q", desc.OutputPath)
	}
	if desc.Headers.Get("Authorization") != "Bearer t" {
		t.Errorf("headers = %v", desc.Headers)
	}

	lines := strings.Split(strings.TrimSpace(errOut.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 rejections, got %q", errOut.String())
	}
	if !strings.Contains(lines[0], resolve.ErrInvalidURL.Error()) || !strings.Contains(lines[1], resolve.ErrInvalidJSON.Error()) {
		t.Errorf("unexpected rejection messages %q", lines)
	}
}

func TestInteractive_EmptyBodyMeansNone(t *testing.T) {
	t.Parallel()
	p := &testutil.ScriptedPrompter{Answers: []string{"POST", "https://example.com", "   ", ""}}
	desc, err := resolve.New(p, nil, nil).Interactive(nil)
	if err != nil {
		t.Fatalf("Interactive: %v", err)
	}
	if desc.HasBody() || desc.OutputPath != "" {
		t.Errorf("unexpected descriptor %+v", desc)
	}
}

func TestInteractive_ReusesOutputFlag(t *testing.T) {
	t.Parallel()
	p := &testutil.ScriptedPrompter{Answers: []string{"GET", "https://example.com"}}
	desc, err := resolve.New(p, nil, nil).Interactive(&cli.CLIArgs{OutputPath: "given.json"})
	if err != nil {
		t.Fatalf("Interactive: %v", err)
	}
	if desc.OutputPath != "given.json" {
		t.Errorf("output = %q", desc.OutputPath)
	}
	if len(p.Labels) != 2 {
		t.Errorf("prompted %d times: %v", len(p.Labels), p.Labels)
	}
}

func TestInteractive_RejectsDirectoryAsOutput(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	file := filepath.Join(dir, "ok.json")
	p := &testutil.ScriptedPrompter{Answers: []string{"GET", "https://example.com", dir, file}}
	var errOut bytes.Buffer

	desc, err := resolve.New(p, &errOut, nil).Interactive(nil)
	if err != nil {
		t.Fatalf("Interactive: %v", err)
	}
	if desc.OutputPath != file {
		t.Errorf("output = %q", desc.OutputPath)
	}
	if !strings.Contains(errOut.String(), "is a directory") {
		t.Errorf("errOut = %q", errOut.String())
	}
}

func TestInteractive_Abort(t *testing.T) {
	t.Parallel()
	p := &testutil.ScriptedPrompter{Answers: []string{"DELETE"}}
	_, err := resolve.New(p, nil, nil).Interactive(nil)
	if !errors.Is(err, prompt.ErrAborted) {
		t.Fatalf("err = %v, want ErrAborted", err)
	}

	if _, err := resolve.New(nil, nil, nil).Interactive(nil); !errors.Is(err, prompt.ErrAborted) {
		t.Fatalf("nil prompter: err = %v", err)
	}
}
