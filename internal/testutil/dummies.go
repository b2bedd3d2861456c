// Package testutil provides shared test doubles for use across package tests.
// All dummies implement the corresponding interfaces from the production code,
// allowing injection into components under test without real I/O or side effects.
package testutil

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/raysh454/apicli/internal/logging"
	"github.com/raysh454/apicli/internal/webclient"
)

// ─── Logger ────────────────────────────────────────────────────────────

// DummyLogger implements logging.Logger with in-memory recording.
// Set DebugOff to make it report debug as disabled.
type DummyLogger struct {
	DebugOff bool

	mu     sync.Mutex
	Errors []string
	Infos  []string
	Debugs []string
	Warns  []string
}

func (l *DummyLogger) Debug(msg string, fields ...logging.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Debugs = append(l.Debugs, msg)
}

func (l *DummyLogger) Info(msg string, fields ...logging.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Infos = append(l.Infos, msg)
}

func (l *DummyLogger) Warn(msg string, fields ...logging.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Warns = append(l.Warns, msg)
}

func (l *DummyLogger) Error(msg string, fields ...logging.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Errors = append(l.Errors, msg)
}

func (l *DummyLogger) With(_ ...logging.Field) logging.Logger { return l }

func (l *DummyLogger) DebugEnabled() bool { return !l.DebugOff }

// WarnCount returns the number of recorded warnings.
func (l *DummyLogger) WarnCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.Warns)
}

// ─── WebClient ─────────────────────────────────────────────────────────

// DummyWebClient implements webclient.WebClient.
// By default it returns body `{"ok":true}` with status 200. Set Response to
// control the reply, or Err to simulate a transport failure.
type DummyWebClient struct {
	ResponseDelay time.Duration
	Response      *webclient.Response
	Err           error

	mu       sync.Mutex
	Requests []*webclient.Request
}

func (d *DummyWebClient) Do(ctx context.Context, req *webclient.Request) (*webclient.Response, error) {
	if d.ResponseDelay > 0 {
		select {
		case <-time.After(d.ResponseDelay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	d.mu.Lock()
	d.Requests = append(d.Requests, req)
	d.mu.Unlock()

	if d.Err != nil {
		return nil, d.Err
	}
	if d.Response != nil {
		resp := *d.Response
		resp.Request = req
		return &resp, nil
	}
	return &webclient.Response{
		Request:    req,
		Body:       []byte(`{"ok":true}`),
		StatusCode: 200,
		FetchedAt:  time.Now(),
	}, nil
}

func (d *DummyWebClient) Close() error { return nil }

// Calls returns how many requests reached the client.
func (d *DummyWebClient) Calls() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.Requests)
}

// ─── Prompter ──────────────────────────────────────────────────────────

// ScriptedPrompter implements prompt.Prompter by replaying Answers in order.
// Select and Input share the same queue. When the queue is exhausted it
// returns io.EOF, like a closed terminal.
type ScriptedPrompter struct {
	Answers []string

	mu     sync.Mutex
	Labels []string
}

func (s *ScriptedPrompter) next(label string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Labels = append(s.Labels, label)
	if len(s.Answers) == 0 {
		return "", io.EOF
	}
	a := s.Answers[0]
	s.Answers = s.Answers[1:]
	return a, nil
}

func (s *ScriptedPrompter) Select(label string, _ []string) (string, error) {
	return s.next(label)
}

func (s *ScriptedPrompter) Input(label string) (string, error) {
	return s.next(label)
}
