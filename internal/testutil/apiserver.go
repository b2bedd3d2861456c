package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
)

// RecordedRequest is what the fixture server saw for one call.
type RecordedRequest struct {
	Method  string
	Path    string
	Headers http.Header
	Body    string
}

// APIServer is a small JSON API used as the remote end in tests.
//
//	GET    /items/{id}  -> 200 {"id":"<id>","name":"widget"}
//	POST   /items       -> 201 echo of the request body
//	PUT    /items/{id}  -> 200 echo of the request body
//	DELETE /items/{id}  -> 204 no body
//	GET    /text        -> 200 text/plain "plain text"
//	*      /missing     -> 404 {"error":"not found"}
//	GET    /boom        -> 500 {"error":"boom"}
type APIServer struct {
	*httptest.Server

	mu       sync.Mutex
	requests []RecordedRequest
}

// NewAPIServer starts the fixture server and closes it when the test ends.
func NewAPIServer(t testing.TB) *APIServer {
	t.Helper()
	s := &APIServer{}

	r := chi.NewRouter()
	r.Use(s.record)
	r.Get("/items/{id}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"id": chi.URLParam(r, "id"), "name": "widget"})
	})
	r.Post("/items", echo(http.StatusCreated))
	r.Put("/items/{id}", echo(http.StatusOK))
	r.Delete("/items/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	r.Get("/text", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = io.WriteString(w, "plain text")
	})
	r.HandleFunc("/missing", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"error":"not found"}`)
	})
	r.Get("/boom", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "boom"})
	})

	s.Server = httptest.NewServer(r)
	t.Cleanup(s.Close)
	return s
}

// Requests returns a copy of everything received so far.
func (s *APIServer) Requests() []RecordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]RecordedRequest(nil), s.requests...)
}

func (s *APIServer) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		_ = r.Body.Close()
		s.mu.Lock()
		s.requests = append(s.requests, RecordedRequest{
			Method:  r.Method,
			Path:    r.URL.Path,
			Headers: r.Header.Clone(),
			Body:    string(body),
		})
		s.mu.Unlock()
		r.Body = io.NopCloser(bytes.NewReader(body))
		next.ServeHTTP(w, r)
	})
}

func echo(status int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write(body)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
