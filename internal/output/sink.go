package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/raysh454/apicli/internal/logging"
	"github.com/raysh454/apicli/internal/model"
)

// Sink renders outcomes to the terminal and saves successful bodies.
type Sink struct {
	out    io.Writer
	errOut io.Writer
	logger logging.Logger
}

// New creates a Sink printing results to out and failures to errOut.
func New(out, errOut io.Writer, logger logging.Logger) *Sink {
	if logger == nil {
		logger = logging.Nop{}
	}
	return &Sink{
		out:    out,
		errOut: errOut,
		logger: logger.With(logging.F("component", "output")),
	}
}

// Render prints whichever of res or fail is set. The body is persisted to
// desc.OutputPath only on success; a persistence error is reported on the
// error stream and returned.
func (s *Sink) Render(desc *model.RequestDescriptor, res *model.ResponseResult, fail *model.RequestFailure) error {
	if fail != nil {
		s.Failure(fail)
		if desc != nil && desc.OutputPath != "" {
			s.logger.Debug("skipping output file after failed request", logging.F("path", desc.OutputPath))
		}
		return nil
	}
	if res == nil {
		return nil
	}

	s.Success(res)
	if desc == nil || desc.OutputPath == "" {
		return nil
	}
	if err := s.Persist(desc.OutputPath, res.Body); err != nil {
		fmt.Fprintf(s.errOut, "Error: could not save response: %v\n", err)
		return err
	}
	fmt.Fprintf(s.out, "Response data saved to %s\n", desc.OutputPath)
	return nil
}

// Success prints the status code and the pretty-printed body.
func (s *Sink) Success(res *model.ResponseResult) {
	fmt.Fprintf(s.out, "Status: %d\n", res.StatusCode)
	fmt.Fprintf(s.out, "Data: %s\n", pretty(res.Body))
}

// Failure prints status and body for a remote error response, or only the
// message for a transport failure.
func (s *Sink) Failure(fail *model.RequestFailure) {
	if fail.IsTransportError {
		fmt.Fprintf(s.errOut, "Error: %s\n", fail.Message)
		return
	}
	fmt.Fprintf(s.errOut, "Error Status: %d\n", fail.StatusCode)
	fmt.Fprintf(s.errOut, "Error Data: %s\n", pretty(fail.Payload))
}

// Persist writes body as 2-space indented JSON to path in a single write,
// replacing any existing file.
func (s *Sink) Persist(path string, body json.RawMessage) error {
	data, err := model.Indent(body)
	if err != nil {
		return fmt.Errorf("format response body: %w", err)
	}

	if logging.DebugEnabled(s.logger) {
		s.logOverwrite(path, data)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	s.logger.Debug("response saved", logging.F("path", path), logging.F("bytes", len(data)))
	return nil
}

func (s *Sink) logOverwrite(path string, data []byte) {
	prev, err := os.ReadFile(path)
	if err != nil || bytes.Equal(prev, data) {
		return
	}
	ins, del := diffSize(prev, data)
	s.logger.Debug("overwriting output file",
		logging.F("path", path),
		logging.F("inserted", ins),
		logging.F("deleted", del))
}

// diffSize counts inserted and deleted characters between two file versions.
func diffSize(base, head []byte) (inserted, deleted int) {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(string(base), string(head), false)
	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			inserted += len(d.Text)
		case diffmatchpatch.DiffDelete:
			deleted += len(d.Text)
		}
	}
	return inserted, deleted
}

func pretty(v json.RawMessage) string {
	if len(v) == 0 {
		return "null"
	}
	out, err := model.Indent(v)
	if err != nil {
		return string(v)
	}
	return string(out)
}
