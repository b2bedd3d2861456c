package resolve

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/raysh454/apicli/internal/model"
	"github.com/raysh454/apicli/internal/utils"
)

var (
	ErrInvalidJSON    = errors.New("invalid JSON data")
	ErrInvalidURL     = errors.New("invalid URL")
	ErrBodyNotAllowed = errors.New("request body not allowed")
	ErrInvalidOutput  = errors.New("invalid output file")
)

// ParseJSONBody validates raw as JSON text and returns it compacted.
func ParseJSONBody(raw string) (json.RawMessage, error) {
	var buf bytes.Buffer
	if err := json.Compact(&buf, []byte(raw)); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidJSON, describeJSONError(raw, err))
	}
	return buf.Bytes(), nil
}

// BodyFor attaches raw to method, enforcing that the method may carry a payload.
func BodyFor(method model.Method, raw string) (json.RawMessage, error) {
	if !method.AllowsBody() {
		return nil, fmt.Errorf("%w: %s requests cannot carry a JSON payload", ErrBodyNotAllowed, method)
	}
	return ParseJSONBody(raw)
}

// ValidateURL is the interactive URL validator.
func ValidateURL(raw string) (string, error) {
	u, err := utils.NormalizeRequestURL(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidURL, err)
	}
	return u, nil
}

// ValidateOptionalJSON is the interactive body validator. An empty answer
// means no body.
func ValidateOptionalJSON(raw string) (json.RawMessage, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	return ParseJSONBody(raw)
}

// ValidateOutputPath accepts an empty answer (no file) or a path that is not
// an existing directory.
func ValidateOutputPath(raw string) (string, error) {
	p := strings.TrimSpace(raw)
	if p == "" {
		return "", nil
	}
	if info, err := os.Stat(p); err == nil && info.IsDir() {
		return "", fmt.Errorf("%w: %s is a directory", ErrInvalidOutput, p)
	}
	return p, nil
}

func describeJSONError(raw string, err error) string {
	var syn *json.SyntaxError
	if errors.As(err, &syn) {
		return fmt.Sprintf("%v (at offset %d of %q)", syn, syn.Offset, raw)
	}
	return err.Error()
}
