package model

import (
	"bytes"
	"encoding/json"
)

// DecodeBody turns a raw HTTP body into a JSON value. Valid JSON is kept
// verbatim, an empty body becomes null and anything else becomes a JSON string.
func DecodeBody(raw []byte) json.RawMessage {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return json.RawMessage("null")
	}
	if json.Valid(trimmed) {
		out := make([]byte, len(trimmed))
		copy(out, trimmed)
		return out
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(string(raw))
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n"))
}

// Indent renders a JSON value with 2-space indentation, preserving key order
// and leaving HTML characters unescaped.
func Indent(v json.RawMessage) ([]byte, error) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, v, "", "  "); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
