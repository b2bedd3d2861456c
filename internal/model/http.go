package model

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// RequestDescriptor is the resolved, validated representation of one request.
// It is built once by the resolver and consumed once by the dispatcher.
type RequestDescriptor struct {
	Method Method
	URL    string
	// Body is compacted JSON, nil when the request carries no payload.
	Body json.RawMessage
	// OutputPath is where a successful response body is saved. Empty means none.
	OutputPath string
	Headers    http.Header
}

// HasBody reports whether a payload is attached.
func (d *RequestDescriptor) HasBody() bool {
	return d != nil && len(d.Body) > 0
}

// ResponseResult is a successful (2xx) response.
type ResponseResult struct {
	RequestID  string
	StatusCode int
	Body       json.RawMessage
	Headers    http.Header
	Duration   time.Duration
}

// RequestFailure is either a transport error (no response) or a remote error
// response (non-2xx). StatusCode and Payload are zero for transport errors.
type RequestFailure struct {
	RequestID        string
	IsTransportError bool
	StatusCode       int
	Payload          json.RawMessage
	Message          string
}

func (f *RequestFailure) Error() string {
	if f.IsTransportError {
		return f.Message
	}
	return fmt.Sprintf("remote error response: status %d", f.StatusCode)
}
