package webclient

import (
	"context"
)

// WebClient sends one HTTP request and returns the full response. A non-2xx
// status is not an error at this layer; only failing to obtain a response is.
type WebClient interface {
	Do(ctx context.Context, req *Request) (*Response, error)

	Close() error
}
