package webclient

import "net/http"

// Config is used when NewNetHTTPClient has to build its own *http.Client.
type Config struct {
	// WrapTransport, when set, wraps the default transport (telemetry).
	WrapTransport func(http.RoundTripper) http.RoundTripper
}
