package webclient

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/raysh454/apicli/internal/logging"
)

var ErrNilRequest = errors.New("nil request")

// NetHTTPClient is the WebClient used for real requests.
type NetHTTPClient struct {
	client *http.Client
	logger logging.Logger
}

// NewNetHTTPClient wraps httpClient. When httpClient is nil a client with
// net/http defaults is built (no timeout, default redirect policy), with the
// transport optionally wrapped per cfg.
func NewNetHTTPClient(cfg Config, logger logging.Logger, httpClient *http.Client) (*NetHTTPClient, error) {
	if logger == nil {
		logger = logging.Nop{}
	}
	componentLogger := logger.With(logging.F("component", "webclient"))

	if httpClient == nil {
		var transport http.RoundTripper = http.DefaultTransport
		if cfg.WrapTransport != nil {
			transport = cfg.WrapTransport(transport)
		}
		httpClient = &http.Client{Transport: transport}
	}

	componentLogger.Debug("http client ready", logging.F("timeout", httpClient.Timeout.String()))

	return &NetHTTPClient{
		client: httpClient,
		logger: componentLogger,
	}, nil
}

// Do sends req and reads the whole response body. Any status code is a
// response; only a failure to get one is an error.
func (nhc *NetHTTPClient) Do(ctx context.Context, req *Request) (*Response, error) {
	if req == nil {
		return nil, ErrNilRequest
	}
	httpReq, err := newHTTPRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	log := nhc.logger.With(logging.F("method", httpReq.Method), logging.F("url", req.URL))
	log.Debug("sending request", logging.F("body_bytes", len(req.Body)))

	resp, err := nhc.client.Do(httpReq)
	if err != nil {
		log.Debug("no response", logging.Err(err))
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Debug("response body cut short", logging.F("status", resp.StatusCode), logging.Err(err))
		return nil, fmt.Errorf("read response body: %w", err)
	}
	log.Debug("response read", logging.F("status", resp.StatusCode), logging.F("body_bytes", len(body)))

	return &Response{
		Request:    req,
		Body:       body,
		Headers:    resp.Header,
		StatusCode: resp.StatusCode,
		FetchedAt:  time.Now(),
	}, nil
}

// newHTTPRequest upper-cases the method and sends an empty body as none.
func newHTTPRequest(ctx context.Context, req *Request) (*http.Request, error) {
	var body io.Reader
	if len(req.Body) > 0 {
		body = bytes.NewReader(req.Body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, strings.ToUpper(req.Method), req.URL, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if req.Headers != nil {
		httpReq.Header = req.Headers.Clone()
	}
	return httpReq, nil
}

func (nhc *NetHTTPClient) Close() error {
	nhc.client.CloseIdleConnections()
	return nil
}

// HTTPClient returns the underlying *http.Client.
func (nhc *NetHTTPClient) HTTPClient() *http.Client {
	return nhc.client
}
