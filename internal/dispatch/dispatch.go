package dispatch

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/raysh454/apicli/internal/logging"
	"github.com/raysh454/apicli/internal/model"
	"github.com/raysh454/apicli/internal/webclient"
)

const (
	// DefaultAccept mirrors what common JSON HTTP clients send.
	DefaultAccept   = "application/json, text/plain, */*"
	HeaderRequestID = "X-Request-Id"
)

// Dispatcher performs exactly one outbound request per descriptor.
type Dispatcher struct {
	wc        webclient.WebClient
	logger    logging.Logger
	userAgent string
	newID     func() string
	now       func() time.Time
}

// New creates a Dispatcher sending through wc.
func New(wc webclient.WebClient, userAgent string, logger logging.Logger) *Dispatcher {
	if logger == nil {
		logger = logging.Nop{}
	}
	return &Dispatcher{
		wc:        wc,
		logger:    logger.With(logging.F("component", "dispatch")),
		userAgent: userAgent,
		newID:     uuid.NewString,
		now:       time.Now,
	}
}

// Dispatch sends desc and returns exactly one of a result or a failure.
// A 2xx status is success; any other status is a remote error response and
// a missing response is a transport failure. There are no retries.
func (d *Dispatcher) Dispatch(ctx context.Context, desc *model.RequestDescriptor) (*model.ResponseResult, *model.RequestFailure) {
	if desc == nil {
		return nil, &model.RequestFailure{IsTransportError: true, Message: "no request to send"}
	}

	id := d.newID()
	logger := d.logger.With(logging.F("request_id", id))

	req := &webclient.Request{
		Method:  desc.Method.String(),
		URL:     desc.URL,
		Headers: d.headers(desc, id),
	}
	if desc.HasBody() {
		req.Body = desc.Body
	}

	start := d.now()
	resp, err := d.wc.Do(ctx, req)
	elapsed := d.now().Sub(start)
	if err != nil {
		logger.Debug("no response received",
			logging.Err(err),
			logging.F("elapsed", elapsed.String()))
		return nil, &model.RequestFailure{
			RequestID:        id,
			IsTransportError: true,
			Message:          transportMessage(err),
		}
	}

	body := model.DecodeBody(resp.Body)
	logger.Info("response received",
		logging.F("method", req.Method),
		logging.F("url", req.URL),
		logging.F("status", resp.StatusCode),
		logging.F("elapsed", elapsed.String()))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &model.RequestFailure{
			RequestID:  id,
			StatusCode: resp.StatusCode,
			Payload:    body,
			Message:    http.StatusText(resp.StatusCode),
		}
	}

	return &model.ResponseResult{
		RequestID:  id,
		StatusCode: resp.StatusCode,
		Body:       body,
		Headers:    resp.Headers,
		Duration:   elapsed,
	}, nil
}

// headers layers defaults, then user headers (which win), then the request id.
func (d *Dispatcher) headers(desc *model.RequestDescriptor, id string) http.Header {
	h := http.Header{}
	h.Set("Accept", DefaultAccept)
	if d.userAgent != "" {
		h.Set("User-Agent", d.userAgent)
	}
	if desc.HasBody() {
		h.Set("Content-Type", "application/json")
	}
	for k, vs := range desc.Headers {
		h.Del(k)
		for _, v := range vs {
			h.Add(k, v)
		}
	}
	h.Set(HeaderRequestID, id)
	return h
}

// transportMessage strips the method/url prefix net/http puts on errors,
// leaving e.g. "dial tcp 127.0.0.1:1: connect: connection refused".
func transportMessage(err error) string {
	var ue *url.Error
	if errors.As(err, &ue) && ue.Err != nil {
		return ue.Err.Error()
	}
	return err.Error()
}
