package httpclient

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Observer receives one observation per executed request. status is 0 when
// the request failed before a response arrived.
type Observer interface {
	ObserveRequest(endpoint string, status int, elapsed time.Duration)
}

// Response is a fully read HTTP response.
type Response struct {
	StatusCode int
	Body       []byte
	Elapsed    time.Duration
}

// Executor performs single-attempt HTTP requests, reads the whole body and
// turns failure statuses into venue-specific errors.
type Executor struct {
	logger       *zap.Logger
	http         *http.Client
	tag          string
	observer     Observer
	errorHandler func(endpoint string, status int, body []byte) error
}

// New creates an Executor. errorHandler is called by Check on 4xx/5xx responses
// to produce a venue-specific error. If nil, a default error is returned.
// observer may be nil.
func New(
	logger *zap.Logger,
	httpClient *http.Client,
	tag string,
	observer Observer,
	errorHandler func(endpoint string, status int, body []byte) error,
) *Executor {
	return &Executor{
		logger:       logger,
		http:         httpClient,
		tag:          tag,
		observer:     observer,
		errorHandler: errorHandler,
	}
}

// Do executes req once and returns the read response regardless of status.
// endpoint labels logs and observations.
func (e *Executor) Do(req *http.Request, endpoint string) (*Response, error) {
	start := time.Now()
	resp, err := e.http.Do(req)
	if err != nil {
		e.observe(endpoint, 0, time.Since(start))
		e.logger.Warn(e.tag+".http_failed",
			zap.String("endpoint", endpoint),
			zap.String("url", req.URL.Redacted()),
			zap.Error(err))
		return nil, fmt.Errorf("%s %s: %w", e.tag, endpoint, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	elapsed := time.Since(start)
	e.observe(endpoint, resp.StatusCode, elapsed)
	if err != nil {
		return nil, fmt.Errorf("%s %s: read body: %w", e.tag, endpoint, err)
	}

	e.logger.Debug(e.tag+".http_done",
		zap.String("endpoint", endpoint),
		zap.Int("status", resp.StatusCode),
		zap.Int("bytes", len(body)),
		zap.Duration("elapsed", elapsed))

	return &Response{StatusCode: resp.StatusCode, Body: body, Elapsed: elapsed}, nil
}

// Check returns an error for 4xx and 5xx responses.
func (e *Executor) Check(resp *Response, endpoint string) error {
	if resp.StatusCode < 400 {
		return nil
	}
	if e.errorHandler != nil {
		return e.errorHandler(endpoint, resp.StatusCode, resp.Body)
	}
	return fmt.Errorf("%s %s returned %d", e.tag, endpoint, resp.StatusCode)
}

// DecodeJSON unmarshals the response body into out.
func (e *Executor) DecodeJSON(resp *Response, endpoint string, out any) error {
	if err := json.Unmarshal(resp.Body, out); err != nil {
		e.logger.Warn(e.tag+".decode_failed",
			zap.String("endpoint", endpoint),
			zap.Int("status", resp.StatusCode),
			zap.Error(err))
		return fmt.Errorf("%s %s: decode failed: %w", e.tag, endpoint, err)
	}
	return nil
}

func (e *Executor) observe(endpoint string, status int, elapsed time.Duration) {
	if e.observer != nil {
		e.observer.ObserveRequest(endpoint, status, elapsed)
	}
}
