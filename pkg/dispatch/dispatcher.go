// Package dispatch issues single HTTP exchanges against the comment service
// and classifies their outcome with a route table.
package dispatch

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"time"

	"github.com/kapu/isso-client-go/internal/constants"
	"github.com/kapu/isso-client-go/pkg/endpoint"
	"github.com/kapu/isso-client-go/pkg/errors"
	"github.com/kapu/isso-client-go/pkg/future"
	"github.com/kapu/isso-client-go/pkg/route"
	"go.uber.org/zap"
	"golang.org/x/net/publicsuffix"
)

// Response is a settled exchange. Body is the raw payload, not decoded.
type Response struct {
	Status int
	Body   string
}

// Observer receives one call per settled exchange.
type Observer interface {
	ObserveDispatch(method, rule string, status int, outcome string, elapsed time.Duration)
}

const (
	OutcomeResolved  = "resolved"
	OutcomeRejected  = "rejected"
	OutcomeTransport = "transport_error"
)

type Dispatcher struct {
	endpoint   endpoint.Endpoint
	table      *route.Table
	httpClient *http.Client
	observer   Observer
	userAgent  string
	maxReply   int64
	logger     *zap.Logger
}

type Option func(*Dispatcher)

// WithHTTPClient replaces the credentialed default client. The caller is then
// responsible for attaching a cookie jar.
func WithHTTPClient(c *http.Client) Option {
	return func(d *Dispatcher) {
		d.httpClient = c
	}
}

func WithTable(t *route.Table) Option {
	return func(d *Dispatcher) {
		d.table = t
	}
}

func WithObserver(o Observer) Option {
	return func(d *Dispatcher) {
		d.observer = o
	}
}

func WithUserAgent(ua string) Option {
	return func(d *Dispatcher) {
		d.userAgent = ua
	}
}

// WithMaxReplyBytes caps the response body size. Larger replies are rejected.
func WithMaxReplyBytes(n int64) Option {
	return func(d *Dispatcher) {
		if n > 0 {
			d.maxReply = n
		}
	}
}

// NewHTTPClient returns a client that keeps and sends cookies for every host
// it talks to, so session credentials ride along on cross-origin calls.
func NewHTTPClient(timeout time.Duration) (*http.Client, error) {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, err
	}
	if timeout <= 0 {
		timeout = constants.HTTPConfig.Timeout
	}
	return &http.Client{
		Jar:     jar,
		Timeout: timeout,
	}, nil
}

func New(ep endpoint.Endpoint, logger *zap.Logger, opts ...Option) (*Dispatcher, error) {
	if ep.IsZero() {
		return nil, errors.NewValidationError("endpoint must be resolved before dispatching", "endpoint", "")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	d := &Dispatcher{
		endpoint:  ep,
		table:     route.DefaultTable(),
		userAgent: constants.HTTPConfig.UserAgent,
		maxReply:  constants.HTTPConfig.MaxReplyBytes,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(d)
	}

	if d.httpClient == nil {
		c, err := NewHTTPClient(constants.HTTPConfig.Timeout)
		if err != nil {
			return nil, errors.NewClientError("failed to create cookie jar", errors.CodeClientError, 0, nil).WithCause(err)
		}
		d.httpClient = c
	}

	return d, nil
}

func (d *Dispatcher) Endpoint() endpoint.Endpoint {
	return d.endpoint
}

// Dispatch starts one exchange and returns a future for its outcome. A request
// that cannot be built is rejected immediately.
func (d *Dispatcher) Dispatch(ctx context.Context, method, url string, body []byte) *future.Future[*Response] {
	var bodyReader io.Reader
	if body != nil {
		bodyReader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		d.observe(method, "", 0, OutcomeTransport, 0)
		return future.Rejected[*Response](errors.NewTransportError("failed to create request", method, url, err))
	}

	if body != nil {
		req.Header.Set("Content-Type", constants.HTTPConfig.ContentType)
	}
	if d.userAgent != "" {
		req.Header.Set("User-Agent", d.userAgent)
	}

	return future.Go(func() (*Response, error) {
		return d.exchange(req, url)
	})
}

// Do is the blocking form of Dispatch.
func (d *Dispatcher) Do(ctx context.Context, method, url string, body []byte) (*Response, error) {
	return d.Dispatch(ctx, method, url, body).Await(ctx)
}

func (d *Dispatcher) exchange(req *http.Request, url string) (*Response, error) {
	method := req.Method
	path := d.endpoint.Route(url)
	start := time.Now()

	resp, err := d.httpClient.Do(req)
	if err != nil {
		d.observe(method, "", 0, OutcomeTransport, time.Since(start))
		d.logger.Warn("Request failed",
			zap.String("method", method),
			zap.String("url", url),
			zap.Error(err))
		return nil, errors.NewTransportError("request failed", method, url, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, d.maxReply+1))
	if err != nil {
		d.observe(method, "", resp.StatusCode, OutcomeTransport, time.Since(start))
		return nil, errors.NewTransportError("failed to read response", method, url, err)
	}
	// 잘린 본문으로 resolve 하지 않는다
	if int64(len(raw)) > d.maxReply {
		d.observe(method, "", resp.StatusCode, OutcomeTransport, time.Since(start))
		d.logger.Warn("Response too large",
			zap.String("method", method),
			zap.String("url", url),
			zap.Int64("limit", d.maxReply))
		return nil, errors.NewTransportError(
			fmt.Sprintf("response exceeds limit of %d bytes", d.maxReply), method, url, nil)
	}
	body := string(raw)

	verdict := d.table.Check(path, resp.StatusCode)
	elapsed := time.Since(start)

	if !verdict.Accepted {
		d.observe(method, verdict.Rule, resp.StatusCode, OutcomeRejected, elapsed)
		d.logger.Warn("Unexpected status",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.String("rule", verdict.Rule))
		return nil, errors.NewStatusError(resp.StatusCode, url, body)
	}

	d.observe(method, verdict.Rule, resp.StatusCode, OutcomeResolved, elapsed)
	d.logger.Debug("Request completed",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Bool("rule_matched", verdict.Matched),
		zap.Duration("elapsed", elapsed))

	return &Response{Status: resp.StatusCode, Body: body}, nil
}

func (d *Dispatcher) observe(method, rule string, status int, outcome string, elapsed time.Duration) {
	if d.observer == nil {
		return
	}
	d.observer.ObserveDispatch(method, rule, status, outcome, elapsed)
}
