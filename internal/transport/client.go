// Package transport is the HTTP client for the upstream catalogue REST API.
//
// It issues JSON requests against collection and item endpoints, unwraps the
// paginated {count, next, previous, results} envelope, and reports any
// non-2xx response as a *StatusError. It performs no retries; each call is
// at most one logical attempt. Outbound traffic is throttled by a token
// bucket, traced with OpenTelemetry and counted in Prometheus.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"
)

// maxErrorBody caps how much of a failed response body is kept.
const maxErrorBody = 4 << 10

// API is the narrow contract providers depend on.
type API interface {
	// Do sends one request. query may be nil; body, if non-nil, is sent as
	// JSON; out, if non-nil, receives the decoded 2xx response. The status
	// code is returned whenever a response was received.
	Do(ctx context.Context, method, path string, query url.Values, body, out any) (int, error)
}

// Options configures a Client.
type Options struct {
	BaseURL    string
	Token      string
	Timeout    time.Duration
	RPS        float64 // <= 0 disables throttling
	Burst      int
	UserAgent  string
	HTTPClient *http.Client
}

// Client implements API over net/http.
type Client struct {
	base      *url.URL
	token     string
	userAgent string
	http      *http.Client
	limiter   *rate.Limiter
}

// New validates opts and returns a client.
func New(opts Options) (*Client, error) {
	if strings.TrimSpace(opts.BaseURL) == "" {
		return nil, errors.New("transport: base URL must not be empty")
	}
	base, err := url.Parse(opts.BaseURL)
	if err != nil {
		return nil, err
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, errors.New("transport: base URL must be http or https")
	}
	if !strings.HasSuffix(base.Path, "/") {
		base.Path += "/"
	}

	hc := opts.HTTPClient
	if hc == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		hc = &http.Client{Timeout: timeout}
	}

	lim := rate.NewLimiter(rate.Inf, 0)
	if opts.RPS > 0 {
		burst := opts.Burst
		if burst <= 0 {
			burst = 1
		}
		lim = rate.NewLimiter(rate.Limit(opts.RPS), burst)
	}

	ua := opts.UserAgent
	if ua == "" {
		ua = "catalogue-admin"
	}
	return &Client{base: base, token: opts.Token, userAgent: ua, http: hc, limiter: lim}, nil
}

// Do implements API.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body, out any) (int, error) {
	resource := routeLabel(path)
	ctx, span := otel.Tracer("transport").Start(ctx, method+" "+resource,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.method", method),
			attribute.String("upstream.resource", resource),
		),
	)
	defer span.End()

	status, err := c.do(ctx, method, path, query, body, out)
	span.SetAttributes(attribute.Int("http.status_code", status))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return status, err
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) (int, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return 0, &RequestError{Method: method, Path: path, Err: err}
	}

	u := c.base.ResolveReference(&url.URL{Path: strings.TrimPrefix(path, "/")})
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	var rdr io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return 0, &RequestError{Method: method, Path: path, Err: err}
		}
		rdr = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), rdr)
	if err != nil {
		return 0, &RequestError{Method: method, Path: path, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resource := routeLabel(path)
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		upstreamReqs.WithLabelValues(method, resource, "error").Inc()
		log.Warn().Err(err).Str("method", method).Str("path", path).Msg("upstream request failed")
		return 0, &RequestError{Method: method, Path: path, Err: err}
	}
	defer resp.Body.Close()

	elapsed := time.Since(start)
	upstreamReqs.WithLabelValues(method, resource, strconv.Itoa(resp.StatusCode)).Inc()
	upstreamLat.WithLabelValues(method, resource).Observe(elapsed.Seconds())
	log.Debug().
		Str("method", method).
		Str("path", path).
		Str("query", u.RawQuery).
		Int("status", resp.StatusCode).
		Dur("latency", elapsed).
		Msg("upstream")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		log.Warn().Str("method", method).Str("path", path).Int("status", resp.StatusCode).Msg("upstream non-2xx")
		return resp.StatusCode, &StatusError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(msg)),
		}
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return resp.StatusCode, nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return resp.StatusCode, &RequestError{Method: method, Path: path, Err: err}
	}
	return resp.StatusCode, nil
}

// routeLabel replaces numeric path segments with ":id" to bound metric and
// span-name cardinality.
func routeLabel(path string) string {
	segs := strings.Split(strings.Trim(path, "/"), "/")
	for i, s := range segs {
		if _, err := strconv.Atoi(s); err == nil {
			segs[i] = ":id"
		}
	}
	return "/" + strings.Join(segs, "/")
}
