// internal/adapters/supplier/client.go
package supplier

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"hotel_proxy/internal/adapters/observability"
	"hotel_proxy/internal/domain"
)

// Header names fixed by the supplier contract. The correlation header keeps
// the supplier's spelling.
const (
	HeaderAPIKey        = "x-xeni-token"
	HeaderSessionID     = "x-session-id"
	HeaderCorrelationID = "corelationId"
)

const serviceName = "supplier"

type Client struct {
	base   string
	hc     *http.Client
	key    string
	rl     *rate.Limiter
	tracer trace.Tracer
}

type Options struct {
	Timeout time.Duration
	RPS     int
}

func New(base, key string, opt Options) (*Client, error) {
	if strings.TrimSpace(base) == "" {
		return nil, fmt.Errorf("supplier base URL is required")
	}
	if key == "" {
		return nil, fmt.Errorf("supplier API key is required")
	}
	if opt.RPS <= 0 {
		opt.RPS = 10
	}
	if opt.Timeout <= 0 {
		opt.Timeout = 20 * time.Second
	}
	return &Client{
		base:   strings.TrimRight(base, "/"),
		hc:     &http.Client{Timeout: opt.Timeout},
		key:    key,
		rl:     rate.NewLimiter(rate.Limit(opt.RPS), opt.RPS),
		tracer: otel.Tracer("hotel_proxy/supplier"),
	}, nil
}

// Do sends one call to the supplier. There are no retries: the first
// transport error or status is returned to the caller as is.
// The body is always read to completion before it is handed back, so callers
// parse from text rather than from the live stream.
func (c *Client) Do(ctx context.Context, call domain.UpstreamCall) (domain.UpstreamReply, error) {
	if err := c.rl.Wait(ctx); err != nil {
		return domain.UpstreamReply{}, err
	}

	ctx, span := c.tracer.Start(ctx, "supplier."+call.Operation, trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(
		attribute.String("supplier.path", call.Path),
		attribute.String("supplier.session_id", call.Tags.SessionID),
		attribute.String("supplier.correlation_id", call.Tags.CorrelationID),
	)

	u := c.base + call.Path
	if len(call.Query) > 0 {
		u += "?" + call.Query.Encode()
	}
	var body io.Reader
	if call.Body != nil {
		body = bytes.NewReader(call.Body)
	}
	method := call.Method
	if method == "" {
		method = http.MethodPost
	}
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return domain.UpstreamReply{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("accept-language", "en")
	req.Header.Set("User-Agent", "hotel-proxy/1.0")
	req.Header.Set(HeaderAPIKey, c.key)
	// set directly so the supplier sees its own casing
	req.Header[HeaderSessionID] = []string{call.Tags.SessionID}
	req.Header[HeaderCorrelationID] = []string{call.Tags.CorrelationID}

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		observability.ObserveExternal(serviceName, call.Operation, 0, time.Since(start))
		span.RecordError(err)
		span.SetStatus(codes.Error, "transport")
		if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
			return domain.UpstreamReply{}, ctx.Err()
		}
		return domain.UpstreamReply{}, err
	}
	defer resp.Body.Close()

	text, err := io.ReadAll(resp.Body)
	observability.ObserveExternal(serviceName, call.Operation, resp.StatusCode, time.Since(start))
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "read body")
		return domain.UpstreamReply{}, fmt.Errorf("read supplier body: %w", err)
	}
	if resp.StatusCode >= 400 {
		span.SetStatus(codes.Error, resp.Status)
	}

	return domain.UpstreamReply{
		Status:     resp.StatusCode,
		StatusText: statusText(resp),
		Body:       text,
	}, nil
}

// statusText strips the numeric code from resp.Status ("404 Not Found" -> "Not Found").
func statusText(resp *http.Response) string {
	if t := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode))); t != "" {
		return t
	}
	return http.StatusText(resp.StatusCode)
}
