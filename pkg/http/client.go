package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/snapser-community/snapser-byosnaps/pkg/tracer"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	DefaultTimeout = 10 * time.Second
	DefaultRetry   = 2
)

// Client is a JSON HTTP client bound to one base URL. It propagates trace
// context on every request.
type Client struct {
	resty *resty.Client
}

type ClientOption func(*resty.Client)

func WithTimeout(d time.Duration) ClientOption {
	return func(c *resty.Client) {
		if d > 0 {
			c.SetTimeout(d)
		}
	}
}

func WithRetryCount(n int) ClientOption {
	return func(c *resty.Client) {
		if n >= 0 {
			c.SetRetryCount(n)
		}
	}
}

func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(DefaultTimeout).
		SetRetryCount(DefaultRetry).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	for _, opt := range opts {
		opt(c)
	}

	return &Client{resty: c}
}

type RequestOption func(*resty.Request)

func WithBody(body any) RequestOption {
	return func(r *resty.Request) {
		r.SetBody(body)
	}
}

func WithHeader(key, value string) RequestOption {
	return func(r *resty.Request) {
		r.SetHeader(key, value)
	}
}

func WithPathParam(key, value string) RequestOption {
	return func(r *resty.Request) {
		r.SetPathParam(key, value)
	}
}

func (c *Client) Request(ctx context.Context, method, path string, opts ...RequestOption) (*resty.Response, error) {
	ctx, span := startClientSpan(ctx, "http.Request", method, path)
	defer span.End()

	request := c.resty.R().SetContext(ctx)

	for _, opt := range opts {
		opt(request)
	}

	injectTracingHeaders(ctx, request)

	resp, err := request.Execute(method, path)

	recordSpan(span, resp, err)
	return resp, err
}

func (c *Client) Put(ctx context.Context, path string, opts ...RequestOption) (*resty.Response, error) {
	return c.Request(ctx, http.MethodPut, path, opts...)
}

func startClientSpan(
	ctx context.Context,
	spanName string,
	method string,
	path string,
) (context.Context, trace.Span) {
	if ctx == nil {
		ctx = context.Background()
	}
	return tracer.Start(ctx, spanName, trace.WithSpanKind(trace.SpanKindClient), trace.WithAttributes(
		attribute.String("http.method", method),
		attribute.String("http.path", path),
	))
}

func recordSpan(span trace.Span, resp *resty.Response, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return
	}
	if resp == nil {
		return
	}
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode()))
	if resp.IsError() {
		span.SetStatus(codes.Error, resp.Status())
		return
	}
	span.SetStatus(codes.Ok, "")
}
