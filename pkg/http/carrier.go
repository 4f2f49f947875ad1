package http

import (
	"context"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

// restyHeaderCarrier adapts a resty request to propagation.TextMapCarrier.
type restyHeaderCarrier struct {
	request *resty.Request
}

var _ propagation.TextMapCarrier = (*restyHeaderCarrier)(nil)

func (c *restyHeaderCarrier) Get(key string) string {
	return c.request.Header.Get(key)
}

func (c *restyHeaderCarrier) Set(key, value string) {
	c.request.SetHeader(key, value)
}

func (c *restyHeaderCarrier) Keys() []string {
	keys := make([]string, 0, len(c.request.Header))
	for k := range c.request.Header {
		keys = append(keys, k)
	}
	return keys
}

func injectTracingHeaders(ctx context.Context, request *resty.Request) {
	otel.GetTextMapPropagator().Inject(ctx, &restyHeaderCarrier{request: request})
}
