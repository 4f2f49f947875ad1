package otel_test

import (
	"context"
	"strings"
	"testing"

	"github.com/snapser-community/snapser-byosnaps/pkg/otel"
	gootel "go.opentelemetry.io/otel"
)

func TestInitTracer_DisabledIsNoop(t *testing.T) {
	cfg := otel.DefaultConfig()
	cfg.EndpointURL = "http://localhost:4318/v1/traces"

	tr, err := otel.InitTracer(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, span := tr.Start(context.Background(), "test")
	defer span.End()
	if span.SpanContext().IsValid() {
		t.Error("expected no-op span when tracing is disabled")
	}

	fields := gootel.GetTextMapPropagator().Fields()
	if !contains(fields, "traceparent") {
		t.Errorf("expected traceparent propagation, got %v", fields)
	}

	if err := otel.Shutdown(context.Background()); err != nil {
		t.Errorf("unexpected shutdown error: %v", err)
	}
}

func TestConfig_Active(t *testing.T) {
	tests := []struct {
		name     string
		enabled  bool
		endpoint string
		want     bool
	}{
		{name: "disabled", enabled: false, endpoint: "grpc://collector:4317", want: false},
		{name: "no endpoint", enabled: true, endpoint: "", want: false},
		{name: "enabled", enabled: true, endpoint: "grpc://collector:4317", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := otel.DefaultConfig()
			cfg.Enabled = tt.enabled
			cfg.EndpointURL = tt.endpoint
			if got := cfg.Active(); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestSampler_Description(t *testing.T) {
	tests := []struct {
		ratio float64
		want  string
	}{
		{ratio: 0, want: "AlwaysOffSampler"},
		{ratio: 1, want: "AlwaysOnSampler"},
		{ratio: 0.5, want: "TraceIDRatioBased{0.5}"},
	}

	for _, tt := range tests {
		desc := otel.Sampler(tt.ratio).Description()
		if !strings.HasPrefix(desc, "ParentBased{root:"+tt.want) {
			t.Errorf("ratio %v: unexpected sampler %q", tt.ratio, desc)
		}
	}
}

func contains(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}
