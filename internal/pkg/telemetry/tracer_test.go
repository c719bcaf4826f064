package telemetry_test

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel"

	"github.com/samirrijal/motmap/internal/pkg/telemetry"
)

func TestInitTracer_InstallsProvider(t *testing.T) {
	before := otel.GetTracerProvider()

	// The gRPC exporter connects lazily, so no collector is needed here.
	shutdown, err := telemetry.InitTracer(context.Background(), "motmap-test", "localhost:4317", 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer shutdown()

	if otel.GetTracerProvider() == before {
		t.Error("expected a new global tracer provider")
	}

	_, span := otel.Tracer("test").Start(context.Background(), "op")
	if !span.SpanContext().IsValid() {
		t.Error("expected a sampled, valid span context")
	}
	span.End()
}
