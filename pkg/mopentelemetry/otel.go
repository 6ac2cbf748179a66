package mopentelemetry

import (
	"context"
	"encoding/json"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Telemetry holds the tracing configuration of the process.
type Telemetry struct {
	LibraryName     string
	ServiceName     string
	ServiceVersion  string
	DeploymentEnv   string
	EnableTelemetry bool
}

// NewTracer returns the tracer for this library, honoring whatever
// provider the host process registered globally.
func (t *Telemetry) NewTracer() trace.Tracer {
	return otel.Tracer(t.LibraryName)
}

// HandleSpanError records err on the span and marks it failed.
func HandleSpanError(span *trace.Span, message string, err error) {
	(*span).SetStatus(codes.Error, message+": "+err.Error())
	(*span).RecordError(err)
}

// SetSpanAttributesFromStruct serializes v to JSON and attaches it to
// the span under the given key.
func SetSpanAttributesFromStruct(span *trace.Span, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}

	(*span).SetAttributes(attribute.KeyValue{
		Key:   attribute.Key(key),
		Value: attribute.StringValue(string(raw)),
	})

	return nil
}

// StartSpanFromContext is a convenience for packages without a tracer
// at hand.
func StartSpanFromContext(ctx context.Context, libraryName, spanName string) (context.Context, trace.Span) {
	return otel.Tracer(libraryName).Start(ctx, spanName)
}
