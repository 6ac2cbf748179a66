package pkg

import (
	"context"

	"github.com/quantora/ledger/pkg/mlog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

type customContextKey string

// CustomContextKey keys the per-request bundle carried through every
// layer of the service.
const CustomContextKey customContextKey = "custom_context"

// CustomContextKeyValue bundles the request-scoped logger, tracer and
// correlation id.
type CustomContextKeyValue struct {
	HeaderID string
	Tracer   trace.Tracer
	Logger   mlog.Logger
}

// ContextWithLogger returns a context carrying the given logger.
func ContextWithLogger(ctx context.Context, logger mlog.Logger) context.Context {
	values, _ := ctx.Value(CustomContextKey).(*CustomContextKeyValue)
	if values == nil {
		values = &CustomContextKeyValue{}
	}

	newValues := *values
	newValues.Logger = logger

	return context.WithValue(ctx, CustomContextKey, &newValues)
}

// NewLoggerFromContext extracts the logger from the context, falling
// back to a no-op logger so call sites never nil-check.
func NewLoggerFromContext(ctx context.Context) mlog.Logger {
	if values, ok := ctx.Value(CustomContextKey).(*CustomContextKeyValue); ok && values.Logger != nil {
		return values.Logger
	}

	return &mlog.NoneLogger{}
}

// ContextWithTracer returns a context carrying the given tracer.
func ContextWithTracer(ctx context.Context, tracer trace.Tracer) context.Context {
	values, _ := ctx.Value(CustomContextKey).(*CustomContextKeyValue)
	if values == nil {
		values = &CustomContextKeyValue{}
	}

	newValues := *values
	newValues.Tracer = tracer

	return context.WithValue(ctx, CustomContextKey, &newValues)
}

// NewTracerFromContext extracts the tracer from the context, falling
// back to the globally registered provider.
func NewTracerFromContext(ctx context.Context) trace.Tracer {
	if values, ok := ctx.Value(CustomContextKey).(*CustomContextKeyValue); ok && values.Tracer != nil {
		return values.Tracer
	}

	return otel.Tracer("github.com/quantora/ledger")
}

// ContextWithHeaderID returns a context carrying the correlation id.
func ContextWithHeaderID(ctx context.Context, headerID string) context.Context {
	values, _ := ctx.Value(CustomContextKey).(*CustomContextKeyValue)
	if values == nil {
		values = &CustomContextKeyValue{}
	}

	newValues := *values
	newValues.HeaderID = headerID

	return context.WithValue(ctx, CustomContextKey, &newValues)
}

// NewHeaderIDFromContext extracts the correlation id from the context.
func NewHeaderIDFromContext(ctx context.Context) string {
	if values, ok := ctx.Value(CustomContextKey).(*CustomContextKeyValue); ok {
		return values.HeaderID
	}

	return ""
}
