package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the tracer used for service spans
const TracerName = "memoriascard-backend"

// Span attribute keys
const (
	SpanAttrCardID        = "card_id"
	SpanAttrUserID        = "user_id"
	SpanAttrSessionID     = "checkout_session_id"
	SpanAttrPaymentStatus = "payment_status"
	SpanAttrSlotKey       = "slot_key"
)

// StartServiceSpan starts an internal span named {service}.{method}.
// The caller must end the span.
//
//	ctx, span := telemetry.StartServiceSpan(ctx, "payment", "verify")
//	defer span.End()
func StartServiceSpan(ctx context.Context, service, method string, keyValues ...interface{}) (context.Context, trace.Span) {
	tracer := otel.GetTracerProvider().Tracer(TracerName)
	ctx, span := tracer.Start(ctx, fmt.Sprintf("%s.%s", service, method), trace.WithSpanKind(trace.SpanKindInternal))
	SetAttributes(span, keyValues...)
	return ctx, span
}

// SetAttributes adds key/value pairs to span. Non-string keys and a trailing odd value are ignored.
func SetAttributes(span trace.Span, keyValues ...interface{}) {
	if span == nil || len(keyValues) < 2 {
		return
	}

	attrs := make([]attribute.KeyValue, 0, len(keyValues)/2)
	for i := 0; i+1 < len(keyValues); i += 2 {
		key, ok := keyValues[i].(string)
		if !ok {
			continue
		}
		attrs = append(attrs, toAttribute(key, keyValues[i+1]))
	}
	span.SetAttributes(attrs...)
}

// RecordError records err on the span and marks it failed.
func RecordError(span trace.Span, err error) {
	if span == nil || err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// GetTraceID returns the trace ID of the span in ctx, or "".
func GetTraceID(ctx context.Context) string {
	traceID := trace.SpanFromContext(ctx).SpanContext().TraceID()
	if !traceID.IsValid() {
		return ""
	}
	return traceID.String()
}

func toAttribute(key string, value interface{}) attribute.KeyValue {
	switch v := value.(type) {
	case string:
		return attribute.String(key, v)
	case int:
		return attribute.Int(key, v)
	case int64:
		return attribute.Int64(key, v)
	case float64:
		return attribute.Float64(key, v)
	case bool:
		return attribute.Bool(key, v)
	case []string:
		return attribute.StringSlice(key, v)
	case fmt.Stringer:
		return attribute.String(key, v.String())
	default:
		return attribute.String(key, fmt.Sprintf("%v", v))
	}
}
