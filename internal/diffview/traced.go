package diffview

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/panediff/internal/tracing"
)

// TracedDiffer records a span around every call to the wrapped Differ.
type TracedDiffer struct {
	next   Differ
	tracer trace.Tracer
}

// NewTracedDiffer wraps next. A nil tracer leaves next unwrapped.
func NewTracedDiffer(next Differ, tracer trace.Tracer) Differ {
	if tracer == nil {
		return next
	}
	return &TracedDiffer{next: next, tracer: tracer}
}

// SideBySide implements Differ.
func (d *TracedDiffer) SideBySide(ctx context.Context, oldLines, newLines []string) ([]LineRecord, []LineRecord, error) {
	ctx, span := d.tracer.Start(ctx, tracing.SpanDiffSideBySide,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.Int(tracing.AttrOldLines, len(oldLines)),
			attribute.Int(tracing.AttrNewLines, len(newLines)),
		))
	defer span.End()

	left, right, err := d.next.SideBySide(ctx, oldLines, newLines)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		span.SetAttributes(attribute.String(tracing.AttrErrorMessage, err.Error()))
		return nil, nil, err
	}

	span.SetAttributes(attribute.Int(tracing.AttrRows, len(left)))
	span.SetStatus(codes.Ok, "")
	return left, right, nil
}
