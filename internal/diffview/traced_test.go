package diffview

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/zjrosen/panediff/internal/tracing"
)

func newRecorder(t *testing.T) (*tracetest.SpanRecorder, *sdktrace.TracerProvider) {
	t.Helper()
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	return rec, tp
}

func TestTracedDiffer_RecordsSpan(t *testing.T) {
	rec, tp := newRecorder(t)
	d := NewTracedDiffer(NewLineDiffer(), tp.Tracer("test"))

	left, _, err := d.SideBySide(context.Background(), []string{"a", "b"}, []string{"a", "c", "d"})
	require.NoError(t, err)

	spans := rec.Ended()
	require.Len(t, spans, 1)
	span := spans[0]
	require.Equal(t, tracing.SpanDiffSideBySide, span.Name())
	require.Equal(t, codes.Ok, span.Status().Code)

	attrs := map[string]int64{}
	for _, kv := range span.Attributes() {
		attrs[string(kv.Key)] = kv.Value.AsInt64()
	}
	require.Equal(t, int64(2), attrs[tracing.AttrOldLines])
	require.Equal(t, int64(3), attrs[tracing.AttrNewLines])
	require.Equal(t, int64(len(left)), attrs[tracing.AttrRows])
}

func TestTracedDiffer_RecordsError(t *testing.T) {
	rec, tp := newRecorder(t)
	d := NewTracedDiffer(failingDiffer{err: errors.New("boom")}, tp.Tracer("test"))

	_, _, err := d.SideBySide(context.Background(), []string{"a"}, []string{"b"})
	require.EqualError(t, err, "boom")

	spans := rec.Ended()
	require.Len(t, spans, 1)
	require.Equal(t, codes.Error, spans[0].Status().Code)
	require.Equal(t, "boom", spans[0].Status().Description)
	require.Len(t, spans[0].Events(), 1, "error recorded as an event")
}

func TestNewTracedDiffer_NilTracerIsPassthrough(t *testing.T) {
	inner := NewLineDiffer()
	require.Same(t, Differ(inner), NewTracedDiffer(inner, nil))
}
