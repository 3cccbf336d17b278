package telemetry

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.trai.ch/forge/internal/core/domain"
)

// InstrumentationName is the tracer name used for build spans.
const InstrumentationName = "go.trai.ch/forge"

// NewTracerProvider returns a provider that synchronously hands every finished span to exp.
func NewTracerProvider(exp sdktrace.SpanExporter, buildID string) *sdktrace.TracerProvider {
	return sdktrace.NewTracerProvider(
		sdktrace.WithSyncer(exp),
		sdktrace.WithResource(resource.NewSchemaless(
			attribute.String("service.name", "forge"),
			attribute.String("forge.build_id", buildID),
		)),
	)
}

// SpanSink records a build as OpenTelemetry spans: one root span for the build and
// one child span per task.
type SpanSink struct {
	tracer trace.Tracer

	mu      sync.Mutex
	rootCtx context.Context
	root    trace.Span
	tasks   map[string]*taskSpan
}

type taskSpan struct {
	span        trace.Span
	outputBytes int
}

// NewSpanSink creates a SpanSink using tp. The root span starts immediately.
func NewSpanSink(ctx context.Context, tp trace.TracerProvider) *SpanSink {
	tracer := tp.Tracer(InstrumentationName)
	rootCtx, root := tracer.Start(ctx, "build")
	return &SpanSink{
		tracer:  tracer,
		rootCtx: rootCtx,
		root:    root,
		tasks:   make(map[string]*taskSpan),
	}
}

// OnPlan implements ports.EventSink.
func (s *SpanSink) OnPlan(levels [][]string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	rendered := make([]string, len(levels))
	for i, level := range levels {
		count += len(level)
		rendered[i] = strings.Join(level, ",")
	}
	s.root.SetAttributes(
		attribute.Int("forge.task_count", count),
		attribute.StringSlice("forge.levels", rendered),
	)
	s.root.AddEvent("plan_emitted")
}

// OnTaskStart implements ports.EventSink.
func (s *SpanSink) OnTaskStart(name string, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, span := s.tracer.Start(s.rootCtx, name,
		trace.WithTimestamp(at),
		trace.WithAttributes(attribute.String("forge.task", name)),
	)
	s.tasks[name] = &taskSpan{span: span}
}

// OnTaskOutput implements ports.EventSink. Only the volume is recorded.
func (s *SpanSink) OnTaskOutput(name string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ts, ok := s.tasks[name]; ok {
		ts.outputBytes += len(data)
	}
}

// OnTaskFinish implements ports.EventSink. Cache hits that never started get a
// zero-length span.
func (s *SpanSink) OnTaskFinish(ev domain.TaskFinished) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ts, ok := s.tasks[ev.Name]
	if !ok {
		now := time.Now()
		_, span := s.tracer.Start(s.rootCtx, ev.Name,
			trace.WithTimestamp(now.Add(-ev.Duration)),
			trace.WithAttributes(attribute.String("forge.task", ev.Name)),
		)
		ts = &taskSpan{span: span}
	}
	delete(s.tasks, ev.Name)

	ts.span.SetAttributes(
		attribute.Bool("forge.success", ev.Success),
		attribute.Bool("forge.cached", ev.Cached),
		attribute.String("forge.cache_source", ev.CacheSource.String()),
		attribute.Int("forge.output_bytes", ts.outputBytes),
	)
	if ev.Err != nil {
		ts.span.RecordError(ev.Err)
		ts.span.SetStatus(codes.Error, ev.Err.Error())
	} else if !ev.Success {
		ts.span.SetStatus(codes.Error, "task failed")
	} else {
		ts.span.SetStatus(codes.Ok, "")
	}
	ts.span.End()
}

// OnLog implements ports.EventSink.
func (s *SpanSink) OnLog(level slog.Level, msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.root.AddEvent("log", trace.WithAttributes(
		attribute.String("level", level.String()),
		attribute.String("message", msg),
	))
}

// End closes task spans left open by an aborted build and ends the root span.
func (s *SpanSink) End(success bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for name, ts := range s.tasks {
		ts.span.SetStatus(codes.Error, "task did not finish")
		ts.span.End()
		delete(s.tasks, name)
	}
	s.root.SetAttributes(attribute.Bool("forge.success", success))
	if success {
		s.root.SetStatus(codes.Ok, "")
	} else {
		s.root.SetStatus(codes.Error, "build failed")
	}
	s.root.End()
}
