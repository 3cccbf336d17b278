package telemetry

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/zerr"
)

// SpanRecord is one line of a build trace file.
type SpanRecord struct {
	Name         string         `json:"name"`
	TraceID      string         `json:"trace_id"`
	SpanID       string         `json:"span_id"`
	ParentSpanID string         `json:"parent_span_id,omitempty"`
	Start        time.Time      `json:"start"`
	End          time.Time      `json:"end"`
	DurationMS   int64          `json:"duration_ms"`
	Status       string         `json:"status"`
	Error        string         `json:"error,omitempty"`
	Attributes   map[string]any `json:"attributes,omitempty"`
}

// FileExporter implements sdktrace.SpanExporter by appending one JSON object per span
// to .forge/traces/<build-id>.jsonl.
type FileExporter struct {
	mu   sync.Mutex
	path string
	file *os.File
	enc  *json.Encoder
}

// TraceFilePath returns the trace file of buildID inside projectDir.
func TraceFilePath(projectDir, buildID string) string {
	return filepath.Join(domain.TracesPath(projectDir), buildID+".jsonl")
}

// NewFileExporter creates the trace file for buildID.
func NewFileExporter(projectDir, buildID string) (*FileExporter, error) {
	dir := domain.TracesPath(projectDir)
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrTraceWriteFailed, err.Error()), "path", dir)
	}
	path := TraceFilePath(projectDir, buildID)
	//nolint:gosec // Path is derived from the project root and a generated id
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, domain.FilePerm)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrTraceWriteFailed, err.Error()), "path", path)
	}
	return &FileExporter{path: path, file: f, enc: json.NewEncoder(f)}, nil
}

// Path returns the trace file location.
func (e *FileExporter) Path() string {
	return e.path
}

// ExportSpans implements sdktrace.SpanExporter.
func (e *FileExporter) ExportSpans(ctx context.Context, spans []sdktrace.ReadOnlySpan) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.file == nil {
		return nil
	}
	for _, s := range spans {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := e.enc.Encode(recordOf(s)); err != nil {
			return zerr.With(zerr.Wrap(domain.ErrTraceWriteFailed, err.Error()), "path", e.path)
		}
	}
	return nil
}

// Shutdown implements sdktrace.SpanExporter and closes the file.
func (e *FileExporter) Shutdown(_ context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.file == nil {
		return nil
	}
	err := e.file.Close()
	e.file = nil
	if err != nil {
		return zerr.With(zerr.Wrap(domain.ErrTraceWriteFailed, err.Error()), "path", e.path)
	}
	return nil
}

func recordOf(s sdktrace.ReadOnlySpan) SpanRecord {
	rec := SpanRecord{
		Name:       s.Name(),
		TraceID:    s.SpanContext().TraceID().String(),
		SpanID:     s.SpanContext().SpanID().String(),
		Start:      s.StartTime().UTC(),
		End:        s.EndTime().UTC(),
		DurationMS: s.EndTime().Sub(s.StartTime()).Milliseconds(),
		Status:     statusName(s.Status().Code),
	}
	if parent := s.Parent(); parent.IsValid() {
		rec.ParentSpanID = parent.SpanID().String()
	}
	if s.Status().Code == codes.Error {
		rec.Error = s.Status().Description
	}
	if attrs := s.Attributes(); len(attrs) > 0 {
		rec.Attributes = make(map[string]any, len(attrs))
		for _, kv := range attrs {
			rec.Attributes[string(kv.Key)] = kv.Value.AsInterface()
		}
	}
	return rec
}

func statusName(c codes.Code) string {
	switch c {
	case codes.Ok:
		return "ok"
	case codes.Error:
		return "error"
	default:
		return "unset"
	}
}
