package ports

import (
	"log/slog"
	"time"

	"go.trai.ch/forge/internal/core/domain"
)

// EventSink receives build progress. Implementations must be safe for concurrent use:
// tasks of one level report concurrently.
//
//go:generate mockgen -source=event_sink.go -destination=mocks/mock_event_sink.go -package=mocks
type EventSink interface {
	// OnPlan is called once with the levels about to run.
	OnPlan(levels [][]string)

	// OnTaskStart is called when a task begins execution.
	OnTaskStart(name string, at time.Time)

	// OnTaskOutput is called with raw output bytes of a running task.
	// data may hold partial lines or ANSI sequences and must not be retained.
	OnTaskOutput(name string, data []byte)

	// OnTaskFinish is called when a task finished, or was satisfied by a cache.
	OnTaskFinish(ev domain.TaskFinished)

	// OnLog is called with build-level messages that are not tied to a task.
	OnLog(level slog.Level, msg string)
}
