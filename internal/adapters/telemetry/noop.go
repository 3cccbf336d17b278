package telemetry

import (
	"log/slog"
	"time"

	"go.trai.ch/forge/internal/core/domain"
)

// NoOpSink discards every event.
type NoOpSink struct{}

// OnPlan does nothing.
func (NoOpSink) OnPlan([][]string) {}

// OnTaskStart does nothing.
func (NoOpSink) OnTaskStart(string, time.Time) {}

// OnTaskOutput does nothing.
func (NoOpSink) OnTaskOutput(string, []byte) {}

// OnTaskFinish does nothing.
func (NoOpSink) OnTaskFinish(domain.TaskFinished) {}

// OnLog does nothing.
func (NoOpSink) OnLog(slog.Level, string) {}
