package telemetry

import (
	"log/slog"
	"time"

	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/core/ports"
)

// Fanout forwards every event to each of its sinks, in order.
type Fanout struct {
	sinks []ports.EventSink
}

// NewFanout composes sinks. Nil sinks are dropped.
func NewFanout(sinks ...ports.EventSink) *Fanout {
	f := &Fanout{sinks: make([]ports.EventSink, 0, len(sinks))}
	for _, s := range sinks {
		if s != nil {
			f.sinks = append(f.sinks, s)
		}
	}
	return f
}

// OnPlan implements ports.EventSink.
func (f *Fanout) OnPlan(levels [][]string) {
	for _, s := range f.sinks {
		s.OnPlan(levels)
	}
}

// OnTaskStart implements ports.EventSink.
func (f *Fanout) OnTaskStart(name string, at time.Time) {
	for _, s := range f.sinks {
		s.OnTaskStart(name, at)
	}
}

// OnTaskOutput implements ports.EventSink.
func (f *Fanout) OnTaskOutput(name string, data []byte) {
	for _, s := range f.sinks {
		s.OnTaskOutput(name, data)
	}
}

// OnTaskFinish implements ports.EventSink.
func (f *Fanout) OnTaskFinish(ev domain.TaskFinished) {
	for _, s := range f.sinks {
		s.OnTaskFinish(ev)
	}
}

// OnLog implements ports.EventSink.
func (f *Fanout) OnLog(level slog.Level, msg string) {
	for _, s := range f.sinks {
		s.OnLog(level, msg)
	}
}
