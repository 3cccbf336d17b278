package tui

import (
	"log/slog"
	"time"

	"go.trai.ch/forge/internal/core/domain"
)

type msgPlan struct {
	Levels [][]string
}

type msgTaskStart struct {
	Name string
	At   time.Time
}

type msgTaskOutput struct {
	Name string
	Data []byte
}

type msgTaskFinish struct {
	Event domain.TaskFinished
}

type msgLog struct {
	Level slog.Level
	Text  string
}
