package tui

import (
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.trai.ch/forge/internal/core/domain"
)

// MaxOffset exposes the private maxOffset method for testing.
func (v *Vterm) MaxOffset() int {
	return v.maxOffset()
}

func PlanMsg(levels [][]string) tea.Msg {
	return msgPlan{Levels: levels}
}

func TaskStartMsg(name string) tea.Msg {
	return msgTaskStart{Name: name, At: time.Now()}
}

func TaskOutputMsg(name, data string) tea.Msg {
	return msgTaskOutput{Name: name, Data: []byte(data)}
}

func TaskFinishMsg(ev domain.TaskFinished) tea.Msg {
	return msgTaskFinish{Event: ev}
}

func LogMsg(level slog.Level, text string) tea.Msg {
	return msgLog{Level: level, Text: text}
}
