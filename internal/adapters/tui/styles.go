package tui

import (
	"github.com/charmbracelet/lipgloss"
	"go.trai.ch/forge/internal/ui/style"
)

var (
	taskPendingStyle = lipgloss.NewStyle().Foreground(style.Muted)
	taskRunningStyle = lipgloss.NewStyle().Foreground(style.Accent).Bold(true)
	taskDoneStyle    = lipgloss.NewStyle().Foreground(style.Success)
	taskErrorStyle   = lipgloss.NewStyle().Foreground(style.Failure)
	taskCachedStyle  = lipgloss.NewStyle().Foreground(style.Info).Faint(true)
	selectedStyle    = lipgloss.NewStyle().Foreground(style.Accent).Bold(true)
	levelStyle       = lipgloss.NewStyle().Foreground(style.Muted).Faint(true)
	warnStyle        = lipgloss.NewStyle().Foreground(style.Caution)
	listStyle        = lipgloss.NewStyle().PaddingRight(2)
)

var titleStyle = lipgloss.NewStyle().
	Bold(true).
	Padding(0, 1).
	Background(style.Accent).
	Foreground(style.Text)

var failureTitleStyle = lipgloss.NewStyle().
	Bold(true).
	Padding(0, 1).
	Background(style.Failure).
	Foreground(style.Text)

var logStyle = lipgloss.NewStyle().
	BorderStyle(lipgloss.NormalBorder()).
	BorderLeft(true).
	BorderForeground(style.Muted).
	PaddingLeft(1)
