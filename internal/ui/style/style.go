// Package style holds the palette and glyphs shared by the linear and TUI renderers.
package style

import "github.com/charmbracelet/lipgloss"

// Palette, named by role so renderers agree on what a color means.
var (
	Accent  = lipgloss.Color("#F97316")
	Muted   = lipgloss.Color("#667085")
	Text    = lipgloss.Color("#FFFFFF")
	Success = lipgloss.Color("#22A06B")
	Failure = lipgloss.Color("#D93025")
	Caution = lipgloss.Color("#F59E0B")
	Info    = lipgloss.Color("#0EA5E9")
)

// Task state glyphs.
const (
	IconPass    = "✓"
	IconFail    = "✗"
	IconAlert   = "!"
	IconCached  = "~"
	IconRunning = "●"
	IconPending = "○"
)
