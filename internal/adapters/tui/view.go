package tui

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"go.trai.ch/forge/internal/ui/style"
)

// View renders the UI.
func (m *Model) View() string {
	if m.ListHeight == 0 {
		return "Initializing..."
	}

	body := lipgloss.JoinHorizontal(
		lipgloss.Top,
		m.taskList(),
		m.logPane(),
	)
	if footer := m.footer(); footer != "" {
		return lipgloss.JoinVertical(lipgloss.Left, body, footer)
	}
	return body
}

func (m *Model) taskList() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render("TASKS") + "\n\n")

	end := min(m.ListOffset+m.ListHeight, len(m.Tasks))
	start := min(m.ListOffset, end)

	for i := start; i < end; i++ {
		s.WriteString(m.renderTaskRow(i, m.Tasks[i]) + "\n")
	}

	return listStyle.Render(s.String())
}

func (m *Model) renderTaskRow(index int, task *TaskNode) string {
	rowStyle := taskStyle(task)

	cursor := "  "
	if index == m.SelectedIdx {
		cursor = selectedStyle.Render("> ")
		if task.Status != StatusDone && task.Status != StatusError {
			rowStyle = selectedStyle
		}
	}

	content := fmt.Sprintf("%s %s", taskIcon(task), task.Name)
	return cursor + rowStyle.Render(content) + " " + levelStyle.Render(fmt.Sprintf("L%d", task.Level))
}

func taskIcon(task *TaskNode) string {
	if task.Cached {
		return style.IconCached
	}

	switch task.Status {
	case StatusRunning:
		return style.IconRunning
	case StatusDone:
		return style.IconPass
	case StatusError:
		return style.IconFail
	default:
		return style.IconPending
	}
}

func taskStyle(task *TaskNode) lipgloss.Style {
	if task.Cached {
		return taskCachedStyle
	}

	switch task.Status {
	case StatusRunning:
		return taskRunningStyle
	case StatusDone:
		return taskDoneStyle
	case StatusError:
		return taskErrorStyle
	default:
		return taskPendingStyle
	}
}

func (m *Model) logPane() string {
	var header, content string

	node, ok := m.TaskMap[m.ActiveTaskName]
	switch {
	case !ok:
		header = titleStyle.Render("LOGS (Waiting...)")
	case node.Status == StatusError:
		header = failureTitleStyle.Render("LOGS: " + node.Name + " [Failed]")
		content = node.Term.View()
		if node.Result.Err != nil {
			content = lipgloss.JoinVertical(lipgloss.Left, content, taskErrorStyle.Render(node.Result.Err.Error()))
		}
	case node.Cached:
		header = titleStyle.Render("LOGS: " + node.Name + " [Cached: " + node.Source.String() + "]")
		content = node.Term.View()
	default:
		mode := " (Manual)"
		if m.FollowMode {
			mode = " (Following)"
		}
		header = titleStyle.Render("LOGS: " + node.Name + mode)
		content = node.Term.View()
	}

	return logStyle.Render(
		lipgloss.JoinVertical(
			lipgloss.Left,
			header,
			content,
		),
	)
}

func (m *Model) footer() string {
	if len(m.Logs) == 0 {
		return ""
	}
	lines := make([]string, 0, len(m.Logs))
	for _, l := range m.Logs {
		switch {
		case l.Level >= slog.LevelError:
			lines = append(lines, taskErrorStyle.Render(style.IconFail+" "+l.Text))
		case l.Level >= slog.LevelWarn:
			lines = append(lines, warnStyle.Render(style.IconAlert+" "+l.Text))
		default:
			lines = append(lines, l.Text)
		}
	}
	return strings.Join(lines, "\n")
}
