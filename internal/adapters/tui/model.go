package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.trai.ch/forge/internal/core/domain"
)

const (
	taskListWidthRatio = 0.3
	logPaneBorderWidth = 4
	// maxLogLines bounds the build-level messages kept in the footer.
	maxLogLines = 3
)

// TaskStatus represents the current state of a task.
type TaskStatus string

const (
	// StatusPending indicates the task is waiting to start.
	StatusPending TaskStatus = "Pending"
	// StatusRunning indicates the task is currently executing.
	StatusRunning TaskStatus = "Running"
	// StatusDone indicates the task completed successfully.
	StatusDone TaskStatus = "Done"
	// StatusError indicates the task failed.
	StatusError TaskStatus = "Error"
)

// TaskNode represents a single task in the UI list.
type TaskNode struct {
	Name   string
	Level  int
	Status TaskStatus
	Term   *Vterm
	Cached bool
	Source domain.CacheSource
	Result domain.TaskFinished
}

// Model is the Bubble Tea model of a running build.
type Model struct {
	Tasks          []*TaskNode
	TaskMap        map[string]*TaskNode
	Logs           []msgLog
	ActiveTaskName string
	SelectedIdx    int
	ListOffset     int
	ListHeight     int
	LogWidth       int
	LogHeight      int
	FollowMode     bool
	// OnInterrupt is called when the user presses ctrl+c, before the program quits.
	OnInterrupt func()
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

func (m *Model) ensureVisible() {
	if m.ListHeight <= 0 {
		return
	}
	if m.SelectedIdx < m.ListOffset {
		m.ListOffset = m.SelectedIdx
	} else if m.SelectedIdx >= m.ListOffset+m.ListHeight {
		m.ListOffset = m.SelectedIdx - m.ListHeight + 1
	}
}

func (m *Model) selectedTask() *TaskNode {
	if m.SelectedIdx >= 0 && m.SelectedIdx < len(m.Tasks) {
		return m.Tasks[m.SelectedIdx]
	}
	return nil
}

func (m *Model) updateActiveView() {
	node := m.selectedTask()
	if node == nil {
		return
	}
	m.ActiveTaskName = node.Name
	if m.FollowMode {
		node.Term.ScrollToBottom()
	}
}

func (m *Model) selectTask(name string) {
	for i, t := range m.Tasks {
		if t.Name == name {
			m.SelectedIdx = i
			break
		}
	}
	m.ensureVisible()
	m.updateActiveView()
}

func (m *Model) newNode(name string, level int) *TaskNode {
	term := NewVterm()
	if m.LogWidth > 0 && m.LogHeight > 0 {
		term.SetWidth(m.LogWidth)
		term.SetHeight(m.LogHeight)
	}
	node := &TaskNode{Name: name, Level: level, Status: StatusPending, Term: term}
	if m.TaskMap == nil {
		m.TaskMap = make(map[string]*TaskNode)
	}
	m.Tasks = append(m.Tasks, node)
	m.TaskMap[name] = node
	return node
}

// Update implements tea.Model.
//
//nolint:cyclop // one case per message type
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m, m.handleKey(msg)

	case tea.WindowSizeMsg:
		listWidth := int(float64(msg.Width) * taskListWidthRatio)
		m.LogWidth = msg.Width - listWidth - logPaneBorderWidth

		headerHeight := lipgloss.Height(titleStyle.Render("LOGS"))
		m.LogHeight = max(msg.Height-headerHeight-maxLogLines, 1)

		listInfoHeight := lipgloss.Height(titleStyle.Render("TASKS") + "\n\n")
		m.ListHeight = max(msg.Height-listInfoHeight-maxLogLines, 1)
		m.ensureVisible()

		for _, node := range m.Tasks {
			node.Term.SetWidth(m.LogWidth)
			node.Term.SetHeight(m.LogHeight)
		}

	case msgPlan:
		m.Tasks = m.Tasks[:0]
		m.TaskMap = make(map[string]*TaskNode)
		for level, names := range msg.Levels {
			for _, name := range names {
				m.newNode(name, level)
			}
		}
		m.SelectedIdx = 0
		m.ListOffset = 0

	case msgTaskStart:
		node, ok := m.TaskMap[msg.Name]
		if !ok {
			node = m.newNode(msg.Name, 0)
		}
		node.Status = StatusRunning
		if m.FollowMode {
			m.selectTask(msg.Name)
		}

	case msgTaskOutput:
		if node, ok := m.TaskMap[msg.Name]; ok {
			_, _ = node.Term.Write(msg.Data)
		}

	case msgTaskFinish:
		node, ok := m.TaskMap[msg.Event.Name]
		if !ok {
			node = m.newNode(msg.Event.Name, 0)
		}
		node.Result = msg.Event
		node.Cached = msg.Event.Cached
		node.Source = msg.Event.CacheSource
		if msg.Event.Success {
			node.Status = StatusDone
		} else {
			node.Status = StatusError
		}

	case msgLog:
		m.Logs = append(m.Logs, msg)
		if len(m.Logs) > maxLogLines {
			m.Logs = m.Logs[len(m.Logs)-maxLogLines:]
		}
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "ctrl+c":
		if m.OnInterrupt != nil {
			m.OnInterrupt()
		}
		return tea.Quit
	case "q":
		return tea.Quit
	case "k", "up":
		if m.SelectedIdx > 0 {
			m.SelectedIdx--
			m.FollowMode = false
			m.ensureVisible()
			m.updateActiveView()
		}
	case "j", "down":
		if m.SelectedIdx < len(m.Tasks)-1 {
			m.SelectedIdx++
			m.FollowMode = false
			m.ensureVisible()
			m.updateActiveView()
		}
	case "esc":
		m.FollowMode = true
		for i, t := range m.Tasks {
			if t.Status == StatusRunning {
				m.SelectedIdx = i
				break
			}
		}
		m.ensureVisible()
		m.updateActiveView()
	default:
		if node, ok := m.TaskMap[m.ActiveTaskName]; ok {
			node.Term.Update(msg)
		}
	}
	return nil
}
