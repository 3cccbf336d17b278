package tui

import (
	"bytes"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/vito/midterm"
)

// Vterm is a scrollable virtual terminal holding the output of one task.
type Vterm struct {
	vt      *midterm.Terminal
	Offset  int
	Height  int
	Width   int
	viewBuf bytes.Buffer
	mu      sync.Mutex
}

// NewVterm creates a new Vterm.
func NewVterm() *Vterm {
	return &Vterm{vt: midterm.NewAutoResizingTerminal()}
}

// Write feeds raw task output, escape sequences included, into the terminal.
// A view pinned to the bottom stays pinned.
func (v *Vterm) Write(p []byte) (int, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	stickToBottom := v.Offset >= v.maxOffset()
	n, err := v.vt.Write(p)
	if stickToBottom {
		v.Offset = v.maxOffset()
	}
	return n, err
}

// SetHeight updates the number of visible rows.
func (v *Vterm) SetHeight(h int) {
	v.mu.Lock()
	defer v.mu.Unlock()

	h = max(h, 1)
	stickToBottom := v.Offset >= v.maxOffset()
	v.Height = h
	if stickToBottom {
		v.Offset = v.maxOffset()
		return
	}
	v.Offset = min(v.Offset, v.maxOffset())
}

// SetWidth updates the terminal width.
func (v *Vterm) SetWidth(w int) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.Width = max(w, 1)
	v.vt.ResizeX(v.Width)
}

// UsedHeight returns the number of lines written so far.
func (v *Vterm) UsedHeight() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.vt.UsedHeight()
}

// ScrollToBottom pins the view to the latest output.
func (v *Vterm) ScrollToBottom() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.Offset = v.maxOffset()
}

// View renders the visible rows.
func (v *Vterm) View() string {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.viewBuf.Reset()
	v.Offset = min(max(v.Offset, 0), v.maxOffset())

	for i := range v.Height {
		row := v.Offset + i
		if row >= v.vt.UsedHeight() {
			break
		}
		if i > 0 {
			_ = v.viewBuf.WriteByte('\n')
		}
		_ = v.vt.RenderLine(&v.viewBuf, row)
	}
	return v.viewBuf.String()
}

// Update scrolls the view on navigation keys.
func (v *Vterm) Update(msg tea.Msg) {
	v.mu.Lock()
	defer v.mu.Unlock()

	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return
	}
	switch key.String() {
	case "pgup", "ctrl+u":
		v.Offset -= v.Height
	case "pgdown", "ctrl+d":
		v.Offset += v.Height
	case "home", "g":
		v.Offset = 0
	case "end", "G":
		v.Offset = v.maxOffset()
	}
	v.Offset = min(max(v.Offset, 0), v.maxOffset())
}

func (v *Vterm) maxOffset() int {
	return max(v.vt.UsedHeight()-v.Height, 0)
}
