package cache

import "time"

// SetClock overrides the time source stamped into the record.
func (m *Manager) SetClock(now func() time.Time) {
	m.now = now
}
