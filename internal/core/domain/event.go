package domain

import "time"

// CacheSource tells where a cached result came from.
type CacheSource uint8

const (
	// CacheNone means the task ran.
	CacheNone CacheSource = iota
	// CacheLocal means the local build cache reported no changes.
	CacheLocal
	// CacheRemote means the output was restored from the remote cache.
	CacheRemote
)

// String returns the lower-case name of the source.
func (s CacheSource) String() string {
	switch s {
	case CacheLocal:
		return "local"
	case CacheRemote:
		return "remote"
	default:
		return "none"
	}
}

// TaskFinished is emitted once for every task that started, and for tasks skipped by a cache hit.
type TaskFinished struct {
	Name        string
	Duration    time.Duration
	Success     bool
	Cached      bool
	CacheSource CacheSource
	Err         error
}
