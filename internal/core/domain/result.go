package domain

import (
	"fmt"
	"strings"
	"time"
)

// MaxReportedStderrLines bounds the stderr excerpt printed for each failed task.
const MaxReportedStderrLines = 20

// TaskResult is the outcome of one task execution.
type TaskResult struct {
	Name     string
	Success  bool
	Duration time.Duration
	Stdout   string
	Stderr   string
	// Cached is set when the task was skipped because its result was already known.
	Cached bool
	Err    error
}

// TaskCrash records an execution unit that aborted before producing a TaskResult.
type TaskCrash struct {
	Name  string
	Panic string
}

// BuildResult aggregates the outcome of a build.
type BuildResult struct {
	Results  []TaskResult
	Crashes  []TaskCrash
	Duration time.Duration
	Success  bool
}

// Failed returns the results of tasks that did not succeed.
func (r *BuildResult) Failed() []TaskResult {
	var out []TaskResult
	for _, res := range r.Results {
		if !res.Success {
			out = append(out, res)
		}
	}
	return out
}

// Result returns the result recorded for name.
func (r *BuildResult) Result(name string) (TaskResult, bool) {
	for _, res := range r.Results {
		if res.Name == name {
			return res, true
		}
	}
	return TaskResult{}, false
}

// FailureReport renders every failed task with a bounded stderr excerpt, followed by
// crashed execution units. A failed task without stderr gets the last lines of its
// stdout instead. It is empty for a successful build.
func (r *BuildResult) FailureReport() string {
	failed := r.Failed()
	if len(failed) == 0 && len(r.Crashes) == 0 {
		return ""
	}

	var b strings.Builder
	for _, res := range failed {
		fmt.Fprintf(&b, "task '%s' failed", res.Name)
		if res.Err != nil {
			fmt.Fprintf(&b, ": %v", res.Err)
		}
		b.WriteByte('\n')

		if strings.TrimSpace(res.Stderr) != "" {
			lines, truncated := headLines(res.Stderr, MaxReportedStderrLines)
			writeExcerpt(&b, lines)
			if truncated > 0 {
				fmt.Fprintf(&b, "  ... (%d more lines)\n", truncated)
			}
			continue
		}
		// A task run through a pty has both streams merged into stdout.
		lines, skipped := tailLines(res.Stdout, MaxReportedStderrLines)
		if skipped > 0 {
			fmt.Fprintf(&b, "  ... (%d earlier lines)\n", skipped)
		}
		writeExcerpt(&b, lines)
	}
	for _, c := range r.Crashes {
		fmt.Fprintf(&b, "task '%s' crashed: %s\n", c.Name, c.Panic)
	}
	return b.String()
}

func writeExcerpt(b *strings.Builder, lines []string) {
	for _, line := range lines {
		b.WriteString("  ")
		b.WriteString(line)
		b.WriteByte('\n')
	}
}

// tailLines returns at most the last n non-trailing lines of s and how many were dropped.
func tailLines(s string, n int) ([]string, int) {
	s = strings.TrimRight(s, "\n")
	if s == "" {
		return nil, 0
	}
	lines := strings.Split(s, "\n")
	if len(lines) <= n {
		return lines, 0
	}
	return lines[len(lines)-n:], len(lines) - n
}

// headLines returns at most n non-trailing lines of s and how many were dropped.
func headLines(s string, n int) ([]string, int) {
	s = strings.TrimRight(s, "\n")
	if s == "" {
		return nil, 0
	}
	lines := strings.Split(s, "\n")
	if len(lines) <= n {
		return lines, 0
	}
	return lines[:n], len(lines) - n
}
