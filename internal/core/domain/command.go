package domain

import "time"

// Command is a resolved process invocation.
type Command struct {
	// Task names the task the command runs for, used in errors and logs.
	Task string
	Args []string
	Dir  string
	// Env entries are KEY=VALUE and are added on top of the allow-listed host environment.
	Env     []string
	Timeout time.Duration
}

// ShellCommand returns a command running line through sh -c in dir.
func ShellCommand(task, line, dir string, timeout time.Duration) Command {
	return Command{
		Task:    task,
		Args:    []string{"sh", "-c", line},
		Dir:     dir,
		Timeout: timeout,
	}
}
