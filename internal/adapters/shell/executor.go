// Package shell provides a process executor for running task commands.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/creack/pty"
	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/zerr"
)

// exitCommandNotFound is the status POSIX shells use when a command cannot be found.
const exitCommandNotFound = 127

const waitDelay = 2 * time.Second

// Process represents a running command.
type Process interface {
	Wait() error
}

type pipeProcess struct {
	cmd *exec.Cmd
}

func (p *pipeProcess) Wait() error {
	return p.cmd.Wait()
}

type ptyProcess struct {
	cmd    *exec.Cmd
	ioDone <-chan struct{}
}

func (p *ptyProcess) Wait() error {
	err := p.cmd.Wait()
	// The copy loop drains what is left in the pty before it closes.
	<-p.ioDone
	return err
}

// Option configures an Executor.
type Option func(*Executor)

// WithPTY runs commands attached to a pseudo terminal, so tools keep their colored
// output. Stdout and stderr are merged into the stdout writer.
func WithPTY() Option {
	return func(e *Executor) {
		e.usePTY = true
	}
}

// Executor implements ports.Executor using os/exec, optionally through a pty.
type Executor struct {
	usePTY  bool
	environ func() []string
}

// NewExecutor creates a new Executor.
func NewExecutor(opts ...Option) *Executor {
	e := &Executor{environ: os.Environ}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Start launches cmd and returns a handle to wait for it.
// An empty argument list yields a nil Process.
func (e *Executor) Start(ctx context.Context, cmd domain.Command, stdout, stderr io.Writer) (Process, error) {
	if len(cmd.Args) == 0 {
		return nil, nil
	}

	name := cmd.Args[0]
	env := resolveEnvironment(e.environ(), cmd.Env)

	executable := name
	if !strings.ContainsRune(name, filepath.Separator) {
		lp, err := lookPath(name, env)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(domain.ErrCommandNotFound, "'"+name+"'"), "command", name)
		}
		executable = lp
	}

	c := exec.CommandContext(ctx, executable, cmd.Args[1:]...) //nolint:gosec // commands come from project configuration
	c.Args[0] = name
	c.Dir = cmd.Dir
	c.Env = env
	// Grandchildren may keep the output pipes open after a kill.
	c.WaitDelay = waitDelay

	if !e.usePTY {
		c.Stdout = stdout
		c.Stderr = stderr
		if err := c.Start(); err != nil {
			return nil, startError(name, err)
		}
		return &pipeProcess{cmd: c}, nil
	}

	ptmx, err := pty.Start(c)
	if err != nil {
		return nil, startError(name, err)
	}
	ioDone := make(chan struct{})
	go func() {
		defer close(ioDone)
		defer func() { _ = ptmx.Close() }()
		_, _ = io.Copy(stdout, ptmx)
	}()
	return &ptyProcess{cmd: c, ioDone: ioDone}, nil
}

// Execute runs cmd and waits for it to complete, enforcing cmd.Timeout when set.
func (e *Executor) Execute(ctx context.Context, cmd domain.Command, stdout, stderr io.Writer) error {
	runCtx := ctx
	if cmd.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, cmd.Timeout)
		defer cancel()
	}

	proc, err := e.Start(runCtx, cmd, stdout, stderr)
	if err != nil {
		return err
	}
	if proc == nil {
		return nil
	}

	waitErr := proc.Wait()
	if waitErr == nil {
		return nil
	}

	if ctx.Err() == nil && errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		err := zerr.With(zerr.Wrap(domain.ErrTaskTimeout, "after "+cmd.Timeout.String()), "timeout", cmd.Timeout.String())
		return zerr.With(err, "task", cmd.Task)
	}

	exitCode := -1
	var exitErr *exec.ExitError
	if errors.As(waitErr, &exitErr) {
		exitCode = exitErr.ExitCode()
	}
	if exitCode == exitCommandNotFound {
		return zerr.With(zerr.Wrap(domain.ErrCommandNotFound, "exit status 127"), "command", strings.Join(cmd.Args, " "))
	}
	err = zerr.With(zerr.Wrap(domain.ErrTaskFailed, fmt.Sprintf("exit status %d", exitCode)), "exit_code", exitCode)
	return zerr.With(err, "task", cmd.Task)
}

func startError(name string, err error) error {
	if errors.Is(err, exec.ErrNotFound) || errors.Is(err, os.ErrNotExist) {
		return zerr.With(zerr.Wrap(domain.ErrCommandNotFound, "'"+name+"'"), "command", name)
	}
	return zerr.With(zerr.Wrap(domain.ErrTaskFailed, err.Error()), "command", name)
}

// allowListedEnvVars are the host environment variables a task inherits. Everything
// else must be passed explicitly so builds stay reproducible across machines.
var allowListedEnvVars = map[string]struct{}{
	"HOME":      {},
	"JAVA_HOME": {},
	"LANG":      {},
	"PATH":      {},
	"TERM":      {},
	"TMPDIR":    {},
	"USER":      {},
}

// resolveEnvironment filters the host environment through the allow-list and applies
// the command's own entries on top. The result is sorted.
func resolveEnvironment(sysEnv, cmdEnv []string) []string {
	envMap := make(map[string]string)
	for _, entry := range sysEnv {
		k, v, ok := strings.Cut(entry, "=")
		if !ok {
			continue
		}
		if _, allowed := allowListedEnvVars[k]; allowed {
			envMap[k] = v
		}
	}
	for _, entry := range cmdEnv {
		if k, v, ok := strings.Cut(entry, "="); ok {
			envMap[k] = v
		}
	}

	result := make([]string, 0, len(envMap))
	for k, v := range envMap {
		result = append(result, k+"="+v)
	}
	slices.Sort(result)
	return result
}

// lookPath searches for an executable in the PATH of env rather than of the current process.
func lookPath(file string, env []string) (string, error) {
	var path string
	for _, e := range env {
		if p, ok := strings.CutPrefix(e, "PATH="); ok {
			path = p
			break
		}
	}
	if path == "" {
		return "", exec.ErrNotFound
	}

	for _, dir := range filepath.SplitList(path) {
		if dir == "" {
			// Unix shell semantics: path element "" means "."
			dir = "."
		}
		candidate := filepath.Join(dir, file)
		if err := findExecutable(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", exec.ErrNotFound
}

func findExecutable(file string) error {
	d, err := os.Stat(file)
	if err != nil {
		return err
	}
	if m := d.Mode(); !m.IsDir() && m&0o111 != 0 {
		return nil
	}
	return os.ErrPermission
}
