package domain

import "time"

// ActionKind selects how a task is executed.
type ActionKind uint8

const (
	// ActionComposite has no payload and only aggregates dependencies.
	ActionComposite ActionKind = iota
	// ActionCommand runs an opaque shell command line.
	ActionCommand
	// ActionInternal runs a built-in operation delegated to the language toolchain.
	ActionInternal
)

// String returns the lower-case name of the kind.
func (k ActionKind) String() string {
	switch k {
	case ActionCommand:
		return "command"
	case ActionInternal:
		return "internal"
	default:
		return "composite"
	}
}

// InternalOp identifies a built-in operation.
type InternalOp uint8

const (
	// OpCompile compiles the project sources into the output directory.
	OpCompile InternalOp = iota + 1
	// OpRun runs the compiled project entry point.
	OpRun
	// OpTest runs the project test suite.
	OpTest
	// OpPackage bundles the compiled output into a distributable artifact.
	OpPackage
	// OpClean removes the output directory.
	OpClean
	// OpResolveDeps fetches declared dependencies.
	OpResolveDeps
)

var internalOpNames = map[InternalOp]string{
	OpCompile:     "compile",
	OpRun:         "run",
	OpTest:        "test",
	OpPackage:     "package",
	OpClean:       "clean",
	OpResolveDeps: "resolve-deps",
}

// String returns the task name the operation is registered under.
func (op InternalOp) String() string {
	if name, ok := internalOpNames[op]; ok {
		return name
	}
	return "unknown"
}

// Action is the executable payload of a task.
type Action struct {
	Kind     ActionKind
	Command  string
	Internal InternalOp
}

// CommandAction returns an action running line through the shell.
func CommandAction(line string) Action {
	return Action{Kind: ActionCommand, Command: line}
}

// InternalAction returns an action delegating to a built-in operation.
func InternalAction(op InternalOp) Action {
	return Action{Kind: ActionInternal, Internal: op}
}

// CompositeAction returns an action with no payload.
func CompositeAction() Action {
	return Action{Kind: ActionComposite}
}

// Task represents a unit of work in the build graph.
// A task is immutable once added to a Graph.
type Task struct {
	Name        InternedString
	Description string
	DependsOn   []InternedString
	Action      Action
	// Timeout is enforced by the command wrapper, zero means none.
	Timeout time.Duration
}

// DependencyNames returns the dependency names as plain strings.
func (t *Task) DependencyNames() []string {
	out := make([]string, len(t.DependsOn))
	for i, d := range t.DependsOn {
		out[i] = d.String()
	}
	return out
}
