package domain

import (
	"path/filepath"
	"regexp"
	"slices"
	"time"

	"go.trai.ch/zerr"
)

// Built-in task names.
const (
	TaskClean       = "clean"
	TaskResolveDeps = "resolve-deps"
	TaskCompile     = "compile"
	TaskTest        = "test"
	TaskRun         = "run"
	TaskPackage     = "package"
	TaskBuild       = "build"
)

// BuiltinTaskNames lists the tasks every project graph contains.
var BuiltinTaskNames = []string{
	TaskBuild, TaskClean, TaskCompile, TaskPackage, TaskResolveDeps, TaskRun, TaskTest,
}

// Supported project languages.
const (
	LangJava   = "java"
	LangKotlin = "kotlin"
	LangPython = "python"
)

var taskNamePattern = regexp.MustCompile(`^[a-zA-Z0-9_:-]+$`)

// LanguageSettings holds the language section of the configuration.
type LanguageSettings struct {
	// SourceDir is relative to the project root.
	SourceDir string
	// MainEntry is the main class (JVM) or main script (python).
	MainEntry string
	// Target is the bytecode target (JVM) or interpreter version (python).
	Target string
	// TestClasspath holds extra test runner artifacts, such as the JUnit console launcher.
	TestClasspath string
}

// TaskSpec is a custom task declared in configuration.
type TaskSpec struct {
	Name        string
	Command     string
	Description string
	DependsOn   []string
	Timeout     time.Duration
}

// Project is a loaded and validated project configuration.
type Project struct {
	Name         string
	Version      string
	Description  string
	Root         string
	OutputDir    string
	Lang         string
	Settings     LanguageSettings
	Dependencies map[string]string
	Remote       RemoteCacheConfig
	Tasks        []TaskSpec
	// ConfigPath is the file the project was loaded from.
	ConfigPath string
}

// SourcePath returns the absolute source directory.
func (p *Project) SourcePath() string {
	return filepath.Join(p.Root, p.Settings.SourceDir)
}

// OutputPath returns the absolute output directory.
func (p *Project) OutputPath() string {
	return filepath.Join(p.Root, p.OutputDir)
}

// PythonInterpreter returns python3, or python<version> when the target pins one.
func (p *Project) PythonInterpreter() string {
	if p.Settings.Target == "" {
		return "python3"
	}
	return "python" + p.Settings.Target
}

// ValidateTaskName checks a custom task name against the allowed character set and
// the built-in names.
func ValidateTaskName(name string) error {
	if !taskNamePattern.MatchString(name) {
		return zerr.With(zerr.Wrap(ErrInvalidTaskName, "'"+name+"'"), "task", name)
	}
	if slices.Contains(BuiltinTaskNames, name) {
		return zerr.With(zerr.Wrap(ErrReservedTaskName, "'"+name+"'"), "task", name)
	}
	return nil
}

// Graph builds the full task graph of the project: built-in tasks plus custom tasks.
// The graph is not validated.
func (p *Project) Graph() (*Graph, error) {
	g := NewGraph()

	compileDeps := []string(nil)
	builtins := []Task{
		{Name: NewInternedString(TaskClean), Description: "Remove the output directory", Action: InternalAction(OpClean)},
	}
	if len(p.Dependencies) > 0 {
		builtins = append(builtins, Task{
			Name:        NewInternedString(TaskResolveDeps),
			Description: "Fetch declared dependencies",
			Action:      InternalAction(OpResolveDeps),
		})
		compileDeps = []string{TaskResolveDeps}
	}
	afterCompile := InternAll([]string{TaskCompile})
	builtins = append(builtins,
		Task{
			Name:        NewInternedString(TaskCompile),
			Description: "Compile sources",
			DependsOn:   InternAll(compileDeps),
			Action:      InternalAction(OpCompile),
		},
		Task{Name: NewInternedString(TaskTest), Description: "Run tests", DependsOn: afterCompile, Action: InternalAction(OpTest)},
		Task{Name: NewInternedString(TaskRun), Description: "Run the project", DependsOn: afterCompile, Action: InternalAction(OpRun)},
		Task{
			Name:        NewInternedString(TaskPackage),
			Description: "Package the compiled output",
			DependsOn:   afterCompile,
			Action:      InternalAction(OpPackage),
		},
		Task{Name: NewInternedString(TaskBuild), Description: "Build the project", DependsOn: afterCompile, Action: CompositeAction()},
	)
	for i := range builtins {
		if err := g.AddTask(&builtins[i]); err != nil {
			return nil, err
		}
	}

	for _, spec := range p.Tasks {
		if err := ValidateTaskName(spec.Name); err != nil {
			return nil, err
		}
		action := CompositeAction()
		if spec.Command != "" {
			action = CommandAction(spec.Command)
		}
		task := Task{
			Name:        NewInternedString(spec.Name),
			Description: spec.Description,
			DependsOn:   InternAll(spec.DependsOn),
			Action:      action,
			Timeout:     spec.Timeout,
		}
		if err := g.AddTask(&task); err != nil {
			return nil, err
		}
	}

	return g, nil
}
