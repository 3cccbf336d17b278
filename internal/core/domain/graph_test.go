package domain_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/zerr"
)

func task(name string, deps ...string) *domain.Task {
	return &domain.Task{
		Name:      domain.NewInternedString(name),
		DependsOn: domain.InternAll(deps),
	}
}

func newGraph(t *testing.T, tasks ...*domain.Task) *domain.Graph {
	t.Helper()
	g := domain.NewGraph()
	for _, tk := range tasks {
		require.NoError(t, g.AddTask(tk))
	}
	return g
}

func strs(names []domain.InternedString) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = n.String()
	}
	return out
}

func levelStrs(levels [][]domain.InternedString) [][]string {
	out := make([][]string, len(levels))
	for i, l := range levels {
		out[i] = strs(l)
	}
	return out
}

func TestGraph_AddTask(t *testing.T) {
	g := domain.NewGraph()
	require.NoError(t, g.AddTask(task("task1")))

	err := g.AddTask(task("task1"))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrTaskAlreadyExists)

	zErr, ok := err.(*zerr.Error)
	require.True(t, ok, "expected *zerr.Error, got %T", err)
	assert.Equal(t, "task1", zErr.Metadata()["task"])
	assert.Equal(t, 1, g.TaskCount())
}

func TestGraph_AddTask_CopiesDependencies(t *testing.T) {
	deps := domain.InternAll([]string{"b"})
	g := newGraph(t, &domain.Task{Name: domain.NewInternedString("a"), DependsOn: deps}, task("b"), task("c"))

	deps[0] = domain.NewInternedString("c")

	got, ok := g.Task(domain.NewInternedString("a"))
	require.True(t, ok)
	assert.Equal(t, []string{"b"}, got.DependencyNames())
}

func TestGraph_Validate_Cycle(t *testing.T) {
	tests := []struct {
		name      string
		tasks     []*domain.Task
		wantCycle []string
		wantChain string
	}{
		{
			name:      "self loop",
			tasks:     []*domain.Task{task("A", "A")},
			wantCycle: []string{"A"},
			wantChain: "A -> A",
		},
		{
			name:      "two nodes",
			tasks:     []*domain.Task{task("A", "B"), task("B", "A")},
			wantCycle: []string{"A", "B"},
			wantChain: "A -> B -> A",
		},
		{
			name:      "three nodes",
			tasks:     []*domain.Task{task("A", "B"), task("B", "C"), task("C", "A")},
			wantCycle: []string{"A", "B", "C"},
			wantChain: "A -> B -> C -> A",
		},
		{
			name: "cycle below an acyclic prefix",
			tasks: []*domain.Task{
				task("app", "lib"), task("lib", "x"), task("x", "y"), task("y", "x"),
			},
			wantCycle: []string{"x", "y"},
			wantChain: "x -> y -> x",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newGraph(t, tt.tasks...)

			err := g.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrCycleDetected)
			assert.Equal(t, tt.wantCycle, domain.CycleOf(err))

			zErr, ok := err.(*zerr.Error)
			require.True(t, ok)
			assert.Equal(t, tt.wantChain, zErr.Metadata()["cycle"])
			assert.Contains(t, err.Error(), tt.wantChain)
		})
	}
}

func TestGraph_Validate_CycleReportedBeforeMissingDependency(t *testing.T) {
	g := newGraph(t, task("a", "b", "ghost"), task("b", "a"))

	err := g.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrCycleDetected)
	assert.NotErrorIs(t, err, domain.ErrTaskNotFound)
}

func TestGraph_Validate_MissingDependency(t *testing.T) {
	g := newGraph(t, task("compile", "resolve"), task("test", "compile"))

	err := g.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
	assert.Nil(t, domain.CycleOf(err))

	zErr, ok := err.(*zerr.Error)
	require.True(t, ok)
	meta := zErr.Metadata()
	assert.Equal(t, "resolve", meta["task"])
	assert.Equal(t, "compile", meta["referenced_by"])
}

func TestGraph_Validate_DepthBound(t *testing.T) {
	g := domain.NewGraph()
	for i := range domain.MaxGraphDepth + 1 {
		name := fmt.Sprintf("t%05d", i)
		if i == domain.MaxGraphDepth {
			require.NoError(t, g.AddTask(task(name)))
			continue
		}
		require.NoError(t, g.AddTask(task(name, fmt.Sprintf("t%05d", i+1))))
	}

	err := g.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrGraphTooDeep)
}

func TestGraph_Validate_LongChainWithinBound(t *testing.T) {
	g := domain.NewGraph()
	for i := range domain.MaxGraphDepth {
		name := fmt.Sprintf("t%05d", i)
		if i == domain.MaxGraphDepth-1 {
			require.NoError(t, g.AddTask(task(name)))
			continue
		}
		require.NoError(t, g.AddTask(task(name, fmt.Sprintf("t%05d", i+1))))
	}

	require.NoError(t, g.Validate())
}

func TestGraph_TopologicalOrder(t *testing.T) {
	g := newGraph(t,
		task("A", "B"),
		task("B", "C"),
		task("C"),
	)

	order, err := g.TopologicalOrder()
	require.NoError(t, err)
	assert.Equal(t, []string{"C", "B", "A"}, strs(order))
}

func TestGraph_TopologicalOrder_LexicographicTieBreak(t *testing.T) {
	g := newGraph(t,
		task("zeta"),
		task("alpha"),
		task("mid", "zeta", "alpha"),
		task("beta", "alpha"),
		task("gamma", "alpha"),
	)

	order, err := g.TopologicalOrder()
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "zeta", "beta", "gamma", "mid"}, strs(order))
}

func TestGraph_TopologicalOrder_IsValidPermutation(t *testing.T) {
	g := newGraph(t,
		task("app", "lib", "util"),
		task("lib", "core"),
		task("util", "core"),
		task("core"),
		task("docs"),
		task("release", "app", "docs"),
	)

	order, err := g.TopologicalOrder()
	require.NoError(t, err)
	require.Len(t, order, g.TaskCount())
	assert.ElementsMatch(t, strs(g.Names()), strs(order))

	pos := make(map[string]int, len(order))
	for i, n := range order {
		pos[n.String()] = i
	}
	for _, name := range g.Names() {
		tk, _ := g.Task(name)
		for _, dep := range tk.DependsOn {
			assert.Less(t, pos[dep.String()], pos[name.String()], "%s must come after %s", name, dep)
		}
	}
}

func TestGraph_TopologicalOrder_Invalid(t *testing.T) {
	g := newGraph(t, task("A", "B"), task("B", "A"))

	order, err := g.TopologicalOrder()
	require.ErrorIs(t, err, domain.ErrCycleDetected)
	assert.Nil(t, order)
}

func TestGraph_ParallelLevels(t *testing.T) {
	tests := []struct {
		name  string
		tasks []*domain.Task
		want  [][]string
	}{
		{
			name:  "empty graph",
			tasks: nil,
			want:  [][]string{},
		},
		{
			name: "clean compile test lint",
			tasks: []*domain.Task{
				task("clean"),
				task("compile", "clean"),
				task("test", "compile"),
				task("lint", "compile"),
			},
			want: [][]string{{"clean"}, {"compile"}, {"lint", "test"}},
		},
		{
			name: "diamond",
			tasks: []*domain.Task{
				task("d", "b", "c"),
				task("b", "a"),
				task("c", "a"),
				task("a"),
			},
			want: [][]string{{"a"}, {"b", "c"}, {"d"}},
		},
		{
			name: "uneven depths",
			tasks: []*domain.Task{
				task("top", "short", "long2"),
				task("short"),
				task("long2", "long1"),
				task("long1"),
			},
			want: [][]string{{"long1", "short"}, {"long2"}, {"top"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newGraph(t, tt.tasks...)

			levels, err := g.ParallelLevels()
			require.NoError(t, err)
			assert.Equal(t, tt.want, levelStrs(levels))
		})
	}
}

func TestGraph_ParallelLevels_Properties(t *testing.T) {
	g := newGraph(t,
		task("app", "lib", "util"),
		task("lib", "core"),
		task("util", "core", "gen"),
		task("gen"),
		task("core"),
		task("release", "app"),
	)

	levels, err := g.ParallelLevels()
	require.NoError(t, err)

	levelOf := make(map[string]int)
	var flat []string
	for i, level := range levels {
		for _, n := range level {
			_, dup := levelOf[n.String()]
			require.False(t, dup, "task %s appears in more than one level", n)
			levelOf[n.String()] = i
			flat = append(flat, n.String())
		}
	}
	assert.ElementsMatch(t, strs(g.Names()), flat)

	for _, name := range g.Names() {
		tk, _ := g.Task(name)
		for _, dep := range tk.DependsOn {
			assert.Greater(t, levelOf[name.String()], levelOf[dep.String()])
		}
	}
}

func TestGraph_ParallelLevels_MissingDependency(t *testing.T) {
	g := newGraph(t, task("a", "missing"))

	_, err := g.ParallelLevels()
	require.ErrorIs(t, err, domain.ErrTaskNotFound)
}

func TestGraph_Subgraph(t *testing.T) {
	g := newGraph(t,
		task("clean"),
		task("compile", "clean"),
		task("test", "compile"),
		task("docs"),
	)

	sub, err := g.Subgraph(domain.NewInternedString("test"))
	require.NoError(t, err)
	assert.Equal(t, []string{"clean", "compile", "test"}, strs(sub.Names()))

	all, err := g.Subgraph()
	require.NoError(t, err)
	assert.Equal(t, g.TaskCount(), all.TaskCount())

	_, err = g.Subgraph(domain.NewInternedString("deploy"))
	require.ErrorIs(t, err, domain.ErrTaskNotFound)
}

func TestGraph_Dependents(t *testing.T) {
	g := newGraph(t,
		task("compile"),
		task("test", "compile"),
		task("lint", "compile"),
	)

	assert.Equal(t, []string{"lint", "test"}, strs(g.Dependents(domain.NewInternedString("compile"))))
	assert.Empty(t, g.Dependents(domain.NewInternedString("test")))
}

func TestGraph_Walk(t *testing.T) {
	g := newGraph(t, task("A", "B"), task("B", "C"), task("C"))

	executed := make([]string, 0, 3)
	for tk := range g.Walk() {
		executed = append(executed, tk.Name.String())
	}
	assert.Equal(t, []string{"C", "B", "A"}, executed)
}
