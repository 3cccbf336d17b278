// Package domain contains the core domain models and business logic for the task dependency graph.
package domain

import (
	"errors"
	"iter"
	"slices"
	"strings"

	"go.trai.ch/zerr"
)

// MaxGraphDepth bounds the length of any dependency chain explored by Validate.
const MaxGraphDepth = 1024

type color uint8

const (
	white color = iota
	gray
	black
)

// Graph represents a dependency graph of tasks.
// It is built once per invocation and is read-only after validation.
type Graph struct {
	tasks map[InternedString]Task
}

// NewGraph creates a new empty Graph.
func NewGraph() *Graph {
	return &Graph{
		tasks: make(map[InternedString]Task),
	}
}

// AddTask adds a task to the graph. Dependencies are not checked until Validate.
// It returns an error if a task with the same name already exists.
func (g *Graph) AddTask(t *Task) error {
	if _, exists := g.tasks[t.Name]; exists {
		return zerr.With(zerr.Wrap(ErrTaskAlreadyExists, t.Name.String()), "task", t.Name.String())
	}
	task := *t
	task.DependsOn = slices.Clone(t.DependsOn)
	g.tasks[t.Name] = task
	return nil
}

// Task returns the task registered under name.
func (g *Graph) Task(name InternedString) (Task, bool) {
	t, ok := g.tasks[name]
	return t, ok
}

// TaskCount returns the number of tasks in the graph.
func (g *Graph) TaskCount() int {
	return len(g.tasks)
}

// Names returns all task names in lexicographic order.
func (g *Graph) Names() []InternedString {
	names := make([]InternedString, 0, len(g.tasks))
	for name := range g.tasks {
		names = append(names, name)
	}
	slices.SortFunc(names, InternedString.Compare)
	return names
}

// Dependents returns the sorted names of tasks that list name as a dependency.
func (g *Graph) Dependents(name InternedString) []InternedString {
	var out []InternedString
	for n, t := range g.tasks {
		if slices.Contains(t.DependsOn, name) {
			out = append(out, n)
		}
	}
	slices.SortFunc(out, InternedString.Compare)
	return out
}

// Walk returns an iterator over tasks in topological order.
// It yields nothing if the graph is invalid.
func (g *Graph) Walk() iter.Seq[Task] {
	return func(yield func(Task) bool) {
		order, err := g.TopologicalOrder()
		if err != nil {
			return
		}
		for _, name := range order {
			if !yield(g.tasks[name]) {
				return
			}
		}
	}
}

// Validate checks that the graph is acyclic and that every dependency exists.
//
// The traversal is an iterative depth-first search with three colors. Roots are visited
// in lexicographic order so the reported cycle is stable across runs. References to
// unknown tasks are skipped during the traversal and reported afterwards.
func (g *Graph) Validate() error {
	names := g.Names()
	index := make(map[InternedString]int, len(names))
	for i, n := range names {
		index[n] = i
	}

	type frame struct {
		node int
		next int
	}

	colors := make([]color, len(names))
	stack := make([]frame, 0, min(len(names), MaxGraphDepth))

	for root := range names {
		if colors[root] != white {
			continue
		}
		colors[root] = gray
		stack = append(stack[:0], frame{node: root})

		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			deps := g.tasks[names[top.node]].DependsOn
			if top.next == len(deps) {
				colors[top.node] = black
				stack = stack[:len(stack)-1]
				continue
			}
			dep := deps[top.next]
			top.next++

			next, ok := index[dep]
			if !ok {
				continue
			}
			switch colors[next] {
			case gray:
				path := make([]InternedString, 0, len(stack))
				for _, f := range stack {
					path = append(path, names[f.node])
				}
				return cycleError(path, dep)
			case white:
				if len(stack) >= MaxGraphDepth {
					return zerr.With(zerr.Wrap(ErrGraphTooDeep, names[root].String()), "max_depth", MaxGraphDepth)
				}
				colors[next] = gray
				stack = append(stack, frame{node: next})
			}
		}
	}

	for _, name := range names {
		for _, dep := range g.tasks[name].DependsOn {
			if _, ok := g.tasks[dep]; !ok {
				err := zerr.Wrap(ErrTaskNotFound, "'"+dep.String()+"' (referenced by '"+name.String()+"')")
				err = zerr.With(err, "task", dep.String())
				return zerr.With(err, "referenced_by", name.String())
			}
		}
	}

	return nil
}

// cycleError builds the error for a back edge to dep, given the current DFS path.
func cycleError(path []InternedString, dep InternedString) error {
	start := slices.Index(path, dep)
	nodes := make([]string, 0, len(path)-start+1)
	for _, n := range path[start:] {
		nodes = append(nodes, n.String())
	}
	nodes = append(nodes, dep.String())
	chain := strings.Join(nodes, " -> ")

	err := zerr.With(zerr.Wrap(ErrCycleDetected, chain), "cycle", chain)
	return zerr.With(err, "cycle_nodes", nodes[:len(nodes)-1])
}

// CycleOf returns the distinct tasks on the cycle reported by err, in traversal order.
// It returns nil if err does not describe a cycle.
func CycleOf(err error) []string {
	for e := err; e != nil; e = errors.Unwrap(e) {
		zErr, ok := e.(*zerr.Error)
		if !ok {
			continue
		}
		if nodes, ok := zErr.Metadata()["cycle_nodes"].([]string); ok {
			return slices.Clone(nodes)
		}
	}
	return nil
}

// TopologicalOrder validates the graph and returns every task name such that each
// task appears after all of its dependencies.
//
// Kahn's algorithm with a FIFO queue. Ties are broken lexicographically: the initial
// queue is sorted, and tasks released by the same dequeue are enqueued in sorted order.
func (g *Graph) TopologicalOrder() ([]InternedString, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}

	names := g.Names()
	remaining := make(map[InternedString]int, len(names))
	dependents := make(map[InternedString][]InternedString, len(names))
	queue := make([]InternedString, 0, len(names))

	for _, name := range names {
		deps := g.tasks[name].DependsOn
		remaining[name] = len(deps)
		for _, dep := range deps {
			dependents[dep] = append(dependents[dep], name)
		}
		if len(deps) == 0 {
			queue = append(queue, name)
		}
	}

	order := make([]InternedString, 0, len(names))
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		order = append(order, current)

		// names is sorted, so dependents lists are built in sorted order.
		for _, d := range dependents[current] {
			remaining[d]--
			if remaining[d] == 0 {
				queue = append(queue, d)
			}
		}
	}

	return order, nil
}

// ParallelLevels validates the graph and partitions it into levels. Every task in
// level k depends only on tasks in levels below k, so members of a level may run
// concurrently. Each level is sorted lexicographically. An empty graph has no levels.
func (g *Graph) ParallelLevels() ([][]InternedString, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}

	names := g.Names()
	completed := make(map[InternedString]bool, len(names))
	var levels [][]InternedString

	for len(completed) < len(names) {
		var level []InternedString
		for _, name := range names {
			if completed[name] {
				continue
			}
			ready := true
			for _, dep := range g.tasks[name].DependsOn {
				if !completed[dep] {
					ready = false
					break
				}
			}
			if ready {
				level = append(level, name)
			}
		}
		if len(level) == 0 {
			// Unreachable after Validate.
			break
		}
		for _, name := range level {
			completed[name] = true
		}
		levels = append(levels, level)
	}

	return levels, nil
}

// Subgraph returns a new graph holding the given targets and everything they depend on.
// With no targets, the whole graph is copied.
func (g *Graph) Subgraph(targets ...InternedString) (*Graph, error) {
	sub := NewGraph()
	if len(targets) == 0 {
		for name, t := range g.tasks {
			sub.tasks[name] = t
		}
		return sub, nil
	}

	queue := slices.Clone(targets)
	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]
		if _, seen := sub.tasks[name]; seen {
			continue
		}
		t, ok := g.tasks[name]
		if !ok {
			return nil, zerr.With(zerr.Wrap(ErrTaskNotFound, "'"+name.String()+"'"), "task", name.String())
		}
		sub.tasks[name] = t
		queue = append(queue, t.DependsOn...)
	}
	return sub, nil
}
