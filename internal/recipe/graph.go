package recipe

import (
	"fmt"
	"strings"
)

type mark int

const (
	unmarked mark = iota
	temporary
	permanent
)

// CycleError reports an invoke chain that leads back to its start
type CycleError struct {
	Path []Target
}

func (e *CycleError) Error() string {
	names := make([]string, len(e.Path))
	for index, target := range e.Path {
		names[index] = target.String()
	}

	return "cyclical target invocation detected: " + strings.Join(names, " -> ")
}

// Validate checks that every target has a recipe, that every Invoke
// step points to a known target and that invocations form no cycle
func (table Table) Validate() error {
	for _, target := range Targets() {
		if _, ok := table[target]; !ok {
			return fmt.Errorf(`target "%s" has no recipe`, target)
		}
	}

	markers := make(map[Target]mark, len(table))
	for _, target := range Targets() {
		err := table.visit(target, markers, nil)
		if err != nil {
			return err
		}
	}

	return nil
}

// Invocations returns the targets that t invokes, in order
func (table Table) Invocations(t Target) []Target {
	result := make([]Target, 0)
	for _, step := range table[t] {
		if invoke, ok := step.(Invoke); ok {
			result = append(result, invoke.Target)
		}
	}

	return result
}

// depth first search according to
// https://www.wikiwand.com/en/Topological_sorting#/Depth-first_search
func (table Table) visit(current Target, markers map[Target]mark, stack []Target) error {
	stack = append(stack, current)
	switch markers[current] {
	case permanent:
		return nil
	case temporary:
		return &CycleError{Path: stack[cycleStart(stack, current):]}
	}

	markers[current] = temporary
	for _, dep := range table.Invocations(current) {
		if _, ok := table[dep]; !ok {
			return fmt.Errorf(`target "%s" invokes "%s" which has no recipe`, current, dep)
		}

		err := table.visit(dep, markers, stack)
		if err != nil {
			return err
		}
	}

	markers[current] = permanent
	return nil
}

func cycleStart(stack []Target, target Target) int {
	for index, t := range stack {
		if t == target {
			return index
		}
	}

	return 0
}
