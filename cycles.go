package snc

import "fmt"

// cycleState is the DFS color of a struct type during circular-
// dependency detection.
type cycleState int

const (
	cycleUnseen cycleState = iota
	cycleVisiting
	cycleVisited
)

// CircularTypeError reports a chain of struct names that reference
// each other by value with no pointer indirection to break the cycle
// (spec.md §4.4.2).
type CircularTypeError struct {
	Chain []string
}

func (e *CircularTypeError) Error() string {
	s := "circular struct dependency: "
	for i, name := range e.Chain {
		if i > 0 {
			s += " -> "
		}
		s += name
	}
	return s
}

// CheckCircularTypes runs the DFS described in spec.md §4.4.2 over
// every struct in structs, in order, and returns the first circular
// chain found. Descending through an array field keeps searching for
// a cycle (an array of a struct embeds no indirection in this
// language's layout); descending through a pointer field stops,
// since a pointer breaks the cycle. Non-native structs only: native
// structs are opaque to this language and carry no field graph to
// walk.
func CheckCircularTypes(structs []*Type) error {
	state := make(map[*Type]cycleState, len(structs))
	for _, s := range structs {
		if s.IsNative {
			continue
		}
		if state[s] == cycleUnseen {
			if chain := dfsCycle(s, state, nil); chain != nil {
				s.IsRecursive = true
				return &CircularTypeError{Chain: chain}
			}
		}
	}
	return nil
}

// dfsCycle walks t's field graph. It returns the chain of struct
// names from the first repeated struct to t if it finds one, or nil.
func dfsCycle(t *Type, state map[*Type]cycleState, path []*Type) []string {
	state[t] = cycleVisiting
	path = append(path, t)

	for _, f := range t.Fields {
		if chain := walkFieldType(f.Type, state, path); chain != nil {
			return chain
		}
	}

	state[t] = cycleVisited
	return nil
}

// walkFieldType descends into a field's type looking for a struct
// already on the current DFS path. Pointers stop the descent; arrays,
// nullables and direct struct embedding continue it.
func walkFieldType(t *Type, state map[*Type]cycleState, path []*Type) []string {
	switch t.Kind {
	case TyPointer:
		return nil
	case TyArray, TyNullable:
		return walkFieldType(t.Elem, state, path)
	case TyStruct:
		if t.IsNative {
			return nil
		}
		switch state[t] {
		case cycleVisiting:
			return chainFrom(path, t)
		case cycleVisited:
			return nil
		default:
			return dfsCycle(t, state, path)
		}
	default:
		return nil
	}
}

// chainFrom builds the reported name chain starting at the first
// occurrence of target in path, through to target again.
func chainFrom(path []*Type, target *Type) []string {
	start := 0
	for i, t := range path {
		if t == target {
			start = i
			break
		}
	}
	names := make([]string, 0, len(path)-start+1)
	for _, t := range path[start:] {
		names = append(names, nameOrAnon(t))
	}
	names = append(names, nameOrAnon(target))
	return names
}

func nameOrAnon(t *Type) string {
	if t.Name != "" {
		return t.Name
	}
	return fmt.Sprintf("<anonymous struct %p>", t)
}
