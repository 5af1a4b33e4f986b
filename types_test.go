package snc

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

// typeCmp compares two *Type trees via Type.Equal (spec.md §4.2's
// structural comparator), giving cmp.Diff a readable failure message
// instead of a hand-rolled field-by-field dump.
var typeCmp = cmp.Comparer(func(a, b *Type) bool { return a.Equal(b) })

func TestType_Equal_StructuralArrayOfStruct(t *testing.T) {
	point := NewStructType("Point", []Field{
		{Name: "x", Type: DoubleType},
		{Name: "y", Type: DoubleType},
	}, false)
	ComputeLayout(point)

	a := NewArrayType(point)
	b := NewArrayType(CloneType(point))

	if diff := cmp.Diff(a, b, typeCmp); diff != "" {
		t.Errorf("structurally identical array-of-struct types differ (-a +b):\n%s", diff)
	}
}

func TestType_Equal_DetectsFieldTypeMismatch(t *testing.T) {
	a := NewStructType("Rect", []Field{{Name: "w", Type: IntType}}, false)
	b := NewStructType("Rect", []Field{{Name: "w", Type: DoubleType}}, false)

	if diff := cmp.Diff(a, b, typeCmp); diff == "" {
		t.Fatal("expected a diff between int and double field types, got none")
	}
}

func TestType_Equal_RecursiveStructViaPointerTerminates(t *testing.T) {
	node := NewStructType("Node", nil, false)
	node.Fields = []Field{
		{Name: "next", Type: NewPointerType(node)},
		{Name: "value", Type: IntType},
	}
	node.IsRecursive = true

	clone := CloneType(node)

	if diff := cmp.Diff(node, clone, typeCmp); diff != "" {
		t.Errorf("self-referential struct didn't clone isomorphically (-orig +clone):\n%s", diff)
	}
}
