package snc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckCircularTypes_DirectSelfReference(t *testing.T) {
	n := NewStructType("N", nil, false)
	n.Fields = []Field{
		{Name: "v", Type: IntType},
		{Name: "n", Type: n},
	}

	err := CheckCircularTypes([]*Type{n})
	require.Error(t, err)
	var cerr *CircularTypeError
	require.ErrorAs(t, err, &cerr)
	assert.Contains(t, cerr.Chain, "N")
	assert.True(t, n.IsRecursive)
}

func TestCheckCircularTypes_PointerBreaksCycle(t *testing.T) {
	n := NewStructType("N", nil, false)
	n.Fields = []Field{
		{Name: "v", Type: IntType},
		{Name: "n", Type: NewPointerType(n)},
	}

	assert.NoError(t, CheckCircularTypes([]*Type{n}))
	assert.False(t, n.IsRecursive)
}

func TestCheckCircularTypes_ArrayOfSelfIsCircular(t *testing.T) {
	n := NewStructType("N", nil, false)
	n.Fields = []Field{
		{Name: "children", Type: NewArrayType(n)},
	}

	err := CheckCircularTypes([]*Type{n})
	require.Error(t, err)
}

func TestCheckCircularTypes_IndirectChain(t *testing.T) {
	a := NewStructType("A", nil, false)
	b := NewStructType("B", nil, false)
	a.Fields = []Field{{Name: "b", Type: b}}
	b.Fields = []Field{{Name: "a", Type: a}}

	err := CheckCircularTypes([]*Type{a, b})
	require.Error(t, err)
	var cerr *CircularTypeError
	require.ErrorAs(t, err, &cerr)
	assert.Contains(t, cerr.Chain, "A")
	assert.Contains(t, cerr.Chain, "B")
}

func TestCheckCircularTypes_NativeStructOpaque(t *testing.T) {
	native := NewStructType("CNative", nil, true)
	native.Fields = []Field{{Name: "self", Type: native}}

	assert.NoError(t, CheckCircularTypes([]*Type{native}))
}

func TestCheckCircularTypes_NoCycle(t *testing.T) {
	point := NewStructType("Point", []Field{{Name: "x", Type: DoubleType}}, false)
	rect := NewStructType("Rect", []Field{{Name: "o", Type: point}, {Name: "s", Type: point}}, false)

	assert.NoError(t, CheckCircularTypes([]*Type{point, rect}))
}
