package snc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeLayout_PrimitiveOrdering(t *testing.T) {
	// bool (1/1) then int (8/8): offset must align up to 8 for the int.
	st := NewStructType("Mixed", []Field{
		{Name: "flag", Type: BoolType},
		{Name: "n", Type: IntType},
	}, false)
	ComputeLayout(st)

	assert.Equal(t, 0, st.Fields[0].Offset)
	assert.Equal(t, 8, st.Fields[1].Offset)
	assert.Equal(t, 8, st.Alignment)
	assert.Equal(t, 16, st.Size)
}

func TestComputeLayout_AllNarrowFields(t *testing.T) {
	st := NewStructType("Bytes", []Field{
		{Name: "a", Type: ByteType},
		{Name: "b", Type: ByteType},
		{Name: "c", Type: CharType},
	}, false)
	ComputeLayout(st)

	assert.Equal(t, 0, st.Fields[0].Offset)
	assert.Equal(t, 1, st.Fields[1].Offset)
	assert.Equal(t, 2, st.Fields[2].Offset)
	assert.Equal(t, 1, st.Alignment)
	assert.Equal(t, 3, st.Size)
}

func TestComputeLayout_Invariants(t *testing.T) {
	st := NewStructType("Point", []Field{
		{Name: "x", Type: DoubleType},
		{Name: "y", Type: DoubleType},
		{Name: "tag", Type: Int32Type},
	}, false)
	ComputeLayout(st)

	for i, f := range st.Fields {
		align := alignOf(f.Type)
		assert.Zero(t, f.Offset%align, "offset(%s) must be a multiple of its alignment", f.Name)
		if i > 0 {
			prev := st.Fields[i-1]
			assert.GreaterOrEqual(t, f.Offset, prev.Offset+sizeOf(prev.Type))
		}
	}
	assert.Zero(t, st.Size%st.Alignment)
}

func TestComputeLayout_NestedStructContributesOwnSize(t *testing.T) {
	point := NewStructType("Point", []Field{
		{Name: "x", Type: DoubleType},
		{Name: "y", Type: DoubleType},
	}, false)
	ComputeLayout(point)

	rect := NewStructType("Rect", []Field{
		{Name: "o", Type: point},
		{Name: "s", Type: point},
	}, false)
	ComputeLayout(rect)

	assert.Equal(t, 0, rect.Fields[0].Offset)
	assert.Equal(t, point.Size, rect.Fields[1].Offset)
	assert.Equal(t, 2*point.Size, rect.Size)
}

func TestComputeLayout_PanicsOnNonStruct(t *testing.T) {
	assert.Panics(t, func() { ComputeLayout(IntType) })
}
