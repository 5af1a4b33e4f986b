package snc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSymbolTable_LookupInnerToOuter(t *testing.T) {
	st := NewSymbolTable()
	st.Add("x", IntType, SymGlobal, MemValue)

	st.PushScope()
	st.Add("x", StringType, SymLocal, MemValue)

	sym := st.Lookup("x")
	require.NotNil(t, sym)
	assert.Equal(t, StringType, sym.Type)
	assert.Equal(t, 1, sym.DeclaredScope)

	st.PopScope()
	sym = st.Lookup("x")
	require.NotNil(t, sym)
	assert.Equal(t, IntType, sym.Type)
	assert.Equal(t, 0, sym.DeclaredScope)
}

func TestSymbolTable_LookupUnbound(t *testing.T) {
	st := NewSymbolTable()
	assert.Nil(t, st.Lookup("missing"))
}

func TestSymbolTable_PopGlobalScopePanics(t *testing.T) {
	st := NewSymbolTable()
	assert.Panics(t, func() { st.PopScope() })
}

func TestSymbolTable_ScopeNamesPreservesInsertionOrder(t *testing.T) {
	st := NewSymbolTable()
	st.Add("c", IntType, SymLocal, MemValue)
	st.Add("a", IntType, SymLocal, MemValue)
	st.Add("b", IntType, SymLocal, MemValue)

	assert.Equal(t, []string{"c", "a", "b"}, st.ScopeNames(0))
}

func TestSymbolTable_RedeclareKeepsInsertionPosition(t *testing.T) {
	st := NewSymbolTable()
	st.Add("a", IntType, SymLocal, MemValue)
	st.Add("b", IntType, SymLocal, MemValue)
	st.Add("a", StringType, SymLocal, MemValue)

	assert.Equal(t, []string{"a", "b"}, st.ScopeNames(0))
	assert.Equal(t, StringType, st.Lookup("a").Type)
}

func TestSymbolTable_LookupInScope(t *testing.T) {
	st := NewSymbolTable()
	st.Add("x", IntType, SymGlobal, MemValue)
	st.PushScope()
	st.Add("y", IntType, SymLocal, MemValue)

	assert.NotNil(t, st.LookupInScope("x", 0))
	assert.Nil(t, st.LookupInScope("y", 0))
	assert.NotNil(t, st.LookupInScope("y", 1))
	assert.Nil(t, st.LookupInScope("y", 5))
}
