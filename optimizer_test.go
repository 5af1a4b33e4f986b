package snc

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stmtCmp delegates to each node's own Equal(Stmt) bool, the same
// contract the rest of the compiler relies on for AST comparisons
// (spec.md §4.5's rewrites must be sound: what survives a pass must
// still be a valid, structurally predictable tree). FunctionStmt and
// MatchExpr compare by identity rather than structure, so tests below
// diff function bodies (*Block) rather than whole FunctionStmt nodes.
var stmtCmp = cmp.Comparer(func(a, b Stmt) bool { return stmtsEqual(a, b) })

func onlyFuncBody(t *testing.T, stmts []Stmt) *Block {
	t.Helper()
	require.Len(t, stmts, 1)
	fn, ok := stmts[0].(*FunctionStmt)
	require.True(t, ok)
	return fn.Body
}

func TestOptimizer_DeadCodeAndUnusedLocals_MatchHandTrimmedTree(t *testing.T) {
	src := "fn f() -> int =>\n  var unused = 1\n  var x = 2\n  return x\n  print(x)\n"
	stmts, diags := parseSrc(t, src)
	require.False(t, diags.HasErrors())

	opt := NewOptimizer(NewConfig())
	stmts = opt.Run(stmts)

	wantSrc := "fn f() -> int =>\n  var x = 2\n  return x\n"
	want, wantDiags := parseSrc(t, wantSrc)
	require.False(t, wantDiags.HasErrors())

	if diff := cmp.Diff(onlyFuncBody(t, want), onlyFuncBody(t, stmts), stmtCmp); diff != "" {
		t.Errorf("optimized body doesn't match hand-trimmed expectation (-want +got):\n%s", diff)
	}
	assert.Equal(t, 1, opt.Stats().VarsRemoved)
	assert.Equal(t, 1, opt.Stats().StmtsRemoved)
}

func TestOptimizer_DeadCodeElimination_Disabled_KeepsEverything(t *testing.T) {
	src := "fn f() -> int =>\n  var unused = 1\n  var x = 2\n  return x\n  print(x)\n"
	stmts, diags := parseSrc(t, src)
	require.False(t, diags.HasErrors())

	cfg := NewConfig()
	cfg.SetBool("optimizer.dead_code", false)
	opt := NewOptimizer(cfg)
	stmts = opt.Run(stmts)

	want, wantDiags := parseSrc(t, src)
	require.False(t, wantDiags.HasErrors())

	if diff := cmp.Diff(onlyFuncBody(t, want), onlyFuncBody(t, stmts), stmtCmp); diff != "" {
		t.Errorf("disabling optimizer.dead_code still changed the body (-want +got):\n%s", diff)
	}
	assert.Zero(t, opt.Stats().VarsRemoved)
	assert.Zero(t, opt.Stats().StmtsRemoved)
}

func TestOptimizer_UnusedLocalWithSideEffectIsKept(t *testing.T) {
	src := "fn f() -> int =>\n  var x = sideEffecting()\n  return 1\n"
	stmts, diags := parseSrc(t, src)
	require.False(t, diags.HasErrors())

	opt := NewOptimizer(NewConfig())
	stmts = opt.Run(stmts)

	want, wantDiags := parseSrc(t, src)
	require.False(t, wantDiags.HasErrors())

	if diff := cmp.Diff(onlyFuncBody(t, want), onlyFuncBody(t, stmts), stmtCmp); diff != "" {
		t.Errorf("a call-initialized local must survive dead-code elimination (-want +got):\n%s", diff)
	}
	assert.Zero(t, opt.Stats().VarsRemoved)
}
