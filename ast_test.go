package snc

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

// exprCmp delegates to each node's own Equal(Expr) bool (spec.md §4.3),
// so cmp.Diff can report which subexpression actually differs instead
// of a single "not equal" boolean.
var exprCmp = cmp.Comparer(func(a, b Expr) bool { return exprsEqual(a, b) })

func exprOf(t *testing.T, src string) Expr {
	t.Helper()
	stmts, diags := parseSrc(t, "var __t = "+src+"\n")
	require.False(t, diags.HasErrors())
	return stmts[0].(*VarDecl).Init
}

func TestAST_Equal_IdenticalSourceParsesToStructurallyEqualTrees(t *testing.T) {
	a := exprOf(t, "1 + 2 * foo(x, y)")
	b := exprOf(t, "1 + 2 * foo(x, y)")

	if diff := cmp.Diff(a, b, exprCmp); diff != "" {
		t.Errorf("two parses of the same source produced different trees (-a +b):\n%s", diff)
	}
}

func TestAST_Equal_OperatorChangeIsDetected(t *testing.T) {
	a := exprOf(t, "1 + 2 * foo(x, y)")
	b := exprOf(t, "1 - 2 * foo(x, y)")

	if diff := cmp.Diff(a, b, exprCmp); diff == "" {
		t.Fatal("expected a diff between + and - trees, got none")
	}
}

func TestAST_Equal_StructLiteralFieldOrderMatters(t *testing.T) {
	a := exprOf(t, "Point{ x: 1.0, y: 2.0 }")
	b := exprOf(t, "Point{ y: 2.0, x: 1.0 }")

	// Equal compares field slices positionally (ast_expr.go's
	// StructLiteralExpr.Equal), so reordered-but-equivalent field lists
	// are reported as a diff rather than silently treated as the same.
	if diff := cmp.Diff(a, b, exprCmp); diff == "" {
		t.Fatal("expected field-order diff between reordered struct literals, got none")
	}
}
