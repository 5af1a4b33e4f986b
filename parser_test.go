package snc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseSrc(t *testing.T, src string) ([]Stmt, *DiagnosticSink) {
	t.Helper()
	diags := NewDiagnosticSink("test.sn")
	p := NewParser("test.sn", []byte(src), diags, nil)
	return p.Parse(), diags
}

func TestParser_VarDecl(t *testing.T) {
	stmts, diags := parseSrc(t, "var x = 1 + 2\n")
	require.False(t, diags.HasErrors())
	require.Len(t, stmts, 1)
	decl, ok := stmts[0].(*VarDecl)
	require.True(t, ok)
	assert.Equal(t, "x", decl.Name)
	_, isBinary := decl.Init.(*BinaryExpr)
	assert.True(t, isBinary)
}

func TestParser_IfElifElse(t *testing.T) {
	src := "if a == 1 => print(1)\nelif a == 2 => print(2)\nelse => print(3)\n"
	stmts, diags := parseSrc(t, src)
	require.False(t, diags.HasErrors())
	require.Len(t, stmts, 1)
	ifs, ok := stmts[0].(*IfStmt)
	require.True(t, ok)
	assert.Len(t, ifs.Elifs, 1)
	require.NotNil(t, ifs.Else)
}

func TestParser_StructDecl_WithDefaults(t *testing.T) {
	stmts, diags := parseSrc(t, "struct Point { x: double = 0.0, y: double = 0.0 }\n")
	require.False(t, diags.HasErrors())
	require.Len(t, stmts, 1)
	sd, ok := stmts[0].(*StructDeclStmt)
	require.True(t, ok)
	require.Len(t, sd.Fields, 2)
	assert.Equal(t, "x", sd.Fields[0].Name)
	assert.NotNil(t, sd.Fields[0].Default)
}

func TestParser_StructLiteral_Nested(t *testing.T) {
	stmts, diags := parseSrc(t, "var r = Rect { o: Point{ x: 1.0 }, s: Point{} }\n")
	require.False(t, diags.HasErrors())
	decl := stmts[0].(*VarDecl)
	lit, ok := decl.Init.(*StructLiteralExpr)
	require.True(t, ok)
	assert.Equal(t, "Rect", lit.TypeName)
	require.Len(t, lit.Fields, 2)
	_, nestedOk := lit.Fields[0].Value.(*StructLiteralExpr)
	assert.True(t, nestedOk)
}

func TestParser_LambdaExpression_SingleLineBody(t *testing.T) {
	stmts, diags := parseSrc(t, "var inc = fn() => count = count + 1\n")
	require.False(t, diags.HasErrors())
	decl := stmts[0].(*VarDecl)
	lam, ok := decl.Init.(*LambdaExpr)
	require.True(t, ok)
	assert.Nil(t, lam.BodyStmts)
	assert.NotNil(t, lam.Body)
}

func TestParser_MatchExpression(t *testing.T) {
	src := "var name = match day\n  1 | 2 | 3 | 4 | 5 => \"weekday\"\n  else => \"weekend\"\n"
	stmts, diags := parseSrc(t, src)
	require.False(t, diags.HasErrors())
	decl := stmts[0].(*VarDecl)
	m, ok := decl.Init.(*MatchExpr)
	require.True(t, ok)
	require.Len(t, m.Arms, 2)
	assert.Len(t, m.Arms[0].Patterns, 5)
	assert.True(t, m.Arms[1].IsElse)
}

func TestParser_BraceBlock_EscapeScenario(t *testing.T) {
	stmts, diags := parseSrc(t, "{ var local = \"hello\"; b.s = local }\n")
	require.False(t, diags.HasErrors())
	require.Len(t, stmts, 1)
	block, ok := stmts[0].(*Block)
	require.True(t, ok)
	require.Len(t, block.Stmts, 2)
	_, isAssign := block.Stmts[1].(*ExprStmt)
	assert.True(t, isAssign)
}

func TestParser_ForEach_Disambiguation(t *testing.T) {
	stmts, diags := parseSrc(t, "for x in xs => print(x)\n")
	require.False(t, diags.HasErrors())
	_, ok := stmts[0].(*ForEachStmt)
	assert.True(t, ok)
}

func TestParser_ClassicForLoop(t *testing.T) {
	stmts, diags := parseSrc(t, "for var i = 0; i < 10; i = i + 1 => print(i)\n")
	require.False(t, diags.HasErrors())
	fs, ok := stmts[0].(*ForStmt)
	require.True(t, ok)
	assert.NotNil(t, fs.Init)
	assert.NotNil(t, fs.Cond)
	assert.NotNil(t, fs.Incr)
}

func TestParser_UnexpectedToken_ReportsAndRecovers(t *testing.T) {
	stmts, diags := parseSrc(t, "var x = )\nvar y = 1\n")
	assert.True(t, diags.HasErrors())
	assert.NotEmpty(t, stmts)
}
