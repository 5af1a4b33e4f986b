package snc

import (
	"fmt"
	"strings"
)

// Stmt is the interface every statement AST node satisfies.
type Stmt interface {
	Span() Span
	Token() Token
	String() string
	Accept(Visitor) error
	Equal(Stmt) bool
}

type stmtBase struct {
	tok Token
}

func (b *stmtBase) Token() Token { return b.tok }
func (b *stmtBase) Span() Span   { return b.tok.Span }

// ---- ExprStmt ----

type ExprStmt struct {
	stmtBase
	Expr Expr
}

func NewExprStmt(tok Token, e Expr) *ExprStmt {
	n := &ExprStmt{Expr: e}
	n.tok = tok
	return n
}

func (n *ExprStmt) String() string { return n.Expr.String() }
func (n *ExprStmt) Accept(v Visitor) error { return v.VisitExprStmt(n) }
func (n *ExprStmt) Equal(o Stmt) bool {
	other, ok := o.(*ExprStmt)
	return ok && exprsEqual(n.Expr, other.Expr)
}

// ---- VarDecl ----

type VarDecl struct {
	stmtBase
	Name string
	Type *Type // nil if to be inferred from Init
	Init Expr  // nil if omitted

	// DeclaredScope is set by the type checker when it records the
	// binding (spec.md §4.4.3).
	DeclaredScope int
}

func NewVarDecl(tok Token, name string, typ *Type, init Expr) *VarDecl {
	n := &VarDecl{Name: name, Type: typ, Init: init}
	n.tok = tok
	return n
}

func (n *VarDecl) String() string {
	if n.Init != nil {
		return fmt.Sprintf("var %s = %s", n.Name, n.Init)
	}
	return fmt.Sprintf("var %s", n.Name)
}
func (n *VarDecl) Accept(v Visitor) error { return v.VisitVarDecl(n) }
func (n *VarDecl) Equal(o Stmt) bool {
	other, ok := o.(*VarDecl)
	return ok && other.Name == n.Name && exprsEqual(n.Init, other.Init)
}

// ---- Block ----

// Block owns a child scope (spec.md §4.3). ScopeDepth is filled in by
// the type checker when it pushes that scope.
type Block struct {
	stmtBase
	Stmts      []Stmt
	ScopeDepth int
}

func NewBlock(tok Token, stmts []Stmt) *Block {
	n := &Block{Stmts: stmts}
	n.tok = tok
	return n
}

func (n *Block) String() string {
	parts := make([]string, len(n.Stmts))
	for i, s := range n.Stmts {
		parts[i] = s.String()
	}
	return "{ " + strings.Join(parts, "; ") + " }"
}
func (n *Block) Accept(v Visitor) error { return v.VisitBlock(n) }
func (n *Block) Equal(o Stmt) bool {
	other, ok := o.(*Block)
	if !ok || len(n.Stmts) != len(other.Stmts) {
		return false
	}
	for i := range n.Stmts {
		if !stmtsEqual(n.Stmts[i], other.Stmts[i]) {
			return false
		}
	}
	return true
}

// ---- If ----

// ElifClause is one `elif cond => body` link in an If chain.
type ElifClause struct {
	Cond Expr
	Body *Block
}

type IfStmt struct {
	stmtBase
	Cond  Expr
	Then  *Block
	Elifs []ElifClause
	Else  *Block // nil if no else
}

func NewIfStmt(tok Token, cond Expr, then *Block, elifs []ElifClause, els *Block) *IfStmt {
	n := &IfStmt{Cond: cond, Then: then, Elifs: elifs, Else: els}
	n.tok = tok
	return n
}

func (n *IfStmt) String() string { return fmt.Sprintf("if %s => %s", n.Cond, n.Then) }
func (n *IfStmt) Accept(v Visitor) error { return v.VisitIfStmt(n) }
func (n *IfStmt) Equal(o Stmt) bool {
	other, ok := o.(*IfStmt)
	if !ok || !exprsEqual(n.Cond, other.Cond) || !stmtsEqual(n.Then, other.Then) || len(n.Elifs) != len(other.Elifs) {
		return false
	}
	for i := range n.Elifs {
		if !exprsEqual(n.Elifs[i].Cond, other.Elifs[i].Cond) || !stmtsEqual(n.Elifs[i].Body, other.Elifs[i].Body) {
			return false
		}
	}
	if (n.Else == nil) != (other.Else == nil) {
		return false
	}
	return n.Else == nil || stmtsEqual(n.Else, other.Else)
}

// ---- While ----

type WhileStmt struct {
	stmtBase
	Cond Expr
	Body *Block
}

func NewWhileStmt(tok Token, cond Expr, body *Block) *WhileStmt {
	n := &WhileStmt{Cond: cond, Body: body}
	n.tok = tok
	return n
}

func (n *WhileStmt) String() string { return fmt.Sprintf("while %s => %s", n.Cond, n.Body) }
func (n *WhileStmt) Accept(v Visitor) error { return v.VisitWhileStmt(n) }
func (n *WhileStmt) Equal(o Stmt) bool {
	other, ok := o.(*WhileStmt)
	return ok && exprsEqual(n.Cond, other.Cond) && stmtsEqual(n.Body, other.Body)
}

// ---- For ----

type ForStmt struct {
	stmtBase
	Init Stmt // nil if omitted
	Cond Expr // nil if omitted
	Incr Stmt // nil if omitted (usually an ExprStmt wrapping an Assign/IncDec)
	Body *Block
}

func NewForStmt(tok Token, init Stmt, cond Expr, incr Stmt, body *Block) *ForStmt {
	n := &ForStmt{Init: init, Cond: cond, Incr: incr, Body: body}
	n.tok = tok
	return n
}

func (n *ForStmt) String() string { return fmt.Sprintf("for ... => %s", n.Body) }
func (n *ForStmt) Accept(v Visitor) error { return v.VisitForStmt(n) }
func (n *ForStmt) Equal(o Stmt) bool {
	other, ok := o.(*ForStmt)
	return ok && stmtsEqual(n.Init, other.Init) && exprsEqual(n.Cond, other.Cond) &&
		stmtsEqual(n.Incr, other.Incr) && stmtsEqual(n.Body, other.Body)
}

// ---- ForEach ----

type ForEachStmt struct {
	stmtBase
	Var      string
	Iterable Expr
	Body     *Block
}

func NewForEachStmt(tok Token, varName string, iterable Expr, body *Block) *ForEachStmt {
	n := &ForEachStmt{Var: varName, Iterable: iterable, Body: body}
	n.tok = tok
	return n
}

func (n *ForEachStmt) String() string {
	return fmt.Sprintf("for %s in %s => %s", n.Var, n.Iterable, n.Body)
}
func (n *ForEachStmt) Accept(v Visitor) error { return v.VisitForEachStmt(n) }
func (n *ForEachStmt) Equal(o Stmt) bool {
	other, ok := o.(*ForEachStmt)
	return ok && other.Var == n.Var && exprsEqual(n.Iterable, other.Iterable) && stmtsEqual(n.Body, other.Body)
}

// ---- Return ----

type ReturnStmt struct {
	stmtBase
	Value Expr // nil if omitted
}

func NewReturnStmt(tok Token, value Expr) *ReturnStmt {
	n := &ReturnStmt{Value: value}
	n.tok = tok
	return n
}

func (n *ReturnStmt) String() string {
	if n.Value != nil {
		return "return " + n.Value.String()
	}
	return "return"
}
func (n *ReturnStmt) Accept(v Visitor) error { return v.VisitReturnStmt(n) }
func (n *ReturnStmt) Equal(o Stmt) bool {
	other, ok := o.(*ReturnStmt)
	return ok && exprsEqual(n.Value, other.Value)
}

// ---- Break / Continue ----

type BreakStmt struct{ stmtBase }

func NewBreakStmt(tok Token) *BreakStmt { n := &BreakStmt{}; n.tok = tok; return n }
func (n *BreakStmt) String() string         { return "break" }
func (n *BreakStmt) Accept(v Visitor) error { return v.VisitBreakStmt(n) }
func (n *BreakStmt) Equal(o Stmt) bool      { _, ok := o.(*BreakStmt); return ok }

type ContinueStmt struct{ stmtBase }

func NewContinueStmt(tok Token) *ContinueStmt { n := &ContinueStmt{}; n.tok = tok; return n }
func (n *ContinueStmt) String() string         { return "continue" }
func (n *ContinueStmt) Accept(v Visitor) error { return v.VisitContinueStmt(n) }
func (n *ContinueStmt) Equal(o Stmt) bool      { _, ok := o.(*ContinueStmt); return ok }

// ---- Function ----

type FunctionStmt struct {
	stmtBase
	Name       string
	Params     []Param
	ReturnType *Type
	Body       *Block
	Modifier   FunctionModifier
	IsNative   bool

	Captures []CaptureInfo // non-empty only for nested (closure-capable) functions
}

func NewFunctionStmt(tok Token, name string, params []Param, ret *Type, body *Block, mod FunctionModifier, isNative bool) *FunctionStmt {
	n := &FunctionStmt{Name: name, Params: params, ReturnType: ret, Body: body, Modifier: mod, IsNative: isNative}
	n.tok = tok
	return n
}

func (n *FunctionStmt) String() string {
	return fmt.Sprintf("fn %s(%d params) %s", n.Name, len(n.Params), n.Modifier)
}
func (n *FunctionStmt) Accept(v Visitor) error { return v.VisitFunctionStmt(n) }
func (n *FunctionStmt) Equal(o Stmt) bool { return n == o }

// ---- StructDecl ----

type StructDeclStmt struct {
	stmtBase
	Name     string
	Fields   []Field
	IsNative bool

	Type *Type // populated once layout has run
}

func NewStructDeclStmt(tok Token, name string, fields []Field, isNative bool) *StructDeclStmt {
	n := &StructDeclStmt{Name: name, Fields: fields, IsNative: isNative}
	n.tok = tok
	return n
}

func (n *StructDeclStmt) String() string { return fmt.Sprintf("struct %s{%d fields}", n.Name, len(n.Fields)) }
func (n *StructDeclStmt) Accept(v Visitor) error { return v.VisitStructDeclStmt(n) }
func (n *StructDeclStmt) Equal(o Stmt) bool { return n == o }

// ---- Import ----

type ImportStmt struct {
	stmtBase
	Path string

	// ResolvedStmts holds the imported module's statements once the
	// import resolver has loaded and parsed it (spec.md §4.3 "Import
	// resolution").
	ResolvedStmts []Stmt
}

func NewImportStmt(tok Token, path string) *ImportStmt {
	n := &ImportStmt{Path: path}
	n.tok = tok
	return n
}

func (n *ImportStmt) String() string { return fmt.Sprintf("import %q", n.Path) }
func (n *ImportStmt) Accept(v Visitor) error { return v.VisitImportStmt(n) }
func (n *ImportStmt) Equal(o Stmt) bool {
	other, ok := o.(*ImportStmt)
	return ok && other.Path == n.Path
}

// ---- Lock ----

type LockStmt struct {
	stmtBase
	Target Expr
	Body   *Block
}

func NewLockStmt(tok Token, target Expr, body *Block) *LockStmt {
	n := &LockStmt{Target: target, Body: body}
	n.tok = tok
	return n
}

func (n *LockStmt) String() string { return fmt.Sprintf("lock(%s) => %s", n.Target, n.Body) }
func (n *LockStmt) Accept(v Visitor) error { return v.VisitLockStmt(n) }
func (n *LockStmt) Equal(o Stmt) bool {
	other, ok := o.(*LockStmt)
	return ok && exprsEqual(n.Target, other.Target) && stmtsEqual(n.Body, other.Body)
}

// ---- helpers ----

func stmtsEqual(a, b Stmt) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(b)
}
