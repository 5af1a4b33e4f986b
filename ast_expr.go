package snc

import (
	"fmt"
	"strings"
)

// EscapeInfo is threaded through every expression by escape analysis
// (spec.md §4.4.3): "escapes_scope, declared_scope, assigned_into_scope".
// Escaped additionally flags a MemberAccess link along an assignment's
// lvalue chain once escape analysis has walked it.
type EscapeInfo struct {
	EscapesScope      bool
	DeclaredScope     int
	AssignedIntoScope int
	Returned          bool
	Escaped           bool
}

// Expr is the interface every expression AST node satisfies, mirroring
// spec.md §4.3: "Every expression carries: resolved Type, escape-info,
// and a source Token for diagnostics."
type Expr interface {
	Span() Span
	Token() Token
	Type() *Type
	SetType(*Type)
	Escape() *EscapeInfo
	String() string
	Accept(Visitor) error
	Equal(Expr) bool
}

type exprBase struct {
	tok    Token
	typ    *Type
	escape EscapeInfo
}

func (b *exprBase) Token() Token      { return b.tok }
func (b *exprBase) Span() Span        { return b.tok.Span }
func (b *exprBase) Type() *Type       { return b.typ }
func (b *exprBase) SetType(t *Type)   { b.typ = t }
func (b *exprBase) Escape() *EscapeInfo { return &b.escape }

// Param is a function, lambda or native declaration parameter.
type Param struct {
	Name string
	Type *Type
}

// FieldInit is one `name: value` pair inside a StructLiteral.
type FieldInit struct {
	Name  string
	Value Expr
}

// ---- Literal ----

type LiteralExpr struct {
	exprBase
	Value Literal
}

func NewLiteralExpr(tok Token, v Literal) *LiteralExpr {
	n := &LiteralExpr{Value: v}
	n.tok = tok
	return n
}

func (n *LiteralExpr) String() string { return n.tok.Lexeme }
func (n *LiteralExpr) Accept(v Visitor) error { return v.VisitLiteralExpr(n) }
func (n *LiteralExpr) Equal(o Expr) bool {
	other, ok := o.(*LiteralExpr)
	return ok && other.Value == n.Value
}

// ---- Variable ----

type VariableExpr struct {
	exprBase
	Name string
}

func NewVariableExpr(tok Token, name string) *VariableExpr {
	n := &VariableExpr{Name: name}
	n.tok = tok
	return n
}

func (n *VariableExpr) String() string { return n.Name }
func (n *VariableExpr) Accept(v Visitor) error { return v.VisitVariableExpr(n) }
func (n *VariableExpr) Equal(o Expr) bool {
	other, ok := o.(*VariableExpr)
	return ok && other.Name == n.Name
}

// ---- Binary ----

type BinaryExpr struct {
	exprBase
	Op    TokenKind
	Left  Expr
	Right Expr
}

func NewBinaryExpr(tok Token, op TokenKind, l, r Expr) *BinaryExpr {
	n := &BinaryExpr{Op: op, Left: l, Right: r}
	n.tok = tok
	return n
}

func (n *BinaryExpr) String() string {
	return fmt.Sprintf("(%s %s %s)", n.Left, n.Op, n.Right)
}
func (n *BinaryExpr) Accept(v Visitor) error { return v.VisitBinaryExpr(n) }
func (n *BinaryExpr) Equal(o Expr) bool {
	other, ok := o.(*BinaryExpr)
	return ok && other.Op == n.Op && exprsEqual(n.Left, other.Left) && exprsEqual(n.Right, other.Right)
}

// ---- Unary ----

type UnaryExpr struct {
	exprBase
	Op      TokenKind
	Operand Expr
}

func NewUnaryExpr(tok Token, op TokenKind, operand Expr) *UnaryExpr {
	n := &UnaryExpr{Op: op, Operand: operand}
	n.tok = tok
	return n
}

func (n *UnaryExpr) String() string { return fmt.Sprintf("(%s%s)", n.Op, n.Operand) }
func (n *UnaryExpr) Accept(v Visitor) error { return v.VisitUnaryExpr(n) }
func (n *UnaryExpr) Equal(o Expr) bool {
	other, ok := o.(*UnaryExpr)
	return ok && other.Op == n.Op && exprsEqual(n.Operand, other.Operand)
}

// ---- Assign ----

type AssignExpr struct {
	exprBase
	Name  string
	Value Expr
}

func NewAssignExpr(tok Token, name string, value Expr) *AssignExpr {
	n := &AssignExpr{Name: name, Value: value}
	n.tok = tok
	return n
}

func (n *AssignExpr) String() string { return fmt.Sprintf("(%s = %s)", n.Name, n.Value) }
func (n *AssignExpr) Accept(v Visitor) error { return v.VisitAssignExpr(n) }
func (n *AssignExpr) Equal(o Expr) bool {
	other, ok := o.(*AssignExpr)
	return ok && other.Name == n.Name && exprsEqual(n.Value, other.Value)
}

// ---- CompoundAssign ----

type CompoundAssignExpr struct {
	exprBase
	Target Expr
	Op     TokenKind
	Value  Expr
}

func NewCompoundAssignExpr(tok Token, target Expr, op TokenKind, value Expr) *CompoundAssignExpr {
	n := &CompoundAssignExpr{Target: target, Op: op, Value: value}
	n.tok = tok
	return n
}

func (n *CompoundAssignExpr) String() string {
	return fmt.Sprintf("(%s %s %s)", n.Target, n.Op, n.Value)
}
func (n *CompoundAssignExpr) Accept(v Visitor) error { return v.VisitCompoundAssignExpr(n) }
func (n *CompoundAssignExpr) Equal(o Expr) bool {
	other, ok := o.(*CompoundAssignExpr)
	return ok && other.Op == n.Op && exprsEqual(n.Target, other.Target) && exprsEqual(n.Value, other.Value)
}

// ---- IndexAssign ----

type IndexAssignExpr struct {
	exprBase
	Array Expr
	Index Expr
	Value Expr
}

func NewIndexAssignExpr(tok Token, array, index, value Expr) *IndexAssignExpr {
	n := &IndexAssignExpr{Array: array, Index: index, Value: value}
	n.tok = tok
	return n
}

func (n *IndexAssignExpr) String() string {
	return fmt.Sprintf("(%s[%s] = %s)", n.Array, n.Index, n.Value)
}
func (n *IndexAssignExpr) Accept(v Visitor) error { return v.VisitIndexAssignExpr(n) }
func (n *IndexAssignExpr) Equal(o Expr) bool {
	other, ok := o.(*IndexAssignExpr)
	return ok && exprsEqual(n.Array, other.Array) && exprsEqual(n.Index, other.Index) && exprsEqual(n.Value, other.Value)
}

// ---- MemberAccess ----

type MemberAccessExpr struct {
	exprBase
	Object Expr
	Name   string
}

func NewMemberAccessExpr(tok Token, object Expr, name string) *MemberAccessExpr {
	n := &MemberAccessExpr{Object: object, Name: name}
	n.tok = tok
	return n
}

func (n *MemberAccessExpr) String() string { return fmt.Sprintf("%s.%s", n.Object, n.Name) }
func (n *MemberAccessExpr) Accept(v Visitor) error { return v.VisitMemberAccessExpr(n) }
func (n *MemberAccessExpr) Equal(o Expr) bool {
	other, ok := o.(*MemberAccessExpr)
	return ok && other.Name == n.Name && exprsEqual(n.Object, other.Object)
}

// ---- MemberAssign ----

type MemberAssignExpr struct {
	exprBase
	Object Expr
	Name   string
	Value  Expr
}

func NewMemberAssignExpr(tok Token, object Expr, name string, value Expr) *MemberAssignExpr {
	n := &MemberAssignExpr{Object: object, Name: name, Value: value}
	n.tok = tok
	return n
}

func (n *MemberAssignExpr) String() string {
	return fmt.Sprintf("(%s.%s = %s)", n.Object, n.Name, n.Value)
}
func (n *MemberAssignExpr) Accept(v Visitor) error { return v.VisitMemberAssignExpr(n) }
func (n *MemberAssignExpr) Equal(o Expr) bool {
	other, ok := o.(*MemberAssignExpr)
	return ok && other.Name == n.Name && exprsEqual(n.Object, other.Object) && exprsEqual(n.Value, other.Value)
}

// ---- Call ----

type CallExpr struct {
	exprBase
	Callee Expr
	Args   []Expr

	// IsTailCall is set by the optimizer's tail-call pass (spec.md §4.5,
	// optimizer level "full"): a self-recursive call in return position.
	IsTailCall bool
}

func NewCallExpr(tok Token, callee Expr, args []Expr) *CallExpr {
	n := &CallExpr{Callee: callee, Args: args}
	n.tok = tok
	return n
}

func (n *CallExpr) String() string {
	return fmt.Sprintf("%s(%s)", n.Callee, joinExprs(n.Args))
}
func (n *CallExpr) Accept(v Visitor) error { return v.VisitCallExpr(n) }
func (n *CallExpr) Equal(o Expr) bool {
	other, ok := o.(*CallExpr)
	if !ok || !exprsEqual(n.Callee, other.Callee) || len(n.Args) != len(other.Args) {
		return false
	}
	for i := range n.Args {
		if !exprsEqual(n.Args[i], other.Args[i]) {
			return false
		}
	}
	return true
}

// ---- StaticCall ----

// StaticCallExpr is a call addressed to a type's namespace rather than
// through a value, e.g. a struct's associated constructor function.
type StaticCallExpr struct {
	exprBase
	TypeName string
	Method   string
	Args     []Expr
}

func NewStaticCallExpr(tok Token, typeName, method string, args []Expr) *StaticCallExpr {
	n := &StaticCallExpr{TypeName: typeName, Method: method, Args: args}
	n.tok = tok
	return n
}

func (n *StaticCallExpr) String() string {
	return fmt.Sprintf("%s::%s(%s)", n.TypeName, n.Method, joinExprs(n.Args))
}
func (n *StaticCallExpr) Accept(v Visitor) error { return v.VisitStaticCallExpr(n) }
func (n *StaticCallExpr) Equal(o Expr) bool {
	other, ok := o.(*StaticCallExpr)
	if !ok || other.TypeName != n.TypeName || other.Method != n.Method || len(n.Args) != len(other.Args) {
		return false
	}
	for i := range n.Args {
		if !exprsEqual(n.Args[i], other.Args[i]) {
			return false
		}
	}
	return true
}

// ---- ArrayLiteral ----

type ArrayLiteralExpr struct {
	exprBase
	Elements []Expr
}

func NewArrayLiteralExpr(tok Token, elems []Expr) *ArrayLiteralExpr {
	n := &ArrayLiteralExpr{Elements: elems}
	n.tok = tok
	return n
}

func (n *ArrayLiteralExpr) String() string { return "[" + joinExprs(n.Elements) + "]" }
func (n *ArrayLiteralExpr) Accept(v Visitor) error { return v.VisitArrayLiteralExpr(n) }
func (n *ArrayLiteralExpr) Equal(o Expr) bool {
	other, ok := o.(*ArrayLiteralExpr)
	if !ok || len(n.Elements) != len(other.Elements) {
		return false
	}
	for i := range n.Elements {
		if !exprsEqual(n.Elements[i], other.Elements[i]) {
			return false
		}
	}
	return true
}

// ---- ArrayAccess ----

type ArrayAccessExpr struct {
	exprBase
	Array Expr
	Index Expr
}

func NewArrayAccessExpr(tok Token, array, index Expr) *ArrayAccessExpr {
	n := &ArrayAccessExpr{Array: array, Index: index}
	n.tok = tok
	return n
}

func (n *ArrayAccessExpr) String() string { return fmt.Sprintf("%s[%s]", n.Array, n.Index) }
func (n *ArrayAccessExpr) Accept(v Visitor) error { return v.VisitArrayAccessExpr(n) }
func (n *ArrayAccessExpr) Equal(o Expr) bool {
	other, ok := o.(*ArrayAccessExpr)
	return ok && exprsEqual(n.Array, other.Array) && exprsEqual(n.Index, other.Index)
}

// ---- ArraySlice ----

type ArraySliceExpr struct {
	exprBase
	Array Expr
	Start Expr // nil if omitted
	End   Expr // nil if omitted
	Step  Expr // nil if omitted
}

func NewArraySliceExpr(tok Token, array, start, end, step Expr) *ArraySliceExpr {
	n := &ArraySliceExpr{Array: array, Start: start, End: end, Step: step}
	n.tok = tok
	return n
}

func (n *ArraySliceExpr) String() string {
	return fmt.Sprintf("%s[%s:%s:%s]", n.Array, exprOrBlank(n.Start), exprOrBlank(n.End), exprOrBlank(n.Step))
}
func (n *ArraySliceExpr) Accept(v Visitor) error { return v.VisitArraySliceExpr(n) }
func (n *ArraySliceExpr) Equal(o Expr) bool {
	other, ok := o.(*ArraySliceExpr)
	return ok && exprsEqual(n.Array, other.Array) && exprsEqual(n.Start, other.Start) &&
		exprsEqual(n.End, other.End) && exprsEqual(n.Step, other.Step)
}

// ---- Range ----

type RangeExpr struct {
	exprBase
	Start Expr
	End   Expr
}

func NewRangeExpr(tok Token, start, end Expr) *RangeExpr {
	n := &RangeExpr{Start: start, End: end}
	n.tok = tok
	return n
}

func (n *RangeExpr) String() string { return fmt.Sprintf("%s..%s", n.Start, n.End) }
func (n *RangeExpr) Accept(v Visitor) error { return v.VisitRangeExpr(n) }
func (n *RangeExpr) Equal(o Expr) bool {
	other, ok := o.(*RangeExpr)
	return ok && exprsEqual(n.Start, other.Start) && exprsEqual(n.End, other.End)
}

// ---- Spread ----

type SpreadExpr struct {
	exprBase
	Inner Expr
}

func NewSpreadExpr(tok Token, inner Expr) *SpreadExpr {
	n := &SpreadExpr{Inner: inner}
	n.tok = tok
	return n
}

func (n *SpreadExpr) String() string { return "..." + n.Inner.String() }
func (n *SpreadExpr) Accept(v Visitor) error { return v.VisitSpreadExpr(n) }
func (n *SpreadExpr) Equal(o Expr) bool {
	other, ok := o.(*SpreadExpr)
	return ok && exprsEqual(n.Inner, other.Inner)
}

// ---- Interpolated ----

// InterpPart is one fragment of an interpolated string: either a
// literal text chunk (Expr nil) or a sub-expression (Text empty).
type InterpPart struct {
	Text string
	Expr Expr
}

type InterpolatedExpr struct {
	exprBase
	Parts []InterpPart
}

func NewInterpolatedExpr(tok Token, parts []InterpPart) *InterpolatedExpr {
	n := &InterpolatedExpr{Parts: parts}
	n.tok = tok
	return n
}

func (n *InterpolatedExpr) String() string {
	var b strings.Builder
	b.WriteString(`$"`)
	for _, p := range n.Parts {
		if p.Expr != nil {
			b.WriteString("{" + p.Expr.String() + "}")
		} else {
			b.WriteString(p.Text)
		}
	}
	b.WriteString(`"`)
	return b.String()
}
func (n *InterpolatedExpr) Accept(v Visitor) error { return v.VisitInterpolatedExpr(n) }
func (n *InterpolatedExpr) Equal(o Expr) bool {
	other, ok := o.(*InterpolatedExpr)
	if !ok || len(n.Parts) != len(other.Parts) {
		return false
	}
	for i := range n.Parts {
		if n.Parts[i].Text != other.Parts[i].Text || !exprsEqual(n.Parts[i].Expr, other.Parts[i].Expr) {
			return false
		}
	}
	return true
}

// ---- Lambda ----

type LambdaExpr struct {
	exprBase
	Params     []Param
	ReturnType *Type // nil if to be inferred
	Modifier   FunctionModifier
	Body       Expr   // populated for the `=>` single-expression form
	BodyStmts  []Stmt // populated for the block form

	// Populated by the code generator's capture pass (spec.md §4.7.2).
	Captures []CaptureInfo
}

// CaptureInfo records one variable a lambda closes over.
type CaptureInfo struct {
	Name    string
	Type    *Type
	ByRef   bool
	FromSym *Symbol
}

func NewLambdaExpr(tok Token, params []Param, ret *Type, mod FunctionModifier, body Expr, bodyStmts []Stmt) *LambdaExpr {
	n := &LambdaExpr{Params: params, ReturnType: ret, Modifier: mod, Body: body, BodyStmts: bodyStmts}
	n.tok = tok
	return n
}

func (n *LambdaExpr) String() string {
	return fmt.Sprintf("fn(%d params, %s)", len(n.Params), n.Modifier)
}
func (n *LambdaExpr) Accept(v Visitor) error { return v.VisitLambdaExpr(n) }
func (n *LambdaExpr) Equal(o Expr) bool {
	_, ok := o.(*LambdaExpr)
	return ok && n == o.(*LambdaExpr) // lambdas are identity-compared: no two distinct lambdas are equal
}

// ---- Match ----

// MatchArm is `pattern1 | pattern2 | ... => body` or `else => body`
// (spec.md §4.1 "Pattern matching").
type MatchArm struct {
	Patterns []Expr // empty when IsElse
	IsElse   bool
	Body     Stmt
}

type MatchExpr struct {
	exprBase
	Subject Expr
	Arms    []MatchArm
}

func NewMatchExpr(tok Token, subject Expr, arms []MatchArm) *MatchExpr {
	n := &MatchExpr{Subject: subject, Arms: arms}
	n.tok = tok
	return n
}

func (n *MatchExpr) String() string { return fmt.Sprintf("match %s => ...", n.Subject) }
func (n *MatchExpr) Accept(v Visitor) error { return v.VisitMatchExpr(n) }
func (n *MatchExpr) Equal(o Expr) bool { return n == o }

// ---- Increment / Decrement ----

type IncDecExpr struct {
	exprBase
	Operand Expr
	Inc     bool // true for ++, false for --
	Prefix  bool
}

func NewIncDecExpr(tok Token, operand Expr, inc, prefix bool) *IncDecExpr {
	n := &IncDecExpr{Operand: operand, Inc: inc, Prefix: prefix}
	n.tok = tok
	return n
}

func (n *IncDecExpr) String() string {
	op := "++"
	if !n.Inc {
		op = "--"
	}
	if n.Prefix {
		return op + n.Operand.String()
	}
	return n.Operand.String() + op
}
func (n *IncDecExpr) Accept(v Visitor) error { return v.VisitIncDecExpr(n) }
func (n *IncDecExpr) Equal(o Expr) bool {
	other, ok := o.(*IncDecExpr)
	return ok && other.Inc == n.Inc && other.Prefix == n.Prefix && exprsEqual(n.Operand, other.Operand)
}

// ---- StructLiteral ----

type StructLiteralExpr struct {
	exprBase
	TypeName string
	Fields   []FieldInit
}

func NewStructLiteralExpr(tok Token, typeName string, fields []FieldInit) *StructLiteralExpr {
	n := &StructLiteralExpr{TypeName: typeName, Fields: fields}
	n.tok = tok
	return n
}

func (n *StructLiteralExpr) String() string {
	var parts []string
	for _, f := range n.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f.Name, f.Value))
	}
	return fmt.Sprintf("%s{%s}", n.TypeName, strings.Join(parts, ", "))
}
func (n *StructLiteralExpr) Accept(v Visitor) error { return v.VisitStructLiteralExpr(n) }
func (n *StructLiteralExpr) Equal(o Expr) bool {
	other, ok := o.(*StructLiteralExpr)
	if !ok || other.TypeName != n.TypeName || len(n.Fields) != len(other.Fields) {
		return false
	}
	for i := range n.Fields {
		if n.Fields[i].Name != other.Fields[i].Name || !exprsEqual(n.Fields[i].Value, other.Fields[i].Value) {
			return false
		}
	}
	return true
}

// ---- helpers ----

func exprsEqual(a, b Expr) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(b)
}

func joinExprs(exprs []Expr) string {
	parts := make([]string, len(exprs))
	for i, e := range exprs {
		parts[i] = e.String()
	}
	return strings.Join(parts, ", ")
}

func exprOrBlank(e Expr) string {
	if e == nil {
		return ""
	}
	return e.String()
}
