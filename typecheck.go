package snc

// Checker runs the two-pass type checker described in spec.md §4.4.
// It implements Visitor directly: pass 2 is one AST walk that
// annotates every expression with its resolved Type and every lvalue
// use with escape info, reporting through a DiagnosticSink rather
// than stopping at the first problem.
type Checker struct {
	BaseVisitor

	symtab *SymbolTable
	diags  *DiagnosticSink
	config *Config

	structs    map[string]*Type
	functions  map[string]*FunctionStmt
	structDecl []*StructDeclStmt

	currentFunc       *FunctionStmt
	currentReturnType *Type
	loopDepth         int

	// lastExprType is a scratch slot Visit*Expr methods write into so
	// that a caller walking a composite expression (e.g. BinaryExpr
	// visiting its operands) can read the operand's resolved type
	// immediately after Accept returns.
	lastExprType *Type
}

// NewChecker prepares a Checker with the global scope ready for pass 1.
func NewChecker(diags *DiagnosticSink, config *Config) *Checker {
	return &Checker{
		symtab:    NewSymbolTable(),
		diags:     diags,
		config:    config,
		structs:   make(map[string]*Type),
		functions: make(map[string]*FunctionStmt),
	}
}

// Check runs both passes over stmts: every transitively imported
// module's statements followed by the main module's own, so imports
// are checked first (spec.md §4.3).
func (c *Checker) Check(stmts []Stmt) {
	c.pass1Declarations(stmts)
	c.resolveOpaqueTypes()
	for _, s := range c.structDecl {
		if s.Type != nil && !s.IsNative {
			ComputeLayout(s.Type)
		}
	}
	var all []*Type
	for _, s := range c.structDecl {
		if s.Type != nil {
			all = append(all, s.Type)
		}
	}
	if err := CheckCircularTypes(all); err != nil {
		c.diags.Report(PhaseSemantic, 0, "%s", err.Error())
	}
	c.pass2Bodies(stmts)
}

// pass1Declarations hoists every top-level struct and function
// signature into the global scope (spec.md §4.4 Pass 1).
func (c *Checker) pass1Declarations(stmts []Stmt) {
	for _, s := range stmts {
		switch d := s.(type) {
		case *StructDeclStmt:
			if _, dup := c.structs[d.Name]; dup {
				c.diags.Report(PhaseSemantic, d.Token().Line, "duplicate struct %q", d.Name)
				continue
			}
			seen := make(map[string]bool, len(d.Fields))
			for _, f := range d.Fields {
				if seen[f.Name] {
					c.diags.Report(PhaseSemantic, d.Token().Line, "duplicate field %q in struct %q", f.Name, d.Name)
				}
				seen[f.Name] = true
			}
			t := NewStructType(d.Name, d.Fields, d.IsNative)
			d.Type = t
			c.structs[d.Name] = t
			c.structDecl = append(c.structDecl, d)
			c.symtab.Add(d.Name, t, SymGlobal, MemValue)
		case *FunctionStmt:
			if _, dup := c.functions[d.Name]; dup {
				c.diags.Report(PhaseSemantic, d.Token().Line, "duplicate function %q", d.Name)
				continue
			}
			params := make([]*Type, len(d.Params))
			for i, p := range d.Params {
				params[i] = p.Type
			}
			ft := NewFunctionType(params, d.ReturnType, d.Modifier)
			c.functions[d.Name] = d
			c.symtab.Add(d.Name, ft, SymGlobal, MemValue)
		}
	}
}

// resolveOpaqueTypes rewrites every opaque(name) forward reference
// produced by the parser into the real struct Type now that all
// top-level declarations are known.
func (c *Checker) resolveOpaqueTypes() {
	for _, d := range c.structDecl {
		for i := range d.Fields {
			d.Fields[i].Type = c.resolveType(d.Fields[i].Type)
		}
	}
	for _, f := range c.functions {
		for i := range f.Params {
			f.Params[i].Type = c.resolveType(f.Params[i].Type)
		}
		f.ReturnType = c.resolveType(f.ReturnType)
	}
}

func (c *Checker) resolveType(t *Type) *Type {
	if t == nil {
		return nil
	}
	switch t.Kind {
	case TyOpaque:
		if real, ok := c.structs[t.OpaqueName]; ok {
			return real
		}
		c.diags.Report(PhaseSemantic, 0, "unknown type %q", t.OpaqueName)
		return AnyType
	case TyArray:
		return NewArrayType(c.resolveType(t.Elem))
	case TyPointer:
		return NewPointerType(c.resolveType(t.Elem))
	case TyNullable:
		return NewNullableType(c.resolveType(t.Elem))
	default:
		return t
	}
}

func (c *Checker) pass2Bodies(stmts []Stmt) {
	for _, s := range stmts {
		if fn, ok := s.(*FunctionStmt); ok {
			c.checkFunction(fn)
			continue
		}
		_ = s.Accept(c)
	}
}

func (c *Checker) checkFunction(fn *FunctionStmt) {
	if fn.IsNative {
		return
	}
	prevFunc, prevRet := c.currentFunc, c.currentReturnType
	c.currentFunc, c.currentReturnType = fn, fn.ReturnType
	defer func() { c.currentFunc, c.currentReturnType = prevFunc, prevRet }()

	c.symtab.PushScope()
	defer c.symtab.PopScope()
	for _, p := range fn.Params {
		c.symtab.Add(p.Name, p.Type, SymParam, MemValue)
	}
	_ = fn.Body.Accept(c)
}

// ---- expression visits ----

func (c *Checker) setType(e Expr, t *Type) {
	e.SetType(t)
	c.lastExprType = t
}

func (c *Checker) typeOf(e Expr) *Type {
	prev := c.lastExprType
	_ = e.Accept(c)
	t := c.lastExprType
	c.lastExprType = prev
	if t == nil {
		return AnyType
	}
	return t
}

func (c *Checker) VisitLiteralExpr(n *LiteralExpr) error {
	switch n.Value.Kind {
	case LitInt:
		c.setType(n, IntType)
	case LitDouble:
		c.setType(n, DoubleType)
	case LitBool:
		c.setType(n, BoolType)
	case LitChar:
		c.setType(n, CharType)
	case LitString:
		c.setType(n, StringType)
	default:
		c.setType(n, VoidType)
	}
	return nil
}

func (c *Checker) VisitVariableExpr(n *VariableExpr) error {
	sym := c.symtab.Lookup(n.Name)
	if sym == nil {
		c.diags.Report(PhaseSemantic, n.Token().Line, "unknown identifier %q", n.Name)
		c.setType(n, AnyType)
		return nil
	}
	n.Escape().DeclaredScope = sym.DeclaredScope
	c.setType(n, sym.Type)
	return nil
}

func (c *Checker) VisitBinaryExpr(n *BinaryExpr) error {
	lt := c.typeOf(n.Left)
	rt := c.typeOf(n.Right)
	switch n.Op {
	case TokEqEq, TokBangEq, TokLt, TokLtEq, TokGt, TokGtEq, TokOr, TokAnd:
		c.setType(n, BoolType)
	default:
		if lt.IsNumeric() && rt.IsNumeric() {
			if lt.Kind == TyDouble || rt.Kind == TyDouble || lt.Kind == TyFloat || rt.Kind == TyFloat {
				c.setType(n, DoubleType)
			} else {
				c.setType(n, lt)
			}
		} else if lt.Kind == TyString {
			c.setType(n, StringType)
		} else {
			c.diags.Report(PhaseSemantic, n.Token().Line, "type mismatch in binary %s: %s vs %s", n.Op, lt, rt)
			c.setType(n, AnyType)
		}
	}
	return nil
}

func (c *Checker) VisitUnaryExpr(n *UnaryExpr) error {
	t := c.typeOf(n.Operand)
	if n.Op == TokBang || n.Op == TokNot {
		c.setType(n, BoolType)
	} else {
		c.setType(n, t)
	}
	return nil
}

func (c *Checker) VisitAssignExpr(n *AssignExpr) error {
	sym := c.symtab.Lookup(n.Name)
	vt := c.typeOf(n.Value)
	if sym == nil {
		c.diags.Report(PhaseSemantic, n.Token().Line, "unknown identifier %q", n.Name)
		c.setType(n, AnyType)
		return nil
	}
	c.setType(n, sym.Type)
	_ = vt
	return nil
}

func (c *Checker) VisitCompoundAssignExpr(n *CompoundAssignExpr) error {
	if !isLvalue(n.Target) {
		c.diags.Report(PhaseSemantic, n.Token().Line, "invalid lvalue for compound assignment")
	}
	t := c.typeOf(n.Target)
	_ = c.typeOf(n.Value)
	c.setType(n, t)
	return nil
}

func (c *Checker) VisitIndexAssignExpr(n *IndexAssignExpr) error {
	at := c.typeOf(n.Array)
	_ = c.typeOf(n.Index)
	vt := c.typeOf(n.Value)
	if at.Kind == TyArray {
		c.setType(n, at.Elem)
	} else {
		c.setType(n, vt)
	}
	return nil
}

func (c *Checker) VisitMemberAccessExpr(n *MemberAccessExpr) error {
	ot := c.typeOf(n.Object)
	if ot.Kind == TyStruct {
		if f := ot.FieldByName(n.Name); f != nil {
			c.setType(n, f.Type)
			return nil
		}
		c.diags.Report(PhaseSemantic, n.Token().Line, "struct %q has no field %q", ot.Name, n.Name)
	}
	c.setType(n, AnyType)
	return nil
}

func (c *Checker) VisitMemberAssignExpr(n *MemberAssignExpr) error {
	ot := c.typeOf(n.Object)
	vt := c.typeOf(n.Value)

	dLhs := -1
	if lhsBase := baseVariableName(n.Object); lhsBase != "" {
		if sym := c.symtab.Lookup(lhsBase); sym != nil {
			dLhs = sym.DeclaredScope
		}
	}
	maxRhs := -1
	for _, base := range collectBaseVariables(n.Value) {
		sym := c.symtab.Lookup(base)
		if sym != nil && sym.DeclaredScope > maxRhs {
			maxRhs = sym.DeclaredScope
		}
	}
	if maxRhs > dLhs {
		n.Value.Escape().EscapesScope = true
		markChainEscaped(n.Object)
	}

	if ot.Kind == TyStruct {
		if f := ot.FieldByName(n.Name); f != nil {
			c.setType(n, f.Type)
			_ = vt
			return nil
		}
		c.diags.Report(PhaseSemantic, n.Token().Line, "struct %q has no field %q", ot.Name, n.Name)
	}
	c.setType(n, AnyType)
	return nil
}

func (c *Checker) VisitCallExpr(n *CallExpr) error {
	// print/range are builtin free functions, not user-declared symbols;
	// resolving them through the normal symtab lookup would report them
	// as unknown identifiers (spec.md §6 runtime ABI).
	if ve, ok := n.Callee.(*VariableExpr); ok && freeFunctionNames[ve.Name] {
		for _, a := range n.Args {
			_ = c.typeOf(a)
		}
		ve.SetType(AnyType)
		c.setType(n, c.builtinFreeFunctionReturn(ve.Name))
		return nil
	}

	// Dot-called array builtins (push/pop/sum/reverse/...) address the
	// runtime's per-element-type primitives rather than a struct field,
	// so their result type comes from the element type, not from a
	// field lookup.
	if ma, ok := n.Callee.(*MemberAccessExpr); ok && arrayMethodNames[ma.Name] {
		ot := c.typeOf(ma.Object)
		if ot.Kind == TyArray {
			ma.SetType(ot)
			for _, a := range n.Args {
				_ = c.typeOf(a)
			}
			c.setType(n, c.builtinArrayMethodReturn(ma.Name, ot))
			return nil
		}
	}

	ct := c.typeOf(n.Callee)
	for _, a := range n.Args {
		_ = c.typeOf(a)
	}
	if ct.Kind == TyFunction {
		if len(n.Args) != len(ct.Params) {
			c.diags.Report(PhaseSemantic, n.Token().Line, "arity mismatch: expected %d args, got %d", len(ct.Params), len(n.Args))
		}
		c.setType(n, ct.Return)
		return nil
	}
	c.setType(n, AnyType)
	return nil
}

func (c *Checker) builtinFreeFunctionReturn(name string) *Type {
	switch name {
	case "range":
		return &Type{Kind: TyArray, Elem: IntType}
	default: // print
		return VoidType
	}
}

func (c *Checker) builtinArrayMethodReturn(name string, arrType *Type) *Type {
	switch name {
	case "sum", "pop":
		return arrType.Elem
	case "len", "indexOf":
		return IntType
	case "contains":
		return BoolType
	case "join":
		return StringType
	case "clone", "concat", "alloc":
		return arrType
	default: // push, ins, rem, rev, reverse
		return VoidType
	}
}

func (c *Checker) VisitStaticCallExpr(n *StaticCallExpr) error {
	for _, a := range n.Args {
		_ = c.typeOf(a)
	}
	c.setType(n, AnyType)
	return nil
}

func (c *Checker) VisitArrayLiteralExpr(n *ArrayLiteralExpr) error {
	var elemType *Type = AnyType
	for i, e := range n.Elements {
		t := c.typeOf(e)
		if i == 0 {
			elemType = t
		}
	}
	c.setType(n, NewArrayType(elemType))
	return nil
}

func (c *Checker) VisitArrayAccessExpr(n *ArrayAccessExpr) error {
	at := c.typeOf(n.Array)
	_ = c.typeOf(n.Index)
	if at.Kind == TyArray {
		c.setType(n, at.Elem)
	} else {
		c.setType(n, AnyType)
	}
	return nil
}

func (c *Checker) VisitArraySliceExpr(n *ArraySliceExpr) error {
	at := c.typeOf(n.Array)
	for _, e := range []Expr{n.Start, n.End, n.Step} {
		if e != nil {
			_ = c.typeOf(e)
		}
	}
	c.setType(n, at)
	return nil
}

func (c *Checker) VisitRangeExpr(n *RangeExpr) error {
	_ = c.typeOf(n.Start)
	_ = c.typeOf(n.End)
	c.setType(n, NewArrayType(IntType))
	return nil
}

func (c *Checker) VisitSpreadExpr(n *SpreadExpr) error {
	t := c.typeOf(n.Inner)
	c.setType(n, t)
	return nil
}

func (c *Checker) VisitInterpolatedExpr(n *InterpolatedExpr) error {
	for _, p := range n.Parts {
		if p.Expr != nil {
			_ = c.typeOf(p.Expr)
		}
	}
	c.setType(n, StringType)
	return nil
}

func (c *Checker) VisitLambdaExpr(n *LambdaExpr) error {
	c.symtab.PushScope()
	defer c.symtab.PopScope()
	for _, p := range n.Params {
		c.symtab.Add(p.Name, p.Type, SymParam, MemValue)
	}
	ret := n.ReturnType
	if n.Body != nil {
		bt := c.typeOf(n.Body)
		if ret == nil {
			ret = bt
		}
	} else {
		prevRet := c.currentReturnType
		c.currentReturnType = ret
		_ = WalkStmts(c, n.BodyStmts)
		c.currentReturnType = prevRet
	}
	if ret == nil {
		ret = VoidType
	}
	params := make([]*Type, len(n.Params))
	for i, p := range n.Params {
		params[i] = p.Type
	}
	c.setType(n, NewFunctionType(params, ret, n.Modifier))
	return nil
}

func (c *Checker) VisitMatchExpr(n *MatchExpr) error {
	st := c.typeOf(n.Subject)
	_ = st
	var resultType *Type = AnyType
	for i, arm := range n.Arms {
		for _, p := range arm.Patterns {
			_ = c.typeOf(p)
		}
		c.symtab.PushScope()
		_ = arm.Body.Accept(c)
		c.symtab.PopScope()
		if i == 0 {
			if es, ok := arm.Body.(*ExprStmt); ok {
				resultType = c.typeOf(es.Expr)
			}
		}
	}
	c.setType(n, resultType)
	return nil
}

func (c *Checker) VisitIncDecExpr(n *IncDecExpr) error {
	if !isLvalue(n.Operand) {
		c.diags.Report(PhaseSemantic, n.Token().Line, "invalid lvalue for increment/decrement")
	}
	t := c.typeOf(n.Operand)
	c.setType(n, t)
	return nil
}

func (c *Checker) VisitStructLiteralExpr(n *StructLiteralExpr) error {
	st, ok := c.structs[n.TypeName]
	if !ok {
		c.diags.Report(PhaseSemantic, n.Token().Line, "unknown struct %q", n.TypeName)
		c.setType(n, AnyType)
		return nil
	}
	given := make(map[string]bool, len(n.Fields))
	for _, fi := range n.Fields {
		_ = c.typeOf(fi.Value)
		given[fi.Name] = true
		if st.FieldByName(fi.Name) == nil {
			c.diags.Report(PhaseSemantic, n.Token().Line, "struct %q has no field %q", n.TypeName, fi.Name)
		}
	}
	for _, f := range st.Fields {
		if !given[f.Name] && f.Default == nil {
			c.diags.Report(PhaseSemantic, n.Token().Line, "missing required field %q of struct %q", f.Name, n.TypeName)
		}
	}
	c.setType(n, st)
	return nil
}

// ---- statement visits ----

func (c *Checker) VisitExprStmt(n *ExprStmt) error { _ = c.typeOf(n.Expr); return nil }

func (c *Checker) VisitVarDecl(n *VarDecl) error {
	var t *Type
	if n.Init != nil {
		t = c.typeOf(n.Init)
	}
	if n.Type != nil {
		t = c.resolveType(n.Type)
	}
	if t == nil {
		t = AnyType
	}
	n.Type = t
	sym := c.symtab.Add(n.Name, t, SymLocal, MemValue)
	n.DeclaredScope = sym.DeclaredScope
	return nil
}

func (c *Checker) VisitBlock(n *Block) error {
	c.symtab.PushScope()
	n.ScopeDepth = c.symtab.CurrentDepth()
	defer c.symtab.PopScope()
	return WalkStmts(c, n.Stmts)
}

func (c *Checker) VisitIfStmt(n *IfStmt) error {
	_ = c.typeOf(n.Cond)
	_ = n.Then.Accept(c)
	for _, e := range n.Elifs {
		_ = c.typeOf(e.Cond)
		_ = e.Body.Accept(c)
	}
	if n.Else != nil {
		_ = n.Else.Accept(c)
	}
	return nil
}

func (c *Checker) VisitWhileStmt(n *WhileStmt) error {
	_ = c.typeOf(n.Cond)
	c.loopDepth++
	err := n.Body.Accept(c)
	c.loopDepth--
	return err
}

func (c *Checker) VisitForStmt(n *ForStmt) error {
	c.symtab.PushScope()
	defer c.symtab.PopScope()
	if n.Init != nil {
		_ = n.Init.Accept(c)
	}
	if n.Cond != nil {
		_ = c.typeOf(n.Cond)
	}
	if n.Incr != nil {
		_ = n.Incr.Accept(c)
	}
	c.loopDepth++
	err := n.Body.Accept(c)
	c.loopDepth--
	return err
}

func (c *Checker) VisitForEachStmt(n *ForEachStmt) error {
	it := c.typeOf(n.Iterable)
	c.symtab.PushScope()
	elemType := AnyType
	if it.Kind == TyArray {
		elemType = it.Elem
	}
	c.symtab.Add(n.Var, elemType, SymLocal, MemValue)
	c.loopDepth++
	err := n.Body.Accept(c)
	c.loopDepth--
	c.symtab.PopScope()
	return err
}

func (c *Checker) VisitReturnStmt(n *ReturnStmt) error {
	if n.Value == nil {
		return nil
	}
	rt := c.typeOf(n.Value)
	if c.currentReturnType != nil && c.currentReturnType != VoidType && !rt.Equal(c.currentReturnType) &&
		!(rt.IsNumeric() && c.currentReturnType.IsNumeric()) {
		c.diags.Report(PhaseSemantic, n.Token().Line, "return type mismatch: expected %s, got %s", c.currentReturnType, rt)
	}
	if base := baseVariableName(n.Value); base != "" {
		if sym := c.symtab.Lookup(base); sym != nil && sym.Kind != SymGlobal {
			n.Value.Escape().EscapesScope = true
			n.Value.Escape().Returned = true
		}
	}
	return nil
}

func (c *Checker) VisitBreakStmt(n *BreakStmt) error {
	if c.loopDepth == 0 {
		c.diags.Report(PhaseSemantic, n.Token().Line, "break outside loop")
	}
	return nil
}

func (c *Checker) VisitContinueStmt(n *ContinueStmt) error {
	if c.loopDepth == 0 {
		c.diags.Report(PhaseSemantic, n.Token().Line, "continue outside loop")
	}
	return nil
}

func (c *Checker) VisitFunctionStmt(n *FunctionStmt) error {
	c.checkFunction(n)
	return nil
}

func (c *Checker) VisitStructDeclStmt(n *StructDeclStmt) error { return nil }

func (c *Checker) VisitImportStmt(n *ImportStmt) error { return nil }

func (c *Checker) VisitLockStmt(n *LockStmt) error {
	_ = c.typeOf(n.Target)
	return n.Body.Accept(c)
}

// ---- lvalue / escape helpers ----

func isLvalue(e Expr) bool {
	switch e.(type) {
	case *VariableExpr, *ArrayAccessExpr, *MemberAccessExpr:
		return true
	default:
		return false
	}
}

// baseVariableName walks down a chain of MemberAccess/ArrayAccess to
// the Variable it is ultimately rooted at, or "" if rooted at
// something else (e.g. a literal or call result).
func baseVariableName(e Expr) string {
	for {
		switch t := e.(type) {
		case *VariableExpr:
			return t.Name
		case *MemberAccessExpr:
			e = t.Object
		case *ArrayAccessExpr:
			e = t.Array
		default:
			return ""
		}
	}
}

// collectBaseVariables walks every leaf Variable reachable from e,
// used by escape analysis to find every base variable on the RHS of
// a MemberAssign (spec.md §4.4.3).
func collectBaseVariables(e Expr) []string {
	var out []string
	var walk func(Expr)
	walk = func(e Expr) {
		if e == nil {
			return
		}
		switch t := e.(type) {
		case *VariableExpr:
			out = append(out, t.Name)
		case *BinaryExpr:
			walk(t.Left)
			walk(t.Right)
		case *UnaryExpr:
			walk(t.Operand)
		case *MemberAccessExpr:
			walk(t.Object)
		case *ArrayAccessExpr:
			walk(t.Array)
			walk(t.Index)
		case *CallExpr:
			walk(t.Callee)
			for _, a := range t.Args {
				walk(a)
			}
		case *ArrayLiteralExpr:
			for _, el := range t.Elements {
				walk(el)
			}
		case *StructLiteralExpr:
			for _, f := range t.Fields {
				walk(f.Value)
			}
		}
	}
	walk(e)
	return out
}

// markChainEscaped flags every MemberAccess along an lvalue chain as
// escaped, per spec.md §4.4.3.
func markChainEscaped(e Expr) {
	for {
		ma, ok := e.(*MemberAccessExpr)
		if !ok {
			return
		}
		ma.Escape().Escaped = true
		e = ma.Object
	}
}
