package snc

import "fmt"

// genStructDecl emits a plain C struct definition. Layout has already
// been computed by layout.go; fields are emitted in declared order
// (the offsets layout.go computed describe the generator's own
// expectations, not a #pragma pack directive — plain C struct
// member order already matches since no field reordering happens).
func (g *Generator) genStructDecl(d *StructDeclStmt) {
	if d.IsNative {
		return // native structs are opaque; their C definition lives in a header the driver links against
	}
	g.topLevel.Line("typedef struct %s {", d.Name)
	g.topLevel.Indent()
	for _, f := range d.Type.Fields {
		g.topLevel.Line("%s %s;", cTypeName(f.Type), cIdent(f.Name))
	}
	g.topLevel.Dedent()
	g.topLevel.Line("} %s;", d.Name)
	g.topLevel.Line("")
}

// genTopLevelFunction lowers a named function declaration. Arena
// discipline follows the function's modifier (spec.md §4.7.2): default
// functions receive the caller's arena as an implicit first parameter;
// shared functions allocate from a process-wide shared arena;
// private functions get their own arena, created on entry and
// destroyed on return; native functions have no body to emit at all.
func (g *Generator) genTopLevelFunction(fn *FunctionStmt) {
	if fn.IsNative {
		return
	}
	prevFn, prevRet, prevArena := g.currentFunction, g.currentReturnType, g.currentArenaVar
	prevLoopDepth, prevLockStack := g.loopDepth, g.lockStack
	g.currentFunction, g.currentReturnType = fn, fn.ReturnType
	g.loopDepth, g.lockStack = 0, nil
	defer func() {
		g.currentFunction, g.currentReturnType, g.currentArenaVar = prevFn, prevRet, prevArena
		g.loopDepth, g.lockStack = prevLoopDepth, prevLockStack
	}()

	arenaParam := "rt_arena *__arena__"
	switch fn.Modifier {
	case ModShared:
		g.currentArenaVar = "__shared_arena__"
	case ModPrivate:
		g.currentArenaVar = "__arena__"
	default:
		g.currentArenaVar = "__arena__"
	}

	var params []string
	if fn.Modifier != ModShared && fn.Modifier != ModPrivate {
		params = append(params, arenaParam)
	}
	for _, p := range fn.Params {
		params = append(params, fmt.Sprintf("%s %s", cTypeName(p.Type), cIdent(p.Name)))
	}

	g.topLevel.Line("%s %s(%s) {", cTypeName(fn.ReturnType), cIdent(fn.Name), joinCArgs(params))
	g.topLevel.Indent()
	if fn.Modifier == ModPrivate {
		g.topLevel.Line("rt_arena *__arena__ = rt_arena_create(0);")
	}
	g.genBlock(fn.Body, g.topLevel)
	if fn.Modifier == ModPrivate {
		g.topLevel.Line("rt_arena_destroy(__arena__);")
	}
	g.topLevel.Dedent()
	g.topLevel.Line("}")
	g.topLevel.Line("")
}

// genLambdaExpr lowers a lambda literal. Captures are collected once
// per lambda (transitively through any lambda it itself contains) and
// become extra fields of a generated closure struct; by-reference
// captures store a pointer to the captured binding's storage instead
// of a copy (spec.md §4.7.2).
func (g *Generator) genLambdaExpr(l *LambdaExpr) string {
	g.lambdaCounter++
	name := fmt.Sprintf("__lambda_%d", g.lambdaCounter)
	closureType := name + "_closure"

	l.Captures = collectCaptures(l)

	g.lambdaFwd.Line("typedef struct %s {", closureType)
	g.lambdaFwd.Indent()
	g.lambdaFwd.Line("rt_arena *arena;")
	for _, c := range l.Captures {
		if c.ByRef {
			g.lambdaFwd.Line("%s *%s;", cTypeName(c.Type), cIdent(c.Name))
		} else {
			g.lambdaFwd.Line("%s %s;", cTypeName(c.Type), cIdent(c.Name))
		}
	}
	g.lambdaFwd.Dedent()
	g.lambdaFwd.Line("} %s;", closureType)

	var params []string
	params = append(params, fmt.Sprintf("%s *__closure__", closureType))
	for _, p := range l.Params {
		params = append(params, fmt.Sprintf("%s %s", cTypeName(p.Type), cIdent(p.Name)))
	}

	retType := l.ReturnType
	if retType == nil {
		retType = VoidType
	}

	prevArena := g.currentArenaVar
	g.currentArenaVar = "__closure__->arena"
	g.lambdaStack = append(g.lambdaStack, l)
	// A lambda lowers to its own C function, so break/continue/return
	// inside it never refer to a loop or lock(...) the lambda literal
	// happens to be textually nested in at the call site.
	prevLoopDepth, prevLockStack := g.loopDepth, g.lockStack
	g.loopDepth, g.lockStack = 0, nil

	g.lambdaDefs.Line("static %s %s(%s) {", cTypeName(retType), name, joinCArgs(params))
	g.lambdaDefs.Indent()
	for _, c := range l.Captures {
		deref := ""
		if c.ByRef {
			deref = "*"
		}
		g.lambdaDefs.Line("%s %s = %s__closure__->%s;", cTypeName(c.Type), cIdent(c.Name), deref, cIdent(c.Name))
	}
	if l.Body != nil {
		g.lambdaDefs.Line("return %s;", g.genExpr(l.Body, g.isHandleType(retType)))
	} else {
		block := NewBlock(l.Token(), l.BodyStmts)
		g.genBlock(block, g.lambdaDefs)
	}
	g.lambdaDefs.Dedent()
	g.lambdaDefs.Line("}")
	g.lambdaDefs.Line("")

	g.lambdaStack = g.lambdaStack[:len(g.lambdaStack)-1]
	g.currentArenaVar = prevArena
	g.loopDepth, g.lockStack = prevLoopDepth, prevLockStack

	dest := g.currentWriter
	if dest == nil {
		dest = g.topLevel
	}
	closureVar := g.newTemp("closure")
	dest.Line("%s *%s = rt_arena_alloc(%s, sizeof(%s));", closureType, closureVar, g.currentArenaVar, closureType)
	dest.Line("%s->arena = %s;", closureVar, g.currentArenaVar)
	for _, c := range l.Captures {
		if c.ByRef {
			dest.Line("%s->%s = &%s;", closureVar, cIdent(c.Name), cIdent(c.Name))
		} else {
			dest.Line("%s->%s = %s;", closureVar, cIdent(c.Name), cIdent(c.Name))
		}
	}
	return fmt.Sprintf("rt_closure_new(%s, (void*)%s)", closureVar, name)
}

// collectCaptures walks a lambda's body (including any lambda nested
// inside it) and returns every free variable it reads or writes,
// deduplicated, flagged ByRef when the capture is mutated inside the
// lambda (spec.md §4.7.2: "a capture that's ever the target of an
// assignment inside the closure is captured by reference so mutation
// is visible to the enclosing scope").
func collectCaptures(l *LambdaExpr) []CaptureInfo {
	params := make(map[string]bool, len(l.Params))
	for _, p := range l.Params {
		params[p.Name] = true
	}
	// locals collects names bound inside the lambda's own body (var
	// declarations, for-each loop variables) as the walk encounters them,
	// so a reference to one later in the same body isn't mistaken for an
	// outer capture (spec.md §4.7.2 excludes both parameters and
	// locally-declared identifiers from capture treatment).
	locals := make(map[string]bool)
	seen := make(map[string]*CaptureInfo)
	var order []string

	record := func(name string, t *Type, byRef bool) {
		if params[name] || locals[name] {
			return
		}
		if c, ok := seen[name]; ok {
			if byRef {
				c.ByRef = true
			}
			return
		}
		seen[name] = &CaptureInfo{Name: name, Type: t, ByRef: byRef}
		order = append(order, name)
	}

	var walkExpr func(Expr)
	var walkStmt func(Stmt)

	walkExpr = func(e Expr) {
		switch t := e.(type) {
		case *VariableExpr:
			record(t.Name, t.Type(), false)
		case *AssignExpr:
			record(t.Name, t.Type(), true)
			walkExpr(t.Value)
		case *CompoundAssignExpr:
			if base := baseVariableName(t.Target); base != "" {
				record(base, t.Target.Type(), true)
			}
			walkExpr(t.Target)
			walkExpr(t.Value)
		case *BinaryExpr:
			walkExpr(t.Left)
			walkExpr(t.Right)
		case *UnaryExpr:
			walkExpr(t.Operand)
		case *MemberAccessExpr:
			walkExpr(t.Object)
		case *MemberAssignExpr:
			walkExpr(t.Object)
			walkExpr(t.Value)
		case *IndexAssignExpr:
			walkExpr(t.Array)
			walkExpr(t.Index)
			walkExpr(t.Value)
		case *CallExpr:
			walkExpr(t.Callee)
			for _, a := range t.Args {
				walkExpr(a)
			}
		case *ArrayLiteralExpr:
			for _, el := range t.Elements {
				walkExpr(el)
			}
		case *ArrayAccessExpr:
			walkExpr(t.Array)
			walkExpr(t.Index)
		case *ArraySliceExpr:
			walkExpr(t.Array)
			for _, b := range []Expr{t.Start, t.End, t.Step} {
				if b != nil {
					walkExpr(b)
				}
			}
		case *RangeExpr:
			walkExpr(t.Start)
			walkExpr(t.End)
		case *SpreadExpr:
			walkExpr(t.Inner)
		case *InterpolatedExpr:
			for _, p := range t.Parts {
				if p.Expr != nil {
					walkExpr(p.Expr)
				}
			}
		case *IncDecExpr:
			if base := baseVariableName(t.Operand); base != "" {
				record(base, t.Operand.Type(), true)
			}
			walkExpr(t.Operand)
		case *StructLiteralExpr:
			for _, f := range t.Fields {
				walkExpr(f.Value)
			}
		case *LambdaExpr:
			for _, inner := range collectCaptures(t) {
				record(inner.Name, inner.Type, inner.ByRef)
			}
		case *MatchExpr:
			walkExpr(t.Subject)
			for _, arm := range t.Arms {
				for _, p := range arm.Patterns {
					walkExpr(p)
				}
				walkStmt(arm.Body)
			}
		}
	}

	walkStmt = func(s Stmt) {
		switch t := s.(type) {
		case *ExprStmt:
			walkExpr(t.Expr)
		case *VarDecl:
			if t.Init != nil {
				walkExpr(t.Init)
			}
			locals[t.Name] = true
		case *Block:
			for _, inner := range t.Stmts {
				walkStmt(inner)
			}
		case *IfStmt:
			walkExpr(t.Cond)
			walkStmt(t.Then)
			for _, e := range t.Elifs {
				walkExpr(e.Cond)
				walkStmt(e.Body)
			}
			if t.Else != nil {
				walkStmt(t.Else)
			}
		case *WhileStmt:
			walkExpr(t.Cond)
			walkStmt(t.Body)
		case *ForStmt:
			if t.Init != nil {
				walkStmt(t.Init)
			}
			if t.Cond != nil {
				walkExpr(t.Cond)
			}
			if t.Incr != nil {
				walkStmt(t.Incr)
			}
			walkStmt(t.Body)
		case *ForEachStmt:
			walkExpr(t.Iterable)
			locals[t.Var] = true
			walkStmt(t.Body)
		case *ReturnStmt:
			if t.Value != nil {
				walkExpr(t.Value)
			}
		case *LockStmt:
			walkExpr(t.Target)
			walkStmt(t.Body)
		}
	}

	if l.Body != nil {
		walkExpr(l.Body)
	}
	for _, s := range l.BodyStmts {
		walkStmt(s)
	}

	out := make([]CaptureInfo, 0, len(order))
	for _, name := range order {
		out = append(out, *seen[name])
	}
	return out
}
