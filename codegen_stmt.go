package snc

import "fmt"

// genStmt lowers one statement into w, recursing into nested blocks.
// No scope cleanup is emitted when a block ends: handles bound in it
// are not released, and the generator does not consult the symbol
// table in symtab.go.
func (g *Generator) genStmt(s Stmt, w *codeWriter) {
	prevWriter := g.currentWriter
	g.currentWriter = w
	defer func() { g.currentWriter = prevWriter }()

	switch t := s.(type) {
	case *ExprStmt:
		w.Line("%s;", g.genExpr(t.Expr, false))
	case *VarDecl:
		g.genVarDecl(t, w)
	case *Block:
		g.genBlock(t, w)
	case *IfStmt:
		g.genIf(t, w)
	case *WhileStmt:
		w.Block(fmt.Sprintf("while (%s)", g.genExpr(t.Cond, false)), func() {
			g.loopDepth++
			g.genBlock(t.Body, w)
			g.loopDepth--
		})
	case *ForStmt:
		g.genFor(t, w)
	case *ForEachStmt:
		g.genForEach(t, w)
	case *ReturnStmt:
		g.genReturn(t, w)
	case *BreakStmt:
		g.genUnlockForJump(w)
		w.Line("break;")
	case *ContinueStmt:
		g.genUnlockForJump(w)
		w.Line("continue;")
	case *FunctionStmt:
		g.genTopLevelFunction(t)
	case *StructDeclStmt:
		g.genStructDecl(t)
	case *LockStmt:
		g.genLock(t, w)
	case *ImportStmt:
		// flattened by the driver before codegen
	}
}

func (g *Generator) genVarDecl(t *VarDecl, w *codeWriter) {
	cType := cTypeName(t.Type)
	if t.Init != nil {
		w.Line("%s %s = %s;", cType, cIdent(t.Name), g.genExpr(t.Init, g.isHandleType(t.Type)))
	} else {
		w.Line("%s %s = {0};", cType, cIdent(t.Name))
	}
}

func (g *Generator) genBlock(b *Block, w *codeWriter) {
	for _, s := range b.Stmts {
		g.genStmt(s, w)
	}
}

func (g *Generator) genIf(t *IfStmt, w *codeWriter) {
	w.Block(fmt.Sprintf("if (%s)", g.genExpr(t.Cond, false)), func() {
		g.genBlock(t.Then, w)
	})
	for _, e := range t.Elifs {
		w.Block(fmt.Sprintf("else if (%s)", g.genExpr(e.Cond, false)), func() {
			g.genBlock(e.Body, w)
		})
	}
	if t.Else != nil {
		w.Block("else", func() {
			g.genBlock(t.Else, w)
		})
	}
}

func (g *Generator) genFor(t *ForStmt, w *codeWriter) {
	init, cond, incr := "", "", ""
	if t.Init != nil {
		sw := newCodeWriter()
		g.genStmt(t.Init, sw)
		init = trimSemicolonNewline(sw.String())
	}
	if t.Cond != nil {
		cond = g.genExpr(t.Cond, false)
	}
	if t.Incr != nil {
		sw := newCodeWriter()
		g.genStmt(t.Incr, sw)
		incr = trimSemicolonNewline(sw.String())
	}
	w.Block(fmt.Sprintf("for (%s; %s; %s)", init, cond, incr), func() {
		g.loopDepth++
		g.genBlock(t.Body, w)
		g.loopDepth--
	})
}

// genForEach lowers `for x in iterable => body` into an index-based C
// for loop over the iterable array's raw buffer, per spec.md §4.7's
// array ABI (rt_array_len/rt_array_get_T).
func (g *Generator) genForEach(t *ForEachStmt, w *codeWriter) {
	arr := g.genExpr(t.Iterable, true)
	idx := g.newTemp("i")
	elemCType := "rt_any"
	if at := t.Iterable.Type(); at != nil && at.Kind == TyArray {
		elemCType = cTypeName(at.Elem)
	}
	suffix := cTypeSuffix(elementTypeOf(t.Iterable.Type()))
	if g.elementIsHandle(suffix) {
		suffix += "_h"
	}
	w.Block(fmt.Sprintf("for (long %s = 0; %s < rt_array_len(%s); %s++)", idx, idx, arr, idx), func() {
		w.Line("%s %s = rt_array_get_%s(%s, %s);", elemCType, cIdent(t.Var), suffix, arr, idx)
		g.loopDepth++
		g.genBlock(t.Body, w)
		g.loopDepth--
	})
}

func (g *Generator) genReturn(t *ReturnStmt, w *codeWriter) {
	if t.Value == nil {
		g.genUnlockAll(w)
		w.Line("return;")
		return
	}
	wantsHandle := g.currentReturnType != nil && g.isHandleType(g.currentReturnType)
	val := g.genExpr(t.Value, wantsHandle)
	if t.Value.Escape().EscapesScope && t.Value.Escape().Returned {
		val = g.genPromote(val, t.Value.Type())
	}
	g.genUnlockAll(w)
	w.Line("return %s;", val)
}

// lockFrame records one currently-open lock(...) body: the mutex
// expression to release, and the loopDepth in effect when the body
// started, so a break/continue generated later can tell whether it's
// already captured by a loop opened inside the lock body (no unlock
// needed) or escapes the lock entirely (spec.md §5: release on every
// exit path, including break/continue/return, not just fallthrough).
type lockFrame struct {
	target    string
	loopDepth int
}

// genLock lowers lock(expr) => body to a lock/unlock pair that
// releases on every exit path: normal completion, and any
// return/break/continue reachable from inside body that isn't already
// captured by a nested loop (spec.md §5).
func (g *Generator) genLock(t *LockStmt, w *codeWriter) {
	target := g.genExpr(t.Target, false)
	w.Line("rt_mutex_lock(%s);", target)
	w.Line("{")
	w.Indent()
	g.lockStack = append(g.lockStack, lockFrame{target: target, loopDepth: g.loopDepth})
	g.genBlock(t.Body, w)
	g.lockStack = g.lockStack[:len(g.lockStack)-1]
	w.Dedent()
	w.Line("}")
	w.Line("rt_mutex_unlock(%s);", target)
}

// genUnlockAll releases every currently-open lock, innermost first,
// for a return statement (which exits the whole function regardless
// of loop nesting).
func (g *Generator) genUnlockAll(w *codeWriter) {
	for i := len(g.lockStack) - 1; i >= 0; i-- {
		w.Line("rt_mutex_unlock(%s);", g.lockStack[i].target)
	}
}

// genUnlockForJump releases the locks a break/continue statement is
// about to jump past: walking from the innermost open lock outward,
// it stops as soon as it finds a lock whose body already opened a
// loop at a shallower depth than the current one, since that loop (not
// this break/continue) is what the lock's own block would defer to —
// C binds break/continue to the nearest enclosing loop, so anything
// past that boundary is unaffected by this lock.
func (g *Generator) genUnlockForJump(w *codeWriter) {
	for i := len(g.lockStack) - 1; i >= 0; i-- {
		if g.lockStack[i].loopDepth != g.loopDepth {
			break
		}
		w.Line("rt_mutex_unlock(%s);", g.lockStack[i].target)
	}
}

func trimSemicolonNewline(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == ';' || s[i] == '\n' {
			continue
		}
		out = append(out, s[i])
	}
	return string(out)
}
