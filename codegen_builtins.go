package snc

import (
	"fmt"
	"strings"
)

// genBuiltinCall recognizes CallExpr forms addressed at the builtin
// free-function or array-method surface (builtins.go) rather than at a
// user-declared function, and lowers them directly to the runtime's
// rt_* entry points. It returns ("", false) for an ordinary call, so
// genCall can fall back to its default lowering.
func (g *Generator) genBuiltinCall(t *CallExpr) (string, bool) {
	if ve, ok := t.Callee.(*VariableExpr); ok && freeFunctionNames[ve.Name] {
		return g.genFreeFunctionCall(ve.Name, t.Args), true
	}
	if ma, ok := t.Callee.(*MemberAccessExpr); ok && arrayMethodNames[ma.Name] {
		if ot := ma.Object.Type(); ot != nil && ot.Kind == TyArray {
			return g.genArrayMethodCall(ma, t.Args), true
		}
	}
	return "", false
}

func (g *Generator) genFreeFunctionCall(name string, args []Expr) string {
	switch name {
	case "range":
		return fmt.Sprintf("rt_array_range(%s, %s, %s)", g.currentArenaVar, g.genExpr(args[0], false), g.genExpr(args[1], false))
	default: // print
		return g.genPrint(args)
	}
}

// genPrint lowers print(a, b, ...) to a single printf call, choosing a
// format specifier per argument from its static type. spec.md §8
// scenario 2 prints several doubles space-separated on one line;
// scenario 4 prints a lone int; both end the line with a newline.
func (g *Generator) genPrint(args []Expr) string {
	var specs []string
	var cargs []string
	for _, a := range args {
		at := a.Type()
		switch {
		case at != nil && at.Kind == TyString:
			specs = append(specs, "%s")
			cargs = append(cargs, fmt.Sprintf("rt_string_cstr(%s)", g.genExpr(a, true)))
		case at != nil && (at.Kind == TyDouble || at.Kind == TyFloat):
			specs = append(specs, "%g")
			cargs = append(cargs, g.genExpr(a, false))
		case at != nil && at.Kind == TyChar:
			specs = append(specs, "%c")
			cargs = append(cargs, g.genExpr(a, false))
		case at != nil && at.Kind == TyBool:
			specs = append(specs, "%d")
			cargs = append(cargs, g.genExpr(a, false))
		default:
			specs = append(specs, "%lld")
			cargs = append(cargs, fmt.Sprintf("(long long)(%s)", g.genExpr(a, false)))
		}
	}
	format := strings.Join(specs, " ") + "\\n"
	parts := append([]string{"\"" + format + "\""}, cargs...)
	return fmt.Sprintf("printf(%s)", strings.Join(parts, ", "))
}

// genArrayMethodCall lowers a dot-called array builtin to its runtime
// entry point, threading the arena for operations that allocate a new
// backing store and reassigning the receiver for operations that may
// reallocate (push, ins), per spec.md §8's handle-transactionality
// property.
func (g *Generator) genArrayMethodCall(ma *MemberAccessExpr, args []Expr) string {
	recv := g.genExpr(ma.Object, true)

	if ma.Name == "len" {
		return fmt.Sprintf("((int64_t)rt_array_len(%s))", recv)
	}

	name := ma.Name
	if name == "reverse" {
		name = "rev"
	}

	elemType := elementTypeOf(ma.Object.Type())
	suffix := cTypeSuffix(elemType)
	handle := g.elementIsHandle(suffix)
	fn := fmt.Sprintf("rt_array_%s_%s", name, suffix)
	// indexOf/contains/join on string arrays dispatch to concrete
	// rt_array_*_string entry points (runtime/c/runtime.c), not a
	// generic _h variant, since they need rt_string_eq to compare.
	if handle && name != "indexOf" && name != "contains" && name != "join" {
		fn += "_h"
	}

	var cargs []string
	if arrayMethodsNeedArena[name] {
		cargs = append(cargs, g.currentArenaVar)
	}
	cargs = append(cargs, recv)
	for _, a := range args {
		cargs = append(cargs, g.genExpr(a, handle))
	}
	call := fmt.Sprintf("%s(%s)", fn, strings.Join(cargs, ", "))

	if arrayMethodsThatGrow[ma.Name] {
		return fmt.Sprintf("(%s = %s)", recv, call)
	}
	return call
}
