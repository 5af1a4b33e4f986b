package snc

import "fmt"

// This file implements spec.md §4.7.1's handle ABI: every array
// operation dispatches to one of two runtime entry points depending on
// the element type family — a raw variant for value-typed elements
// (ints, floats, bool, char, byte) and a `_h` handle variant for
// indirection-typed elements (string, array, struct, any) where the
// runtime must track liveness through the generational handle table
// (runtime/c/runtime.c).

func (g *Generator) genArrayLiteral(t *ArrayLiteralExpr) string {
	suffix := "any"
	if at := t.Type(); at != nil && at.Kind == TyArray {
		suffix = cTypeSuffix(at.Elem)
	}
	fn := fmt.Sprintf("rt_array_create_%s", suffix)
	args := []string{g.currentArenaVar, fmt.Sprintf("%d", len(t.Elements))}
	for _, e := range t.Elements {
		args = append(args, g.genExpr(e, g.elementIsHandle(suffix)))
	}
	return fmt.Sprintf("%s(%s)", fn, joinCArgs(args))
}

func (g *Generator) genArrayGet(t *ArrayAccessExpr) string {
	suffix := cTypeSuffix(elementTypeOf(t.Array.Type()))
	fn := "rt_array_get_" + suffix
	if g.elementIsHandle(suffix) {
		fn += "_h"
	}
	return fmt.Sprintf("%s(%s, %s)", fn, g.genExpr(t.Array, true), g.genExpr(t.Index, false))
}

func (g *Generator) genArraySet(t *IndexAssignExpr) string {
	suffix := cTypeSuffix(elementTypeOf(t.Array.Type()))
	fn := "rt_array_set_" + suffix
	val := g.genExpr(t.Value, g.elementIsHandle(suffix))
	if t.Value.Escape().EscapesScope {
		val = g.genPromote(val, t.Value.Type())
	}
	if g.elementIsHandle(suffix) {
		fn += "_h"
	}
	return fmt.Sprintf("%s(%s, %s, %s)", fn, g.genExpr(t.Array, true), g.genExpr(t.Index, false), val)
}

// genArraySlice lowers `arr[start:end:step]`, omitted components
// mapping to the runtime's LONG_MIN sentinel (spec.md §4.7.1: "a
// missing slice bound is passed as LONG_MIN so the runtime can tell
// 'omitted' apart from an explicit zero").
func (g *Generator) genArraySlice(t *ArraySliceExpr) string {
	suffix := cTypeSuffix(elementTypeOf(t.Array.Type()))
	start := "LONG_MIN"
	if t.Start != nil {
		start = g.genExpr(t.Start, false)
	}
	end := "LONG_MIN"
	if t.End != nil {
		end = g.genExpr(t.End, false)
	}
	step := "LONG_MIN"
	if t.Step != nil {
		step = g.genExpr(t.Step, false)
	}
	fn := "rt_array_slice_" + suffix
	if g.elementIsHandle(suffix) {
		fn += "_h"
	}
	return fmt.Sprintf("%s(%s, %s, %s, %s, %s)",
		fn, g.currentArenaVar, g.genExpr(t.Array, true), start, end, step)
}

// elementIsHandle reports whether the given cTypeSuffix family needs
// the `_h` handle-variant runtime entry point.
func (g *Generator) elementIsHandle(suffix string) bool {
	switch suffix {
	case "string", "array", "handle", "any":
		return true
	default:
		return false
	}
}

func elementTypeOf(t *Type) *Type {
	if t != nil && t.Kind == TyArray {
		return t.Elem
	}
	return AnyType
}

func joinCArgs(args []string) string {
	out := ""
	for i, a := range args {
		if i > 0 {
			out += ", "
		}
		out += a
	}
	return out
}
