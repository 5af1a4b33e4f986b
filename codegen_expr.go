package snc

import (
	"fmt"
	"strconv"
	"strings"
)

// genExpr lowers e to a single C expression string. asHandle tells the
// array/string ABI dispatch in codegen_handle.go whether the caller
// needs the handle-typed variant of an operation rather than the raw
// pointer/value variant (spec.md §4.7.1).
func (g *Generator) genExpr(e Expr, asHandle bool) string {
	switch t := e.(type) {
	case *LiteralExpr:
		return g.genLiteral(t)
	case *VariableExpr:
		return cIdent(t.Name)
	case *BinaryExpr:
		return g.genBinary(t)
	case *UnaryExpr:
		return g.genUnary(t)
	case *AssignExpr:
		return fmt.Sprintf("(%s = %s)", cIdent(t.Name), g.genExpr(t.Value, g.isHandleType(t.Type())))
	case *CompoundAssignExpr:
		return fmt.Sprintf("(%s %s= %s)", g.genExpr(t.Target, false), compoundOp(t.Op), g.genExpr(t.Value, false))
	case *IndexAssignExpr:
		return g.genArraySet(t)
	case *MemberAccessExpr:
		return fmt.Sprintf("(%s).%s", g.genExpr(t.Object, false), cIdent(t.Name))
	case *MemberAssignExpr:
		val := g.genExpr(t.Value, g.isHandleType(t.Type()))
		if t.Value.Escape().EscapesScope {
			val = g.genPromote(val, t.Value.Type())
		}
		return fmt.Sprintf("((%s).%s = %s)", g.genExpr(t.Object, false), cIdent(t.Name), val)
	case *CallExpr:
		return g.genCall(t)
	case *StaticCallExpr:
		return g.genStaticCall(t)
	case *ArrayLiteralExpr:
		return g.genArrayLiteral(t)
	case *ArrayAccessExpr:
		return g.genArrayGet(t)
	case *ArraySliceExpr:
		return g.genArraySlice(t)
	case *RangeExpr:
		return fmt.Sprintf("rt_array_range(%s, %s, %s)", g.currentArenaVar, g.genExpr(t.Start, false), g.genExpr(t.End, false))
	case *SpreadExpr:
		return g.genExpr(t.Inner, true) // spread is resolved by the enclosing call/array-literal builder
	case *InterpolatedExpr:
		return g.genInterpolated(t)
	case *LambdaExpr:
		return g.genLambdaExpr(t)
	case *MatchExpr:
		return g.genMatch(t)
	case *IncDecExpr:
		return g.genIncDec(t)
	case *StructLiteralExpr:
		return g.genStructLiteral(t)
	default:
		return "/* unsupported expr */0"
	}
}

func (g *Generator) genLiteral(t *LiteralExpr) string {
	switch t.Value.Kind {
	case LitInt:
		return strconv.FormatInt(t.Value.Int, 10)
	case LitDouble:
		return strconv.FormatFloat(t.Value.Double, 'g', -1, 64)
	case LitBool:
		if t.Value.Bool {
			return "1"
		}
		return "0"
	case LitChar:
		return fmt.Sprintf("'%s'", escapeCChar(t.Value.Char))
	case LitString:
		return fmt.Sprintf("rt_string_new(%s, %q)", g.currentArenaVar, t.Value.String)
	default:
		return "0"
	}
}

func escapeCChar(r rune) string {
	switch r {
	case '\'':
		return "\\'"
	case '\\':
		return "\\\\"
	case '\n':
		return "\\n"
	case '\t':
		return "\\t"
	default:
		return string(r)
	}
}

func (g *Generator) genBinary(t *BinaryExpr) string {
	lt := t.Left.Type()
	if lt != nil && lt.Kind == TyString && (t.Op == TokPlus || t.Op == TokEqEq || t.Op == TokBangEq) {
		return g.genStringOp(t)
	}
	if lt != nil && lt.IsInteger() && (t.Op == TokPlus || t.Op == TokMinus || t.Op == TokStar ||
		t.Op == TokSlash || t.Op == TokPercent) {
		return g.genCheckedArith(t)
	}
	return fmt.Sprintf("(%s %s %s)", g.genExpr(t.Left, false), cBinOp(t.Op), g.genExpr(t.Right, false))
}

// genStringOp routes string comparison/concatenation through the
// runtime's string helpers rather than raw C operators, since SN
// strings are arena-managed handles (spec.md §4.7.1).
func (g *Generator) genStringOp(t *BinaryExpr) string {
	l, r := g.genExpr(t.Left, false), g.genExpr(t.Right, false)
	switch t.Op {
	case TokPlus:
		return fmt.Sprintf("rt_string_concat(%s, %s, %s)", g.currentArenaVar, l, r)
	case TokEqEq:
		return fmt.Sprintf("rt_string_eq(%s, %s)", l, r)
	case TokBangEq:
		return fmt.Sprintf("(!rt_string_eq(%s, %s))", l, r)
	}
	return ""
}

func (g *Generator) genUnary(t *UnaryExpr) string {
	switch t.Op {
	case TokNot, TokBang:
		return fmt.Sprintf("(!%s)", g.genExpr(t.Operand, false))
	case TokMinus:
		return fmt.Sprintf("(-%s)", g.genExpr(t.Operand, false))
	default:
		return g.genExpr(t.Operand, false)
	}
}

func (g *Generator) genIncDec(t *IncDecExpr) string {
	op := "++"
	if !t.Inc {
		op = "--"
	}
	target := g.genExpr(t.Operand, false)
	if t.Prefix {
		return op + target
	}
	return target + op
}

func (g *Generator) genCall(t *CallExpr) string {
	if out, ok := g.genBuiltinCall(t); ok {
		return out
	}
	var args []string
	for _, a := range t.Args {
		if sp, ok := a.(*SpreadExpr); ok {
			args = append(args, "/* ...spread */"+g.genExpr(sp.Inner, true))
			continue
		}
		args = append(args, g.genExpr(a, false))
	}
	callee := g.genExpr(t.Callee, false)
	if t.IsTailCall {
		return fmt.Sprintf("/* tail call */ %s(%s)", callee, strings.Join(args, ", "))
	}
	return fmt.Sprintf("%s(%s)", callee, strings.Join(args, ", "))
}

func (g *Generator) genStaticCall(t *StaticCallExpr) string {
	var args []string
	for _, a := range t.Args {
		args = append(args, g.genExpr(a, false))
	}
	return fmt.Sprintf("%s__%s(%s)", t.TypeName, t.Method, strings.Join(args, ", "))
}

// genInterpolated lowers a $"..." literal into a chain of
// rt_string_concat calls, coercing each hole through rt_to_string
// (spec.md §4.1 interpolation, §4.7.1 string ABI).
func (g *Generator) genInterpolated(t *InterpolatedExpr) string {
	var pieces []string
	for _, p := range t.Parts {
		if p.Expr != nil {
			pieces = append(pieces, fmt.Sprintf("rt_to_string(%s, %s)", g.currentArenaVar, g.genExpr(p.Expr, g.isHandleType(p.Expr.Type()))))
		} else {
			pieces = append(pieces, fmt.Sprintf("rt_string_new(%s, %q)", g.currentArenaVar, p.Text))
		}
	}
	if len(pieces) == 0 {
		return fmt.Sprintf("rt_string_new(%s, \"\")", g.currentArenaVar)
	}
	expr := pieces[0]
	for _, p := range pieces[1:] {
		expr = fmt.Sprintf("rt_string_concat(%s, %s, %s)", g.currentArenaVar, expr, p)
	}
	return expr
}

func (g *Generator) genStructLiteral(t *StructLiteralExpr) string {
	st := g.structsByName[t.TypeName]
	var parts []string
	given := make(map[string]Expr, len(t.Fields))
	for _, f := range t.Fields {
		given[f.Name] = f.Value
	}
	if st != nil {
		for _, f := range st.Fields {
			if v, ok := given[f.Name]; ok {
				parts = append(parts, fmt.Sprintf(".%s = %s", cIdent(f.Name), g.genExpr(v, g.isHandleType(f.Type))))
			} else if f.Default != nil {
				parts = append(parts, fmt.Sprintf(".%s = %s", cIdent(f.Name), g.genExpr(f.Default, g.isHandleType(f.Type))))
			}
		}
	}
	return fmt.Sprintf("(%s){ %s }", t.TypeName, strings.Join(parts, ", "))
}

func compoundOp(k TokenKind) string {
	switch k {
	case TokPlusEq:
		return "+"
	case TokMinusEq:
		return "-"
	case TokStarEq:
		return "*"
	case TokSlashEq:
		return "/"
	default:
		return "+"
	}
}

func cBinOp(k TokenKind) string {
	switch k {
	case TokOr:
		return "||"
	case TokAnd:
		return "&&"
	default:
		return k.String()
	}
}

// cTypeName maps an SN Type to its C spelling (spec.md §4.2/§4.7).
func cTypeName(t *Type) string {
	if t == nil {
		return "rt_any"
	}
	switch t.Kind {
	case TyVoid:
		return "void"
	case TyBool:
		return "int"
	case TyChar:
		return "char"
	case TyByte:
		return "unsigned char"
	case TyInt32:
		return "int32_t"
	case TyUint32:
		return "uint32_t"
	case TyInt:
		return "int64_t"
	case TyUint:
		return "uint64_t"
	case TyLong:
		return "long long"
	case TyFloat:
		return "float"
	case TyDouble:
		return "double"
	case TyString:
		return "rt_string"
	case TyAny:
		return "rt_any"
	case TyArray:
		return "rt_array"
	case TyPointer:
		return cTypeName(t.Elem) + "*"
	case TyNullable:
		return "rt_nullable_" + cTypeSuffix(t.Elem)
	case TyFunction:
		return "rt_closure"
	case TyStruct:
		if t.Name != "" {
			return t.Name
		}
		return "rt_struct"
	case TyOpaque:
		return t.OpaqueName
	default:
		return "rt_any"
	}
}

// cTypeSuffix names the element-type family suffix used by the
// runtime's per-type array primitives (rt_array_get_int, _string,
// _handle, ...), per spec.md §4.7.1's element-type families; it
// returns one of 14 suffixes.
func cTypeSuffix(t *Type) string {
	if t == nil {
		return "any"
	}
	switch t.Kind {
	case TyBool:
		return "bool"
	case TyChar:
		return "char"
	case TyByte:
		return "byte"
	case TyInt32:
		return "int32"
	case TyUint32:
		return "uint32"
	case TyInt:
		return "int"
	case TyUint:
		return "uint"
	case TyLong:
		return "long"
	case TyFloat:
		return "float"
	case TyDouble:
		return "double"
	case TyString:
		return "string"
	case TyArray:
		return "array"
	case TyStruct, TyPointer:
		return "handle"
	default:
		return "any"
	}
}

// isHandleType reports whether values of t are passed around as
// rt_handle indirections rather than by raw value (spec.md §4.7.1):
// strings, arrays, structs, functions (closures) and "any" are always
// handle-backed; scalars are not.
func (g *Generator) isHandleType(t *Type) bool {
	if t == nil {
		return false
	}
	switch t.Kind {
	case TyString, TyArray, TyStruct, TyAny, TyFunction:
		return true
	default:
		return false
	}
}

func cIdent(name string) string {
	return name
}
