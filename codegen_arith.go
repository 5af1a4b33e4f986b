package snc

import "fmt"

// genCheckedArith lowers integer +, -, *, /, % per spec.md §4.6:
// division and modulo are always checked (a zero divisor traps
// regardless of mode); + - * trap on overflow only in checked mode and
// lower to the raw C operator in unchecked mode.
func (g *Generator) genCheckedArith(t *BinaryExpr) string {
	l := g.genExpr(t.Left, false)
	r := g.genExpr(t.Right, false)

	switch t.Op {
	case TokSlash:
		return fmt.Sprintf("rt_checked_div_%s(%s, %s)", cTypeSuffix(t.Left.Type()), l, r)
	case TokPercent:
		return fmt.Sprintf("rt_checked_mod_%s(%s, %s)", cTypeSuffix(t.Left.Type()), l, r)
	}

	if !g.checked {
		return fmt.Sprintf("(%s %s %s)", l, cBinOp(t.Op), r)
	}

	op := map[TokenKind]string{TokPlus: "add", TokMinus: "sub", TokStar: "mul"}[t.Op]
	return fmt.Sprintf("rt_checked_%s_%s(%s, %s)", op, cTypeSuffix(t.Left.Type()), l, r)
}
