package snc

import "fmt"

// genMatch lowers a MatchExpr to a GCC statement expression
// (`({ ... })`), per spec.md §4.7.3: the subject is evaluated once
// into a temporary, each arm becomes an if/else-if test (patterns
// within an arm joined by `||`, string subjects compared with
// rt_string_eq), and the arm's body's last statement supplies the
// overall value.
func (g *Generator) genMatch(t *MatchExpr) string {
	w := newCodeWriter()
	subjType := t.Subject.Type()
	subjTmp := g.newTemp("subj")
	resultTmp := g.newTemp("match")

	w.Line("({")
	w.Indent()
	w.Line("%s %s = %s;", cTypeName(subjType), subjTmp, g.genExpr(t.Subject, g.isHandleType(subjType)))
	w.Line("%s %s;", cTypeName(t.Type()), resultTmp)

	for i, arm := range t.Arms {
		header := "if (1)"
		if !arm.IsElse {
			var tests []string
			for _, pat := range arm.Patterns {
				tests = append(tests, g.genMatchTest(subjTmp, subjType, pat))
			}
			header = fmt.Sprintf("if (%s)", joinOr(tests))
		}
		if i > 0 {
			header = "else " + header
		}
		w.Block(header, func() {
			g.genMatchArmBody(arm.Body, resultTmp, w)
		})
	}

	w.Line("%s;", resultTmp)
	w.Dedent()
	w.Line("})")
	return w.String()
}

func (g *Generator) genMatchTest(subjTmp string, subjType *Type, pattern Expr) string {
	if subjType != nil && subjType.Kind == TyString {
		return fmt.Sprintf("rt_string_eq(%s, %s)", subjTmp, g.genExpr(pattern, false))
	}
	return fmt.Sprintf("(%s == %s)", subjTmp, g.genExpr(pattern, false))
}

// genMatchArmBody lowers an arm's body, assigning its final
// expression-statement's value into resultTmp (the GCC
// statement-expression's value), matching every other statement
// verbatim.
func (g *Generator) genMatchArmBody(body Stmt, resultTmp string, w *codeWriter) {
	switch b := body.(type) {
	case *ExprStmt:
		w.Line("%s = %s;", resultTmp, g.genExpr(b.Expr, false))
	case *Block:
		for i, s := range b.Stmts {
			if i == len(b.Stmts)-1 {
				g.genMatchArmBody(s, resultTmp, w)
			} else {
				g.genStmt(s, w)
			}
		}
	default:
		g.genStmt(body, w)
	}
}

func joinOr(tests []string) string {
	out := ""
	for i, t := range tests {
		if i > 0 {
			out += " || "
		}
		out += t
	}
	return out
}
