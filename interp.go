package snc

import "strconv"

// parseInterpolated turns the raw text captured by the lexer's
// TokStringInterpStart token into an InterpolatedExpr, splitting on
// un-doubled `{`/`}` and re-parsing each hole as a full expression
// (spec.md §4.1/§4.3). Escapes inside literal fragments are decoded
// the same way top-level strings are.
func (p *Parser) parseInterpolated() Expr {
	tok := p.advance() // TokStringInterpStart
	raw := []rune(tok.Literal.String)

	var parts []InterpPart
	var lit []rune
	i := 0
	flush := func() {
		if len(lit) > 0 {
			parts = append(parts, InterpPart{Text: decodeEscapes(lit, p, tok.Line)})
			lit = nil
		}
	}

	for i < len(raw) {
		switch {
		case raw[i] == '{' && i+1 < len(raw) && raw[i+1] == '{':
			lit = append(lit, '{')
			i += 2
		case raw[i] == '}' && i+1 < len(raw) && raw[i+1] == '}':
			lit = append(lit, '}')
			i += 2
		case raw[i] == '{':
			flush()
			depth := 1
			start := i + 1
			j := start
			for j < len(raw) && depth > 0 {
				switch raw[j] {
				case '{':
					depth++
				case '}':
					depth--
					if depth == 0 {
						goto holeDone
					}
				}
				j++
			}
		holeDone:
			holeSrc := string(raw[start:j])
			parts = append(parts, InterpPart{Expr: p.parseSubExpression(holeSrc, tok.Line)})
			i = j + 1
		default:
			lit = append(lit, raw[i])
			i++
		}
	}
	flush()

	return NewInterpolatedExpr(tok, parts)
}

// parseSubExpression parses src (the text of one `{expr}` hole) as a
// standalone expression, using a fresh Lexer/Parser pair over just
// that slice. Diagnostics from the sub-parse are reported against the
// interpolated string's starting line, since the hole has no
// independent line tracking of its own.
func (p *Parser) parseSubExpression(src string, line int) Expr {
	sub := NewParser(p.filename, []byte(src), p.diags, p.resolver)
	if len(sub.toks) == 0 || sub.toks[0].Kind == TokEOF {
		p.diags.Report(PhaseParse, line, "empty interpolation hole")
		return NewLiteralExpr(Token{Kind: TokNil, Line: line}, Literal{})
	}
	return sub.parseExpression()
}

// decodeEscapes runs the lexer's escape table over a literal fragment
// captured raw by lexInterpString.
func decodeEscapes(raw []rune, p *Parser, line int) string {
	var out []rune
	for i := 0; i < len(raw); i++ {
		if raw[i] != '\\' || i+1 >= len(raw) {
			out = append(out, raw[i])
			continue
		}
		i++
		switch raw[i] {
		case 'n':
			out = append(out, '\n')
		case 't':
			out = append(out, '\t')
		case 'r':
			out = append(out, '\r')
		case '\\':
			out = append(out, '\\')
		case '"':
			out = append(out, '"')
		case '\'':
			out = append(out, '\'')
		case '0':
			out = append(out, 0)
		case 'x':
			if i+2 < len(raw) {
				v, err := strconv.ParseUint(string(raw[i+1:i+3]), 16, 8)
				if err == nil {
					out = append(out, rune(v))
				}
				i += 2
			}
		default:
			p.diags.Report(PhaseLex, line, "invalid escape sequence \\%c", raw[i])
		}
	}
	return string(out)
}
