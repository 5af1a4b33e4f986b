package snc

// parseExpression is the sole entry point into expression parsing:
// assignment first, which recurses down through the precedence chain
// described in spec.md §4.3: "or, and, equality, comparison, range,
// additive, multiplicative, unary, postfix, primary."
func (p *Parser) parseExpression() Expr {
	return p.parseAssignment()
}

var assignOps = []TokenKind{TokEq, TokPlusEq, TokMinusEq, TokStarEq, TokSlashEq}

func (p *Parser) parseAssignment() Expr {
	expr := p.parseOr()

	if !p.startsAny(assignOps) {
		return expr
	}
	opTok := p.advance()
	value := p.parseAssignment() // right-associative

	switch target := expr.(type) {
	case *VariableExpr:
		if opTok.Kind == TokEq {
			return NewAssignExpr(opTok, target.Name, value)
		}
		return NewCompoundAssignExpr(opTok, target, opTok.Kind, value)
	case *ArrayAccessExpr:
		if opTok.Kind == TokEq {
			return NewIndexAssignExpr(opTok, target.Array, target.Index, value)
		}
		return NewCompoundAssignExpr(opTok, target, opTok.Kind, value)
	case *MemberAccessExpr:
		if opTok.Kind == TokEq {
			return NewMemberAssignExpr(opTok, target.Object, target.Name, value)
		}
		return NewCompoundAssignExpr(opTok, target, opTok.Kind, value)
	default:
		p.diags.Report(PhaseParse, opTok.Line, "invalid assignment target")
		return expr
	}
}

func (p *Parser) parseOr() Expr {
	expr := p.parseAnd()
	for p.check(TokOr) {
		op := p.advance()
		right := p.parseAnd()
		expr = NewBinaryExpr(op, TokOr, expr, right)
	}
	return expr
}

func (p *Parser) parseAnd() Expr {
	expr := p.parseEquality()
	for p.check(TokAnd) {
		op := p.advance()
		right := p.parseEquality()
		expr = NewBinaryExpr(op, TokAnd, expr, right)
	}
	return expr
}

func (p *Parser) parseEquality() Expr {
	expr := p.parseComparison()
	for p.check(TokEqEq) || p.check(TokBangEq) {
		op := p.advance()
		right := p.parseComparison()
		expr = NewBinaryExpr(op, op.Kind, expr, right)
	}
	return expr
}

func (p *Parser) parseComparison() Expr {
	expr := p.parseRange()
	for p.check(TokLt) || p.check(TokLtEq) || p.check(TokGt) || p.check(TokGtEq) {
		op := p.advance()
		right := p.parseRange()
		expr = NewBinaryExpr(op, op.Kind, expr, right)
	}
	return expr
}

func (p *Parser) parseRange() Expr {
	expr := p.parseAdditive()
	if p.check(TokDotDot) {
		op := p.advance()
		right := p.parseAdditive()
		return NewRangeExpr(op, expr, right)
	}
	return expr
}

func (p *Parser) parseAdditive() Expr {
	expr := p.parseMultiplicative()
	for p.check(TokPlus) || p.check(TokMinus) {
		op := p.advance()
		right := p.parseMultiplicative()
		expr = NewBinaryExpr(op, op.Kind, expr, right)
	}
	return expr
}

func (p *Parser) parseMultiplicative() Expr {
	expr := p.parseUnary()
	for p.check(TokStar) || p.check(TokSlash) || p.check(TokPercent) {
		op := p.advance()
		right := p.parseUnary()
		expr = NewBinaryExpr(op, op.Kind, expr, right)
	}
	return expr
}

func (p *Parser) parseUnary() Expr {
	if p.check(TokMinus) || p.check(TokBang) || p.check(TokNot) {
		op := p.advance()
		operand := p.parseUnary()
		return NewUnaryExpr(op, op.Kind, operand)
	}
	if p.check(TokPlusPlus) || p.check(TokMinusMinus) {
		op := p.advance()
		operand := p.parseUnary()
		return NewIncDecExpr(op, operand, op.Kind == TokPlusPlus, true)
	}
	return p.parsePostfix()
}

func (p *Parser) parsePostfix() Expr {
	expr := p.parsePrimary()
	for {
		switch {
		case p.check(TokDot):
			p.advance()
			name := p.expect(TokIdentifier, "after '.'")
			expr = NewMemberAccessExpr(name, expr, name.Lexeme)
		case p.check(TokLBracket):
			expr = p.parseIndexOrSlice(expr)
		case p.check(TokLParen):
			expr = p.parseCallArgs(expr)
		case p.check(TokPlusPlus) || p.check(TokMinusMinus):
			op := p.advance()
			expr = NewIncDecExpr(op, expr, op.Kind == TokPlusPlus, false)
		default:
			return expr
		}
	}
}

// parseIndexOrSlice parses `arr[index]` or `arr[start:end:step]` with
// any of the three slice components omitted (spec.md §4.3 ArraySlice).
func (p *Parser) parseIndexOrSlice(array Expr) Expr {
	tok := p.advance() // '['
	var start, end, step Expr
	isSlice := false

	if !p.check(TokColon) && !p.check(TokRBracket) {
		start = p.parseExpression()
	}
	if p.check(TokColon) {
		isSlice = true
		p.advance()
		if !p.check(TokColon) && !p.check(TokRBracket) {
			end = p.parseExpression()
		}
		if p.check(TokColon) {
			p.advance()
			if !p.check(TokRBracket) {
				step = p.parseExpression()
			}
		}
	}
	p.expect(TokRBracket, "to close index/slice")

	if isSlice {
		return NewArraySliceExpr(tok, array, start, end, step)
	}
	return NewArrayAccessExpr(tok, array, start)
}

func (p *Parser) parseCallArgs(callee Expr) Expr {
	tok := p.advance() // '('
	var args []Expr
	for !p.check(TokRParen) && !p.isAtEnd() {
		args = append(args, p.parseCallArg())
		if !p.match(TokComma) {
			break
		}
	}
	p.expect(TokRParen, "to close call arguments")
	return NewCallExpr(tok, callee, args)
}

func (p *Parser) parseCallArg() Expr {
	if p.check(TokDotDot) {
		tok := p.advance()
		return NewSpreadExpr(tok, p.parseExpression())
	}
	return p.parseExpression()
}

func (p *Parser) parsePrimary() Expr {
	tok := p.peek()
	switch tok.Kind {
	case TokIntLiteral, TokDoubleLiteral, TokStringLiteral, TokCharLiteral, TokTrue, TokFalse, TokNil:
		p.advance()
		return NewLiteralExpr(tok, tok.Literal)
	case TokDollar:
		return p.parseInterpolated()
	case TokIdentifier:
		p.advance()
		if p.check(TokLBrace) {
			return p.parseStructLiteral(tok)
		}
		return NewVariableExpr(tok, tok.Lexeme)
	case TokLParen:
		p.advance()
		inner := p.parseExpression()
		p.expect(TokRParen, "to close parenthesized expression")
		return inner
	case TokLBracket:
		return p.parseArrayLiteral()
	case TokFn:
		return p.parseLambda(ModDefault)
	case TokMatch:
		return p.parseMatch()
	default:
		p.advance()
		p.errorf("unexpected token %s in expression", tok.Kind)
		return NewLiteralExpr(tok, Literal{})
	}
}

func (p *Parser) parseArrayLiteral() Expr {
	tok := p.advance() // '['
	var elems []Expr
	for !p.check(TokRBracket) && !p.isAtEnd() {
		elems = append(elems, p.parseCallArg())
		if !p.match(TokComma) {
			break
		}
	}
	p.expect(TokRBracket, "to close array literal")
	return NewArrayLiteralExpr(tok, elems)
}

func (p *Parser) parseStructLiteral(nameTok Token) Expr {
	p.expect(TokLBrace, "to open struct literal")
	p.skipNewlines()
	var fields []FieldInit
	for !p.check(TokRBrace) && !p.isAtEnd() {
		fname := p.expect(TokIdentifier, "as field name")
		p.expect(TokColon, "after field name")
		value := p.parseExpression()
		fields = append(fields, FieldInit{Name: fname.Lexeme, Value: value})
		if !p.match(TokComma) {
			p.skipNewlines()
		}
	}
	p.expect(TokRBrace, "to close struct literal")
	return NewStructLiteralExpr(nameTok, nameTok.Lexeme, fields)
}

// parseLambda parses `fn(params) => expr` or `fn(params) => \n stmts`.
func (p *Parser) parseLambda(mod FunctionModifier) Expr {
	tok := p.advance() // 'fn'
	params := p.parseParamList()

	var ret *Type
	if p.match(TokArrow) {
		ret = p.parseTypeAnnotation()
	}

	p.expect(TokFatArrow, "after lambda parameter list")

	if p.check(TokNewline) {
		body := p.parseBlockHeaderBody()
		return NewLambdaExpr(tok, params, ret, mod, nil, body.Stmts)
	}
	return NewLambdaExpr(tok, params, ret, mod, p.parseExpression(), nil)
}

// parseMatch parses `match subject \n pattern1 | pattern2 => body \n
// else => body` (spec.md §4.3 "Pattern matching").
func (p *Parser) parseMatch() Expr {
	tok := p.advance() // 'match'
	subject := p.parseExpression()
	p.skipNewlines()

	var arms []MatchArm
	for p.startsMatchArm() {
		arms = append(arms, p.parseMatchArm())
		p.skipNewlines()
	}
	return NewMatchExpr(tok, subject, arms)
}

func (p *Parser) startsMatchArm() bool {
	if p.check(TokElse) {
		return true
	}
	if !p.canStartExpression() {
		return false
	}
	for i := 0; ; i++ {
		switch p.peekAt(i).Kind {
		case TokFatArrow:
			return true
		case TokNewline, TokSemicolon, TokEOF:
			return false
		}
	}
}

// canStartExpression approximates whether the current token could
// begin a pattern expression. There is no explicit terminator in this
// indentation-free grammar: startsMatchArm ends a match's arm list at
// the first line that is neither an else arm nor a pattern followed by
// `=>` on the same line.
func (p *Parser) canStartExpression() bool {
	switch p.peek().Kind {
	case TokIntLiteral, TokDoubleLiteral, TokStringLiteral, TokCharLiteral, TokTrue, TokFalse,
		TokNil, TokIdentifier, TokLParen, TokLBracket, TokMinus, TokBang, TokNot, TokDollar:
		return true
	default:
		return false
	}
}

func (p *Parser) parseMatchArm() MatchArm {
	if p.check(TokElse) {
		p.advance()
		p.expect(TokFatArrow, "after else")
		body := p.parseMatchArmBody()
		return MatchArm{IsElse: true, Body: body}
	}

	var patterns []Expr
	patterns = append(patterns, p.parseOr())
	for p.check(TokPipe) {
		p.advance()
		patterns = append(patterns, p.parseOr())
	}
	p.expect(TokFatArrow, "after match pattern list")
	body := p.parseMatchArmBody()
	return MatchArm{Patterns: patterns, Body: body}
}

// parseMatchArmBody parses the body following an arm's `=>`: a single
// expression statement (the common case, since match is itself an
// expression) or a block, exactly like any other `=>` header.
func (p *Parser) parseMatchArmBody() Stmt {
	if p.check(TokNewline) {
		return p.parseBlockHeaderBody()
	}
	tok := p.peek()
	return NewExprStmt(tok, p.parseExpression())
}
