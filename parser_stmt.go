package snc

// parseTopLevelStmt parses one of the statement forms legal at module
// scope: struct/function declarations, imports, or an ordinary
// statement (mostly useful for scripts/tests that run top-level code).
func (p *Parser) parseTopLevelStmt() Stmt {
	switch p.peek().Kind {
	case TokImport:
		return p.parseImportStmt()
	case TokFn:
		return p.parseFunctionStmt(ModDefault)
	case TokNative:
		return p.parseNativeDecl()
	case TokStruct:
		return p.parseStructDecl()
	default:
		return p.parseStmt()
	}
}

// parseStmt parses any statement legal inside a block.
func (p *Parser) parseStmt() Stmt {
	switch p.peek().Kind {
	case TokVar:
		return p.parseVarDecl()
	case TokIf:
		return p.parseIfStmt()
	case TokWhile:
		return p.parseWhileStmt()
	case TokFor:
		return p.parseForOrForEachStmt()
	case TokReturn:
		return p.parseReturnStmt()
	case TokBreak:
		tok := p.advance()
		return NewBreakStmt(tok)
	case TokContinue:
		tok := p.advance()
		return NewContinueStmt(tok)
	case TokLock:
		return p.parseLockStmt()
	case TokLBrace:
		return p.parseBraceBlock()
	case TokFn:
		return p.parseFunctionStmt(ModDefault)
	default:
		tok := p.peek()
		expr := p.parseExpression()
		return NewExprStmt(tok, expr)
	}
}

// parseBraceBlock parses a standalone `{ stmt; stmt; ... }` scope
// block (spec.md §8 scenario 5: `{ var local = "hello"; b.s = local }`).
func (p *Parser) parseBraceBlock() *Block {
	tok := p.expect(TokLBrace, "to open a block")
	p.skipNewlines()
	var stmts []Stmt
	for !p.isAtEnd() && !p.check(TokRBrace) {
		stmts = append(stmts, p.parseStmt())
		p.skipNewlines()
	}
	p.expect(TokRBrace, "to close a block")
	return NewBlock(tok, stmts)
}

func (p *Parser) parseVarDecl() Stmt {
	tok := p.advance() // 'var'
	name := p.expect(TokIdentifier, "as variable name")

	var typ *Type
	if p.match(TokColon) {
		typ = p.parseTypeAnnotation()
	}

	var init Expr
	if p.match(TokEq) {
		init = p.parseExpression()
	}
	return NewVarDecl(tok, name.Lexeme, typ, init)
}

// parseTypeAnnotation parses a type reference: a primitive keyword, an
// identifier naming a struct, `[T]` for an array, `*T` for a pointer,
// or a trailing `?` for nullable.
func (p *Parser) parseTypeAnnotation() *Type {
	var t *Type
	switch {
	case p.check(TokLBracket):
		p.advance()
		elem := p.parseTypeAnnotation()
		p.expect(TokRBracket, "to close array type")
		t = NewArrayType(elem)
	case p.check(TokStar):
		p.advance()
		t = NewPointerType(p.parseTypeAnnotation())
	case p.check(TokIdentifier):
		name := p.advance()
		t = NewOpaqueType(name.Lexeme)
	default:
		tok := p.advance()
		if prim, ok := primitiveByKeyword[tok.Kind]; ok {
			t = prim
		} else {
			p.errorf("expected type, got %s", tok.Kind)
			t = AnyType
		}
	}
	if p.match(TokQuestion) {
		t = NewNullableType(t)
	}
	return t
}

func (p *Parser) parseIfStmt() Stmt {
	tok := p.advance() // 'if'
	cond := p.parseExpression()
	p.expect(TokFatArrow, "after if condition")
	// A single-line body leaves the parser on its newline; an elif/else
	// starting the next line still belongs to this if.
	skipToClause := func() {
		i := 0
		for k := p.peekAt(i).Kind; k == TokNewline || k == TokSemicolon; k = p.peekAt(i).Kind {
			i++
		}
		if k := p.peekAt(i).Kind; k == TokElif || k == TokElse {
			p.skipNewlines()
		}
	}
	then := p.parseBlockHeaderBody(TokElif, TokElse)
	skipToClause()

	var elifs []ElifClause
	for p.check(TokElif) {
		p.advance()
		ec := p.parseExpression()
		p.expect(TokFatArrow, "after elif condition")
		eb := p.parseBlockHeaderBody(TokElif, TokElse)
		elifs = append(elifs, ElifClause{Cond: ec, Body: eb})
		skipToClause()
	}

	var els *Block
	if p.check(TokElse) {
		p.advance()
		p.expect(TokFatArrow, "after else")
		els = p.parseBlockHeaderBody()
	}

	return NewIfStmt(tok, cond, then, elifs, els)
}

func (p *Parser) parseWhileStmt() Stmt {
	tok := p.advance() // 'while'
	cond := p.parseExpression()
	p.expect(TokFatArrow, "after while condition")
	body := p.parseBlockHeaderBody()
	return NewWhileStmt(tok, cond, body)
}

// parseForOrForEachStmt disambiguates `for init; cond; incr => body`
// from `for x in iterable => body` by lookahead for `in`.
func (p *Parser) parseForOrForEachStmt() Stmt {
	tok := p.advance() // 'for'

	if p.check(TokIdentifier) && p.peekAt(1).Kind == TokIn {
		name := p.advance()
		p.advance() // 'in'
		iterable := p.parseExpression()
		p.expect(TokFatArrow, "after for-each iterable")
		body := p.parseBlockHeaderBody()
		return NewForEachStmt(tok, name.Lexeme, iterable, body)
	}

	var init Stmt
	if !p.check(TokSemicolon) {
		init = p.parseStmt()
	}
	p.expect(TokSemicolon, "after for-loop init")

	var cond Expr
	if !p.check(TokSemicolon) {
		cond = p.parseExpression()
	}
	p.expect(TokSemicolon, "after for-loop condition")

	var incr Stmt
	if !p.check(TokFatArrow) {
		incrTok := p.peek()
		incr = NewExprStmt(incrTok, p.parseExpression())
	}
	p.expect(TokFatArrow, "after for-loop header")
	body := p.parseBlockHeaderBody()
	return NewForStmt(tok, init, cond, incr, body)
}

func (p *Parser) parseReturnStmt() Stmt {
	tok := p.advance() // 'return'
	var value Expr
	if !p.check(TokNewline) && !p.check(TokSemicolon) && !p.isAtEnd() {
		value = p.parseExpression()
	}
	return NewReturnStmt(tok, value)
}

func (p *Parser) parseLockStmt() Stmt {
	tok := p.advance() // 'lock'
	p.expect(TokLParen, "after lock")
	target := p.parseExpression()
	p.expect(TokRParen, "to close lock target")
	p.expect(TokFatArrow, "after lock(...)")
	body := p.parseBlockHeaderBody()
	return NewLockStmt(tok, target, body)
}

func (p *Parser) parseImportStmt() Stmt {
	tok := p.advance() // 'import'
	pathTok := p.expect(TokStringLiteral, "as import path")
	stmt := NewImportStmt(tok, pathTok.Literal.String)
	p.resolveImport(stmt.Path, tok.Line)
	return stmt
}

func (p *Parser) parseFunctionStmt(mod FunctionModifier) Stmt {
	tok := p.advance() // 'fn'
	name := p.expect(TokIdentifier, "as function name")
	params := p.parseParamList()

	var ret *Type
	if p.match(TokArrow) {
		ret = p.parseTypeAnnotation()
	} else {
		ret = VoidType
	}

	p.expect(TokFatArrow, "after function signature")
	body := p.parseBlockHeaderBody()
	return NewFunctionStmt(tok, name.Lexeme, params, ret, body, mod, false)
}

func (p *Parser) parseNativeDecl() Stmt {
	tok := p.advance() // 'native'
	if p.check(TokFn) {
		p.advance()
		name := p.expect(TokIdentifier, "as native function name")
		params := p.parseParamList()
		var ret *Type
		if p.match(TokArrow) {
			ret = p.parseTypeAnnotation()
		} else {
			ret = VoidType
		}
		return NewFunctionStmt(tok, name.Lexeme, params, ret, nil, ModNative, true)
	}
	// `native struct Foo { ... }`: an opaque, runtime-defined layout.
	name := p.expect(TokIdentifier, "as native struct name")
	p.expect(TokLBrace, "to open native struct body")
	p.skipNewlines()
	p.expect(TokRBrace, "to close native struct body")
	return NewStructDeclStmt(tok, name.Lexeme, nil, true)
}

func (p *Parser) parseParamList() []Param {
	p.expect(TokLParen, "to open parameter list")
	var params []Param
	for !p.check(TokRParen) && !p.isAtEnd() {
		name := p.expect(TokIdentifier, "as parameter name")
		var typ *Type = AnyType
		if p.match(TokColon) {
			typ = p.parseTypeAnnotation()
		}
		params = append(params, Param{Name: name.Lexeme, Type: typ})
		if !p.match(TokComma) {
			break
		}
	}
	p.expect(TokRParen, "to close parameter list")
	return params
}

// parseStructDecl parses `struct Name { field: type = default, ... }`.
func (p *Parser) parseStructDecl() Stmt {
	tok := p.advance() // 'struct'
	name := p.expect(TokIdentifier, "as struct name")
	p.expect(TokLBrace, "to open struct body")
	p.skipNewlines()
	var fields []Field
	for !p.check(TokRBrace) && !p.isAtEnd() {
		fname := p.expect(TokIdentifier, "as field name")
		p.expect(TokColon, "after field name")
		ftype := p.parseTypeAnnotation()
		var def Expr
		if p.match(TokEq) {
			def = p.parseExpression()
		}
		fields = append(fields, Field{Name: fname.Lexeme, Type: ftype, Default: def})
		if !p.match(TokComma) {
			p.skipNewlines()
		}
	}
	p.expect(TokRBrace, "to close struct body")
	return NewStructDeclStmt(tok, name.Lexeme, fields, false)
}
