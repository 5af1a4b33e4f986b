package snc

// Parser is a recursive-descent parser with a Pratt-style precedence
// table for expressions (spec.md §4.3). Statements are
// indentation-free; compound forms use a `=>` header followed by
// either a single statement on the same line or a newline-delimited
// block that continues while the next token begins a statement.
type Parser struct {
	filename string
	toks     []Token
	pos      int
	diags    *DiagnosticSink

	resolver ImportResolver
	// importing/imported are shared across every Parser spawned for a
	// recursive import chain, so cycles are detected globally.
	importing map[string]bool
	imported  map[string]bool

	// ImportedStmts accumulates the statements of every transitively
	// imported module, in resolution order. The driver type-checks
	// these before the statements Parse() itself returns (spec.md
	// §4.3: "imported modules are type-checked first").
	ImportedStmts []Stmt
}

// NewParser lexes src and prepares a Parser over its token stream.
// resolver may be nil if the source contains no import statements.
func NewParser(filename string, src []byte, diags *DiagnosticSink, resolver ImportResolver) *Parser {
	lex := NewLexer(filename, src, diags)
	return &Parser{
		filename:  filename,
		toks:      lex.Tokens(),
		diags:     diags,
		resolver:  resolver,
		importing: make(map[string]bool),
		imported:  make(map[string]bool),
	}
}

// Parse consumes the whole token stream and returns the top-level
// statement list. It recovers from a malformed statement by skipping
// to the next newline, so one bad statement doesn't stop the rest of
// the file from being checked (mirroring the lexer's "continues past
// errors" discipline, spec.md §7).
func (p *Parser) Parse() []Stmt {
	var stmts []Stmt
	p.skipNewlines()
	for !p.isAtEnd() {
		before := p.diags.Count()
		stmts = append(stmts, p.parseTopLevelStmt())
		if p.diags.Count() > before {
			p.synchronize()
		}
		p.skipNewlines()
	}
	return stmts
}

func (p *Parser) peek() Token     { return p.toks[p.pos] }
func (p *Parser) peekAt(n int) Token {
	idx := p.pos + n
	if idx >= len(p.toks) {
		return p.toks[len(p.toks)-1] // EOF
	}
	return p.toks[idx]
}
func (p *Parser) previous() Token { return p.toks[p.pos-1] }
func (p *Parser) isAtEnd() bool   { return p.peek().Kind == TokEOF }

func (p *Parser) advance() Token {
	if !p.isAtEnd() {
		p.pos++
	}
	return p.previous()
}

func (p *Parser) check(kind TokenKind) bool {
	return p.peek().Kind == kind
}

func (p *Parser) match(kinds ...TokenKind) bool {
	for _, k := range kinds {
		if p.check(k) {
			p.advance()
			return true
		}
	}
	return false
}

// expect consumes a token of the given kind or reports a diagnostic
// and returns the current token unconsumed, letting the caller
// continue building a best-effort AST.
func (p *Parser) expect(kind TokenKind, context string) Token {
	if p.check(kind) {
		return p.advance()
	}
	p.errorf("expected %s %s, got %s", kind, context, p.peek().Kind)
	return p.peek()
}

func (p *Parser) errorf(format string, args ...any) {
	p.diags.Report(PhaseParse, p.peek().Line, format, args...)
}

// skipNewlines skips both NEWLINE and ';' tokens: the language treats
// a semicolon as an inline statement separator equivalent to a line
// break (spec.md §8's `inc(); inc(); inc()` and brace-block examples).
func (p *Parser) skipNewlines() {
	for p.check(TokNewline) || p.check(TokSemicolon) {
		p.advance()
	}
}

// synchronize discards tokens until the next newline or EOF, used to
// recover after a statement-level parse error.
func (p *Parser) synchronize() {
	for !p.isAtEnd() && !p.check(TokNewline) {
		p.advance()
	}
}

// parseBlockHeaderBody parses what follows a `=>`: either a single
// statement on the same line, or — if the next token is a newline — a
// newline-delimited sequence of statements that continues while the
// next non-newline token begins a statement, closed implicitly by
// dedent-to-end-of-block being signaled by the caller's terminator
// set (spec.md §4.3). Since this language has no block-closing
// keyword, callers that need an explicit end (e.g. the body of an
// `if` before a possible `elif`/`else`) pass the set of tokens that
// terminate the block.
func (p *Parser) parseBlockHeaderBody(terminators ...TokenKind) *Block {
	tok := p.peek()
	if !p.check(TokNewline) {
		stmt := p.parseStmt()
		return NewBlock(tok, []Stmt{stmt})
	}
	p.skipNewlines()
	var stmts []Stmt
	for !p.isAtEnd() && !p.startsAny(terminators) && p.startsStmt() {
		stmts = append(stmts, p.parseStmt())
		p.skipNewlines()
	}
	return NewBlock(tok, stmts)
}

func (p *Parser) startsAny(kinds []TokenKind) bool {
	for _, k := range kinds {
		if p.check(k) {
			return true
		}
	}
	return false
}

// startsStmt reports whether the current token can begin a statement,
// used to know where an implicit (non-terminator-delimited) block
// ends.
func (p *Parser) startsStmt() bool {
	switch p.peek().Kind {
	case TokVar, TokFn, TokIf, TokWhile, TokFor, TokReturn, TokBreak, TokContinue,
		TokNative, TokImport, TokLock, TokLBrace, TokStruct:
		return true
	case TokIdentifier, TokIntLiteral, TokDoubleLiteral, TokStringLiteral, TokCharLiteral,
		TokTrue, TokFalse, TokNil, TokLParen, TokLBracket, TokMinus, TokBang, TokNot,
		TokDollar, TokMatch, TokPlusPlus, TokMinusMinus:
		return true
	default:
		return false
	}
}
