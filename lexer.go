package snc

import (
	"fmt"
	"strconv"
	"strings"
)

// Lexer turns a source byte buffer into a stream of Tokens (spec.md
// §4.1). It keeps the whole buffer alive so every Token's Lexeme can
// be a slice into it, and exposes one token of lookahead, which is
// all the parser needs.
type Lexer struct {
	filename string
	src      []byte
	runes    []rune
	lines    *LineIndex

	cursor int // index into runes
	diags  *DiagnosticSink

	// interpDepth tracks nested $"..." parses so Next can tell an
	// ordinary '}' from one that closes an interpolation hole.
	interpDepth int
}

// NewLexer constructs a Lexer over src. filename is used only for
// diagnostics.
func NewLexer(filename string, src []byte, diags *DiagnosticSink) *Lexer {
	return &Lexer{
		filename: filename,
		src:      src,
		runes:    []rune(string(src)),
		lines:    NewLineIndex(src),
		diags:    diags,
	}
}

func (l *Lexer) peek() rune {
	if l.cursor >= len(l.runes) {
		return eof
	}
	return l.runes[l.cursor]
}

func (l *Lexer) peekAt(offset int) rune {
	idx := l.cursor + offset
	if idx < 0 || idx >= len(l.runes) {
		return eof
	}
	return l.runes[idx]
}

func (l *Lexer) advance() rune {
	c := l.peek()
	if c != eof {
		l.cursor++
	}
	return c
}

func (l *Lexer) match(c rune) bool {
	if l.peek() == c {
		l.cursor++
		return true
	}
	return false
}

func (l *Lexer) byteOffset() int {
	// runes and bytes diverge only inside multi-byte UTF-8 runs; since
	// Span only needs to be good enough to slice back into the source
	// for diagnostics and pretty-printing, and every lexeme in this
	// language is ASCII except inside string/char literals (which we
	// slice from the rune buffer, not l.src), using the rune cursor as
	// the byte cursor for LineIndex is sufficient for line/column math.
	return l.cursor
}

func (l *Lexer) here() Location {
	return l.lines.LocationAt(l.byteOffset())
}

func (l *Lexer) report(format string, args ...any) {
	l.diags.Report(PhaseLex, l.here().Line, format, args...)
}

// Tokens lexes the entire input and returns it as a slice, the form
// the recursive-descent parser in parser.go consumes. The lexer
// continues past errors (spec.md §7 "Lex ... the lexer continues"),
// so a source with several bad tokens still yields a full token
// stream interleaved with Diagnostic reports.
func (l *Lexer) Tokens() []Token {
	var out []Token
	for {
		tok := l.Next()
		out = append(out, tok)
		if tok.Kind == TokEOF {
			return out
		}
	}
}

// Next scans and returns the next token, skipping whitespace (other
// than '\n', which is itself significant) and '#' comments.
func (l *Lexer) Next() Token {
	l.skipWhitespaceAndComments()

	start := l.here()
	c := l.peek()

	switch {
	case c == eof:
		return l.tok(TokEOF, "", start)
	case c == '\n':
		l.advance()
		return l.tok(TokNewline, "\n", start)
	case c == '"':
		return l.lexString(start)
	case c == '$' && l.peekAt(1) == '"':
		return l.lexInterpString(start)
	case c == '\'':
		return l.lexChar(start)
	case isDigit(c):
		return l.lexNumber(start)
	case isIdentStart(c):
		return l.lexIdentifier(start)
	default:
		return l.lexOperator(start)
	}
}

func (l *Lexer) tok(kind TokenKind, lexeme string, start Location) Token {
	end := l.here()
	return Token{Kind: kind, Lexeme: lexeme, Line: start.Line, Span: NewSpan(start, end)}
}

func (l *Lexer) litTok(kind TokenKind, lexeme string, start Location, lit Literal) Token {
	t := l.tok(kind, lexeme, start)
	t.Literal = lit
	return t
}

func (l *Lexer) skipWhitespaceAndComments() {
	for {
		switch l.peek() {
		case ' ', '\t', '\r':
			l.advance()
		case '#':
			for l.peek() != '\n' && l.peek() != eof {
				l.advance()
			}
		default:
			return
		}
	}
}

func isDigit(c rune) bool { return c >= '0' && c <= '9' }

func isIdentStart(c rune) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentCont(c rune) bool { return isIdentStart(c) || isDigit(c) }

func (l *Lexer) lexIdentifier(start Location) Token {
	var b strings.Builder
	for isIdentCont(l.peek()) {
		b.WriteRune(l.advance())
	}
	name := b.String()
	if kind, ok := keywords[name]; ok {
		lit := Literal{}
		switch kind {
		case TokTrue:
			lit = Literal{Kind: LitBool, Bool: true}
		case TokFalse:
			lit = Literal{Kind: LitBool, Bool: false}
		}
		return l.litTok(kind, name, start, lit)
	}
	return l.tok(TokIdentifier, name, start)
}

// lexNumber scans INT_LITERAL or DOUBLE_LITERAL per spec.md §4.1: a
// leading digit, more digits, an optional '.', an optional fraction.
func (l *Lexer) lexNumber(start Location) Token {
	var b strings.Builder
	for isDigit(l.peek()) {
		b.WriteRune(l.advance())
	}

	isDouble := false
	if l.peek() == '.' && isDigit(l.peekAt(1)) {
		isDouble = true
		b.WriteRune(l.advance()) // '.'
		for isDigit(l.peek()) {
			b.WriteRune(l.advance())
		}
	}

	lexeme := b.String()
	if isDouble {
		v, err := strconv.ParseFloat(lexeme, 64)
		if err != nil {
			l.report("invalid double literal %q", lexeme)
		}
		return l.litTok(TokDoubleLiteral, lexeme, start, Literal{Kind: LitDouble, Double: v})
	}
	v, err := strconv.ParseInt(lexeme, 10, 64)
	if err != nil {
		l.report("invalid int literal %q", lexeme)
	}
	return l.litTok(TokIntLiteral, lexeme, start, Literal{Kind: LitInt, Int: v})
}

// decodeEscape consumes the character(s) after a backslash already
// seen by the caller and returns the decoded rune. Recognizes
// \n \t \r \\ \" \0 and \xHH, per spec.md §4.1.
func (l *Lexer) decodeEscape() (rune, bool) {
	c := l.advance()
	switch c {
	case 'n':
		return '\n', true
	case 't':
		return '\t', true
	case 'r':
		return '\r', true
	case '\\':
		return '\\', true
	case '"':
		return '"', true
	case '\'':
		return '\'', true
	case '0':
		return 0, true
	case 'x':
		h1, h2 := l.advance(), l.advance()
		v, err := strconv.ParseUint(string([]rune{h1, h2}), 16, 8)
		if err != nil {
			l.report("invalid \\x escape")
			return 0, false
		}
		return rune(v), true
	case eof:
		l.report("unterminated escape sequence")
		return 0, false
	default:
		l.report("invalid escape sequence \\%c", c)
		return 0, false
	}
}

// lexString scans a plain "..." literal end to end.
func (l *Lexer) lexString(start Location) Token {
	l.advance() // opening quote
	var b strings.Builder
	for {
		c := l.peek()
		switch c {
		case '"':
			l.advance()
			return l.litTok(TokStringLiteral, b.String(), start, Literal{Kind: LitString, String: b.String()})
		case eof, '\n':
			l.report("unterminated string literal")
			return l.litTok(TokStringLiteral, b.String(), start, Literal{Kind: LitString, String: b.String()})
		case '\\':
			l.advance()
			if r, ok := l.decodeEscape(); ok {
				b.WriteRune(r)
			}
		default:
			b.WriteRune(l.advance())
		}
	}
}

// lexInterpString scans a whole $"..." interpolated string as one raw
// token (spec.md §4.1 notes the lexer has discretion over how it
// frames interpolation, "provided the parser can reconstruct the
// interpolation"). It keeps escapes undecoded and `{{`/`}}` doubled,
// tracking brace depth so a `{expr}` hole can itself contain braces or
// quotes without ending the string early; interp.go does the actual
// splitting into literal fragments and sub-expressions, since that
// requires a nested Parser, which the lexer doesn't have access to.
func (l *Lexer) lexInterpString(start Location) Token {
	l.advance() // '$'
	l.advance() // '"'
	var raw strings.Builder
	depth := 0
	for {
		c := l.peek()
		switch {
		case c == eof || c == '\n':
			l.report("unterminated interpolated string literal")
			return l.litTok(TokStringInterpStart, raw.String(), start, Literal{Kind: LitString, String: raw.String()})
		case c == '"' && depth == 0:
			l.advance()
			return l.litTok(TokStringInterpStart, raw.String(), start, Literal{Kind: LitString, String: raw.String()})
		case c == '\\':
			raw.WriteRune(l.advance())
			if l.peek() != eof {
				raw.WriteRune(l.advance())
			}
		case c == '{' && l.peekAt(1) == '{':
			raw.WriteRune(l.advance())
			raw.WriteRune(l.advance())
		case c == '}' && l.peekAt(1) == '}':
			raw.WriteRune(l.advance())
			raw.WriteRune(l.advance())
		case c == '{':
			depth++
			raw.WriteRune(l.advance())
		case c == '}':
			if depth > 0 {
				depth--
			}
			raw.WriteRune(l.advance())
		default:
			raw.WriteRune(l.advance())
		}
	}
}

// lexChar scans a 'c' or '\e' literal.
func (l *Lexer) lexChar(start Location) Token {
	l.advance() // opening quote
	var r rune
	switch l.peek() {
	case '\\':
		l.advance()
		var ok bool
		r, ok = l.decodeEscape()
		if !ok {
			r = 0
		}
	case eof, '\'':
		l.report("empty or unterminated char literal")
	default:
		r = l.advance()
	}
	if !l.match('\'') {
		l.report("unterminated char literal")
	}
	return l.litTok(TokCharLiteral, string(r), start, Literal{Kind: LitChar, Char: r})
}

func (l *Lexer) lexOperator(start Location) Token {
	c := l.advance()
	two := func(second rune, yes, no TokenKind) Token {
		if l.match(second) {
			return l.tok(yes, string(c)+string(second), start)
		}
		return l.tok(no, string(c), start)
	}
	switch c {
	case '+':
		if l.peek() == '+' {
			l.advance()
			return l.tok(TokPlusPlus, "++", start)
		}
		return two('=', TokPlusEq, TokPlus)
	case '-':
		if l.peek() == '-' {
			l.advance()
			return l.tok(TokMinusMinus, "--", start)
		}
		if l.peek() == '>' {
			l.advance()
			return l.tok(TokArrow, "->", start)
		}
		return two('=', TokMinusEq, TokMinus)
	case '*':
		return two('=', TokStarEq, TokStar)
	case '/':
		return two('=', TokSlashEq, TokSlash)
	case '%':
		return l.tok(TokPercent, "%", start)
	case '=':
		if l.peek() == '>' {
			l.advance()
			return l.tok(TokFatArrow, "=>", start)
		}
		return two('=', TokEqEq, TokEq)
	case '!':
		return two('=', TokBangEq, TokBang)
	case '<':
		return two('=', TokLtEq, TokLt)
	case '>':
		return two('=', TokGtEq, TokGt)
	case '.':
		return two('.', TokDotDot, TokDot)
	case ',':
		return l.tok(TokComma, ",", start)
	case ':':
		return l.tok(TokColon, ":", start)
	case ';':
		return l.tok(TokSemicolon, ";", start)
	case '(':
		return l.tok(TokLParen, "(", start)
	case ')':
		return l.tok(TokRParen, ")", start)
	case '[':
		return l.tok(TokLBracket, "[", start)
	case ']':
		return l.tok(TokRBracket, "]", start)
	case '{':
		return l.tok(TokLBrace, "{", start)
	case '}':
		return l.tok(TokRBrace, "}", start)
	case '$':
		return l.tok(TokDollar, "$", start)
	case '?':
		return l.tok(TokQuestion, "?", start)
	case '|':
		return l.tok(TokPipe, "|", start)
	default:
		l.report("unexpected byte %s", quoteRune(c))
		return l.tok(TokInvalid, string(c), start)
	}
}

func quoteRune(c rune) string {
	if c == eof {
		return "EOF"
	}
	return fmt.Sprintf("%q", c)
}
