package snc

import "fmt"

// TokenKind identifies the lexical category of a Token. The zero value,
// TokInvalid, is what the lexer emits for a byte it cannot tokenize.
type TokenKind int

const (
	TokInvalid TokenKind = iota
	TokEOF
	TokNewline

	// Literals
	TokIntLiteral
	TokDoubleLiteral
	TokStringLiteral
	TokCharLiteral
	TokIdentifier

	// Interpolated string framing, emitted around nested expressions.
	TokStringInterpStart
	TokStringInterpPart
	TokStringInterpEnd

	// Keywords
	TokVar
	TokFn
	TokIf
	TokElif
	TokElse
	TokWhile
	TokFor
	TokIn
	TokReturn
	TokBreak
	TokContinue
	TokMatch
	TokStruct
	TokNative
	TokImport
	TokTrue
	TokFalse
	TokNil
	TokLock
	TokOr
	TokAnd
	TokNot

	// Type-name keywords
	TokTypeInt
	TokTypeLong
	TokTypeDouble
	TokTypeStr
	TokTypeChar
	TokTypeBool
	TokTypeVoid
	TokTypeByte
	TokTypeInt32
	TokTypeUint
	TokTypeUint32
	TokTypeFloat
	TokTypeAny

	// Operators & punctuation
	TokPlus
	TokMinus
	TokStar
	TokSlash
	TokPercent
	TokEqEq
	TokBangEq
	TokLt
	TokLtEq
	TokGt
	TokGtEq
	TokPlusEq
	TokMinusEq
	TokStarEq
	TokSlashEq
	TokEq
	TokBang
	TokFatArrow
	TokDotDot
	TokDot
	TokComma
	TokColon
	TokSemicolon
	TokLParen
	TokRParen
	TokLBracket
	TokRBracket
	TokLBrace
	TokRBrace
	TokArrow
	TokDollar
	TokQuestion
	TokPipe
	TokPlusPlus
	TokMinusMinus
)

var tokenNames = [...]string{
	TokInvalid:            "invalid",
	TokEOF:                "eof",
	TokNewline:            "newline",
	TokIntLiteral:         "int-literal",
	TokDoubleLiteral:      "double-literal",
	TokStringLiteral:      "string-literal",
	TokCharLiteral:        "char-literal",
	TokIdentifier:         "identifier",
	TokStringInterpStart:  "string-interp-start",
	TokStringInterpPart:   "string-interp-part",
	TokStringInterpEnd:    "string-interp-end",
	TokVar:                "var",
	TokFn:                 "fn",
	TokIf:                 "if",
	TokElif:               "elif",
	TokElse:               "else",
	TokWhile:              "while",
	TokFor:                "for",
	TokIn:                 "in",
	TokReturn:             "return",
	TokBreak:              "break",
	TokContinue:           "continue",
	TokMatch:              "match",
	TokStruct:             "struct",
	TokNative:             "native",
	TokImport:             "import",
	TokTrue:               "true",
	TokFalse:              "false",
	TokNil:                "nil",
	TokLock:               "lock",
	TokOr:                 "or",
	TokAnd:                "and",
	TokNot:                "not",
	TokTypeInt:            "int",
	TokTypeLong:           "long",
	TokTypeDouble:         "double",
	TokTypeStr:            "str",
	TokTypeChar:           "char",
	TokTypeBool:           "bool",
	TokTypeVoid:           "void",
	TokTypeByte:           "byte",
	TokTypeInt32:          "int32",
	TokTypeUint:           "uint",
	TokTypeUint32:         "uint32",
	TokTypeFloat:          "float",
	TokTypeAny:            "any",
	TokPlus:               "+",
	TokMinus:              "-",
	TokStar:               "*",
	TokSlash:              "/",
	TokPercent:            "%",
	TokEqEq:               "==",
	TokBangEq:             "!=",
	TokLt:                 "<",
	TokLtEq:               "<=",
	TokGt:                 ">",
	TokGtEq:               ">=",
	TokPlusEq:             "+=",
	TokMinusEq:            "-=",
	TokStarEq:             "*=",
	TokSlashEq:            "/=",
	TokEq:                 "=",
	TokBang:               "!",
	TokFatArrow:           "=>",
	TokDotDot:             "..",
	TokDot:                ".",
	TokComma:              ",",
	TokColon:              ":",
	TokSemicolon:          ";",
	TokLParen:             "(",
	TokRParen:             ")",
	TokLBracket:           "[",
	TokRBracket:           "]",
	TokLBrace:             "{",
	TokRBrace:             "}",
	TokArrow:              "->",
	TokDollar:             "$",
	TokQuestion:           "?",
	TokPipe:               "|",
	TokPlusPlus:           "++",
	TokMinusMinus:         "--",
}

func (k TokenKind) String() string {
	if int(k) >= 0 && int(k) < len(tokenNames) && tokenNames[k] != "" {
		return tokenNames[k]
	}
	return fmt.Sprintf("TokenKind(%d)", int(k))
}

// keywords maps reserved identifiers to their dedicated token kind, per
// spec.md §4.1.
var keywords = map[string]TokenKind{
	"var":      TokVar,
	"fn":       TokFn,
	"if":       TokIf,
	"elif":     TokElif,
	"else":     TokElse,
	"while":    TokWhile,
	"for":      TokFor,
	"in":       TokIn,
	"return":   TokReturn,
	"break":    TokBreak,
	"continue": TokContinue,
	"match":    TokMatch,
	"struct":   TokStruct,
	"native":   TokNative,
	"import":   TokImport,
	"true":     TokTrue,
	"false":    TokFalse,
	"nil":      TokNil,
	"lock":     TokLock,
	"or":       TokOr,
	"and":      TokAnd,
	"not":      TokNot,
	"int":      TokTypeInt,
	"long":     TokTypeLong,
	"double":   TokTypeDouble,
	"str":      TokTypeStr,
	"char":     TokTypeChar,
	"bool":     TokTypeBool,
	"void":     TokTypeVoid,
	"byte":     TokTypeByte,
	"int32":    TokTypeInt32,
	"uint":     TokTypeUint,
	"uint32":   TokTypeUint32,
	"float":    TokTypeFloat,
	"any":      TokTypeAny,
}

// LiteralKind tags which field of Literal is populated.
type LiteralKind int

const (
	LitNone LiteralKind = iota
	LitInt
	LitDouble
	LitBool
	LitChar
	LitString
)

// Literal is the decoded payload carried by literal tokens, per
// spec.md §3 "Tokens": "the payload is one of int | double | bool |
// char | string".
type Literal struct {
	Kind   LiteralKind
	Int    int64
	Double float64
	Bool   bool
	Char   rune
	String string
}

// Token is a single lexical unit: its kind, the verbatim source slice
// it came from, the 1-based source line it starts on, and its decoded
// literal payload when applicable.
type Token struct {
	Kind    TokenKind
	Lexeme  string
	Line    int
	Literal Literal
	Span    Span
}

func (t Token) String() string {
	if t.Lexeme != "" {
		return fmt.Sprintf("%s(%q)@%d", t.Kind, t.Lexeme, t.Line)
	}
	return fmt.Sprintf("%s@%d", t.Kind, t.Line)
}
