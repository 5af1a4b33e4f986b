package snc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lexAll(t *testing.T, src string) ([]Token, *DiagnosticSink) {
	t.Helper()
	diags := NewDiagnosticSink("test.sn")
	lx := NewLexer("test.sn", []byte(src), diags)
	return lx.Tokens(), diags
}

func kinds(toks []Token) []TokenKind {
	out := make([]TokenKind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func TestLexer_Punctuation(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		expected []TokenKind
	}{
		{"arrows", "=> -> ..", []TokenKind{TokFatArrow, TokArrow, TokDotDot, TokEOF}},
		{"compound assign", "+= -= *= /=", []TokenKind{TokPlusEq, TokMinusEq, TokStarEq, TokSlashEq, TokEOF}},
		{"inc dec vs plus", "a++ b-- c + d", []TokenKind{TokIdentifier, TokPlusPlus, TokIdentifier, TokMinusMinus, TokIdentifier, TokPlus, TokIdentifier, TokEOF}},
		{"comparisons", "== != < <= > >=", []TokenKind{TokEqEq, TokBangEq, TokLt, TokLtEq, TokGt, TokGtEq, TokEOF}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks, diags := lexAll(t, tt.src)
			assert.False(t, diags.HasErrors())
			assert.Equal(t, tt.expected, kinds(toks))
		})
	}
}

func TestLexer_Keywords(t *testing.T) {
	toks, diags := lexAll(t, "var fn struct or and not true false nil")
	require.False(t, diags.HasErrors())
	assert.Equal(t, []TokenKind{
		TokVar, TokFn, TokStruct, TokOr, TokAnd, TokNot, TokTrue, TokFalse, TokNil, TokEOF,
	}, kinds(toks))
	assert.Equal(t, Literal{Kind: LitBool, Bool: true}, toks[6].Literal)
	assert.Equal(t, Literal{Kind: LitBool, Bool: false}, toks[7].Literal)
}

func TestLexer_Numbers(t *testing.T) {
	toks, diags := lexAll(t, "42 3.14 0")
	require.False(t, diags.HasErrors())
	require.Len(t, toks, 4)
	assert.Equal(t, int64(42), toks[0].Literal.Int)
	assert.Equal(t, TokIntLiteral, toks[0].Kind)
	assert.Equal(t, 3.14, toks[1].Literal.Double)
	assert.Equal(t, TokDoubleLiteral, toks[1].Kind)
	assert.Equal(t, int64(0), toks[2].Literal.Int)
}

func TestLexer_String_Escapes(t *testing.T) {
	toks, diags := lexAll(t, `"a\nb\tc\\d\"e\0"`)
	require.False(t, diags.HasErrors())
	require.Len(t, toks, 2)
	assert.Equal(t, "a\nb\tc\\d\"e\x00", toks[0].Literal.String)
}

func TestLexer_UnterminatedString_ReportsAndContinues(t *testing.T) {
	toks, diags := lexAll(t, "\"unterminated\nvar x = 1")
	assert.True(t, diags.HasErrors())
	// lexing continues past the bad token instead of stopping.
	assert.Contains(t, kinds(toks), TokVar)
	assert.Equal(t, TokEOF, toks[len(toks)-1].Kind)
}

func TestLexer_InterpolatedString_FramesRawSlice(t *testing.T) {
	toks, diags := lexAll(t, `$"hello {name}!"`)
	require.False(t, diags.HasErrors())
	require.Len(t, toks, 2)
	assert.Equal(t, TokStringInterpStart, toks[0].Kind)
	assert.Equal(t, `hello {name}!`, toks[0].Literal.String)
}

func TestLexer_Comments_SkippedToEndOfLine(t *testing.T) {
	toks, diags := lexAll(t, "var x = 1 # trailing comment\nvar y = 2")
	require.False(t, diags.HasErrors())
	assert.NotContains(t, kinds(toks), TokInvalid)
}

func TestLexer_Char(t *testing.T) {
	toks, diags := lexAll(t, `'a' '\n'`)
	require.False(t, diags.HasErrors())
	require.Len(t, toks, 3)
	assert.Equal(t, 'a', toks[0].Literal.Char)
	assert.Equal(t, '\n', toks[1].Literal.Char)
}

func TestLexer_UnexpectedByte_ReportsAndMarksInvalid(t *testing.T) {
	toks, diags := lexAll(t, "var x = @")
	assert.True(t, diags.HasErrors())
	assert.Equal(t, TokInvalid, toks[len(toks)-2].Kind)
}
