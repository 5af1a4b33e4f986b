package snc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// genProgram runs the front end and generator directly (no C compiler
// invocation), for tests that only care about the emitted C text.
func genProgram(t *testing.T, src string) (string, *DiagnosticSink) {
	t.Helper()
	diags := NewDiagnosticSink("test.sn")
	p := NewParser("test.sn", []byte(src), diags, nil)
	stmts := p.Parse()
	require.False(t, diags.HasErrors(), "parse errors: %v", diags.Err())

	config := NewConfig()
	NewChecker(diags, config).Check(stmts)
	require.False(t, diags.HasErrors(), "type errors: %v", diags.Err())

	gen := NewGenerator(config, true)
	return gen.Generate(stmts), diags
}

func TestGenBuiltins_RangeLowersToRuntimeCall(t *testing.T) {
	out, _ := genProgram(t, "var xs = range(0, 10)\n")
	assert.Contains(t, out, "rt_array_range(__main_arena__, 0, 10)")
}

func TestGenBuiltins_SumLowersToSuffixedCall(t *testing.T) {
	out, _ := genProgram(t, "var xs = range(0, 10)\nvar s = xs.sum()\n")
	assert.Contains(t, out, "rt_array_sum_int(xs)")
}

func TestGenBuiltins_ReverseLowersWithoutReassignment(t *testing.T) {
	out, _ := genProgram(t, "var xs = range(0, 10)\nxs.reverse()\n")
	assert.Contains(t, out, "rt_array_rev_int(xs)")
	assert.NotContains(t, out, "xs = rt_array_rev_int")
}

func TestGenBuiltins_PushReassignsReceiver(t *testing.T) {
	out, _ := genProgram(t, "var xs = range(0, 10)\nxs.push(1)\n")
	assert.Contains(t, out, "(xs = rt_array_push_int(__main_arena__, xs, 1))")
}

func TestGenBuiltins_LenLowersToGenericCall(t *testing.T) {
	out, _ := genProgram(t, "var xs = range(0, 10)\nvar n = xs.len()\n")
	assert.Contains(t, out, "rt_array_len(xs)")
}

func TestGenBuiltins_PrintBuildsFormatStringPerArgType(t *testing.T) {
	out, _ := genProgram(t, "var x = 1\nvar y = 2.5\nprint(x, y)\n")
	assert.Contains(t, out, `printf("%lld %g\n"`)
}

func TestGenBuiltins_PrintString(t *testing.T) {
	out, _ := genProgram(t, "var s = \"hi\"\nprint(s)\n")
	assert.Contains(t, out, `printf("%s\n", rt_string_cstr(s))`)
}

func TestGenBuiltins_JoinThreadsArena(t *testing.T) {
	out, _ := genProgram(t, "var xs = [\"a\", \"b\"]\nvar s = xs.join(\", \")\n")
	assert.Contains(t, out, "rt_array_join_string(__main_arena__, xs,")
}

func TestGenBuiltins_StringSliceUsesHandleVariant(t *testing.T) {
	out, _ := genProgram(t, "var xs = [\"a\", \"b\", \"c\"]\nvar ys = xs[0:2]\n")
	assert.Contains(t, out, "rt_array_slice_string_h(__main_arena__, xs,")
}
