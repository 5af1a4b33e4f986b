package snc

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// compileFixture is safe to call from a non-test goroutine: it never
// touches t except via TempDir, and reports failures through its
// return value rather than t.Fatal/require (testing.T's fail methods
// are only safe to call from the goroutine running the test itself).
func compileFixture(t *testing.T, name string) (string, error) {
	t.Helper()
	dir := t.TempDir()
	outC := filepath.Join(dir, name+".c")

	opts := DefaultOptions()
	opts.Source = filepath.Join("testdata", "programs", name+".sn")
	opts.EmitC = true
	opts.Output = outC

	c := NewCompiler(opts, zap.NewNop().Sugar())
	path, err := c.Run()
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func TestDriver_Arrays_EmitsRangeSumReverse(t *testing.T) {
	out, err := compileFixture(t, "arrays_sum_reverse")
	require.NoError(t, err)
	assert.Contains(t, out, "rt_array_range")
	assert.Contains(t, out, "rt_array_sum_int")
	assert.Contains(t, out, "rt_array_rev_int")
	assert.Contains(t, out, "printf(")
}

func TestDriver_StructAndArrayReturnEscape_EmitsSuffixedPromotes(t *testing.T) {
	out, err := compileFixture(t, "struct_and_array_return_escape")
	require.NoError(t, err)
	assert.Contains(t, out, "promote_struct_generic(")
	assert.Contains(t, out, "promote_array_double(")
	assert.Contains(t, out, "promote_array_bool(")
}

func TestDriver_LockEarlyExit_ReleasesMutexOnReturnAndBreak(t *testing.T) {
	out, err := compileFixture(t, "lock_early_exit")
	require.NoError(t, err)
	assert.Contains(t, out, "rt_mutex_lock(m)")
	// guarded()'s two return paths and firstPositive()'s break path each
	// need their own unlock ahead of the jump, plus the normal-completion
	// unlock at the end of each lock body: five rt_mutex_unlock(m) calls
	// in total, not just the one trailing the lock block.
	assert.Equal(t, 5, strings.Count(out, "rt_mutex_unlock(m)"))
}

func TestDriver_StructDefaultsNested_EmitsStructDefs(t *testing.T) {
	out, err := compileFixture(t, "struct_defaults_nested")
	require.NoError(t, err)
	assert.Contains(t, out, "Point")
	assert.Contains(t, out, "Rect")
}

func TestDriver_CircularStruct_FailsCompilationNamingStruct(t *testing.T) {
	_, err := compileFixture(t, "circular_struct_fails")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "N")
}

func TestDriver_CircularStruct_PointerBreaksCycle(t *testing.T) {
	_, err := compileFixture(t, "circular_struct_pointer_breaks")
	require.NoError(t, err)
}

func TestDriver_ClosureLocalShadow_ExcludesLocalFromCaptures(t *testing.T) {
	out, err := compileFixture(t, "closure_local_shadow")
	require.NoError(t, err)
	assert.Contains(t, out, "base;")
	assert.NotContains(t, out, "->x2")
}

func TestDriver_ClosureMutation_EmitsClosureStruct(t *testing.T) {
	out, err := compileFixture(t, "closure_mutation")
	require.NoError(t, err)
	assert.Contains(t, out, "_closure")
}

func TestDriver_EscapeAcrossScopes_EmitsPromoteCall(t *testing.T) {
	out, err := compileFixture(t, "escape_across_scopes")
	require.NoError(t, err)
	assert.Contains(t, out, "promote_string")
}

func TestDriver_PatternMatch_EmitsStatementExpression(t *testing.T) {
	out, err := compileFixture(t, "pattern_match_value")
	require.NoError(t, err)
	assert.Contains(t, out, "({")
}

// TestDriver_ConcurrentCompilation exercises every valid fixture at
// once through independent Compiler instances, bounding concurrency
// with a semaphore the way a build tool fanning out across a package
// graph would; each Compiler instance owns its own Config/Generator,
// so nothing here should require external synchronization.
func TestDriver_ConcurrentCompilation(t *testing.T) {
	fixtures := []string{
		"arrays_sum_reverse",
		"struct_and_array_return_escape",
		"lock_early_exit",
		"struct_defaults_nested",
		"circular_struct_pointer_breaks",
		"closure_mutation",
		"closure_local_shadow",
		"escape_across_scopes",
		"pattern_match_value",
	}

	sem := semaphore.NewWeighted(3)
	g, ctx := errgroup.WithContext(context.Background())
	for _, name := range fixtures {
		name := name
		g.Go(func() error {
			if err := sem.Acquire(ctx, 1); err != nil {
				return err
			}
			defer sem.Release(1)
			_, err := compileFixture(t, name)
			return err
		})
	}
	require.NoError(t, g.Wait())
}
