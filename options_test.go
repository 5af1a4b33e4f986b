package snc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveArithmeticMode_O2ImpliesUnchecked(t *testing.T) {
	o := &Options{OptLevel: 2}
	assert.False(t, o.ResolveArithmeticMode(0, -1))
}

func TestResolveArithmeticMode_ExplicitCheckedOverridesO2_WhenLater(t *testing.T) {
	o := &Options{OptLevel: 2, CheckedSet: true, Checked: true}
	// --checked appears after -O2 on the command line (higher index).
	assert.True(t, o.ResolveArithmeticMode(0, 1))
}

func TestResolveArithmeticMode_O2AfterCheckedWins(t *testing.T) {
	o := &Options{OptLevel: 2, CheckedSet: true, Checked: true}
	// -O2 appears after --checked: the optimization level's implication wins.
	assert.False(t, o.ResolveArithmeticMode(1, 0))
}

func TestResolveArithmeticMode_DefaultIsChecked(t *testing.T) {
	o := &Options{OptLevel: 1}
	assert.True(t, o.ResolveArithmeticMode(-1, -1))
}

func TestResolveArithmeticMode_ExplicitUncheckedAtO1(t *testing.T) {
	o := &Options{OptLevel: 1, CheckedSet: true, Checked: false}
	assert.False(t, o.ResolveArithmeticMode(-1, 0))
}

func TestExecutableName(t *testing.T) {
	assert.Equal(t, "prog", ExecutableName("/tmp/dir/prog.sn"))
	assert.Equal(t, "prog", ExecutableName("prog.sn"))
}

func TestIntermediateCName(t *testing.T) {
	assert.Equal(t, "prog.c", IntermediateCName("/tmp/dir/prog.sn"))
}

func TestDefaultOptions(t *testing.T) {
	o := DefaultOptions()
	assert.Equal(t, 1, o.OptLevel)
	assert.True(t, o.Checked)
	assert.Equal(t, 1, o.LogLevel)
}
