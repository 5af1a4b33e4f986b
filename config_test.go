package snc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfig_ApplyOptimizationLevel(t *testing.T) {
	tests := []struct {
		level      int
		deadCode   bool
		noops      bool
		strings    bool
		tailCalls  bool
	}{
		{0, false, false, false, false},
		{1, true, true, true, false},
		{2, true, true, true, true},
		{3, true, true, true, true}, // anything above 2 behaves like "full"
	}
	for _, tt := range tests {
		c := NewConfig()
		c.ApplyOptimizationLevel(tt.level)
		assert.Equal(t, tt.deadCode, c.GetBool("optimizer.dead_code"))
		assert.Equal(t, tt.noops, c.GetBool("optimizer.algebraic_noops"))
		assert.Equal(t, tt.strings, c.GetBool("optimizer.string_merge"))
		assert.Equal(t, tt.tailCalls, c.GetBool("optimizer.tail_calls"))
		assert.Equal(t, tt.level, c.GetInt("optimizer.level"))
	}
}

func TestConfig_GetMissingPanics(t *testing.T) {
	c := NewConfig()
	assert.Panics(t, func() { c.GetBool("does.not.exist") })
}

func TestConfig_TypeMismatchPanics(t *testing.T) {
	c := NewConfig()
	c.SetBool("x", true)
	assert.Panics(t, func() { c.GetInt("x") })
}
