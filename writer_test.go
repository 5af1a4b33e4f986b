package snc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodeWriter_LineIndentsAndTerminates(t *testing.T) {
	w := newCodeWriter()
	w.Line("int x = 1;")
	w.Indent()
	w.Line("int y = 2;")
	w.Dedent()
	w.Line("int z = 3;")

	assert.Equal(t, "int x = 1;\n    int y = 2;\nint z = 3;\n", w.String())
}

func TestCodeWriter_DedentClampsAtZero(t *testing.T) {
	w := newCodeWriter()
	w.Dedent()
	w.Line("x;")
	assert.Equal(t, "x;\n", w.String())
}

func TestCodeWriter_Raw_NoIndentOrNewline(t *testing.T) {
	w := newCodeWriter()
	w.Indent()
	w.Raw("a")
	w.Raw("b")
	w.Raw("c")
	assert.Equal(t, "abc", w.String())
}

func TestCodeWriter_Block_WrapsAndIndentsBody(t *testing.T) {
	w := newCodeWriter()
	w.Block("if (x)", func() {
		w.Line("y = 1;")
	})
	assert.Equal(t, "if (x) {\n    y = 1;\n}\n", w.String())
}
