// Package runtime embeds the C support library every snc-compiled
// program links against: arena allocation, the generational handle
// table, the per-element-type array primitives, string helpers, and
// the thread-local/shared-arena concurrency glue (spec.md §4.7, §5).
//
// Mirroring the teacher compiler's own genc.go ("//go:embed c/vm.c"),
// the runtime ships as a single embedded C source file the generator
// writes inline ahead of the emitted program, so a compiled .c file is
// standalone by default.
package runtime

import _ "embed"

//go:embed c/runtime.c
var Source string
