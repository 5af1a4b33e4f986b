package snc

// freeFunctionNames and arrayMethodNames enumerate the builtin surface
// spec.md §6's runtime ABI exposes to SN source: `print`/`range` as
// free functions, and the per-element-type array primitives as dot
// methods, plus `sum`/`len` which spec.md §8's scenarios call directly
// without naming them in the ABI list. Shared between typecheck.go
// (so these names resolve without an "unknown identifier" diagnostic)
// and codegen_builtins.go (so calls to them dispatch to the runtime
// rather than being treated as user-defined calls).
var freeFunctionNames = map[string]bool{
	"print": true,
	"range": true,
}

var arrayMethodNames = map[string]bool{
	"push": true, "pop": true, "clone": true, "concat": true,
	"rev": true, "reverse": true, "rem": true, "ins": true, "alloc": true,
	"indexOf": true, "contains": true, "join": true, "sum": true, "len": true,
}

// arrayMethodsThatGrow may reallocate the backing store, so the
// generator must thread the returned handle back into the receiver
// (spec.md §8's "handle transactionality" property: the op either
// keeps the same handle or the old one dies).
var arrayMethodsThatGrow = map[string]bool{"push": true, "ins": true}

// arrayMethodsNeedArena take an arena argument because they allocate a
// new backing store rather than mutating in place.
var arrayMethodsNeedArena = map[string]bool{
	"push": true, "ins": true, "clone": true, "concat": true, "alloc": true, "join": true,
}
