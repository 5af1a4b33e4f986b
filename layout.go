package snc

// ComputeLayout assigns Offset, Size and Alignment to a struct type's
// fields and to the struct itself, per spec.md §4.4.1. It is called
// exactly once per struct, from the type checker's declaration pass,
// after every field type it references has already had its own size
// and alignment established (primitives are fixed; nested structs
// must be laid out before any struct that embeds them by value).
func ComputeLayout(t *Type) {
	if t.Kind != TyStruct {
		panic("snc: ComputeLayout called on non-struct type")
	}

	align := 1
	offset := 0
	for i := range t.Fields {
		f := &t.Fields[i]
		fsize := sizeOf(f.Type)
		falign := alignOf(f.Type)
		if falign > align {
			align = falign
		}
		offset = alignUp(offset, falign)
		f.Offset = offset
		offset += fsize
	}

	t.Alignment = align
	t.Size = alignUp(offset, align)
}

func alignUp(n, align int) int {
	if align <= 1 {
		return n
	}
	return (n + align - 1) / align * align
}

// sizeOf and alignOf implement spec.md §4.4.1's fixed primitive table
// plus the rule that every composite is handle/pointer-sized in
// generated C: "Arrays and strings in code-generated form are
// pointers/handles, so they contribute 8/8."
func sizeOf(t *Type) int {
	switch t.Kind {
	case TyVoid:
		return 0
	case TyBool, TyByte, TyChar:
		return 1
	case TyInt32, TyUint32, TyFloat:
		return 4
	case TyStruct:
		return t.Size
	default:
		return 8
	}
}

func alignOf(t *Type) int {
	switch t.Kind {
	case TyVoid:
		return 1
	case TyBool, TyByte, TyChar:
		return 1
	case TyInt32, TyUint32, TyFloat:
		return 4
	case TyStruct:
		if t.Alignment == 0 {
			return 8
		}
		return t.Alignment
	default:
		return 8
	}
}
