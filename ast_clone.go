package snc

// CloneType deep-copies t, breaking self-reference by interning
// struct types by name (spec.md §4.3): a second occurrence of a named
// struct anywhere in the cloned graph reuses the clone already made
// for it, rather than recursing into its fields again. This is the
// sole mechanism the rest of the compiler relies on to avoid infinite
// recursion on cyclic types.
func CloneType(t *Type) *Type {
	return cloneType(t, make(map[string]*Type))
}

func cloneType(t *Type, interned map[string]*Type) *Type {
	if t == nil {
		return nil
	}

	if t.Kind == TyStruct && t.Name != "" {
		if existing, ok := interned[t.Name]; ok {
			return existing
		}
	}

	clone := &Type{
		Kind:        t.Kind,
		Name:        t.Name,
		Size:        t.Size,
		Alignment:   t.Alignment,
		IsNative:    t.IsNative,
		IsRecursive: t.IsRecursive,
		Modifier:    t.Modifier,
		OpaqueName:  t.OpaqueName,
	}

	if t.Kind == TyStruct && t.Name != "" {
		interned[t.Name] = clone
	}

	clone.Elem = cloneType(t.Elem, interned)
	clone.Return = cloneType(t.Return, interned)
	if t.Params != nil {
		clone.Params = make([]*Type, len(t.Params))
		for i, p := range t.Params {
			clone.Params[i] = cloneType(p, interned)
		}
	}
	if t.Fields != nil {
		clone.Fields = make([]Field, len(t.Fields))
		for i, f := range t.Fields {
			clone.Fields[i] = Field{
				Name:    f.Name,
				Type:    cloneType(f.Type, interned),
				Offset:  f.Offset,
				Default: f.Default,
				CAlias:  f.CAlias,
			}
		}
	}
	return clone
}
