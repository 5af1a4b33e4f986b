package snc

import "fmt"

// genPromote wraps a handle-valued expression in the runtime call that
// copies it from its originating (about-to-be-destroyed) arena into
// the enclosing scope's arena, per spec.md §4.4.3/§4.7.4's cross-arena
// promotion contract: escape analysis flags *which* values need this;
// codegen just emits the call.
func (g *Generator) genPromote(cExpr string, t *Type) string {
	if t == nil {
		return cExpr
	}
	switch t.Kind {
	case TyString:
		return fmt.Sprintf("promote_string(%s, %s)", g.currentArenaVar, cExpr)
	case TyArray:
		depth := arrayDepth(t)
		leaf := innerElem(t)
		switch {
		case leaf.Kind == TyPointer:
			// a raw pointer leaf isn't an arena-managed handle; nothing to promote
			return cExpr
		case depth == 1 && leaf.Kind == TyStruct:
			return fmt.Sprintf("promote_array_struct(%s, %s, sizeof(%s))", g.currentArenaVar, cExpr, leaf.Name)
		case depth == 2 && leaf.Kind == TyStruct:
			return fmt.Sprintf("promote_array2_struct(%s, %s, sizeof(%s))", g.currentArenaVar, cExpr, leaf.Name)
		case depth == 1:
			return fmt.Sprintf("promote_array_%s(%s, %s)", cTypeSuffix(leaf), g.currentArenaVar, cExpr)
		case depth == 2:
			return fmt.Sprintf("promote_array2_%s(%s, %s)", cTypeSuffix(leaf), g.currentArenaVar, cExpr)
		default:
			return fmt.Sprintf("promote_array_handle_depth(%s, %d, %s)", g.currentArenaVar, depth, cExpr)
		}
	case TyStruct:
		return fmt.Sprintf("promote_struct_generic(%s, %s, sizeof(%s))", g.currentArenaVar, cExpr, t.Name)
	case TyAny:
		return fmt.Sprintf("promote_any(%s, %s)", g.currentArenaVar, cExpr)
	default:
		return cExpr
	}
}

func arrayDepth(t *Type) int {
	depth := 0
	for t != nil && t.Kind == TyArray {
		depth++
		t = t.Elem
	}
	return depth
}

func innerElem(t *Type) *Type {
	for t != nil && t.Kind == TyArray {
		t = t.Elem
	}
	return t
}
