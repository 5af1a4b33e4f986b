package snc

import "fmt"

// TypeKind tags the variant held by a Type value (spec.md §4.2 "Types").
type TypeKind int

const (
	TyInvalid TypeKind = iota
	TyVoid
	TyBool
	TyChar
	TyByte
	TyInt32
	TyUint32
	TyInt // i64
	TyUint
	TyLong
	TyFloat
	TyDouble
	TyString
	TyAny
	TyArray
	TyPointer
	TyNullable
	TyFunction
	TyStruct
	TyOpaque
)

func (k TypeKind) String() string {
	names := [...]string{
		TyInvalid: "invalid", TyVoid: "void", TyBool: "bool", TyChar: "char",
		TyByte: "byte", TyInt32: "int32", TyUint32: "uint32", TyInt: "int",
		TyUint: "uint", TyLong: "long", TyFloat: "float", TyDouble: "double",
		TyString: "string", TyAny: "any", TyArray: "array", TyPointer: "pointer",
		TyNullable: "nullable", TyFunction: "function", TyStruct: "struct",
		TyOpaque: "opaque",
	}
	if int(k) >= 0 && int(k) < len(names) {
		return names[k]
	}
	return fmt.Sprintf("TypeKind(%d)", int(k))
}

// FunctionModifier distinguishes the four flavors of callable, which
// drive arena discipline in the generator (spec.md §4.7.2).
type FunctionModifier int

const (
	ModDefault FunctionModifier = iota
	ModPrivate
	ModShared
	ModNative
)

func (m FunctionModifier) String() string {
	switch m {
	case ModDefault:
		return "default"
	case ModPrivate:
		return "private"
	case ModShared:
		return "shared"
	case ModNative:
		return "native"
	default:
		return "unknown"
	}
}

// Field is one member of a struct type.
type Field struct {
	Name    string
	Type    *Type
	Offset  int
	Default Expr
	CAlias  string
}

// Type is a tagged sum over SN's type system. Primitive instances are
// process-wide singletons created once in this file (spec.md §4.2
// invariant: "primitive types are process-wide singletons, identity
// comparison is sufficient"); composites are heap-allocated per
// occurrence and compared structurally via Equal.
type Type struct {
	Kind TypeKind

	// TyArray / TyPointer / TyNullable
	Elem *Type

	// TyFunction
	Params   []*Type
	Return   *Type
	Modifier FunctionModifier

	// TyStruct
	Name        string
	Fields      []Field
	Size        int
	Alignment   int
	IsNative    bool
	IsRecursive bool

	// TyOpaque
	OpaqueName string
}

var (
	VoidType   = &Type{Kind: TyVoid}
	BoolType   = &Type{Kind: TyBool}
	CharType   = &Type{Kind: TyChar}
	ByteType   = &Type{Kind: TyByte}
	Int32Type  = &Type{Kind: TyInt32}
	Uint32Type = &Type{Kind: TyUint32}
	IntType    = &Type{Kind: TyInt}
	UintType   = &Type{Kind: TyUint}
	LongType   = &Type{Kind: TyLong}
	FloatType  = &Type{Kind: TyFloat}
	DoubleType = &Type{Kind: TyDouble}
	StringType = &Type{Kind: TyString}
	AnyType    = &Type{Kind: TyAny}
)

// primitiveByKeyword maps a type-name keyword token to its singleton
// Type, used by the parser when it sees a type annotation.
var primitiveByKeyword = map[TokenKind]*Type{
	TokTypeInt:    IntType,
	TokTypeLong:   LongType,
	TokTypeDouble: DoubleType,
	TokTypeStr:    StringType,
	TokTypeChar:   CharType,
	TokTypeBool:   BoolType,
	TokTypeVoid:   VoidType,
	TokTypeByte:   ByteType,
	TokTypeInt32:  Int32Type,
	TokTypeUint:   UintType,
	TokTypeUint32: Uint32Type,
	TokTypeFloat:  FloatType,
	TokTypeAny:    AnyType,
}

func NewArrayType(elem *Type) *Type   { return &Type{Kind: TyArray, Elem: elem} }
func NewPointerType(to *Type) *Type   { return &Type{Kind: TyPointer, Elem: to} }
func NewNullableType(inner *Type) *Type { return &Type{Kind: TyNullable, Elem: inner} }

func NewFunctionType(params []*Type, ret *Type, mod FunctionModifier) *Type {
	return &Type{Kind: TyFunction, Params: params, Return: ret, Modifier: mod}
}

func NewOpaqueType(name string) *Type {
	return &Type{Kind: TyOpaque, OpaqueName: name}
}

// NewStructType returns an unlaidout struct type; Size, Alignment and
// IsRecursive are populated exactly once by the layout and cycle
// passes (layout.go, cycles.go), per spec.md §4.2's invariant.
func NewStructType(name string, fields []Field, isNative bool) *Type {
	return &Type{Kind: TyStruct, Name: name, Fields: fields, IsNative: isNative}
}

// IsPrimitive reports whether t is one of the scalar singleton kinds.
func (t *Type) IsPrimitive() bool {
	switch t.Kind {
	case TyVoid, TyBool, TyChar, TyByte, TyInt32, TyUint32, TyInt, TyUint,
		TyLong, TyFloat, TyDouble, TyString, TyAny:
		return true
	default:
		return false
	}
}

// IsNumeric reports whether t supports arithmetic operators.
func (t *Type) IsNumeric() bool {
	switch t.Kind {
	case TyByte, TyInt32, TyUint32, TyInt, TyUint, TyLong, TyFloat, TyDouble:
		return true
	default:
		return false
	}
}

// IsInteger reports whether t is one of the integral kinds, relevant
// to checked/unchecked arithmetic codegen (spec.md §4.6).
func (t *Type) IsInteger() bool {
	switch t.Kind {
	case TyByte, TyInt32, TyUint32, TyInt, TyUint, TyLong:
		return true
	default:
		return false
	}
}

// FieldByName looks up a struct field by name, or returns nil.
func (t *Type) FieldByName(name string) *Field {
	if t.Kind != TyStruct {
		return nil
	}
	for i := range t.Fields {
		if t.Fields[i].Name == name {
			return &t.Fields[i]
		}
	}
	return nil
}

// Equal implements spec.md §4.2's "composite types are structurally
// compared by a dedicated equality function". Primitive Type values
// are singletons, so pointer equality already covers them, but Equal
// handles them too for callers that don't special-case it.
func (t *Type) Equal(other *Type) bool {
	return typeEqual(t, other, make(map[*Type]bool))
}

// typeEqual carries a visited set keyed by the left-hand operand so
// recursive struct types (self-referential through a pointer field)
// terminate instead of looping forever.
func typeEqual(a, b *Type, seen map[*Type]bool) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case TyArray, TyPointer, TyNullable:
		return typeEqual(a.Elem, b.Elem, seen)
	case TyFunction:
		if a.Modifier != b.Modifier || len(a.Params) != len(b.Params) {
			return false
		}
		for i := range a.Params {
			if !typeEqual(a.Params[i], b.Params[i], seen) {
				return false
			}
		}
		return typeEqual(a.Return, b.Return, seen)
	case TyStruct:
		if seen[a] {
			return true
		}
		seen[a] = true
		if a.Name != b.Name || a.IsNative != b.IsNative || len(a.Fields) != len(b.Fields) {
			return false
		}
		for i := range a.Fields {
			if a.Fields[i].Name != b.Fields[i].Name {
				return false
			}
			if !typeEqual(a.Fields[i].Type, b.Fields[i].Type, seen) {
				return false
			}
		}
		return true
	case TyOpaque:
		return a.OpaqueName == b.OpaqueName
	default:
		return true // primitive kinds with matching Kind are equal
	}
}

func (t *Type) String() string {
	switch t.Kind {
	case TyArray:
		return "[" + t.Elem.String() + "]"
	case TyPointer:
		return "*" + t.Elem.String()
	case TyNullable:
		return t.Elem.String() + "?"
	case TyFunction:
		s := "fn("
		for i, p := range t.Params {
			if i > 0 {
				s += ", "
			}
			s += p.String()
		}
		return s + ") -> " + t.Return.String()
	case TyStruct:
		if t.Name != "" {
			return t.Name
		}
		return "struct{...}"
	case TyOpaque:
		return "opaque(" + t.OpaqueName + ")"
	default:
		return t.Kind.String()
	}
}
