package types

import "fmt"

// TypeID uniquely identifies a type binding inside the interner.
type TypeID uint32

// NoTypeID marks the absence of a type.
const NoTypeID TypeID = 0

// Kind enumerates the closed set of type binding variants.
type Kind uint8

const (
	KindInvalid Kind = iota
	// KindBase covers primitives, void and the null type.
	KindBase
	// KindClass is a class, interface, enum, record or annotation declaration.
	KindClass
	// KindMissing stands for a referenced type that no producer could supply.
	KindMissing
	KindArray
	KindTypeVar
	KindWildcard
	KindIntersection
	KindParameterized
	KindRaw
	KindCapture
	KindProblem
)

func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindBase:
		return "base"
	case KindClass:
		return "class"
	case KindMissing:
		return "missing"
	case KindArray:
		return "array"
	case KindTypeVar:
		return "typevar"
	case KindWildcard:
		return "wildcard"
	case KindIntersection:
		return "intersection"
	case KindParameterized:
		return "parameterized"
	case KindRaw:
		return "raw"
	case KindCapture:
		return "capture"
	case KindProblem:
		return "problem"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// BaseKind enumerates the base types.
type BaseKind uint8

const (
	BaseInvalid BaseKind = iota
	BaseBoolean
	BaseByte
	BaseChar
	BaseShort
	BaseInt
	BaseLong
	BaseFloat
	BaseDouble
	BaseVoid
	BaseNull
)

var baseNames = [...]string{
	BaseInvalid: "<invalid>",
	BaseBoolean: "boolean",
	BaseByte:    "byte",
	BaseChar:    "char",
	BaseShort:   "short",
	BaseInt:     "int",
	BaseLong:    "long",
	BaseFloat:   "float",
	BaseDouble:  "double",
	BaseVoid:    "void",
	BaseNull:    "null",
}

var baseDescriptors = [...]byte{
	BaseBoolean: 'Z',
	BaseByte:    'B',
	BaseChar:    'C',
	BaseShort:   'S',
	BaseInt:     'I',
	BaseLong:    'J',
	BaseFloat:   'F',
	BaseDouble:  'D',
	BaseVoid:    'V',
	BaseNull:    'N',
}

func (b BaseKind) String() string {
	if int(b) < len(baseNames) {
		return baseNames[b]
	}
	return fmt.Sprintf("BaseKind(%d)", b)
}

// Descriptor returns the one-letter binary descriptor of the base type.
func (b BaseKind) Descriptor() byte {
	if int(b) < len(baseDescriptors) {
		return baseDescriptors[b]
	}
	return 0
}

// IsNumeric reports whether b participates in numeric promotion.
func (b BaseKind) IsNumeric() bool {
	return b >= BaseByte && b <= BaseDouble
}

// BaseKindByName maps a source keyword to its base kind.
func BaseKindByName(name string) (BaseKind, bool) {
	for i, n := range baseNames {
		if i != int(BaseInvalid) && n == name {
			return BaseKind(i), true
		}
	}
	return BaseInvalid, false
}

// Type is the compact arena record for a type binding. Payload indexes the
// side table of Kind. Annotated clones share Kind and Payload with their
// prototype and carry an Overlay slot; Proto is NoTypeID for prototypes.
type Type struct {
	Kind    Kind
	Payload uint32
	Proto   TypeID
	Overlay uint32
}

// ClassSort distinguishes the flavours of a class declaration.
type ClassSort uint8

const (
	SortClass ClassSort = iota
	SortInterface
	SortEnum
	SortAnnotation
	SortRecord
)

func (s ClassSort) String() string {
	switch s {
	case SortInterface:
		return "interface"
	case SortEnum:
		return "enum"
	case SortAnnotation:
		return "@interface"
	case SortRecord:
		return "record"
	default:
		return "class"
	}
}

// Origin records which producer created a class binding.
type Origin uint8

const (
	OriginSource Origin = iota + 1
	OriginBinary
	OriginMissing
	OriginSynthetic
)

func (o Origin) String() string {
	switch o {
	case OriginSource:
		return "source"
	case OriginBinary:
		return "binary"
	case OriginMissing:
		return "missing"
	case OriginSynthetic:
		return "synthetic"
	default:
		return "unknown"
	}
}

// WildcardKind is the bound kind of a wildcard.
type WildcardKind uint8

const (
	WildUnbound WildcardKind = iota
	WildExtends
	WildSuper
)

func (w WildcardKind) String() string {
	switch w {
	case WildExtends:
		return "extends"
	case WildSuper:
		return "super"
	default:
		return "unbound"
	}
}
