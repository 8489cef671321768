package typesys

import "github.com/groovy/groovy-eclipse-sub042/internal/types"

// Conversion classifies how a value of one type reaches another in an
// invocation context.
type Conversion uint8

const (
	ConvNone Conversion = iota
	ConvIdentity
	ConvWidening
	// ConvUnchecked is a raw type reaching a parameterization of its generic.
	ConvUnchecked
	ConvBoxing
	ConvUnboxing
)

func (c Conversion) String() string {
	switch c {
	case ConvIdentity:
		return "identity"
	case ConvWidening:
		return "widening"
	case ConvUnchecked:
		return "unchecked"
	case ConvBoxing:
		return "boxing"
	case ConvUnboxing:
		return "unboxing"
	default:
		return "none"
	}
}

// OK reports whether the conversion exists.
func (c Conversion) OK() bool { return c != ConvNone }

// Strict applies identity, primitive widening, reference widening and
// unchecked conversion.
func (s *System) Strict(from, to types.TypeID) Conversion {
	if from == types.NoTypeID || to == types.NoTypeID {
		return ConvNone
	}
	if s.Same(from, to) {
		return ConvIdentity
	}
	in := s.in
	if in.IsPrimitive(from) || in.IsPrimitive(to) {
		if in.IsPrimitive(from) && in.IsPrimitive(to) && s.IsWideningPrimitive(from, to) {
			return ConvWidening
		}
		return ConvNone
	}
	if s.IsSubtype(from, to) {
		return ConvWidening
	}
	if in.KindOf(to) == types.KindParameterized {
		proj := s.AsSuper(from, to)
		if proj != types.NoTypeID && in.NeedsUncheckedConversion(proj, to) {
			return ConvUnchecked
		}
	}
	return ConvNone
}

// Loose extends Strict with boxing followed by widening reference and
// unboxing followed by widening primitive.
func (s *System) Loose(from, to types.TypeID) Conversion {
	if c := s.Strict(from, to); c.OK() {
		return c
	}
	in := s.in
	switch {
	case in.IsPrimitive(from) && in.IsReference(to):
		box := s.BoxOf(from)
		if box != types.NoTypeID && s.IsSubtype(box, to) {
			return ConvBoxing
		}
	case in.IsReference(from) && in.IsPrimitive(to):
		p := s.UnboxOf(from)
		if p != types.NoTypeID && (p == to || s.IsWideningPrimitive(p, to)) {
			return ConvUnboxing
		}
	}
	return ConvNone
}
