package types

import (
	"strconv"
	"strings"
)

// String renders id as Java source text with qualified class names.
func (in *Interner) String(id TypeID) string {
	var sb strings.Builder
	in.writeType(&sb, id, true)
	return sb.String()
}

// ShortString renders id with simple class names.
func (in *Interner) ShortString(id TypeID) string {
	var sb strings.Builder
	in.writeType(&sb, id, false)
	return sb.String()
}

func (in *Interner) className(id TypeID, qualified bool) string {
	if qualified {
		return in.QualifiedName(id)
	}
	if enc := in.Enclosing(in.GenericOf(id)); enc != NoTypeID {
		return in.className(enc, false) + "." + in.SimpleName(id)
	}
	return in.SimpleName(id)
}

func (in *Interner) writeType(sb *strings.Builder, id TypeID, qualified bool) {
	tt, ok := in.Lookup(id)
	if !ok {
		sb.WriteString("<none>")
		return
	}
	for _, a := range in.TypeAnnotations(id) {
		sb.WriteString(a.String())
		sb.WriteByte(' ')
	}
	switch tt.Kind {
	case KindBase:
		sb.WriteString(BaseKind(tt.Payload).String())
	case KindClass, KindMissing:
		sb.WriteString(in.className(id, qualified))
	case KindArray:
		info := in.arrays[tt.Payload]
		in.writeType(sb, info.Leaf, qualified)
		for range info.Dims {
			sb.WriteString("[]")
		}
	case KindParameterized, KindRaw:
		p := in.params[tt.Payload]
		if p.Enclosing != NoTypeID && in.KindOf(p.Enclosing) == KindParameterized {
			in.writeType(sb, p.Enclosing, qualified)
			sb.WriteByte('.')
			sb.WriteString(in.SimpleName(p.Generic))
		} else {
			sb.WriteString(in.className(p.Generic, qualified))
		}
		if tt.Kind == KindRaw || len(p.Args) == 0 {
			return
		}
		sb.WriteByte('<')
		for i, a := range p.Args {
			if i > 0 {
				sb.WriteString(", ")
			}
			in.writeType(sb, a, qualified)
		}
		sb.WriteByte('>')
	case KindTypeVar:
		sb.WriteString(in.typeVars[tt.Payload].Name)
	case KindWildcard:
		w := in.wildcards[tt.Payload]
		sb.WriteByte('?')
		switch w.Kind {
		case WildExtends:
			sb.WriteString(" extends ")
		case WildSuper:
			sb.WriteString(" super ")
		default:
			return
		}
		in.writeType(sb, w.Bound, qualified)
		for _, o := range w.OtherBounds {
			sb.WriteString(" & ")
			in.writeType(sb, o, qualified)
		}
	case KindIntersection:
		for i, m := range in.intersections[tt.Payload].Members {
			if i > 0 {
				sb.WriteString(" & ")
			}
			in.writeType(sb, m, qualified)
		}
	case KindCapture:
		c := in.captures[tt.Payload]
		sb.WriteString("capture#")
		sb.WriteString(strconv.FormatUint(uint64(c.Position), 10))
		sb.WriteString("-of ")
		in.writeType(sb, c.Wildcard, qualified)
	case KindProblem:
		sb.WriteString(in.problems[tt.Payload].Name)
	}
}

// Descriptor returns the erased binary descriptor, e.g. Ljava/util/List;.
func (in *Interner) Descriptor(id TypeID) string {
	var sb strings.Builder
	in.writeDescriptor(&sb, in.Erasure(id))
	return sb.String()
}

func (in *Interner) writeDescriptor(sb *strings.Builder, id TypeID) {
	tt, ok := in.Lookup(id)
	if !ok {
		return
	}
	switch tt.Kind {
	case KindBase:
		sb.WriteByte(BaseKind(tt.Payload).Descriptor())
	case KindArray:
		info := in.arrays[tt.Payload]
		for range info.Dims {
			sb.WriteByte('[')
		}
		in.writeDescriptor(sb, info.Leaf)
	case KindProblem:
		sb.WriteByte('L')
		sb.WriteString(strings.ReplaceAll(in.problems[tt.Payload].Name, ".", "/"))
		sb.WriteByte(';')
	default:
		sb.WriteByte('L')
		sb.WriteString(in.BinaryNameOf(id))
		sb.WriteByte(';')
	}
}

// Signature returns the generic signature of id, e.g.
// Ljava/util/Map<TK;+Ljava/lang/Number;>;. Results are memoized.
func (in *Interner) Signature(id TypeID) string {
	if s, ok := in.keys[id]; ok {
		return s
	}
	var sb strings.Builder
	in.writeSignature(&sb, id)
	s := sb.String()
	in.keys[id] = s
	return s
}

func (in *Interner) writeSignature(sb *strings.Builder, id TypeID) {
	tt, ok := in.Lookup(id)
	if !ok {
		return
	}
	switch tt.Kind {
	case KindBase, KindClass, KindMissing, KindRaw, KindProblem:
		in.writeDescriptor(sb, in.Erasure(id))
	case KindArray:
		info := in.arrays[tt.Payload]
		for range info.Dims {
			sb.WriteByte('[')
		}
		in.writeSignature(sb, info.Leaf)
	case KindParameterized:
		p := in.params[tt.Payload]
		if p.Enclosing != NoTypeID && in.KindOf(p.Enclosing) == KindParameterized {
			outer := in.Signature(p.Enclosing)
			sb.WriteString(outer[:len(outer)-1])
			sb.WriteByte('.')
			sb.WriteString(in.SimpleName(p.Generic))
		} else {
			sb.WriteByte('L')
			sb.WriteString(in.BinaryNameOf(p.Generic))
		}
		if len(p.Args) > 0 {
			sb.WriteByte('<')
			for _, a := range p.Args {
				in.writeSignature(sb, a)
			}
			sb.WriteByte('>')
		}
		sb.WriteByte(';')
	case KindTypeVar:
		sb.WriteByte('T')
		sb.WriteString(in.typeVars[tt.Payload].Name)
		sb.WriteByte(';')
	case KindWildcard:
		w := in.wildcards[tt.Payload]
		switch w.Kind {
		case WildExtends:
			sb.WriteByte('+')
			in.writeSignature(sb, w.Bound)
		case WildSuper:
			sb.WriteByte('-')
			in.writeSignature(sb, w.Bound)
		default:
			sb.WriteByte('*')
		}
	case KindIntersection:
		for i, m := range in.intersections[tt.Payload].Members {
			if i > 0 {
				sb.WriteByte(':')
			}
			in.writeSignature(sb, m)
		}
	case KindCapture:
		c := in.captures[tt.Payload]
		sb.WriteString("!*")
		sb.WriteString(strconv.FormatUint(uint64(c.Position), 10))
		sb.WriteByte(';')
	}
}

// MethodString renders a method as name(param, ...) with simple names.
func (in *Interner) MethodString(id MethodID) string {
	m := in.Method(id)
	var sb strings.Builder
	if m.Selector == ConstructorName {
		sb.WriteString(in.SimpleName(m.Declaring))
	} else {
		sb.WriteString(m.Selector)
	}
	sb.WriteByte('(')
	for i, p := range m.Params {
		if i > 0 {
			sb.WriteString(", ")
		}
		if i == len(m.Params)-1 && m.Modifiers.IsVarargs() && in.KindOf(p) == KindArray {
			in.writeType(&sb, in.ElementType(p), false)
			sb.WriteString("...")
			continue
		}
		in.writeType(&sb, p, false)
	}
	sb.WriteByte(')')
	return sb.String()
}

// MethodDescriptor returns the erased JVM descriptor of a method.
func (in *Interner) MethodDescriptor(id MethodID) string {
	m := in.Method(id)
	var sb strings.Builder
	sb.WriteByte('(')
	for _, p := range m.Params {
		in.writeDescriptor(&sb, in.Erasure(p))
	}
	sb.WriteByte(')')
	if m.Return == NoTypeID {
		sb.WriteByte('V')
	} else {
		in.writeDescriptor(&sb, in.Erasure(m.Return))
	}
	return sb.String()
}
