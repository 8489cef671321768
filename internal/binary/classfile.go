package binary

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/groovy/groovy-eclipse-sub042/internal/types"
)

// ErrMalformed wraps every class file decoding failure.
var ErrMalformed = errors.New("binary: malformed class file")

const classMagic = 0xCAFEBABE

// constant pool tags
const (
	tagUtf8               = 1
	tagInteger            = 3
	tagFloat              = 4
	tagLong               = 5
	tagDouble             = 6
	tagClass              = 7
	tagString             = 8
	tagFieldref           = 9
	tagMethodref          = 10
	tagInterfaceMethodref = 11
	tagNameAndType        = 12
	tagMethodHandle       = 15
	tagMethodType         = 16
	tagDynamic            = 17
	tagInvokeDynamic      = 18
	tagModule             = 19
	tagPackage            = 20
)

// access flags
const (
	accPublic       = 0x0001
	accPrivate      = 0x0002
	accProtected    = 0x0004
	accStatic       = 0x0008
	accFinal        = 0x0010
	accSynchronized = 0x0020
	accVolatile     = 0x0040
	accBridge       = 0x0040
	accTransient    = 0x0080
	accVarargs      = 0x0080
	accNative       = 0x0100
	accInterface    = 0x0200
	accAbstract     = 0x0400
	accStrict       = 0x0800
	accSynthetic    = 0x1000
	accAnnotation   = 0x2000
	accEnum         = 0x4000
)

type cpEntry struct {
	tag  uint8
	a, b uint16
	str  string
	num  uint64
}

type classReader struct {
	buf []byte
	pos int
	err error
	cp  []cpEntry
}

func (r *classReader) fail(format string, args ...any) {
	if r.err == nil {
		r.err = fmt.Errorf("%w: offset %d: %s", ErrMalformed, r.pos, fmt.Sprintf(format, args...))
	}
}

func (r *classReader) need(n int) bool {
	if r.err != nil {
		return false
	}
	if r.pos+n > len(r.buf) {
		r.fail("unexpected end of data")
		return false
	}
	return true
}

func (r *classReader) u1() uint8 {
	if !r.need(1) {
		return 0
	}
	v := r.buf[r.pos]
	r.pos++
	return v
}

func (r *classReader) u2() uint16 {
	if !r.need(2) {
		return 0
	}
	v := binary.BigEndian.Uint16(r.buf[r.pos:])
	r.pos += 2
	return v
}

func (r *classReader) u4() uint32 {
	if !r.need(4) {
		return 0
	}
	v := binary.BigEndian.Uint32(r.buf[r.pos:])
	r.pos += 4
	return v
}

func (r *classReader) bytes(n int) []byte {
	if !r.need(n) {
		return nil
	}
	v := r.buf[r.pos : r.pos+n]
	r.pos += n
	return v
}

func (r *classReader) entry(i uint16, tag uint8) cpEntry {
	if int(i) <= 0 || int(i) >= len(r.cp) || r.cp[i].tag != tag {
		r.fail("constant %d is not of tag %d", i, tag)
		return cpEntry{}
	}
	return r.cp[i]
}

func (r *classReader) utf8(i uint16) string {
	return r.entry(i, tagUtf8).str
}

func (r *classReader) className(i uint16) string {
	if i == 0 {
		return ""
	}
	return r.utf8(r.entry(i, tagClass).a)
}

// ReadClass decodes a class file into a descriptor.
func ReadClass(data []byte) (*Descriptor, error) {
	r := &classReader{buf: data}
	if r.u4() != classMagic {
		r.fail("bad magic")
		return nil, r.err
	}
	r.u2() // minor
	r.u2() // major
	r.readPool()

	access := r.u2()
	d := &Descriptor{}
	d.Name = r.className(r.u2())
	d.Super = r.className(r.u2())
	for n := r.u2(); n > 0 && r.err == nil; n-- {
		d.Interfaces = append(d.Interfaces, r.className(r.u2()))
	}
	d.Modifiers, d.Sort = classModifiers(access)
	for n := r.u2(); n > 0 && r.err == nil; n-- {
		d.Fields = append(d.Fields, r.readField())
	}
	for n := r.u2(); n > 0 && r.err == nil; n-- {
		d.Methods = append(d.Methods, r.readMethod())
	}
	for n := r.u2(); n > 0 && r.err == nil; n-- {
		name := r.utf8(r.u2())
		length := int(r.u4())
		end := r.pos + length
		switch name {
		case "Signature":
			d.Signature = r.utf8(r.u2())
		case "InnerClasses":
			r.readInnerClasses(d)
		case "RuntimeVisibleAnnotations", "RuntimeInvisibleAnnotations":
			d.Annotations = append(d.Annotations, r.readAnnotations(PosDeclaration, 0)...)
		case "Record":
			d.Sort = types.SortRecord
			d.Modifiers |= types.ModRecord
		case "Deprecated":
			d.Modifiers |= types.ModDeprecated
		}
		r.pos = end
	}
	if r.err != nil {
		return nil, r.err
	}
	if d.Name == "" {
		return nil, fmt.Errorf("%w: missing this_class", ErrMalformed)
	}
	return d, nil
}

func (r *classReader) readPool() {
	count := int(r.u2())
	r.cp = make([]cpEntry, count)
	for i := 1; i < count && r.err == nil; i++ {
		e := cpEntry{tag: r.u1()}
		switch e.tag {
		case tagUtf8:
			e.str = decodeModifiedUTF8(r.bytes(int(r.u2())))
		case tagInteger, tagFloat:
			e.num = uint64(r.u4())
		case tagLong, tagDouble:
			hi := uint64(r.u4())
			e.num = hi<<32 | uint64(r.u4())
		case tagClass, tagString, tagMethodType, tagModule, tagPackage:
			e.a = r.u2()
		case tagFieldref, tagMethodref, tagInterfaceMethodref, tagNameAndType, tagDynamic, tagInvokeDynamic:
			e.a, e.b = r.u2(), r.u2()
		case tagMethodHandle:
			r.u1()
			e.a = r.u2()
		default:
			r.fail("unknown constant tag %d", e.tag)
		}
		r.cp[i] = e
		if e.tag == tagLong || e.tag == tagDouble {
			i++ // eight-byte constants take two slots
		}
	}
}

func classModifiers(access uint16) (types.Modifiers, types.ClassSort) {
	var m types.Modifiers
	sort := types.SortClass
	if access&accPublic != 0 {
		m |= types.ModPublic
	}
	if access&accFinal != 0 {
		m |= types.ModFinal
	}
	if access&accAbstract != 0 {
		m |= types.ModAbstract
	}
	if access&accSynthetic != 0 {
		m |= types.ModSynthetic
	}
	switch {
	case access&accAnnotation != 0:
		m |= types.ModAnnotation | types.ModInterface
		sort = types.SortAnnotation
	case access&accInterface != 0:
		m |= types.ModInterface
		sort = types.SortInterface
	case access&accEnum != 0:
		m |= types.ModEnum
		sort = types.SortEnum
	}
	return m, sort
}

func memberModifiers(access uint16, method bool) types.Modifiers {
	var m types.Modifiers
	bits := []struct {
		flag uint16
		mod  types.Modifiers
	}{
		{accPublic, types.ModPublic},
		{accPrivate, types.ModPrivate},
		{accProtected, types.ModProtected},
		{accStatic, types.ModStatic},
		{accFinal, types.ModFinal},
		{accSynthetic, types.ModSynthetic},
	}
	for _, b := range bits {
		if access&b.flag != 0 {
			m |= b.mod
		}
	}
	if method {
		if access&accSynchronized != 0 {
			m |= types.ModSynchronized
		}
		if access&accBridge != 0 {
			m |= types.ModBridge
		}
		if access&accVarargs != 0 {
			m |= types.ModVarargs
		}
		if access&accNative != 0 {
			m |= types.ModNative
		}
		if access&accAbstract != 0 {
			m |= types.ModAbstract
		}
		if access&accStrict != 0 {
			m |= types.ModStrictfp
		}
		return m
	}
	if access&accVolatile != 0 {
		m |= types.ModVolatile
	}
	if access&accTransient != 0 {
		m |= types.ModTransient
	}
	if access&accEnum != 0 {
		m |= types.ModEnum
	}
	return m
}

func (r *classReader) readField() FieldDescriptor {
	access := r.u2()
	f := FieldDescriptor{
		Name:       r.utf8(r.u2()),
		Descriptor: r.utf8(r.u2()),
		Modifiers:  memberModifiers(access, false),
	}
	for n := r.u2(); n > 0 && r.err == nil; n-- {
		name := r.utf8(r.u2())
		end := r.pos + int(r.u4())
		switch name {
		case "Signature":
			f.Signature = r.utf8(r.u2())
		case "ConstantValue":
			v := r.constantValue(r.u2(), f.Descriptor)
			f.Constant = &v
		case "RuntimeVisibleAnnotations", "RuntimeInvisibleAnnotations":
			f.Annotations = append(f.Annotations, r.readAnnotations(PosField, 0)...)
		case "Deprecated":
			f.Modifiers |= types.ModDeprecated
		}
		r.pos = end
	}
	return f
}

func (r *classReader) readMethod() MethodDescriptor {
	access := r.u2()
	m := MethodDescriptor{
		Name:       r.utf8(r.u2()),
		Descriptor: r.utf8(r.u2()),
		Modifiers:  memberModifiers(access, true),
	}
	for n := r.u2(); n > 0 && r.err == nil; n-- {
		name := r.utf8(r.u2())
		end := r.pos + int(r.u4())
		switch name {
		case "Signature":
			m.Signature = r.utf8(r.u2())
		case "Exceptions":
			for k := r.u2(); k > 0 && r.err == nil; k-- {
				m.Exceptions = append(m.Exceptions, r.className(r.u2()))
			}
		case "MethodParameters":
			for k := r.u1(); k > 0 && r.err == nil; k-- {
				idx := r.u2()
				r.u2()
				pname := ""
				if idx != 0 {
					pname = r.utf8(idx)
				}
				m.ParamNames = append(m.ParamNames, pname)
			}
		case "RuntimeVisibleAnnotations", "RuntimeInvisibleAnnotations":
			m.Annotations = append(m.Annotations, r.readAnnotations(PosDeclaration, 0)...)
		case "RuntimeVisibleParameterAnnotations", "RuntimeInvisibleParameterAnnotations":
			count := int(r.u1())
			for p := 0; p < count && r.err == nil; p++ {
				m.Annotations = append(m.Annotations, r.readAnnotations(PosMethodParameter, p)...)
			}
		case "Deprecated":
			m.Modifiers |= types.ModDeprecated
		}
		r.pos = end
	}
	return m
}

func (r *classReader) readInnerClasses(d *Descriptor) {
	for n := r.u2(); n > 0 && r.err == nil; n-- {
		inner := r.className(r.u2())
		outerIdx := r.u2()
		r.u2() // simple name
		access := r.u2()
		if outerIdx == 0 {
			continue
		}
		outer := r.className(outerIdx)
		switch {
		case inner == d.Name:
			d.Enclosing = outer
			mods, _ := classModifiers(access)
			d.Modifiers |= mods & types.ModFinal
			d.Modifiers |= memberModifiers(access, false) & (types.AccessMask | types.ModStatic)
			if access&accPublic == 0 {
				d.Modifiers &^= types.ModPublic
			}
		case outer == d.Name:
			d.MemberTypes = append(d.MemberTypes, inner)
		}
	}
}

func (r *classReader) constantValue(i uint16, desc string) Value {
	if int(i) <= 0 || int(i) >= len(r.cp) {
		r.fail("bad constant index %d", i)
		return Value{}
	}
	e := r.cp[i]
	switch e.tag {
	case tagInteger:
		v := int64(int32(uint32(e.num))) //nolint:gosec // reinterpret the 32-bit pattern
		switch desc {
		case "Z":
			return Value{Kind: ValueBool, Int: v}
		case "C":
			return Value{Kind: ValueChar, Int: v}
		}
		return Value{Kind: ValueInt, Int: v}
	case tagLong:
		return Value{Kind: ValueLong, Int: int64(e.num)} //nolint:gosec // reinterpret the 64-bit pattern
	case tagFloat:
		return Value{Kind: ValueFloat, Float: float64(math.Float32frombits(uint32(e.num)))}
	case tagDouble:
		return Value{Kind: ValueDouble, Float: math.Float64frombits(e.num)}
	case tagString:
		return Value{Kind: ValueString, Str: r.utf8(e.a)}
	}
	r.fail("constant %d has tag %d", i, e.tag)
	return Value{}
}

func (r *classReader) readAnnotations(pos AnnotationPosition, index int) []Annotation {
	n := int(r.u2())
	out := make([]Annotation, 0, n)
	for ; n > 0 && r.err == nil; n-- {
		a := r.readAnnotation()
		a.Position, a.Index = pos, index
		out = append(out, a)
	}
	return out
}

func (r *classReader) readAnnotation() Annotation {
	desc := r.utf8(r.u2())
	a := Annotation{Type: strings.TrimSuffix(strings.TrimPrefix(desc, "L"), ";")}
	for n := r.u2(); n > 0 && r.err == nil; n-- {
		name := r.utf8(r.u2())
		a.Elements = append(a.Elements, Element{Name: name, Value: r.elementValue()})
	}
	return a
}

func (r *classReader) elementValue() Value {
	switch tag := r.u1(); tag {
	case 'B', 'I', 'S':
		return r.constantValue(r.u2(), "I")
	case 'C':
		return r.constantValue(r.u2(), "C")
	case 'Z':
		return r.constantValue(r.u2(), "Z")
	case 'J', 'F', 'D', 's':
		return r.constantValue(r.u2(), "")
	case 'e':
		typ := r.utf8(r.u2())
		return Value{Kind: ValueEnum, Str: typ, Name: r.utf8(r.u2())}
	case 'c':
		return Value{Kind: ValueClass, Str: r.utf8(r.u2())}
	case '@':
		a := r.readAnnotation()
		return Value{Kind: ValueAnnotation, Annot: &a}
	case '[':
		n := int(r.u2())
		v := Value{Kind: ValueArray, List: make([]Value, 0, n)}
		for ; n > 0 && r.err == nil; n-- {
			v.List = append(v.List, r.elementValue())
		}
		return v
	default:
		r.fail("unknown element value tag %q", tag)
		return Value{}
	}
}

// decodeModifiedUTF8 decodes the class file string encoding: NUL is two
// bytes and supplementary characters are surrogate pairs.
func decodeModifiedUTF8(b []byte) string {
	units := make([]uint16, 0, len(b))
	for i := 0; i < len(b); {
		c := b[i]
		switch {
		case c < 0x80:
			units = append(units, uint16(c))
			i++
		case c&0xE0 == 0xC0 && i+1 < len(b):
			units = append(units, uint16(c&0x1F)<<6|uint16(b[i+1]&0x3F))
			i += 2
		case c&0xF0 == 0xE0 && i+2 < len(b):
			units = append(units, uint16(c&0x0F)<<12|uint16(b[i+1]&0x3F)<<6|uint16(b[i+2]&0x3F))
			i += 3
		default:
			units = append(units, utf8.RuneError)
			i++
		}
	}
	return string(utf16.Decode(units))
}
