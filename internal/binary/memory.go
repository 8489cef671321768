package binary

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/groovy/groovy-eclipse-sub042/internal/types"
)

// MemoryProvider serves descriptors from a map. It is safe for concurrent
// use.
type MemoryProvider struct {
	mu    sync.RWMutex
	types map[string]*Descriptor
}

// NewMemoryProvider creates a provider holding descs.
func NewMemoryProvider(descs ...*Descriptor) *MemoryProvider {
	p := &MemoryProvider{types: make(map[string]*Descriptor, len(descs))}
	for _, d := range descs {
		p.Add(d)
	}
	return p
}

// Add registers or replaces a descriptor.
func (p *MemoryProvider) Add(d *Descriptor) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.types[d.Name] = d
}

// Find implements Provider.
func (p *MemoryProvider) Find(name string) (*Descriptor, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	d, ok := p.types[name]
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, ErrNotFound)
	}
	return d, nil
}

// Names implements Lister.
func (p *MemoryProvider) Names() ([]string, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]string, 0, len(p.types))
	for name := range p.types {
		out = append(out, name)
	}
	slices.Sort(out)
	return out, nil
}

// Len returns the number of descriptors.
func (p *MemoryProvider) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.types)
}

// DescriptorBuilder assembles a Descriptor fluently. Names are binary names.
type DescriptorBuilder struct {
	d Descriptor
}

// NewClass starts a public class extending java/lang/Object.
func NewClass(name string) *DescriptorBuilder {
	return &DescriptorBuilder{d: Descriptor{Name: name, Modifiers: types.ModPublic, Super: "java/lang/Object"}}
}

// NewInterface starts a public interface.
func NewInterface(name string) *DescriptorBuilder {
	return &DescriptorBuilder{d: Descriptor{
		Name:      name,
		Modifiers: types.ModPublic | types.ModInterface | types.ModAbstract,
		Sort:      types.SortInterface,
		Super:     "java/lang/Object",
	}}
}

// NewAnnotationType starts a public annotation type.
func NewAnnotationType(name string) *DescriptorBuilder {
	b := NewInterface(name)
	b.d.Modifiers |= types.ModAnnotation
	b.d.Sort = types.SortAnnotation
	b.d.Interfaces = []string{"java/lang/annotation/Annotation"}
	return b
}

// Mods replaces the modifiers, keeping the sort-implied bits.
func (b *DescriptorBuilder) Mods(m types.Modifiers) *DescriptorBuilder {
	keep := b.d.Modifiers & (types.ModInterface | types.ModAnnotation | types.ModEnum | types.ModRecord)
	b.d.Modifiers = m | keep
	if b.d.Sort == types.SortInterface || b.d.Sort == types.SortAnnotation {
		b.d.Modifiers |= types.ModAbstract
	}
	return b
}

// Enum marks the class as an enum.
func (b *DescriptorBuilder) Enum() *DescriptorBuilder {
	b.d.Sort = types.SortEnum
	b.d.Modifiers |= types.ModEnum | types.ModFinal
	return b
}

// Super sets the superclass ("" for none).
func (b *DescriptorBuilder) Super(name string) *DescriptorBuilder {
	b.d.Super = name
	return b
}

// Implements sets the direct super-interfaces.
func (b *DescriptorBuilder) Implements(names ...string) *DescriptorBuilder {
	b.d.Interfaces = append(b.d.Interfaces, names...)
	return b
}

// Signature sets the generic class signature.
func (b *DescriptorBuilder) Signature(s string) *DescriptorBuilder {
	b.d.Signature = s
	return b
}

// Member marks the class as a member of enclosing.
func (b *DescriptorBuilder) Member(enclosing string) *DescriptorBuilder {
	b.d.Enclosing = enclosing
	return b
}

// MemberTypes lists member type binary names.
func (b *DescriptorBuilder) MemberTypes(names ...string) *DescriptorBuilder {
	b.d.MemberTypes = append(b.d.MemberTypes, names...)
	return b
}

// Field adds a field. sig may be empty.
func (b *DescriptorBuilder) Field(mods types.Modifiers, name, desc, sig string) *DescriptorBuilder {
	b.d.Fields = append(b.d.Fields, FieldDescriptor{Name: name, Descriptor: desc, Signature: sig, Modifiers: mods})
	return b
}

// Constant adds a static final constant field.
func (b *DescriptorBuilder) Constant(name, desc string, v Value) *DescriptorBuilder {
	b.d.Fields = append(b.d.Fields, FieldDescriptor{
		Name: name, Descriptor: desc,
		Modifiers: types.ModPublic | types.ModStatic | types.ModFinal,
		Constant:  &v,
	})
	return b
}

// Method adds a method. sig may be empty; throws are binary names.
func (b *DescriptorBuilder) Method(mods types.Modifiers, name, desc, sig string, throws ...string) *DescriptorBuilder {
	if b.d.Sort == types.SortInterface && mods&(types.ModStatic|types.ModDefault|types.ModPrivate) == 0 {
		mods |= types.ModAbstract | types.ModPublic
	}
	b.d.Methods = append(b.d.Methods, MethodDescriptor{
		Name: name, Descriptor: desc, Signature: sig, Modifiers: mods, Exceptions: throws,
	})
	return b
}

// Ctor adds a public constructor.
func (b *DescriptorBuilder) Ctor(desc, sig string) *DescriptorBuilder {
	return b.Method(types.ModPublic, "<init>", desc, sig)
}

// Annotate adds a declaration annotation.
func (b *DescriptorBuilder) Annotate(a Annotation) *DescriptorBuilder {
	b.d.Annotations = append(b.d.Annotations, a)
	return b
}

// AnnotateLast adds an annotation to the most recently added method.
func (b *DescriptorBuilder) AnnotateLast(a Annotation) *DescriptorBuilder {
	if n := len(b.d.Methods); n > 0 {
		b.d.Methods[n-1].Annotations = append(b.d.Methods[n-1].Annotations, a)
	}
	return b
}

// Origin records where the descriptor came from.
func (b *DescriptorBuilder) Origin(origin string) *DescriptorBuilder {
	b.d.Origin = origin
	return b
}

// Build returns the descriptor.
func (b *DescriptorBuilder) Build() *Descriptor {
	d := b.d
	if d.Name == "java/lang/Object" {
		d.Super = ""
	}
	if d.Sort == types.SortEnum && d.Super == "java/lang/Object" {
		d.Super = "java/lang/Enum"
	}
	if strings.Contains(d.Name[strings.LastIndexByte(d.Name, '/')+1:], "$") && d.Enclosing == "" {
		d.Enclosing = d.Name[:strings.LastIndexByte(d.Name, '$')]
	}
	return &d
}

// ChainProvider asks each provider in order; the first hit wins.
type ChainProvider []Provider

// Find implements Provider.
func (c ChainProvider) Find(name string) (*Descriptor, error) {
	for _, p := range c {
		if p == nil {
			continue
		}
		d, err := p.Find(name)
		if err == nil {
			return d, nil
		}
		if !isNotFound(err) {
			return nil, err
		}
	}
	return nil, fmt.Errorf("%s: %w", name, ErrNotFound)
}

// Names implements Lister over every listable member.
func (c ChainProvider) Names() ([]string, error) {
	seen := make(map[string]struct{})
	var out []string
	for _, p := range c {
		l, ok := p.(Lister)
		if !ok {
			continue
		}
		names, err := l.Names()
		if err != nil {
			return nil, err
		}
		for _, n := range names {
			if _, dup := seen[n]; !dup {
				seen[n] = struct{}{}
				out = append(out, n)
			}
		}
	}
	slices.Sort(out)
	return out, nil
}
