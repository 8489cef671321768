package binary

import (
	"archive/zip"
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/groovy/groovy-eclipse-sub042/internal/types"
)

// classWriter emits just enough of the class file format for the reader.
type classWriter struct {
	pool  bytes.Buffer
	count uint16
	utf   map[string]uint16
}

func newClassWriter() *classWriter {
	return &classWriter{count: 1, utf: map[string]uint16{}}
}

func (w *classWriter) u2(b *bytes.Buffer, v uint16) { _ = binary.Write(b, binary.BigEndian, v) }
func (w *classWriter) u4(b *bytes.Buffer, v uint32) { _ = binary.Write(b, binary.BigEndian, v) }

func (w *classWriter) utf8(s string) uint16 {
	if i, ok := w.utf[s]; ok {
		return i
	}
	w.pool.WriteByte(tagUtf8)
	w.u2(&w.pool, uint16(len(s)))
	w.pool.WriteString(s)
	w.utf[s] = w.count
	w.count++
	return w.count - 1
}

func (w *classWriter) class(name string) uint16 {
	n := w.utf8(name)
	w.pool.WriteByte(tagClass)
	w.u2(&w.pool, n)
	w.count++
	return w.count - 1
}

func (w *classWriter) integer(v int32) uint16 {
	w.pool.WriteByte(tagInteger)
	w.u4(&w.pool, uint32(v))
	w.count++
	return w.count - 1
}

func (w *classWriter) double(v float64) uint16 {
	w.pool.WriteByte(tagDouble)
	bits := math.Float64bits(v)
	w.u4(&w.pool, uint32(bits>>32))
	w.u4(&w.pool, uint32(bits))
	w.count += 2
	return w.count - 2
}

type attr struct {
	name string
	body []byte
}

func (w *classWriter) attrs(b *bytes.Buffer, as []attr) {
	w.u2(b, uint16(len(as)))
	for _, a := range as {
		w.u2(b, w.utf8(a.name))
		w.u4(b, uint32(len(a.body)))
		b.Write(a.body)
	}
}

func (w *classWriter) u2s(vs ...uint16) []byte {
	var b bytes.Buffer
	for _, v := range vs {
		w.u2(&b, v)
	}
	return b.Bytes()
}

// sampleClass encodes:
//
//	@Deprecated public class p/Box<T> extends java/lang/Number implements java/lang/Comparable<p/Box<T>> {
//	  public static final int SIZE = 42; static final double RATE = 0.5;
//	  public <U> U map(T... xs) throws java/io/IOException
//	  public static class p/Box$Inner
//	}
func sampleClass(t *testing.T) []byte {
	t.Helper()
	w := newClassWriter()
	this := w.class("p/Box")
	super := w.class("java/lang/Number")
	iface := w.class("java/lang/Comparable")
	ioe := w.class("java/io/IOException")
	inner := w.class("p/Box$Inner")
	forty := w.integer(42)
	half := w.double(0.5)

	var body bytes.Buffer
	w.u2(&body, accPublic|accSuper())
	w.u2(&body, this)
	w.u2(&body, super)
	w.u2(&body, 1)
	w.u2(&body, iface)

	// fields
	w.u2(&body, 2)
	w.u2(&body, accPublic|accStatic|accFinal)
	w.u2(&body, w.utf8("SIZE"))
	w.u2(&body, w.utf8("I"))
	w.attrs(&body, []attr{{"ConstantValue", w.u2s(forty)}})
	w.u2(&body, accStatic|accFinal)
	w.u2(&body, w.utf8("RATE"))
	w.u2(&body, w.utf8("D"))
	w.attrs(&body, []attr{{"ConstantValue", w.u2s(half)}})

	// methods
	w.u2(&body, 1)
	w.u2(&body, accPublic|accVarargs)
	w.u2(&body, w.utf8("map"))
	w.u2(&body, w.utf8("([Ljava/lang/Object;)Ljava/lang/Object;"))
	w.attrs(&body, []attr{
		{"Signature", w.u2s(w.utf8("<U:Ljava/lang/Object;>([TT;)TU;"))},
		{"Exceptions", w.u2s(1, ioe)},
	})

	// class attributes
	deprecatedAnno := w.u2s(1, w.utf8("Ljava/lang/Deprecated;"), 0)
	w.attrs(&body, []attr{
		{"Signature", w.u2s(w.utf8("<T:Ljava/lang/Object;>Ljava/lang/Number;Ljava/lang/Comparable<Lp/Box<TT;>;>;"))},
		{"InnerClasses", w.u2s(1, inner, this, w.utf8("Inner"), accPublic|accStatic)},
		{"RuntimeVisibleAnnotations", deprecatedAnno},
	})

	var out bytes.Buffer
	w.u4(&out, classMagic)
	w.u2(&out, 0)
	w.u2(&out, 61)
	w.u2(&out, w.count)
	out.Write(w.pool.Bytes())
	out.Write(body.Bytes())
	return out.Bytes()
}

func accSuper() uint16 { return 0x0020 }

func TestReadClass(t *testing.T) {
	d, err := ReadClass(sampleClass(t))
	require.NoError(t, err)

	assert.Equal(t, "p/Box", d.Name)
	assert.Equal(t, "java/lang/Number", d.Super)
	assert.Equal(t, []string{"java/lang/Comparable"}, d.Interfaces)
	assert.Equal(t, types.SortClass, d.Sort)
	assert.True(t, d.Modifiers.IsPublic())
	assert.Equal(t, []string{"p/Box$Inner"}, d.MemberTypes)
	assert.Contains(t, d.Signature, "Comparable<Lp/Box<TT;>;>")
	require.Len(t, d.AnnotationsAt(PosDeclaration, 0), 1)
	assert.Equal(t, "java/lang/Deprecated", d.Annotations[0].Type)

	require.Len(t, d.Fields, 2)
	require.NotNil(t, d.Fields[0].Constant)
	assert.Equal(t, int64(42), d.Fields[0].Constant.Go())
	assert.InDelta(t, 0.5, d.Fields[1].Constant.Go(), 1e-9)
	assert.True(t, d.Fields[1].Modifiers.IsPackagePrivate())

	require.Len(t, d.Methods, 1)
	m := d.Methods[0]
	assert.True(t, m.Modifiers.IsVarargs())
	assert.Equal(t, []string{"java/io/IOException"}, m.Exceptions)
	assert.Equal(t, "<U:Ljava/lang/Object;>([TT;)TU;", m.Signature)
}

func TestReadClassRejectsGarbage(t *testing.T) {
	_, err := ReadClass([]byte{0xCA, 0xFE})
	assert.True(t, errors.Is(err, ErrMalformed))

	data := sampleClass(t)
	_, err = ReadClass(data[:len(data)-5])
	assert.True(t, errors.Is(err, ErrMalformed))
}

func TestModifiedUTF8(t *testing.T) {
	// NUL as C0 80 and U+1F600 as a surrogate pair
	in := []byte{'a', 0xC0, 0x80, 0xED, 0xA0, 0xBD, 0xED, 0xB8, 0x80}
	assert.Equal(t, "a\x00\U0001F600", decodeModifiedUTF8(in))
}

func TestPathProviderDirectoryAndJar(t *testing.T) {
	data := sampleClass(t)

	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "p"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "p", "Box.class"), data, 0o600))

	jarPath := filepath.Join(t.TempDir(), "lib.jar")
	f, err := os.Create(jarPath)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	entry, err := zw.Create("p/Box.class")
	require.NoError(t, err)
	_, err = entry.Write(data)
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	for _, root := range []string{dir, jarPath} {
		p, err := NewPathProvider([]string{filepath.Join(dir, "absent"), root})
		require.NoError(t, err)
		d, err := p.Find("p/Box")
		require.NoError(t, err, root)
		assert.Equal(t, root, d.Origin)
		names, err := p.Names()
		require.NoError(t, err)
		assert.Equal(t, []string{"p/Box"}, names)
		_, err = p.Find("p/Nope")
		assert.True(t, IsNotFound(err))
		require.NoError(t, p.Close())
	}
}

type brokenProvider struct{}

func (brokenProvider) Find(string) (*Descriptor, error) { return nil, errors.New("disk on fire") }

func TestChainProvider(t *testing.T) {
	extra := NewMemoryProvider(NewClass("com/acme/Widget").Build())
	chain := ChainProvider{extra, CoreLibrary()}

	d, err := chain.Find("java/lang/String")
	require.NoError(t, err)
	assert.Equal(t, "core", d.Origin)

	d, err = chain.Find("com/acme/Widget")
	require.NoError(t, err)
	assert.Equal(t, "java/lang/Object", d.Super)

	_, err = chain.Find("com/acme/Gadget")
	assert.True(t, IsNotFound(err))

	_, err = ChainProvider{brokenProvider{}, CoreLibrary()}.Find("java/lang/String")
	require.Error(t, err)
	assert.False(t, IsNotFound(err))
}

func TestCoreLibraryShape(t *testing.T) {
	core := CoreLibrary()
	obj, err := core.Find("java/lang/Object")
	require.NoError(t, err)
	assert.Empty(t, obj.Super)

	entry, err := core.Find("java/util/Map$Entry")
	require.NoError(t, err)
	assert.Equal(t, "java/util/Map", entry.Enclosing)
	assert.Equal(t, "Entry", entry.SimpleName())
	assert.Equal(t, "java.util.Map.Entry", entry.QualifiedName())

	policy, err := core.Find("java/lang/annotation/RetentionPolicy")
	require.NoError(t, err)
	assert.Equal(t, "java/lang/Enum", policy.Super)
	assert.Equal(t, types.SortEnum, policy.Sort)

	integer, err := core.Find("java/lang/Integer")
	require.NoError(t, err)
	assert.Equal(t, "java/lang/Number", integer.Super)
}
