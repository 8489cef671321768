package sig

import (
	"errors"
	"testing"
)

func TestParseClassSignature(t *testing.T) {
	c, err := ParseClass("<K:Ljava/lang/Object;V::Ljava/lang/Comparable<TV;>;>Ljava/util/AbstractMap<TK;TV;>;Ljava/util/Map<TK;TV;>;Ljava/io/Serializable;")
	if err != nil {
		t.Fatalf("ParseClass: %v", err)
	}
	if len(c.TypeParams) != 2 || c.TypeParams[0].Name != "K" || c.TypeParams[1].Name != "V" {
		t.Fatalf("type params = %+v", c.TypeParams)
	}
	if c.TypeParams[1].ClassBound != nil || len(c.TypeParams[1].InterfaceBounds) != 1 {
		t.Fatalf("V must have only an interface bound")
	}
	if got := c.Super.BinaryName(); got != "java/util/AbstractMap" {
		t.Fatalf("super = %q", got)
	}
	if len(c.Interfaces) != 2 || c.Interfaces[1].BinaryName() != "java/io/Serializable" {
		t.Fatalf("interfaces = %v", c.Interfaces)
	}
}

func TestParseMethodSignature(t *testing.T) {
	m, err := ParseMethod("<T:Ljava/lang/Object;>([TT;Ljava/util/List<+TT;>;I)Ljava/util/Map<TT;*>.Entry<-Ljava/lang/String;>;^Ljava/io/IOException;^TE;")
	if err != nil {
		t.Fatalf("ParseMethod: %v", err)
	}
	if len(m.Params) != 3 {
		t.Fatalf("params = %d", len(m.Params))
	}
	if dims, elem := m.Params[0].Dims(); dims != 1 || elem.Kind != KindTypeVar || elem.Var != "T" {
		t.Fatalf("first param = %s", m.Params[0])
	}
	if a := m.Params[1].Segments[0].Args[0]; a.Wild != '+' || a.Type.Var != "T" {
		t.Fatalf("wildcard arg = %+v", a)
	}
	if got := m.Return.BinaryName(); got != "java/util/Map$Entry" {
		t.Fatalf("return binary name = %q", got)
	}
	if len(m.Throws) != 2 || m.Throws[1].Kind != KindTypeVar {
		t.Fatalf("throws = %v", m.Throws)
	}
}

func TestDescriptorsRoundTrip(t *testing.T) {
	for _, s := range []string{
		"I",
		"[[Ljava/lang/String;",
		"Ljava/util/List<Ljava/lang/String;>;",
		"Ljava/util/Map<TK;*>.Entry<+[I>;",
	} {
		typ, err := ParseType(s)
		if err != nil {
			t.Fatalf("ParseType(%q): %v", s, err)
		}
		if typ.String() != s {
			t.Errorf("round trip %q -> %q", s, typ.String())
		}
	}
	m, err := ParseMethod("(ILjava/lang/String;)V")
	if err != nil || m.Return.Base != 'V' || len(m.Params) != 2 {
		t.Fatalf("descriptor parse failed: %v %+v", err, m)
	}
}

func TestMalformedInput(t *testing.T) {
	for _, s := range []string{"", "L", "Ljava/lang/String", "Q", "[", "Ljava/util/List<TT;"} {
		_, err := ParseType(s)
		var se *SyntaxError
		if !errors.As(err, &se) {
			t.Errorf("ParseType(%q) err = %v, want SyntaxError", s, err)
		}
	}
	if _, err := ParseMethod("(I"); err == nil {
		t.Fatalf("unterminated parameter list must fail")
	}
}
