package sig

import "strings"

type parser struct {
	src string
	pos int
}

func (p *parser) fail(msg string) error {
	return &SyntaxError{Input: p.src, Pos: p.pos, Msg: msg}
}

func (p *parser) eof() bool { return p.pos >= len(p.src) }

func (p *parser) peek() byte {
	if p.eof() {
		return 0
	}
	return p.src[p.pos]
}

func (p *parser) expect(c byte) error {
	if p.peek() != c {
		return p.fail("expected '" + string(c) + "'")
	}
	p.pos++
	return nil
}

// ParseClass parses a class signature attribute.
func ParseClass(s string) (*Class, error) {
	p := &parser{src: s}
	tps, err := p.typeParams()
	if err != nil {
		return nil, err
	}
	c := &Class{TypeParams: tps}
	if c.Super, err = p.classType(); err != nil {
		return nil, err
	}
	for !p.eof() {
		it, err := p.classType()
		if err != nil {
			return nil, err
		}
		c.Interfaces = append(c.Interfaces, it)
	}
	return c, nil
}

// ParseMethod parses a method signature attribute or a plain method
// descriptor.
func ParseMethod(s string) (*Method, error) {
	p := &parser{src: s}
	tps, err := p.typeParams()
	if err != nil {
		return nil, err
	}
	m := &Method{TypeParams: tps}
	if err := p.expect('('); err != nil {
		return nil, err
	}
	for p.peek() != ')' {
		if p.eof() {
			return nil, p.fail("unterminated parameter list")
		}
		t, err := p.typ()
		if err != nil {
			return nil, err
		}
		m.Params = append(m.Params, t)
	}
	p.pos++
	if p.peek() == 'V' {
		p.pos++
		m.Return = &Type{Kind: KindBase, Base: 'V'}
	} else if m.Return, err = p.typ(); err != nil {
		return nil, err
	}
	for p.peek() == '^' {
		p.pos++
		t, err := p.typ()
		if err != nil {
			return nil, err
		}
		m.Throws = append(m.Throws, t)
	}
	if !p.eof() {
		return nil, p.fail("trailing characters")
	}
	return m, nil
}

// ParseType parses a field signature or a field descriptor.
func ParseType(s string) (*Type, error) {
	p := &parser{src: s}
	t, err := p.typ()
	if err != nil {
		return nil, err
	}
	if !p.eof() {
		return nil, p.fail("trailing characters")
	}
	return t, nil
}

func (p *parser) typeParams() ([]TypeParam, error) {
	if p.peek() != '<' {
		return nil, nil
	}
	p.pos++
	var out []TypeParam
	for p.peek() != '>' {
		if p.eof() {
			return nil, p.fail("unterminated type parameters")
		}
		colon := strings.IndexByte(p.src[p.pos:], ':')
		if colon <= 0 {
			return nil, p.fail("missing type parameter name")
		}
		tp := TypeParam{Name: p.src[p.pos : p.pos+colon]}
		p.pos += colon + 1
		// the class bound may be empty: <T::Ljava/lang/Comparable;>
		if c := p.peek(); c != ':' && c != '>' {
			b, err := p.typ()
			if err != nil {
				return nil, err
			}
			tp.ClassBound = b
		}
		for p.peek() == ':' {
			p.pos++
			b, err := p.typ()
			if err != nil {
				return nil, err
			}
			tp.InterfaceBounds = append(tp.InterfaceBounds, b)
		}
		out = append(out, tp)
	}
	p.pos++
	return out, nil
}

func (p *parser) typ() (*Type, error) {
	switch c := p.peek(); c {
	case 'Z', 'B', 'C', 'S', 'I', 'J', 'F', 'D':
		p.pos++
		return &Type{Kind: KindBase, Base: c}, nil
	case 'L':
		return p.classType()
	case 'T':
		p.pos++
		end := strings.IndexByte(p.src[p.pos:], ';')
		if end <= 0 {
			return nil, p.fail("bad type variable")
		}
		t := &Type{Kind: KindTypeVar, Var: p.src[p.pos : p.pos+end]}
		p.pos += end + 1
		return t, nil
	case '[':
		p.pos++
		elem, err := p.typ()
		if err != nil {
			return nil, err
		}
		return &Type{Kind: KindArray, Elem: elem}, nil
	case 0:
		return nil, p.fail("unexpected end")
	default:
		return nil, p.fail("unexpected '" + string(c) + "'")
	}
}

func (p *parser) classType() (*Type, error) {
	if err := p.expect('L'); err != nil {
		return nil, err
	}
	t := &Type{Kind: KindClass}
	for {
		start := p.pos
		for !p.eof() {
			c := p.src[p.pos]
			if c == '<' || c == '.' || c == ';' {
				break
			}
			p.pos++
		}
		if p.pos == start || p.eof() {
			return nil, p.fail("bad class name")
		}
		seg := Segment{Name: p.src[start:p.pos]}
		if p.peek() == '<' {
			args, err := p.typeArgs()
			if err != nil {
				return nil, err
			}
			seg.Args = args
		}
		t.Segments = append(t.Segments, seg)
		switch p.peek() {
		case '.':
			p.pos++
		case ';':
			p.pos++
			return t, nil
		default:
			return nil, p.fail("unterminated class type")
		}
	}
}

func (p *parser) typeArgs() ([]Arg, error) {
	p.pos++
	var out []Arg
	for p.peek() != '>' {
		switch c := p.peek(); c {
		case 0:
			return nil, p.fail("unterminated type arguments")
		case '*':
			p.pos++
			out = append(out, Arg{Wild: '*'})
		case '+', '-':
			p.pos++
			t, err := p.typ()
			if err != nil {
				return nil, err
			}
			out = append(out, Arg{Wild: c, Type: t})
		default:
			t, err := p.typ()
			if err != nil {
				return nil, err
			}
			out = append(out, Arg{Type: t})
		}
	}
	p.pos++
	return out, nil
}
