package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrUnknownLevel is returned for compliance strings outside the supported
// range.
var ErrUnknownLevel = errors.New("unknown compliance level")

// Level is a language compliance level stored as its feature release
// number: 4 for "1.4", 8 for "1.8" or "8", 17 for "17".
type Level uint8

const (
	LevelMin    Level = 3
	LevelLatest Level = 21
)

// ParseLevel accepts "1.x" and plain "x" spellings.
func ParseLevel(s string) (Level, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return LevelLatest, nil
	}
	num := strings.TrimPrefix(s, "1.")
	n, err := strconv.Atoi(num)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrUnknownLevel, s)
	}
	if num != s && n > 8 {
		return 0, fmt.Errorf("%w: %q", ErrUnknownLevel, s)
	}
	if n < int(LevelMin) || n > int(LevelLatest) {
		return 0, fmt.Errorf("%w: %q", ErrUnknownLevel, s)
	}
	return Level(n), nil
}

func (l Level) String() string {
	if l <= 8 {
		return fmt.Sprintf("1.%d", l)
	}
	return strconv.Itoa(int(l))
}

// Generics reports whether parameterized types and generic methods exist.
func (l Level) Generics() bool { return l >= 5 }

// Varargs reports variable arity methods.
func (l Level) Varargs() bool { return l >= 5 }

// Autobox reports boxing and unboxing conversions in applicability checks.
func (l Level) Autobox() bool { return l >= 5 }

// Diamond reports inference of constructor type arguments from "<>".
func (l Level) Diamond() bool { return l >= 7 }

// InheritedHidesEnclosing reports the compatibility mode in which a name
// inherited by an inner class that collides with a name of an enclosing
// class is an error.
func (l Level) InheritedHidesEnclosing() bool { return l < 4 }
