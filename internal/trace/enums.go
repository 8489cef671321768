package trace

import (
	"fmt"
	"strings"
)

// Level controls how much of the pipeline is traced.
type Level uint8

const (
	LevelOff    Level = iota // nothing
	LevelError               // aborts only
	LevelPhase               // driver and pass spans
	LevelDetail              // plus per-unit spans
	LevelDebug               // plus binding completion, lookups and overloads
)

// Scope is the granularity of an event; smaller is coarser.
type Scope uint8

const (
	ScopeDriver Scope = iota + 1
	ScopePass
	ScopeUnit
	ScopeBinding
)

// Kind distinguishes span boundaries from instant events.
type Kind uint8

const (
	KindSpanBegin Kind = iota + 1
	KindSpanEnd
	KindPoint
)

// StorageMode selects where events go.
type StorageMode uint8

const (
	ModeStream StorageMode = iota + 1 // written as they happen
	ModeRing                          // last N kept in memory
	ModeBoth
)

// Format is the rendering of a single event.
type Format uint8

const (
	FormatAuto   Format = iota // NDJSON for *.ndjson outputs, text otherwise
	FormatText
	FormatNDJSON
)

var (
	levelNames  = []string{"off", "error", "phase", "detail", "debug"}
	scopeNames  = []string{"", "driver", "pass", "unit", "binding"}
	kindNames   = []string{"", "begin", "end", "point"}
	modeNames   = []string{"", "stream", "ring", "both"}
	formatNames = []string{"auto", "text", "ndjson"}
)

func nameOf(names []string, i uint8) string {
	if int(i) < len(names) && names[i] != "" {
		return names[i]
	}
	return "unknown"
}

func (l Level) String() string       { return nameOf(levelNames, uint8(l)) }
func (s Scope) String() string       { return nameOf(scopeNames, uint8(s)) }
func (k Kind) String() string        { return nameOf(kindNames, uint8(k)) }
func (m StorageMode) String() string { return nameOf(modeNames, uint8(m)) }
func (f Format) String() string      { return nameOf(formatNames, uint8(f)) }

// lookup maps s onto an index of names; empty input yields def.
func lookup(what string, names []string, s string, def uint8) (uint8, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return def, nil
	}
	for i, n := range names {
		if n != "" && n == s {
			return uint8(i), nil // #nosec G115 -- tables are tiny
		}
	}
	valid := make([]string, 0, len(names))
	for _, n := range names {
		if n != "" {
			valid = append(valid, n)
		}
	}
	return def, fmt.Errorf("invalid trace %s: %q (expected: %s)", what, s, strings.Join(valid, "|"))
}

// ParseLevel converts a flag value to a Level.
func ParseLevel(s string) (Level, error) {
	v, err := lookup("level", levelNames, s, uint8(LevelOff))
	return Level(v), err
}

// ParseMode converts a flag value to a StorageMode.
func ParseMode(s string) (StorageMode, error) {
	v, err := lookup("mode", modeNames, s, uint8(ModeStream))
	return StorageMode(v), err
}

// ParseFormat converts a flag value to a Format. "json" is accepted for
// NDJSON.
func ParseFormat(s string) (Format, error) {
	if strings.EqualFold(strings.TrimSpace(s), "json") {
		return FormatNDJSON, nil
	}
	v, err := lookup("format", formatNames, s, uint8(FormatAuto))
	return Format(v), err
}

// admits reports whether events of scope pass the level filter. Points
// always pass once tracing is on.
func (l Level) admits(scope Scope, kind Kind) bool {
	switch {
	case l == LevelOff:
		return false
	case kind == KindPoint:
		return true
	case l == LevelError:
		return false
	case l == LevelPhase:
		return scope <= ScopePass
	case l == LevelDetail:
		return scope <= ScopeUnit
	}
	return true
}

// ShouldEmit reports whether spans of scope are recorded at this level.
func (l Level) ShouldEmit(scope Scope) bool { return l.admits(scope, KindSpanBegin) }
