package source

import (
	"fmt"
	"slices"

	"fortio.org/safecast"
	"golang.org/x/text/unicode/norm"
)

// StringID identifies an interned identifier.
type StringID uint32

// NoStringID is the empty identifier.
const NoStringID StringID = 0

// Interner maps identifiers to dense IDs. Identifiers are NFC-normalized
// before interning so that canonically equivalent spellings of a Java
// identifier share one ID.
type Interner struct {
	byID  []string // byID[0] = "" для NoStringID
	index map[string]StringID
}

// NewInterner creates an interner holding only the empty string.
func NewInterner() *Interner {
	return &Interner{
		byID:  []string{""},
		index: map[string]StringID{"": NoStringID},
	}
}

// Intern returns the ID of s, inserting it when new.
func (i *Interner) Intern(s string) StringID {
	if id, ok := i.index[s]; ok {
		return id
	}
	n := norm.NFC.String(s)
	if id, ok := i.index[n]; ok {
		i.index[s] = id
		return id
	}
	raw, err := safecast.Conv[uint32](len(i.byID))
	if err != nil {
		panic(fmt.Errorf("interner overflow: %w", err))
	}
	id := StringID(raw)
	i.byID = append(i.byID, n)
	i.index[n] = id
	if s != n {
		i.index[s] = id
	}
	return id
}

// Lookup returns the string for id.
func (i *Interner) Lookup(id StringID) (string, bool) {
	if int(id) >= len(i.byID) {
		return "", false
	}
	return i.byID[id], true
}

// MustLookup returns the string for id and panics on an unknown ID.
func (i *Interner) MustLookup(id StringID) string {
	s, ok := i.Lookup(id)
	if !ok {
		panic(fmt.Sprintf("invalid string ID %d", id))
	}
	return s
}

// Len returns the number of interned strings including NoStringID.
func (i *Interner) Len() int {
	return len(i.byID)
}

// Snapshot returns a copy of all interned strings.
func (i *Interner) Snapshot() []string {
	return slices.Clone(i.byID)
}
