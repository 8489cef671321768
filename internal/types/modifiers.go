package types

import "strings"

// Modifiers is the modifier set of a class, field or method.
type Modifiers uint32

const (
	ModPublic Modifiers = 1 << iota
	ModPrivate
	ModProtected
	ModStatic
	ModFinal
	ModAbstract
	ModNative
	ModSynchronized
	ModTransient
	ModVolatile
	ModStrictfp
	ModSynthetic
	ModBridge
	ModVarargs
	ModDefault
	ModDeprecated
	ModInterface
	ModAnnotation
	ModEnum
	ModRecord
	ModSealed
)

// AccessMask selects the access modifiers.
const AccessMask = ModPublic | ModPrivate | ModProtected

func (m Modifiers) IsPublic() bool     { return m&ModPublic != 0 }
func (m Modifiers) IsPrivate() bool    { return m&ModPrivate != 0 }
func (m Modifiers) IsProtected() bool  { return m&ModProtected != 0 }
func (m Modifiers) IsStatic() bool     { return m&ModStatic != 0 }
func (m Modifiers) IsFinal() bool      { return m&ModFinal != 0 }
func (m Modifiers) IsAbstract() bool   { return m&ModAbstract != 0 }
func (m Modifiers) IsVarargs() bool    { return m&ModVarargs != 0 }
func (m Modifiers) IsDefault() bool    { return m&ModDefault != 0 }
func (m Modifiers) IsSynthetic() bool  { return m&ModSynthetic != 0 }
func (m Modifiers) IsBridge() bool     { return m&ModBridge != 0 }
func (m Modifiers) IsDeprecated() bool { return m&ModDeprecated != 0 }

// IsPackagePrivate reports default (package) access.
func (m Modifiers) IsPackagePrivate() bool { return m&AccessMask == 0 }

var modifierNames = []struct {
	mod  Modifiers
	name string
}{
	{ModPublic, "public"},
	{ModProtected, "protected"},
	{ModPrivate, "private"},
	{ModAbstract, "abstract"},
	{ModStatic, "static"},
	{ModFinal, "final"},
	{ModSealed, "sealed"},
	{ModDefault, "default"},
	{ModTransient, "transient"},
	{ModVolatile, "volatile"},
	{ModSynchronized, "synchronized"},
	{ModNative, "native"},
	{ModStrictfp, "strictfp"},
}

// String renders the source-level keywords in canonical order.
func (m Modifiers) String() string {
	var parts []string
	for _, mn := range modifierNames {
		if m&mn.mod != 0 {
			parts = append(parts, mn.name)
		}
	}
	return strings.Join(parts, " ")
}

// ModifierByKeyword maps a source keyword to its modifier bit.
func ModifierByKeyword(kw string) (Modifiers, bool) {
	for _, mn := range modifierNames {
		if mn.name == kw {
			return mn.mod, true
		}
	}
	return 0, false
}
