package env

import (
	"strings"

	"github.com/groovy/groovy-eclipse-sub042/internal/types"
)

// Known names a type the resolver refers to directly.
type Known uint8

const (
	KnownObject Known = iota
	KnownString
	KnownClass
	KnownCloneable
	KnownSerializable
	KnownThrowable
	KnownException
	KnownRuntimeException
	KnownError
	KnownEnum
	KnownRecord
	KnownIterable
	KnownAnnotation
	KnownRepeatable
	KnownRetention
	KnownTarget
	KnownDocumented
	KnownInherited
	knownCount
)

var knownNames = [knownCount]string{
	KnownObject:           "java/lang/Object",
	KnownString:           "java/lang/String",
	KnownClass:            "java/lang/Class",
	KnownCloneable:        "java/lang/Cloneable",
	KnownSerializable:     "java/io/Serializable",
	KnownThrowable:        "java/lang/Throwable",
	KnownException:        "java/lang/Exception",
	KnownRuntimeException: "java/lang/RuntimeException",
	KnownError:            "java/lang/Error",
	KnownEnum:             "java/lang/Enum",
	KnownRecord:           "java/lang/Record",
	KnownIterable:         "java/lang/Iterable",
	KnownAnnotation:       "java/lang/annotation/Annotation",
	KnownRepeatable:       "java/lang/annotation/Repeatable",
	KnownRetention:        "java/lang/annotation/Retention",
	KnownTarget:           "java/lang/annotation/Target",
	KnownDocumented:       "java/lang/annotation/Documented",
	KnownInherited:        "java/lang/annotation/Inherited",
}

// Known returns a well-known type, a missing type when the class path
// lacks it.
func (e *Environment) Known(k Known) types.TypeID {
	if id := e.known[k]; id != types.NoTypeID {
		return id
	}
	id := e.LookupType(knownNames[k])
	if id == types.NoTypeID {
		id = e.MissingType(knownNames[k])
	}
	e.known[k] = id
	return id
}

// KnownName returns the dotted name of a well-known type.
func KnownName(k Known) string {
	return strings.ReplaceAll(knownNames[k], "/", ".")
}

var boxNames = map[types.BaseKind]string{
	types.BaseBoolean: "java/lang/Boolean",
	types.BaseByte:    "java/lang/Byte",
	types.BaseChar:    "java/lang/Character",
	types.BaseShort:   "java/lang/Short",
	types.BaseInt:     "java/lang/Integer",
	types.BaseLong:    "java/lang/Long",
	types.BaseFloat:   "java/lang/Float",
	types.BaseDouble:  "java/lang/Double",
	types.BaseVoid:    "java/lang/Void",
}

// Box returns the wrapper class of a primitive, NoTypeID for references.
func (e *Environment) Box(prim types.TypeID) types.TypeID {
	name, ok := boxNames[e.in.BaseKindOf(prim)]
	if !ok {
		return types.NoTypeID
	}
	if id := e.LookupType(name); id != types.NoTypeID {
		return id
	}
	return e.MissingType(name)
}

// Unbox returns the primitive behind a wrapper class, NoTypeID otherwise.
// Void is not unboxed.
func (e *Environment) Unbox(t types.TypeID) types.TypeID {
	if !e.in.IsClassLike(e.in.GenericOf(t)) {
		return types.NoTypeID
	}
	name := e.in.BinaryNameOf(t)
	for kind, box := range boxNames {
		if box == name && kind != types.BaseVoid {
			return e.in.Base(kind)
		}
	}
	return types.NoTypeID
}

// ArrayLength returns the length field shared by all array types.
func (e *Environment) ArrayLength() types.FieldID {
	if e.arrayLength == types.NoFieldID {
		e.arrayLength = e.in.NewResolvedField(types.FieldInfo{
			Name:      "length",
			Modifiers: types.ModPublic | types.ModFinal,
			Type:      e.in.Builtins().Int,
		})
	}
	return e.arrayLength
}

// ArrayClone returns the clone() method of an array type; it returns the
// array type itself and throws nothing.
func (e *Environment) ArrayClone(array types.TypeID) types.MethodID {
	if m, ok := e.arrayClone[array]; ok {
		return m
	}
	m := e.in.NewResolvedMethod(types.MethodInfo{
		Selector:  "clone",
		Declaring: array,
		Modifiers: types.ModPublic,
		Return:    array,
	})
	e.arrayClone[array] = m
	return m
}

// ArraySupertypes are the interfaces every array implements.
func (e *Environment) ArraySupertypes() []types.TypeID {
	return []types.TypeID{e.Known(KnownCloneable), e.Known(KnownSerializable)}
}
