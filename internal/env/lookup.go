package env

import (
	"strings"

	"github.com/groovy/groovy-eclipse-sub042/internal/binary"
	"github.com/groovy/groovy-eclipse-sub042/internal/types"
)

const objectName = "java/lang/Object"

// LookupType returns the class registered under a binary name, asking the
// provider for it on first use. Unknown names return NoTypeID; provider
// failures abort.
func (e *Environment) LookupType(binaryName string) types.TypeID {
	if id, ok := e.byName[binaryName]; ok {
		return id
	}
	if binaryName == "" || e.notFound[binaryName] {
		return types.NoTypeID
	}
	e.rec.Lookup("binary")
	desc, err := e.provider.Find(binaryName)
	if err != nil {
		if binary.IsNotFound(err) {
			e.notFound[binaryName] = true
			return types.NoTypeID
		}
		panic(&Abort{Name: binaryName, Err: err})
	}
	enclosing := types.NoTypeID
	if desc.Enclosing != "" {
		enclosing = e.LookupType(desc.Enclosing)
	}
	// the enclosing lookup may have registered us already
	if id, ok := e.byName[binaryName]; ok {
		return id
	}
	id := e.in.RegisterClass(types.ClassInfo{
		Package:    desc.Package(),
		Name:       desc.SimpleName(),
		BinaryName: binaryName,
		Enclosing:  enclosing,
		Sort:       desc.Sort,
		Origin:     types.OriginBinary,
		Modifiers:  desc.Modifiers,
		Decl:       desc,
	})
	e.byName[binaryName] = id
	e.addPackage(desc.Package())
	e.in.SetClassAnnotations(id, convertAnnotations(desc.AnnotationsAt(binary.PosDeclaration, -1)))
	if binaryName == objectName {
		e.in.SetObject(id)
	}
	return id
}

// LookupQualified finds a class by dotted package and nested simple names.
func (e *Environment) LookupQualified(pkg string, names ...string) types.TypeID {
	return e.LookupType(binary.BinaryName(pkg, names...))
}

// DeclareClass registers a source class and makes it findable by name.
func (e *Environment) DeclareClass(info types.ClassInfo) types.TypeID {
	info.Origin = types.OriginSource
	id := e.in.RegisterClass(info)
	e.byName[e.in.BinaryNameOf(id)] = id
	e.addPackage(info.Package)
	return id
}

// MissingType returns the missing binding for a binary name, creating and
// recording it once. Missing types are kept apart from the name table:
// LookupType never returns one, so a later reference to the same name is
// still reported as unresolved.
func (e *Environment) MissingType(binaryName string) types.TypeID {
	if id, ok := e.byName[binaryName]; ok {
		return id
	}
	if id, ok := e.missing[binaryName]; ok {
		return id
	}
	pkg, simple := "", binaryName
	if i := strings.LastIndexByte(binaryName, '/'); i >= 0 {
		pkg, simple = strings.ReplaceAll(binaryName[:i], "/", "."), binaryName[i+1:]
	}
	id := e.in.RegisterMissing(pkg, strings.ReplaceAll(simple, "$", "."), binaryName)
	e.missing[binaryName] = id
	e.record(FindingMissingType, id, binary.SourceName(binaryName))
	return id
}

// classByName resolves a referenced class, degrading to a missing type.
func (e *Environment) classByName(ctx *resolveCtx, binaryName string) types.TypeID {
	if id := e.LookupType(binaryName); id != types.NoTypeID {
		if e.in.KindOf(id) == types.KindMissing {
			ctx.missing = true
		}
		return id
	}
	ctx.missing = true
	return e.MissingType(binaryName)
}

func (e *Environment) addPackage(pkg string) {
	for pkg != "" && !e.packages[pkg] {
		e.packages[pkg] = true
		i := strings.LastIndexByte(pkg, '.')
		if i < 0 {
			return
		}
		pkg = pkg[:i]
	}
}

// IsPackage reports whether a dotted name is a known package: one holding a
// declared or loaded class, a parent of one, or one the provider lists.
func (e *Environment) IsPackage(name string) bool {
	if e.packages[name] {
		return true
	}
	if !e.listed {
		e.listed = true
		if lister, ok := e.provider.(binary.Lister); ok {
			names, err := lister.Names()
			if err != nil {
				panic(&Abort{Name: "<class path>", Err: err})
			}
			for _, n := range names {
				if i := strings.LastIndexByte(n, '/'); i >= 0 {
					e.addPackage(strings.ReplaceAll(n[:i], "/", "."))
				}
			}
		}
		return e.packages[name]
	}
	return false
}
