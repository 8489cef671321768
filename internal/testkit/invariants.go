// Package testkit holds assertions shared by parser and driver tests.
package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"github.com/groovy/groovy-eclipse-sub042/internal/decl"
	"github.com/groovy/groovy-eclipse-sub042/internal/source"
)

// CheckSpanInvariants runs a minimal set of span invariants on a parsed
// unit:
//  1. every import and type declaration span is non-empty, points at sf
//     and lies within its content
//  2. fields, methods, parameters and member types lie within the span of
//     their declaring type
//  3. method bodies lie within their method
func CheckSpanInvariants(u *decl.Unit, sf *source.File) error {
	if u == nil || sf == nil {
		return fmt.Errorf("nil unit or file")
	}
	if u.File != sf.ID {
		return fmt.Errorf("unit points to different file id: got=%d want=%d", u.File, sf.ID)
	}
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	file := source.Span{File: sf.ID, Start: 0, End: lenContent}

	for _, imp := range u.Imports {
		if err := within(imp.Span, file, "import "+imp.Name); err != nil {
			return err
		}
	}
	for _, td := range u.Types {
		if err := checkType(td, file); err != nil {
			return err
		}
	}
	return nil
}

func checkType(td *decl.TypeDecl, outer source.Span) error {
	what := "type " + td.Name
	if err := within(td.Span, outer, what); err != nil {
		return err
	}
	for _, fd := range td.Fields {
		if err := within(fd.Span, td.Span, what+" field "+fd.Name); err != nil {
			return err
		}
	}
	for _, md := range td.Methods {
		name := what + " method " + md.Name
		if err := within(md.Span, td.Span, name); err != nil {
			return err
		}
		for _, p := range md.Params {
			if err := within(p.Span, md.Span, name+" param "+p.Name); err != nil {
				return err
			}
		}
		if md.Body != nil {
			if err := within(md.Body.Span, md.Span, name+" body"); err != nil {
				return err
			}
		}
	}
	for _, mt := range td.Members {
		if err := checkType(mt, td.Span); err != nil {
			return err
		}
	}
	return nil
}

func within(sp, outer source.Span, what string) error {
	if sp.End <= sp.Start {
		return fmt.Errorf("%s: empty span %v", what, sp)
	}
	if sp.File != outer.File {
		return fmt.Errorf("%s: span file mismatch: got=%d want=%d", what, sp.File, outer.File)
	}
	if sp.Start < outer.Start || sp.End > outer.End {
		return fmt.Errorf("%s: span %v is outside %v", what, sp, outer)
	}
	return nil
}
