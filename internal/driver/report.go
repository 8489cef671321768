package driver

import (
	"fmt"

	"github.com/groovy/groovy-eclipse-sub042/internal/diag"
	"github.com/groovy/groovy-eclipse-sub042/internal/env"
	"github.com/groovy/groovy-eclipse-sub042/internal/source"
	"github.com/groovy/groovy-eclipse-sub042/internal/types"
)

var reasonCodes = map[types.ProblemReason]diag.Code{
	types.NotFound:                                  diag.ResNotFound,
	types.Ambiguous:                                 diag.ResAmbiguous,
	types.NotVisible:                                diag.ResNotVisible,
	types.ReceiverTypeNotVisible:                    diag.ResReceiverTypeNotVisible,
	types.InheritedNameHidesEnclosingName:           diag.ResInheritedNameHidesEnclosingName,
	types.NonStaticReferenceInStaticContext:         diag.ResNonStaticReferenceInStaticContext,
	types.NonStaticReferenceInConstructorInvocation: diag.ResNonStaticReferenceInConstructorInvocation,
	types.TypeArgumentArityMismatch:                 diag.ResTypeArgumentArityMismatch,
	types.ParameterizedMethodTypeMismatch:           diag.ResParameterizedMethodTypeMismatch,
	types.VarargsElementTypeNotVisible:              diag.ResVarargsElementTypeNotVisible,
	types.DefectiveContainerAnnotationType:          diag.ResDefectiveContainerAnnotationType,
	types.IllegalSuperType:                          diag.ResHierarchyHasProblems,
}

// CodeFor maps a problem reason to its diagnostic code.
func CodeFor(reason types.ProblemReason) diag.Code {
	if c, ok := reasonCodes[reason]; ok {
		return c
	}
	return diag.ResInfo
}

// reasonMessage phrases a problem on a binding of the given kind ("type",
// "field", "method", "constructor" or "variable").
func reasonMessage(reason types.ProblemReason, kind, name string) string {
	switch reason {
	case types.NotFound:
		switch kind {
		case "type":
			return fmt.Sprintf("%s cannot be resolved to a type", name)
		case "variable", "field":
			return fmt.Sprintf("%s cannot be resolved or is not a field", name)
		default:
			return fmt.Sprintf("the %s %s is undefined", kind, name)
		}
	case types.Ambiguous:
		return fmt.Sprintf("the %s %s is ambiguous", kind, name)
	case types.NotVisible:
		return fmt.Sprintf("the %s %s is not visible", kind, name)
	case types.ReceiverTypeNotVisible:
		return fmt.Sprintf("the receiver type of %s is not visible", name)
	case types.InheritedNameHidesEnclosingName:
		return fmt.Sprintf("the inherited %s %s hides a %s of an enclosing type", kind, name, kind)
	case types.NonStaticReferenceInStaticContext:
		return fmt.Sprintf("cannot make a static reference to the non-static %s %s", kind, name)
	case types.NonStaticReferenceInConstructorInvocation:
		return fmt.Sprintf("cannot refer to the instance %s %s while explicitly invoking a constructor", kind, name)
	case types.TypeArgumentArityMismatch:
		return fmt.Sprintf("incorrect number of type arguments for %s", name)
	case types.ParameterizedMethodTypeMismatch:
		return fmt.Sprintf("the type arguments of %s do not match its type parameters", name)
	case types.VarargsElementTypeNotVisible:
		return fmt.Sprintf("the element type of the variable arity parameter of %s is not visible", name)
	case types.DefectiveContainerAnnotationType:
		return fmt.Sprintf("%s is not a valid container annotation type", name)
	case types.IllegalSuperType:
		return fmt.Sprintf("%s cannot be used as a supertype", name)
	}
	return fmt.Sprintf("%s: %s", name, reason)
}

func (c *checker) typeProblem(typ types.TypeID, sp source.Span) {
	info, ok := c.in.ProblemInfo(typ)
	if !ok {
		return
	}
	c.report(CodeFor(info.Reason), sp, reasonMessage(info.Reason, "type", info.Name))
}

func (c *checker) fieldProblem(f types.FieldID, kind string, sp source.Span) {
	info := c.in.Field(f)
	name := info.Name
	if info.Declaring != types.NoTypeID && info.Problem != types.NotFound {
		name = c.in.String(info.Declaring) + "." + name
	}
	c.report(CodeFor(info.Problem), sp, reasonMessage(info.Problem, kind, name))
}

func (c *checker) methodProblem(m types.MethodID, sp source.Span) {
	info := c.in.Method(m)
	kind := "method"
	if info.Selector == types.ConstructorName {
		kind = "constructor"
	}
	name := c.in.MethodString(m)
	if info.Declaring != types.NoTypeID && kind == "method" {
		name += " in " + c.in.String(info.Declaring)
	}
	c.report(CodeFor(info.Problem), sp, reasonMessage(info.Problem, kind, name))
}

// reportFindings turns the anomalies the environment recorded since the
// last call into diagnostics. Findings on source classes point at the
// declaration.
func (s *Session) reportFindings() {
	in := s.Types()
	all := s.Env.Findings()
	for _, f := range all[s.findings:] {
		sp := s.declSpans[f.Type]
		switch f.Kind {
		case env.FindingHierarchyCycle:
			diag.ReportError(s.reporter, diag.ResHierarchyHasProblems, sp,
				fmt.Sprintf("the hierarchy of %s is cyclic", in.QualifiedName(f.Type))).Emit()
		case env.FindingIllegalSuper:
			diag.ReportError(s.reporter, diag.ResHierarchyHasProblems, sp,
				fmt.Sprintf("%s cannot be a supertype of %s", f.Name, in.QualifiedName(f.Type))).Emit()
		case env.FindingMissingType:
			diag.ReportWarning(s.reporter, diag.ResMissingType, sp,
				fmt.Sprintf("the type %s is referenced but cannot be found", f.Name)).Emit()
		case env.FindingDefectiveContainer:
			// reported where the annotation is declared or repeated
		}
	}
	s.findings = len(all)
}
