package diag

import "fmt"

// Code is a compact numeric identifier with a stable string form.
type Code uint16

const (
	UnknownCode Code = 0

	// ввод-вывод
	IOInfo            Code = 1000
	IOLoadFileError   Code = 1001
	IOClassPathError  Code = 1002
	IODescriptorError Code = 1003

	// исходники
	SynInfo          Code = 2000
	SynParseError    Code = 2001
	SynUnsupported   Code = 2002
	SynMissingMember Code = 2003

	// разрешение имён
	ResInfo                                      Code = 4000
	ResNotFound                                  Code = 4001
	ResAmbiguous                                 Code = 4002
	ResNotVisible                                Code = 4003
	ResReceiverTypeNotVisible                    Code = 4004
	ResInheritedNameHidesEnclosingName           Code = 4005
	ResNonStaticReferenceInStaticContext         Code = 4006
	ResNonStaticReferenceInConstructorInvocation Code = 4007
	ResTypeArgumentArityMismatch                 Code = 4008
	ResParameterizedMethodTypeMismatch           Code = 4009
	ResVarargsElementTypeNotVisible              Code = 4010
	ResDefectiveContainerAnnotationType          Code = 4011
	ResHierarchyHasProblems                      Code = 4012
	ResMissingType                               Code = 4013
	ResFatalAbort                                Code = 4099

	ObsInfo    Code = 6000
	ObsTimings Code = 6001
)

var codeDescription = map[Code]string{
	UnknownCode:       "Unknown error",
	IOInfo:            "I/O information",
	IOLoadFileError:   "I/O load file error",
	IOClassPathError:  "Class path entry cannot be opened",
	IODescriptorError: "Binary descriptor cannot be read",
	SynInfo:           "Source information",
	SynParseError:     "Source does not parse",
	SynUnsupported:    "Unsupported source construct",
	SynMissingMember:  "Declaration without a name",

	ResInfo:                                      "Resolution information",
	ResNotFound:                                  "Cannot be resolved",
	ResAmbiguous:                                 "Ambiguous reference",
	ResNotVisible:                                "Not visible",
	ResReceiverTypeNotVisible:                    "Receiver type not visible",
	ResInheritedNameHidesEnclosingName:           "Inherited name hides enclosing name",
	ResNonStaticReferenceInStaticContext:         "Instance reference from a static context",
	ResNonStaticReferenceInConstructorInvocation: "Instance reference inside an explicit constructor call",
	ResTypeArgumentArityMismatch:                 "Wrong number of type arguments",
	ResParameterizedMethodTypeMismatch:           "Type arguments do not match method type parameters",
	ResVarargsElementTypeNotVisible:              "Varargs element type not visible",
	ResDefectiveContainerAnnotationType:          "Defective container annotation type",
	ResHierarchyHasProblems:                      "Type hierarchy has problems",
	ResMissingType:                               "Type references a missing type",
	ResFatalAbort:                                "Compilation unit aborted",

	ObsInfo:    "Observability information",
	ObsTimings: "Pipeline timings",
}

// ID returns the short form, e.g. RES4001.
func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("RES%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("OBS%04d", ic)
	}
	return "E0000"
}

// Title returns the human readable description of the code.
func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
