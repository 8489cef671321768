package diag

import "github.com/groovy/groovy-eclipse-sub042/internal/source"

// Note is a secondary location attached to a diagnostic.
type Note struct {
	Span source.Span
	Msg  string
}

// Diagnostic is one finding produced by the driver.
type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Span
	Notes    []Note
}

// New builds a diagnostic without notes.
func New(sev Severity, code Code, primary source.Span, msg string) Diagnostic {
	return Diagnostic{Severity: sev, Code: code, Primary: primary, Message: msg}
}

// NewError builds an error diagnostic.
func NewError(code Code, primary source.Span, msg string) Diagnostic {
	return New(SevError, code, primary, msg)
}

// WithNote returns a copy of d with an extra note.
func (d Diagnostic) WithNote(sp source.Span, msg string) Diagnostic {
	d.Notes = append(d.Notes, Note{Span: sp, Msg: msg})
	return d
}
