package source

import "fmt"

// Span is a half-open byte range in one file.
type Span struct {
	File  FileID
	Start uint32 // inclusive
	End   uint32 // exclusive
}

// Empty reports whether the span covers no bytes.
func (s Span) Empty() bool {
	return s.Start == s.End
}

func (s Span) String() string {
	return fmt.Sprintf("%d:%d-%d", s.File, s.Start, s.End)
}

// Cover extends s to include other when both are in the same file.
func (s Span) Cover(other Span) Span {
	if s.File != other.File {
		return s
	}
	s.Start = min(s.Start, other.Start)
	s.End = max(s.End, other.End)
	return s
}
