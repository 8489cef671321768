package trace

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Attr is one key/value annotation of a span, kept in insertion order.
type Attr struct {
	Key   string `json:"k"`
	Value string `json:"v"`
}

// Event is one record of the trace stream.
type Event struct {
	Time     time.Time
	Seq      uint64
	Kind     Kind
	Scope    Scope
	SpanID   uint64
	ParentID uint64
	Name     string // dotted, e.g. "env.complete_hierarchy"
	Detail   string
	// Elapsed is set on span ends.
	Elapsed time.Duration
	Attrs   []Attr
}

// Attr returns the value stored under key.
func (ev *Event) Attr(key string) (string, bool) {
	for _, a := range ev.Attrs {
		if a.Key == key {
			return a.Value, true
		}
	}
	return "", false
}

// FormatEvent renders ev as one line.
func FormatEvent(ev *Event, format Format) []byte {
	if format == FormatNDJSON {
		return ndjson(ev)
	}
	return text(ev)
}

type wireEvent struct {
	Time      string `json:"time"`
	Seq       uint64 `json:"seq"`
	Kind      string `json:"kind"`
	Scope     string `json:"scope"`
	SpanID    uint64 `json:"span,omitempty"`
	ParentID  uint64 `json:"parent,omitempty"`
	Name      string `json:"name"`
	Detail    string `json:"detail,omitempty"`
	ElapsedUS int64  `json:"elapsed_us,omitempty"`
	Attrs     []Attr `json:"attrs,omitempty"`
}

func ndjson(ev *Event) []byte {
	data, err := json.Marshal(wireEvent{
		Time:      ev.Time.UTC().Format(time.RFC3339Nano),
		Seq:       ev.Seq,
		Kind:      ev.Kind.String(),
		Scope:     ev.Scope.String(),
		SpanID:    ev.SpanID,
		ParentID:  ev.ParentID,
		Name:      ev.Name,
		Detail:    ev.Detail,
		ElapsedUS: ev.Elapsed.Microseconds(),
		Attrs:     ev.Attrs,
	})
	if err != nil {
		return nil
	}
	return append(data, '\n')
}

var kindMarks = [...]string{KindSpanBegin: "->", KindSpanEnd: "<-", KindPoint: " *"}

// text renders "[seq] <scope> -> name (detail) k=v ... [1.2ms]".
func text(ev *Event) []byte {
	var sb strings.Builder
	fmt.Fprintf(&sb, "[%6d] %-7s ", ev.Seq, ev.Scope)
	if int(ev.Kind) < len(kindMarks) {
		sb.WriteString(kindMarks[ev.Kind])
	}
	sb.WriteByte(' ')
	sb.WriteString(ev.Name)
	if ev.Detail != "" {
		fmt.Fprintf(&sb, " (%s)", ev.Detail)
	}
	for _, a := range ev.Attrs {
		fmt.Fprintf(&sb, " %s=%s", a.Key, a.Value)
	}
	if ev.Kind == KindSpanEnd {
		fmt.Fprintf(&sb, " [%s]", ev.Elapsed.Round(time.Microsecond))
	}
	sb.WriteByte('\n')
	return []byte(sb.String())
}
