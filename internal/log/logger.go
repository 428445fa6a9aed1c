package log

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

// EventLogger is the interface for logging protocol events.
type EventLogger interface {
	Log(event Event)
	Events() []Event
}

// --- MemoryLogger: stores events in memory for test assertions ---

type MemoryLogger struct {
	mu     sync.Mutex
	events []Event
	seq    int
}

func NewMemoryLogger() *MemoryLogger {
	return &MemoryLogger{}
}

func (l *MemoryLogger) Log(event Event) {
	l.record(event)
}

// record assigns the sequence number and timestamp and returns the
// stored copy so wrappers can format it. Events that already carry a
// sequence number (from a MultiLogger) keep it.
func (l *MemoryLogger) record(event Event) Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	if event.Seq == 0 {
		l.seq++
		event.Seq = l.seq
	}
	if event.Time.IsZero() {
		event.Time = time.Now()
	}
	l.events = append(l.events, event)
	return event
}

func (l *MemoryLogger) Events() []Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Event, len(l.events))
	copy(out, l.events)
	return out
}

// EventsOfType returns all events matching the given type.
func (l *MemoryLogger) EventsOfType(t EventType) []Event {
	var result []Event
	for _, e := range l.Events() {
		if e.Type == t {
			result = append(result, e)
		}
	}
	return result
}

// LastEvent returns the most recent event, or a zero event if none.
func (l *MemoryLogger) LastEvent() Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.events) == 0 {
		return Event{}
	}
	return l.events[len(l.events)-1]
}

// --- TextLogger: writes human-readable lines to an io.Writer ---

type TextLogger struct {
	MemoryLogger
	w io.Writer
}

func NewTextLogger(w io.Writer) *TextLogger {
	return &TextLogger{w: w}
}

func (l *TextLogger) Log(event Event) {
	event = l.MemoryLogger.record(event)
	fmt.Fprintln(l.w, FormatEvent(event))
}

// --- MultiLogger: fans out to multiple loggers ---

// MultiLogger sends events to multiple loggers. Useful when a session
// wants both console output and a capture file. The MultiLogger assigns
// the sequence number so all sinks agree on it.
type MultiLogger struct {
	mu      sync.Mutex
	seq     int
	loggers []EventLogger
}

func NewMultiLogger(loggers ...EventLogger) *MultiLogger {
	return &MultiLogger{loggers: loggers}
}

func (m *MultiLogger) Log(event Event) {
	m.mu.Lock()
	m.seq++
	event.Seq = m.seq
	m.mu.Unlock()
	if event.Time.IsZero() {
		event.Time = time.Now()
	}
	for _, l := range m.loggers {
		l.Log(event)
	}
}

// Events returns the events of the first sink that retains any.
func (m *MultiLogger) Events() []Event {
	for _, l := range m.loggers {
		if events := l.Events(); events != nil {
			return events
		}
	}
	return nil
}

// --- DiscardLogger: drops everything ---

// DiscardLogger is the default for code paths where the caller did not
// supply a logger.
type DiscardLogger struct{}

func (DiscardLogger) Log(Event) {}

func (DiscardLogger) Events() []Event { return nil }

// --- Formatting ---

// FormatEvent formats a single event as a human-readable line.
func FormatEvent(e Event) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "[%04d] %-5s %-12s %s", e.Seq, e.Level, e.Type, e.Detail)
	if e.Raw != "" {
		fmt.Fprintf(&sb, " raw=%q", e.Raw)
	}
	return sb.String()
}

// FormatAll formats all events as a multi-line string.
func FormatAll(events []Event) string {
	var sb strings.Builder
	for _, e := range events {
		sb.WriteString(FormatEvent(e))
		sb.WriteByte('\n')
	}
	return sb.String()
}

// --- Helper constructors for common events ---

func NewParseEvent(tag string, size int) Event {
	return Event{
		Level:  LevelDebug,
		Type:   EventParse,
		Tag:    tag,
		Detail: fmt.Sprintf("parsed <%s> (%d bytes)", tag, size),
	}
}

func NewParseErrorEvent(raw string, err error) Event {
	return Event{
		Level:  LevelError,
		Type:   EventParseError,
		Detail: fmt.Sprintf("parse failed: %v", err),
		Raw:    raw,
	}
}

func NewSerializeEvent(tag string, size int) Event {
	return Event{
		Level:  LevelDebug,
		Type:   EventSerialize,
		Tag:    tag,
		Detail: fmt.Sprintf("serialized <%s> (%d bytes)", tag, size),
	}
}

func NewDispatchEvent(tag, typeName string) Event {
	return Event{
		Level:  LevelDebug,
		Type:   EventDispatch,
		Tag:    tag,
		Detail: fmt.Sprintf("<%s> dispatched to %s", tag, typeName),
	}
}

func NewDispatchMissEvent(tag, typeName string) Event {
	return Event{
		Level:  LevelWarn,
		Type:   EventDispatchMiss,
		Tag:    tag,
		Detail: fmt.Sprintf("no constructor %s for tag <%s>, message dropped", typeName, tag),
	}
}

func NewScopeRejectEvent(tag, scope string) Event {
	return Event{
		Level:  LevelError,
		Type:   EventScopeReject,
		Tag:    tag,
		Detail: fmt.Sprintf("refused to serialize <%s> under %s scope", tag, scope),
	}
}

func NewBuildEvent(tag string, children int) Event {
	return Event{
		Level:  LevelDebug,
		Type:   EventBuild,
		Tag:    tag,
		Detail: fmt.Sprintf("built <%s> with %d children", tag, children),
	}
}
