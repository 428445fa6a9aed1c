package log

import "time"

// Level classifies the severity of a protocol event.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// EventType enumerates the observable events of the protocol layer.
type EventType int

const (
	EventParse EventType = iota
	EventParseError
	EventSerialize
	EventDispatch
	EventDispatchMiss
	EventScopeReject
	EventBuild
)

func (e EventType) String() string {
	switch e {
	case EventParse:
		return "Parse"
	case EventParseError:
		return "ParseError"
	case EventSerialize:
		return "Serialize"
	case EventDispatch:
		return "Dispatch"
	case EventDispatchMiss:
		return "DispatchMiss"
	case EventScopeReject:
		return "ScopeReject"
	case EventBuild:
		return "Build"
	default:
		return "Unknown"
	}
}

// Event is a single observable event in the protocol layer. CBOR
// encoding uses integer keys to keep capture files compact.
type Event struct {
	Seq    int       `cbor:"1,keyasint"`           // monotonic sequence number, assigned by the logger
	Time   time.Time `cbor:"2,keyasint"`           // when the event occurred
	Level  Level     `cbor:"3,keyasint"`           // severity
	Type   EventType `cbor:"4,keyasint"`           // event type
	Tag    string    `cbor:"5,keyasint,omitempty"` // wire tag this event concerns, if any
	Detail string    `cbor:"6,keyasint,omitempty"` // human-readable detail line
	Raw    string    `cbor:"7,keyasint,omitempty"` // offending payload, parse failures only
}
