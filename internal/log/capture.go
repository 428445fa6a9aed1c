package log

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/fxamacker/cbor/v2"
)

// captureEncMode is the CBOR encoder mode for capture files.
// Deterministic encoding with nanosecond timestamps.
var captureEncMode cbor.EncMode

// captureDecMode is the CBOR decoder mode for capture files.
var captureDecMode cbor.DecMode

func init() {
	var err error

	encOpts := cbor.EncOptions{
		Sort:          cbor.SortCanonical,
		IndefLength:   cbor.IndefLengthForbidden,
		NilContainers: cbor.NilContainerAsNull,
		Time:          cbor.TimeRFC3339Nano,
	}
	captureEncMode, err = encOpts.EncMode()
	if err != nil {
		panic(fmt.Sprintf("capture CBOR encoder mode: %v", err))
	}

	decOpts := cbor.DecOptions{
		DupMapKey:         cbor.DupMapKeyQuiet,
		IndefLength:       cbor.IndefLengthAllowed,
		ExtraReturnErrors: cbor.ExtraDecErrorNone,
	}
	captureDecMode, err = decOpts.DecMode()
	if err != nil {
		panic(fmt.Sprintf("capture CBOR decoder mode: %v", err))
	}
}

// EncodeEvent encodes an Event to CBOR bytes using integer keys.
func EncodeEvent(event Event) ([]byte, error) {
	return captureEncMode.Marshal(event)
}

// DecodeEvent decodes CBOR bytes into an Event.
func DecodeEvent(data []byte) (Event, error) {
	var event Event
	if err := captureDecMode.Unmarshal(data, &event); err != nil {
		return Event{}, err
	}
	return event, nil
}

// --- CaptureFile: appends events to a CBOR file ---

// CaptureFile writes protocol events to a file in CBOR format, one
// record per event. Safe for concurrent use.
type CaptureFile struct {
	file    *os.File
	encoder *cbor.Encoder
	mu      sync.Mutex
	closed  bool
}

// NewCaptureFile opens a capture file at path, appending if it exists.
func NewCaptureFile(path string) (*CaptureFile, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("open capture file: %w", err)
	}
	return &CaptureFile{
		file:    f,
		encoder: captureEncMode.NewEncoder(f),
	}, nil
}

// Log writes an event to the capture file. Encoding errors are ignored
// so that logging never disrupts the protocol layer.
func (c *CaptureFile) Log(event Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	_ = c.encoder.Encode(event)
}

// Events returns nil. Captured events live on disk; use a Reader.
func (c *CaptureFile) Events() []Event { return nil }

// Close closes the capture file. Safe to call multiple times. After
// Close, subsequent Log calls are silently ignored.
func (c *CaptureFile) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	return c.file.Close()
}

var _ EventLogger = (*CaptureFile)(nil)

// --- Reader: streams events back out of a capture file ---

// Filter specifies criteria for filtering capture events. Zero fields
// match all events for that criterion.
type Filter struct {
	Type     *EventType // filter by event type
	MinLevel *Level     // filter by minimum severity
	Tag      string     // filter by exact wire tag
	After    *time.Time // events at or after this time
	Before   *time.Time // events before this time
}

func (f *Filter) matches(event Event) bool {
	if f.Type != nil && event.Type != *f.Type {
		return false
	}
	if f.MinLevel != nil && event.Level < *f.MinLevel {
		return false
	}
	if f.Tag != "" && event.Tag != f.Tag {
		return false
	}
	if f.After != nil && event.Time.Before(*f.After) {
		return false
	}
	if f.Before != nil && !event.Time.Before(*f.Before) {
		return false
	}
	return true
}

// Reader reads protocol events from a CBOR capture file. It streams, so
// large files never load fully into memory.
type Reader struct {
	file    *os.File
	decoder *cbor.Decoder
	filter  Filter
}

// NewReader creates a Reader over all events in the capture file.
func NewReader(path string) (*Reader, error) {
	return NewFilteredReader(path, Filter{})
}

// NewFilteredReader creates a Reader over events matching the filter.
func NewFilteredReader(path string, filter Filter) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open capture file: %w", err)
	}
	return &Reader{
		file:    f,
		decoder: captureDecMode.NewDecoder(f),
		filter:  filter,
	}, nil
}

// Next returns the next event matching the filter, or io.EOF.
func (r *Reader) Next() (Event, error) {
	for {
		var event Event
		if err := r.decoder.Decode(&event); err != nil {
			if err == io.EOF {
				return Event{}, io.EOF
			}
			return Event{}, err
		}
		if r.filter.matches(event) {
			return event, nil
		}
	}
}

// ReadAll drains the reader and returns every matching event.
func (r *Reader) ReadAll() ([]Event, error) {
	var events []Event
	for {
		event, err := r.Next()
		if err == io.EOF {
			return events, nil
		}
		if err != nil {
			return events, err
		}
		events = append(events, event)
	}
}

// Close closes the underlying file.
func (r *Reader) Close() error {
	return r.file.Close()
}
