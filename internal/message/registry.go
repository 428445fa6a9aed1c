package message

import (
	"errors"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/peterkuimelis/terranova/internal/game"
	"github.com/peterkuimelis/terranova/internal/log"
	"github.com/peterkuimelis/terranova/internal/metrics"
	"github.com/peterkuimelis/terranova/internal/wire"
)

// Typed is one decoded protocol message.
type Typed interface {
	Tag() string
	ToElement() *wire.Element
}

// Constructor builds a typed message from its wire element, resolving
// references against g when one is supplied. A nil g is the bootstrap
// mode used before any game exists.
type Constructor func(g *game.Game, el *wire.Element) (Typed, error)

// Registry maps derived type names to constructors. A fixed literal,
// so an unrecognized tag is an explicit map miss rather than a
// runtime name lookup.
var Registry = map[string]Constructor{
	"ChatMessage":       newChatFromWire,
	"MoveMessage":       newMoveFromWire,
	"ErrorMessage":      newErrorFromWire,
	"DisconnectMessage": newDisconnectFromWire,
	"LoginMessage":      newLoginFromWire,
	"LogoutMessage":     newLogoutFromWire,
	"UpdateMessage":     newUpdateFromWire,
	"RemoveMessage":     newRemoveFromWire,
	"MultipleMessage":   newMultipleFromWire,
}

// TypeName derives the registry key for a wire tag: first rune
// upper-cased, "Message" appended.
func TypeName(tag string) string {
	if tag == "" {
		return "Message"
	}
	r, size := utf8.DecodeRuneInString(tag)
	return string(unicode.ToUpper(r)) + tag[size:] + "Message"
}

// Dispatcher resolves inbound wire trees to typed messages and keeps
// the dispatch bookkeeping for one session. The zero value works: no
// game context, no logging, no metrics.
type Dispatcher struct {
	game    *game.Game
	logger  log.EventLogger
	metrics *metrics.Metrics
}

// NewDispatcher builds a dispatcher for g. A nil logger discards
// events, nil metrics record nothing.
func NewDispatcher(g *game.Game, logger log.EventLogger, m *metrics.Metrics) *Dispatcher {
	if logger == nil {
		logger = log.DiscardLogger{}
	}
	return &Dispatcher{game: g, logger: logger, metrics: m}
}

// Game returns the dispatcher's game context, which may be nil before
// login completes.
func (d *Dispatcher) Game() *game.Game { return d.game }

// SetGame installs the game context, normally once login has built it.
func (d *Dispatcher) SetGame(g *game.Game) { d.game = g }

func (d *Dispatcher) log(event log.Event) {
	if d.logger != nil {
		d.logger.Log(event)
	}
}

// CreateMessage resolves el's tag through the registry and invokes
// the constructor. A nil element yields nil. An unknown tag or a
// failed construction is a recoverable miss: logged, counted, and the
// message dropped. Unknown tags arrive from peers speaking newer
// protocol revisions.
func (d *Dispatcher) CreateMessage(el *wire.Element) Typed {
	if el == nil {
		return nil
	}
	name := TypeName(el.Tag())
	ctor, ok := Registry[name]
	if !ok {
		d.log(log.NewDispatchMissEvent(el.Tag(), name))
		d.metrics.RecordDispatch(metrics.StatusMiss)
		return nil
	}
	msg, err := ctor(d.game, el)
	if err != nil {
		d.log(log.NewDispatchMissEvent(el.Tag(), name+": "+err.Error()))
		d.metrics.RecordDispatch(metrics.StatusMiss)
		return nil
	}
	d.log(log.NewDispatchEvent(el.Tag(), name))
	d.metrics.RecordDispatch(metrics.StatusOK)
	return msg
}

// Decode reads one message off r and dispatches it. A parse failure
// logs the raw offending input at error severity and returns the
// malformed error; a dispatch miss returns (nil, nil) after being
// recorded.
func (d *Dispatcher) Decode(r io.Reader) (Typed, error) {
	doc, err := wire.Parse(r)
	if err != nil {
		var malformed *wire.MalformedError
		if errors.As(err, &malformed) {
			d.log(log.NewParseErrorEvent(malformed.Raw, err))
		}
		d.metrics.RecordParse(metrics.StatusMalformed, 0)
		return nil, err
	}
	text := wire.Serialize(doc.Root())
	d.log(log.NewParseEvent(doc.Root().Tag(), len(text)))
	d.metrics.RecordParse(metrics.StatusOK, len(text))
	return d.CreateMessage(doc.Root()), nil
}

// DecodeString is Decode over a string.
func (d *Dispatcher) DecodeString(text string) (Typed, error) {
	return d.Decode(strings.NewReader(text))
}

// CreateMessage resolves el against g with no bookkeeping. Callers
// decoding a stream should hold a Dispatcher instead.
func CreateMessage(g *game.Game, el *wire.Element) Typed {
	return NewDispatcher(g, nil, nil).CreateMessage(el)
}

// Encode returns msg's network form, preamble included.
func Encode(msg Typed) string {
	if msg == nil {
		return ""
	}
	return wire.NewDocumentFromElement(msg.ToElement()).String()
}
