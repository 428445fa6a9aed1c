package message

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peterkuimelis/terranova/internal/log"
	"github.com/peterkuimelis/terranova/internal/metrics"
	"github.com/peterkuimelis/terranova/internal/wire"
)

func TestTypeName(t *testing.T) {
	assert.Equal(t, "MoveMessage", TypeName("move"))
	assert.Equal(t, "ChatMessage", TypeName("chat"))
	assert.Equal(t, "UnknownFutureMessageMessage", TypeName("unknownFutureMessage"))
	assert.Equal(t, "Message", TypeName(""))
}

// Every registered tag resolves to its own Go type.
func TestCreateMessageKinds(t *testing.T) {
	g, _, _ := newTestSession(t)
	cases := []struct {
		text string
		want Typed
	}{
		{`<chat message="hi"/>`, &ChatMessage{}},
		{`<move unit="unit:1" direction="N"/>`, &MoveMessage{}},
		{`<error message="boom"/>`, &ErrorMessage{}},
		{`<disconnect/>`, &DisconnectMessage{}},
		{`<login username="alice" version="0.1.6"/>`, &LoginMessage{}},
		{`<logout player="player:1"/>`, &LogoutMessage{}},
		{`<update/>`, &UpdateMessage{}},
		{`<remove/>`, &RemoveMessage{}},
		{`<multiple/>`, &MultipleMessage{}},
	}
	for _, c := range cases {
		msg := CreateMessage(g, mustParse(t, c.text))
		require.NotNil(t, msg, "dispatching %s", c.text)
		assert.IsType(t, c.want, msg)
	}
}

func TestCreateMessageNilElement(t *testing.T) {
	assert.Nil(t, CreateMessage(nil, nil))
}

// An unregistered tag is dropped and diagnosed, never an error: the
// peer may simply speak a newer protocol.
func TestCreateMessageUnknownTag(t *testing.T) {
	g, _, _ := newTestSession(t)
	logger := log.NewMemoryLogger()
	d := NewDispatcher(g, logger, nil)

	msg := d.CreateMessage(mustParse(t, `<unknownFutureMessage a="1"/>`))
	assert.Nil(t, msg)

	misses := logger.EventsOfType(log.EventDispatchMiss)
	require.Len(t, misses, 1)
	assert.Equal(t, "unknownFutureMessage", misses[0].Tag)
	assert.Contains(t, misses[0].Detail, "UnknownFutureMessageMessage")
	assert.Equal(t, log.LevelWarn, misses[0].Level)
}

// A registered tag whose constructor rejects the payload is the same
// recoverable miss as an unknown tag.
func TestCreateMessageConstructorFailure(t *testing.T) {
	g, _, _ := newTestSession(t)
	logger := log.NewMemoryLogger()
	d := NewDispatcher(g, logger, nil)

	msg := d.CreateMessage(mustParse(t, `<move unit="unit:1" direction="sideways"/>`))
	assert.Nil(t, msg)

	misses := logger.EventsOfType(log.EventDispatchMiss)
	require.Len(t, misses, 1)
	assert.Contains(t, misses[0].Detail, "bad direction")
}

func TestDecode(t *testing.T) {
	g, _, _ := newTestSession(t)
	logger := log.NewMemoryLogger()
	reg := prometheus.NewRegistry()
	m := metrics.New(metrics.WithRegistry(reg))
	d := NewDispatcher(g, logger, m)

	msg, err := d.DecodeString(`<chat sender="player:1" message="hello"/>`)
	require.NoError(t, err)
	chat, ok := msg.(*ChatMessage)
	require.True(t, ok)
	assert.Equal(t, "hello", chat.Text)
	assert.Equal(t, "alice", chat.Sender.Name)

	require.Len(t, logger.EventsOfType(log.EventParse), 1)
	require.Len(t, logger.EventsOfType(log.EventDispatch), 1)
}

// A malformed stream surfaces the parse error with its raw input, and
// nothing dispatches.
func TestDecodeMalformed(t *testing.T) {
	g, _, _ := newTestSession(t)
	logger := log.NewMemoryLogger()
	d := NewDispatcher(g, logger, nil)

	raw := `<chat message="hello"`
	msg, err := d.DecodeString(raw)
	assert.Nil(t, msg)

	var malformed *wire.MalformedError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, raw, malformed.Raw)

	errs := logger.EventsOfType(log.EventParseError)
	require.Len(t, errs, 1)
	assert.Equal(t, raw, errs[0].Raw, "the offending payload must be recoverable from the log")
	assert.Equal(t, log.LevelError, errs[0].Level)
}

// counterValue digs one labeled counter out of the registry.
func counterValue(t *testing.T, reg *prometheus.Registry, name, label, value string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, family := range families {
		if family.GetName() != name {
			continue
		}
		for _, metric := range family.GetMetric() {
			if label == "" {
				return metric.GetCounter().GetValue()
			}
			for _, pair := range metric.GetLabel() {
				if pair.GetName() == label && pair.GetValue() == value {
					return metric.GetCounter().GetValue()
				}
			}
		}
	}
	return 0
}

func TestDispatchMetrics(t *testing.T) {
	g, _, _ := newTestSession(t)
	reg := prometheus.NewRegistry()
	m := metrics.New(metrics.WithRegistry(reg))
	d := NewDispatcher(g, nil, m)

	_, err := d.DecodeString(`<chat message="hi"/>`)
	require.NoError(t, err)
	_, _ = d.DecodeString(`<broken`)
	d.CreateMessage(mustParse(t, `<unknownFutureMessage/>`))

	parses := "terranova_wire_parses_total"
	assert.Equal(t, 1.0, counterValue(t, reg, parses, "status", metrics.StatusOK))
	assert.Equal(t, 1.0, counterValue(t, reg, parses, "status", metrics.StatusMalformed))

	dispatches := "terranova_wire_dispatches_total"
	assert.Equal(t, 1.0, counterValue(t, reg, dispatches, "status", metrics.StatusOK))
	assert.Equal(t, 1.0, counterValue(t, reg, dispatches, "status", metrics.StatusMiss))
}

func TestEncode(t *testing.T) {
	msg := NewChatMessage(nil, "hi", false)
	text := Encode(msg)
	assert.Contains(t, text, wire.Preamble)
	assert.Contains(t, text, `message="hi"`)
	assert.Equal(t, "", Encode(nil))
}
