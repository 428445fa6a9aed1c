package message

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peterkuimelis/terranova/internal/game"
	"github.com/peterkuimelis/terranova/internal/log"
	"github.com/peterkuimelis/terranova/internal/metrics"
	"github.com/peterkuimelis/terranova/internal/wire"
)

func TestChangeSetEmpty(t *testing.T) {
	g, _, _ := newTestSession(t)
	d := NewDispatcher(g, nil, nil)

	cs := NewChangeSet()
	assert.True(t, cs.Empty())

	msg, err := cs.Build(d, nil)
	require.NoError(t, err)
	assert.Nil(t, msg, "an empty change set renders no message")
}

// A lone update renders bare, with no envelope around it.
func TestChangeSetSingleUpdate(t *testing.T) {
	g, _, _ := newTestSession(t)
	d := NewDispatcher(g, nil, nil)
	scout := unitOf(t, g, "alice")

	msg, err := NewChangeSet().Update(scout).Build(d, nil)
	require.NoError(t, err)
	require.NotNil(t, msg)
	assert.Equal(t, TagUpdate, msg.Type())
	require.Equal(t, 1, msg.Root().ChildCount())
	assert.Equal(t, game.TagUnit, msg.Root().ChildAt(0).Tag())
}

// Updates and removals render as sibling messages inside the batch
// envelope.
func TestChangeSetEnvelope(t *testing.T) {
	g, _, _ := newTestSession(t)
	d := NewDispatcher(g, nil, nil)
	scout := unitOf(t, g, "alice")

	msg, err := NewChangeSet().
		Update(scout).
		Remove("unit:404").
		Add(wire.NewElement(TagChat, "message", "gg")).
		Build(d, nil)
	require.NoError(t, err)
	require.NotNil(t, msg)

	assert.Equal(t, TagMultiple, msg.Type())
	require.Equal(t, 3, msg.Root().ChildCount())
	assert.Equal(t, TagUpdate, msg.Root().ChildAt(0).Tag())
	assert.Equal(t, TagRemove, msg.Root().ChildAt(1).Tag())
	assert.Equal(t, TagChat, msg.Root().ChildAt(2).Tag())
	assert.Equal(t, "unit:404", msg.Root().ChildAt(1).ChildAt(0).ReadID())
}

// The same change set renders differently per recipient: private
// fields appear only in their owner's rendering.
func TestChangeSetPerRecipient(t *testing.T) {
	g, alice, bob := newTestSession(t)
	d := NewDispatcher(g, nil, nil)
	scout := unitOf(t, g, "alice")
	cs := NewChangeSet().Update(scout)

	forAlice, err := cs.Build(d, alice)
	require.NoError(t, err)
	assert.True(t, forAlice.Root().ChildAt(0).HasAttr("moves"))

	forBob, err := cs.Build(d, bob)
	require.NoError(t, err)
	assert.False(t, forBob.Root().ChildAt(0).HasAttr("moves"))
}

// Owner-only changes vanish entirely from other recipients' batches,
// possibly collapsing the batch away.
func TestChangeSetOwnerOnly(t *testing.T) {
	g, alice, bob := newTestSession(t)
	d := NewDispatcher(g, nil, nil)
	scout := unitOf(t, g, "alice")

	cs := NewChangeSet().UpdateOwned(alice, scout)

	forAlice, err := cs.Build(d, alice)
	require.NoError(t, err)
	require.NotNil(t, forAlice)
	assert.Equal(t, TagUpdate, forAlice.Type())

	forServer, err := cs.Build(d, nil)
	require.NoError(t, err)
	require.NotNil(t, forServer, "the server view includes owner-only changes")

	forBob, err := cs.Build(d, bob)
	require.NoError(t, err)
	assert.Nil(t, forBob, "nothing remains for bob, so no message renders")
}

func TestChangeSetPartial(t *testing.T) {
	g, _, _ := newTestSession(t)
	d := NewDispatcher(g, nil, nil)
	scout := unitOf(t, g, "alice")

	msg, err := NewChangeSet().UpdatePartial(scout, "moves").Build(d, nil)
	require.NoError(t, err)
	el := msg.Root().ChildAt(0)
	assert.True(t, el.HasAttr("moves"))
	assert.False(t, el.HasAttr("type"), "partial writes carry identity plus named fields only")
}

// An unresolvable observer fails the whole build before anything is
// rendered, and the refusal is recorded.
func TestChangeSetInvalidObserver(t *testing.T) {
	g, _, _ := newTestSession(t)
	logger := log.NewMemoryLogger()
	reg := prometheus.NewRegistry()
	d := NewDispatcher(g, logger, metrics.New(metrics.WithRegistry(reg)))
	scout := unitOf(t, g, "alice")

	eve := &game.Player{Name: "eve"}
	eve.SetID("player:99")

	msg, err := NewChangeSet().Update(scout).Build(d, eve)
	require.ErrorIs(t, err, game.ErrInvalidScope)
	assert.Nil(t, msg)

	rejects := logger.EventsOfType(log.EventScopeReject)
	require.Len(t, rejects, 1)
	assert.Equal(t, log.LevelError, rejects[0].Level)
	assert.Equal(t, 1.0, counterValue(t, reg, "terranova_wire_scope_rejections_total", "", ""))
}

func TestChangeSetBuildEvents(t *testing.T) {
	g, _, _ := newTestSession(t)
	logger := log.NewMemoryLogger()
	d := NewDispatcher(g, logger, nil)
	scout := unitOf(t, g, "alice")

	_, err := NewChangeSet().Update(scout).Remove("unit:404").Build(d, nil)
	require.NoError(t, err)

	builds := logger.EventsOfType(log.EventBuild)
	require.Len(t, builds, 1)
	assert.Equal(t, TagMultiple, builds[0].Tag)
}
