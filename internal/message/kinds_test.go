package message

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peterkuimelis/terranova/internal/game"
	"github.com/peterkuimelis/terranova/internal/wire"
)

func TestMoveMessage(t *testing.T) {
	g, _, _ := newTestSession(t)
	scout := unitOf(t, g, "alice")

	msg := CreateMessage(g, mustParse(t, `<move unit="`+scout.ID()+`" direction="N"/>`))
	move, ok := msg.(*MoveMessage)
	require.True(t, ok)
	assert.Same(t, scout, move.Unit)
	assert.Equal(t, game.DirectionN, move.Direction)

	x, y, ok := move.Target()
	require.True(t, ok)
	assert.Equal(t, 3, x, "north keeps the column")
	assert.Equal(t, 3, y, "north decreases the row")

	back := NewMoveMessage(scout, game.DirectionN).ToElement()
	assert.True(t, back.Equal(move.ToElement()))
}

func TestMoveMessageUnresolvedUnit(t *testing.T) {
	g, _, _ := newTestSession(t)
	msg := CreateMessage(g, mustParse(t, `<move unit="unit:404" direction="E"/>`))
	move, ok := msg.(*MoveMessage)
	require.True(t, ok)
	assert.Nil(t, move.Unit, "a dangling reference decodes, it just does not resolve")
	assert.Equal(t, "unit:404", move.UnitID)
	_, _, targetOK := move.Target()
	assert.False(t, targetOK)
}

func TestChatMessage(t *testing.T) {
	g, alice, _ := newTestSession(t)

	el := NewChatMessage(alice, "attack at dawn", true).ToElement()
	assert.Equal(t, "true", el.Attr("private"))

	msg := CreateMessage(g, el)
	chat, ok := msg.(*ChatMessage)
	require.True(t, ok)
	assert.Same(t, alice, chat.Sender)
	assert.Equal(t, "attack at dawn", chat.Text)
	assert.True(t, chat.Private)
}

func TestErrorMessage(t *testing.T) {
	el := NewErrorMessage("server.timeout", "request timed out").ToElement()
	msg := CreateMessage(nil, el)
	errMsg, ok := msg.(*ErrorMessage)
	require.True(t, ok)
	assert.Equal(t, "server.timeout", errMsg.Code)
	assert.Equal(t, "request timed out", errMsg.Text)
}

// The login reply is the bootstrap payload: a client with no game yet
// must be able to rebuild one, and resolve itself in it, from the
// reply alone.
func TestLoginReplyBootstrap(t *testing.T) {
	g, alice, _ := newTestSession(t)
	alice.Gold = 75

	reply := NewLoginReply(g, alice)
	el := reply.ToElement()

	msg := CreateMessage(nil, el)
	login, ok := msg.(*LoginMessage)
	require.True(t, ok)
	require.NotNil(t, login.Game, "reply must carry a rebuildable game")

	assert.Equal(t, g.SessionID(), login.Game.SessionID())
	self := login.Game.PlayerByName("alice")
	require.NotNil(t, self)
	assert.Equal(t, 75, self.Gold, "a player sees their own gold in the login payload")
}

// The login reply never leaks what the observer cannot see.
func TestLoginReplyScoped(t *testing.T) {
	g, alice, bob := newTestSession(t)
	alice.Gold = 75

	el := NewLoginReply(g, bob).ToElement()
	gameEl := el.ChildByTag(game.TagGame)
	require.NotNil(t, gameEl)

	for _, child := range gameEl.Children() {
		if child.Tag() == game.TagPlayer && child.ReadID() == alice.ID() {
			assert.False(t, child.HasAttr("gold"), "bob's login payload leaks alice's gold")
		}
	}
}

func TestLogoutMessage(t *testing.T) {
	g, alice, _ := newTestSession(t)
	el := NewLogoutMessage(alice, "quit").ToElement()

	msg := CreateMessage(g, el)
	logout, ok := msg.(*LogoutMessage)
	require.True(t, ok)
	assert.Same(t, alice, logout.Player)
	assert.Equal(t, "quit", logout.Reason)
}

func TestDisconnectMessage(t *testing.T) {
	msg := CreateMessage(nil, mustParse(t, `<disconnect reason="connection reset"/>`))
	dc, ok := msg.(*DisconnectMessage)
	require.True(t, ok)
	assert.Equal(t, "connection reset", dc.Reason)
}

// An update both mutates resolved objects and registers fresh ones,
// regardless of the order its payloads reference each other in.
func TestUpdateMessageApply(t *testing.T) {
	g, _, _ := newTestSession(t)
	scout := unitOf(t, g, "alice")
	before := g.ObjectCount()

	el := mustParse(t, `<update>`+
		`<unit id="unit:9" type="wagon" owner="player:9" location="tile:9"/>`+
		`<player id="player:9" name="carol" nation="french"/>`+
		`<tile id="tile:9" x="8" y="8" terrain="plains"/>`+
		`<unit id="`+scout.ID()+`" type="scout" moves="0"/>`+
		`</update>`)

	msg := CreateMessage(g, el)
	update, ok := msg.(*UpdateMessage)
	require.True(t, ok)

	applied := update.Apply(g)
	assert.Equal(t, 4, applied)
	assert.Equal(t, 0, scout.Moves, "existing object mutated in place")
	assert.Equal(t, before+3, g.ObjectCount(), "three fresh objects registered")

	wagon, isUnit := g.Lookup("unit:9").(*game.Unit)
	require.True(t, isUnit)
	require.NotNil(t, wagon.Owner, "forward reference to a later payload must resolve")
	assert.Equal(t, "carol", wagon.Owner.Name)
	require.NotNil(t, wagon.Tile)
	assert.Equal(t, 8, wagon.Tile.X)
}

func TestUpdateMessageApplyNilGame(t *testing.T) {
	update := NewUpdateMessage(wire.NewElement(game.TagUnit, wire.IDAttribute, "unit:1"))
	assert.Equal(t, 0, update.Apply(nil))
}

func TestRemoveMessageApply(t *testing.T) {
	g, _, bob := newTestSession(t)
	soldier := unitOf(t, g, "bob")

	el := NewRemoveMessage(soldier.ID(), "unit:404").ToElement()
	msg := CreateMessage(g, el)
	remove, ok := msg.(*RemoveMessage)
	require.True(t, ok)
	assert.Equal(t, []string{soldier.ID(), "unit:404"}, remove.IDs)

	assert.Equal(t, 1, remove.Apply(g), "only the present object counts")
	assert.Nil(t, g.Lookup(soldier.ID()))
	assert.NotNil(t, g.Lookup(bob.ID()), "removal never cascades")
}

func TestMultipleMessageExpand(t *testing.T) {
	g, _, _ := newTestSession(t)
	d := NewDispatcher(g, nil, nil)

	el := mustParse(t, `<multiple>`+
		`<chat message="one"/>`+
		`<unknownFutureMessage/>`+
		`<chat message="two"/>`+
		`</multiple>`)

	msg := d.CreateMessage(el)
	batch, ok := msg.(*MultipleMessage)
	require.True(t, ok)
	require.Len(t, batch.Elements, 3)

	expanded := batch.Expand(d)
	require.Len(t, expanded, 2, "unresolvable members drop, the rest survive")
	assert.Equal(t, "one", expanded[0].(*ChatMessage).Text)
	assert.Equal(t, "two", expanded[1].(*ChatMessage).Text)
}
