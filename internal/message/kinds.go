package message

import (
	"fmt"

	"github.com/peterkuimelis/terranova/internal/game"
	"github.com/peterkuimelis/terranova/internal/wire"
)

// Wire tags for the built-in message kinds. TagMultiple is reserved
// for the batch envelope.
const (
	TagChat       = "chat"
	TagMove       = "move"
	TagError      = "error"
	TagDisconnect = "disconnect"
	TagLogin      = "login"
	TagLogout     = "logout"
	TagUpdate     = "update"
	TagRemove     = "remove"
	TagMultiple   = "multiple"
)

// --- Session messages ---

// LoginMessage opens a session. The client sends its name and
// protocol version; the server's reply echoes them and carries the
// client's view of the whole game, the one payload that must be
// readable before any game context exists.
type LoginMessage struct {
	UserName string
	Version  string
	Game     *game.Game // reply payload, nil on the client-to-server leg
	observer *game.Player
}

func NewLoginMessage(userName string) *LoginMessage {
	return &LoginMessage{UserName: userName, Version: ProtocolVersion}
}

// NewLoginReply builds the server's reply carrying g as observer sees
// it.
func NewLoginReply(g *game.Game, observer *game.Player) *LoginMessage {
	m := &LoginMessage{Version: ProtocolVersion, Game: g, observer: observer}
	if observer != nil {
		m.UserName = observer.Name
	}
	return m
}

func newLoginFromWire(_ *game.Game, el *wire.Element) (Typed, error) {
	m := &LoginMessage{
		UserName: el.StringAttr("username", ""),
		Version:  el.StringAttr("version", ""),
	}
	if child := el.ChildByTag(game.TagGame); child != nil {
		rebuilt := game.NewGame(nil)
		rebuilt.FromWire(child, nil)
		m.Game = rebuilt
		if m.UserName != "" {
			m.observer = rebuilt.PlayerByName(m.UserName)
		}
	}
	return m, nil
}

func (m *LoginMessage) Tag() string { return TagLogin }

func (m *LoginMessage) ToElement() *wire.Element {
	el := wire.NewElement(TagLogin,
		"username", m.UserName,
		"version", m.Version)
	if m.Game != nil {
		el.AppendChild(m.Game.ToWire(game.ScopeFor(m.observer)))
	}
	return el
}

// LogoutMessage announces a player leaving the session.
type LogoutMessage struct {
	PlayerID string
	Player   *game.Player // resolved when a game context is present
	Reason   string
}

func NewLogoutMessage(p *game.Player, reason string) *LogoutMessage {
	m := &LogoutMessage{Reason: reason}
	if p != nil {
		m.PlayerID = p.ID()
		m.Player = p
	}
	return m
}

func newLogoutFromWire(g *game.Game, el *wire.Element) (Typed, error) {
	m := &LogoutMessage{
		PlayerID: el.Attr("player"),
		Reason:   el.StringAttr("reason", ""),
	}
	if g != nil {
		if p, ok := g.Lookup(m.PlayerID).(*game.Player); ok {
			m.Player = p
		}
	}
	return m, nil
}

func (m *LogoutMessage) Tag() string { return TagLogout }

func (m *LogoutMessage) ToElement() *wire.Element {
	el := wire.NewElement(TagLogout)
	if m.PlayerID != "" {
		el.SetAttr("player", m.PlayerID)
	}
	if m.Reason != "" {
		el.SetAttr("reason", m.Reason)
	}
	return el
}

// DisconnectMessage announces an orderly connection shutdown.
type DisconnectMessage struct {
	Reason string
}

func NewDisconnectMessage(reason string) *DisconnectMessage {
	return &DisconnectMessage{Reason: reason}
}

func newDisconnectFromWire(_ *game.Game, el *wire.Element) (Typed, error) {
	return &DisconnectMessage{Reason: el.StringAttr("reason", "")}, nil
}

func (m *DisconnectMessage) Tag() string { return TagDisconnect }

func (m *DisconnectMessage) ToElement() *wire.Element {
	el := wire.NewElement(TagDisconnect)
	if m.Reason != "" {
		el.SetAttr("reason", m.Reason)
	}
	return el
}

// ChatMessage carries one line of player chat.
type ChatMessage struct {
	SenderID string
	Sender   *game.Player // resolved when a game context is present
	Text     string
	Private  bool
}

func NewChatMessage(sender *game.Player, text string, private bool) *ChatMessage {
	m := &ChatMessage{Text: text, Private: private}
	if sender != nil {
		m.SenderID = sender.ID()
		m.Sender = sender
	}
	return m
}

func newChatFromWire(g *game.Game, el *wire.Element) (Typed, error) {
	m := &ChatMessage{
		SenderID: el.Attr("sender"),
		Text:     el.StringAttr("message", ""),
		Private:  el.BoolAttr("private", false),
	}
	if g != nil {
		if p, ok := g.Lookup(m.SenderID).(*game.Player); ok {
			m.Sender = p
		}
	}
	return m, nil
}

func (m *ChatMessage) Tag() string { return TagChat }

func (m *ChatMessage) ToElement() *wire.Element {
	el := wire.NewElement(TagChat, "message", m.Text)
	if m.SenderID != "" {
		el.SetAttr("sender", m.SenderID)
	}
	if m.Private {
		el.SetAttr("private", "true")
	}
	return el
}

// ErrorMessage reports a request failure back to the sender.
type ErrorMessage struct {
	Code string
	Text string
}

func NewErrorMessage(code, text string) *ErrorMessage {
	return &ErrorMessage{Code: code, Text: text}
}

func newErrorFromWire(_ *game.Game, el *wire.Element) (Typed, error) {
	return &ErrorMessage{
		Code: el.Attr("code"),
		Text: el.StringAttr("message", ""),
	}, nil
}

func (m *ErrorMessage) Tag() string { return TagError }

func (m *ErrorMessage) ToElement() *wire.Element {
	el := wire.NewElement(TagError, "message", m.Text)
	if m.Code != "" {
		el.SetAttr("code", m.Code)
	}
	return el
}

// --- Action messages ---

// MoveMessage asks the server to step one unit in a compass
// direction.
type MoveMessage struct {
	UnitID    string
	Unit      *game.Unit // resolved when a game context is present
	Direction game.Direction
}

func NewMoveMessage(u *game.Unit, dir game.Direction) *MoveMessage {
	m := &MoveMessage{Direction: dir}
	if u != nil {
		m.UnitID = u.ID()
		m.Unit = u
	}
	return m
}

func newMoveFromWire(g *game.Game, el *wire.Element) (Typed, error) {
	dir, ok := game.ParseDirection(el.StringAttr("direction", ""))
	if !ok {
		return nil, fmt.Errorf("bad direction %q", el.Attr("direction"))
	}
	m := &MoveMessage{UnitID: el.Attr("unit"), Direction: dir}
	if g != nil {
		if u, isUnit := g.Lookup(m.UnitID).(*game.Unit); isUnit {
			m.Unit = u
		}
	}
	return m, nil
}

// Target returns the coordinates one step from the unit's tile, false
// when the unit or its location did not resolve.
func (m *MoveMessage) Target() (x, y int, ok bool) {
	if m.Unit == nil || m.Unit.Tile == nil {
		return 0, 0, false
	}
	dx, dy := m.Direction.Step()
	return m.Unit.Tile.X + dx, m.Unit.Tile.Y + dy, true
}

func (m *MoveMessage) Tag() string { return TagMove }

func (m *MoveMessage) ToElement() *wire.Element {
	return wire.NewElement(TagMove,
		"unit", m.UnitID,
		"direction", m.Direction.String())
}

// --- State messages ---

// UpdateMessage carries scope-filtered object state. Children are
// kept as raw elements: the sender has already filtered them, the
// receiver folds them into its own table with Apply.
type UpdateMessage struct {
	Objects []*wire.Element
}

func NewUpdateMessage(els ...*wire.Element) *UpdateMessage {
	m := &UpdateMessage{}
	for _, el := range els {
		m.Add(el)
	}
	return m
}

// Add appends a deep copy of one payload element.
func (m *UpdateMessage) Add(el *wire.Element) {
	if el != nil {
		m.Objects = append(m.Objects, el.DeepCopy())
	}
}

func newUpdateFromWire(_ *game.Game, el *wire.Element) (Typed, error) {
	m := &UpdateMessage{}
	for _, child := range el.Children() {
		m.Objects = append(m.Objects, child.DeepCopy())
	}
	return m, nil
}

func (m *UpdateMessage) Tag() string { return TagUpdate }

func (m *UpdateMessage) ToElement() *wire.Element {
	el := wire.NewElement(TagUpdate)
	for _, obj := range m.Objects {
		el.AppendChild(obj)
	}
	return el
}

// Apply folds the update into g: each payload element updates the
// object its identifier resolves to, or registers a fresh instance of
// its kind. Registration happens for every element before any is
// populated, so payloads may reference each other in any order.
// Returns how many elements were applied.
func (m *UpdateMessage) Apply(g *game.Game) int {
	if g == nil {
		return 0
	}
	type pending struct {
		obj game.Object
		el  *wire.Element
	}
	var ps []pending
	for _, el := range m.Objects {
		obj := g.Lookup(el.ReadID())
		if obj == nil {
			if el.Tag() == game.TagGame {
				continue // a session never holds another
			}
			fresh, ok := game.LookupKind(el.Tag())
			if !ok {
				continue
			}
			gobj, resident := fresh.(game.GameObject)
			if !resident {
				continue // bare transients have nowhere to land
			}
			if id := el.ReadID(); id != "" {
				gobj.SetID(id)
			}
			g.Register(gobj)
			obj = gobj
		}
		ps = append(ps, pending{obj, el})
	}
	for _, p := range ps {
		p.obj.FromWire(p.el, g)
	}
	return len(ps)
}

// RemoveMessage lists objects that have left the receiver's view.
type RemoveMessage struct {
	IDs []string
}

func NewRemoveMessage(ids ...string) *RemoveMessage {
	return &RemoveMessage{IDs: ids}
}

func newRemoveFromWire(_ *game.Game, el *wire.Element) (Typed, error) {
	m := &RemoveMessage{}
	for _, child := range el.Children() {
		if id := child.ReadID(); id != "" {
			m.IDs = append(m.IDs, id)
		}
	}
	return m, nil
}

func (m *RemoveMessage) Tag() string { return TagRemove }

func (m *RemoveMessage) ToElement() *wire.Element {
	el := wire.NewElement(TagRemove)
	for _, id := range m.IDs {
		el.AppendChild(wire.NewElement("object", wire.IDAttribute, id))
	}
	return el
}

// Apply drops every listed object from g, returning how many were
// present.
func (m *RemoveMessage) Apply(g *game.Game) int {
	if g == nil {
		return 0
	}
	n := 0
	for _, id := range m.IDs {
		if g.Lookup(id) != nil {
			g.Remove(id)
			n++
		}
	}
	return n
}

// MultipleMessage is the batch envelope: several sibling messages
// delivered in one transport write.
type MultipleMessage struct {
	Elements []*wire.Element
}

func newMultipleFromWire(_ *game.Game, el *wire.Element) (Typed, error) {
	m := &MultipleMessage{}
	for _, child := range el.Children() {
		m.Elements = append(m.Elements, child.DeepCopy())
	}
	return m, nil
}

func (m *MultipleMessage) Tag() string { return TagMultiple }

func (m *MultipleMessage) ToElement() *wire.Element {
	el := wire.NewElement(TagMultiple)
	for _, sub := range m.Elements {
		el.AppendChild(sub)
	}
	return el
}

// Expand dispatches each wrapped element in order, dropping the ones
// that do not resolve.
func (m *MultipleMessage) Expand(d *Dispatcher) []Typed {
	var out []Typed
	for _, el := range m.Elements {
		if msg := d.CreateMessage(el); msg != nil {
			out = append(out, msg)
		}
	}
	return out
}

var (
	_ Typed = (*LoginMessage)(nil)
	_ Typed = (*LogoutMessage)(nil)
	_ Typed = (*DisconnectMessage)(nil)
	_ Typed = (*ChatMessage)(nil)
	_ Typed = (*ErrorMessage)(nil)
	_ Typed = (*MoveMessage)(nil)
	_ Typed = (*UpdateMessage)(nil)
	_ Typed = (*RemoveMessage)(nil)
	_ Typed = (*MultipleMessage)(nil)
)
