package game

import (
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/peterkuimelis/terranova/internal/wire"
)

// Game is the live object table plus top-level session state. It is
// itself a wire-addressable object (tag "game"), the one kind that
// can be rebuilt before any game context exists. Safe for concurrent
// use from per-connection workers.
type Game struct {
	mu        sync.RWMutex
	id        string
	sessionID string
	turn      int
	objects   map[string]Object
	order     []string // registration order, keeps serialization deterministic
	players   []*Player
	counters  map[string]int
	catalog   *Catalog
}

// NewGame creates an empty game backed by the given catalog. A nil
// catalog is allowed for games rebuilt from the wire.
func NewGame(catalog *Catalog) *Game {
	g := &Game{
		sessionID: uuid.NewString(),
		objects:   make(map[string]Object),
		counters:  make(map[string]int),
		catalog:   catalog,
	}
	g.id = g.nextID(TagGame)
	g.objects[g.id] = g
	g.order = append(g.order, g.id)
	return g
}

// SessionID returns the unique session identifier.
func (g *Game) SessionID() string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.sessionID
}

// Catalog returns the static type catalog, nil for games rebuilt from
// the wire.
func (g *Game) Catalog() *Catalog { return g.catalog }

// Turn returns the current turn number.
func (g *Game) Turn() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.turn
}

// SetTurn sets the turn number.
func (g *Game) SetTurn(n int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.turn = n
}

// AdvanceTurn increments the turn and restores every unit's movement
// allowance from its catalog type.
func (g *Game) AdvanceTurn() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.turn++
	for _, id := range g.order {
		if u, ok := g.objects[id].(*Unit); ok {
			if spec, found := g.unitSpec(u.Type); found {
				u.Moves = spec.Moves
			}
		}
	}
	return g.turn
}

func (g *Game) unitSpec(unitType string) (UnitTypeEntry, bool) {
	if g.catalog == nil {
		return UnitTypeEntry{}, false
	}
	return g.catalog.UnitType(unitType)
}

// nextID mints "<kind>:<n>". Callers hold mu, or call during
// single-threaded construction.
func (g *Game) nextID(tag string) string {
	g.counters[tag]++
	return tag + ":" + strconv.Itoa(g.counters[tag])
}

// bumpCounter keeps the per-kind counter ahead of externally assigned
// identifiers so minted ids never collide with rebuilt ones.
func (g *Game) bumpCounter(id string) {
	i := strings.LastIndexByte(id, ':')
	if i <= 0 {
		return
	}
	n, err := strconv.Atoi(id[i+1:])
	if err != nil {
		return
	}
	if kind := id[:i]; n > g.counters[kind] {
		g.counters[kind] = n
	}
}

// NextID returns a fresh identifier for the given kind.
func (g *Game) NextID(tag string) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.nextID(tag)
}

// Register adds obj to the object table under its identifier,
// assigning a fresh one first if it has none.
func (g *Game) Register(obj GameObject) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if obj.ID() == "" {
		obj.SetID(g.nextID(obj.Tag()))
	} else {
		g.bumpCounter(obj.ID())
	}
	id := obj.ID()
	if _, exists := g.objects[id]; !exists {
		g.order = append(g.order, id)
	}
	g.objects[id] = obj
	if p, ok := obj.(*Player); ok {
		g.appendPlayer(p)
	}
}

func (g *Game) appendPlayer(p *Player) {
	for _, q := range g.players {
		if q == p {
			return
		}
	}
	g.players = append(g.players, p)
}

// Lookup returns the object with the given identifier, or nil.
func (g *Game) Lookup(id string) Object {
	if id == "" {
		return nil
	}
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.objects[id]
}

// Remove drops the object with the given identifier from the table.
func (g *Game) Remove(id string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	obj, ok := g.objects[id]
	if !ok {
		return
	}
	delete(g.objects, id)
	for i, oid := range g.order {
		if oid == id {
			g.order = append(g.order[:i], g.order[i+1:]...)
			break
		}
	}
	if p, ok := obj.(*Player); ok {
		for i, q := range g.players {
			if q == p {
				g.players = append(g.players[:i], g.players[i+1:]...)
				break
			}
		}
	}
}

// ObjectCount returns the number of table entries, the game itself
// included.
func (g *Game) ObjectCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.objects)
}

// Players returns the players in join order.
func (g *Game) Players() []*Player {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]*Player, len(g.players))
	copy(out, g.players)
	return out
}

// PlayerByName returns the named player, or nil.
func (g *Game) PlayerByName(name string) *Player {
	g.mu.RLock()
	defer g.mu.RUnlock()
	for _, p := range g.players {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// Units returns the registered units in registration order.
func (g *Game) Units() []*Unit {
	g.mu.RLock()
	defer g.mu.RUnlock()
	var out []*Unit
	for _, id := range g.order {
		if u, ok := g.objects[id].(*Unit); ok {
			out = append(out, u)
		}
	}
	return out
}

// NewInstance constructs a blank instance of the kind named by tag.
// With forceNew, a persistent kind is registered immediately under a
// fresh identifier; otherwise the instance is left unregistered for
// the wire to populate. Returns false for unknown kinds, which arrive
// from the wire and are a recoverable miss.
func (g *Game) NewInstance(tag string, forceNew bool) (Object, bool) {
	obj, ok := LookupKind(tag)
	if !ok {
		return nil, false
	}
	if gobj, isGameObject := obj.(GameObject); isGameObject && forceNew {
		g.Register(gobj)
	}
	return obj, true
}

// --- Construction helpers ---

// AddPlayer creates and registers a player.
func (g *Game) AddPlayer(name string, nation Nation) *Player {
	p := &Player{Name: name, Nation: nation}
	g.Register(p)
	return p
}

// AddTile creates and registers a map tile.
func (g *Game) AddTile(x, y int, terrain Terrain) *Tile {
	t := &Tile{X: x, Y: y, Terrain: terrain}
	g.Register(t)
	return t
}

// AddUnit creates and registers a unit, with its movement allowance
// taken from the catalog when the type is known.
func (g *Game) AddUnit(owner *Player, unitType string, tile *Tile) *Unit {
	u := &Unit{Type: unitType, Owner: owner, Tile: tile}
	if spec, ok := g.unitSpec(unitType); ok {
		u.Moves = spec.Moves
	}
	g.Register(u)
	return u
}

// AddSettlement creates and registers a settlement.
func (g *Game) AddSettlement(owner *Player, name string, tile *Tile) *Settlement {
	s := &Settlement{Name: name, Owner: owner, Tile: tile, Population: 1}
	g.Register(s)
	return s
}

// --- Wire form ---

// ID returns the game's own table identifier.
func (g *Game) ID() string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.id
}

// Tag returns the game's wire tag.
func (g *Game) Tag() string { return TagGame }

// SetID assigns the identifier. Used while rebuilding from the wire.
func (g *Game) SetID(id string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.rekey(id)
}

// rekey moves the game's own table entry. Callers hold mu.
func (g *Game) rekey(id string) {
	if id == "" || id == g.id {
		return
	}
	delete(g.objects, g.id)
	for i, oid := range g.order {
		if oid == g.id {
			g.order[i] = id
			break
		}
	}
	g.id = id
	g.objects[id] = g
	g.bumpCounter(id)
}

// ToWire serializes the whole session: game attributes plus every
// registered object, each filtered for the scope.
func (g *Game) ToWire(scope WriteScope) *wire.Element {
	g.mu.RLock()
	defer g.mu.RUnlock()
	el := wire.NewElement(TagGame,
		wire.IDAttribute, g.id,
		"session", g.sessionID,
		"turn", strconv.Itoa(g.turn))
	for _, id := range g.order {
		if id == g.id {
			continue
		}
		el.AppendChild(g.objects[id].ToWire(scope))
	}
	return el
}

// ToWirePartial writes identity plus the named game attributes.
func (g *Game) ToWirePartial(scope WriteScope, fields []string) *wire.Element {
	g.mu.RLock()
	defer g.mu.RUnlock()
	el := wire.NewElement(TagGame, wire.IDAttribute, g.id)
	for _, f := range fields {
		switch f {
		case "turn":
			el.SetAttr("turn", strconv.Itoa(g.turn))
		case "session":
			el.SetAttr("session", g.sessionID)
		}
	}
	return el
}

// FromWire rebuilds the session from an element. Children register in
// a first pass and populate in a second, so references between them
// resolve regardless of child order. A game always resolves against
// itself, so the context parameter is unused.
func (g *Game) FromWire(el *wire.Element, _ *Game) {
	g.mu.Lock()
	g.rekey(el.ReadID())
	g.sessionID = el.StringAttr("session", g.sessionID)
	g.turn = el.IntAttr("turn", g.turn)
	g.mu.Unlock()

	type pending struct {
		obj   Object
		child *wire.Element
	}
	var ps []pending
	for _, child := range el.Children() {
		if child.Tag() == TagGame {
			continue // no nested sessions
		}
		obj, ok := LookupKind(child.Tag())
		if !ok {
			continue
		}
		if gobj, isGameObject := obj.(GameObject); isGameObject {
			if id := child.ReadID(); id != "" {
				gobj.SetID(id)
			}
			g.Register(gobj)
		}
		ps = append(ps, pending{obj, child})
	}
	for _, p := range ps {
		p.obj.FromWire(p.child, g)
	}
}
