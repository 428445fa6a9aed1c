package game

import (
	"strconv"

	"github.com/peterkuimelis/terranova/internal/wire"
)

// Tile is one map square. Its position is public; terrain and
// resource are visible only to players who have explored it.
type Tile struct {
	id       string
	X, Y     int
	Terrain  Terrain
	Resource string
	explored map[string]bool // player ids that have seen this tile
}

func (t *Tile) ID() string { return t.id }

func (t *Tile) Tag() string { return TagTile }

func (t *Tile) SetID(id string) { t.id = id }

// Explore marks the tile as seen by the player.
func (t *Tile) Explore(p *Player) {
	if p == nil {
		return
	}
	if t.explored == nil {
		t.explored = make(map[string]bool)
	}
	t.explored[p.ID()] = true
}

// ExploredBy reports whether the player has seen this tile.
func (t *Tile) ExploredBy(p *Player) bool {
	return p != nil && t.explored[p.ID()]
}

func (t *Tile) ToWire(scope WriteScope) *wire.Element {
	el := wire.NewElement(TagTile,
		wire.IDAttribute, t.id,
		"x", strconv.Itoa(t.X),
		"y", strconv.Itoa(t.Y))
	if scope.IsServer() || t.ExploredBy(scope.Observer()) {
		el.SetAttr("terrain", t.Terrain.String())
		if t.Resource != "" {
			el.SetAttr("resource", t.Resource)
		}
	}
	return el
}

func (t *Tile) ToWirePartial(scope WriteScope, fields []string) *wire.Element {
	el := wire.NewElement(TagTile, wire.IDAttribute, t.id)
	visible := scope.IsServer() || t.ExploredBy(scope.Observer())
	for _, f := range fields {
		switch f {
		case "x":
			el.SetAttr("x", strconv.Itoa(t.X))
		case "y":
			el.SetAttr("y", strconv.Itoa(t.Y))
		case "terrain":
			if visible {
				el.SetAttr("terrain", t.Terrain.String())
			}
		case "resource":
			if visible && t.Resource != "" {
				el.SetAttr("resource", t.Resource)
			}
		}
	}
	return el
}

func (t *Tile) FromWire(el *wire.Element, _ *Game) {
	if id := el.ReadID(); id != "" {
		t.id = id
	}
	t.X = el.IntAttr("x", t.X)
	t.Y = el.IntAttr("y", t.Y)
	if s, ok := el.LookupAttr("terrain"); ok {
		t.Terrain = ParseTerrain(s)
	}
	t.Resource = el.StringAttr("resource", t.Resource)
}
