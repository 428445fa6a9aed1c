package game

import (
	"strconv"

	"github.com/peterkuimelis/terranova/internal/wire"
)

// Unit is a movable piece on the map. Type, owner and location are
// visible to everyone who can see the unit; remaining moves and cargo
// are owner-private.
type Unit struct {
	id    string
	Type  string // catalog unit type, e.g. "scout"
	Owner *Player
	Tile  *Tile
	Moves int
	Cargo []*Goods
}

func (u *Unit) ID() string { return u.id }

func (u *Unit) Tag() string { return TagUnit }

func (u *Unit) SetID(id string) { u.id = id }

func (u *Unit) ToWire(scope WriteScope) *wire.Element {
	el := wire.NewElement(TagUnit,
		wire.IDAttribute, u.id,
		"type", u.Type)
	if u.Owner != nil {
		el.SetAttr("owner", u.Owner.ID())
	}
	if u.Tile != nil {
		el.SetAttr("location", u.Tile.ID())
	}
	if scope.SeesOwn(u.Owner) {
		el.SetAttr("moves", strconv.Itoa(u.Moves))
		for _, goods := range u.Cargo {
			el.AppendChild(goods.ToWire(scope))
		}
	}
	return el
}

func (u *Unit) ToWirePartial(scope WriteScope, fields []string) *wire.Element {
	el := wire.NewElement(TagUnit, wire.IDAttribute, u.id)
	for _, f := range fields {
		switch f {
		case "type":
			el.SetAttr("type", u.Type)
		case "owner":
			if u.Owner != nil {
				el.SetAttr("owner", u.Owner.ID())
			}
		case "location":
			if u.Tile != nil {
				el.SetAttr("location", u.Tile.ID())
			}
		case "moves":
			if scope.SeesOwn(u.Owner) {
				el.SetAttr("moves", strconv.Itoa(u.Moves))
			}
		}
	}
	return el
}

func (u *Unit) FromWire(el *wire.Element, g *Game) {
	if id := el.ReadID(); id != "" {
		u.id = id
	}
	u.Type = el.StringAttr("type", u.Type)
	if g != nil {
		if p, ok := g.Lookup(el.Attr("owner")).(*Player); ok {
			u.Owner = p
		}
		if t, ok := g.Lookup(el.Attr("location")).(*Tile); ok {
			u.Tile = t
		}
	}
	u.Moves = el.IntAttr("moves", u.Moves)
	if el.ChildByTag(TagGoods) != nil {
		u.Cargo = nil
		for _, child := range el.Children() {
			if child.Tag() != TagGoods {
				continue
			}
			goods := &Goods{}
			goods.FromWire(child, g)
			u.Cargo = append(u.Cargo, goods)
		}
	}
}
