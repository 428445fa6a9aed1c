package game

import (
	"strconv"

	"github.com/peterkuimelis/terranova/internal/wire"
)

// Settlement is a fixed colony on a tile. Name, owner, location and
// population are public; the goods stockpile is owner-private.
type Settlement struct {
	id         string
	Name       string
	Owner      *Player
	Tile       *Tile
	Population int
	Stores     []*Goods
}

func (s *Settlement) ID() string { return s.id }

func (s *Settlement) Tag() string { return TagSettlement }

func (s *Settlement) SetID(id string) { s.id = id }

func (s *Settlement) ToWire(scope WriteScope) *wire.Element {
	el := wire.NewElement(TagSettlement,
		wire.IDAttribute, s.id,
		"name", s.Name,
		"population", strconv.Itoa(s.Population))
	if s.Owner != nil {
		el.SetAttr("owner", s.Owner.ID())
	}
	if s.Tile != nil {
		el.SetAttr("location", s.Tile.ID())
	}
	if scope.SeesOwn(s.Owner) {
		for _, goods := range s.Stores {
			el.AppendChild(goods.ToWire(scope))
		}
	}
	return el
}

func (s *Settlement) ToWirePartial(scope WriteScope, fields []string) *wire.Element {
	el := wire.NewElement(TagSettlement, wire.IDAttribute, s.id)
	for _, f := range fields {
		switch f {
		case "name":
			el.SetAttr("name", s.Name)
		case "population":
			el.SetAttr("population", strconv.Itoa(s.Population))
		case "owner":
			if s.Owner != nil {
				el.SetAttr("owner", s.Owner.ID())
			}
		case "location":
			if s.Tile != nil {
				el.SetAttr("location", s.Tile.ID())
			}
		}
	}
	return el
}

func (s *Settlement) FromWire(el *wire.Element, g *Game) {
	if id := el.ReadID(); id != "" {
		s.id = id
	}
	s.Name = el.StringAttr("name", s.Name)
	s.Population = el.IntAttr("population", s.Population)
	if g != nil {
		if p, ok := g.Lookup(el.Attr("owner")).(*Player); ok {
			s.Owner = p
		}
		if t, ok := g.Lookup(el.Attr("location")).(*Tile); ok {
			s.Tile = t
		}
	}
	if el.ChildByTag(TagGoods) != nil {
		s.Stores = nil
		for _, child := range el.Children() {
			if child.Tag() != TagGoods {
				continue
			}
			goods := &Goods{}
			goods.FromWire(child, g)
			s.Stores = append(s.Stores, goods)
		}
	}
}
