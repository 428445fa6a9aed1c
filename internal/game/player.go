package game

import (
	"strconv"

	"github.com/peterkuimelis/terranova/internal/wire"
)

// Player is one participant in the session. Gold is owner-private;
// name and nation are public.
type Player struct {
	id     string
	Name   string
	Nation Nation
	Gold   int
}

func (p *Player) ID() string { return p.id }

func (p *Player) Tag() string { return TagPlayer }

func (p *Player) SetID(id string) { p.id = id }

func (p *Player) ToWire(scope WriteScope) *wire.Element {
	el := wire.NewElement(TagPlayer,
		wire.IDAttribute, p.id,
		"name", p.Name,
		"nation", p.Nation.String())
	if scope.SeesOwn(p) {
		el.SetAttr("gold", strconv.Itoa(p.Gold))
	}
	return el
}

func (p *Player) ToWirePartial(scope WriteScope, fields []string) *wire.Element {
	el := wire.NewElement(TagPlayer, wire.IDAttribute, p.id)
	for _, f := range fields {
		switch f {
		case "name":
			el.SetAttr("name", p.Name)
		case "nation":
			el.SetAttr("nation", p.Nation.String())
		case "gold":
			if scope.SeesOwn(p) {
				el.SetAttr("gold", strconv.Itoa(p.Gold))
			}
		}
	}
	return el
}

func (p *Player) FromWire(el *wire.Element, _ *Game) {
	if id := el.ReadID(); id != "" {
		p.id = id
	}
	p.Name = el.StringAttr("name", p.Name)
	if s, ok := el.LookupAttr("nation"); ok {
		p.Nation = ParseNation(s)
	}
	p.Gold = el.IntAttr("gold", p.Gold)
}
