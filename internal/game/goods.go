package game

import (
	"strconv"

	"github.com/peterkuimelis/terranova/internal/wire"
)

// Goods is a quantity of one cargo type, carried by a unit or stored
// in a settlement. Goods have no table identity; they are rebuilt
// fresh wherever they appear on the wire, and their visibility is
// gated by whichever object contains them.
type Goods struct {
	Type   string // catalog goods type, e.g. "furs"
	Amount int
}

func (gd *Goods) ID() string { return "" }

func (gd *Goods) Tag() string { return TagGoods }

func (gd *Goods) ToWire(WriteScope) *wire.Element {
	return wire.NewElement(TagGoods,
		"type", gd.Type,
		"amount", strconv.Itoa(gd.Amount))
}

func (gd *Goods) ToWirePartial(scope WriteScope, fields []string) *wire.Element {
	el := wire.NewElement(TagGoods)
	for _, f := range fields {
		switch f {
		case "type":
			el.SetAttr("type", gd.Type)
		case "amount":
			el.SetAttr("amount", strconv.Itoa(gd.Amount))
		}
	}
	return el
}

func (gd *Goods) FromWire(el *wire.Element, _ *Game) {
	gd.Type = el.StringAttr("type", gd.Type)
	gd.Amount = el.IntAttr("amount", gd.Amount)
}
