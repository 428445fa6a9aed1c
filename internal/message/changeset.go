package message

import (
	"errors"

	"github.com/peterkuimelis/terranova/internal/game"
	"github.com/peterkuimelis/terranova/internal/log"
	"github.com/peterkuimelis/terranova/internal/wire"
)

// Visibility says which recipients a pending change is rendered for.
type Visibility int

const (
	// VisibleToAll renders for every recipient, each through its own
	// scope filter.
	VisibleToAll Visibility = iota
	// VisibleToOwner renders only for the owning player and for the
	// server view.
	VisibleToOwner
)

type change struct {
	vis      Visibility
	owner    *game.Player
	obj      game.Object
	fields   []string // nil means full write
	removeID string
	raw      *wire.Element
}

// ChangeSet accumulates pending state changes on the server and
// renders them as one per-recipient message batch. Updates merge into
// a single update element, removals into a single remove element, and
// the lot collapses through the batch envelope.
type ChangeSet struct {
	changes []change
}

func NewChangeSet() *ChangeSet {
	return &ChangeSet{}
}

// Empty reports whether nothing is pending.
func (cs *ChangeSet) Empty() bool { return len(cs.changes) == 0 }

// Update queues a full write of obj, filtered per recipient.
func (cs *ChangeSet) Update(obj game.Object) *ChangeSet {
	cs.changes = append(cs.changes, change{obj: obj})
	return cs
}

// UpdatePartial queues a write of obj restricted to the named fields.
func (cs *ChangeSet) UpdatePartial(obj game.Object, fields ...string) *ChangeSet {
	cs.changes = append(cs.changes, change{obj: obj, fields: fields})
	return cs
}

// UpdateOwned queues a write of obj rendered only for its owner and
// the server view.
func (cs *ChangeSet) UpdateOwned(owner *game.Player, obj game.Object) *ChangeSet {
	cs.changes = append(cs.changes, change{vis: VisibleToOwner, owner: owner, obj: obj})
	return cs
}

// Remove queues a removal notice for the identifier.
func (cs *ChangeSet) Remove(id string) *ChangeSet {
	cs.changes = append(cs.changes, change{removeID: id})
	return cs
}

// Add queues an already built message element, delivered to every
// recipient as-is.
func (cs *ChangeSet) Add(el *wire.Element) *ChangeSet {
	if el != nil {
		cs.changes = append(cs.changes, change{raw: el.DeepCopy()})
	}
	return cs
}

// Build renders the batch for one observer, nil meaning the
// unfiltered server view. The scope gate applies to the batch as a
// whole: an observer that does not resolve in the live game fails the
// build before anything is written. An empty result yields nil.
func (cs *ChangeSet) Build(d *Dispatcher, observer *game.Player) (*Message, error) {
	scope := game.ScopeFor(observer)
	if err := scope.Validate(d.game); err != nil {
		d.log(log.NewScopeRejectEvent("changeset", scope.String()))
		d.metrics.RecordScopeReject()
		return nil, err
	}

	var els []*wire.Element

	update := wire.NewElement(TagUpdate)
	for _, ch := range cs.changes {
		if ch.obj == nil {
			continue
		}
		if ch.vis == VisibleToOwner && !scope.SeesOwn(ch.owner) {
			continue
		}
		el, err := game.ToElement(d.game, ch.obj, scope, ch.fields)
		if err != nil {
			if errors.Is(err, game.ErrInvalidScope) {
				d.log(log.NewScopeRejectEvent(ch.obj.Tag(), scope.String()))
				d.metrics.RecordScopeReject()
			}
			return nil, err
		}
		update.AppendChild(el)
	}
	if update.ChildCount() > 0 {
		els = append(els, update)
	}

	remove := wire.NewElement(TagRemove)
	for _, ch := range cs.changes {
		if ch.removeID != "" {
			remove.AppendChild(wire.NewElement("object", wire.IDAttribute, ch.removeID))
		}
	}
	if remove.ChildCount() > 0 {
		els = append(els, remove)
	}

	for _, ch := range cs.changes {
		if ch.raw != nil {
			els = append(els, ch.raw)
		}
	}

	collapsed := CollapseElements(els)
	if collapsed == nil {
		return nil, nil
	}
	msg := FromElement(collapsed)
	d.log(log.NewBuildEvent(msg.Type(), collapsed.ChildCount()))
	d.metrics.RecordSerialize(scopeLabel(scope))
	return msg, nil
}

func scopeLabel(s game.WriteScope) string {
	if s.IsServer() {
		return "server"
	}
	return "client"
}
