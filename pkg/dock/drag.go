package dock

import (
	"math"

	"github.com/matzehuels/blockdock/pkg/geometry"
	"github.com/matzehuels/blockdock/pkg/node"
	"github.com/matzehuels/blockdock/pkg/observability"
)

// Drag tracks one node from drag start to drag end. The pending link is
// only committed by End.
type Drag struct {
	e    *Engine
	n    *node.Node
	last Decision
	done bool
}

// Begin starts dragging n. A docked node is detached from its parent first,
// so the node and its subtree move freely.
func (e *Engine) Begin(n *node.Node) *Drag {
	if e.cfg.PopOnDragStart {
		n.PopUp()
	} else {
		n.Detach()
	}
	e.ghost = Ghost{}
	return &Drag{e: e, n: n}
}

// Node returns the dragged node.
func (d *Drag) Node() *node.Node { return d.n }

// Last returns the decision of the most recent tick.
func (d *Drag) Last() Decision { return d.last }

// Move moves the node by (dx, dy) surface units and decides where it would
// dock. The delete zone is tested in surface coordinates.
func (d *Drag) Move(dx, dy float64) Decision {
	if d.done || d.n.Removed() {
		return d.last
	}
	d.n.SetPosition(dx, dy, true)
	return d.tick(d.n.Box(), d.e.cfg.TrashDivisor)
}

// MoveInViewport is like Move, but tests the delete zone against the node's
// box in screen coordinates of vp, as hosts do after zoom and scroll.
func (d *Drag) MoveInViewport(dx, dy float64, vp Viewport) Decision {
	if d.done || d.n.Removed() {
		return d.last
	}
	d.n.SetPosition(dx, dy, true)
	b := d.n.Box()
	o := vp.ToScreen(b.Origin())
	z := vp.zoom()
	screen := geometry.Rect{X: o.X, Y: o.Y, W: b.W * z, H: b.H * z}
	return d.tick(screen, d.e.cfg.ScreenTrashDivisor)
}

func (d *Drag) tick(trashBox geometry.Rect, divisor float64) Decision {
	e := d.e
	prev := d.last

	if c := e.cfg.TrashCenter; c != nil {
		radius := math.Max(trashBox.W, trashBox.H) / divisor
		if trashBox.Center().Dist(*c) < radius {
			e.ghost = Ghost{}
			d.last = Decision{Trash: true}
			if !prev.Trash {
				observability.Dock().OnTrash(d.n.ID())
			}
			return d.last
		}
	}

	target, slot, ok := e.resolve(d.n)
	if !ok {
		e.ghost = Ghost{}
		d.last = Decision{}
		return d.last
	}
	e.ghost = ghostFor(d.n, target, slot)
	d.last = Decision{Ghost: e.ghost, Target: target, Slot: slot}
	if prev.Target != target || prev.Slot != slot {
		observability.Dock().OnSnap(d.n.ID(), target.ID(), slot)
	}
	return d.last
}

// End finishes the drag. A pending link is committed: a right slot's
// previous occupant is popped up, a bottom chain is spliced below the
// dragged chain. Without one the node stays where it was released. A drag
// that ended over the delete zone reports Trash and leaves removal, and any
// confirmation, to the host.
func (d *Drag) End() Decision {
	if d.done {
		return d.last
	}
	d.done = true
	d.e.ghost = Ghost{}

	dec := d.last
	dec.Ghost = Ghost{}
	if dec.Trash || dec.Target == nil || d.n.Removed() {
		dec.Target = nil
		d.last = dec
		return dec
	}

	var ok bool
	if dec.Slot == node.AttachedBottom {
		ok = dec.Target.AttachBottom(d.n)
	} else {
		ok = dec.Target.AttachRight(d.n, dec.Slot)
	}
	if !ok {
		dec.Target = nil
	} else {
		observability.Dock().OnCommit(d.n.ID(), dec.Target.ID(), dec.Slot)
	}
	d.last = dec
	return dec
}
