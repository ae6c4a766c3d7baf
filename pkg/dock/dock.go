package dock

import (
	"math"

	"github.com/matzehuels/blockdock/pkg/block"
	"github.com/matzehuels/blockdock/pkg/geometry"
	"github.com/matzehuels/blockdock/pkg/node"
)

// Config tunes the docking decision.
type Config struct {
	// Slack is how far boxes may overlap and still count as beside each
	// other when classifying quadrants.
	Slack float64

	// SnapThreshold is the largest gap, along the docking axis, at which a
	// mover still snaps.
	SnapThreshold float64

	// PopOnDragStart nudges a docked node by node.PopUpOffset when a drag
	// starts, instead of detaching it in place.
	PopOnDragStart bool

	// TrashCenter is the center of the delete zone. Nil disables it. Move
	// compares it with surface coordinates, MoveInViewport with screen
	// coordinates.
	TrashCenter *geometry.Point

	// TrashDivisor sets the delete radius for surface-space drags:
	// max(width, height) / TrashDivisor.
	TrashDivisor float64

	// ScreenTrashDivisor sets the delete radius for drags tested in screen
	// space after zoom and scroll.
	ScreenTrashDivisor float64
}

// DefaultConfig returns the standard docking tolerances.
func DefaultConfig() Config {
	return Config{
		Slack:              10,
		SnapThreshold:      30,
		TrashDivisor:       3,
		ScreenTrashDivisor: 4,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Slack <= 0 {
		c.Slack = d.Slack
	}
	if c.SnapThreshold <= 0 {
		c.SnapThreshold = d.SnapThreshold
	}
	if c.TrashDivisor <= 0 {
		c.TrashDivisor = d.TrashDivisor
	}
	if c.ScreenTrashDivisor <= 0 {
		c.ScreenTrashDivisor = d.ScreenTrashDivisor
	}
	return c
}

// Ghost is the preview of where a dragged node would land.
type Ghost struct {
	Visible bool
	Box     geometry.Rect
	Meta    block.Meta
	Outline geometry.Path // at the origin, like node.Outline
}

// Decision is the outcome of one drag tick or of a finished drag.
type Decision struct {
	// Ghost is the preview after this tick.
	Ghost Ghost
	// Target is the node the mover would dock to, or nil.
	Target *node.Node
	// Slot is node.AttachedBottom for the bottom position, else the right
	// slot index. Only meaningful with a Target.
	Slot int
	// Trash reports that the mover is over the delete zone.
	Trash bool
}

// Docked reports whether the decision links the mover to a target.
func (d Decision) Docked() bool { return d.Target != nil }

// DependentSlot returns the value node.Node.DependentSlot takes once the
// link is committed.
func (d Decision) DependentSlot() int {
	switch {
	case d.Target == nil:
		return node.Detached
	case d.Slot == node.AttachedBottom:
		return node.AttachedBottom
	default:
		return d.Slot + 1
	}
}

// Engine decides during a drag whether and where the dragged node snaps.
// It owns the single ghost shared by all drags on its surface.
type Engine struct {
	surface *node.Surface
	cfg     Config
	ghost   Ghost
}

// New returns an engine for s. Zero or negative tolerances in cfg fall back
// to [DefaultConfig].
func New(s *node.Surface, cfg Config) *Engine {
	return &Engine{surface: s, cfg: cfg.withDefaults()}
}

// Config returns the effective configuration.
func (e *Engine) Config() Config { return e.cfg }

// Ghost returns the current preview.
func (e *Engine) Ghost() Ghost { return e.ghost }

// Probe returns where n would dock right now, without moving it or touching
// the ghost.
func (e *Engine) Probe(n *node.Node) Decision {
	target, slot, ok := e.resolve(n)
	if !ok {
		return Decision{}
	}
	return Decision{Ghost: ghostFor(n, target, slot), Target: target, Slot: slot}
}

// resolve picks the best candidate for mover: the smallest gap along the
// docking axis, ties going to the candidate on top.
func (e *Engine) resolve(mover *node.Node) (*node.Node, int, bool) {
	owned := make(map[*node.Node]bool)
	mover.Walk(func(m *node.Node) { owned[m] = true })

	var (
		best     *node.Node
		bestSlot int
		bestGap  = math.Inf(1)
	)
	box := mover.Box()
	for _, c := range e.surface.Nodes() {
		if owned[c] {
			continue
		}
		slot, gap, ok := e.fit(mover, box, c)
		if !ok {
			continue
		}
		if gap < bestGap || (gap == bestGap && c.Z() > best.Z()) {
			best, bestSlot, bestGap = c, slot, gap
		}
	}
	return best, bestSlot, best != nil
}

// fit tests one candidate. Only the right and bottom sides of a candidate
// accept a mover.
func (e *Engine) fit(mover *node.Node, box geometry.Rect, c *node.Node) (slot int, gap float64, ok bool) {
	cb := c.Box()
	qx, qy := Quadrant(box, cb, e.cfg.Slack)

	switch {
	case qx == 1 && qy == 0:
		gap = math.Abs(box.Left() - cb.Right())
		if gap > e.cfg.SnapThreshold || c.SlotCount() == 0 {
			return 0, 0, false
		}
		slot = SlotIndex(c, box.Top()-cb.Top())
		if !c.CanAttachRight(mover, slot) {
			return 0, 0, false
		}
		return slot, gap, true

	case qx == 0 && qy == 1:
		gap = math.Abs(box.Top() - cb.Bottom())
		if gap > e.cfg.SnapThreshold || !c.CanAttachBottom(mover) {
			return 0, 0, false
		}
		return node.AttachedBottom, gap, true
	}
	return 0, 0, false
}

// SlotIndex returns the right slot of c nearest to a mover whose top edge
// is dy below c's top edge, clamped to the slots c has.
func SlotIndex(c *node.Node, dy float64) int {
	n := c.SlotCount()
	if n == 0 {
		return 0
	}
	i := int(math.Floor((dy - block.SlotTop(c.Kind()) + block.SlotPitch/2) / block.SlotPitch))
	return min(max(i, 0), n-1)
}

func ghostFor(mover, target *node.Node, slot int) Ghost {
	anchor := target.Position().Add(target.ChildOffset(slot))
	size := mover.Size()
	return Ghost{
		Visible: true,
		Box:     geometry.Rect{X: anchor.X, Y: anchor.Y, W: size.W, H: size.H},
		Meta:    mover.Meta(),
		Outline: mover.Outline(),
	}
}
