package node

import (
	"github.com/matzehuels/blockdock/pkg/block"
	"github.com/matzehuels/blockdock/pkg/geometry"
)

// Attachment values reported by [Node.DependentSlot].
const (
	// AttachedBottom marks a node docked below its parent.
	AttachedBottom = -1
	// Detached marks a root node.
	Detached = 0
)

// PopUpOffset is how far [Node.PopUp] nudges a detached node so it no
// longer lines up with its former parent.
var PopUpOffset = geometry.Point{X: 10, Y: 10}

// Node is one placed block instance.
//
// A node owns its bottom child and its right-slot children; parent is a
// back-reference used only for detach bookkeeping. Nodes are created through
// a [Surface] and are not safe for concurrent use.
type Node struct {
	id      string
	tmpl    *block.Template
	meta    block.Meta
	lang    string
	x, y    float64
	z       int
	outline geometry.Path

	parent *Node
	bottom *Node
	right  []*Node
	slot   int // AttachedBottom, Detached, or right slot index + 1

	removed bool
	surface *Surface
}

// ID returns the node's unique identifier.
func (n *Node) ID() string { return n.id }

// Template returns the node's own copy of its template.
func (n *Node) Template() *block.Template { return n.tmpl }

// Meta returns the geometry metadata the outline is derived from.
func (n *Node) Meta() block.Meta { return n.meta }

// Kind returns the block kind.
func (n *Node) Kind() block.Kind { return n.meta.Kind }

// Variant returns the socket mask.
func (n *Node) Variant() block.Variant { return n.meta.Variant }

// Size returns the current width and height.
func (n *Node) Size() block.Size { return n.meta.Size }

// SlotCount returns the number of right-side value slots.
func (n *Node) SlotCount() int { return n.meta.SlotCount }

// Color returns the fill color.
func (n *Node) Color() block.Color { return n.tmpl.Color }

// Lang returns the language the slot layout was derived for.
func (n *Node) Lang() string { return n.lang }

// Text returns the display text in the node's layout language.
func (n *Node) Text() string { return n.tmpl.Text(n.lang) }

// Position returns the top-left corner in surface coordinates.
func (n *Node) Position() geometry.Point { return geometry.Point{X: n.x, Y: n.y} }

// Box returns the node's bounding box, excluding tabs that stick out.
func (n *Node) Box() geometry.Rect {
	return geometry.Rect{X: n.x, Y: n.y, W: n.meta.Size.W, H: n.meta.Size.H}
}

// Z returns the stacking order; higher is on top.
func (n *Node) Z() int { return n.z }

// Outline returns the cached outline at the origin. Translate it by
// [Node.Position] to draw it.
func (n *Node) Outline() geometry.Path { return n.outline }

// Parent returns the node this one is docked to, or nil for roots.
func (n *Node) Parent() *Node { return n.parent }

// Bottom returns the node docked below, or nil.
func (n *Node) Bottom() *Node { return n.bottom }

// Right returns the node in right slot i, or nil when the slot is empty or
// out of range.
func (n *Node) Right(i int) *Node {
	if i < 0 || i >= len(n.right) {
		return nil
	}
	return n.right[i]
}

// RightChildren returns a copy of the right slots. Its length always equals
// [Node.SlotCount].
func (n *Node) RightChildren() []*Node {
	out := make([]*Node, len(n.right))
	copy(out, n.right)
	return out
}

// DependentSlot reports how the node is attached: [AttachedBottom],
// [Detached], or N > 0 for right slot N-1 of its parent.
func (n *Node) DependentSlot() int { return n.slot }

// Removed reports whether the node has been removed from its surface.
func (n *Node) Removed() bool { return n.removed }

// Surface returns the surface the node was created on.
func (n *Node) Surface() *Surface { return n.surface }

// RelatedCount returns the number of direct children (bottom plus filled
// right slots). Hosts use it to decide whether to confirm a cascading
// remove.
func (n *Node) RelatedCount() int {
	c := 0
	if n.bottom != nil {
		c++
	}
	for _, r := range n.right {
		if r != nil {
			c++
		}
	}
	return c
}

// Walk calls fn for n and every node it owns, in pre-order: a node, then
// its right slots in order, then its bottom chain.
func (n *Node) Walk(fn func(*Node)) {
	fn(n)
	for _, r := range n.right {
		if r != nil {
			r.Walk(fn)
		}
	}
	if n.bottom != nil {
		n.bottom.Walk(fn)
	}
}

// Tail returns the last node of the bottom chain starting at n.
func (n *Node) Tail() *Node {
	t := n
	for t.bottom != nil {
		t = t.bottom
	}
	return t
}

// Root returns the top-most ancestor of n.
func (n *Node) Root() *Node {
	r := n
	for r.parent != nil {
		r = r.parent
	}
	return r
}

// IsAncestorOf reports whether n owns m, directly or transitively.
func (n *Node) IsAncestorOf(m *Node) bool {
	for p := m.parent; p != nil; p = p.parent {
		if p == n {
			return true
		}
	}
	return false
}

// Resize sets the node's size, raised to the minimum for its kind and slot
// count, regenerates the outline and re-derives child positions.
func (n *Node) Resize(s block.Size) {
	if n.removed {
		return
	}
	n.meta.Size = block.ClampSize(n.meta.Kind, n.meta.SlotCount, s)
	n.outline = geometry.DrawOutline(n.meta)
	n.layoutChildren()
}

// SetSlotCount changes the number of right slots and the height that goes
// with them. Children in slots that survive keep their index; children
// beyond the new count are popped up. Blocks without a right plug always
// have zero slots.
func (n *Node) SetSlotCount(count int) {
	if n.removed {
		return
	}
	if count < 0 || !n.meta.Variant.Has(block.RightPlug) {
		count = 0
	}
	var dropped []*Node
	if count < len(n.right) {
		for _, r := range n.right[count:] {
			if r != nil {
				dropped = append(dropped, r)
			}
		}
	}
	for _, r := range dropped {
		r.PopUp()
	}
	right := make([]*Node, count)
	copy(right, n.right)
	n.right = right

	// Height follows the slot count; any extra height the host added is kept.
	s := n.meta.Size
	s.H += block.MinHeight(n.meta.Kind, count) - block.MinHeight(n.meta.Kind, n.meta.SlotCount)
	n.meta.SlotCount = count
	n.Resize(s)
}

// Relayout re-derives the slot layout from the template's display text in
// lang. Hosts call it after a language change.
func (n *Node) Relayout(lang string) {
	if n.removed {
		return
	}
	n.lang = lang
	n.SetSlotCount(n.tmpl.SlotCount(lang))
}

// SetPosition moves the node to (x, y), or by (x, y) when relative is set,
// and moves its whole owned subtree with it.
func (n *Node) SetPosition(x, y float64, relative bool) {
	if n.removed {
		return
	}
	if relative {
		x += n.x
		y += n.y
	}
	n.x, n.y = x, y
	n.layoutChildren()
}

// ChildOffset returns where a child docked to n sits relative to n: right
// slot i for slot >= 0, the bottom position for [AttachedBottom].
func (n *Node) ChildOffset(slot int) geometry.Point {
	if slot == AttachedBottom {
		return geometry.Point{X: 0, Y: n.meta.Size.H}
	}
	return geometry.Point{X: n.meta.Size.W, Y: block.SlotOffset(n.meta.Kind, slot)}
}

func (n *Node) layoutChildren() {
	if n.bottom != nil {
		off := n.ChildOffset(AttachedBottom)
		n.bottom.SetPosition(n.x+off.X, n.y+off.Y, false)
	}
	for i, r := range n.right {
		if r != nil {
			off := n.ChildOffset(i)
			r.SetPosition(n.x+off.X, n.y+off.Y, false)
		}
	}
}
