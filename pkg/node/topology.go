package node

import (
	"github.com/matzehuels/blockdock/pkg/block"
	"github.com/matzehuels/blockdock/pkg/geometry"
)

// Detach clears the link to the parent on both sides and raises the node's
// subtree to the top of the stacking order. Position is unchanged.
func (n *Node) Detach() {
	if n.removed || n.parent == nil {
		return
	}
	p := n.parent
	switch {
	case n.slot == AttachedBottom:
		p.bottom = nil
	case n.slot > 0 && n.slot <= len(p.right):
		p.right[n.slot-1] = nil
	}
	n.parent = nil
	n.slot = Detached
	n.surface.raise(n)
}

// PopUp detaches the node and nudges its subtree by [PopUpOffset]. Roots
// are left alone.
func (n *Node) PopUp() {
	if n.removed || n.parent == nil {
		return
	}
	n.Detach()
	n.SetPosition(PopUpOffset.X, PopUpOffset.Y, true)
}

// CanAttachBottom reports whether child fits below n: n exposes a bottom
// plug and child is a statement with a top socket.
func (n *Node) CanAttachBottom(child *Node) bool {
	return n.meta.Variant.Has(block.BottomPlug) &&
		child.meta.Kind.IsStatement() &&
		child.meta.Variant.Has(block.TopSocket)
}

// CanAttachRight reports whether child fits in right slot i of n: the slot
// exists and child has a left tab.
func (n *Node) CanAttachRight(child *Node, i int) bool {
	return i >= 0 && i < len(n.right) &&
		!child.meta.Kind.IsHat() &&
		child.meta.Variant.Has(block.LeftSocket)
}

// linkable rejects removed nodes, nodes from other surfaces and links that
// would make a node its own ancestor.
func (n *Node) linkable(child *Node) bool {
	if child == nil || child == n || n.removed || child.removed {
		return false
	}
	return n.surface == child.surface && !child.IsAncestorOf(n)
}

// AttachBottom docks child below n. child is detached first. If n already
// has a bottom chain, it is spliced onto the tail of child's chain so the
// sequence order is kept; when that tail has no bottom plug the old chain
// is popped up instead. It returns false and changes nothing when the link
// is not allowed.
func (n *Node) AttachBottom(child *Node) bool {
	if !n.linkable(child) || !n.CanAttachBottom(child) {
		return false
	}
	child.Detach()

	old := n.bottom
	n.bottom = child
	child.parent = n
	child.slot = AttachedBottom

	if old != nil {
		tail := child.Tail()
		if tail.CanAttachBottom(old) {
			tail.bottom = old
			old.parent = tail
		} else {
			old.parent = nil
			old.slot = Detached
			n.surface.raise(old)
			old.SetPosition(PopUpOffset.X, PopUpOffset.Y, true)
		}
	}
	n.layoutChildren()
	return true
}

// AttachRight docks child into right slot i of n, popping up the previous
// occupant. It returns false and changes nothing when the link is not
// allowed.
func (n *Node) AttachRight(child *Node, i int) bool {
	if !n.linkable(child) || !n.CanAttachRight(child, i) {
		return false
	}
	child.Detach()
	if occ := n.right[i]; occ != nil {
		occ.PopUp()
	}
	n.right[i] = child
	child.parent = n
	child.slot = i + 1
	n.layoutChildren()
	return true
}

// Clone deep-copies n and its owned subtree onto the same surface, offset
// by off. The copies are linked the same way as the originals.
func (n *Node) Clone(off geometry.Point) *Node {
	if n.removed {
		return nil
	}
	c := n.surface.register(n.tmpl.Clone(), n.lang)
	c.meta = n.meta
	c.right = make([]*Node, len(n.right))
	c.outline = n.outline
	c.SetPosition(n.x+off.X, n.y+off.Y, false)

	for i, r := range n.right {
		if r != nil {
			c.AttachRight(r.Clone(off), i)
		}
	}
	if n.bottom != nil {
		c.AttachBottom(n.bottom.Clone(off))
	}
	return c
}

// RemoveCascade removes n and everything it owns from the surface and
// returns how many nodes were removed.
func (n *Node) RemoveCascade() int {
	if n.removed {
		return 0
	}
	n.Detach()
	var doomed []*Node
	n.Walk(func(m *Node) { doomed = append(doomed, m) })
	for _, m := range doomed {
		m.drop()
	}
	return len(doomed)
}

// RemoveSelfOnly removes just n. A bottom-attached node hands its bottom
// chain to its former parent. Right-slot children, and every child of a
// root or right-slot node, are popped up since they have nowhere to go.
func (n *Node) RemoveSelfOnly() {
	if n.removed {
		return
	}
	parent, slot, next := n.parent, n.slot, n.bottom
	n.Detach()

	for _, r := range n.right {
		if r != nil {
			r.PopUp()
		}
	}
	if next != nil {
		if slot == AttachedBottom {
			next.Detach()
			parent.AttachBottom(next)
		} else {
			next.PopUp()
		}
	}
	n.drop()
}

// drop marks a childless or doomed node removed and unregisters it.
func (n *Node) drop() {
	n.removed = true
	n.parent = nil
	n.bottom = nil
	clear(n.right)
	n.slot = Detached
	n.surface.unregister(n)
}
