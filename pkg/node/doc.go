// Package node owns the attachment topology of placed blocks.
//
// # Overview
//
// A [Node] is one block placed on a [Surface]. Nodes form trees: each node
// owns at most one bottom child (the next statement in a sequence) and one
// child per right-side value slot. The parent pointer is a plain
// back-reference for detach bookkeeping.
//
// After every exported operation these hold:
//
//   - A node has at most one parent, and [Node.DependentSlot] agrees with the
//     parent's child link ([AttachedBottom], [Detached], or slot index + 1).
//   - len(RightChildren()) == SlotCount().
//   - The bottom child sits at (x, y+H) and right child i at
//     (x+W, y+SlotOffset(i)); moving a node moves its whole subtree.
//   - No node is its own ancestor.
//
// [Surface.Validate] checks all of them.
//
// # Creating Nodes
//
//	s := node.NewSurface(catalog)          // any node.Factory
//	n, err := s.CreateFromID("motor.run")  // or s.Create(tmpl)
//	n.SetPosition(40, 80, false)
//
// # Docking
//
// [Node.AttachBottom] splices: an existing bottom chain moves to the tail of
// the inserted chain. [Node.AttachRight] pops the previous slot occupant up
// by [PopUpOffset]. Both refuse removed nodes, incompatible sockets and
// cycles by returning false. Package dock decides when to call them.
//
// # Removal
//
// [Node.RemoveCascade] removes a subtree. [Node.RemoveSelfOnly] keeps the
// sequence below a bottom-attached node by handing it to the former parent;
// children of roots and right-slot nodes are popped up instead. Removed
// nodes ignore every further mutation.
package node
