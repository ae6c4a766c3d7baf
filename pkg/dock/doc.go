// Package dock decides, while a block is dragged, whether and where it
// snaps onto another block.
//
// # Overview
//
// An [Engine] watches one node.Surface. Each drag goes through a [Drag]:
//
//	e := dock.New(surface, dock.DefaultConfig())
//	d := e.Begin(n)          // detaches n from its parent
//	dec := d.Move(dx, dy)    // per pointer tick
//	if dec.Docked() {
//	    draw(e.Ghost())      // preview at the anchor
//	}
//	dec = d.End()            // commits the pending link, if any
//
// # Decision
//
// On every tick the mover's box is compared with every live node except the
// mover's own subtree. [Quadrant] classifies each pair per axis with a slack
// tolerance. Only two placements dock:
//
//   - right of the candidate (+1, 0): the candidate has right slots and the
//     mover a left tab; the slot is the one nearest the mover's top edge
//   - below the candidate (0, +1): the candidate has a bottom plug and the
//     mover is a statement with a top socket
//
// The gap along the docking axis must not exceed the snap threshold. The
// candidate with the smallest gap wins; ties go to the candidate on top.
//
// # Delete Zone
//
// When a trash center is configured, a mover whose center comes within
// max(width, height)/TrashDivisor of it reports Trash and skips docking.
// [Drag.MoveInViewport] runs the same test in screen coordinates with
// ScreenTrashDivisor. Removal itself is left to the host.
package dock
