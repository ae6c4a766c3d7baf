// Package geometry derives the puzzle-piece outline of a block.
//
// # Overview
//
// [DrawOutline] is a pure function of a block's [block.Meta] (kind, variant,
// slot count and size). It traces a closed [Path] of line and circular-arc
// segments clockwise on screen, starting near the top-left corner:
//
//   - Top edge: a female socket for statement kinds with a top socket, a
//     rounded bump for hats, otherwise a straight run.
//   - Right edge: one female socket per value slot when the right plug bit
//     is set, spaced at [block.SlotPitch].
//   - Bottom edge: a male tab when the bottom plug bit is set.
//   - Left edge: a male tab when the left socket bit is set, so the block
//     fits a value slot of another block.
//
// Sockets cut into the body and plugs stick out of it, so a plug drawn
// outside a block's box lands exactly in the socket of the block it docks
// to. Every arc carries its sweep direction, which keeps the path closed
// and free of self-intersections for any size at or above the kind minimum.
//
// # Output
//
// [Path.SVG] turns a path into SVG path data for the host renderer:
//
//	p := geometry.DrawOutline(block.Meta{
//	    Kind:    block.Process,
//	    Variant: block.TopSocket | block.BottomPlug,
//	    Size:    block.Size{W: 120, H: 30},
//	})
//	d := p.Translate(x, y).SVG() // "M…,… L… A… Z"
package geometry
