package styles

import "bytes"

// Style defines the visual appearance of a rendered surface.
// Implementations control how block outlines, labels and the drop
// preview are drawn.
type Style interface {
	// RenderDefs writes SVG <defs> content (filters, patterns, gradients).
	RenderDefs(buf *bytes.Buffer)
	// RenderBlock writes the SVG for a single block outline.
	RenderBlock(buf *bytes.Buffer, b Block)
	// RenderText writes the SVG for a block's label text.
	RenderText(buf *bytes.Buffer, b Block)
	// RenderGhost writes the SVG for the drop preview of a drag.
	RenderGhost(buf *bytes.Buffer, g Ghost)
}

// Block contains all data needed to render a single block.
type Block struct {
	ID         string  // Node identifier
	Template   string  // Template identifier
	Label      string  // Display text with slot markers removed
	Path       string  // SVG path data, already in surface coordinates
	X, Y, W, H float64 // Bounding box of the block body
	Fill       string  // Fill color, "#rrggbb"
	Stroke     string  // Border color, "#rrggbb"
	Opacity    float64 // Fill opacity in [0,1]
	SlotTop    float64 // Offset of the first value slot from Y
}

// Ghost contains the outline of a drop preview.
type Ghost struct {
	Path       string
	X, Y, W, H float64
}
