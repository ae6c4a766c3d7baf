package styles

import (
	"bytes"
	"fmt"
)

// Simple draws flat outlines in the block's own colors with plain labels.
type Simple struct{}

// RenderDefs writes nothing; Simple needs no shared definitions.
func (Simple) RenderDefs(buf *bytes.Buffer) {}

func (Simple) RenderBlock(buf *bytes.Buffer, b Block) {
	opacity := ""
	if b.Opacity > 0 && b.Opacity < 1 {
		opacity = fmt.Sprintf(` fill-opacity="%.2f"`, b.Opacity)
	}
	fmt.Fprintf(buf, `  <path id="block-%s" class="block" data-template="%s" d="%s" fill="%s" stroke="%s" stroke-width="1"%s/>`+"\n",
		EscapeXML(b.ID), EscapeXML(b.Template), b.Path, b.Fill, b.Stroke, opacity)
}

func (Simple) RenderText(buf *bytes.Buffer, b Block) {
	if b.Label == "" {
		return
	}
	size := FontSize(b)
	x := b.X + textInset
	y := b.Y + b.SlotTop + min(b.H-b.SlotTop, textLineHeight)/2
	fmt.Fprintf(buf, `  <text class="block-text" data-block="%s" x="%.2f" y="%.2f" font-family="sans-serif" font-size="%.1f" fill="white" dominant-baseline="middle">%s</text>`+"\n",
		EscapeXML(b.ID), x, y, size, EscapeXML(TruncateLabel(b)))
}

func (Simple) RenderGhost(buf *bytes.Buffer, g Ghost) {
	fmt.Fprintf(buf, `  <path class="ghost" d="%s" fill="none" stroke="#666" stroke-width="1.5" stroke-dasharray="4,3"/>`+"\n", g.Path)
}

var _ Style = Simple{}
