package styles

import (
	"bytes"
	"encoding/xml"
	"strings"

	"github.com/matzehuels/blockdock/pkg/block"
)

const (
	textInset      = 8.0
	textLineHeight = 30.0
	fontCharWidth  = 0.55
	fontSizeMin    = 8.0
	fontSizeMax    = 14.0
)

// FontSize returns the label size that fits one slot row of b.
func FontSize(b Block) float64 {
	n := max(1, len([]rune(b.Label)))
	byHeight := textLineHeight * 0.5
	byWidth := (b.W - 2*textInset) / (float64(n) * fontCharWidth)
	return max(fontSizeMin, min(fontSizeMax, byHeight, byWidth))
}

// TruncateLabel shortens the label to fit the block width at [FontSize].
func TruncateLabel(b Block) string {
	label := []rune(b.Label)
	charWidth := FontSize(b) * fontCharWidth
	maxChars := max(3, int((b.W-2*textInset)/charWidth))
	if len(label) <= maxChars {
		return b.Label
	}
	return string(label[:maxChars-2]) + ".."
}

// Label turns display text into a label: every "&name" slot marker
// becomes "( )".
func Label(text string) string {
	return strings.TrimSpace(block.ReplaceSlots(text, func(string) string { return "( )" }))
}

func EscapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
