package sink

import (
	"bytes"
	"fmt"
	"math"

	"github.com/matzehuels/blockdock/pkg/block"
	"github.com/matzehuels/blockdock/pkg/dock"
	"github.com/matzehuels/blockdock/pkg/geometry"
	"github.com/matzehuels/blockdock/pkg/node"
	"github.com/matzehuels/blockdock/pkg/render/styles"
)

// DefaultPadding is the margin around the drawn content.
const DefaultPadding = 20.0

type SVGOption func(*svgRenderer)

type svgRenderer struct {
	style   styles.Style
	ghost   *dock.Ghost
	padding float64
	noText  bool
}

func WithStyle(s styles.Style) SVGOption { return func(r *svgRenderer) { r.style = s } }
func WithPadding(p float64) SVGOption     { return func(r *svgRenderer) { r.padding = max(0, p) } }
func WithoutText() SVGOption              { return func(r *svgRenderer) { r.noText = true } }

// WithGhost draws the drop preview of a drag when it is visible.
func WithGhost(g dock.Ghost) SVGOption {
	return func(r *svgRenderer) {
		if g.Visible {
			r.ghost = &g
		}
	}
}

// RenderSVG draws every live node of s in stacking order, so blocks raised
// by a drag are drawn on top. The view box covers all outlines, including
// tabs that stick out of the block bodies, plus padding.
func RenderSVG(s *node.Surface, opts ...SVGOption) []byte {
	r := newSVGRenderer(opts...)

	nodes := s.Nodes()
	blocks := make([]styles.Block, 0, len(nodes))
	bounds := newExtent()
	for _, n := range nodes {
		b := buildBlock(n)
		blocks = append(blocks, b)
		bounds.addPath(n.Outline(), n.Position())
	}

	var ghost *styles.Ghost
	if r.ghost != nil {
		ghost = &styles.Ghost{
			Path: r.ghost.Outline.Translate(r.ghost.Box.X, r.ghost.Box.Y).SVG(),
			X:    r.ghost.Box.X, Y: r.ghost.Box.Y, W: r.ghost.Box.W, H: r.ghost.Box.H,
		}
		bounds.addPath(r.ghost.Outline, r.ghost.Box.Origin())
	}

	minX, minY, w, h := bounds.viewBox(r.padding)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="%.1f %.1f %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		minX, minY, w, h, w, h)
	r.style.RenderDefs(&buf)
	for _, b := range blocks {
		r.style.RenderBlock(&buf, b)
		if !r.noText {
			r.style.RenderText(&buf, b)
		}
	}
	if ghost != nil {
		r.style.RenderGhost(&buf, *ghost)
	}
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func newSVGRenderer(opts ...SVGOption) svgRenderer {
	r := svgRenderer{style: styles.Simple{}, padding: DefaultPadding}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

func buildBlock(n *node.Node) styles.Block {
	box := n.Box()
	c := n.Color()
	return styles.Block{
		ID:       n.ID(),
		Template: n.Template().ID,
		Label:    styles.Label(n.Text()),
		Path:     n.Outline().Translate(box.X, box.Y).SVG(),
		X:        box.X, Y: box.Y, W: box.W, H: box.H,
		Fill:    c.Hex(),
		Stroke:  c.Border().Hex(),
		Opacity: float64(c.A) / 255,
		SlotTop: block.SlotTop(n.Kind()),
	}
}

type extent struct {
	min, max geometry.Point
}

func newExtent() *extent {
	return &extent{
		min: geometry.Point{X: math.Inf(1), Y: math.Inf(1)},
		max: geometry.Point{X: math.Inf(-1), Y: math.Inf(-1)},
	}
}

func (e *extent) addPath(p geometry.Path, at geometry.Point) {
	lo, hi := p.Bounds()
	e.min.X = min(e.min.X, lo.X+at.X)
	e.min.Y = min(e.min.Y, lo.Y+at.Y)
	e.max.X = max(e.max.X, hi.X+at.X)
	e.max.Y = max(e.max.Y, hi.Y+at.Y)
}

func (e *extent) viewBox(pad float64) (x, y, w, h float64) {
	if math.IsInf(e.min.X, 1) {
		return 0, 0, 2 * pad, 2 * pad
	}
	return e.min.X - pad, e.min.Y - pad, e.max.X - e.min.X + 2*pad, e.max.Y - e.min.Y + 2*pad
}
