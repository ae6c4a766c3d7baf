package geometry

import (
	"github.com/matzehuels/blockdock/pkg/block"
)

const (
	r     = block.CornerRadius
	inset = block.NotchInset
	pitch = block.SlotPitch
	nw    = block.NotchWidth
	nhw   = block.NotchHalfWidth
	nd    = block.NotchDepth
	nr    = block.NotchRadius
)

// Unit directions in y-down coordinates.
var (
	right = Point{1, 0}
	left  = Point{-1, 0}
	down  = Point{0, 1}
	up    = Point{0, -1}
)

// DrawOutline traces the closed puzzle-piece outline of a block at the
// origin, clockwise on screen. The kind selects the profile; the variant
// selects which edges carry a socket or plug; slot count sets the number
// of right-side sockets.
//
// Sizes below the kind minimum are raised to it first. Callers that go
// through node.Resize never hit that path.
func DrawOutline(m block.Meta) Path {
	m.Size = block.ClampSize(m.Kind, m.SlotCount, m.Size)
	if m.Kind.IsHat() {
		return drawHat(m)
	}
	return drawBody(m)
}

// drawBody traces the four-cornered profile shared by events, statements
// and values.
func drawBody(m block.Meta) Path {
	w := m.Size.W
	t := newTracer(Point{r, 0})

	if m.Kind.IsStatement() && m.Variant.Has(block.TopSocket) {
		t.lineTo(Point{r + inset, 0})
		t.notch(right, down) // female: cuts into the body
	}
	t.lineTo(Point{w - r, 0})
	t.arcTo(Point{w, r}, Point{w - r, r})

	rightEdge(t, m)
	bottomEdge(t, m)

	if m.Variant.Has(block.LeftSocket) {
		t.lineTo(Point{0, pitch/2 + nhw})
		t.notch(up, left) // male: sticks out
	}
	t.lineTo(Point{0, r})
	t.arcTo(Point{r, 0}, Point{r, r})
	return t.path
}

// drawHat traces the hat profile: a rounded bump instead of a top edge
// socket, three corners, and a short closing run on the left.
func drawHat(m block.Meta) Path {
	w := m.Size.W
	start := Point{0, block.HatRise}
	t := newTracer(start)

	// The bump spans [0, c] and rises s above its chord, so its circle
	// has radius (c²/4 + s²) / 2s with its center that far below the top.
	c, s := block.HatBumpWidth, block.HatRise
	radius := (c*c/4 + s*s) / (2 * s)
	t.arc(Point{c, s}, Point{c / 2, radius}, radius)

	t.lineTo(Point{w - r, s})
	t.arcTo(Point{w, s + r}, Point{w - r, s + r})

	rightEdge(t, m)
	bottomEdge(t, m)

	t.lineTo(start)
	return t.path
}

func rightEdge(t *tracer, m block.Meta) {
	w, h := m.Size.W, m.Size.H
	if m.Variant.Has(block.RightPlug) {
		for i := range m.SlotCount {
			cy := block.SlotOffset(m.Kind, i) + pitch/2
			t.lineTo(Point{w, cy - nhw})
			t.notch(down, left) // female: receives a value block's tab
		}
	}
	t.lineTo(Point{w, h - r})
	t.arcTo(Point{w - r, h}, Point{w - r, h - r})
}

func bottomEdge(t *tracer, m block.Meta) {
	h := m.Size.H
	if m.Variant.Has(block.BottomPlug) {
		t.lineTo(Point{r + inset + nw, h})
		t.notch(left, down) // male: inserts into the next block's top socket
	}
	t.lineTo(Point{r, h})
	t.arcTo(Point{0, h - r}, Point{r, h - r})
}

// tracer accumulates segments from a current point.
type tracer struct {
	path Path
	cur  Point
}

func newTracer(start Point) *tracer {
	return &tracer{path: Path{Start: start}, cur: start}
}

func (t *tracer) lineTo(q Point) {
	if q == t.cur {
		return
	}
	t.path.Segments = append(t.path.Segments, Segment{Kind: Line, To: q})
	t.cur = q
}

// arcTo draws a notch- or corner-sized arc of the given center.
func (t *tracer) arcTo(q, center Point) {
	t.arc(q, center, q.Dist(center))
}

func (t *tracer) arc(q, center Point, radius float64) {
	a, b := t.cur.Sub(center), q.Sub(center)
	t.path.Segments = append(t.path.Segments, Segment{
		Kind:      Arc,
		To:        q,
		Center:    center,
		Radius:    radius,
		Clockwise: a.X*b.Y-a.Y*b.X > 0,
	})
	t.cur = q
}

// notch draws a socket or plug starting at the current point. d is the
// direction of travel along the edge and n the side the notch bulges
// towards: into the body for a socket, out of it for a plug.
func (t *tracer) notch(d, n Point) {
	p0 := t.cur
	at := func(along, across float64) Point {
		return p0.Add(d.Scale(along)).Add(n.Scale(across))
	}
	t.lineTo(at(0, nd-nr))
	t.arcTo(at(nr, nd), at(nr, nd-nr))
	t.lineTo(at(nw-nr, nd))
	t.arcTo(at(nw, nd-nr), at(nw-nr, nd-nr))
	t.lineTo(at(nw, 0))
}
