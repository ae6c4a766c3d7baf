package geometry

import (
	"fmt"
	"math"
	"strings"
)

// Point is a position in y-down surface coordinates.
type Point struct {
	X, Y float64
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

// Sub returns p - q.
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// Scale returns p scaled by f.
func (p Point) Scale(f float64) Point { return Point{p.X * f, p.Y * f} }

// Dist returns the Euclidean distance between p and q.
func (p Point) Dist(q Point) float64 { return math.Hypot(p.X-q.X, p.Y-q.Y) }

// SegmentKind distinguishes straight and circular segments.
type SegmentKind int

const (
	Line SegmentKind = iota
	Arc
)

// Segment is one piece of an outline, ending at To. Arc segments start at
// the previous segment's end and sweep around Center with Radius.
type Segment struct {
	Kind      SegmentKind
	To        Point
	Center    Point   // arcs only
	Radius    float64 // arcs only
	Clockwise bool    // arcs only; clockwise on screen (y down)
}

// Path is an outline made of line and arc segments, starting at Start.
type Path struct {
	Start    Point
	Segments []Segment
}

// End returns the last point of the path.
func (p Path) End() Point {
	if len(p.Segments) == 0 {
		return p.Start
	}
	return p.Segments[len(p.Segments)-1].To
}

// Closed reports whether the path ends exactly where it starts.
func (p Path) Closed() bool { return len(p.Segments) > 0 && p.End() == p.Start }

// ArcCount returns the number of arc segments.
func (p Path) ArcCount() int { return p.count(Arc) }

// LineCount returns the number of line segments.
func (p Path) LineCount() int { return p.count(Line) }

func (p Path) count(k SegmentKind) int {
	n := 0
	for _, s := range p.Segments {
		if s.Kind == k {
			n++
		}
	}
	return n
}

// Translate returns a copy of p moved by (dx, dy).
func (p Path) Translate(dx, dy float64) Path {
	d := Point{dx, dy}
	out := Path{Start: p.Start.Add(d), Segments: make([]Segment, len(p.Segments))}
	for i, s := range p.Segments {
		s.To = s.To.Add(d)
		if s.Kind == Arc {
			s.Center = s.Center.Add(d)
		}
		out.Segments[i] = s
	}
	return out
}

// Bounds returns the axis-aligned bounding box of the segment end points
// and arc extremes.
func (p Path) Bounds() (min, max Point) {
	min, max = p.Start, p.Start
	grow := func(q Point) {
		min.X, min.Y = math.Min(min.X, q.X), math.Min(min.Y, q.Y)
		max.X, max.Y = math.Max(max.X, q.X), math.Max(max.Y, q.Y)
	}
	prev := p.Start
	for _, s := range p.Segments {
		grow(s.To)
		if s.Kind == Arc {
			for _, q := range arcExtremes(prev, s) {
				grow(q)
			}
		}
		prev = s.To
	}
	return min, max
}

// arcExtremes returns the axis-extreme points of the circle that the arc
// from "from" to s.To passes through.
func arcExtremes(from Point, s Segment) []Point {
	a0 := math.Atan2(from.Y-s.Center.Y, from.X-s.Center.X)
	a1 := math.Atan2(s.To.Y-s.Center.Y, s.To.X-s.Center.X)
	var out []Point
	for _, a := range []float64{0, math.Pi / 2, math.Pi, 3 * math.Pi / 2} {
		if angleWithin(a0, a1, a, s.Clockwise) {
			out = append(out, Point{
				X: s.Center.X + s.Radius*math.Cos(a),
				Y: s.Center.Y + s.Radius*math.Sin(a),
			})
		}
	}
	return out
}

// angleWithin reports whether a lies on the sweep from a0 to a1. In y-down
// coordinates a clockwise sweep increases the angle.
func angleWithin(a0, a1, a float64, clockwise bool) bool {
	norm := func(x float64) float64 {
		x = math.Mod(x, 2*math.Pi)
		if x < 0 {
			x += 2 * math.Pi
		}
		return x
	}
	if !clockwise {
		a0, a1 = a1, a0
	}
	return norm(a-a0) <= norm(a1-a0)
}

// SVG returns the path as SVG path data. Arcs use the small-arc flag since
// every arc the engine draws spans at most half a circle.
func (p Path) SVG() string {
	var b strings.Builder
	fmt.Fprintf(&b, "M%s,%s", num(p.Start.X), num(p.Start.Y))
	for _, s := range p.Segments {
		switch s.Kind {
		case Line:
			fmt.Fprintf(&b, " L%s,%s", num(s.To.X), num(s.To.Y))
		case Arc:
			sweep := 0
			if s.Clockwise {
				sweep = 1
			}
			fmt.Fprintf(&b, " A%s,%s 0 0 %d %s,%s", num(s.Radius), num(s.Radius), sweep, num(s.To.X), num(s.To.Y))
		}
	}
	b.WriteString(" Z")
	return b.String()
}

// num formats a coordinate with at most two decimals and no trailing zeros.
func num(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	if s == "-0" {
		return "0"
	}
	return s
}
