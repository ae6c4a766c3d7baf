package dock

import "github.com/matzehuels/blockdock/pkg/geometry"

// Quadrant classifies where mover lies relative to candidate on each axis:
// +1 when mover's near edge is past candidate's far edge (right of or below
// it, tolerating an overlap of slack), -1 when mover's far edge is short of
// candidate's near edge by more than slack, else 0.
func Quadrant(mover, candidate geometry.Rect, slack float64) (qx, qy int) {
	return axis(mover.Left(), mover.Right(), candidate.Left(), candidate.Right(), slack),
		axis(mover.Top(), mover.Bottom(), candidate.Top(), candidate.Bottom(), slack)
}

func axis(near, far, cNear, cFar, slack float64) int {
	switch {
	case near > cFar-slack:
		return 1
	case far < cNear-slack:
		return -1
	}
	return 0
}

// Viewport maps surface coordinates to the host's screen: scroll first,
// then zoom.
type Viewport struct {
	Zoom             float64 // 0 means 1
	ScrollX, ScrollY float64
}

func (v Viewport) zoom() float64 {
	if v.Zoom <= 0 {
		return 1
	}
	return v.Zoom
}

// ToScreen converts a surface point to screen coordinates.
func (v Viewport) ToScreen(p geometry.Point) geometry.Point {
	z := v.zoom()
	return geometry.Point{X: (p.X - v.ScrollX) * z, Y: (p.Y - v.ScrollY) * z}
}

// ToSurface converts a screen point to surface coordinates.
func (v Viewport) ToSurface(p geometry.Point) geometry.Point {
	z := v.zoom()
	return geometry.Point{X: p.X/z + v.ScrollX, Y: p.Y/z + v.ScrollY}
}
