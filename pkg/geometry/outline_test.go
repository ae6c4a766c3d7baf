package geometry

import (
	"fmt"
	"strings"
	"testing"

	"github.com/matzehuels/blockdock/pkg/block"
)

func allMetas() []block.Meta {
	var metas []block.Meta
	sizes := []block.Size{{}, {W: 150, H: 0}, {W: 240, H: 180}}
	for _, k := range block.Kinds {
		for v := block.Variant(0); v < 16; v++ {
			for slots := 0; slots <= 4; slots++ {
				for _, s := range sizes {
					metas = append(metas, block.Meta{
						Kind:      k,
						Variant:   v,
						SlotCount: slots,
						Size:      block.ClampSize(k, slots, s),
					})
				}
			}
		}
	}
	return metas
}

func TestDrawOutlineClosed(t *testing.T) {
	for _, m := range allMetas() {
		p := DrawOutline(m)
		if !p.Closed() {
			t.Errorf("%s/%v/%d slots/%v: path not closed, start %v end %v",
				m.Kind, m.Variant, m.SlotCount, m.Size, p.Start, p.End())
		}
	}
}

func TestDrawOutlineNoSelfIntersection(t *testing.T) {
	for _, m := range allMetas() {
		p := DrawOutline(m)
		pts := vertices(p)
		n := len(pts) - 1
		for i := 0; i < n; i++ {
			for j := i + 2; j < n; j++ {
				if i == 0 && j == n-1 {
					continue // first and last edges share the start point
				}
				if properIntersect(pts[i], pts[i+1], pts[j], pts[j+1]) {
					t.Fatalf("%s/%v/%d slots: edges %d and %d cross", m.Kind, m.Variant, m.SlotCount, i, j)
				}
			}
		}
	}
}

func TestDrawOutlineArcCount(t *testing.T) {
	tests := []struct {
		name    string
		kind    block.Kind
		variant block.Variant
		slots   int
		want    int
	}{
		{"process right plug, no slots", block.Process, block.RightPlug, 0, 4},
		{"process right plug, 1 slot", block.Process, block.RightPlug, 1, 6},
		{"process right plug, 3 slots", block.Process, block.RightPlug, 3, 10},
		{"process slots without plug", block.Process, 0, 3, 4},
		{"process top and bottom", block.Process, block.TopSocket | block.BottomPlug, 0, 8},
		{"process everything, 2 slots", block.Process, 0b1111, 2, 4 + 2*2 + 2 + 2 + 2},
		{"event ignores top socket", block.Event, block.TopSocket, 0, 4},
		{"value with left tab", block.Value, block.LeftSocket, 0, 6},
		{"hat plain", block.Hat, 0, 0, 4},
		{"hat ignores top and left", block.Hat, block.TopSocket | block.LeftSocket, 0, 4},
		{"hat with bottom and slot", block.Hat, block.BottomPlug | block.RightPlug, 1, 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := block.Meta{Kind: tt.kind, Variant: tt.variant, SlotCount: tt.slots}
			if got := DrawOutline(m).ArcCount(); got != tt.want {
				t.Errorf("ArcCount() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestDrawOutlineArcCountProperty(t *testing.T) {
	for slots := 0; slots <= 12; slots++ {
		m := block.Meta{Kind: block.Process, Variant: block.RightPlug, SlotCount: slots}
		if got, want := DrawOutline(m).ArcCount(), 4+2*slots; got != want {
			t.Errorf("%d slots: ArcCount() = %d, want %d", slots, got, want)
		}
	}
}

func TestDrawOutlineStart(t *testing.T) {
	body := DrawOutline(block.Meta{Kind: block.Process})
	if body.Start != (Point{block.CornerRadius, 0}) {
		t.Errorf("body start = %v", body.Start)
	}
	hat := DrawOutline(block.Meta{Kind: block.Hat})
	if hat.Start != (Point{0, block.HatRise}) {
		t.Errorf("hat start = %v", hat.Start)
	}
}

func TestDrawOutlineClampsSize(t *testing.T) {
	tiny := DrawOutline(block.Meta{Kind: block.Process, Size: block.Size{W: 1, H: 1}})
	min := DrawOutline(block.Meta{Kind: block.Process, Size: block.ClampSize(block.Process, 0, block.Size{})})
	if tiny.SVG() != min.SVG() {
		t.Errorf("undersized outline should match the minimum outline\n got: %s\nwant: %s", tiny.SVG(), min.SVG())
	}
}

func TestDrawOutlineBounds(t *testing.T) {
	m := block.Meta{
		Kind:    block.Process,
		Variant: block.TopSocket | block.BottomPlug | block.LeftSocket,
		Size:    block.Size{W: 120, H: 30},
	}
	lo, hi := DrawOutline(m).Bounds()
	if lo.X != -block.NotchDepth || lo.Y != 0 {
		t.Errorf("min = %v, want (-%v, 0)", lo, block.NotchDepth)
	}
	if hi.X != 120 || hi.Y != 30+block.NotchDepth {
		t.Errorf("max = %v, want (120, %v)", hi, 30+block.NotchDepth)
	}

	hat := DrawOutline(block.Meta{Kind: block.Hat, Size: block.Size{W: 120, H: 42}})
	lo, _ = hat.Bounds()
	if lo.Y > 1e-9 || lo.Y < -1e-9 {
		t.Errorf("hat bump top = %v, want 0", lo.Y)
	}
}

func TestDrawOutlineDeterministic(t *testing.T) {
	m := block.Meta{Kind: block.Action, Variant: 0b1111, SlotCount: 2, Size: block.Size{W: 90, H: 60}}
	if DrawOutline(m).SVG() != DrawOutline(m).SVG() {
		t.Error("DrawOutline() should be deterministic")
	}
}

func TestPathSVG(t *testing.T) {
	p := DrawOutline(block.Meta{Kind: block.Process, Variant: block.RightPlug, SlotCount: 1})
	svg := p.SVG()
	if !strings.HasPrefix(svg, "M") {
		t.Errorf("SVG() should start with M, got: %s", svg)
	}
	if !strings.HasSuffix(svg, "Z") {
		t.Errorf("SVG() should end with Z, got: %s", svg)
	}
	if got := strings.Count(svg, "A"); got != 6 {
		t.Errorf("SVG() has %d arcs, want 6: %s", got, svg)
	}
}

func TestPathTranslate(t *testing.T) {
	p := DrawOutline(block.Meta{Kind: block.Value, Variant: block.LeftSocket})
	moved := p.Translate(100, 50)
	if moved.Start != p.Start.Add(Point{100, 50}) {
		t.Errorf("Translate start = %v", moved.Start)
	}
	if !moved.Closed() {
		t.Error("translated path should stay closed")
	}
	if p.Start != (Point{block.CornerRadius, 0}) {
		t.Error("Translate must not modify the receiver")
	}
}

func ExampleDrawOutline() {
	p := DrawOutline(block.Meta{
		Kind:    block.Value,
		Variant: block.LeftSocket,
		Size:    block.Size{W: 40, H: 30},
	})
	fmt.Println(p.Closed(), p.ArcCount())
	fmt.Println(p.SVG())
	// Output:
	// true 6
	// M4,0 L36,0 A4,4 0 0 1 40,4 L40,26 A4,4 0 0 1 36,30 L4,30 A4,4 0 0 1 0,26 L0,21 L-3,21 A3,3 0 0 1 -6,18 L-6,12 A3,3 0 0 1 -3,9 L0,9 L0,4 A4,4 0 0 1 4,0 Z
}

// vertices returns the polyline through the path's segment end points.
func vertices(p Path) []Point {
	pts := []Point{p.Start}
	for _, s := range p.Segments {
		pts = append(pts, s.To)
	}
	return pts
}

func orient(a, b, c Point) float64 {
	return (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
}

// properIntersect reports whether segments ab and cd cross at a point
// interior to both.
func properIntersect(a, b, c, d Point) bool {
	o1, o2 := orient(a, b, c), orient(a, b, d)
	o3, o4 := orient(c, d, a), orient(c, d, b)
	return o1*o2 < 0 && o3*o4 < 0
}
