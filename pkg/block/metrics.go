package block

// Outline and placement metrics, in surface units.
const (
	CornerRadius   = 4.0  // radius of the four outer corners
	NotchHalfWidth = 6.0  // half the width of a socket or plug
	NotchDepth     = 6.0  // how far a socket cuts in or a plug sticks out
	NotchRadius    = 3.0  // radius of the two arcs inside a notch
	NotchInset     = 8.0  // run between a corner and the top/bottom notch
	SlotPitch      = 30.0 // vertical spacing of right-side value slots
	BaseHeight     = 30.0 // height of a block without slots
	HatRise        = 12.0 // height of the hat bump
	HatBumpWidth   = 80.0 // chord of the hat bump
)

// NotchWidth is the full width of a socket or plug.
const NotchWidth = 2 * NotchHalfWidth

var minWidths = [...]float64{
	Event:   80,
	Hat:     100,
	Process: 100,
	Action:  60,
	Value:   40,
}

// Size is a block's width and height.
type Size struct {
	W, H float64
}

// Meta is everything the outline of a block depends on.
type Meta struct {
	Kind      Kind
	Variant   Variant
	SlotCount int
	Size      Size
}

// MinWidth returns the narrowest allowed width for kind.
func MinWidth(k Kind) float64 {
	if !k.Valid() {
		return minWidths[Process]
	}
	return minWidths[k]
}

// MinHeight returns the lowest allowed height for kind with slotCount
// value slots: one slot pitch per slot, never below BaseHeight. Hats add
// room for their bump.
func MinHeight(k Kind, slotCount int) float64 {
	h := max(BaseHeight, float64(max(slotCount, 0))*SlotPitch)
	if k.IsHat() {
		h += HatRise
	}
	return h
}

// ClampSize raises s to the minimum for kind and slotCount. NaN counts as
// below the minimum.
func ClampSize(k Kind, slotCount int, s Size) Size {
	return Size{
		W: atLeast(s.W, MinWidth(k)),
		H: atLeast(s.H, MinHeight(k, slotCount)),
	}
}

func atLeast(v, lo float64) float64 {
	if v >= lo {
		return v
	}
	return lo
}

// SlotTop returns the offset from a block's top edge to its first value
// slot. Hats keep their slots below the bump.
func SlotTop(k Kind) float64 {
	if k.IsHat() {
		return HatRise
	}
	return 0
}

// SlotOffset returns the offset of slot i from a block's top edge.
func SlotOffset(k Kind, i int) float64 {
	return SlotTop(k) + float64(i)*SlotPitch
}
