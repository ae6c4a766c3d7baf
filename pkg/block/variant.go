package block

import "strings"

// Variant is the socket mask of a block. The low four bits select which
// edges expose a socket (concave, receives) or a plug (convex, inserts);
// the high four bits hold the branch-section count of multi-branch blocks.
type Variant uint8

const (
	// LeftSocket draws a male tab on the left edge; the block can fill a
	// right-side value slot of another block.
	LeftSocket Variant = 1 << iota
	// TopSocket draws a female socket on the top edge; the block can dock
	// below another block.
	TopSocket
	// RightPlug draws one female slot socket per value slot on the right edge.
	RightPlug
	// BottomPlug draws a male tab on the bottom edge; the block accepts a
	// bottom child.
	BottomPlug
)

const (
	socketMask   Variant = 0x0f
	branchShift          = 4
	maxBranches          = 0x0f
)

// Has reports whether all bits of flag are set.
func (v Variant) Has(flag Variant) bool { return v&flag == flag }

// Sockets returns the variant with the branch bits cleared.
func (v Variant) Sockets() Variant { return v & socketMask }

// Branches returns the branch-section count stored in the high bits.
func (v Variant) Branches() int { return int(v >> branchShift) }

// WithBranches returns v with its branch count replaced. Counts above 15
// are clamped.
func (v Variant) WithBranches(n int) Variant {
	n = max(0, min(n, maxBranches))
	return v.Sockets() | Variant(n)<<branchShift
}

// String lists the set flags, e.g. "top|bottom".
func (v Variant) String() string {
	var parts []string
	for _, f := range []struct {
		flag Variant
		name string
	}{
		{LeftSocket, "left"},
		{TopSocket, "top"},
		{RightPlug, "right"},
		{BottomPlug, "bottom"},
	} {
		if v.Has(f.flag) {
			parts = append(parts, f.name)
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}
