// Package codegen turns an assembled block graph into program text.
//
// Every block carries a code template whose "&name" markers name its value
// slots. Generating a block substitutes each marker with the code generated
// for the block docked in that slot, then appends the code of the blocks
// docked below it, one per line:
//
//	run(&speed)  +  [num "10"] in slot "speed"   =>   run(10)
//	step()       +  below it: run(10)             =>   step()\nrun(10)
//
// Slot names are matched by position: the i-th marker of the display text
// in the node's layout language is right slot i.
package codegen

import (
	"cmp"
	"slices"
	"strings"

	"github.com/matzehuels/blockdock/pkg/block"
	bderrors "github.com/matzehuels/blockdock/pkg/errors"
	"github.com/matzehuels/blockdock/pkg/node"
)

// Options controls code generation.
type Options struct {
	// Placeholder replaces markers whose slot is empty.
	Placeholder string
	// Separator goes between sequential statements. Default "\n".
	Separator string
}

func (o Options) separator() string {
	if o.Separator == "" {
		return "\n"
	}
	return o.Separator
}

// Generate returns the code for root and everything docked to it.
func Generate(root *node.Node, opts Options) (string, error) {
	if root == nil {
		return "", bderrors.New(bderrors.ErrCodeInvalidInput, "nil node")
	}
	if root.Removed() {
		return "", bderrors.New(bderrors.ErrCodeInvalidInput, "node %s was removed", root.ID())
	}
	var lines []string
	for n := root; n != nil; n = n.Bottom() {
		line, err := expr(n, opts)
		if err != nil {
			return "", err
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, opts.separator()), nil
}

// GenerateSurface returns the code for every script on s, top to bottom
// then left to right, separated by blank lines.
func GenerateSurface(s *node.Surface, opts Options) (string, error) {
	roots := s.Roots()
	slices.SortStableFunc(roots, func(a, b *node.Node) int {
		pa, pb := a.Position(), b.Position()
		return cmp.Or(cmp.Compare(pa.Y, pb.Y), cmp.Compare(pa.X, pb.X))
	})

	scripts := make([]string, 0, len(roots))
	for _, r := range roots {
		code, err := Generate(r, opts)
		if err != nil {
			return "", err
		}
		scripts = append(scripts, code)
	}
	return strings.Join(scripts, opts.separator()+opts.separator()), nil
}

// expr substitutes n's slots. Slot children are generated with their own
// bottom chains so nothing docked is dropped. A name shown twice in the
// display text names two slots: the k-th "&name" of the code template binds
// to the k-th slot of that name, and surplus markers reuse the last one.
func expr(n *node.Node, opts Options) (string, error) {
	slots := make(map[string][]int)
	for i, name := range n.Template().Slots(n.Lang()) {
		slots[name] = append(slots[name], i)
	}
	seen := make(map[string]int)
	var firstErr error
	code := block.ReplaceSlots(n.Template().Code, func(name string) string {
		idx := slots[name]
		if len(idx) == 0 {
			return opts.Placeholder
		}
		k := min(seen[name], len(idx)-1)
		seen[name]++
		child := n.Right(idx[k])
		if child == nil {
			return opts.Placeholder
		}
		code, err := Generate(child, opts)
		if err != nil && firstErr == nil {
			firstErr = err
		}
		return code
	})
	return code, firstErr
}
