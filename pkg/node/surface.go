package node

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/google/uuid"

	"github.com/matzehuels/blockdock/pkg/block"
	bderrors "github.com/matzehuels/blockdock/pkg/errors"
	"github.com/matzehuels/blockdock/pkg/geometry"
)

// Factory looks up block templates by identifier. The catalog implements
// it; implementations may cache decoded templates.
type Factory interface {
	Lookup(id string) (*block.Template, error)
}

// FactoryFunc adapts a function to [Factory].
type FactoryFunc func(id string) (*block.Template, error)

// Lookup calls f(id).
func (f FactoryFunc) Lookup(id string) (*block.Template, error) { return f(id) }

// Surface is the set of live nodes placed on one canvas.
//
// The zero value is not usable - use NewSurface. A Surface is not safe for
// concurrent use; all mutation happens on the host's event loop.
type Surface struct {
	nodes   map[string]*Node
	factory Factory
	lang    string
	nextZ   int
}

// NewSurface returns an empty surface. factory may be nil when nodes are
// only created from templates directly.
func NewSurface(factory Factory) *Surface {
	return &Surface{
		nodes:   make(map[string]*Node),
		factory: factory,
		lang:    block.DefaultLanguage,
	}
}

// Language returns the language new nodes lay out their slots for.
func (s *Surface) Language() string { return s.lang }

// SetLanguage changes the layout language and relayouts every live node.
func (s *Surface) SetLanguage(lang string) {
	s.lang = lang
	for _, n := range s.Nodes() {
		n.Relayout(lang)
	}
}

// Create places a new root node for a deep copy of tmpl at the origin,
// sized to the minimum for its kind and slot count.
func (s *Surface) Create(tmpl *block.Template) *Node {
	n := s.register(tmpl.Clone(), s.lang)
	n.meta = n.tmpl.Meta(s.lang)
	n.right = make([]*Node, n.meta.SlotCount)
	n.outline = geometry.DrawOutline(n.meta)
	return n
}

// CreateFromID places a new node for the template the factory returns for
// id.
func (s *Surface) CreateFromID(id string) (*Node, error) {
	if s.factory == nil {
		return nil, bderrors.New(bderrors.ErrCodeTemplateNotFound, "no template factory for %q", id)
	}
	tmpl, err := s.factory.Lookup(id)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", id, err)
	}
	if tmpl == nil {
		return nil, bderrors.New(bderrors.ErrCodeTemplateNotFound, "template %q not found", id)
	}
	return s.Create(tmpl), nil
}

// CreateWithID is like Create but uses a caller-chosen identifier, as when
// restoring a saved workspace.
func (s *Surface) CreateWithID(tmpl *block.Template, id string) (*Node, error) {
	if id == "" {
		return nil, bderrors.New(bderrors.ErrCodeInvalidIdentifier, "node ID must not be empty")
	}
	if _, ok := s.nodes[id]; ok {
		return nil, bderrors.New(bderrors.ErrCodeInvalidIdentifier, "duplicate node ID %q", id)
	}
	n := s.Create(tmpl)
	delete(s.nodes, n.id)
	n.id = id
	s.nodes[id] = n
	return n, nil
}

// Lookup returns the live node with the given ID.
func (s *Surface) Lookup(id string) (*Node, bool) {
	n, ok := s.nodes[id]
	return n, ok
}

// Len returns the number of live nodes.
func (s *Surface) Len() int { return len(s.nodes) }

// Nodes returns all live nodes in ascending stacking order.
func (s *Surface) Nodes() []*Node {
	out := make([]*Node, 0, len(s.nodes))
	for _, n := range s.nodes {
		out = append(out, n)
	}
	slices.SortFunc(out, func(a, b *Node) int { return cmp.Compare(a.z, b.z) })
	return out
}

// Roots returns the live nodes without a parent in ascending stacking order.
func (s *Surface) Roots() []*Node {
	return slices.DeleteFunc(s.Nodes(), func(n *Node) bool { return n.parent != nil })
}

// Remove removes n and its subtree when deleteAll is set, otherwise just n
// (see [Node.RemoveSelfOnly]). It returns the number of nodes removed.
func (s *Surface) Remove(n *Node, deleteAll bool) int {
	if n == nil || n.surface != s || n.removed {
		return 0
	}
	if deleteAll {
		return n.RemoveCascade()
	}
	n.RemoveSelfOnly()
	return 1
}

// Validate checks the topology invariants of every live node: back-links
// agree with child links, slot arrays match slot counts, children sit at
// their owner's offset and no node owns itself.
func (s *Surface) Validate() error {
	for _, n := range s.Nodes() {
		if len(n.right) != n.meta.SlotCount {
			return bderrors.New(bderrors.ErrCodeInternal, "node %s: %d right slots for slot count %d", n.id, len(n.right), n.meta.SlotCount)
		}
		if err := checkLink(n); err != nil {
			return err
		}
		if n.IsAncestorOf(n) {
			return bderrors.New(bderrors.ErrCodeInternal, "node %s owns itself", n.id)
		}
		check := func(c *Node, slot int) error {
			if c.parent != n {
				return bderrors.New(bderrors.ErrCodeInternal, "node %s: child %s points to another parent", n.id, c.id)
			}
			if c.removed || s.nodes[c.id] != c {
				return bderrors.New(bderrors.ErrCodeInternal, "node %s: child %s is not live", n.id, c.id)
			}
			off := n.ChildOffset(slot)
			if c.x != n.x+off.X || c.y != n.y+off.Y {
				return bderrors.New(bderrors.ErrCodeInternal, "node %s: child %s at (%v, %v), want (%v, %v)",
					n.id, c.id, c.x, c.y, n.x+off.X, n.y+off.Y)
			}
			return nil
		}
		if n.bottom != nil {
			if err := check(n.bottom, AttachedBottom); err != nil {
				return err
			}
		}
		for i, r := range n.right {
			if r != nil {
				if err := check(r, i); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func checkLink(n *Node) error {
	p := n.parent
	switch {
	case p == nil && n.slot == Detached:
		return nil
	case p != nil && n.slot == AttachedBottom && p.bottom == n:
		return nil
	case p != nil && n.slot > 0 && n.slot <= len(p.right) && p.right[n.slot-1] == n:
		return nil
	}
	return bderrors.New(bderrors.ErrCodeInternal, "node %s: dependent slot %d disagrees with its parent", n.id, n.slot)
}

func (s *Surface) register(tmpl *block.Template, lang string) *Node {
	n := &Node{
		id:      uuid.NewString(),
		tmpl:    tmpl,
		lang:    lang,
		surface: s,
	}
	s.nextZ++
	n.z = s.nextZ
	s.nodes[n.id] = n
	return n
}

func (s *Surface) unregister(n *Node) {
	delete(s.nodes, n.id)
}

// raise moves n's subtree to the top of the stacking order, keeping
// children above their owners.
func (s *Surface) raise(n *Node) {
	n.Walk(func(m *Node) {
		s.nextZ++
		m.z = s.nextZ
	})
}
