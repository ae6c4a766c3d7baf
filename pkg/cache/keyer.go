package cache

import (
	"fmt"

	"github.com/matzehuels/blockdock/pkg/block"
)

// Keyer derives cache keys. Inputs are hashed so keys stay short and safe
// for any backend.
type Keyer interface {
	// ArtifactKey keys a rendered artifact of a workspace.
	ArtifactKey(inputHash string, opts ArtifactKeyOpts) string
	// OutlineKey keys the SVG outline of a block shape.
	OutlineKey(m block.Meta) string
}

// ArtifactKeyOpts holds every option that changes a rendered artifact.
type ArtifactKeyOpts struct {
	Format      string  `json:"format"`
	Style       string  `json:"style,omitempty"`
	Language    string  `json:"language,omitempty"`
	Detailed    bool    `json:"detailed,omitempty"`
	Placeholder string  `json:"placeholder,omitempty"`
	Padding     float64 `json:"padding,omitempty"`
	Scale       float64 `json:"scale,omitempty"`
}

// DefaultKeyer is the standard [Keyer].
type DefaultKeyer struct{}

// NewDefaultKeyer returns a DefaultKeyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

func (DefaultKeyer) ArtifactKey(inputHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", inputHash, opts)
}

func (DefaultKeyer) OutlineKey(m block.Meta) string {
	return fmt.Sprintf("outline:%d:%d:%d:%gx%g", m.Kind, m.Variant, m.SlotCount, m.Size.W, m.Size.H)
}
