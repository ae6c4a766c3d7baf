package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/blockdock/pkg/block"
	"github.com/matzehuels/blockdock/pkg/codec"
	bderrors "github.com/matzehuels/blockdock/pkg/errors"
	"github.com/matzehuels/blockdock/pkg/node"
)

// ReadJSON decodes a workspace from r onto a new surface whose templates
// come from factory.
//
// Nodes are created first, then linked with AttachBottom and AttachRight
// in record order, then every root is moved to its saved position, which
// re-derives the positions of everything attached to it. Saved positions
// of attached nodes are ignored.
//
// ReadJSON returns an error if:
//   - The JSON is malformed
//   - A node ID is empty or duplicated
//   - A template is unknown to factory
//   - A slot count is negative or above what a definition can describe
//   - A parent ID is unknown, or a slot is out of range or taken twice
//   - A link would be rejected by the node model (wrong sockets, cycles)
func ReadJSON(r io.Reader, factory node.Factory) (*node.Surface, error) {
	var data workspace
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, bderrors.Wrap(bderrors.ErrCodeInvalidWorkspace, err, "decode")
	}
	if factory == nil {
		return nil, bderrors.New(bderrors.ErrCodeInvalidInput, "nil template factory")
	}

	s := node.NewSurface(factory)
	if data.Language != "" {
		s.SetLanguage(data.Language)
	}

	for _, rec := range data.Nodes {
		if rec.Slots != nil && (*rec.Slots < 0 || *rec.Slots > codec.MaxEntries) {
			return nil, bderrors.New(bderrors.ErrCodeInvalidWorkspace, "node %s: slot count %d out of range [0, %d]", rec.ID, *rec.Slots, codec.MaxEntries)
		}
		tmpl, err := factory.Lookup(rec.Template)
		if err != nil {
			return nil, fmt.Errorf("node %s: %w", rec.ID, err)
		}
		if tmpl == nil {
			return nil, bderrors.New(bderrors.ErrCodeTemplateNotFound, "node %s: template %q not found", rec.ID, rec.Template)
		}
		n, err := s.CreateWithID(tmpl, rec.ID)
		if err != nil {
			return nil, err
		}
		if rec.Lang != "" {
			n.Relayout(rec.Lang)
		}
		if rec.Slots != nil {
			n.SetSlotCount(*rec.Slots)
		}
		n.Resize(block.Size{W: rec.Width, H: rec.Height})
	}

	for _, rec := range data.Nodes {
		if rec.Parent == "" {
			continue
		}
		if err := link(s, rec); err != nil {
			return nil, err
		}
	}

	for _, rec := range data.Nodes {
		if rec.Parent == "" {
			n, _ := s.Lookup(rec.ID)
			n.SetPosition(rec.X, rec.Y, false)
		}
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func link(s *node.Surface, rec record) error {
	child, _ := s.Lookup(rec.ID)
	parent, ok := s.Lookup(rec.Parent)
	if !ok {
		return bderrors.New(bderrors.ErrCodeInvalidWorkspace, "node %s: unknown parent %q", rec.ID, rec.Parent)
	}

	switch {
	case rec.Slot == node.AttachedBottom:
		if parent.Bottom() != nil {
			return bderrors.New(bderrors.ErrCodeInvalidWorkspace, "node %s: %s already has a bottom child", rec.ID, rec.Parent)
		}
		if !parent.AttachBottom(child) {
			return bderrors.New(bderrors.ErrCodeInvalidWorkspace, "node %s cannot attach below %s", rec.ID, rec.Parent)
		}
	case rec.Slot > 0:
		i := rec.Slot - 1
		if i >= parent.SlotCount() {
			return bderrors.New(bderrors.ErrCodeInvalidWorkspace, "node %s: slot %d out of range, %s has %d", rec.ID, rec.Slot, rec.Parent, parent.SlotCount())
		}
		if parent.Right(i) != nil {
			return bderrors.New(bderrors.ErrCodeInvalidWorkspace, "node %s: slot %d of %s is taken", rec.ID, rec.Slot, rec.Parent)
		}
		if !parent.AttachRight(child, i) {
			return bderrors.New(bderrors.ErrCodeInvalidWorkspace, "node %s cannot attach to slot %d of %s", rec.ID, rec.Slot, rec.Parent)
		}
	default:
		return bderrors.New(bderrors.ErrCodeInvalidWorkspace, "node %s: parent %s without a slot", rec.ID, rec.Parent)
	}
	return nil
}

// ImportJSON reads a workspace from the JSON file at path.
func ImportJSON(path string, factory node.Factory) (*node.Surface, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, bderrors.Wrap(bderrors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, err
	}
	defer f.Close()
	return ReadJSON(f, factory)
}
