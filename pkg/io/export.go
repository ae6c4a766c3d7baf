package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/blockdock/pkg/node"
)

type workspace struct {
	Language string   `json:"language,omitempty"`
	Nodes    []record `json:"nodes"`
}

type record struct {
	ID       string  `json:"id"`
	Template string  `json:"template"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Width    float64 `json:"width,omitempty"`
	Height   float64 `json:"height,omitempty"`
	Slots    *int    `json:"slots,omitempty"`
	Lang     string  `json:"lang,omitempty"`
	Parent   string  `json:"parent,omitempty"`
	Slot     int     `json:"slot,omitempty"`
}

// WriteJSON encodes every live node of s as JSON and writes it to w.
// Nodes are written in stacking order, so re-importing keeps the overlap
// order. The output can be read back with [ReadJSON].
func WriteJSON(s *node.Surface, w io.Writer) error {
	out := workspace{Language: s.Language()}
	for _, n := range s.Nodes() {
		p := n.Position()
		size := n.Size()
		slots := n.SlotCount()
		rec := record{
			ID:       n.ID(),
			Template: n.Template().ID,
			X:        p.X,
			Y:        p.Y,
			Width:    size.W,
			Height:   size.H,
			Slots:    &slots,
			Slot:     n.DependentSlot(),
		}
		if n.Lang() != s.Language() {
			rec.Lang = n.Lang()
		}
		if parent := n.Parent(); parent != nil {
			rec.Parent = parent.ID()
		}
		out.Nodes = append(out.Nodes, rec)
	}
	if out.Nodes == nil {
		out.Nodes = []record{}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes the workspace on s to a JSON file at path.
func ExportJSON(s *node.Surface, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(s, f)
}
