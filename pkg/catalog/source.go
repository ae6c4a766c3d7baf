package catalog

import (
	"bytes"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/blockdock/pkg/block"
	bderrors "github.com/matzehuels/blockdock/pkg/errors"
)

// Source is the authoring form of a block definition:
//
//	id = "motor.run"
//	kind = "process"
//	color = "#4c97ff"
//	code = "run(&speed)"
//	top = true
//	bottom = true
//	right = true
//
//	[slots]
//	speed = "int"
//
//	[translations]
//	en = "run at &speed"
type Source struct {
	ID       string      `toml:"id"`
	Kind     block.Kind  `toml:"kind"`
	Color    block.Color `toml:"color"`
	Code     string      `toml:"code"`
	Left     bool        `toml:"left,omitempty"`
	Top      bool        `toml:"top,omitempty"`
	Right    bool        `toml:"right,omitempty"`
	Bottom   bool        `toml:"bottom,omitempty"`
	Branches int         `toml:"branches,omitempty"`

	Slots        map[string]block.SlotType `toml:"slots,omitempty"`
	Translations map[string]string         `toml:"translations,omitempty"`
}

// Template converts s to a block template.
func (s Source) Template() (*block.Template, error) {
	if err := bderrors.ValidateIdentifier(s.ID); err != nil {
		return nil, err
	}
	if s.Branches < 0 || s.Branches > 15 {
		return nil, bderrors.New(bderrors.ErrCodeInvalidInput, "%s: branches must be 0..15, got %d", s.ID, s.Branches)
	}

	var v block.Variant
	for _, f := range []struct {
		set  bool
		flag block.Variant
	}{
		{s.Left, block.LeftSocket},
		{s.Top, block.TopSocket},
		{s.Right, block.RightPlug},
		{s.Bottom, block.BottomPlug},
	} {
		if f.set {
			v |= f.flag
		}
	}

	return &block.Template{
		ID:           s.ID,
		Kind:         s.Kind,
		Variant:      v.WithBranches(s.Branches),
		Color:        s.Color.Opaque(),
		Code:         s.Code,
		SlotTypes:    s.Slots,
		Translations: s.Translations,
	}, nil
}

// SourceOf returns the authoring form of t.
func SourceOf(t *block.Template) Source {
	return Source{
		ID:           t.ID,
		Kind:         t.Kind,
		Color:        t.Color,
		Code:         t.Code,
		Left:         t.Variant.Has(block.LeftSocket),
		Top:          t.Variant.Has(block.TopSocket),
		Right:        t.Variant.Has(block.RightPlug),
		Bottom:       t.Variant.Has(block.BottomPlug),
		Branches:     t.Variant.Branches(),
		Slots:        t.SlotTypes,
		Translations: t.Translations,
	}
}

// ParseSource decodes a TOML definition source. Unknown keys are rejected
// so that typos do not silently drop sockets.
func ParseSource(data []byte) (*block.Template, error) {
	var s Source
	md, err := toml.Decode(string(data), &s)
	if err != nil {
		return nil, bderrors.Wrap(bderrors.ErrCodeInvalidInput, err, "parse source")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, bderrors.New(bderrors.ErrCodeInvalidInput, "unknown key %q", undecoded[0].String())
	}
	if !md.IsDefined("kind") {
		return nil, bderrors.New(bderrors.ErrCodeInvalidKind, "%s: kind is required", s.ID)
	}
	return s.Template()
}

// LoadSource reads and parses the definition source at path.
func LoadSource(path string) (*block.Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, bderrors.Wrap(bderrors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, err
	}
	t, err := ParseSource(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// FormatSource renders t as a TOML definition source.
func FormatSource(t *block.Template) ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(SourceOf(t)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
