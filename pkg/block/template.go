package block

import "maps"

// DefaultLanguage is the fallback language for display text.
const DefaultLanguage = "en"

// Template is the static definition of a block: everything the definition
// format persists, and nothing about where a block instance sits.
type Template struct {
	ID      string  // Unique identifier, e.g. "motor.run"
	Kind    Kind    // Outline profile
	Variant Variant // Socket mask plus branch count
	Color   Color   // Fill color; the border is derived
	Code    string  // Code template with "&name" slot placeholders

	// SlotTypes maps slot names to the value type they accept.
	SlotTypes map[string]SlotType
	// Translations maps language identifiers to display text. When present
	// it overrides Code as the text shown on the block.
	Translations map[string]string
}

// Text returns the display text for lang: its translation, else the
// DefaultLanguage translation, else the code template.
func (t *Template) Text(lang string) string {
	if s, ok := t.Translations[lang]; ok {
		return s
	}
	if s, ok := t.Translations[DefaultLanguage]; ok {
		return s
	}
	return t.Code
}

// Slots returns the ordered slot names of the display text for lang.
func (t *Template) Slots(lang string) []string {
	return ParseSlots(t.Text(lang))
}

// SlotCount returns the number of value slots shown for lang. Blocks
// without a right plug never show slots.
func (t *Template) SlotCount(lang string) int {
	if !t.Variant.Has(RightPlug) {
		return 0
	}
	return len(t.Slots(lang))
}

// Meta returns the geometry metadata of a fresh instance for lang, sized to
// its minimum.
func (t *Template) Meta(lang string) Meta {
	m := Meta{Kind: t.Kind, Variant: t.Variant, SlotCount: t.SlotCount(lang)}
	m.Size = ClampSize(m.Kind, m.SlotCount, Size{})
	return m
}

// Clone returns a deep copy of t.
func (t *Template) Clone() *Template {
	if t == nil {
		return nil
	}
	c := *t
	c.SlotTypes = maps.Clone(t.SlotTypes)
	c.Translations = maps.Clone(t.Translations)
	return &c
}

// Equal reports field-wise equality. Nil and empty dictionaries are equal.
func (t *Template) Equal(o *Template) bool {
	if t == nil || o == nil {
		return t == o
	}
	return t.ID == o.ID &&
		t.Kind == o.Kind &&
		t.Variant == o.Variant &&
		t.Color == o.Color &&
		t.Code == o.Code &&
		maps.Equal(t.SlotTypes, o.SlotTypes) &&
		maps.Equal(t.Translations, o.Translations)
}
