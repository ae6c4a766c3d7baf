package block

import (
	"math"
	"slices"
	"testing"

	bderrors "github.com/matzehuels/blockdock/pkg/errors"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		in      string
		want    Kind
		wantErr bool
	}{
		{"event", Event, false},
		{"Hat", Hat, false},
		{" PROCESS ", Process, false},
		{"action", Action, false},
		{"value", Value, false},
		{"reporter", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseKind(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseKind(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if err != nil {
				if !bderrors.Is(err, bderrors.ErrCodeInvalidKind) {
					t.Errorf("wrong error code: %v", err)
				}
				return
			}
			if got != tt.want {
				t.Errorf("ParseKind(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestKindString(t *testing.T) {
	for _, k := range Kinds {
		got, err := ParseKind(k.String())
		if err != nil || got != k {
			t.Errorf("ParseKind(%q) = %v, %v", k.String(), got, err)
		}
	}
	if got := Kind(9).String(); got != "kind(9)" {
		t.Errorf("Kind(9).String() = %q", got)
	}
}

func TestVariant(t *testing.T) {
	v := TopSocket | BottomPlug
	if v != 0b1010 {
		t.Fatalf("TopSocket|BottomPlug = %#b, want 0b1010", v)
	}
	if !v.Has(TopSocket) || !v.Has(BottomPlug) || v.Has(LeftSocket) || v.Has(RightPlug) {
		t.Errorf("Has() flags wrong for %v", v)
	}
	if got := v.String(); got != "top|bottom" {
		t.Errorf("String() = %q", got)
	}

	b := v.WithBranches(2)
	if b.Branches() != 2 {
		t.Errorf("Branches() = %d, want 2", b.Branches())
	}
	if b.Sockets() != v {
		t.Errorf("Sockets() = %v, want %v", b.Sockets(), v)
	}
	if got := v.WithBranches(99).Branches(); got != 15 {
		t.Errorf("WithBranches(99).Branches() = %d, want 15", got)
	}
	if got := Variant(0).String(); got != "none" {
		t.Errorf("Variant(0).String() = %q", got)
	}
}

func TestColorBorder(t *testing.T) {
	tests := []struct {
		name string
		in   Color
		want Color
	}{
		{"opaque", Color{R: 200, G: 100, B: 40, A: 255}, Color{R: 150, G: 75, B: 30, A: 255}},
		{"alpha kept", Color{R: 255, G: 255, B: 255, A: 128}, Color{R: 191, G: 191, B: 191, A: 128}},
		{"black", Color{A: 255}, Color{A: 255}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.in.Border(); got != tt.want {
				t.Errorf("Border() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    uint32
		wantErr bool
	}{
		{"#aabbcc", 0xaabbcc, false},
		{"aabbcc", 0xaabbcc, false},
		{"#abc", 0xaabbcc, false},
		{"0x00AABBCC", 0xaabbcc, false},
		{"0xff8800", 0xff8800, false},
		{"#zzzzzz", 0, true},
		{"0xnothex", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseColor(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseColor(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if got.RGB() != tt.want || got.A != 0xff {
				t.Errorf("ParseColor(%q) = %#06x alpha %d, want %#06x", tt.in, got.RGB(), got.A, tt.want)
			}
		})
	}
}

func TestColorHex(t *testing.T) {
	c := RGB(0x00AABBCC)
	if got := c.Hex(); got != "#aabbcc" {
		t.Errorf("Hex() = %q, want #aabbcc", got)
	}
	back, err := ParseColor(c.Hex())
	if err != nil || back != c {
		t.Errorf("ParseColor(Hex()) = %+v, %v; want %+v", back, err, c)
	}
}

func TestParseSlots(t *testing.T) {
	tests := []struct {
		text string
		want []string
	}{
		{"do &a", []string{"a"}},
		{"move &steps steps then &turn", []string{"steps", "turn"}},
		{"a & b", nil},
		{"&x&y", []string{"x", "y"}},
		{"no slots", nil},
		{"trailing &", nil},
		{"&speed_2!", []string{"speed_2"}},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			if got := ParseSlots(tt.text); !slices.Equal(got, tt.want) {
				t.Errorf("ParseSlots(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestReplaceSlots(t *testing.T) {
	got := ReplaceSlots("run(&a, &b) & done", func(name string) string { return "<" + name + ">" })
	if want := "run(<a>, <b>) & done"; got != want {
		t.Errorf("ReplaceSlots() = %q, want %q", got, want)
	}
}

func TestTemplateText(t *testing.T) {
	tmpl := &Template{
		Code:         "run &a",
		Variant:      RightPlug,
		Translations: map[string]string{"en": "do &a", "de": "tu &a und &b"},
	}

	if got := tmpl.Text("de"); got != "tu &a und &b" {
		t.Errorf("Text(de) = %q", got)
	}
	if got := tmpl.Text("fr"); got != "do &a" {
		t.Errorf("Text(fr) should fall back to en, got %q", got)
	}
	if got := tmpl.SlotCount("de"); got != 2 {
		t.Errorf("SlotCount(de) = %d, want 2", got)
	}

	bare := &Template{Code: "run &a &b", Variant: RightPlug}
	if got := bare.Text("en"); got != "run &a &b" {
		t.Errorf("Text() without translations = %q, want code", got)
	}

	noPlug := &Template{Code: "run &a"}
	if got := noPlug.SlotCount("en"); got != 0 {
		t.Errorf("SlotCount() without right plug = %d, want 0", got)
	}
}

func TestTemplateCloneEqual(t *testing.T) {
	orig := &Template{
		ID:           "x",
		Kind:         Process,
		Color:        RGB(0x112233),
		Code:         "x(&a)",
		SlotTypes:    map[string]SlotType{"a": SlotInt},
		Translations: map[string]string{"en": "x &a"},
	}
	c := orig.Clone()
	if !c.Equal(orig) {
		t.Fatal("clone should equal original")
	}
	c.SlotTypes["a"] = SlotBool
	c.Translations["de"] = "x &a"
	if orig.SlotTypes["a"] != SlotInt || len(orig.Translations) != 1 {
		t.Error("clone shares maps with original")
	}
	if c.Equal(orig) {
		t.Error("modified clone should not equal original")
	}

	empty := &Template{ID: "y", SlotTypes: map[string]SlotType{}}
	nilMaps := &Template{ID: "y"}
	if !empty.Equal(nilMaps) {
		t.Error("nil and empty dictionaries should compare equal")
	}
}

func TestClampSize(t *testing.T) {
	tests := []struct {
		name  string
		kind  Kind
		slots int
		in    Size
		want  Size
	}{
		{"process floor", Process, 0, Size{10, 10}, Size{100, 30}},
		{"value floor", Value, 0, Size{}, Size{40, 30}},
		{"slots raise height", Process, 3, Size{120, 40}, Size{120, 90}},
		{"hat adds rise", Hat, 0, Size{}, Size{100, 42}},
		{"large kept", Action, 1, Size{300, 200}, Size{300, 200}},
		{"nan floor", Process, 1, Size{math.NaN(), math.NaN()}, Size{100, 30}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClampSize(tt.kind, tt.slots, tt.in); got != tt.want {
				t.Errorf("ClampSize() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
