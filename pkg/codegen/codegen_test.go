package codegen

import (
	"testing"

	"github.com/matzehuels/blockdock/pkg/block"
	"github.com/matzehuels/blockdock/pkg/node"
)

var (
	tmplStart = &block.Template{ID: "event.start", Kind: block.Hat, Variant: block.BottomPlug, Code: "on start:"}
	tmplRun   = &block.Template{
		ID:           "motor.run",
		Kind:         block.Process,
		Variant:      block.TopSocket | block.BottomPlug | block.RightPlug,
		Code:         "run(&speed, &secs)",
		Translations: map[string]string{"en": "run at &speed for &secs s"},
	}
	tmplStep = &block.Template{ID: "control.step", Kind: block.Process, Variant: block.TopSocket | block.BottomPlug, Code: "step()"}
	tmplNum  = &block.Template{ID: "math.num", Kind: block.Value, Variant: block.LeftSocket, Code: "10"}
	tmplAdd  = &block.Template{ID: "math.add", Kind: block.Value, Variant: block.LeftSocket | block.RightPlug, Code: "(&x + &y)"}
	// Display text lists the slots in the opposite order of the code.
	tmplSub = &block.Template{
		ID:           "math.sub",
		Kind:         block.Value,
		Variant:      block.LeftSocket | block.RightPlug,
		Code:         "(&x - &y)",
		Translations: map[string]string{"en": "&y subtracted from &x"},
	}
)

func TestGenerate(t *testing.T) {
	s := node.NewSurface(nil)
	start := s.Create(tmplStart)
	run := s.Create(tmplRun)
	step := s.Create(tmplStep)
	add := s.Create(tmplAdd)
	a := s.Create(tmplNum)
	b := s.Create(tmplNum)
	secs := s.Create(tmplNum)

	if !start.AttachBottom(run) || !run.AttachBottom(step) {
		t.Fatal("attach bottom failed")
	}
	if !run.AttachRight(add, 0) || !run.AttachRight(secs, 1) {
		t.Fatal("attach right failed")
	}
	if !add.AttachRight(a, 0) || !add.AttachRight(b, 1) {
		t.Fatal("attach nested failed")
	}

	tests := []struct {
		name string
		root *node.Node
		opts Options
		want string
	}{
		{"script", start, Options{}, "on start:\nrun((10 + 10), 10)\nstep()"},
		{"from middle", run, Options{}, "run((10 + 10), 10)\nstep()"},
		{"expression", add, Options{}, "(10 + 10)"},
		{"separator", start, Options{Separator: "; "}, "on start:; run((10 + 10), 10); step()"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Generate(tt.root, tt.opts)
			if err != nil {
				t.Fatalf("Generate() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Generate() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGeneratePlaceholder(t *testing.T) {
	s := node.NewSurface(nil)
	run := s.Create(tmplRun)
	run.AttachRight(s.Create(tmplNum), 1)

	got, _ := Generate(run, Options{})
	if want := "run(, 10)"; got != want {
		t.Errorf("empty placeholder: got %q, want %q", got, want)
	}
	got, _ = Generate(run, Options{Placeholder: "None"})
	if want := "run(None, 10)"; got != want {
		t.Errorf("placeholder: got %q, want %q", got, want)
	}
}

func TestGenerateSlotOrderFromDisplayText(t *testing.T) {
	s := node.NewSurface(nil)
	sub := s.Create(tmplSub)
	one := s.Create(&block.Template{ID: "one", Kind: block.Value, Variant: block.LeftSocket, Code: "1"})
	two := s.Create(&block.Template{ID: "two", Kind: block.Value, Variant: block.LeftSocket, Code: "2"})

	// Slot 0 is "y" in the display text.
	sub.AttachRight(one, 0)
	sub.AttachRight(two, 1)

	got, err := Generate(sub, Options{})
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	if want := "(2 - 1)"; got != want {
		t.Errorf("Generate() = %q, want %q", got, want)
	}
}

func TestGenerateRepeatedSlotName(t *testing.T) {
	pair := &block.Template{
		ID:           "math.pair",
		Kind:         block.Value,
		Variant:      block.LeftSocket | block.RightPlug,
		Code:         "pair(&a, &a, &a)",
		Translations: map[string]string{"en": "&a and &a"},
	}
	s := node.NewSurface(nil)
	p := s.Create(pair)
	if p.SlotCount() != 2 {
		t.Fatalf("SlotCount() = %d, want 2", p.SlotCount())
	}
	p.AttachRight(s.Create(&block.Template{ID: "one", Kind: block.Value, Variant: block.LeftSocket, Code: "1"}), 0)
	p.AttachRight(s.Create(&block.Template{ID: "two", Kind: block.Value, Variant: block.LeftSocket, Code: "2"}), 1)

	got, err := Generate(p, Options{})
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	if want := "pair(1, 2, 2)"; got != want {
		t.Errorf("Generate() = %q, want %q", got, want)
	}
}

func TestGenerateErrors(t *testing.T) {
	if _, err := Generate(nil, Options{}); err == nil {
		t.Error("nil root should fail")
	}

	s := node.NewSurface(nil)
	n := s.Create(tmplStep)
	s.Remove(n, true)
	if _, err := Generate(n, Options{}); err == nil {
		t.Error("removed root should fail")
	}
}

func TestGenerateSurface(t *testing.T) {
	s := node.NewSurface(nil)
	lower := s.Create(tmplStep)
	lower.SetPosition(0, 200, false)
	right := s.Create(tmplNum)
	right.SetPosition(300, 0, false)
	left := s.Create(tmplStart)
	left.SetPosition(0, 0, false)
	left.AttachBottom(s.Create(tmplStep))

	got, err := GenerateSurface(s, Options{})
	if err != nil {
		t.Fatalf("GenerateSurface() error: %v", err)
	}
	if want := "on start:\nstep()\n\n10\n\nstep()"; got != want {
		t.Errorf("GenerateSurface() = %q, want %q", got, want)
	}
}
