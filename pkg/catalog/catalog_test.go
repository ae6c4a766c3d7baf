package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/blockdock/pkg/block"
	"github.com/matzehuels/blockdock/pkg/codec"
	bderrors "github.com/matzehuels/blockdock/pkg/errors"
	"github.com/matzehuels/blockdock/pkg/node"
)

var (
	tmplMove = &block.Template{
		ID:           "motion.move",
		Kind:         block.Process,
		Variant:      block.TopSocket | block.BottomPlug | block.RightPlug,
		Color:        block.RGB(0x4c97ff),
		Code:         "move(&steps)",
		SlotTypes:    map[string]block.SlotType{"steps": block.SlotInt},
		Translations: map[string]string{"en": "move &steps steps"},
	}
	tmplTurn = &block.Template{
		ID:      "motion.turn",
		Kind:    block.Process,
		Variant: block.TopSocket | block.BottomPlug,
		Color:   block.RGB(0x4c97ff),
		Code:    "turn()",
	}
	tmplWait = &block.Template{
		ID:      "control.wait",
		Kind:    block.Action,
		Variant: block.TopSocket,
		Color:   block.RGB(0xffab19),
		Code:    "wait()",
	}
)

const testManifest = `
[[category]]
name = "motion"
blocks = ["motion/move.cbd", "motion/turn.cbd", "motion/broken.cbd"]

[[category]]
name = "control"
blocks = ["control/wait.cbd", "control/missing.cbd", "control/dup.cbd"]
`

func writeDef(t *testing.T, dir, rel string, tmpl *block.Template) {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := codec.WriteFile(path, tmpl); err != nil {
		t.Fatalf("WriteFile(%s): %v", rel, err)
	}
}

func setupCatalog(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeDef(t, dir, "motion/move.cbd", tmplMove)
	writeDef(t, dir, "motion/turn.cbd", tmplTurn)
	writeDef(t, dir, "control/wait.cbd", tmplWait)
	writeDef(t, dir, "control/dup.cbd", tmplMove)

	broken, err := codec.Encode(tmplWait)
	if err != nil {
		t.Fatal(err)
	}
	broken[3] ^= 0xff
	if err := os.WriteFile(filepath.Join(dir, "motion", "broken.cbd"), broken, 0o644); err != nil {
		t.Fatal(err)
	}

	manifest := filepath.Join(dir, "manifest.toml")
	if err := os.WriteFile(manifest, []byte(testManifest), 0o644); err != nil {
		t.Fatal(err)
	}
	return manifest
}

func TestLoad(t *testing.T) {
	c, err := Load(context.Background(), setupCatalog(t), Options{})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if c.Len() != 3 {
		t.Errorf("Len() = %d, want 3", c.Len())
	}

	cats := c.Categories()
	if len(cats) != 2 {
		t.Fatalf("Categories() = %d, want 2", len(cats))
	}
	if cats[0].Name != "motion" || len(cats[0].IDs) != 2 {
		t.Errorf("motion = %+v", cats[0])
	}
	if cats[1].Name != "control" || len(cats[1].IDs) != 1 {
		t.Errorf("control = %+v", cats[1])
	}

	got, err := c.Lookup("motion.move")
	if err != nil {
		t.Fatalf("Lookup() error: %v", err)
	}
	if !got.Equal(tmplMove) {
		t.Errorf("Lookup() = %+v, want %+v", got, tmplMove)
	}

	ids := []string{}
	for _, tmpl := range c.Templates() {
		ids = append(ids, tmpl.ID)
	}
	want := []string{"motion.move", "motion.turn", "control.wait"}
	if len(ids) != len(want) {
		t.Fatalf("Templates() = %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("Templates()[%d] = %s, want %s", i, ids[i], want[i])
		}
	}
}

func TestLoadProblems(t *testing.T) {
	c, err := Load(context.Background(), setupCatalog(t), Options{})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	tests := []struct {
		path string
		code bderrors.Code
	}{
		{"motion/broken.cbd", bderrors.ErrCodeChecksumMismatch},
		{"control/missing.cbd", bderrors.ErrCodeFileNotFound},
		{"control/dup.cbd", bderrors.ErrCodeInvalidIdentifier},
	}
	if len(c.Problems) != len(tests) {
		t.Fatalf("Problems = %v, want %d entries", c.Problems, len(tests))
	}
	for i, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			p := c.Problems[i]
			if p.Path != tt.path {
				t.Errorf("Path = %s, want %s", p.Path, tt.path)
			}
			if !bderrors.Is(p.Err, tt.code) {
				t.Errorf("Err = %v, want code %s", p.Err, tt.code)
			}
		})
	}
}

func TestLoadErrors(t *testing.T) {
	ctx := context.Background()

	if _, err := Load(ctx, filepath.Join(t.TempDir(), "none.toml"), Options{}); !bderrors.Is(err, bderrors.ErrCodeFileNotFound) {
		t.Errorf("missing manifest: err = %v", err)
	}

	tests := []struct {
		name     string
		manifest string
		code     bderrors.Code
	}{
		{"bad toml", "[[category]\n", bderrors.ErrCodeInvalidManifest},
		{"no name", "[[category]]\nblocks = []\n", bderrors.ErrCodeInvalidManifest},
		{"traversal", "[[category]]\nname = \"x\"\nblocks = [\"../x.cbd\"]\n", bderrors.ErrCodeInvalidPath},
		{"absolute", "[[category]]\nname = \"x\"\nblocks = [\"/etc/x.cbd\"]\n", bderrors.ErrCodeInvalidPath},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "manifest.toml")
			if err := os.WriteFile(path, []byte(tt.manifest), 0o644); err != nil {
				t.Fatal(err)
			}
			_, err := Load(ctx, path, Options{})
			if !bderrors.Is(err, tt.code) {
				t.Errorf("err = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestLoadCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Load(ctx, setupCatalog(t), Options{}); err != context.Canceled {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestCatalogFactory(t *testing.T) {
	c := New()
	if err := c.Add("motion", tmplMove); err != nil {
		t.Fatalf("Add() error: %v", err)
	}

	s := node.NewSurface(c)
	n, err := s.CreateFromID("motion.move")
	if err != nil {
		t.Fatalf("CreateFromID() error: %v", err)
	}
	if n.SlotCount() != 1 {
		t.Errorf("SlotCount() = %d, want 1", n.SlotCount())
	}

	_, err = s.CreateFromID("motion.fly")
	if !bderrors.Is(err, bderrors.ErrCodeTemplateNotFound) {
		t.Errorf("unknown id: err = %v", err)
	}
}

func TestCatalogAdd(t *testing.T) {
	c := New()
	if err := c.Add("motion", tmplMove); err != nil {
		t.Fatal(err)
	}
	changed := tmplMove.Clone()
	changed.Code = "move2(&steps)"
	if err := c.Add("other", changed); err != nil {
		t.Fatal(err)
	}

	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}
	if cats := c.Categories(); len(cats) != 1 || cats[0].Name != "motion" {
		t.Errorf("replacing should keep the original category, got %+v", cats)
	}
	got, _ := c.Lookup(tmplMove.ID)
	if got.Code != "move2(&steps)" {
		t.Errorf("Code = %q", got.Code)
	}
	if info, ok := c.Version(tmplMove.ID); !ok || !info.Supported() {
		t.Errorf("Version() = %+v, %v", info, ok)
	}

	if err := c.Add("x", &block.Template{ID: "bad id"}); !bderrors.Is(err, bderrors.ErrCodeInvalidIdentifier) {
		t.Errorf("invalid id: err = %v", err)
	}
	if err := c.Add("x", nil); err == nil {
		t.Error("nil template should fail")
	}
}
