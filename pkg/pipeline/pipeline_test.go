package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/blockdock/pkg/block"
	"github.com/matzehuels/blockdock/pkg/cache"
	"github.com/matzehuels/blockdock/pkg/codec"
	bderrors "github.com/matzehuels/blockdock/pkg/errors"
)

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"png", false},
		{"pdf", false},
		{"dot", false},
		{"graph", false},
		{"code", false},
		{"json", false},
		{"invalid", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"svg", "code"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}
	if err := ValidateFormats([]string{"svg", "gif"}); err == nil {
		t.Error("Invalid format should fail")
	}
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestValidateStyle(t *testing.T) {
	if err := ValidateStyle("simple"); err != nil {
		t.Errorf("ValidateStyle(simple) = %v", err)
	}
	for _, s := range []string{"handdrawn", ""} {
		if err := ValidateStyle(s); err == nil {
			t.Errorf("ValidateStyle(%q) should fail", s)
		}
	}
}

func TestValidateAndSetDefaults(t *testing.T) {
	t.Run("requires inputs", func(t *testing.T) {
		if err := (&Options{Workspace: "w.json"}).ValidateAndSetDefaults(); err == nil {
			t.Error("missing manifest should fail")
		}
		if err := (&Options{Manifest: "m.toml"}).ValidateAndSetDefaults(); err == nil {
			t.Error("missing workspace should fail")
		}
	})

	t.Run("defaults", func(t *testing.T) {
		opts := Options{Manifest: "m.toml", Workspace: "w.json"}
		if err := opts.ValidateAndSetDefaults(); err != nil {
			t.Fatal(err)
		}
		if len(opts.Formats) != 1 || opts.Formats[0] != FormatSVG {
			t.Errorf("Formats = %v, want [svg]", opts.Formats)
		}
		if opts.Style != DefaultStyle || opts.Padding != DefaultPadding || opts.Scale != DefaultScale {
			t.Errorf("defaults not applied: %+v", opts)
		}
		if opts.Logger == nil {
			t.Error("Logger should default to a discard logger")
		}
	})

	t.Run("bad format", func(t *testing.T) {
		opts := Options{Manifest: "m.toml", Workspace: "w.json", Formats: []string{"gif"}}
		if err := opts.ValidateAndSetDefaults(); err == nil {
			t.Error("gif should be rejected")
		}
	})
}

func TestArtifactKeyOpts(t *testing.T) {
	opts := Options{Style: "simple", Padding: 10, Scale: 3, Detailed: true, Placeholder: "0", Language: "de"}

	svg := opts.ArtifactKeyOpts(FormatSVG)
	if svg.Scale != 0 || svg.Detailed || svg.Placeholder != "" {
		t.Errorf("svg key carries unrelated options: %+v", svg)
	}
	if png := opts.ArtifactKeyOpts(FormatPNG); png.Scale != 3 || png.Padding != 10 {
		t.Errorf("png key = %+v", png)
	}
	if dot := opts.ArtifactKeyOpts(FormatDOT); !dot.Detailed || dot.Padding != 0 {
		t.Errorf("dot key = %+v", dot)
	}
	if code := opts.ArtifactKeyOpts(FormatCode); code.Placeholder != "0" || code.Language != "de" {
		t.Errorf("code key = %+v", code)
	}

	other := opts
	other.Scale = 5
	k := cache.NewDefaultKeyer()
	if k.ArtifactKey("h", opts.ArtifactKeyOpts(FormatSVG)) != k.ArtifactKey("h", other.ArtifactKeyOpts(FormatSVG)) {
		t.Error("scale should not change the svg key")
	}
}

// memCache is an in-memory cache that counts writes.
type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
	sets int
}

func newMemCache() *memCache { return &memCache{data: map[string][]byte{}} }

func (c *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	d, ok := c.data[key]
	return d, ok, nil
}

func (c *memCache) Set(_ context.Context, key string, data []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
	c.sets++
	return nil
}

func (c *memCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *memCache) Close() error { return nil }

const testWorkspace = `{
  "language": "en",
  "nodes": [
    {"id": "start", "template": "event.start", "x": 20, "y": 20},
    {"id": "move", "template": "motion.move", "parent": "start", "slot": -1}
  ]
}`

func setupInputs(t *testing.T) (manifest, workspace string) {
	t.Helper()
	dir := t.TempDir()
	defs := map[string]*block.Template{
		"start.cbd": {
			ID:           "event.start",
			Kind:         block.Hat,
			Variant:      block.BottomPlug,
			Color:        block.RGB(0xffbf00),
			Code:         "on start:",
			Translations: map[string]string{"en": "when started"},
		},
		"move.cbd": {
			ID:           "motion.move",
			Kind:         block.Process,
			Variant:      block.TopSocket | block.BottomPlug | block.RightPlug,
			Color:        block.RGB(0x4c97ff),
			Code:         "move(&steps)",
			SlotTypes:    map[string]block.SlotType{"steps": block.SlotInt},
			Translations: map[string]string{"en": "move &steps steps"},
		},
	}
	for name, tmpl := range defs {
		if err := codec.WriteFile(filepath.Join(dir, name), tmpl); err != nil {
			t.Fatal(err)
		}
	}
	manifest = filepath.Join(dir, "manifest.toml")
	body := "[[category]]\nname = \"main\"\nblocks = [\"start.cbd\", \"move.cbd\"]\n"
	if err := os.WriteFile(manifest, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	workspace = filepath.Join(dir, "scene.json")
	if err := os.WriteFile(workspace, []byte(testWorkspace), 0o644); err != nil {
		t.Fatal(err)
	}
	return manifest, workspace
}

func TestRunnerExecute(t *testing.T) {
	manifest, workspace := setupInputs(t)
	mc := newMemCache()
	runner := NewRunner(mc, nil, nil)
	defer runner.Close()

	opts := Options{
		Manifest:    manifest,
		Workspace:   workspace,
		Formats:     []string{FormatSVG, FormatDOT, FormatCode, FormatJSON},
		Placeholder: "0",
	}
	ctx := context.Background()

	first, err := runner.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if first.Stats.Templates != 2 || first.Stats.Nodes != 2 || first.Stats.Scripts != 1 {
		t.Errorf("Stats = %+v", first.Stats)
	}
	if len(first.CacheInfo.Misses) != 4 || len(first.CacheInfo.Hits) != 0 {
		t.Errorf("first run CacheInfo = %+v", first.CacheInfo)
	}
	if !strings.HasPrefix(string(first.Artifacts[FormatSVG]), "<svg") {
		t.Errorf("svg artifact = %.40q", first.Artifacts[FormatSVG])
	}
	if !strings.Contains(string(first.Artifacts[FormatDOT]), "digraph") {
		t.Errorf("dot artifact missing digraph")
	}
	if got := string(first.Artifacts[FormatCode]); got != "on start:\nmove(0)\n" {
		t.Errorf("code artifact = %q", got)
	}
	if !strings.Contains(string(first.Artifacts[FormatJSON]), `"motion.move"`) {
		t.Errorf("json artifact missing template reference")
	}

	second, err := runner.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("second Execute() error: %v", err)
	}
	if len(second.CacheInfo.Hits) != 4 {
		t.Errorf("second run CacheInfo = %+v, want all hits", second.CacheInfo)
	}
	if second.InputHash != first.InputHash {
		t.Error("input hash changed between identical runs")
	}
	if mc.sets != 4 {
		t.Errorf("cache sets = %d, want 4", mc.sets)
	}

	opts.Refresh = true
	third, err := runner.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if len(third.CacheInfo.Hits) != 0 {
		t.Errorf("refresh run served from cache: %+v", third.CacheInfo)
	}
}

func TestRunnerInputHashTracksWorkspace(t *testing.T) {
	manifest, workspace := setupInputs(t)
	runner := NewRunner(nil, nil, nil)
	ctx := context.Background()

	_, _, before, err := runner.Load(ctx, Options{Manifest: manifest, Workspace: workspace})
	if err != nil {
		t.Fatal(err)
	}
	edited := strings.Replace(testWorkspace, `"x": 20`, `"x": 40`, 1)
	if err := os.WriteFile(workspace, []byte(edited), 0o644); err != nil {
		t.Fatal(err)
	}
	_, _, after, err := runner.Load(ctx, Options{Manifest: manifest, Workspace: workspace})
	if err != nil {
		t.Fatal(err)
	}
	if before == after {
		t.Error("input hash did not change after editing the workspace")
	}
}

func TestRunnerErrors(t *testing.T) {
	manifest, workspace := setupInputs(t)
	dir := t.TempDir()
	runner := NewRunner(nil, nil, nil)
	ctx := context.Background()

	tests := []struct {
		name string
		opts Options
		code bderrors.Code
	}{
		{"no manifest option", Options{Workspace: workspace}, bderrors.ErrCodeInvalidInput},
		{"missing manifest", Options{Manifest: filepath.Join(dir, "none.toml"), Workspace: workspace}, bderrors.ErrCodeFileNotFound},
		{"missing workspace", Options{Manifest: manifest, Workspace: filepath.Join(dir, "none.json")}, bderrors.ErrCodeFileNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runner.Execute(ctx, tt.opts)
			if !bderrors.Is(err, tt.code) {
				t.Errorf("err = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestRenderUnknownFormat(t *testing.T) {
	if _, err := Render(context.Background(), nil, "gif", Options{}); err == nil {
		t.Error("Render(gif) should fail")
	}
}
