package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/matzehuels/blockdock/pkg/block"
	"github.com/matzehuels/blockdock/pkg/catalog"
	"github.com/matzehuels/blockdock/pkg/codec"
	bdio "github.com/matzehuels/blockdock/pkg/io"
)

const moveSource = `id = "motion.move"
kind = "process"
color = "#4c97ff"
code = "move(&steps)"
top = true
bottom = true
right = true

[slots]
steps = "int"

[translations]
en = "move &steps steps"
de = "gehe &steps Schritte"
`

// isolate points every XDG directory at a fresh temp dir.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, "config"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(home, "cache"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(home, "data"))
	return home
}

// run executes the root command with args and returns what commands wrote
// to the command output.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

// writeFixture writes two definitions, a manifest and a workspace with the
// move block docked below the start block.
func writeFixture(t *testing.T, dir string) (manifest, workspace string) {
	t.Helper()
	start := &block.Template{
		ID:      "event.start",
		Kind:    block.Hat,
		Variant: block.BottomPlug,
		Color:   block.RGB(0xffbf00),
		Code:    "on start:",
	}
	if err := codec.WriteFile(filepath.Join(dir, "start.cbd"), start); err != nil {
		t.Fatal(err)
	}
	move, err := catalog.ParseSource([]byte(moveSource))
	if err != nil {
		t.Fatal(err)
	}
	if err := codec.WriteFile(filepath.Join(dir, "move.cbd"), move); err != nil {
		t.Fatal(err)
	}

	manifest = filepath.Join(dir, "manifest.toml")
	writeFile(t, manifest, "[[category]]\nname = \"main\"\nblocks = [\"start.cbd\", \"move.cbd\"]\n")
	workspace = filepath.Join(dir, "scene.json")
	writeFile(t, workspace, `{
  "nodes": [
    {"id": "start", "template": "event.start", "x": 20, "y": 20},
    {"id": "move", "template": "motion.move", "parent": "start", "slot": -1}
  ]
}`)
	return manifest, workspace
}

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func TestEncodeAndInspect(t *testing.T) {
	dir := isolate(t)
	src := filepath.Join(dir, "move.toml")
	writeFile(t, src, moveSource)

	if _, err := run(t, "encode", src); err != nil {
		t.Fatalf("encode: %v", err)
	}
	def := filepath.Join(dir, "move"+codec.Ext)
	got, info, err := codec.ReadFile(def)
	if err != nil {
		t.Fatalf("ReadFile() error: %v", err)
	}
	if got.ID != "motion.move" || got.Text("de") != "gehe &steps Schritte" {
		t.Errorf("decoded %+v", got)
	}
	if info.Version != codec.FormatVersion {
		t.Errorf("version = %d, want %d", info.Version, codec.FormatVersion)
	}

	out, err := run(t, "inspect", "--source", def)
	if err != nil {
		t.Fatalf("inspect --source: %v", err)
	}
	back, err := catalog.ParseSource([]byte(out))
	if err != nil {
		t.Fatalf("inspect --source output does not parse: %v\n%s", err, out)
	}
	if !back.Equal(got) {
		t.Errorf("source round trip = %+v, want %+v", back, got)
	}

	if _, err := run(t, "inspect", def); err != nil {
		t.Errorf("inspect: %v", err)
	}
}

func TestInspectReportsBrokenFiles(t *testing.T) {
	dir := isolate(t)
	bad := filepath.Join(dir, "bad.cbd")
	writeFile(t, bad, "not a definition")

	if _, err := run(t, "inspect", bad, filepath.Join(dir, "missing.cbd")); err == nil {
		t.Error("inspect of broken files succeeded")
	}
}

func TestEncodeRejectsInvalidSource(t *testing.T) {
	dir := isolate(t)
	src := filepath.Join(dir, "bad.toml")
	writeFile(t, src, "id = \"bad id\"\nkind = \"process\"\n")

	if _, err := run(t, "encode", src); err == nil {
		t.Error("encode of an invalid identifier succeeded")
	}
}

func TestOutline(t *testing.T) {
	dir := isolate(t)

	tests := []struct {
		name    string
		args    []string
		prefix  string
		wantErr bool
	}{
		{"statement svg", []string{"--kind", "process", "--right", "--slots", "2"}, "<svg", false},
		{"value path", []string{"--kind", "value", "--left", "--top=false", "--bottom=false", "--path"}, "M", false},
		{"slots need right", []string{"--slots", "1"}, "", true},
		{"bad kind", []string{"--kind", "round"}, "", true},
		{"bad color", []string{"--color", "blue"}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := filepath.Join(dir, strings.ReplaceAll(tt.name, " ", "_"))
			_, err := run(t, append([]string{"outline", "-o", out}, tt.args...)...)
			if (err != nil) != tt.wantErr {
				t.Fatalf("outline error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if got := readFile(t, out); !strings.HasPrefix(got, tt.prefix) {
				t.Errorf("output = %.40q, want prefix %q", got, tt.prefix)
			}
		})
	}
}

func TestCatalogCommand(t *testing.T) {
	dir := isolate(t)
	manifest, _ := writeFixture(t, dir)

	if _, err := run(t, "catalog", manifest); err != nil {
		t.Errorf("catalog: %v", err)
	}
	if _, err := run(t, "catalog"); !errors.Is(err, errNoCatalog) {
		t.Errorf("catalog without manifest error = %v, want errNoCatalog", err)
	}
}

func TestCatalogFromConfig(t *testing.T) {
	dir := isolate(t)
	manifest, _ := writeFixture(t, dir)
	cfg := filepath.Join(dir, "blockdock.toml")
	writeFile(t, cfg, "[catalog]\nmanifest = "+`"`+filepath.ToSlash(manifest)+`"`+"\n")

	if _, err := run(t, "--config", cfg, "catalog"); err != nil {
		t.Errorf("catalog with configured manifest: %v", err)
	}

	writeFile(t, cfg, "[catalog]\nmanifets = \"x\"\n")
	if _, err := run(t, "--config", cfg, "catalog"); err == nil {
		t.Error("unknown config key accepted")
	}
}

func TestRender(t *testing.T) {
	dir := isolate(t)
	manifest, workspace := writeFixture(t, dir)
	base := filepath.Join(dir, "out", "scene")

	args := []string{"render", workspace, "--catalog", manifest, "-f", "svg,code,dot", "-o", base, "--placeholder", "0"}
	if _, err := run(t, args...); err != nil {
		t.Fatalf("render: %v", err)
	}
	if got := readFile(t, base+".code.txt"); got != "on start:\nmove(0)\n" {
		t.Errorf("code = %q", got)
	}
	if got := readFile(t, base+".svg"); !strings.HasPrefix(got, "<svg") {
		t.Errorf("svg = %.40q", got)
	}
	if got := readFile(t, base+".dot"); !strings.Contains(got, "digraph") {
		t.Errorf("dot = %.40q", got)
	}

	// The second run is served from the file cache.
	entries, err := os.ReadDir(filepath.Join(dir, "cache", appName))
	if err != nil || len(entries) == 0 {
		t.Errorf("cache dir empty after render: %v", err)
	}
	if _, err := run(t, args...); err != nil {
		t.Fatalf("cached render: %v", err)
	}

	if _, err := run(t, "render", workspace, "--catalog", manifest, "-f", "svg,code", "-o", "-"); err == nil {
		t.Error("several formats to stdout accepted")
	}
	if _, err := run(t, "render", workspace, "--catalog", manifest, "-f", "gif"); err == nil {
		t.Error("unknown format accepted")
	}
	if _, err := run(t, "render", workspace); !errors.Is(err, errNoCatalog) {
		t.Errorf("render without catalog error = %v", err)
	}
}

func TestDockDetachAndRedock(t *testing.T) {
	dir := isolate(t)
	manifest, workspace := writeFixture(t, dir)
	away := filepath.Join(dir, "away.json")
	back := filepath.Join(dir, "back.json")

	if _, err := run(t, "dock", workspace, "--catalog", manifest, "--node", "move",
		"--dx", "300", "--dy", "300", "-o", away); err != nil {
		t.Fatalf("dock away: %v", err)
	}
	if got := parentOf(t, manifest, away, "move"); got != "" {
		t.Errorf("after dragging away parent = %q, want none", got)
	}

	preview := filepath.Join(dir, "preview.svg")
	if _, err := run(t, "dock", away, "--catalog", manifest, "--node", "move",
		"--dx", "-300", "--dy", "-300", "-o", back, "--preview", preview); err != nil {
		t.Fatalf("dock back: %v", err)
	}
	if got := parentOf(t, manifest, back, "move"); got != "start" {
		t.Errorf("after dragging back parent = %q, want start", got)
	}
	if got := readFile(t, preview); !strings.HasPrefix(got, "<svg") {
		t.Errorf("preview = %.40q", got)
	}
}

func TestDockTrash(t *testing.T) {
	dir := isolate(t)
	manifest, workspace := writeFixture(t, dir)

	cat, err := catalog.Load(context.Background(), manifest, catalog.Options{})
	if err != nil {
		t.Fatal(err)
	}
	s, err := bdio.ImportJSON(workspace, cat)
	if err != nil {
		t.Fatal(err)
	}
	n, _ := s.Lookup("move")
	c := n.Box().Center()
	trash := strings.Join([]string{ftoa(c.X + 400), ftoa(c.Y)}, ",")

	out := filepath.Join(dir, "out.json")
	if _, err := run(t, "dock", workspace, "--catalog", manifest, "--node", "move",
		"--dx", "400", "--trash", trash, "--remove", "-o", out); err != nil {
		t.Fatalf("dock: %v", err)
	}
	if strings.Contains(readFile(t, out), `"motion.move"`) {
		t.Error("trashed node still in workspace")
	}

	if _, err := run(t, "dock", workspace, "--catalog", manifest, "--node", "nope"); err == nil {
		t.Error("unknown node accepted")
	}
	if _, err := run(t, "dock", workspace, "--catalog", manifest, "--node", "move", "--trash", "1;2"); err == nil {
		t.Error("bad trash point accepted")
	}
}

func TestPublish(t *testing.T) {
	dir := isolate(t)
	writeFixture(t, dir)
	storeDir := filepath.Join(dir, "data", appName, "definitions")

	if _, err := run(t, "publish", filepath.Join(dir, "move.cbd"), filepath.Join(dir, "start.cbd")); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if _, err := os.Stat(filepath.Join(storeDir, "motion.move"+codec.Ext)); err != nil {
		t.Errorf("definition not stored: %v", err)
	}
	if _, err := run(t, "publish", "--list"); err != nil {
		t.Errorf("publish --list: %v", err)
	}
	if _, err := run(t, "publish", "--remove", "motion.move"); err != nil {
		t.Fatalf("publish --remove: %v", err)
	}
	if _, err := os.Stat(filepath.Join(storeDir, "motion.move"+codec.Ext)); !os.IsNotExist(err) {
		t.Errorf("definition still stored: %v", err)
	}

	bad := filepath.Join(dir, "bad.cbd")
	writeFile(t, bad, "junk")
	if _, err := run(t, "publish", bad); err == nil {
		t.Error("publishing a broken file succeeded")
	}
	if _, err := run(t, "publish"); err == nil {
		t.Error("publish without files succeeded")
	}
}

func TestCacheCommands(t *testing.T) {
	dir := isolate(t)

	out, err := run(t, "cache", "path")
	if err != nil {
		t.Fatalf("cache path: %v", err)
	}
	if want := filepath.Join(dir, "cache", appName); strings.TrimSpace(out) != want {
		t.Errorf("cache path = %q, want %q", out, want)
	}

	manifest, workspace := writeFixture(t, dir)
	if _, err := run(t, "render", workspace, "--catalog", manifest, "-o", filepath.Join(dir, "x.svg")); err != nil {
		t.Fatal(err)
	}
	if _, err := run(t, "cache", "clear"); err != nil {
		t.Fatalf("cache clear: %v", err)
	}
	if entries, _ := os.ReadDir(filepath.Join(dir, "cache", appName)); len(entries) != 0 {
		t.Errorf("%d cache shards survived clear", len(entries))
	}
}

func TestCompletion(t *testing.T) {
	isolate(t)
	out, err := run(t, "completion", "bash")
	if err != nil {
		t.Fatalf("completion: %v", err)
	}
	if !strings.Contains(out, appName) {
		t.Error("bash completion does not mention the command")
	}
	if _, err := run(t, "completion", "tcsh"); err == nil {
		t.Error("unknown shell accepted")
	}
}

func parentOf(t *testing.T, manifest, workspace, id string) string {
	t.Helper()
	cat, err := catalog.Load(context.Background(), manifest, catalog.Options{})
	if err != nil {
		t.Fatal(err)
	}
	s, err := bdio.ImportJSON(workspace, cat)
	if err != nil {
		t.Fatalf("import %s: %v", workspace, err)
	}
	n, ok := s.Lookup(id)
	if !ok {
		t.Fatalf("node %s missing from %s", id, workspace)
	}
	if p := n.Parent(); p != nil {
		return p.ID()
	}
	return ""
}

func ftoa(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func TestExamples(t *testing.T) {
	dir := isolate(t)
	src := filepath.Join("..", "..", "examples")

	sources, err := filepath.Glob(filepath.Join(src, "blocks", "*", "*.toml"))
	if err != nil || len(sources) == 0 {
		t.Fatalf("no example sources: %v", err)
	}
	for _, s := range sources {
		rel, _ := filepath.Rel(filepath.Join(src, "blocks"), s)
		dst := filepath.Join(dir, "blocks", strings.TrimSuffix(rel, ".toml")+codec.Ext)
		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			t.Fatal(err)
		}
		if _, err := run(t, "encode", s, "-o", dst); err != nil {
			t.Fatalf("encode %s: %v", rel, err)
		}
	}
	manifest := filepath.Join(dir, "blocks", "manifest.toml")
	writeFile(t, manifest, readFile(t, filepath.Join(src, "blocks", "manifest.toml")))

	out := filepath.Join(dir, "scene.py")
	if _, err := run(t, "render", filepath.Join(src, "scene.json"), "--catalog", manifest,
		"-f", "code", "--placeholder", "1", "-o", out); err != nil {
		t.Fatalf("render example scene: %v", err)
	}
	want := "def main():\n    move((1 + 1))\n    turn(1)\n\n    sleep(1)\n"
	if got := readFile(t, out); got != want {
		t.Errorf("example code = %q, want %q", got, want)
	}

	if _, err := run(t, "--config", filepath.Join(src, "config.toml"), "cache", "path"); err != nil {
		t.Errorf("example config: %v", err)
	}
}
