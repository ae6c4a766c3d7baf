package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/blockdock/pkg/block"
	bderrors "github.com/matzehuels/blockdock/pkg/errors"
)

var (
	tmplRun = &block.Template{
		ID:        "motor.run",
		Kind:      block.Process,
		Variant:   block.TopSocket | block.BottomPlug | block.RightPlug,
		Color:     block.RGB(0xaabbcc),
		Code:      "run(&a)",
		SlotTypes: map[string]block.SlotType{"a": block.SlotInt},
	}
	tmplStop = &block.Template{ID: "control.stop", Kind: block.Action, Variant: block.TopSocket, Color: block.RGB(0xffab19), Code: "stop()"}
)

// exerciseStore runs the behavior every backend shares.
func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	if _, err := s.Get(ctx, tmplRun.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get on empty store: err = %v, want ErrNotFound", err)
	}

	for _, tmpl := range []*block.Template{tmplRun, tmplStop} {
		if err := s.Put(ctx, tmpl); err != nil {
			t.Fatalf("Put(%s): %v", tmpl.ID, err)
		}
	}
	got, err := s.Get(ctx, tmplRun.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !got.Equal(tmplRun) {
		t.Errorf("Get() = %+v, want %+v", got, tmplRun)
	}

	changed := tmplRun.Clone()
	changed.Code = "run2(&a)"
	if err := s.Put(ctx, changed); err != nil {
		t.Fatalf("Put(replace): %v", err)
	}
	if got, _ := s.Get(ctx, tmplRun.ID); got == nil || got.Code != "run2(&a)" {
		t.Errorf("replace did not take effect: %+v", got)
	}

	entries, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 2 || entries[0].ID != "control.stop" || entries[1].ID != "motor.run" {
		t.Errorf("List() = %+v", entries)
	}
	for _, e := range entries {
		if e.Size <= 0 {
			t.Errorf("%s: Size = %d", e.ID, e.Size)
		}
	}

	if err := s.Delete(ctx, tmplRun.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := s.Delete(ctx, tmplRun.ID); err != nil {
		t.Errorf("second Delete: %v", err)
	}
	if _, err := s.Get(ctx, tmplRun.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after Delete: err = %v", err)
	}

	if err := s.Put(ctx, &block.Template{ID: "../escape", Kind: block.Value}); !bderrors.Is(err, bderrors.ErrCodeInvalidIdentifier) {
		t.Errorf("Put(bad id): err = %v", err)
	}
	if _, err := s.Get(ctx, "a/b"); !bderrors.Is(err, bderrors.ErrCodeInvalidIdentifier) {
		t.Errorf("Get(bad id): err = %v", err)
	}
}

func TestDirStore(t *testing.T) {
	s, err := NewDirStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	exerciseStore(t, s)
}

func TestDirStoreCorruptFile(t *testing.T) {
	dir := t.TempDir()
	s, _ := NewDirStore(dir)
	if err := os.WriteFile(filepath.Join(dir, "bad.cbd"), []byte{0xcb, 0xdf}, 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := s.Get(context.Background(), "bad")
	if !bderrors.IsMalformed(err) {
		t.Errorf("err = %v, want a malformed-definition error", err)
	}
}

func TestDefaultDir(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/data")
	dir, err := DefaultDir()
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join("/data", "blockdock", "definitions"); dir != want {
		t.Errorf("DefaultDir() = %s, want %s", dir, want)
	}
}

// Runs against a real server when BLOCKDOCK_MONGO_URI is set.
func TestMongoStore(t *testing.T) {
	uri := os.Getenv("BLOCKDOCK_MONGO_URI")
	if uri == "" {
		t.Skip("BLOCKDOCK_MONGO_URI not set")
	}
	ctx := context.Background()
	s, err := NewMongoStore(ctx, MongoConfig{URI: uri, Database: "blockdock_test", Collection: "definitions_" + t.Name()})
	if err != nil {
		t.Fatalf("NewMongoStore: %v", err)
	}
	defer s.Close()
	defer s.coll.Drop(ctx)
	exerciseStore(t, s)
}

func TestMongoStoreConfig(t *testing.T) {
	_, err := NewMongoStore(context.Background(), MongoConfig{URI: "mongodb://localhost"})
	if !bderrors.Is(err, bderrors.ErrCodeInvalidInput) {
		t.Errorf("missing database: err = %v", err)
	}
}
