package catalog

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/blockdock/pkg/block"
	"github.com/matzehuels/blockdock/pkg/codec"
	bderrors "github.com/matzehuels/blockdock/pkg/errors"
	"github.com/matzehuels/blockdock/pkg/node"
	"github.com/matzehuels/blockdock/pkg/observability"
)

// Manifest lists the definition files of a catalog by category:
//
//	[[category]]
//	name = "motion"
//	blocks = ["motion/move.cbd", "motion/turn.cbd"]
type Manifest struct {
	Categories []ManifestCategory `toml:"category"`
}

// ManifestCategory is one [[category]] table of a manifest.
type ManifestCategory struct {
	Name   string   `toml:"name"`
	Blocks []string `toml:"blocks"`
}

// ParseManifest decodes manifest TOML and validates every listed path.
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if _, err := toml.Decode(string(data), &m); err != nil {
		return nil, bderrors.Wrap(bderrors.ErrCodeInvalidManifest, err, "parse manifest")
	}
	for i, c := range m.Categories {
		if c.Name == "" {
			return nil, bderrors.New(bderrors.ErrCodeInvalidManifest, "category %d has no name", i+1)
		}
		for _, p := range c.Blocks {
			if err := bderrors.ValidatePath(p); err != nil {
				return nil, fmt.Errorf("category %s: %w", c.Name, err)
			}
		}
	}
	return &m, nil
}

// Category is a named group of loaded templates, in manifest order.
type Category struct {
	Name string
	IDs  []string
}

// Problem records a definition file that could not be loaded.
type Problem struct {
	Path string
	Err  error
}

func (p Problem) String() string { return p.Path + ": " + p.Err.Error() }

// Options configures [Load].
type Options struct {
	// Logger receives per-file warnings. Nil discards them.
	Logger *log.Logger
}

// Catalog is the set of templates available for instantiation. It is safe
// for concurrent use and implements [node.Factory].
type Catalog struct {
	mu         sync.RWMutex
	categories []Category
	templates  map[string]*block.Template
	versions   map[string]codec.Info

	// Problems lists the files skipped while loading.
	Problems []Problem
}

// New returns an empty catalog.
func New() *Catalog {
	return &Catalog{
		templates: make(map[string]*block.Template),
		versions:  make(map[string]codec.Info),
	}
}

// Load reads the manifest at path and decodes every definition it lists,
// relative to the manifest's directory. Malformed or duplicate definitions
// are skipped and recorded in Problems; only an unreadable manifest or a
// cancelled context fails the load. Definitions with an unsupported
// version are kept and logged.
func Load(ctx context.Context, path string, opts Options) (c *Catalog, err error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	hooks := observability.Pipeline()
	hooks.OnCatalogLoadStart(ctx, path)
	start := time.Now()
	defer func() {
		n, problems := 0, 0
		if c != nil {
			n, problems = c.Len(), len(c.Problems)
		}
		hooks.OnCatalogLoadComplete(ctx, path, n, problems, time.Since(start), err)
	}()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, bderrors.Wrap(bderrors.ErrCodeFileNotFound, err, "open manifest %s", path)
		}
		return nil, err
	}
	m, err := ParseManifest(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	c = New()
	dir := filepath.Dir(path)
	for _, mc := range m.Categories {
		cat := Category{Name: mc.Name}
		for _, rel := range mc.Blocks {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			file := filepath.Join(dir, filepath.FromSlash(rel))
			t, info, err := codec.ReadFile(file)
			if err == nil {
				_, dup := c.templates[t.ID]
				if dup {
					err = bderrors.New(bderrors.ErrCodeInvalidIdentifier, "duplicate identifier %s", t.ID)
				}
			}
			if err != nil {
				logger.Warn("skipping definition", "path", rel, "err", err)
				c.Problems = append(c.Problems, Problem{Path: rel, Err: err})
				continue
			}
			if !info.Supported() {
				logger.Warn("unsupported definition version", "path", rel, "version", info.Version, "status", info.Status)
			}
			c.templates[t.ID] = t
			c.versions[t.ID] = info
			cat.IDs = append(cat.IDs, t.ID)
		}
		c.categories = append(c.categories, cat)
	}

	logger.Debug("loaded catalog", "path", path, "templates", len(c.templates), "problems", len(c.Problems))
	return c, nil
}

// Lookup returns the template registered under id. Callers must not modify
// the result; [node.Surface] copies it on creation.
func (c *Catalog) Lookup(id string) (*block.Template, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	t, ok := c.templates[id]
	if !ok {
		return nil, bderrors.New(bderrors.ErrCodeTemplateNotFound, "no template %q", id)
	}
	return t, nil
}

// Version returns the format version a template was decoded with.
// Templates added with [Catalog.Add] report the current version.
func (c *Catalog) Version(id string) (codec.Info, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	info, ok := c.versions[id]
	return info, ok
}

// Add registers t under category, replacing any template with the same
// identifier.
func (c *Catalog) Add(category string, t *block.Template) error {
	if t == nil {
		return bderrors.New(bderrors.ErrCodeInvalidInput, "nil template")
	}
	if err := bderrors.ValidateIdentifier(t.ID); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.templates[t.ID]; !exists {
		i := slices.IndexFunc(c.categories, func(cat Category) bool { return cat.Name == category })
		if i < 0 {
			c.categories = append(c.categories, Category{Name: category})
			i = len(c.categories) - 1
		}
		c.categories[i].IDs = append(c.categories[i].IDs, t.ID)
	}
	c.templates[t.ID] = t.Clone()
	c.versions[t.ID] = codec.Info{Version: codec.FormatVersion, Status: codec.VersionOK}
	return nil
}

// Len returns the number of templates.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.templates)
}

// Categories returns the categories in manifest order.
func (c *Catalog) Categories() []Category {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Category, len(c.categories))
	for i, cat := range c.categories {
		out[i] = Category{Name: cat.Name, IDs: slices.Clone(cat.IDs)}
	}
	return out
}

// Templates returns every template, ordered by category then manifest
// position.
func (c *Catalog) Templates() []*block.Template {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []*block.Template
	for _, cat := range c.categories {
		for _, id := range cat.IDs {
			out = append(out, c.templates[id])
		}
	}
	return out
}

var _ node.Factory = (*Catalog)(nil)
