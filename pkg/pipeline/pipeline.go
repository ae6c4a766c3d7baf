// Package pipeline turns a catalog and a saved workspace into output
// artifacts.
//
// The CLI and the HTTP server share this package so that both load,
// render and cache the same way.
//
// # Stages
//
//  1. Load: decode the catalog manifest and rebuild the workspace surface
//  2. Render: produce each requested format from the surface
//
// Every artifact is cached under a key derived from the workspace bytes,
// the catalog's definitions and the options that affect that format, so
// re-rendering an unchanged workspace is a cache read.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Manifest:  "blocks/manifest.toml",
//	    Workspace: "scene.json",
//	    Formats:   []string{"svg", "code"},
//	})
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/blockdock/pkg/cache"
	"github.com/matzehuels/blockdock/pkg/catalog"
	"github.com/matzehuels/blockdock/pkg/node"
)

// Format constants for output formats.
const (
	FormatSVG   = "svg"   // block surface as SVG
	FormatPNG   = "png"   // block surface as PNG, needs rsvg-convert
	FormatPDF   = "pdf"   // block surface as PDF, needs rsvg-convert
	FormatDOT   = "dot"   // attachment topology as Graphviz source
	FormatGraph = "graph" // attachment topology rendered to SVG
	FormatCode  = "code"  // generated program text
	FormatJSON  = "json"  // normalized workspace JSON
)

// Style names.
const (
	StyleSimple = "simple"
)

// Defaults applied by [Options.ValidateAndSetDefaults].
const (
	DefaultStyle   = StyleSimple
	DefaultPadding = 20.0
	DefaultScale   = 2.0
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:   true,
	FormatPNG:   true,
	FormatPDF:   true,
	FormatDOT:   true,
	FormatGraph: true,
	FormatCode:  true,
	FormatJSON:  true,
}

// ValidStyles is the set of supported visual styles.
var ValidStyles = map[string]bool{
	StyleSimple: true,
}

// Options contains all configuration for a pipeline run.
type Options struct {
	// Load options
	Manifest  string `json:"manifest"`
	Workspace string `json:"workspace"`
	Language  string `json:"language,omitempty"` // overrides the workspace language

	// Render options
	Formats     []string `json:"formats,omitempty"`
	Style       string   `json:"style,omitempty"`
	Padding     float64  `json:"padding,omitempty"`
	Scale       float64  `json:"scale,omitempty"` // PNG scale
	Detailed    bool     `json:"detailed,omitempty"`
	Placeholder string   `json:"placeholder,omitempty"` // code for empty slots
	Refresh     bool     `json:"refresh,omitempty"`     // ignore cached artifacts

	Logger *log.Logger `json:"-"`

	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	Catalog   *catalog.Catalog
	Surface   *node.Surface
	InputHash string
	Artifacts map[string][]byte
	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Templates  int
	Problems   int
	Nodes      int
	Scripts    int
	LoadTime   time.Duration
	RenderTime time.Duration
}

// CacheInfo lists which formats were served from the cache.
type CacheInfo struct {
	Hits   []string
	Misses []string
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return fmt.Errorf("invalid format: %q (must be one of: svg, png, pdf, dot, graph, code, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateStyle checks that a style is valid.
func ValidateStyle(style string) error {
	if !ValidStyles[style] {
		return fmt.Errorf("invalid style: %q (must be one of: simple)", style)
	}
	return nil
}

// ValidateAndSetDefaults checks required fields and applies defaults. It
// is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Manifest == "" {
		return fmt.Errorf("manifest is required")
	}
	if o.Workspace == "" {
		return fmt.Errorf("workspace is required")
	}
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if err := ValidateStyle(o.Style); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Style == "" {
		o.Style = DefaultStyle
	}
	if o.Padding == 0 {
		o.Padding = DefaultPadding
	}
	if o.Scale <= 0 {
		o.Scale = DefaultScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ArtifactKeyOpts returns the cache key options for one format. Options
// that do not affect format are left out, so they share entries.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{Format: format, Language: o.Language}
	switch format {
	case FormatSVG, FormatPNG, FormatPDF:
		k.Style, k.Padding = o.Style, o.Padding
		if format == FormatPNG {
			k.Scale = o.Scale
		}
	case FormatDOT, FormatGraph:
		k.Detailed = o.Detailed
	case FormatCode:
		k.Placeholder = o.Placeholder
	}
	return k
}
