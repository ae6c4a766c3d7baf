package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/blockdock/pkg/pipeline"
)

// formatSuffix is the file suffix written for each output format.
var formatSuffix = map[string]string{
	pipeline.FormatSVG:   ".svg",
	pipeline.FormatPNG:   ".png",
	pipeline.FormatPDF:   ".pdf",
	pipeline.FormatDOT:   ".dot",
	pipeline.FormatGraph: ".graph.svg",
	pipeline.FormatCode:  ".code.txt",
	pipeline.FormatJSON:  ".workspace.json",
}

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	manifest    string
	output      string // output file, or base path when several formats are rendered
	formats     string
	style       string
	lang        string
	placeholder string
	padding     float64
	scale       float64
	detailed    bool
	noCache     bool
	refresh     bool
}

// renderCommand creates the render command, which turns a saved workspace
// into images, topology graphs and generated code.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{
		style:   pipeline.DefaultStyle,
		padding: pipeline.DefaultPadding,
		scale:   pipeline.DefaultScale,
	}

	cmd := &cobra.Command{
		Use:   "render <workspace.json>",
		Short: "Render a workspace to SVG, graphs or code",
		Long: `Render a saved workspace using the templates of a catalog.

Formats:
  svg    the blocks as laid out on the surface
  png    the same, rasterized (needs rsvg-convert)
  pdf    the same, as PDF (needs rsvg-convert)
  dot    the attachment topology as Graphviz source
  graph  the attachment topology rendered to SVG
  code   the program text the scripts generate
  json   the workspace, normalized

Artifacts are cached; an unchanged workspace renders from the cache.`,
		Example: `  blockdock render scene.json --catalog blocks/manifest.toml
  blockdock render scene.json -f svg,code -o out/scene
  blockdock render scene.json -f code -o - --placeholder 0`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.manifest, "catalog", "", "catalog manifest (default: catalog.manifest from config)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file or base path (default: next to the workspace)")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", pipeline.FormatSVG, "comma-separated formats: svg, png, pdf, dot, graph, code, json")
	cmd.Flags().StringVar(&opts.style, "style", opts.style, "visual style")
	cmd.Flags().StringVar(&opts.lang, "lang", "", "display language (default: the workspace's)")
	cmd.Flags().StringVar(&opts.placeholder, "placeholder", "", "code emitted for empty slots")
	cmd.Flags().Float64Var(&opts.padding, "padding", opts.padding, "padding around the surface")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "PNG scale factor")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "label graph edges with slot numbers")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "re-render even when cached")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, workspace string, opts renderOpts) error {
	manifest := opts.manifest
	if manifest == "" {
		manifest = c.Config.Catalog.Manifest
	}
	if manifest == "" {
		return errNoCatalog
	}
	formats := parseFormats(opts.formats)
	if err := pipeline.ValidateFormats(formats); err != nil {
		return err
	}
	if opts.output == "-" && len(formats) > 1 {
		return fmt.Errorf("cannot write %d formats to stdout", len(formats))
	}

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	spinner := startSpinner(ctx, os.Stderr, "Rendering "+filepath.Base(workspace)+"...")
	result, err := runner.Execute(ctx, pipeline.Options{
		Manifest:    manifest,
		Workspace:   workspace,
		Language:    opts.lang,
		Formats:     formats,
		Style:       opts.style,
		Padding:     opts.padding,
		Scale:       opts.scale,
		Detailed:    opts.detailed,
		Placeholder: opts.placeholder,
		Refresh:     opts.refresh,
		Logger:      c.Logger,
	})
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	if opts.output == "-" {
		_, err := os.Stdout.Write(result.Artifacts[formats[0]])
		return err
	}

	paths, err := writeArtifacts(result.Artifacts, formats, workspace, opts.output)
	if err != nil {
		return err
	}

	printSuccess("Rendered %s", filepath.Base(workspace))
	for _, p := range paths {
		printFile(p)
	}
	printStats(result.Stats.Nodes, result.Stats.Scripts, len(result.CacheInfo.Misses) == 0)
	if result.Stats.Problems > 0 {
		printWarning("%d catalog definitions could not be loaded", result.Stats.Problems)
		printNextStep("Show them with", "blockdock catalog "+manifest)
	}
	return nil
}

// writeArtifacts writes one file per format. A single format goes to output
// as given; several formats use output as a base path with per-format
// suffixes.
func writeArtifacts(artifacts map[string][]byte, formats []string, workspace, output string) ([]string, error) {
	base := output
	if base == "" {
		base = strings.TrimSuffix(workspace, filepath.Ext(workspace))
	}
	single := len(formats) == 1 && output != ""

	var paths []string
	for _, f := range slices.Compact(slices.Clone(formats)) {
		path := base + formatSuffix[f]
		if single {
			path = output
		}
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create output dir: %w", err)
			}
		}
		if err := os.WriteFile(path, artifacts[f], 0o644); err != nil {
			return nil, fmt.Errorf("write %s: %w", f, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
