package pipeline

import (
	"bytes"
	"context"
	"fmt"

	"github.com/matzehuels/blockdock/pkg/codegen"
	bdio "github.com/matzehuels/blockdock/pkg/io"
	"github.com/matzehuels/blockdock/pkg/node"
	"github.com/matzehuels/blockdock/pkg/render"
	"github.com/matzehuels/blockdock/pkg/render/nodelink"
	"github.com/matzehuels/blockdock/pkg/render/sink"
	"github.com/matzehuels/blockdock/pkg/render/styles"
)

// Render produces one artifact for format from s.
func Render(ctx context.Context, s *node.Surface, format string, opts Options) ([]byte, error) {
	switch format {
	case FormatSVG:
		return sink.RenderSVG(s, buildSVGOptions(opts)...), nil
	case FormatPNG:
		return render.ToPNG(ctx, sink.RenderSVG(s, buildSVGOptions(opts)...), opts.Scale)
	case FormatPDF:
		return render.ToPDF(ctx, sink.RenderSVG(s, buildSVGOptions(opts)...))
	case FormatDOT:
		return []byte(nodelink.ToDOT(s, nodelink.Options{Detailed: opts.Detailed})), nil
	case FormatGraph:
		return nodelink.RenderSVG(ctx, nodelink.ToDOT(s, nodelink.Options{Detailed: opts.Detailed}))
	case FormatCode:
		code, err := codegen.GenerateSurface(s, codegen.Options{Placeholder: opts.Placeholder})
		if err != nil {
			return nil, err
		}
		return []byte(code + "\n"), nil
	case FormatJSON:
		var buf bytes.Buffer
		if err := bdio.WriteJSON(s, &buf); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// RenderAll produces every format in opts.Formats without caching.
func RenderAll(ctx context.Context, s *node.Surface, opts Options) (map[string][]byte, error) {
	opts.SetRenderDefaults()
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		data, err := Render(ctx, s, format, opts)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

func buildSVGOptions(opts Options) []sink.SVGOption {
	svgOpts := []sink.SVGOption{sink.WithPadding(opts.Padding)}
	switch opts.Style {
	case StyleSimple, "":
		svgOpts = append(svgOpts, sink.WithStyle(styles.Simple{}))
	}
	return svgOpts
}
