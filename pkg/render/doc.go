// Package render provides output rendering for block surfaces.
//
// # Overview
//
// Rendering is a host-side concern: the engine packages (geometry, node,
// dock) only compute outlines and positions. This package tree turns those
// into documents:
//
//   - [sink]: SVG of a surface, one puzzle-piece outline per block
//   - [styles]: the Style interface and the flat Simple style
//   - [nodelink]: Graphviz diagram of the attachment topology
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg). When the tool is missing
// they fail with an UNSUPPORTED error.
//
//	svg := sink.RenderSVG(surface)
//	png, err := render.ToPNG(ctx, svg, 2.0)  // 2x scale
package render
