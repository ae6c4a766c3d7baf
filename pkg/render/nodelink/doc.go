// Package nodelink renders the attachment topology of a surface as a
// node-link diagram.
//
// Where package sink draws blocks the way the editor shows them, this
// package draws who is attached to whom: one box per node, one arrow per
// link. It is a debugging view for workspaces whose blocks overlap or
// whose links are hard to see.
//
//	dot := nodelink.ToDOT(surface, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// Bottom links are solid and labelled "bottom"; slot links are dashed and
// labelled "slot N" with N counted from 1.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PNG and PDF conversion requires librsvg (rsvg-convert).
package nodelink
