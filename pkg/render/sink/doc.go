// Package sink renders a block surface as a standalone SVG document.
//
// Each live node is drawn as its puzzle-piece outline, filled with the
// template color and stroked with the derived border color, followed by
// its label. Nodes are drawn in stacking order.
//
//	svg := sink.RenderSVG(surface)
//
// Options adjust the output:
//
//	svg := sink.RenderSVG(surface,
//	    sink.WithStyle(styles.Simple{}),
//	    sink.WithGhost(engine.Ghost()),  // dashed drop preview during a drag
//	    sink.WithPadding(40),
//	)
//
// PNG and PDF output go through render.ToPNG and render.ToPDF.
package sink
