// Package catalog loads the block templates a workspace can instantiate.
//
// A catalog is described by a TOML manifest listing binary definition files
// (see package codec) by category:
//
//	[[category]]
//	name = "control"
//	blocks = ["control/wait.cbd", "control/repeat.cbd"]
//
// [Load] decodes every listed file. A damaged file does not fail the load:
// it is skipped, logged and recorded in [Catalog.Problems], so one bad
// definition never hides the rest of the toolbox.
//
// The loaded [Catalog] implements node.Factory, so a surface can create
// blocks by identifier:
//
//	cat, err := catalog.Load(ctx, "blocks/manifest.toml", catalog.Options{Logger: logger})
//	s := node.NewSurface(cat)
//	n, err := s.CreateFromID("motor.run")
//
// Definitions are authored as TOML sources ([Source], [ParseSource],
// [LoadSource]) and compiled to the binary format with codec.Encode.
package catalog
