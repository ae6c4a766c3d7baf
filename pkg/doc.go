// Package pkg holds the libraries behind blockdock, a composition engine
// for snap-together code blocks.
//
// # Overview
//
// A block is an instance of a [block.Template] placed on a [node.Surface].
// Blocks dock below one another to form scripts and into each other's value
// slots to form expressions. The packages split along that model:
//
//  1. [block] - shared vocabulary: kinds, socket variants, colors, slot types,
//     templates and size metrics
//  2. [geometry] - puzzle-piece outlines as paths of lines and arcs
//  3. [node] - the block tree: attaching, detaching, removing and layout
//  4. [dock] - deciding during a drag whether and where a block snaps
//  5. [codec] - the binary definition format (.cbd)
//
// Around the engine sit the host-facing packages:
//
//   - [catalog]: manifests of definition files, and TOML definition sources
//   - [io]: workspace JSON import and export
//   - [codegen]: program text from assembled scripts
//   - [render]: SVG, PNG and PDF of a surface, Graphviz of its topology
//   - [pipeline]: workspace to artifacts, with caching
//   - [cache] and [store]: artifact caching (file, Redis) and definition
//     storage (directory, MongoDB)
//   - [errors] and [observability]: coded errors and event hooks
//
// # Data Flow
//
//	manifest.toml ──► catalog ──► node.Surface ◄── workspace.json
//	                                  │
//	                    dock.Drag ◄───┤───► codegen
//	                                  ▼
//	                     render/sink, render/nodelink
//
// # Quick Start
//
//	cat, err := catalog.Load(ctx, "blocks/manifest.toml", catalog.Options{})
//	s, err := io.ImportJSON("scene.json", cat)
//
//	n, _ := s.Lookup("move")
//	drag := dock.New(s, dock.DefaultConfig()).Begin(n)
//	drag.Move(0, 40)
//	if d := drag.End(); d.Docked() {
//	    fmt.Println("docked to", d.Target.ID())
//	}
//
//	svg := sink.RenderSVG(s)
//	code, err := codegen.GenerateSurface(s, codegen.Options{})
package pkg
