// Package io provides JSON import and export for block workspaces.
//
// # Overview
//
// A workspace is every node on a [node.Surface]: which template it
// instantiates, where it sits, how big it is and what it is attached to.
// Templates themselves are not stored; they are resolved by identifier
// through a [node.Factory] (usually a catalog.Catalog) on import.
//
// # JSON Format
//
//	{
//	  "language": "en",
//	  "nodes": [
//	    {"id": "a", "template": "event.start", "x": 40, "y": 20, "width": 100, "height": 42},
//	    {"id": "b", "template": "motor.run", "x": 40, "y": 62, "slots": 1, "parent": "a", "slot": -1},
//	    {"id": "c", "template": "math.num", "x": 140, "y": 72, "parent": "b", "slot": 1}
//	  ]
//	}
//
// Node fields:
//   - id: unique node identifier
//   - template: template identifier passed to the factory
//   - x, y: position; only honored for roots
//   - width, height: size, raised to the minimum for the kind
//   - slots: right slot count, when it differs from the template's
//   - lang: layout language, when it differs from the workspace's
//   - parent, slot: the link to the parent; slot is -1 for the bottom
//     position and N for right slot N-1
//
// # Usage
//
//	s, err := io.ImportJSON("scene.json", cat)
//	...
//	err = io.ExportJSON(s, "scene.json")
//
// Import validates the whole document and rejects it on the first broken
// reference instead of loading a partial workspace.
package io
