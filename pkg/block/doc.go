// Package block defines the vocabulary shared by every part of blockdock:
// block kinds, socket variants, colors, slot types, the static block
// [Template] and the fixed metrics that geometry, node layout and docking
// agree on.
//
// # Templates
//
// A [Template] is the static definition of a block: identifier, kind,
// variant mask, fill color, code template, slot typing and localized display
// text. Templates are what the definition codec persists; placed blocks
// (see package node) each own a deep copy.
//
// Display text carries value slot markers written as "&name":
//
//	t := &block.Template{
//	    ID:           "motor.run",
//	    Kind:         block.Process,
//	    Variant:      block.TopSocket | block.BottomPlug | block.RightPlug,
//	    Code:         "run(&speed)",
//	    Translations: map[string]string{"en": "run at &speed"},
//	}
//	t.Slots("en") // ["speed"]
//
// # Metrics
//
// All outline and placement math uses the constants in metrics.go: notch
// size, corner radius and the vertical slot pitch. Changing them changes
// the puzzle-piece silhouette and the docking offsets together.
package block
