package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/blockdock/pkg/block"
	"github.com/matzehuels/blockdock/pkg/node"
	"github.com/matzehuels/blockdock/pkg/render/sink"
)

type outlineOptions struct {
	kind     string
	color    string
	left     bool
	top      bool
	right    bool
	bottom   bool
	branches int
	slots    int
	width    float64
	height   float64
	padding  float64
	pathOnly bool
	output   string
}

// outlineCommand creates the outline command, which draws a bare block
// shape without needing a catalog.
func (c *CLI) outlineCommand() *cobra.Command {
	opts := outlineOptions{kind: "process", color: "#4c97ff", top: true, bottom: true, padding: 4}

	cmd := &cobra.Command{
		Use:   "outline",
		Short: "Draw the outline of a block shape",
		Long: `Draw the outline of a block with the given kind, sockets and size.

Sizes below the minimum for the kind and slot count are raised to it. With
--path only the SVG path data is printed.`,
		Example: `  # A statement block with two value slots
  blockdock outline --kind process --right --slots 2 -o block.svg

  # A value block, path data only
  blockdock outline --kind value --left --top=false --bottom=false --path`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runOutline(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.kind, "kind", opts.kind, "block kind: event, hat, process, action, value")
	cmd.Flags().StringVar(&opts.color, "color", opts.color, "fill color as #rrggbb")
	cmd.Flags().BoolVar(&opts.left, "left", false, "left socket")
	cmd.Flags().BoolVar(&opts.top, "top", opts.top, "top socket")
	cmd.Flags().BoolVar(&opts.right, "right", false, "right value slots")
	cmd.Flags().BoolVar(&opts.bottom, "bottom", opts.bottom, "bottom plug")
	cmd.Flags().IntVar(&opts.branches, "branches", 0, "branch sections of a multi-branch block")
	cmd.Flags().IntVar(&opts.slots, "slots", 0, "number of value slots (requires --right)")
	cmd.Flags().Float64Var(&opts.width, "width", 0, "width (0 for the minimum)")
	cmd.Flags().Float64Var(&opts.height, "height", 0, "height (0 for the minimum)")
	cmd.Flags().Float64Var(&opts.padding, "padding", opts.padding, "padding around the outline")
	cmd.Flags().BoolVar(&opts.pathOnly, "path", false, "print only the SVG path data")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: stdout)")

	return cmd
}

func (c *CLI) runOutline(cmd *cobra.Command, opts outlineOptions) error {
	tmpl, err := opts.template()
	if err != nil {
		return err
	}
	if opts.slots > 0 && !opts.right {
		return fmt.Errorf("--slots needs --right")
	}

	s := node.NewSurface(nil)
	n := s.Create(tmpl)
	n.SetSlotCount(opts.slots)
	n.Resize(block.Size{W: opts.width, H: opts.height})
	meta := n.Meta()
	c.Logger.Debug("outline", "kind", meta.Kind, "sockets", meta.Variant, "slots", meta.SlotCount,
		"width", meta.Size.W, "height", meta.Size.H)

	var data []byte
	if opts.pathOnly {
		data = []byte(n.Outline().SVG() + "\n")
	} else {
		data = sink.RenderSVG(s, sink.WithoutText(), sink.WithPadding(opts.padding))
	}

	out, err := openOutput(opts.output)
	if err != nil {
		return err
	}
	defer out.Close()
	if _, err := out.Write(data); err != nil {
		return err
	}
	if opts.output != "" && opts.output != "-" {
		printSuccess("Drew %s outline (%gx%g)", meta.Kind, meta.Size.W, meta.Size.H)
		printFile(opts.output)
	}
	return nil
}

func (o outlineOptions) template() (*block.Template, error) {
	kind, err := block.ParseKind(o.kind)
	if err != nil {
		return nil, err
	}
	color, err := block.ParseColor(o.color)
	if err != nil {
		return nil, err
	}
	var v block.Variant
	for _, f := range []struct {
		on   bool
		flag block.Variant
	}{
		{o.left, block.LeftSocket},
		{o.top, block.TopSocket},
		{o.right, block.RightPlug},
		{o.bottom, block.BottomPlug},
	} {
		if f.on {
			v |= f.flag
		}
	}
	return &block.Template{
		ID:      "outline",
		Kind:    kind,
		Variant: v.WithBranches(o.branches),
		Color:   color,
	}, nil
}
