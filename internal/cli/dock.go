package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/blockdock/pkg/dock"
	bderrors "github.com/matzehuels/blockdock/pkg/errors"
	"github.com/matzehuels/blockdock/pkg/geometry"
	bdio "github.com/matzehuels/blockdock/pkg/io"
	"github.com/matzehuels/blockdock/pkg/node"
	"github.com/matzehuels/blockdock/pkg/render/sink"
)

// dockOpts holds the command-line flags for the dock command.
type dockOpts struct {
	manifest string
	nodeID   string
	dx, dy   float64
	steps    int
	trash    string // "x,y" center of the delete zone
	zoom     float64
	scrollX  float64
	scrollY  float64
	remove   bool // remove the node when released over the delete zone
	output   string
	preview  string
}

// dockCommand creates the dock command, which replays a drag on a saved
// workspace and reports where the block lands.
func (c *CLI) dockCommand() *cobra.Command {
	opts := dockOpts{steps: 10}

	cmd := &cobra.Command{
		Use:   "dock <workspace.json>",
		Short: "Drag a block in a workspace and report where it docks",
		Long: `Replay a drag of one block by (dx, dy) in a number of steps, the way an
editor delivers pointer moves, and report the docking decision.

Tolerances come from the [dock] section of the config file. With --output
the workspace is saved after the drag; with --preview the surface is drawn
just before release, ghost included.`,
		Example: `  blockdock dock scene.json --node n2 --dx 0 --dy 120 -o scene.json
  blockdock dock scene.json --node n2 --dx 400 --trash 500,40 --remove`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runDock(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.manifest, "catalog", "", "catalog manifest (default: catalog.manifest from config)")
	cmd.Flags().StringVar(&opts.nodeID, "node", "", "id of the node to drag")
	cmd.Flags().Float64Var(&opts.dx, "dx", 0, "horizontal distance")
	cmd.Flags().Float64Var(&opts.dy, "dy", 0, "vertical distance")
	cmd.Flags().IntVar(&opts.steps, "steps", opts.steps, "number of pointer moves")
	cmd.Flags().StringVar(&opts.trash, "trash", "", "delete zone center as x,y")
	cmd.Flags().Float64Var(&opts.zoom, "zoom", 0, "viewport zoom; tests the delete zone in screen space")
	cmd.Flags().Float64Var(&opts.scrollX, "scroll-x", 0, "viewport horizontal scroll")
	cmd.Flags().Float64Var(&opts.scrollY, "scroll-y", 0, "viewport vertical scroll")
	cmd.Flags().BoolVar(&opts.remove, "remove", false, "remove the block and its chain when dropped on the delete zone")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "save the workspace here after the drag")
	cmd.Flags().StringVar(&opts.preview, "preview", "", "write an SVG of the surface before release")
	_ = cmd.MarkFlagRequired("node")

	return cmd
}

func (c *CLI) runDock(ctx context.Context, workspace string, opts dockOpts) error {
	cat, err := c.loadCatalog(ctx, opts.manifest)
	if err != nil {
		return err
	}
	s, err := bdio.ImportJSON(workspace, cat)
	if err != nil {
		return err
	}
	n, ok := s.Lookup(opts.nodeID)
	if !ok {
		return bderrors.New(bderrors.ErrCodeNotFound, "no node %q in %s", opts.nodeID, workspace)
	}

	cfg := c.Config.DockConfig()
	if opts.trash != "" {
		center, err := parsePoint(opts.trash)
		if err != nil {
			return err
		}
		cfg.TrashCenter = &center
	}

	engine := dock.New(s, cfg)
	prog := newProgress(c.Logger)
	drag := replayDrag(engine, n, opts)
	c.Logger.Debug("released", "node", n.ID(), "docked", drag.Last().Docked(), "trash", drag.Last().Trash)
	if opts.preview != "" {
		svg := sink.RenderSVG(s, sink.WithGhost(engine.Ghost()))
		if err := os.WriteFile(opts.preview, svg, 0o644); err != nil {
			return fmt.Errorf("write preview: %w", err)
		}
	}
	final := drag.End()
	prog.done("Replayed drag of " + n.ID())

	switch {
	case final.Trash && opts.remove:
		printSuccess("Removed %s (%d blocks)", opts.nodeID, n.RemoveCascade())
	case final.Trash:
		printWarning("%s was released over the delete zone; pass --remove to delete it", opts.nodeID)
	case final.Docked():
		printSuccess("Docked %s to %s %s", opts.nodeID, final.Target.ID(), slotName(final.Slot))
	default:
		pos := n.Position()
		printInfo("%s stays free at (%g, %g)", opts.nodeID, pos.X, pos.Y)
	}

	if err := s.Validate(); err != nil {
		return bderrors.Wrap(bderrors.ErrCodeInternal, err, "workspace inconsistent after drag")
	}
	if opts.preview != "" {
		printFile(opts.preview)
	}
	if opts.output != "" {
		if err := bdio.ExportJSON(s, opts.output); err != nil {
			return err
		}
		printFile(opts.output)
	}
	return nil
}

// replayDrag moves n by (dx, dy) in opts.steps equal pointer moves and
// returns the drag unreleased.
func replayDrag(e *dock.Engine, n *node.Node, opts dockOpts) *dock.Drag {
	steps := max(1, opts.steps)
	stepX, stepY := opts.dx/float64(steps), opts.dy/float64(steps)
	vp := dock.Viewport{Zoom: opts.zoom, ScrollX: opts.scrollX, ScrollY: opts.scrollY}
	screen := opts.zoom > 0 || opts.scrollX != 0 || opts.scrollY != 0

	drag := e.Begin(n)
	for range steps {
		if screen {
			drag.MoveInViewport(stepX, stepY, vp)
		} else {
			drag.Move(stepX, stepY)
		}
	}
	return drag
}

func slotName(slot int) string {
	if slot == node.AttachedBottom {
		return "below"
	}
	return fmt.Sprintf("in slot %d", slot)
}

// parsePoint parses "x,y".
func parsePoint(s string) (geometry.Point, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return geometry.Point{}, bderrors.New(bderrors.ErrCodeInvalidInput, "point %q is not x,y", s)
	}
	x, errX := strconv.ParseFloat(strings.TrimSpace(xs), 64)
	y, errY := strconv.ParseFloat(strings.TrimSpace(ys), 64)
	if errX != nil || errY != nil {
		return geometry.Point{}, bderrors.New(bderrors.ErrCodeInvalidInput, "point %q is not x,y", s)
	}
	return geometry.Point{X: x, Y: y}, nil
}
