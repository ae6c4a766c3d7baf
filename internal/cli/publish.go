package cli

import (
	"context"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/blockdock/pkg/codec"
	bderrors "github.com/matzehuels/blockdock/pkg/errors"
	"github.com/matzehuels/blockdock/pkg/store"
)

// publishCommand creates the publish command, which copies definitions into
// the configured store.
func (c *CLI) publishCommand() *cobra.Command {
	var (
		list   bool
		remove bool
	)

	cmd := &cobra.Command{
		Use:   "publish <file.cbd>...",
		Short: "Publish block definitions to the definition store",
		Long: `Publish binary block definitions to the store configured in the config
file, replacing earlier definitions with the same identifier. Definitions
with an unsupported format version are refused.

With --list the store contents are shown instead; with --remove the
arguments are identifiers to delete.`,
		Example: `  blockdock publish blocks/motion/*.cbd
  blockdock publish --list
  blockdock publish --remove motion.move`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, err := c.openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			switch {
			case list:
				return listStore(ctx, st)
			case len(args) == 0:
				return fmt.Errorf("nothing to publish")
			case remove:
				return removeFromStore(ctx, st, args)
			}
			return c.publishFiles(ctx, st, args)
		},
	}

	cmd.Flags().BoolVar(&list, "list", false, "list stored definitions")
	cmd.Flags().BoolVar(&remove, "remove", false, "delete the named definitions")
	cmd.MarkFlagsMutuallyExclusive("list", "remove")

	return cmd
}

func (c *CLI) publishFiles(ctx context.Context, st store.Store, paths []string) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	failed := 0
	for _, path := range paths {
		t, info, err := codec.ReadFile(path)
		if err == nil && !info.Supported() {
			err = bderrors.New(bderrors.ErrCodeInvalidInput, "format version %d is %s", info.Version, info.Status)
		}
		if err == nil {
			err = st.Put(ctx, t)
		}
		if err != nil {
			printError("%s: %s", path, bderrors.UserMessage(err))
			logger.Debug("publish failed", "path", path, "err", err)
			failed++
			continue
		}
		printSuccess("Published %s", t.ID)
	}
	prog.done(fmt.Sprintf("Published %d definitions", len(paths)-failed))

	if failed > 0 {
		return fmt.Errorf("%d of %d definitions were not published", failed, len(paths))
	}
	return nil
}

func removeFromStore(ctx context.Context, st store.Store, ids []string) error {
	for _, id := range ids {
		if err := st.Delete(ctx, id); err != nil {
			return err
		}
		printSuccess("Removed %s", id)
	}
	return nil
}

func listStore(ctx context.Context, st store.Store) error {
	entries, err := st.List(ctx)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		printInfo("No published definitions")
		return nil
	}

	rows := make([][]string, len(entries))
	for i, e := range entries {
		rows[i] = []string{e.ID, fmt.Sprintf("%d B", e.Size), e.UpdatedAt.Format("2006-01-02 15:04")}
	}
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("ID", "Size", "Updated").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return listHeaderStyle
			}
			if col > 0 {
				return listDimStyle
			}
			return lipgloss.NewStyle()
		})
	fmt.Println(t.Render())
	printDetail("%d definitions", len(entries))
	return nil
}
