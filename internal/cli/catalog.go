package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/blockdock/pkg/block"
	"github.com/matzehuels/blockdock/pkg/catalog"
)

// catalogCommand creates the catalog command, which lists the templates a
// manifest loads.
func (c *CLI) catalogCommand() *cobra.Command {
	var lang string

	cmd := &cobra.Command{
		Use:   "catalog [manifest.toml]",
		Short: "List the block templates of a catalog",
		Long: `Load a catalog manifest and list its templates by category.

Definitions that fail to load are reported as problems; the rest of the
catalog is still listed. Without an argument the manifest from the config
file is used.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := c.loadCatalog(cmd.Context(), firstArg(args))
			if err != nil {
				return err
			}
			printCatalog(cat, lang)
			return nil
		},
	}

	cmd.Flags().StringVar(&lang, "lang", block.DefaultLanguage, "language for slot counts")

	return cmd
}

// browseCommand creates the browse command, an interactive catalog viewer.
func (c *CLI) browseCommand() *cobra.Command {
	var lang string

	cmd := &cobra.Command{
		Use:   "browse [manifest.toml]",
		Short: "Browse a catalog interactively",
		Long: `Open an interactive viewer over a catalog. Selecting a template prints
its TOML source.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := c.loadCatalog(cmd.Context(), firstArg(args))
			if err != nil {
				return err
			}
			for _, p := range cat.Problems {
				c.Logger.Warn("skipped definition", "problem", p.String())
			}

			final, err := tea.NewProgram(NewCatalogModel(cat, lang)).Run()
			if err != nil {
				return fmt.Errorf("browse: %w", err)
			}
			m, ok := final.(CatalogModel)
			if !ok || m.Selected == nil {
				return nil
			}
			src, err := catalog.FormatSource(m.Selected)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(src)
			return err
		},
	}

	cmd.Flags().StringVar(&lang, "lang", block.DefaultLanguage, "language for display text")

	return cmd
}

func printCatalog(cat *catalog.Catalog, lang string) {
	rows := catalogRows(cat)
	if len(rows) > 0 {
		fmt.Println(catalogTable(rows, lang, 0, len(rows), -1))
	}
	printSuccess("%d templates in %d categories", cat.Len(), len(cat.Categories()))
	if len(cat.Problems) > 0 {
		printNewline()
		printWarning("%d definitions could not be loaded", len(cat.Problems))
		for _, p := range cat.Problems {
			printDetail("%s", p.String())
		}
	}
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
