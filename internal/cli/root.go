package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/matzehuels/blockdock/pkg/buildinfo"
)

var errNoCatalog = errors.New("no catalog: pass --catalog or set catalog.manifest in the config file")

// RootCommand creates the root cobra command with all subcommands registered.
// The config file is loaded before any subcommand runs.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Blockdock builds and inspects visual programming blocks",
		Long: `Blockdock is a toolkit for snap-together code blocks: it encodes and
decodes block definitions, draws block outlines, simulates docking, renders
saved workspaces and serves catalogs over HTTP.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/blockdock/config.toml)")

	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.encodeCommand())
	root.AddCommand(c.outlineCommand())
	root.AddCommand(c.catalogCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.dockCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.publishCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}
