package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/matzehuels/blockdock/internal/server"
	"github.com/matzehuels/blockdock/pkg/catalog"
)

// serveCommand creates the serve command, which runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var addr, manifest string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a catalog and the definition store over HTTP",
		Long: `Serve block metadata, outlines and binary definitions over HTTP.

The catalog comes from --catalog or catalog.manifest in the config file;
without either the server starts with only the published definitions.
Definitions are published to the configured store (a directory or
MongoDB) and outlines are cached in the configured cache.`,
		Example: `  blockdock serve --catalog blocks/manifest.toml --addr :9000`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = c.Config.Server.Addr
			}
			return c.runServe(cmd.Context(), addr, manifest)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default: server.addr from config)")
	cmd.Flags().StringVar(&manifest, "catalog", "", "catalog manifest (default: catalog.manifest from config)")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr, manifest string) error {
	logger := loggerFromContext(ctx)

	cat, err := c.loadCatalog(ctx, manifest)
	if errors.Is(err, errNoCatalog) {
		logger.Warn("serving without a catalog manifest")
		cat, err = catalog.New(), nil
	}
	if err != nil {
		return err
	}
	for _, p := range cat.Problems {
		logger.Warn("skipped definition", "problem", p.String())
	}

	st, err := c.openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	cc, err := c.newCache(ctx, false)
	if err != nil {
		return err
	}
	defer cc.Close()

	srv := server.New(server.Options{
		Catalog: cat,
		Store:   st,
		Cache:   cc,
		Keyer:   c.Config.Keyer(),
		Logger:  logger,
	})
	published, err := srv.LoadPublished(ctx)
	if err != nil {
		return err
	}
	logger.Info("serving", "addr", addr, "templates", cat.Len(), "published", published)
	return srv.ListenAndServe(ctx, addr)
}
