package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/blockdock/pkg/catalog"
	"github.com/matzehuels/blockdock/pkg/codec"
	bderrors "github.com/matzehuels/blockdock/pkg/errors"
)

// encodeCommand creates the encode command, which turns TOML block sources
// into binary definitions.
func (c *CLI) encodeCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "encode <source.toml>",
		Short: "Encode a TOML block source into a binary definition",
		Long: `Encode a block source file into the binary definition format.

The written file is decoded again and compared with the source, so a
successful run guarantees the definition reads back unchanged.`,
		Example: `  blockdock encode move.toml
  blockdock encode move.toml -o catalog/motion/move.cbd`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runEncode(args[0], output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <source>"+codec.Ext+")")

	return cmd
}

func (c *CLI) runEncode(src, output string) error {
	t, err := catalog.LoadSource(src)
	if err != nil {
		return err
	}
	if output == "" {
		output = strings.TrimSuffix(src, filepath.Ext(src)) + codec.Ext
	}
	if err := codec.WriteFile(output, t); err != nil {
		return err
	}

	back, _, err := codec.ReadFile(output)
	if err != nil {
		return fmt.Errorf("verify %s: %w", output, err)
	}
	if !back.Equal(t) {
		return bderrors.New(bderrors.ErrCodeInternal, "%s does not decode to its source", output)
	}

	info, err := os.Stat(output)
	if err != nil {
		return err
	}
	c.Logger.Debug("encoded definition", "id", t.ID, "bytes", info.Size())
	printSuccess("Encoded %s", t.ID)
	printFile(output)
	printDetail("%d bytes, format v%d", info.Size(), codec.FormatVersion)
	return nil
}
