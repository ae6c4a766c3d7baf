package cli

import (
	"fmt"
	"maps"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/blockdock/pkg/block"
	"github.com/matzehuels/blockdock/pkg/catalog"
	"github.com/matzehuels/blockdock/pkg/codec"
	bderrors "github.com/matzehuels/blockdock/pkg/errors"
)

// inspectCommand creates the inspect command for decoding definition files.
func (c *CLI) inspectCommand() *cobra.Command {
	var (
		lang     string
		asSource bool
	)

	cmd := &cobra.Command{
		Use:   "inspect <file.cbd>...",
		Short: "Decode block definitions and show their contents",
		Long: `Decode one or more binary block definitions and print what they contain.

With --source the definition is printed as editable TOML, the format the
encode command reads.`,
		Example: `  # Show a definition
  blockdock inspect motion/move.cbd

  # Show German text and slot names
  blockdock inspect motion/move.cbd --lang de

  # Convert back to source
  blockdock inspect motion/move.cbd --source > move.toml`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			failed := 0
			for i, path := range args {
				if i > 0 && !asSource {
					printNewline()
				}
				if err := c.runInspect(cmd, path, lang, asSource); err != nil {
					printError("%s: %s", path, bderrors.UserMessage(err))
					c.Logger.Debug("decode failed", "path", path, "err", err)
					failed++
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d definitions could not be decoded", failed, len(args))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&lang, "lang", block.DefaultLanguage, "language for text and slot names")
	cmd.Flags().BoolVar(&asSource, "source", false, "print the definition as TOML source")

	return cmd
}

func (c *CLI) runInspect(cmd *cobra.Command, path, lang string, asSource bool) error {
	t, info, err := codec.ReadFile(path)
	if err != nil {
		return err
	}

	if asSource {
		src, err := catalog.FormatSource(t)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(src)
		return err
	}

	meta := t.Meta(lang)
	fmt.Println(StyleTitle.Render(filepath.Base(path)))
	printKeyValue("ID", t.ID)
	printKeyValue("Kind", t.Kind.String())
	printKeyValue("Sockets", t.Variant.String())
	if b := t.Variant.Branches(); b > 0 {
		printKeyValue("Branches", fmt.Sprint(b))
	}
	printKeyValue("Color", swatch(t.Color))
	printKeyValue("Text", t.Text(lang))
	printKeyValue("Slots", slotList(t, lang))
	if t.Code != "" {
		printKeyValue("Code", t.Code)
	}
	printKeyValue("Size", fmt.Sprintf("%gx%g", meta.Size.W, meta.Size.H))
	if len(t.Translations) > 0 {
		langs := slices.Sorted(maps.Keys(t.Translations))
		printKeyValue("Languages", strings.Join(langs, ", "))
	}
	printKeyValue("Version", fmt.Sprintf("v%d (%s)", info.Version, info.Status))
	if !info.Supported() {
		printWarning("format version %d is %s; supported range is v%d to v%d",
			info.Version, info.Status, codec.MinVersion, codec.MaxVersion)
	}
	return nil
}
