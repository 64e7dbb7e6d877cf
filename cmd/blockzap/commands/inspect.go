package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jmylchreest/blockzap/internal/output"
	"github.com/jmylchreest/blockzap/pkg/block"
	"github.com/jmylchreest/blockzap/pkg/zap"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [file]",
	Short: "Show which attribute categories a document contains",
	Long: `Scan a block document without changing it and count attribute keys per
category. The last line predicts how many keys a zap with the same
--mode, --remove and --keep-media flags would remove.`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: bindZapFlags,
	RunE:    runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	addCleaningFlags(inspectCmd)
	inspectCmd.Flags().String("format", "", "write the inventory as json or yaml instead of a table")
}

// inspection is the structured form of the inspect output.
type inspection struct {
	Inventory *zap.Inventory `json:"inventory" yaml:"inventory"`
	Present   []zap.Category `json:"present" yaml:"present"`
	Mode      zap.Mode       `json:"mode" yaml:"mode"`
	Options   zap.Options    `json:"options" yaml:"options"`
	Removable int            `json:"removable" yaml:"removable"`
}

func runInspect(cmd *cobra.Command, args []string) error {
	initLogger()

	z, err := newZapper()
	if err != nil {
		return err
	}
	mode, opts, err := resolveOptions(viper.GetString("mode"), viper.GetStringSlice("remove"), viper.GetBool("keep_media"))
	if err != nil {
		return err
	}
	maxSize, err := parseSize(viper.GetString("max_size"))
	if err != nil {
		return err
	}
	inputFormat, _ := cmd.Flags().GetString("input-format")
	stdinFormat, err := output.ParseFormat(inputFormat)
	if err != nil {
		return err
	}

	var path string
	if len(args) > 0 {
		path = args[0]
	}
	doc, _, err := readDocument(path, cmd.InOrStdin(), block.Format(stdinFormat), maxSize)
	if err != nil {
		return err
	}

	inv := z.Inventory(doc.Blocks)
	removable := inv.Removable(mode, opts)

	if formatName, _ := cmd.Flags().GetString("format"); formatName != "" {
		format, err := output.ParseFormat(formatName)
		if err != nil {
			return err
		}
		return output.WriteOne(cmd.OutOrStdout(), format, inspection{
			Inventory: inv,
			Present:   inv.Present(),
			Mode:      mode,
			Options:   opts,
			Removable: removable,
		})
	}

	out := cmd.OutOrStdout()
	fmt.Fprint(out, output.InventorySummary(inv))
	fmt.Fprintf(out, "%s zap would remove %d attribute(s)\n", mode, removable)
	return nil
}
