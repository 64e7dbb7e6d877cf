package commands

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jmylchreest/blockzap/internal/logger"
	"github.com/jmylchreest/blockzap/internal/output"
	"github.com/jmylchreest/blockzap/pkg/block"
)

var zapCmd = &cobra.Command{
	Use:   "zap [file]",
	Short: "Remove attribute categories from a block document",
	Long: `Clean a block document (JSON or YAML) and write the result.

In selective mode (default) the categories named by --remove are removed;
without --remove, block styles and custom classes are removed. In mega mode
every category except essential content is removed, and media survives
only with --keep-media.

Blocks that cannot be cleaned are left out and listed in the report.

Examples:
  blockzap zap post.json -o clean.json
  blockzap zap post.yaml --mode mega --keep-media=false --format yaml
  blockzap zap post.json --report-only --json-report`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: bindZapFlags,
	RunE:    runZap,
}

func init() {
	rootCmd.AddCommand(zapCmd)
	addCleaningFlags(zapCmd)

	flags := zapCmd.Flags()
	flags.StringP("output", "o", "", "output file (default: stdout)")
	flags.String("format", "", "output format: json, yaml (default: from output file or json)")
	flags.Bool("compact", false, "write compact JSON")
	flags.Bool("report-only", false, "write the report instead of the cleaned document")
	flags.Bool("json-report", false, "write the report to stderr as JSON instead of a summary")
	flags.Bool("strict", false, "exit with an error when any block was skipped")
}

// addCleaningFlags registers the flags shared by zap and inspect.
func addCleaningFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.String("mode", "selective", "zap mode: selective, mega")
	flags.StringSliceP("remove", "r", nil, "categories to remove in selective mode (e.g. block-styles,custom-classes)")
	flags.Bool("keep-media", true, "keep media attributes")
	flags.String("input-format", "json", "format of a document read from stdin: json, yaml")
	flags.String("max-size", "10MB", "max input document size (0=unlimited)")
}

func bindZapFlags(cmd *cobra.Command, _ []string) error {
	return bindFlags(cmd, map[string]string{
		"mode":       "mode",
		"remove":     "remove",
		"keep_media": "keep-media",
		"max_size":   "max-size",
	})
}

func runZap(cmd *cobra.Command, args []string) error {
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
	doc, inSize, err := readDocument(path, cmd.InOrStdin(), block.Format(stdinFormat), maxSize)
	if err != nil {
		return err
	}
	logger.Debug("document loaded", "blocks", block.CountForest(doc.Blocks), "bytes", inSize)

	res := z.CleanForest(doc.Blocks, mode, opts)

	outPath, _ := cmd.Flags().GetString("output")
	formatName, _ := cmd.Flags().GetString("format")
	format, err := outputFormat(formatName, outPath)
	if err != nil {
		return err
	}
	compact, _ := cmd.Flags().GetBool("compact")
	reportOnly, _ := cmd.Flags().GetBool("report-only")

	var payload any = block.Document{Blocks: res.Blocks}
	if reportOnly {
		payload = res.Report
	}

	var buf bytes.Buffer
	if err := output.WriteOne(&buf, format, payload, output.WithPretty(!compact)); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	if err := writeOutput(cmd.OutOrStdout(), outPath, buf.Bytes()); err != nil {
		return err
	}

	jsonReport, _ := cmd.Flags().GetBool("json-report")
	switch {
	case jsonReport && !reportOnly:
		if err := output.WriteOne(cmd.ErrOrStderr(), output.FormatJSON, res.Report); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
	case !viper.GetBool("quiet"):
		outSize := 0
		if !reportOnly {
			outSize = buf.Len()
		}
		fmt.Fprint(cmd.ErrOrStderr(), output.Summary(res.Report, inSize, outSize))
	}

	if strict, _ := cmd.Flags().GetBool("strict"); strict && res.Report.HasSkipped() {
		return fmt.Errorf("%d block(s) skipped", len(res.Report.Skipped))
	}
	return nil
}

// outputFormat picks the explicit format, else the output file's extension,
// else JSON.
func outputFormat(name, path string) (output.Format, error) {
	if name != "" {
		return output.ParseFormat(name)
	}
	if path != "" {
		if f, err := block.FormatFromPath(path); err == nil {
			return output.Format(f), nil
		}
	}
	return output.FormatJSON, nil
}

// writeOutput writes data to path, or to stdout when path is empty.
func writeOutput(stdout io.Writer, path string, data []byte) error {
	if path == "" {
		_, err := stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil { //#nosec G306
		return fmt.Errorf("failed to write output: %w", err)
	}
	logInfo("wrote %s", path)
	return nil
}
