// Package commands implements the CLI commands for blockzap.
package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jmylchreest/blockzap/internal/logger"
	"github.com/jmylchreest/blockzap/pkg/block"
	"github.com/jmylchreest/blockzap/pkg/zap"
)

var rootCmd = &cobra.Command{
	Use:   "blockzap",
	Short: "Strip presentation metadata from editor block documents",
	Long: `blockzap removes categories of presentation attributes (styles, classes,
anchors, layout settings) from a tree of editor blocks while keeping content
and, optionally, media.

Examples:
  # Remove styles and classes (the default selection), keep media
  blockzap zap post.json -o clean.json

  # Remove everything except content and media
  blockzap zap post.json --mode mega --keep-media

  # Remove specific categories from stdin
  cat post.json | blockzap zap --remove block-settings,custom-anchors

  # See what a document contains before zapping
  blockzap inspect post.json`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (default $HOME/.blockzap.yaml)")
	flags.Bool("debug", false, "enable debug logging")
	flags.BoolP("quiet", "q", false, "suppress progress output")
	flags.String("log-format", "text", "log format: text, json")
	flags.String("log-level", "", "log level: debug, info, warn, error (overrides --debug and --quiet)")
	flags.String("taxonomy", "", "YAML file adding keys to attribute categories")
	flags.String("registry", "", "YAML file of block definitions used to rebuild blocks")

	_ = viper.BindPFlag("config", flags.Lookup("config"))
	_ = viper.BindPFlag("debug", flags.Lookup("debug"))
	_ = viper.BindPFlag("quiet", flags.Lookup("quiet"))
	_ = viper.BindPFlag("log_format", flags.Lookup("log-format"))
	_ = viper.BindPFlag("log_level", flags.Lookup("log-level"))
	_ = viper.BindPFlag("taxonomy", flags.Lookup("taxonomy"))
	_ = viper.BindPFlag("registry", flags.Lookup("registry"))

	viper.SetDefault("mode", string(zap.ModeSelective))
	viper.SetDefault("keep_media", true)
}

func initConfig() {
	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
		viper.AddConfigPath(".")
		viper.SetConfigName(".blockzap")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("BLOCKZAP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Read config file (ignore error if not found)
	_ = viper.ReadInConfig()
}

// Execute runs the root command.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		logError("%v", err)
	}
	return err
}

// initLogger configures the package logger from global flags.
func initLogger() {
	if err := logger.Init(logger.Options{
		Debug: viper.GetBool("debug"),
		Quiet: viper.GetBool("quiet"),
		JSON:  viper.GetString("log_format") == "json",
		Level: viper.GetString("log_level"),
	}); err != nil {
		logError("%v", err)
	}
	if used := viper.ConfigFileUsed(); used != "" {
		logger.Debug("using config file", "path", used)
	}
}

// newZapper builds the engine from the taxonomy and registry settings.
func newZapper() (*zap.Zapper, error) {
	return buildZapper(viper.GetString("taxonomy"), viper.GetString("registry"))
}

func buildZapper(taxonomyPath, registryPath string) (*zap.Zapper, error) {
	tax := zap.DefaultTaxonomy()
	if taxonomyPath != "" {
		ext, err := zap.LoadExtension(tax, taxonomyPath)
		if err != nil {
			return nil, err
		}
		tax = ext
		logger.Debug("taxonomy extension loaded", "path", taxonomyPath)
	}

	opts := []zap.Option{
		zap.WithTaxonomy(tax),
		zap.WithLogger(logger.Component("zap")),
	}

	if registryPath != "" {
		reg, err := block.LoadRegistry(registryPath)
		if err != nil {
			return nil, err
		}
		opts = append(opts, zap.WithFactory(reg))
		logger.Debug("block registry loaded", "path", registryPath, "blocks", len(reg.Names()))
	}

	return zap.New(opts...), nil
}

// bindFlags binds command-local flags to viper keys. Binding happens when the
// command runs so commands sharing a key don't overwrite each other's binding.
func bindFlags(cmd *cobra.Command, keys map[string]string) error {
	for key, flag := range keys {
		if err := viper.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
			return fmt.Errorf("bind %s: %w", flag, err)
		}
	}
	return nil
}

// logError prints an error message to stderr.
func logError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
}

// logInfo prints an info message to stderr (unless quiet mode).
func logInfo(format string, args ...any) {
	if !viper.GetBool("quiet") {
		fmt.Fprintf(os.Stderr, format+"\n", args...)
	}
}
