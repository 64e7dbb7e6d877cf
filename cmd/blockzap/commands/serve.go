package commands

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jmylchreest/blockzap/internal/api"
	"github.com/jmylchreest/blockzap/internal/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the zap engine over HTTP",
	Long: `Start an HTTP API for editor extensions.

Endpoints:
  GET  /healthz
  GET  /v1/categories
  POST /v1/zap       {"blocks": [...], "mode": "mega", "options": {"keepMedia": true}}
  POST /v1/inspect   same body; returns category counts`,
	Args: cobra.NoArgs,
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		return bindFlags(cmd, map[string]string{
			"serve.addr":        "addr",
			"serve.cors_origin": "cors-origin",
			"serve.max_body":    "max-body",
			"serve.timeout":     "timeout",
		})
	},
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	flags := serveCmd.Flags()
	flags.String("addr", "127.0.0.1:8420", "listen address")
	flags.StringSlice("cors-origin", nil, "allowed CORS origins (default: any)")
	flags.String("max-body", "10MB", "max request body size")
	flags.Duration("timeout", 30*time.Second, "request timeout (0=none)")
}

func runServe(_ *cobra.Command, _ []string) error {
	initLogger()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	z, err := newZapper()
	if err != nil {
		return err
	}
	maxBody, err := parseSize(viper.GetString("serve.max_body"))
	if err != nil {
		return err
	}

	srv := api.New(z, api.Config{
		AllowedOrigins: viper.GetStringSlice("serve.cors_origin"),
		MaxBodyBytes:   maxBody,
		RequestTimeout: viper.GetDuration("serve.timeout"),
		Logger:         logger.Component("api"),
	})
	return srv.ListenAndServe(ctx, viper.GetString("serve.addr"))
}
