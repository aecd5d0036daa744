// Package cli is the design2prompt command tree. The bare command opens the
// desktop shell; subcommands run the same core headless.
package cli

import (
	"context"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"design2prompt/internal/app"
	"design2prompt/internal/config"
	"design2prompt/internal/logging"
	"design2prompt/internal/secret"
)

// DesktopFunc runs the GUI over an opened core. main supplies it because
// the embedded frontend assets live there.
type DesktopFunc func(ctx context.Context, core *app.Core) error

type rootOpts struct {
	configPath string
	verbose    bool
	stdout     io.Writer
	secrets    secret.SecretStore
}

// Execute builds the command tree and runs it.
func Execute(ctx context.Context, desktop DesktopFunc) error {
	return newRootCmd(desktop, os.Stdout).ExecuteContext(ctx)
}

func newRootCmd(desktop DesktopFunc, stdout io.Writer) *cobra.Command {
	opts := &rootOpts{stdout: stdout}

	root := &cobra.Command{
		Use:          "design2prompt",
		Short:        "Compose UI components on a canvas and export them as AI prompts",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			core, err := opts.open(cmd)
			if err != nil {
				return err
			}
			// The shell closes the core on shutdown.
			return desktop(cmd.Context(), core)
		},
	}
	root.SetOut(stdout)
	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "config file (default $XDG_CONFIG_HOME/design2prompt/config.toml)")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(newMCPCmd(opts))
	root.AddCommand(newServeCmd(opts))
	root.AddCommand(newExportCmd(opts))
	root.AddCommand(newPresetsCmd(opts))
	root.AddCommand(newConfigCmd(opts))
	root.AddCommand(newSecretCmd(opts))
	return root
}

// loadConfig reads the config file and builds the logger it asks for.
// Logs always go to stderr; stdout belongs to MCP and export output.
func (o *rootOpts) loadConfig(cmd *cobra.Command) (*config.Config, *log.Logger, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, nil, err
	}
	level := logging.ParseLevel(cfg.Log.Level)
	if o.verbose {
		level = log.DebugLevel
	}
	logger := logging.New(os.Stderr, level)
	cmd.SetContext(logging.WithLogger(cmd.Context(), logger))
	return cfg, logger, nil
}

func (o *rootOpts) secretStore() secret.SecretStore {
	if o.secrets == nil {
		o.secrets = secret.Default()
	}
	return o.secrets
}

// open loads the config and opens the core. Callers own Close.
func (o *rootOpts) open(cmd *cobra.Command) (*app.Core, error) {
	cfg, logger, err := o.loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return app.Open(cmd.Context(), cfg, o.secretStore(), logger)
}
