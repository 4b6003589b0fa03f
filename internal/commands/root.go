// Package commands implements the requestkit CLI.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/gaborage/requestkit/config"
	"github.com/gaborage/requestkit/logger"
)

// GlobalOptions holds the flags shared by every command.
type GlobalOptions struct {
	ConfigFile   string
	ConfigInline string
	LogLevel     string
	Pretty       bool
}

// NewRootCommand creates the requestkit command tree.
func NewRootCommand(version string) *cobra.Command {
	opts := &GlobalOptions{}

	cmd := &cobra.Command{
		Use:   "requestkit",
		Short: "Build and send declarative HTTP requests",
		Long: `Builds HTTP request descriptors from flags and configuration, and sends
them with the configured retry strategy.

Configuration is read from requestkit.yaml (or --config), then --config-inline,
then REQUESTKIT_* environment variables.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&opts.ConfigFile, "config", "c", "", "Config file (default requestkit.yaml when present)")
	flags.StringVar(&opts.ConfigInline, "config-inline", "", "YAML merged over the config file")
	flags.StringVar(&opts.LogLevel, "log-level", "", "Log level (trace|debug|info|warn|error|disabled)")
	flags.BoolVar(&opts.Pretty, "pretty", false, "Human-readable logs")

	cmd.AddCommand(
		NewBuildCommand(opts),
		NewSendCommand(opts),
		NewVersionCommand(version),
	)
	return cmd
}

// load resolves the configuration and a logger writing to the command's stderr.
// Flags win over the log section.
func (o *GlobalOptions) load(cmd *cobra.Command) (*config.Config, logger.Logger, error) {
	var loadOpts []config.Option
	if o.ConfigFile != "" {
		loadOpts = append(loadOpts, config.WithFile(o.ConfigFile))
	}
	if o.ConfigInline != "" {
		loadOpts = append(loadOpts, config.WithInline([]byte(o.ConfigInline)))
	}

	cfg, err := config.Load(loadOpts...)
	if err != nil {
		return nil, nil, err
	}

	level := cfg.Log.Level
	if o.LogLevel != "" {
		level = o.LogLevel
	}
	log := logger.NewWithWriter(cmd.ErrOrStderr(), level, cfg.Log.Pretty || o.Pretty, nil)
	return cfg, log, nil
}
