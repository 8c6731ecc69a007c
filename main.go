package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/oscremap/pkg/config"
	"github.com/oscremap/pkg/logger"
)

const appName = "oscremap"

// options shared by every subcommand
type options struct {
	configPath string
	logLevel   string
	settings   config.Settings
}

func main() {
	settings, err := config.LoadSettings()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := newRootCommand(settings).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand(settings config.Settings) *cobra.Command {
	opts := &options{settings: settings}

	rootCmd := &cobra.Command{
		Use:   appName,
		Short: "Remap OSC addresses into per-remote namespaces",
		Long: `oscremap rewrites addressed events such as /lx/tempo/beat into the
namespaces of one or more remotes, following a declarative YAML mapping table,
and reports the address filter prefix each remote will receive.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", settings.ConfigPath, "Path to the remapper YAML config")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level: error, warn, info or debug (default from OSCREMAP_LOG_LEVEL)")

	rootCmd.AddCommand(newCheckCommand(opts))
	rootCmd.AddCommand(newRemapCommand(opts))
	rootCmd.AddCommand(newRunCommand(opts))
	return rootCmd
}

// logger builds the component logger; logs go to stderr so stdout stays
// reserved for command output
func (o *options) logger(component string) (*logger.Logger, error) {
	if o.logLevel == "" {
		return logger.NewWithOutput(component, o.settings.Level(), os.Stderr), nil
	}
	level, err := logger.ParseLevel(o.logLevel)
	if err != nil {
		return nil, err
	}
	return logger.NewWithOutput(component, level, os.Stderr), nil
}
