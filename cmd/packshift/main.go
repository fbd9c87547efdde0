// Command packshift converts resource packs between game versions by
// applying the declarative rule records in a rules directory.
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	GitCommit = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "packshift",
		Short:         "Convert resource packs between game versions",
		Version:       fmt.Sprintf("%s (commit %s)", Version, GitCommit),
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.PersistentFlags().String("rules", "rules", "directory holding version rule records")
	root.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")

	viper.SetEnvPrefix("PACKSHIFT")
	viper.AutomaticEnv()
	_ = viper.BindPFlag("rules", root.PersistentFlags().Lookup("rules"))
	_ = viper.BindPFlag("log_level", root.PersistentFlags().Lookup("log-level"))

	root.AddCommand(newConvertCmd(), newVersionsCmd(), newInspectCmd())
	return root
}

// newLogger builds the process logger from the configured level. Output
// goes to stderr; stdout carries command results only.
func newLogger() *log.Logger {
	level, err := log.ParseLevel(viper.GetString("log_level"))
	if err != nil {
		level = log.InfoLevel
	}
	return log.NewWithOptions(os.Stderr, log.Options{
		Level:           level,
		ReportTimestamp: false,
	})
}
