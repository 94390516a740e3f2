package main

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	configPath string
	logLevel   string
)

func main() {
	root := &cobra.Command{
		Use:          "rootforge",
		Short:        "Decode game stat and root template data into a queryable forest",
		SilenceUsage: true,
	}
	root.Version = version
	root.SetVersionTemplate("{{.Version}}\n")
	root.PersistentFlags().StringVar(&configPath, "config", "rootforge.yaml", "Project config file")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override the configured log level (debug, info, warn, error)")
	root.AddCommand(initCmd())
	root.AddCommand(loadCmd())
	root.AddCommand(validateCmd())
	root.AddCommand(treeCmd())
	root.AddCommand(searchCmd())
	root.AddCommand(queryCmd())
	root.AddCommand(exportCmd())
	root.AddCommand(snapshotCmd())
	root.AddCommand(serveCmd())
	root.AddCommand(versionCmd())
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
