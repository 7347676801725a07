// Package cmd provides the ngo-cms command line: the web server and the
// maintenance commands that flush and check the content routes.
package cmd

import (
	"ngo-cms/pkg/config"
	"ngo-cms/pkg/logging"

	"github.com/spf13/cobra"
)

// Version information (set at build time via ldflags).
var Version = "dev"

var (
	flagDebug   bool
	flagDataDir string
)

var rootCmd = &cobra.Command{
	Use:   config.AppName,
	Short: "Content server for an NGO website",
	Long: `ngo-cms serves the public NGO site (projects, notices, galleries and
playlists) from a git-backed content repository, plus an admin area for editors.

Examples:
  ngo-cms serve
  ngo-cms flush
  ngo-cms check`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "version" {
			return nil
		}
		config.Init()
		if flagDataDir != "" {
			config.DataDir = flagDataDir
		}
		level := config.LogLevel
		if flagDebug {
			level = "debug"
		}
		return logging.Init(level, config.LogDev || flagDebug)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.Sync()
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "Badger directory (default under the XDG data home)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(flushCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("%s %s\n", config.AppName, Version)
	},
}
