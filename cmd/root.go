package cmd

import (
	"log"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	debug      bool
	configFile string
)

var rootCmd = &cobra.Command{
	Use:   "ferrisdoc",
	Short: "Static HTML documentation from rustdoc JSON",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if debug {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("command failed: %v", err)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "log debug output, including unresolved links")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default: ./config.toml or $XDG_CONFIG_HOME/ferrisdoc/config.toml)")

	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(clearCacheCmd)
}
