package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/jcdickinson/ferrisdoc/internal/config"
	"github.com/spf13/cobra"
)

var clearCacheCmd = &cobra.Command{
	Use:   "clear-cache",
	Short: "Remove graphs saved by fetch",
	Run:   runClearCache,
}

func runClearCache(cmd *cobra.Command, args []string) {
	dir := config.GraphDir()
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		fmt.Println("graph cache is empty")
		return
	}

	if err := os.RemoveAll(dir); err != nil {
		slog.Error("failed to clear cache", "error", err)
		os.Exit(1)
	}
	fmt.Println("graph cache cleared")
}
