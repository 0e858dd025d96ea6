package cmd

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/jcdickinson/ferrisdoc/internal/config"
	"github.com/jcdickinson/ferrisdoc/internal/rustdoc"
	"github.com/spf13/cobra"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch [crate[@version] ...]",
	Short: "Download rustdoc JSON from docs.rs",
	Long:  `Download rustdoc JSON graphs from docs.rs into the graph cache, where "ferrisdoc build" finds them by default. Version defaults to "latest".`,
	Example: `  ferrisdoc fetch serde
  ferrisdoc fetch serde@1.0 tokio@1.0
  ferrisdoc fetch --dir graphs serde serde_json`,
	Args: cobra.MinimumNArgs(1),
	Run:  runFetch,
}

var fetchDir string

func init() {
	fetchCmd.Flags().StringVar(&fetchDir, "dir", "", "directory to save graphs in (default: the graph cache)")
}

func runFetch(cmd *cobra.Command, args []string) {
	dir := fetchDir
	if dir == "" {
		dir = config.GraphDir()
	}

	failed := false
	for _, arg := range args {
		name, version, _ := strings.Cut(arg, "@")
		data, err := rustdoc.Fetch(context.Background(), name, version)
		if err != nil {
			fmt.Printf("  %s: error: %v\n", arg, err)
			failed = true
			continue
		}
		path, err := rustdoc.SaveCompressed(dir, data, name, version)
		if err != nil {
			log.Fatalf("failed to save %s: %v", arg, err)
		}
		fmt.Printf("  %s: saved %s\n", arg, path)
	}
	if failed {
		log.Fatalf("some crates could not be fetched")
	}
}
