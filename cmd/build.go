package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/jcdickinson/ferrisdoc/internal/config"
	"github.com/jcdickinson/ferrisdoc/internal/highlight"
	"github.com/jcdickinson/ferrisdoc/internal/markdown"
	"github.com/jcdickinson/ferrisdoc/internal/page"
	"github.com/jcdickinson/ferrisdoc/internal/rustdoc"
	"github.com/jcdickinson/ferrisdoc/internal/site"
	"github.com/spf13/cobra"
)

var buildCmd = &cobra.Command{
	Use:   "build [graph files or dirs...]",
	Short: "Render rustdoc JSON graphs to a static HTML site",
	Long: `Render every given rustdoc JSON graph (*.json or *.json.zst) into one
cross-linked site. Directories contribute the graphs they contain. With no
arguments, the graphs saved by "ferrisdoc fetch" are used.`,
	Example: `  ferrisdoc build target/doc/mycrate.json
  ferrisdoc build --out site --package mycrate target/doc
  ferrisdoc build --private mycrate.json other.json.zst`,
	Run: runBuild,
}

var (
	buildOut      string
	buildPrivate  bool
	buildPackages []string
)

func init() {
	buildCmd.Flags().StringVarP(&buildOut, "out", "o", "", "output directory")
	buildCmd.Flags().BoolVar(&buildPrivate, "private", false, "document items that are not public")
	buildCmd.Flags().StringSliceVar(&buildPackages, "package", nil, "only write these packages (repeatable)")
}

func runBuild(cmd *cobra.Command, args []string) {
	cfg, err := config.Load(configFile)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if cmd.Flags().Changed("out") {
		cfg.OutputDir = buildOut
	}
	if cmd.Flags().Changed("private") {
		cfg.IncludePrivate = buildPrivate
	}
	if cmd.Flags().Changed("package") {
		cfg.Packages = buildPackages
	}

	if len(args) == 0 {
		args = []string{config.GraphDir()}
	}
	files, err := rustdoc.ExpandPaths(args)
	if err != nil {
		slog.Error("failed to find graphs", "error", err)
		os.Exit(1)
	}
	if len(files) == 0 {
		slog.Error("no rustdoc JSON graphs found", "paths", args)
		os.Exit(1)
	}

	graphs, err := rustdoc.LoadAll(context.Background(), files)
	if err != nil {
		slog.Error("failed to load graphs", "error", err)
		os.Exit(1)
	}

	log := slog.Default()
	h := highlight.New(cfg.Highlight.Style, cfg.Highlight.Classes)
	w := &site.Writer{
		OutDir:          cfg.OutputDir,
		Renderer:        page.NewRenderer(markdown.New(h, log), log),
		Highlighter:     h,
		Log:             log,
		IncludePrivate:  cfg.IncludePrivate,
		ExternalBaseURL: cfg.ExternalBaseURL,
	}
	if err := w.Write(graphs, cfg.Packages); err != nil {
		slog.Error("build failed", "error", err)
		os.Exit(1)
	}
	fmt.Printf("documentation written to %s\n", cfg.OutputDir)
}
