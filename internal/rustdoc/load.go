package rustdoc

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/klauspost/compress/zstd"
	"golang.org/x/sync/errgroup"
)

// Parse decodes rustdoc JSON bytes.
func Parse(data []byte) (*Crate, error) {
	var crate Crate
	if err := json.Unmarshal(data, &crate); err != nil {
		return nil, fmt.Errorf("unmarshaling rustdoc JSON: %w", err)
	}
	return &crate, nil
}

// Decode reads rustdoc JSON from r.
func Decode(r io.Reader) (*Crate, error) {
	var crate Crate
	if err := json.NewDecoder(r).Decode(&crate); err != nil {
		return nil, fmt.Errorf("decoding rustdoc JSON: %w", err)
	}
	return &crate, nil
}

// LoadFile reads a rustdoc JSON file. Files ending in .zst are decompressed.
func LoadFile(path string) (*Crate, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".zst") {
		dec, err := zstd.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("creating zstd reader: %w", err)
		}
		defer dec.Close()
		r = dec
	}

	crate, err := Decode(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return crate, nil
}

// Graph is a loaded crate together with the name it is published under.
type Graph struct {
	Name  string
	Crate *Crate
}

// ExpandPaths turns a list of files and directories into the list of graph
// files to load. Directories contribute their *.json and *.json.zst files in
// name order.
func ExpandPaths(paths []string) ([]string, error) {
	var files []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", p, err)
		}
		if !info.IsDir() {
			files = append(files, p)
			continue
		}
		entries, err := os.ReadDir(p)
		if err != nil {
			return nil, fmt.Errorf("listing %s: %w", p, err)
		}
		var found []string
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			if name := e.Name(); strings.HasSuffix(name, ".json") || strings.HasSuffix(name, ".json.zst") {
				found = append(found, filepath.Join(p, name))
			}
		}
		sort.Strings(found)
		files = append(files, found...)
	}
	return files, nil
}

// LoadAll loads every file concurrently and returns the graphs in argument
// order. When two files describe the same crate, the first one wins.
func LoadAll(ctx context.Context, files []string) ([]Graph, error) {
	crates := make([]*Crate, len(files))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, file := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			crate, err := LoadFile(file)
			if err != nil {
				return err
			}
			crates[i] = crate
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(crates))
	graphs := make([]Graph, 0, len(crates))
	for i, crate := range crates {
		name := crate.Name()
		if name == "" {
			name = fileStem(files[i])
		}
		if seen[name] {
			continue
		}
		seen[name] = true
		graphs = append(graphs, Graph{Name: name, Crate: crate})
	}
	return graphs, nil
}

func fileStem(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, ".zst")
	base = strings.TrimSuffix(base, ".json")
	// Cached graphs are stored as <name>_<version>.
	if i := strings.LastIndexByte(base, '_'); i > 0 {
		if rest := base[i+1:]; rest != "" && (rest[0] >= '0' && rest[0] <= '9' || rest == "latest") {
			base = base[:i]
		}
	}
	return base
}
