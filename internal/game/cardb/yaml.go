package cardb

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

// DecodeYAML reads every YAML document in r, one card per document.
func DecodeYAML(r io.Reader, source string) ([]Row, error) {
	dec := yaml.NewDecoder(r)
	var rows []Row
	for i := 1; ; i++ {
		var t Template
		err := dec.Decode(&t)
		if errors.Is(err, io.EOF) {
			return rows, nil
		}
		if err != nil {
			return nil, &LoadError{Source: source, Row: i, Err: err}
		}
		rows = append(rows, Row{Template: &t, Source: source, Index: i})
	}
}

// LoadYAML decodes r and builds a store from it.
func LoadYAML(r io.Reader, source string, removed ...string) (*Store, error) {
	rows, err := DecodeYAML(r, source)
	if err != nil {
		return nil, err
	}
	return NewStore(rows, removed...)
}

// LoadFile loads a single YAML card file.
func LoadFile(path string, removed ...string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Source: path, Err: err}
	}
	defer f.Close()
	return LoadYAML(f, path, removed...)
}

// ReadDir decodes every *.yaml / *.yml file under dir concurrently. Rows
// are returned in file-name order regardless of completion order.
func ReadDir(ctx context.Context, dir string, logger *zap.Logger) ([]Row, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var paths []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		ext := strings.ToLower(filepath.Ext(path))
		if !d.IsDir() && (ext == ".yaml" || ext == ".yml") {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, &LoadError{Source: dir, Err: err}
	}
	sort.Strings(paths)

	results := make([][]Row, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			f, err := os.Open(path)
			if err != nil {
				return &LoadError{Source: path, Err: err}
			}
			defer f.Close()
			rows, err := DecodeYAML(f, path)
			if err != nil {
				return err
			}
			results[i] = rows
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var rows []Row
	for _, r := range results {
		rows = append(rows, r...)
	}
	logger.Info("card files decoded",
		zap.String("dir", dir),
		zap.Int("files", len(paths)),
		zap.Int("cards", len(rows)),
	)
	return rows, nil
}

// LoadDir loads every YAML card file under dir into one store.
func LoadDir(ctx context.Context, dir string, logger *zap.Logger, removed ...string) (*Store, error) {
	rows, err := ReadDir(ctx, dir, logger)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, &LoadError{Source: dir, Err: fmt.Errorf("no card files found")}
	}
	return NewStore(rows, removed...)
}
