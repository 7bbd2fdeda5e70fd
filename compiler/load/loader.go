package load

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/syssam/crudgen"
	"github.com/syssam/crudgen/internal/logging"
)

// LoadDir extracts every *.sql script directly under dir, in file name order.
// Scripts that define no usable table are skipped. The first script that
// creates a table wins over later scripts creating the same table.
func LoadDir(ctx context.Context, dir string, ignore []string) ([]*Table, error) {
	info, err := os.Stat(dir)
	if errors.Is(err, fs.ErrNotExist) || (err == nil && !info.IsDir()) {
		return nil, fmt.Errorf("%w: %s", crudgen.ErrSchemaDirMissing, dir)
	}
	if err != nil {
		return nil, fmt.Errorf("stat schema directory: %w", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read schema directory: %w", err)
	}
	var paths []string
	for _, e := range entries {
		if !e.IsDir() && strings.EqualFold(filepath.Ext(e.Name()), ".sql") {
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(paths)

	var (
		tables []*Table
		seen   = make(map[string]string)
	)
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read schema script: %w", err)
		}
		t := Extract(string(data), ignore)
		if t == nil {
			logging.Debug("script defines no usable table", zap.String("path", path))
			continue
		}
		if first, ok := seen[t.Name]; ok {
			logging.Warn("table created twice, keeping first script",
				zap.String("table", t.Name), zap.String("first", first), zap.String("path", path))
			continue
		}
		seen[t.Name] = path
		t.Source = path
		tables = append(tables, t)
	}
	if len(tables) == 0 {
		return nil, fmt.Errorf("%w in %s", crudgen.ErrNoSchemaScripts, dir)
	}
	return tables, nil
}
