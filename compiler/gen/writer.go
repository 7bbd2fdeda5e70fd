package gen

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/syssam/crudgen"
	"github.com/syssam/crudgen/internal/logging"
)

// WriteResult is the outcome of writing one artifact.
type WriteResult int

// Write outcomes.
const (
	Written WriteResult = iota
	Skipped
	Appended
	Failed
)

// String implements fmt.Stringer.
func (r WriteResult) String() string {
	switch r {
	case Written:
		return "written"
	case Skipped:
		return "skipped"
	case Appended:
		return "appended"
	default:
		return "failed"
	}
}

// Writer writes artifacts under a target root. The existence checks are
// not atomic: a Writer must not be used concurrently against the same tree.
type Writer struct {
	root   string
	dryRun bool
}

// NewWriter creates a writer rooted at the target project directory.
func NewWriter(root string) *Writer {
	return &Writer{root: root}
}

// WithDryRun reports outcomes without touching the file system.
func (w *Writer) WithDryRun(b bool) *Writer {
	w.dryRun = b
	return w
}

func (w *Writer) abs(path string) string {
	return filepath.Join(w.root, filepath.FromSlash(path))
}

// Write writes the full content of a file. An existing file is left
// untouched and Skipped is returned unless force is set.
func (w *Writer) Write(path string, content []byte, force bool) (WriteResult, error) {
	full := w.abs(path)
	if !force {
		switch _, err := os.Stat(full); {
		case err == nil:
			return Skipped, nil
		case !errors.Is(err, fs.ErrNotExist):
			return Failed, fmt.Errorf("stat %s: %w", path, err)
		}
	}
	if w.dryRun {
		return Written, nil
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return Failed, fmt.Errorf("create directory for %s: %w", path, err)
	}
	if err := os.WriteFile(full, content, 0o644); err != nil {
		return Failed, fmt.Errorf("write %s: %w", path, err)
	}
	return Written, nil
}

// Append appends a block at the end of an existing file. The file is never
// created: a missing file returns crudgen.ErrRouteFileMissing. When the file
// already contains marker the block is Skipped unless force is set.
func (w *Writer) Append(path string, block []byte, marker string, force bool) (WriteResult, error) {
	full := w.abs(path)
	current, err := os.ReadFile(full)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return Failed, fmt.Errorf("%s: %w", path, crudgen.ErrRouteFileMissing)
	case err != nil:
		return Failed, fmt.Errorf("read %s: %w", path, err)
	}
	if !force && marker != "" && bytes.Contains(current, []byte(marker)) {
		return Skipped, nil
	}
	if w.dryRun {
		return Appended, nil
	}
	f, err := os.OpenFile(full, os.O_APPEND|os.O_WRONLY, 0)
	if err != nil {
		return Failed, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	if len(current) > 0 && current[len(current)-1] != '\n' {
		if _, err := f.Write([]byte{'\n'}); err != nil {
			return Failed, fmt.Errorf("append %s: %w", path, err)
		}
	}
	if _, err := f.Write(block); err != nil {
		return Failed, fmt.Errorf("append %s: %w", path, err)
	}
	return Appended, nil
}

// Entry is the outcome of one artifact in a Report.
type Entry struct {
	Kind   Kind
	Path   string
	Result WriteResult
	Err    error
}

// Report collects the outcomes of Apply.
type Report struct {
	Entries []Entry
}

// Count returns the number of entries with the given result.
func (r *Report) Count(res WriteResult) int {
	n := 0
	for _, e := range r.Entries {
		if e.Result == res {
			n++
		}
	}
	return n
}

// Failures returns the failed entries.
func (r *Report) Failures() []Entry {
	var out []Entry
	for _, e := range r.Entries {
		if e.Result == Failed {
			out = append(out, e)
		}
	}
	return out
}

// Apply writes the artifacts sequentially. A failed artifact is reported
// and the batch continues; only context cancellation stops it.
func (w *Writer) Apply(ctx context.Context, artifacts []*Artifact, force bool) (*Report, error) {
	r := &Report{}
	for _, a := range artifacts {
		if err := ctx.Err(); err != nil {
			return r, err
		}
		var (
			res WriteResult
			err error
		)
		if a.Append {
			res, err = w.Append(a.Path, a.Content, a.Marker, force)
		} else {
			res, err = w.Write(a.Path, a.Content, force)
		}
		fields := []zap.Field{zap.String("kind", string(a.Kind)), zap.String("path", a.Path), zap.Bool("dry_run", w.dryRun)}
		switch {
		case err != nil:
			logging.Warn("artifact not written", append(fields, zap.Error(err))...)
		case res == Skipped:
			logging.Warn("artifact exists, skipped", fields...)
		default:
			logging.Info("artifact "+res.String(), fields...)
		}
		r.Entries = append(r.Entries, Entry{Kind: a.Kind, Path: a.Path, Result: res, Err: err})
	}
	return r, nil
}
