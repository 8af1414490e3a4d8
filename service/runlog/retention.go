package runlog

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/tokenmetrics/graderun/internal/clock"
	"github.com/viant/afs"
)

// Retention removes expired run logs. A sweep is strictly best-effort:
// individual delete failures are collected but never abort the sweep, and the
// active log file is excluded regardless of its age.
type Retention struct {
	fs     afs.Service
	dir    string
	prefix string
	maxAge time.Duration
}

// NewRetention creates a sweeper over the given log directory.
func NewRetention(dir, prefix string, maxAge time.Duration) *Retention {
	return &Retention{fs: afs.New(), dir: dir, prefix: prefix, maxAge: maxAge}
}

// Sweep deletes log files matching the run naming pattern whose modification
// time predates the retention window. It returns the number of files removed
// and an aggregated error that callers are expected to treat as advisory.
func (r *Retention) Sweep(ctx context.Context, activePath string) (int, error) {
	if r.maxAge <= 0 {
		return 0, nil
	}
	objects, err := r.fs.List(ctx, r.dir)
	if err != nil {
		return 0, fmt.Errorf("failed to list log directory %s: %w", r.dir, err)
	}
	cutoff := clock.Now().Add(-r.maxAge)
	active := path.Base(activePath)
	removed := 0
	var failures []string
	for _, object := range objects {
		if object.IsDir() {
			continue
		}
		name := path.Base(object.URL())
		if !strings.HasPrefix(name, r.prefix+"_") || !strings.HasSuffix(name, fileExt) {
			continue
		}
		if name == active {
			continue
		}
		if !object.ModTime().Before(cutoff) {
			continue
		}
		if err := r.fs.Delete(ctx, object.URL()); err != nil {
			failures = append(failures, fmt.Sprintf("%s: %v", name, err))
			continue
		}
		removed++
	}
	if len(failures) > 0 {
		return removed, fmt.Errorf("failed to remove expired logs: %s", strings.Join(failures, "; "))
	}
	return removed, nil
}
