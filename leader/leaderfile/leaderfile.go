// Package leaderfile detects the cluster leader from a local file holding a
// single "host:port" line, the file:// master-detection convention. The file
// is re-read on every filesystem change and the detector emits only when the
// value actually differs.
package leaderfile

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
)

type Detector struct {
	path string
}

// New returns a Detector watching the file at path. The file may not exist
// yet; creation is observed like any other change.
func New(path string) *Detector {
	return &Detector{path: path}
}

func (d *Detector) Detect(ctx context.Context) (<-chan string, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch %s: %w", d.path, err)
	}
	// Watch the directory, not the file: editors and orchestrators replace
	// the file atomically via rename, which drops a watch on the file
	// itself.
	dir := filepath.Dir(d.path)
	if err := w.Add(dir); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}

	out := make(chan string, 1)
	go func() {
		defer close(out)
		defer func() { _ = w.Close() }()

		last, ok := "", false
		emit := func() {
			cur := d.read()
			if ok && cur == last {
				return
			}
			last, ok = cur, true
			select {
			case out <- cur:
			case <-ctx.Done():
			}
		}

		emit() // initial state
		for {
			select {
			case <-ctx.Done():
				return
			case ev, open := <-w.Events:
				if !open {
					return
				}
				if filepath.Clean(ev.Name) != filepath.Clean(d.path) {
					continue
				}
				emit()
			case _, open := <-w.Errors:
				if !open {
					return
				}
			}
		}
	}()
	return out, nil
}

// read returns the trimmed file contents, or "" when the file is missing or
// unreadable (no leader known).
func (d *Detector) read() string {
	b, err := os.ReadFile(d.path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(b))
}
