package endpoints

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/syssam/typegraph/host"
)

// Watch re-runs discovery whenever a query document under <root>/<folder>
// changes, and reports each fresh endpoint list to onUpdate. It blocks
// until the context is canceled. Discovery errors are logged through the
// host and do not stop the watch.
func Watch(ctx context.Context, h host.ABI, root, folder string, onUpdate func([]string)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("endpoints: watch: %w", err)
	}
	defer w.Close()

	dir := filepath.Join(root, folder)
	if err := w.Add(dir); err != nil {
		return fmt.Errorf("endpoints: watch %q: %w", dir, err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !isQueryDocument(ev.Name) {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			eps, err := Discover(h, root, folder)
			if err != nil {
				h.Log(fmt.Sprintf("endpoint discovery failed: %v", err))
				continue
			}
			onUpdate(eps)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			h.Log(fmt.Sprintf("endpoint watch error: %v", err))
		}
	}
}

func isQueryDocument(path string) bool {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	for _, want := range Extensions {
		if ext == want {
			return true
		}
	}
	return false
}
