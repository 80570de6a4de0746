// Package watcher monitors the skills tree and rebuilds the catalog
// artifacts on change. Each flush runs a full build: the pipeline is cheap
// and the writes are atomic, so there is no partial-index bookkeeping.
package watcher

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/skillmart/skillmart/internal/catalog"
)

const debounceDelay = 2 * time.Second

// Watch starts watching the skills tree and rebuilds on change. It blocks
// until an unrecoverable error occurs. rebuild runs under a mutex so
// overlapping flushes can't interleave artifact writes.
func Watch(skillsDir string, rebuild func() (*catalog.BuildReport, error)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Close()

	dirs := walkDirs(skillsDir)
	for _, d := range dirs {
		if err := w.Add(d); err != nil {
			fmt.Fprintf(os.Stderr, "  [WARN] Could not watch %s: %v\n", d, err)
		}
	}

	fmt.Fprintf(os.Stderr, "Watching %d directories in %s\n", len(dirs), skillsDir)
	fmt.Fprintf(os.Stderr, "Press Ctrl+C to stop.\n\n")

	var (
		mu      sync.Mutex
		pending int
		timer   *time.Timer
	)

	flush := func() {
		mu.Lock()
		n := pending
		pending = 0
		mu.Unlock()
		if n == 0 {
			return
		}

		fmt.Fprintf(os.Stderr, "  Rebuilding after %d change(s)...\n", n)
		report, err := rebuild()
		if err != nil {
			fmt.Fprintf(os.Stderr, "  [ERROR] rebuild: %v\n", err)
			return
		}
		fmt.Fprintf(os.Stderr, "  Published %d skills (%d failures, %d warnings)\n",
			report.Published, len(report.Failures), len(report.Warnings))
	}

	for {
		select {
		case event, ok := <-w.Events:
			if !ok {
				return nil
			}

			// Watch newly created directories so fresh skill folders are seen.
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if !strings.HasPrefix(filepath.Base(event.Name), ".") {
						if err := w.Add(event.Name); err != nil {
							fmt.Fprintf(os.Stderr, "  [WARN] Could not watch %s: %v\n", event.Name, err)
						}
					}
				}
			}

			if !relevant(event.Name) {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
				event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				mu.Lock()
				pending++
				if timer != nil {
					timer.Stop()
				}
				timer = time.AfterFunc(debounceDelay, flush)
				mu.Unlock()
			}

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "  [WARN] Watch error: %v\n", err)
		}
	}
}

// relevant reports whether a path change should trigger a rebuild.
// Only SKILL.md documents feed the pipeline.
func relevant(path string) bool {
	return filepath.Base(path) == "SKILL.md"
}

func walkDirs(root string) []string {
	var dirs []string
	filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") && path != root {
			return filepath.SkipDir
		}
		dirs = append(dirs, path)
		return nil
	})
	return dirs
}
