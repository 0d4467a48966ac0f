package folio

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

// DefaultDebounce is how long the watcher waits for changes to settle.
const DefaultDebounce = 200 * time.Millisecond

// Watch rebuilds the site whenever a file below the source directory
// changes, until ctx is cancelled. Bursts of events within debounce trigger
// a single rebuild; rebuilds never overlap.
func (b *Builder) Watch(ctx context.Context, debounce time.Duration) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	src := b.Config.Paths.Src
	if err := addTree(w, src); err != nil {
		return err
	}
	log := b.Log.WithField("src", src)
	log.Info("watching for changes")

	var mu sync.Mutex
	rebuild := func() {
		mu.Lock()
		defer mu.Unlock()
		if ctx.Err() != nil {
			return
		}
		if _, err := b.Build(ctx); err != nil {
			log.WithError(err).Error("rebuild failed")
		}
	}

	var tmr *time.Timer
	schedule := func() {
		if tmr != nil {
			tmr.Stop()
		}
		tmr = time.AfterFunc(debounce, rebuild)
	}
	defer func() {
		if tmr != nil {
			tmr.Stop()
		}
		// Wait for a rebuild that already started.
		mu.Lock()
		mu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if ev.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					if err := addTree(w, ev.Name); err != nil {
						log.WithError(err).Warn("could not watch new directory")
					}
				}
			}
			log.WithFields(logrus.Fields{"file": ev.Name, "op": ev.Op.String()}).Debug("change detected")
			schedule()

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.WithError(err).Warn("watcher error")
		}
	}
}

// addTree watches root and every directory below it. fsnotify is not
// recursive.
func addTree(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.Add(path)
		}
		return nil
	})
}
