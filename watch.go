package sitethumbs

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charlievieth/fastwalk"
	"github.com/fsnotify/fsnotify"
)

const rebuildDelay = 300 * time.Millisecond

// Watch rebuilds the site whenever the content directory changes, until ctx
// is cancelled. Rebuilds run one at a time on the calling goroutine. Build
// errors are logged and watching continues.
func (s *Site) Watch(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := watchTree(w, s.Config.ContentDir); err != nil {
		return err
	}
	logger := s.Logger.With("component", "watcher")
	logger.Info("watching", "dir", s.Config.ContentDir)

	timer := time.NewTimer(rebuildDelay)
	timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if hidden(ev.Name) {
				continue
			}
			if ev.Has(fsnotify.Create) {
				if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
					_ = watchTree(w, ev.Name)
				}
			}
			timer.Reset(rebuildDelay)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", "err", err)
		case <-timer.C:
			logger.Info("content changed, rebuilding")
			if err := s.Build(); err != nil {
				logger.Error("rebuild failed", "err", err)
			}
		}
	}
}

// watchTree adds root and every non-hidden directory below it.
func watchTree(w *fsnotify.Watcher, root string) error {
	if err := w.Add(root); err != nil {
		return err
	}
	conf := fastwalk.Config{Follow: false}
	return fastwalk.Walk(&conf, root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if p == root || !d.IsDir() {
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") {
			return fastwalk.SkipDir
		}
		return w.Add(p)
	})
}

func hidden(p string) bool {
	return strings.HasPrefix(filepath.Base(p), ".")
}
