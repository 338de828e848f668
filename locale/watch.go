package locale

import (
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"time"

	"github.com/bep/debounce"
	"github.com/fsnotify/fsnotify"
)

// watchSettle is how long the watcher waits after the last event before
// rescanning, so a batch of file writes triggers one reload.
const watchSettle = 200 * time.Millisecond

func (s *Store) startWatch() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := watcher.Add(s.dir); err != nil {
		_ = watcher.Close()
		return err
	}
	s.watcher = watcher
	s.reload = debounce.New(watchSettle)
	s.watchSubdirs()

	s.wg.Add(1)
	go s.run()
	return nil
}

// watchSubdirs adds the per-locale subtrees to the watcher. fsnotify does
// not recurse, and adding a path twice is harmless.
func (s *Store) watchSubdirs() {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		dir := filepath.Join(s.dir, entry.Name())
		_ = s.watcher.Add(dir)
		lc := filepath.Join(dir, "LC_MESSAGES")
		if _, err := os.Stat(lc); err == nil {
			_ = s.watcher.Add(lc)
		}
	}
}

func (s *Store) run() {
	defer s.wg.Done()
	for {
		select {
		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			s.reload(s.rescan)
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			s.logger.Warn("Locale watcher error", slog.String("error", err.Error()))
		}
	}
}

// rescan rebuilds the catalog set after file events settled. Catalogs whose
// file checksum did not change are carried over as is.
func (s *Store) rescan() {
	s.mu.RLock()
	prevCatalogs, prevSums := s.catalogs, s.sums
	s.mu.RUnlock()

	catalogs, sums, err := s.scan(prevCatalogs, prevSums)
	if err != nil {
		s.logger.Warn("Locale reload failed",
			slog.String("dir", s.dir), slog.String("error", err.Error()))
		return
	}
	if maps.Equal(sums, prevSums) {
		return
	}
	s.install(catalogs, sums)
	s.watchSubdirs()
	s.logger.Info("Locale catalogs reloaded",
		slog.String("dir", s.dir), slog.Int("languages", len(catalogs)))
}
