package content

import (
	"context"
	"fmt"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Store serves the current content and swaps it on reload.
type Store struct {
	path    string
	current atomic.Pointer[Portfolio]
	logger  *zap.Logger
}

// NewStore loads content from path (empty for the compiled-in content).
func NewStore(path string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	p, err := Load(path)
	if err != nil {
		return nil, err
	}
	s := &Store{path: path, logger: logger}
	s.current.Store(p)
	return s, nil
}

// Current returns the content in effect.
func (s *Store) Current() *Portfolio {
	return s.current.Load()
}

// Reload re-reads the content file. On failure the previous content stays.
func (s *Store) Reload() error {
	p, err := Load(s.path)
	if err != nil {
		return err
	}
	s.current.Store(p)
	return nil
}

// Watch reloads the content file whenever it changes, until ctx is done.
// Saves arriving within debounce of each other cause a single reload.
// It is a no-op for compiled-in content.
func (s *Store) Watch(ctx context.Context, debounce time.Duration) error {
	if s.path == "" {
		<-ctx.Done()
		return nil
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create content watcher: %w", err)
	}
	defer w.Close()

	// Editors often replace the file, so watch the directory.
	dir := filepath.Dir(s.path)
	if err := w.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	s.logger.Info("watching content", zap.String("path", s.path))

	target := filepath.Clean(s.path)
	var (
		timer   *time.Timer
		timerCh <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target || ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			timerCh = timer.C
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			s.logger.Warn("content watcher error", zap.Error(err))
		case <-timerCh:
			timerCh = nil
			if err := s.Reload(); err != nil {
				s.logger.Error("content reload failed, keeping previous content", zap.Error(err))
				continue
			}
			s.logger.Info("content reloaded", zap.String("path", s.path))
		}
	}
}
