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

const defaultDebounce = 250 * time.Millisecond

// Store holds the current content snapshot. Snapshots are immutable; a
// reload swaps in a new one only if it passes validation.
type Store struct {
	dir      string
	logger   *zap.Logger
	debounce time.Duration
	current  atomic.Pointer[Site]
	reloads  atomic.Int64
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithLogger sets the logger used for reload events.
func WithLogger(l *zap.Logger) StoreOption {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithDebounce sets how long the watcher waits for writes to settle.
func WithDebounce(d time.Duration) StoreOption {
	return func(s *Store) {
		if d > 0 {
			s.debounce = d
		}
	}
}

// NewStore loads dir and returns a Store serving it.
func NewStore(dir string, opts ...StoreOption) (*Store, error) {
	s := &Store{dir: dir, logger: zap.NewNop(), debounce: defaultDebounce}
	for _, opt := range opts {
		opt(s)
	}
	site, err := Load(dir)
	if err != nil {
		return nil, err
	}
	s.current.Store(site)
	return s, nil
}

// StaticStore wraps an already loaded site.
func StaticStore(site *Site) *Store {
	s := &Store{logger: zap.NewNop(), debounce: defaultDebounce}
	s.current.Store(site)
	return s
}

// Site returns the current snapshot.
func (s *Store) Site() *Site {
	return s.current.Load()
}

// Reloads returns how many reloads have succeeded.
func (s *Store) Reloads() int64 {
	return s.reloads.Load()
}

// Reload loads the directory again. On failure the previous snapshot stays.
func (s *Store) Reload() error {
	site, err := Load(s.dir)
	if err != nil {
		return err
	}
	s.current.Store(site)
	s.reloads.Add(1)
	return nil
}

// Watch reloads content whenever a YAML file under the content directory
// changes. It blocks until ctx is done.
func (s *Store) Watch(ctx context.Context) error {
	if s.dir == "" {
		return fmt.Errorf("content: watch: store has no directory")
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("content: watch: %w", err)
	}
	defer w.Close()
	for _, dir := range []string{s.dir, filepath.Join(s.dir, pagesDir)} {
		if err := w.Add(dir); err != nil {
			return fmt.Errorf("content: watch %s: %w", dir, err)
		}
	}
	s.logger.Info("watching content", zap.String("dir", s.dir))

	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !isContentFile(filepath.Base(ev.Name)) || ev.Op == fsnotify.Chmod {
				continue
			}
			pending = time.After(s.debounce)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			s.logger.Warn("content watcher error", zap.Error(err))
		case <-pending:
			pending = nil
			if err := s.Reload(); err != nil {
				s.logger.Warn("content reload failed, keeping previous snapshot", zap.Error(err))
				continue
			}
			s.logger.Info("content reloaded", zap.Int("pages", len(s.Site().pages)))
		}
	}
}
