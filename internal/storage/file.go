package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const (
	fileExt       = ".json"
	tmpPrefix     = ".tmp-"
	watchDebounce = 200 * time.Millisecond
)

// File stores each key as one file in a directory, so the data can be
// inspected and edited by hand. Values written with an expiry are cached
// data and are kept in memory only.
type File struct {
	dir      string
	mu       sync.Mutex
	volatile *Memory
}

// NewFile creates the directory if needed and returns a backend rooted there.
func NewFile(dir string) (*File, error) {
	if dir == "" {
		dir = "data"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage dir: %w", err)
	}
	return &File{dir: dir, volatile: NewMemory()}, nil
}

// Dir returns the directory the backend writes to.
func (f *File) Dir() string {
	return f.dir
}

// Path returns the file that holds key. Keys may not contain dots or path
// separators; colons are written as dots.
func (f *File) Path(key string) (string, error) {
	if key == "" || strings.ContainsAny(key, `/\.`) {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return filepath.Join(f.dir, strings.ReplaceAll(key, ":", ".")+fileExt), nil
}

// keyFor maps a file name back to its key. ok is false for files the
// backend does not own.
func keyFor(name string) (string, bool) {
	base := filepath.Base(name)
	if strings.HasPrefix(base, ".") || !strings.HasSuffix(base, fileExt) {
		return "", false
	}
	return strings.ReplaceAll(strings.TrimSuffix(base, fileExt), ".", ":"), true
}

func (f *File) Get(ctx context.Context, key string) ([]byte, error) {
	if v, err := f.volatile.Get(ctx, key); err != nil || v != nil {
		return v, err
	}

	path, err := f.Path(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

func (f *File) Set(ctx context.Context, key string, val []byte, exp time.Duration) error {
	if exp > 0 {
		return f.volatile.Set(ctx, key, val, exp)
	}

	path, err := f.Path(key)
	if err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	tmp, err := os.CreateTemp(f.dir, tmpPrefix+"*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(val); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}

func (f *File) Delete(ctx context.Context, key string) error {
	if err := f.volatile.Delete(ctx, key); err != nil {
		return err
	}

	path, err := f.Path(key)
	if err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete %s: %w", path, err)
	}
	return nil
}

func (f *File) Ping(context.Context) error {
	info, err := os.Stat(f.dir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", f.dir)
	}
	return nil
}

func (f *File) Close() error {
	return f.volatile.Close()
}

// Watch reports keys whose files were changed by another process until ctx
// is cancelled. Bursts of events for the same key are debounced into one
// callback.
func (f *File) Watch(ctx context.Context, logger *slog.Logger, onChange func(key string)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(f.dir); err != nil {
		return err
	}

	logger.Info("storage watcher: started", slog.String("dir", f.dir))

	pending := make(map[string]struct{})
	var timer *time.Timer
	var timerCh <-chan time.Time

	schedule := func(key string) {
		pending[key] = struct{}{}
		if timer == nil {
			timer = time.NewTimer(watchDebounce)
			timerCh = timer.C
		} else {
			timer.Reset(watchDebounce)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			logger.Info("storage watcher: stopped")
			return nil

		case <-timerCh:
			for key := range pending {
				logger.Debug("storage watcher: changed", slog.String("key", key))
				onChange(key)
			}
			clear(pending)

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if key, ok := keyFor(ev.Name); ok {
				schedule(key)
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("storage watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}
