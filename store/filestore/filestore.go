// Package filestore persists each setting as its own file under a root
// directory.
//
// Writes go to a temp file and are renamed into place, so readers never
// observe a partial entry. Flush fsyncs the directory, making prior renames
// durable.
package filestore

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/prefkit/prefkit/store"
)

const fileExt = ".pref"

// Store is a file-per-key store rooted at a directory.
type Store struct {
	dir string
}

// Open creates dir if needed (0700) and returns a Store rooted there.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the root directory.
func (s *Store) Dir() string { return s.dir }

func (s *Store) Has(key string) (bool, error) {
	_, err := os.Stat(s.path(key))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

func (s *Store) Read(key string) ([]byte, error) {
	data, err := os.ReadFile(s.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	return data, nil
}

func (s *Store) Write(key string, data []byte) error {
	path := s.path(key)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

func (s *Store) Remove(key string) error {
	err := os.Remove(s.path(key))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", key, err)
	}
	return nil
}

// Flush fsyncs the store directory so prior renames are durable.
func (s *Store) Flush() error {
	d, err := os.Open(s.dir)
	if err != nil {
		return fmt.Errorf("flush: %w", err)
	}
	defer d.Close()
	if err := d.Sync(); err != nil {
		return fmt.Errorf("flush: %w", err)
	}
	return nil
}

// Watch invokes onChange with the entry name whenever a store file is
// created, modified, or removed, including by other processes. The callback
// runs on the watcher goroutine; keep it short (typically
// Setting.Invalidate). The returned stop function tears the watcher down.
//
// Entry names are the sanitized form of the key; for keys without path
// separators the two are identical.
func (s *Store) Watch(onChange func(key string)) (stop func(), err error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: %w", err)
	}
	if err := w.Add(s.dir); err != nil {
		w.Close()
		return nil, fmt.Errorf("watch %s: %w", s.dir, err)
	}

	go func() {
		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
					continue
				}
				name := filepath.Base(ev.Name)
				if !strings.HasSuffix(name, fileExt) {
					continue
				}
				onChange(strings.TrimSuffix(name, fileExt))
			case _, ok := <-w.Errors:
				if !ok {
					return
				}
			}
		}
	}()

	return func() { w.Close() }, nil
}

func (s *Store) path(key string) string {
	return filepath.Join(s.dir, sanitize(key)+fileExt)
}

// sanitize maps a setting key to a safe file name. Path separators and a
// leading dot are replaced so a key can never escape the store directory or
// hide its entry.
func sanitize(key string) string {
	name := strings.NewReplacer("/", "_", "\\", "_").Replace(key)
	if strings.HasPrefix(name, ".") {
		name = "_" + name[1:]
	}
	return name
}
