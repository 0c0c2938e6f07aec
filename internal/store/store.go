// Package store persists record collections as whole-file JSON documents.
//
// Every write replaces the file atomically (temp file + rename), so readers
// observe either the previous or the next version and never a partial file.
// Writers in the same process are serialised per file path; separate
// processes writing the same file remain last-writer-wins.
package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/bistro-ops/bistro/internal/models"
)

// CorruptDataError reports a collection file that exists but cannot be parsed.
type CorruptDataError struct {
	Collection string
	Path       string
	Err        error
}

func (e *CorruptDataError) Error() string {
	return fmt.Sprintf("collection %s (%s) is corrupt: %v", e.Collection, e.Path, e.Err)
}

func (e *CorruptDataError) Unwrap() []error {
	return []error{models.ErrCorruptData, e.Err}
}

// Option configures a Store.
type Option func(*options)

type options struct {
	onSave func(collection string, count int)
	now    func() time.Time
}

// WithSaveHook registers fn to run after every successful save.
func WithSaveHook(fn func(collection string, count int)) Option {
	return func(o *options) {
		o.onSave = fn
	}
}

// WithClock sets the time source used to name quarantined files.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// Store reads and writes one collection of T records.
type Store[T any] struct {
	name string
	path string
	opts options
}

// New returns a store for collection name backed by dir/name.json.
// The directory is created on first save.
func New[T any](dir, name string, opts ...Option) *Store[T] {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return &Store[T]{
		name: name,
		path: filepath.Join(dir, name+".json"),
		opts: o,
	}
}

// Name returns the collection name.
func (s *Store[T]) Name() string {
	return s.name
}

// Path returns the backing file path.
func (s *Store[T]) Path() string {
	return s.path
}

// Load reads all records. A missing file yields an empty collection.
// Unparseable content yields a *CorruptDataError, never an empty slice.
func (s *Store[T]) Load() ([]T, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []T{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", s.name, err)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return nil, &CorruptDataError{Collection: s.name, Path: s.path, Err: errors.New("file is empty")}
	}

	var records []T
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, &CorruptDataError{Collection: s.name, Path: s.path, Err: err}
	}
	if records == nil {
		records = []T{}
	}
	return records, nil
}

// Save replaces the whole collection with records.
func (s *Store[T]) Save(records []T) error {
	lock := lockFor(s.path)
	lock.Lock()
	defer lock.Unlock()
	return s.save(records)
}

// Update runs a load-modify-save cycle while holding the collection's write
// lock. If fn returns an error nothing is written.
func (s *Store[T]) Update(fn func([]T) ([]T, error)) ([]T, error) {
	lock := lockFor(s.path)
	lock.Lock()
	defer lock.Unlock()

	records, err := s.Load()
	if err != nil {
		return nil, err
	}
	updated, err := fn(records)
	if err != nil {
		return nil, err
	}
	if err := s.save(updated); err != nil {
		return nil, err
	}
	return updated, nil
}

// Reset moves the backing file aside to <path>.corrupt-<timestamp> so the
// collection starts empty. It returns the quarantine path, or "" when
// there was no file.
func (s *Store[T]) Reset() (string, error) {
	lock := lockFor(s.path)
	lock.Lock()
	defer lock.Unlock()

	if _, err := os.Stat(s.path); errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	dest := fmt.Sprintf("%s.corrupt-%s", s.path, s.opts.now().UTC().Format("20060102T150405"))
	if err := os.Rename(s.path, dest); err != nil {
		return "", fmt.Errorf("quarantining %s: %w", s.name, err)
	}
	return dest, nil
}

func (s *Store[T]) save(records []T) error {
	if records == nil {
		records = []T{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", s.name, err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	if err := writeAtomic(dir, s.path, data); err != nil {
		return fmt.Errorf("writing %s: %w", s.name, err)
	}

	if s.opts.onSave != nil {
		s.opts.onSave(s.name, len(records))
	}
	return nil
}

func writeAtomic(dir, path string, data []byte) error {
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		// No-op once the rename succeeded.
		os.Remove(tmpName)
	}()

	if err := tmp.Chmod(0644); err != nil {
		tmp.Close()
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

var locks sync.Map

func lockFor(path string) *sync.Mutex {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	l, _ := locks.LoadOrStore(path, &sync.Mutex{})
	return l.(*sync.Mutex)
}
