package localstore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"syscall"
)

// FileSlot stores each key as a file under Dir. Writes go through a
// temporary file and a rename so a crash never leaves a torn collection.
type FileSlot struct {
	Dir   string
	Quota int // optional cap on the UTF-16 byte size of a single value
}

// NewFileSlot creates the directory if needed and returns a slot rooted there
func NewFileSlot(dir string) (*FileSlot, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("localstore: create slot dir: %w", err)
	}
	return &FileSlot{Dir: dir}, nil
}

func (f *FileSlot) path(key string) string {
	return filepath.Join(f.Dir, url.PathEscape(key)+".json")
}

// Get implements Slot
func (f *FileSlot) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	data, err := os.ReadFile(f.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("localstore: read slot %q: %w", key, err)
	}
	return string(data), true, nil
}

// Set implements Slot
func (f *FileSlot) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if f.Quota > 0 && EstimateUTF16Bytes(value) > f.Quota {
		return ErrQuotaExceeded
	}

	tmp, err := os.CreateTemp(f.Dir, ".slot-*")
	if err != nil {
		return fmt.Errorf("localstore: write slot %q: %w", key, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(value); err != nil {
		tmp.Close()
		if errors.Is(err, syscall.ENOSPC) {
			return ErrQuotaExceeded
		}
		return fmt.Errorf("localstore: write slot %q: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("localstore: write slot %q: %w", key, err)
	}
	if err := os.Rename(tmp.Name(), f.path(key)); err != nil {
		return fmt.Errorf("localstore: write slot %q: %w", key, err)
	}
	return nil
}

// Remove implements Slot
func (f *FileSlot) Remove(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := os.Remove(f.path(key))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("localstore: remove slot %q: %w", key, err)
	}
	return nil
}
