package uploads

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	pdfSuffix     = ".pdf"
	claimedSuffix = ".pdf.claimed"
)

// DiskStore keeps each upload at {root}/{id}.pdf.
type DiskStore struct {
	root string
}

// NewDiskStore creates root if needed.
func NewDiskStore(root string) (*DiskStore, error) {
	if root == "" {
		return nil, errors.New("upload dir must be configured")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &DiskStore{root: root}, nil
}

func (s *DiskStore) Root() string {
	return s.root
}

func (s *DiskStore) path(id string) string {
	return filepath.Join(s.root, id+pdfSuffix)
}

func (s *DiskStore) claimedPath(id string) string {
	return filepath.Join(s.root, id+claimedSuffix)
}

func (s *DiskStore) Put(_ context.Context, data []byte, contentType string) (string, error) {
	if err := checkUpload(data, contentType); err != nil {
		return "", err
	}
	id := newID()
	// write under a temp name so a concurrent Take never sees a partial file
	tmp, err := os.CreateTemp(s.root, ".upload-*")
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("write upload file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("close upload file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path(id)); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("store upload file: %w", err)
	}
	return id, nil
}

// Take claims the file with a rename, so only one caller can win the read.
func (s *DiskStore) Take(_ context.Context, id string) ([]byte, error) {
	if !ValidID(id) {
		return nil, ErrInvalidID
	}
	claimed := s.claimedPath(id)
	if err := os.Rename(s.path(id), claimed); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("claim upload: %w", err)
	}
	// rename keeps the old mtime; refresh it so Sweep cannot expire a live claim
	now := time.Now()
	_ = os.Chtimes(claimed, now, now)
	data, err := os.ReadFile(claimed)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read upload: %w", err)
	}
	return data, nil
}

func (s *DiskStore) Delete(_ context.Context, id string) error {
	if !ValidID(id) {
		return ErrInvalidID
	}
	var errs []error
	for _, p := range []string{s.claimedPath(id), s.path(id)} {
		if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Sweep removes uploads last modified before cutoff.
func (s *DiskStore) Sweep(_ context.Context, cutoff time.Time) (int, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return 0, fmt.Errorf("list upload dir: %w", err)
	}
	removed := 0
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !(strings.HasSuffix(name, pdfSuffix) || strings.HasSuffix(name, claimedSuffix) || strings.HasPrefix(name, ".upload-")) {
			continue
		}
		info, err := entry.Info()
		if err != nil || !info.ModTime().Before(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(s.root, name)); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return removed, fmt.Errorf("remove expired upload %s: %w", name, err)
		}
		removed++
	}
	return removed, nil
}
