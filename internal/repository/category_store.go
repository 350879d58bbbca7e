package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"YTM4A/internal/domain/models"
	"YTM4A/internal/domain/repository"
	"YTM4A/internal/service/media"
)

// FileCategoryStore lays files out as <base>/<category>/<stem>.<ext>.
type FileCategoryStore struct {
	baseDir string
	tempDir string

	mu       sync.Mutex
	reserved map[string]struct{} // dir/stem
}

// NewCategoryStore creates the store. Directories are created lazily.
func NewCategoryStore(baseDir, tempDir string) *FileCategoryStore {
	return &FileCategoryStore{
		baseDir:  baseDir,
		tempDir:  tempDir,
		reserved: make(map[string]struct{}),
	}
}

var _ repository.CategoryStore = (*FileCategoryStore)(nil)

func (s *FileCategoryStore) EnsureDir(category models.Category) (string, error) {
	if _, ok := models.ParseCategory(string(category)); !ok {
		return "", models.NewError(models.KindValidation, "Invalid category: %s", category)
	}
	dir := filepath.Join(s.baseDir, category.String())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create category dir: %w", err)
	}
	return dir, nil
}

func (s *FileCategoryStore) EnsureTempDir() (string, error) {
	if err := os.MkdirAll(s.tempDir, 0o755); err != nil {
		return "", fmt.Errorf("create temp dir: %w", err)
	}
	return s.tempDir, nil
}

// NewAsset picks "<YYMMDD>_<title>", appending _2, _3, ... while the audio or
// metadata file already exists or the stem is held by an in-flight request.
func (s *FileCategoryStore) NewAsset(dir, title string, now time.Time) (models.MediaAsset, error) {
	base := media.Stem(now, title, "")

	s.mu.Lock()
	defer s.mu.Unlock()

	for n := 1; n < 10000; n++ {
		stem := base
		if n > 1 {
			stem = base + "_" + strconv.Itoa(n)
		}
		asset := models.MediaAsset{Dir: dir, Stem: stem}
		if _, held := s.reserved[s.key(asset)]; held {
			continue
		}
		if exists(asset.AudioPath()) || exists(asset.MetadataPath()) {
			continue
		}
		s.reserved[s.key(asset)] = struct{}{}
		return asset, nil
	}
	return models.MediaAsset{}, fmt.Errorf("no free filename for %q in %s", base, dir)
}

// Release forgets the reservation. Files already written stay and keep the
// stem taken.
func (s *FileCategoryStore) Release(asset models.MediaAsset) {
	s.mu.Lock()
	delete(s.reserved, s.key(asset))
	s.mu.Unlock()
}

// WriteJSON stores v as two-space indented JSON without HTML escaping.
func (s *FileCategoryStore) WriteJSON(path string, v any) error {
	return s.WriteFile(path, func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	})
}

func (s *FileCategoryStore) WriteFile(path string, write func(w io.Writer) error) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-"+filepath.Base(path)+"-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := write(tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", filepath.Base(path), err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// Resolve returns the path of filename inside the category directory. Names
// that could escape the directory are reported as NotFound.
func (s *FileCategoryStore) Resolve(category models.Category, filename string) (string, error) {
	if _, ok := models.ParseCategory(string(category)); !ok {
		return "", models.NewError(models.KindNotFound, "File not found")
	}
	if !SafeName(filename) {
		return "", models.NewError(models.KindNotFound, "File not found")
	}

	p := filepath.Join(s.baseDir, category.String(), filename)
	fi, err := os.Stat(p)
	if err != nil || !fi.Mode().IsRegular() {
		return "", models.NewError(models.KindNotFound, "File not found")
	}
	return p, nil
}

// SafeName reports whether name is a plain file name with no directory part.
func SafeName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	if strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") || strings.ContainsRune(name, 0) {
		return false
	}
	return filepath.Base(name) == name && !filepath.IsAbs(name)
}

func (s *FileCategoryStore) key(a models.MediaAsset) string {
	return filepath.Join(a.Dir, a.Stem)
}

func exists(p string) bool {
	_, err := os.Stat(p)
	return err == nil || !errors.Is(err, os.ErrNotExist)
}
