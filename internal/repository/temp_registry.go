package repository

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"YTM4A/internal/domain/models"
	"YTM4A/internal/domain/repository"
	"YTM4A/pkg/cache"
	"YTM4A/pkg/logger"
)

const tempKeyPrefix = "temp"

type tempEntry struct {
	Path      string    `json:"path"`
	CreatedAt time.Time `json:"created_at"`
}

// CacheTempRegistry keeps key -> path registrations in a cache.Service with a
// TTL. Expired registrations vanish from the cache; Sweep removes the files
// they pointed at.
type CacheTempRegistry struct {
	cache cache.Service
	dir   string
	ttl   time.Duration
	now   func() time.Time
	log   *logger.Logger
}

// NewTempRegistry creates a registry for files under dir.
func NewTempRegistry(c cache.Service, dir string, ttl time.Duration, l *logger.Logger) *CacheTempRegistry {
	return &CacheTempRegistry{cache: c, dir: dir, ttl: ttl, now: time.Now, log: l.Component("temp_registry")}
}

var _ repository.TempRegistry = (*CacheTempRegistry)(nil)

// WithClock swaps the time source used for file ages.
func (r *CacheTempRegistry) WithClock(now func() time.Time) *CacheTempRegistry {
	r.now = now
	return r
}

func (r *CacheTempRegistry) Register(ctx context.Context, path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve path: %w", err)
	}
	key := uuid.NewString()
	entry := tempEntry{Path: abs, CreatedAt: r.now()}
	if err := r.cache.Set(ctx, cache.GenerateKey(tempKeyPrefix, key), entry, r.ttl); err != nil {
		return "", fmt.Errorf("register temp file: %w", err)
	}
	return key, nil
}

func (r *CacheTempRegistry) Resolve(ctx context.Context, key, filename string) (string, error) {
	if key == "" {
		return "", models.NewError(models.KindNotFound, "Invalid or expired download key")
	}

	var entry tempEntry
	if err := r.cache.Get(ctx, cache.GenerateKey(tempKeyPrefix, key), &entry); err != nil {
		if errors.Is(err, cache.ErrCacheMiss) {
			return "", models.NewError(models.KindNotFound, "Invalid or expired download key")
		}
		return "", fmt.Errorf("lookup temp key: %w", err)
	}

	if filepath.Base(entry.Path) != filename {
		return "", models.NewError(models.KindMismatch, "Filename does not match download key")
	}
	if fi, err := os.Stat(entry.Path); err != nil || !fi.Mode().IsRegular() {
		return "", models.NewError(models.KindNotFound, "File not found")
	}
	return entry.Path, nil
}

// Sweep deletes regular files in the temp directory that no live key points
// at and that are older than the TTL.
func (r *CacheTempRegistry) Sweep(ctx context.Context) (int, error) {
	live, err := r.livePaths(ctx)
	if err != nil {
		return 0, err
	}

	entries, err := os.ReadDir(r.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, nil
		}
		return 0, fmt.Errorf("read temp dir: %w", err)
	}

	cutoff := r.now().Add(-r.ttl)
	removed := 0
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		p := filepath.Join(r.dir, e.Name())
		abs, _ := filepath.Abs(p)
		if _, ok := live[abs]; ok {
			continue
		}
		info, err := e.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(p); err != nil {
			r.log.Warn("sweep: remove failed", logger.String("path", p), logger.Error(err))
			continue
		}
		removed++
	}
	if removed > 0 {
		r.log.Info("sweep: removed expired temp files", logger.Int("count", removed))
	}
	return removed, nil
}

func (r *CacheTempRegistry) Count(ctx context.Context) (int, error) {
	keys, err := r.cache.Keys(ctx, cache.BuildPattern(tempKeyPrefix))
	if err != nil {
		return 0, err
	}
	return len(keys), nil
}

func (r *CacheTempRegistry) livePaths(ctx context.Context) (map[string]struct{}, error) {
	keys, err := r.cache.Keys(ctx, cache.BuildPattern(tempKeyPrefix))
	if err != nil {
		return nil, fmt.Errorf("list temp keys: %w", err)
	}
	live := make(map[string]struct{}, len(keys))
	var dead []string
	for _, k := range keys {
		var entry tempEntry
		if err := r.cache.Get(ctx, k, &entry); err != nil {
			continue
		}
		if _, err := os.Stat(entry.Path); errors.Is(err, os.ErrNotExist) {
			dead = append(dead, k)
			continue
		}
		live[entry.Path] = struct{}{}
	}
	// keys whose file was removed out of band would only ever 404
	if len(dead) > 0 {
		if err := r.cache.Delete(ctx, dead...); err != nil {
			r.log.Warn("sweep: drop dead keys failed", logger.Error(err))
		}
	}
	return live, nil
}
