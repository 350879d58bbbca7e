package repository

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"YTM4A/internal/domain/models"
	"YTM4A/pkg/cache"
	"YTM4A/pkg/logger"
)

type clock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func newRegistry(t *testing.T) (*CacheTempRegistry, string, *clock) {
	t.Helper()
	clk := &clock{t: time.Now()}
	mc := cache.NewMemoryCache(cache.WithMemoryClock(clk.Now))
	t.Cleanup(func() { _ = mc.Close() })
	dir := t.TempDir()
	return NewTempRegistry(mc, dir, time.Hour, logger.NewNop()).WithClock(clk.Now), dir, clk
}

func writeFile(t *testing.T, p string) {
	t.Helper()
	require.NoError(t, os.WriteFile(p, []byte("data"), 0o644))
}

func TestTempRegistryResolve(t *testing.T) {
	ctx := context.Background()
	r, dir, _ := newRegistry(t)
	p := filepath.Join(dir, "250122_Test_Video.m4a")
	writeFile(t, p)

	key, err := r.Register(ctx, p)
	require.NoError(t, err)
	require.NotEmpty(t, key)

	got, err := r.Resolve(ctx, key, "250122_Test_Video.m4a")
	require.NoError(t, err)
	assert.Equal(t, p, got)

	// Keys are not consumed by a download.
	_, err = r.Resolve(ctx, key, "250122_Test_Video.m4a")
	require.NoError(t, err)

	n, err := r.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestTempRegistryMismatchAndUnknown(t *testing.T) {
	ctx := context.Background()
	r, dir, _ := newRegistry(t)
	p := filepath.Join(dir, "a.m4a")
	writeFile(t, p)
	key, err := r.Register(ctx, p)
	require.NoError(t, err)

	_, err = r.Resolve(ctx, key, "b.m4a")
	assert.ErrorIs(t, err, models.ErrMismatch)

	_, err = r.Resolve(ctx, "not-a-key", "a.m4a")
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = r.Resolve(ctx, "", "a.m4a")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestTempRegistryExpiryAndSweep(t *testing.T) {
	ctx := context.Background()
	r, dir, clk := newRegistry(t)

	old := filepath.Join(dir, "old.m4a")
	writeFile(t, old)
	key, err := r.Register(ctx, old)
	require.NoError(t, err)

	stray := filepath.Join(dir, "og_tok_stray.m4a")
	writeFile(t, stray)
	past := clk.Now().Add(-2 * time.Hour)
	require.NoError(t, os.Chtimes(stray, past, past))

	// Live registration protects its file; unregistered old files go.
	n, err := r.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.FileExists(t, old)
	assert.NoFileExists(t, stray)

	clk.Advance(2 * time.Hour)
	_, err = r.Resolve(ctx, key, "old.m4a")
	assert.ErrorIs(t, err, models.ErrNotFound)

	n, err = r.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.NoFileExists(t, old)

	count, err := r.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestTempRegistrySweepMissingDir(t *testing.T) {
	mc := cache.NewMemoryCache()
	t.Cleanup(func() { _ = mc.Close() })
	r := NewTempRegistry(mc, filepath.Join(t.TempDir(), "absent"), time.Hour, logger.NewNop())

	n, err := r.Sweep(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestTempRegistrySweepDropsKeysForRemovedFiles(t *testing.T) {
	ctx := context.Background()
	r, dir, _ := newRegistry(t)
	keep := filepath.Join(dir, "og_keep_a.m4a")
	gone := filepath.Join(dir, "og_gone_b.m4a")
	writeFile(t, keep)
	writeFile(t, gone)

	_, err := r.Register(ctx, keep)
	require.NoError(t, err)
	_, err = r.Register(ctx, gone)
	require.NoError(t, err)
	require.NoError(t, os.Remove(gone))

	_, err = r.Sweep(ctx)
	require.NoError(t, err)

	n, err := r.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
