package repository

import (
	"context"
	"io"
	"time"

	"YTM4A/internal/domain/models"
)

// Acquirer fetches a video's best audio track plus its metadata into dir.
type Acquirer interface {
	Acquire(ctx context.Context, src models.VideoSource, dir string) (*models.Download, error)
}

// Transcoder recompresses src into dst. src must survive a failed run.
type Transcoder interface {
	Transcode(ctx context.Context, src, dst string) error
}

// CategoryStore owns the directory-per-category layout.
type CategoryStore interface {
	// EnsureDir creates <base>/<category> if needed and returns its path.
	EnsureDir(category models.Category) (string, error)
	// EnsureTempDir creates the directory for files served by key only.
	EnsureTempDir() (string, error)
	// NewAsset reserves a stem "<date>_<title>" in dir that does not collide
	// with files already present or reserved.
	NewAsset(dir, title string, now time.Time) (models.MediaAsset, error)
	// Release drops a reservation whose files were never written.
	Release(asset models.MediaAsset)
	WriteJSON(path string, v any) error
	// WriteFile atomically replaces path with what write produces.
	WriteFile(path string, write func(w io.Writer) error) error
	// Resolve maps a served filename to a path inside the category directory.
	Resolve(category models.Category, filename string) (string, error)
}

// TempRegistry issues opaque keys for files kept outside the category tree.
type TempRegistry interface {
	Register(ctx context.Context, path string) (string, error)
	// Resolve returns the path for key when its basename equals filename.
	Resolve(ctx context.Context, key, filename string) (string, error)
	// Sweep evicts files older than the registry TTL and returns how many
	// were removed.
	Sweep(ctx context.Context) (int, error)
	// Count returns the number of live registrations.
	Count(ctx context.Context) (int, error)
}

// Metrics records pipeline activity.
type Metrics interface {
	RecordStage(state string, seconds float64)
	RecordError(kind string)
	RecordSignal(category, direction string)
	RecordRequest(status string)
}
