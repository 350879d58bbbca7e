// Package ytdlp downloads audio tracks with the yt-dlp command line tool.
package ytdlp

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"YTM4A/internal/domain/models"
	"YTM4A/internal/service/media"
	"YTM4A/pkg/logger"
)

// TempPrefix marks files that have not been transcoded yet.
const TempPrefix = "og_"

// Option configures Acquirer.
type Option func(*Acquirer)

// Acquirer implements repository.Acquirer.
type Acquirer struct {
	binary    string
	extraArgs []string
	timeout   time.Duration
	newToken  func() string
	log       *logger.Logger
}

// New creates an Acquirer running the given yt-dlp binary.
func New(binary string, l *logger.Logger, opts ...Option) *Acquirer {
	a := &Acquirer{
		binary:   binary,
		timeout:  20 * time.Minute,
		newToken: func() string { return strings.ReplaceAll(uuid.NewString(), "-", "")[:8] },
		log:      l.Component("ytdlp"),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// WithExtraArgs appends args before the URL, e.g. cookies or proxy flags.
func WithExtraArgs(args ...string) Option {
	return func(a *Acquirer) {
		a.extraArgs = append(a.extraArgs, args...)
	}
}

// WithTimeout bounds a single download.
func WithTimeout(d time.Duration) Option {
	return func(a *Acquirer) {
		a.timeout = d
	}
}

// WithTokenFunc overrides the per-download temp name token.
func WithTokenFunc(fn func() string) Option {
	return func(a *Acquirer) {
		a.newToken = fn
	}
}

// Acquire downloads the best audio of src into dir as m4a and returns the
// temp file path together with the metadata yt-dlp printed.
func (a *Acquirer) Acquire(ctx context.Context, src models.VideoSource, dir string) (*models.Download, error) {
	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	prefix := TempPrefix + a.newToken() + "_"
	template := filepath.Join(dir, prefix+"%(title)s.%(ext)s")

	args := []string{"--geo-bypass", "-x", "--audio-format", "m4a", "-o", template, "--print-json"}
	args = append(args, a.extraArgs...)
	args = append(args, src.URL)

	cmd := exec.CommandContext(ctx, a.binary, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	cmdline := a.binary + " " + strings.Join(args, " ")
	a.log.Info("acquiring audio", logger.String("url", src.URL), logger.String("video_id", src.ID))

	if err := cmd.Run(); err != nil {
		output := strings.TrimSpace(stderr.String() + "\n" + stdout.String())
		a.log.Error("yt-dlp failed", logger.String("cmd", cmdline), logger.Error(err))
		return nil, models.CommandError(models.KindAcquisition, cmdline, output, err)
	}

	meta, err := lastJSONObject(stdout.Bytes())
	if err != nil {
		return nil, models.CommandError(models.KindAcquisition, cmdline, stdout.String(),
			fmt.Errorf("parse metadata: %w", err))
	}

	path, err := a.locate(dir, prefix, meta.Title())
	if err != nil {
		return nil, err
	}
	return &models.Download{TempPath: path, Metadata: meta}, nil
}

// locate finds the file yt-dlp wrote. The tool may normalise the title
// differently from SanitizeFilename, hence the glob fallback.
func (a *Acquirer) locate(dir, prefix, title string) (string, error) {
	candidates := []string{
		filepath.Join(dir, prefix+title+".m4a"),
		filepath.Join(dir, prefix+media.SanitizeFilename(title)+".m4a"),
	}
	for _, p := range candidates {
		if !contained(dir, prefix, p) {
			continue
		}
		if fi, err := os.Stat(p); err == nil && fi.Mode().IsRegular() {
			return p, nil
		}
	}

	found, err := filepath.Glob(filepath.Join(dir, globEscape(prefix)+"*.m4a"))
	if err != nil {
		return "", models.NewError(models.KindAcquisition, "could not find downloaded audio file: %v", err)
	}
	matches := found[:0]
	for _, m := range found {
		if contained(dir, prefix, m) {
			matches = append(matches, m)
		}
	}
	switch len(matches) {
	case 0:
		return "", models.NewError(models.KindAcquisition, "could not find downloaded audio file")
	case 1:
		return matches[0], nil
	}

	newest, newestMod := "", time.Time{}
	for _, m := range matches {
		fi, err := os.Stat(m)
		if err != nil {
			continue
		}
		if newest == "" || fi.ModTime().After(newestMod) {
			newest, newestMod = m, fi.ModTime()
		}
	}
	a.log.Warn("multiple downloaded files matched, using newest",
		logger.Int("matches", len(matches)), logger.String("path", newest))
	return newest, nil
}

// contained reports whether p names a file directly inside dir carrying this
// download's prefix. The title comes from remote metadata and may hold path
// elements.
func contained(dir, prefix, p string) bool {
	return filepath.Dir(p) == filepath.Clean(dir) && strings.HasPrefix(filepath.Base(p), prefix)
}

// lastJSONObject returns the last stdout line that decodes as a JSON object.
func lastJSONObject(out []byte) (models.Metadata, error) {
	var last models.Metadata
	sc := bufio.NewScanner(bytes.NewReader(out))
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for sc.Scan() {
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 || line[0] != '{' {
			continue
		}
		var m models.Metadata
		if err := json.Unmarshal(line, &m); err == nil {
			last = m
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if last == nil {
		return nil, fmt.Errorf("no JSON object in output")
	}
	return last, nil
}

func globEscape(s string) string {
	r := strings.NewReplacer(`*`, `\*`, `?`, `\?`, `[`, `\[`)
	return r.Replace(s)
}
