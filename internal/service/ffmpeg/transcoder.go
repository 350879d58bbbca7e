// Package ffmpeg recompresses audio with the ffmpeg binary.
package ffmpeg

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	ffmpeg "github.com/u2takey/ffmpeg-go"

	"YTM4A/internal/domain/models"
	"YTM4A/pkg/logger"
)

// Transcoder implements repository.Transcoder.
type Transcoder struct {
	binary  string
	bitrate string
	timeout time.Duration
	log     *logger.Logger
}

// New creates a Transcoder that encodes to the given audio bitrate, e.g. "64k".
func New(binary, bitrate string, timeout time.Duration, l *logger.Logger) *Transcoder {
	if bitrate == "" {
		bitrate = "64k"
	}
	return &Transcoder{binary: binary, bitrate: bitrate, timeout: timeout, log: l.Component("ffmpeg")}
}

// Args returns the ffmpeg arguments used to transcode src into dst.
func (t *Transcoder) Args(src, dst string) []string {
	return ffmpeg.Input(src).
		Output(dst, ffmpeg.KwArgs{"b:a": t.bitrate}).
		OverWriteOutput().
		GetArgs()
}

// Transcode writes dst and removes src once dst exists. On failure src is
// left untouched and any partial dst is removed.
func (t *Transcoder) Transcode(ctx context.Context, src, dst string) error {
	if t.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}

	args := t.Args(src, dst)
	cmdline := t.binary + " " + strings.Join(args, " ")

	var out bytes.Buffer
	cmd := exec.CommandContext(ctx, t.binary, args...)
	cmd.Stdout = &out
	cmd.Stderr = &out

	start := time.Now()
	if err := cmd.Run(); err != nil {
		t.log.Error("ffmpeg failed", logger.String("cmd", cmdline), logger.Error(err))
		t.discard(dst)
		return models.CommandError(models.KindTranscode, cmdline, tail(out.String(), 4000), err)
	}

	fi, err := os.Stat(dst)
	if err != nil || fi.Size() == 0 {
		t.discard(dst)
		return models.CommandError(models.KindTranscode, cmdline, tail(out.String(), 4000),
			fmt.Errorf("output %s missing or empty", dst))
	}

	if err := os.Remove(src); err != nil && !os.IsNotExist(err) {
		// The final file is good; a stale temp file is only clutter.
		t.log.Warn("could not remove original", logger.String("path", src), logger.Error(err))
	}

	t.log.Info("transcoded",
		logger.String("output", dst),
		logger.Int64("bytes", fi.Size()),
		logger.Duration("duration_ms", time.Since(start)),
	)
	return nil
}

func (t *Transcoder) discard(dst string) {
	if err := os.Remove(dst); err != nil && !os.IsNotExist(err) {
		t.log.Warn("could not remove partial output", logger.String("path", dst), logger.Error(err))
	}
}

// tail keeps the last n bytes of ffmpeg's chatty output.
func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return "..." + s[len(s)-n:]
}
