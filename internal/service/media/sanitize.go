// Package media holds the pure helpers that turn user input into safe
// identifiers and filenames.
package media

import (
	"net/url"
	"strings"
	"time"
	"unicode"

	"YTM4A/internal/domain/models"
	"YTM4A/pkg/util"
)

// MaxFilenameLen bounds a sanitized title, in runes.
const MaxFilenameLen = 100

const forbidden = `<>:"/\|?*'`

// ExtractVideoID returns the video identifier of a watch-page or short-link
// URL. Any other shape is an InvalidInput error.
func ExtractVideoID(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", models.NewError(models.KindInvalidInput, "Invalid YouTube URL")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", models.NewError(models.KindInvalidInput, "Invalid YouTube URL: %v", err)
	}
	if scheme := strings.ToLower(u.Scheme); scheme != "http" && scheme != "https" {
		return "", models.NewError(models.KindInvalidInput, "Invalid YouTube URL: %s", raw)
	}

	switch strings.ToLower(u.Hostname()) {
	case "youtube.com", "www.youtube.com":
		if u.Path != "/watch" {
			break
		}
		if id := u.Query().Get("v"); id != "" {
			return id, nil
		}
	case "youtu.be":
		seg := strings.SplitN(strings.TrimPrefix(u.Path, "/"), "/", 2)[0]
		if seg != "" {
			return seg, nil
		}
	}
	return "", models.NewError(models.KindInvalidInput, "Invalid YouTube URL: %s", raw)
}

// NewVideoSource validates raw and pairs it with its identifier.
func NewVideoSource(raw string) (models.VideoSource, error) {
	id, err := ExtractVideoID(raw)
	if err != nil {
		return models.VideoSource{}, err
	}
	return models.VideoSource{URL: strings.TrimSpace(raw), ID: id}, nil
}

// SanitizeFilename maps title onto a filesystem-safe name. The result has no
// forbidden characters, spaces or underscore runs, does not start or end with
// an underscore and is at most MaxFilenameLen runes. It is idempotent.
func SanitizeFilename(title string) string {
	var b strings.Builder
	b.Grow(len(title))
	prevUnderscore := false
	for _, r := range title {
		if r == ' ' || unicode.IsControl(r) || strings.ContainsRune(forbidden, r) {
			r = '_'
		}
		if r == '_' {
			if prevUnderscore {
				continue
			}
			prevUnderscore = true
		} else {
			prevUnderscore = false
		}
		b.WriteRune(r)
	}

	s := strings.Trim(b.String(), "_")
	s = util.TruncateRunes(s, MaxFilenameLen)
	return strings.Trim(s, "_")
}

// DatePrefix is the YYMMDD stamp of t.
func DatePrefix(t time.Time) string {
	return util.DatePrefix(t)
}

// Stem joins the date prefix and the sanitized title. An empty title falls
// back to fallback, which is sanitized the same way.
func Stem(now time.Time, title, fallback string) string {
	name := SanitizeFilename(title)
	if name == "" {
		name = SanitizeFilename(fallback)
	}
	if name == "" {
		name = "audio"
	}
	return DatePrefix(now) + "_" + name
}
