package ytdlp

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"YTM4A/internal/domain/models"
	"YTM4A/pkg/logger"
)

const okScript = `#!/bin/sh
out=""
while [ $# -gt 0 ]; do
  case "$1" in
    -o) out="$2"; shift 2 ;;
    *) shift ;;
  esac
done
f=$(printf '%s' "$out" | sed -e "s/%(title)s/$TITLE/" -e 's/%(ext)s/m4a/')
printf 'audio' > "$f"
echo "[download] Destination: $f"
echo '{"title":"Test Video","duration_string":"3:05","id":"abc123"}'
`

const failScript = `#!/bin/sh
echo "ERROR: [youtube] abc123: Video unavailable" >&2
exit 1
`

func fakeBinary(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script fakes need a POSIX shell")
	}
	p := filepath.Join(t.TempDir(), "yt-dlp")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o755))
	return p
}

func src() models.VideoSource {
	return models.VideoSource{URL: "https://youtu.be/abc123", ID: "abc123"}
}

func TestAcquireFindsExpectedFile(t *testing.T) {
	t.Setenv("TITLE", "Test Video")
	dir := t.TempDir()
	a := New(fakeBinary(t, okScript), logger.NewNop(), WithTokenFunc(func() string { return "tok1" }))

	dl, err := a.Acquire(context.Background(), src(), dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "og_tok1_Test Video.m4a"), dl.TempPath)
	assert.Equal(t, "Test Video", dl.Metadata.Title())
	assert.Equal(t, "3:05", dl.Metadata.DurationString())
}

func TestAcquireFallsBackToGlob(t *testing.T) {
	// The tool wrote a differently normalised title than the metadata reports.
	t.Setenv("TITLE", "Test Video (official)")
	dir := t.TempDir()
	a := New(fakeBinary(t, okScript), logger.NewNop(), WithTokenFunc(func() string { return "tok2" }))

	dl, err := a.Acquire(context.Background(), src(), dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "og_tok2_Test Video (official).m4a"), dl.TempPath)
}

func TestAcquireIgnoresOtherTokens(t *testing.T) {
	t.Setenv("TITLE", "Renamed")
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "og_other_Test Video.m4a"), []byte("x"), 0o644))
	a := New(fakeBinary(t, okScript), logger.NewNop(), WithTokenFunc(func() string { return "mine" }))

	dl, err := a.Acquire(context.Background(), src(), dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "og_mine_Renamed.m4a"), dl.TempPath)
}

// The tool flattens path separators in the title while the metadata keeps
// them, so a joined candidate would point outside the download directory.
const traversalScript = `#!/bin/sh
out=""
while [ $# -gt 0 ]; do
  case "$1" in
    -o) out="$2"; shift 2 ;;
    *) shift ;;
  esac
done
dir=$(dirname "$out")
printf 'audio' > "$dir/og_tok3_x_.._.._victim.m4a"
echo '{"title":"x/../../victim"}'
`

func TestAcquireStaysInsideDownloadDir(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "Finance")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	victim := filepath.Join(root, "victim.m4a")
	require.NoError(t, os.WriteFile(victim, []byte("keep"), 0o644))

	a := New(fakeBinary(t, traversalScript), logger.NewNop(), WithTokenFunc(func() string { return "tok3" }))

	dl, err := a.Acquire(context.Background(), src(), dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "og_tok3_x_.._.._victim.m4a"), dl.TempPath)
	assert.FileExists(t, victim)
}

func TestContained(t *testing.T) {
	dir := filepath.Join("data", "Finance")
	assert.True(t, contained(dir, "og_a_", filepath.Join(dir, "og_a_title.m4a")))
	assert.True(t, contained(dir+"/", "og_a_", filepath.Join(dir, "og_a_title.m4a")))
	assert.False(t, contained(dir, "og_a_", filepath.Join(dir, "og_a_x", "..", "..", "victim.m4a")))
	assert.False(t, contained(dir, "og_a_", filepath.Join(dir, "og_b_title.m4a")))
	assert.False(t, contained(dir, "og_a_", filepath.Join(dir, "sub", "og_a_title.m4a")))
}

func TestAcquireFailureCarriesCommandOutput(t *testing.T) {
	a := New(fakeBinary(t, failScript), logger.NewNop())

	_, err := a.Acquire(context.Background(), src(), t.TempDir())
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrAcquisition)

	var pe *models.PipelineError
	require.ErrorAs(t, err, &pe)
	assert.Contains(t, pe.Cmd, "--audio-format m4a")
	assert.Contains(t, pe.Output, "Video unavailable")
	assert.Contains(t, err.Error(), "Command failed:")
}

func TestAcquireMissingFile(t *testing.T) {
	script := "#!/bin/sh\necho '{\"title\":\"Ghost\"}'\n"
	a := New(fakeBinary(t, script), logger.NewNop())

	_, err := a.Acquire(context.Background(), src(), t.TempDir())
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrAcquisition)
	assert.Contains(t, err.Error(), "could not find downloaded audio file")
}

func TestAcquireHonoursTimeout(t *testing.T) {
	script := "#!/bin/sh\nexec sleep 5\n"
	a := New(fakeBinary(t, script), logger.NewNop(), WithTimeout(100*time.Millisecond))

	start := time.Now()
	_, err := a.Acquire(context.Background(), src(), t.TempDir())
	require.Error(t, err)
	assert.Less(t, time.Since(start), 4*time.Second)
}

func TestLastJSONObject(t *testing.T) {
	out := []byte("noise\n{\"title\":\"first\"}\n{broken\n{\"title\":\"second\"}\n")
	m, err := lastJSONObject(out)
	require.NoError(t, err)
	assert.Equal(t, "second", m.Title())

	_, err = lastJSONObject([]byte("nothing here"))
	assert.Error(t, err)
}
