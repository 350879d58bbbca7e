package ffmpeg

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"YTM4A/internal/domain/models"
	"YTM4A/pkg/logger"
)

// The fake copies the -i input to the output, which is the argument
// immediately before -y or the last non-flag argument.
const copyScript = `#!/bin/sh
in=""; out=""; prev=""
for a in "$@"; do
  if [ "$prev" = "-i" ]; then in="$a"; fi
  case "$a" in
    -*) ;;
    *) if [ "$prev" != "-i" ] && [ "$prev" != "-b:a" ]; then out="$a"; fi ;;
  esac
  prev="$a"
done
cp "$in" "$out"
`

const failScript = `#!/bin/sh
echo "Invalid data found when processing input" >&2
exit 1
`

// partialScript writes half a file to the output and dies.
const partialScript = `#!/bin/sh
out=""; prev=""
for a in "$@"; do
  case "$a" in
    -*) ;;
    *) if [ "$prev" != "-i" ] && [ "$prev" != "-b:a" ]; then out="$a"; fi ;;
  esac
  prev="$a"
done
printf 'partial' > "$out"
exit 1
`

func fakeBinary(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script fakes need a POSIX shell")
	}
	p := filepath.Join(t.TempDir(), "ffmpeg")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o755))
	return p
}

func TestArgs(t *testing.T) {
	tr := New("ffmpeg", "64k", 0, logger.NewNop())
	args := tr.Args("/tmp/og_x_Title.m4a", "/out/250122_Title.m4a")

	assert.Subset(t, args, []string{"-i", "/tmp/og_x_Title.m4a", "-b:a", "64k", "/out/250122_Title.m4a", "-y"})
}

func TestTranscodeRemovesOriginal(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "og_tok_Test Video.m4a")
	dst := filepath.Join(dir, "250122_Test_Video.m4a")
	require.NoError(t, os.WriteFile(src, []byte("raw audio"), 0o644))

	tr := New(fakeBinary(t, copyScript), "64k", 0, logger.NewNop())
	require.NoError(t, tr.Transcode(context.Background(), src, dst))

	assert.FileExists(t, dst)
	assert.NoFileExists(t, src)
}

func TestTranscodeFailureKeepsOriginal(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "og_tok_Test Video.m4a")
	dst := filepath.Join(dir, "250122_Test_Video.m4a")
	require.NoError(t, os.WriteFile(src, []byte("raw audio"), 0o644))

	tr := New(fakeBinary(t, failScript), "64k", 0, logger.NewNop())
	err := tr.Transcode(context.Background(), src, dst)
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrTranscode)
	assert.Contains(t, err.Error(), "Invalid data found")

	assert.FileExists(t, src)
	assert.NoFileExists(t, dst)
}

func TestTranscodeFailureRemovesPartialOutput(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "og_tok_Test Video.m4a")
	dst := filepath.Join(dir, "250122_Test_Video.m4a")
	require.NoError(t, os.WriteFile(src, []byte("raw audio"), 0o644))

	tr := New(fakeBinary(t, partialScript), "64k", 0, logger.NewNop())
	err := tr.Transcode(context.Background(), src, dst)
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrTranscode)

	assert.FileExists(t, src)
	assert.NoFileExists(t, dst)
}

func TestTranscodeMissingOutputIsFailure(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "og.m4a")
	require.NoError(t, os.WriteFile(src, []byte("raw"), 0o644))

	tr := New(fakeBinary(t, "#!/bin/sh\nexit 0\n"), "64k", 0, logger.NewNop())
	err := tr.Transcode(context.Background(), src, filepath.Join(dir, "out.m4a"))
	assert.ErrorIs(t, err, models.ErrTranscode)
	assert.FileExists(t, src)
}
