package input

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/zstd"
	gzip "github.com/klauspost/pgzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = "first 10.1000/182\nsecond line\nthird doi:10/abcd\n"

func collect(t *testing.T, name string, stdin string) []string {
	t.Helper()
	r, err := Open(name, strings.NewReader(stdin))
	require.NoError(t, err)
	defer r.Close()
	var lines []string
	require.NoError(t, Lines(r, func(n int, line string) error {
		assert.Equal(t, len(lines)+1, n)
		lines = append(lines, line)
		return nil
	}))
	return lines
}

func TestOpenPlainAndStdin(t *testing.T) {
	p := filepath.Join(t.TempDir(), "refs.txt")
	require.NoError(t, os.WriteFile(p, []byte(sample), 0o644))

	assert.Len(t, collect(t, p, ""), 3)
	assert.Equal(t, []string{"a", "b"}, collect(t, "-", "a\nb"))
	assert.Equal(t, []string{"x"}, collect(t, "", "x\n"))
}

func TestOpenGzip(t *testing.T) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write([]byte(sample))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	p := filepath.Join(t.TempDir(), "refs.txt.gz")
	require.NoError(t, os.WriteFile(p, buf.Bytes(), 0o644))
	lines := collect(t, p, "")
	require.Len(t, lines, 3)
	assert.Equal(t, "third doi:10/abcd", lines[2])
}

func TestOpenZstd(t *testing.T) {
	zw, err := zstd.NewWriter(nil)
	require.NoError(t, err)
	data := zw.EncodeAll([]byte(sample), nil)
	require.NoError(t, zw.Close())

	p := filepath.Join(t.TempDir(), "refs.txt.zst")
	require.NoError(t, os.WriteFile(p, data, 0o644))
	assert.Len(t, collect(t, p, ""), 3)
}

func TestOpenErrors(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.txt"), nil)
	assert.Error(t, err)

	p := filepath.Join(t.TempDir(), "broken.gz")
	require.NoError(t, os.WriteFile(p, []byte("not gzip"), 0o644))
	_, err = Open(p, nil)
	assert.Error(t, err)
}

func TestLinesStopsOnError(t *testing.T) {
	stop := errors.New("stop")
	calls := 0
	err := Lines(strings.NewReader(sample), func(n int, line string) error {
		calls++
		return stop
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 1, calls)
}
