// Package input opens line-oriented text sources for scanning, reading
// gzip and zstd compressed files transparently.
package input

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
	gzip "github.com/klauspost/pgzip"
)

// MaxLineSize bounds a single scanned line.
const MaxLineSize = 16 * 1024 * 1024

// Open returns a reader for name. "-" and "" read stdin; names ending in
// .gz or .zst are decompressed.
func Open(name string, stdin io.Reader) (io.ReadCloser, error) {
	if name == "" || name == "-" {
		return io.NopCloser(stdin), nil
	}
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	switch {
	case strings.HasSuffix(name, ".gz"):
		zr, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, err
		}
		return &stacked{ReadCloser: zr, file: f}, nil
	case strings.HasSuffix(name, ".zst"):
		zr, err := zstd.NewReader(f)
		if err != nil {
			f.Close()
			return nil, err
		}
		return &stacked{ReadCloser: zr.IOReadCloser(), file: f}, nil
	default:
		return f, nil
	}
}

// stacked closes the decompressor and then the file beneath it.
type stacked struct {
	io.ReadCloser
	file *os.File
}

func (s *stacked) Close() error {
	err := s.ReadCloser.Close()
	if ferr := s.file.Close(); err == nil {
		err = ferr
	}
	return err
}

// Lines calls fn for every line of r with its 1-based number. It stops at
// the first error returned by fn.
func Lines(r io.Reader, fn func(n int, line string) error) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), MaxLineSize)
	n := 0
	for sc.Scan() {
		n++
		if err := fn(n, sc.Text()); err != nil {
			return err
		}
	}
	return sc.Err()
}
