package policy

import (
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/gzip"

	"github.com/jittakal/logarchive/internal/errors"
	"github.com/jittakal/logarchive/pkg/archive"
)

// gzipLevel maps a compression level to a gzip level.
func gzipLevel(level archive.CompressionLevel) int {
	switch level {
	case archive.CompressionFastest:
		return gzip.BestSpeed
	case archive.CompressionSmallestSize:
		return gzip.BestCompression
	default:
		return gzip.DefaultCompression
	}
}

// transfer copies src to dst, compressing when level is enabled. An existing
// dst is overwritten. A partially written dst is removed on failure.
func transfer(src, dst string, info os.FileInfo, level archive.CompressionLevel) (read, written int64, err error) {
	in, err := os.Open(src)
	if err != nil {
		return 0, 0, &errors.TransferError{Operation: "open", Path: src, Err: err}
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return 0, 0, &errors.TransferError{Operation: "create", Path: dst, Err: err}
	}

	counter := &countingWriter{w: out}
	defer func() {
		if closeErr := out.Close(); closeErr != nil && err == nil {
			err = &errors.TransferError{Operation: "close", Path: dst, Err: closeErr}
		}
		if err != nil {
			os.Remove(dst)
		}
	}()

	if !level.Enabled() {
		read, err = io.Copy(counter, in)
		if err != nil {
			return read, counter.n, &errors.TransferError{Operation: "copy", Path: src, Err: err}
		}
		return read, counter.n, nil
	}

	zw, err := gzip.NewWriterLevel(counter, gzipLevel(level))
	if err != nil {
		return 0, 0, &errors.TransferError{Operation: "compress", Path: src, Err: err}
	}
	zw.Name = filepath.Base(src)
	zw.ModTime = info.ModTime()

	read, err = io.Copy(zw, in)
	if err != nil {
		zw.Close()
		return read, counter.n, &errors.TransferError{Operation: "compress", Path: src, Err: err}
	}
	if err = zw.Close(); err != nil {
		return read, counter.n, &errors.TransferError{Operation: "compress", Path: src, Err: err}
	}

	return read, counter.n, nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
