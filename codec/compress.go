package codec

import (
	"bytes"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"
)

// Compression methods.
const (
	None = "none"
	Gzip = "gzip"
	Zstd = "zstd"
)

// maxExpanded bounds decompressed output.
const maxExpanded = 64 << 20

// Shrink compresses data with method and keeps the result only if it is
// strictly smaller. It returns the bytes to encode and the method applied,
// which is empty when the data was left as is.
func Shrink(data []byte, method string) ([]byte, string, error) {
	var (
		out []byte
		err error
	)
	switch method {
	case "", None:
		return data, "", nil
	case Gzip:
		out, err = gzipBytes(data)
	case Zstd:
		out, err = zstdBytes(data)
	default:
		return nil, "", errors.Wrapf(ErrUnknownCompression, "%q", method)
	}
	if err != nil {
		return nil, "", errors.Wrap(err, method)
	}
	if len(out) >= len(data) {
		return data, "", nil
	}
	return out, method, nil
}

// Expand reverses Shrink.
func Expand(data []byte, method string) ([]byte, error) {
	switch method {
	case "", None:
		return data, nil
	case Gzip:
		zr, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, errors.Wrap(err, "gunzip")
		}
		defer zr.Close()
		return readBounded(zr, "gunzip")
	case Zstd:
		zr, err := zstd.NewReader(bytes.NewReader(data),
			zstd.WithDecoderConcurrency(1),
			zstd.WithDecoderMaxMemory(maxExpanded),
		)
		if err != nil {
			return nil, errors.Wrap(err, "zstd")
		}
		defer zr.Close()
		return readBounded(zr, "zstd")
	}
	return nil, errors.Wrapf(ErrUnknownCompression, "%q", method)
}

func readBounded(r io.Reader, what string) ([]byte, error) {
	out, err := io.ReadAll(io.LimitReader(r, maxExpanded+1))
	if err != nil {
		return nil, errors.Wrap(err, what)
	}
	if len(out) > maxExpanded {
		return nil, errors.Errorf("%s: output exceeds %d bytes", what, maxExpanded)
	}
	return out, nil
}

func gzipBytes(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw, err := gzip.NewWriterLevel(&buf, gzip.BestCompression)
	if err != nil {
		return nil, err
	}
	if _, err := zw.Write(data); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func zstdBytes(data []byte) ([]byte, error) {
	zw, err := zstd.NewWriter(nil,
		zstd.WithEncoderConcurrency(1),
		zstd.WithEncoderLevel(zstd.SpeedBestCompression),
	)
	if err != nil {
		return nil, err
	}
	defer zw.Close()
	return zw.EncodeAll(data, nil), nil
}
