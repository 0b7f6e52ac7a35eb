// grid/parse.go
// Copyright(c) 2024-2026 gridcase contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package grid

import (
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
)

type Format int

const (
	FormatAuto Format = iota // sniff the content
	FormatRAW
	FormatMATPOWER
)

func (f Format) String() string {
	switch f {
	case FormatRAW:
		return "raw"
	case FormatMATPOWER:
		return "matpower"
	default:
		return "auto"
	}
}

// FormatForPath maps a filename onto a Format, looking through a
// trailing compression extension. Unknown extensions are an error rather
// than a guess.
func FormatForPath(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".gz" || ext == ".zst" {
		ext = strings.ToLower(filepath.Ext(strings.TrimSuffix(path, filepath.Ext(path))))
	}
	switch ext {
	case ".raw", ".rawx":
		return FormatRAW, nil
	case ".m", ".mat":
		return FormatMATPOWER, nil
	default:
		return FormatAuto, fmt.Errorf("%s: %w", path, ErrUnknownExtension)
	}
}

// ParseCase parses a power-flow case from r. With FormatAuto the content
// is sniffed: a matrix-script case always assigns to an "mpc." variable
// near the top, which no record-oriented case does.
func ParseCase(r io.Reader, format Format) (*System, error) {
	if format == FormatAuto {
		b, err := io.ReadAll(r)
		if err != nil {
			return nil, err
		}
		format = sniffFormat(b)
		if format == FormatAuto {
			return nil, ErrUnknownFormat
		}
		r = bytes.NewReader(b)
	}

	switch format {
	case FormatRAW:
		return ParseRAW(r)
	case FormatMATPOWER:
		return ParseMATPOWER(r)
	default:
		return nil, ErrUnknownFormat
	}
}

func sniffFormat(b []byte) Format {
	for i, line := range strings.Split(string(b), "\n") {
		if i > 40 {
			break
		}
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "function") || strings.HasPrefix(line, "mpc.") {
			return FormatMATPOWER
		}
		if line != "" && !strings.HasPrefix(line, "%") {
			// A record-oriented case opens with a comma-separated
			// numeric identification line.
			if toks, _ := tokenize(line); len(toks) > 0 {
				return FormatRAW
			}
		}
	}
	return FormatAuto
}

// ReadCase opens, decompresses if necessary, and parses the case file at
// path. Compression is recognized by magic bytes, the case format by the
// underlying extension.
func ReadCase(path string) (*System, error) {
	format, err := FormatForPath(path)
	if err != nil {
		return nil, err
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	r, err := decompress(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	sys, err := ParseCase(r, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return sys, nil
}

var (
	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
)

func decompress(b []byte) (io.Reader, error) {
	switch {
	case bytes.HasPrefix(b, zstdMagic):
		zr, err := zstd.NewReader(bytes.NewReader(b))
		if err != nil {
			return nil, err
		}
		return zr.IOReadCloser(), nil
	case bytes.HasPrefix(b, gzipMagic):
		return gzip.NewReader(bytes.NewReader(b))
	default:
		return bytes.NewReader(b), nil
	}
}
