// Package parser holds what the HWP and HWPX readers share: format
// detection and parse options.
package parser

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/roboco-io/handoc/internal/model"
)

// Format represents a document format.
type Format int

const (
	FormatUnknown Format = iota
	FormatHWPX
	FormatHWP // HWP 5.x binary format
)

// String returns the string representation of the format.
func (f Format) String() string {
	switch f {
	case FormatHWPX:
		return "hwpx"
	case FormatHWP:
		return "hwp"
	default:
		return "unknown"
	}
}

// DetectFormat detects the document format from the file path.
func DetectFormat(path string) Format {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".hwpx":
		return FormatHWPX
	case ".hwp", ".hwp5":
		return FormatHWP
	default:
		return FormatUnknown
	}
}

var cfbMagic = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}

// DetectFormatFromBytes detects the format from magic bytes.
func DetectFormatFromBytes(buf []byte) Format {
	switch {
	case len(buf) >= 4 && bytes.Equal(buf[:4], []byte("PK\x03\x04")):
		return FormatHWPX
	case len(buf) >= 8 && bytes.Equal(buf[:8], cfbMagic):
		return FormatHWP
	default:
		return FormatUnknown
	}
}

// DetectFormatFromReader detects the format by reading magic bytes.
func DetectFormatFromReader(r io.ReaderAt) (Format, error) {
	buf := make([]byte, 8)
	n, err := r.ReadAt(buf, 0)
	if err != nil && err != io.EOF {
		return FormatUnknown, fmt.Errorf("failed to read magic bytes: %w", err)
	}
	if n < 4 {
		return FormatUnknown, fmt.Errorf("file too small to detect format")
	}
	return DetectFormatFromBytes(buf[:n]), nil
}

// DefaultMaxDepth caps generic XML recursion.
const DefaultMaxDepth = 50

// Options contains parser configuration options.
type Options struct {
	Logger   *zap.Logger             // nil means zap.NewNop()
	Warnings *model.WarningCollector // nil discards warnings
	MaxDepth int                     // 0 means DefaultMaxDepth
}

// DefaultOptions returns default parser options.
func DefaultOptions() Options {
	return Options{
		Logger:   zap.NewNop(),
		MaxDepth: DefaultMaxDepth,
	}
}

// Normalize fills zero values with defaults.
func (o Options) Normalize() Options {
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	if o.MaxDepth <= 0 {
		o.MaxDepth = DefaultMaxDepth
	}
	return o
}
