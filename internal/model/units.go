package model

import (
	"math"
	"strconv"
	"strings"
)

// HWPUNIT is 1/7200 inch.
const HWPUnitPerInch = 7200

// A4 page size in HWPUNIT as written by the builder.
const (
	A4WidthHU  = 59528
	A4HeightHU = 84188
)

// MmToHWP is the builder's millimetre → HWPUNIT factor.
const MmToHWP = 283.46

// HWPUnitToMm converts HWPUNIT to millimetres.
func HWPUnitToMm(v int) float64 {
	return float64(v) * 25.4 / HWPUnitPerInch
}

// MmToHWPUnit converts millimetres to HWPUNIT, rounded.
func MmToHWPUnit(mm float64) int {
	return int(math.Round(mm * HWPUnitPerInch / 25.4))
}

// HWPUnitToPt converts HWPUNIT to points.
func HWPUnitToPt(v int) float64 {
	return float64(v) / 100
}

// FontHeightToPt converts a charPr height (1/100 pt) to points.
func FontHeightToPt(height int) float64 {
	return float64(height) / 100
}

// ParseBool accepts "1" and case-insensitive "true".
func ParseBool(s string) bool {
	return s == "1" || strings.EqualFold(s, "true")
}

// FormatBool renders a flag the way HWPX writes it.
func FormatBool(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

// ParseIntDefault parses a decimal integer, returning def on empty or
// malformed input.
func ParseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return def
	}
	return n
}

// ParseIntPtr parses s when present, nil otherwise.
func ParseIntPtr(s string, ok bool) *int {
	if !ok {
		return nil
	}
	n := ParseIntDefault(s, 0)
	return &n
}
