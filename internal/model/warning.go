package model

import (
	"sync"

	"go.uber.org/zap"
)

// Severity grades a data-quality warning.
type Severity string

const (
	SeverityInfo  Severity = "info"
	SeverityWarn  Severity = "warn"
	SeverityError Severity = "error"
)

// Warning codes recorded by the codecs.
const (
	WarnRecordTruncated = "HWP_RECORD_TRUNCATED"
	WarnShortRecord     = "HWP_SHORT_RECORD"
	WarnDecompress      = "HWP_DECOMPRESS"
	WarnUnsupportedTag  = "HWP_UNSUPPORTED_TAG"
	WarnDepthLimit      = "XML_DEPTH_LIMIT"
	WarnSectionParse    = "HWPX_SECTION_PARSE"
	WarnMissingPart     = "HWPX_MISSING_PART"
	WarnSubElement      = "HWPX_SUB_ELEMENT"
	WarnInvalidRef      = "HWPX_INVALID_REF"
)

// Warning is a non-fatal degradation absorbed during decoding.
type Warning struct {
	Code     string   `json:"code"`
	Message  string   `json:"message"`
	Path     string   `json:"path,omitempty"`
	Severity Severity `json:"severity"`
}

// WarningCollector accumulates warnings. A nil collector discards them, so
// codecs can call Add unconditionally.
type WarningCollector struct {
	mu       sync.Mutex
	warnings []Warning
	log      *zap.Logger
}

// NewWarningCollector creates a collector that also logs each warning at
// debug level when log is non-nil.
func NewWarningCollector(log *zap.Logger) *WarningCollector {
	if log == nil {
		log = zap.NewNop()
	}
	return &WarningCollector{log: log}
}

// Add records a warning.
func (w *WarningCollector) Add(code, message, path string, sev Severity) {
	if w == nil {
		return
	}
	if sev == "" {
		sev = SeverityWarn
	}
	w.mu.Lock()
	w.warnings = append(w.warnings, Warning{Code: code, Message: message, Path: path, Severity: sev})
	w.mu.Unlock()
	if w.log != nil {
		w.log.Debug("codec warning",
			zap.String("code", code),
			zap.String("path", path),
			zap.String("severity", string(sev)),
			zap.String("message", message))
	}
}

// Warnings returns a copy of the recorded warnings.
func (w *WarningCollector) Warnings() []Warning {
	if w == nil {
		return nil
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]Warning, len(w.warnings))
	copy(out, w.warnings)
	return out
}

// Count returns the number of recorded warnings.
func (w *WarningCollector) Count() int {
	if w == nil {
		return 0
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.warnings)
}

// HasCode reports whether any warning with code was recorded.
func (w *WarningCollector) HasCode(code string) bool {
	for _, x := range w.Warnings() {
		if x.Code == code {
			return true
		}
	}
	return false
}
