// Package config manages application configuration.
package config

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"go.uber.org/zap/zapcore"

	"github.com/roboco-io/handoc/internal/model"
	"github.com/roboco-io/handoc/internal/parser"
	"github.com/roboco-io/handoc/internal/writer"
)

// Config represents the application configuration.
type Config struct {
	Log     LogConfig     `yaml:"log"`
	Parse   ParseConfig   `yaml:"parse"`
	Write   WriteConfig   `yaml:"write"`
	Builder BuilderConfig `yaml:"builder"`
}

// LogConfig controls the CLI logger.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // console, json
}

// ParseConfig contains reader options.
type ParseConfig struct {
	MaxDepth int `yaml:"max_depth"` // generic XML recursion cap
}

// WriteConfig contains HWPX writer options.
type WriteConfig struct {
	PreserveParts bool `yaml:"preserve_parts"` // rewrite over the source package
	Compress      bool `yaml:"compress"`
}

// BuilderConfig sets the defaults of documents built from scratch.
type BuilderConfig struct {
	FontFace   string `yaml:"font_face"`
	PageWidth  int    `yaml:"page_width"` // mm
	PageHeight int    `yaml:"page_height"`
}

// Environment variables that override the file.
const (
	EnvConfig   = "HANDOC_CONFIG"
	EnvLogLevel = "HANDOC_LOG_LEVEL"
	EnvMaxDepth = "HANDOC_MAX_DEPTH"
	EnvPreserve = "HANDOC_PRESERVE"
)

// Keys lists the keys accepted by Set.
var Keys = []string{
	"log.level",
	"log.format",
	"parse.max_depth",
	"write.preserve_parts",
	"write.compress",
	"builder.font_face",
	"builder.page_width",
	"builder.page_height",
}

var (
	logLevels  = []string{"debug", "info", "warn", "error"}
	logFormats = []string{"console", "json"}
)

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Log: LogConfig{
			Level:  "warn",
			Format: "console",
		},
		Parse: ParseConfig{
			MaxDepth: parser.DefaultMaxDepth,
		},
		Write: WriteConfig{
			PreserveParts: true,
			Compress:      true,
		},
		Builder: BuilderConfig{
			FontFace:   writer.DefaultFontFace,
			PageWidth:  210,
			PageHeight: 297,
		},
	}
}

// ApplyEnv overrides values from HANDOC_* environment variables. Invalid
// values are ignored.
func (c *Config) ApplyEnv() {
	if v := GetEnvOrDefault(EnvLogLevel, ""); slices.Contains(logLevels, strings.ToLower(v)) {
		c.Log.Level = strings.ToLower(v)
	}
	if n, err := strconv.Atoi(GetEnvOrDefault(EnvMaxDepth, "")); err == nil && n > 0 {
		c.Parse.MaxDepth = n
	}
	if GetEnvOrDefault(EnvPreserve, "") != "" {
		c.Write.PreserveParts = GetEnvBool(EnvPreserve)
	}
}

// Set changes one value by its dotted key.
func (c *Config) Set(key, value string) error {
	switch key {
	case "log.level":
		if !slices.Contains(logLevels, value) {
			return fmt.Errorf("유효하지 않은 로그 레벨: %s (지원: %s)", value, strings.Join(logLevels, ", "))
		}
		c.Log.Level = value
	case "log.format":
		if !slices.Contains(logFormats, value) {
			return fmt.Errorf("유효하지 않은 로그 형식: %s (지원: %s)", value, strings.Join(logFormats, ", "))
		}
		c.Log.Format = value
	case "parse.max_depth":
		n, err := positive(value)
		if err != nil {
			return err
		}
		c.Parse.MaxDepth = n
	case "write.preserve_parts", "write.compress":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("유효하지 않은 불리언 값: %s", value)
		}
		if key == "write.compress" {
			c.Write.Compress = b
		} else {
			c.Write.PreserveParts = b
		}
	case "builder.font_face":
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("글꼴 이름이 비어 있습니다")
		}
		c.Builder.FontFace = value
	case "builder.page_width", "builder.page_height":
		n, err := positive(value)
		if err != nil {
			return err
		}
		if key == "builder.page_width" {
			c.Builder.PageWidth = n
		} else {
			c.Builder.PageHeight = n
		}
	default:
		return fmt.Errorf("알 수 없는 설정 키: %s\n지원하는 키: %s", key, strings.Join(Keys, ", "))
	}
	return nil
}

func positive(value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("양의 정수가 필요합니다: %s", value)
	}
	return n, nil
}

// ZapLevel returns the configured log level.
func (c *Config) ZapLevel() zapcore.Level {
	lvl, err := zapcore.ParseLevel(c.Log.Level)
	if err != nil {
		return zapcore.WarnLevel
	}
	return lvl
}

// BuilderOptions converts the builder section to writer options.
func (c *Config) BuilderOptions() writer.BuilderOptions {
	opts := writer.DefaultBuilderOptions()
	if c.Builder.FontFace != "" {
		opts.FontFace = c.Builder.FontFace
	}
	if c.Builder.PageWidth > 0 {
		opts.PageWidth = model.MmToHWPUnit(float64(c.Builder.PageWidth))
	}
	if c.Builder.PageHeight > 0 {
		opts.PageHeight = model.MmToHWPUnit(float64(c.Builder.PageHeight))
	}
	return opts
}
