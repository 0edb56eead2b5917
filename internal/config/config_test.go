package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap/zapcore"

	"github.com/roboco-io/handoc/internal/model"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Log.Level != "warn" || cfg.Log.Format != "console" {
		t.Errorf("log = %+v", cfg.Log)
	}
	if cfg.Parse.MaxDepth != 50 {
		t.Errorf("expected max depth 50, got %d", cfg.Parse.MaxDepth)
	}
	if !cfg.Write.PreserveParts || !cfg.Write.Compress {
		t.Errorf("write = %+v", cfg.Write)
	}
	if cfg.Builder.PageWidth != 210 || cfg.Builder.PageHeight != 297 {
		t.Errorf("builder page = %dx%d", cfg.Builder.PageWidth, cfg.Builder.PageHeight)
	}
}

func TestConfig_Set(t *testing.T) {
	tests := []struct {
		key     string
		value   string
		wantErr bool
		check   func(*Config) bool
	}{
		{"log.level", "debug", false, func(c *Config) bool { return c.Log.Level == "debug" }},
		{"log.level", "verbose", true, nil},
		{"log.format", "json", false, func(c *Config) bool { return c.Log.Format == "json" }},
		{"parse.max_depth", "80", false, func(c *Config) bool { return c.Parse.MaxDepth == 80 }},
		{"parse.max_depth", "-1", true, nil},
		{"write.preserve_parts", "false", false, func(c *Config) bool { return !c.Write.PreserveParts }},
		{"write.compress", "0", false, func(c *Config) bool { return !c.Write.Compress }},
		{"write.compress", "maybe", true, nil},
		{"builder.font_face", "바탕", false, func(c *Config) bool { return c.Builder.FontFace == "바탕" }},
		{"builder.font_face", " ", true, nil},
		{"builder.page_width", "297", false, func(c *Config) bool { return c.Builder.PageWidth == 297 }},
		{"builder.page_height", "abc", true, nil},
		{"format.language", "ko", true, nil},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			cfg := DefaultConfig()
			err := cfg.Set(tt.key, tt.value)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Set() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.check != nil && !tt.check(cfg) {
				t.Errorf("Set(%s, %s) not applied: %+v", tt.key, tt.value, cfg)
			}
		})
	}
}

func TestConfig_ApplyEnv(t *testing.T) {
	t.Setenv(EnvLogLevel, "DEBUG")
	t.Setenv(EnvMaxDepth, "12")
	t.Setenv(EnvPreserve, "no")

	cfg := DefaultConfig()
	cfg.ApplyEnv()

	if cfg.Log.Level != "debug" || cfg.Parse.MaxDepth != 12 || cfg.Write.PreserveParts {
		t.Errorf("config after env = %+v", cfg)
	}
}

func TestConfig_ApplyEnv_Invalid(t *testing.T) {
	t.Setenv(EnvLogLevel, "loud")
	t.Setenv(EnvMaxDepth, "zero")

	cfg := DefaultConfig()
	cfg.ApplyEnv()

	if diff := cmp.Diff(DefaultConfig(), cfg); diff != "" {
		t.Errorf("invalid env changed config (-want +got):\n%s", diff)
	}
}

func TestConfig_ZapLevel(t *testing.T) {
	cfg := DefaultConfig()
	if got := cfg.ZapLevel(); got != zapcore.WarnLevel {
		t.Errorf("default level = %v", got)
	}
	cfg.Log.Level = "error"
	if got := cfg.ZapLevel(); got != zapcore.ErrorLevel {
		t.Errorf("level = %v, want error", got)
	}
	cfg.Log.Level = "nonsense"
	if got := cfg.ZapLevel(); got != zapcore.WarnLevel {
		t.Errorf("invalid level = %v, want warn", got)
	}
}

func TestConfig_BuilderOptions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Builder = BuilderConfig{FontFace: "굴림", PageWidth: 297, PageHeight: 210}

	opts := cfg.BuilderOptions()
	if opts.FontFace != "굴림" {
		t.Errorf("font = %s", opts.FontFace)
	}
	if opts.PageWidth != model.MmToHWPUnit(297) || opts.PageHeight != model.MmToHWPUnit(210) {
		t.Errorf("page = %dx%d", opts.PageWidth, opts.PageHeight)
	}
}

func TestLoader_SaveAndLoad(t *testing.T) {
	// Create temp directory
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	loader := NewLoaderWithPath(configPath)

	cfg := DefaultConfig()
	cfg.Log.Level = "info"
	cfg.Builder.FontFace = "함초롬바탕"

	if err := loader.Save(cfg); err != nil {
		t.Fatalf("failed to save config: %v", err)
	}

	// Verify file exists
	if !loader.Exists() {
		t.Error("expected config file to exist after save")
	}

	loaded, err := loader.LoadRaw()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if diff := cmp.Diff(cfg, loaded); diff != "" {
		t.Errorf("config mismatch (-saved +loaded):\n%s", diff)
	}
}

func TestLoader_LoadNonExistent(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "nonexistent", "config.yaml")

	loader := NewLoaderWithPath(configPath)

	// Should return default config when file doesn't exist
	cfg, err := loader.Load()
	if err != nil {
		t.Fatalf("expected no error for non-existent file, got: %v", err)
	}
	if diff := cmp.Diff(DefaultConfig(), cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoader_PartialFileKeepsDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("log:\n  level: error\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := NewLoaderWithPath(configPath).LoadRaw()
	if err != nil {
		t.Fatal(err)
	}
	want := DefaultConfig()
	want.Log.Level = "error"
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoader_ExpandEnvVars(t *testing.T) {
	t.Setenv("TEST_FONT_FACE", "나눔고딕")

	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	// Write config with env var reference
	content := `builder:
  font_face: ${TEST_FONT_FACE}
  page_width: 210
  page_height: 297
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	loader := NewLoaderWithPath(configPath)
	cfg, err := loader.Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.Builder.FontFace != "나눔고딕" {
		t.Errorf("expected font '나눔고딕', got %s", cfg.Builder.FontFace)
	}

	raw, err := loader.LoadRaw()
	if err != nil {
		t.Fatal(err)
	}
	if raw.Builder.FontFace != "${TEST_FONT_FACE}" {
		t.Errorf("LoadRaw() expanded the reference: %s", raw.Builder.FontFace)
	}
}

func TestLoader_EnvOverridesFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("parse:\n  max_depth: 30\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvMaxDepth, "7")

	cfg, err := NewLoaderWithPath(configPath).Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Parse.MaxDepth != 7 {
		t.Errorf("max depth = %d, want 7", cfg.Parse.MaxDepth)
	}
}

func TestGetEnvOrDefault(t *testing.T) {
	t.Setenv("TEST_VAR", "test-value")

	if v := GetEnvOrDefault("TEST_VAR", "default"); v != "test-value" {
		t.Errorf("expected 'test-value', got %s", v)
	}

	if v := GetEnvOrDefault("NONEXISTENT_VAR", "default"); v != "default" {
		t.Errorf("expected 'default', got %s", v)
	}
}

func TestGetEnvBool(t *testing.T) {
	tests := []struct {
		value    string
		expected bool
	}{
		{"true", true},
		{"TRUE", true},
		{"True", true},
		{"1", true},
		{"yes", true},
		{"YES", true},
		{"false", false},
		{"FALSE", false},
		{"0", false},
		{"no", false},
		{"", false},
		{"invalid", false},
	}

	for _, tc := range tests {
		t.Setenv("TEST_BOOL", tc.value)
		got := GetEnvBool("TEST_BOOL")
		if got != tc.expected {
			t.Errorf("GetEnvBool(%q): expected %v, got %v", tc.value, tc.expected, got)
		}
	}
}

func TestNewLoader(t *testing.T) {
	t.Setenv(EnvConfig, "")
	loader, err := NewLoader()
	if err != nil {
		t.Fatalf("failed to create loader: %v", err)
	}

	path := loader.ConfigPath()
	if filepath.Base(path) != ConfigFileName {
		t.Errorf("expected config file name %s, got %s", ConfigFileName, filepath.Base(path))
	}
	if filepath.Base(filepath.Dir(path)) != ConfigDirName {
		t.Errorf("expected config dir %s, got %s", ConfigDirName, filepath.Dir(path))
	}
}

func TestNewLoader_EnvPath(t *testing.T) {
	want := filepath.Join(t.TempDir(), "custom.yaml")
	t.Setenv(EnvConfig, want)

	loader, err := NewLoader()
	if err != nil {
		t.Fatal(err)
	}
	if loader.ConfigPath() != want {
		t.Errorf("ConfigPath() = %s, want %s", loader.ConfigPath(), want)
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("HANDOC_TEST_SET", "값")
	t.Setenv("HANDOC_TEST_EMPTY", "")

	tests := []struct {
		in   string
		want string
	}{
		{"a: ${HANDOC_TEST_SET}", "a: 값"},
		{"a: ${HANDOC_TEST_SET:-기본}", "a: 값"},
		{"a: ${HANDOC_TEST_EMPTY:-기본}", "a: 기본"},
		{"a: ${HANDOC_TEST_UNSET_X}", "a: "},
		{"a: $HANDOC_TEST_SET", "a: $HANDOC_TEST_SET"},
	}
	for _, tt := range tests {
		if got := expandEnvVars(tt.in); got != tt.want {
			t.Errorf("expandEnvVars(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLoader_SaveWritesHeader(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := NewLoaderWithPath(configPath).Save(DefaultConfig()); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "# handoc 설정 파일\n") {
		t.Errorf("config file does not start with the header:\n%s", data)
	}
	if !strings.Contains(string(data), "\n  level: warn\n") {
		t.Errorf("expected two-space indentation:\n%s", data)
	}
}

func TestLoader_ExistsDirectory(t *testing.T) {
	if NewLoaderWithPath(t.TempDir()).Exists() {
		t.Error("a directory is not a config file")
	}
}

func TestLoader_Init(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	loader := NewLoaderWithPath(configPath)

	// Init should create file
	if err := loader.Init(); err != nil {
		t.Fatalf("failed to init config: %v", err)
	}

	if !loader.Exists() {
		t.Error("expected config file to exist after init")
	}

	// Init again should fail
	if err := loader.Init(); err == nil {
		t.Error("expected error when initializing existing config")
	}
}

func TestLoader_LoadInvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	// Write invalid YAML
	invalidYAML := "{{{{invalid yaml"
	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	loader := NewLoaderWithPath(configPath)
	if _, err := loader.Load(); err == nil {
		t.Error("expected error for invalid YAML")
	}
}
