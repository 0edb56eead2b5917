// Package cli implements the handoc command line.
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/roboco-io/handoc/internal/config"
	"github.com/roboco-io/handoc/internal/handoc"
	"github.com/roboco-io/handoc/internal/model"
	"github.com/roboco-io/handoc/internal/parser"
)

var version = "dev"

var (
	configPath string
	logLevel   string
	verbose    bool
)

// Settings resolved before every command.
var (
	cfg    = config.DefaultConfig()
	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "handoc",
	Short: "HWP/HWPX 문서 읽기·쓰기 도구",
	Long: `handoc은 한글(HWP 5.x, HWPX) 문서를 읽고 HWPX로 씁니다.

HWP 5.x 문서는 읽기 전용이며 HWPX로 변환할 수 있습니다.
HWPX 문서는 원본 부품을 보존한 채 다시 쓸 수 있습니다.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadSettings,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "버전 정보 표시",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "handoc %s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "설정 파일 경로 (기본: ~/.handoc/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "로그 레벨 (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "상세 출력 (경고 목록 포함)")

	rootCmd.AddCommand(versionCmd)
}

// SetVersion sets the version string reported by the version command.
func SetVersion(v string) {
	version = v
}

// Execute runs the root command.
func Execute() error {
	defer func() { _ = logger.Sync() }()
	return rootCmd.Execute()
}

func newLoader() (*config.Loader, error) {
	if configPath != "" {
		return config.NewLoaderWithPath(configPath), nil
	}
	return config.NewLoader()
}

// loadSettings reads the config file and builds the logger. Flags win over
// the file and the HANDOC_* variables.
func loadSettings(cmd *cobra.Command, args []string) error {
	loader, err := newLoader()
	if err != nil {
		return fmt.Errorf("설정 로더 초기화 실패: %w", err)
	}
	loaded, err := loader.Load()
	if err != nil {
		return fmt.Errorf("설정 로드 실패: %w", err)
	}
	cfg = loaded

	if logLevel != "" {
		if err := cfg.Set("log.level", logLevel); err != nil {
			return err
		}
	} else if verbose && cfg.ZapLevel() > zapcore.InfoLevel {
		cfg.Log.Level = "info"
	}

	logger, err = newLogger(cfg.ZapLevel(), cfg.Log.Format)
	if err != nil {
		return fmt.Errorf("로거 초기화 실패: %w", err)
	}
	return nil
}

// newLogger builds a stderr logger, console or JSON encoded.
func newLogger(level zapcore.Level, format string) (*zap.Logger, error) {
	zcfg := zap.NewDevelopmentConfig()
	if format == "json" {
		zcfg = zap.NewProductionConfig()
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)
	zcfg.OutputPaths = []string{"stderr"}
	zcfg.ErrorOutputPaths = []string{"stderr"}
	zcfg.DisableStacktrace = true
	return zcfg.Build()
}

// source is an opened input file.
type source struct {
	doc      *handoc.Document
	data     []byte
	format   parser.Format
	warnings *model.WarningCollector
}

// openDocument opens an HWP or HWPX file with the configured options.
func openDocument(path string) (*source, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("파일을 찾을 수 없습니다: %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("파일 읽기 실패: %w", err)
	}
	format := parser.DetectFormatFromBytes(data)
	if format == parser.FormatUnknown {
		return nil, fmt.Errorf("지원하지 않는 파일 형식입니다: %s", filepath.Ext(path))
	}

	warnings := model.NewWarningCollector(logger)
	doc, err := handoc.OpenAny(data, handoc.Options{
		Logger:   logger,
		Warnings: warnings,
		MaxDepth: cfg.Parse.MaxDepth,
	})
	if err != nil {
		return nil, fmt.Errorf("문서 열기 실패: %w", err)
	}
	logger.Debug("document opened", zap.String("path", path), zap.Stringer("format", format))
	return &source{doc: doc, data: data, format: format, warnings: warnings}, nil
}

// reportWarnings prints the warning count, and each warning with --verbose.
func reportWarnings(cmd *cobra.Command, warnings *model.WarningCollector) {
	n := warnings.Count()
	if n == 0 {
		return
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "경고 %d건\n", n)
	if !verbose {
		return
	}
	for _, w := range warnings.Warnings() {
		fmt.Fprintf(cmd.ErrOrStderr(), "  [%s] %s %s: %s\n", w.Severity, w.Code, w.Path, w.Message)
	}
}

// writeOutput writes data to path, or to stdout when path is empty.
func writeOutput(cmd *cobra.Command, path string, data []byte) error {
	if path == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("파일 저장 실패: %w", err)
	}
	return nil
}
