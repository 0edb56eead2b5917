package cli

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/roboco-io/handoc/internal/bridge"
	"github.com/roboco-io/handoc/internal/ir"
	"github.com/roboco-io/handoc/internal/parser"
	"github.com/roboco-io/handoc/internal/parser/hwp5"
)

var (
	convertOutput      string
	convertTo          string
	convertFrontMatter bool
	convertExtractImgs bool
	convertImagesDir   string
	convertQuiet       bool
)

var convertCmd = &cobra.Command{
	Use:   "convert <file>",
	Short: "HWP/HWPX 문서를 Markdown 또는 HWPX로 변환",
	Long: `HWP/HWPX 문서를 Markdown 또는 HWPX로 변환합니다.

출력 형식은 --to 플래그로 지정합니다. 지정하지 않으면 출력 파일의
확장자가 .hwpx일 때 HWPX, 그 밖에는 Markdown으로 변환합니다.

HWP 5.x 문서를 HWPX로 변환하면 문단마다 대표 서식 하나만 남습니다.

예시:
  handoc convert document.hwpx
  handoc convert document.hwpx -o output.md --front-matter
  handoc convert document.hwp -o document.hwpx
  handoc convert document.hwpx --extract-images --images-dir ./images`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().StringVarP(&convertOutput, "output", "o", "", "출력 파일 경로 (기본: stdout, HWPX는 입력 이름.hwpx)")
	convertCmd.Flags().StringVar(&convertTo, "to", "", "출력 형식 (markdown, hwpx)")
	convertCmd.Flags().BoolVar(&convertFrontMatter, "front-matter", false, "Markdown 앞에 YAML 메타데이터 추가")
	convertCmd.Flags().BoolVar(&convertExtractImgs, "extract-images", false, "이미지 추출 활성화")
	convertCmd.Flags().StringVar(&convertImagesDir, "images-dir", "./images", "추출된 이미지 저장 디렉토리")
	convertCmd.Flags().BoolVarP(&convertQuiet, "quiet", "q", false, "조용한 모드")

	rootCmd.AddCommand(convertCmd)
}

// targetFormat resolves --to, falling back to the output extension.
func targetFormat(to, output string) (string, error) {
	switch strings.ToLower(to) {
	case "md", "markdown":
		return "markdown", nil
	case "hwpx":
		return "hwpx", nil
	case "":
		if strings.EqualFold(filepath.Ext(output), ".hwpx") {
			return "hwpx", nil
		}
		return "markdown", nil
	default:
		return "", fmt.Errorf("지원하지 않는 출력 형식: %s (지원: markdown, hwpx)", to)
	}
}

func runConvert(cmd *cobra.Command, args []string) error {
	inputPath := args[0]

	target, err := targetFormat(convertTo, convertOutput)
	if err != nil {
		return err
	}

	src, err := openDocument(inputPath)
	if err != nil {
		return err
	}
	if verbose && !convertQuiet {
		fmt.Fprintf(cmd.ErrOrStderr(), "입력 파일: %s\n", inputPath)
		fmt.Fprintf(cmd.ErrOrStderr(), "파일 형식: %s\n", src.format)
	}

	if target == "hwpx" {
		err = convertToHwpx(cmd, inputPath, src)
	} else {
		err = convertToMarkdown(cmd, src)
	}
	if err != nil {
		return err
	}
	if !convertQuiet {
		reportWarnings(cmd, src.warnings)
	}
	return nil
}

func convertToMarkdown(cmd *cobra.Command, src *source) error {
	opts := ir.Options{Logger: logger}
	if convertExtractImgs {
		opts.ImageDir = filepath.ToSlash(convertImagesDir)
	}
	doc, err := ir.FromDocument(src.doc, opts)
	if err != nil {
		return fmt.Errorf("문서 파싱 실패: %w", err)
	}
	if verbose && !convertQuiet {
		fmt.Fprintf(cmd.ErrOrStderr(), "파싱 완료: %d 블록\n", len(doc.Content))
	}

	markdown, err := ir.RenderMarkdown(doc, ir.RenderOptions{FrontMatter: convertFrontMatter})
	if err != nil {
		return fmt.Errorf("Markdown 생성 실패: %w", err)
	}

	if convertExtractImgs {
		n, err := saveImages(src, convertImagesDir)
		if err != nil {
			return err
		}
		if !convertQuiet && n > 0 {
			fmt.Fprintf(cmd.ErrOrStderr(), "이미지 %d개 저장: %s\n", n, convertImagesDir)
		}
	}

	if err := writeOutput(cmd, convertOutput, []byte(markdown)); err != nil {
		return err
	}
	if convertOutput != "" && !convertQuiet {
		fmt.Fprintf(cmd.ErrOrStderr(), "변환 완료: %s\n", convertOutput)
	}
	return nil
}

// saveImages writes every BinData image of src into dir under its file name.
func saveImages(src *source, dir string) (int, error) {
	images := src.doc.Images()
	if len(images) == 0 {
		return 0, nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return 0, fmt.Errorf("이미지 디렉토리 생성 실패: %w", err)
	}
	for _, im := range images {
		name := filepath.Join(dir, path.Base(im.Path))
		if err := os.WriteFile(name, im.Data(), 0644); err != nil {
			return 0, fmt.Errorf("이미지 저장 실패: %w", err)
		}
		logger.Debug("image saved", zap.String("part", im.Path), zap.String("file", name))
	}
	return len(images), nil
}

func convertToHwpx(cmd *cobra.Command, inputPath string, src *source) error {
	output := convertOutput
	if output == "" {
		output = strings.TrimSuffix(inputPath, filepath.Ext(inputPath)) + ".hwpx"
	}
	if filepath.Clean(output) == filepath.Clean(inputPath) {
		return fmt.Errorf("입력 파일을 덮어쓸 수 없습니다: %s", inputPath)
	}

	var (
		data []byte
		err  error
	)
	if src.format == parser.FormatHWP {
		data, err = hwpToHwpx(src)
	} else {
		data, err = rewrite(src)
	}
	if err != nil {
		return err
	}
	if err := os.WriteFile(output, data, 0644); err != nil {
		return fmt.Errorf("파일 저장 실패: %w", err)
	}
	if !convertQuiet {
		fmt.Fprintf(cmd.ErrOrStderr(), "변환 완료: %s\n", output)
	}
	return nil
}

// hwpToHwpx converts the raw HWP bytes again with the configured builder
// defaults instead of the ones the document was opened with.
func hwpToHwpx(src *source) ([]byte, error) {
	doc, err := hwp5.OpenBytes(src.data, parser.Options{
		Logger:   logger,
		Warnings: src.warnings,
		MaxDepth: cfg.Parse.MaxDepth,
	})
	if err != nil {
		return nil, fmt.Errorf("HWP 문서 열기 실패: %w", err)
	}
	data, err := bridge.ToHwpx(doc, bridge.Options{
		Logger:      logger,
		Warnings:    src.warnings,
		Builder:     cfg.BuilderOptions(),
		KeepBinData: true,
		Store:       !cfg.Write.Compress,
	})
	if err != nil {
		return nil, fmt.Errorf("HWPX 변환 실패: %w", err)
	}
	return data, nil
}
