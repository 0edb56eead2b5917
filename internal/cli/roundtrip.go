package cli

import (
	"fmt"
	"os"
	"slices"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/roboco-io/handoc/internal/handoc"
	"github.com/roboco-io/handoc/internal/parser"
	"github.com/roboco-io/handoc/internal/writer"
)

var roundtripOutput string

var roundtripCmd = &cobra.Command{
	Use:   "roundtrip <file.hwpx>",
	Short: "HWPX 문서를 읽고 다시 써서 보존 여부 확인",
	Long: `HWPX 문서를 파싱한 뒤 다시 쓰고, 결과를 원본과 비교합니다.

write.preserve_parts가 켜져 있으면 헤더와 섹션을 제외한 부품은
원본 바이트를 그대로 유지합니다. 부품별 BLAKE3 다이제스트로
바뀐 부품을 표시하고, 추출한 텍스트가 다르면 오류로 끝납니다.

예시:
  handoc roundtrip document.hwpx -o copy.hwpx`,
	Args: cobra.ExactArgs(1),
	RunE: runRoundtrip,
}

func init() {
	roundtripCmd.Flags().StringVarP(&roundtripOutput, "output", "o", "", "출력 파일 경로 (필수)")
	_ = roundtripCmd.MarkFlagRequired("output")

	rootCmd.AddCommand(roundtripCmd)
}

// rewrite serializes the parsed model of an HWPX source again.
func rewrite(src *source) ([]byte, error) {
	header, err := src.doc.Header()
	if err != nil {
		return nil, fmt.Errorf("헤더 읽기 실패: %w", err)
	}
	input := writer.Input{
		Header:   header,
		Sections: src.doc.Sections(),
		Metadata: src.doc.Package().Metadata(),
	}
	opts := writer.Options{
		Logger:   logger,
		Warnings: src.warnings,
		Store:    !cfg.Write.Compress,
	}
	if cfg.Write.PreserveParts {
		opts.Original = src.doc.Package()
	} else {
		input.ExtraParts = lo.Map(src.doc.Images(), func(im handoc.Image, _ int) writer.Part {
			return writer.Part{Name: im.Path, Data: im.Data()}
		})
	}
	data, err := writer.WriteHwpx(input, opts)
	if err != nil {
		return nil, fmt.Errorf("HWPX 쓰기 실패: %w", err)
	}
	return data, nil
}

// partChanges compares the part digests of two packages.
type partChanges struct {
	Changed []string
	Added   []string
	Removed []string
}

func diffParts(before, after map[string]string) partChanges {
	var c partChanges
	for name, sum := range after {
		prev, ok := before[name]
		switch {
		case !ok:
			c.Added = append(c.Added, name)
		case prev != sum:
			c.Changed = append(c.Changed, name)
		}
	}
	for name := range before {
		if _, ok := after[name]; !ok {
			c.Removed = append(c.Removed, name)
		}
	}
	slices.Sort(c.Changed)
	slices.Sort(c.Added)
	slices.Sort(c.Removed)
	return c
}

func runRoundtrip(cmd *cobra.Command, args []string) error {
	src, err := openDocument(args[0])
	if err != nil {
		return err
	}
	if src.format != parser.FormatHWPX {
		return fmt.Errorf("HWPX 문서만 지원합니다 (HWP는 convert 명령을 사용하세요)")
	}

	data, err := rewrite(src)
	if err != nil {
		return err
	}
	if err := os.WriteFile(roundtripOutput, data, 0644); err != nil {
		return fmt.Errorf("파일 저장 실패: %w", err)
	}

	out, err := handoc.Open(data, handoc.Options{Logger: logger, MaxDepth: cfg.Parse.MaxDepth})
	if err != nil {
		return fmt.Errorf("결과 문서 열기 실패: %w", err)
	}

	changes := diffParts(src.doc.Package().Digests(), out.Package().Digests())
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "저장: %s\n", roundtripOutput)
	fmt.Fprintf(w, "부품: %d개 중 변경 %d, 추가 %d, 삭제 %d\n",
		len(src.doc.Package().PartNames()), len(changes.Changed), len(changes.Added), len(changes.Removed))
	for _, name := range changes.Changed {
		fmt.Fprintf(w, "  ~ %s\n", name)
	}
	for _, name := range changes.Added {
		fmt.Fprintf(w, "  + %s\n", name)
	}
	for _, name := range changes.Removed {
		fmt.Fprintf(w, "  - %s\n", name)
	}
	reportWarnings(cmd, src.warnings)

	if src.doc.ExtractText() != out.ExtractText() {
		return fmt.Errorf("다시 쓴 문서의 텍스트가 원본과 다릅니다")
	}
	fmt.Fprintln(w, "텍스트 일치")
	return nil
}
