package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roboco-io/handoc/internal/handoc"
)

var infoJSON bool

var infoCmd = &cobra.Command{
	Use:   "info <file>",
	Short: "문서 정보 표시",
	Long: `문서의 형식, 메타데이터, 용지 크기, 여백과 통계를 표시합니다.

단어 수는 유니코드 단어 경계를 기준으로 셉니다.
글자 수에는 공백이 포함되지 않습니다.`,
	Args: cobra.ExactArgs(1),
	RunE: runInfo,
}

func init() {
	infoCmd.Flags().BoolVar(&infoJSON, "json", false, "JSON으로 출력")

	rootCmd.AddCommand(infoCmd)
}

// documentInfo is the info report.
type documentInfo struct {
	Format   string          `json:"format"`
	Title    string          `json:"title,omitempty"`
	Creator  string          `json:"creator,omitempty"`
	Language string          `json:"language"`
	PageSize handoc.PageSize `json:"pageSize"`
	Margins  handoc.Margins  `json:"margins"`
	Stats    handoc.Stats    `json:"stats"`
	Warnings int             `json:"warnings"`
}

func collectInfo(src *source) documentInfo {
	meta := src.doc.Metadata()
	info := documentInfo{
		Format:   src.format.String(),
		Title:    meta.Title,
		Creator:  meta.Creator,
		Language: meta.Tag.String(),
		PageSize: src.doc.PageSize(),
		Margins:  src.doc.Margins(),
		Stats:    src.doc.Stats(),
	}
	// 통계를 모두 계산한 뒤에 세야 섹션 경고가 포함된다
	info.Warnings = src.warnings.Count()
	return info
}

func runInfo(cmd *cobra.Command, args []string) error {
	src, err := openDocument(args[0])
	if err != nil {
		return err
	}
	info := collectInfo(src)

	out := cmd.OutOrStdout()
	if infoJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(info)
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "형식:\t%s\n", info.Format)
	if info.Title != "" {
		fmt.Fprintf(w, "제목:\t%s\n", info.Title)
	}
	if info.Creator != "" {
		fmt.Fprintf(w, "작성자:\t%s\n", info.Creator)
	}
	fmt.Fprintf(w, "언어:\t%s\n", info.Language)
	fmt.Fprintf(w, "용지:\t%.0f x %.0f mm\n", info.PageSize.Width, info.PageSize.Height)
	fmt.Fprintf(w, "여백:\t좌 %.1f, 우 %.1f, 위 %.1f, 아래 %.1f mm\n",
		info.Margins.Left, info.Margins.Right, info.Margins.Top, info.Margins.Bottom)
	fmt.Fprintf(w, "섹션:\t%d\n", info.Stats.Sections)
	fmt.Fprintf(w, "문단:\t%d\n", info.Stats.Paragraphs)
	fmt.Fprintf(w, "표:\t%d\n", info.Stats.Tables)
	fmt.Fprintf(w, "이미지:\t%d\n", info.Stats.Images)
	fmt.Fprintf(w, "단어:\t%d\n", info.Stats.Words)
	fmt.Fprintf(w, "글자:\t%d\n", info.Stats.Characters)
	fmt.Fprintf(w, "경고:\t%d\n", info.Warnings)
	if err := w.Flush(); err != nil {
		return err
	}
	reportWarnings(cmd, src.warnings)
	return nil
}
