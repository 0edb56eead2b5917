package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roboco-io/handoc/internal/ir"
)

var (
	extractOutput      string
	extractFormat      string
	extractPrettyPrint bool
)

var extractCmd = &cobra.Command{
	Use:   "extract <file>",
	Short: "HWP/HWPX 문서에서 텍스트 또는 IR(중간 표현) 추출",
	Long: `HWP/HWPX 문서를 파싱하여 내용을 추출합니다.

출력 형식:
  plain  섹션 순서대로 모은 문단 텍스트
  text   IR 요약 (제목, 표, 이미지, 각주 포함)
  json   IR(Intermediate Representation) 전체

예시:
  handoc extract document.hwpx
  handoc extract document.hwp --format json -o output.json
  handoc extract document.hwpx --format text`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().StringVarP(&extractOutput, "output", "o", "", "출력 파일 경로 (기본: stdout)")
	extractCmd.Flags().StringVarP(&extractFormat, "format", "f", "plain", "출력 형식 (plain, text, json)")
	extractCmd.Flags().BoolVar(&extractPrettyPrint, "pretty", true, "JSON 들여쓰기 적용")

	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	src, err := openDocument(args[0])
	if err != nil {
		return err
	}

	var output string
	if extractFormat == "plain" {
		output = src.doc.ExtractText()
	} else {
		doc, err := ir.FromDocument(src.doc, ir.Options{Logger: logger})
		if err != nil {
			return fmt.Errorf("문서 파싱 실패: %w", err)
		}
		output, err = formatOutput(doc, extractFormat)
		if err != nil {
			return fmt.Errorf("출력 포맷팅 실패: %w", err)
		}
	}
	if !strings.HasSuffix(output, "\n") {
		output += "\n"
	}

	if err := writeOutput(cmd, extractOutput, []byte(output)); err != nil {
		return err
	}
	if extractOutput != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "추출 완료: %s\n", extractOutput)
	}
	reportWarnings(cmd, src.warnings)
	return nil
}

func formatOutput(doc *ir.Document, format string) (string, error) {
	switch format {
	case "json":
		var data []byte
		var err error
		if extractPrettyPrint {
			data, err = json.MarshalIndent(doc, "", "  ")
		} else {
			data, err = json.Marshal(doc)
		}
		if err != nil {
			return "", err
		}
		return string(data), nil

	case "text":
		return formatAsText(doc), nil

	default:
		return "", fmt.Errorf("지원하지 않는 출력 형식: %s", format)
	}
}

func formatAsText(doc *ir.Document) string {
	var sb strings.Builder

	if doc.Metadata.Title != "" {
		fmt.Fprintf(&sb, "제목: %s\n", doc.Metadata.Title)
	}
	if doc.Metadata.Author != "" {
		fmt.Fprintf(&sb, "작성자: %s\n", doc.Metadata.Author)
	}
	if sb.Len() > 0 {
		sb.WriteString("\n---\n\n")
	}

	for _, block := range doc.Content {
		switch block.Type {
		case ir.BlockTypeParagraph:
			if block.Paragraph != nil {
				sb.WriteString(block.Paragraph.Text + "\n\n")
			}
		case ir.BlockTypeTable:
			if block.Table != nil {
				sb.WriteString(formatTableAsText(block.Table) + "\n")
			}
		case ir.BlockTypeImage:
			if block.Image != nil {
				alt := block.Image.Alt
				if alt == "" {
					alt = block.Image.ID
				}
				fmt.Fprintf(&sb, "[이미지: %s]\n\n", alt)
			}
		case ir.BlockTypeList:
			if block.List != nil {
				sb.WriteString(formatListAsText(block.List) + "\n")
			}
		case ir.BlockTypeEquation:
			if block.Equation != nil {
				fmt.Fprintf(&sb, "[수식: %s]\n\n", block.Equation.Script)
			}
		}
	}

	for _, n := range doc.Notes {
		fmt.Fprintf(&sb, "[%d] %s\n", n.Number, n.Text)
	}
	return sb.String()
}

func formatTableAsText(table *ir.TableBlock) string {
	var sb strings.Builder
	for i, row := range table.Cells {
		for j, cell := range row {
			if j > 0 {
				sb.WriteString(" | ")
			}
			sb.WriteString(cell.Text)
		}
		sb.WriteString("\n")
		if i == 0 && table.HasHeader {
			for j := range row {
				if j > 0 {
					sb.WriteString(" | ")
				}
				sb.WriteString("---")
			}
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

func formatListAsText(list *ir.ListBlock) string {
	var sb strings.Builder
	n := list.Start
	if n == 0 {
		n = 1
	}
	for _, item := range list.Items {
		sb.WriteString(strings.Repeat("  ", item.Level))
		if list.Ordered {
			fmt.Fprintf(&sb, "%d. ", n)
			n++
		} else {
			sb.WriteString("- ")
		}
		sb.WriteString(item.Paragraph.Text + "\n")
	}
	return sb.String()
}
