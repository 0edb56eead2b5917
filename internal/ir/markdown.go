package ir

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// RenderOptions configures RenderMarkdown.
type RenderOptions struct {
	// FrontMatter writes the metadata as a YAML front matter block.
	FrontMatter bool
}

type frontMatter struct {
	Title    string `yaml:"title,omitempty"`
	Author   string `yaml:"author,omitempty"`
	Language string `yaml:"lang,omitempty"`
}

// RenderMarkdown renders the document as GitHub-flavored Markdown. Blocks
// are separated by a blank line and notes follow the body as footnote
// definitions.
func RenderMarkdown(doc *Document, opts RenderOptions) (string, error) {
	var parts []string
	if opts.FrontMatter {
		fm := frontMatter{Title: doc.Metadata.Title, Author: doc.Metadata.Author, Language: doc.Metadata.Language}
		data, err := yaml.Marshal(fm)
		if err != nil {
			return "", fmt.Errorf("failed to marshal front matter: %w", err)
		}
		parts = append(parts, "---\n"+string(data)+"---")
	}

	for _, b := range doc.Content {
		if s := renderBlock(b); s != "" {
			parts = append(parts, s)
		}
	}

	if len(doc.Notes) > 0 {
		notes := make([]string, 0, len(doc.Notes))
		for _, n := range doc.Notes {
			notes = append(notes, fmt.Sprintf("[^%d]: %s", n.Number, strings.ReplaceAll(n.Text, "\n", " ")))
		}
		parts = append(parts, strings.Join(notes, "\n"))
	}

	if len(parts) == 0 {
		return "", nil
	}
	return strings.Join(parts, "\n\n") + "\n", nil
}

func renderBlock(b Block) string {
	switch b.Type {
	case BlockTypeParagraph:
		return renderParagraph(b.Paragraph)
	case BlockTypeTable:
		return renderTable(b.Table)
	case BlockTypeImage:
		return fmt.Sprintf("![%s](%s)", b.Image.Alt, b.Image.Path)
	case BlockTypeList:
		return renderList(b.List)
	case BlockTypeEquation:
		if b.Equation.Script == "" {
			return ""
		}
		return "```equation\n" + b.Equation.Script + "\n```"
	default:
		return ""
	}
}

func renderParagraph(p *Paragraph) string {
	if p == nil || p.IsEmpty() {
		return ""
	}
	if lvl := p.Style.HeadingLevel; lvl > 0 {
		return strings.Repeat("#", lvl) + " " + strings.TrimSpace(inline(p, true))
	}
	text := inline(p, false)
	if p.Style.IsQuote {
		return "> " + strings.ReplaceAll(text, "\n", "\n> ")
	}
	return text
}

// inline renders the runs of p. plain drops emphasis, which headings carry
// on their own.
func inline(p *Paragraph, plain bool) string {
	if len(p.Runs) == 0 {
		return p.Text
	}
	var sb strings.Builder
	for _, r := range p.Runs {
		if r.Style.NoteRef != 0 {
			fmt.Fprintf(&sb, "[^%d]", r.Style.NoteRef)
			continue
		}
		sb.WriteString(styled(r, plain))
	}
	return sb.String()
}

func styled(r Run, plain bool) string {
	text := r.Text
	if strings.TrimSpace(text) == "" {
		return text
	}
	if !plain {
		// 강조 기호는 공백 안쪽에 붙여야 한다
		core := strings.TrimSpace(text)
		lead := text[:strings.Index(text, core)]
		trail := text[len(lead)+len(core):]
		if r.Style.Strikethrough {
			core = "~~" + core + "~~"
		}
		if r.Style.Italic {
			core = "*" + core + "*"
		}
		if r.Style.Bold {
			core = "**" + core + "**"
		}
		text = lead + core + trail
	}
	if r.Style.Link != "" {
		text = "[" + text + "](" + r.Style.Link + ")"
	}
	return text
}

func renderTable(t *TableBlock) string {
	if t == nil || t.Rows == 0 || t.Cols == 0 {
		return ""
	}
	var lines []string
	row := func(cells []Cell) string {
		var sb strings.Builder
		sb.WriteString("|")
		for _, c := range cells {
			sb.WriteString(" " + cellText(c) + " |")
		}
		return sb.String()
	}
	lines = append(lines, row(t.Cells[0]))
	lines = append(lines, "|"+strings.Repeat(" --- |", t.Cols))
	for _, cells := range t.Cells[1:] {
		lines = append(lines, row(cells))
	}
	return strings.Join(lines, "\n")
}

func cellText(c Cell) string {
	s := strings.ReplaceAll(c.Text, "|", `\|`)
	return strings.ReplaceAll(s, "\n", "<br>")
}

func renderList(l *ListBlock) string {
	if l == nil || l.IsEmpty() {
		return ""
	}
	lines := make([]string, 0, len(l.Items))
	for i, it := range l.Items {
		marker := "- "
		if l.Ordered {
			marker = fmt.Sprintf("%d. ", l.Start+i)
		}
		lines = append(lines, strings.Repeat("  ", it.Level)+marker+inline(it.Paragraph, false))
	}
	return strings.Join(lines, "\n")
}
