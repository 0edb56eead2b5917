package hwpx

import (
	"go.uber.org/zap"

	"github.com/roboco-io/handoc/internal/model"
	"github.com/roboco-io/handoc/internal/parser"
)

// ParseSection parses a Contents/sectionN.xml part. Malformed XML is an
// error; a root other than <sec> yields an empty section.
func ParseSection(data []byte, opts parser.Options) (*model.Section, error) {
	return parseSectionPath(data, opts, "")
}

// ParseSectionPart is ParseSection with the part name used in warnings.
func ParseSectionPart(data []byte, name string, opts parser.Options) (*model.Section, error) {
	return parseSectionPath(data, opts, name)
}

func parseSectionPath(data []byte, opts parser.Options, name string) (*model.Section, error) {
	opts = opts.Normalize()
	root, err := readRoot(data)
	if err != nil {
		return nil, err
	}

	sec := &model.Section{Paragraphs: []*model.Paragraph{}}
	if root.Tag != "sec" {
		opts.Logger.Debug("section root is not <sec>", zap.String("part", name), zap.String("root", root.Tag))
		return sec, nil
	}

	d := newDecoder(opts, name)
	for _, c := range root.SelectElements("p") {
		sec.Paragraphs = append(sec.Paragraphs, d.paragraph(c, 1))
	}
	if el := firstSecPr(sec); el != nil {
		sec.Props = ParseSectionProps(el)
		// 한글은 단 설정을 secPr 옆의 ctrl에 둔다
		if el.Child("colPr") == nil {
			if col := firstCtrlChild(sec, "colPr"); col != nil {
				applyColPr(&sec.Props.Columns, col)
			}
		}
	}

	opts.Logger.Debug("parsed section",
		zap.String("part", name),
		zap.Int("paragraphs", len(sec.Paragraphs)))
	return sec, nil
}

// firstSecPr returns the first secPr run child of the section.
func firstSecPr(sec *model.Section) *model.GenericElement {
	for _, p := range sec.Paragraphs {
		for _, c := range p.RunChildren() {
			if c.Kind == model.KindSecPr && c.Element != nil {
				return c.Element
			}
		}
	}
	return nil
}

// firstCtrlChild returns the first element named tag wrapped in a ctrl of
// the first paragraph.
func firstCtrlChild(sec *model.Section, tag string) *model.GenericElement {
	if len(sec.Paragraphs) == 0 {
		return nil
	}
	for _, c := range sec.Paragraphs[0].RunChildren() {
		if c.Kind == model.KindCtrl {
			if el := c.Element.Child(tag); el != nil {
				return el
			}
		}
	}
	return nil
}

// SectionText returns one line per top-level paragraph. Text held by tables,
// shapes, hidden comments and annotations follows its host paragraph, one
// line per nested non-empty paragraph.
func SectionText(sec *model.Section) []string {
	if sec == nil {
		return nil
	}
	out := make([]string, 0, len(sec.Paragraphs))
	for _, p := range sec.Paragraphs {
		out = append(out, p.Text())
		out = append(out, nestedText(p)...)
	}
	return out
}

func nestedText(p *model.Paragraph) []string {
	var out []string
	add := func(paras []*model.Paragraph) {
		for _, np := range paras {
			if t := np.Text(); t != "" {
				out = append(out, t)
			}
			out = append(out, nestedText(np)...)
		}
	}
	for _, c := range p.RunChildren() {
		switch c.Kind {
		case model.KindTable:
			t := ParseTable(c.Element)
			for _, row := range t.Rows {
				for _, cell := range row {
					add(cell.Paragraphs)
				}
			}
		case model.KindShape:
			add(ParseShape(c.Element).Paragraphs)
		case model.KindHiddenComment:
			add(c.Paragraphs)
		case model.KindCtrl:
			if hf := ParseHeaderFooter(c.Element); hf != nil {
				add(hf.Paragraphs)
			} else if fn := ParseFootnote(c.Element); fn != nil {
				add(fn.Paragraphs)
			}
		}
	}
	return out
}
