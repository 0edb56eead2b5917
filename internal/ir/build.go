package ir

import (
	"fmt"
	"path"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/roboco-io/handoc/internal/handoc"
	"github.com/roboco-io/handoc/internal/model"
	"github.com/roboco-io/handoc/internal/parser/hwpx"
)

// Options configures FromDocument.
type Options struct {
	// ImageDir, when set, makes image links point at ImageDir/<file name>
	// instead of the BinData part name.
	ImageDir string
	Logger   *zap.Logger
}

// 한글 기본 스타일 이름("개요 1", "제목 1")과 영문 이름을 함께 본다
var headingStylePattern = regexp.MustCompile(`^(?:제목|개요|Heading|Outline)\s*([1-9])$`)

var alignments = map[string]string{
	"CENTER":  "center",
	"RIGHT":   "right",
	"JUSTIFY": "justify",
}

type builder struct {
	src    *handoc.Document
	header *model.DocumentHeader
	doc    *Document
	opts   Options
	log    *zap.Logger
	images map[string]handoc.Image
	styles map[int]TextStyle
}

// FromDocument builds the block view of src: paragraphs with heading levels
// from their style or outline level, bulleted and numbered paragraphs as
// lists, then tables, pictures, equations and drawn text after their host
// paragraph. Footnotes and endnotes become numbered notes.
func FromDocument(src *handoc.Document, opts Options) (*Document, error) {
	header, err := src.Header()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	meta := src.Metadata()
	doc := NewDocument()
	doc.Metadata = Metadata{
		Title:    meta.Title,
		Author:   meta.Creator,
		Language: meta.Language,
		Sections: len(src.Sections()),
	}

	b := &builder{
		src:    src,
		header: header,
		doc:    doc,
		opts:   opts,
		log:    log.Named("ir"),
		images: make(map[string]handoc.Image),
		styles: make(map[int]TextStyle),
	}
	for _, im := range src.Images() {
		b.images[im.Path] = im
	}
	for _, sec := range src.Sections() {
		for _, p := range sec.Paragraphs {
			b.paragraph(p)
		}
	}
	b.log.Debug("built block view",
		zap.Int("blocks", len(doc.Content)),
		zap.Int("notes", len(doc.Notes)))
	return doc, nil
}

func (b *builder) paragraph(p *model.Paragraph) {
	para := NewParagraph("")
	var after []Block
	var link string

	for _, r := range p.Runs {
		style := b.textStyle(r.CharPrIDRef)
		for _, c := range r.Children {
			switch c.Kind {
			case model.KindText:
				s := style
				s.Link = link
				para.AddRun(c.Text, s)
			case model.KindCtrl:
				if f := hwpx.ParseField(c.Element); f != nil {
					if f.Type == "HYPERLINK" {
						link = f.URL
					}
				} else if _, ok := hwpx.ParseFieldEnd(c.Element); ok {
					link = ""
				} else if fn := hwpx.ParseFootnote(c.Element); fn != nil {
					n := b.doc.AddNote(fn.Type, hwpx.AnnotationText(fn.Paragraphs))
					para.AddRun("", TextStyle{NoteRef: n})
				}
			case model.KindTable:
				after = append(after, Block{Type: BlockTypeTable, Table: TableFromParsed(hwpx.ParseTable(c.Element))})
			case model.KindEquation:
				eq := hwpx.ParseEquation(c.Element)
				after = append(after, Block{Type: BlockTypeEquation, Equation: &EquationBlock{Script: strings.TrimSpace(eq.Script)}})
			case model.KindShape:
				for _, sp := range hwpx.ParseShape(c.Element).Paragraphs {
					if t := sp.Text(); strings.TrimSpace(t) != "" {
						q := NewParagraph(t)
						q.Style.IsQuote = true
						after = append(after, Block{Type: BlockTypeParagraph, Paragraph: q})
					}
				}
			case model.KindInlineObject:
				if c.Name == "pic" {
					if img := b.image(c.Element); img != nil {
						after = append(after, Block{Type: BlockTypeImage, Image: img})
					}
				}
			}
		}
	}

	b.place(p, para)
	b.doc.Content = append(b.doc.Content, after...)
}

// place adds para as a heading, list item or plain paragraph.
func (b *builder) place(p *model.Paragraph, para *Paragraph) {
	if para.IsEmpty() {
		return
	}
	var pp *model.ParaProperty
	if p.ParaPrIDRef != nil {
		pp, _ = b.header.ParaPropertyByID(*p.ParaPrIDRef)
	}
	if pp != nil {
		para.Style.Alignment = alignments[pp.Align]
	}

	if level := b.styleHeading(p.StyleIDRef); level > 0 {
		para.SetHeading(level)
		b.doc.AddParagraph(para)
		return
	}
	if pp == nil {
		b.doc.AddParagraph(para)
		return
	}

	level := headingLevel(pp)
	switch pp.HeadingType {
	case "OUTLINE":
		para.SetHeading(level + 1)
		b.doc.AddParagraph(para)
	case "BULLET", "NUMBER":
		ordered := pp.HeadingType == "NUMBER"
		list := b.doc.lastList(ordered)
		if list == nil {
			list = NewList(ordered)
			b.doc.AddList(list)
		}
		list.AddParagraph(para, level)
	default:
		b.doc.AddParagraph(para)
	}
}

func (b *builder) styleHeading(id *int) int {
	if id == nil {
		return 0
	}
	st, ok := b.header.StyleByID(*id)
	if !ok {
		return 0
	}
	for _, name := range []string{st.Name, st.EngName} {
		if m := headingStylePattern.FindStringSubmatch(name); m != nil {
			return int(m[1][0] - '0')
		}
	}
	return 0
}

// headingLevel reads the level attribute of the paraPr's heading element.
func headingLevel(pp *model.ParaProperty) int {
	level, found := 0, false
	for _, c := range pp.Children {
		c.Walk(func(e *model.GenericElement) bool {
			if found {
				return false
			}
			if e.LocalTag() == "heading" {
				level = model.ParseIntDefault(e.Attr("level"), 0)
				found = true
				return false
			}
			return true
		})
	}
	return level
}

func (b *builder) textStyle(id *int) TextStyle {
	if id == nil {
		return TextStyle{}
	}
	if st, ok := b.styles[*id]; ok {
		return st
	}
	var st TextStyle
	if cp, ok := b.header.CharPropertyByID(*id); ok {
		st = TextStyle{Bold: cp.Bold, Italic: cp.Italic, Underline: cp.Underline, Strikethrough: cp.Strikeout}
	}
	b.styles[*id] = st
	return st
}

// image resolves the binaryItemIDRef of a picture through the manifest.
func (b *builder) image(pic *model.GenericElement) *ImageBlock {
	var ref string
	pic.Walk(func(e *model.GenericElement) bool {
		if ref == "" && e.LocalTag() == "img" {
			ref = e.Attr("binaryItemIDRef")
		}
		return ref == ""
	})
	if ref == "" {
		return nil
	}

	img := NewImage(ref)
	pkg := b.src.Package()
	if m := pkg.Manifest(); m != nil {
		if item, ok := m.Item(ref); ok {
			img.Part = pkg.Resolve(item.Href)
		}
	}
	if img.Part == "" {
		b.log.Debug("picture without manifest item", zap.String("ref", ref))
	}
	if im, ok := b.images[img.Part]; ok {
		img.SetDimensions(im.Width, im.Height)
		img.Format = im.Format
	}

	img.Path = img.Part
	if b.opts.ImageDir != "" {
		img.Path = path.Join(b.opts.ImageDir, img.FileName())
	}
	img.Alt = strings.TrimSuffix(img.FileName(), path.Ext(img.FileName()))
	return img
}
