package writer

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/roboco-io/handoc/internal/model"
	"github.com/roboco-io/handoc/internal/opc"
	"github.com/roboco-io/handoc/internal/parser/hwpx"
)

// ParagraphStyle is the formatting applied to a whole built paragraph.
// Mixed formatting inside one paragraph is not supported.
type ParagraphStyle struct {
	Bold        bool
	Italic      bool
	FontSize    float64 // pt; 0 means 10
	Align       string  // left, center, right, justify, distribute
	FontFamily  string
	Color       string  // RRGGBB
	LineSpacing int     // percent; 0 means 160
	Indent      float64 // mm
}

// EquationSpec describes an equation to insert.
type EquationSpec struct {
	Script   string
	Font     string // default HancomEQN
	BaseUnit int    // default 1000
	Width    int    // HWPUNIT, default 5000
	Height   int    // HWPUNIT, default 1000
}

// BuilderOptions configures a Builder.
type BuilderOptions struct {
	PageWidth  int // HWPUNIT, default A4
	PageHeight int
	FontFace   string
	Metadata   opc.Metadata
	Logger     *zap.Logger
}

// DefaultBuilderOptions returns A4 pages in 맑은 고딕.
func DefaultBuilderOptions() BuilderOptions {
	return BuilderOptions{
		PageWidth:  model.A4WidthHU,
		PageHeight: model.A4HeightHU,
		FontFace:   DefaultFontFace,
	}
}

// Default page margins in HWPUNIT (30/30/20/15 mm, 15 mm header/footer).
var defaultMargins = model.PageMargins{
	Left:   8504,
	Right:  8504,
	Top:    5668,
	Bottom: 4252,
	Header: 4252,
	Footer: 4252,
}

var headingSizes = map[int]float64{1: 28, 2: 24, 3: 20, 4: 16, 5: 14, 6: 12}

var alignNames = map[string]string{
	"left":       "LEFT",
	"center":     "CENTER",
	"right":      "RIGHT",
	"justify":    "JUSTIFY",
	"distribute": "DISTRIBUTE",
}

type itemKind int

const (
	itemParagraph itemKind = iota
	itemTable
	itemImage
	itemFootnote
	itemShape
	itemEquation
)

type item struct {
	kind    itemKind
	text    string
	style   *ParagraphStyle
	heading int
	rows    [][]string
	data    []byte
	ext     string
	width   int
	height  int
	note    string
	shape   ShapeSpec
	eq      EquationSpec
}

type builderSection struct {
	items      []item
	header     *string
	footer     *string
	pageNumPos string // "header" or "footer"
	pageNumAt  string // left, center, right
}

// Builder assembles a new HWPX document from high-level content. Methods
// return the builder so calls can be chained.
type Builder struct {
	opts     BuilderOptions
	sections []*builderSection
}

// NewBuilder creates a builder with one empty section.
func NewBuilder(opts BuilderOptions) *Builder {
	def := DefaultBuilderOptions()
	if opts.PageWidth <= 0 {
		opts.PageWidth = def.PageWidth
	}
	if opts.PageHeight <= 0 {
		opts.PageHeight = def.PageHeight
	}
	if opts.FontFace == "" {
		opts.FontFace = def.FontFace
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Builder{opts: opts, sections: []*builderSection{{}}}
}

func (b *Builder) current() *builderSection {
	return b.sections[len(b.sections)-1]
}

func (b *Builder) add(it item) *Builder {
	s := b.current()
	s.items = append(s.items, it)
	return b
}

// AddParagraph appends a paragraph. style may be nil.
func (b *Builder) AddParagraph(text string, style *ParagraphStyle) *Builder {
	return b.add(item{kind: itemParagraph, text: text, style: style})
}

// AddHeading appends a bold heading paragraph using style 제목 N. Levels
// outside 1..6 are clamped.
func (b *Builder) AddHeading(level int, text string) *Builder {
	level = min(max(level, 1), 6)
	style := &ParagraphStyle{Bold: true, FontSize: headingSizes[level]}
	return b.add(item{kind: itemParagraph, text: text, style: style, heading: level})
}

// AddTable appends a table of plain cell texts.
func (b *Builder) AddTable(rows [][]string) *Builder {
	return b.add(item{kind: itemTable, rows: rows})
}

// AddImage appends an inline picture. A zero width or height uses the
// default 100×75 mm.
func (b *Builder) AddImage(data []byte, ext string, width, height int) *Builder {
	if width <= 0 {
		width = int(math.Round(100 * model.MmToHWP))
	}
	if height <= 0 {
		height = int(math.Round(75 * model.MmToHWP))
	}
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	return b.add(item{kind: itemImage, data: data, ext: ext, width: width, height: height})
}

// AddFootnote appends a paragraph with text followed by a footnote.
func (b *Builder) AddFootnote(text, note string) *Builder {
	return b.add(item{kind: itemFootnote, text: text, note: note})
}

// AddShape appends a drawing object.
func (b *Builder) AddShape(s ShapeSpec) *Builder {
	return b.add(item{kind: itemShape, shape: s})
}

// AddEquation appends an equation.
func (b *Builder) AddEquation(eq EquationSpec) *Builder {
	return b.add(item{kind: itemEquation, eq: eq})
}

// SetHeader sets the page header text of the current section.
func (b *Builder) SetHeader(text string) *Builder {
	b.current().header = &text
	return b
}

// SetFooter sets the page footer text of the current section.
func (b *Builder) SetFooter(text string) *Builder {
	b.current().footer = &text
	return b
}

// SetPageNumber puts a page number in the header or footer of the current
// section. align is left, center or right.
func (b *Builder) SetPageNumber(position, align string) *Builder {
	s := b.current()
	s.pageNumPos = strings.ToLower(position)
	s.pageNumAt = strings.ToLower(align)
	return b
}

// AddSectionBreak starts a new section.
func (b *Builder) AddSectionBreak() *Builder {
	b.sections = append(b.sections, &builderSection{})
	return b
}

// Build writes the document as an HWPX package.
func (b *Builder) Build() ([]byte, error) {
	return WriteHwpx(b.Document(), Options{Logger: b.opts.Logger, Strict: true})
}

// Document returns the built header, sections and images without
// packaging them.
func (b *Builder) Document() Input {
	st := b.collectStyles()
	header := b.header(st)

	var (
		sections []*model.Section
		images   []Part
	)
	imageN, noteN := 0, 0
	for _, bs := range b.sections {
		sec := &model.Section{}
		for _, it := range bs.items {
			var p *model.Paragraph
			switch it.kind {
			case itemParagraph:
				p = TextParagraph(it.text, st.charIndex(it.style), st.paraIndex(it.style))
				if it.heading > 0 {
					p.StyleIDRef = model.IntPtr(it.heading)
				}
			case itemTable:
				p = objectParagraph(model.ElementChild(model.KindTable, "", TableElement(it.rows)))
			case itemImage:
				imageN++
				id := fmt.Sprintf("image%d", imageN)
				images = append(images, Part{Name: model.BinDataPrefix + id + "." + it.ext, Data: it.data})
				p = objectParagraph(model.ElementChild(model.KindInlineObject, "pic", pictureElement(id, imageN, it.width, it.height)))
			case itemFootnote:
				noteN++
				p = TextParagraph(it.text, 0, 0)
				fn := &hwpx.Footnote{Type: "footnote", Number: noteN, Paragraphs: []*model.Paragraph{TextParagraph(it.note, 0, 0)}}
				p.Runs[0].Children = append(p.Runs[0].Children, model.ElementChild(model.KindCtrl, "", FootnoteElement(fn)))
			case itemShape:
				el := ShapeElement(it.shape)
				p = objectParagraph(model.ElementChild(model.KindShape, el.Tag, el))
			case itemEquation:
				p = objectParagraph(model.ElementChild(model.KindEquation, "", equationElement(it.eq)))
			}
			sec.Paragraphs = append(sec.Paragraphs, p)
		}
		if len(sec.Paragraphs) == 0 {
			sec.Paragraphs = append(sec.Paragraphs, TextParagraph("", 0, 0))
		}

		first := sec.Paragraphs[0]
		first.Runs = append([]*model.Run{b.sectionRun(bs)}, first.Runs...)
		sections = append(sections, sec)
	}
	header.SecCnt = len(sections)

	b.opts.Logger.Debug("built document",
		zap.Int("sections", len(sections)),
		zap.Int("charPr", len(header.RefList.CharProperties)),
		zap.Int("paraPr", len(header.RefList.ParaProperties)),
		zap.Int("images", len(images)))

	return Input{Header: header, Sections: sections, ExtraParts: images, Metadata: b.opts.Metadata}
}

// sectionRun is the leading run of a section: its secPr, the column
// control and the header/footer controls.
func (b *Builder) sectionRun(bs *builderSection) *model.Run {
	props := &model.SectionProperties{
		PageWidth:  b.opts.PageWidth,
		PageHeight: b.opts.PageHeight,
		Landscape:  b.opts.PageWidth > b.opts.PageHeight,
		Margins:    defaultMargins,
		Columns:    defaultColumns,
	}
	run := &model.Run{
		CharPrIDRef: model.IntPtr(0),
		Children: []model.RunChild{
			model.ElementChild(model.KindSecPr, "", SectionPropsElement(props)),
			model.ElementChild(model.KindCtrl, "", model.NewElement("ctrl").Append(ColumnsElement(defaultColumns))),
		},
	}

	for _, typ := range []string{"header", "footer"} {
		text := bs.header
		if typ == "footer" {
			text = bs.footer
		}
		withNum := bs.pageNumPos == typ
		if text == nil && !withNum {
			continue
		}
		p := TextParagraph(lo.FromPtr(text), 0, 0)
		if withNum {
			p.Runs[0].Children = append(p.Runs[0].Children,
				model.ElementChild(model.KindCtrl, "", PageNumElement(pageNumPos(typ, bs.pageNumAt))))
		}
		hf := &hwpx.HeaderFooter{Type: typ, ApplyPageType: "BOTH", Paragraphs: []*model.Paragraph{p}}
		run.Children = append(run.Children, model.ElementChild(model.KindCtrl, "", HeaderFooterElement(hf)))
	}
	return run
}

func pageNumPos(position, align string) string {
	vert := "BOTTOM"
	if position == "header" {
		vert = "TOP"
	}
	horz := strings.ToUpper(align)
	if horz != "LEFT" && horz != "RIGHT" {
		horz = "CENTER"
	}
	return vert + "_" + horz
}

func objectParagraph(c model.RunChild) *model.Paragraph {
	return &model.Paragraph{
		ParaPrIDRef: model.IntPtr(0),
		StyleIDRef:  model.IntPtr(0),
		Runs:        []*model.Run{{CharPrIDRef: model.IntPtr(0), Children: []model.RunChild{c}}},
	}
}

func pictureElement(itemID string, n, width, height int) *model.GenericElement {
	w, h := strconv.Itoa(width), strconv.Itoa(height)
	return model.NewElement("pic",
		"id", strconv.Itoa(n),
		"zOrder", strconv.Itoa(n),
		"numberingType", "PICTURE",
		"textWrap", "TOP_AND_BOTTOM",
		"textFlow", "BOTH_SIDES",
		"lock", "0",
		"instid", strconv.Itoa(n),
		"reverse", "0").Append(
		model.NewElement("sz", "width", w, "widthRelTo", "ABSOLUTE", "height", h, "heightRelTo", "ABSOLUTE", "protect", "0"),
		model.NewElement("pos", "treatAsChar", "1", "affectLSpacing", "0", "flowWithText", "1",
			"allowOverlap", "0", "holdAnchorAndSO", "0", "vertRelTo", "PARA", "horzRelTo", "PARA",
			"vertAlign", "TOP", "horzAlign", "LEFT", "vertOffset", "0", "horzOffset", "0"),
		model.NewElement("orgSz", "width", w, "height", h),
		model.NewElement("curSz", "width", w, "height", h),
		model.NewElement("img", "binaryItemIDRef", itemID, "bright", "0", "contrast", "0", "effect", "REAL_PIC", "alpha", "0"),
	)
}

func equationElement(s EquationSpec) *model.GenericElement {
	font := lo.Ternary(s.Font == "", "HancomEQN", s.Font)
	base := lo.Ternary(s.BaseUnit <= 0, 1000, s.BaseUnit)
	width := lo.Ternary(s.Width <= 0, 5000, s.Width)
	height := lo.Ternary(s.Height <= 0, 1000, s.Height)

	el := EquationElement(&hwpx.ParsedEquation{
		Script:   s.Script,
		Font:     font,
		BaseUnit: &base,
		Version:  "Equation Version 60",
	})
	return el.Append(model.NewElement("sz",
		"width", strconv.Itoa(width), "widthRelTo", "ABSOLUTE",
		"height", strconv.Itoa(height), "heightRelTo", "ABSOLUTE",
		"protect", "0"))
}

// styleTable holds the deduplicated character and paragraph styles in
// first-use order. "default" is always character style 0 and "left||"
// paragraph style 0.
type styleTable struct {
	charKeys  []string
	chars     map[string]charStyle
	paraKeys  []string
	paras     map[string]paraStyle
	fontFaces []string
}

func (b *Builder) collectStyles() *styleTable {
	st := &styleTable{
		charKeys:  []string{"default"},
		chars:     map[string]charStyle{"default": {}},
		paraKeys:  []string{"left||"},
		paras:     map[string]paraStyle{"left||": {}},
		fontFaces: []string{b.opts.FontFace},
	}
	for _, bs := range b.sections {
		for _, it := range bs.items {
			if it.kind != itemParagraph || it.style == nil {
				continue
			}
			s := it.style
			if s.FontFamily != "" && !lo.Contains(st.fontFaces, s.FontFamily) {
				st.fontFaces = append(st.fontFaces, s.FontFamily)
			}
			if key := charKey(s); !lo.HasKey(st.chars, key) {
				st.charKeys = append(st.charKeys, key)
				st.chars[key] = charStyle{
					bold:   s.Bold,
					italic: s.Italic,
					height: int(math.Round(lo.Ternary(s.FontSize > 0, s.FontSize, 10) * 100)),
					color:  strings.ToUpper(strings.TrimPrefix(s.Color, "#")),
					fontID: lo.IndexOf(st.fontFaces, lo.Ternary(s.FontFamily == "", b.opts.FontFace, s.FontFamily)),
				}
			}
			if key := paraKey(s); !lo.HasKey(st.paras, key) {
				st.paraKeys = append(st.paraKeys, key)
				st.paras[key] = paraStyle{
					align:       alignOf(s.Align),
					lineSpacing: s.LineSpacing,
					indent:      int(math.Round(s.Indent * model.MmToHWP)),
				}
			}
		}
	}
	return st
}

func (st *styleTable) charIndex(s *ParagraphStyle) int {
	if s == nil {
		return 0
	}
	return max(lo.IndexOf(st.charKeys, charKey(s)), 0)
}

func (st *styleTable) paraIndex(s *ParagraphStyle) int {
	if s == nil {
		return 0
	}
	return max(lo.IndexOf(st.paraKeys, paraKey(s)), 0)
}

func (b *Builder) header(st *styleTable) *model.DocumentHeader {
	h := &model.DocumentHeader{
		Version:  "1.5",
		SecCnt:   len(b.sections),
		BeginNum: model.DefaultBeginNum(),
		RefList: model.RefList{
			FontFaces:   fontFaces(st.fontFaces),
			BorderFills: []*model.GenericElement{borderFill(1)},
			Styles:      defaultStyles(0),
		},
	}
	for i, key := range st.charKeys {
		h.RefList.CharProperties = append(h.RefList.CharProperties, charProperty(i, st.chars[key]))
	}
	for i, key := range st.paraKeys {
		h.RefList.ParaProperties = append(h.RefList.ParaProperties, paraProperty(i, st.paras[key]))
	}
	return h
}

func charKey(s *ParagraphStyle) string {
	if !s.Bold && !s.Italic && s.FontSize == 0 && s.FontFamily == "" && s.Color == "" {
		return "default"
	}
	return fmt.Sprintf("b%s_i%s_fs%g_ff%s_c%s",
		model.FormatBool(s.Bold), model.FormatBool(s.Italic),
		lo.Ternary(s.FontSize > 0, s.FontSize, 10), s.FontFamily, s.Color)
}

func paraKey(s *ParagraphStyle) string {
	align := strings.ToLower(s.Align)
	if align == "" {
		align = "left"
	}
	var spacing, indent string
	if s.LineSpacing > 0 {
		spacing = strconv.Itoa(s.LineSpacing)
	}
	if s.Indent != 0 {
		indent = strconv.FormatFloat(s.Indent, 'g', -1, 64)
	}
	return align + "|" + spacing + "|" + indent
}

func alignOf(align string) string {
	if a, ok := alignNames[strings.ToLower(align)]; ok {
		return a
	}
	return "LEFT"
}
