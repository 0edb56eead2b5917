package writer

import (
	"sort"
	"strconv"

	"github.com/samber/lo"

	"github.com/roboco-io/handoc/internal/model"
	"github.com/roboco-io/handoc/internal/parser/hwpx"
)

// Default table geometry in HWPUNIT: about 170mm of usable width.
const (
	tableWidth     = 48000
	tableRowHeight = 1000
)

// TextParagraph creates a paragraph holding one run of text.
func TextParagraph(text string, charPr, paraPr int) *model.Paragraph {
	return &model.Paragraph{
		ParaPrIDRef: model.IntPtr(paraPr),
		StyleIDRef:  model.IntPtr(0),
		Runs: []*model.Run{{
			CharPrIDRef: model.IntPtr(charPr),
			Children:    []model.RunChild{model.TextChild(text)},
		}},
	}
}

// subList wraps paragraphs the way cells and annotations hold them.
func subList(paras []*model.Paragraph, kv ...string) *model.GenericElement {
	sub := model.NewElement("subList", kv...)
	for _, p := range paras {
		sub.Append(hwpx.ParagraphToElement(p))
	}
	return sub
}

// TableElement builds a table from plain cell texts. Ragged rows are
// allowed; the column count is the widest row.
func TableElement(rows [][]string) *model.GenericElement {
	cols := 0
	for _, r := range rows {
		cols = max(cols, len(r))
	}
	colWidth := tableWidth
	if cols > 0 {
		colWidth = tableWidth / cols
	}

	pt := &model.ParsedTable{RowCnt: len(rows), ColCnt: cols, BorderFillIDRef: 1}
	for ri, r := range rows {
		row := make([]model.ParsedTableCell, 0, len(r))
		for ci, text := range r {
			row = append(row, model.ParsedTableCell{
				ColAddr:         ci,
				RowAddr:         ri,
				ColSpan:         1,
				RowSpan:         1,
				Width:           colWidth,
				Height:          tableRowHeight,
				BorderFillIDRef: 1,
				Paragraphs:      []*model.Paragraph{TextParagraph(text, 0, 0)},
			})
		}
		pt.Rows = append(pt.Rows, row)
	}
	return TableFromParsed(pt)
}

// TableFromParsed is the inverse of hwpx.ParseTable.
func TableFromParsed(t *model.ParsedTable) *model.GenericElement {
	el := model.NewElement("tbl")
	if t.ID != "" {
		el.Attrs.Set("id", t.ID)
	}
	el.Attrs.Set("rowCnt", strconv.Itoa(t.RowCnt))
	el.Attrs.Set("colCnt", strconv.Itoa(t.ColCnt))
	el.Attrs.Set("cellSpacing", strconv.Itoa(t.CellSpacing))
	el.Attrs.Set("borderFillIDRef", strconv.Itoa(t.BorderFillIDRef))
	el.Attrs.Set("repeatHeader", model.FormatBool(t.RepeatHeader))
	el.Attrs.Set("noAdjust", model.FormatBool(t.NoAdjust))

	for _, row := range t.Rows {
		tr := model.NewElement("tr")
		for _, c := range row {
			tc := model.NewElement("tc",
				"name", c.Name,
				"header", model.FormatBool(c.Header),
				"hasMargin", "0",
				"borderFillIDRef", strconv.Itoa(c.BorderFillIDRef))
			tc.Append(
				subList(c.Paragraphs, "textDirection", "HORIZONTAL", "lineWrap", "BREAK", "vertAlign", "CENTER"),
				model.NewElement("cellAddr", "colAddr", strconv.Itoa(c.ColAddr), "rowAddr", strconv.Itoa(c.RowAddr)),
				model.NewElement("cellSpan", "colSpan", strconv.Itoa(c.ColSpan), "rowSpan", strconv.Itoa(c.RowSpan)),
				model.NewElement("cellSz", "width", strconv.Itoa(c.Width), "height", strconv.Itoa(c.Height)),
			)
			tr.Append(tc)
		}
		el.Append(tr)
	}
	return el
}

// ShapeSpec describes a drawing object to create.
type ShapeSpec struct {
	Type   string // rect, ellipse, line, arc, polygon, curve
	Width  int    // HWPUNIT
	Height int
	X, Y   int
	Text   string
}

// ShapeElement builds a drawing object. Text goes into drawText so that
// hwpx.ParseShape reads it back.
func ShapeElement(s ShapeSpec) *model.GenericElement {
	typ := s.Type
	if typ == "" {
		typ = "rect"
	}
	el := model.NewElement(typ, "id", "0", "zOrder", "0", "textWrap", "TOP_AND_BOTTOM")
	el.Append(
		model.NewElement("sz",
			"width", strconv.Itoa(s.Width), "widthRelTo", "ABSOLUTE",
			"height", strconv.Itoa(s.Height), "heightRelTo", "ABSOLUTE",
			"protect", "0"),
		model.NewElement("pos",
			"treatAsChar", "1",
			"vertRelTo", "PARA", "horzRelTo", "PARA",
			"vertOffset", strconv.Itoa(s.Y), "horzOffset", strconv.Itoa(s.X)),
	)
	if s.Text != "" {
		el.Append(model.NewElement("drawText", "lastWidth", strconv.Itoa(s.Width), "editable", "0").
			Append(subList([]*model.Paragraph{TextParagraph(s.Text, 0, 0)},
				"textDirection", "HORIZONTAL", "lineWrap", "BREAK", "vertAlign", "CENTER")))
	}
	return el
}

// EquationElement is the inverse of hwpx.ParseEquation. Attributes that
// are unset are left out.
func EquationElement(eq *hwpx.ParsedEquation) *model.GenericElement {
	el := model.NewElement("equation")
	if eq.Version != "" {
		el.Attrs.Set("version", eq.Version)
	}
	if eq.BaseUnit != nil {
		el.Attrs.Set("baseUnit", strconv.Itoa(*eq.BaseUnit))
	}
	if eq.Font != "" {
		el.Attrs.Set("font", eq.Font)
	}
	return el.Append(model.NewTextElement("script", eq.Script))
}

// SectionPropsElement is the inverse of hwpx.ParseSectionProps. colPr is
// only written when the columns differ from a single newspaper column.
func SectionPropsElement(p *model.SectionProperties) *model.GenericElement {
	landscape := "NARROWLY"
	if p.Landscape {
		landscape = "WIDELY"
	}
	m := p.Margins
	el := model.NewElement("secPr",
		"textDirection", "HORIZONTAL",
		"spaceColumns", "1134",
		"tabStop", "8000",
		"outlineShapeIDRef", "1")
	if p.StartPage != nil {
		el.Append(model.NewElement("startNum", "pageStartsOn", "BOTH", "page", strconv.Itoa(*p.StartPage)))
	}
	el.Append(model.NewElement("pagePr",
		"landscape", landscape,
		"width", strconv.Itoa(p.PageWidth),
		"height", strconv.Itoa(p.PageHeight),
		"gutterType", "LEFT_ONLY").
		Append(model.NewElement("margin",
			"header", strconv.Itoa(m.Header),
			"footer", strconv.Itoa(m.Footer),
			"gutter", strconv.Itoa(m.Gutter),
			"left", strconv.Itoa(m.Left),
			"right", strconv.Itoa(m.Right),
			"top", strconv.Itoa(m.Top),
			"bottom", strconv.Itoa(m.Bottom))))
	if p.Columns != defaultColumns {
		el.Append(ColumnsElement(p.Columns))
	}
	return el
}

var defaultColumns = model.ColumnProps{Count: 1, Type: "NEWSPAPER"}

// ColumnsElement renders hp:colPr.
func ColumnsElement(c model.ColumnProps) *model.GenericElement {
	typ := c.Type
	if typ == "" {
		typ = "NEWSPAPER"
	}
	return model.NewElement("colPr",
		"id", "",
		"type", typ,
		"layout", "LEFT",
		"colCount", strconv.Itoa(max(c.Count, 1)),
		"sameSz", "1",
		"sameGap", strconv.Itoa(c.SameGap))
}

// HeaderFooterElement wraps a header or footer in the ctrl that carries
// it, the inverse of hwpx.ParseHeaderFooter.
func HeaderFooterElement(hf *hwpx.HeaderFooter) *model.GenericElement {
	typ := hf.Type
	if typ != "footer" {
		typ = "header"
	}
	apply := hf.ApplyPageType
	if apply == "" {
		apply = "BOTH"
	}
	return model.NewElement("ctrl").Append(
		model.NewElement(typ, "id", "0", "applyPageType", apply).
			Append(subList(hf.Paragraphs,
				"textDirection", "HORIZONTAL", "lineWrap", "BREAK", "vertAlign", "TOP")))
}

// FootnoteElement wraps a footnote or endnote in its ctrl, the inverse of
// hwpx.ParseFootnote.
func FootnoteElement(fn *hwpx.Footnote) *model.GenericElement {
	tag := "footNote"
	if fn.Type == "endnote" {
		tag = "endNote"
	}
	return model.NewElement("ctrl").Append(
		model.NewElement(tag, "number", strconv.Itoa(fn.Number), "suffixChar", "41", "instId", "0").
			Append(subList(fn.Paragraphs,
				"textDirection", "HORIZONTAL", "lineWrap", "BREAK", "vertAlign", "TOP")))
}

// FieldBeginElement wraps a fieldBegin in its ctrl, the inverse of
// hwpx.ParseField. Parameters are written sorted by name.
func FieldBeginElement(f *hwpx.Field) *model.GenericElement {
	typ := f.Type
	if typ == "" {
		typ = "UNKNOWN"
	}
	fb := model.NewElement("fieldBegin", "id", f.ID, "type", typ, "name", f.Name, "editable", "0", "dirty", "0")

	params := make(map[string]string, len(f.Parameters)+1)
	for k, v := range f.Parameters {
		params[k] = v
	}
	if typ == "HYPERLINK" && f.URL != "" && params["Path"] == "" && params["Command"] == "" {
		params["Path"] = f.URL
	}
	if len(params) > 0 {
		names := lo.Keys(params)
		sort.Strings(names)
		ps := model.NewElement("parameters", "cnt", strconv.Itoa(len(names)), "name", "")
		for _, name := range names {
			p := model.NewTextElement("stringParam", params[name])
			p.Attrs.Set("name", name)
			ps.Append(p)
		}
		fb.Append(ps)
	}
	return model.NewElement("ctrl").Append(fb)
}

// FieldEndElement closes the field opened with beginID.
func FieldEndElement(beginID string) *model.GenericElement {
	return model.NewElement("ctrl").Append(model.NewElement("fieldEnd", "beginIDRef", beginID))
}

// PageNumElement is a page-number control. pos is one of TOP_LEFT,
// TOP_CENTER, TOP_RIGHT, BOTTOM_LEFT, BOTTOM_CENTER, BOTTOM_RIGHT.
func PageNumElement(pos string) *model.GenericElement {
	return model.NewElement("ctrl").Append(
		model.NewElement("pageNum", "pos", pos, "formatType", "DIGIT", "sideChar", ""))
}
