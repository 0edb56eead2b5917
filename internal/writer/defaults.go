package writer

import (
	"strconv"

	"github.com/roboco-io/handoc/internal/model"
)

// DefaultFontFace is the font declared by generated headers.
const DefaultFontFace = "맑은 고딕"

// fontLangs are the script groups a generated header declares fonts for.
var fontLangs = []string{"HANGUL", "LATIN", "HANJA"}

// headingNames are the names of styles 1..6.
var headingNames = []string{"제목 1", "제목 2", "제목 3", "제목 4", "제목 5", "제목 6"}

// MinimalHeader returns the header SectionsToHwpx writes: one font, a
// normal and a bold charPr, one left-aligned paraPr at 160% and the body
// and heading styles.
func MinimalHeader(secCnt int) *model.DocumentHeader {
	return &model.DocumentHeader{
		Version:  "1.5",
		SecCnt:   max(secCnt, 1),
		BeginNum: model.DefaultBeginNum(),
		RefList: model.RefList{
			FontFaces: fontFaces([]string{DefaultFontFace}),
			BorderFills: []*model.GenericElement{
				borderFill(1),
			},
			CharProperties: []model.CharProperty{
				charProperty(0, charStyle{}),
				charProperty(1, charStyle{bold: true}),
			},
			ParaProperties: []model.ParaProperty{
				paraProperty(0, paraStyle{}),
			},
			Styles: defaultStyles(1),
		},
	}
}

// SectionsToHwpx writes sections under MinimalHeader.
func SectionsToHwpx(sections []*model.Section, opts Options) ([]byte, error) {
	return WriteHwpx(Input{Header: MinimalHeader(len(sections)), Sections: sections}, opts)
}

func fontFaces(faces []string) []model.FontFace {
	out := make([]model.FontFace, 0, len(fontLangs))
	for _, lang := range fontLangs {
		ff := model.FontFace{Lang: lang}
		for i, face := range faces {
			ff.Fonts = append(ff.Fonts, model.Font{ID: i, Face: face, Type: "TTF"})
		}
		out = append(out, ff)
	}
	return out
}

// borderFill declares an invisible border, the fill tables and pages use.
func borderFill(id int) *model.GenericElement {
	bf := model.NewElement("borderFill",
		"id", strconv.Itoa(id), "threeD", "0", "shadow", "0",
		"centerLine", "NONE", "breakCellSeparateLine", "0")
	bf.Append(
		model.NewElement("slash", "type", "NONE", "Crooked", "0", "isCounter", "0"),
		model.NewElement("backSlash", "type", "NONE", "Crooked", "0", "isCounter", "0"),
	)
	for _, side := range []string{"leftBorder", "rightBorder", "topBorder", "bottomBorder"} {
		bf.Append(model.NewElement(side, "type", "NONE", "width", "0.1 mm", "color", "#000000"))
	}
	return bf.Append(model.NewElement("diagonal", "type", "SOLID", "width", "0.1 mm", "color", "#000000"))
}

// charStyle is the character half of a paragraph style.
type charStyle struct {
	bold, italic bool
	height       int // 1/100 pt; 0 means 10pt
	color        string
	fontID       int
}

func charProperty(id int, s charStyle) model.CharProperty {
	height := s.height
	if height <= 0 {
		height = 1000
	}
	color := "#000000"
	if s.color != "" {
		color = "#" + s.color
	}
	font := strconv.Itoa(s.fontID)

	children := []*model.GenericElement{
		model.NewElement("fontRef",
			"hangul", font, "latin", font, "hanja", font,
			"japanese", font, "other", font, "symbol", font, "user", font),
	}
	if s.bold {
		children = append(children, model.NewElement("bold"))
	}
	if s.italic {
		children = append(children, model.NewElement("italic"))
	}
	children = append(children,
		model.NewElement("underline", "type", "NONE", "shape", "SOLID", "color", "#000000"),
		model.NewElement("strikeout", "shape", "NONE", "color", "#000000"),
	)

	return model.CharProperty{
		ID:        id,
		Height:    height,
		TextColor: color,
		Bold:      s.bold,
		Italic:    s.italic,
		Attrs: model.AttrsOf(
			"id", strconv.Itoa(id),
			"height", strconv.Itoa(height),
			"textColor", color,
			"shadeColor", "none",
			"useFontSpace", "0",
			"useKerning", "0",
			"symMark", "NONE",
			"borderFillIDRef", "1"),
		Children: children,
	}
}

// paraStyle is the paragraph half of a paragraph style.
type paraStyle struct {
	align       string // LEFT, CENTER, RIGHT, JUSTIFY, DISTRIBUTE
	lineSpacing int    // percent; 0 means 160
	indent      int    // HWPUNIT
}

func paraProperty(id int, s paraStyle) model.ParaProperty {
	align := s.align
	if align == "" {
		align = "LEFT"
	}
	spacing := s.lineSpacing
	if spacing <= 0 {
		spacing = 160
	}
	margin := model.ParaMargin{Left: s.indent, Indent: s.indent}
	ls := model.LineSpacing{Type: "PERCENT", Value: spacing}

	return model.ParaProperty{
		ID:          id,
		Align:       align,
		LineSpacing: &ls,
		Margin:      &margin,
		Attrs: model.AttrsOf(
			"id", strconv.Itoa(id),
			"condense", "0",
			"fontLineHeight", "0",
			"snapToGrid", "1",
			"suppressLineNumbers", "0",
			"checked", "0"),
		Children: []*model.GenericElement{
			model.NewElement("align", "horizontal", align, "vertical", "BASELINE"),
			model.NewElement("heading", "type", "NONE", "idRef", "0", "level", "0"),
			MarginElement(margin),
			model.NewElement("lineSpacing", "type", ls.Type, "value", strconv.Itoa(ls.Value), "unit", "HWPUNIT"),
		},
	}
}

// defaultStyles returns 바탕글 and 제목 1..6. Headings use headingCharPr.
func defaultStyles(headingCharPr int) []model.Style {
	style := func(id int, name, eng string, charPr int) model.Style {
		return model.Style{
			ID:             id,
			Type:           "PARA",
			Name:           name,
			EngName:        eng,
			ParaPrIDRef:    model.IntPtr(0),
			CharPrIDRef:    model.IntPtr(charPr),
			NextStyleIDRef: model.IntPtr(0),
			Attrs: model.AttrsOf(
				"id", strconv.Itoa(id),
				"type", "PARA",
				"name", name,
				"engName", eng,
				"paraPrIDRef", "0",
				"charPrIDRef", strconv.Itoa(charPr),
				"nextStyleIDRef", "0",
				"langID", "1042",
				"lockForm", "0"),
		}
	}
	styles := []model.Style{style(0, "바탕글", "Normal", 0)}
	for i, name := range headingNames {
		styles = append(styles, style(i+1, name, "Heading "+strconv.Itoa(i+1), headingCharPr))
	}
	return styles
}
