package writer

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/roboco-io/handoc/internal/model"
	"github.com/roboco-io/handoc/internal/parser"
	"github.com/roboco-io/handoc/internal/parser/hwpx"
)

// built opens the package a builder produces and parses its header and
// sections.
func built(t *testing.T, b *Builder) (*model.DocumentHeader, []*model.Section) {
	t.Helper()
	data, err := b.Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	pkg := mustOpen(t, data)

	hdr, err := pkg.GetPart(model.HeaderPart)
	if err != nil {
		t.Fatal(err)
	}
	h, err := hwpx.ParseHeader(hdr, parser.Options{})
	if err != nil {
		t.Fatal(err)
	}
	var sections []*model.Section
	for _, name := range pkg.SectionPaths() {
		data, _ := pkg.GetPart(name)
		sections = append(sections, mustParseSection(t, data))
	}
	return h, sections
}

// bodyText returns the section text without the empty host paragraphs of
// tables and other objects.
func bodyText(sec *model.Section) []string {
	var out []string
	for _, line := range hwpx.SectionText(sec) {
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

func TestBuilder_Paragraph(t *testing.T) {
	h, sections := built(t, NewBuilder(BuilderOptions{}).AddParagraph("안녕하세요", nil))

	if len(sections) != 1 {
		t.Fatalf("Expected 1 section, got %d", len(sections))
	}
	if diff := cmp.Diff([]string{"안녕하세요"}, hwpx.SectionText(sections[0])); diff != "" {
		t.Errorf("text mismatch (-want +got):\n%s", diff)
	}

	props := sections[0].Props
	if props == nil || props.PageWidth != model.A4WidthHU || props.PageHeight != model.A4HeightHU || props.Landscape {
		t.Errorf("section props = %+v", props)
	}
	if props != nil && props.Columns.Count != 1 {
		t.Errorf("columns = %+v", props.Columns)
	}
	if len(h.RefList.CharProperties) != 1 || len(h.RefList.ParaProperties) != 1 {
		t.Errorf("header has %d charPr, %d paraPr; want 1, 1",
			len(h.RefList.CharProperties), len(h.RefList.ParaProperties))
	}
}

func TestBuilder_Empty(t *testing.T) {
	_, sections := built(t, NewBuilder(BuilderOptions{}))
	if len(sections) != 1 || len(sections[0].Paragraphs) != 1 {
		t.Fatalf("sections = %d", len(sections))
	}
	if sections[0].Props == nil {
		t.Error("empty section lost its secPr")
	}
}

func TestBuilder_Styles(t *testing.T) {
	b := NewBuilder(BuilderOptions{}).
		AddParagraph("보통", nil).
		AddParagraph("굵게", &ParagraphStyle{Bold: true}).
		AddParagraph("가운데 빨강", &ParagraphStyle{Align: "center", Color: "#ff0000", FontSize: 14, FontFamily: "바탕"}).
		AddParagraph("또 굵게", &ParagraphStyle{Bold: true})
	h, sections := built(t, b)

	if got := len(h.RefList.CharProperties); got != 3 {
		t.Fatalf("Expected 3 charPr (default, bold, red), got %d", got)
	}
	if got := len(h.RefList.ParaProperties); got != 2 {
		t.Fatalf("Expected 2 paraPr, got %d", got)
	}
	if fonts := h.RefList.FontFaces[0].Fonts; len(fonts) != 2 || fonts[1].Face != "바탕" {
		t.Errorf("fonts = %+v", fonts)
	}

	charOf := func(p *model.Paragraph) *model.CharProperty {
		run := p.Runs[len(p.Runs)-1]
		cp, ok := h.CharPropertyByID(*run.CharPrIDRef)
		if !ok {
			t.Fatalf("charPr %d not declared", *run.CharPrIDRef)
		}
		return cp
	}
	paras := sections[0].Paragraphs
	if charOf(paras[0]).Bold || !charOf(paras[1]).Bold || !charOf(paras[3]).Bold {
		t.Error("bold flags do not follow the paragraphs")
	}
	if *paras[1].Runs[0].CharPrIDRef != *paras[3].Runs[0].CharPrIDRef {
		t.Error("identical styles were not shared")
	}

	red := charOf(paras[2])
	if red.TextColor != "#FF0000" || red.Height != 1400 {
		t.Errorf("red charPr = color %q height %d", red.TextColor, red.Height)
	}
	pp, ok := h.ParaPropertyByID(*paras[2].ParaPrIDRef)
	if !ok || pp.Align != "CENTER" {
		t.Errorf("center paraPr = %+v", pp)
	}
}

func TestBuilder_BoldSurvivesRewrite(t *testing.T) {
	data, err := NewBuilder(BuilderOptions{}).AddParagraph("굵게", &ParagraphStyle{Bold: true}).Build()
	if err != nil {
		t.Fatal(err)
	}
	orig := mustOpen(t, data)
	hdr, _ := orig.GetPart(model.HeaderPart)
	h, err := hwpx.ParseHeader(hdr, parser.Options{})
	if err != nil {
		t.Fatal(err)
	}
	secData, _ := orig.GetPart("Contents/section0.xml")

	out, err := WriteHwpx(Input{Header: h, Sections: []*model.Section{mustParseSection(t, secData)}}, Options{Original: orig, Strict: true})
	if err != nil {
		t.Fatal(err)
	}
	pkg := mustOpen(t, out)
	hdr, _ = pkg.GetPart(model.HeaderPart)
	h2, err := hwpx.ParseHeader(hdr, parser.Options{})
	if err != nil {
		t.Fatal(err)
	}
	if cp, ok := h2.CharPropertyByID(1); !ok || !cp.Bold {
		t.Errorf("charPr 1 after rewrite = %+v", cp)
	}
}

func TestBuilder_Heading(t *testing.T) {
	h, sections := built(t, NewBuilder(BuilderOptions{}).AddHeading(2, "개요").AddHeading(9, "깊은 제목"))
	paras := sections[0].Paragraphs

	if *paras[0].StyleIDRef != 2 || *paras[1].StyleIDRef != 6 {
		t.Errorf("style refs = %d, %d; want 2, 6", *paras[0].StyleIDRef, *paras[1].StyleIDRef)
	}
	style, ok := h.StyleByID(2)
	if !ok || style.Name != "제목 2" {
		t.Errorf("style 2 = %+v", style)
	}
	cp, _ := h.CharPropertyByID(*paras[0].Runs[1].CharPrIDRef)
	if !cp.Bold || cp.Height != 2400 {
		t.Errorf("heading charPr = bold %v height %d", cp.Bold, cp.Height)
	}
}

func TestBuilder_Table(t *testing.T) {
	_, sections := built(t, NewBuilder(BuilderOptions{}).AddTable([][]string{{"A", "B"}, {"C", "D"}}))

	tables := hwpx.FindTables(sections[0])
	if len(tables) != 1 {
		t.Fatalf("Expected 1 table, got %d", len(tables))
	}
	if diff := cmp.Diff([][]string{{"A", "B"}, {"C", "D"}}, hwpx.TableToTextGrid(tables[0])); diff != "" {
		t.Errorf("grid mismatch (-want +got):\n%s", diff)
	}
	if tables[0].RowCnt != 2 || tables[0].ColCnt != 2 {
		t.Errorf("size = %dx%d", tables[0].RowCnt, tables[0].ColCnt)
	}
}

func TestBuilder_Image(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\n")
	data, err := NewBuilder(BuilderOptions{}).
		AddImage(png, ".PNG", 0, 0).
		AddImage([]byte{0xff, 0xd8}, "jpg", 1000, 800).
		Build()
	if err != nil {
		t.Fatal(err)
	}
	pkg := mustOpen(t, data)

	got, err := pkg.GetPart("BinData/image1.png")
	if err != nil || string(got) != string(png) {
		t.Errorf("image1 = %q, %v", got, err)
	}
	if item, ok := pkg.Manifest().Item("image2"); !ok || item.MediaType != "image/jpeg" {
		t.Errorf("image2 item = %+v, %v", item, ok)
	}

	secData, _ := pkg.GetPart("Contents/section0.xml")
	sec := mustParseSection(t, secData)
	var refs []string
	for _, p := range sec.Paragraphs {
		for _, c := range p.RunChildren() {
			if c.Kind == model.KindInlineObject && c.Name == "pic" {
				refs = append(refs, c.Element.Child("img").Attr("binaryItemIDRef"))
			}
		}
	}
	if diff := cmp.Diff([]string{"image1", "image2"}, refs); diff != "" {
		t.Errorf("picture refs mismatch (-want +got):\n%s", diff)
	}
}

func TestBuilder_Annotations(t *testing.T) {
	b := NewBuilder(BuilderOptions{}).
		SetHeader("머리말").
		SetFooter("- ").
		SetPageNumber("footer", "right").
		AddFootnote("본문", "각주 내용")
	_, sections := built(t, b)

	hfs := hwpx.CollectHeadersFooters(sections)
	if len(hfs) != 2 {
		t.Fatalf("Expected header and footer, got %d", len(hfs))
	}
	got := map[string]string{}
	for _, hf := range hfs {
		got[hf.Type] = hwpx.AnnotationText(hf.Paragraphs)
	}
	want := map[string]string{"header": "머리말", "footer": "- " + hwpx.PagePlaceholder}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("header/footer mismatch (-want +got):\n%s", diff)
	}

	fns := hwpx.CollectFootnotes(sections)
	if len(fns) != 1 || fns[0].Number != 1 || hwpx.AnnotationText(fns[0].Paragraphs) != "각주 내용" {
		t.Errorf("footnotes = %+v", fns)
	}
	if diff := cmp.Diff([]string{"본문", "머리말", "- ", "각주 내용"}, bodyText(sections[0])); diff != "" {
		t.Errorf("text mismatch (-want +got):\n%s", diff)
	}
}

func TestBuilder_ShapeAndEquation(t *testing.T) {
	b := NewBuilder(BuilderOptions{}).
		AddShape(ShapeSpec{Type: "rect", Width: 2000, Height: 1000, Text: "상자"}).
		AddEquation(EquationSpec{Script: "E=mc^2"})
	_, sections := built(t, b)

	var shape *hwpx.ParsedShape
	var eq *hwpx.ParsedEquation
	for _, c := range sections[0].Paragraphs[0].RunChildren() {
		if c.Kind == model.KindShape {
			shape = hwpx.ParseShape(c.Element)
		}
	}
	for _, c := range sections[0].Paragraphs[1].RunChildren() {
		if c.Kind == model.KindEquation {
			eq = hwpx.ParseEquation(c.Element)
		}
	}

	if shape == nil || shape.TextContent == nil || *shape.TextContent != "상자" {
		t.Errorf("shape = %+v", shape)
	}
	want := &hwpx.ParsedEquation{Script: "E=mc^2", Font: "HancomEQN", BaseUnit: model.IntPtr(1000), Version: "Equation Version 60"}
	if diff := cmp.Diff(want, eq); diff != "" {
		t.Errorf("equation mismatch (-want +got):\n%s", diff)
	}
}

func TestBuilder_Sections(t *testing.T) {
	b := NewBuilder(BuilderOptions{PageWidth: model.A4HeightHU, PageHeight: model.A4WidthHU}).
		AddParagraph("하나", nil).
		AddSectionBreak().
		AddParagraph("둘", nil)
	h, sections := built(t, b)

	if h.SecCnt != 2 || len(sections) != 2 {
		t.Fatalf("secCnt %d, sections %d", h.SecCnt, len(sections))
	}
	for i, want := range []string{"하나", "둘"} {
		if diff := cmp.Diff([]string{want}, hwpx.SectionText(sections[i])); diff != "" {
			t.Errorf("section %d mismatch (-want +got):\n%s", i, diff)
		}
		if !sections[i].Props.Landscape {
			t.Errorf("section %d is not landscape", i)
		}
	}
}

func TestBuilder_DocumentIsValid(t *testing.T) {
	doc := NewBuilder(BuilderOptions{}).
		AddHeading(1, "제목").
		AddParagraph("본문", &ParagraphStyle{Italic: true, LineSpacing: 200, Indent: 10}).
		AddTable([][]string{{"1"}}).
		AddFootnote("x", "y").
		Document()
	if err := model.ValidateRefs(doc.Header, doc.Sections); err != nil {
		t.Errorf("ValidateRefs() = %v", err)
	}
}
