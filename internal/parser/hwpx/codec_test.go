package hwpx

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/roboco-io/handoc/internal/model"
	"github.com/roboco-io/handoc/internal/parser"
)

func mustGeneric(t *testing.T, xml string) *model.GenericElement {
	t.Helper()
	g, err := ParseGenericXML([]byte(xml), 0)
	if err != nil {
		t.Fatalf("ParseGenericXML() error = %v", err)
	}
	return g
}

func TestParseTable(t *testing.T) {
	el := mustGeneric(t, `<hp:tbl xmlns:hp="urn:hp" id="7" rowCnt="2" colCnt="2" cellSpacing="0" borderFillIDRef="3" repeatHeader="1">
  <hp:tr>
    <hp:tc name="A1" header="1" borderFillIDRef="3"><hp:subList><hp:p><hp:run><hp:t>A</hp:t></hp:run></hp:p></hp:subList><hp:cellAddr colAddr="0" rowAddr="0"/><hp:cellSpan colSpan="2" rowSpan="1"/><hp:cellSz width="1000" height="200"/></hp:tc>
  </hp:tr>
  <hp:tr>
    <hp:tc><hp:subList><hp:p><hp:run><hp:t>C</hp:t></hp:run></hp:p><hp:p><hp:run><hp:t>D</hp:t></hp:run></hp:p></hp:subList><hp:cellAddr colAddr="0" rowAddr="1"/></hp:tc>
  </hp:tr>
</hp:tbl>`)

	tbl := ParseTable(el)
	if tbl.ID != "7" || tbl.RowCnt != 2 || tbl.ColCnt != 2 || tbl.BorderFillIDRef != 3 {
		t.Errorf("table attrs = %+v", tbl)
	}
	if !tbl.RepeatHeader || tbl.NoAdjust {
		t.Errorf("flags = repeatHeader %v noAdjust %v", tbl.RepeatHeader, tbl.NoAdjust)
	}

	first := tbl.Rows[0][0]
	if first.Name != "A1" || !first.Header || first.ColSpan != 2 || first.Width != 1000 {
		t.Errorf("first cell = %+v", first)
	}
	second := tbl.Rows[1][0]
	if second.ColSpan != 1 || second.RowSpan != 1 {
		t.Errorf("Expected 1x1 default span, got %dx%d", second.ColSpan, second.RowSpan)
	}
	if second.RowAddr != 1 || second.Width != 0 {
		t.Errorf("second cell = %+v", second)
	}

	want := [][]string{{"A"}, {"CD"}}
	if diff := cmp.Diff(want, TableToTextGrid(tbl)); diff != "" {
		t.Errorf("grid mismatch (-want +got):\n%s", diff)
	}
	if second.Text() != "C\nD" {
		t.Errorf("cell Text() = %q", second.Text())
	}
}

func TestParseTable_Empty(t *testing.T) {
	tbl := ParseTable(model.NewElement("tbl"))
	if tbl.RowCnt != 0 || tbl.ColCnt != 0 || len(tbl.Rows) != 0 {
		t.Errorf("empty table = %+v", tbl)
	}
	if got := ParseTable(nil); got == nil || len(got.Rows) != 0 {
		t.Errorf("ParseTable(nil) = %+v", got)
	}
}

func TestFindTables(t *testing.T) {
	xml := `<hs:sec xmlns:hs="urn:hs" xmlns:hp="urn:hp">
<hp:p><hp:run><hp:tbl rowCnt="1" colCnt="1"><hp:tr><hp:tc><hp:subList><hp:p><hp:run>
  <hp:tbl rowCnt="1" colCnt="1"><hp:tr><hp:tc><hp:subList><hp:p><hp:run><hp:t>inner</hp:t></hp:run></hp:p></hp:subList></hp:tc></hp:tr></hp:tbl>
</hp:run></hp:p></hp:subList></hp:tc></hp:tr></hp:tbl></hp:run></hp:p>
</hs:sec>`
	sec, err := ParseSection([]byte(xml), parser.Options{})
	if err != nil {
		t.Fatal(err)
	}
	tables := FindTables(sec)
	if len(tables) != 2 {
		t.Fatalf("Expected outer and nested table, got %d", len(tables))
	}
	if diff := cmp.Diff([][]string{{"inner"}}, TableToTextGrid(tables[1])); diff != "" {
		t.Errorf("nested grid mismatch (-want +got):\n%s", diff)
	}
}

func TestParseShape(t *testing.T) {
	rect := mustGeneric(t, `<hp:rect xmlns:hp="urn:hp" id="1"><hp:sz width="5000" height="0"/>
<hp:drawText><hp:subList><hp:p><hp:run><hp:t>상자</hp:t></hp:run></hp:p><hp:p><hp:run><hp:t>둘째</hp:t></hp:run></hp:p></hp:subList></hp:drawText></hp:rect>`)

	s := ParseShape(rect)
	if s.Type != "rect" {
		t.Errorf("Type = %q", s.Type)
	}
	if s.Width == nil || *s.Width != 5000 {
		t.Errorf("Width = %v", s.Width)
	}
	if s.Height == nil || *s.Height != 0 {
		t.Error("Expected an explicit zero height to stay distinct from absent")
	}
	if s.TextContent == nil || *s.TextContent != "상자\n둘째" {
		t.Errorf("TextContent = %v", s.TextContent)
	}
	if len(s.Children) != 2 {
		t.Errorf("Expected raw children kept, got %d", len(s.Children))
	}

	bare := ParseShape(mustGeneric(t, `<ellipse><drawText><p><run><t/></run></p></drawText></ellipse>`))
	if bare.Width != nil || bare.Height != nil {
		t.Error("Expected nil size without <sz>")
	}
	if bare.TextContent != nil {
		t.Errorf("Expected nil TextContent for empty text, got %q", *bare.TextContent)
	}
	if len(bare.Paragraphs) != 1 {
		t.Errorf("Expected drawText without subList to yield 1 paragraph, got %d", len(bare.Paragraphs))
	}
}

func TestParseEquation(t *testing.T) {
	eq := ParseEquation(mustGeneric(t, `<hp:equation xmlns:hp="urn:hp" version="Equation Version 60" baseUnit="1000" font="HYhwpEQ"><hp:script>x^2 over y</hp:script></hp:equation>`))
	if eq.Script != "x^2 over y" || eq.Font != "HYhwpEQ" || eq.Version != "Equation Version 60" {
		t.Errorf("equation = %+v", eq)
	}
	if eq.BaseUnit == nil || *eq.BaseUnit != 1000 {
		t.Errorf("BaseUnit = %v", eq.BaseUnit)
	}

	empty := ParseEquation(model.NewElement("equation"))
	if empty.Script != "" || empty.BaseUnit != nil {
		t.Errorf("empty equation = %+v", empty)
	}
}

func TestParseSectionProps_Defaults(t *testing.T) {
	props := ParseSectionProps(mustGeneric(t, `<secPr><startNum page="0"/></secPr>`))
	want := &model.SectionProperties{Columns: model.ColumnProps{Count: 1, Type: "NEWSPAPER"}}
	if diff := cmp.Diff(want, props); diff != "" {
		t.Errorf("defaults mismatch (-want +got):\n%s", diff)
	}
}

const annotationXML = `<hs:sec xmlns:hs="urn:hs" xmlns:hp="urn:hp">
<hp:p><hp:run>
  <hp:ctrl><hp:header id="1"><hp:subList><hp:p><hp:run>
    <hp:t>Page </hp:t>
    <hp:ctrl><hp:fieldBegin type="FORMULA"><hp:parameters><hp:integerParam name="Prop">8</hp:integerParam></hp:parameters></hp:fieldBegin></hp:ctrl>
    <hp:t> / </hp:t>
    <hp:ctrl><hp:fieldBegin type="FORMULA"><hp:parameters><hp:integerParam name="Prop">9</hp:integerParam></hp:parameters></hp:fieldBegin></hp:ctrl>
  </hp:run></hp:p></hp:subList></hp:header></hp:ctrl>
  <hp:ctrl><hp:footer applyPageType="ODD"><hp:subList><hp:p><hp:run><hp:t>- </hp:t><hp:ctrl><hp:pageNum pos="BOTTOM_CENTER"/></hp:ctrl><hp:t> -</hp:t></hp:run></hp:p></hp:subList></hp:footer></hp:ctrl>
  <hp:t>본문</hp:t>
  <hp:ctrl><hp:footNote number="1"><hp:subList><hp:p><hp:run><hp:t>각주 내용</hp:t></hp:run></hp:p></hp:subList></hp:footNote></hp:ctrl>
</hp:run></hp:p>
</hs:sec>`

func TestAnnotations(t *testing.T) {
	sec, err := ParseSection([]byte(annotationXML), parser.Options{})
	if err != nil {
		t.Fatal(err)
	}

	hfs := CollectHeadersFooters([]*model.Section{sec})
	if len(hfs) != 2 {
		t.Fatalf("Expected header and footer, got %d", len(hfs))
	}
	if hfs[0].Type != "header" || hfs[0].ApplyPageType != "BOTH" {
		t.Errorf("header = %+v", hfs[0])
	}
	if got := AnnotationText(hfs[0].Paragraphs); got != "Page {{page}} / {{pages}}" {
		t.Errorf("header text = %q", got)
	}
	if hfs[1].Type != "footer" || hfs[1].ApplyPageType != "ODD" {
		t.Errorf("footer = %+v", hfs[1])
	}
	if got := AnnotationText(hfs[1].Paragraphs); got != "- {{page}} -" {
		t.Errorf("footer text = %q", got)
	}

	notes := CollectFootnotes([]*model.Section{sec})
	if len(notes) != 1 || notes[0].Type != "footnote" || notes[0].Number != 1 {
		t.Fatalf("footnotes = %+v", notes)
	}
	if got := AnnotationText(notes[0].Paragraphs); got != "각주 내용" {
		t.Errorf("footnote text = %q", got)
	}

	lines := SectionText(sec)
	if lines[0] != "본문" {
		t.Errorf("first line = %q", lines[0])
	}
}

func TestParseHeaderFooter_Bare(t *testing.T) {
	hf := ParseHeaderFooter(mustGeneric(t, `<footer><p><run><t>x</t></run></p></footer>`))
	if hf == nil || hf.Type != "footer" || len(hf.Paragraphs) != 1 {
		t.Errorf("bare footer = %+v", hf)
	}
	if ParseHeaderFooter(model.NewElement("ctrl")) != nil {
		t.Error("Expected nil for a ctrl without header/footer")
	}
	if ParseFootnote(mustGeneric(t, `<endnote/>`)).Type != "endnote" {
		t.Error("Expected bare endnote")
	}
}

func TestParseField(t *testing.T) {
	tests := []struct {
		name    string
		xml     string
		wantTyp string
		wantURL string
	}{
		{
			name:    "path",
			xml:     `<ctrl><fieldBegin id="10" type="HYPERLINK" name="link"><parameters><stringParam name="Path">https://a.example/x</stringParam><stringParam name="Command">ignored;1</stringParam></parameters></fieldBegin></ctrl>`,
			wantTyp: "HYPERLINK",
			wantURL: "https://a.example/x",
		},
		{
			name:    "command",
			xml:     `<ctrl><fieldBegin type="HYPERLINK"><parameters><stringParam name="Command">https\:\/\/b.example\/y;1;0;0;</stringParam></parameters></fieldBegin></ctrl>`,
			wantTyp: "HYPERLINK",
			wantURL: `https\://b.example/y`,
		},
		{
			name:    "unknown type",
			xml:     `<fieldBegin><parameters/></fieldBegin>`,
			wantTyp: "UNKNOWN",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := ParseField(mustGeneric(t, tt.xml))
			if f == nil {
				t.Fatal("ParseField() = nil")
			}
			if f.Type != tt.wantTyp || f.URL != tt.wantURL {
				t.Errorf("field = %+v", f)
			}
		})
	}

	f := ParseField(mustGeneric(t, tests[0].xml))
	if f.ID != "10" || f.Name != "link" || f.Value != "ignored;1" || len(f.Parameters) != 2 {
		t.Errorf("field = %+v", f)
	}
	if ParseField(model.NewElement("ctrl")) != nil {
		t.Error("Expected nil for ctrl without fieldBegin")
	}

	ref, ok := ParseFieldEnd(mustGeneric(t, `<ctrl><fieldEnd beginIDRef="10"/></ctrl>`))
	if !ok || ref != "10" {
		t.Errorf("ParseFieldEnd() = %q, %v", ref, ok)
	}
	if _, ok := ParseFieldEnd(model.NewElement("ctrl")); ok {
		t.Error("Expected no fieldEnd")
	}
}

func TestCollectFields(t *testing.T) {
	xml := `<sec><p><run>
<ctrl><fieldBegin id="1" type="HYPERLINK"><parameters><stringParam name="Path">u</stringParam></parameters></fieldBegin></ctrl>
<t>link</t><ctrl><fieldEnd beginIDRef="1"/></ctrl>
<tbl><tr><tc><subList><p><run><ctrl><fieldBegin id="2" type="CLICK_HERE"/></ctrl></run></p></subList></tc></tr></tbl>
</run></p></sec>`
	sec, err := ParseSection([]byte(xml), parser.Options{})
	if err != nil {
		t.Fatal(err)
	}
	fields := CollectFields(sec)
	if len(fields) != 2 || fields[0].URL != "u" || fields[1].Type != "CLICK_HERE" {
		t.Errorf("fields = %+v", fields)
	}
}

const headerXML = `<?xml version="1.0" encoding="UTF-8"?>
<hh:head xmlns:hh="urn:hh" xmlns:hc="urn:hc" xmlns:hp="urn:hp" version="1.4" secCnt="2">
  <hh:beginNum page="5" footnote="1" endnote="1" pic="1" tbl="1" equation="1"/>
  <hh:refList>
    <hh:fontfaces itemCnt="1">
      <hh:fontface lang="HANGUL" fontCnt="1"><hh:font id="0" face="맑은 고딕" type="TTF" isEmbedded="0"/></hh:fontface>
    </hh:fontfaces>
    <hh:borderFills itemCnt="1"><hh:borderFill id="1" threeD="0"/></hh:borderFills>
    <hh:charProperties itemCnt="1">
      <hh:charPr id="0" height="1000" textColor="#000000"><hh:underline type="NONE"/><hh:strikeout shape="NONE"/></hh:charPr>
    </hh:charProperties>
    <hh:charProperties itemCnt="1">
      <hh:charPr id="1" height="1200" textColor="#FF0000"><hh:bold/><hh:underline type="BOTTOM"/><hh:strikeout shape="SOLID"/></hh:charPr>
    </hh:charProperties>
    <hh:tabProperties itemCnt="1"><hh:tabPr id="0"/></hh:tabProperties>
    <hh:paraProperties itemCnt="1">
      <hh:paraPr id="0"><hh:align horizontal="JUSTIFY" vertical="BASELINE"/><hh:heading type="OUTLINE" idRef="0" level="1"/>
        <hp:switch><hp:case><hh:margin><hc:intent value="-1000"/><hc:left value="2000"/><hc:right value="0"/><hc:prev value="0"/><hc:next value="300"/></hh:margin><hh:lineSpacing type="PERCENT" value="160"/></hp:case></hp:switch>
      </hh:paraPr>
    </hh:paraProperties>
    <hh:styles itemCnt="1"><hh:style id="0" type="PARA" name="바탕글" engName="Normal" paraPrIDRef="0" charPrIDRef="0" nextStyleIDRef="0"/></hh:styles>
    <hh:memoProperties itemCnt="0"/>
  </hh:refList>
  <hh:compatibleDocument targetProgram="HWP201X"/>
</hh:head>`

func TestParseHeader(t *testing.T) {
	h, err := ParseHeader([]byte(headerXML), parser.Options{})
	if err != nil {
		t.Fatalf("ParseHeader() error = %v", err)
	}
	if h.Version != "1.4" || h.SecCnt != 2 || h.BeginNum.Page != 5 || h.BeginNum.Tbl != 1 {
		t.Errorf("header = %+v", h)
	}

	rl := h.RefList
	if len(rl.FontFaces) != 1 || rl.FontFaces[0].Lang != "HANGUL" || rl.FontFaces[0].Fonts[0].Face != "맑은 고딕" {
		t.Errorf("fontfaces = %+v", rl.FontFaces)
	}
	if len(rl.CharProperties) != 2 {
		t.Fatalf("Expected char properties from both containers, got %d", len(rl.CharProperties))
	}
	plain, bold := rl.CharProperties[0], rl.CharProperties[1]
	if plain.Bold || plain.Underline || plain.Strikeout {
		t.Errorf("plain charPr = %+v", plain)
	}
	if !bold.Bold || bold.Italic || !bold.Underline || !bold.Strikeout || bold.TextColor != "#FF0000" || bold.Height != 1200 {
		t.Errorf("bold charPr = %+v", bold)
	}

	pp := rl.ParaProperties[0]
	if pp.Align != "JUSTIFY" || pp.HeadingType != "OUTLINE" {
		t.Errorf("paraPr = %+v", pp)
	}
	if diff := cmp.Diff(&model.LineSpacing{Type: "PERCENT", Value: 160}, pp.LineSpacing); diff != "" {
		t.Errorf("line spacing mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(&model.ParaMargin{Left: 2000, Indent: -1000, Next: 300}, pp.Margin); diff != "" {
		t.Errorf("margin mismatch (-want +got):\n%s", diff)
	}

	st := rl.Styles[0]
	if st.Name != "바탕글" || st.EngName != "Normal" || *st.ParaPrIDRef != 0 || st.NextStyleIDRef == nil {
		t.Errorf("style = %+v", st)
	}
	if len(rl.BorderFills) != 1 || len(rl.TabProperties) != 1 {
		t.Errorf("borderFills=%d tabProperties=%d", len(rl.BorderFills), len(rl.TabProperties))
	}
	if len(rl.Others) != 1 || rl.Others[0].Tag != "memoProperties" {
		t.Errorf("others = %+v", rl.Others)
	}
	if len(h.Extra) != 1 || h.Extra[0].Tag != "compatibleDocument" {
		t.Errorf("extra = %+v", h.Extra)
	}
}

func TestParseHeader_Malformed(t *testing.T) {
	if _, err := ParseHeader([]byte("<hh:head>"), parser.Options{}); err == nil {
		t.Error("Expected error for malformed header")
	}
}
