package model

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/multierr"
)

func TestAttrs_Set(t *testing.T) {
	attrs := AttrsOf("id", "1", "name", "a")
	attrs.Set("name", "b")
	attrs.Set("type", "PARA")

	want := Attrs{{"id", "1"}, {"name", "b"}, {"type", "PARA"}}
	if diff := cmp.Diff(want, attrs); diff != "" {
		t.Errorf("attrs mismatch (-want +got):\n%s", diff)
	}
	if v, ok := attrs.Lookup("missing"); ok || v != "" {
		t.Errorf("Lookup(missing) = %q, %v", v, ok)
	}
	if !attrs.Has("type") || attrs.Get("id") != "1" {
		t.Errorf("unexpected attrs %v", attrs)
	}

	// 홀수 개 인자는 마지막 키를 버린다
	if got := AttrsOf("a", "1", "b"); len(got) != 1 {
		t.Errorf("AttrsOf with odd args = %v", got)
	}
}

func TestAttrs_Clone(t *testing.T) {
	if Attrs(nil).Clone() != nil {
		t.Error("Expected nil clone of nil attrs")
	}
	orig := AttrsOf("id", "1")
	c := orig.Clone()
	c.Set("id", "2")
	if orig.Get("id") != "1" {
		t.Errorf("clone shares storage: orig id = %s", orig.Get("id"))
	}
}

func TestGenericElement_Clone(t *testing.T) {
	orig := NewElement("tbl", "rowCnt", "1").Append(
		NewElement("tr").Append(NewTextElement("t", "셀")),
	)
	c := orig.Clone()
	if diff := cmp.Diff(orig, c); diff != "" {
		t.Fatalf("clone mismatch (-orig +clone):\n%s", diff)
	}

	*c.Children[0].Children[0].Text = "변경"
	c.Children[0].Attrs.Set("id", "9")
	if orig.Children[0].Children[0].TextValue() != "셀" || orig.Children[0].Attrs.Has("id") {
		t.Error("deep clone shares state with the original")
	}
	if (*GenericElement)(nil).Clone() != nil {
		t.Error("Expected nil clone of nil element")
	}
}

func TestGenericElement_Navigation(t *testing.T) {
	el := NewElement("hp:pic").Append(
		NewElement("hc:img", "binaryItemIDRef", "image1"),
		nil,
		NewElement("sz"),
		NewElement("hc:img"),
	)

	if el.LocalTag() != "pic" {
		t.Errorf("LocalTag() = %s", el.LocalTag())
	}
	if got := el.Child("img").Attr("binaryItemIDRef"); got != "image1" {
		t.Errorf("Child(img) ref = %q", got)
	}
	if n := len(el.ChildrenByTag("img")); n != 2 {
		t.Errorf("Expected 2 img children, got %d", n)
	}

	var tags []string
	el.Walk(func(e *GenericElement) bool {
		tags = append(tags, e.LocalTag())
		return true
	})
	if diff := cmp.Diff([]string{"pic", "img", "sz", "img"}, tags); diff != "" {
		t.Errorf("walk order mismatch (-want +got):\n%s", diff)
	}

	var nilEl *GenericElement
	if nilEl.LocalTag() != "" || nilEl.Attr("x") != "" || nilEl.Child("x") != nil || nilEl.TextValue() != "" {
		t.Error("nil element accessors must return zero values")
	}
}

func TestUnits(t *testing.T) {
	tests := []struct {
		name string
		got  float64
		want float64
	}{
		{"inch in mm", HWPUnitToMm(HWPUnitPerInch), 25.4},
		{"A4 width", HWPUnitToMm(A4WidthHU), 210},
		{"A4 height", HWPUnitToMm(A4HeightHU), 297},
		{"point", HWPUnitToPt(1000), 10},
		{"font height", FontHeightToPt(1600), 16},
	}
	for _, tt := range tests {
		if math.Abs(tt.got-tt.want) > 0.01 {
			t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
		}
	}

	if got := MmToHWPUnit(25.4); got != HWPUnitPerInch {
		t.Errorf("MmToHWPUnit(25.4) = %d", got)
	}
	if got := MmToHWPUnit(HWPUnitToMm(59528)); got != 59528 {
		t.Errorf("mm round trip = %d", got)
	}
}

func TestParseHelpers(t *testing.T) {
	boolTests := []struct {
		in   string
		want bool
	}{
		{"1", true},
		{"true", true},
		{"TRUE", true},
		{"0", false},
		{"", false},
		{"yes", false},
	}
	for _, tt := range boolTests {
		if got := ParseBool(tt.in); got != tt.want {
			t.Errorf("ParseBool(%q) = %v", tt.in, got)
		}
	}
	if FormatBool(true) != "1" || FormatBool(false) != "0" {
		t.Error("FormatBool must write 1/0")
	}

	intTests := []struct {
		in   string
		want int
	}{
		{"42", 42},
		{" 7 ", 7},
		{"-3", -3},
		{"", -1},
		{"abc", -1},
	}
	for _, tt := range intTests {
		if got := ParseIntDefault(tt.in, -1); got != tt.want {
			t.Errorf("ParseIntDefault(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
	if ParseIntPtr("5", false) != nil {
		t.Error("Expected nil for an absent attribute")
	}
	if p := ParseIntPtr("5", true); p == nil || *p != 5 {
		t.Errorf("ParseIntPtr(5) = %v", p)
	}
}

func TestWarningCollector(t *testing.T) {
	var nilCollector *WarningCollector
	nilCollector.Add(WarnDepthLimit, "ignored", "", SeverityWarn)
	if nilCollector.Count() != 0 || nilCollector.Warnings() != nil || nilCollector.HasCode(WarnDepthLimit) {
		t.Error("nil collector must discard warnings")
	}

	w := NewWarningCollector(nil)
	w.Add(WarnRecordTruncated, "short", "BodyText/Section0", "")
	w.Add(WarnInvalidRef, "dangling", "", SeverityError)

	if w.Count() != 2 || !w.HasCode(WarnInvalidRef) || w.HasCode(WarnDecompress) {
		t.Errorf("warnings = %+v", w.Warnings())
	}
	got := w.Warnings()
	if got[0].Severity != SeverityWarn {
		t.Errorf("default severity = %q", got[0].Severity)
	}
	got[0].Code = "changed"
	if w.Warnings()[0].Code != WarnRecordTruncated {
		t.Error("Warnings() must return a copy")
	}
}

// refHeader declares charPr 0-1, paraPr 0, style 0 and borderFill 1.
func refHeader() *DocumentHeader {
	return &DocumentHeader{RefList: RefList{
		CharProperties: []CharProperty{{ID: 0}, {ID: 1}},
		ParaProperties: []ParaProperty{{ID: 0}},
		Styles:         []Style{{ID: 0}},
		BorderFills:    []*GenericElement{NewElement("borderFill", "id", "1")},
	}}
}

func refParagraph(charPr, paraPr int, children ...RunChild) *Paragraph {
	return &Paragraph{
		ParaPrIDRef: IntPtr(paraPr),
		StyleIDRef:  IntPtr(0),
		Runs:        []*Run{{CharPrIDRef: IntPtr(charPr), Children: children}},
	}
}

func TestValidateRefs(t *testing.T) {
	emptyChars := refHeader()
	emptyChars.RefList.CharProperties = nil

	tests := []struct {
		name     string
		header   *DocumentHeader
		sections []*Section
		want     []string
	}{
		{
			name:     "valid",
			header:   refHeader(),
			sections: []*Section{{Paragraphs: []*Paragraph{refParagraph(1, 0, TextChild("a"))}}},
		},
		{
			name:     "nil header",
			sections: []*Section{{Paragraphs: []*Paragraph{refParagraph(42, 42)}}},
		},
		{
			name:     "nil section and paragraph",
			header:   refHeader(),
			sections: []*Section{nil, {Paragraphs: []*Paragraph{nil, {Runs: []*Run{nil}}}}},
		},
		{
			name:     "dangling charPr and paraPr",
			header:   refHeader(),
			sections: []*Section{{Paragraphs: []*Paragraph{refParagraph(5, 3)}}},
			want:     []string{"paraPrIDRef=3", "charPrIDRef=5"},
		},
		{
			name:     "empty table has no valid ids",
			header:   emptyChars,
			sections: []*Section{{Paragraphs: []*Paragraph{refParagraph(42, 0)}}},
			want:     []string{"section0/p[0]/run[0] charPrIDRef=42"},
		},
		{
			name:   "nested element",
			header: refHeader(),
			sections: []*Section{{Paragraphs: []*Paragraph{refParagraph(0, 0,
				ElementChild(KindTable, "", NewElement("tbl", "borderFillIDRef", "1").Append(
					NewElement("tc", "borderFillIDRef", "7"),
				)),
			)}}},
			want: []string{"run[0]/tbl borderFillIDRef=7"},
		},
		{
			name:   "hidden comment",
			header: refHeader(),
			sections: []*Section{{Paragraphs: []*Paragraph{refParagraph(0, 0,
				HiddenCommentChild([]*Paragraph{refParagraph(9, 0)}),
			)}}},
			want: []string{"hiddenComment/p[0]/run[0] charPrIDRef=9"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRefs(tt.header, tt.sections)
			errs := multierr.Errors(err)
			if len(errs) != len(tt.want) {
				t.Fatalf("ValidateRefs() = %v, want %d errors", err, len(tt.want))
			}
			for i, e := range errs {
				if !errors.Is(e, ErrInvalidRef) {
					t.Errorf("error %d = %v, want ErrInvalidRef", i, e)
				}
				if !strings.Contains(e.Error(), tt.want[i]) {
					t.Errorf("error %d = %v, want it to mention %q", i, e, tt.want[i])
				}
			}
		})
	}
}
