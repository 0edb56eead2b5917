package hwpx

import (
	"strings"

	"github.com/roboco-io/handoc/internal/model"
)

// HeaderFooter is a page header or footer control.
type HeaderFooter struct {
	Type          string // "header" or "footer"
	ApplyPageType string // BOTH, EVEN, ODD
	Paragraphs    []*model.Paragraph
}

// Footnote is a footnote or endnote control.
type Footnote struct {
	Type       string // "footnote" or "endnote"
	Number     int
	Paragraphs []*model.Paragraph
}

// Placeholders substituted for page-number fields.
const (
	PagePlaceholder  = "{{page}}"
	PagesPlaceholder = "{{pages}}"
)

// findWrapped returns el itself when its tag is one of tags, or its first
// child with one of those tags.
func findWrapped(el *model.GenericElement, tags ...string) *model.GenericElement {
	if el == nil {
		return nil
	}
	for _, tag := range tags {
		if c := el.Child(tag); c != nil {
			return c
		}
	}
	for _, tag := range tags {
		if el.LocalTag() == tag {
			return el
		}
	}
	return nil
}

// subListParagraphs decodes the paragraphs of an annotation body, with or
// without the subList wrapper.
func subListParagraphs(el *model.GenericElement) []*model.Paragraph {
	if sub := el.Child("subList"); sub != nil {
		return paragraphsIn(sub)
	}
	return paragraphsIn(el)
}

// ParseHeaderFooter decodes a header/footer given either the wrapping ctrl
// or the header/footer element itself. It returns nil for anything else.
func ParseHeaderFooter(el *model.GenericElement) *HeaderFooter {
	hf := findWrapped(el, "header", "footer")
	if hf == nil {
		return nil
	}
	apply := hf.Attr("applyPageType")
	if apply == "" {
		apply = "BOTH"
	}
	return &HeaderFooter{
		Type:          hf.LocalTag(),
		ApplyPageType: apply,
		Paragraphs:    subListParagraphs(hf),
	}
}

// ParseFootnote decodes a footnote/endnote, wrapped in ctrl or bare.
func ParseFootnote(el *model.GenericElement) *Footnote {
	fn := findWrapped(el, "footNote", "endNote", "footnote", "endnote")
	if fn == nil {
		return nil
	}
	return &Footnote{
		Type:       strings.ToLower(fn.LocalTag()),
		Number:     model.ParseIntDefault(fn.Attr("number"), 0),
		Paragraphs: subListParagraphs(fn),
	}
}

// eachCtrl calls fn for every ctrl run child of the sections' top-level
// paragraphs.
func eachCtrl(sections []*model.Section, fn func(*model.GenericElement)) {
	for _, sec := range sections {
		if sec == nil {
			continue
		}
		for _, p := range sec.Paragraphs {
			for _, c := range p.RunChildren() {
				if c.Kind == model.KindCtrl && c.Element != nil {
					fn(c.Element)
				}
			}
		}
	}
}

// CollectHeadersFooters returns every header and footer in document order.
func CollectHeadersFooters(sections []*model.Section) []*HeaderFooter {
	var out []*HeaderFooter
	eachCtrl(sections, func(el *model.GenericElement) {
		if hf := ParseHeaderFooter(el); hf != nil {
			out = append(out, hf)
		}
	})
	return out
}

// CollectFootnotes returns every footnote and endnote in document order.
func CollectFootnotes(sections []*model.Section) []*Footnote {
	var out []*Footnote
	eachCtrl(sections, func(el *model.GenericElement) {
		if fn := ParseFootnote(el); fn != nil {
			out = append(out, fn)
		}
	})
	return out
}

// AnnotationText flattens annotation paragraphs to text. FORMULA fields with
// Prop 8 and 9 and pageNum controls become page-number placeholders.
func AnnotationText(paras []*model.Paragraph) string {
	var sb strings.Builder
	for _, p := range paras {
		for _, c := range p.RunChildren() {
			switch c.Kind {
			case model.KindText:
				sb.WriteString(c.Text)
			case model.KindCtrl:
				sb.WriteString(pagePlaceholder(c.Element))
			}
		}
	}
	return sb.String()
}

func pagePlaceholder(ctrl *model.GenericElement) string {
	if fb := ctrl.Child("fieldBegin"); fb != nil && fb.Attr("type") == "FORMULA" {
		var prop string
		for _, param := range paramsOf(fb) {
			if param.Attr("name") == "Prop" {
				prop = param.TextValue()
				if param.Text == nil {
					prop = param.Attr("value")
				}
				break
			}
		}
		switch prop {
		case "8":
			return PagePlaceholder
		case "9":
			return PagesPlaceholder
		}
	}
	if ctrl.Child("pageNum") != nil {
		return PagePlaceholder
	}
	return ""
}
