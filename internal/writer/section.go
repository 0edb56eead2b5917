package writer

import (
	"strconv"

	"github.com/beevik/etree"

	"github.com/roboco-io/handoc/internal/model"
	"github.com/roboco-io/handoc/internal/parser/hwpx"
)

// WriteSection serializes a section to sectionN.xml.
func WriteSection(sec *model.Section) []byte {
	doc := newDocument()
	root := etree.NewElement("hs:sec")
	declareNamespaces(root, model.SectionNamespaces)
	if sec != nil {
		for _, p := range sec.Paragraphs {
			if p != nil {
				root.AddChild(paragraphTree(p))
			}
		}
	}
	doc.SetRoot(root)
	return serialize(doc)
}

// paragraphTree renders one hp:p.
func paragraphTree(p *model.Paragraph) *etree.Element {
	el := etree.NewElement("hp:p")
	if p.ID != nil {
		el.CreateAttr("id", *p.ID)
	}
	if p.ParaPrIDRef != nil {
		el.CreateAttr("paraPrIDRef", strconv.Itoa(*p.ParaPrIDRef))
	}
	if p.StyleIDRef != nil {
		el.CreateAttr("styleIDRef", strconv.Itoa(*p.StyleIDRef))
	}
	el.CreateAttr("pageBreak", model.FormatBool(p.PageBreak))
	el.CreateAttr("columnBreak", model.FormatBool(p.ColumnBreak))
	el.CreateAttr("merged", model.FormatBool(p.Merged))

	for _, r := range p.Runs {
		if r != nil {
			el.AddChild(runTree(r))
		}
	}
	if len(p.LineSegs) > 0 {
		el.AddChild(GenericTree(hwpx.LineSegArrayElement(p.LineSegs), PrefixParagraph))
	}
	for _, x := range p.Extra {
		el.AddChild(GenericTree(x, PrefixParagraph))
	}
	return el
}

// runTree renders one hp:run. Text and the marks HWPX keeps inside <t>
// share a single hp:t until something else intervenes. Two texts are never
// adjacent in one hp:t, since a reader would merge them.
func runTree(r *model.Run) *etree.Element {
	run := etree.NewElement("hp:run")
	if r.CharPrIDRef != nil {
		run.CreateAttr("charPrIDRef", strconv.Itoa(*r.CharPrIDRef))
	}

	var t *etree.Element
	lastText := false
	for _, c := range r.Children {
		switch {
		case c.Kind == model.KindText && c.Text == "":
			run.CreateElement("hp:t")
			t, lastText = nil, false
		case c.Kind == model.KindText:
			if t == nil || lastText {
				t = run.CreateElement("hp:t")
			}
			t.CreateText(c.Text)
			lastText = true
		case hwpx.IsTextInline(c):
			if t == nil {
				t = run.CreateElement("hp:t")
			}
			t.AddChild(runChildTree(c))
			lastText = false
		default:
			run.AddChild(runChildTree(c))
			t, lastText = nil, false
		}
	}
	return run
}

// runChildTree renders a non-text run child.
func runChildTree(c model.RunChild) *etree.Element {
	switch c.Kind {
	case model.KindTrackChange:
		return GenericTree(hwpx.TrackChangeElement(c), PrefixParagraph)
	case model.KindHiddenComment:
		hc := etree.NewElement("hp:hiddenComment")
		sub := hc.CreateElement("hp:subList")
		for _, p := range c.Paragraphs {
			if p != nil {
				sub.AddChild(paragraphTree(p))
			}
		}
		return hc
	}
	if c.Element == nil {
		return GenericTree(hwpx.RunChildToElement(c), PrefixParagraph)
	}
	switch c.Kind {
	case model.KindShape:
		return shapeTree(c.Element)
	case model.KindEquation:
		return equationTree(c.Element)
	}
	return GenericTree(c.Element, PrefixParagraph)
}

// shapeTree writes a drawing object. Paragraphs inside drawText are
// decoded and rewritten so their text keeps the run layout; everything else
// goes through the generic writer.
func shapeTree(el *model.GenericElement) *etree.Element {
	out := shell(el)
	for _, c := range el.Children {
		if c == nil {
			continue
		}
		if c.LocalTag() == "drawText" {
			out.AddChild(drawTextTree(c))
			continue
		}
		out.AddChild(GenericTree(c, PrefixParagraph))
	}
	return out
}

func drawTextTree(el *model.GenericElement) *etree.Element {
	out := shell(el)
	for _, c := range el.Children {
		if c == nil {
			continue
		}
		switch c.LocalTag() {
		case "subList":
			out.AddChild(subListTree(c))
		case "p":
			out.AddChild(paragraphTree(hwpx.ParagraphFromElement(c)))
		default:
			out.AddChild(GenericTree(c, PrefixParagraph))
		}
	}
	return out
}

func subListTree(el *model.GenericElement) *etree.Element {
	out := shell(el)
	for _, c := range el.Children {
		if c == nil {
			continue
		}
		if c.LocalTag() == "p" {
			out.AddChild(paragraphTree(hwpx.ParagraphFromElement(c)))
			continue
		}
		out.AddChild(GenericTree(c, PrefixParagraph))
	}
	return out
}

// equationTree writes hp:equation with its children as given. The builder
// always supplies hp:script; a parsed equation without one stays without.
func equationTree(el *model.GenericElement) *etree.Element {
	out := shell(el)
	for _, c := range el.Children {
		if c != nil {
			out.AddChild(GenericTree(c, PrefixParagraph))
		}
	}
	return out
}

// shell creates the element for el with its attributes but no children.
func shell(el *model.GenericElement) *etree.Element {
	tag := el.Tag
	if tag == "" {
		tag = "unknown"
	}
	out := etree.NewElement(qualify(tag, PrefixParagraph))
	for _, a := range el.Attrs {
		out.CreateAttr(a.Key, a.Value)
	}
	return out
}
