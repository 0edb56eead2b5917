package hwpx

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"

	"github.com/roboco-io/handoc/internal/model"
	"github.com/roboco-io/handoc/internal/parser"
)

// runChildKinds is the fixed tag → category table for run children. Tags
// not listed decode as inline objects.
var runChildKinds = map[string]model.RunChildKind{
	"t":        model.KindText,
	"secPr":    model.KindSecPr,
	"ctrl":     model.KindCtrl,
	"tbl":      model.KindTable,
	"equation": model.KindEquation,

	// 도형
	"line":          model.KindShape,
	"rect":          model.KindShape,
	"ellipse":       model.KindShape,
	"arc":           model.KindShape,
	"polyline":      model.KindShape,
	"polygon":       model.KindShape,
	"curve":         model.KindShape,
	"connectLine":   model.KindShape,
	"shape":         model.KindShape,
	"drawingObject": model.KindShape,
	"container":     model.KindShape,
	"textart":       model.KindShape,

	// 인라인 개체
	"picture": model.KindInlineObject,
	"pic":     model.KindInlineObject,
	"ole":     model.KindInlineObject,
	"chart":   model.KindInlineObject,
	"video":   model.KindInlineObject,
	"audio":   model.KindInlineObject,

	// 변경 추적
	"insertBegin": model.KindTrackChange,
	"insertEnd":   model.KindTrackChange,
	"deleteBegin": model.KindTrackChange,
	"deleteEnd":   model.KindTrackChange,

	"hiddenComment": model.KindHiddenComment,
	"HIDDENCOMMENT": model.KindHiddenComment,
}

// textInlineTags are the run children HWPX places inside <t> rather than
// beside it.
var textInlineTags = map[string]bool{
	"tab":          true,
	"lineBreak":    true,
	"hyphen":       true,
	"nbSpace":      true,
	"fwSpace":      true,
	"titleMark":    true,
	"markpenBegin": true,
	"markpenEnd":   true,
	"insertBegin":  true,
	"insertEnd":    true,
	"deleteBegin":  true,
	"deleteEnd":    true,
}

// CategoryOf maps a run-child tag (prefix ignored) to the RunChild kind it
// decodes into. Unknown tags map to KindInlineObject.
func CategoryOf(tag string) model.RunChildKind {
	if k, ok := runChildKinds[model.LocalName(tag)]; ok {
		return k
	}
	return model.KindInlineObject
}

// IsTextInline reports whether a run child is written inside <hp:t>.
func IsTextInline(c model.RunChild) bool {
	switch c.Kind {
	case model.KindTrackChange:
		return textInlineTags[c.Mark]
	case model.KindInlineObject:
		return c.Element != nil && textInlineTags[c.Element.LocalTag()]
	}
	return false
}

// DecodeRunChild decodes one run child. v may be an *etree.Element, a
// *model.GenericElement, a primitive, or nil; tag names the element when v
// does not carry one. It always returns at least one RunChild.
func DecodeRunChild(tag string, v any) []model.RunChild {
	d := &decoder{maxDepth: parser.DefaultMaxDepth}
	return d.runChild(elementOf(tag, v), 0)
}

// elementOf normalizes any value into an element named tag.
func elementOf(tag string, v any) *etree.Element {
	var el *etree.Element
	switch x := v.(type) {
	case *etree.Element:
		if x != nil {
			el = x
		}
	case *model.GenericElement:
		if x != nil {
			el = toEtree(x)
		}
	case nil:
	case string:
		el = etree.NewElement(tag)
		if x != "" {
			el.CreateText(x)
		}
	default:
		el = etree.NewElement(tag)
		el.CreateText(fmt.Sprint(x))
	}
	if el == nil {
		el = etree.NewElement(tag)
	}
	if el.Tag == "" {
		el.Tag = model.LocalName(tag)
	}
	return el
}

func (d *decoder) runChild(el *etree.Element, depth int) []model.RunChild {
	tag := el.Tag
	switch CategoryOf(tag) {
	case model.KindText:
		return d.text(el, depth)
	case model.KindSecPr, model.KindCtrl, model.KindTable, model.KindEquation:
		return []model.RunChild{model.ElementChild(CategoryOf(tag), "", d.generic(el, depth))}
	case model.KindShape:
		return []model.RunChild{model.ElementChild(model.KindShape, tag, d.generic(el, depth))}
	case model.KindTrackChange:
		return []model.RunChild{trackChange(el)}
	case model.KindHiddenComment:
		return []model.RunChild{model.HiddenCommentChild(d.hiddenComment(el, depth))}
	default:
		return []model.RunChild{model.ElementChild(model.KindInlineObject, tag, d.generic(el, depth))}
	}
}

// text decodes <t>. Character data and nested elements are kept in document
// order; an empty <t/> yields one empty text child.
func (d *decoder) text(el *etree.Element, depth int) []model.RunChild {
	var out []model.RunChild
	var pending strings.Builder
	flush := func() {
		if pending.Len() > 0 {
			out = append(out, model.TextChild(pending.String()))
			pending.Reset()
		}
	}
	for _, tok := range el.Child {
		switch t := tok.(type) {
		case *etree.CharData:
			pending.WriteString(t.Data)
		case *etree.Element:
			flush()
			out = append(out, d.runChild(t, depth+1)...)
		}
	}
	flush()
	if len(out) == 0 {
		out = append(out, model.TextChild(""))
	}
	return out
}

func trackChange(el *etree.Element) model.RunChild {
	tc := model.TrackChangeChild(el.Tag)
	tc.TrackID = model.ParseIntPtr(attr(el, "Id"))
	tc.TcID = model.ParseIntPtr(attr(el, "TcId"))
	if v, ok := attr(el, "paraend"); ok {
		tc.ParaEnd = model.BoolPtr(v == "1")
	}
	return tc
}

// hiddenComment collects the paragraphs of a hidden comment, either direct
// <p> children or the ones wrapped in <subList>.
func (d *decoder) hiddenComment(el *etree.Element, depth int) []*model.Paragraph {
	var paras []*model.Paragraph
	for _, c := range el.ChildElements() {
		switch c.Tag {
		case "p":
			paras = append(paras, d.paragraph(c, depth+1))
		case "subList":
			for _, p := range c.SelectElements("p") {
				paras = append(paras, d.paragraph(p, depth+2))
			}
		}
	}
	return paras
}

func (d *decoder) run(el *etree.Element, depth int) *model.Run {
	r := &model.Run{
		CharPrIDRef: model.ParseIntPtr(attr(el, "charPrIDRef")),
		Children:    []model.RunChild{},
	}
	for _, c := range el.ChildElements() {
		r.Children = append(r.Children, d.runChild(c, depth+1)...)
	}
	return r
}

func lineSeg(el *etree.Element) model.LineSeg {
	get := func(k string) int {
		v, _ := attr(el, k)
		return model.ParseIntDefault(v, 0)
	}
	return model.LineSeg{
		TextPos:    get("textpos"),
		VertPos:    get("vertpos"),
		VertSize:   get("vertsize"),
		TextHeight: get("textheight"),
		Baseline:   get("baseline"),
		Spacing:    get("spacing"),
		HorzPos:    get("horzpos"),
		HorzSize:   get("horzsize"),
		Flags:      get("flags"),
	}
}

func (d *decoder) paragraph(el *etree.Element, depth int) *model.Paragraph {
	p := &model.Paragraph{Runs: []*model.Run{}}
	if depth > d.maxDepth {
		d.warn.Add(model.WarnDepthLimit, "paragraph nesting exceeds depth limit", d.path, model.SeverityWarn)
		return p
	}
	if v, ok := attr(el, "id"); ok {
		p.ID = model.StringPtr(v)
	}
	p.ParaPrIDRef = model.ParseIntPtr(attr(el, "paraPrIDRef"))
	p.StyleIDRef = model.ParseIntPtr(attr(el, "styleIDRef"))
	flag := func(k string) bool {
		v, _ := attr(el, k)
		return model.ParseBool(v)
	}
	p.PageBreak = flag("pageBreak")
	p.ColumnBreak = flag("columnBreak")
	p.Merged = flag("merged")

	for _, c := range el.ChildElements() {
		switch c.Tag {
		case "run":
			p.Runs = append(p.Runs, d.run(c, depth+1))
		case "linesegarray":
			for _, seg := range c.SelectElements("lineseg") {
				p.LineSegs = append(p.LineSegs, lineSeg(seg))
			}
		default:
			p.Extra = append(p.Extra, d.generic(c, depth+1))
		}
	}
	return p
}

// ParagraphFromElement decodes a paragraph stored as a GenericElement, as
// found inside table cells, shapes and annotations.
func ParagraphFromElement(el *model.GenericElement) *model.Paragraph {
	d := &decoder{maxDepth: parser.DefaultMaxDepth}
	return d.paragraph(toEtree(el), 0)
}

// paragraphsIn decodes every <p> child of el.
func paragraphsIn(el *model.GenericElement) []*model.Paragraph {
	var out []*model.Paragraph
	for _, c := range el.ChildrenByTag("p") {
		out = append(out, ParagraphFromElement(c))
	}
	return out
}

// ParagraphToElement is the inverse of ParagraphFromElement. Tags carry the
// hp prefix. Text children become one <hp:t> each so that no two texts merge
// on re-read.
func ParagraphToElement(p *model.Paragraph) *model.GenericElement {
	el := model.NewElement("hp:p")
	if p.ID != nil {
		el.Attrs.Set("id", *p.ID)
	}
	if p.ParaPrIDRef != nil {
		el.Attrs.Set("paraPrIDRef", fmt.Sprint(*p.ParaPrIDRef))
	}
	if p.StyleIDRef != nil {
		el.Attrs.Set("styleIDRef", fmt.Sprint(*p.StyleIDRef))
	}
	el.Attrs.Set("pageBreak", model.FormatBool(p.PageBreak))
	el.Attrs.Set("columnBreak", model.FormatBool(p.ColumnBreak))
	el.Attrs.Set("merged", model.FormatBool(p.Merged))

	for _, r := range p.Runs {
		run := model.NewElement("hp:run")
		if r.CharPrIDRef != nil {
			run.Attrs.Set("charPrIDRef", fmt.Sprint(*r.CharPrIDRef))
		}
		for _, c := range r.Children {
			run.Append(RunChildToElement(c))
		}
		el.Append(run)
	}
	if len(p.LineSegs) > 0 {
		el.Append(LineSegArrayElement(p.LineSegs))
	}
	for _, x := range p.Extra {
		el.Append(x.Clone())
	}
	return el
}

// RunChildToElement renders one run child as a standalone element.
func RunChildToElement(c model.RunChild) *model.GenericElement {
	switch c.Kind {
	case model.KindText:
		return model.NewTextElement("hp:t", c.Text)
	case model.KindTrackChange:
		return TrackChangeElement(c)
	case model.KindHiddenComment:
		hc := model.NewElement("hp:hiddenComment")
		sub := model.NewElement("hp:subList")
		for _, p := range c.Paragraphs {
			sub.Append(ParagraphToElement(p))
		}
		return hc.Append(sub)
	default:
		if c.Element == nil {
			name := c.Name
			if name == "" {
				name = string(c.Kind)
			}
			return model.NewElement(name)
		}
		return c.Element.Clone()
	}
}

// TrackChangeElement renders a track-change mark with its attributes.
func TrackChangeElement(c model.RunChild) *model.GenericElement {
	el := model.NewElement("hp:" + c.Mark)
	if c.TrackID != nil {
		el.Attrs.Set("Id", fmt.Sprint(*c.TrackID))
	}
	if c.TcID != nil {
		el.Attrs.Set("TcId", fmt.Sprint(*c.TcID))
	}
	if c.ParaEnd != nil {
		el.Attrs.Set("paraend", model.FormatBool(*c.ParaEnd))
	}
	return el
}

// LineSegArrayElement renders cached layout segments.
func LineSegArrayElement(segs []model.LineSeg) *model.GenericElement {
	arr := model.NewElement("hp:linesegarray")
	for _, ls := range segs {
		arr.Append(model.NewElement("hp:lineseg",
			"textpos", fmt.Sprint(ls.TextPos),
			"vertpos", fmt.Sprint(ls.VertPos),
			"vertsize", fmt.Sprint(ls.VertSize),
			"textheight", fmt.Sprint(ls.TextHeight),
			"baseline", fmt.Sprint(ls.Baseline),
			"spacing", fmt.Sprint(ls.Spacing),
			"horzpos", fmt.Sprint(ls.HorzPos),
			"horzsize", fmt.Sprint(ls.HorzSize),
			"flags", fmt.Sprint(ls.Flags),
		))
	}
	return arr
}
