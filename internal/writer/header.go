package writer

import (
	"strconv"

	"github.com/beevik/etree"

	"github.com/roboco-io/handoc/internal/model"
)

// WriteHeader serializes the document header to header.xml. The refList
// containers are written in the order Hangul expects and carry itemCnt.
func WriteHeader(h *model.DocumentHeader) []byte {
	if h == nil {
		h = &model.DocumentHeader{SecCnt: 1, BeginNum: model.DefaultBeginNum()}
	}
	doc := newDocument()
	head := etree.NewElement("hh:head")
	declareNamespaces(head, model.HeaderNamespaces)
	version := h.Version
	if version == "" {
		version = "1.5"
	}
	head.CreateAttr("version", version)
	head.CreateAttr("secCnt", strconv.Itoa(h.SecCnt))

	bn := head.CreateElement("hh:beginNum")
	bn.CreateAttr("page", strconv.Itoa(h.BeginNum.Page))
	bn.CreateAttr("footnote", strconv.Itoa(h.BeginNum.Footnote))
	bn.CreateAttr("endnote", strconv.Itoa(h.BeginNum.Endnote))
	bn.CreateAttr("pic", strconv.Itoa(h.BeginNum.Pic))
	bn.CreateAttr("tbl", strconv.Itoa(h.BeginNum.Tbl))
	bn.CreateAttr("equation", strconv.Itoa(h.BeginNum.Equation))

	head.AddChild(refListTree(&h.RefList))
	for _, x := range h.Extra {
		head.AddChild(GenericTree(x, PrefixHead))
	}

	doc.SetRoot(head)
	return serialize(doc)
}

func refListTree(rl *model.RefList) *etree.Element {
	el := etree.NewElement("hh:refList")

	if len(rl.FontFaces) > 0 {
		ffs := container(el, "hh:fontfaces", len(rl.FontFaces))
		for _, ff := range rl.FontFaces {
			face := ffs.CreateElement("hh:fontface")
			face.CreateAttr("lang", ff.Lang)
			face.CreateAttr("fontCnt", strconv.Itoa(len(ff.Fonts)))
			for _, f := range ff.Fonts {
				font := face.CreateElement("hh:font")
				font.CreateAttr("id", strconv.Itoa(f.ID))
				font.CreateAttr("face", f.Face)
				font.CreateAttr("type", f.Type)
				font.CreateAttr("isEmbedded", model.FormatBool(f.IsEmbedded))
			}
		}
	}

	genericContainer(el, "hh:borderFills", rl.BorderFills)

	if len(rl.CharProperties) > 0 {
		cps := container(el, "hh:charProperties", len(rl.CharProperties))
		for i := range rl.CharProperties {
			cps.AddChild(charPrTree(&rl.CharProperties[i]))
		}
	}

	genericContainer(el, "hh:tabProperties", rl.TabProperties)
	genericContainer(el, "hh:numberings", rl.Numberings)
	genericContainer(el, "hh:bullets", rl.Bullets)

	if len(rl.ParaProperties) > 0 {
		pps := container(el, "hh:paraProperties", len(rl.ParaProperties))
		for i := range rl.ParaProperties {
			pps.AddChild(paraPrTree(&rl.ParaProperties[i]))
		}
	}

	if len(rl.Styles) > 0 {
		sts := container(el, "hh:styles", len(rl.Styles))
		for i := range rl.Styles {
			sts.AddChild(styleTree(&rl.Styles[i]))
		}
	}

	for _, x := range rl.Others {
		el.AddChild(GenericTree(x, PrefixHead))
	}
	return el
}

func container(parent *etree.Element, tag string, n int) *etree.Element {
	c := parent.CreateElement(tag)
	c.CreateAttr("itemCnt", strconv.Itoa(n))
	return c
}

func genericContainer(parent *etree.Element, tag string, items []*model.GenericElement) {
	if len(items) == 0 {
		return
	}
	c := container(parent, tag, len(items))
	for _, x := range items {
		c.AddChild(GenericTree(x, PrefixHead))
	}
}

// charPrTree writes a charPr from its stored attributes and children. The
// id always comes from the decoded field, and the bold/italic flags add
// their marker elements when the children lack them.
func charPrTree(cp *model.CharProperty) *etree.Element {
	attrs := cp.Attrs.Clone()
	attrs.Set("id", strconv.Itoa(cp.ID))
	if !attrs.Has("height") && cp.Height > 0 {
		attrs.Set("height", strconv.Itoa(cp.Height))
	}
	if !attrs.Has("textColor") && cp.TextColor != "" {
		attrs.Set("textColor", cp.TextColor)
	}

	el := &model.GenericElement{Tag: "charPr", Attrs: attrs, Children: cp.Children}
	if cp.Bold && el.Child("bold") == nil {
		el.Children = append(el.Children[:len(el.Children):len(el.Children)], model.NewElement("bold"))
	}
	if cp.Italic && el.Child("italic") == nil {
		el.Children = append(el.Children[:len(el.Children):len(el.Children)], model.NewElement("italic"))
	}
	return GenericTree(el, PrefixHead)
}

// paraPrTree writes a paraPr. Decoded fields are only used when the stored
// children carry no equivalent.
func paraPrTree(pp *model.ParaProperty) *etree.Element {
	attrs := pp.Attrs.Clone()
	attrs.Set("id", strconv.Itoa(pp.ID))
	el := &model.GenericElement{Tag: "paraPr", Attrs: attrs}
	el.Children = append(el.Children, pp.Children...)

	if len(pp.Children) == 0 {
		if pp.Align != "" {
			el.Append(model.NewElement("align", "horizontal", pp.Align, "vertical", "BASELINE"))
		}
		if pp.Margin != nil {
			el.Append(MarginElement(*pp.Margin))
		}
		if pp.LineSpacing != nil {
			el.Append(model.NewElement("lineSpacing",
				"type", pp.LineSpacing.Type,
				"value", strconv.Itoa(pp.LineSpacing.Value),
				"unit", "HWPUNIT"))
		}
	}
	return GenericTree(el, PrefixHead)
}

// MarginElement renders hh:margin in the child form written by Hangul.
func MarginElement(m model.ParaMargin) *model.GenericElement {
	value := func(tag string, v int) *model.GenericElement {
		return model.NewElement(tag, "value", strconv.Itoa(v), "unit", "HWPUNIT")
	}
	return model.NewElement("margin").Append(
		value("intent", m.Indent),
		value("left", m.Left),
		value("right", m.Right),
		value("prev", m.Prev),
		value("next", m.Next),
	)
}

func styleTree(s *model.Style) *etree.Element {
	attrs := s.Attrs.Clone()
	attrs.Set("id", strconv.Itoa(s.ID))
	set := func(key, v string) {
		if !attrs.Has(key) && v != "" {
			attrs.Set(key, v)
		}
	}
	ref := func(key string, v *int) {
		if !attrs.Has(key) && v != nil {
			attrs.Set(key, strconv.Itoa(*v))
		}
	}
	set("type", s.Type)
	set("name", s.Name)
	set("engName", s.EngName)
	ref("paraPrIDRef", s.ParaPrIDRef)
	ref("charPrIDRef", s.CharPrIDRef)
	ref("nextStyleIDRef", s.NextStyleIDRef)
	return GenericTree(&model.GenericElement{Tag: "style", Attrs: attrs}, PrefixHead)
}
