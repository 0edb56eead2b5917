package hwpx

import (
	"go.uber.org/zap"

	"github.com/roboco-io/handoc/internal/model"
	"github.com/roboco-io/handoc/internal/parser"
)

// ParseHeader parses Contents/header.xml.
func ParseHeader(data []byte, opts parser.Options) (*model.DocumentHeader, error) {
	opts = opts.Normalize()
	root, err := readRoot(data)
	if err != nil {
		return nil, err
	}
	head := newDecoder(opts, model.HeaderPart).generic(root, 0)

	h := &model.DocumentHeader{
		Version:  head.Attr("version"),
		SecCnt:   model.ParseIntDefault(head.Attr("secCnt"), 1),
		BeginNum: parseBeginNum(head.Child("beginNum")),
		RefList: model.RefList{
			FontFaces:      []model.FontFace{},
			CharProperties: []model.CharProperty{},
			ParaProperties: []model.ParaProperty{},
			Styles:         []model.Style{},
		},
	}

	for _, c := range head.Children {
		switch c.LocalTag() {
		case "beginNum":
		case "refList":
			parseRefList(&h.RefList, c)
		default:
			h.Extra = append(h.Extra, c)
		}
	}

	opts.Logger.Debug("parsed header",
		zap.Int("fontFaces", len(h.RefList.FontFaces)),
		zap.Int("charPr", len(h.RefList.CharProperties)),
		zap.Int("paraPr", len(h.RefList.ParaProperties)),
		zap.Int("styles", len(h.RefList.Styles)))
	return h, nil
}

func parseBeginNum(el *model.GenericElement) model.BeginNum {
	n := func(key string) int { return model.ParseIntDefault(el.Attr(key), 1) }
	return model.BeginNum{
		Page:     n("page"),
		Footnote: n("footnote"),
		Endnote:  n("endnote"),
		Pic:      n("pic"),
		Tbl:      n("tbl"),
		Equation: n("equation"),
	}
}

func parseRefList(rl *model.RefList, el *model.GenericElement) {
	for _, c := range el.Children {
		switch c.LocalTag() {
		case "fontfaces":
			for _, ff := range c.ChildrenByTag("fontface") {
				rl.FontFaces = append(rl.FontFaces, parseFontFace(ff))
			}
		case "charProperties":
			for _, cp := range c.ChildrenByTag("charPr") {
				rl.CharProperties = append(rl.CharProperties, parseCharPr(cp))
			}
		case "paraProperties":
			for _, pp := range c.ChildrenByTag("paraPr") {
				rl.ParaProperties = append(rl.ParaProperties, parseParaPr(pp))
			}
		case "tabProperties":
			rl.TabProperties = append(rl.TabProperties, c.Children...)
		case "numberings":
			rl.Numberings = append(rl.Numberings, c.Children...)
		case "bullets":
			rl.Bullets = append(rl.Bullets, c.Children...)
		case "styles":
			for _, st := range c.ChildrenByTag("style") {
				rl.Styles = append(rl.Styles, parseStyle(st))
			}
		case "borderFills":
			rl.BorderFills = append(rl.BorderFills, c.ChildrenByTag("borderFill")...)
		default:
			rl.Others = append(rl.Others, c)
		}
	}
}

func parseFontFace(el *model.GenericElement) model.FontFace {
	ff := model.FontFace{Lang: el.Attr("lang"), Fonts: []model.Font{}}
	for _, f := range el.ChildrenByTag("font") {
		ff.Fonts = append(ff.Fonts, model.Font{
			ID:         model.ParseIntDefault(f.Attr("id"), 0),
			Face:       f.Attr("face"),
			Type:       f.Attr("type"),
			IsEmbedded: model.ParseBool(f.Attr("isEmbedded")),
		})
	}
	return ff
}

func parseCharPr(el *model.GenericElement) model.CharProperty {
	cp := model.CharProperty{
		ID:        model.ParseIntDefault(el.Attr("id"), 0),
		Height:    model.ParseIntDefault(el.Attr("height"), 0),
		TextColor: el.Attr("textColor"),
		Bold:      el.Child("bold") != nil,
		Italic:    el.Child("italic") != nil,
		Attrs:     el.Attrs,
		Children:  el.Children,
	}
	if u := el.Child("underline"); u != nil {
		cp.Underline = isDrawn(u.Attr("type"))
	}
	if s := el.Child("strikeout"); s != nil {
		cp.Strikeout = isDrawn(s.Attr("shape"))
	}
	return cp
}

// isDrawn reports whether an underline type or strikeout shape is visible.
func isDrawn(v string) bool {
	return v != "" && v != "NONE"
}

func parseParaPr(el *model.GenericElement) model.ParaProperty {
	pp := model.ParaProperty{
		ID:       model.ParseIntDefault(el.Attr("id"), 0),
		Attrs:    el.Attrs,
		Children: el.Children,
	}
	// margin/lineSpacing은 hp:switch/hp:case 안에 들어 있을 수 있다
	el.Walk(func(c *model.GenericElement) bool {
		switch c.LocalTag() {
		case "align":
			if pp.Align == "" {
				pp.Align = c.Attr("horizontal")
			}
		case "heading":
			if pp.HeadingType == "" {
				pp.HeadingType = c.Attr("type")
			}
		case "lineSpacing":
			if pp.LineSpacing == nil {
				pp.LineSpacing = &model.LineSpacing{
					Type:  c.Attr("type"),
					Value: model.ParseIntDefault(c.Attr("value"), 0),
				}
			}
		case "margin":
			if pp.Margin == nil {
				pp.Margin = parseParaMargin(c)
			}
		}
		return true
	})
	return pp
}

// parseParaMargin reads hh:margin in either the attribute form or the
// child form (<hc:left value="..."/>).
func parseParaMargin(el *model.GenericElement) *model.ParaMargin {
	get := func(key string, alt ...string) int {
		if v, ok := el.Attrs.Lookup(key); ok {
			return model.ParseIntDefault(v, 0)
		}
		for _, k := range append([]string{key}, alt...) {
			if c := el.Child(k); c != nil {
				return model.ParseIntDefault(c.Attr("value"), 0)
			}
		}
		return 0
	}
	return &model.ParaMargin{
		Left:   get("left"),
		Right:  get("right"),
		Indent: get("indent", "intent"),
		Prev:   get("prev"),
		Next:   get("next"),
	}
}

func parseStyle(el *model.GenericElement) model.Style {
	opt := func(key string) *int { return model.ParseIntPtr(el.Attrs.Lookup(key)) }
	return model.Style{
		ID:             model.ParseIntDefault(el.Attr("id"), 0),
		Type:           el.Attr("type"),
		Name:           el.Attr("name"),
		EngName:        el.Attr("engName"),
		ParaPrIDRef:    opt("paraPrIDRef"),
		CharPrIDRef:    opt("charPrIDRef"),
		NextStyleIDRef: opt("nextStyleIDRef"),
		Attrs:          el.Attrs,
	}
}
