package hwpx

import "github.com/roboco-io/handoc/internal/model"

// ParseSectionProps decodes <hp:secPr>. Sizes are HWPUNIT.
func ParseSectionProps(el *model.GenericElement) *model.SectionProperties {
	pagePr := el.Child("pagePr")
	margin := pagePr.Child("margin")
	num := func(e *model.GenericElement, key string, def int) int {
		return model.ParseIntDefault(e.Attr(key), def)
	}

	props := &model.SectionProperties{
		PageWidth:  num(pagePr, "width", 0),
		PageHeight: num(pagePr, "height", 0),
		Landscape:  pagePr.Attr("landscape") == "WIDELY",
		Margins: model.PageMargins{
			Left:   num(margin, "left", 0),
			Right:  num(margin, "right", 0),
			Top:    num(margin, "top", 0),
			Bottom: num(margin, "bottom", 0),
			Header: num(margin, "header", 0),
			Footer: num(margin, "footer", 0),
			Gutter: num(margin, "gutter", 0),
		},
		Columns: model.ColumnProps{Count: 1, Type: "NEWSPAPER"},
	}

	if col := el.Child("colPr"); col != nil {
		applyColPr(&props.Columns, col)
	}
	if page := num(el.Child("startNum"), "page", 0); page > 0 {
		props.StartPage = &page
	}
	return props
}

func applyColPr(c *model.ColumnProps, col *model.GenericElement) {
	c.Count = model.ParseIntDefault(col.Attr("colCount"), 1)
	c.SameGap = model.ParseIntDefault(col.Attr("sameGap"), 0)
	if t := col.Attr("type"); t != "" {
		c.Type = t
	}
}
