package hwpx

import (
	"strings"

	"github.com/roboco-io/handoc/internal/model"
)

// Field is a decoded fieldBegin control.
type Field struct {
	ID         string
	Type       string // HYPERLINK, FORMULA, CLICK_HERE, ... or UNKNOWN
	Name       string
	Value      string
	URL        string // HYPERLINK only
	Parameters map[string]string
}

// ParseField decodes a fieldBegin, given the wrapping ctrl or the element
// itself. It returns nil when el holds no fieldBegin.
func ParseField(el *model.GenericElement) *Field {
	fb := findWrapped(el, "fieldBegin")
	if fb == nil {
		return nil
	}
	f := &Field{
		ID:         fb.Attr("id"),
		Type:       fb.Attr("type"),
		Name:       fb.Attr("name"),
		Parameters: make(map[string]string),
	}
	if f.Type == "" {
		f.Type = "UNKNOWN"
	}
	for _, param := range paramsOf(fb) {
		if name := param.Attr("name"); name != "" {
			f.Parameters[name] = param.TextValue()
		}
	}

	if f.Type == "HYPERLINK" {
		f.URL = f.Parameters["Path"]
		if f.URL == "" {
			if cmd, ok := f.Parameters["Command"]; ok {
				target, _, _ := strings.Cut(cmd, ";")
				f.URL = strings.ReplaceAll(target, `\/`, "/")
			}
		}
	}
	f.Value = f.Parameters["Command"]
	if f.Value == "" {
		f.Value = f.Parameters["Path"]
	}
	return f
}

// ParseFieldEnd returns the beginIDRef of a fieldEnd, wrapped or bare.
func ParseFieldEnd(el *model.GenericElement) (string, bool) {
	fe := findWrapped(el, "fieldEnd")
	if fe == nil {
		return "", false
	}
	return fe.Attrs.Lookup("beginIDRef")
}

// CollectFields returns the fields of a section in document order,
// including fields inside table cells.
func CollectFields(sec *model.Section) []*Field {
	if sec == nil {
		return nil
	}
	var out []*Field
	var visit func(paras []*model.Paragraph)
	visit = func(paras []*model.Paragraph) {
		for _, p := range paras {
			for _, c := range p.RunChildren() {
				switch c.Kind {
				case model.KindCtrl:
					if f := ParseField(c.Element); f != nil {
						out = append(out, f)
					}
				case model.KindTable:
					for _, row := range ParseTable(c.Element).Rows {
						for _, cell := range row {
							visit(cell.Paragraphs)
						}
					}
				}
			}
		}
	}
	visit(sec.Paragraphs)
	return out
}

// paramsOf returns the typed parameter elements of a fieldBegin.
func paramsOf(fb *model.GenericElement) []*model.GenericElement {
	if params := fb.Child("parameters"); params != nil {
		return params.Children
	}
	return nil
}
