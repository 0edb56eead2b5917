package hwpx

import (
	"strconv"
	"strings"

	"github.com/roboco-io/handoc/internal/model"
)

// ParsedShape is the read-side view of a drawing object.
type ParsedShape struct {
	Type        string
	Width       *int // nil when the shape has no <sz>
	Height      *int
	TextContent *string
	Paragraphs  []*model.Paragraph
	Children    []*model.GenericElement
}

// ParseShape decodes a drawing object (rect, ellipse, line, ...). Text comes
// from drawText, with or without a subList wrapper.
func ParseShape(el *model.GenericElement) *ParsedShape {
	s := &ParsedShape{}
	if el == nil {
		return s
	}
	s.Type = el.LocalTag()
	s.Children = el.Children

	if sz := el.Child("sz"); sz != nil {
		s.Width = optionalInt(sz, "width")
		s.Height = optionalInt(sz, "height")
	}

	if dt := el.Child("drawText"); dt != nil {
		src := dt
		if sub := dt.Child("subList"); sub != nil {
			src = sub
		}
		s.Paragraphs = paragraphsIn(src)
	}

	if len(s.Paragraphs) > 0 {
		lines := make([]string, 0, len(s.Paragraphs))
		for _, p := range s.Paragraphs {
			lines = append(lines, p.Text())
		}
		if text := strings.Join(lines, "\n"); text != "" {
			s.TextContent = &text
		}
	}
	return s
}

// optionalInt parses an attribute that may be absent or malformed.
func optionalInt(el *model.GenericElement, key string) *int {
	v, ok := el.Attrs.Lookup(key)
	if !ok {
		return nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return nil
	}
	return &n
}
