// Package hwpx parses the XML parts of HWPX (OWPML) documents into the
// shared document model.
package hwpx

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"

	"github.com/roboco-io/handoc/internal/model"
	"github.com/roboco-io/handoc/internal/parser"
)

// decoder carries the per-call parse state. It is never shared between
// documents.
type decoder struct {
	maxDepth int
	warn     *model.WarningCollector
	path     string
}

func newDecoder(opts parser.Options, path string) *decoder {
	opts = opts.Normalize()
	return &decoder{maxDepth: opts.MaxDepth, warn: opts.Warnings, path: path}
}

// ParseGeneric converts an etree element into a GenericElement. Tags and
// attribute keys lose their namespace prefix, xmlns declarations are dropped,
// and subtrees deeper than maxDepth collapse into an empty element.
func ParseGeneric(el *etree.Element, depth, maxDepth int) *model.GenericElement {
	if maxDepth <= 0 {
		maxDepth = parser.DefaultMaxDepth
	}
	d := &decoder{maxDepth: maxDepth}
	return d.generic(el, depth)
}

// ParseGenericXML parses an XML document and returns its root element.
func ParseGenericXML(data []byte, maxDepth int) (*model.GenericElement, error) {
	root, err := readRoot(data)
	if err != nil {
		return nil, err
	}
	return ParseGeneric(root, 0, maxDepth), nil
}

func (d *decoder) generic(el *etree.Element, depth int) *model.GenericElement {
	if el == nil {
		return &model.GenericElement{}
	}
	out := &model.GenericElement{Tag: el.Tag}
	if depth > d.maxDepth {
		d.warn.Add(model.WarnDepthLimit,
			fmt.Sprintf("element <%s> exceeds depth %d, subtree dropped", el.Tag, d.maxDepth),
			d.path, model.SeverityWarn)
		return out
	}

	out.Attrs = localAttrs(el)

	var text strings.Builder
	hasText := false
	for _, tok := range el.Child {
		switch t := tok.(type) {
		case *etree.Element:
			out.Children = append(out.Children, d.generic(t, depth+1))
		case *etree.CharData:
			text.WriteString(t.Data)
			hasText = true
		}
	}
	if hasText {
		s := text.String()
		// 요소 사이의 들여쓰기 공백은 버린다
		if len(out.Children) == 0 || strings.TrimSpace(s) != "" {
			out.Text = &s
		}
	}
	return out
}

// localAttrs returns the attributes of el keyed by local name, in document
// order, without namespace declarations. A later attribute with the same
// local name overwrites an earlier one.
func localAttrs(el *etree.Element) model.Attrs {
	var attrs model.Attrs
	for _, a := range el.Attr {
		if a.Space == "xmlns" || (a.Space == "" && a.Key == "xmlns") {
			continue
		}
		attrs.Set(a.Key, a.Value)
	}
	return attrs
}

// readRoot parses data and returns the document element.
func readRoot(data []byte) (*etree.Element, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("XML 파싱 실패: %w", err)
	}
	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("XML 루트 요소가 없습니다")
	}
	return root, nil
}

// toEtree rebuilds an etree element from a GenericElement so the typed
// decoders can run over trees that were built or stored generically.
func toEtree(g *model.GenericElement) *etree.Element {
	el := etree.NewElement(model.LocalName(g.Tag))
	for _, a := range g.Attrs {
		el.CreateAttr(a.Key, a.Value)
	}
	if g.Text != nil && *g.Text != "" {
		el.CreateText(*g.Text)
	}
	for _, c := range g.Children {
		if c != nil {
			el.AddChild(toEtree(c))
		}
	}
	return el
}

// attr returns an attribute value by local name.
func attr(el *etree.Element, key string) (string, bool) {
	for _, a := range el.Attr {
		if a.Key == key && a.Space != "xmlns" {
			return a.Value, true
		}
	}
	return "", false
}
