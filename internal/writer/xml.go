// Package writer serializes the document model back to HWPX parts and
// assembles them into a package.
package writer

import (
	"bytes"
	"strings"

	"github.com/beevik/etree"

	"github.com/roboco-io/handoc/internal/model"
)

// Namespace prefixes used on output.
const (
	PrefixParagraph = "hp"
	PrefixHead      = "hh"
	PrefixCore      = "hc"
	PrefixSection   = "hs"
)

// coreTags live in the core namespace wherever they appear.
var coreTags = map[string]bool{
	"img":         true,
	"fillBrush":   true,
	"winBrush":    true,
	"gradation":   true,
	"color":       true,
	"imgBrush":    true,
	"pt":          true,
	"startPt":     true,
	"endPt":       true,
	"pt0":         true,
	"pt1":         true,
	"pt2":         true,
	"pt3":         true,
	"center":      true,
	"ax1":         true,
	"ax2":         true,
	"transMatrix": true,
	"scaMatrix":   true,
	"rotMatrix":   true,
}

// headCoreTags are the child form of hh:margin, which uses hc.
var headCoreTags = map[string]bool{
	"intent": true,
	"indent": true,
	"left":   true,
	"right":  true,
	"prev":   true,
	"next":   true,
}

// switchTags are the compatibility wrappers; they belong to hp even inside
// the header.
var switchTags = map[string]bool{
	"switch":  true,
	"case":    true,
	"default": true,
}

// qualify returns the output name for tag in the context of prefix. Tags
// that already carry a prefix are kept.
func qualify(tag, prefix string) string {
	if strings.Contains(tag, ":") {
		return tag
	}
	switch {
	case coreTags[tag]:
		return PrefixCore + ":" + tag
	case prefix == PrefixHead && headCoreTags[tag]:
		return PrefixCore + ":" + tag
	case prefix == PrefixHead && switchTags[tag]:
		return PrefixParagraph + ":" + tag
	}
	return prefix + ":" + tag
}

// GenericTree converts a GenericElement into an etree element, adding
// prefix to unqualified tags. Empty text is not written, so an element
// without children self-closes.
func GenericTree(g *model.GenericElement, prefix string) *etree.Element {
	if g == nil {
		return etree.NewElement(qualify("unknown", prefix))
	}
	tag := g.Tag
	if tag == "" {
		tag = "unknown"
	}
	el := etree.NewElement(qualify(tag, prefix))
	for _, a := range g.Attrs {
		el.CreateAttr(a.Key, a.Value)
	}
	if g.Text != nil && *g.Text != "" {
		el.CreateText(*g.Text)
	}
	for _, c := range g.Children {
		if c != nil {
			el.AddChild(GenericTree(c, prefix))
		}
	}
	return el
}

// WriteGenericElement serializes a GenericElement on its own, without an
// XML declaration.
func WriteGenericElement(g *model.GenericElement, prefix string) []byte {
	doc := etree.NewDocument()
	doc.SetRoot(GenericTree(g, prefix))
	return serialize(doc)
}

// newDocument returns a document carrying the standard XML declaration.
func newDocument() *etree.Document {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8" standalone="yes"`)
	return doc
}

func serialize(doc *etree.Document) []byte {
	var buf bytes.Buffer
	// bytes.Buffer 쓰기는 실패하지 않는다
	_, _ = doc.WriteTo(&buf)
	return buf.Bytes()
}

// declareNamespaces adds xmlns attributes to el in order.
func declareNamespaces(el *etree.Element, ns []model.Attr) {
	for _, a := range ns {
		el.CreateAttr(a.Key, a.Value)
	}
}
