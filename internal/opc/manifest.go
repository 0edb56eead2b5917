package opc

import (
	"bytes"
	"fmt"
	"regexp"

	"github.com/antchfx/xmlquery"
)

// Metadata is the OPF metadata block of content.hpf.
type Metadata struct {
	Title    string `json:"title,omitempty"`
	Creator  string `json:"creator,omitempty"`
	Language string `json:"language,omitempty"`
}

// ManifestItem is one opf:item.
type ManifestItem struct {
	ID        string `json:"id"`
	Href      string `json:"href"`
	MediaType string `json:"mediaType"`
}

// Manifest is the parsed Contents/content.hpf.
type Manifest struct {
	Metadata Metadata       `json:"metadata"`
	Items    []ManifestItem `json:"items"`
	Spine    []string       `json:"spine"`
}

// XPath over local names so that prefixed and default-namespace manifests
// read the same.
const (
	xpTitle    = "//*[local-name()='metadata']/*[local-name()='title']"
	xpLanguage = "//*[local-name()='metadata']/*[local-name()='language']"
	xpCreator  = "//*[local-name()='metadata']/*[local-name()='meta'][@name='creator']"
	xpItems    = "//*[local-name()='manifest']/*[local-name()='item']"
	xpItemRefs = "//*[local-name()='spine']/*[local-name()='itemref']"
)

var sectionIDPattern = regexp.MustCompile(`(?i)^section\d+$`)

// ParseManifest parses content.hpf.
func ParseManifest(data []byte) (*Manifest, error) {
	doc, err := xmlquery.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}

	m := &Manifest{}
	m.Metadata.Title, err = queryText(doc, xpTitle)
	if err != nil {
		return nil, err
	}
	if m.Metadata.Language, err = queryText(doc, xpLanguage); err != nil {
		return nil, err
	}
	if m.Metadata.Creator, err = queryText(doc, xpCreator); err != nil {
		return nil, err
	}

	items, err := xmlquery.QueryAll(doc, xpItems)
	if err != nil {
		return nil, fmt.Errorf("manifest query failed: %w", err)
	}
	for _, n := range items {
		m.Items = append(m.Items, ManifestItem{
			ID:        n.SelectAttr("id"),
			Href:      n.SelectAttr("href"),
			MediaType: n.SelectAttr("media-type"),
		})
	}

	refs, err := xmlquery.QueryAll(doc, xpItemRefs)
	if err != nil {
		return nil, fmt.Errorf("manifest query failed: %w", err)
	}
	for _, n := range refs {
		if idref := n.SelectAttr("idref"); idref != "" {
			m.Spine = append(m.Spine, idref)
		}
	}
	return m, nil
}

func queryText(doc *xmlquery.Node, expr string) (string, error) {
	n, err := xmlquery.Query(doc, expr)
	if err != nil {
		return "", fmt.Errorf("manifest query failed: %w", err)
	}
	if n == nil {
		return "", nil
	}
	return n.InnerText(), nil
}

// Item returns the item with the given id.
func (m *Manifest) Item(id string) (ManifestItem, bool) {
	for _, it := range m.Items {
		if it.ID == id {
			return it, true
		}
	}
	return ManifestItem{}, false
}

// SectionHrefs returns the hrefs of spine entries whose id looks like
// "sectionN", in spine order.
func (m *Manifest) SectionHrefs() []string {
	var out []string
	for _, idref := range m.Spine {
		if !sectionIDPattern.MatchString(idref) {
			continue
		}
		if it, ok := m.Item(idref); ok && it.Href != "" {
			out = append(out, it.Href)
		}
	}
	return out
}
