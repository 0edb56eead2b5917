// Package model defines the document model shared by the HWP reader and the
// HWPX parser/writer.
package model

import "strings"

// Attr is a single XML attribute. Values are kept verbatim.
type Attr struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Attrs is an ordered attribute list. Order matters for byte-stable output.
type Attrs []Attr

// Lookup returns the value for key and whether it was present.
func (a Attrs) Lookup(key string) (string, bool) {
	for _, at := range a {
		if at.Key == key {
			return at.Value, true
		}
	}
	return "", false
}

// Get returns the value for key or "" when absent.
func (a Attrs) Get(key string) string {
	v, _ := a.Lookup(key)
	return v
}

// Has reports whether key is present.
func (a Attrs) Has(key string) bool {
	_, ok := a.Lookup(key)
	return ok
}

// Set replaces the value of key in place or appends it.
func (a *Attrs) Set(key, value string) {
	for i := range *a {
		if (*a)[i].Key == key {
			(*a)[i].Value = value
			return
		}
	}
	*a = append(*a, Attr{Key: key, Value: value})
}

// Clone returns an independent copy.
func (a Attrs) Clone() Attrs {
	if a == nil {
		return nil
	}
	out := make(Attrs, len(a))
	copy(out, a)
	return out
}

// AttrsOf builds an ordered attribute list from alternating key/value pairs.
func AttrsOf(kv ...string) Attrs {
	out := make(Attrs, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		out = append(out, Attr{Key: kv[i], Value: kv[i+1]})
	}
	return out
}

// GenericElement is a lossless representation of an arbitrary XML subtree.
// Tags are stored without their namespace prefix unless a builder set one
// explicitly ("hp:tbl"); writers add the context prefix to bare tags.
//
// Two shapes do not survive a write and parse: Text set to "" comes back
// nil, since the element is written self-closing, and attributes are keyed
// by local name, so a prefixed and an unprefixed attribute with the same
// local name collapse into one. Parsed elements never have either shape.
type GenericElement struct {
	Tag      string            `json:"tag"`
	Attrs    Attrs             `json:"attrs,omitempty"`
	Children []*GenericElement `json:"children,omitempty"`
	Text     *string           `json:"text,omitempty"`
}

// NewElement creates an element with attributes given as key/value pairs.
func NewElement(tag string, kv ...string) *GenericElement {
	return &GenericElement{Tag: tag, Attrs: AttrsOf(kv...)}
}

// NewTextElement creates a leaf element holding text.
func NewTextElement(tag, text string) *GenericElement {
	return &GenericElement{Tag: tag, Text: &text}
}

// Append adds children and returns the element for chaining.
func (e *GenericElement) Append(children ...*GenericElement) *GenericElement {
	e.Children = append(e.Children, children...)
	return e
}

// LocalTag returns the tag without any namespace prefix.
func (e *GenericElement) LocalTag() string {
	if e == nil {
		return ""
	}
	return LocalName(e.Tag)
}

// Attr returns an attribute value or "" when absent.
func (e *GenericElement) Attr(key string) string {
	if e == nil {
		return ""
	}
	return e.Attrs.Get(key)
}

// TextValue returns the element text or "".
func (e *GenericElement) TextValue() string {
	if e == nil || e.Text == nil {
		return ""
	}
	return *e.Text
}

// Child returns the first direct child with the given local tag.
func (e *GenericElement) Child(tag string) *GenericElement {
	if e == nil {
		return nil
	}
	for _, c := range e.Children {
		if c != nil && LocalName(c.Tag) == tag {
			return c
		}
	}
	return nil
}

// ChildrenByTag returns all direct children with the given local tag.
func (e *GenericElement) ChildrenByTag(tag string) []*GenericElement {
	if e == nil {
		return nil
	}
	var out []*GenericElement
	for _, c := range e.Children {
		if c != nil && LocalName(c.Tag) == tag {
			out = append(out, c)
		}
	}
	return out
}

// Walk visits e and every descendant in document order. Returning false from
// fn skips the subtree below the current element.
func (e *GenericElement) Walk(fn func(*GenericElement) bool) {
	if e == nil {
		return
	}
	if !fn(e) {
		return
	}
	for _, c := range e.Children {
		c.Walk(fn)
	}
}

// Clone returns a deep copy.
func (e *GenericElement) Clone() *GenericElement {
	if e == nil {
		return nil
	}
	out := &GenericElement{Tag: e.Tag, Attrs: e.Attrs.Clone()}
	if e.Text != nil {
		t := *e.Text
		out.Text = &t
	}
	if len(e.Children) > 0 {
		out.Children = make([]*GenericElement, len(e.Children))
		for i, c := range e.Children {
			out.Children[i] = c.Clone()
		}
	}
	return out
}

// LocalName strips a namespace prefix from an XML name.
func LocalName(name string) string {
	if i := strings.LastIndexByte(name, ':'); i >= 0 {
		return name[i+1:]
	}
	return name
}
