package model

import (
	"errors"
	"fmt"
	"strconv"

	"go.uber.org/multierr"
)

// ErrInvalidRef is returned when a section references a property id the
// header does not declare.
var ErrInvalidRef = errors.New("invalid property reference")

// ValidateRefs checks that every charPrIDRef, paraPrIDRef, styleIDRef and
// borderFillIDRef used by sections resolves in h. An empty table has no
// valid ids. Nil sections and paragraphs are skipped.
func ValidateRefs(h *DocumentHeader, sections []*Section) error {
	if h == nil {
		return nil
	}
	charIDs := make(map[int]bool)
	for _, cp := range h.RefList.CharProperties {
		charIDs[cp.ID] = true
	}
	paraIDs := make(map[int]bool)
	for _, pp := range h.RefList.ParaProperties {
		paraIDs[pp.ID] = true
	}
	styleIDs := make(map[int]bool)
	for _, s := range h.RefList.Styles {
		styleIDs[s.ID] = true
	}
	fillIDs := make(map[int]bool)
	for _, bf := range h.RefList.BorderFills {
		fillIDs[ParseIntDefault(bf.Attr("id"), -1)] = true
	}

	v := &refValidator{
		sets: map[string]map[int]bool{
			"charPrIDRef":     charIDs,
			"paraPrIDRef":     paraIDs,
			"styleIDRef":      styleIDs,
			"borderFillIDRef": fillIDs,
		},
	}
	for si, sec := range sections {
		if sec == nil {
			continue
		}
		for pi, p := range sec.Paragraphs {
			v.paragraph(fmt.Sprintf("section%d/p[%d]", si, pi), p)
		}
	}
	return v.err
}

type refValidator struct {
	sets map[string]map[int]bool
	err  error
}

func (v *refValidator) check(path, key string, id *int) {
	if id == nil {
		return
	}
	if v.sets[key][*id] {
		return
	}
	v.err = multierr.Append(v.err, fmt.Errorf("%w: %s %s=%d", ErrInvalidRef, path, key, *id))
}

func (v *refValidator) paragraph(path string, p *Paragraph) {
	if p == nil {
		return
	}
	v.check(path, "paraPrIDRef", p.ParaPrIDRef)
	v.check(path, "styleIDRef", p.StyleIDRef)
	for ri, r := range p.Runs {
		if r == nil {
			continue
		}
		rpath := fmt.Sprintf("%s/run[%d]", path, ri)
		v.check(rpath, "charPrIDRef", r.CharPrIDRef)
		for _, c := range r.Children {
			if c.Element != nil {
				v.element(rpath+"/"+c.Element.LocalTag(), c.Element)
			}
			for hi, hp := range c.Paragraphs {
				v.paragraph(fmt.Sprintf("%s/hiddenComment/p[%d]", rpath, hi), hp)
			}
		}
	}
}

func (v *refValidator) element(path string, el *GenericElement) {
	el.Walk(func(e *GenericElement) bool {
		for _, a := range e.Attrs {
			if _, ok := v.sets[a.Key]; !ok {
				continue
			}
			n, err := strconv.Atoi(a.Value)
			if err != nil {
				continue
			}
			v.check(path, a.Key, &n)
		}
		return true
	})
}
