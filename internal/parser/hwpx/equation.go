package hwpx

import "github.com/roboco-io/handoc/internal/model"

// ParsedEquation is the read-side view of <hp:equation>.
type ParsedEquation struct {
	Script   string
	Font     string
	BaseUnit *int
	Version  string
}

// ParseEquation reads the script text and rendering attributes. A missing
// <script> gives an empty script.
func ParseEquation(el *model.GenericElement) *ParsedEquation {
	if el == nil {
		return &ParsedEquation{}
	}
	return &ParsedEquation{
		Script:   el.Child("script").TextValue(),
		Font:     el.Attr("font"),
		BaseUnit: optionalInt(el, "baseUnit"),
		Version:  el.Attr("version"),
	}
}
