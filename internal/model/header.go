package model

// DocumentHeader is the decoded Contents/header.xml.
type DocumentHeader struct {
	Version  string            `json:"version"`
	SecCnt   int               `json:"secCnt"`
	BeginNum BeginNum          `json:"beginNum"`
	RefList  RefList           `json:"refList"`
	Extra    []*GenericElement `json:"extra,omitempty"` // head-level children other than beginNum/refList
}

// BeginNum holds the start numbers for auto-numbered objects.
type BeginNum struct {
	Page     int `json:"page"`
	Footnote int `json:"footnote"`
	Endnote  int `json:"endnote"`
	Pic      int `json:"pic"`
	Tbl      int `json:"tbl"`
	Equation int `json:"equation"`
}

// DefaultBeginNum numbers everything from 1.
func DefaultBeginNum() BeginNum {
	return BeginNum{Page: 1, Footnote: 1, Endnote: 1, Pic: 1, Tbl: 1, Equation: 1}
}

// RefList holds the property tables referenced by id from sections.
type RefList struct {
	FontFaces      []FontFace        `json:"fontFaces"`
	CharProperties []CharProperty    `json:"charProperties"`
	ParaProperties []ParaProperty    `json:"paraProperties"`
	TabProperties  []*GenericElement `json:"tabProperties,omitempty"`
	Numberings     []*GenericElement `json:"numberings,omitempty"`
	Bullets        []*GenericElement `json:"bullets,omitempty"`
	Styles         []Style           `json:"styles"`
	BorderFills    []*GenericElement `json:"borderFills,omitempty"`
	Others         []*GenericElement `json:"others,omitempty"`
}

// FontFace groups the fonts declared for one script language.
type FontFace struct {
	Lang  string `json:"lang"`
	Fonts []Font `json:"fonts"`
}

// Font is one hh:font declaration.
type Font struct {
	ID         int    `json:"id"`
	Face       string `json:"face"`
	Type       string `json:"type"`
	IsEmbedded bool   `json:"isEmbedded"`
}

// CharProperty is an hh:charPr. Attrs and Children are the source of truth
// for writing; the decoded fields are read-side conveniences.
type CharProperty struct {
	ID        int               `json:"id"`
	Height    int               `json:"height"`
	TextColor string            `json:"textColor,omitempty"`
	Bold      bool              `json:"bold"`
	Italic    bool              `json:"italic"`
	Underline bool              `json:"underline"`
	Strikeout bool              `json:"strikeout"`
	Attrs     Attrs             `json:"attrs"`
	Children  []*GenericElement `json:"children,omitempty"`
}

// ParaProperty is an hh:paraPr.
type ParaProperty struct {
	ID          int               `json:"id"`
	Align       string            `json:"align"`
	LineSpacing *LineSpacing      `json:"lineSpacing,omitempty"`
	Margin      *ParaMargin       `json:"margin,omitempty"`
	HeadingType string            `json:"headingType,omitempty"`
	Attrs       Attrs             `json:"attrs"`
	Children    []*GenericElement `json:"children,omitempty"`
}

// LineSpacing is hh:lineSpacing.
type LineSpacing struct {
	Type  string `json:"type"`
	Value int    `json:"value"`
}

// ParaMargin is hh:margin in HWPUNIT.
type ParaMargin struct {
	Left   int `json:"left"`
	Right  int `json:"right"`
	Indent int `json:"indent"`
	Prev   int `json:"prev"`
	Next   int `json:"next"`
}

// Style is an hh:style.
type Style struct {
	ID             int    `json:"id"`
	Type           string `json:"type"`
	Name           string `json:"name"`
	EngName        string `json:"engName,omitempty"`
	ParaPrIDRef    *int   `json:"paraPrIDRef,omitempty"`
	CharPrIDRef    *int   `json:"charPrIDRef,omitempty"`
	NextStyleIDRef *int   `json:"nextStyleIDRef,omitempty"`
	Attrs          Attrs  `json:"attrs"`
}

// CharPropertyByID finds a charPr by its id attribute.
func (h *DocumentHeader) CharPropertyByID(id int) (*CharProperty, bool) {
	if h == nil {
		return nil, false
	}
	for i := range h.RefList.CharProperties {
		if h.RefList.CharProperties[i].ID == id {
			return &h.RefList.CharProperties[i], true
		}
	}
	return nil, false
}

// ParaPropertyByID finds a paraPr by its id attribute.
func (h *DocumentHeader) ParaPropertyByID(id int) (*ParaProperty, bool) {
	if h == nil {
		return nil, false
	}
	for i := range h.RefList.ParaProperties {
		if h.RefList.ParaProperties[i].ID == id {
			return &h.RefList.ParaProperties[i], true
		}
	}
	return nil, false
}

// StyleByID finds a style by its id attribute.
func (h *DocumentHeader) StyleByID(id int) (*Style, bool) {
	if h == nil {
		return nil, false
	}
	for i := range h.RefList.Styles {
		if h.RefList.Styles[i].ID == id {
			return &h.RefList.Styles[i], true
		}
	}
	return nil, false
}
