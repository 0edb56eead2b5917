package model

import "strings"

// Section is one BodyText section / one sectionN.xml part.
type Section struct {
	Paragraphs []*Paragraph       `json:"paragraphs"`
	Props      *SectionProperties `json:"props,omitempty"`
}

// Paragraph is an hp:p element.
type Paragraph struct {
	ID          *string           `json:"id,omitempty"`
	ParaPrIDRef *int              `json:"paraPrIDRef,omitempty"`
	StyleIDRef  *int              `json:"styleIDRef,omitempty"`
	PageBreak   bool              `json:"pageBreak"`
	ColumnBreak bool              `json:"columnBreak"`
	Merged      bool              `json:"merged"`
	Runs        []*Run            `json:"runs"`
	LineSegs    []LineSeg         `json:"lineSegs,omitempty"`
	Extra       []*GenericElement `json:"extra,omitempty"` // unknown direct children of hp:p
}

// LineSeg holds cached layout metrics from hp:linesegarray.
type LineSeg struct {
	TextPos    int `json:"textpos"`
	VertPos    int `json:"vertpos"`
	VertSize   int `json:"vertsize"`
	TextHeight int `json:"textheight"`
	Baseline   int `json:"baseline"`
	Spacing    int `json:"spacing"`
	HorzPos    int `json:"horzpos"`
	HorzSize   int `json:"horzsize"`
	Flags      int `json:"flags"`
}

// Run is an hp:run element.
type Run struct {
	CharPrIDRef *int       `json:"charPrIDRef,omitempty"`
	Children    []RunChild `json:"children"`
}

// RunChildKind identifies the variant held by a RunChild.
type RunChildKind string

const (
	KindText          RunChildKind = "text"
	KindSecPr         RunChildKind = "secPr"
	KindCtrl          RunChildKind = "ctrl"
	KindTable         RunChildKind = "table"
	KindShape         RunChildKind = "shape"
	KindEquation      RunChildKind = "equation"
	KindInlineObject  RunChildKind = "inlineObject"
	KindTrackChange   RunChildKind = "trackChange"
	KindHiddenComment RunChildKind = "hiddenComment"
)

// RunChild is a closed variant over the things a run may contain. Every
// non-text payload other than track changes and hidden comments keeps its
// GenericElement, so typed decoding stays opt-in.
type RunChild struct {
	Kind RunChildKind `json:"type"`

	// text
	Text string `json:"content,omitempty"`

	// shape, inlineObject
	Name string `json:"name,omitempty"`

	// secPr, ctrl, table, shape, equation, inlineObject
	Element *GenericElement `json:"element,omitempty"`

	// trackChange
	Mark    string `json:"mark,omitempty"`
	TrackID *int   `json:"id,omitempty"`
	TcID    *int   `json:"tcId,omitempty"`
	ParaEnd *bool  `json:"paraEnd,omitempty"`

	// hiddenComment
	Paragraphs []*Paragraph `json:"paragraphs,omitempty"`
}

// TextChild creates a text run child.
func TextChild(text string) RunChild {
	return RunChild{Kind: KindText, Text: text}
}

// ElementChild creates a run child that wraps el. name is used for shapes and
// inline objects.
func ElementChild(kind RunChildKind, name string, el *GenericElement) RunChild {
	return RunChild{Kind: kind, Name: name, Element: el}
}

// TrackChangeChild creates a track-change mark.
func TrackChangeChild(mark string) RunChild {
	return RunChild{Kind: KindTrackChange, Mark: mark}
}

// HiddenCommentChild creates a hidden comment holding paragraphs.
func HiddenCommentChild(paras []*Paragraph) RunChild {
	return RunChild{Kind: KindHiddenComment, Paragraphs: paras}
}

// Text concatenates the text run children of the paragraph.
func (p *Paragraph) Text() string {
	if p == nil {
		return ""
	}
	var sb strings.Builder
	for _, r := range p.Runs {
		for _, c := range r.Children {
			if c.Kind == KindText {
				sb.WriteString(c.Text)
			}
		}
	}
	return sb.String()
}

// RunChildren returns every run child of the paragraph in order.
func (p *Paragraph) RunChildren() []RunChild {
	if p == nil {
		return nil
	}
	var out []RunChild
	for _, r := range p.Runs {
		out = append(out, r.Children...)
	}
	return out
}

// SectionProperties is the decoded view of hp:secPr.
type SectionProperties struct {
	PageWidth  int         `json:"pageWidth"`
	PageHeight int         `json:"pageHeight"`
	Landscape  bool        `json:"landscape"`
	Margins    PageMargins `json:"margins"`
	Columns    ColumnProps `json:"columns"`
	StartPage  *int        `json:"startPage,omitempty"`
}

// PageMargins are in HWPUNIT.
type PageMargins struct {
	Left   int `json:"left"`
	Right  int `json:"right"`
	Top    int `json:"top"`
	Bottom int `json:"bottom"`
	Header int `json:"header"`
	Footer int `json:"footer"`
	Gutter int `json:"gutter"`
}

// ColumnProps is the decoded view of hp:colPr.
type ColumnProps struct {
	Count   int    `json:"count"`
	SameGap int    `json:"sameGap"`
	Type    string `json:"type"`
}

// ParsedTable is a read-side view over a table run child.
type ParsedTable struct {
	ID              string              `json:"id,omitempty"`
	RowCnt          int                 `json:"rowCnt"`
	ColCnt          int                 `json:"colCnt"`
	CellSpacing     int                 `json:"cellSpacing"`
	BorderFillIDRef int                 `json:"borderFillIDRef"`
	RepeatHeader    bool                `json:"repeatHeader"`
	NoAdjust        bool                `json:"noAdjust"`
	Rows            [][]ParsedTableCell `json:"rows"`
}

// ParsedTableCell is one hp:tc.
type ParsedTableCell struct {
	Name            string       `json:"name,omitempty"`
	Header          bool         `json:"header"`
	BorderFillIDRef int          `json:"borderFillIDRef"`
	ColAddr         int          `json:"colAddr"`
	RowAddr         int          `json:"rowAddr"`
	ColSpan         int          `json:"colSpan"`
	RowSpan         int          `json:"rowSpan"`
	Width           int          `json:"width"`
	Height          int          `json:"height"`
	Paragraphs      []*Paragraph `json:"paragraphs"`
}

// Text joins the cell's paragraph texts with newlines.
func (c ParsedTableCell) Text() string {
	parts := make([]string, 0, len(c.Paragraphs))
	for _, p := range c.Paragraphs {
		parts = append(parts, p.Text())
	}
	return strings.Join(parts, "\n")
}

// IntPtr returns a pointer to v.
func IntPtr(v int) *int { return &v }

// StringPtr returns a pointer to v.
func StringPtr(v string) *string { return &v }

// BoolPtr returns a pointer to v.
func BoolPtr(v bool) *bool { return &v }
