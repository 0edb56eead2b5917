package ir

import "strings"

// Paragraph represents a text paragraph with style information.
type Paragraph struct {
	Text  string         `json:"text"`
	Runs  []Run          `json:"runs,omitempty"`
	Style ParagraphStyle `json:"style"`
}

// Run represents a styled text run within a paragraph.
type Run struct {
	Text  string    `json:"text"`
	Style TextStyle `json:"style,omitempty"`
}

// ParagraphStyle contains paragraph-level styling hints.
type ParagraphStyle struct {
	HeadingLevel int    `json:"heading_level,omitempty"` // 0 = normal, 1-6 = heading
	Alignment    string `json:"alignment,omitempty"`     // left, center, right, justify
	IsQuote      bool   `json:"is_quote,omitempty"`      // text boxes and other drawn text
}

// TextStyle contains character-level styling hints.
type TextStyle struct {
	Bold          bool   `json:"bold,omitempty"`
	Italic        bool   `json:"italic,omitempty"`
	Underline     bool   `json:"underline,omitempty"`
	Strikethrough bool   `json:"strikethrough,omitempty"`
	Link          string `json:"link,omitempty"` // hyperlink URL
	NoteRef       int    `json:"note_ref,omitempty"`
}

// NewParagraph creates a new paragraph with the given text.
func NewParagraph(text string) *Paragraph {
	return &Paragraph{
		Text: text,
		Runs: make([]Run, 0),
	}
}

// AddRun adds a styled text run to the paragraph. Adjacent runs with the
// same style are merged.
func (p *Paragraph) AddRun(text string, style TextStyle) {
	if text == "" && style.NoteRef == 0 {
		return
	}
	if n := len(p.Runs); n > 0 && p.Runs[n-1].Style == style && style.NoteRef == 0 {
		p.Runs[n-1].Text += text
	} else {
		p.Runs = append(p.Runs, Run{Text: text, Style: style})
	}
	p.Text += text
}

// SetHeading sets the heading level for the paragraph.
func (p *Paragraph) SetHeading(level int) {
	if level < 0 {
		level = 0
	}
	if level > 6 {
		level = 6
	}
	p.Style.HeadingLevel = level
}

// IsEmpty returns true if the paragraph has no visible content.
func (p *Paragraph) IsEmpty() bool {
	if strings.TrimSpace(p.Text) != "" {
		return false
	}
	for _, r := range p.Runs {
		if r.Style.NoteRef != 0 {
			return false
		}
	}
	return true
}
