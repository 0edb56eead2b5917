// Package ir defines a flat block view of a document, built from the HWPX
// model and rendered to Markdown.
package ir

// Document represents the block view of an HWP/HWPX document.
type Document struct {
	Version  string       `json:"version"`
	Metadata Metadata     `json:"metadata"`
	Content  []Block      `json:"content"`
	Notes    []*NoteBlock `json:"notes,omitempty"` // footnotes and endnotes, rendered after the body
}

// Metadata contains document metadata.
type Metadata struct {
	Title    string `json:"title,omitempty"`
	Author   string `json:"author,omitempty"`
	Language string `json:"language,omitempty"`
	Sections int    `json:"sections,omitempty"`
}

// BlockType represents the type of content block.
type BlockType string

const (
	BlockTypeParagraph BlockType = "paragraph"
	BlockTypeTable     BlockType = "table"
	BlockTypeImage     BlockType = "image"
	BlockTypeList      BlockType = "list"
	BlockTypeEquation  BlockType = "equation"
)

// Block represents a content block in the document.
type Block struct {
	Type      BlockType      `json:"type"`
	Paragraph *Paragraph     `json:"paragraph,omitempty"`
	Table     *TableBlock    `json:"table,omitempty"`
	Image     *ImageBlock    `json:"image,omitempty"`
	List      *ListBlock     `json:"list,omitempty"`
	Equation  *EquationBlock `json:"equation,omitempty"`
}

// EquationBlock holds a Hancom equation script.
type EquationBlock struct {
	Script string `json:"script"`
}

// NoteBlock is a footnote or endnote. Number is the reference number used
// in the body text.
type NoteBlock struct {
	Kind   string `json:"kind"` // footnote, endnote
	Number int    `json:"number"`
	Text   string `json:"text"`
}

// NewDocument creates a new IR document with the current version.
func NewDocument() *Document {
	return &Document{
		Version: "1.0",
		Content: make([]Block, 0),
	}
}

// AddParagraph adds a paragraph block to the document.
func (d *Document) AddParagraph(p *Paragraph) {
	d.Content = append(d.Content, Block{
		Type:      BlockTypeParagraph,
		Paragraph: p,
	})
}

// AddTable adds a table block to the document.
func (d *Document) AddTable(t *TableBlock) {
	d.Content = append(d.Content, Block{
		Type:  BlockTypeTable,
		Table: t,
	})
}

// AddImage adds an image block to the document.
func (d *Document) AddImage(img *ImageBlock) {
	d.Content = append(d.Content, Block{
		Type:  BlockTypeImage,
		Image: img,
	})
}

// AddList adds a list block to the document.
func (d *Document) AddList(l *ListBlock) {
	d.Content = append(d.Content, Block{
		Type: BlockTypeList,
		List: l,
	})
}

// AddEquation adds an equation block to the document.
func (d *Document) AddEquation(script string) {
	d.Content = append(d.Content, Block{
		Type:     BlockTypeEquation,
		Equation: &EquationBlock{Script: script},
	})
}

// AddNote records a note and returns its reference number. Numbers are
// assigned in document order starting at 1.
func (d *Document) AddNote(kind, text string) int {
	n := len(d.Notes) + 1
	d.Notes = append(d.Notes, &NoteBlock{Kind: kind, Number: n, Text: text})
	return n
}

// lastList returns the trailing list block when it has the same kind.
func (d *Document) lastList(ordered bool) *ListBlock {
	if len(d.Content) == 0 {
		return nil
	}
	last := d.Content[len(d.Content)-1]
	if last.Type != BlockTypeList || last.List.Ordered != ordered {
		return nil
	}
	return last.List
}
