package ir

// ListBlock represents consecutive bulleted or numbered paragraphs.
type ListBlock struct {
	Ordered bool       `json:"ordered"` // true = numbered list, false = bullet list
	Items   []ListItem `json:"items"`
	Start   int        `json:"start,omitempty"` // starting number for ordered lists
}

// ListItem represents a single item in a list.
type ListItem struct {
	Paragraph *Paragraph `json:"paragraph"`
	Level     int        `json:"level,omitempty"` // nesting level (0 = top level)
}

// NewList creates a new list block.
func NewList(ordered bool) *ListBlock {
	return &ListBlock{
		Ordered: ordered,
		Items:   make([]ListItem, 0),
		Start:   1,
	}
}

// NewOrderedList creates a new ordered (numbered) list.
func NewOrderedList() *ListBlock {
	return NewList(true)
}

// NewUnorderedList creates a new unordered (bullet) list.
func NewUnorderedList() *ListBlock {
	return NewList(false)
}

// AddItem adds a plain text item to the list.
func (l *ListBlock) AddItem(text string) {
	l.AddParagraph(NewParagraph(text), 0)
}

// AddParagraph adds an item at a nesting level.
func (l *ListBlock) AddParagraph(p *Paragraph, level int) {
	l.Items = append(l.Items, ListItem{
		Paragraph: p,
		Level:     max(level, 0),
	})
}

// IsEmpty returns true if the list has no items.
func (l *ListBlock) IsEmpty() bool {
	return len(l.Items) == 0
}
