package ir

import "github.com/roboco-io/handoc/internal/model"

// TableBlock represents a table region in the document.
type TableBlock struct {
	Rows      int      `json:"rows"`
	Cols      int      `json:"cols"`
	Cells     [][]Cell `json:"cells,omitempty"`
	HasHeader bool     `json:"has_header,omitempty"` // first row is header
}

// Cell represents a single cell in a table. Positions covered by another
// cell's span are empty and marked Covered.
type Cell struct {
	Text    string    `json:"text"`
	RowSpan int       `json:"row_span,omitempty"`
	ColSpan int       `json:"col_span,omitempty"`
	Covered bool      `json:"covered,omitempty"`
	Style   CellStyle `json:"style,omitempty"`
}

// CellStyle contains cell-level styling hints.
type CellStyle struct {
	IsHeader bool `json:"is_header,omitempty"`
}

// NewTable creates a new table with the specified dimensions.
func NewTable(rows, cols int) *TableBlock {
	cells := make([][]Cell, rows)
	for i := range cells {
		cells[i] = make([]Cell, cols)
		for j := range cells[i] {
			cells[i][j] = Cell{
				RowSpan: 1,
				ColSpan: 1,
			}
		}
	}
	return &TableBlock{
		Rows:  rows,
		Cols:  cols,
		Cells: cells,
	}
}

// TableFromParsed lays the cells of a parsed table on a grid by their
// addresses. Cells outside the declared size are dropped.
func TableFromParsed(pt *model.ParsedTable) *TableBlock {
	t := NewTable(pt.RowCnt, pt.ColCnt)
	for _, row := range pt.Rows {
		for _, c := range row {
			cell := t.GetCell(c.RowAddr, c.ColAddr)
			if cell == nil {
				continue
			}
			cell.Text = c.Text()
			cell.RowSpan = max(c.RowSpan, 1)
			cell.ColSpan = max(c.ColSpan, 1)
			cell.Style.IsHeader = c.Header
			t.cover(c.RowAddr, c.ColAddr, cell.RowSpan, cell.ColSpan)
		}
	}
	if pt.RepeatHeader || (t.Rows > 0 && firstRowIsHeader(t)) {
		t.SetHeaderRow()
	}
	return t
}

// firstRowIsHeader reports whether every cell of the first row is a header cell.
func firstRowIsHeader(t *TableBlock) bool {
	for _, c := range t.Cells[0] {
		if !c.Style.IsHeader && !c.Covered {
			return false
		}
	}
	return t.Cols > 0
}

func (t *TableBlock) cover(row, col, rowSpan, colSpan int) {
	for r := row; r < row+rowSpan; r++ {
		for c := col; c < col+colSpan; c++ {
			if r == row && c == col {
				continue
			}
			if cell := t.GetCell(r, c); cell != nil {
				cell.Covered = true
			}
		}
	}
}

// SetCell sets the content of a specific cell.
func (t *TableBlock) SetCell(row, col int, text string) {
	if cell := t.GetCell(row, col); cell != nil {
		cell.Text = text
	}
}

// GetCell returns the cell at the specified position.
func (t *TableBlock) GetCell(row, col int) *Cell {
	if row >= 0 && row < t.Rows && col >= 0 && col < t.Cols && t.Cells != nil {
		return &t.Cells[row][col]
	}
	return nil
}

// SetHeaderRow marks the first row as a header row.
func (t *TableBlock) SetHeaderRow() {
	t.HasHeader = true
	if t.Cells != nil && t.Rows > 0 {
		for j := 0; j < t.Cols; j++ {
			t.Cells[0][j].Style.IsHeader = true
		}
	}
}
