package hwpx

import (
	"strings"

	"github.com/roboco-io/handoc/internal/model"
)

// ParseTable decodes an <hp:tbl> element. Missing numeric attributes read
// as 0 and a missing cellSpan as 1×1.
func ParseTable(el *model.GenericElement) *model.ParsedTable {
	t := &model.ParsedTable{Rows: [][]model.ParsedTableCell{}}
	if el == nil {
		return t
	}
	t.ID = el.Attr("id")
	t.RowCnt = model.ParseIntDefault(el.Attr("rowCnt"), 0)
	t.ColCnt = model.ParseIntDefault(el.Attr("colCnt"), 0)
	t.CellSpacing = model.ParseIntDefault(el.Attr("cellSpacing"), 0)
	t.BorderFillIDRef = model.ParseIntDefault(el.Attr("borderFillIDRef"), 0)
	t.RepeatHeader = model.ParseBool(el.Attr("repeatHeader"))
	t.NoAdjust = model.ParseBool(el.Attr("noAdjust"))

	for _, tr := range el.ChildrenByTag("tr") {
		row := []model.ParsedTableCell{}
		for _, tc := range tr.ChildrenByTag("tc") {
			row = append(row, parseCell(tc))
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

func parseCell(tc *model.GenericElement) model.ParsedTableCell {
	addr := tc.Child("cellAddr")
	span := tc.Child("cellSpan")
	sz := tc.Child("cellSz")

	cell := model.ParsedTableCell{
		Name:            tc.Attr("name"),
		Header:          model.ParseBool(tc.Attr("header")),
		BorderFillIDRef: model.ParseIntDefault(tc.Attr("borderFillIDRef"), 0),
		ColAddr:         model.ParseIntDefault(addr.Attr("colAddr"), 0),
		RowAddr:         model.ParseIntDefault(addr.Attr("rowAddr"), 0),
		ColSpan:         model.ParseIntDefault(span.Attr("colSpan"), 1),
		RowSpan:         model.ParseIntDefault(span.Attr("rowSpan"), 1),
		Width:           model.ParseIntDefault(sz.Attr("width"), 0),
		Height:          model.ParseIntDefault(sz.Attr("height"), 0),
	}
	if sub := tc.Child("subList"); sub != nil {
		cell.Paragraphs = paragraphsIn(sub)
	}
	return cell
}

// TableToTextGrid returns the cell texts row by row. Paragraphs of a cell
// are concatenated without a separator.
func TableToTextGrid(t *model.ParsedTable) [][]string {
	grid := make([][]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		cells := make([]string, 0, len(row))
		for _, c := range row {
			var sb strings.Builder
			for _, p := range c.Paragraphs {
				sb.WriteString(p.Text())
			}
			cells = append(cells, sb.String())
		}
		grid = append(grid, cells)
	}
	return grid
}

// FindTables returns every table of the section in document order,
// including tables nested in cells.
func FindTables(sec *model.Section) []*model.ParsedTable {
	if sec == nil {
		return nil
	}
	var out []*model.ParsedTable
	var visit func(paras []*model.Paragraph)
	visit = func(paras []*model.Paragraph) {
		for _, p := range paras {
			for _, c := range p.RunChildren() {
				if c.Kind != model.KindTable {
					continue
				}
				t := ParseTable(c.Element)
				out = append(out, t)
				for _, row := range t.Rows {
					for _, cell := range row {
						visit(cell.Paragraphs)
					}
				}
			}
		}
	}
	visit(sec.Paragraphs)
	return out
}
