package hwp5

import (
	"encoding/binary"
	"fmt"
	"slices"
	"strings"

	"github.com/roboco-io/handoc/internal/model"
)

// BlockKind distinguishes the body-level blocks of a section.
type BlockKind int

const (
	BlockParagraph BlockKind = iota
	BlockTable
)

// Block is one body-level item in document order.
type Block struct {
	Kind      BlockKind
	Paragraph *Paragraph
	Table     *Table
}

// Section은 본문 섹션 데이터
type Section struct {
	Blocks []Block

	// SkippedTags lists record tags the extractor does not interpret, sorted.
	SkippedTags []uint16
}

// Paragraphs returns the body-level paragraphs in order.
func (s *Section) Paragraphs() []*Paragraph {
	var out []*Paragraph
	for _, b := range s.Blocks {
		if b.Kind == BlockParagraph {
			out = append(out, b.Paragraph)
		}
	}
	return out
}

// Tables returns the body-level tables in order.
func (s *Section) Tables() []*Table {
	var out []*Table
	for _, b := range s.Blocks {
		if b.Kind == BlockTable {
			out = append(out, b.Table)
		}
	}
	return out
}

// CharShapeRange는 PARA_CHAR_SHAPE 항목: Pos 위치부터 CharShapeID 적용
type CharShapeRange struct {
	Pos         uint32
	CharShapeID uint32
}

// Paragraph는 문단 데이터
type Paragraph struct {
	Text        string
	Controls    []ControlInfo
	CharShapes  []CharShapeRange
	ParaShapeID uint16
	StyleID     uint8
	Level       uint16
	Tables      []*Table // 문단에 삽입된 표
}

// DominantCharShape returns the char shape id covering the most characters,
// the lowest id on ties, or 0 when the paragraph has no ranges.
func (p *Paragraph) DominantCharShape() uint32 {
	if len(p.CharShapes) == 0 {
		return 0
	}
	length := uint32(len([]rune(p.Text)))
	cover := make(map[uint32]uint32)
	for i, r := range p.CharShapes {
		end := length
		if i+1 < len(p.CharShapes) {
			end = p.CharShapes[i+1].Pos
		}
		if end > r.Pos {
			cover[r.CharShapeID] += end - r.Pos
		} else if _, ok := cover[r.CharShapeID]; !ok {
			cover[r.CharShapeID] = 0
		}
	}

	best, bestN := p.CharShapes[0].CharShapeID, uint32(0)
	first := true
	for id, n := range cover {
		if first || n > bestN || (n == bestN && id < best) {
			best, bestN, first = id, n, false
		}
	}
	return best
}

// Table은 표 데이터
type Table struct {
	Rows        int
	Cols        int
	CellSpacing int16
	Cells       []*TableCell   // 레코드 순서
	Grid        [][]*TableCell // Rows x Cols, 병합으로 가려진 칸은 nil
}

// TableCell은 표 셀 데이터
type TableCell struct {
	Row        int
	Col        int
	RowSpan    int
	ColSpan    int
	Width      int
	Height     int
	Paragraphs []*Paragraph

	addressed bool
}

// Text returns the cell text, one line per non-empty paragraph.
func (c *TableCell) Text() string {
	if c == nil {
		return ""
	}
	var texts []string
	for _, p := range c.Paragraphs {
		if text := strings.TrimSpace(p.Text); text != "" {
			texts = append(texts, text)
		}
	}
	return strings.Join(texts, "\n")
}

// TextGrid returns the cell texts as a Rows x Cols matrix.
func (t *Table) TextGrid() [][]string {
	out := make([][]string, len(t.Grid))
	for r, row := range t.Grid {
		out[r] = make([]string, len(row))
		for c, cell := range row {
			out[r][c] = cell.Text()
		}
	}
	return out
}

// SectionParser parses BodyText section streams.
type SectionParser struct {
	records []*Record
	warn    *model.WarningCollector
	skipped map[uint16]bool
}

// NewSectionParser creates a new section parser.
func NewSectionParser(warn *model.WarningCollector) *SectionParser {
	return &SectionParser{warn: warn}
}

// Parse parses a decompressed section stream.
func (sp *SectionParser) Parse(data []byte) *Section {
	sp.records = ParseRecords(data, sp.warn)
	sp.skipped = make(map[uint16]bool)
	section := &Section{}

	i := 0
	for i < len(sp.records) {
		rec := sp.records[i]
		if rec.TagID != TagParaHeader {
			sp.skip(rec.TagID)
			i++
			continue
		}

		para, next := sp.parseParagraph(i)
		i = next

		// 표만 담은 빈 문단은 표 블록으로 대체한다
		if para.Text != "" || len(para.Tables) == 0 {
			section.Blocks = append(section.Blocks, Block{Kind: BlockParagraph, Paragraph: para})
		}
		for _, t := range para.Tables {
			section.Blocks = append(section.Blocks, Block{Kind: BlockTable, Table: t})
		}
	}

	for tag := range sp.skipped {
		section.SkippedTags = append(section.SkippedTags, tag)
	}
	slices.Sort(section.SkippedTags)
	return section
}

func (sp *SectionParser) skip(tag uint16) {
	if sp.skipped != nil {
		sp.skipped[tag] = true
	}
}

// parseParagraph consumes the PARA_HEADER at start and every deeper record
// that belongs to it.
func (sp *SectionParser) parseParagraph(start int) (*Paragraph, int) {
	rec := sp.records[start]
	para := parseParaHeader(rec.Data)
	para.Level = rec.Level

	i := start + 1
	for i < len(sp.records) && sp.records[i].Level > rec.Level {
		child := sp.records[i]
		if child.Level != rec.Level+1 {
			sp.skip(child.TagID)
			i++
			continue
		}

		switch child.TagID {
		case TagParaText:
			para.Text, para.Controls = DecodeParaTextWithControls(child.Data)
			para.Text = strings.TrimRight(para.Text, "\n")
		case TagParaCharShape:
			para.CharShapes = parseParaCharShape(child.Data)
		case TagCtrlHeader:
			if len(child.Data) >= 4 && ctrlIDFromBytes(child.Data[0:4]) == CtrlTable {
				table, next := sp.parseTable(i)
				if table != nil {
					para.Tables = append(para.Tables, table)
				}
				i = next
				continue
			}
			sp.skip(child.TagID)
		default:
			sp.skip(child.TagID)
		}
		i++
	}

	return para, i
}

// parseTable consumes a "tbl " CTRL_HEADER and its TABLE, LIST_HEADER and
// cell paragraph records.
func (sp *SectionParser) parseTable(start int) (*Table, int) {
	ctrl := sp.records[start]
	var table *Table
	var cell *TableCell
	var cells []*TableCell

	i := start + 1
	for i < len(sp.records) && sp.records[i].Level > ctrl.Level {
		rec := sp.records[i]
		if rec.Level != ctrl.Level+1 {
			sp.skip(rec.TagID)
			i++
			continue
		}

		switch rec.TagID {
		case TagTable:
			table = parseTableRecord(rec.Data)
			if table == nil {
				sp.warn.Add(model.WarnShortRecord,
					fmt.Sprintf("TABLE record of %d bytes is below the 8-byte minimum", len(rec.Data)),
					StreamBodyText, model.SeverityWarn)
			}
		case TagListHeader:
			cell = parseCellHeader(rec.Data)
			cells = append(cells, cell)
		case TagParaHeader:
			para, next := sp.parseParagraph(i)
			if cell == nil {
				cell = &TableCell{RowSpan: 1, ColSpan: 1}
				cells = append(cells, cell)
			}
			cell.Paragraphs = append(cell.Paragraphs, para)
			i = next
			continue
		default:
			sp.skip(rec.TagID)
		}
		i++
	}

	if table == nil || table.Rows <= 0 || table.Cols <= 0 {
		return nil, i
	}
	table.Cells = cells
	arrangeCells(table)
	return table, i
}

// arrangeCells builds the grid from cell addresses, falling back to
// row-major placement for cells without one.
func arrangeCells(table *Table) {
	table.Grid = make([][]*TableCell, table.Rows)
	for r := range table.Grid {
		table.Grid[r] = make([]*TableCell, table.Cols)
	}
	covered := make([][]bool, table.Rows)
	for r := range covered {
		covered[r] = make([]bool, table.Cols)
	}

	place := func(cell *TableCell) {
		table.Grid[cell.Row][cell.Col] = cell
		for r := cell.Row; r < cell.Row+cell.RowSpan && r < table.Rows; r++ {
			for c := cell.Col; c < cell.Col+cell.ColSpan && c < table.Cols; c++ {
				covered[r][c] = true
			}
		}
	}

	row, col := 0, 0
	for _, cell := range table.Cells {
		if cell.addressed && cell.Row < table.Rows && cell.Col < table.Cols && !covered[cell.Row][cell.Col] {
			place(cell)
			continue
		}
		for row < table.Rows && covered[row][col] {
			if col++; col >= table.Cols {
				row, col = row+1, 0
			}
		}
		if row >= table.Rows {
			return
		}
		cell.Row, cell.Col = row, col
		place(cell)
	}
}

func parseParaHeader(data []byte) *Paragraph {
	para := &Paragraph{}
	// [0:4] 글자 수, [4:8] 컨트롤 마스크, [8:10] 문단 모양 ID, [10] 스타일 ID
	if len(data) >= 10 {
		para.ParaShapeID = binary.LittleEndian.Uint16(data[8:10])
	}
	if len(data) >= 11 {
		para.StyleID = data[10]
	}
	return para
}

func parseParaCharShape(data []byte) []CharShapeRange {
	ranges := make([]CharShapeRange, 0, len(data)/8)
	for off := 0; off+8 <= len(data); off += 8 {
		ranges = append(ranges, CharShapeRange{
			Pos:         binary.LittleEndian.Uint32(data[off : off+4]),
			CharShapeID: binary.LittleEndian.Uint32(data[off+4 : off+8]),
		})
	}
	return ranges
}

func parseTableRecord(data []byte) *Table {
	// [0:4] 속성, [4:6] 행 개수, [6:8] 열 개수, [8:10] 셀 간격
	if len(data) < 8 {
		return nil
	}
	table := &Table{
		Rows: int(binary.LittleEndian.Uint16(data[4:6])),
		Cols: int(binary.LittleEndian.Uint16(data[6:8])),
	}
	if len(data) >= 10 {
		table.CellSpacing = int16(binary.LittleEndian.Uint16(data[8:10]))
	}
	return table
}

func parseCellHeader(data []byte) *TableCell {
	cell := &TableCell{RowSpan: 1, ColSpan: 1}
	// [0:8] 리스트 헤더, [8:16] 열/행 주소와 병합, [16:24] 폭/높이
	if len(data) < 16 {
		return cell
	}
	cell.addressed = true
	cell.Col = int(binary.LittleEndian.Uint16(data[8:10]))
	cell.Row = int(binary.LittleEndian.Uint16(data[10:12]))
	cell.ColSpan = max(1, int(binary.LittleEndian.Uint16(data[12:14])))
	cell.RowSpan = max(1, int(binary.LittleEndian.Uint16(data[14:16])))
	if len(data) >= 24 {
		cell.Width = int(binary.LittleEndian.Uint32(data[16:20]))
		cell.Height = int(binary.LittleEndian.Uint32(data[20:24]))
	}
	return cell
}
