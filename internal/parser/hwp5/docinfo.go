package hwp5

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/roboco-io/handoc/internal/model"
)

// DocInfo는 문서 정보 스트림에서 파싱된 데이터
type DocInfo struct {
	Properties  *DocumentProperties
	IDMappings  *IDMappings
	BinDataList []*BinDataInfo
	FaceNames   []string
	CharShapes  []*CharShape
	ParaShapes  []*ParaShape
	Styles      []*Style
}

// DocumentProperties는 문서 속성 (HWPTAG_DOCUMENT_PROPERTIES)
type DocumentProperties struct {
	SectionCount  uint16 // 구역 개수
	PageStartNum  uint16 // 시작 페이지 번호
	FootnoteStart uint16 // 각주 시작 번호
	EndnoteStart  uint16 // 미주 시작 번호
	PictureStart  uint16 // 그림 시작 번호
	TableStart    uint16 // 표 시작 번호
	EquationStart uint16 // 수식 시작 번호
}

// IDMappings는 ID 매핑 테이블 크기 (HWPTAG_ID_MAPPINGS)
type IDMappings struct {
	BinDataCount    int32
	FaceNameCounts  [7]int32 // 한글, 영어, 한자, 일어, 기타, 기호, 사용자
	BorderFillCount int32
	CharShapeCount  int32
	TabDefCount     int32
	NumberingCount  int32
	BulletCount     int32
	ParaShapeCount  int32
	StyleCount      int32
}

// BinData storage types (low nibble of the BIN_DATA properties).
const (
	BinDataLink      = 0
	BinDataEmbedding = 1
	BinDataStorage   = 2
)

// BinDataInfo는 바이너리 데이터 정보 (HWPTAG_BIN_DATA)
type BinDataInfo struct {
	Type      uint16 // 하위 4비트: link / embedding / storage
	AbsPath   string // 절대 경로 (link)
	RelPath   string // 상대 경로 (link)
	BinDataID uint16 // BinData 스토리지 내 ID
	Extension string // 확장자
}

// Kind returns the storage type nibble.
func (info *BinDataInfo) Kind() uint16 {
	return info.Type & 0x0F
}

// StreamName returns the BinData stream name, e.g. "BIN0001.png", or ""
// for linked data.
func (info *BinDataInfo) StreamName() string {
	if info.Kind() == BinDataLink || info.BinDataID == 0 {
		return ""
	}
	return fmt.Sprintf("BIN%04X.%s", info.BinDataID, strings.ToLower(info.Extension))
}

// CharShape는 글자 모양 (HWPTAG_CHAR_SHAPE)
type CharShape struct {
	FaceIDs    [7]uint16 // 언어별 글꼴 ID
	Height     int32     // 기준 크기 (100분의 1pt)
	Attributes uint32    // 속성 플래그
	TextColor  uint32    // 0x00BBGGRR
}

// Bold reports bit 1 of the properties word.
func (cs *CharShape) Bold() bool {
	return cs.Attributes&0x02 != 0
}

// Italic reports bit 0 of the properties word.
func (cs *CharShape) Italic() bool {
	return cs.Attributes&0x01 != 0
}

// Underline reports a non-zero underline kind (bits 2-3).
func (cs *CharShape) Underline() bool {
	return (cs.Attributes>>2)&0x03 != 0
}

// Strikeout reports a non-zero strikeout kind (bits 18-20).
func (cs *CharShape) Strikeout() bool {
	return (cs.Attributes>>18)&0x07 != 0
}

// FontSizePt returns the font size in points.
func (cs *CharShape) FontSizePt() float64 {
	return float64(cs.Height) / 100.0
}

// ColorHex renders the text color as #RRGGBB.
func (cs *CharShape) ColorHex() string {
	r := cs.TextColor & 0xFF
	g := (cs.TextColor >> 8) & 0xFF
	b := (cs.TextColor >> 16) & 0xFF
	return fmt.Sprintf("#%02X%02X%02X", r, g, b)
}

// ParaShape는 문단 모양 (HWPTAG_PARA_SHAPE)
type ParaShape struct {
	Attributes1 uint32 // 속성 1 (정렬: bit 2-4)
	LeftMargin  int32  // 왼쪽 여백
	RightMargin int32  // 오른쪽 여백
	Indent      int32  // 들여쓰기
	LineSpacing int32  // 줄 간격 (%), 레코드가 짧으면 160
}

var alignNames = [...]string{"justify", "left", "right", "center", "distribute", "divide"}

// Align returns the horizontal alignment name.
func (ps *ParaShape) Align() string {
	idx := (ps.Attributes1 >> 2) & 0x07
	if int(idx) < len(alignNames) {
		return alignNames[idx]
	}
	return "justify"
}

// Style은 스타일 정의 (HWPTAG_STYLE)
type Style struct {
	Name        string // 스타일 이름
	EngName     string // 영문 스타일 이름
	Type        uint8  // 0: 문단, 1: 글자
	NextStyleID uint8  // 다음 스타일 ID
	ParaShapeID uint16 // 문단 모양 ID
	CharShapeID uint16 // 글자 모양 ID
}

// CharShapeAt returns the char shape for id, or nil.
func (info *DocInfo) CharShapeAt(id int) *CharShape {
	if info == nil || id < 0 || id >= len(info.CharShapes) {
		return nil
	}
	return info.CharShapes[id]
}

// ParaShapeAt returns the para shape for id, or nil.
func (info *DocInfo) ParaShapeAt(id int) *ParaShape {
	if info == nil || id < 0 || id >= len(info.ParaShapes) {
		return nil
	}
	return info.ParaShapes[id]
}

// FaceName returns the face name for id, or "".
func (info *DocInfo) FaceName(id int) string {
	if info == nil || id < 0 || id >= len(info.FaceNames) {
		return ""
	}
	return info.FaceNames[id]
}

// ParseDocInfo parses the (decompressed) DocInfo stream. Records shorter
// than their tag's minimum are skipped and reported on warn.
func ParseDocInfo(data []byte, warn *model.WarningCollector) *DocInfo {
	info := &DocInfo{}
	short := func(rec *Record, min int) {
		warn.Add(model.WarnShortRecord,
			fmt.Sprintf("%s record of %d bytes is below the %d-byte minimum", TagName(rec.TagID), len(rec.Data), min),
			StreamDocInfo, model.SeverityWarn)
	}

	for _, rec := range ParseRecords(data, warn) {
		switch rec.TagID {
		case TagDocumentProperties:
			info.Properties = parseDocumentProperties(rec.Data)
		case TagIDMappings:
			info.IDMappings = parseIDMappings(rec.Data)
		case TagBinData:
			if bd := parseBinDataInfo(rec.Data); bd != nil {
				// 일부 문서는 ID를 0으로 두고 순번을 쓴다
				if bd.BinDataID == 0 {
					bd.BinDataID = uint16(len(info.BinDataList) + 1)
				}
				info.BinDataList = append(info.BinDataList, bd)
			} else {
				short(rec, 2)
			}
		case TagFaceName:
			info.FaceNames = append(info.FaceNames, parseFaceName(rec.Data))
		case TagCharShape:
			if cs := parseCharShape(rec.Data); cs != nil {
				info.CharShapes = append(info.CharShapes, cs)
			} else {
				short(rec, MinCharShapeSize)
			}
		case TagParaShape:
			if ps := parseParaShape(rec.Data); ps != nil {
				info.ParaShapes = append(info.ParaShapes, ps)
			} else {
				short(rec, MinParaShapeSize)
			}
		case TagStyle:
			if st := parseStyle(rec.Data); st != nil {
				info.Styles = append(info.Styles, st)
			}
		}
	}

	return info
}

func parseDocumentProperties(data []byte) *DocumentProperties {
	if len(data) < 14 {
		return nil
	}
	return &DocumentProperties{
		SectionCount:  binary.LittleEndian.Uint16(data[0:2]),
		PageStartNum:  binary.LittleEndian.Uint16(data[2:4]),
		FootnoteStart: binary.LittleEndian.Uint16(data[4:6]),
		EndnoteStart:  binary.LittleEndian.Uint16(data[6:8]),
		PictureStart:  binary.LittleEndian.Uint16(data[8:10]),
		TableStart:    binary.LittleEndian.Uint16(data[10:12]),
		EquationStart: binary.LittleEndian.Uint16(data[12:14]),
	}
}

func parseIDMappings(data []byte) *IDMappings {
	if len(data) < 60 {
		return nil
	}
	u32 := func(off int) int32 { return int32(binary.LittleEndian.Uint32(data[off : off+4])) }

	m := &IDMappings{BinDataCount: u32(0)}
	for i := range m.FaceNameCounts {
		m.FaceNameCounts[i] = u32(4 + i*4)
	}
	m.BorderFillCount = u32(32)
	m.CharShapeCount = u32(36)
	m.TabDefCount = u32(40)
	m.NumberingCount = u32(44)
	m.BulletCount = u32(48)
	m.ParaShapeCount = u32(52)
	m.StyleCount = u32(56)
	return m
}

// readString reads a uint16 length-prefixed UTF-16LE string at offset.
func readString(data []byte, offset int) (string, int, bool) {
	if offset+2 > len(data) {
		return "", offset, false
	}
	n := int(binary.LittleEndian.Uint16(data[offset : offset+2]))
	offset += 2
	if offset+n*2 > len(data) {
		return "", offset, false
	}
	return DecodeUTF16LE(data[offset : offset+n*2]), offset + n*2, true
}

func parseBinDataInfo(data []byte) *BinDataInfo {
	if len(data) < 2 {
		return nil
	}

	info := &BinDataInfo{Type: binary.LittleEndian.Uint16(data[0:2])}
	offset := 2

	switch info.Kind() {
	case BinDataLink:
		info.AbsPath, offset, _ = readString(data, offset)
		info.RelPath, _, _ = readString(data, offset)
	case BinDataEmbedding, BinDataStorage:
		if offset+2 <= len(data) {
			info.BinDataID = binary.LittleEndian.Uint16(data[offset : offset+2])
			offset += 2
		}
		info.Extension, _, _ = readString(data, offset)
	}

	return info
}

func parseFaceName(data []byte) string {
	// 속성 1바이트 다음에 길이 + 이름
	if len(data) < 3 {
		return ""
	}
	name, _, _ := readString(data, 1)
	if i := strings.IndexByte(name, 0); i >= 0 {
		name = name[:i]
	}
	return name
}

func parseCharShape(data []byte) *CharShape {
	if len(data) < MinCharShapeSize {
		return nil
	}

	cs := &CharShape{}
	for i := range cs.FaceIDs {
		cs.FaceIDs[i] = binary.LittleEndian.Uint16(data[i*2 : i*2+2])
	}
	// 장평/자간/상대크기/오프셋 (14..41) 은 사용하지 않는다
	cs.Height = int32(binary.LittleEndian.Uint32(data[42:46]))
	cs.Attributes = binary.LittleEndian.Uint32(data[46:50])
	cs.TextColor = binary.LittleEndian.Uint32(data[52:56])

	return cs
}

func parseParaShape(data []byte) *ParaShape {
	if len(data) < MinParaShapeSize {
		return nil
	}

	ps := &ParaShape{
		Attributes1: binary.LittleEndian.Uint32(data[0:4]),
		LineSpacing: DefaultLineSpacing,
	}
	if len(data) >= 16 {
		ps.LeftMargin = int32(binary.LittleEndian.Uint32(data[4:8]))
		ps.RightMargin = int32(binary.LittleEndian.Uint32(data[8:12]))
		ps.Indent = int32(binary.LittleEndian.Uint32(data[12:16]))
	}
	if len(data) >= ParaShapeSpacingAt+4 {
		ps.LineSpacing = int32(binary.LittleEndian.Uint32(data[ParaShapeSpacingAt : ParaShapeSpacingAt+4]))
	}

	return ps
}

func parseStyle(data []byte) *Style {
	if len(data) < 2 {
		return nil
	}

	style := &Style{}
	name, offset, ok := readString(data, 0)
	if !ok {
		return style
	}
	style.Name = name
	if style.EngName, offset, ok = readString(data, offset); !ok {
		return style
	}

	// 타입(1) 다음 스타일(1) 언어(2) 문단모양(2) 글자모양(2)
	if offset+8 > len(data) {
		return style
	}
	style.Type = data[offset]
	style.NextStyleID = data[offset+1]
	style.ParaShapeID = binary.LittleEndian.Uint16(data[offset+4 : offset+6])
	style.CharShapeID = binary.LittleEndian.Uint16(data[offset+6 : offset+8])

	return style
}
