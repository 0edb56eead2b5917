// Package hwp5 reads HWP 5.x binary documents: the CFB container, its
// record streams and the DocInfo/BodyText records the codec understands.
package hwp5

// HWP 5.x 파일 포맷 상수
// 참조: 한글문서파일형식 5.0 revision 1.3

const (
	// FileHeader 시그니처
	Signature = "HWP Document File"

	// FileHeader 크기 (고정)
	FileHeaderSize = 256
)

// FileHeader 속성 플래그 비트
const (
	FlagCompressed    uint32 = 1 << 0 // 압축 여부
	FlagEncrypted     uint32 = 1 << 1 // 암호 설정 여부
	FlagDistributable uint32 = 1 << 2 // 배포용 문서
	FlagScript        uint32 = 1 << 3 // 스크립트 저장
	FlagDRM           uint32 = 1 << 4 // DRM 보안
	FlagHistory       uint32 = 1 << 6 // 문서 이력 관리
	FlagSignature     uint32 = 1 << 7 // 전자 서명
	FlagCertEncrypt   uint32 = 1 << 8 // 공인 인증서 암호화
	FlagCertDRM       uint32 = 1 << 10
)

// 스트림 이름
const (
	StreamFileHeader  = "FileHeader"
	StreamDocInfo     = "DocInfo"
	StreamBodyText    = "BodyText"
	StreamBinData     = "BinData"
	StreamPrvText     = "PrvText"
	StreamSummaryInfo = "\x05HwpSummaryInformation"
)

// 레코드 태그 ID (HWPTAG_BEGIN = 0x10)
const (
	TagDocumentProperties uint16 = 0x0010
	TagIDMappings         uint16 = 0x0011
	TagBinData            uint16 = 0x0012
	TagFaceName           uint16 = 0x0013
	TagBorderFill         uint16 = 0x0014
	TagCharShape          uint16 = 0x0015
	TagTabDef             uint16 = 0x0016
	TagNumbering          uint16 = 0x0017
	TagBullet             uint16 = 0x0018
	TagParaShape          uint16 = 0x0019
	TagStyle              uint16 = 0x001A
	TagDocData            uint16 = 0x001B

	TagParaHeader     uint16 = 0x0042
	TagParaText       uint16 = 0x0043
	TagParaCharShape  uint16 = 0x0044
	TagParaLineSeg    uint16 = 0x0045
	TagParaRangeTag   uint16 = 0x0046
	TagCtrlHeader     uint16 = 0x0047
	TagListHeader     uint16 = 0x0048
	TagPageDef        uint16 = 0x0049
	TagFootnoteShape  uint16 = 0x004A
	TagPageBorderFill uint16 = 0x004B
	TagShapeComponent uint16 = 0x004C
	TagTable          uint16 = 0x004D
	TagShapeLine      uint16 = 0x004E
	TagShapeRectangle uint16 = 0x004F
	TagShapeEllipse   uint16 = 0x0050
	TagShapeArc       uint16 = 0x0051
	TagShapePolygon   uint16 = 0x0052
	TagShapeCurve     uint16 = 0x0053
	TagShapeOLE       uint16 = 0x0054
	TagShapePicture   uint16 = 0x0055
	TagShapeContainer uint16 = 0x0056
	TagCtrlData       uint16 = 0x0057
	TagEqEdit         uint16 = 0x0058
)

// 컨트롤 ID (CTRL_HEADER 첫 4바이트, 역순 저장)
const (
	CtrlSection    = "secd"
	CtrlColumn     = "cold"
	CtrlHeader     = "head"
	CtrlFooter     = "foot"
	CtrlFootnote   = "fn  "
	CtrlEndnote    = "en  "
	CtrlTable      = "tbl "
	CtrlGSO        = "gso "
	CtrlEquation   = "eqed"
	CtrlFieldBegin = "%beg"
	CtrlPageNumber = "pgnp"
)

// PARA_TEXT 제어 문자
const (
	CharNull      = 0x0000
	CharLineBreak = 0x000A // 줄 나눔
	CharParaBreak = 0x000D // 문단 나눔
	CharTab       = 0x0009 // 탭 (inline, 16바이트)

	// 제어 문자가 차지하는 바이트 수 (문자 1 + 추가 7 WCHAR)
	ControlSpan = 16
)

// 최소 레코드 길이. 이보다 짧은 레코드는 건너뛴다.
const (
	MinCharShapeSize   = 58
	MinParaShapeSize   = 8
	ParaShapeSpacingAt = 24
	DefaultLineSpacing = 160
)

var tagNames = map[uint16]string{
	TagDocumentProperties: "DOCUMENT_PROPERTIES",
	TagIDMappings:         "ID_MAPPINGS",
	TagBinData:            "BIN_DATA",
	TagFaceName:           "FACE_NAME",
	TagBorderFill:         "BORDER_FILL",
	TagCharShape:          "CHAR_SHAPE",
	TagTabDef:             "TAB_DEF",
	TagNumbering:          "NUMBERING",
	TagBullet:             "BULLET",
	TagParaShape:          "PARA_SHAPE",
	TagStyle:              "STYLE",
	TagDocData:            "DOC_DATA",
	TagParaHeader:         "PARA_HEADER",
	TagParaText:           "PARA_TEXT",
	TagParaCharShape:      "PARA_CHAR_SHAPE",
	TagParaLineSeg:        "PARA_LINE_SEG",
	TagParaRangeTag:       "PARA_RANGE_TAG",
	TagCtrlHeader:         "CTRL_HEADER",
	TagListHeader:         "LIST_HEADER",
	TagPageDef:            "PAGE_DEF",
	TagFootnoteShape:      "FOOTNOTE_SHAPE",
	TagPageBorderFill:     "PAGE_BORDER_FILL",
	TagShapeComponent:     "SHAPE_COMPONENT",
	TagTable:              "TABLE",
	TagShapeLine:          "SHAPE_COMPONENT_LINE",
	TagShapeRectangle:     "SHAPE_COMPONENT_RECTANGLE",
	TagShapeEllipse:       "SHAPE_COMPONENT_ELLIPSE",
	TagShapeArc:           "SHAPE_COMPONENT_ARC",
	TagShapePolygon:       "SHAPE_COMPONENT_POLYGON",
	TagShapeCurve:         "SHAPE_COMPONENT_CURVE",
	TagShapeOLE:           "SHAPE_COMPONENT_OLE",
	TagShapePicture:       "SHAPE_COMPONENT_PICTURE",
	TagShapeContainer:     "SHAPE_COMPONENT_CONTAINER",
	TagCtrlData:           "CTRL_DATA",
	TagEqEdit:             "EQEDIT",
}
