package hwp5

import (
	"encoding/binary"
	"strings"
	"unicode/utf16"

	"golang.org/x/text/encoding/unicode"
)

// ControlInfo represents an inline or extended control embedded in PARA_TEXT.
type ControlInfo struct {
	Code   uint16 // 제어 문자 코드 (1-23)
	ID     string // 확장 컨트롤의 ctrl id, 예: "tbl "
	Offset int    // 텍스트 내 위치 (rune 단위)
}

// isSpanControl reports whether code occupies 8 WCHARs (16 bytes).
func isSpanControl(code uint16) bool {
	return (code >= 1 && code <= 9) || code == 11 || code == 12 || (code >= 14 && code <= 23)
}

// DecodeParaText decodes PARA_TEXT payload into text. Line and paragraph
// breaks become "\n"; other controls are dropped.
func DecodeParaText(data []byte) string {
	text, _ := DecodeParaTextWithControls(data)
	return text
}

// DecodeParaTextWithControls decodes PARA_TEXT and also reports where each
// 16-byte control sat in the text.
func DecodeParaTextWithControls(data []byte) (string, []ControlInfo) {
	var sb strings.Builder
	var controls []ControlInfo
	runes := 0

	i := 0
	for i+1 < len(data) {
		ch := binary.LittleEndian.Uint16(data[i : i+2])

		switch {
		case ch == CharNull:
			i += 2
		case ch == CharLineBreak || ch == CharParaBreak:
			sb.WriteByte('\n')
			runes++
			i += 2
		case isSpanControl(ch):
			ctrl := ControlInfo{Code: ch, Offset: runes}
			if i+6 <= len(data) {
				ctrl.ID = ctrlIDFromBytes(data[i+2 : i+6])
			}
			controls = append(controls, ctrl)
			i += ControlSpan
		case ch < 0x20:
			// 24-31: 예약된 제어 문자
			i += 2
		case utf16.IsSurrogate(rune(ch)):
			r := '\uFFFD'
			if i+3 < len(data) {
				lo := binary.LittleEndian.Uint16(data[i+2 : i+4])
				if dr := utf16.DecodeRune(rune(ch), rune(lo)); dr != '\uFFFD' {
					r = dr
					i += 2
				}
			}
			sb.WriteRune(r)
			runes++
			i += 2
		default:
			sb.WriteRune(rune(ch))
			runes++
			i += 2
		}
	}

	return sb.String(), controls
}

// ctrlIDFromBytes turns the little-endian DWORD ctrl id into its ASCII form.
func ctrlIDFromBytes(b []byte) string {
	if len(b) < 4 {
		return ""
	}
	return string([]byte{b[3], b[2], b[1], b[0]})
}

var utf16le = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

// DecodeUTF16LE decodes UTF-16LE bytes to string, dropping trailing NULs.
func DecodeUTF16LE(data []byte) string {
	if len(data) < 2 {
		return ""
	}
	out, err := utf16le.NewDecoder().Bytes(data[:len(data)&^1])
	if err != nil {
		return ""
	}
	return strings.TrimRight(string(out), "\x00")
}

// EncodeUTF16LE encodes s as UTF-16LE.
func EncodeUTF16LE(s string) []byte {
	out, err := utf16le.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return nil
	}
	return out
}

// ExtractSectionText returns the paragraph strings of one BodyText section
// stream in order. Trailing newlines are trimmed and empty paragraphs kept.
func ExtractSectionText(stream []byte, compressed bool) ([]string, error) {
	data := stream
	if compressed && len(stream) > 0 {
		var err error
		if data, err = DecompressStream(stream); err != nil {
			return nil, err
		}
	}
	var paragraphs []string
	for _, rec := range ParseRecords(data, nil) {
		if rec.TagID == TagParaText {
			paragraphs = append(paragraphs, strings.TrimRight(DecodeParaText(rec.Data), "\n"))
		}
	}
	return paragraphs, nil
}
