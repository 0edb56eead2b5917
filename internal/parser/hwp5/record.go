package hwp5

import (
	"bytes"
	"compress/flate"
	"compress/zlib"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/roboco-io/handoc/internal/model"
)

// ErrTruncatedRecord is returned by RecordReader when a record header or
// payload runs past the end of the stream.
var ErrTruncatedRecord = errors.New("truncated record")

// Record는 HWP 5.x 레코드
type Record struct {
	TagID uint16 // 10비트
	Level uint16 // 10비트
	Size  uint32
	Data  []byte
}

// RecordHeader는 4바이트 레코드 헤더: [TagID:10][Level:10][Size:12]
type RecordHeader uint32

// ParseRecordHeader parses the packed 4-byte header.
func ParseRecordHeader(data []byte) RecordHeader {
	return RecordHeader(binary.LittleEndian.Uint32(data))
}

// TagID returns bits 0-9.
func (h RecordHeader) TagID() uint16 {
	return uint16(h & 0x3FF)
}

// Level returns bits 10-19.
func (h RecordHeader) Level() uint16 {
	return uint16((h >> 10) & 0x3FF)
}

// Size returns bits 20-31. 0xFFF means a 4-byte extended size follows.
func (h RecordHeader) Size() uint32 {
	return uint32((h >> 20) & 0xFFF)
}

const extendedSize = 0xFFF

// RecordReader reads records one at a time.
type RecordReader struct {
	data   []byte
	offset int
}

// NewRecordReader creates a reader over decompressed stream bytes.
func NewRecordReader(data []byte) *RecordReader {
	return &RecordReader{data: data}
}

// Offset returns the current byte offset.
func (r *RecordReader) Offset() int {
	return r.offset
}

// Read returns the next record, io.EOF at the end of the stream, or an
// error wrapping ErrTruncatedRecord.
func (r *RecordReader) Read() (*Record, error) {
	if r.offset >= len(r.data) {
		return nil, io.EOF
	}
	if r.offset+4 > len(r.data) {
		return nil, fmt.Errorf("%w: header at offset %d", ErrTruncatedRecord, r.offset)
	}

	header := ParseRecordHeader(r.data[r.offset : r.offset+4])
	pos := r.offset + 4

	size := header.Size()
	if size == extendedSize {
		if pos+4 > len(r.data) {
			return nil, fmt.Errorf("%w: extended size at offset %d", ErrTruncatedRecord, pos)
		}
		size = binary.LittleEndian.Uint32(r.data[pos : pos+4])
		pos += 4
	}

	if uint64(pos)+uint64(size) > uint64(len(r.data)) {
		return nil, fmt.Errorf("%w: tag 0x%03X at offset %d needs %d bytes, have %d",
			ErrTruncatedRecord, header.TagID(), pos, size, len(r.data)-pos)
	}

	rec := &Record{
		TagID: header.TagID(),
		Level: header.Level(),
		Size:  size,
		Data:  r.data[pos : pos+int(size)],
	}
	r.offset = pos + int(size)
	return rec, nil
}

// ReadAll reads records until EOF. On truncation it returns the records
// read so far together with the error.
func (r *RecordReader) ReadAll() ([]*Record, error) {
	var records []*Record
	for {
		rec, err := r.Read()
		if err == io.EOF {
			return records, nil
		}
		if err != nil {
			return records, err
		}
		records = append(records, rec)
	}
}

// ParseRecords tokenizes a whole stream. An empty stream yields no records.
// A truncated trailing record ends tokenization and is reported on warn
// rather than failing the stream.
func ParseRecords(data []byte, warn *model.WarningCollector) []*Record {
	records, err := NewRecordReader(data).ReadAll()
	if err != nil {
		warn.Add(model.WarnRecordTruncated, err.Error(), "", model.SeverityWarn)
	}
	return records
}

// EncodeRecord packs a record the way HWP stores it. Payloads of 0xFFF bytes
// or more use the extended size field.
func EncodeRecord(tagID, level uint16, data []byte) []byte {
	var buf bytes.Buffer
	size := uint32(len(data))
	head := uint32(tagID&0x3FF) | uint32(level&0x3FF)<<10
	if size >= extendedSize {
		_ = binary.Write(&buf, binary.LittleEndian, head|extendedSize<<20)
		_ = binary.Write(&buf, binary.LittleEndian, size)
	} else {
		_ = binary.Write(&buf, binary.LittleEndian, head|size<<20)
	}
	buf.Write(data)
	return buf.Bytes()
}

// DecompressStream inflates a compressed stream. HWP uses raw deflate; a
// zlib wrapper (first byte 0x78) is accepted too.
func DecompressStream(data []byte) ([]byte, error) {
	if len(data) >= 2 && data[0] == 0x78 {
		if zr, err := zlib.NewReader(bytes.NewReader(data)); err == nil {
			out, err := io.ReadAll(zr)
			zr.Close()
			if err == nil {
				return out, nil
			}
		}
	}

	fr := flate.NewReader(bytes.NewReader(data))
	defer fr.Close()

	out, err := io.ReadAll(fr)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress (tried zlib and deflate): %w", err)
	}
	return out, nil
}

// inflateOrRaw decompresses when compressed is set. Undecodable data is
// passed through unchanged with a warning.
func inflateOrRaw(data []byte, compressed bool, path string, warn *model.WarningCollector) []byte {
	if !compressed || len(data) == 0 {
		return data
	}
	out, err := DecompressStream(data)
	if err != nil {
		warn.Add(model.WarnDecompress, err.Error(), path, model.SeverityWarn)
		return data
	}
	return out
}

// TagName returns the HWPTAG name for a tag id.
func TagName(tagID uint16) string {
	if name, ok := tagNames[tagID]; ok {
		return name
	}
	return fmt.Sprintf("UNKNOWN(0x%04X)", tagID)
}
