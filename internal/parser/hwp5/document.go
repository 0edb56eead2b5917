package hwp5

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/richardlehane/mscfb"
	"go.uber.org/zap"

	"github.com/roboco-io/handoc/internal/model"
	"github.com/roboco-io/handoc/internal/parser"
)

// Document is an opened HWP 5.x file. Streams are read eagerly from the CFB
// container; records are decoded on demand.
type Document struct {
	Header *FileHeader

	streams  map[string][]byte // "BodyText/Section0" 형식의 경로
	sections []string          // 섹션 스트림 경로 (번호순)
	options  parser.Options
	log      *zap.Logger
}

// Open opens an HWP file from disk.
func Open(path string, opts parser.Options) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("HWP 파일을 열 수 없습니다: %w", err)
	}
	defer f.Close()
	return OpenReader(f, opts)
}

// OpenBytes opens an HWP file held in memory.
func OpenBytes(data []byte, opts parser.Options) (*Document, error) {
	return OpenReader(bytes.NewReader(data), opts)
}

// OpenReader walks the CFB directory and loads every stream. An encrypted
// or DRM document fails with ErrEncrypted before any stream is decoded.
func OpenReader(r io.ReaderAt, opts parser.Options) (*Document, error) {
	opts = opts.Normalize()

	cfb, err := mscfb.New(r)
	if err != nil {
		return nil, fmt.Errorf("OLE2 문서 파싱 실패: %w", err)
	}

	d := &Document{
		streams: make(map[string][]byte),
		options: opts,
		log:     opts.Logger.Named("hwp5"),
	}

	for _, entry := range cfb.File {
		if entry.FileInfo().IsDir() {
			continue
		}
		data, err := io.ReadAll(io.NewSectionReader(entry, 0, entry.Size))
		if err != nil {
			return nil, fmt.Errorf("스트림 %s 읽기 실패: %w", entry.Name, err)
		}
		name := strings.Join(append(append([]string{}, entry.Path...), entry.Name), "/")
		d.streams[name] = data
	}

	raw, err := d.Stream(StreamFileHeader)
	if err != nil {
		return nil, err
	}
	if d.Header, err = ParseFileHeader(raw); err != nil {
		return nil, err
	}
	if d.Header.Protected() {
		return nil, fmt.Errorf("%w (flags 0x%08X)", ErrEncrypted, d.Header.Flags)
	}

	d.findSections()
	d.log.Debug("opened HWP document",
		zap.String("version", d.Header.Version.String()),
		zap.Bool("compressed", d.Header.IsCompressed()),
		zap.Int("sections", len(d.sections)))

	return d, nil
}

// findSections collects BodyText/SectionN streams ordered by N.
func (d *Document) findSections() {
	for name := range d.streams {
		if sectionNumber(name) >= 0 {
			d.sections = append(d.sections, name)
		}
	}
	sort.Slice(d.sections, func(i, j int) bool {
		return sectionNumber(d.sections[i]) < sectionNumber(d.sections[j])
	})
}

// sectionNumber returns N for "BodyText/SectionN", or -1.
func sectionNumber(name string) int {
	rest, ok := strings.CutPrefix(name, StreamBodyText+"/Section")
	if !ok {
		return -1
	}
	n, err := strconv.Atoi(rest)
	if err != nil {
		return -1
	}
	return n
}

// StreamNames returns all stream paths, sorted.
func (d *Document) StreamNames() []string {
	names := make([]string, 0, len(d.streams))
	for name := range d.streams {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Stream returns raw stream bytes by path, e.g. "BodyText/Section0".
func (d *Document) Stream(name string) ([]byte, error) {
	data, ok := d.streams[strings.TrimPrefix(name, "/")]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrStreamNotFound, name)
	}
	return data, nil
}

// decoded returns a stream inflated when the document is compressed.
func (d *Document) decoded(name string) ([]byte, error) {
	data, err := d.Stream(name)
	if err != nil {
		return nil, err
	}
	return inflateOrRaw(data, d.Header.IsCompressed(), name, d.options.Warnings), nil
}

// SectionCount returns the number of BodyText sections.
func (d *Document) SectionCount() int {
	return len(d.sections)
}

// SectionStreams returns the decompressed bytes of every section stream.
func (d *Document) SectionStreams() ([][]byte, error) {
	out := make([][]byte, 0, len(d.sections))
	for _, name := range d.sections {
		data, err := d.decoded(name)
		if err != nil {
			return nil, err
		}
		out = append(out, data)
	}
	return out, nil
}

// DocInfo decodes the DocInfo stream.
func (d *Document) DocInfo() (*DocInfo, error) {
	data, err := d.decoded(StreamDocInfo)
	if err != nil {
		return nil, err
	}
	return ParseDocInfo(data, d.options.Warnings), nil
}

// Sections decodes every BodyText section.
func (d *Document) Sections() ([]*Section, error) {
	streams, err := d.SectionStreams()
	if err != nil {
		return nil, err
	}
	sections := make([]*Section, 0, len(streams))
	for i, data := range streams {
		sec := NewSectionParser(d.options.Warnings).Parse(data)
		d.log.Debug("parsed section",
			zap.Int("index", i),
			zap.Int("blocks", len(sec.Blocks)),
			zap.Int("skippedTags", len(sec.SkippedTags)))
		sections = append(sections, sec)
	}
	return sections, nil
}

// ExtractText returns the non-empty paragraph texts of all sections,
// including table cells, joined with "\n".
func (d *Document) ExtractText() (string, error) {
	var lines []string
	for _, name := range d.sections {
		raw, err := d.Stream(name)
		if err != nil {
			return "", err
		}
		paras, err := ExtractSectionText(raw, d.Header.IsCompressed())
		if err != nil {
			d.options.Warnings.Add(model.WarnDecompress, err.Error(), name, model.SeverityWarn)
			continue
		}
		for _, p := range paras {
			if p != "" {
				lines = append(lines, p)
			}
		}
	}
	return strings.Join(lines, "\n"), nil
}

// BinData returns the bytes of an embedded binary item, decompressed when
// the document is compressed.
func (d *Document) BinData(info *BinDataInfo) ([]byte, error) {
	name := info.StreamName()
	if name == "" {
		return nil, fmt.Errorf("%w: linked bin data %q", ErrStreamNotFound, info.AbsPath)
	}
	data, err := d.Stream(StreamBinData + "/" + name)
	if err != nil {
		// 확장자 대소문자가 다른 경우
		for _, n := range d.StreamNames() {
			if strings.EqualFold(n, StreamBinData+"/"+name) {
				data, err = d.streams[n], nil
				break
			}
		}
		if err != nil {
			return nil, err
		}
	}
	return inflateOrRaw(data, d.Header.IsCompressed(), name, d.options.Warnings), nil
}
