// Package handoc is the read/write facade over an HWPX package. Views are
// derived lazily from the package and computed once per Document.
package handoc

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/roboco-io/handoc/internal/bridge"
	"github.com/roboco-io/handoc/internal/model"
	"github.com/roboco-io/handoc/internal/opc"
	"github.com/roboco-io/handoc/internal/parser"
	"github.com/roboco-io/handoc/internal/parser/hwp5"
	"github.com/roboco-io/handoc/internal/parser/hwpx"
	"github.com/roboco-io/handoc/internal/writer"
)

// ErrUnknownFormat is returned when the input is neither HWP nor HWPX.
var ErrUnknownFormat = errors.New("unknown document format")

// Options configures how a document is opened.
type Options struct {
	Logger   *zap.Logger
	Warnings *model.WarningCollector
	MaxDepth int // 0 means parser.DefaultMaxDepth
}

func (o Options) parserOptions() parser.Options {
	return parser.Options{Logger: o.Logger, Warnings: o.Warnings, MaxDepth: o.MaxDepth}.Normalize()
}

// Document is an opened HWPX package with memoized views.
type Document struct {
	pkg  *opc.Package
	opts parser.Options

	headerOnce sync.Once
	header     *model.DocumentHeader
	headerErr  error

	sectionsOnce sync.Once
	sections     []*model.Section

	imagesOnce sync.Once
	images     []Image

	tablesOnce sync.Once
	tables     []*model.ParsedTable

	annotationsOnce sync.Once
	headersFooters  []*hwpx.HeaderFooter
	footnotes       []*hwpx.Footnote

	fieldsOnce sync.Once
	fields     []*hwpx.Field
}

// Open opens HWPX bytes.
func Open(data []byte, opts Options) (*Document, error) {
	pkg, err := opc.Open(data)
	if err != nil {
		return nil, err
	}
	return FromPackage(pkg, opts), nil
}

// FromPackage wraps an already opened package.
func FromPackage(pkg *opc.Package, opts Options) *Document {
	return &Document{pkg: pkg, opts: opts.parserOptions()}
}

// OpenHWP converts HWP 5.x bytes to HWPX through the bridge and opens the
// result. Embedded binary items are carried over.
func OpenHWP(data []byte, opts Options) (*Document, error) {
	doc, err := hwp5.OpenBytes(data, opts.parserOptions())
	if err != nil {
		return nil, err
	}
	out, err := bridge.ToHwpx(doc, bridge.Options{
		Logger:      opts.Logger,
		Warnings:    opts.Warnings,
		Builder:     writer.DefaultBuilderOptions(),
		KeepBinData: true,
	})
	if err != nil {
		return nil, fmt.Errorf("HWPX 변환 실패: %w", err)
	}
	return Open(out, opts)
}

// OpenAny opens HWP or HWPX bytes by their magic number.
func OpenAny(data []byte, opts Options) (*Document, error) {
	switch parser.DetectFormatFromBytes(data) {
	case parser.FormatHWPX:
		return Open(data, opts)
	case parser.FormatHWP:
		return OpenHWP(data, opts)
	default:
		return nil, ErrUnknownFormat
	}
}

// OpenFile reads an HWP or HWPX file from disk.
func OpenFile(path string, opts Options) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return OpenAny(data, opts)
}

// Package returns the underlying package.
func (d *Document) Package() *opc.Package {
	return d.pkg
}

// Header parses the first header part declared by the manifest.
func (d *Document) Header() (*model.DocumentHeader, error) {
	d.headerOnce.Do(func() {
		name, err := d.pkg.HeaderPath()
		if err != nil {
			d.headerErr = err
			return
		}
		data, err := d.pkg.GetPart(name)
		if err != nil {
			d.headerErr = err
			return
		}
		d.header, d.headerErr = hwpx.ParseHeader(data, d.opts)
		if d.headerErr != nil {
			d.headerErr = fmt.Errorf("%s: %w", name, d.headerErr)
		}
	})
	return d.header, d.headerErr
}

// Sections parses every section part in reading order. A part that is
// missing or malformed becomes an empty section and a warning, so indexes
// stay aligned with SectionPaths.
func (d *Document) Sections() []*model.Section {
	d.sectionsOnce.Do(func() {
		for _, name := range d.sectionPaths() {
			d.sections = append(d.sections, d.parseSection(name))
		}
	})
	return d.sections
}

func (d *Document) sectionPaths() []string {
	var out []string
	for _, name := range d.pkg.SectionPaths() {
		if strings.HasSuffix(strings.ToLower(name), ".xml") {
			out = append(out, name)
		}
	}
	return out
}

func (d *Document) parseSection(name string) *model.Section {
	empty := &model.Section{Paragraphs: []*model.Paragraph{}}
	data, err := d.pkg.GetPart(name)
	if err != nil {
		d.opts.Warnings.Add(model.WarnMissingPart, err.Error(), name, model.SeverityWarn)
		return empty
	}
	sec, err := hwpx.ParseSectionPart(data, name, d.opts)
	if err != nil {
		d.opts.Warnings.Add(model.WarnSectionParse, err.Error(), name, model.SeverityError)
		d.opts.Logger.Warn("section skipped", zap.String("part", name), zap.Error(err))
		return empty
	}
	return sec
}

// SectionProps returns the properties of the first section, or nil.
func (d *Document) SectionProps() *model.SectionProperties {
	secs := d.Sections()
	if len(secs) == 0 {
		return nil
	}
	return secs[0].Props
}

// PageSize is a page size in millimetres.
type PageSize struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// PageSize returns the page size of the first section rounded to whole
// millimetres. Without section properties it is A4.
func (d *Document) PageSize() PageSize {
	props := d.SectionProps()
	if props == nil {
		return PageSize{Width: 210, Height: 297}
	}
	return PageSize{
		Width:  math.Round(model.HWPUnitToMm(props.PageWidth)),
		Height: math.Round(model.HWPUnitToMm(props.PageHeight)),
	}
}

// Margins are page margins in millimetres.
type Margins struct {
	Left   float64 `json:"left"`
	Right  float64 `json:"right"`
	Top    float64 `json:"top"`
	Bottom float64 `json:"bottom"`
}

// Margins returns the margins of the first section rounded to 0.1 mm, or
// zeros when there are no section properties.
func (d *Document) Margins() Margins {
	props := d.SectionProps()
	if props == nil {
		return Margins{}
	}
	mm := func(v int) float64 { return math.Round(model.HWPUnitToMm(v)*10) / 10 }
	m := props.Margins
	return Margins{Left: mm(m.Left), Right: mm(m.Right), Top: mm(m.Top), Bottom: mm(m.Bottom)}
}

// ExtractTextBySection returns the text of each section, one line per
// paragraph, nested table and shape text included.
func (d *Document) ExtractTextBySection() []string {
	secs := d.Sections()
	out := make([]string, len(secs))
	for i, sec := range secs {
		out[i] = strings.Join(hwpx.SectionText(sec), "\n")
	}
	return out
}

// ExtractText joins the text of all sections with newlines.
func (d *Document) ExtractText() string {
	return strings.Join(d.ExtractTextBySection(), "\n")
}

// Save writes header and sections back over the opened package. Parts the
// caller did not change keep their bytes.
func (d *Document) Save(header *model.DocumentHeader, sections []*model.Section) ([]byte, error) {
	return writer.WriteHwpx(writer.Input{Header: header, Sections: sections}, writer.Options{
		Original: d.pkg,
		Logger:   d.opts.Logger,
		Warnings: d.opts.Warnings,
	})
}
