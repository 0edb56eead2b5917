package handoc

import (
	"bytes"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"regexp"
	"strings"

	"github.com/blevesearch/segment"
	"github.com/samber/lo"
	"go.uber.org/zap"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	"golang.org/x/text/language"

	"github.com/roboco-io/handoc/internal/model"
	"github.com/roboco-io/handoc/internal/opc"
	"github.com/roboco-io/handoc/internal/parser/hwpx"
	"github.com/roboco-io/handoc/internal/writer"
)

var binDataPattern = regexp.MustCompile(`(?i)(^|/)BinData/`)

// Image is an embedded binary item under BinData/.
type Image struct {
	Path      string `json:"path"`
	MediaType string `json:"mediaType"`
	Size      int    `json:"size"`
	// Width and Height are pixel dimensions, zero when the format cannot be
	// probed (emf, wmf, svg, ole).
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
	Format string `json:"format,omitempty"`

	data []byte
}

// Data returns the item bytes.
func (im Image) Data() []byte {
	return im.data
}

// Images lists the BinData parts in part-name order.
func (d *Document) Images() []Image {
	d.imagesOnce.Do(func() {
		for _, name := range d.pkg.PartNames() {
			if !binDataPattern.MatchString(name) {
				continue
			}
			data, err := d.pkg.GetPart(name)
			if err != nil {
				continue
			}
			d.images = append(d.images, probeImage(name, data, d.opts.Logger))
		}
	})
	return d.images
}

func probeImage(name string, data []byte, log *zap.Logger) Image {
	im := Image{Path: name, MediaType: writer.MediaType(name), Size: len(data), data: data}
	if !strings.HasPrefix(im.MediaType, "image/") {
		return im
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		log.Debug("image dimensions unavailable", zap.String("part", name), zap.Error(err))
		return im
	}
	im.Width, im.Height, im.Format = cfg.Width, cfg.Height, format
	return im
}

// GetImage returns the bytes of a BinData item by part name.
func (d *Document) GetImage(path string) ([]byte, bool) {
	im, ok := lo.Find(d.Images(), func(im Image) bool { return im.Path == path })
	return im.data, ok
}

// Metadata is the manifest metadata with a parsed language tag.
type Metadata struct {
	opc.Metadata
	// Tag is language.Und when the language is missing or not BCP 47.
	Tag language.Tag `json:"-"`
}

// Metadata returns the content.hpf metadata.
func (d *Document) Metadata() Metadata {
	m := Metadata{Metadata: d.pkg.Metadata(), Tag: language.Und}
	if m.Language == "" {
		return m
	}
	tag, err := language.Parse(m.Language)
	if err != nil {
		d.opts.Logger.Debug("invalid language tag", zap.String("language", m.Language), zap.Error(err))
		return m
	}
	m.Tag = tag
	return m
}

// TrackChange is a change mark with its position in the body.
type TrackChange struct {
	Section   int    `json:"section"`
	Paragraph int    `json:"paragraph"`
	Mark      string `json:"mark"`
	ID        *int   `json:"id,omitempty"`
	TcID      *int   `json:"tcId,omitempty"`
}

// TrackChanges lists the insert/delete marks of the body paragraphs.
func (d *Document) TrackChanges() []TrackChange {
	var out []TrackChange
	for si, sec := range d.Sections() {
		for pi, p := range sec.Paragraphs {
			for _, c := range p.RunChildren() {
				if c.Kind == model.KindTrackChange {
					out = append(out, TrackChange{Section: si, Paragraph: pi, Mark: c.Mark, ID: c.TrackID, TcID: c.TcID})
				}
			}
		}
	}
	return out
}

func (d *Document) collectAnnotations() {
	d.annotationsOnce.Do(func() {
		d.headersFooters = hwpx.CollectHeadersFooters(d.Sections())
		d.footnotes = hwpx.CollectFootnotes(d.Sections())
	})
}

// HeadersFooters lists every header and footer in document order.
func (d *Document) HeadersFooters() []*hwpx.HeaderFooter {
	d.collectAnnotations()
	return d.headersFooters
}

// Footnotes lists every footnote and endnote in document order.
func (d *Document) Footnotes() []*hwpx.Footnote {
	d.collectAnnotations()
	return d.footnotes
}

// Fields lists the fields of all sections.
func (d *Document) Fields() []*hwpx.Field {
	d.fieldsOnce.Do(func() {
		d.fields = lo.FlatMap(d.Sections(), func(sec *model.Section, _ int) []*hwpx.Field {
			return hwpx.CollectFields(sec)
		})
	})
	return d.fields
}

// Tables lists the top-level tables of all sections.
func (d *Document) Tables() []*model.ParsedTable {
	d.tablesOnce.Do(func() {
		d.tables = lo.FlatMap(d.Sections(), func(sec *model.Section, _ int) []*model.ParsedTable {
			return hwpx.FindTables(sec)
		})
	})
	return d.tables
}

// Stats summarizes a document.
type Stats struct {
	Sections   int `json:"sections"`
	Paragraphs int `json:"paragraphs"`
	Tables     int `json:"tables"`
	Images     int `json:"images"`
	Words      int `json:"words"`
	Characters int `json:"characters"`
}

// Stats counts body paragraphs, tables, images and words. Words are
// Unicode word segments that contain letters, numbers or ideographs.
func (d *Document) Stats() Stats {
	st := Stats{
		Sections: len(d.Sections()),
		Tables:   len(d.Tables()),
		Images:   len(d.Images()),
	}
	for _, sec := range d.Sections() {
		st.Paragraphs += len(sec.Paragraphs)
	}
	text := d.ExtractText()
	st.Characters = len([]rune(strings.Join(strings.Fields(text), "")))
	st.Words = countWords(text)
	return st
}

func countWords(text string) int {
	n := 0
	seg := segment.NewWordSegmenter(strings.NewReader(text))
	for seg.Segment() {
		if seg.Type() != segment.None {
			n++
		}
	}
	return n
}
