// Package bridge converts HWP 5.x documents to HWPX through the writer's
// builder. Formatting is reduced to one dominant style per paragraph.
package bridge

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/roboco-io/handoc/internal/model"
	"github.com/roboco-io/handoc/internal/parser/hwp5"
	"github.com/roboco-io/handoc/internal/writer"
)

// Options configures a conversion.
type Options struct {
	Logger   *zap.Logger
	Warnings *model.WarningCollector

	// Builder sets the page and font defaults of the output.
	Builder writer.BuilderOptions

	// KeepBinData copies embedded BinData streams into the package.
	KeepBinData bool

	// Store writes the package without compression.
	Store bool
}

func (o Options) logger() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}

// Source is the decoded content of an HWP document.
type Source struct {
	DocInfo  *hwp5.DocInfo
	Sections []*hwp5.Section
	BinData  []writer.Part
}

// Load decodes the DocInfo, the sections and, when requested, the embedded
// binary items of doc.
func Load(doc *hwp5.Document, opts Options) (*Source, error) {
	info, err := doc.DocInfo()
	if err != nil {
		return nil, fmt.Errorf("DocInfo 읽기 실패: %w", err)
	}
	sections, err := doc.Sections()
	if err != nil {
		return nil, fmt.Errorf("본문 섹션 읽기 실패: %w", err)
	}

	src := &Source{DocInfo: info, Sections: sections}
	if !opts.KeepBinData {
		return src, nil
	}
	for _, bd := range info.BinDataList {
		name := bd.StreamName()
		if name == "" {
			continue
		}
		data, err := doc.BinData(bd)
		if err != nil {
			opts.Warnings.Add(model.WarnMissingPart, err.Error(), hwp5.StreamBinData+"/"+name, model.SeverityWarn)
			continue
		}
		src.BinData = append(src.BinData, writer.Part{Name: model.BinDataPrefix + name, Data: data})
	}
	return src, nil
}

// ToHwpx converts an opened HWP document to HWPX bytes.
func ToHwpx(doc *hwp5.Document, opts Options) ([]byte, error) {
	src, err := Load(doc, opts)
	if err != nil {
		return nil, err
	}
	return WriteSource(src, opts)
}

// WriteSource converts decoded HWP content to HWPX bytes.
func WriteSource(src *Source, opts Options) ([]byte, error) {
	return writer.WriteHwpx(Convert(src, opts), writer.Options{
		Logger:   opts.logger(),
		Warnings: opts.Warnings,
		Store:    opts.Store,
	})
}

// Convert builds the HWPX model for src: one builder section per BodyText
// section, paragraphs with their dominant formatting, and tables as plain
// text grids. A document without sections yields one empty section.
func Convert(src *Source, opts Options) writer.Input {
	log := opts.logger().Named("bridge")
	bopts := opts.Builder
	bopts.Logger = log
	b := writer.NewBuilder(bopts)

	var info *hwp5.DocInfo
	var sections []*hwp5.Section
	if src != nil {
		info, sections = src.DocInfo, src.Sections
	}

	for i, sec := range sections {
		if i > 0 {
			b.AddSectionBreak()
		}
		if sec == nil || len(sec.Blocks) == 0 {
			b.AddParagraph("", nil)
			continue
		}
		for _, blk := range sec.Blocks {
			switch blk.Kind {
			case hwp5.BlockParagraph:
				p := blk.Paragraph
				b.AddParagraph(strings.TrimRight(p.Text, "\n"), paragraphStyle(info, p))
			case hwp5.BlockTable:
				b.AddTable(blk.Table.TextGrid())
			}
		}
		reportSkipped(sec, i, opts.Warnings, log)
	}

	in := b.Document()
	if src != nil {
		in.ExtraParts = append(in.ExtraParts, src.BinData...)
	}
	log.Debug("converted hwp",
		zap.Int("sections", len(sections)),
		zap.Int("binData", len(in.ExtraParts)))
	return in
}

// reportSkipped records one warning per record tag the section parser did
// not interpret.
func reportSkipped(sec *hwp5.Section, index int, warn *model.WarningCollector, log *zap.Logger) {
	if len(sec.SkippedTags) == 0 {
		return
	}
	path := fmt.Sprintf("%s/Section%d", hwp5.StreamBodyText, index)
	for _, tag := range lo.Uniq(sec.SkippedTags) {
		warn.Add(model.WarnUnsupportedTag,
			fmt.Sprintf("unsupported record %s (%d) skipped", hwp5.TagName(tag), tag),
			path, model.SeverityInfo)
	}
	log.Info("skipped unsupported records",
		zap.String("section", path),
		zap.Uint16s("tags", sec.SkippedTags))
}

// paragraphStyle maps the dominant char shape and the para shape of p to a
// builder style. Unknown ids leave the builder defaults.
func paragraphStyle(info *hwp5.DocInfo, p *hwp5.Paragraph) *writer.ParagraphStyle {
	st := &writer.ParagraphStyle{}
	if cs := info.CharShapeAt(int(p.DominantCharShape())); cs != nil {
		st.Bold = cs.Bold()
		st.Italic = cs.Italic()
		st.FontSize = cs.FontSizePt()
		if c := cs.ColorHex(); c != "#000000" {
			st.Color = c
		}
		st.FontFamily = info.FaceName(int(cs.FaceIDs[0]))
	}
	if ps := info.ParaShapeAt(int(p.ParaShapeID)); ps != nil {
		st.Align = ps.Align()
		if st.Align == "divide" {
			st.Align = "distribute"
		}
		st.LineSpacing = int(ps.LineSpacing)
		st.Indent = model.HWPUnitToMm(int(ps.Indent))
	}
	return st
}
