package writer

import (
	"fmt"
	"path"
	"strings"

	"github.com/beevik/etree"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/roboco-io/handoc/internal/model"
	"github.com/roboco-io/handoc/internal/opc"
)

// Part is an extra package part written as-is.
type Part struct {
	Name string
	Data []byte
}

// Input is everything WriteHwpx needs: the model plus any extra parts such
// as BinData images.
type Input struct {
	Header     *model.DocumentHeader
	Sections   []*model.Section
	ExtraParts []Part
	Metadata   opc.Metadata
}

// Options controls package assembly.
type Options struct {
	// Original, when set, is cloned part by part and only the header and
	// section parts are replaced.
	Original *opc.Package

	// Strict turns dangling property references into an error instead of
	// a warning.
	Strict bool

	// Store writes every part uncompressed.
	Store bool

	Logger   *zap.Logger
	Warnings *model.WarningCollector
}

const versionXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
	`<HWPVersion Major="1" Minor="5" Micro="0" BuildNumber="0"/>`

const containerXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
	`<ocf:container xmlns:ocf="urn:oasis:names:tc:opendocument:xmlns:container" ` +
	`xmlns:hpf="http://www.hancom.co.kr/schema/2011/hpf">` +
	`<ocf:rootfiles><ocf:rootfile full-path="Contents/content.hpf" media-type="application/hwpml-package+xml"/></ocf:rootfiles>` +
	`</ocf:container>`

const containerPart = "META-INF/container.xml"

// mimeTypes maps BinData extensions to manifest media types.
var mimeTypes = map[string]string{
	"png":  "image/png",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"gif":  "image/gif",
	"bmp":  "image/bmp",
	"tiff": "image/tiff",
	"tif":  "image/tiff",
	"svg":  "image/svg+xml",
	"emf":  "image/x-emf",
	"wmf":  "image/x-wmf",
}

// MediaType returns the manifest media type for a part name by extension.
func MediaType(name string) string {
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(name), "."))
	if mt, ok := mimeTypes[ext]; ok {
		return mt
	}
	return "application/octet-stream"
}

// WriteHwpx assembles an HWPX package. Without opts.Original it builds a
// minimal package: mimetype, version.xml, container.xml, content.hpf, the
// header, the sections and the extra parts.
func WriteHwpx(doc Input, opts Options) ([]byte, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	header := doc.Header
	if header == nil && opts.Original == nil {
		header = MinimalHeader(len(doc.Sections))
	}
	if err := model.ValidateRefs(header, doc.Sections); err != nil {
		if opts.Strict {
			return nil, fmt.Errorf("문서 참조 검증 실패: %w", err)
		}
		for _, e := range multierr.Errors(err) {
			opts.Warnings.Add(model.WarnInvalidRef, e.Error(), "", model.SeverityWarn)
		}
		log.Warn("dangling property references", zap.Error(err))
	}

	var (
		pkg *opc.Package
		err error
	)
	if opts.Original != nil {
		pkg, err = preservedPackage(doc, opts.Original, log)
	} else {
		pkg, err = minimalPackage(doc)
	}
	if err != nil {
		return nil, err
	}
	pkg.Compress = !opts.Store

	out, err := pkg.Save()
	if err != nil {
		return nil, fmt.Errorf("HWPX 패키지 저장 실패: %w", err)
	}
	log.Debug("wrote hwpx",
		zap.Int("sections", len(doc.Sections)),
		zap.Int("parts", len(pkg.PartNames())),
		zap.Bool("preserve", opts.Original != nil))
	return out, nil
}

func sectionPath(i int) string {
	return fmt.Sprintf("%ssection%d.xml", model.ContentsPrefix, i)
}

func minimalPackage(doc Input) (*opc.Package, error) {
	pkg := opc.New()
	header := doc.Header
	if header == nil {
		header = MinimalHeader(len(doc.Sections))
	}

	parts := []Part{
		{model.MimetypePart, []byte(model.HwpxMimetype)},
		{model.VersionPart, []byte(versionXML)},
		{containerPart, []byte(containerXML)},
		{model.ManifestPart, manifestXML(doc)},
		{model.HeaderPart, WriteHeader(header)},
	}
	for i, sec := range doc.Sections {
		parts = append(parts, Part{sectionPath(i), WriteSection(sec)})
	}
	parts = append(parts, doc.ExtraParts...)

	for _, p := range parts {
		if err := pkg.SetPart(p.Name, p.Data); err != nil {
			return nil, fmt.Errorf("failed to add part %s: %w", p.Name, err)
		}
	}
	return pkg, nil
}

// preservedPackage clones orig and overwrites the header and the section
// parts at their original paths. Sections beyond the original count go to
// new sectionN.xml parts; original sections past the model's count are
// removed with their manifest and spine entries.
func preservedPackage(doc Input, orig *opc.Package, log *zap.Logger) (*opc.Package, error) {
	pkg := orig.Clone()

	if doc.Header != nil {
		name, err := pkg.HeaderPath()
		if err != nil {
			name = model.HeaderPart
		}
		if err := pkg.SetPart(name, WriteHeader(doc.Header)); err != nil {
			return nil, err
		}
	}

	paths := pkg.SectionPaths()
	var added, removed []string
	for i, sec := range doc.Sections {
		name := sectionPath(i)
		if i < len(paths) {
			name = paths[i]
		} else {
			log.Warn("section has no part in the original package", zap.String("part", name))
			added = append(added, name)
		}
		if err := pkg.SetPart(name, WriteSection(sec)); err != nil {
			return nil, err
		}
	}
	if len(paths) > len(doc.Sections) {
		removed = paths[len(doc.Sections):]
		log.Debug("dropping sections missing from the model", zap.Strings("parts", removed))
	}
	if len(added) > 0 || len(removed) > 0 {
		if err := updateSections(pkg, added, removed); err != nil {
			return nil, err
		}
	}
	for _, name := range removed {
		pkg.DeletePart(name)
	}
	for _, p := range doc.ExtraParts {
		if err := pkg.SetPart(p.Name, p.Data); err != nil {
			return nil, err
		}
	}
	return pkg, nil
}

// updateSections lists new section parts in the existing content.hpf and
// drops the items and itemrefs of removed ones. New elements use the prefix
// of the manifest and spine elements.
func updateSections(pkg *opc.Package, added, removed []string) error {
	data, err := pkg.GetPart(model.ManifestPart)
	if err != nil {
		// content.hpf가 없으면 섹션 순서는 파일 이름으로 정해진다
		return nil
	}
	d := etree.NewDocument()
	if err := d.ReadFromBytes(data); err != nil {
		return fmt.Errorf("content.hpf 파싱 실패: %w", err)
	}
	root := d.Root()
	if root == nil {
		return nil
	}
	manifest := root.SelectElement("manifest")
	spine := root.SelectElement("spine")
	if manifest == nil || spine == nil {
		return nil
	}

	for _, it := range manifest.SelectElements("item") {
		if !lo.Contains(removed, pkg.Resolve(it.SelectAttrValue("href", ""))) {
			continue
		}
		id := it.SelectAttrValue("id", "")
		manifest.RemoveChild(it)
		for _, ref := range spine.SelectElements("itemref") {
			if ref.SelectAttrValue("idref", "") == id {
				spine.RemoveChild(ref)
			}
		}
	}

	tag := func(parent *etree.Element, local string) string {
		if parent.Space == "" {
			return local
		}
		return parent.Space + ":" + local
	}
	for _, name := range added {
		id := strings.TrimSuffix(path.Base(name), path.Ext(name))
		it := manifest.CreateElement(tag(manifest, "item"))
		it.CreateAttr("id", id)
		it.CreateAttr("href", name)
		it.CreateAttr("media-type", "application/xml")
		ref := spine.CreateElement(tag(spine, "itemref"))
		ref.CreateAttr("idref", id)
		ref.CreateAttr("linear", "yes")
	}
	return pkg.SetPart(model.ManifestPart, serialize(d))
}

// manifestXML writes content.hpf listing the header, the sections and every
// BinData part.
func manifestXML(doc Input) []byte {
	d := newDocument()
	pkg := etree.NewElement("opf:package")
	pkg.CreateAttr("xmlns:opf", model.NsOPF)
	pkg.CreateAttr("xmlns:dc", "http://purl.org/dc/elements/1.1/")
	pkg.CreateAttr("version", "")
	pkg.CreateAttr("unique-identifier", uuid.NewString())
	pkg.CreateAttr("id", "")

	meta := pkg.CreateElement("opf:metadata")
	if doc.Metadata.Title != "" {
		meta.CreateElement("opf:title").CreateText(doc.Metadata.Title)
	}
	lang := doc.Metadata.Language
	if lang == "" {
		lang = "ko"
	}
	meta.CreateElement("opf:language").CreateText(lang)
	if doc.Metadata.Creator != "" {
		creator := meta.CreateElement("opf:meta")
		creator.CreateAttr("name", "creator")
		creator.CreateAttr("content", "text")
		creator.CreateText(doc.Metadata.Creator)
	}

	manifest := pkg.CreateElement("opf:manifest")
	spine := pkg.CreateElement("opf:spine")
	item := func(id, href, mediaType string) {
		it := manifest.CreateElement("opf:item")
		it.CreateAttr("id", id)
		it.CreateAttr("href", href)
		it.CreateAttr("media-type", mediaType)
	}
	itemRef := func(id string) {
		ref := spine.CreateElement("opf:itemref")
		ref.CreateAttr("idref", id)
		ref.CreateAttr("linear", "yes")
	}

	item("header", model.HeaderPart, "application/xml")
	itemRef("header")
	for i := range doc.Sections {
		id := fmt.Sprintf("section%d", i)
		item(id, sectionPath(i), "application/xml")
		itemRef(id)
	}
	for _, p := range doc.ExtraParts {
		if !isBinData(p.Name) {
			continue
		}
		base := path.Base(p.Name)
		item(strings.TrimSuffix(base, path.Ext(base)), p.Name, MediaType(p.Name))
	}

	d.SetRoot(pkg)
	return serialize(d)
}

func isBinData(name string) bool {
	return strings.HasPrefix(name, model.BinDataPrefix) ||
		strings.HasPrefix(name, model.ContentsPrefix+model.BinDataPrefix)
}
