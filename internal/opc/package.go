// Package opc reads and writes the ZIP container of an HWPX document and
// its content.hpf manifest.
package opc

import (
	"archive/zip"
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"github.com/zeebo/blake3"

	"github.com/roboco-io/handoc/internal/model"
)

const (
	MimetypePart = model.MimetypePart
	ManifestPart = model.ManifestPart
	contentsDir  = model.ContentsPrefix
)

var (
	// ErrPartNotFound is returned when a named part does not exist.
	ErrPartNotFound = errors.New("part not found")
	// ErrNoHeader is returned when the package has no header part.
	ErrNoHeader = errors.New("no header part in package")
	// ErrInvalidPackage is returned for input that is not a ZIP archive.
	ErrInvalidPackage = errors.New("invalid HWPX package")
)

var sectionPartPattern = regexp.MustCompile(`^Contents/section(\d+)\.xml$`)

// Package holds every part of an HWPX container in memory. Parts keep
// their original archive order so that Save reproduces the layout.
type Package struct {
	parts    map[string][]byte
	order    []string
	manifest *Manifest

	// Compress selects deflate for every part except mimetype.
	Compress bool
}

// New creates an empty package.
func New() *Package {
	return &Package{parts: make(map[string][]byte), Compress: true}
}

// Open reads an HWPX package from memory.
func Open(data []byte) (*Package, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPackage, err)
	}

	p := New()
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		content, err := readZipFile(f)
		if err != nil {
			return nil, fmt.Errorf("failed to read part %s: %w", f.Name, err)
		}
		p.put(f.Name, content)
	}

	if p.HasPart(ManifestPart) {
		if p.manifest, err = ParseManifest(p.parts[ManifestPart]); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// OpenFile reads an HWPX package from disk.
func OpenFile(path string) (*Package, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("HWPX 파일을 열 수 없습니다: %w", err)
	}
	return Open(data)
}

func readZipFile(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

func (p *Package) put(name string, data []byte) {
	if _, ok := p.parts[name]; !ok {
		p.order = append(p.order, name)
	}
	p.parts[name] = data
}

// PartNames returns all part names, sorted.
func (p *Package) PartNames() []string {
	names := lo.Keys(p.parts)
	sort.Strings(names)
	return names
}

// HasPart reports whether the named part exists.
func (p *Package) HasPart(name string) bool {
	_, ok := p.parts[name]
	return ok
}

// GetPart returns the raw bytes of a part.
func (p *Package) GetPart(name string) ([]byte, error) {
	data, ok := p.parts[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPartNotFound, name)
	}
	return data, nil
}

// GetPartAsText returns a part decoded as UTF-8 text.
func (p *Package) GetPartAsText(name string) (string, error) {
	data, err := p.GetPart(name)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// SetPart adds or replaces a part. Replacing content.hpf re-reads the
// manifest.
func (p *Package) SetPart(name string, data []byte) error {
	if name == ManifestPart {
		m, err := ParseManifest(data)
		if err != nil {
			return err
		}
		p.manifest = m
	}
	p.put(name, data)
	return nil
}

// DeletePart removes a part if present.
func (p *Package) DeletePart(name string) {
	if _, ok := p.parts[name]; !ok {
		return
	}
	delete(p.parts, name)
	p.order = lo.Without(p.order, name)
	if name == ManifestPart {
		p.manifest = nil
	}
}

// Manifest returns the parsed manifest, or nil when content.hpf is absent.
func (p *Package) Manifest() *Manifest {
	return p.manifest
}

// Metadata returns the manifest metadata; empty without a manifest.
func (p *Package) Metadata() Metadata {
	if p.manifest == nil {
		return Metadata{}
	}
	return p.manifest.Metadata
}

// Resolve maps a manifest href to a part name. Hrefs may be relative to
// the Contents/ directory.
func (p *Package) Resolve(href string) string {
	href = strings.TrimPrefix(href, "/")
	if p.HasPart(href) || strings.HasPrefix(href, contentsDir) {
		return href
	}
	if p.HasPart(contentsDir + href) {
		return contentsDir + href
	}
	return href
}

// SectionPaths returns the section part names in reading order. Without a
// manifest it falls back to Contents/sectionN.xml ordered by N.
func (p *Package) SectionPaths() []string {
	if p.manifest != nil {
		if hrefs := p.manifest.SectionHrefs(); len(hrefs) > 0 {
			return lo.Map(hrefs, func(h string, _ int) string { return p.Resolve(h) })
		}
	}

	var paths []string
	for name := range p.parts {
		if sectionPartPattern.MatchString(name) {
			paths = append(paths, name)
		}
	}
	sort.Slice(paths, func(i, j int) bool {
		return sectionIndex(paths[i]) < sectionIndex(paths[j])
	})
	return paths
}

func sectionIndex(name string) int {
	m := sectionPartPattern.FindStringSubmatch(name)
	if m == nil {
		return -1
	}
	n, _ := strconv.Atoi(m[1])
	return n
}

// HeaderPaths returns the header part names declared by the manifest, or
// Contents/header.xml when there is no manifest.
func (p *Package) HeaderPaths() []string {
	if p.manifest == nil {
		if p.HasPart(model.HeaderPart) {
			return []string{model.HeaderPart}
		}
		return nil
	}
	var out []string
	for _, it := range p.manifest.Items {
		if strings.Contains(strings.ToLower(it.Href), "header") {
			out = append(out, p.Resolve(it.Href))
		}
	}
	return out
}

// HeaderPath returns the first header part name.
func (p *Package) HeaderPath() (string, error) {
	paths := p.HeaderPaths()
	if len(paths) == 0 {
		return "", ErrNoHeader
	}
	return paths[0], nil
}

// Digest returns the BLAKE3-256 hex digest of a part.
func (p *Package) Digest(name string) (string, error) {
	data, err := p.GetPart(name)
	if err != nil {
		return "", err
	}
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// Digests returns the BLAKE3-256 hex digest of every part.
func (p *Package) Digests() map[string]string {
	return lo.MapValues(p.parts, func(data []byte, _ string) string {
		sum := blake3.Sum256(data)
		return hex.EncodeToString(sum[:])
	})
}

// Clone returns a package sharing no mutable state with p.
func (p *Package) Clone() *Package {
	out := New()
	out.Compress = p.Compress
	for _, name := range p.order {
		out.put(name, bytes.Clone(p.parts[name]))
	}
	out.manifest = p.manifest
	return out
}

// Save serializes the package. mimetype is written first and stored
// uncompressed, as the OCF container rules require.
func (p *Package) Save() ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	names := p.order
	if p.HasPart(MimetypePart) {
		names = append([]string{MimetypePart}, lo.Without(p.order, MimetypePart)...)
	}

	for _, name := range names {
		method := zip.Deflate
		if name == MimetypePart || !p.Compress {
			method = zip.Store
		}
		w, err := zw.CreateHeader(&zip.FileHeader{Name: name, Method: method})
		if err != nil {
			return nil, fmt.Errorf("failed to create %s: %w", name, err)
		}
		if _, err := w.Write(p.parts[name]); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize package: %w", err)
	}
	return buf.Bytes(), nil
}
