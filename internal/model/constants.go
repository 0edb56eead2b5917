package model

// HWPX namespaces.
const (
	NsParagraph = "http://www.hancom.co.kr/hwpml/2011/paragraph"
	NsHead      = "http://www.hancom.co.kr/hwpml/2011/head"
	NsSection   = "http://www.hancom.co.kr/hwpml/2011/section"
	NsCore      = "http://www.hancom.co.kr/hwpml/2011/core"
	NsApp       = "http://www.hancom.co.kr/hwpml/2011/app"
	NsOPF       = "http://www.idpf.org/2007/opf/"
)

// Package part names.
const (
	MimetypePart   = "mimetype"
	VersionPart    = "version.xml"
	ManifestPart   = "Contents/content.hpf"
	HeaderPart     = "Contents/header.xml"
	ContentsPrefix = "Contents/"
	BinDataPrefix  = "BinData/"
	HwpxMimetype   = "application/hwp+zip"
)

// HeaderNamespaces are declared on hh:head, in output order.
var HeaderNamespaces = []Attr{
	{Key: "xmlns:ha", Value: NsApp},
	{Key: "xmlns:hp", Value: NsParagraph},
	{Key: "xmlns:hp10", Value: "http://www.hancom.co.kr/hwpml/2016/paragraph"},
	{Key: "xmlns:hs", Value: NsSection},
	{Key: "xmlns:hc", Value: NsCore},
	{Key: "xmlns:hh", Value: NsHead},
	{Key: "xmlns:hhs", Value: "http://www.hancom.co.kr/hwpml/2011/history"},
	{Key: "xmlns:hm", Value: "http://www.hancom.co.kr/hwpml/2011/master-page"},
	{Key: "xmlns:hpf", Value: "http://www.hancom.co.kr/schema/2011/hpf"},
	{Key: "xmlns:dc", Value: "http://purl.org/dc/elements/1.1/"},
	{Key: "xmlns:opf", Value: NsOPF},
	{Key: "xmlns:ooxmlchart", Value: "http://www.hancom.co.kr/hwpml/2016/ooxmlchart"},
	{Key: "xmlns:hwpunitchar", Value: "http://www.hancom.co.kr/hwpml/2016/HwpUnitChar"},
	{Key: "xmlns:epub", Value: "http://www.idpf.org/2007/ops"},
	{Key: "xmlns:config", Value: "urn:oasis:names:tc:opendocument:xmlns:config:1.0"},
}

// SectionNamespaces are declared on hs:sec.
var SectionNamespaces = []Attr{
	{Key: "xmlns:hp", Value: NsParagraph},
	{Key: "xmlns:hs", Value: NsSection},
	{Key: "xmlns:hc", Value: NsCore},
	{Key: "xmlns:hh", Value: NsHead},
}
