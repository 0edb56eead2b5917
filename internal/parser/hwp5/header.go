package hwp5

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	"golang.org/x/text/encoding/korean"
)

var (
	// ErrInvalidSignature is returned when the FileHeader stream does not
	// start with the HWP signature.
	ErrInvalidSignature = errors.New("invalid HWP signature")

	// ErrEncrypted is returned for password-protected or DRM documents.
	// Decryption is not attempted.
	ErrEncrypted = errors.New("encrypted HWP document")

	// ErrStreamNotFound is returned when a named CFB stream is missing.
	ErrStreamNotFound = errors.New("stream not found")
)

// FileHeader는 HWP 5.x 파일 인식 정보 (256 바이트)
type FileHeader struct {
	Signature string
	Version   Version
	Flags     uint32
}

// Version은 HWP 파일 버전 (예: 5.0.3.0)
type Version struct {
	Major    uint8
	Minor    uint8
	Build    uint8
	Revision uint8
}

// String returns version string like "5.0.3.0".
func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d.%d", v.Major, v.Minor, v.Build, v.Revision)
}

// ParseFileHeader parses the FileHeader stream.
func ParseFileHeader(data []byte) (*FileHeader, error) {
	if len(data) < FileHeaderSize {
		return nil, fmt.Errorf("file header too small: %d bytes", len(data))
	}

	// 시그니처는 EUC-KR 문자열로 저장된다
	raw := bytes.TrimRight(data[0:32], "\x00")
	sig, err := korean.EUCKR.NewDecoder().Bytes(raw)
	if err != nil {
		sig = raw
	}
	if string(sig) != Signature {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSignature, string(sig))
	}

	h := &FileHeader{Signature: string(sig)}

	// 버전: [Revision][Build][Minor][Major]
	h.Version.Revision = data[32]
	h.Version.Build = data[33]
	h.Version.Minor = data[34]
	h.Version.Major = data[35]

	h.Flags = binary.LittleEndian.Uint32(data[36:40])

	return h, nil
}

// IsCompressed reports whether streams are deflate-compressed.
func (h *FileHeader) IsCompressed() bool {
	return h.Flags&FlagCompressed != 0
}

// IsEncrypted reports whether the document is password protected.
func (h *FileHeader) IsEncrypted() bool {
	return h.Flags&FlagEncrypted != 0
}

// IsDistributable reports whether this is a distribution document.
func (h *FileHeader) IsDistributable() bool {
	return h.Flags&FlagDistributable != 0
}

// HasDRM reports whether the document is DRM protected.
func (h *FileHeader) HasDRM() bool {
	return h.Flags&(FlagDRM|FlagCertDRM) != 0
}

// HasScript reports whether the document stores scripts.
func (h *FileHeader) HasScript() bool {
	return h.Flags&FlagScript != 0
}

// Protected reports whether the codec must refuse the document.
func (h *FileHeader) Protected() bool {
	return h.IsEncrypted() || h.HasDRM() || h.Flags&FlagCertEncrypt != 0
}
