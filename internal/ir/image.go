package ir

import "path"

// ImageBlock represents a picture that references a BinData item.
type ImageBlock struct {
	ID     string `json:"id"`             // binaryItemIDRef
	Path   string `json:"path,omitempty"` // link target in the rendered output
	Part   string `json:"part,omitempty"` // BinData part name
	Alt    string `json:"alt,omitempty"`
	Width  int    `json:"width,omitempty"` // width in pixels
	Height int    `json:"height,omitempty"`
	Format string `json:"format,omitempty"` // png, jpeg, gif, bmp, tiff
}

// NewImage creates a new image block with the given ID.
func NewImage(id string) *ImageBlock {
	return &ImageBlock{
		ID: id,
	}
}

// SetDimensions sets the width and height of the image.
func (img *ImageBlock) SetDimensions(width, height int) {
	img.Width = width
	img.Height = height
}

// FileName returns the base name of the BinData part, or the ID.
func (img *ImageBlock) FileName() string {
	if img.Part == "" {
		return img.ID
	}
	return path.Base(img.Part)
}
