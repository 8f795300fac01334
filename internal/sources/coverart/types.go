package coverart

import "strings"

// ImageSize is the requested resolution of a cover image.
type ImageSize int

const (
	// ImageSizeLarge is the default size (~500px).
	ImageSizeLarge ImageSize = iota
	ImageSizeSmall
	ImageSizeMedium
	ImageSizeOriginal
)

// CoverType classifies what a cover image depicts.
type CoverType int

const (
	// CoverTypeFront is the default cover type.
	CoverTypeFront CoverType = iota
	CoverTypeBack
	CoverTypeMedium
	CoverTypeBooklet
	CoverTypeOther
)

// CoverImage is a single fetchable cover image reference.
type CoverImage struct {
	URL string
	Type CoverType
	Size ImageSize
	IsFront bool
	Source string
	Comment string
}

// NewCoverImage builds a front, large, sourced cover image reference - the
// common case when composing a direct URL without an API round-trip.
func NewCoverImage(url, source string) CoverImage {
	return CoverImage{URL: url, Type: CoverTypeFront, Size: ImageSizeLarge, IsFront: true, Source: source}
}

// WithType sets the cover type, keeping IsFront consistent with it.
func (c CoverImage) WithType(t CoverType) CoverImage {
	c.Type = t
	c.IsFront = t == CoverTypeFront
	return c
}

// WithSize sets the image size.
func (c CoverImage) WithSize(size ImageSize) CoverImage {
	c.Size = size
	return c
}

// CoverArtArchiveResponse is the root object returned by
// coverartarchive.org/release/<mbid>.
type CoverArtArchiveResponse struct {
	Images []CoverArtArchiveImage `json:"images"`
	Release string `json:"release,omitempty"`
}

// CoverArtArchiveImage is a single image entry from Cover Art Archive.
type CoverArtArchiveImage struct {
	Types []string `json:"types,omitempty"`
	Front bool `json:"front"`
	Back bool `json:"back"`
	Approved bool `json:"approved"`
	ID uint64 `json:"id,omitempty"`
	Comment string `json:"comment,omitempty"`
	Image string `json:"image"`
	Thumbnails Thumbnails `json:"thumbnails"`
}

// Thumbnails holds Cover Art Archive's standard thumbnail sizes.
type Thumbnails struct {
	Small string `json:"250,omitempty"`
	Medium string `json:"500,omitempty"`
	Large string `json:"1200,omitempty"`
}

// ToCoverImage converts the archive entry into a CoverImage at the
// requested size, falling back to the full image when no matching
// thumbnail exists.
func (img CoverArtArchiveImage) ToCoverImage(size ImageSize) CoverImage {
	url := img.Image
	switch size {
	case ImageSizeSmall:
		if img.Thumbnails.Small != "" {
			url = img.Thumbnails.Small
		}
	case ImageSizeMedium:
		if img.Thumbnails.Medium != "" {
			url = img.Thumbnails.Medium
		}
	case ImageSizeLarge:
		if img.Thumbnails.Large != "" {
			url = img.Thumbnails.Large
		}
	case ImageSizeOriginal:
		// already img.Image
	}

	coverType := CoverTypeOther
	switch {
	case img.Front:
		coverType = CoverTypeFront
	case img.Back:
		coverType = CoverTypeBack
	case containsFold(img.Types, "medium"):
		coverType = CoverTypeMedium
	case containsFold(img.Types, "booklet"):
		coverType = CoverTypeBooklet
	}

	return CoverImage{
		URL: url,
		Type: coverType,
		Size: size,
		IsFront: img.Front,
		Source: "coverartarchive",
		Comment: img.Comment,
	}
}

func containsFold(haystack []string, needle string) bool {
	for _, h := range haystack {
		if strings.EqualFold(h, needle) {
			return true
		}
	}
	return false
}
