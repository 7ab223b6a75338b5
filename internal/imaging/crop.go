package imaging

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// CropResult contains a cropped and enlarged region as a PNG data URI.
type CropResult struct {
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	DataURI  string `json:"image"`
	MimeType string `json:"mime_type"`
}

// Crop extracts region r from img and enlarges it by an integer factor using
// nearest-neighbour sampling.
//
// Returns an error if r is empty or not inside the image bounds.
func Crop(img image.Image, r image.Rectangle, scale int) (*CropResult, error) {
	bounds := img.Bounds()

	if !r.In(bounds) {
		return nil, fmt.Errorf("crop region %v outside image bounds %v", r, bounds)
	}
	if r.Empty() {
		return nil, fmt.Errorf("invalid crop region %v: empty", r)
	}

	cropped := imaging.Crop(img, r)
	if scale > 1 {
		cropped = imaging.Resize(cropped, r.Dx()*scale, r.Dy()*scale, imaging.NearestNeighbor)
	}

	uri, err := EncodeDataURI(cropped)
	if err != nil {
		return nil, fmt.Errorf("failed to encode cropped image: %w", err)
	}

	return &CropResult{
		Width:    cropped.Bounds().Dx(),
		Height:   cropped.Bounds().Dy(),
		DataURI:  uri,
		MimeType: "image/png",
	}, nil
}
