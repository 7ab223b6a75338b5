package imaging

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"os"
	"strings"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/spakin/netpbm"
	_ "golang.org/x/image/bmp"  // Register BMP format decoder
	_ "golang.org/x/image/tiff" // Register TIFF format decoder
	_ "golang.org/x/image/webp" // Register WebP format decoder
)

// ErrInvalidImage is returned when a payload cannot be decoded as an image.
var ErrInvalidImage = errors.New("invalid image")

// ImageCache provides thread-safe caching of decoded glyph images keyed by
// file path, so repeated decode and inspect calls on the same file skip disk
// reads.
//
// ImageCache is safe for concurrent use by multiple goroutines.
//
// # Memory Management
//
// Cached images remain in memory until explicitly removed via Evict() or
// Clear().
//
// # Example Usage
//
//	cache := imaging.NewImageCache()
//	img, info, err := cache.Load("/path/to/glyph.png")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	n, err := decoder.Decode(img)
type ImageCache struct {
	mu     sync.RWMutex
	images map[string]cached
}

type cached struct {
	img  image.Image
	info *ImageInfo
}

// NewImageCache creates and initializes a new empty image cache.
func NewImageCache() *ImageCache {
	return &ImageCache{
		images: make(map[string]cached),
	}
}

// Load retrieves an image from the cache or reads and decodes it from disk.
//
// Parameters:
//   - path: file path to the image. Any format accepted by DecodeBytes works.
//
// Returns the decoded image and its metadata. Errors wrap ErrInvalidImage
// when the file is readable but not an image.
//
// The image is cached using the exact path string provided.
func (c *ImageCache) Load(path string) (image.Image, *ImageInfo, error) {
	c.mu.RLock()
	if e, ok := c.images[path]; ok {
		c.mu.RUnlock()
		return e.img, e.info, nil
	}
	c.mu.RUnlock()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read image: %w", err)
	}

	img, info, err := DecodeBytes(data)
	if err != nil {
		return nil, nil, err
	}

	c.mu.Lock()
	c.images[path] = cached{img: img, info: info}
	c.mu.Unlock()

	return img, info, nil
}

// Len returns the number of cached images.
func (c *ImageCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.images)
}

// Clear removes all images from the cache.
func (c *ImageCache) Clear() {
	c.mu.Lock()
	c.images = make(map[string]cached)
	c.mu.Unlock()
}

// Evict removes a specific image from the cache by its path. Unknown paths
// are ignored.
func (c *ImageCache) Evict(path string) {
	c.mu.Lock()
	delete(c.images, path)
	c.mu.Unlock()
}

// ImageInfo contains metadata about a decoded input image.
type ImageInfo struct {
	// Width is the image width in pixels.
	Width int `json:"width"`

	// Height is the image height in pixels.
	Height int `json:"height"`

	// Format is the container detected from the content: "png", "jpeg",
	// "gif", "bmp", "tiff", "webp" or "netpbm".
	Format string `json:"format"`

	// HasAlpha indicates whether the decoded image carries an alpha channel.
	HasAlpha bool `json:"has_alpha"`

	// SizeBytes is the size of the encoded payload.
	SizeBytes int `json:"size_bytes"`
}

// DecodeBytes decodes an encoded image, detecting the container from its
// content.
//
// Netpbm files (P1-P7 magic) go through spakin/netpbm; everything else goes
// through the registered image decoders: PNG, JPEG, GIF, BMP, TIFF and WebP.
//
// Returns the image and its metadata, or an error wrapping ErrInvalidImage.
func DecodeBytes(data []byte) (image.Image, *ImageInfo, error) {
	if len(data) == 0 {
		return nil, nil, fmt.Errorf("empty payload: %w", ErrInvalidImage)
	}

	var (
		img    image.Image
		format string
		err    error
	)
	if isNetpbm(data) {
		img, err = netpbm.Decode(bytes.NewReader(data), nil)
		format = "netpbm"
	} else {
		img, format, err = image.Decode(bytes.NewReader(data))
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to decode image: %w: %v", ErrInvalidImage, err)
	}

	b := img.Bounds()
	info := &ImageInfo{
		Width:     b.Dx(),
		Height:    b.Dy(),
		Format:    format,
		HasAlpha:  hasAlpha(img),
		SizeBytes: len(data),
	}
	return img, info, nil
}

// DecodeBase64 decodes a base64 image payload. A data-URI header
// ("data:image/png;base64,") is stripped if present, and both padded and
// unpadded encodings are accepted.
func DecodeBase64(payload string) (image.Image, *ImageInfo, error) {
	payload = strings.TrimSpace(payload)
	if strings.HasPrefix(payload, "data:") {
		i := strings.IndexByte(payload, ',')
		if i < 0 {
			return nil, nil, fmt.Errorf("data URI without payload: %w", ErrInvalidImage)
		}
		payload = payload[i+1:]
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		data, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "="))
	}
	if err != nil {
		return nil, nil, fmt.Errorf("invalid base64: %w: %v", ErrInvalidImage, err)
	}
	return DecodeBytes(data)
}

// EncodePNG encodes img as PNG.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}

// EncodeDataURI encodes img as a base64 PNG data URI
// ("data:image/png;base64,...").
func EncodeDataURI(img image.Image) (string, error) {
	data, err := EncodePNG(img)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(data), nil
}

// isNetpbm reports whether data starts with a Netpbm magic number.
func isNetpbm(data []byte) bool {
	return len(data) >= 2 && data[0] == 'P' && data[1] >= '1' && data[1] <= '7'
}

func hasAlpha(img image.Image) bool {
	switch img.(type) {
	case *image.RGBA, *image.NRGBA, *image.RGBA64, *image.NRGBA64, *image.Alpha, *image.Alpha16:
		return true
	}
	return false
}
