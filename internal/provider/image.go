package provider

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"io"
	"os"
	"strings"

	"golang.org/x/image/draw"
)

// ImageCompressor turns a source image into the string stored in an
// entry's image list.
type ImageCompressor interface {
	Compress(ctx context.Context, src io.Reader) (string, error)
}

const (
	DefaultMaxDimension = 1200
	DefaultQuality      = 80

	jpegDataURIPrefix = "data:image/jpeg;base64,"
)

// JPEGCompressor scales PNG or JPEG images down to fit MaxWidth x MaxHeight,
// keeping the aspect ratio, and re-encodes them as JPEG data URIs. Images
// already within bounds are re-encoded at their original size.
type JPEGCompressor struct {
	MaxWidth  int
	MaxHeight int
	Quality   int
}

// NewJPEGCompressor returns a compressor with the default bounds.
func NewJPEGCompressor() JPEGCompressor {
	return JPEGCompressor{MaxWidth: DefaultMaxDimension, MaxHeight: DefaultMaxDimension, Quality: DefaultQuality}
}

// Compress reads an encoded image from src.
func (c JPEGCompressor) Compress(ctx context.Context, src io.Reader) (string, error) {
	img, _, err := image.Decode(src)
	if err != nil {
		return "", fmt.Errorf("decode image: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	b := img.Bounds()
	w, h := fit(b.Dx(), b.Dy(), c.MaxWidth, c.MaxHeight)
	if w != b.Dx() || h != b.Dy() {
		dst := image.NewRGBA(image.Rect(0, 0, w, h))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
		img = dst
	}

	quality := c.Quality
	if quality <= 0 || quality > 100 {
		quality = DefaultQuality
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return "", fmt.Errorf("encode jpeg: %w", err)
	}
	return jpegDataURIPrefix + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// CompressFile compresses the image at path.
func (c JPEGCompressor) CompressFile(ctx context.Context, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open image: %w", err)
	}
	defer f.Close()
	return c.Compress(ctx, f)
}

// CompressDataURI compresses an image given as a base64 data URI.
func (c JPEGCompressor) CompressDataURI(ctx context.Context, uri string) (string, error) {
	_, payload, ok := strings.Cut(uri, ";base64,")
	if !ok || !strings.HasPrefix(uri, "data:image/") {
		return "", fmt.Errorf("not a base64 image data URI")
	}
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", fmt.Errorf("decode data URI: %w", err)
	}
	return c.Compress(ctx, bytes.NewReader(raw))
}

// fit scales w x h down to fit within maxW x maxH. Non-positive bounds are
// unlimited and images are never scaled up.
func fit(w, h, maxW, maxH int) (int, int) {
	ratio := 1.0
	if maxW > 0 && w > maxW {
		ratio = float64(maxW) / float64(w)
	}
	if maxH > 0 && h > maxH {
		if r := float64(maxH) / float64(h); r < ratio {
			ratio = r
		}
	}
	if ratio == 1.0 {
		return w, h
	}
	nw, nh := int(float64(w)*ratio), int(float64(h)*ratio)
	if nw < 1 {
		nw = 1
	}
	if nh < 1 {
		nh = 1
	}
	return nw, nh
}
