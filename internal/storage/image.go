package storage

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"

	"golang.org/x/image/draw"
	"golang.org/x/image/webp"
)

var (
	ErrImageTooLarge   = errors.New("image too large")
	ErrInvalidImage    = errors.New("invalid image")
	ErrUnsupportedType = errors.New("unsupported image type")
)

const (
	defaultMaxBytes    = 5 * 1024 * 1024
	defaultMaxDim      = 2048
	defaultJPEGQuality = 85
	sniffLength        = 12
)

type ImageOptions struct {
	MaxBytes    int64
	MaxDim      int
	JPEGQuality int
}

// ProcessedImage is a re-encoded JPEG ready to be stored.
type ProcessedImage struct {
	Data        []byte
	ContentType string
	Width       int
	Height      int
}

func (p ProcessedImage) Size() int64 {
	return int64(len(p.Data))
}

func (o ImageOptions) withDefaults() ImageOptions {
	if o.MaxBytes <= 0 {
		o.MaxBytes = defaultMaxBytes
	}
	if o.MaxDim <= 0 {
		o.MaxDim = defaultMaxDim
	}
	if o.JPEGQuality <= 0 || o.JPEGQuality > 100 {
		o.JPEGQuality = defaultJPEGQuality
	}
	return o
}

func sniffImageType(header []byte) (string, error) {
	if len(header) < sniffLength {
		return "", ErrInvalidImage
	}
	switch {
	case bytes.HasPrefix(header, []byte{0xFF, 0xD8, 0xFF}):
		return "image/jpeg", nil
	case bytes.HasPrefix(header, []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1A, '\n'}):
		return "image/png", nil
	case bytes.Equal(header[0:4], []byte("RIFF")) && bytes.Equal(header[8:12], []byte("WEBP")):
		return "image/webp", nil
	default:
		return "", ErrUnsupportedType
	}
}

// ProcessImage reads at most opts.MaxBytes, accepts JPEG, PNG and WebP, scales the
// picture down to fit opts.MaxDim (never up), flattens transparency onto white and
// re-encodes it as JPEG.
func ProcessImage(r io.Reader, opts ImageOptions) (ProcessedImage, error) {
	opts = opts.withDefaults()

	data, err := io.ReadAll(io.LimitReader(r, opts.MaxBytes+1))
	if err != nil {
		return ProcessedImage{}, fmt.Errorf("read image: %w", err)
	}
	if int64(len(data)) > opts.MaxBytes {
		return ProcessedImage{}, ErrImageTooLarge
	}

	sourceType, err := sniffImageType(data)
	if err != nil {
		return ProcessedImage{}, err
	}

	var src image.Image
	switch sourceType {
	case "image/jpeg":
		src, err = jpeg.Decode(bytes.NewReader(data))
	case "image/png":
		src, err = png.Decode(bytes.NewReader(data))
	case "image/webp":
		src, err = webp.Decode(bytes.NewReader(data))
	}
	if err != nil {
		return ProcessedImage{}, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}

	bounds := src.Bounds()
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		return ProcessedImage{}, ErrInvalidImage
	}

	width, height := fitWithin(bounds.Dx(), bounds.Dy(), opts.MaxDim)
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)

	var out bytes.Buffer
	if err := jpeg.Encode(&out, dst, &jpeg.Options{Quality: opts.JPEGQuality}); err != nil {
		return ProcessedImage{}, fmt.Errorf("encode image: %w", err)
	}

	return ProcessedImage{
		Data:        out.Bytes(),
		ContentType: "image/jpeg",
		Width:       width,
		Height:      height,
	}, nil
}

func fitWithin(width, height, maxDim int) (int, int) {
	if width <= maxDim && height <= maxDim {
		return width, height
	}

	if width >= height {
		scaled := int(float64(height) * float64(maxDim) / float64(width))
		return maxDim, max(scaled, 1)
	}
	scaled := int(float64(width) * float64(maxDim) / float64(height))
	return max(scaled, 1), maxDim
}
