package localstore

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"math"
	"strings"

	// decoders for the formats a card photo may arrive in
	_ "image/gif"
	_ "image/png"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// PhotoCompressor shrinks an embedded photo
type PhotoCompressor interface {
	Compress(ctx context.Context, photo string) (string, error)
}

// JPEGCompressor decodes a base64 photo, scales it down to MaxWidth keeping
// the aspect ratio, and re-encodes it as a JPEG data URI.
type JPEGCompressor struct {
	MaxWidth int
	Quality  float64 // 0..1
}

// Compress implements PhotoCompressor
func (c JPEGCompressor) Compress(ctx context.Context, photo string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	payload := photo
	if _, after, ok := strings.Cut(photo, ","); ok {
		payload = after
	}
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", fmt.Errorf("localstore: decode photo base64: %w", err)
	}

	src, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("localstore: decode photo image: %w", err)
	}

	bounds := src.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if c.MaxWidth > 0 && width > c.MaxWidth {
		height = height * c.MaxWidth / width
		width = c.MaxWidth
	}
	if height < 1 {
		height = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	// JPEG has no alpha; flatten onto white
	draw.Draw(dst, dst.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: c.quality()}); err != nil {
		return "", fmt.Errorf("localstore: encode photo: %w", err)
	}

	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

func (c JPEGCompressor) quality() int {
	q := int(math.Round(c.Quality * 100))
	if q < 1 || q > 100 {
		return jpeg.DefaultQuality
	}
	return q
}
