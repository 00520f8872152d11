package service

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"log"

	"github.com/disintegration/imaging"

	"armario-dressup/models"
)

const (
	// Size settings (max dimension)
	maxSizeThumb  = 300
	maxSizeMedium = 800
)

// OutfitComposer flattens the visible layers of an outfit into a single PNG
type OutfitComposer struct {
	source    CategorySourceInterface
	baseImage string // optional base character image, drawn below every layer
}

// NewOutfitComposer creates a new OutfitComposer
func NewOutfitComposer(source CategorySourceInterface, baseImage string) *OutfitComposer {
	return &OutfitComposer{
		source:    source,
		baseImage: baseImage,
	}
}

// ValidComposeSize reports whether size is a supported output size
func ValidComposeSize(size string) bool {
	switch size {
	case "", "thumb", "medium", "full":
		return true
	}
	return false
}

// Compose draws layers bottom to top on a transparent canvas and encodes it as PNG.
// layers must already be sorted by stacking order.
// size: "thumb", "medium" or "full" (empty means full)
func (c *OutfitComposer) Compose(ctx context.Context, layers []models.Item, size string) ([]byte, error) {
	var images []image.Image

	if c.baseImage != "" {
		base, err := c.decode(ctx, c.baseImage)
		if err != nil {
			return nil, fmt.Errorf("failed to load base image: %w", err)
		}
		images = append(images, base)
	}

	for _, layer := range layers {
		img, err := c.decode(ctx, layer.Src)
		if err != nil {
			log.Printf("⚠️  Warning: skipping layer %s: %v", layer.ID, err)
			continue
		}
		images = append(images, img)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	width, height := canvasSize(images, c.baseImage != "")
	canvas := imaging.New(width, height, color.NRGBA{})
	for _, img := range images {
		canvas = imaging.Overlay(canvas, img, image.Pt(0, 0), 1.0)
	}

	var out image.Image = canvas
	switch size {
	case "thumb":
		out = imaging.Fit(canvas, maxSizeThumb, maxSizeThumb, imaging.Lanczos)
	case "medium":
		out = imaging.Fit(canvas, maxSizeMedium, maxSizeMedium, imaging.Lanczos)
	case "", "full":
	default:
		log.Printf("⚠️  Unknown size '%s', keeping full size", size)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, out, imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}

	log.Printf("✓ Outfit composed: layers=%d, size=%s, bounds=%v, output_size=%d bytes", len(images), size, out.Bounds(), buf.Len())
	return buf.Bytes(), nil
}

// canvasSize is the base image size when there is one, otherwise the largest layer
func canvasSize(images []image.Image, hasBase bool) (int, int) {
	if len(images) == 0 {
		return 1, 1
	}
	if hasBase {
		b := images[0].Bounds()
		return b.Dx(), b.Dy()
	}

	w, h := 1, 1
	for _, img := range images {
		b := img.Bounds()
		if b.Dx() > w {
			w = b.Dx()
		}
		if b.Dy() > h {
			h = b.Dy()
		}
	}
	return w, h
}

func (c *OutfitComposer) decode(ctx context.Context, src string) (image.Image, error) {
	data, err := c.source.Fetch(ctx, src)
	if err != nil {
		return nil, err
	}
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", src, err)
	}
	return img, nil
}
