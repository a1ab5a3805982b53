// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package asset decodes tile images into CPU-side bitmaps ready for
// texture upload.
package asset

import (
	"image"
	"io"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"

	// Formats beyond the ones imaging registers.
	_ "golang.org/x/image/webp"

	"github.com/devblok/tile2d/gfx"
)

// Bitmap is a decoded image: row-major RGBA8, top-left origin, four
// bytes per pixel with no row padding. Pixels are not premultiplied.
type Bitmap struct {
	Width  int
	Height int
	Pix    []byte
}

var _ gfx.Releasable = (*Bitmap)(nil)

// NewBitmap converts any image into a tightly packed bitmap at its
// native size.
func NewBitmap(img image.Image) *Bitmap {
	nrgba := imaging.Clone(img)
	return &Bitmap{
		Width:  nrgba.Rect.Dx(),
		Height: nrgba.Rect.Dy(),
		Pix:    nrgba.Pix,
	}
}

// Decode reads an encoded image. The image is not scaled or rotated.
func Decode(r io.Reader) (*Bitmap, error) {
	img, err := imaging.Decode(r)
	if err != nil {
		return nil, errors.Wrap(err, "imaging.Decode()")
	}
	return NewBitmap(img), nil
}

// Release drops the pixel data. The bitmap keeps its dimensions.
func (b *Bitmap) Release() {
	if b == nil {
		return
	}
	b.Pix = nil
}

// Released reports whether the pixel data is gone.
func (b *Bitmap) Released() bool {
	return b == nil || b.Pix == nil
}
