// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	"bytes"
	"image/color"

	"github.com/disintegration/imaging"
	qt "github.com/frankban/quicktest"

	"github.com/devblok/tile2d/asset"
)

var (
	white = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	black = color.NRGBA{A: 255}
)

func tilePNG(c *qt.C, fill color.Color) []byte {
	var buf bytes.Buffer
	err := imaging.Encode(&buf, imaging.New(256, 256, fill), imaging.PNG)
	c.Assert(err, qt.IsNil)
	return buf.Bytes()
}

func tileBitmap(c *qt.C, fill color.Color) *asset.Bitmap {
	return asset.NewBitmap(imaging.New(256, 256, fill))
}

// tileSource serves the default base and overlay resources.
func tileSource(c *qt.C) asset.MapSource {
	return asset.MapSource{
		DefaultBaseResource:    tilePNG(c, white),
		DefaultOverlayResource: tilePNG(c, black),
	}
}
