// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	log "github.com/sirupsen/logrus"

	"github.com/devblok/tile2d/asset"
	"github.com/devblok/tile2d/gfx"
	"github.com/devblok/tile2d/gfx/gl"
)

// Texture is a 2D RGBA texture object. A Texture with a zero handle is
// valid to hold and to destroy, it just never draws.
type Texture struct {
	gl     gl.OpenGL
	handle uint32
	width  int
	height int
}

// NewTexture uploads bitmap at its own size with nearest filtering.
// On failure the returned Texture has the zero handle and a warning
// is logged. The bitmap is not released.
func NewTexture(ctx gl.OpenGL, bitmap *asset.Bitmap) *Texture {
	logger := log.WithField("component", "texture")
	t := &Texture{gl: ctx}

	if bitmap.Released() {
		logger.Warn("no bitmap to upload")
		return t
	}
	if bitmap.Width <= 0 || bitmap.Height <= 0 || len(bitmap.Pix) < bitmap.Width*bitmap.Height*4 {
		logger.WithFields(log.Fields{
			"width":  bitmap.Width,
			"height": bitmap.Height,
			"bytes":  len(bitmap.Pix),
		}).Warn("bitmap pixel data does not match its size")
		return t
	}

	handle := ctx.GenTexture()
	if handle == gfx.InvalidHandle {
		logger.Warn("could not generate a new texture object")
		return t
	}

	ctx.BindTexture(gl.Texture2D, handle)
	ctx.TexParameteri(gl.Texture2D, gl.TextureMinFilter, int32(gl.Nearest))
	ctx.TexParameteri(gl.Texture2D, gl.TextureMagFilter, int32(gl.Nearest))
	ctx.TexParameteri(gl.Texture2D, gl.TextureWrapS, int32(gl.ClampToEdge))
	ctx.TexParameteri(gl.Texture2D, gl.TextureWrapT, int32(gl.ClampToEdge))
	ctx.TexImage2D(gl.Texture2D, 0, int32(bitmap.Width), int32(bitmap.Height), gl.RGBA, gl.UnsignedByte, bitmap.Pix)
	ctx.BindTexture(gl.Texture2D, 0)

	t.handle = handle
	t.width, t.height = bitmap.Width, bitmap.Height
	logger.WithFields(log.Fields{
		"texture": handle,
		"width":   t.width,
		"height":  t.height,
	}).Debug("texture uploaded")
	return t
}

// Handle is the GL texture name, 0 if the upload failed.
func (t *Texture) Handle() uint32 {
	if t == nil {
		return gfx.InvalidHandle
	}
	return t.handle
}

// Width of the uploaded level 0 image.
func (t *Texture) Width() int { return t.width }

// Height of the uploaded level 0 image.
func (t *Texture) Height() int { return t.height }

// Valid reports whether there is a texture object behind t.
func (t *Texture) Valid() bool {
	return t.Handle() != gfx.InvalidHandle
}

// Destroy implements gfx.Destroyable
func (t *Texture) Destroy() {
	if !t.Valid() {
		return
	}
	t.gl.DeleteTexture(t.handle)
	t.forget()
}

// forget drops the handle without touching GL, for a lost context.
func (t *Texture) forget() {
	if t != nil {
		t.handle = gfx.InvalidHandle
	}
}
