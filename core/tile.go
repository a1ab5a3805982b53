// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	log "github.com/sirupsen/logrus"

	"github.com/devblok/tile2d/gfx"
	"github.com/devblok/tile2d/gfx/gl"
	"github.com/devblok/tile2d/model"
)

var tileAttributes = model.VertexAttributes(AttributePosition, AttributeTextureCoordinates)

// Tile is one textured 256x256 quad in pixel space. It references a
// program and a texture it does not own; only its vertex buffer is
// its own.
type Tile struct {
	gl      gl.OpenGL
	program *ShaderProgram
	texture uint32

	vertices []float32
	buffer   uint32
}

// NewTile places a tile with its top-left corner at (left, top) and
// uploads its vertices into a static buffer.
func NewTile(ctx gl.OpenGL, program *ShaderProgram, left, top int, texture uint32) *Tile {
	t := &Tile{
		gl:       ctx,
		program:  program,
		texture:  texture,
		vertices: model.Interleave(model.Quad(left, top, model.TileSize)),
	}

	t.buffer = ctx.GenBuffer()
	if t.buffer == gfx.InvalidHandle {
		log.WithField("component", "tile").Warn("could not generate a vertex buffer")
		return t
	}
	ctx.BindBuffer(gl.ArrayBuffer, t.buffer)
	ctx.BufferData(gl.ArrayBuffer, model.Bytes(t.vertices), gl.StaticDraw)
	ctx.BindBuffer(gl.ArrayBuffer, 0)
	return t
}

// Draw issues the tile's draw call with whatever program is current.
// It does nothing when the texture or the program is missing.
func (t *Tile) Draw() {
	if t.texture == gfx.InvalidHandle || t.buffer == gfx.InvalidHandle || !t.program.Valid() {
		return
	}
	locations := []int32{t.program.APosition(), t.program.ATextureCoordinates()}
	for _, loc := range locations {
		if loc < 0 {
			return
		}
	}

	t.gl.ActiveTexture(gl.Texture0)
	t.gl.BindTexture(gl.Texture2D, t.texture)
	t.gl.Uniform1i(t.program.UTextureUnit(), 0)

	t.gl.BindBuffer(gl.ArrayBuffer, t.buffer)
	for idx, attr := range tileAttributes {
		t.gl.VertexAttribPointer(uint32(locations[idx]), attr.Components, gl.Float, false, model.Stride, attr.Offset)
		t.gl.EnableVertexAttribArray(uint32(locations[idx]))
	}

	t.gl.DrawArrays(gl.TriangleStrip, 0, int32(len(t.vertices)/model.ComponentsPerVertex))
}

// Vertices returns a copy of the interleaved x, y, s, t data.
func (t *Tile) Vertices() []float32 {
	return append([]float32(nil), t.vertices...)
}

// Texture is the referenced texture handle.
func (t *Tile) Texture() uint32 { return t.texture }

// Buffer is the tile's vertex buffer, 0 if it could not be created.
func (t *Tile) Buffer() uint32 { return t.buffer }

// Destroy implements gfx.Destroyable. Only the vertex buffer is deleted.
func (t *Tile) Destroy() {
	if t == nil || t.buffer == gfx.InvalidHandle {
		return
	}
	t.gl.DeleteBuffer(t.buffer)
	t.buffer = gfx.InvalidHandle
}

var (
	_ gfx.Destroyable = (*Tile)(nil)
	_ gfx.Destroyable = (*Texture)(nil)
	_ gfx.Destroyable = (*ShaderProgram)(nil)
)
