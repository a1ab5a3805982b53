// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package model holds the tile geometry and its vertex layout.
//
// World space is UV-aligned: the origin is the top-left corner of the
// screen and Y grows downward, so a texture coordinate and the pixel
// it lands on move in the same direction.
package model

import (
	"encoding/binary"
	"math"

	glm "github.com/go-gl/mathgl/mgl32"
)

// Layout constants for the interleaved x, y, s, t vertex format.
const (
	BytesPerFloat                    = 4
	PositionComponentCount           = 2 // x, y; z is always 0
	TextureCoordinatesComponentCount = 2 // s, t
	ComponentsPerVertex              = PositionComponentCount + TextureCoordinatesComponentCount

	// Stride is the byte distance between two vertices.
	Stride = ComponentsPerVertex * BytesPerFloat
)

// TileSize is the edge length of a map tile in pixels.
const TileSize = 256

// Vertex is a tile vertex.
type Vertex struct {
	Pos glm.Vec2
	UV  glm.Vec2
}

// Attribute describes where one vertex attribute lives in the
// interleaved buffer.
type Attribute struct {
	Name       string
	Components int32
	// Offset is the byte offset of the first component from the start
	// of the buffer.
	Offset int32
}

// VertexAttributes returns the attribute layout matching the vertex
// shader inputs, in buffer order.
func VertexAttributes(position, textureCoordinates string) []Attribute {
	return []Attribute{
		{
			Name:       position,
			Components: PositionComponentCount,
			Offset:     0,
		},
		{
			Name:       textureCoordinates,
			Components: TextureCoordinatesComponentCount,
			Offset:     PositionComponentCount * BytesPerFloat,
		},
	}
}

// Quad builds a size x size square whose top-left corner sits at
// (left, top), as a four vertex triangle strip ordered top-left,
// bottom-left, top-right, bottom-right.
func Quad(left, top, size int) []Vertex {
	l, t := float32(left), float32(top)
	r, b := float32(left+size), float32(top+size)
	return []Vertex{
		{Pos: glm.Vec2{l, t}, UV: glm.Vec2{0, 0}},
		{Pos: glm.Vec2{l, b}, UV: glm.Vec2{0, 1}},
		{Pos: glm.Vec2{r, t}, UV: glm.Vec2{1, 0}},
		{Pos: glm.Vec2{r, b}, UV: glm.Vec2{1, 1}},
	}
}

// Interleave flattens vertices into x, y, s, t records.
func Interleave(vertices []Vertex) []float32 {
	data := make([]float32, 0, len(vertices)*ComponentsPerVertex)
	for _, v := range vertices {
		data = append(data, v.Pos[0], v.Pos[1], v.UV[0], v.UV[1])
	}
	return data
}

// Bytes encodes floats in the host's native byte order, which is what
// the driver expects when the buffer is uploaded verbatim.
func Bytes(data []float32) []byte {
	out := make([]byte, len(data)*BytesPerFloat)
	for idx, f := range data {
		binary.NativeEndian.PutUint32(out[idx*BytesPerFloat:], math.Float32bits(f))
	}
	return out
}

// Floats decodes a native byte order buffer produced by Bytes.
func Floats(data []byte) []float32 {
	out := make([]float32, len(data)/BytesPerFloat)
	for idx := range out {
		out[idx] = math.Float32frombits(binary.NativeEndian.Uint32(data[idx*BytesPerFloat:]))
	}
	return out
}
