// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package core is the tile renderer: shader programs, textures, tiles
// and the pixel-exact projection they are drawn with.
//
// Nothing in this package is safe for concurrent use. A host calls the
// Renderer from the one thread that owns the GL context.
package core

import (
	"fmt"

	"github.com/devblok/tile2d/gfx/gl"
)

// SurfaceCallbacks is what a windowing host drives. The host guarantees
// a current GL context on the calling thread for every call.
type SurfaceCallbacks interface {
	// OnSurfaceCreated is called once a fresh GL context exists.
	OnSurfaceCreated()

	// OnSurfaceChanged is called after creation and whenever the
	// drawable changes size, with the size in pixels.
	OnSurfaceChanged(width, height int)

	// OnDrawFrame renders one frame.
	OnDrawFrame()
}

// Renderer describes the rendering machinery.
// It's created only with internal values set,
// it needs OnSurfaceCreated before any GL work happens.
type Renderer interface {
	SurfaceCallbacks

	// OnSurfaceLost tells the renderer that the context is gone along
	// with every object created in it. No GL calls are made.
	OnSurfaceLost()

	// Destroy deletes the GL objects that are still alive and releases
	// CPU-side resources. The context must still be current.
	Destroy()
}

// ShaderType represents the type of shader thats loaded
type ShaderType int

// Identifies shader objects with their types
const (
	VertexShaderType ShaderType = iota
	FragmentShaderType
	UnknownShaderType
)

func (t ShaderType) enum() gl.Enum {
	switch t {
	case VertexShaderType:
		return gl.VertexShader
	case FragmentShaderType:
		return gl.FragmentShader
	}
	return 0
}

func (t ShaderType) String() string {
	switch t {
	case VertexShaderType:
		return "vertex"
	case FragmentShaderType:
		return "fragment"
	}
	return fmt.Sprintf("ShaderType(%d)", int(t))
}

// State is the lifecycle position of a TileRenderer.
type State int

// Renderer lifecycle, in the order a host normally walks through it.
const (
	Uninitialized State = iota
	SurfaceReady
	Sized
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case SurfaceReady:
		return "surface-ready"
	case Sized:
		return "sized"
	}
	return fmt.Sprintf("State(%d)", int(s))
}
