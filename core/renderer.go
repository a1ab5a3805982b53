// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	glm "github.com/go-gl/mathgl/mgl32"
	log "github.com/sirupsen/logrus"

	"github.com/devblok/tile2d/asset"
	"github.com/devblok/tile2d/device"
	"github.com/devblok/tile2d/gfx/gl"
)

// layer is one tile with everything needed to draw it.
type layer struct {
	resource string
	alpha    float32

	bitmap *asset.Bitmap
	// uploaded is set once the bitmap went to a texture and was
	// released, so a later context has to decode it again.
	uploaded bool

	program *ShaderProgram
	texture *Texture
	tile    *Tile
}

// forget drops GPU objects without GL calls.
func (l *layer) forget() {
	l.program.forget()
	l.texture.forget()
	l.program, l.texture, l.tile = nil, nil, nil
}

// destroy deletes the GPU objects of l in the current context.
func (l *layer) destroy() {
	l.tile.Destroy()
	l.texture.Destroy()
	l.program.Destroy()
	l.forget()
}

// NewTileRenderer decodes both tile bitmaps right away. No GL call is
// made until OnSurfaceCreated. A bitmap that fails to decode is logged
// and its tile will not render.
func NewTileRenderer(ctx gl.OpenGL, source asset.Source, cfg RendererConfiguration) *TileRenderer {
	r := &TileRenderer{
		gl:     ctx,
		source: source,
		cfg:    cfg,
		layers: []*layer{
			{resource: cfg.BaseResource, alpha: cfg.BaseAlpha},
			{resource: cfg.OverlayResource, alpha: cfg.OverlayAlpha},
		},
		logger: log.WithField("component", "renderer"),
	}
	for _, l := range r.layers {
		l.bitmap = asset.LoadBitmap(source, l.resource)
	}
	return r
}

// TileRenderer draws an opaque base tile and a translucent overlay tile
// over it, one to one with screen pixels.
type TileRenderer struct {
	gl     gl.OpenGL
	source asset.Source
	cfg    RendererConfiguration
	state  State

	// layers are in draw order, back to front.
	layers []*layer

	width, height int
	projection    glm.Mat4
	view          glm.Mat4
	vp            glm.Mat4

	logger *log.Entry
}

var _ Renderer = (*TileRenderer)(nil)

// OnSurfaceCreated implements SurfaceCallbacks. Calling it again
// without OnSurfaceLost rebuilds everything, the objects made so far
// are deleted from the context that is still current.
func (r *TileRenderer) OnSurfaceCreated() {
	if r.state != Uninitialized {
		r.logger.WithField("state", r.state).Warn("surface created again, deleting previous GPU objects")
		for _, l := range r.layers {
			l.destroy()
		}
		r.state = Uninitialized
	}

	if r.logger.Logger.IsLevelEnabled(log.DebugLevel) {
		info := device.Query(r.gl)
		r.logger.WithFields(log.Fields{
			"renderer": info.Renderer,
			"version":  info.Version,
			"glsl":     info.ShadingLanguageVersion,
		}).Debug("surface created")
	}

	c := r.cfg.ClearColor
	r.gl.ClearColor(c[0], c[1], c[2], c[3])
	r.gl.Enable(gl.Blend)
	r.gl.BlendFunc(gl.SrcAlpha, gl.OneMinusSrcAlpha)

	for _, l := range r.layers {
		l.program = NewShaderProgram(r.gl, l.alpha)
	}

	for _, l := range r.layers {
		if l.uploaded && l.bitmap.Released() && r.source != nil {
			// The pixels went to a previous context.
			l.bitmap = asset.LoadBitmap(r.source, l.resource)
		}
		l.texture = NewTexture(r.gl, l.bitmap)
		if !l.bitmap.Released() {
			l.uploaded = true
		}
		l.bitmap.Release()
		l.bitmap = nil
	}

	r.state = SurfaceReady
	r.checkError("surface created")
}

// OnSurfaceChanged implements SurfaceCallbacks. Tiles are rebuilt on
// every call, programs and textures are reused.
func (r *TileRenderer) OnSurfaceChanged(width, height int) {
	if r.state == Uninitialized {
		r.logger.Warn("surface changed before it was created")
		return
	}
	if width <= 0 || height <= 0 {
		r.logger.WithFields(log.Fields{
			"width":  width,
			"height": height,
		}).Warn("ignoring empty surface")
		return
	}

	r.gl.Viewport(0, 0, int32(width), int32(height))

	r.width, r.height = width, height
	r.projection = ProjectionMatrix(width, height)
	r.view = ViewMatrix(width, height)
	r.vp = r.projection.Mul4(r.view)

	for _, l := range r.layers {
		l.tile.Destroy()
		l.program.Use()
		l.program.SetMVPMatrix(r.vp)
		l.tile = NewTile(r.gl, l.program, r.cfg.TileLeft, r.cfg.TileTop, l.texture.Handle())
	}

	r.state = Sized
	r.logger.WithFields(log.Fields{
		"width":  width,
		"height": height,
	}).Debug("surface changed")
	r.checkError("surface changed")
}

// OnDrawFrame implements SurfaceCallbacks. Nothing is drawn until the
// surface has a size.
func (r *TileRenderer) OnDrawFrame() {
	if r.state != Sized {
		return
	}

	r.gl.Clear(gl.ColorBufferBit)
	for _, l := range r.layers {
		l.program.Use()
		l.tile.Draw()
	}
}

// OnSurfaceLost implements Renderer.
func (r *TileRenderer) OnSurfaceLost() {
	r.forget()
	r.logger.Debug("surface lost")
}

func (r *TileRenderer) forget() {
	for _, l := range r.layers {
		l.forget()
	}
	r.state = Uninitialized
}

// Destroy implements Renderer. Bitmaps that were never uploaded are
// released too.
func (r *TileRenderer) Destroy() {
	for _, l := range r.layers {
		l.destroy()
		l.bitmap.Release()
		l.bitmap = nil
	}
	r.state = Uninitialized
}

func (r *TileRenderer) checkError(stage string) {
	if err := r.gl.GetError(); err != gl.NoError {
		r.logger.WithFields(log.Fields{
			"stage": stage,
			"error": err,
		}).Warn("GL reported an error")
	}
}

// State is the current lifecycle state.
func (r *TileRenderer) State() State { return r.state }

// Size is the last surface size applied by OnSurfaceChanged.
func (r *TileRenderer) Size() (width, height int) { return r.width, r.height }

// ProjectionMatrix is the last computed projection.
func (r *TileRenderer) ProjectionMatrix() glm.Mat4 { return r.projection }

// ViewMatrix is the last computed view.
func (r *TileRenderer) ViewMatrix() glm.Mat4 { return r.view }

// VPMatrix is projection * view as uploaded to both programs.
func (r *TileRenderer) VPMatrix() glm.Mat4 { return r.vp }

// Programs returns the shader programs in draw order.
func (r *TileRenderer) Programs() []*ShaderProgram {
	out := make([]*ShaderProgram, len(r.layers))
	for idx, l := range r.layers {
		out[idx] = l.program
	}
	return out
}

// Textures returns the textures in draw order.
func (r *TileRenderer) Textures() []*Texture {
	out := make([]*Texture, len(r.layers))
	for idx, l := range r.layers {
		out[idx] = l.texture
	}
	return out
}

// Tiles returns the tiles in draw order.
func (r *TileRenderer) Tiles() []*Tile {
	out := make([]*Tile, len(r.layers))
	for idx, l := range r.layers {
		out[idx] = l.tile
	}
	return out
}
