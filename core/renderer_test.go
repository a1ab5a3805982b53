// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	"io"
	"testing"

	qt "github.com/frankban/quicktest"
	glm "github.com/go-gl/mathgl/mgl32"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/devblok/tile2d/asset"
	"github.com/devblok/tile2d/gfx/gl"
	"github.com/devblok/tile2d/gfx/gl/gltest"
)

func newSizedRenderer(c *qt.C, src asset.Source, width, height int) (*TileRenderer, *gltest.Recorder) {
	ctx := gltest.New()
	r := NewTileRenderer(ctx, src, DefaultRendererConfiguration())
	c.Assert(r.State(), qt.Equals, Uninitialized)
	c.Assert(ctx.Calls(), qt.HasLen, 0)

	r.OnSurfaceCreated()
	c.Assert(r.State(), qt.Equals, SurfaceReady)
	r.OnSurfaceChanged(width, height)
	c.Assert(r.State(), qt.Equals, Sized)
	return r, ctx
}

func drawCalls(p *ShaderProgram, tile *Tile) []gltest.Call {
	return []gltest.Call{
		{Name: "UseProgram", Args: []interface{}{p.Program()}},
		{Name: "ActiveTexture", Args: []interface{}{gl.Texture0}},
		{Name: "BindTexture", Args: []interface{}{gl.Texture2D, tile.Texture()}},
		{Name: "Uniform1i", Args: []interface{}{p.UTextureUnit(), int32(0)}},
		{Name: "BindBuffer", Args: []interface{}{gl.ArrayBuffer, tile.Buffer()}},
		{Name: "VertexAttribPointer", Args: []interface{}{uint32(p.APosition()), int32(2), gl.Float, false, int32(16), int32(0)}},
		{Name: "EnableVertexAttribArray", Args: []interface{}{uint32(p.APosition())}},
		{Name: "VertexAttribPointer", Args: []interface{}{uint32(p.ATextureCoordinates()), int32(2), gl.Float, false, int32(16), int32(8)}},
		{Name: "EnableVertexAttribArray", Args: []interface{}{uint32(p.ATextureCoordinates())}},
		{Name: "DrawArrays", Args: []interface{}{gl.TriangleStrip, int32(0), int32(4)}},
	}
}

func TestRendererFullFrame(t *testing.T) {
	c := qt.New(t)
	r, ctx := newSizedRenderer(c, tileSource(c), 800, 600)

	programs, tiles := r.Programs(), r.Tiles()
	c.Assert(programs[0].Alpha(), qt.Equals, float32(1))
	c.Assert(programs[1].Alpha(), qt.Equals, float32(0.6))
	c.Assert(programs[0].Program(), qt.Not(qt.Equals), programs[1].Program())

	ctx.Reset()
	r.OnDrawFrame()

	want := []gltest.Call{{Name: "Clear", Args: []interface{}{gl.ColorBufferBit}}}
	want = append(want, drawCalls(programs[0], tiles[0])...)
	want = append(want, drawCalls(programs[1], tiles[1])...)
	c.Assert(ctx.Calls(), qt.DeepEquals, want)

	textures := r.Textures()
	c.Assert(tiles[0].Texture(), qt.Equals, textures[0].Handle())
	c.Assert(tiles[1].Texture(), qt.Equals, textures[1].Handle())
}

func TestRendererSurfaceCreated(t *testing.T) {
	c := qt.New(t)
	ctx := gltest.New()
	r := NewTileRenderer(ctx, tileSource(c), DefaultRendererConfiguration())
	r.OnSurfaceCreated()

	c.Assert(ctx.ClearColorValue(), qt.Equals, [4]float32{0, 0, 0, 0})
	enabled, sfactor, dfactor := ctx.BlendState()
	c.Assert(enabled, qt.IsTrue)
	c.Assert(sfactor, qt.Equals, gl.SrcAlpha)
	c.Assert(dfactor, qt.Equals, gl.OneMinusSrcAlpha)

	for _, p := range r.Programs() {
		c.Assert(p.Valid(), qt.IsTrue)
	}
	for _, tex := range r.Textures() {
		w, h, ok := ctx.TextureSize(tex.Handle())
		c.Assert(ok, qt.IsTrue)
		c.Assert([2]int32{w, h}, qt.Equals, [2]int32{256, 256})
	}

	// Programs are built before any texture is uploaded.
	names := ctx.Names()
	lastLink, firstTexture := -1, -1
	for idx, name := range names {
		if name == "LinkProgram" {
			lastLink = idx
		}
		if name == "GenTexture" && firstTexture < 0 {
			firstTexture = idx
		}
	}
	c.Assert(lastLink < firstTexture, qt.IsTrue)

	// No draw before a size is known.
	ctx.Reset()
	r.OnDrawFrame()
	c.Assert(ctx.Calls(), qt.HasLen, 0)
}

func TestRendererMatrices(t *testing.T) {
	c := qt.New(t)
	r, ctx := newSizedRenderer(c, tileSource(c), 800, 600)

	c.Assert(ctx.ViewportValue(), qt.Equals, [4]int32{0, 0, 800, 600})
	c.Assert(r.ProjectionMatrix(), qt.Equals, ProjectionMatrix(800, 600))
	c.Assert(r.ViewMatrix(), qt.Equals, ViewMatrix(800, 600))
	c.Assert(r.VPMatrix(), qt.Equals, r.ProjectionMatrix().Mul4(r.ViewMatrix()))

	for _, p := range r.Programs() {
		m, ok := ctx.ProgramMatrix(p.Program(), p.UMVPMatrix())
		c.Assert(ok, qt.IsTrue)
		c.Assert(glm.Mat4(m), qt.Equals, r.VPMatrix())
	}

	center := project(r.VPMatrix(), 400, 300, 0)
	c.Assert(glm.Vec2{center[0], center[1]}.ApproxEqualThreshold(glm.Vec2{}, epsilon), qt.IsTrue)
}

func TestRendererResize(t *testing.T) {
	c := qt.New(t)
	r, ctx := newSizedRenderer(c, tileSource(c), 800, 600)
	programs := []uint32{r.Programs()[0].Program(), r.Programs()[1].Program()}
	textures := []uint32{r.Textures()[0].Handle(), r.Textures()[1].Handle()}
	oldTiles := r.Tiles()

	ctx.Reset()
	r.OnSurfaceChanged(1000, 500)
	c.Assert(r.State(), qt.Equals, Sized)
	w, h := r.Size()
	c.Assert([2]int{w, h}, qt.Equals, [2]int{1000, 500})
	c.Assert(ctx.ViewportValue(), qt.Equals, [4]int32{0, 0, 1000, 500})

	c.Assert(ctx.Count("CreateProgram"), qt.Equals, 0)
	c.Assert(ctx.Count("GenTexture"), qt.Equals, 0)
	c.Assert(ctx.Count("DeleteBuffer"), qt.Equals, 2)
	for idx, p := range r.Programs() {
		c.Assert(p.Program(), qt.Equals, programs[idx])
		c.Assert(r.Tiles()[idx].Texture(), qt.Equals, textures[idx])
		c.Assert(oldTiles[idx].Buffer(), qt.Equals, uint32(0))
	}

	m, _ := ctx.ProgramMatrix(programs[1], r.Programs()[1].UMVPMatrix())
	c.Assert(glm.Mat4(m), qt.Equals, ViewProjectionMatrix(1000, 500))
}

func TestRendererIgnoresEmptySurface(t *testing.T) {
	c := qt.New(t)
	hook := test.NewGlobal()
	defer hook.Reset()

	r, ctx := newSizedRenderer(c, tileSource(c), 800, 600)
	ctx.Reset()
	r.OnSurfaceChanged(0, 600)
	c.Assert(ctx.Calls(), qt.HasLen, 0)
	c.Assert(hook.LastEntry().Message, qt.Equals, "ignoring empty surface")
	c.Assert(r.VPMatrix(), qt.Equals, ViewProjectionMatrix(800, 600))
}

func TestRendererBlending(t *testing.T) {
	c := qt.New(t)
	_, ctx := newSizedRenderer(c, tileSource(c), 800, 600)

	background := ctx.ClearColorValue()
	base := ctx.Composite(background, [4]float32{1, 1, 1, 1})
	got := ctx.Composite(base, [4]float32{0, 0, 0, 0.6})

	// Blending applies to alpha too: 0.6*0.6 + 1*0.4.
	want := glm.Vec4{0.4, 0.4, 0.4, 0.76}
	c.Assert(glm.Vec4(got).ApproxEqualThreshold(want, epsilon), qt.IsTrue, qt.Commentf("got %v", got))
}

func TestRendererMissingResource(t *testing.T) {
	c := qt.New(t)
	hook := test.NewGlobal()
	defer hook.Reset()

	src := asset.MapSource{DefaultBaseResource: tilePNG(c, white)}
	r, ctx := newSizedRenderer(c, src, 800, 600)

	c.Assert(r.Textures()[0].Valid(), qt.IsTrue)
	c.Assert(r.Textures()[1].Valid(), qt.IsFalse)

	ctx.Reset()
	r.OnDrawFrame()
	c.Assert(ctx.Count("DrawArrays"), qt.Equals, 1)
	c.Assert(ctx.Count("BindTexture"), qt.Equals, 1)
	// The overlay program is still made current.
	c.Assert(ctx.Count("UseProgram"), qt.Equals, 2)
}

func TestRendererSurfaceLost(t *testing.T) {
	c := qt.New(t)
	src := tileSource(c)
	r, ctx := newSizedRenderer(c, src, 800, 600)

	ctx.Reset()
	r.OnSurfaceLost()
	c.Assert(r.State(), qt.Equals, Uninitialized)
	c.Assert(ctx.Calls(), qt.HasLen, 0)

	r.OnDrawFrame()
	r.OnSurfaceChanged(800, 600)
	c.Assert(ctx.Calls(), qt.HasLen, 0)
	c.Assert(r.State(), qt.Equals, Uninitialized)

	// A new context gets the tiles again from the source.
	r.OnSurfaceCreated()
	r.OnSurfaceChanged(800, 600)
	c.Assert(ctx.Count("TexImage2D"), qt.Equals, 2)
	for _, tex := range r.Textures() {
		c.Assert(tex.Valid(), qt.IsTrue)
	}

	ctx.Reset()
	r.OnDrawFrame()
	c.Assert(ctx.Count("DrawArrays"), qt.Equals, 2)
}

func TestRendererDestroy(t *testing.T) {
	c := qt.New(t)
	r, ctx := newSizedRenderer(c, tileSource(c), 800, 600)

	r.Destroy()
	c.Assert(r.State(), qt.Equals, Uninitialized)
	shaders, programs, textures, buffers := ctx.Live()
	c.Assert([4]int{shaders, programs, textures, buffers}, qt.Equals, [4]int{0, 0, 0, 0})

	ctx.Reset()
	r.Destroy()
	c.Assert(ctx.Calls(), qt.HasLen, 0)
}

func TestRendererDestroyBeforeSurface(t *testing.T) {
	c := qt.New(t)
	ctx := gltest.New()
	r := NewTileRenderer(ctx, tileSource(c), DefaultRendererConfiguration())
	for _, l := range r.layers {
		c.Assert(l.bitmap.Released(), qt.IsFalse)
	}
	bitmaps := []*asset.Bitmap{r.layers[0].bitmap, r.layers[1].bitmap}

	r.Destroy()
	c.Assert(ctx.Calls(), qt.HasLen, 0)
	for _, b := range bitmaps {
		c.Assert(b.Released(), qt.IsTrue)
	}
}

func TestRendererReleasesBitmapsAfterUpload(t *testing.T) {
	c := qt.New(t)
	ctx := gltest.New()
	r := NewTileRenderer(ctx, tileSource(c), DefaultRendererConfiguration())
	bitmaps := []*asset.Bitmap{r.layers[0].bitmap, r.layers[1].bitmap}

	r.OnSurfaceCreated()
	for _, b := range bitmaps {
		c.Assert(b.Released(), qt.IsTrue)
	}
}

func TestRendererTilePlacement(t *testing.T) {
	c := qt.New(t)
	ctx := gltest.New()
	cfg := DefaultRendererConfiguration()
	cfg.TileLeft, cfg.TileTop = 100, 50
	r := NewTileRenderer(ctx, tileSource(c), cfg)
	r.OnSurfaceCreated()
	r.OnSurfaceChanged(800, 600)

	for _, tile := range r.Tiles() {
		c.Assert(tile.Vertices()[:2], qt.DeepEquals, []float32{100, 50})
		c.Assert(tile.Vertices()[12:14], qt.DeepEquals, []float32{356, 306})
	}
}

// countingSource records how often each resource is opened.
type countingSource struct {
	asset.MapSource
	opens map[string]int
}

func (s *countingSource) Open(resourceID string) (io.ReadCloser, error) {
	s.opens[resourceID]++
	return s.MapSource.Open(resourceID)
}

func decodeWarnings(hook *test.Hook) int {
	var count int
	for _, entry := range hook.AllEntries() {
		if entry.Message == "resource could not be decoded" {
			count++
		}
	}
	return count
}

func TestRendererDoesNotRetryFailedDecode(t *testing.T) {
	c := qt.New(t)
	hook := test.NewGlobal()
	defer hook.Reset()

	src := &countingSource{
		MapSource: asset.MapSource{DefaultBaseResource: tilePNG(c, white)},
		opens:     map[string]int{},
	}
	ctx := gltest.New()
	r := NewTileRenderer(ctx, src, DefaultRendererConfiguration())
	c.Assert(decodeWarnings(hook), qt.Equals, 1)

	r.OnSurfaceCreated()
	c.Assert(decodeWarnings(hook), qt.Equals, 1)
	c.Assert(src.opens, qt.DeepEquals, map[string]int{DefaultBaseResource: 1, DefaultOverlayResource: 1})

	// Only the tile that was uploaded is decoded again for a new context.
	r.OnSurfaceLost()
	r.OnSurfaceCreated()
	c.Assert(decodeWarnings(hook), qt.Equals, 1)
	c.Assert(src.opens, qt.DeepEquals, map[string]int{DefaultBaseResource: 2, DefaultOverlayResource: 1})
	c.Assert(r.Textures()[0].Valid(), qt.IsTrue)
	c.Assert(r.Textures()[1].Valid(), qt.IsFalse)
}

func TestRendererSurfaceCreatedTwice(t *testing.T) {
	c := qt.New(t)
	r, ctx := newSizedRenderer(c, tileSource(c), 800, 600)
	shaders, programs, textures, buffers := ctx.Live()
	live := [4]int{shaders, programs, textures, buffers}
	c.Assert(live, qt.Equals, [4]int{0, 2, 2, 2})

	ctx.Reset()
	r.OnSurfaceCreated()
	c.Assert(r.State(), qt.Equals, SurfaceReady)
	c.Assert(ctx.Count("DeleteBuffer"), qt.Equals, 2)
	c.Assert(ctx.Count("DeleteTexture"), qt.Equals, 2)
	c.Assert(ctx.Count("DeleteProgram"), qt.Equals, 2)

	r.OnSurfaceChanged(800, 600)
	shaders, programs, textures, buffers = ctx.Live()
	c.Assert([4]int{shaders, programs, textures, buffers}, qt.Equals, live)
	for _, tex := range r.Textures() {
		c.Assert(tex.Valid(), qt.IsTrue)
	}

	ctx.Reset()
	r.OnDrawFrame()
	c.Assert(ctx.Count("DrawArrays"), qt.Equals, 2)
}
