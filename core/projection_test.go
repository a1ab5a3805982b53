// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	"testing"

	qt "github.com/frankban/quicktest"
	glm "github.com/go-gl/mathgl/mgl32"
)

const epsilon = 1e-4

func assertVec4(c *qt.C, got, want glm.Vec4) {
	c.Helper()
	c.Assert(got.ApproxEqualThreshold(want, epsilon), qt.IsTrue, qt.Commentf("got %v, want %v", got, want))
}

func project(m glm.Mat4, x, y, z float32) glm.Vec4 {
	clip := m.Mul4x1(glm.Vec4{x, y, z, 1})
	return clip.Mul(1 / clip[3])
}

func TestPixelFrustum(t *testing.T) {
	c := qt.New(t)
	c.Assert(PixelFrustum(1000, 500), qt.Equals, Frustum{
		Left:   -250,
		Right:  250,
		Bottom: -125,
		Top:    125,
		Near:   250,
		Far:    500,
	})
}

func TestPixelCamera(t *testing.T) {
	c := qt.New(t)
	cam := PixelCamera(1000, 500)
	c.Assert(cam.Eye, qt.Equals, glm.Vec3{500, 250, -500})
	c.Assert(cam.Center, qt.Equals, glm.Vec3{500, 250, 1})
	c.Assert(cam.Up, qt.Equals, glm.Vec3{0, -1, 0})

	assertVec4(c, ViewMatrix(1000, 500).Mul4x1(glm.Vec4{500, 250, 0, 1}), glm.Vec4{0, 0, -500, 1})
}

func TestProjectionDepthRange(t *testing.T) {
	c := qt.New(t)
	f := PixelFrustum(1000, 500)
	p := f.Matrix()
	assertVec4(c, project(p, 0, 0, -f.Far), glm.Vec4{0, 0, 1, 1})
	assertVec4(c, project(p, 0, 0, -f.Near), glm.Vec4{0, 0, -1, 1})
}

func TestViewProjectionPixelMapping(t *testing.T) {
	for _, size := range [][2]int{{800, 600}, {1000, 500}, {256, 256}} {
		w, h := size[0], size[1]
		c := qt.New(t)
		vp := ViewProjectionMatrix(w, h)

		center := project(vp, float32(w)/2, float32(h)/2, 0)
		c.Assert(glm.Vec2{center[0], center[1]}.ApproxEqualThreshold(glm.Vec2{0, 0}, epsilon), qt.IsTrue,
			qt.Commentf("%dx%d center went to %v", w, h, center))

		topLeft := project(vp, 0, 0, 0)
		c.Assert(glm.Vec2{topLeft[0], topLeft[1]}.ApproxEqualThreshold(glm.Vec2{-1, 1}, epsilon), qt.IsTrue,
			qt.Commentf("%dx%d top-left went to %v", w, h, topLeft))

		bottomRight := project(vp, float32(w), float32(h), 0)
		c.Assert(glm.Vec2{bottomRight[0], bottomRight[1]}.ApproxEqualThreshold(glm.Vec2{1, -1}, epsilon), qt.IsTrue,
			qt.Commentf("%dx%d bottom-right went to %v", w, h, bottomRight))
	}
}

func TestTileCornerIsPixelExact(t *testing.T) {
	c := qt.New(t)
	vp := ViewProjectionMatrix(800, 600)
	corner := project(vp, 256, 256, 0)
	// 256 px right of the left edge, 256 px below the top edge.
	c.Assert(glm.Vec2{corner[0], corner[1]}.ApproxEqualThreshold(glm.Vec2{256.0/400 - 1, 1 - 256.0/300}, epsilon), qt.IsTrue,
		qt.Commentf("got %v", corner))
}
