// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	glm "github.com/go-gl/mathgl/mgl32"
)

// Frustum is a perspective volume. The sides are measured on the near
// plane, Near and Far are positive distances from the eye.
type Frustum struct {
	Left, Right, Bottom, Top float32
	Near, Far                float32
}

// PixelFrustum is sized so that, seen from PixelCamera, the plane z = 0
// maps one world unit onto one pixel of a width x height surface.
func PixelFrustum(width, height int) Frustum {
	w, h := float32(width), float32(height)
	return Frustum{
		Left:   -w / 4,
		Right:  w / 4,
		Bottom: -h / 4,
		Top:    h / 4,
		Near:   w / 4,
		Far:    w / 2,
	}
}

// Matrix returns the column-major projection matrix.
func (f Frustum) Matrix() glm.Mat4 {
	return glm.Frustum(f.Left, f.Right, f.Bottom, f.Top, f.Near, f.Far)
}

// Camera is a look-at view.
type Camera struct {
	Eye, Center, Up glm.Vec3
}

// PixelCamera looks down +z at the middle of the surface from w/2 in
// front of it. Up is -y, so world y grows toward the bottom of the
// screen like texture coordinates do.
func PixelCamera(width, height int) Camera {
	w, h := float32(width), float32(height)
	return Camera{
		Eye:    glm.Vec3{w / 2, h / 2, -w / 2},
		Center: glm.Vec3{w / 2, h / 2, 1},
		Up:     glm.Vec3{0, -1, 0},
	}
}

// Matrix returns the column-major view matrix.
func (c Camera) Matrix() glm.Mat4 {
	return glm.LookAtV(c.Eye, c.Center, c.Up)
}

// ProjectionMatrix is PixelFrustum(width, height).Matrix().
func ProjectionMatrix(width, height int) glm.Mat4 {
	return PixelFrustum(width, height).Matrix()
}

// ViewMatrix is PixelCamera(width, height).Matrix().
func ViewMatrix(width, height int) glm.Mat4 {
	return PixelCamera(width, height).Matrix()
}

// ViewProjectionMatrix is projection * view for a surface size.
func ViewProjectionMatrix(width, height int) glm.Mat4 {
	return ProjectionMatrix(width, height).Mul4(ViewMatrix(width, height))
}
