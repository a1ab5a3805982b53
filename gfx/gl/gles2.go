// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package gl

import (
	"strings"
	"unsafe"

	"github.com/go-gl/gl/v3.1/gles2"
	"github.com/pkg/errors"
)

// NewGLES2 loads the GL ES 2.0 entry points for the context that is
// current on the calling thread.
func NewGLES2() (OpenGL, error) {
	if err := gles2.Init(); err != nil {
		return nil, errors.Wrap(err, "gles2.Init()")
	}
	return gles2Context{}, nil
}

type gles2Context struct{}

func (gles2Context) ClearColor(r, g, b, a float32) { gles2.ClearColor(r, g, b, a) }
func (gles2Context) Clear(mask Enum)               { gles2.Clear(uint32(mask)) }
func (gles2Context) Enable(capability Enum)        { gles2.Enable(uint32(capability)) }
func (gles2Context) BlendFunc(sfactor, dfactor Enum) {
	gles2.BlendFunc(uint32(sfactor), uint32(dfactor))
}
func (gles2Context) Viewport(x, y, width, height int32) { gles2.Viewport(x, y, width, height) }
func (gles2Context) GetError() Enum                     { return Enum(gles2.GetError()) }

func (gles2Context) GetString(name Enum) string {
	str := gles2.GetString(uint32(name))
	if str == nil {
		return ""
	}
	return gles2.GoStr(str)
}

func (gles2Context) GenTexture() uint32 {
	var texture uint32
	gles2.GenTextures(1, &texture)
	return texture
}

func (gles2Context) DeleteTexture(texture uint32) {
	gles2.DeleteTextures(1, &texture)
}

func (gles2Context) ActiveTexture(unit Enum) { gles2.ActiveTexture(uint32(unit)) }

func (gles2Context) BindTexture(target Enum, texture uint32) {
	gles2.BindTexture(uint32(target), texture)
}

func (gles2Context) TexParameteri(target, pname Enum, param int32) {
	gles2.TexParameteri(uint32(target), uint32(pname), param)
}

func (gles2Context) TexImage2D(target Enum, level, width, height int32, format, ty Enum, pixels []byte) {
	var ptr unsafe.Pointer
	if len(pixels) > 0 {
		ptr = gles2.Ptr(pixels)
	}
	// GL ES 2.0 requires internalformat == format.
	gles2.TexImage2D(uint32(target), level, int32(format), width, height, 0, uint32(format), uint32(ty), ptr)
}

func (gles2Context) GenBuffer() uint32 {
	var buffer uint32
	gles2.GenBuffers(1, &buffer)
	return buffer
}

func (gles2Context) DeleteBuffer(buffer uint32) {
	gles2.DeleteBuffers(1, &buffer)
}

func (gles2Context) BindBuffer(target Enum, buffer uint32) {
	gles2.BindBuffer(uint32(target), buffer)
}

func (gles2Context) BufferData(target Enum, data []byte, usage Enum) {
	if len(data) == 0 {
		gles2.BufferData(uint32(target), 0, nil, uint32(usage))
		return
	}
	gles2.BufferData(uint32(target), len(data), gles2.Ptr(data), uint32(usage))
}

func (gles2Context) CreateShader(ty Enum) uint32 { return gles2.CreateShader(uint32(ty)) }

func (gles2Context) ShaderSource(shader uint32, source string) {
	csources, free := gles2.Strs(source + "\x00")
	gles2.ShaderSource(shader, 1, csources, nil)
	free()
}

func (gles2Context) CompileShader(shader uint32) { gles2.CompileShader(shader) }

func (gles2Context) GetShaderi(shader uint32, pname Enum) int32 {
	var value int32
	gles2.GetShaderiv(shader, uint32(pname), &value)
	return value
}

func (c gles2Context) GetShaderInfoLog(shader uint32) string {
	length := c.GetShaderi(shader, InfoLogLength)
	if length <= 0 {
		return ""
	}
	infoLog := strings.Repeat("\x00", int(length+1))
	gles2.GetShaderInfoLog(shader, length, nil, gles2.Str(infoLog))
	return strings.TrimRight(infoLog, "\x00")
}

func (gles2Context) DeleteShader(shader uint32) { gles2.DeleteShader(shader) }
func (gles2Context) CreateProgram() uint32     { return gles2.CreateProgram() }

func (gles2Context) AttachShader(program, shader uint32) {
	gles2.AttachShader(program, shader)
}

func (gles2Context) LinkProgram(program uint32)     { gles2.LinkProgram(program) }
func (gles2Context) ValidateProgram(program uint32) { gles2.ValidateProgram(program) }

func (gles2Context) GetProgrami(program uint32, pname Enum) int32 {
	var value int32
	gles2.GetProgramiv(program, uint32(pname), &value)
	return value
}

func (c gles2Context) GetProgramInfoLog(program uint32) string {
	length := c.GetProgrami(program, InfoLogLength)
	if length <= 0 {
		return ""
	}
	infoLog := strings.Repeat("\x00", int(length+1))
	gles2.GetProgramInfoLog(program, length, nil, gles2.Str(infoLog))
	return strings.TrimRight(infoLog, "\x00")
}

func (gles2Context) DeleteProgram(program uint32) { gles2.DeleteProgram(program) }
func (gles2Context) UseProgram(program uint32)    { gles2.UseProgram(program) }

func (gles2Context) GetUniformLocation(program uint32, name string) int32 {
	return gles2.GetUniformLocation(program, gles2.Str(name+"\x00"))
}

func (gles2Context) GetAttribLocation(program uint32, name string) int32 {
	return gles2.GetAttribLocation(program, gles2.Str(name+"\x00"))
}

func (gles2Context) Uniform1i(location, v int32) { gles2.Uniform1i(location, v) }

func (gles2Context) UniformMatrix4fv(location int32, m [16]float32) {
	gles2.UniformMatrix4fv(location, 1, false, &m[0])
}

func (gles2Context) VertexAttribPointer(index uint32, size int32, ty Enum, normalized bool, stride, offset int32) {
	gles2.VertexAttribPointer(index, size, uint32(ty), normalized, stride, gles2.PtrOffset(int(offset)))
}

func (gles2Context) EnableVertexAttribArray(index uint32) {
	gles2.EnableVertexAttribArray(index)
}

func (gles2Context) DrawArrays(mode Enum, first, count int32) {
	gles2.DrawArrays(uint32(mode), first, count)
}
