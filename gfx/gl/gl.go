// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package gl is the slice of OpenGL ES 2.0 that the tile renderer needs,
// expressed as an interface so that the renderer can be driven by the
// real driver or by a recording fake.
//
// Every method must be called on the thread that owns the current context.
package gl

import "fmt"

// Enum is a GL enumerant.
type Enum uint32

// GL ES 2.0 enumerants used by the renderer. Values match the Khronos headers.
const (
	NoError Enum = 0

	Zero             Enum = 0
	One              Enum = 1
	SrcAlpha         Enum = 0x0302
	OneMinusSrcAlpha Enum = 0x0303
	Blend            Enum = 0x0BE2

	TriangleStrip  Enum = 0x0005
	ColorBufferBit Enum = 0x4000

	Texture2D        Enum = 0x0DE1
	Texture0         Enum = 0x84C0
	TextureMagFilter Enum = 0x2800
	TextureMinFilter Enum = 0x2801
	TextureWrapS     Enum = 0x2802
	TextureWrapT     Enum = 0x2803
	Nearest          Enum = 0x2600
	ClampToEdge      Enum = 0x812F
	RGBA             Enum = 0x1908
	UnsignedByte     Enum = 0x1401
	Float            Enum = 0x1406

	ArrayBuffer Enum = 0x8892
	StaticDraw  Enum = 0x88E4

	FragmentShader Enum = 0x8B30
	VertexShader   Enum = 0x8B31
	CompileStatus  Enum = 0x8B81
	LinkStatus     Enum = 0x8B82
	ValidateStatus Enum = 0x8B83
	InfoLogLength  Enum = 0x8B84

	Vendor                 Enum = 0x1F00
	Renderer               Enum = 0x1F01
	Version                Enum = 0x1F02
	ShadingLanguageVersion Enum = 0x8B8C
)

var enumNames = map[Enum]string{
	SrcAlpha:               "SRC_ALPHA",
	OneMinusSrcAlpha:       "ONE_MINUS_SRC_ALPHA",
	Blend:                  "BLEND",
	TriangleStrip:          "TRIANGLE_STRIP",
	ColorBufferBit:         "COLOR_BUFFER_BIT",
	Texture2D:              "TEXTURE_2D",
	Texture0:               "TEXTURE0",
	TextureMagFilter:       "TEXTURE_MAG_FILTER",
	TextureMinFilter:       "TEXTURE_MIN_FILTER",
	TextureWrapS:           "TEXTURE_WRAP_S",
	TextureWrapT:           "TEXTURE_WRAP_T",
	Nearest:                "NEAREST",
	ClampToEdge:            "CLAMP_TO_EDGE",
	RGBA:                   "RGBA",
	UnsignedByte:           "UNSIGNED_BYTE",
	Float:                  "FLOAT",
	ArrayBuffer:            "ARRAY_BUFFER",
	StaticDraw:             "STATIC_DRAW",
	FragmentShader:         "FRAGMENT_SHADER",
	VertexShader:           "VERTEX_SHADER",
	CompileStatus:          "COMPILE_STATUS",
	LinkStatus:             "LINK_STATUS",
	ValidateStatus:         "VALIDATE_STATUS",
	InfoLogLength:          "INFO_LOG_LENGTH",
	Vendor:                 "VENDOR",
	Renderer:               "RENDERER",
	Version:                "VERSION",
	ShadingLanguageVersion: "SHADING_LANGUAGE_VERSION",
}

func (e Enum) String() string {
	if name, ok := enumNames[e]; ok {
		return name
	}
	return fmt.Sprintf("0x%04X", uint32(e))
}

// OpenGL describes the GL ES 2.0 entry points used by the renderer.
// Object names are plain uint32 values, 0 meaning "no object".
// Locations are int32 values, -1 meaning "not found".
type OpenGL interface {
	// State
	ClearColor(r, g, b, a float32)
	Clear(mask Enum)
	Enable(capability Enum)
	BlendFunc(sfactor, dfactor Enum)
	Viewport(x, y, width, height int32)
	GetError() Enum
	GetString(name Enum) string

	// Textures
	GenTexture() uint32
	DeleteTexture(texture uint32)
	ActiveTexture(unit Enum)
	BindTexture(target Enum, texture uint32)
	TexParameteri(target, pname Enum, param int32)
	TexImage2D(target Enum, level, width, height int32, format, ty Enum, pixels []byte)

	// Buffers
	GenBuffer() uint32
	DeleteBuffer(buffer uint32)
	BindBuffer(target Enum, buffer uint32)
	BufferData(target Enum, data []byte, usage Enum)

	// Shaders and programs
	CreateShader(ty Enum) uint32
	ShaderSource(shader uint32, source string)
	CompileShader(shader uint32)
	GetShaderi(shader uint32, pname Enum) int32
	GetShaderInfoLog(shader uint32) string
	DeleteShader(shader uint32)
	CreateProgram() uint32
	AttachShader(program, shader uint32)
	LinkProgram(program uint32)
	ValidateProgram(program uint32)
	GetProgrami(program uint32, pname Enum) int32
	GetProgramInfoLog(program uint32) string
	DeleteProgram(program uint32)
	UseProgram(program uint32)

	// Uniforms and attributes
	GetUniformLocation(program uint32, name string) int32
	GetAttribLocation(program uint32, name string) int32
	Uniform1i(location, v int32)
	UniformMatrix4fv(location int32, m [16]float32)
	VertexAttribPointer(index uint32, size int32, ty Enum, normalized bool, stride, offset int32)
	EnableVertexAttribArray(index uint32)

	// Drawing
	DrawArrays(mode Enum, first, count int32)
}
