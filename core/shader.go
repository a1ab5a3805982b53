// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	"fmt"

	glm "github.com/go-gl/mathgl/mgl32"
	log "github.com/sirupsen/logrus"

	"github.com/devblok/tile2d/gfx"
	"github.com/devblok/tile2d/gfx/gl"
)

// Names shared between the shader sources and the location lookups.
const (
	UniformMVPMatrix            = "u_MVPMatrix"
	UniformTextureUnit          = "u_TextureUnit"
	AttributePosition           = "a_Position"
	AttributeTextureCoordinates = "a_TextureCoordinates"
	VaryingTextureCoordinates   = "v_TextureCoordinates"
)

const vertexShaderSource = `uniform mat4 u_MVPMatrix;
attribute vec4 a_Position;
attribute vec2 a_TextureCoordinates;
varying vec2 v_TextureCoordinates;

void main() {
	v_TextureCoordinates = a_TextureCoordinates;
	gl_Position = u_MVPMatrix * a_Position;
}
`

// The texture's own alpha is dropped on purpose, every fragment of a
// tile gets the program's constant alpha.
const fragmentShaderTemplate = `precision mediump float;
uniform sampler2D u_TextureUnit;
varying vec2 v_TextureCoordinates;

void main() {
	vec4 color = texture2D(u_TextureUnit, v_TextureCoordinates);
	gl_FragColor = vec4(color.r, color.g, color.b, %s);
}
`

// VertexShaderSource is the GLSL ES 1.00 vertex stage of every program.
func VertexShaderSource() string {
	return vertexShaderSource
}

// FragmentShaderSource is the GLSL ES 1.00 fragment stage with alpha
// baked in as a literal.
func FragmentShaderSource(alpha float32) string {
	return fmt.Sprintf(fragmentShaderTemplate, glslFloat(alpha))
}

// ShaderProgram is a linked program drawing textured quads at a
// constant alpha. A failed build leaves program 0 and every location
// at -1, which makes it a harmless no-op in the draw path.
type ShaderProgram struct {
	gl      gl.OpenGL
	program uint32
	alpha   float32

	uMVPMatrix          int32
	uTextureUnit        int32
	aPosition           int32
	aTextureCoordinates int32
}

// NewShaderProgram compiles and links both stages. Alpha outside [0, 1]
// is clamped with a warning. Failures are logged, never returned.
func NewShaderProgram(ctx gl.OpenGL, alpha float32) *ShaderProgram {
	logger := log.WithField("component", "shader")
	if clamped, changed := clampUnit(alpha); changed {
		logger.WithField("alpha", alpha).Warnf("alpha out of range, using %v", clamped)
		alpha = clamped
	}

	p := &ShaderProgram{
		gl:                  ctx,
		alpha:               alpha,
		uMVPMatrix:          -1,
		uTextureUnit:        -1,
		aPosition:           -1,
		aTextureCoordinates: -1,
	}

	vertex := compileShader(ctx, VertexShaderType, VertexShaderSource())
	fragment := compileShader(ctx, FragmentShaderType, FragmentShaderSource(alpha))
	p.program = linkProgram(ctx, vertex, fragment)
	if p.program == gfx.InvalidHandle {
		return p
	}

	validateProgram(ctx, p.program)

	p.uMVPMatrix = ctx.GetUniformLocation(p.program, UniformMVPMatrix)
	p.uTextureUnit = ctx.GetUniformLocation(p.program, UniformTextureUnit)
	p.aPosition = ctx.GetAttribLocation(p.program, AttributePosition)
	p.aTextureCoordinates = ctx.GetAttribLocation(p.program, AttributeTextureCoordinates)

	for name, loc := range map[string]int32{
		UniformMVPMatrix:            p.uMVPMatrix,
		UniformTextureUnit:          p.uTextureUnit,
		AttributePosition:           p.aPosition,
		AttributeTextureCoordinates: p.aTextureCoordinates,
	} {
		if loc < 0 {
			logger.WithFields(log.Fields{
				"program":  p.program,
				"variable": name,
			}).Warn("variable not found in linked program")
		}
	}

	logger.WithFields(log.Fields{
		"program": p.program,
		"alpha":   alpha,
	}).Debug("shader program ready")
	return p
}

// compileShader returns the shader object or 0 if it did not compile.
func compileShader(ctx gl.OpenGL, shaderType ShaderType, source string) uint32 {
	logger := log.WithFields(log.Fields{
		"component": "shader",
		"stage":     shaderType,
	})

	shader := ctx.CreateShader(shaderType.enum())
	if shader == gfx.InvalidHandle {
		logger.Warn("could not create new shader")
		return gfx.InvalidHandle
	}

	ctx.ShaderSource(shader, source)
	ctx.CompileShader(shader)
	if ctx.GetShaderi(shader, gl.CompileStatus) == 0 {
		logger.WithField("log", ctx.GetShaderInfoLog(shader)).Warn("compilation of shader failed")
		ctx.DeleteShader(shader)
		return gfx.InvalidHandle
	}
	return shader
}

// linkProgram attaches both shaders and links them. The shaders are
// deleted in every case, a linked program keeps its own reference.
func linkProgram(ctx gl.OpenGL, vertex, fragment uint32) uint32 {
	logger := log.WithField("component", "shader")

	deleteShaders := func() {
		for _, shader := range []uint32{vertex, fragment} {
			if shader != gfx.InvalidHandle {
				ctx.DeleteShader(shader)
			}
		}
	}
	defer deleteShaders()

	if vertex == gfx.InvalidHandle || fragment == gfx.InvalidHandle {
		logger.Warn("skipping link, a shader stage is missing")
		return gfx.InvalidHandle
	}

	program := ctx.CreateProgram()
	if program == gfx.InvalidHandle {
		logger.Warn("could not create new program")
		return gfx.InvalidHandle
	}

	ctx.AttachShader(program, vertex)
	ctx.AttachShader(program, fragment)
	ctx.LinkProgram(program)
	if ctx.GetProgrami(program, gl.LinkStatus) == 0 {
		logger.WithField("log", ctx.GetProgramInfoLog(program)).Warn("linking of program failed")
		ctx.DeleteProgram(program)
		return gfx.InvalidHandle
	}
	return program
}

// validateProgram is advisory, the result depends on current GL state
// and is only logged.
func validateProgram(ctx gl.OpenGL, program uint32) bool {
	ctx.ValidateProgram(program)
	status := ctx.GetProgrami(program, gl.ValidateStatus)
	log.WithFields(log.Fields{
		"component": "shader",
		"program":   program,
		"status":    status,
		"log":       ctx.GetProgramInfoLog(program),
	}).Debug("program validated")
	return status != 0
}

// Use makes the program current. A failed program binds 0.
func (p *ShaderProgram) Use() {
	p.gl.UseProgram(p.program)
}

// SetMVPMatrix uploads m to the matrix uniform of the current program.
// Call Use first.
func (p *ShaderProgram) SetMVPMatrix(m glm.Mat4) {
	if p.uMVPMatrix < 0 {
		return
	}
	p.gl.UniformMatrix4fv(p.uMVPMatrix, [16]float32(m))
}

// Program is the GL program name, 0 if the build failed.
func (p *ShaderProgram) Program() uint32 {
	if p == nil {
		return gfx.InvalidHandle
	}
	return p.program
}

// Valid reports whether the program linked.
func (p *ShaderProgram) Valid() bool {
	return p.Program() != gfx.InvalidHandle
}

// Alpha is the constant baked into the fragment stage.
func (p *ShaderProgram) Alpha() float32 { return p.alpha }

// UMVPMatrix is the location of u_MVPMatrix or -1.
func (p *ShaderProgram) UMVPMatrix() int32 { return p.uMVPMatrix }

// UTextureUnit is the location of u_TextureUnit or -1.
func (p *ShaderProgram) UTextureUnit() int32 { return p.uTextureUnit }

// APosition is the location of a_Position or -1.
func (p *ShaderProgram) APosition() int32 { return p.aPosition }

// ATextureCoordinates is the location of a_TextureCoordinates or -1.
func (p *ShaderProgram) ATextureCoordinates() int32 { return p.aTextureCoordinates }

// Destroy implements gfx.Destroyable
func (p *ShaderProgram) Destroy() {
	if !p.Valid() {
		return
	}
	p.gl.DeleteProgram(p.program)
	p.forget()
}

func (p *ShaderProgram) forget() {
	if p == nil {
		return
	}
	p.program = gfx.InvalidHandle
	p.uMVPMatrix, p.uTextureUnit = -1, -1
	p.aPosition, p.aTextureCoordinates = -1, -1
}
