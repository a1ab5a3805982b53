// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package gltest provides a recording OpenGL implementation for tests.
// It keeps enough object state (shaders, programs, textures, buffers,
// blend function) to answer queries the way a driver would, and logs
// every call in submission order.
package gltest

import (
	"fmt"
	"strings"

	"github.com/devblok/tile2d/gfx/gl"
)

// Call is a single recorded GL invocation.
type Call struct {
	Name string
	Args []interface{}
}

func (c Call) String() string {
	args := make([]string, len(c.Args))
	for idx, arg := range c.Args {
		args[idx] = fmt.Sprint(arg)
	}
	return fmt.Sprintf("%s(%s)", c.Name, strings.Join(args, ", "))
}

type shader struct {
	ty       gl.Enum
	source   string
	compiled bool
}

type program struct {
	shaders   []uint32
	sources   []string
	linked    bool
	validated bool
	uniforms  map[string]int32
	attribs   map[string]int32
	matrices  map[int32][16]float32
	ints      map[int32]int32
}

type texture struct {
	width, height int32
	params        map[gl.Enum]int32
	pixels        []byte
}

// Recorder is a fake gl.OpenGL. The zero value is not usable, create
// one with New. Failure switches may be flipped at any time and affect
// subsequent calls only.
type Recorder struct {
	// FailCreateShader makes CreateShader return 0.
	FailCreateShader bool
	// FailCompile makes every shader report COMPILE_STATUS 0.
	FailCompile bool
	// FailLink makes every program report LINK_STATUS 0.
	FailLink bool
	// FailValidate makes every program report VALIDATE_STATUS 0.
	FailValidate bool
	// FailGenTexture makes GenTexture return 0.
	FailGenTexture bool

	calls    []Call
	lastName uint32

	shaders  map[uint32]*shader
	programs map[uint32]*program
	textures map[uint32]*texture
	buffers  map[uint32][]byte

	currentProgram uint32
	boundTexture   uint32
	boundBuffer    uint32
	activeUnit     gl.Enum

	blendEnabled     bool
	sfactor, dfactor gl.Enum
	clearColor       [4]float32
	viewport         [4]int32
}

// New returns an empty Recorder with GL's initial state.
func New() *Recorder {
	return &Recorder{
		shaders:    make(map[uint32]*shader),
		programs:   make(map[uint32]*program),
		textures:   make(map[uint32]*texture),
		buffers:    make(map[uint32][]byte),
		activeUnit: gl.Texture0,
		sfactor:    gl.One,
		dfactor:    gl.Zero,
	}
}

var _ gl.OpenGL = (*Recorder)(nil)

func (r *Recorder) record(name string, args ...interface{}) {
	r.calls = append(r.calls, Call{Name: name, Args: args})
}

func (r *Recorder) genName() uint32 {
	r.lastName++
	return r.lastName
}

// Calls returns a copy of the command log.
func (r *Recorder) Calls() []Call {
	calls := make([]Call, len(r.calls))
	copy(calls, r.calls)
	return calls
}

// Names returns the command log as call names only.
func (r *Recorder) Names() []string {
	names := make([]string, len(r.calls))
	for idx, c := range r.calls {
		names[idx] = c.Name
	}
	return names
}

// Count returns how many times the named call was issued.
func (r *Recorder) Count(name string) int {
	var count int
	for _, c := range r.calls {
		if c.Name == name {
			count++
		}
	}
	return count
}

// Reset clears the command log while keeping object state.
func (r *Recorder) Reset() {
	r.calls = r.calls[:0]
}

// CurrentProgram returns the program last passed to UseProgram.
func (r *Recorder) CurrentProgram() uint32 {
	return r.currentProgram
}

// ShaderSourceOf returns the source uploaded to a live shader.
func (r *Recorder) ShaderSourceOf(name uint32) (string, bool) {
	s, ok := r.shaders[name]
	if !ok {
		return "", false
	}
	return s.source, true
}

// ProgramMatrix returns the mat4 uniform uploaded at location for program.
func (r *Recorder) ProgramMatrix(name uint32, location int32) ([16]float32, bool) {
	p, ok := r.programs[name]
	if !ok {
		return [16]float32{}, false
	}
	m, ok := p.matrices[location]
	return m, ok
}

// ProgramInt returns the int uniform uploaded at location for program.
func (r *Recorder) ProgramInt(name uint32, location int32) (int32, bool) {
	p, ok := r.programs[name]
	if !ok {
		return 0, false
	}
	v, ok := p.ints[location]
	return v, ok
}

// TextureSize reports level 0 dimensions of a live texture, the way
// glGetTexLevelParameteriv would on desktop GL.
func (r *Recorder) TextureSize(name uint32) (width, height int32, ok bool) {
	t, ok := r.textures[name]
	if !ok {
		return 0, 0, false
	}
	return t.width, t.height, true
}

// TextureParameter returns a parameter set with TexParameteri.
func (r *Recorder) TextureParameter(name uint32, pname gl.Enum) (int32, bool) {
	t, ok := r.textures[name]
	if !ok {
		return 0, false
	}
	v, ok := t.params[pname]
	return v, ok
}

// TexturePixels returns the level 0 pixels uploaded to a live texture.
func (r *Recorder) TexturePixels(name uint32) []byte {
	if t, ok := r.textures[name]; ok {
		return t.pixels
	}
	return nil
}

// BufferContents returns the data store of a live buffer.
func (r *Recorder) BufferContents(name uint32) ([]byte, bool) {
	data, ok := r.buffers[name]
	return data, ok
}

// Live returns the number of live shaders, programs, textures and buffers.
func (r *Recorder) Live() (shaders, programs, textures, buffers int) {
	return len(r.shaders), len(r.programs), len(r.textures), len(r.buffers)
}

// BlendState reports whether blending is enabled and the factors set.
func (r *Recorder) BlendState() (enabled bool, sfactor, dfactor gl.Enum) {
	return r.blendEnabled, r.sfactor, r.dfactor
}

// ClearColorValue returns the color set with ClearColor.
func (r *Recorder) ClearColorValue() [4]float32 {
	return r.clearColor
}

// ViewportValue returns the rectangle set with Viewport.
func (r *Recorder) ViewportValue() [4]int32 {
	return r.viewport
}

// Composite evaluates the configured blend equation (FUNC_ADD) for a
// source fragment written over a destination pixel, all channels in [0,1].
func (r *Recorder) Composite(dst, src [4]float32) [4]float32 {
	if !r.blendEnabled {
		return src
	}
	sf := blendFactor(r.sfactor, src)
	df := blendFactor(r.dfactor, src)
	var out [4]float32
	for idx := range out {
		v := src[idx]*sf + dst[idx]*df
		if v > 1 {
			v = 1
		}
		out[idx] = v
	}
	return out
}

func blendFactor(factor gl.Enum, src [4]float32) float32 {
	switch factor {
	case gl.Zero:
		return 0
	case gl.One:
		return 1
	case gl.SrcAlpha:
		return src[3]
	case gl.OneMinusSrcAlpha:
		return 1 - src[3]
	}
	panic(fmt.Sprintf("gltest: unsupported blend factor %s", factor))
}

// ClearColor implements gl.OpenGL.
func (r *Recorder) ClearColor(red, green, blue, alpha float32) {
	r.record("ClearColor", red, green, blue, alpha)
	r.clearColor = [4]float32{red, green, blue, alpha}
}

// Clear implements gl.OpenGL.
func (r *Recorder) Clear(mask gl.Enum) {
	r.record("Clear", mask)
}

// Enable implements gl.OpenGL.
func (r *Recorder) Enable(capability gl.Enum) {
	r.record("Enable", capability)
	if capability == gl.Blend {
		r.blendEnabled = true
	}
}

// BlendFunc implements gl.OpenGL.
func (r *Recorder) BlendFunc(sfactor, dfactor gl.Enum) {
	r.record("BlendFunc", sfactor, dfactor)
	r.sfactor, r.dfactor = sfactor, dfactor
}

// Viewport implements gl.OpenGL.
func (r *Recorder) Viewport(x, y, width, height int32) {
	r.record("Viewport", x, y, width, height)
	r.viewport = [4]int32{x, y, width, height}
}

// GetError implements gl.OpenGL.
func (r *Recorder) GetError() gl.Enum {
	r.record("GetError")
	return gl.NoError
}

// GetString implements gl.OpenGL.
func (r *Recorder) GetString(name gl.Enum) string {
	r.record("GetString", name)
	switch name {
	case gl.Version:
		return "OpenGL ES 2.0 gltest"
	case gl.ShadingLanguageVersion:
		return "OpenGL ES GLSL ES 1.00"
	case gl.Renderer:
		return "gltest.Recorder"
	case gl.Vendor:
		return "devblok"
	}
	return ""
}

// GenTexture implements gl.OpenGL.
func (r *Recorder) GenTexture() uint32 {
	var name uint32
	if !r.FailGenTexture {
		name = r.genName()
		r.textures[name] = &texture{params: make(map[gl.Enum]int32)}
	}
	r.record("GenTexture", name)
	return name
}

// DeleteTexture implements gl.OpenGL.
func (r *Recorder) DeleteTexture(name uint32) {
	r.record("DeleteTexture", name)
	delete(r.textures, name)
	if r.boundTexture == name {
		r.boundTexture = 0
	}
}

// ActiveTexture implements gl.OpenGL.
func (r *Recorder) ActiveTexture(unit gl.Enum) {
	r.record("ActiveTexture", unit)
	r.activeUnit = unit
}

// BindTexture implements gl.OpenGL.
func (r *Recorder) BindTexture(target gl.Enum, name uint32) {
	r.record("BindTexture", target, name)
	r.boundTexture = name
}

// TexParameteri implements gl.OpenGL.
func (r *Recorder) TexParameteri(target, pname gl.Enum, param int32) {
	r.record("TexParameteri", target, pname, param)
	if t, ok := r.textures[r.boundTexture]; ok {
		t.params[pname] = param
	}
}

// TexImage2D implements gl.OpenGL.
func (r *Recorder) TexImage2D(target gl.Enum, level, width, height int32, format, ty gl.Enum, pixels []byte) {
	r.record("TexImage2D", target, level, width, height, format, ty)
	if t, ok := r.textures[r.boundTexture]; ok && level == 0 {
		t.width, t.height = width, height
		t.pixels = append([]byte(nil), pixels...)
	}
}

// GenBuffer implements gl.OpenGL.
func (r *Recorder) GenBuffer() uint32 {
	name := r.genName()
	r.buffers[name] = nil
	r.record("GenBuffer", name)
	return name
}

// DeleteBuffer implements gl.OpenGL.
func (r *Recorder) DeleteBuffer(name uint32) {
	r.record("DeleteBuffer", name)
	delete(r.buffers, name)
	if r.boundBuffer == name {
		r.boundBuffer = 0
	}
}

// BindBuffer implements gl.OpenGL.
func (r *Recorder) BindBuffer(target gl.Enum, name uint32) {
	r.record("BindBuffer", target, name)
	r.boundBuffer = name
}

// BufferData implements gl.OpenGL.
func (r *Recorder) BufferData(target gl.Enum, data []byte, usage gl.Enum) {
	r.record("BufferData", target, len(data), usage)
	if _, ok := r.buffers[r.boundBuffer]; ok && r.boundBuffer != 0 {
		r.buffers[r.boundBuffer] = append([]byte(nil), data...)
	}
}

// CreateShader implements gl.OpenGL.
func (r *Recorder) CreateShader(ty gl.Enum) uint32 {
	var name uint32
	if !r.FailCreateShader {
		name = r.genName()
		r.shaders[name] = &shader{ty: ty}
	}
	r.record("CreateShader", ty, name)
	return name
}

// ShaderSource implements gl.OpenGL.
func (r *Recorder) ShaderSource(name uint32, source string) {
	r.record("ShaderSource", name)
	if s, ok := r.shaders[name]; ok {
		s.source = source
	}
}

// CompileShader implements gl.OpenGL.
func (r *Recorder) CompileShader(name uint32) {
	r.record("CompileShader", name)
	if s, ok := r.shaders[name]; ok {
		s.compiled = !r.FailCompile && strings.Contains(s.source, "void main()")
	}
}

// GetShaderi implements gl.OpenGL.
func (r *Recorder) GetShaderi(name uint32, pname gl.Enum) int32 {
	r.record("GetShaderi", name, pname)
	s, ok := r.shaders[name]
	if !ok {
		return 0
	}
	switch pname {
	case gl.CompileStatus:
		return boolToInt(s.compiled)
	case gl.InfoLogLength:
		return int32(len(r.shaderLog(s)))
	}
	return 0
}

func (r *Recorder) shaderLog(s *shader) string {
	if s.compiled {
		return ""
	}
	return "0:1: error: compilation failed"
}

// GetShaderInfoLog implements gl.OpenGL.
func (r *Recorder) GetShaderInfoLog(name uint32) string {
	r.record("GetShaderInfoLog", name)
	if s, ok := r.shaders[name]; ok {
		return r.shaderLog(s)
	}
	return ""
}

// DeleteShader implements gl.OpenGL.
func (r *Recorder) DeleteShader(name uint32) {
	r.record("DeleteShader", name)
	delete(r.shaders, name)
}

// CreateProgram implements gl.OpenGL.
func (r *Recorder) CreateProgram() uint32 {
	name := r.genName()
	r.programs[name] = &program{
		uniforms: make(map[string]int32),
		attribs:  make(map[string]int32),
		matrices: make(map[int32][16]float32),
		ints:     make(map[int32]int32),
	}
	r.record("CreateProgram", name)
	return name
}

// AttachShader implements gl.OpenGL.
func (r *Recorder) AttachShader(name, shaderName uint32) {
	r.record("AttachShader", name, shaderName)
	if p, ok := r.programs[name]; ok {
		p.shaders = append(p.shaders, shaderName)
	}
}

// LinkProgram implements gl.OpenGL.
func (r *Recorder) LinkProgram(name uint32) {
	r.record("LinkProgram", name)
	p, ok := r.programs[name]
	if !ok {
		return
	}
	var vertex, fragment bool
	p.sources = p.sources[:0]
	for _, sn := range p.shaders {
		s, ok := r.shaders[sn]
		if !ok || !s.compiled {
			p.linked = false
			return
		}
		vertex = vertex || s.ty == gl.VertexShader
		fragment = fragment || s.ty == gl.FragmentShader
		p.sources = append(p.sources, s.source)
	}
	p.linked = !r.FailLink && vertex && fragment
}

// ValidateProgram implements gl.OpenGL.
func (r *Recorder) ValidateProgram(name uint32) {
	r.record("ValidateProgram", name)
	if p, ok := r.programs[name]; ok {
		p.validated = p.linked && !r.FailValidate
	}
}

// GetProgrami implements gl.OpenGL.
func (r *Recorder) GetProgrami(name uint32, pname gl.Enum) int32 {
	r.record("GetProgrami", name, pname)
	p, ok := r.programs[name]
	if !ok {
		return 0
	}
	switch pname {
	case gl.LinkStatus:
		return boolToInt(p.linked)
	case gl.ValidateStatus:
		return boolToInt(p.validated)
	case gl.InfoLogLength:
		return int32(len(programLog(p)))
	}
	return 0
}

func programLog(p *program) string {
	if p.linked {
		return ""
	}
	return "error: program not linked"
}

// GetProgramInfoLog implements gl.OpenGL.
func (r *Recorder) GetProgramInfoLog(name uint32) string {
	r.record("GetProgramInfoLog", name)
	if p, ok := r.programs[name]; ok {
		return programLog(p)
	}
	return ""
}

// DeleteProgram implements gl.OpenGL.
func (r *Recorder) DeleteProgram(name uint32) {
	r.record("DeleteProgram", name)
	delete(r.programs, name)
	if r.currentProgram == name {
		r.currentProgram = 0
	}
}

// UseProgram implements gl.OpenGL.
func (r *Recorder) UseProgram(name uint32) {
	r.record("UseProgram", name)
	r.currentProgram = name
}

// declares reports whether a stage linked into p mentions the
// identifier. Sources are captured at link time, so the shader objects
// may already be deleted.
func (r *Recorder) declares(p *program, identifier string) bool {
	for _, source := range p.sources {
		if strings.Contains(source, identifier) {
			return true
		}
	}
	return false
}

func (r *Recorder) locate(p *program, table map[string]int32, identifier string) int32 {
	if !p.linked || !r.declares(p, identifier) {
		return -1
	}
	if loc, ok := table[identifier]; ok {
		return loc
	}
	loc := int32(len(table))
	table[identifier] = loc
	return loc
}

// GetUniformLocation implements gl.OpenGL.
func (r *Recorder) GetUniformLocation(name uint32, identifier string) int32 {
	r.record("GetUniformLocation", name, identifier)
	p, ok := r.programs[name]
	if !ok {
		return -1
	}
	return r.locate(p, p.uniforms, identifier)
}

// GetAttribLocation implements gl.OpenGL.
func (r *Recorder) GetAttribLocation(name uint32, identifier string) int32 {
	r.record("GetAttribLocation", name, identifier)
	p, ok := r.programs[name]
	if !ok {
		return -1
	}
	return r.locate(p, p.attribs, identifier)
}

// Uniform1i implements gl.OpenGL.
func (r *Recorder) Uniform1i(location, v int32) {
	r.record("Uniform1i", location, v)
	if p, ok := r.programs[r.currentProgram]; ok && location >= 0 {
		p.ints[location] = v
	}
}

// UniformMatrix4fv implements gl.OpenGL.
func (r *Recorder) UniformMatrix4fv(location int32, m [16]float32) {
	r.record("UniformMatrix4fv", location)
	if p, ok := r.programs[r.currentProgram]; ok && location >= 0 {
		p.matrices[location] = m
	}
}

// VertexAttribPointer implements gl.OpenGL.
func (r *Recorder) VertexAttribPointer(index uint32, size int32, ty gl.Enum, normalized bool, stride, offset int32) {
	r.record("VertexAttribPointer", index, size, ty, normalized, stride, offset)
}

// EnableVertexAttribArray implements gl.OpenGL.
func (r *Recorder) EnableVertexAttribArray(index uint32) {
	r.record("EnableVertexAttribArray", index)
}

// DrawArrays implements gl.OpenGL.
func (r *Recorder) DrawArrays(mode gl.Enum, first, count int32) {
	r.record("DrawArrays", mode, first, count)
}

func boolToInt(b bool) int32 {
	if b {
		return 1
	}
	return 0
}
