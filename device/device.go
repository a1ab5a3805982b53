// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package device describes the GL implementation behind a context.
package device

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/devblok/tile2d/gfx/gl"
)

// Info describes the rendering device as reported by the driver
type Info struct {
	Vendor                 string `json:"vendor"`
	Renderer               string `json:"renderer"`
	Version                string `json:"version"`
	ShadingLanguageVersion string `json:"shadingLanguageVersion"`
	ES                     bool   `json:"es"`
	Major                  int    `json:"major"`
	Minor                  int    `json:"minor"`
}

var versionPattern = regexp.MustCompile(`(\d+)\.(\d+)`)

// Query reads the implementation strings of the current context.
func Query(ctx gl.OpenGL) Info {
	info := Info{
		Vendor:                 ctx.GetString(gl.Vendor),
		Renderer:               ctx.GetString(gl.Renderer),
		Version:                ctx.GetString(gl.Version),
		ShadingLanguageVersion: ctx.GetString(gl.ShadingLanguageVersion),
	}
	info.ES, info.Major, info.Minor = ParseVersion(info.Version)
	return info
}

// ParseVersion splits a GL_VERSION string. Major is 0 when no version
// number is found.
func ParseVersion(version string) (es bool, major, minor int) {
	es = strings.HasPrefix(version, "OpenGL ES")
	if m := versionPattern.FindStringSubmatch(version); m != nil {
		major, _ = strconv.Atoi(m[1])
		minor, _ = strconv.Atoi(m[2])
	}
	return es, major, minor
}

// Suitable reports whether GLSL ES 1.00 shaders can be expected to
// compile: any OpenGL ES 2.0+ context, or a desktop 2.1+ context.
func (i Info) Suitable() (bool, string) {
	switch {
	case i.Major == 0:
		return false, "unrecognised version string " + strconv.Quote(i.Version)
	case i.ES && i.Major >= 2:
		return true, ""
	case !i.ES && (i.Major > 2 || i.Major == 2 && i.Minor >= 1):
		return true, ""
	}
	return false, "OpenGL ES 2.0 or OpenGL 2.1 required, got " + i.Version
}
