// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package gfx defines rendering related features that renderers must implement.
package gfx

// Releasable defines any memory-occupying item that can be freed.
type Releasable interface {

	// Release releases memory occupied by the implementing structure.
	Release()
}

// Destroyable is a GPU object that must be explicitly deleted
// while the context that created it is still current.
type Destroyable interface {

	// Destroy deletes the underlying GPU object. The object is
	// invalid afterwards.
	Destroy()
}

// InvalidHandle is the name GL uses for "no object".
const InvalidHandle uint32 = 0
