// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package asset

import (
	"bytes"
	"errors"
	"io"
	"io/ioutil"
	"sort"

	"github.com/gobuffalo/packr"
	pkgerrors "github.com/pkg/errors"
	"golang.org/x/exp/mmap"

	"github.com/devblok/tile2d/utility/kar"
)

// ErrNotFound is returned when a source has no resource with the given id.
var ErrNotFound = errors.New("resource not found")

// Source resolves resource identifiers to encoded image data.
type Source interface {

	// Open returns the encoded bytes of a resource.
	Open(resourceID string) (io.ReadCloser, error)
}

// BoxSource serves resources from a packr box, which is either the
// directory on disk during development or the data packed into the binary.
type BoxSource struct {
	Box packr.Box
}

// Open implements Source.
func (s BoxSource) Open(resourceID string) (io.ReadCloser, error) {
	if !s.Box.Has(resourceID) {
		return nil, ErrNotFound
	}
	data, err := s.Box.Find(resourceID)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "packr: %s", resourceID)
	}
	return ioutil.NopCloser(bytes.NewReader(data)), nil
}

// List returns the resource ids held by the box.
func (s BoxSource) List() []string {
	return s.Box.List()
}

// ArchiveSource serves resources out of a kar archive.
type ArchiveSource struct {
	archive *kar.Archive
	closer  io.Closer
}

// NewArchiveSource wraps an already open archive.
func NewArchiveSource(archive *kar.Archive) *ArchiveSource {
	return &ArchiveSource{archive: archive}
}

// OpenArchiveSource memory maps the archive at path.
func OpenArchiveSource(path string) (*ArchiveSource, error) {
	r, err := mmap.Open(path)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "mmap %s", path)
	}
	archive, err := kar.Open(r)
	if err != nil {
		r.Close()
		return nil, pkgerrors.Wrapf(err, "kar %s", path)
	}
	return &ArchiveSource{archive: archive, closer: r}, nil
}

// Open implements Source.
func (s *ArchiveSource) Open(resourceID string) (io.ReadCloser, error) {
	f, err := s.archive.Open(resourceID)
	if err == kar.ErrNotFound {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, err
	}
	return ioutil.NopCloser(f), nil
}

// List returns the resource ids held by the archive.
func (s *ArchiveSource) List() []string {
	return s.archive.Names()
}

// Close unmaps the archive.
func (s *ArchiveSource) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

// MapSource serves resources from memory.
type MapSource map[string][]byte

// Open implements Source.
func (s MapSource) Open(resourceID string) (io.ReadCloser, error) {
	data, ok := s[resourceID]
	if !ok {
		return nil, ErrNotFound
	}
	return ioutil.NopCloser(bytes.NewReader(data)), nil
}

// List returns the resource ids in sorted order.
func (s MapSource) List() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
