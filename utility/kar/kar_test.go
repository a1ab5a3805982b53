// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package kar_test

import (
	"bytes"
	"encoding/binary"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
	"golang.org/x/exp/mmap"

	"github.com/devblok/tile2d/utility/kar"
)

var (
	testString1 = "idunvovkjnreovmegihjbrqlkmfrjnb"
	testString2 = "idunvovkjnreovmsdvwrvnervnreegihjbrqlkmfrjnb"
)

func buildArchive(c *qt.C) []byte {
	builder, err := kar.NewBuilder(kar.Header{
		Author:      "devblok",
		DateCreated: time.Now().Unix(),
		Version:     1,
	})
	c.Assert(err, qt.IsNil)
	defer builder.Close()

	c.Assert(builder.Add("test", strings.NewReader(testString1)), qt.IsNil)
	c.Assert(builder.Add("test2", strings.NewReader(testString2)), qt.IsNil)

	buf := bytes.NewBuffer([]byte{})
	written, err := builder.WriteTo(buf)
	c.Assert(err, qt.IsNil)
	c.Assert(written, qt.Equals, int64(buf.Len()))
	return buf.Bytes()
}

func TestCreateAndRead(t *testing.T) {
	c := qt.New(t)
	ar, err := kar.Open(bytes.NewReader(buildArchive(c)))
	c.Assert(err, qt.IsNil)
	c.Assert(ar.Names(), qt.DeepEquals, []string{"test", "test2"})
	c.Assert(ar.Header().Author, qt.Equals, "devblok")

	f, err := ar.Open("test2")
	c.Assert(err, qt.IsNil)
	c.Assert(f.Size(), qt.Equals, int64(len(testString2)))

	result, err := io.ReadAll(f)
	c.Assert(err, qt.IsNil)
	c.Assert(string(result), qt.Equals, testString2)
}

func TestCreateAndReadAll(t *testing.T) {
	c := qt.New(t)
	ar, err := kar.Open(bytes.NewReader(buildArchive(c)))
	c.Assert(err, qt.IsNil)

	data, err := ar.ReadAll("test")
	c.Assert(err, qt.IsNil)
	c.Assert(string(data), qt.Equals, testString1)

	_, err = ar.ReadAll("missing")
	c.Assert(err, qt.Equals, kar.ErrNotFound)
}

func TestOpenmmap(t *testing.T) {
	c := qt.New(t)
	path := filepath.Join(t.TempDir(), "opentest.kar")
	c.Assert(os.WriteFile(path, buildArchive(c), 0o644), qt.IsNil)

	r, err := mmap.Open(path)
	c.Assert(err, qt.IsNil)
	defer r.Close()

	ar, err := kar.Open(r)
	c.Assert(err, qt.IsNil)

	data, err := ar.ReadAll("test2")
	c.Assert(err, qt.IsNil)
	c.Assert(string(data), qt.Equals, testString2)
}

func TestOpenRejectsForeignData(t *testing.T) {
	c := qt.New(t)

	_, err := kar.Open(bytes.NewReader([]byte("PK\x03\x04 definitely a zip file")))
	c.Assert(err, qt.Equals, kar.ErrFileFormat)

	_, err = kar.Open(bytes.NewReader([]byte("KA")))
	c.Assert(err, qt.Equals, kar.ErrFileFormat)

	for _, size := range []int64{1 << 50, 1 << 20, -5} {
		_, err = kar.Open(bytes.NewReader(headerOfSize(size)))
		c.Assert(err, qt.Equals, kar.ErrFileFormat, qt.Commentf("header size %d", size))
	}
}

func TestOpenRejectsOversizedHeaderMmap(t *testing.T) {
	c := qt.New(t)
	path := filepath.Join(t.TempDir(), "corrupt.kar")
	c.Assert(os.WriteFile(path, headerOfSize(1<<50), 0o644), qt.IsNil)

	r, err := mmap.Open(path)
	c.Assert(err, qt.IsNil)
	defer r.Close()

	_, err = kar.Open(r)
	c.Assert(err, qt.Equals, kar.ErrFileFormat)
}

type sizelessReader struct {
	data []byte
}

func (r sizelessReader) ReadAt(p []byte, off int64) (int, error) {
	return bytes.NewReader(r.data).ReadAt(p, off)
}

func TestOpenCapsHeaderOfSizelessReader(t *testing.T) {
	c := qt.New(t)
	_, err := kar.Open(sizelessReader{headerOfSize(kar.MaxHeaderSize + 1)})
	c.Assert(err, qt.Equals, kar.ErrFileFormat)

	ar, err := kar.Open(sizelessReader{buildArchive(c)})
	c.Assert(err, qt.IsNil)
	c.Assert(ar.Names(), qt.DeepEquals, []string{"test", "test2"})
}

// headerOfSize is a kar preamble claiming a header of the given size
// followed by a few bytes of garbage.
func headerOfSize(size int64) []byte {
	sizeField := make([]byte, kar.HeaderSizeNumberLength)
	binary.PutVarint(sizeField, size)
	data := append([]byte("KAR\x00"), sizeField...)
	return append(data, "not a gob header"...)
}
