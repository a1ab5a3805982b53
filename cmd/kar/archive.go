// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/exp/mmap"

	"github.com/devblok/tile2d/utility/kar"
)

// compressFiles packs every regular file under src into dst. Entries
// are named by their slash separated path relative to src, which is
// how the renderer asks for them.
func compressFiles(src, dst string, header kar.Header) error {
	if _, err := os.Stat(dst); err == nil {
		return errors.New("destination file exists, will not overwrite")
	}

	var filesToCompress []string
	err := filepath.Walk(src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.Mode().IsRegular() {
			filesToCompress = append(filesToCompress, path)
		}
		return nil
	})
	if err != nil {
		return errors.Wrap(err, "walk")
	}

	karBuilder, err := kar.NewBuilder(header)
	if err != nil {
		return err
	}
	defer karBuilder.Close()

	bar := newBar(len(filesToCompress), "compressing")
	for _, ftc := range filesToCompress {
		name, err := entryName(src, ftc)
		if err != nil {
			return err
		}
		if err := addFile(karBuilder, name, ftc); err != nil {
			return err
		}
		bar.Add(1)
	}
	bar.Finish()

	f, err := os.Create(dst)
	if err != nil {
		return errors.Wrap(err, "create archive")
	}
	if _, err := karBuilder.WriteTo(f); err != nil {
		f.Close()
		return errors.Wrap(err, "write archive")
	}
	return f.Close()
}

func entryName(root, path string) (string, error) {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return "", errors.Wrap(err, "entry name")
	}
	if rel == "." {
		rel = filepath.Base(path)
	}
	return filepath.ToSlash(rel), nil
}

func addFile(b *kar.Builder, name, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrap(err, "open")
	}
	defer f.Close()
	return errors.Wrapf(b.Add(name, f), "add %s", name)
}

func openArchive(path string) (*kar.Archive, io.Closer, error) {
	r, err := mmap.Open(path)
	if err != nil {
		return nil, nil, errors.Wrap(err, "mmap")
	}
	archive, err := kar.Open(r)
	if err != nil {
		r.Close()
		return nil, nil, errors.Wrapf(err, "open %s", path)
	}
	return archive, r, nil
}

// listFiles prints the header and index of an archive.
func listFiles(path string, w io.Writer) error {
	archive, closer, err := openArchive(path)
	if err != nil {
		return err
	}
	defer closer.Close()

	header := archive.Header()
	fmt.Fprintf(w, "author: %s\nversion: %d\ncreated: %s\n\n",
		header.Author, header.Version, time.Unix(header.DateCreated, 0).UTC().Format(time.RFC3339))

	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "size\tcompressed\t")
	for _, e := range header.Index {
		fmt.Fprintf(tw, "%d\t%d\t  %s\n", e.Size, e.CompressedSize, e.Name)
	}
	return tw.Flush()
}

// extractFiles writes every file of an archive under dir.
func extractFiles(path, dir string) error {
	archive, closer, err := openArchive(path)
	if err != nil {
		return err
	}
	defer closer.Close()

	names := archive.Names()
	bar := newBar(len(names), "extracting")
	for _, name := range names {
		target, err := extractTarget(dir, name)
		if err != nil {
			return err
		}
		data, err := archive.ReadAll(name)
		if err != nil {
			return errors.Wrapf(err, "read %s", name)
		}
		if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return errors.Wrap(err, "mkdir")
		}
		if err := os.WriteFile(target, data, 0644); err != nil {
			return errors.Wrap(err, "write")
		}
		bar.Add(1)
	}
	return bar.Finish()
}

// extractTarget is the path an entry is written to under dir. Entries
// resolving to dir itself or outside it are refused.
func extractTarget(dir, name string) (string, error) {
	root := filepath.Clean(dir)
	target := filepath.Join(root, filepath.FromSlash(name))
	rel, err := filepath.Rel(root, target)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(os.PathSeparator)) {
		return "", errors.Errorf("entry %q escapes the destination", name)
	}
	return target, nil
}
