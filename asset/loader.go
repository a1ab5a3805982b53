// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package asset

import (
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Load opens and decodes a resource.
func Load(src Source, resourceID string) (*Bitmap, error) {
	if src == nil {
		return nil, errors.New("no asset source")
	}
	r, err := src.Open(resourceID)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", resourceID)
	}
	defer r.Close()

	bitmap, err := Decode(r)
	if err != nil {
		return nil, errors.Wrapf(err, "decode %s", resourceID)
	}
	return bitmap, nil
}

// LoadBitmap returns the decoded bitmap of a resource at its native
// size, or nil when it could not be decoded. Failures are logged.
func LoadBitmap(src Source, resourceID string) *Bitmap {
	bitmap, err := Load(src, resourceID)
	if err != nil {
		log.WithFields(log.Fields{
			"component": "asset",
			"resource":  resourceID,
		}).WithError(err).Warn("resource could not be decoded")
		return nil
	}
	log.WithFields(log.Fields{
		"component": "asset",
		"resource":  resourceID,
		"width":     bitmap.Width,
		"height":    bitmap.Height,
	}).Debug("resource decoded")
	return bitmap
}
