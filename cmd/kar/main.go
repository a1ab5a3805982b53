// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import (
	"flag"
	"os"
	"os/user"
	"time"

	"github.com/pkg/errors"
	"github.com/schollz/progressbar/v3"
	log "github.com/sirupsen/logrus"

	"github.com/devblok/tile2d/utility/kar"
)

var currentUserName = func() string {
	u, err := user.Current()
	if err != nil {
		return "unknown"
	}
	return u.Username
}()

var (
	author   = flag.String("author", currentUserName, "Set the author of the package when compressing")
	version  = flag.Int64("version", 1, "Archive version number to create it with")
	extract  = flag.String("e", "", "Extract the given archive into the -f directory")
	compress = flag.String("c", "", "Compress the given file/folder")
	list     = flag.String("l", "", "List the contents of the given archive")
	dstFile  = flag.String("f", "out.kar", "Destination file, or directory when extracting")
	silent   = flag.Bool("s", false, "Silent")
)

func main() {
	flag.Parse()

	var ops int
	for _, op := range []string{*extract, *compress, *list} {
		if op != "" {
			ops++
		}
	}
	if ops > 1 {
		log.Fatal(errors.New("only one operation at a time"))
	}

	var err error
	switch {
	case *compress != "":
		err = compressFiles(*compress, *dstFile, kar.Header{
			Author:      *author,
			DateCreated: time.Now().Unix(),
			Version:     *version,
		})
	case *extract != "":
		err = extractFiles(*extract, *dstFile)
	case *list != "":
		err = listFiles(*list, os.Stdout)
	default:
		flag.PrintDefaults()
	}
	if err != nil {
		log.WithError(err).Fatal("kar failed")
	}
}

func newBar(max int, description string) *progressbar.ProgressBar {
	if *silent {
		return progressbar.DefaultSilent(int64(max), description)
	}
	return progressbar.Default(int64(max), description)
}
