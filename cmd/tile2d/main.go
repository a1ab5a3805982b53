// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import (
	"flag"
	"os"
	"runtime"
	"runtime/pprof"
	"runtime/trace"

	"github.com/gobuffalo/packr"
	log "github.com/sirupsen/logrus"

	"github.com/devblok/tile2d/asset"
	"github.com/devblok/tile2d/core"
)

func init() {
	runtime.LockOSThread()
}

var (
	configFile = flag.String("config", "", "YAML configuration file")
	envFile    = flag.String("env", ".env", "Dotenv file with TILE2D_* overrides")
	archive    = flag.String("archive", "", "Read tiles from a kar archive instead of the embedded assets")
	printInfo  = flag.Bool("info", false, "Print the GL implementation as JSON and exit")
)

// Profiling
var (
	cpuProfile   = flag.String("cpuprof", "", "Profile CPU usage to file")
	memProfile   = flag.String("memprof", "", "Profile memory usage into a file")
	traceProfile = flag.String("trace", "", "Trace output for profiling")
)

// StaticResources are the tiles shipped with the binary.
var StaticResources = packr.NewBox("../../assets")

func main() {
	flag.Parse()

	configuration, err := loadConfiguration(*configFile, *envFile)
	if err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}
	if err := setupLogging(configuration.Log); err != nil {
		log.WithError(err).Fatal("invalid logging configuration")
	}
	if *archive != "" {
		configuration.Assets.Archive = *archive
	}

	if *cpuProfile != "" {
		f, err := os.Create(*cpuProfile)
		if err != nil {
			log.Fatal(err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal(err)
		}
		defer pprof.StopCPUProfile()
	}

	if *traceProfile != "" {
		f, err := os.Create(*traceProfile)
		if err != nil {
			log.Fatal(err)
		}
		if err := trace.Start(f); err != nil {
			log.Fatal(err)
		}
		defer trace.Stop()
	}

	source, closeSource, err := openSource(configuration.Assets)
	if err != nil {
		log.WithError(err).Fatal("could not open tile source")
	}
	defer closeSource()

	if err := run(configuration, source); err != nil {
		log.WithError(err).Error("renderer stopped")
	}

	if *memProfile != "" {
		f, err := os.Create(*memProfile)
		if err != nil {
			log.Fatal(err)
		}
		if err := pprof.WriteHeapProfile(f); err != nil {
			log.Fatal(err)
		}
	}
}

func openSource(cfg core.AssetsConfiguration) (asset.Source, func(), error) {
	if cfg.Archive == "" {
		return asset.BoxSource{Box: StaticResources}, func() {}, nil
	}
	src, err := asset.OpenArchiveSource(cfg.Archive)
	if err != nil {
		return nil, nil, err
	}
	log.WithFields(log.Fields{
		"archive":   cfg.Archive,
		"resources": len(src.List()),
	}).Info("reading tiles from archive")
	return src, func() { src.Close() }, nil
}
