// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import (
	"os"
	"strconv"

	"github.com/gobuffalo/envy"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/devblok/tile2d/core"
)

// Environment overrides, applied after the configuration file.
const (
	envWidth        = "TILE2D_WIDTH"
	envHeight       = "TILE2D_HEIGHT"
	envFPS          = "TILE2D_FPS"
	envBase         = "TILE2D_BASE"
	envOverlay      = "TILE2D_OVERLAY"
	envBaseAlpha    = "TILE2D_BASE_ALPHA"
	envOverlayAlpha = "TILE2D_OVERLAY_ALPHA"
	envLeft         = "TILE2D_LEFT"
	envTop          = "TILE2D_TOP"
	envArchive      = "TILE2D_ARCHIVE"
	envLogLevel     = "TILE2D_LOG_LEVEL"
	envLogFormat    = "TILE2D_LOG_FORMAT"
)

// loadConfiguration layers defaults, the YAML file at path, the dotenv
// file and the process environment, later ones winning. Missing files
// are skipped when they were not asked for explicitly.
func loadConfiguration(path, dotenv string) (core.Configuration, error) {
	cfg := core.DefaultConfiguration()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, errors.Wrap(err, "read configuration")
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, errors.Wrapf(err, "parse %s", path)
		}
	}

	if dotenv != "" {
		if err := godotenv.Load(dotenv); err != nil && !os.IsNotExist(err) {
			return cfg, errors.Wrapf(err, "load %s", dotenv)
		}
	}
	envy.Reload()

	if err := applyEnvironment(&cfg); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func applyEnvironment(cfg *core.Configuration) error {
	r := &cfg.Renderer
	setString(envBase, &r.BaseResource)
	setString(envOverlay, &r.OverlayResource)
	setString(envArchive, &cfg.Assets.Archive)
	setString(envLogLevel, &cfg.Log.Level)
	setString(envLogFormat, &cfg.Log.Format)

	for key, dst := range map[string]*uint32{
		envWidth:  &r.ScreenWidth,
		envHeight: &r.ScreenHeight,
	} {
		if v := envy.Get(key, ""); v != "" {
			n, err := strconv.ParseUint(v, 10, 32)
			if err != nil {
				return errors.Wrapf(err, "%s", key)
			}
			*dst = uint32(n)
		}
	}

	for key, dst := range map[string]*int{
		envFPS:  &cfg.Time.FramesPerSecond,
		envLeft: &r.TileLeft,
		envTop:  &r.TileTop,
	} {
		if v := envy.Get(key, ""); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return errors.Wrapf(err, "%s", key)
			}
			*dst = n
		}
	}

	for key, dst := range map[string]*float32{
		envBaseAlpha:    &r.BaseAlpha,
		envOverlayAlpha: &r.OverlayAlpha,
	} {
		if v := envy.Get(key, ""); v != "" {
			f, err := strconv.ParseFloat(v, 32)
			if err != nil {
				return errors.Wrapf(err, "%s", key)
			}
			*dst = float32(f)
		}
	}
	return nil
}

func setString(key string, dst *string) {
	if v := envy.Get(key, ""); v != "" {
		*dst = v
	}
}

// setupLogging configures the standard logrus logger.
func setupLogging(cfg core.LogConfiguration) error {
	level, err := log.ParseLevel(cfg.Level)
	if err != nil {
		return errors.Wrap(err, "log level")
	}
	log.SetLevel(level)

	switch cfg.Format {
	case "", "text":
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	case "json":
		log.SetFormatter(&log.JSONFormatter{})
	default:
		return errors.Errorf("unknown log format %q", cfg.Format)
	}
	return nil
}
