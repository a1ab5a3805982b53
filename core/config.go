// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	"github.com/pkg/errors"
)

// Default tile resources, both slippy map tiles of the same area.
const (
	DefaultBaseResource    = "hill_14_14552_6451.png"
	DefaultOverlayResource = "pale_14_14552_6451.png"
)

// Configuration defines a global engine configuration setting
type Configuration struct {
	Time     TimeConfiguration     `yaml:"time"`
	Renderer RendererConfiguration `yaml:"renderer"`
	Assets   AssetsConfiguration   `yaml:"assets"`
	Log      LogConfiguration      `yaml:"log"`
}

// TimeConfiguration is used to configure time services
type TimeConfiguration struct {
	// FramesPerSecond caps frames per second that is put out
	// To unlimit, set to 0
	FramesPerSecond int `yaml:"fps"`

	// EventPollDelay is the delay between event polls in milliseconds
	EventPollDelay int `yaml:"event_poll_delay"`
}

// RendererConfiguration is used to configure the renderer
type RendererConfiguration struct {
	ScreenWidth  uint32 `yaml:"width"`
	ScreenHeight uint32 `yaml:"height"`

	ClearColor [4]float32 `yaml:"clear_color"`

	// Base is drawn first, Overlay is blended over it.
	BaseResource    string  `yaml:"base"`
	BaseAlpha       float32 `yaml:"base_alpha"`
	OverlayResource string  `yaml:"overlay"`
	OverlayAlpha    float32 `yaml:"overlay_alpha"`

	// Top-left corner of both tiles in pixels.
	TileLeft int `yaml:"left"`
	TileTop  int `yaml:"top"`
}

// AssetsConfiguration tells where tile images come from.
type AssetsConfiguration struct {
	// Archive is a kar archive path. Empty means the embedded assets.
	Archive string `yaml:"archive"`
}

// LogConfiguration configures logrus.
type LogConfiguration struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// DefaultConfiguration returns the settings the renderer was designed
// around: an opaque base tile under a 60% overlay at the origin.
func DefaultConfiguration() Configuration {
	return Configuration{
		Time: TimeConfiguration{
			FramesPerSecond: 60,
			EventPollDelay:  10,
		},
		Renderer: DefaultRendererConfiguration(),
		Log: LogConfiguration{
			Level:  "info",
			Format: "text",
		},
	}
}

// DefaultRendererConfiguration is the renderer part of DefaultConfiguration.
func DefaultRendererConfiguration() RendererConfiguration {
	return RendererConfiguration{
		ScreenWidth:     800,
		ScreenHeight:    600,
		BaseResource:    DefaultBaseResource,
		BaseAlpha:       1.0,
		OverlayResource: DefaultOverlayResource,
		OverlayAlpha:    0.6,
	}
}

// Validate checks values that would otherwise surface as GL errors.
func (c Configuration) Validate() error {
	if c.Time.FramesPerSecond < 0 {
		return errors.Errorf("fps must not be negative, got %d", c.Time.FramesPerSecond)
	}
	if c.Time.EventPollDelay <= 0 {
		return errors.Errorf("event poll delay must be positive, got %d", c.Time.EventPollDelay)
	}
	if c.Renderer.ScreenWidth == 0 || c.Renderer.ScreenHeight == 0 {
		return errors.Errorf("screen size must be positive, got %dx%d", c.Renderer.ScreenWidth, c.Renderer.ScreenHeight)
	}
	if c.Renderer.BaseResource == "" || c.Renderer.OverlayResource == "" {
		return errors.New("base and overlay resources must be set")
	}
	for _, alpha := range []float32{c.Renderer.BaseAlpha, c.Renderer.OverlayAlpha} {
		if alpha < 0 || alpha > 1 {
			return errors.Errorf("alpha must be within [0, 1], got %v", alpha)
		}
	}
	return nil
}
