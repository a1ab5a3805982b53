// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import (
	"context"
	"encoding/json"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/veandco/go-sdl2/sdl"

	"github.com/devblok/tile2d/asset"
	"github.com/devblok/tile2d/core"
	"github.com/devblok/tile2d/device"
	"github.com/devblok/tile2d/gfx/gl"
)

var frameCounter int64

func newWindow(cfg core.RendererConfiguration) (*sdl.Window, error) {
	for attr, value := range map[sdl.GLattr]int{
		sdl.GL_CONTEXT_PROFILE_MASK:  sdl.GL_CONTEXT_PROFILE_ES,
		sdl.GL_CONTEXT_MAJOR_VERSION: 2,
		sdl.GL_CONTEXT_MINOR_VERSION: 0,
		sdl.GL_DOUBLEBUFFER:          1,
	} {
		if err := sdl.GLSetAttribute(attr, value); err != nil {
			return nil, errors.Wrap(err, "sdl.GLSetAttribute()")
		}
	}

	window, err := sdl.CreateWindow("tile2d",
		sdl.WINDOWPOS_UNDEFINED,
		sdl.WINDOWPOS_UNDEFINED,
		int32(cfg.ScreenWidth),
		int32(cfg.ScreenHeight),
		sdl.WINDOW_OPENGL|sdl.WINDOW_RESIZABLE|sdl.WINDOW_ALLOW_HIGHDPI)
	if err != nil {
		return nil, errors.Wrap(err, "sdl.CreateWindow()")
	}
	return window, nil
}

// run owns the window, the GL context and the render loop. Every GL
// call happens on the calling goroutine, which init locked to the main
// OS thread.
func run(configuration core.Configuration, source asset.Source) error {
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return errors.Wrap(err, "sdl.Init()")
	}
	defer sdl.Quit()

	window, err := newWindow(configuration.Renderer)
	if err != nil {
		return err
	}
	defer window.Destroy()

	glContext, err := window.GLCreateContext()
	if err != nil {
		return errors.Wrap(err, "GLCreateContext()")
	}
	defer sdl.GLDeleteContext(glContext)

	if err := sdl.GLSetSwapInterval(1); err != nil {
		log.WithError(err).Debug("vsync not available")
	}

	ctx, err := gl.NewGLES2()
	if err != nil {
		return err
	}

	info := device.Query(ctx)
	if *printInfo {
		return json.NewEncoder(os.Stdout).Encode(info)
	}
	if ok, reason := info.Suitable(); !ok {
		log.WithField("renderer", info.Renderer).Warn(reason)
	}

	renderer := core.NewTileRenderer(ctx, source, configuration.Renderer)
	defer renderer.Destroy()

	renderer.OnSurfaceCreated()
	resize := func() {
		w, h := window.GLGetDrawableSize()
		renderer.OnSurfaceChanged(int(w), int(h))
	}
	resize()

	timeService := core.NewTime(configuration.Time)
	defer timeService.Stop()

	runCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	programSync := sync.WaitGroup{}

	/* Frame counter loop */
	programSync.Add(1)
	go func(ctx context.Context, wg *sync.WaitGroup) {
		defer wg.Done()
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				log.WithField("fps", atomic.SwapInt64(&frameCounter, 0)).Debug("frame count")
			}
		}
	}(runCtx, &programSync)

	/* Event and render loop */
EventLoop:
	for {
		select {
		case <-runCtx.Done():
			break EventLoop
		case <-timeService.EventTicker().C:
			for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
				switch et := event.(type) {
				case *sdl.KeyboardEvent:
					if et.Keysym.Sym == sdl.K_ESCAPE {
						cancel()
						continue EventLoop
					}
				case *sdl.QuitEvent:
					cancel()
					continue EventLoop
				case *sdl.WindowEvent:
					if et.Event == sdl.WINDOWEVENT_SIZE_CHANGED {
						resize()
					}
				}
			}
		case <-timeService.FpsTicker().C:
			renderer.OnDrawFrame()
			window.GLSwap()
			atomic.AddInt64(&frameCounter, 1)
		}
	}

	log.Debug("event loop exited")
	programSync.Wait()
	return nil
}
