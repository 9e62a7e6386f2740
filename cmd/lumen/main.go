// Copyright (c) 2026 lumengfx
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import (
	"runtime"
	"strconv"

	"github.com/gobuffalo/envy"
	log "github.com/sirupsen/logrus"
	"github.com/veandco/go-sdl2/sdl"

	"github.com/lumengfx/lumen/core"
	"github.com/lumengfx/lumen/gfx"
	"github.com/lumengfx/lumen/gfx/vkr"
)

func init() {
	runtime.LockOSThread()
}

var configuration = core.Configuration{
	Time: core.TimeConfiguration{
		FramesPerSecond: envInt("LUMEN_FPS", 60),
		EventPollDelay:  5,
	},
	Engine: core.EngineConfiguration{
		ScreenWidth:  uint32(envInt("LUMEN_WIDTH", 800)),
		ScreenHeight: uint32(envInt("LUMEN_HEIGHT", 600)),
		ClearColor:   core.DefaultClearColor,
		DeviceExtensions: []string{
			"VK_KHR_swapchain",
		},
	},
}

func envInt(key string, fallback int) int {
	value, err := strconv.Atoi(envy.Get(key, strconv.Itoa(fallback)))
	if err != nil {
		return fallback
	}
	return value
}

func newWindow() *sdl.Window {
	window, err := sdl.CreateWindow("Lumen",
		sdl.WINDOWPOS_UNDEFINED,
		sdl.WINDOWPOS_UNDEFINED,
		int32(configuration.Engine.ScreenWidth),
		int32(configuration.Engine.ScreenHeight),
		sdl.WINDOW_VULKAN|sdl.WINDOW_RESIZABLE|sdl.WINDOW_SHOWN)
	if err != nil {
		log.Fatal(err)
	}
	return window
}

func main() {
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		log.Fatal(err)
	}
	defer sdl.Quit()

	if err := sdl.VulkanLoadLibrary(""); err != nil {
		log.Fatal(err)
	}
	defer sdl.VulkanUnloadLibrary()

	window := newWindow()
	defer window.Destroy()

	instance, err := vkr.NewInstance(vkr.DefaultApplicationInfo, sdl.VulkanGetVkGetInstanceProcAddr(), vkr.InstanceConfiguration{
		DebugMode:  envy.Get("LUMEN_DEBUG", "") != "",
		Extensions: window.VulkanGetInstanceExtensions(),
	})
	if err != nil {
		log.Fatal(err)
	}
	defer instance.Destroy()

	surfacePtr, err := window.VulkanCreateSurface(instance.Handle())
	if err != nil {
		log.Fatal(err)
	}
	surface := vkr.NewSurface(uintptr(surfacePtr), func() gfx.Extent {
		width, height := window.VulkanGetDrawableSize()
		return gfx.Extent{Width: uint32(width), Height: uint32(height)}
	})
	defer surface.Destroy(instance)

	engine, err := core.NewEngine(instance, surface, configuration.Engine, log.StandardLogger())
	if err != nil {
		log.Fatal(err)
	}
	defer engine.Destroy()

	time := core.NewTime(configuration.Time)
	defer time.Stop()
	exitC := make(chan struct{}, 2)

EventLoop:
	for {
		select {
		case <-exitC:
			log.Println("Event loop exited")
			break EventLoop
		case <-time.FpsTicker().C:
			var event sdl.Event
			for event = sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
				switch et := event.(type) {
				case *sdl.KeyboardEvent:
					if et.Keysym.Sym == sdl.K_ESCAPE {
						exitC <- struct{}{}
						continue EventLoop
					}
				case *sdl.WindowEvent:
					if et.Event == sdl.WINDOWEVENT_SIZE_CHANGED {
						engine.NotifyResize()
					}
				case *sdl.QuitEvent:
					exitC <- struct{}{}
					continue EventLoop
				}
			}

			if err := engine.Frame(); err != nil {
				log.WithError(err).Error("presentation failed")
				exitC <- struct{}{}
			}
		}
	}
}
