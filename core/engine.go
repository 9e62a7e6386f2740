// Copyright (c) 2026 lumengfx
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package core implements the presentation engine: adapter selection,
// swapchain lifecycle, render target wiring and the per-frame
// acquire/submit/present protocol. It is backend neutral; concrete GPU
// work is delegated to a gfx implementation such as gfx/vkr.
package core

import (
	"errors"
	"fmt"

	glm "github.com/go-gl/mathgl/mgl32"
	log "github.com/sirupsen/logrus"

	"github.com/lumengfx/lumen/gfx"
)

// Engine owns the presentation state for one window surface: the
// logical device, its single graphics and present queue, the swapchain
// with its render targets and the in-flight frame future. It is driven
// by a single goroutine; nothing here may be called concurrently.
type Engine struct {
	cfg    EngineConfiguration
	logger log.FieldLogger

	surface gfx.Surface
	device  gfx.Device
	queue   gfx.Queue

	swapchain    gfx.Swapchain
	renderPass   gfx.RenderPass
	framebuffers []gfx.Framebuffer
	viewport     gfx.Viewport

	// previousFrame tracks GPU work submitted last frame that is not
	// yet known to be complete. Replaced every frame.
	previousFrame gfx.Future

	recreatePending bool
}

// NewEngine selects an adapter, creates the logical device and queue
// and builds the initial swapchain and render targets for the surface.
// Every failure here is terminal; the caller decides whether to exit.
func NewEngine(instance gfx.Instance, surface gfx.Surface, cfg EngineConfiguration, logger log.FieldLogger) (*Engine, error) {
	if logger == nil {
		logger = log.StandardLogger()
	}
	if cfg.ClearColor == (glm.Vec4{}) {
		cfg.ClearColor = DefaultClearColor
	}

	selection, err := SelectAdapter(instance.Adapters(), surface, cfg.DeviceExtensions)
	if err != nil {
		return nil, err
	}
	logger.WithFields(log.Fields{
		"adapter": selection.Adapter.Name(),
		"type":    selection.Adapter.Type().String(),
		"family":  selection.Family,
	}).Info("adapter selected")

	device, queue, err := selection.Adapter.CreateDevice(selection.Family, cfg.DeviceExtensions)
	if err != nil {
		return nil, fmt.Errorf("core: device creation: %s", err.Error())
	}

	swapchain, err := device.CreateSwapchain(surface, surface.DrawableExtent())
	if err != nil {
		device.Destroy()
		return nil, fmt.Errorf("core: swapchain creation: %s", err.Error())
	}

	renderPass, err := device.CreateRenderPass(swapchain.Format())
	if err != nil {
		swapchain.Destroy()
		device.Destroy()
		return nil, fmt.Errorf("core: render pass creation: %s", err.Error())
	}

	e := &Engine{
		cfg:           cfg,
		logger:        logger,
		surface:       surface,
		device:        device,
		queue:         queue,
		swapchain:     swapchain,
		renderPass:    renderPass,
		previousFrame: device.Now(),
	}
	e.framebuffers, err = buildRenderTargets(device, renderPass, swapchain.Images(), &e.viewport)
	if err != nil {
		e.Destroy()
		return nil, err
	}
	return e, nil
}

// Viewport returns the viewport matching the current render targets.
func (e *Engine) Viewport() gfx.Viewport {
	return e.viewport
}

// NotifyResize marks the swapchain for recreation. Call it on host
// window resize notifications; the recreation itself happens at the
// end of the next Frame.
func (e *Engine) NotifyResize() {
	e.recreatePending = true
}

// RecreatePending reports whether a swapchain recreation is still
// outstanding, for example while the window is minimized.
func (e *Engine) RecreatePending() bool {
	return e.recreatePending
}

// Frame runs one iteration of the frame loop: render a frame, then
// recreate the swapchain if anything flagged it stale. A non-nil error
// is terminal for the engine.
func (e *Engine) Frame() error {
	if err := e.render(); err != nil {
		return err
	}
	if e.recreatePending {
		return e.recreateSwapchain()
	}
	return nil
}

// render drives a single acquire, record, submit, present cycle.
func (e *Engine) render() error {
	e.previousFrame.Reclaim()

	index, suboptimal, ready, err := e.swapchain.Acquire()
	switch {
	case errors.Is(err, gfx.ErrOutOfDate):
		// recoverable, skip the frame and recreate
		e.recreatePending = true
		return nil
	case err != nil:
		return fmt.Errorf("core: image acquisition: %s", err.Error())
	}
	if suboptimal {
		// still presentable this frame, recreate afterwards
		e.recreatePending = true
	}

	cmd, err := e.device.RecordClearPass(e.renderPass, e.framebuffers[index], e.swapchain.Extent(), e.cfg.ClearColor)
	if err != nil {
		return fmt.Errorf("core: command recording: %s", err.Error())
	}

	next, err := e.previousFrame.Chain(ready, e.queue, cmd, e.swapchain, index)
	switch {
	case err == nil:
		e.previousFrame = next
	case errors.Is(err, gfx.ErrOutOfDate):
		e.recreatePending = true
		e.previousFrame = e.device.Now()
	default:
		// Transient presentation failures degrade the frame, never
		// the process. Reset to a complete future so the next cycle
		// does not wait on a broken chain.
		e.logger.WithError(err).Error("frame submission failed")
		e.previousFrame = e.device.Now()
	}
	return nil
}

// recreateSwapchain rebuilds the swapchain and its render targets at
// the surface's current extent. An unsupported extent leaves the
// pending flag set so recreation is retried on the next iteration.
func (e *Engine) recreateSwapchain() error {
	extent := e.surface.DrawableExtent()

	// the frame submitted this iteration may still reference the old
	// swapchain and framebuffers on the GPU
	e.device.WaitIdle()

	next, err := e.swapchain.Recreate(extent)
	switch {
	case errors.Is(err, gfx.ErrExtentUnsupported):
		return nil
	case err != nil:
		return fmt.Errorf("core: swapchain recreation: %s", err.Error())
	}

	e.destroyTargets()
	e.swapchain = next
	e.framebuffers, err = buildRenderTargets(e.device, e.renderPass, next.Images(), &e.viewport)
	if err != nil {
		return err
	}
	e.recreatePending = false
	return nil
}

func (e *Engine) destroyTargets() {
	for _, fb := range e.framebuffers {
		fb.Destroy()
	}
	e.framebuffers = nil
}

// Destroy tears the engine down in reverse dependency order, after
// waiting out the frame that may still be in flight.
func (e *Engine) Destroy() {
	if e.device != nil {
		e.device.WaitIdle()
	}
	if e.previousFrame != nil {
		e.previousFrame.Reclaim()
		e.previousFrame = nil
	}
	e.destroyTargets()
	if e.renderPass != nil {
		e.renderPass.Destroy()
		e.renderPass = nil
	}
	if e.swapchain != nil {
		e.swapchain.Destroy()
		e.swapchain = nil
	}
	if e.device != nil {
		e.device.Destroy()
		e.device = nil
	}
}
