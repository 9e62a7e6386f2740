// Copyright (c) 2026 lumengfx
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core_test

import (
	glm "github.com/go-gl/mathgl/mgl32"

	"github.com/lumengfx/lumen/gfx"
)

// recorder collects every operation the engine drives against the mock
// backend so tests can assert on the per-frame protocol.
type recorder struct {
	reclaims   int
	acquires   int
	recordings []recording
	chains     []chained
	recreates  []gfx.Extent
	futuresNow int
	waits      int

	// waits observed at the moment of each recreation, index aligned
	// with recreates
	recreateWaits []int

	// scripted outcomes, consumed in order
	acquireScript []acquireResult
	chainErrs     []error
}

type recording struct {
	framebuffer int
	area        gfx.Extent
	clear       glm.Vec4
}

type chained struct {
	index uint32
}

type acquireResult struct {
	index      uint32
	suboptimal bool
	err        error
}

type mockSurface struct {
	extent gfx.Extent
}

func (s *mockSurface) DrawableExtent() gfx.Extent { return s.extent }

type mockAdapter struct {
	name       string
	deviceType gfx.DeviceType
	extensions map[string]bool
	families   []gfx.QueueFamily
	present    map[uint32]bool

	rec        *recorder
	imageCount int

	createdFamily uint32
	created       bool
}

func (a *mockAdapter) Name() string         { return a.name }
func (a *mockAdapter) Type() gfx.DeviceType { return a.deviceType }

func (a *mockAdapter) Supports(extensions []string) bool {
	for _, ext := range extensions {
		if !a.extensions[ext] {
			return false
		}
	}
	return true
}

func (a *mockAdapter) QueueFamilies() []gfx.QueueFamily { return a.families }

func (a *mockAdapter) SupportsPresent(family uint32, _ gfx.Surface) bool {
	return a.present[family]
}

func (a *mockAdapter) CreateDevice(family uint32, _ []string) (gfx.Device, gfx.Queue, error) {
	a.createdFamily = family
	a.created = true
	return &mockDevice{rec: a.rec, imageCount: a.imageCount}, &mockQueue{}, nil
}

type mockInstance struct {
	adapters []gfx.Adapter
}

func (i *mockInstance) Adapters() []gfx.Adapter { return i.adapters }
func (i *mockInstance) Destroy()                {}

type mockQueue struct{}

type mockDevice struct {
	rec        *recorder
	imageCount int
	destroyed  bool
}

func (d *mockDevice) CreateSwapchain(surface gfx.Surface, extent gfx.Extent) (gfx.Swapchain, error) {
	return newMockSwapchain(d, extent), nil
}

func (d *mockDevice) CreateRenderPass(format gfx.Format) (gfx.RenderPass, error) {
	return &mockRenderPass{format: format}, nil
}

func (d *mockDevice) CreateFramebuffer(_ gfx.RenderPass, image gfx.Image) (gfx.Framebuffer, error) {
	img := image.(*mockImage)
	return &mockFramebuffer{index: img.index, extent: img.extent}, nil
}

func (d *mockDevice) RecordClearPass(_ gfx.RenderPass, fb gfx.Framebuffer, area gfx.Extent, clear glm.Vec4) (gfx.CommandBuffer, error) {
	target := fb.(*mockFramebuffer)
	d.rec.recordings = append(d.rec.recordings, recording{
		framebuffer: target.index,
		area:        area,
		clear:       clear,
	})
	return &mockCommand{framebuffer: target.index}, nil
}

func (d *mockDevice) Now() gfx.Future {
	d.rec.futuresNow++
	return &mockFuture{rec: d.rec}
}

func (d *mockDevice) WaitIdle() { d.rec.waits++ }

func (d *mockDevice) Destroy() { d.destroyed = true }

type mockRenderPass struct {
	format    gfx.Format
	destroyed bool
}

func (rp *mockRenderPass) Destroy() { rp.destroyed = true }

type mockFramebuffer struct {
	index     int
	extent    gfx.Extent
	destroyed bool
}

func (fb *mockFramebuffer) Destroy() { fb.destroyed = true }

type mockCommand struct {
	framebuffer int
}

type mockImage struct {
	index  int
	extent gfx.Extent
}

func (i *mockImage) Extent() gfx.Extent { return i.extent }

type mockSignal struct{}

type mockSwapchain struct {
	device *mockDevice
	extent gfx.Extent
	images []gfx.Image

	frame     int
	destroyed bool
}

func newMockSwapchain(device *mockDevice, extent gfx.Extent) *mockSwapchain {
	images := make([]gfx.Image, device.imageCount)
	for idx := range images {
		images[idx] = &mockImage{index: idx, extent: extent}
	}
	return &mockSwapchain{device: device, extent: extent, images: images}
}

func (sc *mockSwapchain) Format() gfx.Format  { return gfx.Format(44) }
func (sc *mockSwapchain) Extent() gfx.Extent  { return sc.extent }
func (sc *mockSwapchain) Images() []gfx.Image { return sc.images }

func (sc *mockSwapchain) Acquire() (uint32, bool, gfx.Signal, error) {
	rec := sc.device.rec
	rec.acquires++
	if len(rec.acquireScript) > 0 {
		scripted := rec.acquireScript[0]
		rec.acquireScript = rec.acquireScript[1:]
		if scripted.err != nil {
			return 0, false, nil, scripted.err
		}
		return scripted.index, scripted.suboptimal, &mockSignal{}, nil
	}
	index := uint32(sc.frame % len(sc.images))
	sc.frame++
	return index, false, &mockSignal{}, nil
}

func (sc *mockSwapchain) Recreate(extent gfx.Extent) (gfx.Swapchain, error) {
	if extent.Width == 0 || extent.Height == 0 {
		return nil, gfx.ErrExtentUnsupported
	}
	sc.device.rec.recreates = append(sc.device.rec.recreates, extent)
	sc.device.rec.recreateWaits = append(sc.device.rec.recreateWaits, sc.device.rec.waits)
	return newMockSwapchain(sc.device, extent), nil
}

func (sc *mockSwapchain) Destroy() { sc.destroyed = true }

type mockFuture struct {
	rec      *recorder
	consumed bool
}

func (f *mockFuture) Reclaim() { f.rec.reclaims++ }

func (f *mockFuture) Chain(_ gfx.Signal, _ gfx.Queue, _ gfx.CommandBuffer, _ gfx.Swapchain, index uint32) (gfx.Future, error) {
	f.consumed = true
	if len(f.rec.chainErrs) > 0 {
		err := f.rec.chainErrs[0]
		f.rec.chainErrs = f.rec.chainErrs[1:]
		if err != nil {
			return nil, err
		}
	}
	f.rec.chains = append(f.rec.chains, chained{index: index})
	return &mockFuture{rec: f.rec}, nil
}

// presentable builds a single suitable adapter plus surface/instance
// wiring for engine tests.
func presentable(rec *recorder, imageCount int, extent gfx.Extent) (*mockInstance, *mockSurface, *mockAdapter) {
	adapter := &mockAdapter{
		name:       "mock gpu",
		deviceType: gfx.DiscreteDevice,
		extensions: map[string]bool{"VK_KHR_swapchain": true},
		families:   []gfx.QueueFamily{{Graphics: true}},
		present:    map[uint32]bool{0: true},
		rec:        rec,
		imageCount: imageCount,
	}
	return &mockInstance{adapters: []gfx.Adapter{adapter}}, &mockSurface{extent: extent}, adapter
}
