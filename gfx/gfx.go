// Copyright (c) 2026 lumengfx
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package gfx defines presentation related contracts that GPU backends
// must implement. The engine in the core package is written entirely
// against these interfaces, with one concrete variant per backend.
package gfx

import (
	glm "github.com/go-gl/mathgl/mgl32"
)

// Extent is a drawable size in pixels.
type Extent struct {
	Width  uint32
	Height uint32
}

// Viewport describes the rectangle rendering is mapped onto.
// It is recomputed whenever the swapchain is (re)built.
type Viewport struct {
	X        float32
	Y        float32
	Width    float32
	Height   float32
	MinDepth float32
	MaxDepth float32
}

// Format identifies a surface color format. Values are backend defined.
type Format int32

// DeviceType classifies a physical device.
type DeviceType int

// Device types in order of selection preference, most preferred first.
const (
	DiscreteDevice DeviceType = iota
	IntegratedDevice
	VirtualDevice
	CPUDevice
	OtherDevice
)

func (t DeviceType) String() string {
	switch t {
	case DiscreteDevice:
		return "discrete"
	case IntegratedDevice:
		return "integrated"
	case VirtualDevice:
		return "virtual"
	case CPUDevice:
		return "cpu"
	default:
		return "other"
	}
}

// QueueFamily holds the capability flags of one queue family.
type QueueFamily struct {

	// Graphics is set when the family accepts graphics workloads.
	Graphics bool

	// Compute is set when the family accepts compute workloads.
	Compute bool
}

// Instance describes an initialised GPU API instance.
type Instance interface {

	// Adapters returns the physical devices visible to the instance,
	// enumerated fresh on instance creation.
	Adapters() []Adapter

	// Destroy destroys internal members.
	Destroy()
}

// Adapter is a physical GPU as reported by the platform API.
type Adapter interface {

	// Name returns the device name reported by the driver.
	Name() string

	// Type returns the device type class of the adapter.
	Type() DeviceType

	// Supports reports whether every named device extension
	// is available on the adapter.
	Supports(extensions []string) bool

	// QueueFamilies returns capability flags for each queue family,
	// indexed by family.
	QueueFamilies() []QueueFamily

	// SupportsPresent reports whether the given queue family can
	// present to the surface.
	SupportsPresent(family uint32, surface Surface) bool

	// CreateDevice creates the logical device with the given extensions
	// enabled and returns it along with a single queue requested from
	// the given family.
	CreateDevice(family uint32, extensions []string) (Device, Queue, error)
}

// Surface binds the GPU presentation target to a host window.
// It outlives swapchain recreation.
type Surface interface {

	// DrawableExtent reports the window's current pixel size.
	DrawableExtent() Extent
}

// Queue is a single command submission channel bound to one
// queue family. It is used for both execution and presentation.
type Queue interface{}

// Signal is an opaque handle representing a pending image
// acquisition that GPU work can be ordered after.
type Signal interface{}

// RenderPass is a fixed description of a single clear-then-store
// color attachment pass. Created once and reused across swapchain
// recreations.
type RenderPass interface {

	// Destroy destroys internal members.
	Destroy()
}

// Framebuffer binds a render pass to one swapchain image's view.
type Framebuffer interface {

	// Destroy destroys internal members.
	Destroy()
}

// CommandBuffer is a recorded, submittable unit of GPU work.
type CommandBuffer interface{}

// Image is a single presentable image owned by a swapchain.
type Image interface {

	// Extent returns the image dimensions.
	Extent() Extent
}

// Device owns queues and device-scoped resource creation.
type Device interface {

	// CreateSwapchain builds the presentable image chain for the
	// surface at the given extent, configured from the capabilities
	// the device reports for the surface.
	CreateSwapchain(surface Surface, extent Extent) (Swapchain, error)

	// CreateRenderPass builds the shared clear pass for images
	// of the given format.
	CreateRenderPass(format Format) (RenderPass, error)

	// CreateFramebuffer wraps the image in a default view and binds
	// it to the render pass as a render target.
	CreateFramebuffer(pass RenderPass, image Image) (Framebuffer, error)

	// RecordClearPass records a submit-once command buffer that begins
	// the render pass against the framebuffer with a single clear
	// value and immediately ends it.
	RecordClearPass(pass RenderPass, fb Framebuffer, area Extent, clear glm.Vec4) (CommandBuffer, error)

	// Now returns an already-complete future.
	Now() Future

	// WaitIdle blocks until all work submitted to the device has
	// completed. Required before destroying resources a submitted
	// frame may still reference.
	WaitIdle()

	// Destroy waits for outstanding work and destroys internal members.
	Destroy()
}

// Swapchain is the ordered set of images the engine cycles through
// to display frames. Recreation replaces the handle but preserves
// the surface and configuration it was built on.
type Swapchain interface {

	// Format returns the color format the images were created with.
	Format() Format

	// Extent returns the extent the swapchain was created at.
	Extent() Extent

	// Images returns the presentable images, in acquisition index order.
	Images() []Image

	// Acquire blocks until the next presentable image is available and
	// returns its index together with a signal that submitted work must
	// wait on. The suboptimal flag means the swapchain still works but
	// no longer matches the surface exactly. Returns ErrOutOfDate when
	// the swapchain must be recreated before further use.
	Acquire() (index uint32, suboptimal bool, ready Signal, err error)

	// Recreate builds a replacement swapchain with the same
	// configuration and the given extent. Returns ErrExtentUnsupported
	// when the surface cannot satisfy the extent, for example while the
	// window is minimized. The receiver must not be used afterwards on
	// success.
	Recreate(extent Extent) (Swapchain, error)

	// Destroy destroys internal members.
	Destroy()
}

// Future represents GPU work submitted but not yet known to be
// complete.
type Future interface {

	// Reclaim releases resources held by work that has since finished.
	// It never blocks.
	Reclaim()

	// Chain consumes the future: execution of cmd on the queue is
	// ordered after both the receiver and the ready signal, the image
	// is then queued for presentation on the same queue and the whole
	// chain is flushed behind a fence. The returned future tracks the
	// chain. Returns ErrOutOfDate when presentation requires the
	// swapchain to be recreated. The receiver must not be used
	// afterwards.
	Chain(ready Signal, queue Queue, cmd CommandBuffer, sc Swapchain, index uint32) (Future, error)
}
