// Copyright (c) 2026 lumengfx
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package vkr

import (
	"errors"
	"fmt"

	vk "github.com/vulkan-go/vulkan"

	"github.com/lumengfx/lumen/gfx"
)

// swapchainConfig is the surface derived configuration a swapchain is
// built with. Recreation reuses it wholesale, only the extent moves.
type swapchainConfig struct {
	minImageCount  uint32
	format         vk.SurfaceFormat
	usage          vk.ImageUsageFlags
	compositeAlpha vk.CompositeAlphaFlagBits
	preTransform   vk.SurfaceTransformFlagBits
	presentMode    vk.PresentMode
}

// Swapchain is a Vulkan swapchain plus the configuration needed to
// rebuild it on resize.
type Swapchain struct {
	device  *Device
	surface *Surface
	config  swapchainConfig

	handle vk.Swapchain
	extent vk.Extent2D
	images []gfx.Image
}

// CreateSwapchain implements interface
func (d *Device) CreateSwapchain(surface gfx.Surface, extent gfx.Extent) (gfx.Swapchain, error) {
	srf, ok := surface.(*Surface)
	if !ok {
		return nil, errors.New("vkr: surface was not created by this backend")
	}

	capabilities, err := d.surfaceCapabilities(srf)
	if err != nil {
		return nil, err
	}

	format, err := d.chooseSurfaceFormat(srf)
	if err != nil {
		return nil, err
	}

	config := swapchainConfig{
		minImageCount:  capabilities.MinImageCount,
		format:         format,
		usage:          capabilities.SupportedUsageFlags,
		compositeAlpha: chooseCompositeAlpha(capabilities),
		preTransform:   choosePreTransform(capabilities),
		presentMode:    vk.PresentModeFifo,
	}
	return d.buildSwapchain(srf, config, extent, nil)
}

// Recreate implements interface
func (sc *Swapchain) Recreate(extent gfx.Extent) (gfx.Swapchain, error) {
	capabilities, err := sc.device.surfaceCapabilities(sc.surface)
	if err != nil {
		return nil, err
	}
	if !extentSupported(extent, capabilities) {
		return nil, gfx.ErrExtentUnsupported
	}

	next, err := sc.device.buildSwapchain(sc.surface, sc.config, extent, sc)
	if err != nil {
		return nil, err
	}
	vk.DestroySwapchain(sc.device.handle, sc.handle, nil)
	sc.handle = vk.NullSwapchain
	return next, nil
}

func (d *Device) buildSwapchain(surface *Surface, config swapchainConfig, extent gfx.Extent, old *Swapchain) (*Swapchain, error) {
	oldHandle := vk.NullSwapchain
	if old != nil {
		oldHandle = old.handle
	}

	vkExtent := vk.Extent2D{Width: extent.Width, Height: extent.Height}
	scci := vk.SwapchainCreateInfo{
		SType:            vk.StructureTypeSwapchainCreateInfo,
		Surface:          surface.ref,
		MinImageCount:    config.minImageCount,
		ImageFormat:      config.format.Format,
		ImageColorSpace:  config.format.ColorSpace,
		ImageExtent:      vkExtent,
		ImageUsage:       config.usage,
		PreTransform:     config.preTransform,
		CompositeAlpha:   config.compositeAlpha,
		PresentMode:      config.presentMode,
		Clipped:          vk.True,
		ImageArrayLayers: 1,
		ImageSharingMode: vk.SharingModeExclusive,
		OldSwapchain:     oldHandle,
	}

	var handle vk.Swapchain
	if err := vk.Error(vk.CreateSwapchain(d.handle, &scci, nil, &handle)); err != nil {
		return nil, errors.New("vk.CreateSwapchain(): " + err.Error())
	}

	var numImages uint32
	if err := vk.Error(vk.GetSwapchainImages(d.handle, handle, &numImages, nil)); err != nil {
		return nil, errors.New("vk.GetSwapchainImages(num): " + err.Error())
	}
	handles := make([]vk.Image, numImages)
	if err := vk.Error(vk.GetSwapchainImages(d.handle, handle, &numImages, handles)); err != nil {
		return nil, errors.New("vk.GetSwapchainImages(images): " + err.Error())
	}

	images := make([]gfx.Image, numImages)
	for idx, image := range handles {
		images[idx] = &Image{handle: image, format: config.format.Format, extent: extent}
	}

	return &Swapchain{
		device:  d,
		surface: surface,
		config:  config,
		handle:  handle,
		extent:  vkExtent,
		images:  images,
	}, nil
}

// Format implements interface
func (sc *Swapchain) Format() gfx.Format {
	return gfx.Format(sc.config.format.Format)
}

// Extent implements interface
func (sc *Swapchain) Extent() gfx.Extent {
	return gfx.Extent{Width: sc.extent.Width, Height: sc.extent.Height}
}

// Images implements interface
func (sc *Swapchain) Images() []gfx.Image {
	return sc.images
}

// Acquire implements interface
func (sc *Swapchain) Acquire() (uint32, bool, gfx.Signal, error) {
	sci := vk.SemaphoreCreateInfo{
		SType: vk.StructureTypeSemaphoreCreateInfo,
	}
	var semaphore vk.Semaphore
	if err := vk.Error(vk.CreateSemaphore(sc.device.handle, &sci, nil, &semaphore)); err != nil {
		return 0, false, nil, errors.New("vk.CreateSemaphore(): " + err.Error())
	}

	var index uint32
	result := vk.AcquireNextImage(sc.device.handle, sc.handle, vk.MaxUint64, semaphore, vk.NullFence, &index)
	switch result {
	case vk.Success:
		return index, false, &acquireSignal{semaphore: semaphore}, nil
	case vk.Suboptimal:
		return index, true, &acquireSignal{semaphore: semaphore}, nil
	case vk.ErrorOutOfDate:
		vk.DestroySemaphore(sc.device.handle, semaphore, nil)
		return 0, false, nil, gfx.ErrOutOfDate
	default:
		vk.DestroySemaphore(sc.device.handle, semaphore, nil)
		return 0, false, nil, fmt.Errorf("vk.AcquireNextImage(): %s", vk.Error(result).Error())
	}
}

// Destroy implements interface
func (sc *Swapchain) Destroy() {
	if sc.handle != vk.NullSwapchain {
		vk.DestroySwapchain(sc.device.handle, sc.handle, nil)
		sc.handle = vk.NullSwapchain
	}
	sc.images = nil
}

// acquireSignal carries the semaphore an acquisition will signal.
type acquireSignal struct {
	semaphore vk.Semaphore
}

// Image is one presentable swapchain image
type Image struct {
	handle vk.Image
	format vk.Format
	extent gfx.Extent
}

// Extent implements interface
func (i *Image) Extent() gfx.Extent {
	return i.extent
}

func (d *Device) surfaceCapabilities(surface *Surface) (vk.SurfaceCapabilities, error) {
	var capabilities vk.SurfaceCapabilities
	if err := vk.Error(vk.GetPhysicalDeviceSurfaceCapabilities(d.gpu, surface.ref, &capabilities)); err != nil {
		return capabilities, errors.New("vk.GetPhysicalDeviceSurfaceCapabilities(): " + err.Error())
	}
	capabilities.Deref()
	capabilities.MinImageExtent.Deref()
	capabilities.MaxImageExtent.Deref()
	return capabilities, nil
}

// chooseSurfaceFormat prefers the standard 8 bit BGRA formats, sRGB
// first, and falls back to whatever the driver reports first.
func (d *Device) chooseSurfaceFormat(surface *Surface) (vk.SurfaceFormat, error) {
	var surfaceFormatCount uint32
	if err := vk.Error(vk.GetPhysicalDeviceSurfaceFormats(d.gpu, surface.ref, &surfaceFormatCount, nil)); err != nil {
		return vk.SurfaceFormat{}, errors.New("vk.GetPhysicalDeviceSurfaceFormats(): " + err.Error())
	}
	surfaceFormats := make([]vk.SurfaceFormat, surfaceFormatCount)
	if err := vk.Error(vk.GetPhysicalDeviceSurfaceFormats(d.gpu, surface.ref, &surfaceFormatCount, surfaceFormats)); err != nil {
		return vk.SurfaceFormat{}, errors.New("vk.GetPhysicalDeviceSurfaceFormats(): " + err.Error())
	}
	if surfaceFormatCount == 0 {
		return vk.SurfaceFormat{}, errors.New("vkr: no surface color formats reported")
	}
	for idx := range surfaceFormats {
		surfaceFormats[idx].Deref()
	}

	for _, preferred := range []vk.Format{vk.FormatB8g8r8a8Srgb, vk.FormatB8g8r8a8Unorm} {
		for _, available := range surfaceFormats {
			if available.Format == preferred {
				return available, nil
			}
		}
	}
	return surfaceFormats[0], nil
}

func chooseCompositeAlpha(capabilities vk.SurfaceCapabilities) vk.CompositeAlphaFlagBits {
	compositeAlpha := vk.CompositeAlphaOpaqueBit
	compositeAlphaFlags := []vk.CompositeAlphaFlagBits{
		vk.CompositeAlphaOpaqueBit,
		vk.CompositeAlphaPreMultipliedBit,
		vk.CompositeAlphaPostMultipliedBit,
		vk.CompositeAlphaInheritBit,
	}
	for i := 0; i < len(compositeAlphaFlags); i++ {
		alphaFlags := vk.CompositeAlphaFlags(compositeAlphaFlags[i])
		if capabilities.SupportedCompositeAlpha&alphaFlags != 0 {
			compositeAlpha = compositeAlphaFlags[i]
			break
		}
	}
	return compositeAlpha
}

func choosePreTransform(capabilities vk.SurfaceCapabilities) vk.SurfaceTransformFlagBits {
	required := vk.SurfaceTransformIdentityBit
	if capabilities.SupportedTransforms&vk.SurfaceTransformFlags(required) != 0 {
		return required
	}
	return capabilities.CurrentTransform
}

func extentSupported(extent gfx.Extent, capabilities vk.SurfaceCapabilities) bool {
	if extent.Width == 0 || extent.Height == 0 {
		return false
	}
	if extent.Width < capabilities.MinImageExtent.Width || extent.Height < capabilities.MinImageExtent.Height {
		return false
	}
	if capabilities.MaxImageExtent.Width > 0 && extent.Width > capabilities.MaxImageExtent.Width {
		return false
	}
	if capabilities.MaxImageExtent.Height > 0 && extent.Height > capabilities.MaxImageExtent.Height {
		return false
	}
	return true
}
