// Copyright (c) 2026 lumengfx
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	"errors"
	"fmt"

	"github.com/lumengfx/lumen/gfx"
)

// buildRenderTargets wraps every swapchain image in a framebuffer bound
// to the shared render pass and rewrites the viewport to the image
// dimensions. All images in a swapchain share dimensions, so the first
// one sets the viewport. Any creation failure indicates a device level
// inconsistency and is returned as is.
func buildRenderTargets(device gfx.Device, pass gfx.RenderPass, images []gfx.Image, viewport *gfx.Viewport) ([]gfx.Framebuffer, error) {
	if len(images) == 0 {
		return nil, errors.New("core: swapchain reported no images")
	}

	extent := images[0].Extent()
	*viewport = gfx.Viewport{
		X:        0,
		Y:        0,
		Width:    float32(extent.Width),
		Height:   float32(extent.Height),
		MinDepth: 0,
		MaxDepth: 1,
	}

	framebuffers := make([]gfx.Framebuffer, 0, len(images))
	for idx, image := range images {
		fb, err := device.CreateFramebuffer(pass, image)
		if err != nil {
			for _, created := range framebuffers {
				created.Destroy()
			}
			return nil, fmt.Errorf("core: framebuffer %d: %s", idx, err.Error())
		}
		framebuffers = append(framebuffers, fb)
	}
	return framebuffers, nil
}
