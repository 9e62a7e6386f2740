// Copyright (c) 2026 lumengfx
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package vkr

import (
	"errors"

	vk "github.com/vulkan-go/vulkan"

	"github.com/lumengfx/lumen/gfx"
)

// RenderPass is the shared clear pass framebuffers bind against.
type RenderPass struct {
	device vk.Device
	handle vk.RenderPass
}

// CreateRenderPass implements interface
func (d *Device) CreateRenderPass(format gfx.Format) (gfx.RenderPass, error) {
	attachments := []vk.AttachmentDescription{{
		Format:         vk.Format(format),
		Samples:        vk.SampleCount1Bit,
		LoadOp:         vk.AttachmentLoadOpClear,
		StoreOp:        vk.AttachmentStoreOpStore,
		StencilLoadOp:  vk.AttachmentLoadOpDontCare,
		StencilStoreOp: vk.AttachmentStoreOpDontCare,
		InitialLayout:  vk.ImageLayoutUndefined,
		FinalLayout:    vk.ImageLayoutPresentSrc,
	}}

	colorAttachmentRef := []vk.AttachmentReference{{
		Attachment: 0,
		Layout:     vk.ImageLayoutColorAttachmentOptimal,
	}}

	subpass := vk.SubpassDescription{
		PipelineBindPoint:    vk.PipelineBindPointGraphics,
		ColorAttachmentCount: uint32(len(colorAttachmentRef)),
		PColorAttachments:    colorAttachmentRef,
	}

	subpassDependency := vk.SubpassDependency{
		SrcSubpass:    vk.SubpassExternal,
		DstSubpass:    0,
		SrcStageMask:  vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit),
		SrcAccessMask: 0,
		DstStageMask:  vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit),
		DstAccessMask: vk.AccessFlags(vk.AccessColorAttachmentReadBit | vk.AccessColorAttachmentWriteBit),
	}

	rpci := vk.RenderPassCreateInfo{
		SType:           vk.StructureTypeRenderPassCreateInfo,
		AttachmentCount: uint32(len(attachments)),
		PAttachments:    attachments,
		SubpassCount:    1,
		PSubpasses:      []vk.SubpassDescription{subpass},
		DependencyCount: 1,
		PDependencies:   []vk.SubpassDependency{subpassDependency},
	}

	var renderPass vk.RenderPass
	if err := vk.Error(vk.CreateRenderPass(d.handle, &rpci, nil, &renderPass)); err != nil {
		return nil, errors.New("vk.CreateRenderPass(): " + err.Error())
	}
	return &RenderPass{device: d.handle, handle: renderPass}, nil
}

// Destroy implements interface
func (rp *RenderPass) Destroy() {
	vk.DestroyRenderPass(rp.device, rp.handle, nil)
}

// Framebuffer binds one swapchain image view to the render pass.
type Framebuffer struct {
	device vk.Device
	view   vk.ImageView
	handle vk.Framebuffer
}

// CreateFramebuffer implements interface
func (d *Device) CreateFramebuffer(pass gfx.RenderPass, image gfx.Image) (gfx.Framebuffer, error) {
	rp, ok := pass.(*RenderPass)
	if !ok {
		return nil, errors.New("vkr: render pass was not created by this backend")
	}
	img, ok := image.(*Image)
	if !ok {
		return nil, errors.New("vkr: image was not created by this backend")
	}

	ivci := vk.ImageViewCreateInfo{
		SType:    vk.StructureTypeImageViewCreateInfo,
		Image:    img.handle,
		ViewType: vk.ImageViewType2d,
		Format:   img.format,
		Components: vk.ComponentMapping{
			R: vk.ComponentSwizzleIdentity,
			G: vk.ComponentSwizzleIdentity,
			B: vk.ComponentSwizzleIdentity,
			A: vk.ComponentSwizzleIdentity,
		},
		SubresourceRange: vk.ImageSubresourceRange{
			AspectMask:     vk.ImageAspectFlags(vk.ImageAspectColorBit),
			BaseMipLevel:   0,
			LevelCount:     1,
			BaseArrayLayer: 0,
			LayerCount:     1,
		},
	}

	var view vk.ImageView
	if err := vk.Error(vk.CreateImageView(d.handle, &ivci, nil, &view)); err != nil {
		return nil, errors.New("vk.CreateImageView(): " + err.Error())
	}

	fci := vk.FramebufferCreateInfo{
		SType:           vk.StructureTypeFramebufferCreateInfo,
		RenderPass:      rp.handle,
		AttachmentCount: 1,
		PAttachments:    []vk.ImageView{view},
		Width:           img.extent.Width,
		Height:          img.extent.Height,
		Layers:          1,
	}

	var framebuffer vk.Framebuffer
	if err := vk.Error(vk.CreateFramebuffer(d.handle, &fci, nil, &framebuffer)); err != nil {
		vk.DestroyImageView(d.handle, view, nil)
		return nil, errors.New("vk.CreateFramebuffer(): " + err.Error())
	}

	return &Framebuffer{device: d.handle, view: view, handle: framebuffer}, nil
}

// Destroy implements interface
func (fb *Framebuffer) Destroy() {
	vk.DestroyFramebuffer(fb.device, fb.handle, nil)
	vk.DestroyImageView(fb.device, fb.view, nil)
}
