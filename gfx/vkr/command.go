// Copyright (c) 2026 lumengfx
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package vkr

import (
	"errors"

	glm "github.com/go-gl/mathgl/mgl32"
	vk "github.com/vulkan-go/vulkan"

	"github.com/lumengfx/lumen/gfx"
)

// Command is a recorded single use command buffer. It is freed back to
// the pool once the future that carried it is reclaimed.
type Command struct {
	buffer vk.CommandBuffer
}

// RecordClearPass implements interface
func (d *Device) RecordClearPass(pass gfx.RenderPass, fb gfx.Framebuffer, area gfx.Extent, clear glm.Vec4) (gfx.CommandBuffer, error) {
	rp, ok := pass.(*RenderPass)
	if !ok {
		return nil, errors.New("vkr: render pass was not created by this backend")
	}
	target, ok := fb.(*Framebuffer)
	if !ok {
		return nil, errors.New("vkr: framebuffer was not created by this backend")
	}

	cbai := vk.CommandBufferAllocateInfo{
		SType:              vk.StructureTypeCommandBufferAllocateInfo,
		CommandPool:        d.commandPool,
		Level:              vk.CommandBufferLevelPrimary,
		CommandBufferCount: 1,
	}
	buffers := make([]vk.CommandBuffer, 1)
	if err := vk.Error(vk.AllocateCommandBuffers(d.handle, &cbai, buffers)); err != nil {
		return nil, errors.New("vk.AllocateCommandBuffers(): " + err.Error())
	}
	buffer := buffers[0]

	cbbi := vk.CommandBufferBeginInfo{
		SType: vk.StructureTypeCommandBufferBeginInfo,
		Flags: vk.CommandBufferUsageFlags(vk.CommandBufferUsageOneTimeSubmitBit),
	}
	if err := vk.Error(vk.BeginCommandBuffer(buffer, &cbbi)); err != nil {
		d.freeCommand(buffer)
		return nil, errors.New("vk.BeginCommandBuffer(): " + err.Error())
	}

	clearValues := make([]vk.ClearValue, 1)
	clearValues[0].SetColor([]float32{clear[0], clear[1], clear[2], clear[3]})

	rpbi := vk.RenderPassBeginInfo{
		SType:       vk.StructureTypeRenderPassBeginInfo,
		RenderPass:  rp.handle,
		Framebuffer: target.handle,
		RenderArea: vk.Rect2D{
			Offset: vk.Offset2D{X: 0, Y: 0},
			Extent: vk.Extent2D{Width: area.Width, Height: area.Height},
		},
		ClearValueCount: 1,
		PClearValues:    clearValues,
	}
	vk.CmdBeginRenderPass(buffer, &rpbi, vk.SubpassContentsInline)
	vk.CmdEndRenderPass(buffer)

	if err := vk.Error(vk.EndCommandBuffer(buffer)); err != nil {
		d.freeCommand(buffer)
		return nil, errors.New("vk.EndCommandBuffer(): " + err.Error())
	}

	return &Command{buffer: buffer}, nil
}

func (d *Device) freeCommand(buffer vk.CommandBuffer) {
	vk.FreeCommandBuffers(d.handle, d.commandPool, 1, []vk.CommandBuffer{buffer})
}
