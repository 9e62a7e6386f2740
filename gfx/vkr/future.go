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

// future tracks one frame's submitted chain through its fence. The
// retired list holds releases for resources the GPU may still read;
// they run once the fence signals. Queue submission order guarantees
// that when this frame's fence is signaled every earlier frame that
// was folded into the chain has finished too.
type future struct {
	device  *Device
	fence   vk.Fence
	retired []func()
	settled bool
}

// Reclaim implements interface
func (f *future) Reclaim() {
	if f.settled {
		return
	}
	if vk.GetFenceStatus(f.device.handle, f.fence) != vk.Success {
		return
	}
	f.release()
}

// release frees everything the frame held. Only call once the GPU is
// known to be done with it.
func (f *future) release() {
	for _, fn := range f.retired {
		fn()
	}
	f.retired = nil
	if f.fence != vk.NullFence {
		vk.DestroyFence(f.device.handle, f.fence, nil)
		f.fence = vk.NullFence
	}
	f.settled = true
}

// Chain implements interface
func (f *future) Chain(ready gfx.Signal, queue gfx.Queue, cmd gfx.CommandBuffer, sc gfx.Swapchain, index uint32) (gfx.Future, error) {
	q, ok := queue.(*Queue)
	if !ok {
		return nil, errors.New("vkr: queue was not created by this backend")
	}
	command, ok := cmd.(*Command)
	if !ok {
		return nil, errors.New("vkr: command buffer was not created by this backend")
	}
	swapchain, ok := sc.(*Swapchain)
	if !ok {
		return nil, errors.New("vkr: swapchain was not created by this backend")
	}
	acquire, ok := ready.(*acquireSignal)
	if !ok {
		return nil, errors.New("vkr: acquire signal was not created by this backend")
	}

	device := f.device

	sci := vk.SemaphoreCreateInfo{SType: vk.StructureTypeSemaphoreCreateInfo}
	var renderFinished vk.Semaphore
	if err := vk.Error(vk.CreateSemaphore(device.handle, &sci, nil, &renderFinished)); err != nil {
		return nil, errors.New("vk.CreateSemaphore(): " + err.Error())
	}

	fci := vk.FenceCreateInfo{SType: vk.StructureTypeFenceCreateInfo}
	var fence vk.Fence
	if err := vk.Error(vk.CreateFence(device.handle, &fci, nil, &fence)); err != nil {
		vk.DestroySemaphore(device.handle, renderFinished, nil)
		return nil, errors.New("vk.CreateFence(): " + err.Error())
	}

	next := &future{device: device, fence: fence}
	// Whatever the consumed future still held is done no later than
	// this chain; fold it in.
	next.retired = append(next.retired, f.retired...)
	if !f.settled && f.fence != vk.NullFence {
		prior := f.fence
		next.retired = append(next.retired, func() {
			vk.DestroyFence(device.handle, prior, nil)
		})
	}
	f.retired = nil
	f.fence = vk.NullFence
	f.settled = true

	next.retired = append(next.retired,
		func() { vk.DestroySemaphore(device.handle, acquire.semaphore, nil) },
		func() { vk.DestroySemaphore(device.handle, renderFinished, nil) },
		func() { device.freeCommand(command.buffer) },
	)

	submit := []vk.SubmitInfo{{
		SType:              vk.StructureTypeSubmitInfo,
		WaitSemaphoreCount: 1,
		PWaitSemaphores:    []vk.Semaphore{acquire.semaphore},
		PWaitDstStageMask: []vk.PipelineStageFlags{
			vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit),
		},
		CommandBufferCount:   1,
		PCommandBuffers:      []vk.CommandBuffer{command.buffer},
		SignalSemaphoreCount: 1,
		PSignalSemaphores:    []vk.Semaphore{renderFinished},
	}}
	if err := vk.Error(vk.QueueSubmit(q.handle, 1, submit, fence)); err != nil {
		next.drain()
		return nil, errors.New("vk.QueueSubmit(): " + err.Error())
	}

	presentInfo := vk.PresentInfo{
		SType:              vk.StructureTypePresentInfo,
		WaitSemaphoreCount: 1,
		PWaitSemaphores:    []vk.Semaphore{renderFinished},
		SwapchainCount:     1,
		PSwapchains:        []vk.Swapchain{swapchain.handle},
		PImageIndices:      []uint32{index},
	}
	result := vk.QueuePresent(q.handle, &presentInfo)
	switch result {
	case vk.Success, vk.Suboptimal:
		return next, nil
	case vk.ErrorOutOfDate:
		next.drain()
		return nil, gfx.ErrOutOfDate
	default:
		next.drain()
		return nil, fmt.Errorf("vk.QueuePresent(): %s", vk.Error(result).Error())
	}
}

// drain waits the device out and releases the frame immediately. Used
// on submission failures, where no fence based reclaim will follow.
// The acquire semaphore is signaled by the presentation engine, not by
// a queue operation, so a queue-idle wait would not cover it.
func (f *future) drain() {
	vk.DeviceWaitIdle(f.device.handle)
	f.release()
}
