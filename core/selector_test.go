// Copyright (c) 2026 lumengfx
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumengfx/lumen/core"
	"github.com/lumengfx/lumen/gfx"
)

var swapchainExt = []string{"VK_KHR_swapchain"}

func selectable(name string, deviceType gfx.DeviceType) *mockAdapter {
	return &mockAdapter{
		name:       name,
		deviceType: deviceType,
		extensions: map[string]bool{"VK_KHR_swapchain": true},
		families:   []gfx.QueueFamily{{Graphics: true}},
		present:    map[uint32]bool{0: true},
	}
}

func TestSelectAdapterPrefersDiscrete(t *testing.T) {
	surface := &mockSurface{}
	integrated := selectable("integrated", gfx.IntegratedDevice)
	discrete := selectable("discrete", gfx.DiscreteDevice)

	for _, adapters := range [][]gfx.Adapter{
		{integrated, discrete},
		{discrete, integrated},
	} {
		selection, err := core.SelectAdapter(adapters, surface, swapchainExt)
		require.NoError(t, err)
		assert.Equal(t, "discrete", selection.Adapter.Name())
	}
}

func TestSelectAdapterRanksAllTypes(t *testing.T) {
	surface := &mockSurface{}
	adapters := []gfx.Adapter{
		selectable("other", gfx.OtherDevice),
		selectable("cpu", gfx.CPUDevice),
		selectable("virtual", gfx.VirtualDevice),
		selectable("integrated", gfx.IntegratedDevice),
	}

	selection, err := core.SelectAdapter(adapters, surface, swapchainExt)
	require.NoError(t, err)
	assert.Equal(t, "integrated", selection.Adapter.Name())
}

func TestSelectAdapterTiesKeepEnumerationOrder(t *testing.T) {
	surface := &mockSurface{}
	first := selectable("first", gfx.DiscreteDevice)
	second := selectable("second", gfx.DiscreteDevice)

	selection, err := core.SelectAdapter([]gfx.Adapter{first, second}, surface, swapchainExt)
	require.NoError(t, err)
	assert.Equal(t, "first", selection.Adapter.Name())
}

func TestSelectAdapterFiltersMissingExtensions(t *testing.T) {
	surface := &mockSurface{}
	discrete := selectable("discrete", gfx.DiscreteDevice)
	discrete.extensions = map[string]bool{}
	integrated := selectable("integrated", gfx.IntegratedDevice)

	selection, err := core.SelectAdapter([]gfx.Adapter{discrete, integrated}, surface, swapchainExt)
	require.NoError(t, err)
	assert.Equal(t, "integrated", selection.Adapter.Name())
}

func TestSelectAdapterSkipsNonPresentableFamilies(t *testing.T) {
	surface := &mockSurface{}
	adapter := selectable("headless", gfx.DiscreteDevice)
	adapter.present = map[uint32]bool{}

	_, err := core.SelectAdapter([]gfx.Adapter{adapter}, surface, swapchainExt)
	assert.ErrorIs(t, err, core.ErrNoSuitableDevice)
}

func TestSelectAdapterFindsFirstGraphicsPresentFamily(t *testing.T) {
	surface := &mockSurface{}
	adapter := selectable("multi-queue", gfx.DiscreteDevice)
	adapter.families = []gfx.QueueFamily{
		{Compute: true},
		{Graphics: true},
		{Graphics: true},
	}
	adapter.present = map[uint32]bool{1: true, 2: true}

	selection, err := core.SelectAdapter([]gfx.Adapter{adapter}, surface, swapchainExt)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), selection.Family)
}

func TestSelectAdapterGraphicsFamilyWithoutPresentIsNotEnough(t *testing.T) {
	surface := &mockSurface{}
	adapter := selectable("split-queues", gfx.DiscreteDevice)
	adapter.families = []gfx.QueueFamily{
		{Graphics: true},
		{Compute: true},
	}
	adapter.present = map[uint32]bool{1: true}

	_, err := core.SelectAdapter([]gfx.Adapter{adapter}, surface, swapchainExt)
	assert.ErrorIs(t, err, core.ErrNoSuitableDevice)
}

func TestSelectAdapterEmptyList(t *testing.T) {
	_, err := core.SelectAdapter(nil, &mockSurface{}, swapchainExt)
	assert.ErrorIs(t, err, core.ErrNoSuitableDevice)
}
