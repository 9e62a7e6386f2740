// Copyright (c) 2026 lumengfx
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	"errors"

	"github.com/lumengfx/lumen/gfx"
)

// ErrNoSuitableDevice is returned when no adapter carries the required
// extensions together with a graphics capable queue family that can
// present to the target surface. The engine cannot proceed without one.
var ErrNoSuitableDevice = errors.New("core: no suitable GPU device found")

// Selection is the outcome of adapter selection: the winning adapter
// and the queue family the device queue will be requested from.
type Selection struct {
	Adapter gfx.Adapter
	Family  uint32
}

// SelectAdapter picks exactly one adapter and queue family for
// presentation to the surface. Adapters missing any required extension
// are filtered out, the first queue family supporting both graphics
// work and presentation is taken per adapter, and the survivors are
// ranked by device type preference. Ties keep enumeration order.
func SelectAdapter(adapters []gfx.Adapter, surface gfx.Surface, extensions []string) (Selection, error) {
	var (
		best  Selection
		found bool
	)
	for _, adapter := range adapters {
		if !adapter.Supports(extensions) {
			continue
		}
		family, ok := presentableFamily(adapter, surface)
		if !ok {
			continue
		}
		if !found || typeRank(adapter.Type()) < typeRank(best.Adapter.Type()) {
			best = Selection{Adapter: adapter, Family: family}
			found = true
		}
	}
	if !found {
		return Selection{}, ErrNoSuitableDevice
	}
	return best, nil
}

// presentableFamily finds the first queue family that handles graphics
// and can draw on the surface.
func presentableFamily(adapter gfx.Adapter, surface gfx.Surface) (uint32, bool) {
	for idx, family := range adapter.QueueFamilies() {
		if family.Graphics && adapter.SupportsPresent(uint32(idx), surface) {
			return uint32(idx), true
		}
	}
	return 0, false
}

// typeRank orders device types, lower is preferred.
func typeRank(t gfx.DeviceType) int {
	switch t {
	case gfx.DiscreteDevice:
		return 0
	case gfx.IntegratedDevice:
		return 1
	case gfx.VirtualDevice:
		return 2
	case gfx.CPUDevice:
		return 3
	case gfx.OtherDevice:
		return 4
	default:
		return 5
	}
}
