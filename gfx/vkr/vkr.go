// Copyright (c) 2026 lumengfx
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package vkr implements the gfx contracts on the Vulkan API.
package vkr

import (
	"errors"
	"fmt"
	"unsafe"

	vk "github.com/vulkan-go/vulkan"

	"github.com/lumengfx/lumen/gfx"
)

// DefaultApplicationInfo describes the engine to the Vulkan driver.
var DefaultApplicationInfo = &vk.ApplicationInfo{
	SType:              vk.StructureTypeApplicationInfo,
	ApiVersion:         vk.MakeVersion(1, 0, 0),
	ApplicationVersion: vk.MakeVersion(1, 0, 0),
	PApplicationName:   safeString("Lumen"),
	PEngineName:        safeString("Lumen"),
}

// InstanceConfiguration configures Vulkan instance creation
type InstanceConfiguration struct {
	DebugMode  bool
	Extensions []string
	Layers     []string
}

// NewInstance creates a Vulkan instance and enumerates the physical
// devices behind it. The window proc address comes from the windowing
// layer; pass nil to load the default Vulkan loader.
func NewInstance(appInfo *vk.ApplicationInfo, procAddr unsafe.Pointer, cfg InstanceConfiguration) (*Instance, error) {
	if cfg.DebugMode {
		cfg.Layers = append(cfg.Layers, "VK_LAYER_KHRONOS_validation")
	}

	if procAddr == nil {
		if err := vk.SetDefaultGetInstanceProcAddr(); err != nil {
			return nil, errors.New("vk.InstanceProcAddr(): " + err.Error())
		}
	} else {
		vk.SetGetInstanceProcAddr(procAddr)
	}

	if err := vk.Init(); err != nil {
		return nil, errors.New("vk.Init(): " + err.Error())
	}

	instanceInfo := vk.InstanceCreateInfo{
		SType:                   vk.StructureTypeInstanceCreateInfo,
		PApplicationInfo:        appInfo,
		EnabledExtensionCount:   uint32(len(cfg.Extensions)),
		PpEnabledExtensionNames: safeStrings(cfg.Extensions),
		EnabledLayerCount:       uint32(len(cfg.Layers)),
		PpEnabledLayerNames:     safeStrings(cfg.Layers),
	}

	var instance vk.Instance
	if err := vk.Error(vk.CreateInstance(&instanceInfo, nil, &instance)); err != nil {
		return nil, errors.New("vk.CreateInstance(): " + err.Error())
	}
	vk.InitInstance(instance)

	devices, err := enumerateDevices(instance)
	if err != nil {
		vk.DestroyInstance(instance, nil)
		return nil, err
	}

	adapters := make([]gfx.Adapter, len(devices))
	for idx, handle := range devices {
		adapters[idx] = &Adapter{handle: handle}
	}

	return &Instance{
		configuration: cfg,
		instance:      instance,
		adapters:      adapters,
	}, nil
}

// Instance is a Vulkan API instance
type Instance struct {
	configuration InstanceConfiguration

	instance vk.Instance
	adapters []gfx.Adapter
}

func enumerateDevices(instance vk.Instance) ([]vk.PhysicalDevice, error) {
	var deviceCount uint32
	if err := vk.Error(vk.EnumeratePhysicalDevices(instance, &deviceCount, nil)); err != nil {
		return nil, fmt.Errorf("vulkan physical device enumeration failed: %s", err)
	}
	availableDevices := make([]vk.PhysicalDevice, deviceCount)
	if err := vk.Error(vk.EnumeratePhysicalDevices(instance, &deviceCount, availableDevices)); err != nil {
		return nil, fmt.Errorf("vulkan physical device enumeration failed: %s", err)
	}
	return availableDevices, nil
}

// Adapters implements interface
func (v *Instance) Adapters() []gfx.Adapter {
	return v.adapters
}

// Handle returns the inner vk.Instance for surface creation
// by the windowing layer.
func (v *Instance) Handle() vk.Instance {
	return v.instance
}

// Destroy implements interface
func (v *Instance) Destroy() {
	v.adapters = nil
	vk.DestroyInstance(v.instance, nil)
}

// Adapter wraps one enumerated vk.PhysicalDevice
type Adapter struct {
	handle vk.PhysicalDevice
}

// Name implements interface
func (a *Adapter) Name() string {
	var properties vk.PhysicalDeviceProperties
	vk.GetPhysicalDeviceProperties(a.handle, &properties)
	properties.Deref()
	return vk.ToString(properties.DeviceName[:])
}

// Type implements interface
func (a *Adapter) Type() gfx.DeviceType {
	var properties vk.PhysicalDeviceProperties
	vk.GetPhysicalDeviceProperties(a.handle, &properties)
	properties.Deref()

	switch properties.DeviceType {
	case vk.PhysicalDeviceTypeDiscreteGpu:
		return gfx.DiscreteDevice
	case vk.PhysicalDeviceTypeIntegratedGpu:
		return gfx.IntegratedDevice
	case vk.PhysicalDeviceTypeVirtualGpu:
		return gfx.VirtualDevice
	case vk.PhysicalDeviceTypeCpu:
		return gfx.CPUDevice
	default:
		return gfx.OtherDevice
	}
}

// Supports implements interface
func (a *Adapter) Supports(extensions []string) bool {
	var numDeviceExtensions uint32
	if err := vk.Error(vk.EnumerateDeviceExtensionProperties(a.handle, "", &numDeviceExtensions, nil)); err != nil {
		return false
	}
	deviceExt := make([]vk.ExtensionProperties, numDeviceExtensions)
	if err := vk.Error(vk.EnumerateDeviceExtensionProperties(a.handle, "", &numDeviceExtensions, deviceExt)); err != nil {
		return false
	}

	available := make(map[string]struct{}, len(deviceExt))
	for _, ext := range deviceExt {
		ext.Deref()
		available[vk.ToString(ext.ExtensionName[:])] = struct{}{}
	}
	for _, required := range extensions {
		if _, ok := available[required]; !ok {
			return false
		}
	}
	return true
}

// QueueFamilies implements interface
func (a *Adapter) QueueFamilies() []gfx.QueueFamily {
	var queueFamilyCount uint32
	vk.GetPhysicalDeviceQueueFamilyProperties(a.handle, &queueFamilyCount, nil)
	queueFamilies := make([]vk.QueueFamilyProperties, queueFamilyCount)
	vk.GetPhysicalDeviceQueueFamilyProperties(a.handle, &queueFamilyCount, queueFamilies)

	families := make([]gfx.QueueFamily, queueFamilyCount)
	for idx := range queueFamilies {
		queueFamilies[idx].Deref()
		families[idx] = gfx.QueueFamily{
			Graphics: queueFamilies[idx].QueueFlags&vk.QueueFlags(vk.QueueGraphicsBit) != 0,
			Compute:  queueFamilies[idx].QueueFlags&vk.QueueFlags(vk.QueueComputeBit) != 0,
		}
	}
	return families
}

// SupportsPresent implements interface
func (a *Adapter) SupportsPresent(family uint32, surface gfx.Surface) bool {
	srf, ok := surface.(*Surface)
	if !ok {
		return false
	}
	var supported vk.Bool32
	if err := vk.Error(vk.GetPhysicalDeviceSurfaceSupport(a.handle, family, srf.ref, &supported)); err != nil {
		return false
	}
	return supported.B()
}

// CreateDevice implements interface
func (a *Adapter) CreateDevice(family uint32, extensions []string) (gfx.Device, gfx.Queue, error) {
	queueInfos := []vk.DeviceQueueCreateInfo{{
		SType:            vk.StructureTypeDeviceQueueCreateInfo,
		QueueFamilyIndex: family,
		QueueCount:       1,
		PQueuePriorities: []float32{1.0},
	}}

	dci := vk.DeviceCreateInfo{
		SType:                   vk.StructureTypeDeviceCreateInfo,
		QueueCreateInfoCount:    uint32(len(queueInfos)),
		PQueueCreateInfos:       queueInfos,
		EnabledExtensionCount:   uint32(len(extensions)),
		PpEnabledExtensionNames: safeStrings(extensions),
	}

	var handle vk.Device
	if err := vk.Error(vk.CreateDevice(a.handle, &dci, nil, &handle)); err != nil {
		return nil, nil, errors.New("vk.CreateDevice(): " + err.Error())
	}

	var queue vk.Queue
	vk.GetDeviceQueue(handle, family, 0, &queue)

	cpci := vk.CommandPoolCreateInfo{
		SType:            vk.StructureTypeCommandPoolCreateInfo,
		QueueFamilyIndex: family,
		Flags:            vk.CommandPoolCreateFlags(vk.CommandPoolCreateResetCommandBufferBit),
	}
	var commandPool vk.CommandPool
	if err := vk.Error(vk.CreateCommandPool(handle, &cpci, nil, &commandPool)); err != nil {
		vk.DestroyDevice(handle, nil)
		return nil, nil, errors.New("vk.CreateCommandPool(): " + err.Error())
	}

	device := &Device{
		gpu:         a.handle,
		handle:      handle,
		family:      family,
		commandPool: commandPool,
	}
	return device, &Queue{handle: queue}, nil
}

// Device is a Vulkan logical device together with its single
// command pool.
type Device struct {
	gpu         vk.PhysicalDevice
	handle      vk.Device
	family      uint32
	commandPool vk.CommandPool
}

// Now implements interface
func (d *Device) Now() gfx.Future {
	return &future{device: d, fence: vk.NullFence, settled: true}
}

// WaitIdle implements interface
func (d *Device) WaitIdle() {
	vk.DeviceWaitIdle(d.handle)
}

// Destroy implements interface
func (d *Device) Destroy() {
	d.WaitIdle()
	vk.DestroyCommandPool(d.handle, d.commandPool, nil)
	vk.DestroyDevice(d.handle, nil)
}

// Queue is a single Vulkan device queue used for both submission
// and presentation.
type Queue struct {
	handle vk.Queue
}

// Surface binds a vk.Surface to the host window that created it.
// The extent callback reads the window's current drawable size.
type Surface struct {
	ref      vk.Surface
	extentFn func() gfx.Extent
}

// NewSurface wraps a surface pointer obtained from the windowing
// layer. extentFn must report the window's drawable size in pixels.
func NewSurface(pSurface uintptr, extentFn func() gfx.Extent) *Surface {
	return &Surface{
		ref:      vk.SurfaceFromPointer(pSurface),
		extentFn: extentFn,
	}
}

// DrawableExtent implements interface
func (s *Surface) DrawableExtent() gfx.Extent {
	return s.extentFn()
}

// Destroy releases the surface against the instance that created it.
func (s *Surface) Destroy(instance *Instance) {
	vk.DestroySurface(instance.instance, s.ref, nil)
}
