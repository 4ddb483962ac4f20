package render

import (
	"github.com/vkngwrapper/core/core1_0"
	"github.com/vkngwrapper/extensions/khr_surface"
)

// SwapchainSupport is what a surface reports it can present for one device.
type SwapchainSupport struct {
	Capabilities *khr_surface.SurfaceCapabilities
	Formats      []khr_surface.SurfaceFormat
	PresentModes []khr_surface.PresentMode
}

// Adequate reports whether a swapchain could be built at all: at least one
// format and one present mode.
func (s SwapchainSupport) Adequate() bool {
	return len(s.Formats) > 0 && len(s.PresentModes) > 0
}

// QueueFamily is the part of a device's queue family properties the resolver reads.
type QueueFamily struct {
	QueueCount int
	Graphics   bool
}

// DeviceProber answers read-only capability queries for candidate devices
// against a single surface. Nothing it returns is cached.
type DeviceProber interface {
	QueueFamilies(device core1_0.PhysicalDevice) []QueueFamily
	PresentationSupport(device core1_0.PhysicalDevice, queueFamily int) (bool, error)
	Extensions(device core1_0.PhysicalDevice) (map[string]struct{}, error)
	SwapchainSupport(device core1_0.PhysicalDevice) (SwapchainSupport, error)
}

// NewDeviceProber returns a DeviceProber that queries the driver through surface.
func NewDeviceProber(surface khr_surface.Surface) DeviceProber {
	return &surfaceProber{surface: surface}
}

type surfaceProber struct {
	surface khr_surface.Surface
}

func (p *surfaceProber) QueueFamilies(device core1_0.PhysicalDevice) []QueueFamily {
	properties := device.QueueFamilyProperties()

	families := make([]QueueFamily, 0, len(properties))
	for _, family := range properties {
		families = append(families, QueueFamily{
			QueueCount: int(family.QueueCount),
			Graphics:   (family.QueueFlags & core1_0.QueueGraphics) != 0,
		})
	}

	return families
}

func (p *surfaceProber) PresentationSupport(device core1_0.PhysicalDevice, queueFamily int) (bool, error) {
	supported, _, err := p.surface.PhysicalDeviceSurfaceSupport(device, queueFamily)
	return supported, err
}

func (p *surfaceProber) Extensions(device core1_0.PhysicalDevice) (map[string]struct{}, error) {
	extensions, _, err := device.EnumerateDeviceExtensionProperties()
	if err != nil {
		return nil, err
	}

	return nameSet(extensions), nil
}

func (p *surfaceProber) SwapchainSupport(device core1_0.PhysicalDevice) (SwapchainSupport, error) {
	var support SwapchainSupport
	var err error

	support.Capabilities, _, err = p.surface.PhysicalDeviceSurfaceCapabilities(device)
	if err != nil {
		return support, err
	}

	support.Formats, _, err = p.surface.PhysicalDeviceSurfaceFormats(device)
	if err != nil {
		return support, err
	}

	support.PresentModes, _, err = p.surface.PhysicalDeviceSurfacePresentModes(device)
	return support, err
}

// MissingNames returns the entries of required that are not keys of
// available, in the order they were required.
func MissingNames[T any](required []string, available map[string]T) []string {
	var missing []string
	for _, name := range required {
		if _, ok := available[name]; !ok {
			missing = append(missing, name)
		}
	}

	return missing
}

func nameSet[T any](named map[string]T) map[string]struct{} {
	set := make(map[string]struct{}, len(named))
	for name := range named {
		set[name] = struct{}{}
	}

	return set
}
