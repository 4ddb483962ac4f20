package render

import (
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/vkngwrapper/core/core1_0"
)

// DeviceSelector picks the physical device the context will run on.
type DeviceSelector struct {
	Prober DeviceProber

	// RequiredExtensions must all be reported by a device for it to qualify.
	RequiredExtensions []string

	Log *logrus.Entry
}

// Suitable applies the suitability predicate: complete queue family indices,
// every required extension present, and at least one surface format and one
// present mode. Probe errors count as unsuitable; they are logged, not returned.
func (s *DeviceSelector) Suitable(device core1_0.PhysicalDevice) bool {
	indices, err := ResolveQueueFamilies(s.Prober, device)
	if err != nil {
		logger(s.Log).WithError(err).Debug("queue family probe failed")
		return false
	}

	if !s.extensionsSupported(device) {
		return false
	}

	support, err := s.Prober.SwapchainSupport(device)
	if err != nil {
		logger(s.Log).WithError(err).Debug("swapchain support probe failed")
		return false
	}

	return indices.IsComplete() && support.Adequate()
}

func (s *DeviceSelector) extensionsSupported(device core1_0.PhysicalDevice) bool {
	extensions, err := s.Prober.Extensions(device)
	if err != nil {
		logger(s.Log).WithError(err).Debug("device extension probe failed")
		return false
	}

	// A device reporting no extensions at all cannot present.
	if len(extensions) == 0 {
		return false
	}

	missing := MissingNames(s.RequiredExtensions, extensions)
	if len(missing) > 0 {
		logger(s.Log).WithField("missing", strings.Join(missing, ",")).Debug("device lacks required extensions")
		return false
	}

	return true
}

// Select returns the first device, in the order given, that is Suitable.
// An empty list fails with ErrNoGPUFound and a list without a suitable
// device fails with ErrNoSuitableGPU.
func (s *DeviceSelector) Select(devices []core1_0.PhysicalDevice) (core1_0.PhysicalDevice, error) {
	if len(devices) == 0 {
		return nil, fail(nil, ErrNoGPUFound, "enumerating physical devices")
	}

	for _, device := range devices {
		if s.Suitable(device) {
			return device, nil
		}
	}

	return nil, fail(nil, ErrNoSuitableGPU, "checked %d physical devices", len(devices))
}

// SelectPhysicalDevice enumerates the instance's devices and selects one.
func SelectPhysicalDevice(instance core1_0.Instance, selector *DeviceSelector) (core1_0.PhysicalDevice, error) {
	devices, _, err := instance.EnumeratePhysicalDevices()
	if err != nil {
		return nil, fail(err, ErrNoGPUFound, "enumerating physical devices")
	}

	return selector.Select(devices)
}
