package render

import (
	"github.com/vkngwrapper/core/core1_0"
	"github.com/vkngwrapper/extensions/khr_portability_subset"
)

// Queues are the two queue handles handed to the frame submission code.
// They are the same queue when one family serves both purposes.
type Queues struct {
	Graphics     core1_0.Queue
	Presentation core1_0.Queue
}

// QueueCreateInfos requests one queue from each distinct family in indices,
// graphics family first. indices must be complete.
func QueueCreateInfos(indices QueueFamilyIndices) []core1_0.DeviceQueueCreateInfo {
	uniqueQueueFamilies := []int{*indices.GraphicsFamily}
	if uniqueQueueFamilies[0] != *indices.PresentationFamily {
		uniqueQueueFamilies = append(uniqueQueueFamilies, *indices.PresentationFamily)
	}

	var queueFamilyOptions []core1_0.DeviceQueueCreateInfo
	queuePriority := float32(1.0)
	for _, queueFamily := range uniqueQueueFamilies {
		queueFamilyOptions = append(queueFamilyOptions, core1_0.DeviceQueueCreateInfo{
			QueueFamilyIndex: queueFamily,
			QueuePriorities:  []float32{queuePriority},
		})
	}

	return queueFamilyOptions
}

// DeviceExtensionNames is required plus the portability subset extension
// when the device reports it, which MoltenVK requires to be enabled.
func DeviceExtensionNames(required []string, available map[string]struct{}) []string {
	extensionNames := append([]string(nil), required...)

	_, supported := available[khr_portability_subset.ExtensionName]
	if supported {
		extensionNames = append(extensionNames, khr_portability_subset.ExtensionName)
	}

	return extensionNames
}

// CreateLogicalDevice opens a logical device on physicalDevice with one
// queue per distinct family and fetches queue 0 of each.
func CreateLogicalDevice(prober DeviceProber, physicalDevice core1_0.PhysicalDevice, indices QueueFamilyIndices, requiredExtensions []string) (core1_0.Device, Queues, error) {
	if !indices.IsComplete() {
		return nil, Queues{}, fail(nil, ErrDeviceCreationFailed, "queue family indices are incomplete")
	}

	extensions, err := prober.Extensions(physicalDevice)
	if err != nil {
		return nil, Queues{}, fail(err, ErrDeviceCreationFailed, "enumerating device extensions")
	}

	device, _, err := physicalDevice.CreateDevice(nil, core1_0.DeviceCreateInfo{
		QueueCreateInfos:      QueueCreateInfos(indices),
		EnabledFeatures:       &core1_0.PhysicalDeviceFeatures{},
		EnabledExtensionNames: DeviceExtensionNames(requiredExtensions, extensions),
	})
	if err != nil {
		return nil, Queues{}, fail(err, ErrDeviceCreationFailed, "failed to create a logical device")
	}

	queues := Queues{
		Graphics:     device.GetQueue(*indices.GraphicsFamily, 0),
		Presentation: device.GetQueue(*indices.PresentationFamily, 0),
	}
	return device, queues, nil
}
