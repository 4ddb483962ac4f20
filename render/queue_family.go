package render

import (
	"github.com/vkngwrapper/core/core1_0"
)

// QueueFamilyIndices locates the queue families used for drawing and for
// presenting. Both may point at the same family.
type QueueFamilyIndices struct {
	GraphicsFamily     *int
	PresentationFamily *int
}

// IsComplete reports whether both families were found.
func (i QueueFamilyIndices) IsComplete() bool {
	return i.GraphicsFamily != nil && i.PresentationFamily != nil
}

// Shared reports whether a single family serves both graphics and presentation.
// It is false for incomplete indices.
func (i QueueFamilyIndices) Shared() bool {
	return i.IsComplete() && *i.GraphicsFamily == *i.PresentationFamily
}

// ResolveQueueFamilies walks the device's queue families in index order and
// takes the first graphics-capable family and the first family able to
// present to the prober's surface. Families without queues are skipped.
// The walk stops as soon as both are found.
func ResolveQueueFamilies(prober DeviceProber, device core1_0.PhysicalDevice) (QueueFamilyIndices, error) {
	indices := QueueFamilyIndices{}

	for queueFamilyIdx, queueFamily := range prober.QueueFamilies(device) {
		if queueFamily.QueueCount == 0 {
			continue
		}

		if indices.GraphicsFamily == nil && queueFamily.Graphics {
			indices.GraphicsFamily = new(int)
			*indices.GraphicsFamily = queueFamilyIdx
		}

		if indices.PresentationFamily == nil {
			supported, err := prober.PresentationSupport(device, queueFamilyIdx)
			if err != nil {
				return indices, err
			}

			if supported {
				indices.PresentationFamily = new(int)
				*indices.PresentationFamily = queueFamilyIdx
			}
		}

		if indices.IsComplete() {
			break
		}
	}

	return indices, nil
}
