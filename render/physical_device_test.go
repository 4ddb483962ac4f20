package render

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/core/core1_0"
	"github.com/vkngwrapper/extensions/khr_swapchain"
)

func newSelector(prober DeviceProber) *DeviceSelector {
	return &DeviceSelector{
		Prober:             prober,
		RequiredExtensions: []string{khr_swapchain.ExtensionName},
	}
}

func TestSelectSkipsUnsuitableDevices(t *testing.T) {
	noPresent := goodDevice()
	noPresent.present = nil

	noExtension := goodDevice()
	noExtension.extensions = []string{"VK_KHR_maintenance1"}

	noModes := goodDevice()
	noModes.support.PresentModes = nil

	prober := &fakeProber{devices: map[string]fakeDeviceInfo{
		"no-present":   noPresent,
		"no-extension": noExtension,
		"no-modes":     noModes,
		"good":         goodDevice(),
		"also-good":    goodDevice(),
	}}

	devices := []core1_0.PhysicalDevice{
		&fakeDevice{name: "no-present"},
		&fakeDevice{name: "no-extension"},
		&fakeDevice{name: "no-modes"},
		&fakeDevice{name: "good"},
		&fakeDevice{name: "also-good"},
	}

	selected, err := newSelector(prober).Select(devices)
	require.NoError(t, err)
	assert.Same(t, devices[3], selected)
}

func TestSelectNoDevices(t *testing.T) {
	_, err := newSelector(&fakeProber{}).Select(nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoGPUFound))
}

func TestSelectNoSuitableDevice(t *testing.T) {
	noFormats := goodDevice()
	noFormats.support.Formats = nil

	prober := &fakeProber{devices: map[string]fakeDeviceInfo{"no-formats": noFormats}}

	_, err := newSelector(prober).Select([]core1_0.PhysicalDevice{&fakeDevice{name: "no-formats"}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoSuitableGPU))
	assert.False(t, errors.Is(err, ErrNoGPUFound))
}

func TestSuitableRejectsDeviceWithoutExtensions(t *testing.T) {
	bare := goodDevice()
	bare.extensions = nil

	prober := &fakeProber{devices: map[string]fakeDeviceInfo{"bare": bare}}
	selector := newSelector(prober)
	selector.RequiredExtensions = nil

	assert.False(t, selector.Suitable(&fakeDevice{name: "bare"}))
}

func TestSuitableTreatsProbeErrorsAsUnsuitable(t *testing.T) {
	broken := goodDevice()
	broken.extensionErr = errProbe

	prober := &fakeProber{devices: map[string]fakeDeviceInfo{"broken": broken}}

	assert.False(t, newSelector(prober).Suitable(&fakeDevice{name: "broken"}))
}

func TestMissingNames(t *testing.T) {
	available := map[string]int{"a": 1, "c": 3}

	assert.Equal(t, []string{"b", "d"}, MissingNames([]string{"a", "b", "c", "d"}, available))
	assert.Empty(t, MissingNames([]string{"c", "a"}, available))
	assert.Empty(t, MissingNames(nil, available))
}

func TestSwapchainSupportAdequate(t *testing.T) {
	support := adequateSupport()
	assert.True(t, support.Adequate())

	support.Formats = nil
	assert.False(t, support.Adequate())
}
