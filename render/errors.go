package render

import (
	"github.com/cockroachdb/errors"
)

// Every failure returned by Context.Initialize is marked with exactly one of these.
// Test for them with errors.Is.
var (
	ErrInvalidConfig                  = errors.New("invalid configuration")
	ErrValidationLayerUnavailable     = errors.New("validation layer unavailable")
	ErrExtensionUnsupported           = errors.New("extension unsupported")
	ErrInstanceCreationFailed         = errors.New("instance creation failed")
	ErrDebugMessengerCreationFailed   = errors.New("debug messenger creation failed")
	ErrSurfaceCreationFailed          = errors.New("surface creation failed")
	ErrNoGPUFound                     = errors.New("no GPU with Vulkan support found")
	ErrNoSuitableGPU                  = errors.New("no suitable GPU found")
	ErrDeviceCreationFailed           = errors.New("logical device creation failed")
	ErrSwapchainCreationFailed        = errors.New("swapchain creation failed")
	ErrImageViewCreationFailed        = errors.New("image view creation failed")
	ErrShaderModuleCreationFailed     = errors.New("shader module creation failed")
	ErrRenderPassCreationFailed       = errors.New("render pass creation failed")
	ErrPipelineLayoutCreationFailed   = errors.New("pipeline layout creation failed")
	ErrGraphicsPipelineCreationFailed = errors.New("graphics pipeline creation failed")
)

// fail wraps a platform error with a message and marks it with kind.
func fail(err error, kind error, format string, args ...interface{}) error {
	if err == nil {
		return errors.Wrapf(kind, format, args...)
	}
	return errors.Mark(errors.Wrapf(err, format, args...), kind)
}
