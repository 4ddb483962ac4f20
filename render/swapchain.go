package render

import (
	"github.com/sirupsen/logrus"
	"github.com/vkngwrapper/core/core1_0"
	"github.com/vkngwrapper/extensions/khr_surface"
	"github.com/vkngwrapper/extensions/khr_swapchain"
)

// DefaultSurfaceFormat is used when the surface accepts any format.
var DefaultSurfaceFormat = khr_surface.SurfaceFormat{
	Format:     core1_0.FormatB8G8R8A8UnsignedNormalized,
	ColorSpace: khr_surface.ColorSpaceSRGBNonlinear,
}

// unboundedExtent is CurrentExtent.Width when the surface lets the swapchain
// decide its own size.
const unboundedExtent = -1

// SwapchainImage pairs an image owned by the swapchain with the view created for it.
type SwapchainImage struct {
	Image core1_0.Image
	View  core1_0.ImageView
}

// Swapchain is the presentable image queue and the parameters it was built
// with. It is not resized or recreated.
type Swapchain struct {
	Handle        khr_swapchain.Swapchain
	SurfaceFormat khr_surface.SurfaceFormat
	PresentMode   khr_surface.PresentMode
	Extent        core1_0.Extent2D

	// Images are in the order the driver returned them.
	Images []SwapchainImage
}

// Format is the pixel format of every swapchain image.
func (s *Swapchain) Format() core1_0.Format {
	return s.SurfaceFormat.Format
}

// Destroy releases the image views and then the swapchain. The images
// themselves belong to the swapchain.
func (s *Swapchain) Destroy() {
	for _, image := range s.Images {
		if image.View != nil {
			image.View.Destroy(nil)
		}
	}
	s.Images = nil

	if s.Handle != nil {
		s.Handle.Destroy(nil)
		s.Handle = nil
	}
}

// ChooseSurfaceFormat prefers 8-bit RGBA or BGRA UNORM in the sRGB nonlinear
// color space, taking the first such entry. A lone undefined entry means any
// format is accepted and yields DefaultSurfaceFormat. With no preferred entry
// the first reported format is used. formats must not be empty.
func ChooseSurfaceFormat(formats []khr_surface.SurfaceFormat) khr_surface.SurfaceFormat {
	if len(formats) == 1 && formats[0].Format == core1_0.FormatUndefined {
		return DefaultSurfaceFormat
	}

	for _, format := range formats {
		if (format.Format == core1_0.FormatR8G8B8A8UnsignedNormalized || format.Format == core1_0.FormatB8G8R8A8UnsignedNormalized) &&
			format.ColorSpace == khr_surface.ColorSpaceSRGBNonlinear {
			return format
		}
	}

	return formats[0]
}

// ChoosePresentMode returns mailbox when offered and FIFO otherwise. FIFO is
// always available so it is not looked for.
func ChoosePresentMode(presentModes []khr_surface.PresentMode) khr_surface.PresentMode {
	for _, presentMode := range presentModes {
		if presentMode == khr_surface.PresentModeMailbox {
			return presentMode
		}
	}

	return khr_surface.PresentModeFIFO
}

// ChooseExtent uses the surface's current extent when it has one. Otherwise
// framebufferSize is asked for the drawable size, which is clamped per axis
// into the surface's extent bounds.
func ChooseExtent(capabilities *khr_surface.SurfaceCapabilities, framebufferSize func() (width, height int)) core1_0.Extent2D {
	if capabilities.CurrentExtent.Width != unboundedExtent {
		return capabilities.CurrentExtent
	}

	framebufferWidth, framebufferHeight := framebufferSize()
	return core1_0.Extent2D{
		Width:  clamp(framebufferWidth, capabilities.MinImageExtent.Width, capabilities.MaxImageExtent.Width),
		Height: clamp(framebufferHeight, capabilities.MinImageExtent.Height, capabilities.MaxImageExtent.Height),
	}
}

func clamp(value, min, max int) int {
	if value > max {
		value = max
	}
	if value < min {
		value = min
	}
	return value
}

// ImageCount asks for one image more than the minimum, capped at the maximum
// unless the maximum is 0 (no limit).
func ImageCount(capabilities *khr_surface.SurfaceCapabilities) int {
	imageCount := capabilities.MinImageCount + 1
	if capabilities.MaxImageCount > 0 && capabilities.MaxImageCount < imageCount {
		imageCount = capabilities.MaxImageCount
	}

	return imageCount
}

// SharingMode shares swapchain images concurrently between the graphics and
// presentation families when they differ, so no ownership transfer is needed.
// Incomplete indices get exclusive sharing.
func SharingMode(indices QueueFamilyIndices) (core1_0.SharingMode, []int) {
	if !indices.IsComplete() || indices.Shared() {
		return core1_0.SharingModeExclusive, nil
	}

	return core1_0.SharingModeConcurrent, []int{*indices.GraphicsFamily, *indices.PresentationFamily}
}

// SwapchainConfigurator turns the reported swapchain support into a swapchain.
type SwapchainConfigurator struct {
	Surface khr_surface.Surface
	Window  Window
	Log     *logrus.Entry
}

// CreateInfo picks format, present mode, extent, image count and sharing mode.
func (c *SwapchainConfigurator) CreateInfo(support SwapchainSupport, indices QueueFamilyIndices) khr_swapchain.SwapchainCreateInfo {
	surfaceFormat := ChooseSurfaceFormat(support.Formats)
	presentMode := ChoosePresentMode(support.PresentModes)

	extent := ChooseExtent(support.Capabilities, func() (int, int) {
		return c.Window.FramebufferSize()
	})

	sharingMode, queueFamilyIndices := SharingMode(indices)

	logger(c.Log).WithFields(logrus.Fields{
		"format":      surfaceFormat.Format,
		"colorSpace":  surfaceFormat.ColorSpace,
		"presentMode": presentMode,
		"extent":      extent,
		"sharing":     sharingMode,
	}).Debug("swapchain parameters chosen")

	return khr_swapchain.SwapchainCreateInfo{
		Surface: c.Surface,

		MinImageCount:    ImageCount(support.Capabilities),
		ImageFormat:      surfaceFormat.Format,
		ImageColorSpace:  surfaceFormat.ColorSpace,
		ImageExtent:      extent,
		ImageArrayLayers: 1,
		ImageUsage:       core1_0.ImageUsageColorAttachment,

		ImageSharingMode:   sharingMode,
		QueueFamilyIndices: queueFamilyIndices,

		PreTransform:   support.Capabilities.CurrentTransform,
		CompositeAlpha: khr_surface.CompositeAlphaOpaque,
		PresentMode:    presentMode,
		Clipped:        true,
	}
}

// Build creates the swapchain and one color view per swapchain image. When a
// view fails the partially built swapchain is returned with the error so the
// caller can release what was created.
func (c *SwapchainConfigurator) Build(device core1_0.Device, support SwapchainSupport, indices QueueFamilyIndices) (*Swapchain, error) {
	createInfo := c.CreateInfo(support, indices)

	swapchainExtension := khr_swapchain.CreateExtensionFromDevice(device)
	if swapchainExtension == nil {
		return nil, fail(nil, ErrSwapchainCreationFailed, "%s is not enabled on the device", khr_swapchain.ExtensionName)
	}

	handle, _, err := swapchainExtension.CreateSwapchain(device, nil, createInfo)
	if err != nil {
		return nil, fail(err, ErrSwapchainCreationFailed, "failed to create swapchain")
	}

	return attachImages(device, handle, createInfo)
}

// attachImages wraps handle and creates a view for each of its images, in
// the order the driver returns them.
func attachImages(device core1_0.Device, handle khr_swapchain.Swapchain, createInfo khr_swapchain.SwapchainCreateInfo) (*Swapchain, error) {
	swapchain := &Swapchain{
		Handle: handle,
		SurfaceFormat: khr_surface.SurfaceFormat{
			Format:     createInfo.ImageFormat,
			ColorSpace: createInfo.ImageColorSpace,
		},
		PresentMode: createInfo.PresentMode,
		Extent:      createInfo.ImageExtent,
	}

	images, _, err := handle.SwapchainImages()
	if err != nil {
		return swapchain, fail(err, ErrSwapchainCreationFailed, "retrieving swapchain images")
	}

	for _, image := range images {
		view, err := createImageView(device, image, swapchain.Format(), core1_0.ImageAspectColor)
		if err != nil {
			return swapchain, fail(err, ErrImageViewCreationFailed, "failed to create an image view")
		}

		swapchain.Images = append(swapchain.Images, SwapchainImage{Image: image, View: view})
	}

	return swapchain, nil
}

func createImageView(device core1_0.Device, image core1_0.Image, format core1_0.Format, aspect core1_0.ImageAspectFlags) (core1_0.ImageView, error) {
	imageView, _, err := device.CreateImageView(nil, core1_0.ImageViewCreateInfo{
		Image:    image,
		ViewType: core1_0.ImageViewType2D,
		Format:   format,
		SubresourceRange: core1_0.ImageSubresourceRange{
			AspectMask:     aspect,
			BaseMipLevel:   0,
			LevelCount:     1,
			BaseArrayLayer: 0,
			LayerCount:     1,
		},
	})
	return imageView, err
}
