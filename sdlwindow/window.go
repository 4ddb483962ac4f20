// Package sdlwindow connects an SDL2 window to a render.Context.
package sdlwindow

import (
	"github.com/cockroachdb/errors"
	"github.com/veandco/go-sdl2/sdl"
	"github.com/vkngwrapper/core"
	"github.com/vkngwrapper/core/core1_0"
	"github.com/vkngwrapper/extensions/khr_surface"
	vkng_sdl2 "github.com/vkngwrapper/integrations/sdl2"

	"github.com/vkngwrapper/vkcontext/render"
)

// Window is a Vulkan-capable SDL window.
type Window struct {
	window *sdl.Window
}

var _ render.Window = (*Window)(nil)

// Open creates a shown, Vulkan-capable window. sdl.Init must already have
// been called with sdl.INIT_VIDEO.
func Open(cfg render.WindowConfig) (*Window, error) {
	window, err := sdl.CreateWindow(cfg.Title, sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED, int32(cfg.Width), int32(cfg.Height), sdl.WINDOW_SHOWN|sdl.WINDOW_VULKAN)
	if err != nil {
		return nil, errors.Wrapf(err, "creating window %q", cfg.Title)
	}

	return &Window{window: window}, nil
}

// Loader resolves Vulkan entry points through the library SDL loaded.
func (w *Window) Loader() (core.Loader, error) {
	loader, err := core.CreateLoaderFromProcAddr(sdl.VulkanGetVkGetInstanceProcAddr())
	if err != nil {
		return nil, errors.Wrap(err, "creating Vulkan loader")
	}

	return loader, nil
}

func (w *Window) RequiredInstanceExtensions() []string {
	return w.window.VulkanGetInstanceExtensions()
}

func (w *Window) CreateSurface(instance core1_0.Instance) (khr_surface.Surface, error) {
	surfaceLoader := khr_surface.CreateExtensionFromInstance(instance)

	surface, err := vkng_sdl2.CreateSurface(instance, surfaceLoader, w.window)
	if err != nil {
		return nil, errors.Wrap(err, "creating SDL surface")
	}

	return surface, nil
}

func (w *Window) FramebufferSize() (width, height int) {
	widthInt, heightInt := w.window.VulkanGetDrawableSize()
	return int(widthInt), int(heightInt)
}

func (w *Window) Destroy() {
	if w.window != nil {
		w.window.Destroy()
		w.window = nil
	}
}
