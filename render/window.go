package render

import (
	"github.com/vkngwrapper/core/core1_0"
	"github.com/vkngwrapper/extensions/khr_surface"
)

// Window is the windowing system as seen by the context.
type Window interface {
	// RequiredInstanceExtensions lists the instance extensions needed to
	// create a surface for this window.
	RequiredInstanceExtensions() []string

	// CreateSurface creates a presentable surface on instance. The caller
	// owns and destroys it.
	CreateSurface(instance core1_0.Instance) (khr_surface.Surface, error)

	// FramebufferSize is the drawable size in pixels.
	FramebufferSize() (width, height int)
}
