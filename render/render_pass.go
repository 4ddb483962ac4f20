package render

import (
	"github.com/vkngwrapper/core/core1_0"
	"github.com/vkngwrapper/extensions/khr_swapchain"
)

// colorAttachmentAccess is read and write on the color attachment.
var colorAttachmentAccess = core1_0.AccessColorAttachmentRead | core1_0.AccessColorAttachmentWrite

// RenderPassDependencies brackets subpass 0 so that the transition to
// color-attachment-optimal happens after the presentation engine is done
// reading, and the transition to present-src happens once color output is
// written.
func RenderPassDependencies() []core1_0.SubpassDependency {
	return []core1_0.SubpassDependency{
		{
			SrcSubpass: core1_0.SubpassExternal,
			DstSubpass: 0,

			SrcStageMask:  core1_0.PipelineStageBottomOfPipe,
			SrcAccessMask: core1_0.AccessMemoryRead,

			DstStageMask:  core1_0.PipelineStageColorAttachmentOutput,
			DstAccessMask: colorAttachmentAccess,
		},
		{
			SrcSubpass: 0,
			DstSubpass: core1_0.SubpassExternal,

			SrcStageMask:  core1_0.PipelineStageColorAttachmentOutput,
			SrcAccessMask: colorAttachmentAccess,

			DstStageMask:  core1_0.PipelineStageBottomOfPipe,
			DstAccessMask: core1_0.AccessMemoryRead,
		},
	}
}

// RenderPassCreateInfo declares one cleared color attachment in colorFormat
// that ends up ready for presentation, written by a single graphics subpass.
func RenderPassCreateInfo(colorFormat core1_0.Format) core1_0.RenderPassCreateInfo {
	return core1_0.RenderPassCreateInfo{
		Attachments: []core1_0.AttachmentDescription{
			{
				Format:         colorFormat,
				Samples:        core1_0.Samples1,
				LoadOp:         core1_0.AttachmentLoadOpClear,
				StoreOp:        core1_0.AttachmentStoreOpStore,
				StencilLoadOp:  core1_0.AttachmentLoadOpDontCare,
				StencilStoreOp: core1_0.AttachmentStoreOpDontCare,
				InitialLayout:  core1_0.ImageLayoutUndefined,
				FinalLayout:    khr_swapchain.ImageLayoutPresentSrc,
			},
		},
		Subpasses: []core1_0.SubpassDescription{
			{
				PipelineBindPoint: core1_0.PipelineBindPointGraphics,
				ColorAttachments: []core1_0.AttachmentReference{
					{
						Attachment: 0,
						Layout:     core1_0.ImageLayoutColorAttachmentOptimal,
					},
				},
			},
		},
		SubpassDependencies: RenderPassDependencies(),
	}
}

// CreateRenderPass builds the render pass for a swapchain of colorFormat.
func CreateRenderPass(device core1_0.Device, colorFormat core1_0.Format) (core1_0.RenderPass, error) {
	renderPass, _, err := device.CreateRenderPass(nil, RenderPassCreateInfo(colorFormat))
	if err != nil {
		return nil, fail(err, ErrRenderPassCreationFailed, "failed to create a render pass")
	}

	return renderPass, nil
}
