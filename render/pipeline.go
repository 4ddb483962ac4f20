package render

import (
	"os"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/core1_0"
)

// LoadShaderCode reads a precompiled SPIR-V binary. The contents are not inspected.
func LoadShaderCode(path string) ([]byte, error) {
	code, err := os.ReadFile(path)
	if err != nil {
		return nil, fail(err, ErrShaderModuleCreationFailed, "reading shader %s", path)
	}

	return code, nil
}

// BytesToBytecode packs a little-endian SPIR-V blob into the words the
// driver consumes.
func BytesToBytecode(b []byte) ([]uint32, error) {
	if len(b) == 0 || len(b)%4 != 0 {
		return nil, errors.Newf("shader code is %d bytes, want a non-zero multiple of 4", len(b))
	}

	byteCode := make([]uint32, len(b)/4)
	for i := 0; i < len(byteCode); i++ {
		byteIndex := i * 4
		byteCode[i] = 0
		byteCode[i] |= uint32(b[byteIndex])
		byteCode[i] |= uint32(b[byteIndex+1]) << 8
		byteCode[i] |= uint32(b[byteIndex+2]) << 16
		byteCode[i] |= uint32(b[byteIndex+3]) << 24
	}

	return byteCode, nil
}

func createShaderModule(device core1_0.Device, code []byte) (core1_0.ShaderModule, error) {
	byteCode, err := BytesToBytecode(code)
	if err != nil {
		return nil, fail(err, ErrShaderModuleCreationFailed, "failed to create a shader module")
	}

	shader, _, err := device.CreateShaderModule(nil, core1_0.ShaderModuleCreateInfo{
		Code: byteCode,
	})
	if err != nil {
		return nil, fail(err, ErrShaderModuleCreationFailed, "failed to create a shader module")
	}

	return shader, nil
}

// ColorBlendAttachment is source-over alpha blending on all four channels:
// color = srcAlpha*new + (1-srcAlpha)*old, alpha = new.
func ColorBlendAttachment() core1_0.PipelineColorBlendAttachmentState {
	return core1_0.PipelineColorBlendAttachmentState{
		BlendEnabled: true,

		SrcColorBlendFactor: core1_0.BlendFactorSrcAlpha,
		DstColorBlendFactor: core1_0.BlendFactorOneMinusSrcAlpha,
		ColorBlendOp:        core1_0.BlendOpAdd,

		SrcAlphaBlendFactor: core1_0.BlendFactorOne,
		DstAlphaBlendFactor: core1_0.BlendFactorZero,
		AlphaBlendOp:        core1_0.BlendOpAdd,

		ColorWriteMask: core1_0.ColorComponentRed | core1_0.ColorComponentGreen | core1_0.ColorComponentBlue | core1_0.ColorComponentAlpha,
	}
}

// GraphicsPipelineCreateInfo bakes all fixed-function state for drawing into
// extent: no vertex input, triangle lists, one full-extent viewport and
// scissor, filled polygons with clockwise front faces and back-face culling,
// one sample per pixel and source-over blending.
func GraphicsPipelineCreateInfo(stages []core1_0.PipelineShaderStageCreateInfo, layout core1_0.PipelineLayout, renderPass core1_0.RenderPass, extent core1_0.Extent2D) core1_0.GraphicsPipelineCreateInfo {
	vertexInput := &core1_0.PipelineVertexInputStateCreateInfo{}

	inputAssembly := &core1_0.PipelineInputAssemblyStateCreateInfo{
		Topology:               core1_0.PrimitiveTopologyTriangleList,
		PrimitiveRestartEnable: false,
	}

	viewport := &core1_0.PipelineViewportStateCreateInfo{
		Viewports: []core1_0.Viewport{
			{
				X:        0,
				Y:        0,
				Width:    float32(extent.Width),
				Height:   float32(extent.Height),
				MinDepth: 0,
				MaxDepth: 1,
			},
		},
		Scissors: []core1_0.Rect2D{
			{
				Offset: core1_0.Offset2D{X: 0, Y: 0},
				Extent: extent,
			},
		},
	}

	rasterization := &core1_0.PipelineRasterizationStateCreateInfo{
		DepthClampEnable:        false,
		RasterizerDiscardEnable: false,

		PolygonMode: core1_0.PolygonModeFill,
		CullMode:    core1_0.CullModeBack,
		FrontFace:   core1_0.FrontFaceClockwise,

		DepthBiasEnable: false,

		LineWidth: 1.0,
	}

	multisample := &core1_0.PipelineMultisampleStateCreateInfo{
		SampleShadingEnable:  false,
		RasterizationSamples: core1_0.Samples1,
		MinSampleShading:     1.0,
	}

	colorBlend := &core1_0.PipelineColorBlendStateCreateInfo{
		LogicOpEnabled: false,
		LogicOp:        core1_0.LogicOpCopy,

		BlendConstants: [4]float32{0, 0, 0, 0},
		Attachments: []core1_0.PipelineColorBlendAttachmentState{
			ColorBlendAttachment(),
		},
	}

	return core1_0.GraphicsPipelineCreateInfo{
		Stages:             stages,
		VertexInputState:   vertexInput,
		InputAssemblyState: inputAssembly,
		ViewportState:      viewport,
		RasterizationState: rasterization,
		MultisampleState:   multisample,
		ColorBlendState:    colorBlend,
		Layout:             layout,
		RenderPass:         renderPass,
		Subpass:            0,
		BasePipelineIndex:  -1,
	}
}

// PipelineBuilder compiles the graphics pipeline from precompiled shader code.
type PipelineBuilder struct {
	Device     core1_0.Device
	EntryPoint string
}

// Build creates the shader modules, an empty pipeline layout and the
// pipeline. The shader modules are destroyed before Build returns, whether or
// not the pipeline was created. If the layout was created but the pipeline
// was not, the layout is returned alongside the error.
func (b *PipelineBuilder) Build(renderPass core1_0.RenderPass, extent core1_0.Extent2D, vertexCode, fragmentCode []byte) (core1_0.Pipeline, core1_0.PipelineLayout, error) {
	vertShader, err := createShaderModule(b.Device, vertexCode)
	if err != nil {
		return nil, nil, errors.Wrap(err, "vertex shader")
	}
	defer vertShader.Destroy(nil)

	fragShader, err := createShaderModule(b.Device, fragmentCode)
	if err != nil {
		return nil, nil, errors.Wrap(err, "fragment shader")
	}
	defer fragShader.Destroy(nil)

	stages := []core1_0.PipelineShaderStageCreateInfo{
		{
			Stage:  core1_0.StageVertex,
			Module: vertShader,
			Name:   b.EntryPoint,
		},
		{
			Stage:  core1_0.StageFragment,
			Module: fragShader,
			Name:   b.EntryPoint,
		},
	}

	pipelineLayout, _, err := b.Device.CreatePipelineLayout(nil, core1_0.PipelineLayoutCreateInfo{})
	if err != nil {
		return nil, nil, fail(err, ErrPipelineLayoutCreationFailed, "failed to create a pipeline layout")
	}

	pipelines, _, err := b.Device.CreateGraphicsPipelines(nil, nil, []core1_0.GraphicsPipelineCreateInfo{
		GraphicsPipelineCreateInfo(stages, pipelineLayout, renderPass, extent),
	})
	if err != nil {
		return nil, pipelineLayout, fail(err, ErrGraphicsPipelineCreationFailed, "failed to create a graphics pipeline")
	}

	return pipelines[0], pipelineLayout, nil
}
