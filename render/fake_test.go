package render

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/common"
	"github.com/vkngwrapper/core/core1_0"
	"github.com/vkngwrapper/core/driver"
	"github.com/vkngwrapper/extensions/ext_debug_utils"
	"github.com/vkngwrapper/extensions/khr_surface"
	"github.com/vkngwrapper/extensions/khr_swapchain"
)

// fakeDevice stands in for a physical device. Only its identity and name are used.
type fakeDevice struct {
	core1_0.PhysicalDevice
	name string
}

func (d *fakeDevice) Properties() (*core1_0.PhysicalDeviceProperties, error) {
	return &core1_0.PhysicalDeviceProperties{DriverName: d.name}, nil
}

type fakeDeviceInfo struct {
	families     []QueueFamily
	present      map[int]bool
	extensions   []string
	support      SwapchainSupport
	extensionErr error
}

type fakeProber struct {
	devices map[string]fakeDeviceInfo

	// presentQueries records every family presentation support was asked for.
	presentQueries []int
}

func (p *fakeProber) info(device core1_0.PhysicalDevice) fakeDeviceInfo {
	return p.devices[device.(*fakeDevice).name]
}

func (p *fakeProber) QueueFamilies(device core1_0.PhysicalDevice) []QueueFamily {
	return p.info(device).families
}

func (p *fakeProber) PresentationSupport(device core1_0.PhysicalDevice, queueFamily int) (bool, error) {
	p.presentQueries = append(p.presentQueries, queueFamily)
	return p.info(device).present[queueFamily], nil
}

func (p *fakeProber) Extensions(device core1_0.PhysicalDevice) (map[string]struct{}, error) {
	info := p.info(device)
	if info.extensionErr != nil {
		return nil, info.extensionErr
	}

	set := map[string]struct{}{}
	for _, name := range info.extensions {
		set[name] = struct{}{}
	}
	return set, nil
}

func (p *fakeProber) SwapchainSupport(device core1_0.PhysicalDevice) (SwapchainSupport, error) {
	return p.info(device).support, nil
}

var errProbe = errors.New("device lost")

func adequateSupport() SwapchainSupport {
	return SwapchainSupport{
		Capabilities: &khr_surface.SurfaceCapabilities{MinImageCount: 2},
		Formats: []khr_surface.SurfaceFormat{
			{Format: core1_0.FormatB8G8R8A8UnsignedNormalized, ColorSpace: khr_surface.ColorSpaceSRGBNonlinear},
		},
		PresentModes: []khr_surface.PresentMode{khr_surface.PresentModeFIFO},
	}
}

// goodDevice has one family that does everything.
func goodDevice() fakeDeviceInfo {
	return fakeDeviceInfo{
		families:   []QueueFamily{{QueueCount: 1, Graphics: true}},
		present:    map[int]bool{0: true},
		extensions: []string{khr_swapchain.ExtensionName},
		support:    adequateSupport(),
	}
}

type fakeWindow struct {
	width, height int
}

func (w *fakeWindow) RequiredInstanceExtensions() []string {
	return []string{khr_surface.ExtensionName}
}

func (w *fakeWindow) CreateSurface(instance core1_0.Instance) (khr_surface.Surface, error) {
	return nil, errors.New("no surface in tests")
}

func (w *fakeWindow) FramebufferSize() (int, int) {
	return w.width, w.height
}

func intPtr(i int) *int {
	return &i
}

var errDriver = errors.New("VK_ERROR_OUT_OF_DEVICE_MEMORY")

// callLog records create and destroy calls across every fake handle, in order.
type callLog struct {
	calls []string
}

func (l *callLog) record(format string, args ...interface{}) {
	l.calls = append(l.calls, fmt.Sprintf(format, args...))
}

type fakeInstance struct {
	core1_0.Instance
	log     *callLog
	devices []core1_0.PhysicalDevice
}

func (i *fakeInstance) EnumeratePhysicalDevices() ([]core1_0.PhysicalDevice, common.VkResult, error) {
	return i.devices, core1_0.VKSuccess, nil
}

func (i *fakeInstance) Destroy(*driver.AllocationCallbacks) {
	i.log.record("destroy instance")
}

type fakeMessenger struct {
	ext_debug_utils.DebugUtilsMessenger
	log *callLog
}

func (m *fakeMessenger) Destroy(*driver.AllocationCallbacks) {
	m.log.record("destroy debug messenger")
}

type fakeSurface struct {
	khr_surface.Surface
	log *callLog
}

func (s *fakeSurface) Destroy(*driver.AllocationCallbacks) {
	s.log.record("destroy surface")
}

type fakeSwapchainHandle struct {
	khr_swapchain.Swapchain
	log    *callLog
	images []core1_0.Image
}

func (s *fakeSwapchainHandle) SwapchainImages() ([]core1_0.Image, common.VkResult, error) {
	return s.images, core1_0.VKSuccess, nil
}

func (s *fakeSwapchainHandle) Destroy(*driver.AllocationCallbacks) {
	s.log.record("destroy swapchain")
}

type fakeImage struct {
	core1_0.Image
	name string
}

type fakeImageView struct {
	core1_0.ImageView
	log  *callLog
	name string
}

func (v *fakeImageView) Destroy(*driver.AllocationCallbacks) {
	v.log.record("destroy %s", v.name)
}

type fakeShaderModule struct {
	core1_0.ShaderModule
	log  *callLog
	name string
}

func (m *fakeShaderModule) Destroy(*driver.AllocationCallbacks) {
	m.log.record("destroy %s", m.name)
}

type fakePipelineLayout struct {
	core1_0.PipelineLayout
	log *callLog
}

func (l *fakePipelineLayout) Destroy(*driver.AllocationCallbacks) {
	l.log.record("destroy pipeline layout")
}

type fakePipeline struct {
	core1_0.Pipeline
	log *callLog
}

func (p *fakePipeline) Destroy(*driver.AllocationCallbacks) {
	p.log.record("destroy pipeline")
}

type fakeRenderPass struct {
	core1_0.RenderPass
	log *callLog
}

func (r *fakeRenderPass) Destroy(*driver.AllocationCallbacks) {
	r.log.record("destroy render pass")
}

// fakeLogicalDevice creates recording handles. The fail fields make the
// matching create call return errDriver.
type fakeLogicalDevice struct {
	core1_0.Device
	log *callLog

	failViewAt    int // 1-based, 0 never fails
	failLayout    bool
	failPipeline  bool
	viewCount     int
	shaderCount   int
	pipelineInfos []core1_0.GraphicsPipelineCreateInfo
}

func (d *fakeLogicalDevice) Destroy(*driver.AllocationCallbacks) {
	d.log.record("destroy device")
}

func (d *fakeLogicalDevice) CreateImageView(_ *driver.AllocationCallbacks, o core1_0.ImageViewCreateInfo) (core1_0.ImageView, common.VkResult, error) {
	d.viewCount++
	if d.viewCount == d.failViewAt {
		return nil, core1_0.VKErrorOutOfDeviceMemory, errDriver
	}

	name := "view of " + o.Image.(*fakeImage).name
	d.log.record("create %s", name)
	return &fakeImageView{log: d.log, name: name}, core1_0.VKSuccess, nil
}

func (d *fakeLogicalDevice) CreateShaderModule(_ *driver.AllocationCallbacks, o core1_0.ShaderModuleCreateInfo) (core1_0.ShaderModule, common.VkResult, error) {
	d.shaderCount++
	name := fmt.Sprintf("shader %d", d.shaderCount)
	d.log.record("create %s", name)
	return &fakeShaderModule{log: d.log, name: name}, core1_0.VKSuccess, nil
}

func (d *fakeLogicalDevice) CreatePipelineLayout(_ *driver.AllocationCallbacks, o core1_0.PipelineLayoutCreateInfo) (core1_0.PipelineLayout, common.VkResult, error) {
	if d.failLayout {
		return nil, core1_0.VKErrorOutOfDeviceMemory, errDriver
	}

	d.log.record("create pipeline layout")
	return &fakePipelineLayout{log: d.log}, core1_0.VKSuccess, nil
}

func (d *fakeLogicalDevice) CreateGraphicsPipelines(_ core1_0.PipelineCache, _ *driver.AllocationCallbacks, o []core1_0.GraphicsPipelineCreateInfo) ([]core1_0.Pipeline, common.VkResult, error) {
	d.pipelineInfos = append(d.pipelineInfos, o...)
	if d.failPipeline {
		return nil, core1_0.VKErrorOutOfDeviceMemory, errDriver
	}

	d.log.record("create pipeline")
	return []core1_0.Pipeline{&fakePipeline{log: d.log}}, core1_0.VKSuccess, nil
}

// spirv is the smallest blob BytesToBytecode accepts.
var spirv = []byte{0x03, 0x02, 0x23, 0x07}
