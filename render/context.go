package render

import (
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/loov/hrtime"
	"github.com/sirupsen/logrus"
	"github.com/vkngwrapper/core"
	"github.com/vkngwrapper/core/core1_0"
	"github.com/vkngwrapper/extensions/ext_debug_utils"
	"github.com/vkngwrapper/extensions/khr_surface"
)

// State is how far initialization of a Context has progressed.
type State int

const (
	StateUninitialized State = iota
	StateInstanceCreated
	StateDebugHooked
	StateSurfaceBound
	StateDeviceSelected
	StateLogicalDeviceReady
	StateSwapchainReady
	StateRenderPassReady
	StatePipelineReady
	StateFailed
	StateDestroyed
)

// StateReady is the state of a fully initialized Context.
const StateReady = StatePipelineReady

var stateNames = map[State]string{
	StateUninitialized:      "Uninitialized",
	StateInstanceCreated:    "InstanceCreated",
	StateDebugHooked:        "DebugHooked",
	StateSurfaceBound:       "SurfaceBound",
	StateDeviceSelected:     "DeviceSelected",
	StateLogicalDeviceReady: "LogicalDeviceReady",
	StateSwapchainReady:     "SwapchainReady",
	StateRenderPassReady:    "RenderPassReady",
	StatePipelineReady:      "PipelineReady",
	StateFailed:             "Failed",
	StateDestroyed:          "Destroyed",
}

func (s State) String() string {
	name, ok := stateNames[s]
	if !ok {
		return "Unknown"
	}
	return name
}

// StageTiming is how long one completed initialization stage took.
type StageTiming struct {
	State   State
	Elapsed time.Duration
}

// stage moves the context into state when run succeeds.
type stage struct {
	state State
	run   func() error
}

// Option customizes a Context.
type Option func(*Context)

// WithLogger sets the entry the context logs through. The context adds its
// own id field.
func WithLogger(log *logrus.Entry) Option {
	return func(c *Context) {
		c.log = log
	}
}

// Context owns every Vulkan object needed before the first draw: instance,
// optional debug messenger, surface, logical device and queues, swapchain and
// its views, render pass and graphics pipeline.
//
// Initialize creates them in dependency order and stops at the first error
// without releasing anything. Teardown releases whatever exists in reverse
// order and must be called exactly once when the objects are no longer in use,
// including after a failed Initialize.
type Context struct {
	id     uuid.UUID
	cfg    Config
	loader core.Loader
	window Window
	log    *logrus.Entry

	state       State
	failedStage State
	timings     []StageTiming

	instance       core1_0.Instance
	debugMessenger ext_debug_utils.DebugUtilsMessenger
	surface        khr_surface.Surface
	prober         DeviceProber

	physicalDevice core1_0.PhysicalDevice
	indices        QueueFamilyIndices
	device         core1_0.Device
	queues         Queues

	swapchain      *Swapchain
	renderPass     core1_0.RenderPass
	pipelineLayout core1_0.PipelineLayout
	pipeline       core1_0.Pipeline
}

func NewContext(loader core.Loader, window Window, cfg Config, opts ...Option) *Context {
	c := &Context{
		id:     uuid.New(),
		cfg:    cfg,
		loader: loader,
		window: window,
	}

	for _, opt := range opts {
		opt(c)
	}
	c.log = logger(c.log).WithField("context", c.id.String())

	return c
}

func (c *Context) ID() uuid.UUID {
	return c.id
}

func (c *Context) State() State {
	return c.state
}

// FailedStage is the state Initialize was trying to reach when it failed.
func (c *Context) FailedStage() State {
	return c.failedStage
}

func (c *Context) StageTimings() []StageTiming {
	return append([]StageTiming(nil), c.timings...)
}

func (c *Context) Instance() core1_0.Instance {
	return c.instance
}

func (c *Context) Surface() khr_surface.Surface {
	return c.surface
}

func (c *Context) PhysicalDevice() core1_0.PhysicalDevice {
	return c.physicalDevice
}

func (c *Context) QueueFamilies() QueueFamilyIndices {
	return c.indices
}

func (c *Context) Device() core1_0.Device {
	return c.device
}

func (c *Context) Queues() Queues {
	return c.queues
}

func (c *Context) Swapchain() *Swapchain {
	return c.swapchain
}

func (c *Context) RenderPass() core1_0.RenderPass {
	return c.renderPass
}

func (c *Context) PipelineLayout() core1_0.PipelineLayout {
	return c.pipelineLayout
}

func (c *Context) Pipeline() core1_0.Pipeline {
	return c.pipeline
}

// Initialize runs every creation step in order. It may only be called once.
func (c *Context) Initialize() error {
	if c.state != StateUninitialized {
		return errors.Newf("initialize: context is %s", c.state)
	}

	if err := c.cfg.Validate(); err != nil {
		c.state = StateFailed
		return err
	}

	return c.runStages(c.stages())
}

func (c *Context) stages() []stage {
	stages := []stage{
		{state: StateInstanceCreated, run: c.createInstance},
	}

	if c.cfg.Validation {
		stages = append(stages, stage{state: StateDebugHooked, run: c.setupDebugMessenger})
	}

	return append(stages,
		stage{state: StateSurfaceBound, run: c.createSurface},
		stage{state: StateDeviceSelected, run: c.pickPhysicalDevice},
		stage{state: StateLogicalDeviceReady, run: c.createLogicalDevice},
		stage{state: StateSwapchainReady, run: c.createSwapchain},
		stage{state: StateRenderPassReady, run: c.createRenderPass},
		stage{state: StatePipelineReady, run: c.createGraphicsPipeline},
	)
}

// runStages runs stages in order, stopping at the first failure.
func (c *Context) runStages(stages []stage) error {
	for _, st := range stages {
		start := hrtime.Now()
		err := st.run()
		elapsed := hrtime.Since(start)

		if err != nil {
			c.failedStage = st.state
			c.state = StateFailed
			c.log.WithFields(logrus.Fields{
				"stage":   st.state,
				"elapsed": elapsed,
			}).WithError(err).Error("initialization failed")
			return errors.Wrapf(err, "initialize: %s", st.state)
		}

		c.state = st.state
		c.timings = append(c.timings, StageTiming{State: st.state, Elapsed: elapsed})
		c.log.WithFields(logrus.Fields{
			"stage":   st.state,
			"elapsed": elapsed,
		}).Debug("stage complete")
	}

	return nil
}

func (c *Context) createInstance() error {
	var err error
	c.instance, err = CreateInstance(c.loader, c.cfg, c.window.RequiredInstanceExtensions(), c.log)
	return err
}

func (c *Context) setupDebugMessenger() error {
	var err error
	c.debugMessenger, err = CreateDebugMessenger(c.instance, c.log)
	return err
}

func (c *Context) createSurface() error {
	surface, err := c.window.CreateSurface(c.instance)
	if err != nil {
		return fail(err, ErrSurfaceCreationFailed, "failed to create a surface")
	}

	c.surface = surface
	c.prober = NewDeviceProber(surface)
	return nil
}

func (c *Context) pickPhysicalDevice() error {
	selector := &DeviceSelector{
		Prober:             c.prober,
		RequiredExtensions: c.cfg.DeviceExtensions,
		Log:                c.log,
	}

	physicalDevice, err := SelectPhysicalDevice(c.instance, selector)
	if err != nil {
		return err
	}
	c.physicalDevice = physicalDevice

	if properties, err := physicalDevice.Properties(); err == nil {
		c.log.WithField("device", properties.DriverName).Info("physical device selected")
	}

	return nil
}

func (c *Context) createLogicalDevice() error {
	indices, err := ResolveQueueFamilies(c.prober, c.physicalDevice)
	if err != nil {
		return fail(err, ErrDeviceCreationFailed, "resolving queue families")
	}
	c.indices = indices

	c.device, c.queues, err = CreateLogicalDevice(c.prober, c.physicalDevice, indices, c.cfg.DeviceExtensions)
	return err
}

func (c *Context) createSwapchain() error {
	support, err := c.prober.SwapchainSupport(c.physicalDevice)
	if err != nil {
		return fail(err, ErrSwapchainCreationFailed, "querying swapchain support")
	}

	configurator := &SwapchainConfigurator{
		Surface: c.surface,
		Window:  c.window,
		Log:     c.log,
	}

	c.swapchain, err = configurator.Build(c.device, support, c.indices)
	return err
}

func (c *Context) createRenderPass() error {
	var err error
	c.renderPass, err = CreateRenderPass(c.device, c.swapchain.Format())
	return err
}

func (c *Context) createGraphicsPipeline() error {
	vertexCode, err := LoadShaderCode(c.cfg.Shaders.VertexPath)
	if err != nil {
		return err
	}

	fragmentCode, err := LoadShaderCode(c.cfg.Shaders.FragmentPath)
	if err != nil {
		return err
	}

	builder := &PipelineBuilder{
		Device:     c.device,
		EntryPoint: c.cfg.Shaders.EntryPoint,
	}

	c.pipeline, c.pipelineLayout, err = builder.Build(c.renderPass, c.swapchain.Extent, vertexCode, fragmentCode)
	return err
}

// Teardown destroys every object that was created, most recent first. The
// debug messenger is detached after the surface and before the instance.
// Calling it again does nothing.
func (c *Context) Teardown() {
	if c.state == StateDestroyed {
		return
	}

	if c.pipeline != nil {
		c.pipeline.Destroy(nil)
		c.pipeline = nil
	}

	if c.pipelineLayout != nil {
		c.pipelineLayout.Destroy(nil)
		c.pipelineLayout = nil
	}

	if c.renderPass != nil {
		c.renderPass.Destroy(nil)
		c.renderPass = nil
	}

	if c.swapchain != nil {
		c.swapchain.Destroy()
		c.swapchain = nil
	}

	if c.device != nil {
		c.device.Destroy(nil)
		c.device = nil
		c.queues = Queues{}
	}

	if c.surface != nil {
		c.surface.Destroy(nil)
		c.surface = nil
		c.prober = nil
	}

	if c.debugMessenger != nil {
		c.debugMessenger.Destroy(nil)
		c.debugMessenger = nil
	}

	if c.instance != nil {
		c.instance.Destroy(nil)
		c.instance = nil
	}

	c.physicalDevice = nil
	c.state = StateDestroyed
	c.log.Debug("context destroyed")
}
