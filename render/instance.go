package render

import (
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/vkngwrapper/core"
	"github.com/vkngwrapper/core/common"
	"github.com/vkngwrapper/core/core1_0"
	"github.com/vkngwrapper/extensions/ext_debug_utils"
)

// VK_KHR_portability_enumeration is not wrapped by the extensions module we
// build against, so its name and create flag are declared here.
const (
	PortabilityEnumerationExtensionName = "VK_KHR_portability_enumeration"

	InstanceCreateEnumeratePortability core1_0.InstanceCreateFlags = 0x00000001
)

// InstanceRequest is everything needed to decide what an instance enables.
type InstanceRequest struct {
	WindowExtensions []string
	Validation       bool
	ValidationLayers []string
}

// RequiredExtensions is the window's extensions plus debug utils when validating.
func (r InstanceRequest) RequiredExtensions() []string {
	extensions := append([]string(nil), r.WindowExtensions...)
	if r.Validation {
		extensions = append(extensions, ext_debug_utils.ExtensionName)
	}

	return extensions
}

// CheckInstanceSupport verifies every required extension and, when
// validating, every validation layer against what the loader reports.
func CheckInstanceSupport(request InstanceRequest, extensions, layers map[string]struct{}) error {
	if request.Validation {
		missing := MissingNames(request.ValidationLayers, layers)
		if len(missing) > 0 {
			return fail(nil, ErrValidationLayerUnavailable, "validation layers requested, but %s not available- install LunarG Vulkan SDK", strings.Join(missing, ", "))
		}
	}

	missing := MissingNames(request.RequiredExtensions(), extensions)
	if len(missing) > 0 {
		return fail(nil, ErrExtensionUnsupported, "instance does not support %s", strings.Join(missing, ", "))
	}

	return nil
}

// InstanceCreateInfo fills in names, version, extensions and layers.
// Portability enumeration is enabled whenever the loader offers it.
func InstanceCreateInfo(cfg Config, request InstanceRequest, extensions map[string]struct{}) core1_0.InstanceCreateInfo {
	instanceOptions := core1_0.InstanceCreateInfo{
		ApplicationName:    cfg.ApplicationName,
		ApplicationVersion: common.CreateVersion(0, 0, 1),
		EngineName:         cfg.EngineName,
		EngineVersion:      common.CreateVersion(1, 0, 0),
		APIVersion:         cfg.APIVersion,
	}

	instanceOptions.EnabledExtensionNames = request.RequiredExtensions()

	_, enumerationSupported := extensions[PortabilityEnumerationExtensionName]
	if enumerationSupported {
		instanceOptions.EnabledExtensionNames = append(instanceOptions.EnabledExtensionNames, PortabilityEnumerationExtensionName)
		instanceOptions.Flags |= InstanceCreateEnumeratePortability
	}

	if request.Validation {
		instanceOptions.EnabledLayerNames = append(instanceOptions.EnabledLayerNames, request.ValidationLayers...)
	}

	return instanceOptions
}

// CreateInstance checks support and creates the instance. With validation
// on, the debug messenger options are chained into the create info.
func CreateInstance(loader core.Loader, cfg Config, windowExtensions []string, log *logrus.Entry) (core1_0.Instance, error) {
	request := InstanceRequest{
		WindowExtensions: windowExtensions,
		Validation:       cfg.Validation,
		ValidationLayers: cfg.ValidationLayers,
	}

	availableExtensions, _, err := loader.AvailableExtensions()
	if err != nil {
		return nil, fail(err, ErrExtensionUnsupported, "enumerating instance extensions")
	}
	extensions := nameSet(availableExtensions)

	layers := map[string]struct{}{}
	if request.Validation {
		availableLayers, _, err := loader.AvailableLayers()
		if err != nil {
			return nil, fail(err, ErrValidationLayerUnavailable, "enumerating instance layers")
		}
		layers = nameSet(availableLayers)
	}

	if err := CheckInstanceSupport(request, extensions, layers); err != nil {
		return nil, err
	}

	instanceOptions := InstanceCreateInfo(cfg, request, extensions)
	if request.Validation {
		logger(log).WithField("layers", len(instanceOptions.EnabledLayerNames)).Info("validation layers enabled")
		instanceOptions.Next = debugMessengerOptions(logger(log))
	}

	instance, _, err := loader.CreateInstance(nil, instanceOptions)
	if err != nil {
		return nil, fail(err, ErrInstanceCreationFailed, "failed to create a Vulkan instance")
	}

	return instance, nil
}

// CreateDebugMessenger attaches the validation message hook to instance.
func CreateDebugMessenger(instance core1_0.Instance, log *logrus.Entry) (ext_debug_utils.DebugUtilsMessenger, error) {
	debugLoader := ext_debug_utils.CreateExtensionFromInstance(instance)
	messenger, _, err := debugLoader.CreateDebugUtilsMessenger(instance, nil, debugMessengerOptions(logger(log)))
	if err != nil {
		return nil, fail(err, ErrDebugMessengerCreationFailed, "failed to set up debug messenger")
	}

	return messenger, nil
}
