package render

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"github.com/vkngwrapper/core/common"
	"github.com/vkngwrapper/extensions/khr_swapchain"
)

// Environment variables read by LoadConfig after the config file.
const (
	EnvValidation = "VKCONTEXT_VALIDATION"
	EnvLogLevel   = "VKCONTEXT_LOG_LEVEL"
	EnvShaderDir  = "VKCONTEXT_SHADER_DIR"
)

// ShaderConfig locates the precompiled SPIR-V binaries consumed by the pipeline.
type ShaderConfig struct {
	VertexPath   string `toml:"vertex_path"`
	FragmentPath string `toml:"fragment_path"`
	EntryPoint   string `toml:"entry_point"`
}

// WindowConfig is only read by the demo binary; the context takes an
// already-open window.
type WindowConfig struct {
	Title  string `toml:"title"`
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
}

// Config describes one rendering context. Two contexts with different
// configs are fully independent.
type Config struct {
	ApplicationName string            `toml:"application_name"`
	EngineName      string            `toml:"engine_name"`
	APIVersion      common.APIVersion `toml:"-"`

	// Validation requests the validation layers and attaches the debug messenger.
	Validation       bool     `toml:"validation"`
	ValidationLayers []string `toml:"validation_layers"`

	// DeviceExtensions must all be reported by a device for it to be selected.
	DeviceExtensions []string `toml:"device_extensions"`

	Shaders  ShaderConfig `toml:"shaders"`
	Window   WindowConfig `toml:"window"`
	LogLevel string       `toml:"log_level"`
}

func DefaultConfig() Config {
	return Config{
		ApplicationName:  "Vulkan App",
		EngineName:       "No Engine",
		APIVersion:       common.Vulkan1_1,
		Validation:       false,
		ValidationLayers: []string{"VK_LAYER_KHRONOS_validation"},
		DeviceExtensions: []string{khr_swapchain.ExtensionName},
		Shaders: ShaderConfig{
			VertexPath:   "shaders/vert.spv",
			FragmentPath: "shaders/frag.spv",
			EntryPoint:   "main",
		},
		Window: WindowConfig{
			Title:  "Vulkan",
			Width:  800,
			Height: 600,
		},
		LogLevel: "info",
	}
}

// LoadConfig starts from DefaultConfig, decodes the TOML file at path if it
// exists and then applies environment overrides. A .env file in the working
// directory is loaded first when present.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return cfg, errors.Wrapf(err, "reading config %s", path)
		default:
			if err := toml.Unmarshal(data, &cfg); err != nil {
				return cfg, errors.Mark(errors.Wrapf(err, "decoding config %s", path), ErrInvalidConfig)
			}
		}
	}

	// .env is optional, but one that exists must parse.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return cfg, errors.Mark(errors.Wrap(err, "loading .env"), ErrInvalidConfig)
	}

	if err := cfg.applyEnv(); err != nil {
		return cfg, err
	}

	return cfg, cfg.Validate()
}

func (c *Config) applyEnv() error {
	if v, ok := os.LookupEnv(EnvValidation); ok {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return errors.Mark(errors.Wrapf(err, "%s", EnvValidation), ErrInvalidConfig)
		}
		c.Validation = enabled
	}

	if v, ok := os.LookupEnv(EnvLogLevel); ok {
		c.LogLevel = v
	}

	if dir, ok := os.LookupEnv(EnvShaderDir); ok && dir != "" {
		c.Shaders.VertexPath = filepath.Join(dir, filepath.Base(c.Shaders.VertexPath))
		c.Shaders.FragmentPath = filepath.Join(dir, filepath.Base(c.Shaders.FragmentPath))
	}

	return nil
}

// Validate reports the first field that cannot produce a working context.
func (c Config) Validate() error {
	switch {
	case c.Shaders.VertexPath == "":
		return errors.Wrap(ErrInvalidConfig, "shaders.vertex_path is empty")
	case c.Shaders.FragmentPath == "":
		return errors.Wrap(ErrInvalidConfig, "shaders.fragment_path is empty")
	case c.Shaders.EntryPoint == "":
		return errors.Wrap(ErrInvalidConfig, "shaders.entry_point is empty")
	case c.Window.Width <= 0 || c.Window.Height <= 0:
		return errors.Wrapf(ErrInvalidConfig, "window size %dx%d", c.Window.Width, c.Window.Height)
	case c.Validation && len(c.ValidationLayers) == 0:
		return errors.Wrap(ErrInvalidConfig, "validation enabled without validation layers")
	}

	return nil
}
