package render

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/extensions/khr_swapchain"
)

// chdir moves into a fresh directory so no stray .env is picked up.
func chdir(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	return dir
}

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.False(t, cfg.Validation)
	assert.Equal(t, []string{khr_swapchain.ExtensionName}, cfg.DeviceExtensions)
}

func TestLoadConfigMissingFile(t *testing.T) {
	dir := chdir(t)

	cfg, err := LoadConfig(filepath.Join(dir, "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfigFile(t *testing.T) {
	dir := chdir(t)
	path := filepath.Join(dir, "vkcontext.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
application_name = "Triangle"
validation = true
log_level = "debug"

[shaders]
vertex_path = "build/tri.vert.spv"
fragment_path = "build/tri.frag.spv"

[window]
width = 1280
height = 720
`), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "Triangle", cfg.ApplicationName)
	assert.Equal(t, "No Engine", cfg.EngineName)
	assert.True(t, cfg.Validation)
	assert.Equal(t, []string{"VK_LAYER_KHRONOS_validation"}, cfg.ValidationLayers)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "build/tri.vert.spv", cfg.Shaders.VertexPath)
	assert.Equal(t, "build/tri.frag.spv", cfg.Shaders.FragmentPath)
	assert.Equal(t, "main", cfg.Shaders.EntryPoint)
	assert.Equal(t, 1280, cfg.Window.Width)
	assert.Equal(t, 720, cfg.Window.Height)
	assert.Equal(t, "Vulkan", cfg.Window.Title)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	chdir(t)
	t.Setenv(EnvValidation, "true")
	t.Setenv(EnvLogLevel, "warn")
	t.Setenv(EnvShaderDir, "/opt/shaders")

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.True(t, cfg.Validation)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, filepath.Join("/opt/shaders", "vert.spv"), cfg.Shaders.VertexPath)
	assert.Equal(t, filepath.Join("/opt/shaders", "frag.spv"), cfg.Shaders.FragmentPath)
}

func TestLoadConfigDotEnv(t *testing.T) {
	dir := chdir(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(EnvLogLevel+"=trace\n"), 0o644))
	t.Setenv(EnvLogLevel, "")
	require.NoError(t, os.Unsetenv(EnvLogLevel))

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "trace", cfg.LogLevel)
}

func TestLoadConfigRejectsMalformedDotEnv(t *testing.T) {
	dir := chdir(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("NOEQUALS\n"), 0o644))

	_, err := LoadConfig("")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidConfig))
	assert.Contains(t, err.Error(), ".env")
}

func TestLoadConfigRejectsBadInput(t *testing.T) {
	dir := chdir(t)

	path := filepath.Join(dir, "broken.toml")
	require.NoError(t, os.WriteFile(path, []byte("validation = [\n"), 0o644))
	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidConfig))

	t.Setenv(EnvValidation, "sometimes")
	_, err = LoadConfig("")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidConfig))
}

func TestConfigValidate(t *testing.T) {
	for name, mutate := range map[string]func(*Config){
		"empty vertex path":   func(c *Config) { c.Shaders.VertexPath = "" },
		"empty fragment path": func(c *Config) { c.Shaders.FragmentPath = "" },
		"empty entry point":   func(c *Config) { c.Shaders.EntryPoint = "" },
		"zero width":          func(c *Config) { c.Window.Width = 0 },
		"negative height":     func(c *Config) { c.Window.Height = -1 },
		"no layers":           func(c *Config) { c.Validation = true; c.ValidationLayers = nil },
	} {
		t.Run(name, func(t *testing.T) {
			cfg := DefaultConfig()
			mutate(&cfg)
			assert.True(t, errors.Is(cfg.Validate(), ErrInvalidConfig))
		})
	}
}
