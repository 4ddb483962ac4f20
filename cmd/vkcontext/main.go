package main

import (
	"flag"
	"runtime"

	"github.com/cockroachdb/errors"
	"github.com/sirupsen/logrus"
	"github.com/veandco/go-sdl2/sdl"

	"github.com/vkngwrapper/vkcontext/render"
	"github.com/vkngwrapper/vkcontext/sdlwindow"
)

func init() {
	runtime.LockOSThread()
}

func run(configPath string) error {
	cfg, err := render.LoadConfig(configPath)
	if err != nil {
		return err
	}

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return errors.Mark(errors.Wrapf(err, "log_level %q", cfg.LogLevel), render.ErrInvalidConfig)
	}
	logrus.SetLevel(level)

	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		return errors.Wrap(err, "initializing SDL")
	}
	defer sdl.Quit()

	window, err := sdlwindow.Open(cfg.Window)
	if err != nil {
		return err
	}
	defer window.Destroy()

	loader, err := window.Loader()
	if err != nil {
		return err
	}

	ctx := render.NewContext(loader, window, cfg, render.WithLogger(logrus.NewEntry(logrus.StandardLogger())))
	defer ctx.Teardown()

	if err := ctx.Initialize(); err != nil {
		return err
	}

	for _, timing := range ctx.StageTimings() {
		logrus.WithFields(logrus.Fields{
			"stage":   timing.State,
			"elapsed": timing.Elapsed,
		}).Info("stage timing")
	}

	mainLoop()
	return nil
}

func mainLoop() {
appLoop:
	for {
		for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
			switch e := event.(type) {
			case *sdl.QuitEvent:
				break appLoop
			case *sdl.KeyboardEvent:
				if e.Keysym.Sym == sdl.K_ESCAPE {
					break appLoop
				}
			}
		}
		sdl.Delay(16)
	}
}

func main() {
	configPath := flag.String("config", "vkcontext.toml", "path to the TOML configuration file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		logrus.Fatalf("%+v", err)
	}
}
