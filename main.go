/*
Demo application driving the vortex engine with the testbed scene.
*/
package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spaghettifunk/vortex/engine"
	"github.com/spaghettifunk/vortex/engine/config"
	"github.com/spaghettifunk/vortex/engine/core"
	"github.com/spaghettifunk/vortex/testbed"
)

const configPath = "vortex.toml"

func main() {
	cfg, err := config.Load(configPath)
	if err != nil {
		core.LogWarn("could not load %s (%s), using defaults", configPath, err)
		cfg = config.Default()
	}

	e := engine.New(cfg)
	if err := e.Initialize(); err != nil {
		core.LogFatal("engine initialization failed: %s", err.Error())
	}

	if err := e.PushLayer(testbed.NewSceneLayer()); err != nil {
		core.LogFatal(err.Error())
	}

	// Live-reload the log level while the engine runs.
	watcher, err := config.NewWatcher(configPath)
	if err != nil {
		core.LogWarn("config watcher unavailable: %s", err)
	} else {
		watcher.RegisterCallback(func(updated *config.Config) {
			core.SetLogLevel(updated.LogLevel())
		})
		if err := watcher.Start(); err != nil {
			core.LogWarn("config watcher failed to start: %s", err)
		}
		defer watcher.Close()
	}

	// Capture system signals and wind the run loop down cleanly.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)
	go func() {
		<-sigCh
		e.RequestShutdown()
	}()

	if err := e.Run(); err != nil {
		core.LogFatal("engine exited with error: %s", err.Error())
	}
}
