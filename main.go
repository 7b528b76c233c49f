package main

import (
	"embed"
	"errors"
	"log/slog"
	"os"

	"streamcounter/internal/config"
	"streamcounter/internal/notify"
	"streamcounter/internal/sessionlog"
	"streamcounter/internal/singleinstance"

	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"
)

//go:embed all:frontend/dist
var assets embed.FS

const (
	minWindowWidth  = 320
	minWindowHeight = 240
)

// logLevel is shared by the stderr handler and live config reloads.
var logLevel = new(slog.LevelVar)

func main() {
	app := NewApp()
	slog.SetDefault(slog.New(sessionlog.NewTeeHandler(
		slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}),
		slog.LevelWarn,
		app.onLogEntry,
	)))

	// Single-instance check BEFORE any Wails/WebView2 initialization.
	// A second window would install a second keyboard hook and double count.
	lock, err := singleinstance.TryLock(singleinstance.DefaultLockName())
	if errors.Is(err, singleinstance.ErrAlreadyRunning) {
		slog.Info("[DEBUG-SINGLE] another instance is already running")
		notify.New(appTitle, true, false).Notify(appTitle, "Stream Counter is already running.")
		return
	}
	if err != nil {
		slog.Warn("[DEBUG-SINGLE] lock creation failed, proceeding without single-instance guard", "error", err)
	}
	if lock != nil {
		defer func() {
			if releaseErr := lock.Release(); releaseErr != nil {
				slog.Warn("[DEBUG-SINGLE] lock release failed", "error", releaseErr)
			}
		}()
	}

	cfg := app.loadConfig(config.DefaultPath())

	err = wails.Run(&options.App{
		Title:       appTitle,
		Width:       cfg.Window.Width,
		Height:      cfg.Window.Height,
		MinWidth:    minWindowWidth,
		MinHeight:   minWindowHeight,
		AlwaysOnTop: cfg.AlwaysOnTop,
		AssetServer: &assetserver.Options{
			Assets:  assets,
			Handler: app.backgroundImageHandler(),
		},
		BackgroundColour: &options.RGBA{R: 255, G: 255, B: 255, A: 1},
		OnStartup:        app.startup,
		OnShutdown:       app.shutdown,
		Bind: []any{
			app,
		},
	})

	if err != nil {
		slog.Error("[ERROR-APP] wails run failed", "error", err)
	}
}
