package main

import (
	"context"
	"sync"
	"sync/atomic"

	"streamcounter/internal/config"
	"streamcounter/internal/counter"
	"streamcounter/internal/dispatch"
	"streamcounter/internal/hotkeys"
	"streamcounter/internal/keysource"
	"streamcounter/internal/notify"
	"streamcounter/internal/sessionlog"
	"streamcounter/internal/workerutil"
)

const alertQueueCapacity = 16

// alerter is the part of *notify.Notifier the app uses.
type alerter interface {
	Notify(title, message string) bool
	Cue(op counter.Op) bool
	SetEnabled(enabled bool)
	SetBeep(enabled bool)
}

// App is the Wails-bound application service.
type App struct {
	// Runtime context lifecycle.
	ctx   context.Context
	ctxMu sync.RWMutex

	// Configuration state and startup warnings.
	// Lock ordering (outer -> inner): cfgSaveMu -> cfgMu.
	cfgMu              sync.RWMutex
	cfgSaveMu          sync.Mutex
	cfg                config.Config
	configPath         string
	settingsPath       string
	configEventVersion atomic.Uint64
	startupWarnMu      sync.Mutex
	configLoadWarnings []string

	// Domain state. store and engine are created in NewApp and never
	// reassigned; both are safe for concurrent use.
	store    *counter.Store
	engine   *hotkeys.Engine
	uiQueue  *dispatch.Queue[hotkeys.Message]
	listener *keysource.Listener
	notifier alerter
	// alerts runs notifier calls off the ui-dispatch worker; beeps and
	// desktop notifications can take hundreds of milliseconds.
	alerts *dispatch.Queue[func()]

	// settingsDirty is set by every mutation and cleared by a successful save.
	settingsDirty atomic.Bool
	settingsMu    sync.Mutex

	// hookRunning reports whether the OS keyboard hook is delivering events.
	hookRunning atomic.Bool

	logHistory *sessionlog.History

	shuttingDown atomic.Bool
	workers      *workerutil.Group
}

// NewApp creates the app service with default state. startup replaces the
// state with the persisted settings.
func NewApp() *App {
	a := &App{
		cfg:        config.DefaultConfig(),
		store:      counter.NewStore(counter.DefaultSnapshot()),
		uiQueue:    dispatch.NewQueue[hotkeys.Message]("ui", dispatch.DefaultCapacity),
		listener:   keysource.NewListener(),
		notifier:   notify.New(appTitle, true, false),
		alerts:     dispatch.NewQueue[func()]("alerts", alertQueueCapacity),
		logHistory: sessionlog.NewHistory(sessionlog.DefaultHistorySize),
	}
	a.engine = hotkeys.NewEngine(hotkeys.SinkFunc(a.postEngineMessage), hotkeys.DefaultBindings())
	return a
}

func (a *App) setRuntimeContext(ctx context.Context) {
	a.ctxMu.Lock()
	a.ctx = ctx
	a.ctxMu.Unlock()
}

func (a *App) runtimeContext() context.Context {
	a.ctxMu.RLock()
	ctx := a.ctx
	a.ctxMu.RUnlock()
	return ctx
}

// postEngineMessage is the engine's sink. It runs on the key listener
// goroutine and must not block.
func (a *App) postEngineMessage(msg hotkeys.Message) {
	a.uiQueue.Post(msg)
}

// postAlert queues a notifier call for the alerts worker. A full queue drops
// the call.
func (a *App) postAlert(fn func()) {
	a.alerts.Post(fn)
}
