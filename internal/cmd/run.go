package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Alia5/stratapad/controller"
	"github.com/Alia5/stratapad/dispatch"
	"github.com/Alia5/stratapad/identify"
	"github.com/Alia5/stratapad/input"
	"github.com/Alia5/stratapad/internal/configpaths"
	"github.com/Alia5/stratapad/internal/log"
	"github.com/Alia5/stratapad/internal/notify"
	"github.com/Alia5/stratapad/internal/server/api"
	"github.com/Alia5/stratapad/internal/server/api/handler"
	"github.com/Alia5/stratapad/internal/tray"
	"github.com/Alia5/stratapad/loadout"
	"github.com/Alia5/stratapad/screen"
	"github.com/Alia5/stratapad/stratagem"
)

// IconsDirName is the icon library directory inside the data dir.
const IconsDirName = "icons"

// Run starts the macro engine.
type Run struct {
	DataDir       string           `help:"Directory for the icon library and the persisted loadout (default: per-user data dir)" type:"path" env:"STRATAPAD_DATA_DIR"`
	IconsDir      string           `help:"Icon library directory (default: <data-dir>/icons)" type:"path" env:"STRATAPAD_ICONS_DIR"`
	LoadoutFile   string           `help:"Persisted loadout file (default: <data-dir>/CurrentStratagems.json)" type:"path" env:"STRATAPAD_LOADOUT_FILE"`
	Definitions   string           `help:"Definition library replacing the bundled one (.json, .yaml or .toml)" type:"existingfile" env:"STRATAPAD_DEFINITIONS"`
	API           api.ServerConfig `embed:"" prefix:"api."`
	Tray          bool             `help:"Show the system tray icon" default:"true" negatable:"" env:"STRATAPAD_TRAY"`
	Notify        bool             `help:"Notify about unrecognized loadout icons" default:"true" negatable:"" env:"STRATAPAD_NOTIFY"`
	DebugCaptures string           `help:"Save every resync capture and its icons to this directory" type:"path" env:"STRATAPAD_DEBUG_CAPTURES"`
	Display       int              `help:"Index of the display to capture" default:"0" env:"STRATAPAD_DISPLAY"`
	Controller    uint32           `help:"XInput user index of the controller (0-3)" default:"0" env:"STRATAPAD_CONTROLLER"`
	PollInterval  time.Duration    `help:"Controller poll interval" default:"8ms" env:"STRATAPAD_POLL_INTERVAL"`
}

// Paths are the resolved on-disk locations used by Run.
type Paths struct {
	DataDir     string
	IconsDir    string
	LoadoutFile string
}

// ResolvePaths fills unset locations from the data dir.
func (r *Run) ResolvePaths() (Paths, error) {
	p := Paths{DataDir: r.DataDir, IconsDir: r.IconsDir, LoadoutFile: r.LoadoutFile}
	if p.DataDir == "" {
		dir, err := configpaths.DataDir()
		if err != nil {
			return p, fmt.Errorf("data dir: %w", err)
		}
		p.DataDir = dir
	}
	if p.IconsDir == "" {
		p.IconsDir = filepath.Join(p.DataDir, IconsDirName)
	}
	if p.LoadoutFile == "" {
		p.LoadoutFile = filepath.Join(p.DataDir, loadout.StoreFileName)
	}
	return p, nil
}

// Run is called by Kong when the run command is executed.
func (r *Run) Run(logger *slog.Logger, rawLogger log.RawLogger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	paths, err := r.ResolvePaths()
	if err != nil {
		return err
	}
	lib, err := loadDefinitions(r.Definitions)
	if err != nil {
		return err
	}
	icons, err := identify.LoadLibrary(paths.IconsDir, logger.With("component", "identify"))
	if err != nil {
		return err
	}
	logger.Info("Starting stratapad", "definitions", lib.Len(), "icons", icons.Len(), "dataDir", paths.DataDir)

	var onPlaceholders func([]identify.Placeholder)
	if r.Notify {
		onPlaceholders = notify.Placeholders(notify.Desktop, logger.With("component", "notify"))
	}
	e := dispatch.NewEngine(dispatch.Deps{
		Library:        lib,
		Store:          loadout.NewStore(paths.LoadoutFile),
		Emitter:        input.NewSendInput(logger.With("component", "input")),
		Capturer:       screen.NewDisplay(r.Display),
		Identifier:     identify.NewIdentifier(icons, logger.With("component", "identify")),
		OnPlaceholders: onPlaceholders,
		DebugDir:       r.DebugCaptures,
	}, logger)
	defer e.Close()
	if err := e.Restore(); err != nil {
		logger.Warn("Failed to restore loadout", "file", paths.LoadoutFile, "error", err)
	}

	g, gctx := errgroup.WithContext(ctx)

	poller := controller.NewPoller(controller.NewXInput(r.Controller), r.PollInterval, e.Handle, logger.With("component", "controller"), rawLogger)
	g.Go(func() error { return poller.Run(gctx) })

	if r.API.Addr != "" {
		srv := api.New(r.API.Addr, r.API, logger.With("component", "api"))
		handler.Register(srv.Router(), e)
		g.Go(func() error { return srv.Run(gctx) })
	}

	if r.Tray {
		t := tray.New(e, cancel, logger.With("component", "tray"))
		g.Go(func() error { return t.Run(gctx) })
	}

	err = g.Wait()
	logger.Info("stratapad stopped")
	return err
}

func loadDefinitions(path string) (*stratagem.Library, error) {
	if path == "" {
		return stratagem.LoadBundled()
	}
	return stratagem.LoadFile(path)
}
