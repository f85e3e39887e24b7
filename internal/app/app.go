package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync/atomic"

	"github.com/specialistvlad/ghostview/internal/ctxlog"
	"github.com/specialistvlad/ghostview/internal/diagram"
	"github.com/specialistvlad/ghostview/internal/ghostbuster"
	"github.com/specialistvlad/ghostview/internal/model"
	"github.com/specialistvlad/ghostview/internal/node"
	"github.com/specialistvlad/ghostview/internal/publish"
)

// Loader reads diagram files into a library.
type Loader interface {
	Load(ctx context.Context, paths ...string) (*model.Library, error)
}

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW       io.Writer
	ctx        context.Context
	logger     *slog.Logger
	config     *Config
	library    *model.Library
	diagram    *diagram.Diagram
	httpServer *http.Server
	cycles     atomic.Int64

	// dialSocketIO connects the optional rendering client publisher.
	dialSocketIO func(ctx context.Context, cfg publish.SocketIOConfig) (publish.Publisher, error)
}

// NewApp is the constructor for the main application. Deltas are written to
// outW and logs to logW. A failure to load the diagram library is a fatal
// startup error and panics.
func NewApp(outW, logW io.Writer, cfg *Config, loader Loader) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	lib, err := loader.Load(ctx, cfg.Paths...)
	if err != nil {
		panic(fmt.Errorf("failed to load diagram library: %w", err))
	}
	logger.Debug("Diagram library loaded.", "deductions", len(lib.Deductions), "steps", len(lib.Steps))

	a := &App{
		outW:    outW,
		ctx:     ctx,
		logger:  logger,
		config:  cfg,
		library: lib,
		dialSocketIO: func(ctx context.Context, cfg publish.SocketIOConfig) (publish.Publisher, error) {
			return publish.DialSocketIO(ctx, cfg)
		},
	}
	a.diagram = diagram.New(lib, cfg.Mode, diagram.WithListener(ghostbuster.ListenerFuncs{
		OnGhostsVisible: a.onGhostsVisible,
		OnUnghosted:     a.onUnghosted,
	}))
	return a
}

// Diagram returns the application's diagram. This is primarily for testing.
func (a *App) Diagram() *diagram.Diagram {
	return a.diagram
}

// Cycles returns the number of committed cycles so far.
func (a *App) Cycles() int64 {
	return a.cycles.Load()
}

func (a *App) onGhostsVisible(ghosts []*node.Node) {
	if len(ghosts) == 0 {
		return
	}
	uids := make([]string, 0, len(ghosts))
	for _, g := range ghosts {
		uids = append(uids, g.UID())
	}
	a.logger.Info("👻 Ghosts visible.", "uids", uids)
}

func (a *App) onUnghosted(uids []string) {
	a.logger.Info("Real nodes no longer ghosted.", "uids", uids)
}
