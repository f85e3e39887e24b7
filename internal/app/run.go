package app

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/specialistvlad/ghostview/internal/ctxlog"
	"github.com/specialistvlad/ghostview/internal/dotexport"
	"github.com/specialistvlad/ghostview/internal/model"
	"github.com/specialistvlad/ghostview/internal/publish"
	"github.com/specialistvlad/ghostview/internal/sharva"
)

// Run executes the library's step script against the diagram, publishing
// each committed delta, and writes the DOT export when configured.
func (a *App) Run(ctx context.Context) (err error) {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.ctx = ctx
	a.logger.Debug("App.Run method started.")

	a.startHealthCheckServer()
	defer func() {
		err = errors.Join(err, a.closeHealthCheckServer())
	}()

	pub, err := a.publisher(ctx)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, pub.Close())
	}()

	a.logger.Info("🚀 Running diagram script...", "steps", len(a.library.Steps), "mode", a.config.Mode.String())
	for i, step := range a.library.Steps {
		delta, err := a.runStep(ctx, step)
		if err != nil {
			return fmt.Errorf("step %d (%s %s, %s): %w", i, step.Action, step.Deduction, step.FSInformation, err)
		}
		if err := pub.Publish(ctx, delta); err != nil {
			return fmt.Errorf("failed to publish delta: %w", err)
		}
		a.cycles.Add(1)
	}
	a.logger.Info("🏁 Script finished.", "cycles", a.cycles.Load(), "open", a.diagram.OpenDeductions())

	if a.config.DotOut != "" {
		if err := a.writeDOT(); err != nil {
			return err
		}
	}
	a.logger.Debug("App.Run method finished.")
	return nil
}

func (a *App) runStep(ctx context.Context, step *model.Step) (*sharva.Delta, error) {
	switch step.Action {
	case model.ActionOpen:
		return a.diagram.Open(ctx, step.Deduction)
	case model.ActionClose:
		return a.diagram.Close(ctx, step.Deduction)
	default:
		return nil, fmt.Errorf("unknown action '%s'", step.Action)
	}
}

// publisher assembles the JSON lines output and, when configured, the
// socket.io rendering client.
func (a *App) publisher(ctx context.Context) (publish.Publisher, error) {
	pubs := publish.Multi{publish.NewJSONLines(a.outW)}
	if a.config.PublishURL == "" {
		return pubs, nil
	}
	sio, err := a.dialSocketIO(ctx, publish.SocketIOConfig{
		URL:                a.config.PublishURL,
		Namespace:          a.config.PublishNamespace,
		Event:              a.config.PublishEvent,
		InsecureSkipVerify: a.config.InsecureSkipVerify,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect publisher: %w", err)
	}
	return append(pubs, sio), nil
}

func (a *App) writeDOT() error {
	src, err := dotexport.ExportDOT(a.diagram.Forest(), "ghostview")
	if err != nil {
		return fmt.Errorf("failed to export DOT: %w", err)
	}
	if err := os.WriteFile(a.config.DotOut, []byte(src), 0o644); err != nil {
		return fmt.Errorf("failed to write DOT file: %w", err)
	}
	a.logger.Info("DOT export written.", "path", a.config.DotOut)
	return nil
}
