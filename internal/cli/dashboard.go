package cli

import (
	"context"
	stderrors "errors"
	"io"
	"os"

	"github.com/muesli/termenv"
	"github.com/rileyhilliard/fwdash/internal/errors"
	"github.com/rileyhilliard/fwdash/internal/monitor"
	"github.com/rileyhilliard/fwdash/internal/render"
	"golang.org/x/term"
)

func dashboardCommand(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	services, err := cfg.ResolveServices()
	if err != nil {
		return err
	}
	abi, err := cfg.SysctlABI()
	if err != nil {
		return err
	}

	log, closer, err := openLogger(cfg)
	if err != nil {
		return err
	}
	defer closer.Close()

	client, err := connect(cfg, log, false)
	if err != nil {
		log.Error("connect failed: %v", err)
		return err
	}
	defer disconnect(client)

	renderer := render.New(os.Stdout, colorProfile(os.Stdout, noColor))
	dash := monitor.New(client, renderer, monitor.Options{
		ABI:      abi,
		Services: services,
		Logger:   log,
		Geometry: terminalGeometry(int(os.Stdout.Fd())),
	})

	err = dash.Run(ctx)
	if dash.Inventory() != nil {
		// The terminal was prepared; give auto-wrap back whatever happened.
		if stopErr := renderer.Stop(); err == nil {
			err = stopErr
		}
	}

	if ctx.Err() != nil && stderrors.Is(err, context.Canceled) {
		log.Info("interrupted")
		return ErrInterrupted
	}
	if err != nil {
		log.Error("dashboard stopped: %v", err)
	}
	return err
}

// colorProfile picks the escape profile for the dashboard frame.
func colorProfile(w io.Writer, disabled bool) termenv.Profile {
	if disabled {
		return termenv.Ascii
	}
	return termenv.NewOutput(w).EnvColorProfile()
}

func terminalGeometry(fd int) func() (render.Geometry, error) {
	return func() (render.Geometry, error) {
		width, height, err := term.GetSize(fd)
		if err != nil {
			return render.Geometry{}, errors.WrapWithCode(err, errors.ErrTerminal,
				"Couldn't read the terminal size",
				"fwdash draws a full-screen dashboard; run it in an interactive terminal.")
		}
		return render.Geometry{Width: width, Height: height}, nil
	}
}
