package monitor

import (
	"context"
	"time"

	"github.com/rileyhilliard/fwdash/internal/config"
	"github.com/rileyhilliard/fwdash/internal/errors"
	"github.com/rileyhilliard/fwdash/internal/logger"
	"github.com/rileyhilliard/fwdash/internal/probes"
	"github.com/rileyhilliard/fwdash/internal/render"
	"github.com/rileyhilliard/fwdash/internal/sysctl"
)

// DefaultInterval is the pause after each cycle's work.
const DefaultInterval = time.Second

// Options configures a Dashboard. Zero values get defaults.
type Options struct {
	ABI      sysctl.ABI
	Services []config.Service
	Logger   logger.Logger
	Interval time.Duration

	// Now, Sleep and Geometry are seams for tests.
	Now      func() time.Time
	Sleep    func(ctx context.Context, d time.Duration) error
	Geometry func() (render.Geometry, error)
}

// Dashboard polls the appliance and redraws the terminal until an error.
type Dashboard struct {
	session  probes.Session
	renderer *render.Renderer
	opts     Options
	log      logger.Logger

	inv       *Inventory
	collector *Collector
	cycles    int
}

// New creates a dashboard over an open session. Without a Geometry func
// every cycle fails with a TERMINAL error, since nothing can be drawn.
func New(s probes.Session, r *render.Renderer, opts Options) *Dashboard {
	if opts.ABI.Order == nil {
		opts.ABI = sysctl.DefaultABI
	}
	if opts.Logger == nil {
		opts.Logger = logger.Noop()
	}
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Sleep == nil {
		opts.Sleep = sleep
	}
	if opts.Geometry == nil {
		opts.Geometry = unknownGeometry
	}
	return &Dashboard{session: s, renderer: r, opts: opts, log: opts.Logger}
}

// Setup discovers the inventory and prepares the terminal.
func (d *Dashboard) Setup() error {
	inv, err := Discover(d.session, d.opts.ABI)
	if err != nil {
		return err
	}
	d.log.Info("discovered %d gateway interfaces, %d other interfaces, %d gateways, %d disks, %d sensors",
		len(inv.Topology.GatewayInterfaces), len(inv.Topology.OtherInterfaces), len(inv.Topology.Gateways),
		len(inv.Disks), len(inv.Sensors))

	collector, err := NewCollector(d.session, inv, d.opts.Services, d.opts.ABI)
	if err != nil {
		return err
	}

	if err := d.renderer.Start(); err != nil {
		return err
	}
	d.inv, d.collector = inv, collector
	return nil
}

// Inventory returns what Setup discovered, or nil before Setup.
func (d *Dashboard) Inventory() *Inventory {
	return d.inv
}

// Cycle collects one round of telemetry and draws it.
func (d *Dashboard) Cycle() error {
	start := d.opts.Now()

	stats, err := d.collector.Collect(start)
	if err != nil {
		return err
	}

	geom, err := d.opts.Geometry()
	if err != nil {
		return err
	}
	full, err := d.renderer.Render(d.collector.Snapshot(start), geom)
	if err != nil {
		return err
	}

	d.cycles++
	if full {
		d.log.Debug("full redraw at %dx%d", geom.Width, geom.Height)
	}
	d.log.Debug("cycle %d took %s, %d new firewall events", d.cycles, d.opts.Now().Sub(start), stats.FirewallEvents)
	return nil
}

// Run sets up if needed, then cycles until ctx is cancelled or a cycle
// fails. The pause is measured from the end of each cycle, so the period is
// the cycle's duration plus the interval.
func (d *Dashboard) Run(ctx context.Context) error {
	if d.collector == nil {
		if err := d.Setup(); err != nil {
			return err
		}
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := d.Cycle(); err != nil {
			return err
		}
		if err := d.opts.Sleep(ctx, d.opts.Interval); err != nil {
			return err
		}
	}
}

func unknownGeometry() (render.Geometry, error) {
	return render.Geometry{}, errors.New(errors.ErrTerminal,
		"Terminal size is unknown",
		"The dashboard needs an interactive terminal on stdout.")
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
