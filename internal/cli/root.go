package cli

import (
	"context"
	stderrors "errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/rileyhilliard/fwdash/internal/errors"
	"github.com/rileyhilliard/fwdash/internal/ui"
	"github.com/spf13/cobra"
)

var (
	// ErrInterrupted is returned when the dashboard is stopped by a signal.
	ErrInterrupted = stderrors.New("interrupted")

	// ErrChecksFailed is returned by doctor when at least one check failed.
	// The report has already been printed.
	ErrChecksFailed = stderrors.New("checks failed")
)

// Global flags
var (
	cfgFile   string
	logFile   string
	debugFlag bool
	noColor   bool
)

var rootCmd = &cobra.Command{
	Use:   "fwdash",
	Short: "Live health dashboard for an OPNsense firewall",
	Long: `fwdash connects to an OPNsense appliance over SSH and redraws a health
dashboard every second: CPU, memory, state table, mbufs, disks, SMART,
temperatures, interfaces, gateways, services and recent firewall blocks.

It runs until interrupted. Any failure, including a single remote command
returning output it cannot decode, ends the program with a diagnostic dump.

Configuration is read from --config or the user config directory
(e.g. ~/.config/opnsense-dashboard/config.yaml). Create one with 'fwdash init'.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if noColor {
			ui.DisableColors()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return dashboardCommand(cmd.Context())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: user config dir)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "write a diagnostic log to this file")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "log every cycle")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colors")
	rootCmd.SetFlagErrorFunc(flagError)
}

// flagError is shared by every subcommand.
func flagError(cmd *cobra.Command, err error) error {
	return errors.WrapWithCode(err, errors.ErrConfig,
		"Invalid flags for '"+cmd.CommandPath()+"'",
		"Run '"+cmd.CommandPath()+" --help' for usage.")
}

// Execute runs the root command. SIGINT and SIGTERM cancel its context.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

// ExitCode maps an error returned by Execute to a process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case stderrors.Is(err, ErrInterrupted):
		return 130
	case stderrors.Is(err, ErrChecksFailed):
		return 2
	default:
		return 1
	}
}
