package cli

import (
	"fmt"
	"io"

	"github.com/rileyhilliard/fwdash/internal/config"
	"github.com/spf13/cobra"
)

var servicesCmd = &cobra.Command{
	Use:   "services",
	Short: "List the built-in services",
	Long: `List the service names accepted under services.builtin, with the pid file
or command line used to check that each one is running.

Anything else can be watched with a services.custom entry:

  services:
    custom:
      - name: haproxy
        pidfile: /var/run/haproxy.pid`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		listServices(cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(servicesCmd)
}

func listServices(w io.Writer) {
	all := config.BuiltinServices()
	width := 0
	for _, svc := range all {
		width = max(width, len(svc.Name))
	}
	for _, svc := range all {
		if svc.PidFile != "" {
			fmt.Fprintf(w, "%-*s  pidfile %s\n", width, svc.Name, svc.PidFile)
		} else {
			fmt.Fprintf(w, "%-*s  cmdline ^%s\n", width, svc.Name, svc.Cmdline)
		}
	}
}
