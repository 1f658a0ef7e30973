package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/rileyhilliard/fwdash/internal/config"
	"github.com/rileyhilliard/fwdash/internal/logger"
	"github.com/rileyhilliard/fwdash/internal/monitor"
	"github.com/rileyhilliard/fwdash/internal/probes"
	"github.com/rileyhilliard/fwdash/internal/sysctl"
	"github.com/rileyhilliard/fwdash/internal/ui"
	"github.com/spf13/cobra"
)

var topologyCmd = &cobra.Command{
	Use:   "topology",
	Short: "Show what the dashboard would monitor",
	Long: `Connect to the firewall, run discovery once and print the result:
version, interfaces, gateways, configured services, temperature sensors and
disks. Useful to check the config and SSH access before starting the dashboard.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return topologyCommand()
	},
}

func init() {
	rootCmd.AddCommand(topologyCmd)
}

func topologyCommand() error {
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

	client, err := connect(cfg, log, true)
	if err != nil {
		return err
	}
	defer disconnect(client)

	inv, err := discover(client, abi, log)
	if err != nil {
		return err
	}

	fmt.Print(topologyReport(client.GetHost(), inv, services).Render())
	return nil
}

func discover(s probes.Session, abi sysctl.ABI, log logger.Logger) (*monitor.Inventory, error) {
	spinner := ui.NewSpinner("Discovering")
	spinner.SetOutput(func(line string) { fmt.Fprint(os.Stderr, line) })
	spinner.Start()

	inv, err := monitor.Discover(s, abi)
	if err != nil {
		spinner.Fail()
		return nil, err
	}
	spinner.Success()

	log.Info("discovered %d interfaces, %d gateways, %d disks, %d sensors",
		len(inv.Topology.Interfaces()), len(inv.Topology.Gateways), len(inv.Disks), len(inv.Sensors))
	return inv, nil
}

// topologyReport lays out a discovered inventory for printing.
func topologyReport(host string, inv *monitor.Inventory, services []config.Service) ui.Report {
	system := ui.Section{
		Heading: "System",
		Rows: []ui.Row{
			{Key: "OS", Value: inv.OS},
			{Key: "Booted", Value: inv.Startup.BootTime.UTC().Format(time.RFC3339)},
			{Key: "Memory", Value: fmt.Sprintf("%d MiB", inv.Startup.PhysMem/1_048_576)},
		},
	}

	ifaces := ui.Section{Heading: "Interfaces", Empty: "none configured"}
	for _, name := range inv.Topology.GatewayInterfaces {
		ifaces.Rows = append(ifaces.Rows, ui.Row{Key: name, Value: "gateway, firewall log watched"})
	}
	for _, name := range inv.Topology.OtherInterfaces {
		ifaces.Rows = append(ifaces.Rows, ui.Row{Key: name})
	}

	gateways := ui.Section{Heading: "Gateways", Empty: "none configured"}
	for _, name := range inv.Topology.Gateways {
		gateways.Rows = append(gateways.Rows, ui.Row{Key: name})
	}

	svcs := ui.Section{Heading: "Services", Empty: "none configured"}
	for _, svc := range services {
		check := "pidfile " + svc.PidFile
		if svc.PidFile == "" {
			check = "cmdline ^" + svc.Cmdline
		}
		svcs.Rows = append(svcs.Rows, ui.Row{Key: svc.Name, Value: check})
	}

	sensors := ui.Section{Heading: "Temperature sensors", Empty: "none found"}
	for _, name := range inv.Sensors {
		sensors.Rows = append(sensors.Rows, ui.Row{Key: name})
	}

	disks := ui.Section{Heading: "Disks", Empty: "none found"}
	for _, d := range inv.Disks {
		disks.Rows = append(disks.Rows, ui.Row{Key: d.Name, Value: d.Serial})
	}

	return ui.Report{
		Title:    fmt.Sprintf("%s %s-%s on %s", inv.Product.Name, inv.Product.Version, inv.Product.Arch, host),
		Sections: []ui.Section{system, ifaces, gateways, svcs, sensors, disks},
	}
}
