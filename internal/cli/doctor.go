package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rileyhilliard/fwdash/internal/config"
	"github.com/rileyhilliard/fwdash/internal/doctor"
	"github.com/rileyhilliard/fwdash/internal/logger"
	"github.com/rileyhilliard/fwdash/internal/probes"
	"github.com/rileyhilliard/fwdash/internal/sysctl"
	"github.com/rileyhilliard/fwdash/internal/ui"
	"github.com/spf13/cobra"
)

var doctorJSON bool

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Diagnose config, SSH and appliance issues",
	Long: `Run diagnostic checks against the config and the firewall:

  - the config file loads and validates
  - an SSH agent is reachable
  - the appliance accepts the connection
  - every remote tool the dashboard runs is installed
  - /conf/config.xml parses into interfaces and gateways
  - the configured sysctl ABI decodes plausible values
  - dpinger reports on every configured gateway

Exits 2 when any check fails.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return doctorCommand(cmd.OutOrStdout())
	},
}

func init() {
	doctorCmd.Flags().BoolVar(&doctorJSON, "json", false, "output in JSON format")
	rootCmd.AddCommand(doctorCmd)
}

// DoctorOutput is the JSON form of a doctor run.
type DoctorOutput struct {
	Results []doctor.CheckResult `json:"results"`
	Summary SummaryOutput        `json:"summary"`
}

// SummaryOutput counts results by status.
type SummaryOutput struct {
	Pass     int  `json:"pass"`
	Warn     int  `json:"warn"`
	Fail     int  `json:"fail"`
	AllClear bool `json:"all_clear"`
}

func doctorCommand(w io.Writer) error {
	results := runDoctor()

	var err error
	if doctorJSON {
		err = writeDoctorJSON(w, results)
	} else {
		writeDoctorText(w, results)
	}
	if err != nil {
		return err
	}

	if doctor.HasFailures(results) {
		return ErrChecksFailed
	}
	return nil
}

// runDoctor runs the local checks, then the remote ones if the config loads
// and the appliance accepts the connection.
func runDoctor() []doctor.CheckResult {
	path, err := config.Find(cfgFile)
	if err != nil {
		return []doctor.CheckResult{failed("config", "CONFIG", err)}
	}

	cfgCheck := &doctor.ConfigCheck{Path: path}
	results := doctor.RunAll([]doctor.Check{cfgCheck})
	if doctor.HasFailures(results) {
		return append(results, doctor.RunAll([]doctor.Check{&doctor.SSHAgentCheck{}})...)
	}

	cfg, err := config.Load(path)
	if err != nil {
		return append(results, failed("config", "CONFIG", err))
	}
	results = append(results, doctor.RunAll([]doctor.Check{
		&doctor.SSHAgentCheck{IdentityComment: cfg.SSH.IdentityComment},
	})...)

	abi, err := cfg.SysctlABI()
	if err != nil {
		return append(results, failed("sysctl_abi", "CONFIG", err))
	}

	log, closer, err := openLogger(cfg)
	if err != nil {
		return append(results, failed("log_file", "CONFIG", err))
	}
	defer closer.Close()

	client, err := connect(cfg, log, !doctorJSON)
	if err != nil {
		return append(results, failed("ssh_connect", "SSH", err))
	}
	defer disconnect(client)
	results = append(results, doctor.CheckResult{
		Name:     "ssh_connect",
		Category: "SSH",
		Status:   doctor.StatusPass,
		Message:  fmt.Sprintf("Connected to %s as %s", client.GetAddress(), cfg.SSH.Username),
	})

	return append(results, remoteChecks(client, abi, log)...)
}

// remoteChecks runs the appliance checks over one session. The gateway
// check needs the topology, so it only runs once that check has passed.
func remoteChecks(s probes.Session, abi sysctl.ABI, log logger.Logger) []doctor.CheckResult {
	topo := &doctor.TopologyCheck{Session: s}
	results := doctor.RunAll([]doctor.Check{
		&doctor.ToolsCheck{Session: s},
		topo,
		&doctor.SysctlABICheck{Session: s, ABI: abi},
	})
	if topo.Topology != nil {
		results = append(results, doctor.RunAll([]doctor.Check{
			&doctor.GatewayCheck{Session: s, Gateways: topo.Topology.Gateways},
		})...)
	}

	for _, r := range results {
		log.Info("doctor %s: %s: %s", r.Name, r.Status, r.Message)
	}
	return results
}

func failed(name, category string, err error) doctor.CheckResult {
	line, _, _ := strings.Cut(err.Error(), "\n")
	return doctor.CheckResult{
		Name:     name,
		Category: category,
		Status:   doctor.StatusFail,
		Message:  strings.TrimPrefix(line, ui.SymbolFail+" "),
	}
}

func writeDoctorJSON(w io.Writer, results []doctor.CheckResult) error {
	counts := doctor.CountByStatus(results)
	out := DoctorOutput{
		Results: results,
		Summary: SummaryOutput{
			Pass:     counts[doctor.StatusPass],
			Warn:     counts[doctor.StatusWarn],
			Fail:     counts[doctor.StatusFail],
			AllClear: counts[doctor.StatusWarn]+counts[doctor.StatusFail] == 0,
		},
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func writeDoctorText(w io.Writer, results []doctor.CheckResult) {
	successStyle := lipgloss.NewStyle().Foreground(ui.ColorSuccess)
	errorStyle := lipgloss.NewStyle().Foreground(ui.ColorError)
	warnStyle := lipgloss.NewStyle().Foreground(ui.ColorWarning)
	mutedStyle := lipgloss.NewStyle().Foreground(ui.ColorMuted)
	headerStyle := lipgloss.NewStyle().Bold(true)

	fmt.Fprintln(w)
	fmt.Fprintln(w, headerStyle.Render("fwdash Diagnostic Report"))

	category := ""
	for _, r := range results {
		if r.Category != category {
			category = r.Category
			fmt.Fprintln(w)
			fmt.Fprintln(w, headerStyle.Render(category))
		}

		symbol, style := ui.SymbolSuccess, successStyle
		switch r.Status {
		case doctor.StatusWarn:
			symbol, style = ui.SymbolPending, warnStyle
		case doctor.StatusFail:
			symbol, style = ui.SymbolFail, errorStyle
		}
		fmt.Fprintf(w, "  %s %s\n", style.Render(symbol), r.Message)

		if r.Suggestion != "" && r.Status != doctor.StatusPass {
			for _, line := range strings.Split(r.Suggestion, "\n") {
				fmt.Fprintf(w, "    %s\n", mutedStyle.Render(line))
			}
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, strings.Repeat("━", 60))
	counts := doctor.CountByStatus(results)
	symbol, style := ui.SymbolSuccess, successStyle
	if counts[doctor.StatusWarn]+counts[doctor.StatusFail] > 0 {
		symbol, style = ui.SymbolFail, errorStyle
	}
	fmt.Fprintf(w, "%s %s\n", style.Render(symbol), doctor.Summary(results))
}
