package cli

import (
	stderrors "errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/rileyhilliard/fwdash/internal/config"
	"github.com/rileyhilliard/fwdash/internal/errors"
	"github.com/rileyhilliard/fwdash/internal/ui"
	"github.com/rileyhilliard/fwdash/pkg/sshutil"
	"github.com/spf13/cobra"
)

var initForce bool

// defaultServices are preselected in the init form.
var defaultServices = []string{"configd", "ntpd", "openssh", "unbound"}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the config file",
	Long: `Create the fwdash config file interactively.

Pick the firewall from the hosts in ~/.ssh/config (or type it), then choose
the services to watch. The file is written to --config or the user config
directory.

Examples:
  fwdash init
  fwdash init --config ./fw.yaml
  fwdash init --force`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return initCommand(initForce)
	},
}

func init() {
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "overwrite an existing config")
	rootCmd.AddCommand(initCmd)
}

// initAnswers is what the init prompts collect.
type initAnswers struct {
	Host            string
	Username        string
	IdentityComment string
	Services        []string
	LogFile         string
}

// newInitAnswers seeds the prompts, from the picked ~/.ssh/config host if any.
func newInitAnswers(picked *sshutil.HostEntry) initAnswers {
	a := initAnswers{
		Username: "root",
		Services: append([]string(nil), defaultServices...),
	}
	if picked != nil {
		a.Host = picked.Alias
		if picked.User != "" {
			a.Username = picked.User
		}
	}
	return a
}

// config turns the answers into a config with defaults for everything else.
func (a initAnswers) config() *config.Config {
	cfg := config.DefaultConfig()
	cfg.SSH.Hostname = strings.TrimSpace(a.Host)
	cfg.SSH.Username = strings.TrimSpace(a.Username)
	cfg.SSH.IdentityComment = strings.TrimSpace(a.IdentityComment)
	cfg.Services.Builtin = append([]string(nil), a.Services...)
	cfg.Log.File = strings.TrimSpace(a.LogFile)
	return cfg
}

func required(what string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", what)
		}
		return nil
	}
}

func initCommand(force bool) error {
	path, err := config.Find(cfgFile)
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); err == nil && !force {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Config already exists: %s", path),
			"Use --force to overwrite it.")
	}

	hosts, err := sshutil.KnownHosts()
	if err != nil {
		return err
	}
	picked, cancelled, err := ui.PickHost(hosts, os.Stdout, os.Stdin)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, "Host picker failed", "")
	}
	if cancelled {
		fmt.Println("Cancelled.")
		return nil
	}

	answers := newInitAnswers(picked)
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Firewall SSH host").
				Description("hostname, host:port or an ~/.ssh/config alias").
				Placeholder("192.168.1.1").
				Value(&answers.Host).
				Validate(required("host")),
			huh.NewInput().
				Title("SSH user").
				Value(&answers.Username).
				Validate(required("user")),
			huh.NewInput().
				Title("Agent key comment (optional)").
				Description("Only offer the ssh-agent key with this comment").
				Value(&answers.IdentityComment),
		),
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title("Services to watch").
				Options(huh.NewOptions(config.BuiltinServiceNames()...)...).
				Value(&answers.Services),
			huh.NewInput().
				Title("Log file (optional)").
				Placeholder("leave empty to disable logging").
				Value(&answers.LogFile),
		),
	)
	if err := form.Run(); err != nil {
		if stderrors.Is(err, huh.ErrUserAborted) {
			fmt.Println("Cancelled.")
			return nil
		}
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Couldn't read your answers",
			"Edit the config file by hand instead; see 'fwdash --help' for its location.")
	}

	if err := config.Save(path, answers.config(), force); err != nil {
		return err
	}

	ok := lipgloss.NewStyle().Foreground(ui.ColorSuccess).Render(ui.SymbolSuccess)
	fmt.Printf("%s Wrote %s\n", ok, path)
	fmt.Println("Run 'fwdash topology' to check the connection.")
	return nil
}
