package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/rileyhilliard/fwdash/internal/config"
	"github.com/rileyhilliard/fwdash/internal/errors"
	"github.com/rileyhilliard/fwdash/internal/logger"
	"github.com/rileyhilliard/fwdash/internal/ui"
	"github.com/rileyhilliard/fwdash/pkg/sshutil"
)

// loadConfig reads the config from --config or the default location.
func loadConfig() (*config.Config, error) {
	path, err := config.Find(cfgFile)
	if err != nil {
		return nil, err
	}
	return config.Load(path)
}

// openLogger opens the log file named by --log-file or log.file.
// --debug and log.level: debug both enable debug entries.
func openLogger(cfg *config.Config) (logger.Logger, io.Closer, error) {
	path := cfg.Log.File
	if logFile != "" {
		path = logFile
	}

	log, closer, err := logger.Open(path, debugFlag || cfg.Debug())
	if err != nil {
		return nil, nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Couldn't open the log file",
			"Check that the directory exists and is writable, or drop --log-file.")
	}
	return log, closer, nil
}

func dialOptions(cfg *config.Config) sshutil.DialOptions {
	return sshutil.DialOptions{
		User:                  cfg.SSH.Username,
		IdentityComment:       cfg.SSH.IdentityComment,
		Timeout:               cfg.SSH.Timeout,
		StrictHostKeyChecking: cfg.SSH.StrictHostKeyChecking,
	}
}

// connect dials the appliance. With progress set, a spinner runs on stderr
// while the handshake is in flight.
func connect(cfg *config.Config, log logger.Logger, progress bool) (*sshutil.Client, error) {
	var spinner *ui.Spinner
	if progress {
		spinner = ui.NewSpinner(fmt.Sprintf("Connecting to %s", cfg.SSH.Hostname))
		spinner.SetOutput(func(s string) { fmt.Fprint(os.Stderr, s) })
		spinner.Start()
	}

	client, err := sshutil.Dial(cfg.SSH.Hostname, dialOptions(cfg))
	if err != nil {
		if spinner != nil {
			spinner.Fail()
		}
		return nil, err
	}
	if spinner != nil {
		spinner.Success()
	}

	log.Info("connected to %s (%s) as %s", client.GetHost(), client.GetAddress(), cfg.SSH.Username)
	return client, nil
}

// disconnect closes the session and the agent connection it may have opened.
func disconnect(client *sshutil.Client) {
	client.Close()
	sshutil.CloseAgent()
}
