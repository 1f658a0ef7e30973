// Package cli implements the fwdash command-line interface.
//
// # Command Structure
//
//	fwdash              - Connect and run the dashboard until interrupted
//	fwdash init         - Create the config file interactively
//	fwdash topology     - Connect, discover, print what would be monitored
//	fwdash services     - List the built-in services
//	fwdash doctor       - Check config, SSH access and the appliance's tools
//	fwdash version      - Print build information
//
// # Flag Handling
//
// Global flags (--config, --log-file, --debug, --no-color) are defined on
// the root command and available to all subcommands.
//
// # Exit Status
//
// Execute returns the command's error unchanged; ExitCode maps it to a
// status. An interrupt (SIGINT or SIGTERM) while the dashboard runs is
// ErrInterrupted and exits 130 quietly. Failed doctor checks are
// ErrChecksFailed and exit 2, the report already printed. Anything else
// exits 1 and main writes the diagnostic dump to stderr.
package cli
