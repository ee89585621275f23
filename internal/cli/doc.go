// Package cli implements the hostprep command-line interface.
//
// The package is organized around Cobra commands, with each command
// delegating to a small xxxCommand function for the actual work. The
// general structure follows a clean separation between:
//
//   - Command definitions (cobra.Command instances in commands.go)
//   - Per-command orchestration (hostnameCommand, keysCommand, ...)
//   - Implementation details (in other internal packages)
//
// # Command Structure
//
// The root command is "hostprep" with subcommands for the different
// provisioning jobs:
//
//	hostprep hostname <name>  - Set and persist the machine hostname
//	hostprep keys             - Install SSH public keys locally
//	hostprep push [target]    - Push SSH keys to a remote host
//	hostprep doctor           - Diagnose host and tool issues
//	hostprep init             - Create a starter config file
//	hostprep update           - Check for a newer release
//
// # Output Modes
//
// Every command has two output paths. The default is styled human
// output: spinners and checklists while work is in flight, then a
// change report. With --json, commands instead print a single
// machine-readable envelope on stdout:
//
//	{"success": true, "data": {...}}
//	{"success": false, "error": {"code": "...", "message": "...", "suggestion": "..."}}
//
// Errors funnel through Execute, which renders the envelope for
// machine mode and a plain message otherwise. Exit status is 1 on any
// error, and also when doctor finds a failing check.
//
// # Flag Handling
//
// Global flags (--config, --json, --no-color) are defined on the root
// command and available to all subcommands. Command-specific flags are
// registered in the single init block in commands.go, next to the
// commands they belong to.
package cli
