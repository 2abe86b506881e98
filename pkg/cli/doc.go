// Package cli provides the command-line interface for hookd.
//
// Commands:
//   - serve: Run the capture server in the foreground
//   - spaces: List and create spaces
//   - requests: List, inspect, and clear captured requests
//   - config: Read and write a space's response configuration
//   - tail: Follow a space's captures as they arrive
//   - version: Show the hookd version
//
// Client commands talk to a running server at --server (default taken from
// configuration, see pkg/cliconfig). With --json, only JSON is written to
// stdout.
package cli
