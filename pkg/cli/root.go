package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/getmockd/hookd/pkg/cli/internal/output"
	"github.com/getmockd/hookd/pkg/cliconfig"
	"github.com/getmockd/hookd/pkg/client"
)

var (
	// Version is injected during build
	Version = "dev"
	// Commit is injected during build
	Commit = "none"
	// BuildDate is injected during build
	BuildDate = "unknown"
)

// app carries state shared by every command in one invocation.
type app struct {
	out    io.Writer
	errOut io.Writer

	// Persistent flags available to all subcommands
	serverURL  string
	jsonOutput bool

	// color is set when out is a terminal
	color bool

	cfg        *cliconfig.CLIConfig
	loadConfig func() (*cliconfig.CLIConfig, error)
}

// NewRootCmd builds the hookd command tree writing to out and errOut.
func NewRootCmd(out, errOut io.Writer) *cobra.Command {
	a := &app{
		out:        out,
		errOut:     errOut,
		color:      output.IsTerminal(out),
		loadConfig: cliconfig.LoadAll,
	}
	return a.newRootCmd()
}

func (a *app) newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "hookd",
		Short: "hookd captures webhooks and answers them with canned responses",
		Long: `hookd is a webhook capture server. Requests sent to /capture/<space> are
recorded per space, streamed live to observers, and answered with a
configurable response.

Configuration is read from ~/.config/hookd/config.yaml, then .hookdrc.yaml in
the current directory, then HOOKD_* environment variables, then flags.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.resolveConfig(cmd)
		},
	}
	rootCmd.SetOut(a.out)
	rootCmd.SetErr(a.errOut)

	rootCmd.PersistentFlags().StringVar(&a.serverURL, "server", "", "hookd server base URL (default from config: "+cliconfig.DefaultServerURL(0)+")")
	rootCmd.PersistentFlags().BoolVar(&a.jsonOutput, "json", false, "Output command results in JSON format")

	rootCmd.AddCommand(
		a.newServeCmd(),
		a.newSpacesCmd(),
		a.newRequestsCmd(),
		a.newConfigCmd(),
		a.newTailCmd(),
		a.newVersionCmd(),
	)
	return rootCmd
}

// Execute runs the CLI with process arguments and exits non-zero on failure.
// This is called by main.main().
func Execute() {
	if err := ExecuteContext(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// ExecuteContext runs the CLI with args.
func ExecuteContext(ctx context.Context, args []string) error {
	cmd := NewRootCmd(os.Stdout, os.Stderr)
	cmd.SetArgs(args)
	return cmd.ExecuteContext(ctx)
}

// resolveConfig loads file and environment configuration and lets explicit
// persistent flags override it.
func (a *app) resolveConfig(cmd *cobra.Command) error {
	cfg, err := a.loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("server") {
		cfg.ServerURL = a.serverURL
		cfg.Sources["serverUrl"] = cliconfig.SourceFlag
	}
	if flags.Changed("json") {
		cfg.JSON = a.jsonOutput
		cfg.Sources["json"] = cliconfig.SourceFlag
	}
	a.serverURL = cfg.ServerURL
	a.jsonOutput = cfg.JSON
	a.cfg = cfg
	return nil
}

func (a *app) client() *client.Client {
	return client.New(a.serverURL)
}

// printResult outputs a single operation result.
//
// Contract: when --json is active, ONLY the JSON encoding of data is written
// to stdout. textFn is called only in text mode.
func (a *app) printResult(data any, textFn func()) error {
	if a.jsonOutput {
		return output.JSON(a.out, data)
	}
	textFn()
	return nil
}

func (a *app) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(a.out, format, args...)
}
