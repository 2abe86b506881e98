package cli

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/getmockd/hookd/pkg/cli/internal/parse"
	"github.com/getmockd/hookd/pkg/response"
)

// configSetFlags holds the `config set` flag values.
type configSetFlags struct {
	status      int
	body        string
	bodyJSON    string
	contentType string
	delayMs     int
	headers     []string
}

func (a *app) newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Read and write a space's response configuration",
		Long: `Each space answers captures with its configured response. Bodies may use
the placeholders {{id}}, {{spaceId}}, {{method}}, and {{url}}.`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "get <space>",
		Short: "Show the response a space answers with",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.client().GetConfig(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.printResult(cfg, func() { a.printResponseConfig(cfg) })
		},
	})

	var f configSetFlags
	set := &cobra.Command{
		Use:   "set <space>",
		Short: "Replace the response a space answers with",
		Long: `Replace a space's response configuration. Unset flags fall back to the
defaults (200, application/json, {"ok":true}, no delay), not to the previous
configuration.`,
		Example: `  hookd config set demo --status 418 --body '{"tea":"{{id}}"}' --delay 200
  hookd config set demo --content-type text/plain --body 'got {{method}} {{url}}'
  hookd config set demo --header x-hookd=1 --header retry-after=5`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := buildPartial(cmd, &f)
			if err != nil {
				return err
			}
			cfg, err := a.client().SetConfig(cmd.Context(), args[0], p)
			if err != nil {
				return err
			}
			return a.printResult(cfg, func() {
				a.printf("Updated response for %s\n\n", args[0])
				a.printResponseConfig(cfg)
			})
		},
	}
	flags := set.Flags()
	flags.IntVar(&f.status, "status", response.DefaultStatus, "HTTP status code (100-599)")
	flags.StringVar(&f.body, "body", "", "Response body text")
	flags.StringVar(&f.bodyJSON, "body-json", "", "Response body as a JSON value, stored serialized")
	flags.StringVar(&f.contentType, "content-type", "", "Content-Type header value")
	flags.IntVar(&f.delayMs, "delay", 0, "Delay before responding, in milliseconds")
	flags.StringArrayVarP(&f.headers, "header", "H", nil, "Response header as name=value (repeatable)")
	set.MarkFlagsMutuallyExclusive("body", "body-json")
	cmd.AddCommand(set)

	return cmd
}

// buildPartial turns the explicitly set flags into a config write.
func buildPartial(cmd *cobra.Command, f *configSetFlags) (response.Partial, error) {
	var p response.Partial
	flags := cmd.Flags()

	if flags.Changed("status") {
		p.Status = &f.status
	}
	if flags.Changed("delay") {
		p.DelayMs = &f.delayMs
	}
	if flags.Changed("content-type") {
		p.ContentType = &f.contentType
	}
	switch {
	case flags.Changed("body"):
		raw, err := json.Marshal(f.body)
		if err != nil {
			return p, err
		}
		p.Body = raw
	case flags.Changed("body-json"):
		if !json.Valid([]byte(f.bodyJSON)) {
			return p, fmt.Errorf("--body-json is not valid JSON")
		}
		p.Body = json.RawMessage(f.bodyJSON)
	}
	headers, err := parse.Headers(f.headers)
	if err != nil {
		return p, err
	}
	p.Headers = headers
	return p, nil
}

func (a *app) printResponseConfig(cfg *response.Config) {
	a.printf("Status:       %d\n", cfg.Status)
	a.printf("Content-Type: %s\n", cfg.ContentType)
	a.printf("Delay:        %dms\n", cfg.DelayMs)
	if len(cfg.Headers) > 0 {
		a.printf("Headers:\n")
		names := make([]string, 0, len(cfg.Headers))
		for k := range cfg.Headers {
			names = append(names, k)
		}
		sort.Strings(names)
		for _, k := range names {
			a.printf("  %s: %s\n", k, cfg.Headers[k])
		}
	}
	a.printf("Body:\n%s\n", cfg.Body)
}
