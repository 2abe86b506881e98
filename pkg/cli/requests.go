package cli

import (
	"encoding/base64"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/getmockd/hookd/pkg/cli/internal/output"
	"github.com/getmockd/hookd/pkg/client"
	"github.com/getmockd/hookd/pkg/requestlog"
)

func (a *app) newRequestsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "requests",
		Aliases: []string{"req"},
		Short:   "List, inspect, and clear captured requests",
	}

	var opts client.ListOptions
	list := &cobra.Command{
		Use:     "list <space>",
		Aliases: []string{"ls"},
		Short:   "List a space's captured requests, newest first",
		Example: `  hookd requests list demo --method POST --search order --limit 20`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := a.client().ListRequests(cmd.Context(), args[0], opts)
			if err != nil {
				return err
			}
			return a.printResult(items, func() { a.printRequests(items) })
		},
	}
	list.Flags().IntVarP(&opts.Limit, "limit", "n", 0, "Maximum results (server default 100)")
	list.Flags().StringVarP(&opts.Search, "search", "s", "", "Case-insensitive text to find in URL or body")
	list.Flags().StringVarP(&opts.Method, "method", "m", "", "Only show this HTTP method")

	get := &cobra.Command{
		Use:   "get <space> <id>",
		Short: "Show one captured request",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := a.client().GetRequest(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			return a.printResult(rec, func() { a.printRequest(rec) })
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear <space>",
		Short: "Delete a space's captured requests",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := a.client().ClearRequests(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.printResult(map[string]int{"cleared": n}, func() {
				a.printf("Cleared %d request(s) from %s\n", n, args[0])
			})
		},
	}

	cmd.AddCommand(list, get, clearCmd)
	return cmd
}

func (a *app) printRequests(items []*requestlog.CapturedRequest) {
	if len(items) == 0 {
		a.printf("No requests captured\n")
		return
	}
	t := output.Table(a.out)
	t.AppendHeader(table.Row{"ID", "Time", "Method", "URL", "IP", "Size"})
	for _, r := range items {
		t.AppendRow(table.Row{r.ID, output.Timestamp(r.CreatedAt), output.Method(r.Method, a.color), output.Truncate(r.URL, 60), r.IP, len(r.BodyRaw)})
	}
	t.Render()
	output.Summary(a.out, len(items), "request", "requests")
}

func (a *app) printRequest(r *requestlog.CapturedRequest) {
	a.printf("ID:      %s\n", r.ID)
	a.printf("Space:   %s\n", r.SpaceID)
	a.printf("Time:    %s\n", output.Timestamp(r.CreatedAt))
	a.printf("Request: %s %s\n", r.Method, r.URL)
	a.printf("IP:      %s\n", r.IP)

	if len(r.Headers) > 0 {
		a.printf("\nHeaders:\n")
		names := make([]string, 0, len(r.Headers))
		for k := range r.Headers {
			names = append(names, k)
		}
		sort.Strings(names)
		for _, k := range names {
			a.printf("  %s: %s\n", k, r.Headers[k])
		}
	}

	if r.BodyRaw != "" {
		a.printf("\nBody:\n")
		if r.BodyEncoding == requestlog.BodyEncodingBase64 {
			raw, err := base64.StdEncoding.DecodeString(r.BodyRaw)
			if err != nil {
				a.printf("%s\n", r.BodyRaw)
				return
			}
			a.printf("(%d bytes of binary data, base64)\n%s\n", len(raw), r.BodyRaw)
			return
		}
		a.printf("%s\n", r.BodyRaw)
	}
}
