package cli

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/getmockd/hookd/pkg/cli/internal/output"
	"github.com/getmockd/hookd/pkg/space"
)

func (a *app) newSpacesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "spaces",
		Short: "List and create spaces",
	}

	cmd.AddCommand(&cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List known spaces, newest first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			spaces, err := a.client().ListSpaces(cmd.Context())
			if err != nil {
				return err
			}
			return a.printResult(spaces, func() { a.printSpaces(spaces) })
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "create [name]",
		Short: "Create a space with a generated id",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var name string
			if len(args) == 1 {
				name = args[0]
			}
			c := a.client()
			created, err := c.CreateSpace(cmd.Context(), name)
			if err != nil {
				return err
			}
			return a.printResult(created, func() {
				a.printf("Created space %s\n", created.ID)
				a.printf("Capture URL: %s\n", c.CaptureURL(created.ID))
			})
		},
	})

	return cmd
}

func (a *app) printSpaces(spaces []space.Space) {
	if len(spaces) == 0 {
		a.printf("No spaces yet\n")
		return
	}
	t := output.Table(a.out)
	t.AppendHeader(table.Row{"ID", "Name", "Created"})
	for _, s := range spaces {
		t.AppendRow(table.Row{s.ID, s.Name, output.Timestamp(s.CreatedAt)})
	}
	t.Render()
	output.Summary(a.out, len(spaces), "space", "spaces")
}
