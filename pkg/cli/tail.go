package cli

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/getmockd/hookd/pkg/cli/internal/output"
	"github.com/getmockd/hookd/pkg/requestlog"
)

func (a *app) newTailCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tail <space>",
		Short: "Follow a space's captures as they arrive",
		Long: `Stream captures for a space until interrupted. With --json each capture is
printed as one JSON document.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return a.runTail(ctx, args[0])
		},
	}
}

func (a *app) runTail(ctx context.Context, spaceKey string) error {
	c := a.client()
	if !a.jsonOutput {
		_, _ = fmt.Fprintf(a.errOut, "Tailing %s (send requests to %s), Ctrl+C to stop\n", spaceKey, c.CaptureURL(spaceKey))
	}

	err := c.Tail(ctx, spaceKey, func(rec *requestlog.CapturedRequest) error {
		return a.printResult(rec, func() {
			a.printf("%s  %-7s %s  %s  %dB  %s\n",
				output.Timestamp(rec.CreatedAt), output.Method(rec.Method, a.color), rec.URL, rec.IP, len(rec.BodyRaw), rec.ID)
		})
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
