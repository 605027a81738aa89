package commands

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"ozymandias/internal/app"
)

func watchCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "watch <dir>",
		Short: "Keep the knowledge base in sync with a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return o.withWire(cmd, func(w *app.Wire) error {
				return w.Watcher(args[0]).Run(ctx)
			})
		},
	}
}
