package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"ozymandias/internal/app"
	"ozymandias/internal/apperr"
)

func ingestCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "ingest <path>...",
		Short: "Parse, classify and store files or directories",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.withWire(cmd, func(w *app.Wire) error {
				results, err := w.Knowledge.IngestAll(cmd.Context(), args)

				failed := 0
				for _, r := range results {
					if r.Err != nil {
						failed++
						fmt.Fprintf(cmd.ErrOrStderr(), "failed\t%s\t%v\n", r.Path, r.Err)
						continue
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", r.Status, r.Document.ID, r.Document.Title)
				}
				if err != nil {
					return err
				}
				if failed > 0 {
					return apperr.NewCommandError(fmt.Sprintf("%d of %d files failed to ingest", failed, len(results))).
						WithDetail("failed", failed)
				}
				return nil
			})
		},
	}
}
