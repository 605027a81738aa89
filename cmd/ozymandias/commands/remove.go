package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"ozymandias/internal/app"
)

func removeCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <id|prefix>",
		Aliases: []string{"rm"},
		Short:   "Delete a document",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.withWire(cmd, func(w *app.Wire) error {
				doc, err := w.Knowledge.Resolve(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if err := w.Knowledge.Remove(cmd.Context(), doc.ID); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "removed\t%s\t%s\n", doc.ID, doc.Title)
				return nil
			})
		},
	}
}
