package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"ozymandias/internal/app"
)

func relatedCmd(o *rootOptions) *cobra.Command {
	var (
		limit  int
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "related <id|prefix>",
		Short: "Find documents related to one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.withWire(cmd, func(w *app.Wire) error {
				doc, err := w.Knowledge.Resolve(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				rels, err := w.Knowledge.Related(cmd.Context(), doc.ID, limit)
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd.OutOrStdout(), rels)
				}
				rows := make([][]string, 0, len(rels))
				for _, r := range rels {
					reasons := make([]string, 0, len(r.Reasons))
					for _, reason := range r.Reasons {
						reasons = append(reasons, string(reason))
					}
					rows = append(rows, []string{
						shortID(r.Target),
						r.Title,
						fmt.Sprintf("%.2f", r.Score),
						strings.Join(reasons, ", "),
						joinOrDash(r.Shared),
					})
				}
				return writeTable(cmd.OutOrStdout(), []string{"ID", "TITLE", "SCORE", "REASONS", "SHARED"}, rows)
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum results (default from config)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}
