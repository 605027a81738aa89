package commands

import (
	"strconv"

	"github.com/spf13/cobra"

	"ozymandias/internal/app"
)

func categoriesCmd(o *rootOptions) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Print the taxonomy with document counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.withWire(cmd, func(w *app.Wire) error {
				counts, err := w.Knowledge.CategoryCounts(cmd.Context())
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd.OutOrStdout(), counts)
				}
				rows := make([][]string, 0, len(counts))
				for _, c := range counts {
					rows = append(rows, []string{c.Category.String(), strconv.Itoa(c.Count)})
				}
				return writeTable(cmd.OutOrStdout(), []string{"CATEGORY", "DOCUMENTS"}, rows)
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}
