package commands

import (
	"strings"

	"github.com/spf13/cobra"

	"ozymandias/internal/app"
	"ozymandias/internal/domain"
)

func listCmd(o *rootOptions) *cobra.Command {
	var (
		category string
		tag      string
		asJSON   bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored documents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := domain.ListFilter{
				Category: domain.Category(strings.ToLower(strings.TrimSpace(category))),
				Tag:      strings.ToLower(strings.TrimSpace(tag)),
			}
			return o.withWire(cmd, func(w *app.Wire) error {
				docs, err := w.Knowledge.List(cmd.Context(), filter)
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd.OutOrStdout(), docs)
				}
				rows := make([][]string, 0, len(docs))
				for _, d := range docs {
					rows = append(rows, []string{
						shortID(d.ID),
						d.Title,
						d.Category.String(),
						joinOrDash(d.Tags),
					})
				}
				return writeTable(cmd.OutOrStdout(), []string{"ID", "TITLE", "CATEGORY", "TAGS"}, rows)
			})
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "only documents in this category")
	cmd.Flags().StringVar(&tag, "tag", "", "only documents with this tag")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

// shortID returns the first block of a UUID, enough for Resolve.
func shortID(id domain.DocumentID) string {
	s := id.String()
	if i := strings.IndexByte(s, '-'); i >= 4 {
		return s[:i]
	}
	return s
}
