package commands

import (
	"fmt"
	"io"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"ozymandias/internal/app"
	"ozymandias/internal/apperr"
	"ozymandias/internal/crypto"
	"ozymandias/internal/domain"
)

func showCmd(o *rootOptions) *cobra.Command {
	var render, asJSON bool
	cmd := &cobra.Command{
		Use:   "show <id|prefix>",
		Short: "Print a stored document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if render && asJSON {
				return apperr.NewValidationError("--render and --json are mutually exclusive")
			}
			return o.withWire(cmd, func(w *app.Wire) error {
				doc, err := w.Knowledge.Resolve(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				switch {
				case asJSON:
					return writeJSON(out, doc)
				case render:
					return renderDocument(out, doc)
				default:
					printDocument(out, doc)
					return nil
				}
			})
		},
	}
	cmd.Flags().BoolVar(&render, "render", false, "render markdown for the terminal")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the JSON record")
	return cmd
}

func printDocument(w io.Writer, doc domain.Document) {
	fmt.Fprintf(w, "ID:       %s\n", doc.ID)
	fmt.Fprintf(w, "Title:    %s\n", doc.Title)
	fmt.Fprintf(w, "Source:   %s\n", doc.Source)
	fmt.Fprintf(w, "Format:   %s\n", doc.Format)
	fmt.Fprintf(w, "Category: %s\n", doc.Category)
	fmt.Fprintf(w, "Tags:     %s\n", joinOrDash(doc.Tags))
	fmt.Fprintf(w, "Keywords: %s\n", joinOrDash(doc.Keywords))
	fmt.Fprintf(w, "Digest:   %s\n", crypto.Fingerprint(doc.Digest.String()))
	fmt.Fprintf(w, "Updated:  %s\n", doc.UpdatedAt.Format("2006-01-02 15:04:05Z07:00"))
	fmt.Fprintf(w, "\n%s\n", doc.Body)
}

func renderDocument(w io.Writer, doc domain.Document) error {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return apperr.NewCommandError("failed to create markdown renderer").WithCause(err)
	}
	body := doc.Body
	if doc.Format != domain.FormatMarkdown {
		body = "# " + doc.Title + "\n\n```\n" + doc.Body + "\n```\n"
	}
	out, err := renderer.Render(body)
	if err != nil {
		return apperr.NewCommandError("failed to render document").WithCause(err)
	}
	_, err = io.WriteString(w, out)
	return err
}
