package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"cms/internal/domain"
	docsysSvc "cms/internal/domain/services/docsystem"
)

// seedDocuments are written by the seed command when missing
var seedDocuments = []docsysSvc.CreateDocumentRequest{
	{Name: "about.md", Content: "# About\n\nThis is a small versioned document store.\n"},
	{Name: "changes.txt", Content: "Every save keeps a snapshot of the previous content.\n"},
	{Name: "history.txt", Content: "Open a document's history to see its earlier versions.\n"},
}

func newSeedCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Write sample documents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svcs, cleanup, err := newApp(cmd.Context(), opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer cleanup()

			out := cmd.OutOrStdout()
			sess := opts.operatorSession()
			for i := range seedDocuments {
				req := seedDocuments[i]
				err := svcs.Documents.CreateDocument(cmd.Context(), sess, &req)

				var invalid *domain.ValidationError
				switch {
				case err == nil:
					fmt.Fprintln(out, okStyle.Render("created")+" "+req.Name)
				case errors.As(err, &invalid) && invalid.Reason == domain.ReasonNameInUse:
					fmt.Fprintln(out, dimStyle.Render("exists ")+" "+req.Name)
				default:
					return fmt.Errorf("seeding %s: %w", req.Name, err)
				}
			}
			return nil
		},
	}
}
