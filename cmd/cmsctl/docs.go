package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	docsystem "cms/internal/domain/models/docsystem"
	docsysSvc "cms/internal/domain/services/docsystem"
)

func newDocsCmd(opts *cliOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "docs",
		Short: "Inspect and import documents",
	}
	cmd.AddCommand(newDocsListCmd(opts), newDocsHistoryCmd(opts), newDocsImportCmd(opts))
	return cmd
}

func newDocsListCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List documents (snapshots excluded)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svcs, cleanup, err := newApp(cmd.Context(), opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer cleanup()

			files, err := svcs.Documents.ListDocuments(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, titleStyle.Render(fmt.Sprintf("Documents (%d)", len(files))))
			for _, f := range files {
				fmt.Fprintf(out, "  %s %s\n", f, dimStyle.Render(string(docsystem.KindOf(f))))
			}
			return nil
		},
	}
}

func newDocsHistoryCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "history <name>",
		Short: "List the snapshots of a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svcs, cleanup, err := newApp(cmd.Context(), opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer cleanup()

			versions, err := svcs.Documents.ListVersions(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, titleStyle.Render(fmt.Sprintf("History of %s (%d)", args[0], len(versions))))
			for _, v := range versions {
				ts := docsystem.ParseFileName(v).Timestamp
				fmt.Fprintf(out, "  %s %s\n", ts, dimStyle.Render(v))
			}
			return nil
		},
	}
}

func newDocsImportCmd(opts *cliOptions) *cobra.Command {
	var overwrite bool

	cmd := &cobra.Command{
		Use:   "import <file>...",
		Short: "Import documents or zip archives",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svcs, cleanup, err := newApp(cmd.Context(), opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer cleanup()

			files := make([]docsysSvc.UploadedFile, 0, len(args))
			for _, path := range args {
				f, err := os.Open(path)
				if err != nil {
					return fmt.Errorf("opening %s: %w", path, err)
				}
				defer f.Close()
				files = append(files, docsysSvc.UploadedFile{Filename: filepath.Base(path), Content: f})
			}

			result, err := svcs.Imports.ProcessFiles(cmd.Context(), opts.operatorSession(), files, overwrite)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, d := range result.Documents {
				fmt.Fprintf(out, "  %-8s %s %s\n", d.Action, d.Name, dimStyle.Render(d.Source))
			}
			for _, e := range result.Errors {
				fmt.Fprintf(out, "  %s %s: %s\n", errStyle.Render("failed"), e.File, e.Error)
			}
			s := result.Summary
			fmt.Fprintln(out, titleStyle.Render(fmt.Sprintf("%d created, %d updated, %d skipped, %d failed",
				s.Created, s.Updated, s.Skipped, s.Failed)))

			if s.Failed > 0 {
				return fmt.Errorf("%d files failed to import", s.Failed)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Update documents that already exist")
	return cmd
}
