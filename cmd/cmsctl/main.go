package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"cms/internal/config"
	"cms/internal/domain/models"
	"cms/internal/service"
	serviceDocsys "cms/internal/service/docsystem"
)

func main() {
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// cliOptions are the persistent flags shared by every command
type cliOptions struct {
	verbose  bool
	operator string
}

// newApp loads configuration and builds the services. The caller must call
// the returned cleanup.
func newApp(ctx context.Context, opts *cliOptions, stderr io.Writer) (*service.Services, func(), error) {
	cfg := config.Load()

	level := slog.LevelWarn
	if opts.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	svcs, cleanup, err := service.SetupServices(ctx, cfg, serviceDocsys.RealClock{}, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("initializing services: %w", err)
	}
	return svcs, cleanup, nil
}

// operatorSession is the session mutations run under from the command line.
// Whoever can run cmsctl can already write the data directory.
func (o *cliOptions) operatorSession() *models.Session {
	return &models.Session{Username: o.operator}
}

func newRootCmd() *cobra.Command {
	opts := &cliOptions{}

	root := &cobra.Command{
		Use:   "cmsctl",
		Short: "Operate a CMS data directory",
		Long: `Manage the accounts and documents of a CMS installation.

Configuration comes from the same environment variables (and .env file)
as the server: DATA_DIR, CREDENTIALS_BACKEND, CREDENTIALS_FILE, DATABASE_URL.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable verbose logging")
	root.PersistentFlags().StringVar(&opts.operator, "as", "operator", "Name recorded in logs for CLI mutations")

	root.AddCommand(newUsersCmd(opts))
	root.AddCommand(newDocsCmd(opts))
	root.AddCommand(newSeedCmd(opts))
	return root
}
