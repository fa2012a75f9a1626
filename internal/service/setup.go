package service

import (
	"context"
	"fmt"
	"log/slog"

	"cms/internal/config"
	"cms/internal/domain/repositories"
	docsysRepo "cms/internal/domain/repositories/docsystem"
	"cms/internal/domain/services"
	docsysSvc "cms/internal/domain/services/docsystem"
	"cms/internal/repository/filesystem"
	"cms/internal/repository/postgres"
	"cms/internal/repository/sqlite"
	"cms/internal/service/auth"
	serviceDocsys "cms/internal/service/docsystem"
	"cms/internal/service/docsystem/converter"
)

// Services holds every service the server and the CLI share
type Services struct {
	Files       docsysRepo.FileRepository
	Documents   docsysSvc.DocumentService
	Imports     docsysSvc.ImportService
	Credentials services.CredentialService
	Gate        services.AccessGate
}

// SetupServices builds repositories and services from cfg. The returned
// cleanup releases the database pool when the postgres backend is used.
func SetupServices(ctx context.Context, cfg *config.Config, clock serviceDocsys.Clock, logger *slog.Logger) (*Services, func(), error) {
	cleanup := func() {}

	fileRepo, err := filesystem.NewDocumentRepository(cfg.DataDir, logger)
	if err != nil {
		return nil, cleanup, err
	}

	credRepo, cleanup, err := setupCredentialRepository(ctx, cfg, logger)
	if err != nil {
		return nil, cleanup, err
	}

	credentials, err := auth.NewCredentialService(credRepo, cfg.BcryptCost, logger)
	if err != nil {
		cleanup()
		return nil, func() {}, err
	}

	gate := auth.NewSessionGate()
	docService := serviceDocsys.NewDocumentService(
		fileRepo,
		serviceDocsys.NewNameValidator(fileRepo),
		serviceDocsys.NewVersionNamer(fileRepo, clock),
		converter.NewRendererRegistry(logger),
		serviceDocsys.NewContentAnalyzer(),
		gate,
		logger,
	)
	importService := serviceDocsys.NewDefaultImportService(fileRepo, docService, gate, cfg.MaxUploadBytes, logger)

	return &Services{
		Files:       fileRepo,
		Documents:   docService,
		Imports:     importService,
		Credentials: credentials,
		Gate:        gate,
	}, cleanup, nil
}

func setupCredentialRepository(ctx context.Context, cfg *config.Config, logger *slog.Logger) (repositories.CredentialRepository, func(), error) {
	switch cfg.CredentialsBackend {
	case config.CredentialsBackendFile:
		logger.Debug("using file credential store", "path", cfg.CredentialsFile)
		return filesystem.NewCredentialRepository(cfg.CredentialsFile, logger), func() {}, nil

	case config.CredentialsBackendSQLite:
		db, err := sqlite.OpenDatabase(ctx, cfg.CredentialsDB)
		if err != nil {
			return nil, func() {}, err
		}
		logger.Debug("using sqlite credential store", "path", cfg.CredentialsDB)
		return sqlite.NewCredentialRepository(db, logger), func() { _ = db.Close() }, nil

	case config.CredentialsBackendPostgres:
		if cfg.DatabaseURL == "" {
			return nil, func() {}, fmt.Errorf("DATABASE_URL is required for the %s credential backend", cfg.CredentialsBackend)
		}
		pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, func() {}, err
		}

		repo := postgres.NewCredentialRepository(&postgres.RepositoryConfig{
			Pool:   pool,
			Tables: postgres.NewTableNames(cfg.TablePrefix),
			Logger: logger,
		})
		if err := repo.(*postgres.CredentialRepository).EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, func() {}, err
		}

		logger.Info("database connected", "table_prefix", cfg.TablePrefix)
		return repo, pool.Close, nil

	default:
		return nil, func() {}, fmt.Errorf("unknown credential backend %q", cfg.CredentialsBackend)
	}
}
