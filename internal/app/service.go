package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"media-library/internal/config"
	internalhttp "media-library/internal/http"
	"media-library/internal/repository/sqlite"
	"media-library/internal/storage/library"
	"media-library/internal/storage/staging"
	"media-library/pkg/logger"
)

// Service owns the full dependency graph: config, logger, database, the two
// on-disk stores, and the HTTP server.
type Service struct {
	config *config.Config
	log    zerolog.Logger
	db     *sqlite.DB
	server *internalhttp.Server
}

// NewService wires up all dependencies and returns a configured Service.
func NewService() (*Service, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	log := logger.New(cfg.App.LogLevel)

	for _, dir := range []string{cfg.Storage.LibraryRoot(), cfg.Storage.StagingRoot(), filepath.Dir(cfg.Storage.DatabasePath())} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create data directory %s: %w", dir, err)
		}
	}

	db, err := sqlite.Open(cfg.Storage.DatabasePath())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Migrate(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	lib := library.New(cfg.Storage.LibraryRoot())
	stg := staging.New(cfg.Storage.StagingRoot())

	server := internalhttp.NewServer(&internalhttp.ServerDependencies{
		Config:      cfg,
		Log:         log,
		ProjectRepo: sqlite.NewProjectRepository(db, lib),
		TagRepo:     sqlite.NewTagRepository(db),
		AssetRepo:   sqlite.NewAssetRepository(db, lib),
		Importer:    sqlite.NewImportCoordinator(db, lib, stg, log),
		Library:     lib,
		Staging:     stg,
	})

	return &Service{
		config: cfg,
		log:    log,
		db:     db,
		server: server,
	}, nil
}

// Start runs the HTTP server until it fails or is shut down.
func (s *Service) Start() error {
	s.log.Info().Str("port", s.config.Server.Port).Msg("starting media library service")
	return s.server.Start(":" + s.config.Server.Port)
}

// Shutdown stops the server gracefully and closes the database.
func (s *Service) Shutdown(ctx context.Context) error {
	err := s.server.Shutdown(ctx)
	if closeErr := s.db.Close(); err == nil {
		err = closeErr
	}
	return err
}

// ShutdownTimeout reports how long a graceful shutdown may take.
func (s *Service) ShutdownTimeout() time.Duration {
	return s.config.Server.ShutdownTimeout
}
