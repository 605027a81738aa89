package workspace

import (
	"context"
	"errors"
	"os"

	"go.uber.org/zap"

	"ozymandias/internal/apperr"
	"ozymandias/internal/config"
	"ozymandias/internal/domain"
	"ozymandias/internal/store"
)

// OpenFunc opens a document store for a backend and path.
type OpenFunc func(ctx context.Context, backend, path string) (domain.DocumentStore, error)

// Service initialises a knowledge-base home directory.
type Service struct {
	home       string
	configPath string
	cfg        *config.Config
	open       OpenFunc
	logger     *zap.Logger
}

// New returns a workspace service for home. cfg is the effective
// configuration used to locate and open the store; configPath is where a
// default config is written when none exists.
func New(home, configPath string, cfg *config.Config, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		home:       home,
		configPath: configPath,
		cfg:        cfg,
		open:       store.Open,
		logger:     logger,
	}
}

// Initialize creates the home directory and default config if they are
// missing and opens the store once so its schema exists. Running it again on
// an initialised home changes nothing.
func (s *Service) Initialize(ctx context.Context) (domain.InitReport, error) {
	report := domain.InitReport{
		Home:        s.home,
		ConfigPath:  s.configPath,
		Backend:     s.cfg.Storage.Backend,
		StoragePath: s.cfg.StoragePath(s.home),
	}

	created, err := ensureDir(s.home)
	if err != nil {
		return report, err
	}
	report.CreatedHome = created
	if created {
		s.logger.Info("created knowledge-base home", zap.String("path", s.home))
	}

	if _, err := os.Stat(s.configPath); errors.Is(err, os.ErrNotExist) {
		if err := config.DefaultConfig().Save(s.configPath); err != nil {
			return report, err
		}
		report.CreatedConfig = true
		s.logger.Info("wrote default config", zap.String("path", s.configPath))
	} else if err != nil {
		return report, apperr.NewConfigError("failed to stat config").
			WithCause(err).WithDetail("path", s.configPath)
	}

	st, err := s.open(ctx, report.Backend, report.StoragePath)
	if err != nil {
		return report, err
	}
	if err := st.Close(); err != nil {
		return report, apperr.NewStorageError("close", err)
	}
	s.logger.Debug("storage ready",
		zap.String("backend", report.Backend),
		zap.String("path", report.StoragePath),
	)
	return report, nil
}

// ensureDir creates dir with owner-only permissions, reporting whether it was
// newly created.
func ensureDir(dir string) (bool, error) {
	info, err := os.Stat(dir)
	switch {
	case err == nil:
		if !info.IsDir() {
			return false, apperr.NewConfigError("knowledge-base home is not a directory").
				WithDetail("path", dir)
		}
		return false, nil
	case !errors.Is(err, os.ErrNotExist):
		return false, apperr.NewConfigError("failed to stat knowledge-base home").
			WithCause(err).WithDetail("path", dir)
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return false, apperr.NewConfigError("failed to create knowledge-base home").
			WithCause(err).WithDetail("path", dir)
	}
	return true, nil
}

// Compile-time assertion that Service implements domain.WorkspaceService.
var _ domain.WorkspaceService = (*Service)(nil)
