package refresh

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"designer-dashboard-backend/config"
	"designer-dashboard-backend/internal/logging"
)

// Loader is a reactive store that can be reloaded from the data access layer.
type Loader interface {
	Load(ctx context.Context) error
}

// DesignerRefresher reloads designers without raising the loading flag.
type DesignerRefresher interface {
	Refresh(ctx context.Context) error
}

// Service periodically reloads the reactive stores so that attached object
// counts and remote changes reach every subscriber.
type Service struct {
	cfg       config.RefreshConfig
	objects   Loader
	designers DesignerRefresher
	log       *zap.Logger
}

// NewService creates a refresher for the given stores.
func NewService(cfg config.RefreshConfig, objects Loader, designers DesignerRefresher, log *zap.Logger) *Service {
	return &Service{cfg: cfg, objects: objects, designers: designers, log: logging.OrNop(log)}
}

// Run refreshes the stores every configured interval until ctx is done.
func (s *Service) Run(ctx context.Context) {
	if !s.cfg.Enabled {
		s.log.Info("refresher is disabled, not starting")
		return
	}
	s.log.Info("starting refresher", zap.Duration("interval", s.cfg.Interval))

	timer := time.NewTimer(s.cfg.Interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("refresher shutting down")
			return
		case <-timer.C:
			if err := s.RefreshOnce(ctx); err != nil {
				s.log.Warn("refresh cycle failed", zap.Error(err))
			}
			timer.Reset(s.cfg.Interval)
		}
	}
}

// RefreshOnce reloads objects, then designers. Both are attempted even if
// the first fails.
func (s *Service) RefreshOnce(ctx context.Context) error {
	start := time.Now()
	objErr := s.objects.Load(ctx)
	desErr := s.designers.Refresh(ctx)
	if err := errors.Join(objErr, desErr); err != nil {
		return err
	}
	s.log.Debug("refresh cycle finished", zap.Duration("took", time.Since(start)))
	return nil
}
