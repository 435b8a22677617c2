package settings

import (
	"context"
	"errors"
	"fmt"

	"github.com/SergeyKozhin/kinesio-crm/internal/database"
	"github.com/SergeyKozhin/kinesio-crm/internal/model"
	"github.com/SergeyKozhin/kinesio-crm/internal/payment"
	"go.uber.org/zap"
)

type Service struct {
	db                 database.PGX
	settingsRepository settingsRepository
	defaults           model.Settings
	strict             bool
	logger             *zap.SugaredLogger
}

type settingsRepository interface {
	GetSettings(ctx context.Context, q database.Queryable) (*model.Settings, error)
	UpdateSettings(ctx context.Context, q database.Queryable, s *model.Settings) error
}

// NewService returns a settings service. defaults are served until the settings row is
// saved for the first time; strict is passed on to the classifiers it builds.
func NewService(db database.PGX, repo settingsRepository, defaults model.Settings, strict bool, logger *zap.SugaredLogger) *Service {
	if defaults.DefaultVisitPrice <= 0 {
		defaults.DefaultVisitPrice = model.FallbackVisitPrice
	}
	if defaults.DefaultRetreatPrice <= 0 {
		defaults.DefaultRetreatPrice = model.FallbackRetreatPrice
	}
	if len(defaults.Practices) == 0 {
		defaults.Practices = model.DefaultPractices
	}

	return &Service{
		db:                 db,
		settingsRepository: repo,
		defaults:           defaults,
		strict:             strict,
		logger:             logger,
	}
}

func (s *Service) Get(ctx context.Context) (*model.Settings, error) {
	settings, err := s.settingsRepository.GetSettings(ctx, s.db)
	if err != nil {
		if errors.Is(err, model.ErrNoRecord) {
			return s.defaultSettings(), nil
		}
		return nil, fmt.Errorf("settingsRepository.GetSettings: %w", err)
	}

	if len(settings.Practices) == 0 {
		settings.Practices = s.defaultSettings().Practices
	}

	return settings, nil
}

func (s *Service) Update(ctx context.Context, settings *model.Settings) (*model.Settings, error) {
	update := *settings
	update.Practices = model.UniquePractices(settings.Practices)

	if err := s.settingsRepository.UpdateSettings(ctx, s.db, &update); err != nil {
		return nil, fmt.Errorf("settingsRepository.UpdateSettings: %w", err)
	}

	return &update, nil
}

// Classifier builds a payment classifier from the current settings. When settings can't
// be loaded it logs the failure and classifies against the defaults.
func (s *Service) Classifier(ctx context.Context) *payment.Classifier {
	settings, err := s.Get(ctx)
	if err != nil {
		s.logger.Warnw("settings unavailable, using default prices", "err", err)
		settings = s.defaultSettings()
	}

	return payment.NewClassifier(settings, s.strict, s.logger)
}

func (s *Service) defaultSettings() *model.Settings {
	d := s.defaults
	d.Practices = append([]string(nil), s.defaults.Practices...)
	return &d
}
