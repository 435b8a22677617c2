package settings

import (
	"context"
	"errors"
	"testing"

	"github.com/SergeyKozhin/kinesio-crm/internal/database"
	"github.com/SergeyKozhin/kinesio-crm/internal/model"
	"github.com/SergeyKozhin/kinesio-crm/internal/payment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubRepository struct {
	settings *model.Settings
	err      error
	saved    *model.Settings
}

func (r *stubRepository) GetSettings(context.Context, database.Queryable) (*model.Settings, error) {
	return r.settings, r.err
}

func (r *stubRepository) UpdateSettings(_ context.Context, _ database.Queryable, s *model.Settings) error {
	r.saved = s
	return r.err
}

func TestGetFallsBackToDefaults(t *testing.T) {
	repo := &stubRepository{err: model.ErrNoRecord}
	s := NewService(nil, repo, model.Settings{DefaultVisitPrice: 12000}, false, zap.NewNop().Sugar())

	got, err := s.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, model.Money(12000), got.DefaultVisitPrice)
	assert.Equal(t, model.FallbackRetreatPrice, got.DefaultRetreatPrice)
	assert.Equal(t, model.DefaultPractices, got.Practices)

	got.Practices[0] = "changed"
	again, err := s.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, model.DefaultPractices[0], again.Practices[0])
}

func TestUpdateDeduplicatesPractices(t *testing.T) {
	repo := &stubRepository{}
	s := NewService(nil, repo, model.Settings{}, false, zap.NewNop().Sugar())

	got, err := s.Update(context.Background(), &model.Settings{
		DefaultVisitPrice:   15000,
		DefaultRetreatPrice: 30000,
		Practices:           []string{"ТСЯ", "ТСЯ", "Лепило"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"ТСЯ", "Лепило"}, got.Practices)
	assert.Equal(t, got, repo.saved)
}

func TestClassifierUsesSettings(t *testing.T) {
	repo := &stubRepository{settings: &model.Settings{DefaultVisitPrice: 10000, DefaultRetreatPrice: 20000}}
	s := NewService(nil, repo, model.Settings{}, false, zap.NewNop().Sugar())

	c := s.Classifier(context.Background())
	assert.Equal(t, model.Money(10000), c.VisitReference())
	assert.Equal(t, payment.StatusStandard, c.Visit(10000, nil))
}

func TestClassifierSurvivesRepositoryFailure(t *testing.T) {
	repo := &stubRepository{err: errors.New("connection refused")}
	s := NewService(nil, repo, model.Settings{}, false, zap.NewNop().Sugar())

	c := s.Classifier(context.Background())
	assert.Equal(t, model.FallbackVisitPrice, c.VisitReference())
	assert.Equal(t, model.FallbackRetreatPrice, c.RetreatReference())
}
