package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ikkim/vendor-onboarding/config"
	"github.com/ikkim/vendor-onboarding/internal/app/service"
	"github.com/juju/clock/testclock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockDocumentService struct {
	mock.Mock
}

func (m *mockDocumentService) UpsertDocument(ctx context.Context, userID string, input service.UpsertDocumentInput) (*service.DocumentResult, error) {
	args := m.Called(ctx, userID, input)
	result, _ := args.Get(0).(*service.DocumentResult)
	return result, args.Error(1)
}

func (m *mockDocumentService) DeleteDocument(ctx context.Context, userID string, documentID uint) (*service.UploadProgress, error) {
	args := m.Called(ctx, userID, documentID)
	progress, _ := args.Get(0).(*service.UploadProgress)
	return progress, args.Error(1)
}

func (m *mockDocumentService) GetDocumentViewURL(ctx context.Context, userID string, documentID uint) (string, error) {
	args := m.Called(ctx, userID, documentID)
	return args.String(0), args.Error(1)
}

func (m *mockDocumentService) PurgeWithdrawnDocuments(ctx context.Context, olderThan time.Time) (int64, error) {
	args := m.Called(ctx, olderThan)
	return args.Get(0).(int64), args.Error(1)
}

func TestWithdrawnDocumentScheduler_RunOnce(t *testing.T) {
	now := time.Date(2026, 6, 1, 3, 0, 0, 0, time.UTC)
	clk := testclock.NewClock(now)
	docs := new(mockDocumentService)
	docs.On("PurgeWithdrawnDocuments", mock.Anything, now.Add(-90*24*time.Hour)).Return(int64(4), nil).Once()
	docs.On("PurgeWithdrawnDocuments", mock.Anything, now.Add(-89*24*time.Hour)).Return(int64(0), nil).Once()

	s := NewWithdrawnDocumentScheduler(docs, clk, config.SchedulerConfig{
		PurgeSchedule:      "0 3 * * *",
		WithdrawnRetention: 90 * 24 * time.Hour,
	})

	purged, err := s.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(4), purged)

	// 하루 뒤에는 기준 시각도 하루 이동
	clk.Advance(24 * time.Hour)
	purged, err = s.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Zero(t, purged)

	docs.AssertExpectations(t)
}

func TestWithdrawnDocumentScheduler_RunOnceError(t *testing.T) {
	docs := new(mockDocumentService)
	docs.On("PurgeWithdrawnDocuments", mock.Anything, mock.AnythingOfType("time.Time")).
		Return(int64(0), errors.New("database is closed"))

	s := NewWithdrawnDocumentScheduler(docs, testclock.NewClock(time.Now()), config.SchedulerConfig{
		PurgeSchedule:      "@daily",
		WithdrawnRetention: time.Hour,
	})

	purged, err := s.RunOnce(context.Background())
	assert.Error(t, err)
	assert.Zero(t, purged)
	docs.AssertExpectations(t)
}

func TestWithdrawnDocumentScheduler_StartStop(t *testing.T) {
	s := NewWithdrawnDocumentScheduler(new(mockDocumentService), testclock.NewClock(time.Now()), config.SchedulerConfig{
		PurgeSchedule:      "0 3 * * *",
		WithdrawnRetention: time.Hour,
	})
	require.NoError(t, s.Start())
	s.Stop()

	invalid := NewWithdrawnDocumentScheduler(new(mockDocumentService), testclock.NewClock(time.Now()), config.SchedulerConfig{
		PurgeSchedule: "every day at three",
	})
	assert.Error(t, invalid.Start())
}
