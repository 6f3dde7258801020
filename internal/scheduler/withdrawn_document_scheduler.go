package scheduler

import (
	"context"
	"time"

	"github.com/ikkim/vendor-onboarding/config"
	"github.com/ikkim/vendor-onboarding/internal/app/service"
	"github.com/ikkim/vendor-onboarding/pkg/logger"
	"github.com/juju/clock"
	"github.com/robfig/cron/v3"
)

const purgeTimeout = 5 * time.Minute

// WithdrawnDocumentScheduler 철회된 서류를 보존 기간 이후 삭제하는 스케줄러
type WithdrawnDocumentScheduler struct {
	cron            *cron.Cron
	documentService service.DocumentService
	clock           clock.Clock
	schedule        string
	retention       time.Duration
}

// NewWithdrawnDocumentScheduler 서류 정리 스케줄러 생성
func NewWithdrawnDocumentScheduler(documentService service.DocumentService, clk clock.Clock, cfg config.SchedulerConfig) *WithdrawnDocumentScheduler {
	return &WithdrawnDocumentScheduler{
		cron:            cron.New(),
		documentService: documentService,
		clock:           clk,
		schedule:        cfg.PurgeSchedule,
		retention:       cfg.WithdrawnRetention,
	}
}

// Start 스케줄러 시작
func (s *WithdrawnDocumentScheduler) Start() error {
	_, err := s.cron.AddFunc(s.schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), purgeTimeout)
		defer cancel()

		if _, err := s.RunOnce(ctx); err != nil {
			logger.Error("Failed to purge withdrawn documents from scheduler", err)
		}
	})
	if err != nil {
		logger.Error("Failed to add cron job for withdrawn document purge", err, map[string]interface{}{
			"schedule": s.schedule,
		})
		return err
	}

	s.cron.Start()
	logger.Info("Withdrawn document scheduler started", map[string]interface{}{
		"schedule":  s.schedule,
		"retention": s.retention.String(),
	})
	return nil
}

// RunOnce purges documents withdrawn before now minus the retention period.
func (s *WithdrawnDocumentScheduler) RunOnce(ctx context.Context) (int64, error) {
	cutoff := s.clock.Now().Add(-s.retention)
	logger.Info("Starting scheduled withdrawn document purge", map[string]interface{}{
		"cutoff": cutoff,
	})

	purged, err := s.documentService.PurgeWithdrawnDocuments(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	logger.Info("Scheduled withdrawn document purge finished", map[string]interface{}{
		"purged": purged,
	})
	return purged, nil
}

// Stop 스케줄러 중지. 실행 중인 작업이 끝날 때까지 기다린다
func (s *WithdrawnDocumentScheduler) Stop() {
	logger.Info("Stopping withdrawn document scheduler...", nil)
	<-s.cron.Stop().Done()
	logger.Info("Withdrawn document scheduler stopped", nil)
}
