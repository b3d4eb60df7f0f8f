package background

import (
	"context"
	"fmt"
	"time"

	"schoolerp/internal/metrics"
	"schoolerp/internal/repositories"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"
)

// JobScheduler runs periodic read-only jobs. None of them changes a record's
// status; status only ever moves on an explicit request.
type JobScheduler struct {
	scheduler gocron.Scheduler
	stats     repositories.EnquiryStatsRepository
	interval  time.Duration
	log       *zap.Logger
}

func NewJobScheduler(stats repositories.EnquiryStatsRepository, interval time.Duration, log *zap.Logger) (*JobScheduler, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}

	js := &JobScheduler{
		scheduler: scheduler,
		stats:     stats,
		interval:  interval,
		log:       log.Named("jobs"),
	}
	if err := js.registerJobs(); err != nil {
		return nil, err
	}
	return js, nil
}

func (js *JobScheduler) registerJobs() error {
	_, err := js.scheduler.NewJob(
		gocron.DurationJob(js.interval),
		gocron.NewTask(js.RefreshEnquiryGauge, context.Background()),
		gocron.WithName("enquiry-status-gauge"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		return fmt.Errorf("register enquiry gauge job: %w", err)
	}
	return nil
}

func (js *JobScheduler) Start() {
	js.log.Info("starting background jobs", zap.Int("jobs", len(js.scheduler.Jobs())))
	js.scheduler.Start()
}

func (js *JobScheduler) Stop() error {
	js.log.Info("stopping background jobs")
	return js.scheduler.Shutdown()
}

// RefreshEnquiryGauge publishes the number of enquiries per status.
func (js *JobScheduler) RefreshEnquiryGauge(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	counts, err := js.stats.CountByStatus(ctx)
	if err != nil {
		js.log.Warn("enquiry gauge refresh failed", zap.Error(err))
		return
	}

	metrics.EnquiriesByStatus.Reset()
	for _, c := range counts {
		metrics.EnquiriesByStatus.WithLabelValues(c.Status).Set(float64(c.Count))
	}
}
