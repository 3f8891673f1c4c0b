package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/quantlab/feargreed/internal/pipeline"
	"github.com/quantlab/feargreed/pkg/logger"
)

// DailyScoreJob runs the scoring pipeline once per trading day.
type DailyScoreJob struct {
	pipeline *pipeline.Pipeline
	schedule string
	logger   *logger.Logger
}

// NewDailyScoreJob creates the job. The schedule is a six-field cron
// expression from configuration, typically weekday afternoons after the
// market close.
func NewDailyScoreJob(p *pipeline.Pipeline, schedule string, log *logger.Logger) *DailyScoreJob {
	return &DailyScoreJob{
		pipeline: p,
		schedule: schedule,
		logger:   log,
	}
}

func (j *DailyScoreJob) Name() string {
	return "daily_score"
}

func (j *DailyScoreJob) Schedule() string {
	return j.schedule
}

// Run executes the full pipeline for today.
func (j *DailyScoreJob) Run(ctx context.Context) error {
	result, err := j.pipeline.Run(ctx, time.Now())
	if err != nil {
		return fmt.Errorf("daily score run: %w", err)
	}

	j.logger.WithFields(map[string]interface{}{
		"date":       result.Date.Format("2006-01-02"),
		"final":      result.Final,
		"reconciled": result.Reconciled,
	}).Info("daily score recorded")

	return nil
}
