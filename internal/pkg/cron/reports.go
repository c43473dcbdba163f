package cron

import (
	"context"
	"log/slog"
	"time"
)

// ExportPruner deletes archived report exports written before a cutoff.
type ExportPruner interface {
	PruneReportExports(ctx context.Context, cutoff time.Time) ([]string, error)
}

type ReportJobs struct {
	pruner    ExportPruner
	retention time.Duration
	interval  time.Duration
	now       func() time.Time
}

// NewReportJobs keeps archived exports for retention and sweeps every interval.
func NewReportJobs(pruner ExportPruner, retention, interval time.Duration) *ReportJobs {
	return &ReportJobs{
		pruner:    pruner,
		retention: retention,
		interval:  interval,
		now:       time.Now,
	}
}

func (j *ReportJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("prune_archived_reports", j.interval, j.PruneArchivedReports)
}

func (j *ReportJobs) PruneArchivedReports(ctx context.Context) error {
	cutoff := j.now().Add(-j.retention)

	removed, err := j.pruner.PruneReportExports(ctx, cutoff)
	if err != nil {
		return err
	}
	if len(removed) > 0 {
		slog.Info("Cron: pruned archived reports", "count", len(removed), "cutoff", cutoff.Format(time.RFC3339))
	}
	return nil
}
