package batch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"credit-engine/internal/config"
	"credit-engine/internal/ingest"
)

// DataSyncJob re-reads the configured customer and loan workbooks and
// reconciles them into the database. The job is idempotent, so the scheduler
// can re-run it nightly against files that mostly have not changed.
type DataSyncJob struct {
	reconciler *ingest.Reconciler
	cfg        config.IngestConfig
	logger     *slog.Logger
}

func NewDataSyncJob(reconciler *ingest.Reconciler, cfg config.IngestConfig, logger *slog.Logger) *DataSyncJob {
	if reconciler == nil || logger == nil {
		panic("DataSyncJob dependencies cannot be nil")
	}
	return &DataSyncJob{
		reconciler: reconciler,
		cfg:        cfg,
		logger:     logger.With("job", "DataSync"),
	}
}

// Run imports customers first so loan rows can resolve their owners, then
// loans. A missing file is skipped with a warning; a malformed sheet aborts
// the run.
func (j *DataSyncJob) Run(ctx context.Context) error {
	startTime := time.Now()
	j.logger.InfoContext(ctx, "Starting scheduled data sync job.")

	if j.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, j.cfg.Timeout)
		defer cancel()
	}

	if j.cfg.CustomerDataFile != "" {
		if err := j.syncCustomers(ctx, j.cfg.CustomerDataFile); err != nil {
			return err
		}
	}

	if j.cfg.LoanDataFile != "" {
		if err := j.syncLoans(ctx, j.cfg.LoanDataFile); err != nil {
			return err
		}
	}

	j.logger.InfoContext(ctx, "Data sync job finished.", slog.Duration("duration", time.Since(startTime)))
	return nil
}

func (j *DataSyncJob) syncCustomers(ctx context.Context, path string) error {
	t, ok, err := j.readTable(ctx, path)
	if err != nil || !ok {
		return err
	}

	summary, err := j.reconciler.ImportCustomers(ctx, t)
	if err != nil {
		j.logger.ErrorContext(ctx, "Customer sync failed", slog.String("file", path), slog.Any("error", err))
		return fmt.Errorf("customer sync from %s: %w", path, err)
	}
	j.logger.InfoContext(ctx, "Customer sync complete.",
		slog.String("file", path),
		slog.Int("created", summary.Created),
		slog.Int("updated", summary.Updated),
		slog.Int("defects", summary.Defects))
	return nil
}

func (j *DataSyncJob) syncLoans(ctx context.Context, path string) error {
	t, ok, err := j.readTable(ctx, path)
	if err != nil || !ok {
		return err
	}

	summary, err := j.reconciler.ImportLoans(ctx, t)
	if err != nil {
		j.logger.ErrorContext(ctx, "Loan sync failed", slog.String("file", path), slog.Any("error", err))
		return fmt.Errorf("loan sync from %s: %w", path, err)
	}
	j.logger.InfoContext(ctx, "Loan sync complete.",
		slog.String("file", path),
		slog.Int("created", summary.Created),
		slog.Int("updated", summary.Updated),
		slog.Int("skipped", summary.Skipped),
		slog.Int("defects", summary.Defects))
	return nil
}

// readTable opens and parses one workbook. The second return is false when
// the file simply is not there, which is not an error for a recurring sync.
func (j *DataSyncJob) readTable(ctx context.Context, path string) (*ingest.Table, bool, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			j.logger.WarnContext(ctx, "Data file not found, skipping.", slog.String("file", path))
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	t, err := ingest.ReadTable(f, filepath.Base(path))
	if err != nil {
		return nil, false, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return t, true, nil
}
