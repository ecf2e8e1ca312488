package service

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/theshortlist/shortlist-api/internal/models"
	"github.com/theshortlist/shortlist-api/pkg/config"
	appErrors "github.com/theshortlist/shortlist-api/pkg/errors"
	"github.com/theshortlist/shortlist-api/pkg/export"
	"github.com/theshortlist/shortlist-api/pkg/jobs"
	"github.com/theshortlist/shortlist-api/pkg/storage"
)

type reportRepo interface {
	Create(ctx context.Context, job *models.ReportJob) error
	Get(ctx context.Context, id string) (*models.ReportJob, error)
	MarkProcessing(ctx context.Context, id string) error
	MarkCompleted(ctx context.Context, id, filePath string) error
	MarkFailed(ctx context.Context, id, errorText string) error
}

type reportResultSource interface {
	Results(ctx context.Context, eventDate string) (*models.MatchRunResult, error)
}

type reportAuditLogger interface {
	Create(ctx context.Context, log *models.AuditLog) error
}

// ReportService renders the host-facing match report (matches plus unmatched
// statistics) asynchronously: requests land on a worker queue, the rendered
// file goes to local storage, and downloads use signed tokens.
type ReportService struct {
	cfg     config.ReportsConfig
	repo    reportRepo
	results reportResultSource
	audit   reportAuditLogger
	store   *storage.LocalStorage
	signer  *storage.SignedURLSigner
	csv     *export.CSVExporter
	pdf     *export.PDFExporter
	queue   *jobs.Queue
	logger  *zap.Logger
}

// NewReportService builds the service and its queue. Call Start before
// queueing and Stop on shutdown.
func NewReportService(cfg config.ReportsConfig, repo reportRepo, results reportResultSource, audit reportAuditLogger, store *storage.LocalStorage, logger *zap.Logger) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &ReportService{
		cfg:     cfg,
		repo:    repo,
		results: results,
		audit:   audit,
		store:   store,
		signer:  storage.NewSignedURLSigner(cfg.SignedURLSecret, cfg.SignedURLTTL),
		csv:     export.NewCSVExporter(),
		pdf:     export.NewPDFExporter(),
		logger:  logger,
	}
	s.queue = jobs.New("match-reports", s.handleJob, jobs.Config{
		Workers:     cfg.WorkerConcurrency,
		MaxAttempts: cfg.WorkerRetries,
		Logger:      logger,
	})
	return s
}

// Start launches the report workers and a daily retention sweep that
// drops rendered files past the configured TTL.
func (s *ReportService) Start(ctx context.Context) {
	s.queue.Start(ctx)
	if s.cfg.RetentionTTL > 0 {
		go s.sweep(ctx)
	}
}

func (s *ReportService) sweep(ctx context.Context) {
	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			deleted, err := s.store.CleanupOlderThan(s.cfg.RetentionTTL)
			if err != nil {
				s.logger.Warn("report retention sweep failed", zap.Error(err))
				continue
			}
			if len(deleted) > 0 {
				s.logger.Info("expired report files removed", zap.Int("count", len(deleted)))
			}
		}
	}
}

// Stop drains the report workers.
func (s *ReportService) Stop() {
	s.queue.Stop()
}

// Queue registers a report job for an event that has completed its match run.
func (s *ReportService) Queue(ctx context.Context, eventDate string, format models.ReportFormat, actor string) (*models.ReportJob, error) {
	if !s.cfg.Enabled {
		return nil, appErrors.ErrReportsDisabled
	}
	if !format.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported report format %q", format))
	}

	// Fails fast when no run has happened, instead of failing in the worker.
	if _, err := s.results.Results(ctx, eventDate); err != nil {
		return nil, err
	}

	job := &models.ReportJob{EventDate: eventDate, Format: format}
	if err := s.repo.Create(ctx, job); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create report job")
	}

	if err := s.queue.Enqueue(job.ID); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to enqueue report job")
	}

	if s.audit != nil {
		payload, _ := json.Marshal(map[string]string{"report_id": job.ID, "format": string(format)})
		if err := s.audit.Create(ctx, &models.AuditLog{
			Actor:      actor,
			Action:     models.AuditActionReportQueue,
			Resource:   "report",
			ResourceID: &eventDate,
			Payload:    payload,
		}); err != nil {
			s.logger.Warn("failed to record report audit log", zap.Error(err))
		}
	}

	return job, nil
}

// Get returns a report job, attaching a signed download URL once completed.
func (s *ReportService) Get(ctx context.Context, id string) (*models.ReportJob, error) {
	job, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "report not found")
	}
	if job.Status == models.ReportStatusCompleted && job.FilePath != "" {
		token, _, err := s.signer.Generate(job.ID, job.FilePath)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign download URL")
		}
		job.DownloadURL = "/reports/download?token=" + token
	}
	return job, nil
}

// Open validates a download token and opens the rendered file.
func (s *ReportService) Open(token string) (*os.File, string, error) {
	reportID, relPath, _, err := s.signer.Parse(token, false)
	if err != nil {
		return nil, "", appErrors.Clone(appErrors.ErrUnauthorized, "invalid or expired download token")
	}
	file, err := s.store.Open(relPath)
	if err != nil {
		return nil, "", appErrors.Clone(appErrors.ErrNotFound, "report file not found")
	}
	return file, reportID, nil
}

func (s *ReportService) handleJob(ctx context.Context, id string) error {
	if err := s.repo.MarkProcessing(ctx, id); err != nil {
		return err
	}

	record, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}

	result, err := s.results.Results(ctx, record.EventDate)
	if err != nil {
		s.fail(ctx, id, err)
		return err
	}

	table := buildReportTable(result, record.EventDate)
	var rendered []byte
	switch record.Format {
	case models.ReportFormatPDF:
		rendered, err = s.pdf.Render(table)
	default:
		rendered, err = s.csv.Render(table)
	}
	if err != nil {
		s.fail(ctx, id, err)
		return err
	}

	relPath := fmt.Sprintf("reports/%s/%s.%s", record.EventDate, record.ID, record.Format)
	if _, err := s.store.Save(relPath, rendered); err != nil {
		s.fail(ctx, id, err)
		return err
	}

	if err := s.repo.MarkCompleted(ctx, id, relPath); err != nil {
		return err
	}
	s.logger.Info("match report rendered",
		zap.String("report_id", id),
		zap.String("event_date", record.EventDate),
		zap.String("format", string(record.Format)),
	)
	return nil
}

func (s *ReportService) fail(ctx context.Context, id string, cause error) {
	if err := s.repo.MarkFailed(ctx, id, cause.Error()); err != nil {
		s.logger.Warn("failed to mark report failed", zap.String("report_id", id), zap.Error(err))
	}
}

// buildReportTable flattens a run result into the tabular export shape.
// Matched pairs come first, then unmatched participants with their
// selected-by counts.
func buildReportTable(result *models.MatchRunResult, eventDate string) export.Table {
	rows := make([][]string, 0, len(result.Matches)+len(result.Unmatched))
	for _, m := range result.Matches {
		rows = append(rows, []string{
			m.Person1Code,
			m.Person2Code,
			string(m.MatchType),
			strconv.FormatBool(m.Person1Consent),
			strconv.FormatBool(m.Person2Consent),
			"",
		})
	}
	for _, u := range result.Unmatched {
		rows = append(rows, []string{u.Code, "", "", "", "", strconv.Itoa(u.SelectedByCount)})
	}
	return export.Table{
		Title:   "Match results " + eventDate,
		Columns: []string{"person1", "person2", "match_type", "person1_consent", "person2_consent", "selected_by_count"},
		Rows:    rows,
	}
}
