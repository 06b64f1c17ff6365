package service

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/atelier116/fashionweek-api/internal/models"
	appErrors "github.com/atelier116/fashionweek-api/pkg/errors"
	"github.com/atelier116/fashionweek-api/pkg/export"
	"github.com/atelier116/fashionweek-api/pkg/jobs"
	"github.com/atelier116/fashionweek-api/pkg/storage"
)

// ExportFormat identifies a day-sheet output format.
type ExportFormat string

const (
	FormatCSV ExportFormat = "csv"
	FormatPDF ExportFormat = "pdf"
)

// ExportStatus tracks an export job through its lifecycle.
type ExportStatus string

const (
	ExportQueued     ExportStatus = "queued"
	ExportProcessing ExportStatus = "processing"
	ExportReady      ExportStatus = "ready"
	ExportFailed     ExportStatus = "failed"
)

// ExportJob is the tracked state of a requested day sheet.
type ExportJob struct {
	ID          string       `json:"id"`
	Format      ExportFormat `json:"format"`
	Day         time.Time    `json:"day"`
	Status      ExportStatus `json:"status"`
	FileName    string       `json:"file_name,omitempty"`
	DownloadTok string       `json:"download_token,omitempty"`
	ExpiresAt   *time.Time   `json:"expires_at,omitempty"`
	Error       string       `json:"error,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
}

type exportPayload struct {
	JobID string
}

type exportRecorder interface {
	ExportJobFinished(status string)
}

var daySheetHeaders = []string{"Start", "End", "Area", "Title", "Guests", "Organizer", "Market", "Status"}

// ExportService generates printable day sheets asynchronously and hands
// out signed download tokens for the results.
type ExportService struct {
	meetings meetingLister
	store    *storage.LocalStorage
	signer   *storage.SignedURLSigner
	csv      *export.CSVExporter
	pdf      *export.PDFExporter
	queue        *jobs.Queue
	metrics      exportRecorder
	cleanupEvery time.Duration
	fileTTL      time.Duration
	logger       *zap.Logger

	mu      sync.RWMutex
	tracked map[string]*ExportJob
}

// ExportServiceConfig tunes the export worker pool and file retention.
type ExportServiceConfig struct {
	Workers         int
	Retries         int
	CleanupInterval time.Duration
	FileTTL         time.Duration
}

// NewExportService constructs the export pipeline.
func NewExportService(meetings meetingLister, store *storage.LocalStorage, signer *storage.SignedURLSigner, cfg ExportServiceConfig, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	fileTTL := cfg.FileTTL
	if fileTTL <= 0 {
		fileTTL = 24 * time.Hour
	}
	s := &ExportService{
		meetings:     meetings,
		store:        store,
		signer:       signer,
		csv:          export.NewCSVExporter(),
		pdf:          export.NewPDFExporter(),
		cleanupEvery: cfg.CleanupInterval,
		fileTTL:      fileTTL,
		logger:       logger,
		tracked:      map[string]*ExportJob{},
	}
	s.queue = jobs.NewQueue("exports", s.process, jobs.QueueConfig{
		Workers:    cfg.Workers,
		MaxRetries: cfg.Retries,
		Logger:     logger,
	})
	return s
}

// SetMetrics attaches the prometheus export counters.
func (s *ExportService) SetMetrics(metrics exportRecorder) {
	s.metrics = metrics
}

// Start launches the export workers and the retention sweep.
func (s *ExportService) Start(ctx context.Context) {
	s.queue.Start(ctx)
	if s.cleanupEvery > 0 {
		go s.cleanupLoop(ctx)
	}
}

func (s *ExportService) cleanupLoop(ctx context.Context) {
	ticker := time.NewTicker(s.cleanupEvery)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			deleted, err := s.store.CleanupOlderThan(s.fileTTL)
			if err != nil {
				s.logger.Warn("export cleanup failed", zap.Error(err))
				continue
			}
			if len(deleted) > 0 {
				s.logger.Info("expired exports removed", zap.Int("count", len(deleted)))
			}
		}
	}
}

// Stop drains the export workers.
func (s *ExportService) Stop() {
	s.queue.Stop()
}

// RequestDaySheet queues generation of a day sheet for the given date.
func (s *ExportService) RequestDaySheet(day time.Time, format ExportFormat) (*ExportJob, error) {
	switch format {
	case FormatCSV, FormatPDF:
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}

	job := &ExportJob{
		ID:        uuid.NewString(),
		Format:    format,
		Day:       day,
		Status:    ExportQueued,
		CreatedAt: time.Now().UTC(),
	}

	s.mu.Lock()
	s.tracked[job.ID] = job
	s.mu.Unlock()

	if err := s.queue.Enqueue(jobs.Job{ID: job.ID, Type: "day-sheet", Payload: exportPayload{JobID: job.ID}}); err != nil {
		s.setFailed(job.ID, err)
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to queue export")
	}
	return s.Job(job.ID)
}

// Job returns a snapshot of the tracked export job.
func (s *ExportService) Job(id string) (*ExportJob, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, ok := s.tracked[id]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "export job not found")
	}
	snapshot := *job
	return &snapshot, nil
}

// OpenDownload validates a signed token and returns the file handle plus
// the suggested download name.
func (s *ExportService) OpenDownload(token string) (*os.File, string, error) {
	_, relPath, _, err := s.signer.Parse(token, false)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrForbidden.Code, appErrors.ErrForbidden.Status, "invalid download token")
	}
	file, err := s.store.Open(relPath)
	if err != nil {
		return nil, "", appErrors.Clone(appErrors.ErrNotFound, "export file not found")
	}
	parts := strings.Split(relPath, "/")
	return file, parts[len(parts)-1], nil
}

func (s *ExportService) process(ctx context.Context, job jobs.Job) error {
	payload, ok := job.Payload.(exportPayload)
	if !ok {
		s.logger.Warn("dropping export with unexpected payload", zap.String("job_id", job.ID))
		return nil
	}

	s.setStatus(payload.JobID, ExportProcessing)

	s.mu.RLock()
	tracked, ok := s.tracked[payload.JobID]
	s.mu.RUnlock()
	if !ok {
		return nil
	}
	day := tracked.Day
	format := tracked.Format

	from := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	to := from.Add(24 * time.Hour)
	meetings, err := s.meetings.List(ctx, models.MeetingFilter{From: &from, To: &to})
	if err != nil {
		s.setFailed(payload.JobID, err)
		return err
	}

	dataset := buildDaySheet(meetings)
	var rendered []byte
	switch format {
	case FormatPDF:
		rendered, err = s.pdf.Render(dataset, "Day sheet "+from.Format("2006-01-02"))
	default:
		rendered, err = s.csv.Render(dataset)
	}
	if err != nil {
		s.setFailed(payload.JobID, err)
		return err
	}

	fileName := fmt.Sprintf("day-sheets/%s-%s.%s", from.Format("2006-01-02"), payload.JobID, format)
	relPath, err := s.store.Save(fileName, rendered)
	if err != nil {
		s.setFailed(payload.JobID, err)
		return err
	}

	token, expiresAt, err := s.signer.Generate(payload.JobID, relPath)
	if err != nil {
		s.setFailed(payload.JobID, err)
		return err
	}

	s.mu.Lock()
	if job, ok := s.tracked[payload.JobID]; ok {
		job.Status = ExportReady
		job.FileName = relPath
		job.DownloadTok = token
		job.ExpiresAt = &expiresAt
		job.Error = ""
	}
	s.mu.Unlock()
	if s.metrics != nil {
		s.metrics.ExportJobFinished(string(ExportReady))
	}
	return nil
}

func (s *ExportService) setStatus(id string, status ExportStatus) {
	s.mu.Lock()
	if job, ok := s.tracked[id]; ok {
		job.Status = status
	}
	s.mu.Unlock()
}

func (s *ExportService) setFailed(id string, err error) {
	s.mu.Lock()
	if job, ok := s.tracked[id]; ok {
		job.Status = ExportFailed
		job.Error = err.Error()
	}
	s.mu.Unlock()
	if s.metrics != nil {
		s.metrics.ExportJobFinished(string(ExportFailed))
	}
}

func buildDaySheet(meetings []models.Meeting) export.Dataset {
	rows := make([]map[string]string, 0, len(meetings))
	for _, m := range meetings {
		market := ""
		if m.Market != nil {
			market = m.Market.Label
		}
		organizer := ""
		if m.Organizer != nil {
			organizer = m.Organizer.FirstName + " " + m.Organizer.LastName
		}
		rows = append(rows, map[string]string{
			"Start":     m.StartDate.Format("15:04"),
			"End":       m.EndDate.Format("15:04"),
			"Area":      m.Area.Label,
			"Title":     m.Title,
			"Guests":    fmt.Sprintf("%d", len(m.Guests)),
			"Organizer": organizer,
			"Market":    market,
			"Status":    statusLabel(m.Status),
		})
	}
	return export.Dataset{Headers: daySheetHeaders, Rows: rows}
}

func statusLabel(status models.MeetingStatus) string {
	switch status {
	case models.MeetingStatusAccepted:
		return "accepted"
	case models.MeetingStatusRejected:
		return "rejected"
	default:
		return "in progress"
	}
}
