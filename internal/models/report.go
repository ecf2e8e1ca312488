package models

import "time"

// ReportFormat selects the rendered output of a match report.
type ReportFormat string

const (
	ReportFormatCSV ReportFormat = "csv"
	ReportFormatPDF ReportFormat = "pdf"
)

// Valid reports whether the format is supported.
func (f ReportFormat) Valid() bool {
	return f == ReportFormatCSV || f == ReportFormatPDF
}

// Report job states.
const (
	ReportStatusPending    = "pending"
	ReportStatusProcessing = "processing"
	ReportStatusCompleted  = "completed"
	ReportStatusFailed     = "failed"
)

// ReportJob tracks one asynchronous match report render.
type ReportJob struct {
	ID          string       `db:"id" json:"id"`
	EventDate   string       `db:"event_date" json:"event_date"`
	Format      ReportFormat `db:"format" json:"format"`
	Status      string       `db:"status" json:"status"`
	FilePath    string       `db:"file_path" json:"-"`
	ErrorText   *string      `db:"error_text" json:"error_text,omitempty"`
	DownloadURL string       `db:"-" json:"download_url,omitempty"`
	RequestedAt time.Time    `db:"requested_at" json:"requested_at"`
	CompletedAt *time.Time   `db:"completed_at" json:"completed_at,omitempty"`
}
