package lucida

import (
	"time"
)

// JobStatus represents the state of a conversion job on the service
type JobStatus string

const (
	JobStatusPending    JobStatus = "pending"
	JobStatusInProgress JobStatus = "inProgress"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
)

// defaultServerName is used when the job-creation response omits the
// assigned server name.
const defaultServerName = "katze"

// ConversionJob is a handle onto a server-side conversion. HandoffID and
// ServerName never change once assigned; every poll and download request
// for the job is addressed to the same server.
type ConversionJob struct {
	HandoffID  string    `json:"handoff_id"`
	ServerName string    `json:"server_name"`
	Status     JobStatus `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}

// DownloadResult is the single structured value a rip returns. It is
// also the final JSON object written to stdout.
type DownloadResult struct {
	TidalURL string `json:"tidal_url"`
	Status   string `json:"status"`
	Message  string `json:"message"`
	FilePath string `json:"file_path"`
}

// Result statuses for DownloadResult.Status.
const (
	ResultSuccess = "success"
	ResultFail    = "fail"
)

// FailResult builds a failure DownloadResult for the given source URL
func FailResult(tidalURL, message string) *DownloadResult {
	return &DownloadResult{
		TidalURL: tidalURL,
		Status:   ResultFail,
		Message:  message,
	}
}

// loadRequest is the job-creation payload posted to /api/load.
// Field values mirror what the service's own web client sends.
type loadRequest struct {
	URL       string       `json:"url"`
	Metadata  bool         `json:"metadata"`
	Compat    bool         `json:"compat"`
	Private   bool         `json:"private"`
	Handoff   bool         `json:"handoff"`
	Account   accountField `json:"account"`
	Upload    uploadField  `json:"upload"`
	Downscale string       `json:"downscale"`
	Token     tokenField   `json:"token"`
}

type accountField struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

type uploadField struct {
	Enabled bool   `json:"enabled"`
	Service string `json:"service"`
}

type tokenField struct {
	Primary string `json:"primary"`
	Expiry  int64  `json:"expiry"`
}

// loadResponse is the job-creation response
type loadResponse struct {
	Success bool   `json:"success"`
	Handoff string `json:"handoff"`
	Name    string `json:"name"`
}
