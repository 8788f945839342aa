// Package lucida implements the client side of the lucida.to conversion
// protocol: create a job, poll its status until completed, then stream
// the converted file to disk.
package lucida

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"

	"tidalrip/config"
	"tidalrip/progress"
	"tidalrip/track"
)

// loadPath is the job-creation endpoint. The query value is the
// percent-encoded internal route the service dispatches the job to.
const loadPath = "/api/load?url=%2Fapi%2Ffetch%2Fstream%2Fv2"

// copyChunkSize bounds memory use while streaming the file to disk
const copyChunkSize = 8192

// Client drives a ConversionJob through its lifecycle against the
// conversion service
type Client struct {
	httpClient    *http.Client
	baseURL       string
	serverBaseURL func(name string) string
	token         string
	tokenTTL      time.Duration
	userAgent     string
	pollInterval  time.Duration
	pollTimeout   time.Duration
	timer         backoff.Timer
	barWriter     io.Writer
	reporter      *progress.Reporter
}

// Option customizes a Client beyond what configuration provides
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithBaseURL points the client at a different service base URL
func WithBaseURL(baseURL string) Option {
	return func(c *Client) { c.baseURL = baseURL }
}

// WithServerBaseURL replaces how per-job server URLs are derived from
// the assigned server name
func WithServerBaseURL(fn func(name string) string) Option {
	return func(c *Client) { c.serverBaseURL = fn }
}

// WithTimer injects the timer driving the poll interval
func WithTimer(t backoff.Timer) Option {
	return func(c *Client) { c.timer = t }
}

// WithProgressWriter redirects the download progress bar
func WithProgressWriter(w io.Writer) Option {
	return func(c *Client) { c.barWriter = w }
}

// NewClient creates a Client from the loaded configuration
func NewClient(cfg *config.Config, reporter *progress.Reporter, opts ...Option) *Client {
	host := cfg.Host
	c := &Client{
		httpClient: &http.Client{},
		baseURL:    "https://" + host,
		serverBaseURL: func(name string) string {
			return fmt.Sprintf("https://%s.%s", name, host)
		},
		token:        cfg.Token,
		tokenTTL:     cfg.TokenTTL,
		userAgent:    cfg.UserAgent,
		pollInterval: cfg.PollInterval,
		pollTimeout:  cfg.PollTimeout,
		barWriter:    os.Stderr,
		reporter:     reporter,
	}

	for _, opt := range opts {
		opt(c)
	}
	return c
}

// DownloadTrack runs the full request/poll/download protocol for a
// track and writes the file to <outputDir>/<filename>. Every failure is
// converted into a fail-status DownloadResult; nothing escapes as an
// uncaught error.
func (c *Client) DownloadTrack(ctx context.Context, ref *track.Reference, filename, outputDir string) *DownloadResult {
	job, err := c.CreateJob(ctx, ref)
	if err != nil {
		return FailResult(ref.SourceURL, failMessage(err))
	}

	c.reporter.Event(progress.StatusPending, "Download initiated",
		zap.String("handoff_id", job.HandoffID))

	if err := c.PollUntilComplete(ctx, job); err != nil {
		return FailResult(ref.SourceURL, failMessage(err))
	}

	filePath := filepath.Join(outputDir, filename)
	c.reporter.Event(progress.StatusDownloading, fmt.Sprintf("Downloading file: %s", filename),
		zap.String("path", filePath))

	if err := c.FetchFile(ctx, job, filePath); err != nil {
		return FailResult(ref.SourceURL, failMessage(err))
	}

	return &DownloadResult{
		TidalURL: ref.SourceURL,
		Status:   ResultSuccess,
		Message:  "Track downloaded successfully",
		FilePath: filePath,
	}
}

// CreateJob sends the job-creation request and returns the job handle
// seeded from the handoff ID and assigned server name
func (c *Client) CreateJob(ctx context.Context, ref *track.Reference) (*ConversionJob, error) {
	payload := loadRequest{
		URL:       fmt.Sprintf("http://www.tidal.com/track/%s", ref.TrackID),
		Metadata:  true,
		Compat:    false,
		Private:   true,
		Handoff:   true,
		Account:   accountField{Type: "country", ID: "auto"},
		Upload:    uploadField{Enabled: false, Service: "pixeldrain"},
		Downscale: "original",
		Token: tokenField{
			Primary: c.token,
			Expiry:  time.Now().Add(c.tokenTTL).Unix(),
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, NewRipErrorWithCause(ErrorServiceRequest, fmt.Sprintf("Request error: %v", err), err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+loadPath, bytes.NewReader(body))
	if err != nil {
		return nil, NewRipErrorWithCause(ErrorServiceRequest, fmt.Sprintf("Request error: %v", err), err)
	}
	req.Header.Set("Content-Type", "text/plain;charset=UTF-8")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Origin", c.baseURL)
	req.Header.Set("Referer", fmt.Sprintf("%s/?url=%s&country=auto", c.baseURL, url.QueryEscape(ref.SourceURL)))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, NewRipErrorWithCause(ErrorServiceRequest, fmt.Sprintf("Request error: %v", err), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, NewRipError(ErrorServiceRequest, fmt.Sprintf("Request error: load endpoint returned status %d", resp.StatusCode))
	}

	var lr loadResponse
	if err := json.NewDecoder(resp.Body).Decode(&lr); err != nil {
		return nil, NewRipErrorWithCause(ErrorServiceRequest, fmt.Sprintf("Request error: %v", err), err)
	}

	if !lr.Success || lr.Handoff == "" {
		return nil, NewRipError(ErrorServiceRequest, "Failed to initiate download")
	}

	name := lr.Name
	if name == "" {
		name = defaultServerName
	}

	return &ConversionJob{
		HandoffID:  lr.Handoff,
		ServerName: name,
		Status:     JobStatusPending,
		CreatedAt:  time.Now(),
	}, nil
}

// errNotReady marks a poll attempt that must be retried after the
// configured interval
var errNotReady = errors.New("job not completed yet")

// PollUntilComplete queries the per-job status endpoint at a constant
// interval until the job reports completed or the wall-clock timeout
// since job creation elapses
func (c *Client) PollUntilComplete(ctx context.Context, job *ConversionJob) error {
	pollCtx, cancel := context.WithDeadline(ctx, job.CreatedAt.Add(c.pollTimeout))
	defer cancel()

	statusURL := fmt.Sprintf("%s/api/fetch/request/%s", c.serverBaseURL(job.ServerName), job.HandoffID)

	operation := func() error {
		return c.pollOnce(pollCtx, job, statusURL)
	}

	b := backoff.WithContext(backoff.NewConstantBackOff(c.pollInterval), pollCtx)
	err := backoff.RetryNotifyWithTimer(operation, b, nil, c.timer)
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) {
		job.Status = JobStatusFailed
		return NewRipError(ErrorTimeout, fmt.Sprintf("Download timed out after %s", c.pollTimeout))
	}
	if IsRipError(err) {
		job.Status = JobStatusFailed
		return err
	}
	job.Status = JobStatusFailed
	return NewRipErrorWithCause(ErrorServiceRequest, fmt.Sprintf("Request error: %v", err), err)
}

// pollOnce issues a single status request. Non-200 responses are
// transient and retried on the next tick; transport and decode failures
// abort the poll loop.
func (c *Client) pollOnce(ctx context.Context, job *ConversionJob, statusURL string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, statusURL, nil)
	if err != nil {
		return backoff.Permanent(NewRipErrorWithCause(ErrorServiceRequest, fmt.Sprintf("Request error: %v", err), err))
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Origin", c.baseURL)
	req.Header.Set("Referer", c.baseURL+"/")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return backoff.Permanent(NewRipErrorWithCause(ErrorServiceRequest, fmt.Sprintf("Request error: %v", err), err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errNotReady
	}

	var payload map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return backoff.Permanent(NewRipErrorWithCause(ErrorServiceRequest, fmt.Sprintf("Request error: %v", err), err))
	}

	c.emitStatus(payload)

	if status, _ := payload["status"].(string); status != "" {
		job.Status = JobStatus(status)
	}
	if job.Status == JobStatusCompleted {
		return nil
	}
	return errNotReady
}

// emitStatus surfaces a raw poll payload as a progress event
func (c *Client) emitStatus(payload map[string]any) {
	status, _ := payload["status"].(string)
	if status == "" {
		status = progress.StatusInfo
	}
	message, _ := payload["message"].(string)

	keys := make([]string, 0, len(payload))
	for k := range payload {
		if k == "status" || k == "message" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fields := make([]zap.Field, 0, len(keys))
	for _, k := range keys {
		fields = append(fields, zap.Any(k, payload[k]))
	}

	c.reporter.Event(status, message, fields...)
}

// FetchFile streams the converted file to destPath. The body is written
// through a temp file in fixed-size chunks and renamed into place only
// after a clean close, so a mid-stream failure never leaves a truncated
// file at the destination.
func (c *Client) FetchFile(ctx context.Context, job *ConversionJob, destPath string) error {
	downloadURL := fmt.Sprintf("%s/api/fetch/request/%s/download", c.serverBaseURL(job.ServerName), job.HandoffID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, downloadURL, nil)
	if err != nil {
		return NewRipErrorWithCause(ErrorServiceRequest, fmt.Sprintf("Request error: %v", err), err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Referer", c.baseURL+"/")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return NewRipErrorWithCause(ErrorServiceRequest, fmt.Sprintf("Request error: %v", err), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return NewRipError(ErrorServiceRequest, fmt.Sprintf("Request error: download endpoint returned status %d", resp.StatusCode))
	}

	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return NewRipErrorWithCause(ErrorFilesystem, fmt.Sprintf("Failed to create output directory: %v", err), err)
	}

	tmpPath := fmt.Sprintf("%s.%s.part", destPath, uuid.NewString())
	f, err := os.Create(tmpPath)
	if err != nil {
		return NewRipErrorWithCause(ErrorFilesystem, fmt.Sprintf("Failed to create output file: %v", err), err)
	}

	bar := progressbar.NewOptions64(resp.ContentLength,
		progressbar.OptionSetWriter(c.barWriter),
		progressbar.OptionSetDescription("downloading"),
		progressbar.OptionShowBytes(true),
		progressbar.OptionClearOnFinish(),
	)

	_, copyErr := io.CopyBuffer(io.MultiWriter(f, bar), resp.Body, make([]byte, copyChunkSize))
	closeErr := f.Close()

	if copyErr != nil {
		os.Remove(tmpPath)
		return NewRipErrorWithCause(ErrorFilesystem, fmt.Sprintf("Failed to write output file: %v", copyErr), copyErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return NewRipErrorWithCause(ErrorFilesystem, fmt.Sprintf("Failed to write output file: %v", closeErr), closeErr)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return NewRipErrorWithCause(ErrorFilesystem, fmt.Sprintf("Failed to move output file into place: %v", err), err)
	}

	return nil
}

// failMessage extracts the human-facing message for a failure result
func failMessage(err error) string {
	var re *RipError
	if errors.As(err, &re) {
		return re.Message
	}
	return fmt.Sprintf("Unexpected error: %v", err)
}
