// Package ripper wires URL validation, metadata scraping, filename
// building and the conversion client into the sequential download flow.
package ripper

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"tidalrip/config"
	"tidalrip/lucida"
	"tidalrip/progress"
	"tidalrip/track"
)

// MetadataScraper resolves the artist/title pair for a track URL
type MetadataScraper interface {
	TrackMetadata(ctx context.Context, trackURL string) track.Metadata
}

// TrackDownloader runs the request/poll/download protocol for a track
type TrackDownloader interface {
	DownloadTrack(ctx context.Context, ref *track.Reference, filename, outputDir string) *lucida.DownloadResult
}

// Ripper downloads a single track end to end
type Ripper struct {
	cfg      *config.Config
	scraper  MetadataScraper
	client   TrackDownloader
	reporter *progress.Reporter
}

// New creates a Ripper from its collaborators
func New(cfg *config.Config, scraper MetadataScraper, client TrackDownloader, reporter *progress.Reporter) *Ripper {
	return &Ripper{
		cfg:      cfg,
		scraper:  scraper,
		client:   client,
		reporter: reporter,
	}
}

// Rip downloads the track at rawURL into outputDir and returns the
// structured result. Failures are reported through the result value,
// never as an error.
func (r *Ripper) Rip(ctx context.Context, rawURL, outputDir string) *lucida.DownloadResult {
	if !track.ValidateURL(rawURL) {
		return lucida.FailResult(rawURL, "Invalid Tidal track URL")
	}

	trackID := track.ExtractTrackID(rawURL)
	if trackID == "" {
		return lucida.FailResult(rawURL, "Could not extract track ID from URL")
	}

	if outputDir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return lucida.FailResult(rawURL, fmt.Sprintf("Failed to resolve working directory: %v", err))
		}
		outputDir = cwd
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return lucida.FailResult(rawURL, fmt.Sprintf("Failed to create output directory: %v", err))
	}

	ref := &track.Reference{SourceURL: rawURL, TrackID: trackID}

	// Best effort: empty metadata just selects the fallback filename
	meta := r.scraper.TrackMetadata(ctx, rawURL)
	filename := track.BuildFilename(meta, trackID, r.cfg.FallbackPrefix)

	r.reporter.Info("Track information retrieved",
		zap.String("artist", meta.Artist),
		zap.String("title", meta.Title),
	)

	return r.client.DownloadTrack(ctx, ref, filename, outputDir)
}
