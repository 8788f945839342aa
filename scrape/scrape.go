// Package scrape extracts artist/title metadata for a track from the
// conversion service's lookup page. Scraping is best effort: every
// failure degrades to empty metadata plus a warning event, leaving the
// caller free to fall back to a track-ID filename.
package scrape

import (
	"context"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/text/unicode/norm"

	"tidalrip/progress"
	"tidalrip/track"
)

// titleMatcher captures the track description out of the raw markup.
// Matchers are tried in order; the first hit wins.
type titleMatcher struct {
	name    string
	pattern *regexp.Regexp
}

var titleMatchers = []titleMatcher{
	{"page title", regexp.MustCompile(`<title>(.*?)\s+\|\s+lucida</title>`)},
	{"og:title", regexp.MustCompile(`<meta property="og:title" content="Download (.*?) on Lucida for free">`)},
	{"any title", regexp.MustCompile(`<title>(.*?)</title>`)},
}

// The lookup page describes tracks as "Title by Artist", optionally
// followed by " | ..." suffix content.
var byPattern = regexp.MustCompile(`(.*?)\s+by\s+(.*?)($|\s+\|)`)

// Scraper fetches and parses the service lookup page for a track
type Scraper struct {
	client    *http.Client
	baseURL   string
	userAgent string
	reporter  *progress.Reporter
}

// NewScraper creates a Scraper against the given service base URL,
// e.g. "https://lucida.to"
func NewScraper(client *http.Client, baseURL, userAgent string, reporter *progress.Reporter) *Scraper {
	if client == nil {
		client = http.DefaultClient
	}
	return &Scraper{
		client:    client,
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		userAgent: userAgent,
		reporter:  reporter,
	}
}

// TrackMetadata returns the (artist, title) pair for a validated track
// URL, or empty metadata when the page cannot be fetched or parsed
func (s *Scraper) TrackMetadata(ctx context.Context, trackURL string) track.Metadata {
	lookupURL := fmt.Sprintf("%s/?url=%s&country=auto", s.baseURL, url.QueryEscape(trackURL))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, lookupURL, nil)
	if err != nil {
		s.reporter.Warning(fmt.Sprintf("Failed to get track info: %v", err))
		return track.Metadata{}
	}
	// The service rejects or degrades requests without a browser UA
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		s.reporter.Warning(fmt.Sprintf("Failed to get track info: %v", err))
		return track.Metadata{}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		s.reporter.Warning(fmt.Sprintf("Failed to get track info: unexpected status %d", resp.StatusCode))
		return track.Metadata{}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		s.reporter.Warning(fmt.Sprintf("Failed to get track info: %v", err))
		return track.Metadata{}
	}

	return s.parse(string(body))
}

// parse runs the ordered matchers over the markup and splits the
// captured text into the artist/title pair
func (s *Scraper) parse(markup string) track.Metadata {
	var titleText, matcherName string
	for _, m := range titleMatchers {
		if matches := m.pattern.FindStringSubmatch(markup); len(matches) > 1 {
			titleText = html.UnescapeString(matches[1])
			matcherName = m.name
			break
		}
	}

	if titleText == "" {
		s.reporter.Warning("Could not extract title from HTML response")
		return track.Metadata{}
	}

	matches := byPattern.FindStringSubmatch(titleText)
	if matches == nil {
		s.reporter.Warning(fmt.Sprintf("Could not parse artist and title from: %s", titleText))
		return track.Metadata{}
	}

	title := norm.NFC.String(strings.TrimSpace(html.UnescapeString(matches[1])))
	artist := norm.NFC.String(strings.TrimSpace(html.UnescapeString(matches[2])))

	s.reporter.Debug(fmt.Sprintf("Parsed title: '%s' by '%s'", title, artist),
		zap.String("title", title),
		zap.String("artist", artist),
		zap.String("matcher", matcherName),
	)

	return track.Metadata{Artist: artist, Title: title}
}
