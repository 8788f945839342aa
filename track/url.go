package track

import (
	"regexp"
)

var (
	trackURLPattern = regexp.MustCompile(`^https://listen\.tidal\.com/track/\d+`)
	trackIDPattern  = regexp.MustCompile(`track/(\d+)`)
)

// Reference identifies a single track by its source URL and numeric ID
type Reference struct {
	SourceURL string `json:"source_url"`
	TrackID   string `json:"track_id"`
}

// ValidateURL reports whether the URL has the canonical Tidal track shape
func ValidateURL(url string) bool {
	return trackURLPattern.MatchString(url)
}

// ExtractTrackID returns the digit run following the track/ path segment,
// or the empty string when the URL carries none
func ExtractTrackID(url string) string {
	matches := trackIDPattern.FindStringSubmatch(url)
	if len(matches) < 2 {
		return ""
	}
	return matches[1]
}

