package track

import (
	"fmt"
	"regexp"

	"golang.org/x/text/unicode/norm"
)

// maxFilenameLength is a safe character budget for most filesystems,
// applied before the extension is appended.
const maxFilenameLength = 150

var forbiddenNames = regexp.MustCompile(`[<>:"/\\|?*]`)

// Metadata carries the artist/title pair scraped for a track.
// The fields are parsed together; either both are set or both are empty.
type Metadata struct {
	Artist string
	Title  string
}

// Present reports whether the pair was successfully scraped
func (m Metadata) Present() bool {
	return m.Artist != "" && m.Title != ""
}

// BuildFilename composes a filesystem-safe filename for a track.
// With metadata present the result is "<artist> - <title>.flac" with
// reserved characters stripped and the stem truncated to 150 characters.
// Without metadata it falls back to "<prefix>_track_<trackID>.flac".
func BuildFilename(meta Metadata, trackID, fallbackPrefix string) string {
	if !meta.Present() {
		return fmt.Sprintf("%s_track_%s.flac", fallbackPrefix, trackID)
	}

	artist := forbiddenNames.ReplaceAllString(norm.NFC.String(meta.Artist), "")
	title := forbiddenNames.ReplaceAllString(norm.NFC.String(meta.Title), "")

	stem := fmt.Sprintf("%s - %s", artist, title)

	// Truncate by rune count so multi-byte code points are never split
	if runes := []rune(stem); len(runes) > maxFilenameLength {
		stem = string(runes[:maxFilenameLength])
	}

	return stem + ".flac"
}
