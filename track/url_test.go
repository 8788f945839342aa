package track

import (
	"testing"
)

func TestValidateURL(t *testing.T) {
	testCases := []struct {
		name     string
		inputURL string
		expected bool
	}{
		{
			name:     "Canonical track URL",
			inputURL: "https://listen.tidal.com/track/12345",
			expected: true,
		},
		{
			name:     "Track URL with trailing path",
			inputURL: "https://listen.tidal.com/track/12345?u",
			expected: true,
		},
		{
			name:     "Album URL",
			inputURL: "https://listen.tidal.com/album/12345",
			expected: false,
		},
		{
			name:     "Wrong host",
			inputURL: "https://tidal.com/track/12345",
			expected: false,
		},
		{
			name:     "HTTP scheme",
			inputURL: "http://listen.tidal.com/track/12345",
			expected: false,
		},
		{
			name:     "Missing track ID",
			inputURL: "https://listen.tidal.com/track/",
			expected: false,
		},
		{
			name:     "Non-numeric track ID",
			inputURL: "https://listen.tidal.com/track/abc",
			expected: false,
		},
		{
			name:     "Prefixed garbage",
			inputURL: "xxhttps://listen.tidal.com/track/12345",
			expected: false,
		},
		{
			name:     "Empty string",
			inputURL: "",
			expected: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ValidateURL(tc.inputURL); got != tc.expected {
				t.Errorf("ValidateURL(%q) = %v, want %v", tc.inputURL, got, tc.expected)
			}
		})
	}
}

func TestExtractTrackID(t *testing.T) {
	testCases := []struct {
		name     string
		inputURL string
		expected string
	}{
		{
			name:     "Simple track URL",
			inputURL: "https://listen.tidal.com/track/12345",
			expected: "12345",
		},
		{
			name:     "Track URL with query",
			inputURL: "https://listen.tidal.com/track/98765?play=true",
			expected: "98765",
		},
		{
			name:     "No track segment",
			inputURL: "https://listen.tidal.com/album/12345",
			expected: "",
		},
		{
			name:     "Empty string",
			inputURL: "",
			expected: "",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ExtractTrackID(tc.inputURL); got != tc.expected {
				t.Errorf("ExtractTrackID(%q) = %q, want %q", tc.inputURL, got, tc.expected)
			}
		})
	}
}
