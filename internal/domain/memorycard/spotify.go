package memorycard

import (
	"net/url"
	"strings"
)

const spotifyEmbedBase = "https://open.spotify.com/embed/track/"

// ValidSpotifyLink reports whether link is empty or points at spotify.com
func ValidSpotifyLink(link string) bool {
	link = strings.TrimSpace(link)
	return link == "" || strings.Contains(link, "spotify.com")
}

// SpotifyTrackID extracts the track id from an open.spotify.com URL or a spotify:track: URI
func SpotifyTrackID(link string) (string, bool) {
	link = strings.TrimSpace(link)

	if rest, ok := strings.CutPrefix(link, "spotify:track:"); ok {
		return trimTrackID(rest)
	}

	if i := strings.Index(link, "/track/"); i >= 0 {
		return trimTrackID(link[i+len("/track/"):])
	}

	return "", false
}

func trimTrackID(s string) (string, bool) {
	if i := strings.IndexAny(s, "?/#"); i >= 0 {
		s = s[:i]
	}
	if s == "" {
		return "", false
	}
	return s, true
}

// SpotifyEmbedURL returns the embeddable player URL for a track link
func SpotifyEmbedURL(link string) (string, bool) {
	id, ok := SpotifyTrackID(link)
	if !ok {
		return "", false
	}
	return spotifyEmbedBase + url.PathEscape(id) + "?utm_source=generator", true
}
