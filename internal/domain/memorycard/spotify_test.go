package memorycard

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidSpotifyLink(t *testing.T) {
	assert.True(t, ValidSpotifyLink(""))
	assert.True(t, ValidSpotifyLink("https://open.spotify.com/track/abc"))
	assert.False(t, ValidSpotifyLink("https://example.com"))
}

func TestSpotifyEmbedURL(t *testing.T) {
	tests := []struct {
		name string
		link string
		want string
		ok   bool
	}{
		{"web link", "https://open.spotify.com/track/4uLU6hMCjMI75M1A2tKUQC", "https://open.spotify.com/embed/track/4uLU6hMCjMI75M1A2tKUQC?utm_source=generator", true},
		{"web link with query", "https://open.spotify.com/intl-pt/track/abc123?si=xyz", "https://open.spotify.com/embed/track/abc123?utm_source=generator", true},
		{"uri", "spotify:track:abc123", "https://open.spotify.com/embed/track/abc123?utm_source=generator", true},
		{"album link", "https://open.spotify.com/album/abc", "", false},
		{"empty track", "https://open.spotify.com/track/", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := SpotifyEmbedURL(tt.link)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestThemes(t *testing.T) {
	themes := Themes()

	assert.Len(t, themes, 6)
	assert.Equal(t, ThemePink, themes[0].Theme)
	assert.True(t, ThemeCream.IsValid())
	assert.False(t, Theme("neon").IsValid())
	assert.Equal(t, ThemePink, Theme("neon").Palette().Theme)
}

func TestEmojis(t *testing.T) {
	assert.Len(t, Emojis(), 10)
	assert.True(t, IsCatalogEmoji("🎂"))
	assert.False(t, IsCatalogEmoji("🐍"))
}
