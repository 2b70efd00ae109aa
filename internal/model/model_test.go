package model

import (
	"testing"
	"time"
)

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"normal-file.mp3", "normal-file.mp3"},
		{"file:with:colons.mp3", "file_with_colons.mp3"},
		{"file<with>brackets.mp3", "file_with_brackets.mp3"},
		{"file/with\\slashes.mp3", "file_with_slashes.mp3"},
		{"file|with|pipes.mp3", "file_with_pipes.mp3"},
		{"file?with*wildcards.mp3", "file_with_wildcards.mp3"},
		{"file\"with\"quotes.mp3", "file_with_quotes.mp3"},
		{"trailing dots...", "trailing dots"},
		{"multiple   spaces", "multiple spaces"},
		{"trailing spaces   ", "trailing spaces"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := SanitizeFileName(tt.input)
			if got != tt.want {
				t.Errorf("SanitizeFileName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func testPathConfig() *PathConfig {
	return &PathConfig{
		OutputPath:        "/music/{artist} - {album}",
		ArtworkFileName:   "cover",
		PlaylistFileName:  "{album}",
		PlaylistExtension: ".m3u",
	}
}

func TestRelease_PathComputation(t *testing.T) {
	releaseDate := time.Date(2023, 5, 15, 0, 0, 0, 0, time.UTC)
	release := NewRelease(KindAlbum, "Test Artist", "Test Album", "https://example.com/art.jpg", releaseDate, testPathConfig())

	if release.Path != "/music/Test Artist - Test Album" {
		t.Errorf("Release.Path = %q, want %q", release.Path, "/music/Test Artist - Test Album")
	}

	if release.ArtworkPath != "/music/Test Artist - Test Album/cover.jpg" {
		t.Errorf("Release.ArtworkPath = %q, want cover.jpg in release folder", release.ArtworkPath)
	}

	if release.PlaylistPath != "/music/Test Artist - Test Album/Test Album.m3u" {
		t.Errorf("Release.PlaylistPath = %q, want album playlist in release folder", release.PlaylistPath)
	}
}

func TestRelease_NoArtwork(t *testing.T) {
	releaseDate := time.Date(2023, 5, 15, 0, 0, 0, 0, time.UTC)
	release := NewRelease(KindAlbum, "Test Artist", "Test Album", "", releaseDate, testPathConfig())

	if release.HasArtwork() {
		t.Error("HasArtwork() should return false when ArtworkURL is empty")
	}

	if release.ArtworkPath != "" {
		t.Errorf("ArtworkPath should be empty, got %q", release.ArtworkPath)
	}
}

func TestTrack_PathComputation(t *testing.T) {
	trackCfg := &TrackConfig{
		FileNameFormat: "{artist} - {album} - {tracknum} {title}.mp3",
	}

	releaseDate := time.Date(2023, 5, 15, 0, 0, 0, 0, time.UTC)
	release := NewRelease(KindAlbum, "Artist", "Album", "", releaseDate, testPathConfig())
	track := NewTrack(release, 1, "Track Title", 180.5, "http://example.com/track.mp3", trackCfg)

	want := "/music/Artist - Album/Artist - Album - 01 Track Title.mp3"
	if track.Path != want {
		t.Errorf("Track.Path = %q, want %q", track.Path, want)
	}
}

func TestTrack_SingleTrackOmitsNumberAndAlbum(t *testing.T) {
	trackCfg := &TrackConfig{
		FileNameFormat: "{artist} - {album} - {tracknum} {title}.mp3",
	}

	// Single track pages are written straight into the output folder.
	pathCfg := &PathConfig{
		OutputPath:        "/music",
		ArtworkFileName:   "{artist} - {album}",
		PlaylistFileName:  "{album}",
		PlaylistExtension: ".m3u",
	}

	releaseDate := time.Date(2023, 5, 15, 0, 0, 0, 0, time.UTC)
	release := NewRelease(KindTrack, "Artist", "Track Title", "", releaseDate, pathCfg)
	track := NewTrack(release, 1, "Track Title", 120, "http://example.com/track.mp3", trackCfg)

	want := "/music/Artist - Track Title.mp3"
	if track.Path != want {
		t.Errorf("Track.Path = %q, want %q", track.Path, want)
	}
}

func TestTrack_ShortFormat(t *testing.T) {
	trackCfg := &TrackConfig{
		FileNameFormat: "{tracknum} {title}.mp3",
	}

	releaseDate := time.Date(2023, 5, 15, 0, 0, 0, 0, time.UTC)
	release := NewRelease(KindAlbum, "Artist", "Album", "", releaseDate, testPathConfig())
	track := NewTrack(release, 3, "Track Title", 180.5, "http://example.com/track.mp3", trackCfg)

	want := "/music/Artist - Album/03 Track Title.mp3"
	if track.Path != want {
		t.Errorf("Track.Path = %q, want %q", track.Path, want)
	}
}

func TestTrack_EmbeddedArtistInFileName(t *testing.T) {
	releaseDate := time.Date(2023, 5, 15, 0, 0, 0, 0, time.UTC)
	release := NewRelease(KindAlbum, "Page Artist", "Album", "", releaseDate, testPathConfig())

	tests := []struct {
		name   string
		format string
		title  string
		want   string
	}{
		{
			// The artist embedded in the title replaces the page artist.
			name:   "full format",
			format: "{artist} - {album} - {tracknum} {title}.mp3",
			title:  "Guest Artist - Real Title",
			want:   "/music/Page Artist - Album/Guest Artist - Album - 01 Real Title.mp3",
		},
		{
			name:   "short format",
			format: "{tracknum} {title}.mp3",
			title:  "Guest Artist - Real Title",
			want:   "/music/Page Artist - Album/01 Real Title.mp3",
		},
		{
			name:   "plain title keeps the page artist",
			format: "{artist} - {album} - {tracknum} {title}.mp3",
			title:  "Real Title",
			want:   "/music/Page Artist - Album/Page Artist - Album - 01 Real Title.mp3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			track := NewTrack(release, 1, tt.title, 100, "", &TrackConfig{FileNameFormat: tt.format})
			if track.Path != tt.want {
				t.Errorf("Track.Path = %q, want %q", track.Path, tt.want)
			}
		})
	}
}

func TestTrack_SplitTitle(t *testing.T) {
	release := NewRelease(KindAlbum, "Artist", "Album", "", time.Time{}, testPathConfig())
	trackCfg := &TrackConfig{FileNameFormat: "{title}.mp3"}

	track := NewTrack(release, 1, "Embedded Artist - Real Title", 100, "", trackCfg)
	artist, title, ok := track.SplitTitle()
	if !ok || artist != "Embedded Artist" || title != "Real Title" {
		t.Errorf("SplitTitle() = %q, %q, %v", artist, title, ok)
	}

	track = NewTrack(release, 1, "Plain Title", 100, "", trackCfg)
	if _, title, ok := track.SplitTitle(); ok || title != "Plain Title" {
		t.Errorf("SplitTitle() on plain title = %q, %v", title, ok)
	}
}
