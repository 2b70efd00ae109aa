package model

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Track represents a single downloadable track on a release.
//
// The local file path is computed in NewTrack from the release folder and
// the TrackConfig file name template:
//
//	cfg := &model.TrackConfig{FileNameFormat: "{artist} - {album} - {tracknum} {title}.mp3"}
//	track := model.NewTrack(release, 1, "Song Title", 180.5, mp3URL, cfg)
//	// track.Path = "/music/Artist - Album/Artist - Album - 01 Song Title.mp3"
type Track struct {
	// Release is the parent release.
	Release *Release

	// Number is the 1-indexed position on the release.
	Number int

	// Title is the track title.
	Title string

	// Duration is the track length in seconds.
	Duration float64

	// MP3URL is the direct URL of the openly served 128 kbit/s stream.
	MP3URL string

	// Path is the computed local file path including the extension.
	Path string
}

// TrackConfig holds the track file name template.
//
// FileNameFormat understands {tracknum} (zero-padded to two digits),
// {title}, {artist}, {album} and the {year}/{month}/{day} date placeholders.
// It must include the file extension.
type TrackConfig struct {
	FileNameFormat string
}

// NewTrack creates a Track and computes its file path. On single track
// pages the {tracknum} placeholder expands to nothing so the file name
// stays free of a pointless "01" prefix.
func NewTrack(release *Release, number int, title string, duration float64, mp3URL string, cfg *TrackConfig) *Track {
	t := &Track{
		Release:  release,
		Number:   number,
		Title:    title,
		Duration: duration,
		MP3URL:   mp3URL,
	}

	t.Path = t.filePath(cfg)

	return t
}

// SplitTitle splits titles of the "Artist - Title" form that Bandcamp
// sometimes embeds directly in track names. The third return value is
// false when the title carries no artist prefix.
func (t *Track) SplitTitle() (artist, title string, ok bool) {
	before, after, found := strings.Cut(t.Title, " - ")
	if !found {
		return "", t.Title, false
	}
	return before, after, true
}

func (t *Track) filePath(cfg *TrackConfig) string {
	name := t.fileName(cfg)
	ext := filepath.Ext(name)
	return limitPath(t.Release.Path, strings.TrimSuffix(name, ext), ext)
}

func (t *Track) fileName(cfg *TrackConfig) string {
	name := cfg.FileNameFormat

	num := ""
	if t.Release.IsAlbum() {
		num = fmt.Sprintf("%02d", t.Number)
	}

	album := t.Release.Title
	if !t.Release.IsAlbum() && album == t.Title {
		// A bare track page reuses its own title as the release title.
		album = ""
	}

	// An artist embedded in the track title replaces the page artist,
	// and only the remainder lands in the {title} slot.
	artist := t.Release.Artist
	title := t.Title
	if splitArtist, splitTitle, ok := t.SplitTitle(); ok {
		artist = splitArtist
		title = splitTitle
	}

	name = strings.ReplaceAll(name, "{year}", t.Release.ReleaseDate.Format("2006"))
	name = strings.ReplaceAll(name, "{month}", t.Release.ReleaseDate.Format("01"))
	name = strings.ReplaceAll(name, "{day}", t.Release.ReleaseDate.Format("02"))
	name = strings.ReplaceAll(name, "{album}", album)
	name = strings.ReplaceAll(name, "{artist}", artist)
	name = strings.ReplaceAll(name, "{title}", title)
	name = strings.ReplaceAll(name, "{tracknum}", num)

	name = strings.TrimSpace(collapseSeparators(name))

	return SanitizeFileName(name)
}
