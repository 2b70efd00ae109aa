package model

import (
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// Kind describes what a Bandcamp page resolved to.
type Kind int

const (
	// KindTrack is a standalone track page with a single download.
	KindTrack Kind = iota

	// KindAlbum is an album page with a track listing.
	KindAlbum
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	if k == KindAlbum {
		return "album"
	}
	return "track"
}

// Release represents a downloadable Bandcamp release, either a full album
// or a single track page. It carries the metadata shared by its tracks and
// the computed local paths everything is written to.
//
// Paths are computed once in NewRelease from the PathConfig templates:
//
//	cfg := &model.PathConfig{
//	    OutputPath:       "/music/{artist} - {album}",
//	    ArtworkFileName:  "cover",
//	    PlaylistFileName: "{album}",
//	}
//	release := model.NewRelease(model.KindAlbum, "Artist", "Album", artURL, date, cfg)
type Release struct {
	// Kind is the page type this release came from.
	Kind Kind

	// Artist is the release artist name.
	Artist string

	// Title is the album title, or the track title for single track pages.
	Title string

	// PageURL is the Bandcamp page the release was resolved from.
	PageURL string

	// ArtworkURL points at the cover image. Empty if none was found.
	ArtworkURL string

	// ReleaseDate is the publish date reported by the page.
	ReleaseDate time.Time

	// Tracks holds every downloadable track on the release.
	Tracks []*Track

	// Path is the folder all release files are written into.
	Path string

	// ArtworkPath is where the cover image is saved. Empty without artwork.
	ArtworkPath string

	// PlaylistPath is where an optional playlist file is written.
	PlaylistPath string
}

// PathConfig holds the path templates used to lay out downloads on disk.
//
// Templates understand {artist}, {album}, {year}, {month} and {day}
// placeholders. Values are sanitized for the filesystem before substitution.
type PathConfig struct {
	// OutputPath is the folder template releases are written into,
	// e.g. "/music/{artist} - {album}".
	OutputPath string

	// ArtworkFileName is the cover file name template without extension.
	ArtworkFileName string

	// PlaylistFileName is the playlist file name template without extension.
	PlaylistFileName string

	// PlaylistExtension is the playlist file extension including the dot.
	PlaylistExtension string
}

// NewRelease creates a Release and computes its output paths.
//
// Single track pages get no album folder of their own: when kind is
// KindTrack the {album} placeholder resolves to the release title and
// empty placeholder segments collapse cleanly.
func NewRelease(kind Kind, artist, title, artworkURL string, releaseDate time.Time, cfg *PathConfig) *Release {
	r := &Release{
		Kind:        kind,
		Artist:      artist,
		Title:       title,
		ArtworkURL:  artworkURL,
		ReleaseDate: releaseDate,
	}

	r.Path = r.folderPath(cfg)
	r.PlaylistPath = r.playlistPath(cfg)
	r.ArtworkPath = r.artworkPath(cfg)

	return r
}

// IsAlbum reports whether the release came from an album page.
func (r *Release) IsAlbum() bool {
	return r.Kind == KindAlbum
}

// HasArtwork reports whether cover art is available for download.
func (r *Release) HasArtwork() bool {
	return r.ArtworkURL != ""
}

func (r *Release) folderPath(cfg *PathConfig) string {
	path := cfg.OutputPath
	path = strings.ReplaceAll(path, "{year}", SanitizeFileName(r.ReleaseDate.Format("2006")))
	path = strings.ReplaceAll(path, "{month}", SanitizeFileName(r.ReleaseDate.Format("01")))
	path = strings.ReplaceAll(path, "{day}", SanitizeFileName(r.ReleaseDate.Format("02")))
	path = strings.ReplaceAll(path, "{artist}", SanitizeFileName(r.Artist))
	path = strings.ReplaceAll(path, "{album}", SanitizeFileName(r.Title))
	path = collapseSeparators(path)

	// Windows MAX_PATH leaves 248 characters for folders.
	if len(path) >= 248 {
		path = path[:247]
	}

	return path
}

func (r *Release) playlistPath(cfg *PathConfig) string {
	name := r.expandFileName(cfg.PlaylistFileName)
	return limitPath(r.Path, name, cfg.PlaylistExtension)
}

func (r *Release) artworkPath(cfg *PathConfig) string {
	if !r.HasArtwork() {
		return ""
	}

	ext := filepath.Ext(r.ArtworkURL)
	if ext == "" {
		ext = ".jpg"
	}
	name := r.expandFileName(cfg.ArtworkFileName)
	return limitPath(r.Path, name, ext)
}

func (r *Release) expandFileName(template string) string {
	name := template
	name = strings.ReplaceAll(name, "{year}", r.ReleaseDate.Format("2006"))
	name = strings.ReplaceAll(name, "{month}", r.ReleaseDate.Format("01"))
	name = strings.ReplaceAll(name, "{day}", r.ReleaseDate.Format("02"))
	name = strings.ReplaceAll(name, "{album}", r.Title)
	name = strings.ReplaceAll(name, "{artist}", r.Artist)
	return SanitizeFileName(collapseSeparators(name))
}

// limitPath joins folder, name and extension while keeping the total
// length under the Windows MAX_PATH limit of 260 characters.
func limitPath(folder, name, ext string) string {
	path := filepath.Join(folder, name+ext)
	if len(path) >= 260 {
		maxLen := 259 - len(folder) - len(ext) - 1
		if maxLen > 0 && maxLen < len(name) {
			path = filepath.Join(folder, name[:maxLen]+ext)
		}
	}
	return path
}

// collapseSeparators cleans up " - " runs left behind by placeholders that
// expanded to nothing, e.g. a missing album title.
func collapseSeparators(s string) string {
	s = regexp.MustCompile(`( - )( - )+`).ReplaceAllString(s, " - ")
	s = strings.TrimPrefix(s, " - ")
	s = strings.TrimSuffix(s, " - ")
	return s
}

var (
	invalidFileChars = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)
	trailingDots     = regexp.MustCompile(`\.+$`)
	multiSpace       = regexp.MustCompile(`\s+`)
)

// SanitizeFileName replaces characters that are invalid in file or folder
// names with underscores and normalizes whitespace. Trailing dots are
// stripped because Windows rejects them.
func SanitizeFileName(name string) string {
	name = invalidFileChars.ReplaceAllString(name, "_")
	name = trailingDots.ReplaceAllString(name, "")
	name = multiSpace.ReplaceAllString(name, " ")
	return strings.TrimRight(name, " ")
}
