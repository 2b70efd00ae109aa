package audio

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/catlinman/campdown/internal/model"
)

// PlaylistFormat represents the supported playlist file formats.
type PlaylistFormat int

const (
	// FormatM3U creates .m3u files, optionally with EXTINF lines.
	FormatM3U PlaylistFormat = iota

	// FormatPLS creates .pls files (Winamp/SHOUTcast).
	FormatPLS

	// FormatWPL creates .wpl files (Windows Media Player).
	FormatWPL

	// FormatZPL creates .zpl files (Zune/Groove Music).
	FormatZPL
)

// ParsePlaylistFormat maps a config string to a PlaylistFormat. Unknown
// values fall back to M3U.
func ParsePlaylistFormat(s string) PlaylistFormat {
	switch s {
	case "pls":
		return FormatPLS
	case "wpl":
		return FormatWPL
	case "zpl":
		return FormatZPL
	default:
		return FormatM3U
	}
}

// PlaylistWriter generates playlist content for a release. Entries are
// relative file names, assuming the playlist sits next to the tracks.
type PlaylistWriter struct {
	format   PlaylistFormat
	extended bool // M3U only: include EXTINF lines
}

// NewPlaylistWriter creates a PlaylistWriter. extended is ignored for
// formats other than M3U.
func NewPlaylistWriter(format PlaylistFormat, extended bool) *PlaylistWriter {
	return &PlaylistWriter{
		format:   format,
		extended: extended,
	}
}

// Playlist renders the playlist for a release as a string.
func (p *PlaylistWriter) Playlist(release *model.Release) string {
	switch p.format {
	case FormatPLS:
		return p.pls(release)
	case FormatWPL:
		return p.wpl(release)
	case FormatZPL:
		return p.zpl(release)
	default:
		return p.m3u(release)
	}
}

func (p *PlaylistWriter) m3u(release *model.Release) string {
	var sb strings.Builder

	if p.extended {
		sb.WriteString("#EXTM3U\n")
	}

	for _, track := range release.Tracks {
		if p.extended {
			sb.WriteString(fmt.Sprintf("#EXTINF:%d,%s - %s\n", int(track.Duration), release.Artist, track.Title))
		}
		sb.WriteString(filepath.Base(track.Path) + "\n")
	}

	return sb.String()
}

func (p *PlaylistWriter) pls(release *model.Release) string {
	var sb strings.Builder

	sb.WriteString("[playlist]\n")

	for i, track := range release.Tracks {
		idx := i + 1
		sb.WriteString(fmt.Sprintf("File%d=%s\n", idx, filepath.Base(track.Path)))
		sb.WriteString(fmt.Sprintf("Title%d=%s\n", idx, track.Title))
		sb.WriteString(fmt.Sprintf("Length%d=%d\n", idx, int(track.Duration)))
	}

	sb.WriteString(fmt.Sprintf("NumberOfEntries=%d\n", len(release.Tracks)))
	sb.WriteString("Version=2\n")

	return sb.String()
}

func (p *PlaylistWriter) wpl(release *model.Release) string {
	var sb strings.Builder

	sb.WriteString("<?wpl version=\"1.0\"?>\n")
	sb.WriteString("<smil>\n")
	sb.WriteString("  <head>\n")
	sb.WriteString(fmt.Sprintf("    <title>%s</title>\n", escapeXML(release.Title)))
	sb.WriteString("  </head>\n")
	sb.WriteString("  <body>\n")
	sb.WriteString("    <seq>\n")

	for _, track := range release.Tracks {
		sb.WriteString(fmt.Sprintf("      <media src=\"%s\"/>\n", escapeXML(filepath.Base(track.Path))))
	}

	sb.WriteString("    </seq>\n")
	sb.WriteString("  </body>\n")
	sb.WriteString("</smil>\n")

	return sb.String()
}

func (p *PlaylistWriter) zpl(release *model.Release) string {
	var sb strings.Builder

	sb.WriteString("<?zpl version=\"2.0\"?>\n")
	sb.WriteString("<smil>\n")
	sb.WriteString("  <head>\n")
	sb.WriteString(fmt.Sprintf("    <title>%s</title>\n", escapeXML(release.Title)))
	sb.WriteString("    <meta name=\"Generator\" content=\"campdown\"/>\n")
	sb.WriteString(fmt.Sprintf("    <meta name=\"ItemCount\" content=\"%d\"/>\n", len(release.Tracks)))
	sb.WriteString("  </head>\n")
	sb.WriteString("  <body>\n")
	sb.WriteString("    <seq>\n")

	for _, track := range release.Tracks {
		duration := time.Duration(track.Duration * float64(time.Second))
		sb.WriteString(fmt.Sprintf("      <media src=\"%s\" albumTitle=\"%s\" albumArtist=\"%s\" trackTitle=\"%s\" trackArtist=\"%s\" duration=\"%d\"/>\n",
			escapeXML(filepath.Base(track.Path)),
			escapeXML(release.Title),
			escapeXML(release.Artist),
			escapeXML(track.Title),
			escapeXML(release.Artist),
			duration.Milliseconds()))
	}

	sb.WriteString("    </seq>\n")
	sb.WriteString("  </body>\n")
	sb.WriteString("</smil>\n")

	return sb.String()
}

func escapeXML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, "\"", "&quot;")
	s = strings.ReplaceAll(s, "'", "&apos;")
	return s
}
