package bandcamp

import (
	"encoding/json"
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/catlinman/campdown/internal/bandcamp/dto"
	"github.com/catlinman/campdown/internal/model"
)

// Parser extracts release information from Bandcamp track and album pages.
//
// Bandcamp embeds release data as JSON in a data-tralbum attribute. The
// Parser pulls that JSON out, repairs the malformed bits Bandcamp is known
// to serve, and builds a model.Release with computed output paths.
//
//	parser := bandcamp.NewParser(albumPaths, trackPaths, trackCfg)
//	release, err := parser.ParseRelease(pageHTML, pageURL)
type Parser struct {
	albumPaths *model.PathConfig
	trackPaths *model.PathConfig
	trackCfg   *model.TrackConfig
}

// NewParser creates a Parser. Albums and standalone tracks use separate
// path configs because singles are written straight into the output
// folder while albums get a folder of their own.
func NewParser(albumPaths, trackPaths *model.PathConfig, trackCfg *model.TrackConfig) *Parser {
	return &Parser{
		albumPaths: albumPaths,
		trackPaths: trackPaths,
		trackCfg:   trackCfg,
	}
}

// ParseRelease extracts a release from an album or track page.
//
// Resolution order follows what the pages reliably contain: the
// data-tralbum JSON is authoritative, the "Title, by Artist" meta tag and
// the BandData block fill in a missing artist, and the popupImage anchor
// beats the art_id fallback for artwork because it points at the original
// format.
//
// pageURL is recorded on the release so taggers can reference the source.
func (p *Parser) ParseRelease(htmlContent, pageURL string) (*model.Release, error) {
	payload, err := extractTrAlbum(htmlContent)
	if err != nil {
		return nil, fmt.Errorf("could not retrieve release data: %w", err)
	}

	payload = fixJSON(payload)

	var tralbum dto.TrAlbum
	if err := json.Unmarshal([]byte(payload), &tralbum); err != nil {
		return nil, fmt.Errorf("failed to parse release JSON: %w", err)
	}

	kind := model.KindAlbum
	if tralbum.ItemType == "track" || len(tralbum.Tracks) <= 1 && !strings.Contains(htmlContent, "track_list") {
		kind = model.KindTrack
	}

	title := tralbum.ReleaseTitle()
	artist := tralbum.Artist
	if metaTitle, metaArtist, ok := parseMetaTitle(htmlContent); ok {
		if title == "" {
			title = metaTitle
		}
		if artist == "" || artist == "Various Artists" {
			artist = metaArtist
		}
	}
	if artist == "" || artist == "Various Artists" {
		artist = parseBandName(htmlContent)
	}
	if artist == "" {
		return nil, fmt.Errorf("failed to resolve the band/artist title")
	}

	artworkURL := parseArtworkURL(htmlContent)
	if artworkURL == "" {
		artworkURL = tralbum.ArtworkURL()
	}

	paths := p.albumPaths
	if kind == model.KindTrack {
		paths = p.trackPaths
	}

	release := model.NewRelease(kind, artist, title, artworkURL, tralbum.Released(), paths)
	release.PageURL = pageURL

	for _, ti := range tralbum.Tracks {
		if !ti.HasFile() {
			continue
		}

		number := 1
		if ti.Number != nil {
			number = *ti.Number
		}

		track := model.NewTrack(release, number, ti.Title, ti.Duration, ti.StreamURL(), p.trackCfg)
		release.Tracks = append(release.Tracks, track)
	}

	if len(release.Tracks) == 0 {
		return nil, fmt.Errorf("release %q has no publicly available tracks", title)
	}

	return release, nil
}

// extractTrAlbum pulls the data-tralbum JSON string out of the HTML.
// The JSON lives inside an HTML attribute, so quotes arrive escaped as
// &quot; and are unescaped before returning.
func extractTrAlbum(htmlContent string) (string, error) {
	const startMarker = `data-tralbum="{`
	const stopMarker = `}"`

	start := strings.Index(htmlContent, startMarker)
	if start == -1 {
		return "", fmt.Errorf("could not find release data in page")
	}

	start += len(startMarker) - 1 // keep the opening brace
	remaining := htmlContent[start:]

	end := strings.Index(remaining, stopMarker)
	if end == -1 {
		return "", fmt.Errorf("could not find end of release data")
	}

	return html.UnescapeString(remaining[:end+1]), nil
}

var urlConcatPattern = regexp.MustCompile(`(url: ".+)" \+ "(.+",)`)

// fixJSON repairs JavaScript-style URL concatenation some pages embed:
//
//	url: "http://example.bandcamp.com" + "/album/name",
//
// which is not valid JSON until the concatenation is collapsed.
func fixJSON(payload string) string {
	return urlConcatPattern.ReplaceAllString(payload, "${1}${2}")
}

// parseMetaTitle reads the <meta name="title"> tag, which carries the
// release in the form "Title, by Artist".
func parseMetaTitle(htmlContent string) (title, artist string, ok bool) {
	meta := stringBetween(htmlContent, `<meta name="title" content="`, `">`)
	if meta == "" {
		return "", "", false
	}

	meta = strings.TrimSpace(html.UnescapeString(meta))
	before, after, found := strings.Cut(meta, ", by ")
	if !found {
		return meta, "", true
	}
	return before, after, true
}

// parseBandName digs the artist out of the BandData script block. Used as
// a fallback when the meta title reports "Various Artists" or nothing.
func parseBandName(htmlContent string) string {
	block := stringBetween(htmlContent, "var BandData = {", "}")
	if block == "" {
		return ""
	}

	for _, marker := range []string{`name : "`, `name: "`} {
		if name := stringBetween(block, marker, `",`); name != "" {
			return html.UnescapeString(name)
		}
	}

	return ""
}

// parseArtworkURL reads the full-size cover link from the popupImage anchor.
func parseArtworkURL(htmlContent string) string {
	return stringBetween(htmlContent, `<a class="popupImage" href="`, `">`)
}

// stringBetween returns the substring between the first occurrence of
// start and the next occurrence of end, or "" if either is missing.
func stringBetween(s, start, end string) string {
	_, after, found := strings.Cut(s, start)
	if !found {
		return ""
	}
	between, _, found := strings.Cut(after, end)
	if !found {
		return ""
	}
	return between
}
