package bandcamp

import "strings"

// PageType classifies what kind of Bandcamp page a document is.
type PageType int

const (
	// PageNone means the content is not a Bandcamp page at all.
	PageNone PageType = iota

	// PageTrack is a standalone track page.
	PageTrack

	// PageAlbum is an album page with a track listing.
	PageAlbum

	// PageDiscography is an artist or label page listing releases.
	PageDiscography
)

// String returns a readable name for the page type.
func (pt PageType) String() string {
	switch pt {
	case PageTrack:
		return "track"
	case PageAlbum:
		return "album"
	case PageDiscography:
		return "discography"
	default:
		return "none"
	}
}

// ClassifyPage inspects fetched HTML and decides which kind of Bandcamp
// page it is. The heuristics mirror what the pages actually contain:
//
//   - every Bandcamp page mentions "bandcamp.com" somewhere
//   - album pages carry a "track_list" table
//   - track and album pages render a discography sidebar div, plain
//     discography listings do not
//
// Custom artist domains still pass the first check because the embedded
// asset URLs point at bandcamp.com.
func ClassifyPage(html string) PageType {
	if !strings.Contains(html, "bandcamp.com") {
		return PageNone
	}

	if strings.Contains(html, "track_list") {
		return PageAlbum
	}

	if !strings.Contains(html, `id="discography"`) {
		return PageDiscography
	}

	return PageTrack
}
