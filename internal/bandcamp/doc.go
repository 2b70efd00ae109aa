// Package bandcamp parses Bandcamp HTML pages into downloadable releases.
//
// The package covers three concerns:
//
//  1. Classifying a fetched page as a track, album or discography page
//  2. Parsing track/album pages into model.Release values
//  3. Scanning discography pages for release links
//
// # Classification
//
//	switch bandcamp.ClassifyPage(pageHTML) {
//	case bandcamp.PageAlbum:
//	    // parse as release
//	case bandcamp.PageDiscography:
//	    // scan for release links
//	}
//
// # Release parsing
//
//	parser := bandcamp.NewParser(albumPaths, trackPaths, trackCfg)
//	release, err := parser.ParseRelease(pageHTML, pageURL)
//
// # Discography scanning
//
//	disco := bandcamp.NewDiscography()
//	urls, err := disco.ReleaseURLs(pageHTML, "https://artist.bandcamp.com/music")
//
// # Data format
//
// Bandcamp embeds release data as JSON in a data-tralbum HTML attribute.
// The parser extracts and repairs that JSON, handles Bandcamp's
// non-standard date format, and falls back to the page's meta title and
// BandData block when fields are missing. The openly served streams are
// fixed at 128 kbit/s; purchase-only tracks carry no file entry and are
// skipped.
package bandcamp
