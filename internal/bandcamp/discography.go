package bandcamp

import (
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ErrNoReleasesFound is returned when a discography page holds no album
// or track links. This usually means the artist has nothing published or
// the page layout changed.
var ErrNoReleasesFound = errors.New("no releases found on page")

// Discography extracts release URLs from Bandcamp artist and label pages.
//
//	disco := bandcamp.NewDiscography()
//	urls, err := disco.ReleaseURLs(pageHTML, "https://artist.bandcamp.com/music")
type Discography struct{}

// NewDiscography creates a Discography scanner.
func NewDiscography() *Discography {
	return &Discography{}
}

// ReleaseURLs collects every album and track link on a discography page
// and returns them as absolute URLs resolved against baseURL. Query
// strings are stripped and duplicates removed; results are sorted so the
// download order is stable.
//
// Returns ErrNoReleasesFound when the page links to no releases.
func (d *Discography) ReleaseURLs(pageHTML, baseURL string) ([]string, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid page URL %q: %w", baseURL, err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(pageHTML))
	if err != nil {
		return nil, fmt.Errorf("failed to parse discography page: %w", err)
	}

	seen := make(map[string]struct{})
	var urls []string

	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		if !strings.Contains(href, "/album/") && !strings.Contains(href, "/track/") {
			return
		}

		ref, err := url.Parse(href)
		if err != nil {
			return
		}

		resolved := base.ResolveReference(ref)
		resolved.RawQuery = ""
		resolved.Fragment = ""

		// Only follow links that stay on a Bandcamp-style artist host.
		if resolved.Host != base.Host && !strings.HasSuffix(resolved.Host, ".bandcamp.com") {
			return
		}

		abs := resolved.String()
		if _, dup := seen[abs]; dup {
			return
		}
		seen[abs] = struct{}{}
		urls = append(urls, abs)
	})

	if len(urls) == 0 {
		return nil, ErrNoReleasesFound
	}

	sort.Strings(urls)

	return urls, nil
}
