package dto

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

const (
	artworkURLPrefix = "https://f4.bcbits.com/img/a"
	artworkURLSuffix = "_0.jpg"
)

// BandcampTime handles the date formats Bandcamp embeds in tralbum JSON.
type BandcampTime struct {
	time.Time
}

// UnmarshalJSON parses dates like "01 Jan 2023 00:00:00 GMT" as well as
// the occasional RFC 3339 value.
func (bt *BandcampTime) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	if s == "" {
		bt.Time = time.Time{}
		return nil
	}

	formats := []string{
		"02 Jan 2006 15:04:05 MST",
		"2 Jan 2006 15:04:05 MST",
		time.RFC3339,
		"2006-01-02T15:04:05Z07:00",
	}

	for _, format := range formats {
		if t, err := time.Parse(format, s); err == nil {
			bt.Time = t
			return nil
		}
	}

	return fmt.Errorf("unable to parse date: %s", s)
}

// TrAlbum is the deserialized data-tralbum payload found on both album
// and track pages.
type TrAlbum struct {
	Current     *Current      `json:"current"`
	ArtID       *int64        `json:"art_id"`
	Artist      string        `json:"artist"`
	ItemType    string        `json:"item_type"` // "album" or "track"
	ReleaseDate *BandcampTime `json:"album_release_date"`
	Tracks      []TrackInfo   `json:"trackinfo"`
}

// Current holds the metadata block of the item the page belongs to.
type Current struct {
	Title       string        `json:"title"`
	ReleaseDate *BandcampTime `json:"release_date"`
	PublishDate *BandcampTime `json:"publish_date"`
}

// TrackInfo is one trackinfo entry.
type TrackInfo struct {
	Duration float64  `json:"duration"`
	File     *MP3File `json:"file"`
	Number   *int     `json:"track_num"`
	Title    string   `json:"title"`
}

// MP3File carries the openly served stream URL.
type MP3File struct {
	URL string `json:"mp3-128"`
}

// HasFile reports whether the track is publicly streamable. Tracks
// without a file entry are purchase-only and cannot be downloaded.
func (ti *TrackInfo) HasFile() bool {
	return ti.File != nil && ti.File.URL != ""
}

// StreamURL returns the normalized mp3 URL. Bandcamp sometimes serves
// protocol-relative URLs which are padded out with http.
func (ti *TrackInfo) StreamURL() string {
	if ti.File == nil {
		return ""
	}
	url := ti.File.URL
	if strings.HasPrefix(url, "//") {
		url = "http:" + url
	}
	return url
}

// ReleaseTitle returns the title of the current item, empty when the
// metadata block is missing.
func (ta *TrAlbum) ReleaseTitle() string {
	if ta.Current == nil {
		return ""
	}
	return ta.Current.Title
}

// ArtworkURL builds the full-size cover URL from the art ID. Empty
// when the release has no artwork.
func (ta *TrAlbum) ArtworkURL() string {
	if ta.ArtID == nil {
		return ""
	}
	return fmt.Sprintf("%s%010d%s", artworkURLPrefix, *ta.ArtID, artworkURLSuffix)
}

// Released resolves the release date, falling back from the album
// release date to the item's own release and publish dates.
func (ta *TrAlbum) Released() time.Time {
	if ta.ReleaseDate != nil {
		return ta.ReleaseDate.Time
	}
	if ta.Current != nil {
		if ta.Current.ReleaseDate != nil {
			return ta.Current.ReleaseDate.Time
		}
		if ta.Current.PublishDate != nil {
			return ta.Current.PublishDate.Time
		}
	}
	return time.Time{}
}
