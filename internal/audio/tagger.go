package audio

import (
	"fmt"
	"net/url"

	"github.com/bogem/id3v2"
	"github.com/catlinman/campdown/internal/model"
)

// Tagger writes ID3v2 tags to downloaded MP3 files.
//
// The frames written match what campdown has always set: title, artist,
// album, album artist, track number, release year and a comment pointing
// back at the artist's Bandcamp page.
//
//	tagger := audio.NewTagger()
//	err := tagger.WriteTags(track, artworkBytes)
type Tagger struct{}

// NewTagger creates a Tagger.
func NewTagger() *Tagger {
	return &Tagger{}
}

// WriteTags tags the track's MP3 file. artwork may be nil to skip the
// attached picture frame; when set it must be JPEG data.
//
// Track titles of the form "Artist - Title" are split so the embedded
// artist wins over the page artist for the TPE1 frame, mirroring how
// Bandcamp labels name collaboration uploads.
func (t *Tagger) WriteTags(track *model.Track, artwork []byte) error {
	tag, err := id3v2.Open(track.Path, id3v2.Options{Parse: true})
	if err != nil {
		return fmt.Errorf("failed to open %s for tagging: %w", track.Path, err)
	}
	defer tag.Close()

	release := track.Release

	if artist, title, ok := track.SplitTitle(); ok {
		tag.SetArtist(artist)
		tag.SetTitle(title)
	} else {
		tag.SetArtist(release.Artist)
		tag.SetTitle(track.Title)
	}

	if release.IsAlbum() {
		tag.SetAlbum(release.Title)
		tag.AddTextFrame("TRCK", id3v2.EncodingUTF8, fmt.Sprintf("%d", track.Number))
	}

	// Album artist stays the page artist even for split titles.
	tag.AddTextFrame("TPE2", id3v2.EncodingUTF8, release.Artist)

	if !release.ReleaseDate.IsZero() {
		tag.AddTextFrame("TDRC", id3v2.EncodingUTF8, release.ReleaseDate.Format("2006"))
	}

	if base := baseURL(release.PageURL); base != "" {
		tag.AddCommentFrame(id3v2.CommentFrame{
			Encoding: id3v2.EncodingUTF8,
			Language: "XXX",
			Text:     fmt.Sprintf("Visit %s", base),
		})
	}

	attachPicture(tag, artwork)

	return tag.Save()
}

// EmbedArtwork attaches cover art without touching any text frames. Used
// when tag writing is disabled but artwork embedding is not.
func (t *Tagger) EmbedArtwork(track *model.Track, artwork []byte) error {
	if artwork == nil {
		return nil
	}

	tag, err := id3v2.Open(track.Path, id3v2.Options{Parse: true})
	if err != nil {
		return fmt.Errorf("failed to open %s for tagging: %w", track.Path, err)
	}
	defer tag.Close()

	attachPicture(tag, artwork)

	return tag.Save()
}

func attachPicture(tag *id3v2.Tag, artwork []byte) {
	if artwork == nil {
		return
	}

	tag.DeleteFrames(tag.CommonID("Attached picture"))
	tag.AddAttachedPicture(id3v2.PictureFrame{
		Encoding:    id3v2.EncodingUTF8,
		MimeType:    "image/jpeg",
		PictureType: id3v2.PTFrontCover,
		Description: "Cover",
		Picture:     artwork,
	})
}

// baseURL reduces a page URL to its scheme and host, the form used in
// the comment frame.
func baseURL(pageURL string) string {
	if pageURL == "" {
		return ""
	}
	u, err := url.Parse(pageURL)
	if err != nil || u.Host == "" {
		return ""
	}
	return fmt.Sprintf("%s://%s", u.Scheme, u.Host)
}
