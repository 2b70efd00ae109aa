package audio

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bogem/id3v2"
	"github.com/catlinman/campdown/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTrackFile(t *testing.T, dir string) (*model.Release, *model.Track) {
	t.Helper()

	pathCfg := &model.PathConfig{
		OutputPath:        filepath.Join(dir, "{artist} - {album}"),
		ArtworkFileName:   "cover",
		PlaylistFileName:  "{album}",
		PlaylistExtension: ".m3u",
	}
	trackCfg := &model.TrackConfig{FileNameFormat: "{tracknum} {title}.mp3"}

	date := time.Date(2021, 3, 1, 0, 0, 0, 0, time.UTC)
	release := model.NewRelease(model.KindAlbum, "Tag Artist", "Tag Album", "", date, pathCfg)
	release.PageURL = "https://tagartist.bandcamp.com/album/tag-album"

	track := model.NewTrack(release, 1, "Tag Title", 120, "", trackCfg)
	release.Tracks = append(release.Tracks, track)

	require.NoError(t, os.MkdirAll(release.Path, 0755))
	// A bare file without an existing ID3 header is enough for tagging.
	require.NoError(t, os.WriteFile(track.Path, []byte("not really mpeg data"), 0644))

	return release, track
}

func TestTagger_WriteTags(t *testing.T) {
	_, track := writeTrackFile(t, t.TempDir())

	tagger := NewTagger()
	require.NoError(t, tagger.WriteTags(track, nil))

	tag, err := id3v2.Open(track.Path, id3v2.Options{Parse: true})
	require.NoError(t, err)
	defer tag.Close()

	assert.Equal(t, "Tag Title", tag.Title())
	assert.Equal(t, "Tag Artist", tag.Artist())
	assert.Equal(t, "Tag Album", tag.Album())
	assert.Equal(t, "1", tag.GetTextFrame("TRCK").Text)
	assert.Equal(t, "Tag Artist", tag.GetTextFrame("TPE2").Text)
	assert.Equal(t, "2021", tag.GetTextFrame("TDRC").Text)

	comments := tag.GetFrames(tag.CommonID("Comments"))
	require.Len(t, comments, 1)
	comment, ok := comments[0].(id3v2.CommentFrame)
	require.True(t, ok)
	assert.Equal(t, "Visit https://tagartist.bandcamp.com", comment.Text)
}

func TestTagger_SplitTitleWinsOverPageArtist(t *testing.T) {
	release, _ := writeTrackFile(t, t.TempDir())

	trackCfg := &model.TrackConfig{FileNameFormat: "{tracknum} {title}.mp3"}
	track := model.NewTrack(release, 2, "Guest Artist - Collab Song", 90, "", trackCfg)
	require.NoError(t, os.WriteFile(track.Path, []byte("data"), 0644))

	tagger := NewTagger()
	require.NoError(t, tagger.WriteTags(track, nil))

	tag, err := id3v2.Open(track.Path, id3v2.Options{Parse: true})
	require.NoError(t, err)
	defer tag.Close()

	assert.Equal(t, "Collab Song", tag.Title())
	assert.Equal(t, "Guest Artist", tag.Artist())
	// The album artist stays the page artist.
	assert.Equal(t, "Tag Artist", tag.GetTextFrame("TPE2").Text)
}

func TestTagger_EmbedArtworkOnlySkipsTextFrames(t *testing.T) {
	_, track := writeTrackFile(t, t.TempDir())

	artwork := []byte{0xFF, 0xD8, 0xFF, 0xE0}
	tagger := NewTagger()
	require.NoError(t, tagger.EmbedArtwork(track, artwork))

	tag, err := id3v2.Open(track.Path, id3v2.Options{Parse: true})
	require.NoError(t, err)
	defer tag.Close()

	assert.Empty(t, tag.Title())
	assert.Empty(t, tag.Artist())
	assert.Empty(t, tag.Album())
	assert.Empty(t, tag.GetTextFrame("TRCK").Text)

	pictures := tag.GetFrames(tag.CommonID("Attached picture"))
	require.Len(t, pictures, 1)
	picture, ok := pictures[0].(id3v2.PictureFrame)
	require.True(t, ok)
	assert.Equal(t, artwork, picture.Picture)
}

func TestTagger_EmbedsArtwork(t *testing.T) {
	_, track := writeTrackFile(t, t.TempDir())

	artwork := []byte{0xFF, 0xD8, 0xFF, 0xE0} // JPEG magic is enough here
	tagger := NewTagger()
	require.NoError(t, tagger.WriteTags(track, artwork))

	tag, err := id3v2.Open(track.Path, id3v2.Options{Parse: true})
	require.NoError(t, err)
	defer tag.Close()

	pictures := tag.GetFrames(tag.CommonID("Attached picture"))
	require.Len(t, pictures, 1)
	picture, ok := pictures[0].(id3v2.PictureFrame)
	require.True(t, ok)
	assert.Equal(t, "image/jpeg", picture.MimeType)
	assert.Equal(t, artwork, picture.Picture)
}
