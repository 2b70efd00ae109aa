// Package audio handles post-download processing of MP3 files: ID3v2
// tagging and playlist generation.
//
// # Tagging
//
//	tagger := audio.NewTagger()
//	err := tagger.WriteTags(track, artworkBytes)
//
// Frames written: TIT2, TPE1, TALB, TPE2, TRCK, TDRC and a COMM frame
// pointing back at the artist's Bandcamp page. Cover art embeds as an
// APIC front cover frame.
//
// # Playlists
//
//	writer := audio.NewPlaylistWriter(audio.FormatM3U, true)
//	content := writer.Playlist(release)
//
// Supported formats: M3U (plain and extended), PLS, WPL and ZPL.
package audio
