// Package model defines the core data structures shared across campdown.
//
// # Release
//
// Release represents either a Bandcamp album or a standalone track page
// together with its computed output paths:
//
//	release := model.NewRelease(model.KindAlbum, "Artist", "Album", artURL, date, pathConfig)
//	fmt.Println(release.Path)        // Folder the release is written into
//	fmt.Println(release.ArtworkPath) // Where cover art is saved
//
// # Track
//
// Track represents one downloadable track on a release:
//
//	track := model.NewTrack(release, 1, "Song Title", 180.5, mp3URL, trackConfig)
//	fmt.Println(track.Path) // Full path the track is saved to
//
// # Path templates
//
// PathConfig and TrackConfig control layout through placeholders:
// {artist}, {album}, {title}, {tracknum}, {year}, {month} and {day}.
// Placeholder values are sanitized for the filesystem, empty segments
// collapse, and paths are truncated to stay inside Windows limits.
package model
