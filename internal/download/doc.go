// Package download orchestrates whole Bandcamp download runs.
//
// The Manager resolves an input URL into one or more releases, then
// downloads tracks and cover art concurrently, tags the MP3 files and
// optionally writes playlists:
//
//	manager := download.NewManager(settings, logger, func(event download.ProgressEvent) {
//	    fmt.Println(event.Message)
//	})
//
//	if err := manager.Resolve(ctx, "https://artist.bandcamp.com/album/name"); err != nil {
//	    log.Fatal(err)
//	}
//	if err := manager.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// Discography pages expand into every album and track page linked from
// them. Concurrency is bounded by settings.MaxConcurrentReleases and
// settings.MaxConcurrentTracks.
//
// Failed track downloads are retried settings.DownloadMaxRetries times
// with a settings.DownloadRetrySleep second cooldown. A track that still
// fails afterwards has its partial file removed and is counted in
// Failed() without aborting the rest of the run.
package download
