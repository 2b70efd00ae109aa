// Package http provides the HTTP client campdown uses to talk to Bandcamp.
//
// The Client pins the campdown User-Agent, applies a request timeout and
// offers three operations: page fetches (Get/GetString), Content-Length
// probes (FileSize) and streaming downloads to disk with progress
// callbacks (DownloadFile).
//
//	client := http.NewClient()
//	page, err := client.GetString(ctx, pageURL)
//	err = client.DownloadFile(ctx, mp3URL, path, func(written, total int64) {
//	    // update progress display
//	})
package http
