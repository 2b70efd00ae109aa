package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// userAgent identifies campdown to Bandcamp the way the project always has.
const userAgent = "campdown/1.46 (+https://github.com/catlinman/campdown)"

// Client wraps HTTP operations with the headers Bandcamp expects.
//
// It provides page fetching, HEAD-based size probes and streaming file
// downloads with progress reporting:
//
//	client := http.NewClient()
//	page, err := client.GetString(ctx, "https://artist.bandcamp.com/album/name")
//	err = client.DownloadFile(ctx, mp3URL, "/music/file.mp3", func(written, total int64) {
//	    fmt.Printf("%d/%d\n", written, total)
//	})
type Client struct {
	httpClient *http.Client
}

// NewClient creates a Client with a 60 second request timeout.
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// NewClientWithTimeout creates a Client with a custom request timeout.
func NewClientWithTimeout(timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (c *Client) newRequest(ctx context.Context, method, url string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "*/*")
	return req, nil
}

// Get performs a GET request and returns the body as bytes. Non-200
// responses are returned as errors carrying the status.
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	req, err := c.newRequest(ctx, http.MethodGet, url)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	return io.ReadAll(resp.Body)
}

// GetString performs a GET request and returns the body as a string.
// Convenience wrapper for fetching HTML pages.
func (c *Client) GetString(ctx context.Context, url string) (string, error) {
	body, err := c.Get(ctx, url)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// FileSize returns the remote size of url via a HEAD request. An error is
// returned when the server sends no Content-Length, since without it the
// local size check cannot work.
func (c *Client) FileSize(ctx context.Context, url string) (int64, error) {
	req, err := c.newRequest(ctx, http.MethodHead, url)
	if err != nil {
		return 0, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.ContentLength < 0 {
		return 0, fmt.Errorf("no Content-Length header for %s", url)
	}

	return resp.ContentLength, nil
}

// DownloadFile streams url into destPath. The content is written to disk
// as it arrives rather than buffered in memory. onProgress may be nil;
// when set it is called after every chunk with (bytesWritten, totalBytes)
// where totalBytes is -1 if the server sent no Content-Length.
//
// The destination file is left in place on error so the caller can decide
// whether to retry or clean up.
func (c *Client) DownloadFile(ctx context.Context, url, destPath string, onProgress func(written, total int64)) error {
	req, err := c.newRequest(ctx, http.MethodGet, url)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	file, err := os.Create(destPath)
	if err != nil {
		return err
	}
	defer file.Close()

	var writer io.Writer = file
	if onProgress != nil {
		writer = &ProgressWriter{
			Writer:   file,
			Total:    resp.ContentLength,
			OnUpdate: onProgress,
		}
	}

	_, err = io.Copy(writer, resp.Body)
	return err
}

// ProgressWriter wraps a writer and reports bytes written through the
// OnUpdate callback. Used to surface download progress to the CLI and TUI.
type ProgressWriter struct {
	// Writer is the underlying writer data is forwarded to.
	Writer io.Writer

	// Total is the expected byte count, -1 when unknown.
	Total int64

	// Written counts the bytes written so far.
	Written int64

	// OnUpdate is called after each write with (written, total).
	OnUpdate func(written, total int64)
}

// Write implements io.Writer.
func (pw *ProgressWriter) Write(p []byte) (int, error) {
	n, err := pw.Writer.Write(p)
	pw.Written += int64(n)
	if pw.OnUpdate != nil {
		pw.OnUpdate(pw.Written, pw.Total)
	}
	return n, err
}
