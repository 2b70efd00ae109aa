package http

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_GetString(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.Header.Get("User-Agent"), "campdown/")
		w.Write([]byte("<html>page</html>"))
	}))
	defer ts.Close()

	client := NewClient()
	body, err := client.GetString(context.Background(), ts.URL)
	require.NoError(t, err)
	assert.Equal(t, "<html>page</html>", body)
}

func TestClient_Get_NonOK(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer ts.Close()

	client := NewClient()
	_, err := client.Get(context.Background(), ts.URL)
	assert.ErrorContains(t, err, "404")
}

func TestClient_FileSize(t *testing.T) {
	payload := []byte("0123456789")
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(payload)
	}))
	defer ts.Close()

	client := NewClient()
	size, err := client.FileSize(context.Background(), ts.URL)
	require.NoError(t, err)
	assert.Equal(t, int64(len(payload)), size)
}

func TestClient_DownloadFile(t *testing.T) {
	payload := make([]byte, 16*1024)
	for i := range payload {
		payload[i] = byte(i % 251)
	}

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(payload)
	}))
	defer ts.Close()

	dest := filepath.Join(t.TempDir(), "file.mp3")

	var lastWritten, lastTotal int64
	client := NewClient()
	err := client.DownloadFile(context.Background(), ts.URL, dest, func(written, total int64) {
		lastWritten = written
		lastTotal = total
	})
	require.NoError(t, err)

	got, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
	assert.Equal(t, int64(len(payload)), lastWritten)
	assert.Equal(t, int64(len(payload)), lastTotal)
}

func TestProgressWriter_ReportsProgress(t *testing.T) {
	var updates int
	pw := &ProgressWriter{
		Writer: io.Discard,
		Total:  10,
		OnUpdate: func(written, total int64) {
			updates++
		},
	}

	// Writer must still behave like a plain io.Writer.
	n, err := pw.Write([]byte("12345"))
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, int64(5), pw.Written)
	assert.Equal(t, 1, updates)
}
