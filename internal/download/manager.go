package download

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/catlinman/campdown/internal/audio"
	"github.com/catlinman/campdown/internal/bandcamp"
	"github.com/catlinman/campdown/internal/config"
	"github.com/catlinman/campdown/internal/http"
	ioutils "github.com/catlinman/campdown/internal/io"
	"github.com/catlinman/campdown/internal/model"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ProgressLevel indicates the severity of a progress message.
type ProgressLevel int

const (
	LevelInfo ProgressLevel = iota
	LevelVerbose
	LevelWarning
	LevelError
	LevelSuccess
)

// ProgressEvent is a human-readable download status update, delivered to
// whatever frontend drives the Manager.
type ProgressEvent struct {
	Message string
	Level   ProgressLevel
}

// Manager coordinates release downloads end to end: it resolves input
// URLs into releases, downloads tracks and artwork concurrently, tags
// the files and writes playlists.
//
//	manager := download.NewManager(settings, logger, onProgress)
//	if err := manager.Resolve(ctx, url); err != nil { ... }
//	if err := manager.Start(ctx); err != nil { ... }
type Manager struct {
	settings     *config.Settings
	logger       *zap.Logger
	client       *http.Client
	parser       *bandcamp.Parser
	discography  *bandcamp.Discography
	tagger       *audio.Tagger
	playlist     *audio.PlaylistWriter
	imageService *ioutils.ImageService

	releases []*model.Release

	totalBytes     int64
	receivedBytes  int64
	totalFiles     int32
	completedFiles int32
	failedFiles    int32

	onProgress func(ProgressEvent)
}

// NewManager creates a Manager from settings. onProgress may be nil when
// the caller only wants the zap log output.
func NewManager(settings *config.Settings, logger *zap.Logger, onProgress func(ProgressEvent)) *Manager {
	format := audio.ParsePlaylistFormat(settings.PlaylistFormat)

	return &Manager{
		settings:     settings,
		logger:       logger,
		client:       http.NewClient(),
		parser:       bandcamp.NewParser(settings.AlbumPathConfig(), settings.TrackPathConfig(), settings.TrackConfig()),
		discography:  bandcamp.NewDiscography(),
		tagger:       audio.NewTagger(),
		playlist:     audio.NewPlaylistWriter(format, settings.M3UExtended),
		imageService: ioutils.NewImageService(),
		onProgress:   onProgress,
	}
}

// Resolve fetches the input URL, classifies the page and collects the
// releases to download. Discography pages expand into one release per
// album or track link; a release that fails to parse is reported and
// skipped rather than aborting the rest.
func (m *Manager) Resolve(ctx context.Context, inputURL string) error {
	m.logger.Debug("fetching page", zap.String("url", inputURL))

	html, err := m.client.GetString(ctx, inputURL)
	if err != nil {
		return fmt.Errorf("failed to fetch %s: %w", inputURL, err)
	}

	pageType := bandcamp.ClassifyPage(html)
	m.logger.Debug("classified page", zap.String("url", inputURL), zap.Stringer("type", pageType))

	switch pageType {
	case bandcamp.PageTrack, bandcamp.PageAlbum:
		release, err := m.parser.ParseRelease(html, inputURL)
		if err != nil {
			return fmt.Errorf("failed to parse %s: %w", inputURL, err)
		}
		m.addRelease(release)

	case bandcamp.PageDiscography:
		urls, err := m.discography.ReleaseURLs(html, inputURL)
		if err != nil {
			return fmt.Errorf("failed to scan discography %s: %w", inputURL, err)
		}
		m.progress(ProgressEvent{Message: fmt.Sprintf("Found %d releases in discography", len(urls)), Level: LevelInfo})

		for _, releaseURL := range urls {
			if err := ctx.Err(); err != nil {
				return err
			}

			releaseHTML, err := m.client.GetString(ctx, releaseURL)
			if err != nil {
				m.warn(fmt.Sprintf("Error fetching %s: %v", releaseURL, err))
				continue
			}

			release, err := m.parser.ParseRelease(releaseHTML, releaseURL)
			if err != nil {
				m.warn(fmt.Sprintf("Error parsing %s: %v", releaseURL, err))
				continue
			}
			m.addRelease(release)
		}

		if len(m.releases) == 0 {
			return fmt.Errorf("no downloadable releases found at %s", inputURL)
		}

	default:
		return fmt.Errorf("%s does not look like a Bandcamp page", inputURL)
	}

	m.countFiles()

	return nil
}

// Start downloads every resolved release. Releases and tracks run
// concurrently within the configured limits. Individual track failures
// are reported and counted but do not stop the run; Start only returns
// an error when the context is cancelled.
func (m *Manager) Start(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(m.settings.MaxConcurrentReleases)

	for _, release := range m.releases {
		release := release
		g.Go(func() error {
			return m.downloadRelease(ctx, release)
		})
	}

	return g.Wait()
}

// Progress returns the byte and file counters for the current run.
// totalBytes stays 0 until size probes complete and may undercount when
// servers withhold Content-Length.
func (m *Manager) Progress() (receivedBytes, totalBytes int64, completedFiles, totalFiles int32) {
	return atomic.LoadInt64(&m.receivedBytes), atomic.LoadInt64(&m.totalBytes),
		atomic.LoadInt32(&m.completedFiles), atomic.LoadInt32(&m.totalFiles)
}

// Failed returns the number of tracks that could not be downloaded.
func (m *Manager) Failed() int {
	return int(atomic.LoadInt32(&m.failedFiles))
}

// Releases returns the resolved releases.
func (m *Manager) Releases() []*model.Release {
	return m.releases
}

// ReleaseNames returns a display name per resolved release.
func (m *Manager) ReleaseNames() []string {
	names := make([]string, len(m.releases))
	for i, release := range m.releases {
		names[i] = fmt.Sprintf("%s - %s (%d tracks)", release.Artist, release.Title, len(release.Tracks))
	}
	return names
}

func (m *Manager) addRelease(release *model.Release) {
	m.releases = append(m.releases, release)
	m.progress(ProgressEvent{
		Message: fmt.Sprintf("Found %s: %s - %s (%d tracks)", release.Kind, release.Artist, release.Title, len(release.Tracks)),
		Level:   LevelInfo,
	})
	m.logger.Info("resolved release",
		zap.String("artist", release.Artist),
		zap.String("title", release.Title),
		zap.Int("tracks", len(release.Tracks)))
}

func (m *Manager) countFiles() {
	var files int32
	for _, release := range m.releases {
		files += int32(len(release.Tracks))
		if m.wantArtwork(release) {
			files++
		}
	}
	atomic.StoreInt32(&m.totalFiles, files)
}

// ProbeSizes HEAD-requests every remote file to establish the total byte
// count used for overall progress. Optional; failures only degrade the
// progress display.
func (m *Manager) ProbeSizes(ctx context.Context) {
	var total int64
	for _, release := range m.releases {
		for _, track := range release.Tracks {
			if size, err := m.client.FileSize(ctx, track.MP3URL); err == nil {
				total += size
			}
		}
		if m.wantArtwork(release) {
			if size, err := m.client.FileSize(ctx, release.ArtworkURL); err == nil {
				total += size
			}
		}
	}
	atomic.StoreInt64(&m.totalBytes, total)
}

func (m *Manager) wantArtwork(release *model.Release) bool {
	return release.HasArtwork() && (m.settings.SaveArtwork || m.settings.EmbedArtwork)
}

func (m *Manager) downloadRelease(ctx context.Context, release *model.Release) error {
	if m.settings.DryRun {
		m.dryRunRelease(release)
		return nil
	}

	if err := ioutils.EnsureDir(release.Path); err != nil {
		// Every track of the release is lost, which must reflect in the
		// failure count so the process exit code can report it.
		atomic.AddInt32(&m.failedFiles, int32(len(release.Tracks)))
		m.fail(fmt.Sprintf("Error creating %s: %v", release.Path, err))
		return nil
	}

	var embedArtwork []byte
	if m.wantArtwork(release) {
		var err error
		embedArtwork, err = m.downloadArtwork(ctx, release)
		if err != nil {
			m.warn(fmt.Sprintf("Error downloading artwork for %s: %v", release.Title, err))
		}
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(m.settings.MaxConcurrentTracks)

	var succeeded int32
	for _, track := range release.Tracks {
		track := track
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := m.downloadTrack(ctx, track, embedArtwork); err != nil {
				atomic.AddInt32(&m.failedFiles, 1)
				m.fail(fmt.Sprintf("Error downloading %s: %v", track.Title, err))
				return nil // keep going with the other tracks
			}
			atomic.AddInt32(&succeeded, 1)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	if m.settings.CreatePlaylist && release.IsAlbum() {
		content := m.playlist.Playlist(release)
		if err := ioutils.WriteFile(release.PlaylistPath, []byte(content)); err != nil {
			m.warn(fmt.Sprintf("Error writing playlist for %s: %v", release.Title, err))
		} else {
			m.logger.Debug("wrote playlist", zap.String("path", release.PlaylistPath))
		}
	}

	if int(succeeded) == len(release.Tracks) {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Finished %s - %s", release.Artist, release.Title), Level: LevelSuccess})
	} else {
		m.warn(fmt.Sprintf("Finished %s - %s with %d failed tracks", release.Artist, release.Title, len(release.Tracks)-int(succeeded)))
	}

	return nil
}

func (m *Manager) dryRunRelease(release *model.Release) {
	for _, track := range release.Tracks {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Would download %s", track.Path), Level: LevelInfo})
		atomic.AddInt32(&m.completedFiles, 1)
	}
	// Embed-only artwork is still a download, so it counts like countFiles
	// counts it.
	if m.wantArtwork(release) {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Would download %s", release.ArtworkURL), Level: LevelInfo})
		atomic.AddInt32(&m.completedFiles, 1)
	}
}

func (m *Manager) downloadArtwork(ctx context.Context, release *model.Release) ([]byte, error) {
	var artwork []byte
	var err error

	for try := 0; try <= m.settings.DownloadMaxRetries; try++ {
		if try > 0 {
			m.waitForRetry(ctx)
		}
		artwork, err = m.client.Get(ctx, release.ArtworkURL)
		if err == nil {
			break
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}

	atomic.AddInt32(&m.completedFiles, 1)
	atomic.AddInt64(&m.receivedBytes, int64(len(artwork)))

	if m.settings.SaveArtwork {
		toSave := artwork
		if m.settings.ConvertArtworkToJPEG {
			if converted, err := m.imageService.ConvertToJPEG(ctx, toSave); err == nil {
				toSave = converted
			}
		}
		if err := ioutils.WriteFile(release.ArtworkPath, toSave); err != nil {
			m.warn(fmt.Sprintf("Error saving artwork: %v", err))
		} else {
			m.logger.Debug("saved artwork", zap.String("path", release.ArtworkPath))
		}
	}

	if !m.settings.EmbedArtwork {
		return nil, nil
	}

	// The embedded copy is resized and always JPEG, APIC frames expect it.
	if m.settings.ArtworkMaxSize > 0 {
		if resized, err := m.imageService.ResizeImage(ctx, artwork, m.settings.ArtworkMaxSize, m.settings.ArtworkMaxSize); err == nil {
			artwork = resized
		}
	} else if converted, err := m.imageService.ConvertToJPEG(ctx, artwork); err == nil {
		artwork = converted
	}

	return artwork, nil
}

func (m *Manager) downloadTrack(ctx context.Context, track *model.Track, artwork []byte) error {
	if !m.settings.ForceRedownload && m.existsWithMatchingSize(ctx, track) {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Skipping existing %s", filepath.Base(track.Path)), Level: LevelVerbose})
		m.logger.Debug("skipping existing file", zap.String("path", track.Path))
		atomic.AddInt32(&m.completedFiles, 1)
		return nil
	}

	var err error
	for try := 0; try <= m.settings.DownloadMaxRetries; try++ {
		if try > 0 {
			m.warn(fmt.Sprintf("Retry %d/%d for %s", try, m.settings.DownloadMaxRetries, track.Title))
			m.waitForRetry(ctx)
		}

		var last int64
		err = m.client.DownloadFile(ctx, track.MP3URL, track.Path, func(written, total int64) {
			atomic.AddInt64(&m.receivedBytes, written-last)
			last = written
		})
		if err == nil {
			break
		}
		atomic.AddInt64(&m.receivedBytes, -last)
		if ctx.Err() != nil {
			break
		}
	}

	if err != nil {
		// Drop the partial file so a later run starts clean.
		if removeErr := os.Remove(track.Path); removeErr != nil && !os.IsNotExist(removeErr) {
			m.logger.Warn("failed to remove partial file", zap.String("path", track.Path), zap.Error(removeErr))
		}
		return err
	}

	atomic.AddInt32(&m.completedFiles, 1)

	// --no-id3 must leave text frames alone even when artwork embedding
	// stays on. artwork is already nil when embedding is disabled.
	if m.settings.WriteTags {
		if err := m.tagger.WriteTags(track, artwork); err != nil {
			m.warn(fmt.Sprintf("Error tagging %s: %v", track.Title, err))
		}
	} else if artwork != nil {
		if err := m.tagger.EmbedArtwork(track, artwork); err != nil {
			m.warn(fmt.Sprintf("Error embedding artwork in %s: %v", track.Title, err))
		}
	}

	m.progress(ProgressEvent{Message: fmt.Sprintf("Downloaded %s", filepath.Base(track.Path)), Level: LevelVerbose})
	m.logger.Info("downloaded track", zap.String("path", track.Path))

	return nil
}

// existsWithMatchingSize reports whether the track file already exists
// locally with a size within the allowed margin of the remote file.
func (m *Manager) existsWithMatchingSize(ctx context.Context, track *model.Track) bool {
	info, err := os.Stat(track.Path)
	if err != nil {
		return false
	}

	remoteSize, err := m.client.FileSize(ctx, track.MP3URL)
	if err != nil || remoteSize <= 0 {
		return false
	}

	diff := math.Abs(float64(info.Size()-remoteSize)) / float64(remoteSize)
	return diff <= m.settings.AllowedSizeDifference
}

func (m *Manager) waitForRetry(ctx context.Context) {
	select {
	case <-ctx.Done():
	case <-time.After(time.Duration(m.settings.DownloadRetrySleep * float64(time.Second))):
	}
}

func (m *Manager) progress(event ProgressEvent) {
	if m.onProgress != nil {
		m.onProgress(event)
	}
}

func (m *Manager) warn(message string) {
	m.logger.Warn(message)
	m.progress(ProgressEvent{Message: message, Level: LevelWarning})
}

func (m *Manager) fail(message string) {
	m.logger.Error(message)
	m.progress(ProgressEvent{Message: message, Level: LevelError})
}
