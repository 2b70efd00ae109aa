package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/catlinman/campdown/internal/model"
	"github.com/spf13/viper"
)

// Settings holds every tunable campdown option.
type Settings struct {
	// Download layout
	OutputPath          string `mapstructure:"output_path"`
	FileNameFormat      string `mapstructure:"file_name_format"`
	ShortFileNameFormat string `mapstructure:"short_file_name_format"`
	ShortNames          bool   `mapstructure:"short_names"`
	ArtworkFileName     string `mapstructure:"artwork_file_name"`
	PlaylistFileName    string `mapstructure:"playlist_file_name"`

	// Concurrency and retries
	MaxConcurrentReleases int     `mapstructure:"max_concurrent_releases"`
	MaxConcurrentTracks   int     `mapstructure:"max_concurrent_tracks"`
	DownloadMaxRetries    int     `mapstructure:"download_max_retries"`
	DownloadRetrySleep    float64 `mapstructure:"download_retry_sleep"`

	// AllowedSizeDifference is the margin, as a fraction of the remote
	// size, by which an existing local file may differ before it is
	// downloaded again.
	AllowedSizeDifference float64 `mapstructure:"allowed_size_difference"`

	// ForceRedownload skips the existing-file check entirely.
	ForceRedownload bool `mapstructure:"force_redownload"`

	// DryRun resolves releases and reports what would be downloaded
	// without writing anything. Set from the command line only.
	DryRun bool `mapstructure:"-"`

	// Artwork
	SaveArtwork          bool `mapstructure:"save_artwork"`
	EmbedArtwork         bool `mapstructure:"embed_artwork"`
	ArtworkMaxSize       int  `mapstructure:"artwork_max_size"`
	ConvertArtworkToJPEG bool `mapstructure:"convert_artwork_to_jpeg"`

	// Tagging
	WriteTags bool `mapstructure:"write_tags"`

	// Playlists
	CreatePlaylist bool   `mapstructure:"create_playlist"`
	PlaylistFormat string `mapstructure:"playlist_format"` // m3u, pls, wpl, zpl
	M3UExtended    bool   `mapstructure:"m3u_extended"`

	// Logging
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"` // console, json
}

// DefaultSettings returns the defaults campdown ships with. Downloads land
// in the working directory, matching the original command line tool.
func DefaultSettings() *Settings {
	wd, err := os.Getwd()
	if err != nil {
		wd = "."
	}

	return &Settings{
		OutputPath:          wd,
		FileNameFormat:      "{artist} - {album} - {tracknum} {title}.mp3",
		ShortFileNameFormat: "{tracknum} {title}.mp3",
		ShortNames:          false,
		ArtworkFileName:     "cover",
		PlaylistFileName:    "{album}",

		MaxConcurrentReleases: 1,
		MaxConcurrentTracks:   4,
		DownloadMaxRetries:    2,
		DownloadRetrySleep:    30,

		AllowedSizeDifference: 0.01,
		ForceRedownload:       false,

		SaveArtwork:          true,
		EmbedArtwork:         true,
		ArtworkMaxSize:       1000,
		ConvertArtworkToJPEG: true,

		WriteTags: true,

		CreatePlaylist: false,
		PlaylistFormat: "m3u",
		M3UExtended:    true,

		LogLevel:  "info",
		LogFormat: "console",
	}
}

// Load reads settings from an optional config file and CAMPDOWN_*
// environment variables, layered over the defaults. An empty path makes
// viper search the standard locations; a missing file is not an error.
func Load(path string) (*Settings, error) {
	settings := DefaultSettings()

	v := viper.New()
	v.SetConfigType("yaml")

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("campdown")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/campdown")
	}

	v.SetEnvPrefix("CAMPDOWN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// No config file found, defaults apply.
	}

	if err := v.Unmarshal(settings); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	settings.OutputPath = expandPath(settings.OutputPath)

	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return settings, nil
}

// Save writes the settings to a YAML file, creating parent folders as
// needed.
func (s *Settings) Save(path string) error {
	v := viper.New()
	v.SetConfigType("yaml")

	v.Set("output_path", s.OutputPath)
	v.Set("file_name_format", s.FileNameFormat)
	v.Set("short_file_name_format", s.ShortFileNameFormat)
	v.Set("short_names", s.ShortNames)
	v.Set("artwork_file_name", s.ArtworkFileName)
	v.Set("playlist_file_name", s.PlaylistFileName)
	v.Set("max_concurrent_releases", s.MaxConcurrentReleases)
	v.Set("max_concurrent_tracks", s.MaxConcurrentTracks)
	v.Set("download_max_retries", s.DownloadMaxRetries)
	v.Set("download_retry_sleep", s.DownloadRetrySleep)
	v.Set("allowed_size_difference", s.AllowedSizeDifference)
	v.Set("force_redownload", s.ForceRedownload)
	v.Set("save_artwork", s.SaveArtwork)
	v.Set("embed_artwork", s.EmbedArtwork)
	v.Set("artwork_max_size", s.ArtworkMaxSize)
	v.Set("convert_artwork_to_jpeg", s.ConvertArtworkToJPEG)
	v.Set("write_tags", s.WriteTags)
	v.Set("create_playlist", s.CreatePlaylist)
	v.Set("playlist_format", s.PlaylistFormat)
	v.Set("m3u_extended", s.M3UExtended)
	v.Set("log_level", s.LogLevel)
	v.Set("log_format", s.LogFormat)

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	return v.WriteConfigAs(path)
}

// Validate checks the settings for values that would break a run.
func (s *Settings) Validate() error {
	if s.OutputPath == "" {
		return fmt.Errorf("output path not configured")
	}
	if s.MaxConcurrentReleases < 1 {
		return fmt.Errorf("max concurrent releases must be at least 1")
	}
	if s.MaxConcurrentTracks < 1 {
		return fmt.Errorf("max concurrent tracks must be at least 1")
	}
	if s.DownloadMaxRetries < 0 {
		return fmt.Errorf("max retries cannot be negative")
	}
	if s.AllowedSizeDifference < 0 {
		return fmt.Errorf("allowed size difference cannot be negative")
	}
	return nil
}

// AlbumPathConfig returns the path layout for album releases: a
// "{artist} - {album}" folder under the output path.
func (s *Settings) AlbumPathConfig() *model.PathConfig {
	return &model.PathConfig{
		OutputPath:        filepath.Join(s.OutputPath, "{artist} - {album}"),
		ArtworkFileName:   s.ArtworkFileName,
		PlaylistFileName:  s.PlaylistFileName,
		PlaylistExtension: s.playlistExtension(),
	}
}

// TrackPathConfig returns the path layout for standalone tracks, which
// are written straight into the output path. Cover art for singles is
// named after the track so several singles can share the folder.
func (s *Settings) TrackPathConfig() *model.PathConfig {
	return &model.PathConfig{
		OutputPath:        s.OutputPath,
		ArtworkFileName:   "{artist} - {album}",
		PlaylistFileName:  s.PlaylistFileName,
		PlaylistExtension: s.playlistExtension(),
	}
}

// TrackConfig returns the track file name template, honoring ShortNames.
func (s *Settings) TrackConfig() *model.TrackConfig {
	format := s.FileNameFormat
	if s.ShortNames {
		format = s.ShortFileNameFormat
	}
	return &model.TrackConfig{FileNameFormat: format}
}

func (s *Settings) playlistExtension() string {
	switch s.PlaylistFormat {
	case "pls":
		return ".pls"
	case "wpl":
		return ".wpl"
	case "zpl":
		return ".zpl"
	default:
		return ".m3u"
	}
}

// expandPath expands ~ and environment variables in a path.
func expandPath(path string) string {
	path = os.ExpandEnv(path)

	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[2:])
		}
	}

	return path
}
