// Package config manages campdown settings.
//
// Settings are layered: built-in defaults, then an optional YAML config
// file (./campdown.yaml or ~/.config/campdown/campdown.yaml, or an
// explicit --config path), then CAMPDOWN_* environment variables.
// Command line flags override all of these in cmd/campdown.
//
//	settings, err := config.Load("")        // search standard locations
//	settings, err := config.Load(flagPath)  // explicit file
//
// The settings convert into the path and naming configs the rest of the
// program consumes:
//
//	parser := bandcamp.NewParser(
//	    settings.AlbumPathConfig(),
//	    settings.TrackPathConfig(),
//	    settings.TrackConfig(),
//	)
package config
