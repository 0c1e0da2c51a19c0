// package config resolves the canonical job configuration for one tagging or
// analysis run. Resolution is layered: built-in defaults, then an optional
// TOML config file that fully replaces the defaults as the base, then CLI
// overrides applied field by field on top.
package config

import (
	"bytes"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"tagflow/internal/shared"
)

// Tag identifies one metadata field the tagging engine may write.
type Tag string

const (
	TagTitle       Tag = "title"
	TagArtist      Tag = "artist"
	TagAlbum       Tag = "album"
	TagAlbumArtist Tag = "album_artist"
	TagKey         Tag = "key"
	TagBPM         Tag = "bpm"
	TagGenre       Tag = "genre"
	TagStyle       Tag = "style"
	TagLabel       Tag = "label"
	TagReleaseDate Tag = "release_date"
	TagTrackNumber Tag = "track_number"
	TagDuration    Tag = "duration"
	TagISRC        Tag = "isrc"
	TagAlbumArt    Tag = "album_art"
	TagURL         Tag = "url"
	TagMood        Tag = "mood"
)

var knownTags = map[Tag]bool{
	TagTitle: true, TagArtist: true, TagAlbum: true, TagAlbumArtist: true,
	TagKey: true, TagBPM: true, TagGenre: true, TagStyle: true,
	TagLabel: true, TagReleaseDate: true, TagTrackNumber: true,
	TagDuration: true, TagISRC: true, TagAlbumArt: true, TagURL: true,
	TagMood: true,
}

// TaggerConfig is the fully resolved parameter set for an autotagger run.
// Once resolved it is treated as immutable; engines receive it by pointer
// and never write to it.
type TaggerConfig struct {
	Path                  string   `toml:"path"`
	Platforms             []string `toml:"platforms"`
	Tags                  []Tag    `toml:"tags"`
	IncludeSubfolders     bool     `toml:"include_subfolders"`
	ID3v24                bool     `toml:"id3v24"`
	Overwrite             bool     `toml:"overwrite"`
	Threads               int      `toml:"threads"`
	Strictness            float64  `toml:"strictness"`
	AlbumArtFile          bool     `toml:"album_art_file"`
	MergeGenres           bool     `toml:"merge_genres"`
	Camelot               bool     `toml:"camelot"`
	ShortTitle            bool     `toml:"short_title"`
	MatchDuration         bool     `toml:"match_duration"`
	MaxDurationDifference int      `toml:"max_duration_difference"`
	MatchByID             bool     `toml:"match_by_id"`
	EnableShazam          bool     `toml:"enable_shazam"`
	ForceShazam           bool     `toml:"force_shazam"`
	SkipTagged            bool     `toml:"skip_tagged"`
	ParseFilename         bool     `toml:"parse_filename"`
	FilenameTemplate      string   `toml:"filename_template"`
	OnlyYear              bool     `toml:"only_year"`
	Multiplatform         bool     `toml:"multiplatform"`
}

// AudioFeaturesConfig is the resolved parameter set for an audio features run.
type AudioFeaturesConfig struct {
	Path              string   `toml:"path"`
	IncludeSubfolders bool     `toml:"include_subfolders"`
	SkipTagged        bool     `toml:"skip_tagged"`
	MainTag           Tag      `toml:"main_tag"`
	Properties        []string `toml:"properties"`
}

// DefaultTaggerConfig returns the built-in autotagger defaults.
func DefaultTaggerConfig() *TaggerConfig {
	return &TaggerConfig{
		Platforms:             []string{"beatport", "traxsource", "discogs"},
		Tags:                  []Tag{TagTitle, TagArtist, TagAlbum, TagGenre, TagReleaseDate},
		IncludeSubfolders:     true,
		Threads:               16,
		Strictness:            0.80,
		MaxDurationDifference: 30,
	}
}

// DefaultAudioFeaturesConfig returns the built-in audio features defaults.
func DefaultAudioFeaturesConfig() *AudioFeaturesConfig {
	return &AudioFeaturesConfig{
		IncludeSubfolders: true,
		MainTag:           TagMood,
		Properties:        []string{"danceability", "energy", "valence", "tempo"},
	}
}

// LoadTaggerConfig reads and parses a TOML tagger config from path.
func LoadTaggerConfig(path string) (*TaggerConfig, error) {
	var config TaggerConfig
	if err := loadTOML(path, &config); err != nil {
		return nil, err
	}
	return &config, nil
}

// LoadAudioFeaturesConfig reads and parses a TOML audio features config from path.
func LoadAudioFeaturesConfig(path string) (*AudioFeaturesConfig, error) {
	var config AudioFeaturesConfig
	if err := loadTOML(path, &config); err != nil {
		return nil, err
	}
	return &config, nil
}

func loadTOML(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", shared.ErrMissingConfig, path, err)
	}
	if err := toml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %s: %v", shared.ErrInvalidConfig, path, err)
	}
	return nil
}

// Dump renders a configuration as formatted TOML, for the config dump flags.
func Dump(v any) (string, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(v); err != nil {
		return "", fmt.Errorf("failed to encode config: %w", err)
	}
	return buf.String(), nil
}
