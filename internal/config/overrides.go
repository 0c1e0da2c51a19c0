package config

import (
	"strings"

	"github.com/charmbracelet/log"
)

// TaggerOverrides holds CLI-supplied overrides for a TaggerConfig. Pointer
// fields are applied only when non-nil, so an absent flag never clobbers a
// value the base config already set. Boolean fields are applied only when
// true; NoSubfolders is the one exception and forces subfolder inclusion
// off when set.
type TaggerOverrides struct {
	Path                  string
	Platforms             *string
	Tags                  *string
	Threads               *int
	Strictness            *int
	MaxDurationDifference *int
	FilenameTemplate      *string

	ID3v24        bool
	Overwrite     bool
	AlbumArtFile  bool
	MergeGenres   bool
	Camelot       bool
	ShortTitle    bool
	MatchDuration bool
	MatchByID     bool
	EnableShazam  bool
	ForceShazam   bool
	SkipTagged    bool
	ParseFilename bool
	OnlyYear      bool
	Multiplatform bool

	NoSubfolders bool
}

// Apply merges the overrides into cfg, warning on entries it drops.
func (o TaggerOverrides) Apply(cfg *TaggerConfig, logger *log.Logger) {
	cfg.Path = o.Path
	if o.Platforms != nil {
		cfg.Platforms = splitList(*o.Platforms)
	}
	if o.Tags != nil {
		cfg.Tags = ParseTags(*o.Tags, logger)
	}
	if o.Threads != nil {
		cfg.Threads = *o.Threads
	}
	if o.Strictness != nil {
		if *o.Strictness < 0 || *o.Strictness > 100 {
			logger.Warnf("invalid strictness %d, keeping %.2f", *o.Strictness, cfg.Strictness)
		} else {
			cfg.Strictness = float64(*o.Strictness) / 100.0
		}
	}
	if o.MaxDurationDifference != nil {
		cfg.MaxDurationDifference = *o.MaxDurationDifference
	}
	if o.FilenameTemplate != nil {
		cfg.FilenameTemplate = *o.FilenameTemplate
	}

	applyFlag(&cfg.ID3v24, o.ID3v24)
	applyFlag(&cfg.Overwrite, o.Overwrite)
	applyFlag(&cfg.AlbumArtFile, o.AlbumArtFile)
	applyFlag(&cfg.MergeGenres, o.MergeGenres)
	applyFlag(&cfg.Camelot, o.Camelot)
	applyFlag(&cfg.ShortTitle, o.ShortTitle)
	applyFlag(&cfg.MatchDuration, o.MatchDuration)
	applyFlag(&cfg.MatchByID, o.MatchByID)
	applyFlag(&cfg.EnableShazam, o.EnableShazam)
	applyFlag(&cfg.ForceShazam, o.ForceShazam)
	applyFlag(&cfg.SkipTagged, o.SkipTagged)
	applyFlag(&cfg.ParseFilename, o.ParseFilename)
	applyFlag(&cfg.OnlyYear, o.OnlyYear)
	applyFlag(&cfg.Multiplatform, o.Multiplatform)

	// The only override allowed to force a feature off. Its absence never
	// forces subfolders back on.
	if o.NoSubfolders {
		cfg.IncludeSubfolders = false
	}
}

// applyFlag sets target only when the override is true.
func applyFlag(target *bool, override bool) {
	if override {
		*target = true
	}
}

// ResolveTagger produces the canonical autotagger configuration: built-in
// defaults, replaced by the file at configPath when given, with overrides
// applied last.
func ResolveTagger(configPath string, o TaggerOverrides, logger *log.Logger) (*TaggerConfig, error) {
	cfg := DefaultTaggerConfig()
	if configPath != "" {
		loaded, err := LoadTaggerConfig(configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	o.Apply(cfg, logger)
	return cfg, nil
}

// ResolveAudioFeatures produces the audio features configuration. The file
// at configPath replaces the built-in defaults when given; the target path
// always comes from the command line, and noSubfolders carries the same
// asymmetric force-off semantics as the autotagger override.
func ResolveAudioFeatures(configPath, path string, noSubfolders bool) (*AudioFeaturesConfig, error) {
	cfg := DefaultAudioFeaturesConfig()
	if configPath != "" {
		loaded, err := LoadAudioFeaturesConfig(configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	cfg.Path = path
	if noSubfolders {
		cfg.IncludeSubfolders = false
	}
	return cfg, nil
}

// ParseTags splits a comma-separated tag list, normalizes each entry to the
// engine's snake_case identifiers and drops unknown entries with a warning.
// Valid entries keep their order.
func ParseTags(s string, logger *log.Logger) []Tag {
	tags := []Tag{}
	for _, entry := range splitList(s) {
		tag := Tag(normalizeTag(entry))
		if !knownTags[tag] {
			logger.Warnf("invalid tag: %s", entry)
			continue
		}
		tags = append(tags, tag)
	}
	return tags
}

func normalizeTag(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "-", "_")
	return strings.ReplaceAll(s, " ", "_")
}

func splitList(s string) []string {
	parts := []string{}
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}
