package config

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"tagflow/internal/shared"
)

func TestResolveTagger(t *testing.T) {
	logger := shared.NewLogger(io.Discard)

	t.Run("defaults alone reproduce the built-in config", func(t *testing.T) {
		resolved, err := ResolveTagger("", TaggerOverrides{}, logger)
		if err != nil {
			t.Fatalf("ResolveTagger failed: %v", err)
		}
		want := DefaultTaggerConfig()
		if !reflect.DeepEqual(resolved, want) {
			t.Errorf("resolved defaults = %+v, want %+v", resolved, want)
		}
	})

	t.Run("missing config file fails", func(t *testing.T) {
		_, err := ResolveTagger(filepath.Join(t.TempDir(), "nope.toml"), TaggerOverrides{}, logger)
		if !errors.Is(err, shared.ErrMissingConfig) {
			t.Errorf("expected ErrMissingConfig, got %v", err)
		}
	})

	t.Run("malformed config file fails", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.toml")
		if err := os.WriteFile(path, []byte("threads = [not toml"), 0644); err != nil {
			t.Fatal(err)
		}
		_, err := ResolveTagger(path, TaggerOverrides{}, logger)
		if !errors.Is(err, shared.ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("file replaces defaults as base", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		body := "threads = 4\nstrictness = 0.5\nmerge_genres = true\ninclude_subfolders = true\n"
		if err := os.WriteFile(path, []byte(body), 0644); err != nil {
			t.Fatal(err)
		}
		resolved, err := ResolveTagger(path, TaggerOverrides{}, logger)
		if err != nil {
			t.Fatalf("ResolveTagger failed: %v", err)
		}
		if resolved.Threads != 4 {
			t.Errorf("Threads = %d, want 4", resolved.Threads)
		}
		if !resolved.MergeGenres {
			t.Error("expected MergeGenres from file")
		}
		// Fields absent from the file come from the file's zero value,
		// not the defaults: the file fully replaces the base.
		if len(resolved.Platforms) != 0 {
			t.Errorf("Platforms = %v, want empty", resolved.Platforms)
		}
	})

	t.Run("absent CLI flag never clobbers a base value", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(path, []byte("overwrite = true\nthreads = 8\n"), 0644); err != nil {
			t.Fatal(err)
		}
		resolved, err := ResolveTagger(path, TaggerOverrides{Path: "/music"}, logger)
		if err != nil {
			t.Fatalf("ResolveTagger failed: %v", err)
		}
		if !resolved.Overwrite {
			t.Error("absent --overwrite flag disabled a file-enabled feature")
		}
		if resolved.Threads != 8 {
			t.Errorf("Threads = %d, want file value 8", resolved.Threads)
		}
	})

	t.Run("true boolean override wins over file and default", func(t *testing.T) {
		resolved, err := ResolveTagger("", TaggerOverrides{Camelot: true, SkipTagged: true}, logger)
		if err != nil {
			t.Fatalf("ResolveTagger failed: %v", err)
		}
		if !resolved.Camelot || !resolved.SkipTagged {
			t.Error("true boolean overrides were not applied")
		}
	})

	t.Run("no-subfolders forces inclusion off", func(t *testing.T) {
		resolved, err := ResolveTagger("", TaggerOverrides{NoSubfolders: true}, logger)
		if err != nil {
			t.Fatalf("ResolveTagger failed: %v", err)
		}
		if resolved.IncludeSubfolders {
			t.Error("NoSubfolders did not force IncludeSubfolders off")
		}
	})

	t.Run("absent no-subfolders never forces inclusion on", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(path, []byte("include_subfolders = false\n"), 0644); err != nil {
			t.Fatal(err)
		}
		resolved, err := ResolveTagger(path, TaggerOverrides{}, logger)
		if err != nil {
			t.Fatalf("ResolveTagger failed: %v", err)
		}
		if resolved.IncludeSubfolders {
			t.Error("absent NoSubfolders flag turned subfolders back on")
		}
	})
}

func TestStrictnessOverride(t *testing.T) {
	logger := shared.NewLogger(io.Discard)

	t.Run("150 is rejected and base retained", func(t *testing.T) {
		strictness := 150
		resolved, err := ResolveTagger("", TaggerOverrides{Strictness: &strictness}, logger)
		if err != nil {
			t.Fatalf("ResolveTagger failed: %v", err)
		}
		if resolved.Strictness != DefaultTaggerConfig().Strictness {
			t.Errorf("Strictness = %v, want base %v", resolved.Strictness, DefaultTaggerConfig().Strictness)
		}
	})

	t.Run("80 becomes 0.80", func(t *testing.T) {
		strictness := 80
		resolved, err := ResolveTagger("", TaggerOverrides{Strictness: &strictness}, logger)
		if err != nil {
			t.Fatalf("ResolveTagger failed: %v", err)
		}
		if resolved.Strictness != 0.80 {
			t.Errorf("Strictness = %v, want 0.80", resolved.Strictness)
		}
	})
}

func TestParseTags(t *testing.T) {
	logger := shared.NewLogger(io.Discard)

	t.Run("valid entries keep order", func(t *testing.T) {
		tags := ParseTags("title,artist,genre", logger)
		want := []Tag{TagTitle, TagArtist, TagGenre}
		if !reflect.DeepEqual(tags, want) {
			t.Errorf("ParseTags = %v, want %v", tags, want)
		}
	})

	t.Run("entries are case normalized", func(t *testing.T) {
		tags := ParseTags("Release-Date, Track Number, BPM", logger)
		want := []Tag{TagReleaseDate, TagTrackNumber, TagBPM}
		if !reflect.DeepEqual(tags, want) {
			t.Errorf("ParseTags = %v, want %v", tags, want)
		}
	})

	t.Run("invalid entry drops only itself", func(t *testing.T) {
		tags := ParseTags("title,bogus,album", logger)
		want := []Tag{TagTitle, TagAlbum}
		if !reflect.DeepEqual(tags, want) {
			t.Errorf("ParseTags = %v, want %v", tags, want)
		}
	})

	t.Run("parsing is idempotent", func(t *testing.T) {
		first := ParseTags("title,artist", logger)
		joined := make([]string, 0, len(first))
		for _, tag := range first {
			joined = append(joined, string(tag))
		}
		second := ParseTags(strings.Join(joined, ","), logger)
		if !reflect.DeepEqual(first, second) {
			t.Errorf("re-parse changed tags: %v vs %v", first, second)
		}
	})
}

func TestResolveAudioFeatures(t *testing.T) {
	t.Run("defaults when no file given", func(t *testing.T) {
		cfg, err := ResolveAudioFeatures("", "/music", false)
		if err != nil {
			t.Fatalf("ResolveAudioFeatures failed: %v", err)
		}
		if cfg.Path != "/music" {
			t.Errorf("Path = %q, want /music", cfg.Path)
		}
		if !cfg.IncludeSubfolders {
			t.Error("expected default IncludeSubfolders")
		}
	})

	t.Run("no-subfolders forces inclusion off", func(t *testing.T) {
		cfg, err := ResolveAudioFeatures("", "/music", true)
		if err != nil {
			t.Fatalf("ResolveAudioFeatures failed: %v", err)
		}
		if cfg.IncludeSubfolders {
			t.Error("noSubfolders did not force IncludeSubfolders off")
		}
	})
}

func TestDump(t *testing.T) {
	out, err := Dump(DefaultTaggerConfig())
	if err != nil {
		t.Fatalf("Dump failed: %v", err)
	}
	for _, key := range []string{"platforms", "strictness", "include_subfolders", "threads"} {
		if !strings.Contains(out, key) {
			t.Errorf("dump missing key %q:\n%s", key, out)
		}
	}
}
