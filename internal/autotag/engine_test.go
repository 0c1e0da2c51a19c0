package autotag

import (
	"context"
	"fmt"
	"testing"

	"tagflow/internal/config"
	"tagflow/internal/files"
	"tagflow/internal/platforms"
	"tagflow/internal/progress"
)

func collect(events <-chan progress.Event) map[string]progress.Event {
	out := map[string]progress.Event{}
	for e := range events {
		out[e.Path] = e
	}
	return out
}

func TestTagger(t *testing.T) {
	t.Run("one event per file then channel closes", func(t *testing.T) {
		descriptors := make([]files.Descriptor, 0, 10)
		for i := 0; i < 10; i++ {
			descriptors = append(descriptors, files.Descriptor{
				Path:    fmt.Sprintf("t%d.mp3", i),
				Title:   "Title",
				Artists: []string{"Artist"},
			})
		}
		cfg := config.DefaultTaggerConfig()
		cfg.Threads = 3

		events := collect(NewTagger(cfg, nil).Tag(context.Background(), descriptors))
		if len(events) != 10 {
			t.Errorf("got %d events, want 10", len(events))
		}
		for path, e := range events {
			if e.Status != progress.StatusOk {
				t.Errorf("%s: status = %v, want ok", path, e.Status)
			}
		}
	})

	t.Run("missing tags fail the file", func(t *testing.T) {
		cfg := config.DefaultTaggerConfig()
		events := collect(NewTagger(cfg, nil).Tag(context.Background(), []files.Descriptor{
			{Path: "untagged.mp3"},
		}))
		if events["untagged.mp3"].Status != progress.StatusFailed {
			t.Errorf("status = %v, want failed", events["untagged.mp3"].Status)
		}
	})

	t.Run("parse filename recovers artist and title", func(t *testing.T) {
		cfg := config.DefaultTaggerConfig()
		cfg.ParseFilename = true
		events := collect(NewTagger(cfg, nil).Tag(context.Background(), []files.Descriptor{
			{Path: "Some Artist - Some Title.mp3"},
		}))
		if got := events["Some Artist - Some Title.mp3"]; got.Status != progress.StatusOk {
			t.Errorf("event = %+v, want ok", got)
		}
	})

	t.Run("shazam enabled skips instead of failing", func(t *testing.T) {
		cfg := config.DefaultTaggerConfig()
		cfg.EnableShazam = true
		events := collect(NewTagger(cfg, nil).Tag(context.Background(), []files.Descriptor{
			{Path: "untagged.mp3"},
		}))
		if events["untagged.mp3"].Status != progress.StatusSkipped {
			t.Errorf("status = %v, want skipped", events["untagged.mp3"].Status)
		}
	})

	t.Run("skip tagged leaves complete files alone", func(t *testing.T) {
		cfg := config.DefaultTaggerConfig()
		cfg.SkipTagged = true
		events := collect(NewTagger(cfg, nil).Tag(context.Background(), []files.Descriptor{
			{Path: "done.mp3", Title: "T", Artists: []string{"A"}},
		}))
		if events["done.mp3"].Status != progress.StatusSkipped {
			t.Errorf("status = %v, want skipped", events["done.mp3"].Status)
		}
	})

	t.Run("lookup failures surface per file", func(t *testing.T) {
		cfg := config.DefaultTaggerConfig()
		lookup := func(ctx context.Context, d files.Descriptor) (bool, error) {
			return false, nil
		}
		events := collect(NewTagger(cfg, lookup).Tag(context.Background(), []files.Descriptor{
			{Path: "a.mp3", Title: "T", Artists: []string{"A"}},
		}))
		if events["a.mp3"].Status != progress.StatusFailed {
			t.Errorf("status = %v, want failed", events["a.mp3"].Status)
		}
	})
}

type fakeFeatures struct {
	ids map[string]string
}

func (f *fakeFeatures) SearchTrack(ctx context.Context, title, artist string) (string, error) {
	return f.ids[title], nil
}

func (f *fakeFeatures) AudioFeatures(ctx context.Context, trackID string) (*platforms.TrackFeatures, error) {
	return &platforms.TrackFeatures{ID: trackID, Energy: 0.7, Danceability: 0.5, Tempo: 128}, nil
}

func TestAudioFeatures(t *testing.T) {
	cfg := config.DefaultAudioFeaturesConfig()
	client := &fakeFeatures{ids: map[string]string{"Known": "id-1"}}

	descriptors := []files.Descriptor{
		{Path: "known.mp3", Title: "Known", Artists: []string{"A"}},
		{Path: "unknown.mp3", Title: "Unknown", Artists: []string{"A"}},
		{Path: "untagged.mp3"},
	}
	events := collect(AudioFeatures(context.Background(), cfg, client, descriptors))

	if events["known.mp3"].Status != progress.StatusOk {
		t.Errorf("known: %+v", events["known.mp3"])
	}
	if events["unknown.mp3"].Status != progress.StatusFailed {
		t.Errorf("unknown: %+v", events["unknown.mp3"])
	}
	if events["untagged.mp3"].Status != progress.StatusSkipped {
		t.Errorf("untagged: %+v", events["untagged.mp3"])
	}
}
