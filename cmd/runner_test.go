package main

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/urfave/cli/v3"

	"tagflow/internal/config"
	"tagflow/internal/shared"
)

func TestNewRunner(t *testing.T) {
	t.Run("applies defaults", func(t *testing.T) {
		r := NewRunner(RunnerOpts{})
		if r.logger == nil {
			t.Error("expected a default logger")
		}
		if r.output == nil || r.input == nil {
			t.Error("expected default output and input streams")
		}
		if r.styles == nil {
			t.Error("expected default styles")
		}
		if !strings.HasSuffix(r.cachePath, filepath.Join(".tagflow", "tokens.db")) {
			t.Errorf("unexpected default cache path %q", r.cachePath)
		}
		if r.exit == nil {
			t.Error("expected a default exit function")
		}
	})

	t.Run("keeps provided options", func(t *testing.T) {
		out := &bytes.Buffer{}
		r := NewRunner(RunnerOpts{Output: out, CachePath: "/tmp/cache.db"})
		if r.output != out {
			t.Error("expected the provided output writer")
		}
		if r.cachePath != "/tmp/cache.db" {
			t.Errorf("got cache path %q", r.cachePath)
		}
	})

	t.Run("registers every command", func(t *testing.T) {
		r := NewRunner(RunnerOpts{Output: io.Discard})
		commands := r.register()

		want := []string{
			"autotagger", "audiofeatures", "query-url",
			"song-downloader", "authorize-spotify", "renamer", "server",
		}
		if len(commands) != len(want) {
			t.Fatalf("registered %d commands, want %d", len(commands), len(want))
		}
		for i, name := range want {
			if commands[i].Name != name {
				t.Errorf("command %d is %q, want %q", i, commands[i].Name, name)
			}
		}
	})
}

func TestWritePlain(t *testing.T) {
	out := &bytes.Buffer{}
	r := NewRunner(RunnerOpts{Output: out})

	if err := r.writePlain("count: %d", 3); err != nil {
		t.Fatalf("writePlain failed: %v", err)
	}
	if err := r.writePlainln(" done"); err != nil {
		t.Fatalf("writePlainln failed: %v", err)
	}
	if got := out.String(); got != "count: 3 done\n" {
		t.Errorf("got output %q", got)
	}
}

// runAutotagger parses args against the autotagger flag set and hands the
// parsed command to fn instead of the real action.
func runAutotagger(t *testing.T, args []string, fn func(*cli.Command)) {
	t.Helper()
	r := NewRunner(RunnerOpts{Logger: shared.NewLogger(io.Discard), Output: io.Discard})
	command := autotaggerCommand(r)
	command.Action = func(ctx context.Context, cmd *cli.Command) error {
		fn(cmd)
		return nil
	}
	if err := command.Run(context.Background(), append([]string{"autotagger"}, args...)); err != nil {
		t.Fatalf("command failed: %v", err)
	}
}

func TestTaggerOverrides(t *testing.T) {
	t.Run("absent flags stay nil", func(t *testing.T) {
		runAutotagger(t, []string{"--path", "/music"}, func(cmd *cli.Command) {
			o := taggerOverrides(cmd)
			if o.Path != "/music" {
				t.Errorf("got path %q", o.Path)
			}
			if o.Platforms != nil || o.Tags != nil || o.Threads != nil ||
				o.Strictness != nil || o.MaxDurationDifference != nil || o.FilenameTemplate != nil {
				t.Error("expected all override pointers to be nil")
			}
			if o.Overwrite || o.NoSubfolders {
				t.Error("expected bool overrides to be off")
			}
		})
	})

	t.Run("set flags populate pointers", func(t *testing.T) {
		args := []string{
			"--path", "/music",
			"--platforms", "beatport,discogs",
			"--threads", "4",
			"--strictness", "65",
			"--overwrite",
			"--no-subfolders",
		}
		runAutotagger(t, args, func(cmd *cli.Command) {
			o := taggerOverrides(cmd)
			if o.Platforms == nil || *o.Platforms != "beatport,discogs" {
				t.Errorf("got platforms %v", o.Platforms)
			}
			if o.Threads == nil || *o.Threads != 4 {
				t.Errorf("got threads %v", o.Threads)
			}
			if o.Strictness == nil || *o.Strictness != 65 {
				t.Errorf("got strictness %v", o.Strictness)
			}
			if !o.Overwrite {
				t.Error("expected overwrite to be set")
			}
			if !o.NoSubfolders {
				t.Error("expected no-subfolders to be set")
			}
		})
	})
}

func TestCredentials(t *testing.T) {
	flags := []cli.Flag{
		&cli.StringFlag{Name: "client-id"},
		&cli.StringFlag{Name: "client-secret"},
	}

	run := func(t *testing.T, args []string, fn func(*cli.Command)) {
		t.Helper()
		command := &cli.Command{
			Name:  "creds",
			Flags: flags,
			Action: func(ctx context.Context, cmd *cli.Command) error {
				fn(cmd)
				return nil
			},
		}
		if err := command.Run(context.Background(), append([]string{"creds"}, args...)); err != nil {
			t.Fatalf("command failed: %v", err)
		}
	}

	t.Run("flags win", func(t *testing.T) {
		t.Setenv("SPOTIFY_CLIENT_ID", "env-id")
		t.Setenv("SPOTIFY_CLIENT_SECRET", "env-secret")
		run(t, []string{"--client-id", "flag-id", "--client-secret", "flag-secret"}, func(cmd *cli.Command) {
			id, secret := credentials(cmd)
			if id != "flag-id" || secret != "flag-secret" {
				t.Errorf("got %q / %q", id, secret)
			}
		})
	})

	t.Run("environment fallback", func(t *testing.T) {
		t.Setenv("SPOTIFY_CLIENT_ID", "env-id")
		t.Setenv("SPOTIFY_CLIENT_SECRET", "env-secret")
		run(t, nil, func(cmd *cli.Command) {
			id, secret := credentials(cmd)
			if id != "env-id" || secret != "env-secret" {
				t.Errorf("got %q / %q", id, secret)
			}
		})
	})
}

func TestDumpConfig(t *testing.T) {
	out := &bytes.Buffer{}
	if err := dumpConfig(out, config.DefaultTaggerConfig()); err != nil {
		t.Fatalf("dumpConfig failed: %v", err)
	}
	text := out.String()
	for _, want := range []string{"threads = 16", "strictness = 0.8"} {
		if !strings.Contains(text, want) {
			t.Errorf("dump output missing %q:\n%s", want, text)
		}
	}
}
