// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// autotaggerCommand starts the autotagger in CLI mode.
func autotaggerCommand(r *Runner) *cli.Command {
	flags := []cli.Flag{
		&cli.StringFlag{
			Name:     "path",
			Aliases:  []string{"p"},
			Usage:    "Path to music files or a playlist file",
			Required: true,
		},
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to a TOML config file replacing the built-in defaults",
		},
		&cli.StringFlag{
			Name:    "platforms",
			Aliases: []string{"P"},
			Usage:   "Comma separated list of platforms to match against",
		},
		&cli.StringFlag{
			Name:    "tags",
			Aliases: []string{"t"},
			Usage:   "Comma separated list of tags to write",
		},
		&cli.IntFlag{
			Name:  "threads",
			Usage: "How many workers to use for searching & matching",
		},
		&cli.IntFlag{
			Name:  "strictness",
			Usage: "How strict the matching should be, 0 - 100 (%)",
		},
		&cli.IntFlag{
			Name:  "max-duration-difference",
			Usage: "Allowed duration difference in seconds when duration matching",
		},
		&cli.StringFlag{
			Name:  "filename-template",
			Usage: "Template for the parse-filename option, e.g. '%artist% - %title%'",
		},
	}
	for _, b := range boolOverrideFlags {
		flags = append(flags, &cli.BoolFlag{Name: b.name, Usage: b.usage})
	}
	return &cli.Command{
		Name:   "autotagger",
		Usage:  "Match files against platforms and tag them",
		Flags:  flags,
		Action: r.Autotagger,
	}
}

// boolOverrideFlags are the feature switches shared with the config file.
// Setting one turns the feature on; leaving it off never disables a
// file-enabled feature. no-subfolders is the lone force-off flag.
var boolOverrideFlags = []struct{ name, usage string }{
	{"id3v24", "Use ID3v2.4 instead of ID3v2.3 for MP3/AIFF files"},
	{"overwrite", "Overwrite existing tags in the track"},
	{"album-art-file", "Write a cover.jpg into the folder"},
	{"merge-genres", "Merge new genres with existing ones"},
	{"camelot", "Write the key tag in Camelot format"},
	{"short-title", "Write the title tag without version"},
	{"match-duration", "Match the song duration as well"},
	{"match-by-id", "Use platform specific ID tags for exact matches"},
	{"enable-shazam", "Identify tracks without tags by audio fingerprint"},
	{"force-shazam", "Always identify tracks by audio fingerprint"},
	{"skip-tagged", "Skip tracks that were already tagged"},
	{"parse-filename", "Recover title & artist from the filename when tags are missing"},
	{"only-year", "Write only the year instead of the full date"},
	{"multiplatform", "Tag on every platform instead of fallback mode"},
	{"no-subfolders", "Don't include subfolders"},
}

// audiofeaturesCommand runs the Spotify audio features analysis.
func audiofeaturesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "audiofeatures",
		Usage: "Tag files with Spotify audio analysis values",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "path",
				Aliases:  []string{"p"},
				Usage:    "Path to music files or a playlist file",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a TOML audio features config file",
			},
			&cli.StringFlag{
				Name:  "client-id",
				Usage: "Spotify client ID (falls back to SPOTIFY_CLIENT_ID)",
			},
			&cli.StringFlag{
				Name:  "client-secret",
				Usage: "Spotify client secret (falls back to SPOTIFY_CLIENT_SECRET)",
			},
			&cli.BoolFlag{
				Name:  "no-subfolders",
				Usage: "Don't include subfolders",
			},
		},
		Action: r.AudioFeatures,
	}
}

// queryURLCommand queries information about a URL without downloading.
func queryURLCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "query-url",
		Usage: "Show platform information about a URL",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "url",
				Aliases:  []string{"u"},
				Usage:    "URL to query (YouTube, Spotify or SoundCloud)",
				Required: true,
			},
			&cli.FloatFlag{
				Name:  "confidence",
				Usage: "Identification confidence threshold (0.0-1.0)",
				Value: 0.75,
			},
		},
		Action: r.QueryURL,
	}
}

// songDownloaderCommand drives the external download script.
func songDownloaderCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "song-downloader",
		Usage: "Download songs from a video or playlist URL",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "url",
				Aliases:  []string{"u"},
				Usage:    "URL to download from (channel, playlist or video)",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "output",
				Aliases:  []string{"o"},
				Usage:    "Output directory for downloaded songs",
				Required: true,
			},
			&cli.FloatFlag{
				Name:  "confidence",
				Usage: "Identification confidence threshold (0.0-1.0)",
				Value: 0.75,
			},
			&cli.BoolFlag{
				Name:  "enable-auto-tag",
				Usage: "Auto-tag downloaded songs",
			},
			&cli.StringFlag{
				Name:  "auto-tag-config",
				Usage: "Path to the auto-tag configuration file",
			},
			&cli.BoolFlag{
				Name:  "enable-audio-features",
				Usage: "Run audio features analysis on downloaded songs",
			},
			&cli.StringFlag{
				Name:  "client-id",
				Usage: "Spotify client ID (required for audio features)",
			},
			&cli.StringFlag{
				Name:  "client-secret",
				Usage: "Spotify client secret (required for audio features)",
			},
		},
		Action: r.SongDownloader,
	}
}

// authorizeCommand performs the Spotify OAuth flow and caches the token.
func authorizeCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "authorize-spotify",
		Usage: "Authorize Spotify and cache the token",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "client-id",
				Usage: "Spotify client ID (falls back to SPOTIFY_CLIENT_ID)",
			},
			&cli.StringFlag{
				Name:  "client-secret",
				Usage: "Spotify client secret (falls back to SPOTIFY_CLIENT_SECRET)",
			},
			&cli.BoolFlag{
				Name:  "prompt",
				Usage: "Don't start a server, prompt for the redirected URL",
			},
			&cli.BoolFlag{
				Name:  "expose",
				Usage: "Run the callback server on 0.0.0.0",
			},
		},
		Action: r.AuthorizeSpotify,
	}
}

// renamerCommand computes and applies filename changes from a template.
func renamerCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "renamer",
		Usage: "Rename files from their metadata using a template",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "path",
				Aliases:  []string{"p"},
				Usage:    "Path to input files",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output directory (defaults to the input path)",
			},
			&cli.StringFlag{
				Name:     "template",
				Aliases:  []string{"t"},
				Usage:    "New filename template, e.g. '%artist% - %title%'",
				Required: true,
			},
			&cli.BoolFlag{
				Name:  "copy",
				Usage: "Copy files instead of moving",
			},
			&cli.BoolFlag{
				Name:  "no-subfolders",
				Usage: "Exclude subfolders",
			},
			&cli.BoolFlag{
				Name:  "preview",
				Usage: "Only generate new names, don't touch any files",
			},
			&cli.BoolFlag{
				Name:  "overwrite",
				Usage: "Overwrite existing files",
			},
			&cli.StringFlag{
				Name:  "separator",
				Usage: "Separator for multiple values",
				Value: ", ",
			},
			&cli.BoolFlag{
				Name:  "keep-subfolders",
				Usage: "Keep the original subfolder structure",
			},
		},
		Action: r.Renamer,
	}
}

// serverCommand starts the status and callback server.
func serverCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "server",
		Usage: "Start the status server",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "expose",
				Aliases: []string{"e"},
				Usage:   "Bind to all interfaces (WARNING: insecure)",
			},
			&cli.IntFlag{
				Name:  "port",
				Usage: "Port to listen on",
				Value: 36914,
			},
		},
		Action: r.Server,
	}
}
