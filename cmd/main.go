package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"

	"tagflow/internal/config"
	"tagflow/internal/shared"
)

func main() {
	// The config dump flags print and exit before any logging setup.
	for _, arg := range os.Args[1:] {
		switch arg {
		case "--autotagger-config":
			mustDump(config.DefaultTaggerConfig())
			return
		case "--audiofeatures-config":
			mustDump(config.DefaultAudioFeaturesConfig())
			return
		}
	}

	// Optional .env so credential flags can fall back to the environment.
	_ = godotenv.Load()

	logger := shared.NewLogger(nil)
	runner := NewRunner(RunnerOpts{Logger: logger})

	app := &cli.Command{
		Name:     "tagflow",
		Usage:    "Batch audio metadata tagging, analysis and renaming",
		Version:  "1.0.0",
		Commands: runner.register(),
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "autotagger-config",
				Usage: "Print the default autotagger config as TOML and exit",
			},
			&cli.BoolFlag{
				Name:  "audiofeatures-config",
				Usage: "Print the default audio features config as TOML and exit",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			fmt.Fprintln(os.Stdout, "No action. Use tagflow --help to print help.")
			return nil
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		logger.Fatalf("application error: %v", err)
	}
}

func dumpConfig(w io.Writer, cfg any) error {
	out, err := config.Dump(cfg)
	if err != nil {
		return fmt.Errorf("failed to serialize default config: %w", err)
	}
	fmt.Fprint(w, out)
	return nil
}

func mustDump(cfg any) {
	if err := dumpConfig(os.Stdout, cfg); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
