package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"tagflow/internal/platforms"
	"tagflow/internal/shared"
	"tagflow/internal/ui"
)

// Runner holds all dependencies for CLI commands and provides one method
// per action. It is stateless across invocations; each action resolves its
// own configuration and file set.
type Runner struct {
	logger    *log.Logger
	output    io.Writer
	input     io.Reader
	styles    *ui.Styles
	cachePath string
	exit      func(int)
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Logger    *log.Logger
	Output    io.Writer
	Input     io.Reader
	CachePath string
	Exit      func(int)
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Input == nil {
		opts.Input = os.Stdin
	}
	if opts.CachePath == "" {
		opts.CachePath = filepath.Join(os.Getenv("HOME"), ".tagflow", "tokens.db")
	}
	if opts.Exit == nil {
		opts.Exit = os.Exit
	}

	return &Runner{
		logger:    opts.Logger,
		output:    opts.Output,
		input:     opts.Input,
		styles:    ui.DefaultStyles(),
		cachePath: opts.CachePath,
		exit:      opts.Exit,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		autotaggerCommand, audiofeaturesCommand, queryURLCommand,
		songDownloaderCommand, authorizeCommand, renamerCommand, serverCommand,
	} {
		commands = append(commands, fn(r))
	}
	return commands
}

// openCache opens the token cache, creating its directory on first use.
func (r *Runner) openCache() (*platforms.TokenCache, error) {
	if dir := filepath.Dir(r.cachePath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create cache directory: %w", err)
		}
	}
	return platforms.OpenTokenCache(r.cachePath)
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	return r.writePlain(format+"\n", args...)
}
