package main

import (
	"bufio"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/urfave/cli/v3"
	"golang.org/x/oauth2"

	"tagflow/internal/platforms"
	"tagflow/internal/server"
	"tagflow/internal/shared"
)

const (
	callbackPort = 36914
	// listenerTimeout bounds how long the server path waits for the
	// user to complete the redirect.
	listenerTimeout = 5 * time.Minute
)

// AuthorizeSpotify drives the OAuth flow on one of two paths: an
// interactive prompt for the redirect URL, or a background callback
// listener the calling goroutine blocks on. The token lands in the cache
// and the process exits deliberately afterwards.
func (r *Runner) AuthorizeSpotify(ctx context.Context, cmd *cli.Command) error {
	clientID, clientSecret := credentials(cmd)
	if clientID == "" || clientSecret == "" {
		return fmt.Errorf("%w: client-id and client-secret are required", shared.ErrAuthFailed)
	}

	cache, err := r.openCache()
	if err != nil {
		return err
	}
	defer cache.Close()

	spotify := platforms.NewSpotify(clientID, clientSecret, "")
	state := shared.GenerateState()
	r.writePlain("\nPlease go to the following URL and authorize tagflow:\n%s\n", spotify.AuthorizeURL(state))

	var token *oauth2.Token
	if cmd.Bool("prompt") {
		token, err = r.promptAuth(ctx, spotify)
	} else {
		token, err = r.serverAuth(spotify, state, cmd.Bool("expose"))
	}
	if err != nil {
		return err
	}

	if err := cache.Put(clientID, token); err != nil {
		return err
	}
	r.logger.Info("successfully authorized Spotify")

	// The background listener keeps the process alive; exit deliberately.
	r.exit(0)
	return nil
}

// promptAuth blocks on a single line of console input carrying the
// redirect URL and exchanges its code on the calling goroutine.
func (r *Runner) promptAuth(ctx context.Context, spotify *platforms.Spotify) (*oauth2.Token, error) {
	r.writePlain("\nEnter the URL you were redirected to and press enter: ")
	line, err := bufio.NewReader(r.input).ReadString('\n')
	if err != nil {
		return nil, fmt.Errorf("%w: couldn't read from stdin: %v", shared.ErrAuthFailed, err)
	}
	return spotify.ExchangeRedirect(ctx, line)
}

// serverAuth spawns the callback listener on a background goroutine and
// blocks until it delivers the single flow result or the timeout fires.
// The listener is used exactly once, then torn down.
func (r *Runner) serverAuth(spotify *platforms.Spotify, state string, expose bool) (*oauth2.Token, error) {
	handler := server.NewCallbackHandler(spotify.Config(), state)
	router := server.NewRouter(r.logger)
	router.Handler(handler)

	addr := server.Addr(expose, callbackPort)
	srv := server.New(addr, router)

	serverErrors := make(chan error, 1)
	go func() {
		r.logger.Infof("waiting for the authorization redirect at %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()

	timeout := time.NewTimer(listenerTimeout)
	defer timeout.Stop()

	var result server.AuthResult
	select {
	case result = <-handler.Result():
	case err := <-serverErrors:
		return nil, fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	case <-timeout.C:
		return nil, fmt.Errorf("%w: no redirect received within %v", shared.ErrAuthTimeout, listenerTimeout)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		r.logger.Warnf("error shutting down the callback listener: %v", err)
	}

	if result.Error() != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAuthFailed, result.Error())
	}
	return result.Token, nil
}

// Server hosts the status endpoint and the OAuth callback route in the
// foreground, for driving flows from a browser on another machine.
func (r *Runner) Server(ctx context.Context, cmd *cli.Command) error {
	addr := server.Addr(cmd.Bool("expose"), int(cmd.Int("port")))
	srv := server.New(addr, server.NewRouter(r.logger))

	r.logger.Infof("serving on %s", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}
