// package server hosts the OAuth callback listener and the standalone
// server action. The callback handler is used exactly once per process:
// it receives a single redirect, delivers the result over a one-shot
// channel, and the listener is torn down.
package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"golang.org/x/oauth2"
)

// AuthResult is the single message the callback listener hands back to the
// blocked foreground flow.
type AuthResult struct {
	Token *oauth2.Token
	err   error
}

func (r AuthResult) Error() error {
	return r.err
}

// CallbackHandler handles the OAuth2 redirect for the authorization code
// flow. The first request wins; later requests are rejected.
type CallbackHandler struct {
	config      *oauth2.Config
	state       string
	resultChan  chan AuthResult
	once        sync.Once
	callbackHit bool
	mu          sync.Mutex
}

// NewCallbackHandler creates a callback handler bound to an OAuth2 config
// and the state token generated for this authorization attempt.
func NewCallbackHandler(config *oauth2.Config, state string) *CallbackHandler {
	return &CallbackHandler{
		config:     config,
		state:      state,
		resultChan: make(chan AuthResult, 1),
	}
}

// Routes returns the HTTP routes this handler serves.
func (h *CallbackHandler) Routes() []string {
	return []string{"/callback"}
}

// ServeHTTP validates the state parameter, exchanges the authorization code
// for a token and delivers the result through the one-shot channel.
func (h *CallbackHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	if h.callbackHit {
		h.mu.Unlock()
		http.Error(w, "Callback already processed", http.StatusBadRequest)
		return
	}
	h.callbackHit = true
	h.mu.Unlock()

	if state := r.URL.Query().Get("state"); state != h.state {
		h.send(AuthResult{err: fmt.Errorf("invalid state parameter")})
		http.Error(w, "Invalid state parameter", http.StatusBadRequest)
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		errParam := r.URL.Query().Get("error")
		h.send(AuthResult{err: fmt.Errorf("authorization denied: %s", errParam)})
		http.Error(w, "Authorization failed", http.StatusBadRequest)
		return
	}

	token, err := h.config.Exchange(context.Background(), code)
	if err != nil {
		h.send(AuthResult{err: fmt.Errorf("token exchange failed: %w", err)})
		http.Error(w, "Token exchange failed", http.StatusInternalServerError)
		return
	}

	h.send(AuthResult{Token: token})

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "Authorization successful. You can close this window and return to the terminal.")
}

// send delivers the result exactly once and closes the channel.
func (h *CallbackHandler) send(result AuthResult) {
	h.once.Do(func() {
		h.resultChan <- result
		close(h.resultChan)
	})
}

// Result returns the channel carrying the single flow outcome.
func (h *CallbackHandler) Result() <-chan AuthResult {
	return h.resultChan
}
