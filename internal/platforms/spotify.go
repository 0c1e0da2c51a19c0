// package platforms contains the thin clients for the external music
// platforms a run consults: Spotify authorization and audio features, and
// URL classification for the downloader flows.
package platforms

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"tagflow/internal/shared"
)

const (
	spotifyAuthURL  = "https://accounts.spotify.com/authorize"
	spotifyTokenURL = "https://accounts.spotify.com/api/token"
	spotifyBaseURL  = "https://api.spotify.com/v1"

	// DefaultRedirectURL is where the callback listener receives the
	// authorization redirect.
	DefaultRedirectURL = "http://127.0.0.1:36914/callback"
)

// Spotify wraps the OAuth2 configuration and an authenticated HTTP client
// for the Spotify Web API.
type Spotify struct {
	config *oauth2.Config
	client *http.Client
}

// NewSpotify creates a Spotify client for the given application credentials.
func NewSpotify(clientID, clientSecret, redirectURL string) *Spotify {
	if redirectURL == "" {
		redirectURL = DefaultRedirectURL
	}
	return &Spotify{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{"user-read-private"},
			Endpoint: oauth2.Endpoint{
				AuthURL:  spotifyAuthURL,
				TokenURL: spotifyTokenURL,
			},
		},
		client: http.DefaultClient,
	}
}

// Config exposes the underlying OAuth2 configuration for the callback server.
func (s *Spotify) Config() *oauth2.Config {
	return s.config
}

// AuthorizeURL returns the URL the user must visit to authorize the app.
func (s *Spotify) AuthorizeURL(state string) string {
	return s.config.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

// Exchange trades an authorization code for a token.
func (s *Spotify) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	token, err := s.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: token exchange: %v", shared.ErrAuthFailed, err)
	}
	return token, nil
}

// ExchangeRedirect extracts the authorization code from the redirect URL the
// user pasted in and exchanges it. A bare code is accepted as well.
func (s *Spotify) ExchangeRedirect(ctx context.Context, raw string) (*oauth2.Token, error) {
	code := strings.TrimSpace(raw)
	if u, err := url.Parse(code); err == nil && u.Query().Get("code") != "" {
		code = u.Query().Get("code")
	}
	if code == "" {
		return nil, fmt.Errorf("%w: redirect URL carries no authorization code", shared.ErrAuthFailed)
	}
	return s.Exchange(ctx, code)
}

// Authenticate installs a token, giving the client authenticated API access.
func (s *Spotify) Authenticate(ctx context.Context, token *oauth2.Token) {
	s.client = s.config.Client(ctx, token)
}

// TryCachedToken builds an authenticated Spotify client from a previously
// cached token. It fails when no usable token is cached; the caller should
// point the user at the authorize-spotify action.
func TryCachedToken(ctx context.Context, cache *TokenCache, clientID, clientSecret string) (*Spotify, error) {
	token, ok, err := cache.Get(clientID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: no cached token, run authorize-spotify first", shared.ErrAuthFailed)
	}
	if token.Expiry.Before(time.Now()) && token.RefreshToken == "" {
		return nil, fmt.Errorf("%w: cached token expired, run authorize-spotify again", shared.ErrAuthFailed)
	}
	s := NewSpotify(clientID, clientSecret, "")
	s.Authenticate(ctx, token)
	return s, nil
}

// TrackFeatures is the audio analysis Spotify exposes per track.
type TrackFeatures struct {
	ID           string  `json:"id"`
	Danceability float64 `json:"danceability"`
	Energy       float64 `json:"energy"`
	Valence      float64 `json:"valence"`
	Tempo        float64 `json:"tempo"`
	Key          int     `json:"key"`
}

// AudioFeatures fetches the audio features for one track ID.
func (s *Spotify) AudioFeatures(ctx context.Context, trackID string) (*TrackFeatures, error) {
	var features TrackFeatures
	endpoint := fmt.Sprintf("%s/audio-features/%s", spotifyBaseURL, trackID)
	if err := s.getJSON(ctx, endpoint, &features); err != nil {
		return nil, err
	}
	return &features, nil
}

type searchResponse struct {
	Tracks struct {
		Items []struct {
			ID string `json:"id"`
		} `json:"items"`
	} `json:"tracks"`
}

// SearchTrack looks up a track ID by title and artist. Returns an empty ID
// when nothing matches.
func (s *Spotify) SearchTrack(ctx context.Context, title, artist string) (string, error) {
	q := url.Values{}
	q.Set("q", fmt.Sprintf("track:%s artist:%s", title, artist))
	q.Set("type", "track")
	q.Set("limit", "1")

	var resp searchResponse
	endpoint := fmt.Sprintf("%s/search?%s", spotifyBaseURL, q.Encode())
	if err := s.getJSON(ctx, endpoint, &resp); err != nil {
		return "", err
	}
	if len(resp.Tracks.Items) == 0 {
		return "", nil
	}
	return resp.Tracks.Items[0].ID, nil
}

func (s *Spotify) getJSON(ctx context.Context, endpoint string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("spotify API returned status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
