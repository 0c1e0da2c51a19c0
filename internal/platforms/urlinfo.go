package platforms

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// URLInfo describes a platform URL without downloading anything from it.
type URLInfo struct {
	Platform    string
	ContentType string
	Title       string
	Description string
}

// ClassifyURL identifies the platform and content type a URL points at.
func ClassifyURL(raw string) (platform, contentType string, err error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", "", fmt.Errorf("invalid URL: %w", err)
	}
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")

	switch {
	case host == "youtube.com" || host == "music.youtube.com" || host == "youtu.be":
		platform = "YouTube"
		contentType = youtubeContentType(u)
	case host == "open.spotify.com":
		platform = "Spotify"
		contentType = firstPathSegment(u)
	case host == "soundcloud.com":
		platform = "SoundCloud"
		if strings.Contains(u.Path, "/sets/") {
			contentType = "playlist"
		} else {
			contentType = "track"
		}
	default:
		return "", "", fmt.Errorf("unsupported platform: %s", host)
	}
	return platform, contentType, nil
}

func youtubeContentType(u *url.URL) string {
	switch {
	case u.Query().Get("list") != "":
		return "playlist"
	case strings.HasPrefix(u.Path, "/channel/") || strings.HasPrefix(u.Path, "/@"):
		return "channel"
	default:
		return "video"
	}
}

func firstPathSegment(u *url.URL) string {
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) == 0 || parts[0] == "" {
		return "unknown"
	}
	return parts[0]
}

type oembedResponse struct {
	Title        string `json:"title"`
	AuthorName   string `json:"author_name"`
	ProviderName string `json:"provider_name"`
}

var oembedEndpoints = map[string]string{
	"YouTube":    "https://www.youtube.com/oembed",
	"Spotify":    "https://open.spotify.com/oembed",
	"SoundCloud": "https://soundcloud.com/oembed",
}

// QueryURL classifies a URL and fetches its title via the platform's oEmbed
// endpoint. client defaults to [http.DefaultClient].
func QueryURL(ctx context.Context, client *http.Client, raw string) (*URLInfo, error) {
	platform, contentType, err := ClassifyURL(raw)
	if err != nil {
		return nil, err
	}
	if client == nil {
		client = http.DefaultClient
	}

	info := &URLInfo{Platform: platform, ContentType: contentType}

	endpoint := fmt.Sprintf("%s?url=%s&format=json", oembedEndpoints[platform], url.QueryEscape(raw))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("oembed request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("oembed returned status %d", resp.StatusCode)
	}
	var oembed oembedResponse
	if err := json.NewDecoder(resp.Body).Decode(&oembed); err != nil {
		return nil, fmt.Errorf("failed to decode oembed response: %w", err)
	}
	info.Title = oembed.Title
	if oembed.AuthorName != "" {
		info.Description = fmt.Sprintf("by %s", oembed.AuthorName)
	}
	return info, nil
}
