package platforms

import (
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/oauth2"
)

func TestTokenCache(t *testing.T) {
	t.Run("round trip on disk", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "tokens.db")
		cache, err := OpenTokenCache(path)
		if err != nil {
			t.Fatalf("OpenTokenCache failed: %v", err)
		}
		defer cache.Close()

		expiry := time.Now().Add(time.Hour).Truncate(time.Second)
		token := &oauth2.Token{
			AccessToken:  "access",
			TokenType:    "Bearer",
			RefreshToken: "refresh",
			Expiry:       expiry,
		}
		if err := cache.Put("client-a", token); err != nil {
			t.Fatalf("Put failed: %v", err)
		}

		got, ok, err := cache.Get("client-a")
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if !ok {
			t.Fatal("expected cache hit")
		}
		if got.AccessToken != "access" || got.RefreshToken != "refresh" {
			t.Errorf("token = %+v", got)
		}
		if !got.Expiry.Equal(expiry) {
			t.Errorf("Expiry = %v, want %v", got.Expiry, expiry)
		}
	})

	t.Run("put replaces existing token", func(t *testing.T) {
		cache, err := OpenTokenCache(":memory:")
		if err != nil {
			t.Fatalf("OpenTokenCache failed: %v", err)
		}
		defer cache.Close()

		if err := cache.Put("client-a", &oauth2.Token{AccessToken: "first"}); err != nil {
			t.Fatal(err)
		}
		if err := cache.Put("client-a", &oauth2.Token{AccessToken: "second"}); err != nil {
			t.Fatal(err)
		}
		got, ok, err := cache.Get("client-a")
		if err != nil || !ok {
			t.Fatalf("Get = %v, ok=%v", err, ok)
		}
		if got.AccessToken != "second" {
			t.Errorf("AccessToken = %q, want second", got.AccessToken)
		}
	})

	t.Run("miss returns ok=false", func(t *testing.T) {
		cache, err := OpenTokenCache(":memory:")
		if err != nil {
			t.Fatalf("OpenTokenCache failed: %v", err)
		}
		defer cache.Close()

		_, ok, err := cache.Get("unknown")
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if ok {
			t.Error("expected cache miss")
		}
	})
}
