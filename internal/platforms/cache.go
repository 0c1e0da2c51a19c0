package platforms

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"golang.org/x/oauth2"
)

// TokenCache persists OAuth tokens in a SQLite database keyed by client ID.
// It is owned by the authorization flow; other components never hold a
// reference to stored credentials.
type TokenCache struct {
	db *sql.DB
}

// OpenTokenCache opens (and initializes if needed) the token cache at path.
// The path can be ":memory:" for an in-memory cache.
func OpenTokenCache(path string) (*TokenCache, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open token cache: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping token cache: %w", err)
	}

	schema := `CREATE TABLE IF NOT EXISTS tokens (
		client_id TEXT PRIMARY KEY,
		access_token TEXT NOT NULL,
		token_type TEXT NOT NULL DEFAULT 'Bearer',
		refresh_token TEXT,
		expiry INTEGER NOT NULL
	)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize token cache: %w", err)
	}
	return &TokenCache{db: db}, nil
}

// Put stores or replaces the token for clientID.
func (c *TokenCache) Put(clientID string, token *oauth2.Token) error {
	query := `INSERT INTO tokens (client_id, access_token, token_type, refresh_token, expiry)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(client_id) DO UPDATE SET
			access_token = excluded.access_token,
			token_type = excluded.token_type,
			refresh_token = excluded.refresh_token,
			expiry = excluded.expiry`
	_, err := c.db.Exec(query, clientID, token.AccessToken, token.TokenType, token.RefreshToken, token.Expiry.Unix())
	if err != nil {
		return fmt.Errorf("failed to store token: %w", err)
	}
	return nil
}

// Get returns the cached token for clientID, with ok=false on a miss.
func (c *TokenCache) Get(clientID string) (*oauth2.Token, bool, error) {
	query := `SELECT access_token, token_type, refresh_token, expiry FROM tokens WHERE client_id = ?`
	row := c.db.QueryRow(query, clientID)

	var token oauth2.Token
	var refresh sql.NullString
	var expiry int64
	if err := row.Scan(&token.AccessToken, &token.TokenType, &refresh, &expiry); err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read token: %w", err)
	}
	token.RefreshToken = refresh.String
	token.Expiry = time.Unix(expiry, 0)
	return &token, true, nil
}

// Close releases the underlying database handle.
func (c *TokenCache) Close() error {
	return c.db.Close()
}
