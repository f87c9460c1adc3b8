package sheets

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/sheets/v4"
)

// authTimeout bounds how long the interactive flow waits for the browser.
const authTimeout = 5 * time.Minute

// callbackAddr is where Google redirects after consent. Must match the
// redirect URI registered for the OAuth client.
const callbackAddr = "localhost:8080"

// OAuth2Config identifies the OAuth client and where to persist tokens.
type OAuth2Config struct {
	ClientID     string
	ClientSecret string
	TokenFile    string
}

func (c OAuth2Config) oauthConfig() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		Endpoint:     google.Endpoint,
		RedirectURL:  "http://" + callbackAddr + "/callback",
		Scopes:       []string{sheets.SpreadsheetsScope},
	}
}

// AuthenticateOAuth2Interactive runs the browser consent flow: it serves a
// one-shot localhost callback, prints the consent URL, and exchanges the
// returned code for a token. Offline access is requested so the token
// carries a refresh token.
func AuthenticateOAuth2Interactive(ctx context.Context, config OAuth2Config) (*oauth2.Token, error) {
	oauthConfig := config.oauthConfig()
	state := uuid.NewString()

	type callbackResult struct {
		code string
		err  error
	}
	results := make(chan callbackResult, 1)

	mux := http.NewServeMux()
	mux.HandleFunc("/callback", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		switch {
		case q.Get("state") != state:
			results <- callbackResult{err: fmt.Errorf("state mismatch in OAuth callback")}
			writeCallbackPage(w, "Authentication failed", "Unexpected response. Please try again.")
		case q.Get("code") == "":
			results <- callbackResult{err: fmt.Errorf("no authorization code received")}
			writeCallbackPage(w, "Authentication failed", "No authorization code received. Please try again.")
		default:
			results <- callbackResult{code: q.Get("code")}
			writeCallbackPage(w, "Authentication successful", "You can close this window and return to the terminal.")
		}
	})

	server := &http.Server{Addr: callbackAddr, Handler: mux}
	go func() {
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			results <- callbackResult{err: fmt.Errorf("failed to start callback server: %w", err)}
		}
	}()
	defer func() {
		if err := server.Shutdown(ctx); err != nil {
			slog.Warn("Error shutting down callback server", "error", err)
		}
	}()

	authURL := oauthConfig.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
	slog.Info("Google Sheets authentication required")
	slog.Info("Please visit this URL to authenticate", "url", authURL)

	var code string
	select {
	case result := <-results:
		if result.err != nil {
			return nil, result.err
		}
		code = result.code
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(authTimeout):
		return nil, fmt.Errorf("authentication timeout - no response received within %s", authTimeout)
	}

	token, err := oauthConfig.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange authorization code: %w", err)
	}

	persistToken(config.TokenFile, token)
	return token, nil
}

func writeCallbackPage(w http.ResponseWriter, title, detail string) {
	_, _ = fmt.Fprintf(w, `<html><body>
		<h1>%s</h1>
		<p>%s</p>
		<script>window.setTimeout(function(){window.close();}, 3000);</script>
	</body></html>`, title, detail)
}

// LoadToken reads a previously saved token.
func LoadToken(tokenFile string) (*oauth2.Token, error) {
	f, err := os.Open(tokenFile) // #nosec G304
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	token := &oauth2.Token{}
	err = json.NewDecoder(f).Decode(token)
	return token, err
}

// persistToken writes the token to file. Failures are logged, not fatal:
// the in-memory token still works for this run.
func persistToken(path string, token *oauth2.Token) {
	if path == "" {
		return
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		slog.Warn("Failed to create token directory", "error", err)
		return
	}
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600) // #nosec G304
	if err != nil {
		slog.Warn("Failed to create token file", "error", err, "file", path)
		return
	}
	defer func() { _ = f.Close() }()
	if err := json.NewEncoder(f).Encode(token); err != nil {
		slog.Warn("Failed to save token", "error", err, "file", path)
		return
	}
	slog.Info("Token saved", "file", path)
}

// RefreshTokenIfNeeded exchanges an expired token for a fresh one and
// re-persists it.
func RefreshTokenIfNeeded(ctx context.Context, config OAuth2Config, token *oauth2.Token) (*oauth2.Token, error) {
	if token.Valid() {
		return token, nil
	}

	slog.Info("Token expired, refreshing...")
	newToken, err := config.oauthConfig().TokenSource(ctx, token).Token()
	if err != nil {
		return nil, fmt.Errorf("failed to refresh token: %w", err)
	}

	persistToken(config.TokenFile, newToken)
	return newToken, nil
}

// GetOrCreateToken returns a saved (refreshed if stale) token, falling back
// to the interactive flow when none exists.
func GetOrCreateToken(ctx context.Context, config OAuth2Config) (*oauth2.Token, error) {
	if config.TokenFile != "" {
		if token, err := LoadToken(config.TokenFile); err == nil {
			return RefreshTokenIfNeeded(ctx, config, token)
		}
		slog.Info("No existing token found, starting OAuth2 flow")
	}

	return AuthenticateOAuth2Interactive(ctx, config)
}
