// Package googleauth handles OAuth credentials for the Sheets and Drive
// APIs: the installed-app login flow and the cached token it produces.
package googleauth

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
)

// Scopes cover spreadsheet editing plus the Drive access needed to find and
// list documents.
var Scopes = []string{
	"https://www.googleapis.com/auth/spreadsheets",
	"https://www.googleapis.com/auth/drive.file",
	"https://www.googleapis.com/auth/drive.metadata.readonly",
}

// Default credential file locations, relative to the working directory.
const (
	DefaultSecretPath = "client_secret.json"
	DefaultTokenPath  = "token.json"
)

// ClientOption builds an authenticated API client option from the cached
// token. The token refreshes itself via the embedded refresh token; a missing
// or unreadable token means Login has to run first.
func ClientOption(ctx context.Context, secretPath, tokenPath string) (option.ClientOption, error) {
	cfg, err := loadConfig(secretPath)
	if err != nil {
		return nil, err
	}
	tok, err := loadToken(tokenPath)
	if err != nil {
		return nil, fmt.Errorf("ClientOption: no cached token (run the login command first): %w", err)
	}
	return option.WithTokenSource(cfg.TokenSource(ctx, tok)), nil
}

// Login runs the installed-app OAuth flow: it prints the authorization URL to
// out, reads the verification code from in, exchanges it, and caches the
// token at tokenPath.
func Login(ctx context.Context, secretPath, tokenPath string, in io.Reader, out io.Writer) error {
	cfg, err := loadConfig(secretPath)
	if err != nil {
		return err
	}

	authURL := cfg.AuthCodeURL("state-token", oauth2.AccessTypeOffline)
	fmt.Fprintf(out, "Open the following link in your browser, then paste the authorization code:\n%s\n\nCode: ", authURL)

	var code string
	if _, err := fmt.Fscan(bufio.NewReader(in), &code); err != nil {
		return fmt.Errorf("Login: reading authorization code: %w", err)
	}

	tok, err := cfg.Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("Login: exchanging authorization code: %w", err)
	}

	if err := saveToken(tokenPath, tok); err != nil {
		return err
	}
	fmt.Fprintf(out, "Saved credentials to %s\n", tokenPath)
	return nil
}

func loadConfig(secretPath string) (*oauth2.Config, error) {
	data, err := os.ReadFile(secretPath)
	if err != nil {
		return nil, fmt.Errorf("googleauth: reading client secret (download OAuth client credentials from the Google Cloud Console): %w", err)
	}
	cfg, err := google.ConfigFromJSON(data, Scopes...)
	if err != nil {
		return nil, fmt.Errorf("googleauth: parsing client secret: %w", err)
	}
	return cfg, nil
}

func loadToken(path string) (*oauth2.Token, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	tok := &oauth2.Token{}
	if err := json.NewDecoder(f).Decode(tok); err != nil {
		return nil, fmt.Errorf("parsing token file %s: %w", path, err)
	}
	return tok, nil
}

func saveToken(path string, tok *oauth2.Token) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("googleauth: saving token: %w", err)
	}
	defer f.Close()

	if err := json.NewEncoder(f).Encode(tok); err != nil {
		return fmt.Errorf("googleauth: encoding token: %w", err)
	}
	return nil
}
