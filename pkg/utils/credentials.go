package utils

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"slices"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// ScopeSheets grants read/write access to spreadsheets
const ScopeSheets = "https://www.googleapis.com/auth/spreadsheets"

// TokenInfoURL is Google's token introspection endpoint
var TokenInfoURL = "https://oauth2.googleapis.com/tokeninfo"

// LoadServiceAccountCredentials reads a service account key file and returns
// credentials for the given scopes
func LoadServiceAccountCredentials(ctx context.Context, path string, scopes ...string) (*google.Credentials, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials file: %w", err)
	}

	creds, err := google.CredentialsFromJSON(ctx, data, scopes...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse credentials file: %w", err)
	}

	return creds, nil
}

// ValidateTokenScopes checks that the token carries every required scope by
// calling the tokeninfo endpoint. Returns an error listing the missing scopes.
func ValidateTokenScopes(ctx context.Context, client *http.Client, token *oauth2.Token, required ...string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, TokenInfoURL+"?access_token="+token.AccessToken, nil)
	if err != nil {
		return fmt.Errorf("failed to create tokeninfo request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call tokeninfo endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("tokeninfo request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var tokenInfo struct {
		Scope string `json:"scope"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tokenInfo); err != nil {
		return fmt.Errorf("failed to decode tokeninfo response: %w", err)
	}

	granted := strings.Fields(tokenInfo.Scope)
	var missing []string
	for _, scope := range required {
		if !slices.Contains(granted, scope) {
			missing = append(missing, scope)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("token is missing required scopes: %v", missing)
	}

	return nil
}
