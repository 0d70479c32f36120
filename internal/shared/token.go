package shared

import (
	"encoding/json"
	"fmt"
	"os"

	"golang.org/x/oauth2"
)

// LoadToken reads an already-issued OAuth2 access token from a JSON file.
//
// The engine never performs a consent flow itself; it only consumes a credential some
// external tool has produced. A missing file maps to [ErrNotAuthenticated] and an
// expired token to [ErrTokenExpired] so callers can abort before touching any file.
func LoadToken(path string) (*oauth2.Token, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: token file %s not found", ErrNotAuthenticated, path)
		}
		return nil, fmt.Errorf("%w: failed to read token file: %v", ErrNotAuthenticated, err)
	}

	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, fmt.Errorf("%w: failed to parse token file: %v", ErrNotAuthenticated, err)
	}

	if token.AccessToken == "" {
		return nil, fmt.Errorf("%w: token file %s has no access token", ErrNotAuthenticated, path)
	}
	if !token.Valid() {
		return nil, fmt.Errorf("%w: token in %s", ErrTokenExpired, path)
	}

	return &token, nil
}
