package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/custodia-labs/gwatch/internal/core/domain"
	"github.com/custodia-labs/gwatch/internal/core/ports/driven"
	"github.com/custodia-labs/gwatch/internal/logger"
)

// stateSuffix marks lease state files, which live in the same directory
// as token files and must not be mistaken for credentials.
const stateSuffix = ".state.json"

// googleTokenURL is the default token endpoint when the token file
// omits token_uri.
const googleTokenURL = "https://oauth2.googleapis.com/token"

// Ensure TokenStore implements the interface.
var _ driven.CredentialsStore = (*TokenStore)(nil)

// TokenStore is a file-based implementation of driven.CredentialsStore.
// It discovers subjects from token files in a directory and builds
// refreshing token sources from them.
type TokenStore struct {
	dir string

	// subjects, when non-empty, is an explicit allow-list that replaces
	// directory discovery.
	subjects []string
}

// NewTokenStore creates a token store for dir. If subjects is non-empty
// it becomes the fixed subject list; otherwise subjects are discovered
// by scanning the directory on every call.
func NewTokenStore(dir string, subjects []string) *TokenStore {
	return &TokenStore{dir: dir, subjects: subjects}
}

// Subjects returns the account identifiers that have credentials.
// Without an explicit list, any <email>.json file counts; lease state
// files and non-email names are ignored.
func (s *TokenStore) Subjects(_ context.Context) ([]string, error) {
	if len(s.subjects) > 0 {
		return s.subjects, nil
	}

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading tokens directory: %w", err)
	}

	var subjects []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") || strings.HasSuffix(name, stateSuffix) {
			continue
		}
		subject := strings.TrimSuffix(name, ".json")
		if !strings.Contains(subject, "@") {
			logger.Debug("ignoring non-account token file %s", name)
			continue
		}
		subjects = append(subjects, subject)
	}

	return subjects, nil
}

// tokenFile is the authorised-user JSON format written by Google OAuth
// consent flows. Both "token" (google-auth) and "access_token" (oauth2)
// spellings of the access token are accepted.
type tokenFile struct {
	Token        string    `json:"token"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	TokenURI     string    `json:"token_uri"`
	ClientID     string    `json:"client_id"`
	ClientSecret string    `json:"client_secret"`
	Expiry       time.Time `json:"expiry"`
}

// TokenSource returns a refreshing oauth2.TokenSource for a subject.
func (s *TokenStore) TokenSource(ctx context.Context, subject string) (oauth2.TokenSource, error) {
	path := filepath.Join(s.dir, subject+".json")

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", domain.ErrNoCredentials, subject)
		}
		return nil, fmt.Errorf("reading token file for %s: %w", subject, err)
	}

	var tf tokenFile
	if err := json.Unmarshal(data, &tf); err != nil {
		return nil, fmt.Errorf("%w: %s: parsing token file: %v", domain.ErrNoCredentials, subject, err)
	}

	access := tf.Token
	if access == "" {
		access = tf.AccessToken
	}
	if access == "" && tf.RefreshToken == "" {
		return nil, fmt.Errorf("%w: %s: token file has no usable token", domain.ErrNoCredentials, subject)
	}

	token := &oauth2.Token{
		AccessToken:  access,
		RefreshToken: tf.RefreshToken,
		TokenType:    "Bearer",
		Expiry:       tf.Expiry,
	}

	// Without a refresh token the static token is all there is.
	if tf.RefreshToken == "" {
		return oauth2.StaticTokenSource(token), nil
	}

	tokenURL := tf.TokenURI
	if tokenURL == "" {
		tokenURL = googleTokenURL
	}

	cfg := &oauth2.Config{
		ClientID:     tf.ClientID,
		ClientSecret: tf.ClientSecret,
		Endpoint:     oauth2.Endpoint{TokenURL: tokenURL},
	}
	return cfg.TokenSource(ctx, token), nil
}

// Dir returns the tokens directory path.
func (s *TokenStore) Dir() string {
	return s.dir
}
