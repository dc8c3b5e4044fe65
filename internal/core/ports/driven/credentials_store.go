package driven

import (
	"context"

	"golang.org/x/oauth2"
)

// CredentialsStore provides OAuth credentials for subjects and discovers
// which subjects exist at all.
//
// Token acquisition (the browser consent flow) is out of scope; tokens
// are provisioned externally and this store only reads them.
type CredentialsStore interface {
	// Subjects returns the account identifiers that have credentials.
	Subjects(ctx context.Context) ([]string, error)

	// TokenSource returns an oauth2.TokenSource for a subject.
	// Returns domain.ErrNoCredentials (wrapped) if the subject has no
	// usable token.
	TokenSource(ctx context.Context, subject string) (oauth2.TokenSource, error)
}
