// Package auth reads externally-provisioned OAuth credentials.
//
// Tokens are authorised-user JSON files named <subject>.json inside the
// tokens directory, written by whatever consent flow provisioned the
// account. gwatch never runs the consent flow itself; it only loads the
// files and refreshes access tokens through the refresh token.
package auth
