// Package gmail registers and stops Gmail push-notification watches
// through the users.watch and users.stop API calls.
package gmail
