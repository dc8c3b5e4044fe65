// Package file provides file-based lease state persistence.
//
// Each subject gets its own JSON state file next to its token file:
// <dir>/<subject>.state.json. One small file per subject keeps writes
// independent and makes the state trivially inspectable.
package file
