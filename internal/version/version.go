// Package version holds the build version, overridable with
// -ldflags "-X seqalign/internal/version.Version=...".
package version

var Version = "dev"
