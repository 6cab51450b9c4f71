// internal/version/version.go
package version

// Version is overridden at build time with -ldflags "-X metaxsfr/internal/version.Version=...".
var Version = "0.1.1"
