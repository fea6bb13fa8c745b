package version

// Version is the nasctl release, overridden at build time with
// -ldflags "-X github.com/hashicorp-forge/nasrest/internal/version.Version=...".
var Version = "0.1.0-dev"
