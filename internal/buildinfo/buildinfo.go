// Package buildinfo holds version information injected at build time via ldflags.
package buildinfo

import "runtime"

var (
	Version    = "dev"
	CommitHash = "unknown"
	BuildDate  = "unknown"
)

// UserAgent identifies this client to the daemon.
func UserAgent() string {
	return "seadrive-tray/" + Version
}

// Field is one labelled line of version output.
type Field struct {
	Label string
	Value string
}

// Details lists the build metadata shown by the version commands.
func Details() []Field {
	return []Field{
		{"Commit", CommitHash},
		{"Built", BuildDate},
		{"OS/Arch", runtime.GOOS + "/" + runtime.GOARCH},
		{"Go", runtime.Version()},
	}
}
