package app

import "strings"

// Build metadata injected by the release build:
//
//	go build -ldflags "-X github.com/heartmarshall/dicionario-backend/internal/app.Version=v1.4.0 \
//	  -X github.com/heartmarshall/dicionario-backend/internal/app.Commit=$(git rev-parse --short HEAD)"
var (
	Version   = "dev"
	Commit    = ""
	BuildTime = ""
)

// BuildVersion renders the metadata as "v1.4.0+abc123 (2026-01-02T15:04:05Z)".
// Parts that were not injected are left out.
func BuildVersion() string {
	var b strings.Builder
	b.WriteString(Version)
	if Commit != "" {
		b.WriteString("+" + Commit)
	}
	if BuildTime != "" {
		b.WriteString(" (" + BuildTime + ")")
	}
	return b.String()
}
