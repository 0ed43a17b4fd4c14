// Package version exposes build information set with -ldflags at build time, e.g.
//
//	go build -ldflags "-X github.com/information-sharing-networks/uploads-apicheck/internal/version.version=v1.2.0" ./cmd/apicheck
package version

var (
	version   = "dev"
	buildDate = "unknown"
	gitCommit = "unknown"
)

type Info struct {
	Version   string
	BuildDate string
	GitCommit string
}

func Get() Info {
	return Info{
		Version:   version,
		BuildDate: buildDate,
		GitCommit: gitCommit,
	}
}
