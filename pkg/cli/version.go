package cli

import (
	"runtime"

	"github.com/spf13/cobra"
)

// VersionInfo is the JSON shape of `hookd version --json`.
type VersionInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildDate string `json:"buildDate"`
	GoVersion string `json:"goVersion"`
	Platform  string `json:"platform"`
}

func (a *app) newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			info := VersionInfo{
				Version:   Version,
				Commit:    Commit,
				BuildDate: BuildDate,
				GoVersion: runtime.Version(),
				Platform:  runtime.GOOS + "/" + runtime.GOARCH,
			}
			return a.printResult(info, func() {
				a.printf("hookd %s (commit %s, built %s)\n", info.Version, info.Commit, info.BuildDate)
				a.printf("%s %s\n", info.GoVersion, info.Platform)
			})
		},
	}
}
