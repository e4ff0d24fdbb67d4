package main

import (
	"runtime"

	"github.com/spf13/cobra"
)

// Set at build time with -ldflags "-X main.version=...".
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

type buildInfo struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Built   string `json:"built"`
	Go      string `json:"go"`
	// Platform is GOOS/GOARCH.
	Platform string `json:"platform"`
}

func currentBuild() buildInfo {
	return buildInfo{
		Version:  version,
		Commit:   commit,
		Built:    date,
		Go:       runtime.Version(),
		Platform: runtime.GOOS + "/" + runtime.GOARCH,
	}
}

func init() {
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVersion()
		},
	})
}

func runVersion() error {
	b := currentBuild()
	if jsonOut {
		return printJSON(b)
	}
	printInfo("arenactl %s (%s, %s)\n", b.Version, b.Go, b.Platform)
	printVerbose("Commit: %s\nBuilt:  %s\n", b.Commit, b.Built)
	return nil
}
