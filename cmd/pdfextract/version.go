package main

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// Set with -ldflags "-X main.version=... -X main.commit=...".
var (
	version = "dev"
	commit  = "none"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		goVersion := "unknown"
		if info, ok := debug.ReadBuildInfo(); ok {
			goVersion = info.GoVersion
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "pdfextract %s\n", version)
		fmt.Fprintf(out, "  Go:     %s\n", goVersion)
		fmt.Fprintf(out, "  Commit: %s\n", commit)
	},
}
