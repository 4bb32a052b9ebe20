package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/msto63/alarmview/pkg/core/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Zeigt die Version an",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "alarmview v%s\n", version.Application)
		if version.Commit != "unknown" {
			fmt.Fprintf(out, "Commit: %s (%s)\n", version.Commit, version.BuildDate)
		}
		fmt.Fprintf(out, "Go: %s\n", runtime.Version())
		fmt.Fprintf(out, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)

		if verbose {
			fmt.Fprintln(out, "\nKomponenten:")
			for _, name := range version.Components() {
				fmt.Fprintf(out, "  %-10s %s\n", name, version.ComponentVersion(name))
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
