package cmd

import (
	"fmt"

	"reposnap/pkg/version"

	"github.com/spf13/cobra"
)

var shortVersion bool

// versionCmd prints the build metadata stamped into the binary. The --short
// flag prints the bare version number for scripting.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Display the reposnap version",
	Run: func(cmd *cobra.Command, args []string) {
		v := version.Get()
		if shortVersion {
			fmt.Println(v.Version)
			return
		}
		fmt.Println(v.String())
	},
}

func init() {
	versionCmd.Flags().BoolVarP(&shortVersion, "short", "s", false, "print the version number only")
	RootCmd.AddCommand(versionCmd)
}
