package cmd

import (
	"github.com/spf13/cobra"

	"github.com/veldtlabs/sbomstage/common"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show sbomstage version and exit.",
	Run: func(cmd *cobra.Command, args []string) {
		common.Stdout("%s\n", common.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
