package cmd

import (
	"github.com/spf13/cobra"

	"github.com/veldtlabs/sbomstage/common"
	"github.com/veldtlabs/sbomstage/operations"
	"github.com/veldtlabs/sbomstage/pretty"
)

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Fetch the base branch SBOM of a pull request for comparison.",
	Long: `Fetch the base branch SBOM of a pull request for comparison.

Looks up the latest completed workflow run on the pull request base
branch and downloads the artifact with the same name this run would
produce. A missing base run or artifact is reported but is not an
error, so first runs on a fresh branch stay green.`,
	PreRun: bindOptions,
	Run: func(cmd *cobra.Command, args []string) {
		if common.DebugFlag() {
			defer common.Stopwatch("SBOM comparison lasted").Report()
		}
		err := operations.ComparePullRequest(gatherRunFlags())
		pretty.Guard(err == nil, 2, "SBOM comparison failed: %v", err)
		pretty.Ok()
	},
}

func init() {
	rootCmd.AddCommand(compareCmd)
	defineRunOptions(compareCmd)
}
