package cmd

import (
	"github.com/spf13/cobra"

	"github.com/veldtlabs/sbomstage/common"
	"github.com/veldtlabs/sbomstage/operations"
	"github.com/veldtlabs/sbomstage/pretty"
)

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Republish SBOM workflow artifacts as release assets.",
	Long: `Republish SBOM workflow artifacts as release assets.

Active only on release events and on tag pushes matching the
configured ref prefix. Matching artifacts from the current run (or,
on release events, from recent completed runs of the release target
branch) replace any release asset carrying the same file name, so
re-running a release workflow never duplicates assets.`,
	PreRun: bindOptions,
	Run: func(cmd *cobra.Command, args []string) {
		if common.DebugFlag() {
			defer common.Stopwatch("Release reconciliation lasted").Report()
		}
		err := operations.ReconcileReleaseAssets(gatherRunFlags())
		pretty.Guard(err == nil, 2, "Release reconciliation failed: %v", err)
		pretty.Ok()
	},
}

func init() {
	rootCmd.AddCommand(reconcileCmd)
	defineRunOptions(reconcileCmd)
}
