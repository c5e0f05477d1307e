package cmd

import (
	"github.com/spf13/cobra"

	"github.com/veldtlabs/sbomstage/common"
	"github.com/veldtlabs/sbomstage/operations"
	"github.com/veldtlabs/sbomstage/pretty"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Generate an SBOM and publish it as a workflow artifact.",
	Long: `Generate an SBOM and publish it as a workflow artifact.

This is the main flow. It provisions syft when needed, scans the given
--path or --image, uploads the result under a deterministic artifact
name, and then runs the optional pull request comparison and release
asset reconciliation.

Examples:
  sbomstage run --path .
  sbomstage run --image docker.io/library/alpine --format spdx-json
  sbomstage run --path ./dist --artifact-name my-component.spdx.json`,
	PreRun: bindOptions,
	Run: func(cmd *cobra.Command, args []string) {
		if common.DebugFlag() {
			defer common.Stopwatch("SBOM run lasted").Report()
		}
		err := operations.GenerateAndPublish(gatherRunFlags())
		pretty.Guard(err == nil, 2, "SBOM run failed: %v", err)
		pretty.Ok()
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	defineRunOptions(runCmd)
}
