package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/veldtlabs/sbomstage/common"
	"github.com/veldtlabs/sbomstage/pretty"
	"github.com/veldtlabs/sbomstage/provision"
	"github.com/veldtlabs/sbomstage/settings"
)

var downloadSyftCmd = &cobra.Command{
	Use:   "download-syft",
	Short: "Provision the syft binary into the local cache.",
	Long: `Provision the syft binary into the local cache.

Downloads the requested syft release for the current platform and
places the binary under the sbomstage home. Subsequent runs of the
same version reuse the cached binary. With SBOMSTAGE_SYFT_PATH set,
that binary is used instead and nothing is downloaded.`,
	PreRun: bindOptions,
	Run: func(cmd *cobra.Command, args []string) {
		if common.DebugFlag() {
			defer common.Stopwatch("Syft provisioning lasted").Report()
		}
		version := viper.GetString("syft-version")
		if len(version) == 0 {
			version = settings.Global.SyftVersion()
		}
		path, err := provision.Syft(version)
		pretty.Guard(err == nil, 2, "Provisioning syft %s failed: %v", version, err)
		common.Log("Syft %s available at %q.", version, path)
		pretty.Ok()
	},
}

func init() {
	rootCmd.AddCommand(downloadSyftCmd)
	downloadSyftCmd.Flags().String("syft-version", "", "syft version to provision (defaults from settings)")
}
