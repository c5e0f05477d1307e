package cmd

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/veldtlabs/sbomstage/cloud"
	"github.com/veldtlabs/sbomstage/common"
	"github.com/veldtlabs/sbomstage/pathlib"
	"github.com/veldtlabs/sbomstage/pretty"
	"github.com/veldtlabs/sbomstage/settings"
)

var (
	debugFlag    bool
	traceFlag    bool
	silentFlag   bool
	homeFlag     string
	settingsFlag string
)

var rootCmd = &cobra.Command{
	Use:   "sbomstage",
	Short: "sbomstage generates and publishes SBOMs from CI workflows.",
	Long: `sbomstage is CI glue around the syft SBOM generator.

It provisions syft, scans a directory or container image, names the
resulting document deterministically, and publishes it as a workflow
artifact. On pull requests it can fetch the base branch SBOM for
comparison, and on releases it republishes matching artifacts as
release assets.

All flags can also be given as SBOMSTAGE_* environment variables,
for example SBOMSTAGE_FORMAT or SBOMSTAGE_GITHUB_TOKEN.`,
	SilenceUsage: true,
}

func Execute() {
	defer common.Stopwatch("Command execution").Debug()
	err := rootCmd.Execute()
	if err != nil {
		pretty.Exit(1, "Error: [sbomstage %s] %v", common.Version, err)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "to get debug output where available")
	rootCmd.PersistentFlags().BoolVar(&traceFlag, "trace", false, "to get trace output where available (implies --debug)")
	rootCmd.PersistentFlags().BoolVar(&silentFlag, "silent", false, "be less verbose on output")
	rootCmd.PersistentFlags().StringVar(&homeFlag, "home", "", "override %SBOMSTAGE_HOME% location for this run")
	rootCmd.PersistentFlags().StringVar(&settingsFlag, "settings", "", "install settings.yaml from given file or URL before running")
}

func initConfig() {
	viper.SetEnvPrefix("SBOMSTAGE")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	if len(homeFlag) > 0 {
		common.Product.ForceHome(homeFlag)
	}
	common.DefineVerbosityFlags(debugFlag, traceFlag, silentFlag)
	pretty.Setup()
	if len(settingsFlag) > 0 {
		raw, err := cloud.ReadFile(settingsFlag)
		pretty.Guard(err == nil, 1, "Cannot read settings from %q: %v", settingsFlag, err)
		err = pathlib.WriteFile(settings.SettingsFileLocation(), raw, 0o640)
		pretty.Guard(err == nil, 1, "Cannot install settings to %q: %v", settings.SettingsFileLocation(), err)
	}
}
