package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/veldtlabs/sbomstage/operations"
	"github.com/veldtlabs/sbomstage/syft"
)

// defineRunOptions attaches the shared scan/publish option surface to
// a command. All of these resolve through viper, so each option can
// also arrive as a SBOMSTAGE_* environment variable.
func defineRunOptions(command *cobra.Command) {
	flags := command.Flags()
	flags.String("path", "", "directory to scan")
	flags.String("image", "", "container image to scan")
	flags.String("format", string(syft.DefaultFormat), "SBOM output format passed to syft")
	flags.String("artifact-name", "", "explicit artifact name (derived from context when empty)")
	flags.String("output-file", "", "also write the SBOM to this local file")
	flags.String("registry-username", "", "username for authenticated registry pulls")
	flags.String("registry-password", "", "password or token for authenticated registry pulls")
	flags.Bool("upload-artifact", true, "upload the SBOM as a workflow artifact")
	flags.Bool("upload-release-assets", true, "reconcile SBOM artifacts to release assets on release runs")
	flags.Bool("compare-pulls", false, "fetch the base branch SBOM on pull requests")
	flags.String("release-ref-prefix", "refs/tags/", "ref prefix that marks a tag push as a release")
	flags.String("sbom-artifact-match", "", "regular expression selecting artifacts to reconcile")
	flags.String("github-token", "", "GitHub API token (falls back to $GITHUB_TOKEN)")
	flags.String("syft-version", "", "syft version to provision (defaults from settings)")
	flags.String("syft-args", "", "extra arguments appended to the syft invocation")
}

func bindOptions(command *cobra.Command, args []string) {
	err := viper.BindPFlags(command.Flags())
	if err != nil {
		panic(err)
	}
}

func gatherRunFlags() *operations.RunFlags {
	token := viper.GetString("github-token")
	if len(token) == 0 {
		token = os.Getenv("GITHUB_TOKEN")
	}
	return &operations.RunFlags{
		Input: syft.ScanInput{
			Image: viper.GetString("image"),
			Path:  viper.GetString("path"),
		},
		Format:              viper.GetString("format"),
		ArtifactName:        viper.GetString("artifact-name"),
		OutputFile:          viper.GetString("output-file"),
		RegistryUsername:    viper.GetString("registry-username"),
		RegistryPassword:    viper.GetString("registry-password"),
		UploadArtifact:      viper.GetBool("upload-artifact"),
		UploadReleaseAssets: viper.GetBool("upload-release-assets"),
		ComparePulls:        viper.GetBool("compare-pulls"),
		ReleaseRefPrefix:    viper.GetString("release-ref-prefix"),
		ArtifactMatch:       viper.GetString("sbom-artifact-match"),
		GithubToken:         token,
		SyftVersion:         viper.GetString("syft-version"),
		ExtraArgs:           viper.GetString("syft-args"),
	}
}
