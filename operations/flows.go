package operations

import (
	"errors"

	"github.com/veldtlabs/sbomstage/artifact"
	"github.com/veldtlabs/sbomstage/common"
	"github.com/veldtlabs/sbomstage/compare"
	"github.com/veldtlabs/sbomstage/fail"
	"github.com/veldtlabs/sbomstage/hub"
	"github.com/veldtlabs/sbomstage/provision"
	"github.com/veldtlabs/sbomstage/reconcile"
	"github.com/veldtlabs/sbomstage/settings"
	"github.com/veldtlabs/sbomstage/shell"
	"github.com/veldtlabs/sbomstage/syft"
	"github.com/veldtlabs/sbomstage/xviper"
)

// RunFlags is the full configuration surface of one run.
type RunFlags struct {
	Input               syft.ScanInput
	Format              string
	ArtifactName        string
	OutputFile          string
	RegistryUsername    string
	RegistryPassword    string
	UploadArtifact      bool
	UploadReleaseAssets bool
	ComparePulls        bool
	ReleaseRefPrefix    string
	ArtifactMatch       string
	GithubToken         string
	SyftVersion         string
	ExtraArgs           string
}

func (it *RunFlags) syftVersion() string {
	if len(it.SyftVersion) > 0 {
		return it.SyftVersion
	}
	return settings.Global.SyftVersion()
}

func validateInput(input syft.ScanInput) error {
	if input.Empty() {
		return configurationError("either image or path must be given")
	}
	if input.Contradictory() {
		return configurationError("image and path are mutually exclusive")
	}
	return nil
}

func derivedName(flags *RunFlags, context *Context) string {
	format := syft.ParseFormat(flags.Format)
	return artifact.Name(format, flags.ArtifactName, flags.Input.Image, context.Repo.Name, context.Job, context.Step)
}

// resolvedName picks the artifact name for the standalone flows: an
// explicit flag wins, then a name recorded by an earlier invocation in
// the same job, then derivation from the CI context.
func resolvedName(flags *RunFlags, context *Context) string {
	if len(flags.ArtifactName) > 0 {
		return derivedName(flags, context)
	}
	if recorded := xviper.PreviousArtifactName(); len(recorded) > 0 {
		common.Debug("Using artifact name %q recorded by invocation %s.", recorded, xviper.PreviousArtifactRun())
		return recorded
	}
	return derivedName(flags, context)
}

// GenerateAndPublish is the main flow: provision the scanner, run it,
// publish the result, then run the optional best-effort features.
func GenerateAndPublish(flags *RunFlags) (err error) {
	defer fail.Around(&err)

	fail.Fast(validateInput(flags.Input))

	context, err := CurrentContext()
	fail.Fast(err)

	binary, err := provision.Syft(flags.syftVersion())
	fail.Fast(err)

	extra, err := shell.Split(flags.ExtraArgs)
	fail.Fast(err)

	format := syft.ParseFormat(flags.Format)
	payload, err := syft.Scan(&syft.Command{
		Binary:           binary,
		Input:            flags.Input,
		Format:           format,
		RegistryUsername: flags.RegistryUsername,
		RegistryPassword: flags.RegistryPassword,
		ExtraArgs:        extra,
	})
	fail.Fast(err)

	name := derivedName(flags, context)
	service, err := hub.NewClient(context.Repo, flags.GithubToken)
	fail.Fast(err)

	publisher := artifact.NewPublisher(service, context.RunID)
	path, err := publisher.Publish([]byte(payload), name, flags.OutputFile, flags.UploadArtifact)
	fail.Fast(err)
	common.Log("SBOM %q ready at %q.", name, path)

	return optionalFeatures(service, context, flags, name)
}

// optionalFeatures runs the best-effort tail of the main flow. Both
// features stay fully inert unless their flag enables them; a disabled
// feature causes no provider traffic at all.
func optionalFeatures(service hub.Service, context *Context, flags *RunFlags, name string) (err error) {
	defer fail.Around(&err)

	if flags.ComparePulls && context.IsPullRequest() {
		fail.Fast(compare.Run(&compare.Request{
			Service:      service,
			BaseBranch:   context.BaseRef,
			ArtifactName: name,
		}))
	}

	if flags.UploadReleaseAssets {
		fail.Fast(reconcileIfRelease(service, context, flags, name))
	}
	return nil
}

// ComparePullRequest is the standalone comparator flow.
func ComparePullRequest(flags *RunFlags) (err error) {
	defer fail.Around(&err)

	context, err := CurrentContext()
	fail.Fast(err)
	if !context.IsPullRequest() {
		common.Debug("Event %q is not a pull request; nothing to compare.", context.EventName)
		return nil
	}

	service, err := hub.NewClient(context.Repo, flags.GithubToken)
	fail.Fast(err)

	return compare.Run(&compare.Request{
		Service:      service,
		BaseBranch:   context.BaseRef,
		ArtifactName: resolvedName(flags, context),
	})
}

// ReconcileReleaseAssets is the standalone reconciler flow.
func ReconcileReleaseAssets(flags *RunFlags) (err error) {
	defer fail.Around(&err)

	context, err := CurrentContext()
	fail.Fast(err)

	service, err := hub.NewClient(context.Repo, flags.GithubToken)
	fail.Fast(err)

	return reconcileIfRelease(service, context, flags, resolvedName(flags, context))
}

// reconcileIfRelease republishes matching artifacts as release assets
// when the run happens in a release or tag-push context. A tag without
// a release is a normal no-op.
func reconcileIfRelease(service hub.Service, context *Context, flags *RunFlags, name string) error {
	tag, releaseEvent, active := context.ReleaseTag(flags.ReleaseRefPrefix)
	if !active {
		return nil
	}

	release, err := service.ReleaseByTag(tag)
	if errors.Is(err, hub.ErrNotFound) {
		common.Debug("No release for tag %q; nothing to reconcile.", tag)
		return nil
	}
	if err != nil {
		return err
	}

	return reconcile.Run(&reconcile.Request{
		Service:         service,
		RunID:           context.RunID,
		ArtifactName:    name,
		ExplicitPattern: flags.ArtifactMatch,
		Release:         release,
		ReleaseEvent:    releaseEvent,
	})
}
