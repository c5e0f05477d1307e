package operations

import (
	"errors"
	"testing"

	"github.com/veldtlabs/sbomstage/common"
	"github.com/veldtlabs/sbomstage/hamlet"
	"github.com/veldtlabs/sbomstage/hub"
	"github.com/veldtlabs/sbomstage/syft"
	"github.com/veldtlabs/sbomstage/xviper"
)

type countingService struct {
	runLookups     int
	releaseLookups int
	other          int
}

func (it *countingService) LatestCompletedRun(branch string) (*hub.WorkflowRun, error) {
	it.runLookups += 1
	return nil, hub.ErrNotFound
}

func (it *countingService) ReleaseByTag(tag string) (*hub.Release, error) {
	it.releaseLookups += 1
	return nil, hub.ErrNotFound
}

func (it *countingService) ListRunArtifacts(runID int64) ([]hub.Artifact, error) {
	it.other += 1
	return nil, nil
}

func (it *countingService) DownloadArtifact(artifact hub.Artifact, directory string) (string, error) {
	it.other += 1
	return "", errors.New("not used here")
}

func (it *countingService) UploadArtifact(runID int64, name, filename string) (*hub.Artifact, error) {
	it.other += 1
	return nil, errors.New("not used here")
}

func (it *countingService) ListAssets(release *hub.Release) ([]hub.Asset, error) {
	it.other += 1
	return nil, nil
}

func (it *countingService) UploadAsset(release *hub.Release, name, contentType string, blob []byte) (*hub.Asset, error) {
	it.other += 1
	return nil, errors.New("not used here")
}

func (it *countingService) DeleteAsset(asset hub.Asset) error {
	it.other += 1
	return nil
}

func pullRequestContext() *Context {
	context := &Context{
		Job:       "build",
		Step:      "__run",
		EventName: "pull_request",
		BaseRef:   "main",
		RunID:     42,
	}
	context.Repo = hub.Repo{Owner: "acme", Name: "myrepo"}
	return context
}

func TestDisabledComparisonCausesNoProviderTraffic(t *testing.T) {
	must_be, _ := hamlet.Specifications(t)

	service := &countingService{}
	flags := &RunFlags{
		Input:        syft.ScanInput{Path: "."},
		ComparePulls: false,
	}
	err := optionalFeatures(service, pullRequestContext(), flags, "myrepo-build.spdx.json")
	must_be.Nil(err)
	must_be.Equal(0, service.runLookups)
	must_be.Equal(0, service.releaseLookups)
	must_be.Equal(0, service.other)
}

func TestEnabledComparisonLooksUpBaseBranch(t *testing.T) {
	must_be, _ := hamlet.Specifications(t)

	service := &countingService{}
	flags := &RunFlags{
		Input:        syft.ScanInput{Path: "."},
		ComparePulls: true,
	}
	err := optionalFeatures(service, pullRequestContext(), flags, "myrepo-build.spdx.json")
	must_be.Nil(err)
	must_be.Equal(1, service.runLookups)
}

func TestComparisonStaysOffOutsidePullRequests(t *testing.T) {
	must_be, _ := hamlet.Specifications(t)

	service := &countingService{}
	context := pullRequestContext()
	context.EventName = "push"
	context.Ref = "refs/heads/main"
	flags := &RunFlags{
		Input:        syft.ScanInput{Path: "."},
		ComparePulls: true,
	}
	err := optionalFeatures(service, context, flags, "myrepo-build.spdx.json")
	must_be.Nil(err)
	must_be.Equal(0, service.runLookups)
}

func TestResolvedNamePrefersRecordedHandoff(t *testing.T) {
	must_be, _ := hamlet.Specifications(t)

	t.Setenv(common.SBOMSTAGE_HOME_VARIABLE, t.TempDir())
	xviper.Reset()
	defer xviper.Reset()

	context := pullRequestContext()
	flags := &RunFlags{Format: "spdx-json"}

	// nothing recorded yet, fall back to derivation
	must_be.Equal("myrepo-build.spdx.json", resolvedName(flags, context))

	xviper.RecordArtifactName("custom-name.spdx.json")
	must_be.Equal("custom-name.spdx.json", resolvedName(flags, context))

	// an explicit flag always wins over the recorded name
	flags.ArtifactName = "explicit.spdx.json"
	must_be.Equal("explicit.spdx.json", resolvedName(flags, context))
}
