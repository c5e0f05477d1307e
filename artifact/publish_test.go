package artifact_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/veldtlabs/sbomstage/artifact"
	"github.com/veldtlabs/sbomstage/common"
	"github.com/veldtlabs/sbomstage/hamlet"
	"github.com/veldtlabs/sbomstage/hub"
	"github.com/veldtlabs/sbomstage/xviper"
)

type recordingService struct {
	uploads  []string
	failWith error
}

func (it *recordingService) LatestCompletedRun(branch string) (*hub.WorkflowRun, error) {
	return nil, hub.ErrNotFound
}
func (it *recordingService) ListRunArtifacts(runID int64) ([]hub.Artifact, error) {
	return nil, nil
}
func (it *recordingService) DownloadArtifact(a hub.Artifact, directory string) (string, error) {
	return "", hub.ErrNotFound
}
func (it *recordingService) UploadArtifact(runID int64, name, filename string) (*hub.Artifact, error) {
	if it.failWith != nil {
		return nil, it.failWith
	}
	it.uploads = append(it.uploads, name)
	return &hub.Artifact{Name: name}, nil
}
func (it *recordingService) ReleaseByTag(tag string) (*hub.Release, error) {
	return nil, hub.ErrNotFound
}
func (it *recordingService) ListAssets(release *hub.Release) ([]hub.Asset, error) {
	return nil, nil
}
func (it *recordingService) UploadAsset(release *hub.Release, name, contentType string, blob []byte) (*hub.Asset, error) {
	return nil, nil
}
func (it *recordingService) DeleteAsset(asset hub.Asset) error {
	return nil
}

func TestPublishWritesMirrorsAndUploads(t *testing.T) {
	must_be, _ := hamlet.Specifications(t)

	t.Setenv(common.SBOMSTAGE_HOME_VARIABLE, t.TempDir())
	t.Setenv("GITHUB_ENV", "")
	xviper.Reset()
	defer xviper.Reset()

	service := &recordingService{}
	publisher := artifact.NewPublisher(service, 42)

	mirror := filepath.Join(t.TempDir(), "out", "sbom.spdx.json")
	path, err := publisher.Publish([]byte(`{"spdx":true}`), "library-alpine.spdx.json", mirror, true)
	must_be.Nil(err)

	blob, err := os.ReadFile(path)
	must_be.Nil(err)
	must_be.Equal(`{"spdx":true}`, string(blob))

	blob, err = os.ReadFile(mirror)
	must_be.Nil(err)
	must_be.Equal(`{"spdx":true}`, string(blob))

	must_be.Equal([]string{"library-alpine.spdx.json"}, service.uploads)
	must_be.Equal("library-alpine.spdx.json", xviper.PreviousArtifactName())
	must_be.Equal("library-alpine.spdx.json", os.Getenv("SBOM_ARTIFACT_NAME"))
}

func TestPublishWithoutUploadKeepsHandoffUntouched(t *testing.T) {
	must_be, _ := hamlet.Specifications(t)

	t.Setenv(common.SBOMSTAGE_HOME_VARIABLE, t.TempDir())
	xviper.Reset()
	defer xviper.Reset()

	service := &recordingService{}
	publisher := artifact.NewPublisher(service, 42)

	path, err := publisher.Publish([]byte("payload"), "local.spdx.json", "", false)
	must_be.Nil(err)
	must_be.True(len(path) > 0)
	must_be.Equal(0, len(service.uploads))
	must_be.Equal("", xviper.PreviousArtifactName())
}

func TestPublishExportsThroughRunnerEnvironmentFile(t *testing.T) {
	must_be, _ := hamlet.Specifications(t)

	t.Setenv(common.SBOMSTAGE_HOME_VARIABLE, t.TempDir())
	envFile := filepath.Join(t.TempDir(), "github.env")
	t.Setenv("GITHUB_ENV", envFile)
	xviper.Reset()
	defer xviper.Reset()

	publisher := artifact.NewPublisher(&recordingService{}, 42)
	_, err := publisher.Publish([]byte("payload"), "name.spdx.json", "", true)
	must_be.Nil(err)

	blob, err := os.ReadFile(envFile)
	must_be.Nil(err)
	must_be.Equal("SBOM_ARTIFACT_NAME=name.spdx.json\n", string(blob))
}
