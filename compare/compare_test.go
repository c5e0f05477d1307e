package compare_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/veldtlabs/sbomstage/common"
	"github.com/veldtlabs/sbomstage/compare"
	"github.com/veldtlabs/sbomstage/hamlet"
	"github.com/veldtlabs/sbomstage/hub"
	"github.com/veldtlabs/sbomstage/pathlib"
)

type fakeService struct {
	latest      *hub.WorkflowRun
	latestErr   error
	latestCalls int
	artifacts   []hub.Artifact
	listErr     error
	downloads   []string
	downloadErr error
}

func (it *fakeService) LatestCompletedRun(branch string) (*hub.WorkflowRun, error) {
	it.latestCalls += 1
	if it.latestErr != nil {
		return nil, it.latestErr
	}
	if it.latest == nil {
		return nil, hub.ErrNotFound
	}
	return it.latest, nil
}

func (it *fakeService) ListRunArtifacts(runID int64) ([]hub.Artifact, error) {
	if it.listErr != nil {
		return nil, it.listErr
	}
	return it.artifacts, nil
}

func (it *fakeService) DownloadArtifact(artifact hub.Artifact, directory string) (string, error) {
	if it.downloadErr != nil {
		return "", it.downloadErr
	}
	it.downloads = append(it.downloads, artifact.Name)
	path := filepath.Join(directory, artifact.Name)
	return path, pathlib.WriteFile(path, []byte("prior"), 0o600)
}

func (it *fakeService) UploadArtifact(runID int64, name, filename string) (*hub.Artifact, error) {
	return nil, errors.New("not used here")
}
func (it *fakeService) ReleaseByTag(tag string) (*hub.Release, error) { return nil, hub.ErrNotFound }
func (it *fakeService) ListAssets(release *hub.Release) ([]hub.Asset, error) {
	return nil, nil
}
func (it *fakeService) UploadAsset(release *hub.Release, name, contentType string, blob []byte) (*hub.Asset, error) {
	return nil, nil
}
func (it *fakeService) DeleteAsset(asset hub.Asset) error { return nil }

func TestMatchingPriorArtifactIsDownloaded(t *testing.T) {
	must_be, _ := hamlet.Specifications(t)
	t.Setenv(common.SBOMSTAGE_HOME_VARIABLE, t.TempDir())

	service := &fakeService{
		latest: &hub.WorkflowRun{ID: 41, HeadBranch: "main"},
		artifacts: []hub.Artifact{
			{ID: 1, Name: "library-alpine.spdx.json"},
			{ID: 2, Name: "logs"},
		},
	}

	err := compare.Run(&compare.Request{
		Service:      service,
		BaseBranch:   "main",
		ArtifactName: "library-alpine.spdx.json",
	})
	must_be.Nil(err)
	must_be.Equal([]string{"library-alpine.spdx.json"}, service.downloads)
}

func TestMissingBaseRunIsNotAnError(t *testing.T) {
	must_be, _ := hamlet.Specifications(t)
	t.Setenv(common.SBOMSTAGE_HOME_VARIABLE, t.TempDir())

	service := &fakeService{}
	err := compare.Run(&compare.Request{
		Service:      service,
		BaseBranch:   "main",
		ArtifactName: "library-alpine.spdx.json",
	})
	must_be.Nil(err)
	must_be.Equal(0, len(service.downloads))
}

func TestMissingArtifactIsNotAnError(t *testing.T) {
	must_be, _ := hamlet.Specifications(t)
	t.Setenv(common.SBOMSTAGE_HOME_VARIABLE, t.TempDir())

	service := &fakeService{
		latest:    &hub.WorkflowRun{ID: 41},
		artifacts: []hub.Artifact{{ID: 2, Name: "something-else"}},
	}
	err := compare.Run(&compare.Request{
		Service:      service,
		BaseBranch:   "main",
		ArtifactName: "library-alpine.spdx.json",
	})
	must_be.Nil(err)
	must_be.Equal(0, len(service.downloads))
}

func TestGenuineApiFailureStillFails(t *testing.T) {
	_, wont_be := hamlet.Specifications(t)
	t.Setenv(common.SBOMSTAGE_HOME_VARIABLE, t.TempDir())

	service := &fakeService{
		latestErr: &hub.RemoteApiError{Method: "GET", Path: "/runs", Status: 502, Hint: "bad gateway"},
	}
	err := compare.Run(&compare.Request{
		Service:      service,
		BaseBranch:   "main",
		ArtifactName: "library-alpine.spdx.json",
	})
	wont_be.Nil(err)
}
