package hub_test

import (
	"archive/zip"
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/veldtlabs/sbomstage/cloud"
	"github.com/veldtlabs/sbomstage/common"
	"github.com/veldtlabs/sbomstage/compare"
	"github.com/veldtlabs/sbomstage/hamlet"
	"github.com/veldtlabs/sbomstage/hub"
)

type fakeCloud struct {
	endpoint  string
	responses map[string]*cloud.Response
	calls     []string
}

func newFakeCloud(responses map[string]*cloud.Response) *fakeCloud {
	return &fakeCloud{responses: responses}
}

func (it *fakeCloud) does(method string, request *cloud.Request) *cloud.Response {
	key := method + " " + request.Url
	it.calls = append(it.calls, key)
	response, ok := it.responses[key]
	if !ok {
		return &cloud.Response{Status: 404}
	}
	return response
}

func (it *fakeCloud) Endpoint() string { return it.endpoint }
func (it *fakeCloud) NewRequest(url string) *cloud.Request {
	return &cloud.Request{Url: url, Headers: make(map[string]string)}
}
func (it *fakeCloud) Head(request *cloud.Request) *cloud.Response   { return it.does("HEAD", request) }
func (it *fakeCloud) Get(request *cloud.Request) *cloud.Response    { return it.does("GET", request) }
func (it *fakeCloud) Post(request *cloud.Request) *cloud.Response   { return it.does("POST", request) }
func (it *fakeCloud) Put(request *cloud.Request) *cloud.Response    { return it.does("PUT", request) }
func (it *fakeCloud) Patch(request *cloud.Request) *cloud.Response  { return it.does("PATCH", request) }
func (it *fakeCloud) Delete(request *cloud.Request) *cloud.Response { return it.does("DELETE", request) }
func (it *fakeCloud) NewClient(endpoint string) (cloud.Client, error) {
	return it, nil
}
func (it *fakeCloud) WithTimeout(time.Duration) cloud.Client { return it }
func (it *fakeCloud) WithTracing() cloud.Client              { return it }
func (it *fakeCloud) Uncritical() cloud.Client               { return it }

func repo() hub.Repo {
	return hub.Repo{Owner: "acme", Name: "tool"}
}

func TestLatestCompletedRunPicksFirstListed(t *testing.T) {
	must_be, _ := hamlet.Specifications(t)

	api := newFakeCloud(map[string]*cloud.Response{
		"GET /repos/acme/tool/actions/runs?branch=main&status=completed&per_page=1": {
			Status: 200,
			Body:   []byte(`{"total_count":1,"workflow_runs":[{"id":42,"head_branch":"main","status":"completed","event":"push"}]}`),
		},
	})
	client := hub.NewClientWith(repo(), "token", api, api)

	run, err := client.LatestCompletedRun("main")
	must_be.Nil(err)
	must_be.Equal(int64(42), run.ID)
	must_be.Equal("main", run.HeadBranch)
}

func TestLatestCompletedRunWithoutRunsIsNotFound(t *testing.T) {
	must_be, _ := hamlet.Specifications(t)

	api := newFakeCloud(map[string]*cloud.Response{
		"GET /repos/acme/tool/actions/runs?branch=quiet&status=completed&per_page=1": {
			Status: 200,
			Body:   []byte(`{"total_count":0,"workflow_runs":[]}`),
		},
	})
	client := hub.NewClientWith(repo(), "token", api, api)

	_, err := client.LatestCompletedRun("quiet")
	must_be.True(errors.Is(err, hub.ErrNotFound))
}

func TestReleaseByMissingTagIsNotFound(t *testing.T) {
	must_be, _ := hamlet.Specifications(t)

	api := newFakeCloud(nil)
	client := hub.NewClientWith(repo(), "token", api, api)

	_, err := client.ReleaseByTag("v9.9.9")
	must_be.True(errors.Is(err, hub.ErrNotFound))
}

func TestRemoteFailureIsNotMaskedAsNotFound(t *testing.T) {
	must_be, wont_be := hamlet.Specifications(t)

	api := newFakeCloud(map[string]*cloud.Response{
		"GET /repos/acme/tool/releases/tags/v1.0.0": {
			Status: 500,
			Body:   []byte(`{"message":"boom"}`),
		},
	})
	client := hub.NewClientWith(repo(), "token", api, api)

	_, err := client.ReleaseByTag("v1.0.0")
	wont_be.Nil(err)
	wont_be.True(errors.Is(err, hub.ErrNotFound))
	var remote *hub.RemoteApiError
	must_be.True(errors.As(err, &remote))
	must_be.Equal(500, remote.Status)
}

func TestListRunArtifacts(t *testing.T) {
	must_be, _ := hamlet.Specifications(t)

	api := newFakeCloud(map[string]*cloud.Response{
		"GET /repos/acme/tool/actions/runs/42/artifacts?per_page=100": {
			Status: 200,
			Body:   []byte(`{"total_count":2,"artifacts":[{"id":1,"name":"sbom.spdx.json"},{"id":2,"name":"logs"}]}`),
		},
	})
	client := hub.NewClientWith(repo(), "token", api, api)

	artifacts, err := client.ListRunArtifacts(42)
	must_be.Nil(err)
	must_be.Equal(2, len(artifacts))
	must_be.Equal("sbom.spdx.json", artifacts[0].Name)
}

func zipBlob(t *testing.T, name, content string) []byte {
	t.Helper()
	buffer := new(bytes.Buffer)
	archive := zip.NewWriter(buffer)
	entry, err := archive.Create(name)
	if err != nil {
		t.Fatal(err)
	}
	_, err = entry.Write([]byte(content))
	if err != nil {
		t.Fatal(err)
	}
	err = archive.Close()
	if err != nil {
		t.Fatal(err)
	}
	return buffer.Bytes()
}

func TestDownloadArtifactUnpacksZipPayload(t *testing.T) {
	must_be, _ := hamlet.Specifications(t)

	api := newFakeCloud(map[string]*cloud.Response{
		"GET /repos/acme/tool/actions/artifacts/7/zip": {
			Status: 200,
			Body:   zipBlob(t, "sbom.spdx.json", `{"spdxVersion":"SPDX-2.3"}`),
		},
	})
	client := hub.NewClientWith(repo(), "token", api, api)

	directory := t.TempDir()
	path, err := client.DownloadArtifact(hub.Artifact{ID: 7, Name: "sbom.spdx.json"}, directory)
	must_be.Nil(err)
	must_be.Equal(filepath.Join(directory, "sbom.spdx.json"), path)

	blob, err := os.ReadFile(path)
	must_be.Nil(err)
	must_be.Equal(`{"spdxVersion":"SPDX-2.3"}`, string(blob))
}

func TestMissingArtifactDownloadIsNotFound(t *testing.T) {
	must_be, _ := hamlet.Specifications(t)

	client := hub.NewClientWith(repo(), "token", newFakeCloud(nil), newFakeCloud(nil))
	_, err := client.DownloadArtifact(hub.Artifact{ID: 7, Name: "gone.spdx.json"}, t.TempDir())
	must_be.True(errors.Is(err, hub.ErrNotFound))
}

func TestExpiredArtifactIsRefused(t *testing.T) {
	must_be, wont_be := hamlet.Specifications(t)

	client := hub.NewClientWith(repo(), "token", newFakeCloud(nil), newFakeCloud(nil))
	_, err := client.DownloadArtifact(hub.Artifact{ID: 7, Name: "old", Expired: true}, t.TempDir())
	wont_be.Nil(err)
	must_be.Contains("expired", err.Error())
	// an expired artifact is gone for all best-effort purposes
	must_be.True(errors.Is(err, hub.ErrNotFound))
}

func TestComparatorShrugsOffVanishedBaseArtifact(t *testing.T) {
	must_be, _ := hamlet.Specifications(t)
	t.Setenv(common.SBOMSTAGE_HOME_VARIABLE, t.TempDir())

	// run and artifact listings answer, but the artifact archive is
	// already gone; the best-effort comparison must stay green
	api := newFakeCloud(map[string]*cloud.Response{
		"GET /repos/acme/tool/actions/runs?branch=main&status=completed&per_page=1": {
			Status: 200,
			Body:   []byte(`{"total_count":1,"workflow_runs":[{"id":42,"head_branch":"main","status":"completed","event":"push"}]}`),
		},
		"GET /repos/acme/tool/actions/runs/42/artifacts?per_page=100": {
			Status: 200,
			Body:   []byte(`{"total_count":1,"artifacts":[{"id":7,"name":"tool-build.spdx.json"}]}`),
		},
	})
	client := hub.NewClientWith(repo(), "token", api, api)

	err := compare.Run(&compare.Request{
		Service:      client,
		BaseBranch:   "main",
		ArtifactName: "tool-build.spdx.json",
	})
	must_be.Nil(err)
}

func TestReleaseAssetDeleteThenUpload(t *testing.T) {
	must_be, _ := hamlet.Specifications(t)

	api := newFakeCloud(map[string]*cloud.Response{
		"DELETE /repos/acme/tool/releases/assets/11": {Status: 204},
	})
	uploads := newFakeCloud(map[string]*cloud.Response{
		"POST /repos/acme/tool/releases/9/assets?name=sbom.spdx.json": {
			Status: 201,
			Body:   []byte(`{"id":12,"name":"sbom.spdx.json"}`),
		},
	})
	client := hub.NewClientWith(repo(), "token", api, uploads)

	err := client.DeleteAsset(hub.Asset{ID: 11, Name: "sbom.spdx.json"})
	must_be.Nil(err)

	release := &hub.Release{ID: 9, TagName: "v1.0.0"}
	asset, err := client.UploadAsset(release, "sbom.spdx.json", "text/plain", []byte("{}"))
	must_be.Nil(err)
	must_be.Equal(int64(12), asset.ID)
	must_be.Equal("sbom.spdx.json", asset.Name)
}
