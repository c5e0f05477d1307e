package hub

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/veldtlabs/sbomstage/cloud"
	"github.com/veldtlabs/sbomstage/common"
	"github.com/veldtlabs/sbomstage/fail"
)

// Workflow artifact upload is not part of the public REST surface; it
// goes through the runner's pipeline service, reachable only with the
// runtime credentials the runner injects into each job.

const runtimeApiVersion = "6.0-preview"

type artifactContainer struct {
	ContainerId           int64  `json:"containerId"`
	Name                  string `json:"name"`
	FileContainerResource string `json:"fileContainerResourceUrl"`
}

func runtimeCredentials() (endpoint, token string, err error) {
	defer fail.Around(&err)
	endpoint = strings.TrimRight(os.Getenv("ACTIONS_RUNTIME_URL"), "/")
	token = os.Getenv("ACTIONS_RUNTIME_TOKEN")
	fail.On(len(endpoint) == 0 || len(token) == 0, "Workflow artifact upload needs the runner runtime (ACTIONS_RUNTIME_URL/TOKEN).")
	return endpoint, token, nil
}

func runtimeHeaders(request *cloud.Request, token string) *cloud.Request {
	request.Headers["Accept"] = fmt.Sprintf("application/json;api-version=%s", runtimeApiVersion)
	request.Headers["Authorization"] = fmt.Sprintf("Bearer %s", token)
	request.Headers["Content-Type"] = "application/json"
	return request
}

// UploadArtifact publishes a local file as a named workflow artifact
// of given run: reserve a file container, put the bytes, finalize.
func (it *Client) UploadArtifact(runID int64, name, filename string) (artifact *Artifact, err error) {
	defer fail.Around(&err)

	endpoint, token, err := runtimeCredentials()
	fail.Fast(err)

	blob, err := os.ReadFile(filename)
	fail.Fast(err)

	runtime, err := cloud.NewUnsafeClient(endpoint)
	fail.Fast(err)

	reserve := fmt.Sprintf("/_apis/pipelines/workflows/%d/artifacts?api-version=%s", runID, runtimeApiVersion)
	body, err := json.Marshal(map[string]string{"type": "actions_storage", "name": name})
	fail.Fast(err)
	request := runtimeHeaders(runtime.NewRequest(reserve), token)
	request.Body = bytes.NewReader(body)
	response := runtime.Post(request)
	fail.Fast(asError(response, "POST", reserve))

	var container artifactContainer
	fail.Fast(json.Unmarshal(response.Body, &container))
	fail.On(len(container.FileContainerResource) == 0, "Runtime did not provide a file container for %q.", name)

	anywhere, err := cloud.NewUnsafeClient("")
	fail.Fast(err)
	item := fmt.Sprintf("%s?itemPath=%s", container.FileContainerResource,
		url.QueryEscape(fmt.Sprintf("%s/%s", name, filepath.Base(filename))))
	request = runtimeHeaders(anywhere.NewRequest(item), token)
	request.Headers["Content-Type"] = "application/octet-stream"
	request.Headers["Content-Range"] = fmt.Sprintf("bytes 0-%d/%d", len(blob)-1, len(blob))
	request.Body = bytes.NewReader(blob)
	request.ContentLength = int64(len(blob))
	response = anywhere.Put(request)
	fail.Fast(asError(response, "PUT", item))

	finalize := fmt.Sprintf("/_apis/pipelines/workflows/%d/artifacts?artifactName=%s&api-version=%s",
		runID, url.QueryEscape(name), runtimeApiVersion)
	body, err = json.Marshal(map[string]int64{"size": int64(len(blob))})
	fail.Fast(err)
	request = runtimeHeaders(runtime.NewRequest(finalize), token)
	request.Body = bytes.NewReader(body)
	response = runtime.Patch(request)
	fail.Fast(asError(response, "PATCH", finalize))

	common.Log("Uploaded workflow artifact %q (%d bytes).", name, len(blob))
	return &Artifact{Name: name, SizeInBytes: int64(len(blob))}, nil
}
