package artifact

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/veldtlabs/sbomstage/common"
	"github.com/veldtlabs/sbomstage/fail"
	"github.com/veldtlabs/sbomstage/hub"
	"github.com/veldtlabs/sbomstage/pathlib"
	"github.com/veldtlabs/sbomstage/xviper"
)

const handoffVariable = `SBOM_ARTIFACT_NAME`

// Publisher persists SBOM payloads and uploads them as workflow
// artifacts.
type Publisher struct {
	service hub.Service
	runID   int64
}

func NewPublisher(service hub.Service, runID int64) *Publisher {
	return &Publisher{
		service: service,
		runID:   runID,
	}
}

// Publish writes the payload into the private scratch area, mirrors it
// to the optional user chosen output file, and uploads it as a named
// workflow artifact when enabled. A successful upload records the name
// for later invocations in the same job.
func (it *Publisher) Publish(payload []byte, name, outputFile string, upload bool) (path string, err error) {
	defer fail.Around(&err)

	path = filepath.Join(common.ProductTempName(), name)
	err = pathlib.WriteFile(path, payload, 0o600)
	fail.On(err != nil, "Failed to write SBOM to %q -> %v", path, err)
	common.Debug("SBOM written to %q (%d bytes).", path, len(payload))

	if len(outputFile) > 0 {
		err = pathlib.WriteFile(outputFile, payload, 0o644)
		fail.On(err != nil, "Failed to mirror SBOM to %q -> %v", outputFile, err)
		common.Log("SBOM mirrored to %q.", outputFile)
	}

	if !upload {
		common.Debug("Workflow artifact upload disabled; keeping %q local.", name)
		return path, nil
	}

	_, err = it.service.UploadArtifact(it.runID, name, path)
	fail.Fast(err)

	xviper.RecordArtifactName(name)
	exportVariable(handoffVariable, name)
	return path, nil
}

// exportVariable makes the value visible to following steps of the
// same job, both in this process and through the runner's environment
// file when one is available.
func exportVariable(name, value string) {
	os.Setenv(name, value)
	location := os.Getenv("GITHUB_ENV")
	if len(location) == 0 {
		return
	}
	sink, err := os.OpenFile(location, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		common.Uncritical("exportVariable", err)
		return
	}
	defer sink.Close()
	fmt.Fprintf(sink, "%s=%s\n", name, value)
}
