package hub

import (
	"archive/zip"
	"fmt"
	"io"
	"path/filepath"

	"github.com/veldtlabs/sbomstage/common"
	"github.com/veldtlabs/sbomstage/fail"
	"github.com/veldtlabs/sbomstage/pathlib"
)

type artifactListing struct {
	TotalCount int        `json:"total_count"`
	Artifacts  []Artifact `json:"artifacts"`
}

// ListRunArtifacts lists the artifacts retained for one workflow run.
func (it *Client) ListRunArtifacts(runID int64) ([]Artifact, error) {
	path := fmt.Sprintf("/repos/%s/actions/runs/%d/artifacts?per_page=100", it.repo.Slug(), runID)
	var listing artifactListing
	err := it.getJson(path, &listing)
	if err != nil {
		return nil, err
	}
	return listing.Artifacts, nil
}

// DownloadArtifact fetches the artifact archive and unpacks its first
// file entry into given directory, returning the resulting file path.
// The provider hands artifacts over as zip archives regardless of the
// stored content.
func (it *Client) DownloadArtifact(artifact Artifact, directory string) (path string, err error) {
	defer fail.Around(&err)

	if artifact.Expired {
		fail.Fast(fmt.Errorf("%w: artifact %q (%d) has expired", ErrNotFound, artifact.Name, artifact.ID))
	}

	location := fmt.Sprintf("/repos/%s/actions/artifacts/%d/zip", it.repo.Slug(), artifact.ID)
	request := it.decorate(it.api.NewRequest(location))
	response := it.api.Get(request)
	fail.Fast(asError(response, "GET", location))

	archive := filepath.Join(directory, fmt.Sprintf("%s.zip", artifact.Name))
	err = pathlib.WriteFile(archive, response.Body, 0o600)
	fail.Fast(err)

	path, err = unzipFirstEntry(archive, directory)
	fail.Fast(err)

	common.Debug("Artifact %q (%d) downloaded to %q.", artifact.Name, artifact.ID, path)
	return path, nil
}

func unzipFirstEntry(archive, directory string) (path string, err error) {
	defer fail.Around(&err)

	reader, err := zip.OpenReader(archive)
	fail.On(err != nil, "Failed to open archive %q -> %v", archive, err)
	defer reader.Close()

	for _, entry := range reader.File {
		if entry.FileInfo().IsDir() {
			continue
		}
		source, err := entry.Open()
		fail.On(err != nil, "Failed to open entry %q -> %v", entry.Name, err)
		defer source.Close()

		target := filepath.Join(directory, filepath.Base(entry.Name))
		sink, err := pathlib.Create(target)
		fail.On(err != nil, "Failed to create %q -> %v", target, err)
		defer sink.Close()

		_, err = io.Copy(sink, source)
		fail.On(err != nil, "Failed to extract %q -> %v", entry.Name, err)
		return target, nil
	}
	fail.On(true, "Archive %q holds no file entries.", archive)
	return "", nil
}
