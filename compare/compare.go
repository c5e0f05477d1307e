package compare

import (
	"errors"
	"path/filepath"

	"github.com/veldtlabs/sbomstage/common"
	"github.com/veldtlabs/sbomstage/hub"
	"github.com/veldtlabs/sbomstage/pretty"
)

// Request describes one best-effort lookup of the prior SBOM on a pull
// request's base branch.
type Request struct {
	Service      hub.Service
	BaseBranch   string
	ArtifactName string
}

// Run locates the same-named artifact from the most recent completed
// run on the base branch and downloads it for informational diffing.
// Every "not found" along the way means there is simply nothing to
// compare; only genuine API failures propagate.
func Run(request *Request) error {
	run, err := request.Service.LatestCompletedRun(request.BaseBranch)
	if errors.Is(err, hub.ErrNotFound) {
		common.Debug("No completed runs on base branch %q; nothing to compare.", request.BaseBranch)
		return nil
	}
	if err != nil {
		return err
	}

	candidates, err := request.Service.ListRunArtifacts(run.ID)
	if err != nil {
		return err
	}

	directory := filepath.Join(common.ProductTempName(), "base-branch")
	found := 0
	for _, candidate := range candidates {
		if candidate.Name != request.ArtifactName {
			continue
		}
		path, err := request.Service.DownloadArtifact(candidate, directory)
		if errors.Is(err, hub.ErrNotFound) {
			continue
		}
		if err != nil {
			return err
		}
		found += 1
		pretty.Highlight("Prior SBOM from branch %q (run %d) available at %q.", request.BaseBranch, run.ID, path)
	}
	if found == 0 {
		common.Debug("Base branch run %d has no artifact named %q; nothing to compare.", run.ID, request.ArtifactName)
	}
	return nil
}
