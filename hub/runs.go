package hub

import (
	"fmt"
	"net/url"

	"github.com/veldtlabs/sbomstage/common"
)

type runListing struct {
	TotalCount   int            `json:"total_count"`
	WorkflowRuns []*WorkflowRun `json:"workflow_runs"`
}

// LatestCompletedRun finds the most recent completed workflow run on
// given branch. A branch without completed runs yields ErrNotFound.
func (it *Client) LatestCompletedRun(branch string) (*WorkflowRun, error) {
	path := fmt.Sprintf("/repos/%s/actions/runs?branch=%s&status=completed&per_page=1", it.repo.Slug(), url.QueryEscape(branch))
	var listing runListing
	err := it.getJson(path, &listing)
	if err != nil {
		return nil, err
	}
	if len(listing.WorkflowRuns) == 0 {
		return nil, fmt.Errorf("%w: no completed workflow runs on branch %q", ErrNotFound, branch)
	}
	run := listing.WorkflowRuns[0]
	common.Debug("Latest completed run on %q is %d (event %q, sha %s).", branch, run.ID, run.Event, run.HeadSHA)
	return run, nil
}
