package reconcile

import (
	"errors"

	"github.com/veldtlabs/sbomstage/common"
	"github.com/veldtlabs/sbomstage/hub"
)

// Strategy is one place to look for candidate artifacts. Strategies
// are tried in order; the next one runs only when the previous found
// nothing.
type Strategy interface {
	Label() string
	Find() ([]hub.Artifact, error)
}

// CurrentRun searches the artifacts produced by the ongoing workflow
// run.
type CurrentRun struct {
	Service hub.Service
	RunID   int64
}

func (it *CurrentRun) Label() string {
	return "current workflow run"
}

func (it *CurrentRun) Find() ([]hub.Artifact, error) {
	return it.Service.ListRunArtifacts(it.RunID)
}

// HistoricalRun searches the most recent completed workflow run on a
// branch or commit. A branch without completed runs is an empty
// result, not a failure.
type HistoricalRun struct {
	Service hub.Service
	Branch  string
}

func (it *HistoricalRun) Label() string {
	return "latest run on " + it.Branch
}

func (it *HistoricalRun) Find() ([]hub.Artifact, error) {
	run, err := it.Service.LatestCompletedRun(it.Branch)
	if errors.Is(err, hub.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return it.Service.ListRunArtifacts(run.ID)
}

// FindMatching applies the matcher over each strategy in order and
// returns the first non-empty filtered result.
func FindMatching(strategies []Strategy, match Matcher) ([]hub.Artifact, error) {
	for _, strategy := range strategies {
		candidates, err := strategy.Find()
		if err != nil {
			return nil, err
		}
		found := make([]hub.Artifact, 0, len(candidates))
		for _, candidate := range candidates {
			if match(candidate.Name) {
				found = append(found, candidate)
			}
		}
		common.Debug("Strategy %q found %d of %d artifacts.", strategy.Label(), len(found), len(candidates))
		if len(found) > 0 {
			return found, nil
		}
	}
	return nil, nil
}
