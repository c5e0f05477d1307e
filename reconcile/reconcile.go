package reconcile

import (
	"os"
	"path/filepath"

	"github.com/veldtlabs/sbomstage/common"
	"github.com/veldtlabs/sbomstage/fail"
	"github.com/veldtlabs/sbomstage/hub"
	"github.com/veldtlabs/sbomstage/pretty"
)

const assetContentType = "text/plain"

// Request carries everything one reconciliation pass needs.
type Request struct {
	Service         hub.Service
	RunID           int64
	ArtifactName    string
	ExplicitPattern string
	Release         *hub.Release
	ReleaseEvent    bool
}

// Run finds artifacts matching the configured pattern and republishes
// them as assets of the release. Nothing matching is a normal outcome
// unless the user supplied the pattern themselves.
func Run(request *Request) error {
	pattern := request.ExplicitPattern
	explicit := len(pattern) > 0
	if !explicit {
		pattern = DefaultPattern(request.ArtifactName)
	}
	match, err := CompileMatcher(pattern)
	if err != nil {
		return err
	}

	strategies := []Strategy{
		&CurrentRun{Service: request.Service, RunID: request.RunID},
	}
	if request.ReleaseEvent {
		strategies = append(strategies, &HistoricalRun{
			Service: request.Service,
			Branch:  request.Release.TargetCommitish,
		})
	}

	matched, err := FindMatching(strategies, match)
	if err != nil {
		return err
	}
	if len(matched) == 0 {
		if explicit {
			pretty.Warning("No artifacts matched pattern %q; nothing attached to release %q.", pattern, request.Release.TagName)
		} else {
			common.Debug("No artifacts named %q; nothing to attach to release %q.", request.ArtifactName, request.Release.TagName)
		}
		return nil
	}

	return Assets(request.Service, request.Release, matched)
}

// Assets republishes the matched artifacts as release assets, one at
// a time in listing order. A same-named asset is deleted first; the
// provider has no in-place replace. No rollback on partial failure.
func Assets(service hub.Service, release *hub.Release, matched []hub.Artifact) (err error) {
	defer fail.Around(&err)

	directory := filepath.Join(common.ProductTempName(), "release-assets")
	for _, candidate := range matched {
		path, err := service.DownloadArtifact(candidate, directory)
		fail.Fast(err)

		blob, err := os.ReadFile(path)
		fail.Fast(err)

		assetName := filepath.Base(path)
		assets, err := service.ListAssets(release)
		fail.Fast(err)
		for _, asset := range assets {
			if asset.Name == assetName {
				fail.Fast(service.DeleteAsset(asset))
			}
		}

		_, err = service.UploadAsset(release, assetName, assetContentType, blob)
		fail.Fast(err)
	}
	return nil
}
