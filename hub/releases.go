package hub

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/veldtlabs/sbomstage/common"
)

// ReleaseByTag looks a release up by its tag name. A tag without a
// release yields ErrNotFound.
func (it *Client) ReleaseByTag(tag string) (*Release, error) {
	path := fmt.Sprintf("/repos/%s/releases/tags/%s", it.repo.Slug(), url.PathEscape(tag))
	var release Release
	err := it.getJson(path, &release)
	if err != nil {
		return nil, err
	}
	return &release, nil
}

// ListAssets lists the assets currently attached to given release.
func (it *Client) ListAssets(release *Release) ([]Asset, error) {
	path := fmt.Sprintf("/repos/%s/releases/%d/assets?per_page=100", it.repo.Slug(), release.ID)
	var assets []Asset
	err := it.getJson(path, &assets)
	if err != nil {
		return nil, err
	}
	return assets, nil
}

// UploadAsset attaches a new asset to the release. Name collisions are
// the caller's problem; the provider rejects duplicates.
func (it *Client) UploadAsset(release *Release, name, contentType string, blob []byte) (*Asset, error) {
	path := fmt.Sprintf("/repos/%s/releases/%d/assets?name=%s", it.repo.Slug(), release.ID, url.QueryEscape(name))
	request := it.decorate(it.uploads.NewRequest(path))
	request.Headers["Content-Type"] = contentType
	request.Body = bytes.NewReader(blob)
	request.ContentLength = int64(len(blob))
	response := it.uploads.Post(request)
	err := asError(response, "POST", path)
	if err != nil {
		return nil, err
	}
	var asset Asset
	err = json.Unmarshal(response.Body, &asset)
	if err != nil {
		return nil, err
	}
	common.Log("Uploaded release asset %q (%d bytes) to release %q.", name, len(blob), release.TagName)
	return &asset, nil
}

// DeleteAsset removes an asset. The provider has no in-place replace,
// so collision handling is delete then upload.
func (it *Client) DeleteAsset(asset Asset) error {
	path := fmt.Sprintf("/repos/%s/releases/assets/%d", it.repo.Slug(), asset.ID)
	request := it.decorate(it.api.NewRequest(path))
	response := it.api.Delete(request)
	err := asError(response, "DELETE", path)
	if err != nil {
		return err
	}
	common.Debug("Deleted release asset %q (%d).", asset.Name, asset.ID)
	return nil
}
