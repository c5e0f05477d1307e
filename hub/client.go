package hub

import (
	"encoding/json"
	"fmt"

	"github.com/veldtlabs/sbomstage/cloud"
	"github.com/veldtlabs/sbomstage/fail"
	"github.com/veldtlabs/sbomstage/settings"
)

// Client talks to the provider's REST surface through the cloud
// client abstraction. Uploads go to a separate host.
type Client struct {
	repo    Repo
	api     cloud.Client
	uploads cloud.Client
	token   string
}

func NewClient(repo Repo, token string) (client *Client, err error) {
	defer fail.Around(&err)

	fail.On(len(repo.Owner) == 0 || len(repo.Name) == 0, "Repository identity is incomplete: %q.", repo.Slug())

	api, err := cloud.NewClient(settings.Global.GithubApiEndpoint())
	fail.Fast(err)
	uploads, err := cloud.NewClient(settings.Global.GithubUploadsEndpoint())
	fail.Fast(err)

	return &Client{
		repo:    repo,
		api:     api,
		uploads: uploads,
		token:   token,
	}, nil
}

// NewClientWith is exported for testing purposes
func NewClientWith(repo Repo, token string, api, uploads cloud.Client) *Client {
	return &Client{repo: repo, api: api, uploads: uploads, token: token}
}

func (it *Client) decorate(request *cloud.Request) *cloud.Request {
	request.Headers["Accept"] = "application/vnd.github+json"
	request.Headers["X-GitHub-Api-Version"] = "2022-11-28"
	if len(it.token) > 0 {
		request.Headers["Authorization"] = fmt.Sprintf("Bearer %s", it.token)
	}
	return request
}

func (it *Client) getJson(path string, sink interface{}) error {
	request := it.decorate(it.api.NewRequest(path))
	response := it.api.Get(request)
	err := asError(response, "GET", path)
	if err != nil {
		return err
	}
	return json.Unmarshal(response.Body, sink)
}
