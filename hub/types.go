package hub

import "fmt"

// Repo identifies one repository on the provider.
type Repo struct {
	Owner string
	Name  string
}

func (it Repo) Slug() string {
	return fmt.Sprintf("%s/%s", it.Owner, it.Name)
}

// WorkflowRun is one execution instance of a CI pipeline definition.
type WorkflowRun struct {
	ID         int64  `json:"id"`
	HeadBranch string `json:"head_branch"`
	HeadSHA    string `json:"head_sha"`
	Status     string `json:"status"`
	Event      string `json:"event"`
}

// Artifact is a read-only handle to a named file blob retained by a
// workflow run. Its lifetime is bounded by the provider's retention
// policy, never by this tool.
type Artifact struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	SizeInBytes int64  `json:"size_in_bytes"`
	Expired     bool   `json:"expired"`
}

// Release is fetched, never created, by this tool.
type Release struct {
	ID              int64  `json:"id"`
	TagName         string `json:"tag_name"`
	TargetCommitish string `json:"target_commitish"`
	Draft           bool   `json:"draft"`
}

// Asset is a downloadable file attached to a release. There is no
// in-place update primitive; replacement is delete then upload.
type Asset struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Service is the provider surface the flows depend on. The concrete
// Client talks to GitHub; tests substitute fakes.
type Service interface {
	LatestCompletedRun(branch string) (*WorkflowRun, error)
	ListRunArtifacts(runID int64) ([]Artifact, error)
	DownloadArtifact(artifact Artifact, directory string) (string, error)
	UploadArtifact(runID int64, name, filename string) (*Artifact, error)
	ReleaseByTag(tag string) (*Release, error)
	ListAssets(release *Release) ([]Asset, error)
	UploadAsset(release *Release, name, contentType string, blob []byte) (*Asset, error)
	DeleteAsset(asset Asset) error
}
