package operations

import (
	"encoding/json"
	"os"
	"strconv"
	"strings"

	"github.com/veldtlabs/sbomstage/common"
	"github.com/veldtlabs/sbomstage/fail"
	"github.com/veldtlabs/sbomstage/hub"
)

// Context is the ambient CI job identity, read from the runner's
// environment once per run.
type Context struct {
	Repo      hub.Repo
	Job       string
	Step      string
	EventName string
	Ref       string
	BaseRef   string
	RunID     int64
}

func CurrentContext() (context *Context, err error) {
	defer fail.Around(&err)

	slug := os.Getenv("GITHUB_REPOSITORY")
	parts := strings.SplitN(slug, "/", 2)
	fail.On(len(parts) != 2 || len(parts[0]) == 0 || len(parts[1]) == 0, "GITHUB_REPOSITORY %q is not owner/name.", slug)

	runID := int64(0)
	if value := os.Getenv("GITHUB_RUN_ID"); len(value) > 0 {
		runID, err = strconv.ParseInt(value, 10, 64)
		fail.On(err != nil, "GITHUB_RUN_ID %q is not a number.", value)
	}

	return &Context{
		Repo:      hub.Repo{Owner: parts[0], Name: parts[1]},
		Job:       os.Getenv("GITHUB_JOB"),
		Step:      os.Getenv("GITHUB_ACTION"),
		EventName: os.Getenv("GITHUB_EVENT_NAME"),
		Ref:       os.Getenv("GITHUB_REF"),
		BaseRef:   os.Getenv("GITHUB_BASE_REF"),
		RunID:     runID,
	}, nil
}

func (it *Context) IsPullRequest() bool {
	return it.EventName == "pull_request" || it.EventName == "pull_request_target"
}

// ReleaseTag resolves the tag a reconciliation pass should target.
// Release events carry the tag in the event payload; tag pushes carry
// it in the ref. The second result tells whether this is a genuine
// release event (which enables the historical fallback search), the
// third whether reconciliation applies at all.
func (it *Context) ReleaseTag(refPrefix string) (tag string, releaseEvent bool, active bool) {
	if it.EventName == "release" {
		tag = eventReleaseTag()
		if len(tag) == 0 {
			common.Debug("Release event without a tag in the payload; skipping reconciliation.")
			return "", false, false
		}
		return tag, true, true
	}
	if it.EventName == "push" && len(refPrefix) > 0 && strings.HasPrefix(it.Ref, refPrefix) {
		tag = strings.TrimPrefix(it.Ref, refPrefix)
		if len(tag) == 0 {
			return "", false, false
		}
		return tag, false, true
	}
	return "", false, false
}

type eventPayload struct {
	Release struct {
		TagName         string `json:"tag_name"`
		TargetCommitish string `json:"target_commitish"`
	} `json:"release"`
}

func eventReleaseTag() string {
	location := os.Getenv("GITHUB_EVENT_PATH")
	if len(location) == 0 {
		return ""
	}
	blob, err := os.ReadFile(location)
	if err != nil {
		common.Uncritical("event payload", err)
		return ""
	}
	var payload eventPayload
	err = json.Unmarshal(blob, &payload)
	if err != nil {
		common.Uncritical("event payload", err)
		return ""
	}
	return payload.Release.TagName
}
