package hub

import (
	"errors"
	"fmt"

	"github.com/veldtlabs/sbomstage/cloud"
)

// ErrNotFound marks lookups whose subject does not exist. It is a
// normal outcome for best-effort features, not a failure.
var ErrNotFound = errors.New("not found")

// RemoteApiError is any provider call failure that is not a plain
// "not found" answer.
type RemoteApiError struct {
	Method string
	Path   string
	Status int
	Hint   string
}

func (it *RemoteApiError) Error() string {
	return fmt.Sprintf("remote API failure: %s %s -> HTTP %d (%s)", it.Method, it.Path, it.Status, it.Hint)
}

func excerpt(body []byte) string {
	limit := 160
	if len(body) < limit {
		limit = len(body)
	}
	return string(body[:limit])
}

func asError(response *cloud.Response, method, path string) error {
	if response.Status == 404 {
		return fmt.Errorf("%w: %s %s", ErrNotFound, method, path)
	}
	if response.Status < 200 || response.Status >= 300 {
		hint := excerpt(response.Body)
		if response.Err != nil {
			hint = response.Err.Error()
		}
		return &RemoteApiError{Method: method, Path: path, Status: response.Status, Hint: hint}
	}
	return nil
}
