package xviper

import (
	"crypto/sha256"
	"fmt"
	"strings"

	"github.com/veldtlabs/sbomstage/common"
)

const (
	previousArtifactKey = `artifact.previous.name`
	previousRunKey      = `artifact.previous.run`
)

var (
	guidSteps = []int{4, 2, 2, 2, 6}
)

func AsGuid(content []byte) string {
	result := make([]string, 0, len(guidSteps))
	for _, step := range guidSteps {
		result = append(result, fmt.Sprintf("%02x", content[:step]))
		content = content[step:]
	}
	return strings.Join(result, "-")
}

// RunNonce identifies one process invocation: stable within the
// process, distinct across invocations. Recorded state entries carry
// it so their origin stays traceable.
func RunNonce() string {
	digester := sha256.New()
	fmt.Fprintf(digester, "nonce: %v/%v", common.When, common.UserHomeIdentity())
	return AsGuid(digester.Sum(nil))
}

// RecordArtifactName persists the published artifact name so that a
// later, separate invocation in the same job can discover it. This is
// the producer half of the handoff contract; PreviousArtifactName is
// the consumer half.
func RecordArtifactName(name string) {
	Set(previousArtifactKey, name)
	Set(previousRunKey, RunNonce())
}

func PreviousArtifactName() string {
	return GetString(previousArtifactKey)
}

// PreviousArtifactRun names the invocation that recorded the artifact
// name.
func PreviousArtifactRun() string {
	return GetString(previousRunKey)
}
