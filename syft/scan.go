package syft

import (
	"fmt"
	"os"

	"github.com/veldtlabs/sbomstage/common"
	"github.com/veldtlabs/sbomstage/pretty"
	"github.com/veldtlabs/sbomstage/settings"
	"github.com/veldtlabs/sbomstage/shell"
)

// ScanInput names what gets scanned: a container image reference or a
// local filesystem path. Exactly one of them is set for a valid run.
type ScanInput struct {
	Image string
	Path  string
}

func (it ScanInput) Empty() bool {
	return len(it.Image) == 0 && len(it.Path) == 0
}

func (it ScanInput) Contradictory() bool {
	return len(it.Image) > 0 && len(it.Path) > 0
}

func (it ScanInput) Label() string {
	if len(it.Image) > 0 {
		return it.Image
	}
	return it.Path
}

// ExecutionError marks a scanner subprocess that exited non-zero or
// produced no usable output.
type ExecutionError struct {
	Command string
	Code    int
	Cause   error
}

func (it *ExecutionError) Error() string {
	if it.Cause != nil {
		return fmt.Sprintf("SBOM generation with %q failed [exit %d]: %v", it.Command, it.Code, it.Cause)
	}
	return fmt.Sprintf("SBOM generation with %q failed [exit %d]", it.Command, it.Code)
}

// Command is one scanner invocation with all of its knobs resolved.
type Command struct {
	Binary           string
	Input            ScanInput
	Format           Format
	RegistryUsername string
	RegistryPassword string
	ExtraArgs        []string
}

func (it *Command) authenticated() bool {
	if len(it.RegistryUsername) > 0 && len(it.RegistryPassword) == 0 {
		pretty.Warning("registry-username given without registry-password; proceeding unauthenticated.")
		return false
	}
	return len(it.RegistryUsername) > 0 && len(it.RegistryPassword) > 0
}

func (it *Command) target(authenticated bool) string {
	if len(it.Input.Path) > 0 {
		return "dir:" + it.Input.Path
	}
	if authenticated {
		return "registry:" + it.Input.Image
	}
	return it.Input.Image
}

// Args assembles the scanner argument vector. The authenticated flag
// must match what Environment was built with.
func (it *Command) Args(authenticated bool) []string {
	args := []string{"packages", "-vv", it.target(authenticated), "-o", it.Format.Flag()}
	return append(args, it.ExtraArgs...)
}

// Environment carries credentials to the scanner out of band, so they
// never show up in process listings or logs.
func (it *Command) Environment(authenticated bool) []string {
	environment := append(os.Environ(), "SYFT_CHECK_FOR_APP_UPDATE=false")
	environment = append(environment, settings.Global.CriticalEnvironment()...)
	if authenticated {
		environment = append(environment,
			"SYFT_REGISTRY_AUTH_USERNAME="+it.RegistryUsername,
			"SYFT_REGISTRY_AUTH_PASSWORD="+it.RegistryPassword)
	}
	return environment
}

// Scan runs the scanner and returns the produced SBOM text.
func Scan(command *Command) (string, error) {
	authenticated := command.authenticated()
	args := command.Args(authenticated)
	environment := command.Environment(authenticated)

	common.Log("Scanning %q for SBOM in %s format.", command.Input.Label(), command.Format)
	stopwatch := common.Stopwatch("SBOM scan of %q lasted", command.Input.Label())
	defer stopwatch.Debug()

	task := shell.New(environment, ".", append([]string{command.Binary}, args...)...)
	if common.TraceFlag() {
		// -vv makes the scanner chatty; under trace the raw stream is
		// more useful than line-wrapped log entries
		task.StderrOnly()
	}
	output, code, err := task.CaptureOutput()
	if code != 0 || err != nil {
		common.Debug("scanner stdout on failure: %q", output)
		return "", &ExecutionError{Command: command.Binary, Code: code, Cause: err}
	}
	if len(output) == 0 {
		return "", &ExecutionError{Command: command.Binary, Code: 0, Cause: fmt.Errorf("scanner produced no output")}
	}
	return output, nil
}
