package common

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const (
	Version = "v0.9.1"
)

var (
	LogLinenumbers bool
	LogHides       []string

	// When is the process start timestamp, used for nonce generation
	// and temp file naming.
	When int64

	debugFlag  bool
	traceFlag  bool
	silentFlag bool

	Product ProductStrategy
)

func init() {
	When = time.Now().Unix()
	Product = SbomStageMode()
}

func UnifyVerbosityFlags() {
	if silentFlag {
		debugFlag = false
		traceFlag = false
	}
	if traceFlag {
		debugFlag = true
	}
}

func DefineVerbosityFlags(debug, trace, silent bool) {
	debugFlag = debug
	traceFlag = trace
	silentFlag = silent
	UnifyVerbosityFlags()
}

func DebugFlag() bool {
	return debugFlag
}

func TraceFlag() bool {
	return traceFlag
}

func Silent() bool {
	return silentFlag
}

func UserAgent() string {
	return fmt.Sprintf("sbomstage/%s", Version)
}

func UserHomeIdentity() string {
	location, err := os.UserHomeDir()
	if err != nil {
		return "badcafe"
	}
	return filepath.Base(location)
}

func ExpandPath(entry string) string {
	intermediate := os.ExpandEnv(entry)
	result, err := filepath.Abs(intermediate)
	if err != nil {
		return intermediate
	}
	return result
}

// BinLocation is where provisioned external binaries are cached.
func BinLocation() string {
	return filepath.Join(Product.Home(), "bin")
}

// ProductTempRoot holds per-run scratch space, keyed by process start time.
func ProductTempRoot() string {
	return filepath.Join(Product.Home(), "tmp")
}

func ProductTempName() string {
	return filepath.Join(ProductTempRoot(), fmt.Sprintf("run%x", When))
}
