package provision

import (
	"archive/tar"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/veldtlabs/sbomstage/cloud"
	"github.com/veldtlabs/sbomstage/common"
	"github.com/veldtlabs/sbomstage/fail"
	"github.com/veldtlabs/sbomstage/pathlib"
	"github.com/veldtlabs/sbomstage/pretty"
	"github.com/veldtlabs/sbomstage/settings"
)

const (
	// SyftPathVariable lets callers point at a preinstalled scanner
	// binary, bypassing download and cache.
	SyftPathVariable = `SBOMSTAGE_SYFT_PATH`
)

func binaryName() string {
	if runtime.GOOS == "windows" {
		return "syft.exe"
	}
	return "syft"
}

// CachedSyft is the cache location for given scanner version.
func CachedSyft(version string) string {
	return filepath.Join(common.BinLocation(), "syft", version, binaryName())
}

// DownloadUrl resolves the release archive location for this platform.
func DownloadUrl(version string) string {
	return fmt.Sprintf(settings.Global.SyftDownloadTemplate(), version, runtime.GOOS, runtime.GOARCH)
}

// Syft locates or fetches the scanner binary and returns its path.
func Syft(version string) (path string, err error) {
	defer fail.Around(&err)

	if override := os.Getenv(SyftPathVariable); len(override) > 0 {
		fail.On(!pathlib.IsFile(override), "%s points to %q which is not a file.", SyftPathVariable, override)
		common.Debug("Using scanner override %q.", override)
		return override, nil
	}

	cached := CachedSyft(version)
	if pathlib.IsFile(cached) {
		common.Debug("Using cached scanner %q.", cached)
		return cached, nil
	}

	_, err = pathlib.EnsureSpace(pathlib.TempDir(), 200)
	fail.Fast(err)

	url := DownloadUrl(version)
	pretty.Highlight("Downloading syft v%s ...", version)
	tarball := filepath.Join(pathlib.TempDir(), fmt.Sprintf("syft%x.tar.gz", common.When))
	defer os.Remove(tarball)

	err = cloud.Download(url, tarball)
	fail.Fast(err)

	err = untarBinary(tarball, binaryName(), cached)
	fail.Fast(err)

	err = os.Chmod(cached, 0o755)
	fail.Fast(err)

	common.Log("Scanner cached at %q.", cached)
	return cached, nil
}

// UntarBinaryForTest is exported for testing purposes
func UntarBinaryForTest(tarball, wanted, filename string) error {
	return untarBinary(tarball, wanted, filename)
}

// untarBinary pulls one named entry out of a gzipped tarball.
func untarBinary(tarball, wanted, filename string) (err error) {
	defer fail.Around(&err)

	source, err := os.Open(tarball)
	fail.On(err != nil, "Failed to open %q -> %v", tarball, err)
	defer source.Close()

	unzipped, err := gzip.NewReader(source)
	fail.On(err != nil, "Failed to create %q reader -> %v", tarball, err)
	defer unzipped.Close()

	archive := tar.NewReader(unzipped)
	for {
		header, err := archive.Next()
		fail.On(err == io.EOF, "Entry %q missing from %q.", wanted, tarball)
		fail.On(err != nil, "Failed to read %q -> %v", tarball, err)
		if header.Typeflag != tar.TypeReg {
			continue
		}
		if filepath.Base(strings.TrimSpace(header.Name)) != wanted {
			continue
		}
		sink, err := pathlib.Create(filename)
		fail.On(err != nil, "Failed to create %q -> %v", filename, err)
		defer sink.Close()

		_, err = io.Copy(sink, archive)
		fail.On(err != nil, "Failed to copy %q to %q -> %v", wanted, filename, err)

		err = sink.Sync()
		fail.On(err != nil, "Failed to sync %q -> %v", filename, err)
		return nil
	}
}
