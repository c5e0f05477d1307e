package settings_test

import (
	"testing"

	"github.com/veldtlabs/sbomstage/hamlet"
	"github.com/veldtlabs/sbomstage/settings"
)

func TestThatDefaultValuesAreVisible(t *testing.T) {
	must_be, wont_be := hamlet.Specifications(t)

	t.Setenv("GITHUB_API_URL", "")

	sut, err := settings.SummonSettings()
	must_be.Nil(err)
	wont_be.Nil(sut)

	must_be.Equal("https://api.github.com", settings.Global.GithubApiEndpoint())
	must_be.Equal("https://uploads.github.com", settings.Global.GithubUploadsEndpoint())
	must_be.True(len(settings.Global.SyftVersion()) > 0)
	must_be.Equal("", settings.Global.HttpProxy())
	must_be.Equal("", settings.Global.HttpsProxy())
	must_be.Equal("", settings.Global.NoProxy())
	must_be.True(len(settings.Global.Hostnames()) >= 2)
}

func TestApiEndpointHonorsProviderEnvironment(t *testing.T) {
	must_be, _ := hamlet.Specifications(t)

	t.Setenv("GITHUB_API_URL", "https://ghe.example.com/api/v3")
	must_be.Equal("https://ghe.example.com/api/v3", settings.Global.GithubApiEndpoint())
}

func TestSettingsRoundtrip(t *testing.T) {
	must_be, wont_be := hamlet.Specifications(t)

	content := []byte(`
github:
  api-endpoint: https://ghe.internal/api/v3
syft:
  version: 1.19.0
network:
  https-proxy: http://proxy.internal:3128
`)
	sut, err := settings.FromBytes(content)
	must_be.Nil(err)
	wont_be.Nil(sut)
	must_be.Equal("https://ghe.internal/api/v3", sut.Github.ApiEndpoint)
	must_be.Equal("1.19.0", sut.Syft.Version)
	must_be.Equal("http://proxy.internal:3128", sut.Network.HttpsProxy)

	blob, err := sut.AsYaml()
	must_be.Nil(err)
	again, err := settings.FromBytes(blob)
	must_be.Nil(err)
	must_be.Equal(sut.Github.ApiEndpoint, again.Github.ApiEndpoint)
}
