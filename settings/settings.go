package settings

import (
	"net/http"
	"net/url"
	"os"
	"path/filepath"

	"github.com/veldtlabs/sbomstage/common"
	"github.com/veldtlabs/sbomstage/pathlib"
	"github.com/veldtlabs/sbomstage/set"

	"gopkg.in/yaml.v2"
)

const (
	defaultGithubApi        = "https://api.github.com"
	defaultGithubUploads    = "https://uploads.github.com"
	defaultSyftVersion      = "1.18.1"
	defaultDownloadTemplate = "https://github.com/anchore/syft/releases/download/v%[1]s/syft_%[1]s_%[2]s_%[3]s.tar.gz"
)

type Github struct {
	ApiEndpoint     string `yaml:"api-endpoint,omitempty"`
	UploadsEndpoint string `yaml:"uploads-endpoint,omitempty"`
}

type Syft struct {
	Version          string `yaml:"version,omitempty"`
	DownloadTemplate string `yaml:"download-template,omitempty"`
}

type Network struct {
	HttpsProxy string `yaml:"https-proxy,omitempty"`
	HttpProxy  string `yaml:"http-proxy,omitempty"`
	NoProxy    string `yaml:"no-proxy,omitempty"`
}

type Settings struct {
	Github  *Github  `yaml:"github,omitempty"`
	Syft    *Syft    `yaml:"syft,omitempty"`
	Network *Network `yaml:"network,omitempty"`
}

func Empty() *Settings {
	return &Settings{
		Github:  &Github{},
		Syft:    &Syft{},
		Network: &Network{},
	}
}

func FromBytes(raw []byte) (*Settings, error) {
	var settings Settings
	err := yaml.Unmarshal(raw, &settings)
	if err != nil {
		return nil, err
	}
	if settings.Github == nil {
		settings.Github = &Github{}
	}
	if settings.Syft == nil {
		settings.Syft = &Syft{}
	}
	if settings.Network == nil {
		settings.Network = &Network{}
	}
	return &settings, nil
}

func (it *Settings) AsYaml() ([]byte, error) {
	return yaml.Marshal(it)
}

func SettingsFileLocation() string {
	return filepath.Join(common.Product.Home(), common.Product.DefaultSettingsYamlFile())
}

var chosen *Settings

// SummonSettings loads the operator settings file once; a missing file
// yields built-in defaults.
func SummonSettings() (*Settings, error) {
	if chosen != nil {
		return chosen, nil
	}
	location := SettingsFileLocation()
	if !pathlib.IsFile(location) {
		chosen = Empty()
		return chosen, nil
	}
	raw, err := os.ReadFile(location)
	if err != nil {
		return nil, err
	}
	settings, err := FromBytes(raw)
	if err != nil {
		return nil, err
	}
	common.Trace("settings loaded from %q", location)
	chosen = settings
	return chosen, nil
}

func summoned() *Settings {
	settings, err := SummonSettings()
	if err != nil {
		common.Uncritical("settings", err)
		return Empty()
	}
	return settings
}

type gateway bool

var Global gateway

func pick(value, fallback string) string {
	if len(value) > 0 {
		return value
	}
	return fallback
}

func (it gateway) GithubApiEndpoint() string {
	if value := os.Getenv("GITHUB_API_URL"); len(value) > 0 {
		return value
	}
	return pick(summoned().Github.ApiEndpoint, defaultGithubApi)
}

func (it gateway) GithubUploadsEndpoint() string {
	return pick(summoned().Github.UploadsEndpoint, defaultGithubUploads)
}

func (it gateway) SyftVersion() string {
	return pick(summoned().Syft.Version, defaultSyftVersion)
}

func (it gateway) SyftDownloadTemplate() string {
	return pick(summoned().Syft.DownloadTemplate, defaultDownloadTemplate)
}

func (it gateway) HttpProxy() string {
	return summoned().Network.HttpProxy
}

func (it gateway) HttpsProxy() string {
	return summoned().Network.HttpsProxy
}

func (it gateway) NoProxy() string {
	return summoned().Network.NoProxy
}

func (it gateway) Hostnames() []string {
	result := []string{}
	for _, endpoint := range []string{it.GithubApiEndpoint(), it.GithubUploadsEndpoint(), it.SyftDownloadTemplate()} {
		parsed, err := url.Parse(endpoint)
		if err != nil || len(parsed.Hostname()) == 0 {
			continue
		}
		result = append(result, parsed.Hostname())
	}
	return set.Set(result)
}

// ConfiguredHttpTransport honors the proxy settings from the settings
// file, falling back to the process environment proxies.
func (it gateway) ConfiguredHttpTransport() *http.Transport {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	proxy := pick(it.HttpsProxy(), it.HttpProxy())
	if len(proxy) > 0 {
		link, err := url.Parse(proxy)
		if err != nil {
			common.Uncritical("proxy", err)
		} else {
			transport.Proxy = http.ProxyURL(link)
		}
	}
	return transport
}

// CriticalEnvironment exports the proxy settings for subprocesses, so
// that the external scanner sees the same network view.
func (it gateway) CriticalEnvironment() []string {
	result := []string{}
	if value := it.HttpProxy(); len(value) > 0 {
		result = append(result, "HTTP_PROXY="+value)
	}
	if value := it.HttpsProxy(); len(value) > 0 {
		result = append(result, "HTTPS_PROXY="+value)
	}
	if value := it.NoProxy(); len(value) > 0 {
		result = append(result, "NO_PROXY="+value)
	}
	return result
}
