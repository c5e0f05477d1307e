package common

import "os"

const (
	SBOMSTAGE_HOME_VARIABLE = `SBOMSTAGE_HOME`
	SBOMSTAGE_PRODUCT_NAME  = `SBOMSTAGE_PRODUCT_NAME`
	SBOMSTAGE_NAME          = `SBOMSTAGE`

	defaultStageLocation = `$HOME/.sbomstage`
)

type (
	ProductStrategy interface {
		Name() string
		ForceHome(string)
		HomeVariable() string
		Home() string
		DefaultSettingsYamlFile() string
	}

	stageStrategy struct {
		forcedHome string
	}
)

func SbomStageMode() ProductStrategy {
	return &stageStrategy{}
}

func (it *stageStrategy) Name() string {
	if value := os.Getenv(SBOMSTAGE_PRODUCT_NAME); len(value) > 0 {
		return value
	}
	return SBOMSTAGE_NAME
}

func (it *stageStrategy) ForceHome(value string) {
	it.forcedHome = value
}

func (it *stageStrategy) HomeVariable() string {
	return SBOMSTAGE_HOME_VARIABLE
}

func (it *stageStrategy) Home() string {
	if len(it.forcedHome) > 0 {
		return ExpandPath(it.forcedHome)
	}
	home := os.Getenv(SBOMSTAGE_HOME_VARIABLE)
	if len(home) > 0 {
		return ExpandPath(home)
	}
	return ExpandPath(defaultStageLocation)
}

func (it *stageStrategy) DefaultSettingsYamlFile() string {
	return "settings.yaml"
}
