package xviper

import (
	"path/filepath"
	"sync"

	"github.com/spf13/viper"
	"github.com/veldtlabs/sbomstage/common"
	"github.com/veldtlabs/sbomstage/pathlib"
)

// xviper is a serialized facade over viper for the small persistent
// state this tool carries between separate invocations in one job.

type config struct {
	mutex    sync.Mutex
	inner    *viper.Viper
	location string
}

var runtime = &config{}

func (it *config) summon() *viper.Viper {
	wanted := filepath.Join(common.Product.Home(), "sbomstage.yaml")
	if it.inner != nil && it.location == wanted {
		return it.inner
	}
	it.inner = viper.New()
	it.location = wanted
	it.inner.SetConfigFile(wanted)
	it.inner.SetConfigType("yaml")
	if pathlib.IsFile(wanted) {
		err := it.inner.ReadInConfig()
		if err != nil {
			common.Uncritical("xviper", err)
		}
	}
	return it.inner
}

func (it *config) save() {
	if it.inner == nil {
		return
	}
	err := pathlib.EnsureDirectory(filepath.Dir(it.location))
	if err == nil {
		err = it.inner.WriteConfigAs(it.location)
	}
	if err != nil {
		common.Uncritical("xviper", err)
	}
}

// Reset drops the in-memory state so that the next access reloads the
// backing file. Used by tests when the product home moves.
func Reset() {
	runtime.mutex.Lock()
	defer runtime.mutex.Unlock()
	runtime.inner = nil
	runtime.location = ""
}

func Set(key string, value interface{}) {
	runtime.mutex.Lock()
	defer runtime.mutex.Unlock()
	runtime.summon().Set(key, value)
	runtime.save()
}

func Get(key string) interface{} {
	runtime.mutex.Lock()
	defer runtime.mutex.Unlock()
	return runtime.summon().Get(key)
}

func GetString(key string) string {
	runtime.mutex.Lock()
	defer runtime.mutex.Unlock()
	return runtime.summon().GetString(key)
}

func IsSet(key string) bool {
	runtime.mutex.Lock()
	defer runtime.mutex.Unlock()
	return runtime.summon().IsSet(key)
}
