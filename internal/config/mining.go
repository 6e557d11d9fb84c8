package config

import (
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

type Mining struct {
	Workers int
}

const (
	Cfg_mining_workers = "mining.workers"
)

var (
	miningDefaults = map[string]interface{}{
		Cfg_mining_workers: 1,
	}
)

func init() {
	for k, v := range miningDefaults {
		viper.SetDefault(k, v)
	}
}

func buildMiningConfig() (*Mining, error) {
	c := &Mining{
		Workers: viper.GetInt(Cfg_mining_workers),
	}

	if c.Workers <= 0 {
		return nil, errors.Errorf("%s must be positive: %d", Cfg_mining_workers, c.Workers)
	}

	return c, nil
}
