package config

import (
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Fork configures the fork command. A zero ActivationHeight follows
// PrefixLength.
type Fork struct {
	PrefixLength     uint64
	SuffixLength     uint64
	ActivationHeight uint64
	MaxExtrinsic     int
	Seed             int64
}

const (
	Cfg_fork_prefixLength     = "fork.prefixLength"
	Cfg_fork_suffixLength     = "fork.suffixLength"
	Cfg_fork_activationHeight = "fork.activationHeight"
	Cfg_fork_maxExtrinsic     = "fork.maxExtrinsic"
	Cfg_fork_seed             = "fork.seed"
)

var (
	forkDefaults = map[string]interface{}{
		Cfg_fork_prefixLength:     2,
		Cfg_fork_suffixLength:     2,
		Cfg_fork_activationHeight: 0,
		Cfg_fork_maxExtrinsic:     100,
		Cfg_fork_seed:             0,
	}
)

func init() {
	for k, v := range forkDefaults {
		viper.SetDefault(k, v)
	}
}

func buildForkConfig() (*Fork, error) {
	c := &Fork{
		PrefixLength:     viper.GetUint64(Cfg_fork_prefixLength),
		SuffixLength:     viper.GetUint64(Cfg_fork_suffixLength),
		ActivationHeight: viper.GetUint64(Cfg_fork_activationHeight),
		MaxExtrinsic:     viper.GetInt(Cfg_fork_maxExtrinsic),
		Seed:             viper.GetInt64(Cfg_fork_seed),
	}

	if c.MaxExtrinsic <= 0 {
		return nil, errors.Errorf("%s must be positive: %d", Cfg_fork_maxExtrinsic, c.MaxExtrinsic)
	}

	return c, nil
}
