package config

import (
	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"github.com/tcfw/forkchain/pkg/chain"
	"github.com/tcfw/forkchain/pkg/consensus"
)

type Chain struct {
	Hasher chain.Hasher
	PoW    consensus.Params
	Policy consensus.Policy
}

const (
	Cfg_chain_hasher     = "chain.hasher"
	Cfg_chain_difficulty = "chain.difficulty"
	Cfg_chain_policy     = "chain.policy"
)

var (
	chainDefaults = map[string]interface{}{
		Cfg_chain_hasher:     chain.HasherSHA3,
		Cfg_chain_difficulty: 100,
		Cfg_chain_policy:     "unconditional",
	}
)

func init() {
	for k, v := range chainDefaults {
		viper.SetDefault(k, v)
	}
}

func buildChainConfig() (*Chain, error) {
	c := &Chain{}
	var err error

	c.Hasher, err = chain.HasherByName(viper.GetString(Cfg_chain_hasher))
	if err != nil {
		return nil, err
	}

	c.PoW, err = consensus.ParamsFromDifficulty(viper.GetUint64(Cfg_chain_difficulty))
	if err != nil {
		return nil, errors.Wrap(err, Cfg_chain_difficulty)
	}

	c.Policy, err = consensus.ParsePolicy(viper.GetString(Cfg_chain_policy))
	if err != nil {
		return nil, errors.Wrap(err, Cfg_chain_policy)
	}

	return c, nil
}
