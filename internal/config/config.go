package config

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

var (
	defaults = map[string]interface{}{
		"verbose": false,
	}
)

func init() {
	for k, v := range defaults {
		viper.SetDefault(k, v)
	}
}

func GetConfig() (*Config, error) {
	viper.SetConfigType("yaml")
	viper.SetConfigName("forkchain")
	viper.AddConfigPath("/etc/forkchain/")
	viper.AddConfigPath("$HOME/.forkchain")
	viper.AddConfigPath(".")
	viper.SetEnvPrefix("FORKCHAIN")
	viper.AutomaticEnv()
	err := viper.ReadInConfig()
	if err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found; ignore error
			logrus.Debug("no config found")
		} else {
			return nil, errors.Wrap(err, "reading config file")
		}
	}

	if viper.GetBool("verbose") {
		logrus.SetLevel(logrus.DebugLevel)
		logrus.WithField("level", "debug").Debug("setting log level")
	}

	return Build()
}

// Build assembles the config from the current viper state without
// reading a config file
func Build() (*Config, error) {
	var err error
	c := &Config{}

	c.chain, err = buildChainConfig()
	if err != nil {
		return nil, errors.Wrap(err, "chain config")
	}

	c.mining, err = buildMiningConfig()
	if err != nil {
		return nil, errors.Wrap(err, "mining config")
	}

	c.fork, err = buildForkConfig()
	if err != nil {
		return nil, errors.Wrap(err, "fork config")
	}

	return c, nil
}

type Config struct {
	chain  *Chain
	mining *Mining
	fork   *Fork
}

func (c *Config) Chain() *Chain {
	return c.chain
}

func (c *Config) Mining() *Mining {
	return c.mining
}

func (c *Config) Fork() *Fork {
	return c.fork
}
