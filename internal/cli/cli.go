package cli

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tcfw/forkchain/internal/config"
	"github.com/tcfw/forkchain/internal/utils/logging"
	"github.com/tcfw/forkchain/pkg/consensus"
)

var (
	rootCmd = &cobra.Command{
		Use:               "forkchain",
		Short:             "mine and validate hash linked header chains under swappable consensus rules",
		PersistentPreRunE: loadConfig,
		SilenceUsage:      true,
	}

	cfg *config.Config
)

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "increase verbosity")
	rootCmd.PersistentFlags().String("hasher", "", "header hasher (sha3-256|blake2b-256|keccak256)")
	rootCmd.PersistentFlags().Uint64("difficulty", 0, "accept roughly 1 in N digests")

	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	viper.BindPFlag(config.Cfg_chain_hasher, rootCmd.PersistentFlags().Lookup("hasher"))
	viper.BindPFlag(config.Cfg_chain_difficulty, rootCmd.PersistentFlags().Lookup("difficulty"))

	regCommands()
}

func Execute() error {
	return rootCmd.Execute()
}

func loadConfig(cmd *cobra.Command, args []string) error {
	c, err := config.GetConfig()
	if err != nil {
		return errors.Wrap(err, "loading config")
	}
	cfg = c

	return nil
}

func newMiner() (*consensus.Miner, error) {
	return consensus.NewMiner(
		consensus.WithMinerHasher(cfg.Chain().Hasher),
		consensus.WithMinerParams(cfg.Chain().PoW),
		consensus.WithWorkers(cfg.Mining().Workers),
		consensus.WithMinerLogger(logging.Logger()),
	)
}

func newValidator() (*consensus.Validator, error) {
	return consensus.NewValidator(
		consensus.WithHasher(cfg.Chain().Hasher),
		consensus.WithParams(cfg.Chain().PoW),
		consensus.WithLogger(logging.Logger()),
	)
}
