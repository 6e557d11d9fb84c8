package cli

import (
	"context"
	"strconv"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tcfw/forkchain/internal/config"
	"github.com/tcfw/forkchain/internal/utils/logging"
	"github.com/tcfw/forkchain/pkg/chain"
)

var (
	mineCmd = &cobra.Command{
		Use:   "mine",
		Short: "mine a chain from genesis, one header per extrinsic",
		RunE:  runMine,
	}
)

func init() {
	mineCmd.Flags().StringSliceP("extrinsic", "x", []string{}, "extrinsic value of each mined header. Can be used multiple times")
	mineCmd.Flags().StringP("out", "o", "-", "file to write the chain to. '-' writes to stdout")
	mineCmd.Flags().IntP("workers", "w", 0, "parallel mining workers")

	viper.BindPFlag(config.Cfg_mining_workers, mineCmd.Flags().Lookup("workers"))
}

func runMine(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	raw, _ := cmd.Flags().GetStringSlice("extrinsic")
	out, _ := cmd.Flags().GetString("out")

	extrinsics, err := parseExtrinsics(raw)
	if err != nil {
		return err
	}

	miner, err := newMiner()
	if err != nil {
		return errors.Wrap(err, "creating miner")
	}

	headers := []chain.Header{chain.Genesis()}
	for _, x := range extrinsics {
		h, err := miner.MineChildContext(ctx, headers[len(headers)-1], x)
		if err != nil {
			return errors.Wrap(err, "mining header")
		}

		logging.WithFields(logging.Fields{
			"height": h.Height,
			"state":  h.State,
			"nonce":  h.Nonce,
		}).Info("mined header")

		headers = append(headers, h)
	}

	return writeChainFile(out, &chainFile{
		Hasher:  viper.GetString(config.Cfg_chain_hasher),
		Headers: headers,
	})
}

func parseExtrinsics(raw []string) ([]uint64, error) {
	out := make([]uint64, 0, len(raw))
	for _, r := range raw {
		x, err := strconv.ParseUint(r, 10, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "parsing extrinsic %q", r)
		}
		out = append(out, x)
	}
	return out, nil
}
