package cli

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tcfw/forkchain/internal/config"
	"github.com/tcfw/forkchain/pkg/chain"
	"github.com/tcfw/forkchain/pkg/consensus"
	"github.com/tcfw/forkchain/pkg/fork"
	"github.com/tcfw/forkchain/pkg/storage"
)

var (
	forkCmd = &cobra.Command{
		Use:   "fork",
		Short: "mine a contentious fork and show which policies accept each branch",
		RunE:  runFork,
	}
)

func init() {
	forkCmd.Flags().Uint64("prefix", 2, "headers after genesis shared by both branches")
	forkCmd.Flags().Uint64("suffix", 2, "headers on each branch")
	forkCmd.Flags().Uint64("activation", 0, "height above which the parity rules apply. 0 uses the prefix length")
	forkCmd.Flags().Int64("seed", 0, "random seed. 0 seeds from the clock")

	viper.BindPFlag(config.Cfg_fork_prefixLength, forkCmd.Flags().Lookup("prefix"))
	viper.BindPFlag(config.Cfg_fork_suffixLength, forkCmd.Flags().Lookup("suffix"))
	viper.BindPFlag(config.Cfg_fork_activationHeight, forkCmd.Flags().Lookup("activation"))
	viper.BindPFlag(config.Cfg_fork_seed, forkCmd.Flags().Lookup("seed"))
}

func runFork(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	fc := cfg.Fork()

	miner, err := newMiner()
	if err != nil {
		return errors.Wrap(err, "creating miner")
	}

	seed := fc.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	opts := []fork.Option{
		fork.WithMiner(miner),
		fork.WithSeed(seed),
		fork.WithPrefixLength(fc.PrefixLength),
		fork.WithSuffixLength(fc.SuffixLength),
		fork.WithMaxExtrinsic(fc.MaxExtrinsic),
	}
	if fc.ActivationHeight != 0 {
		opts = append(opts, fork.WithActivationHeight(fc.ActivationHeight))
	}

	b, err := fork.NewBuilder(opts...)
	if err != nil {
		return errors.Wrap(err, "creating fork builder")
	}

	f := b.Build()

	store := storage.NewMemStore(cfg.Chain().Hasher)
	for _, branch := range [][]chain.Header{f.Prefix, f.Even, f.Odd} {
		for _, h := range branch {
			if _, err := store.PutHeader(ctx, h); err != nil {
				return errors.Wrap(err, "storing header")
			}
		}
	}

	v, err := newValidator()
	if err != nil {
		return errors.Wrap(err, "creating validator")
	}
	tv, err := storage.NewTipValidator(store, v)
	if err != nil {
		return errors.Wrap(err, "creating tip validator")
	}

	tips, err := store.Tips(ctx)
	if err != nil {
		return errors.Wrap(err, "listing tips")
	}

	policies := []consensus.Policy{consensus.Unconditional{}, f.EvenPolicy(), f.OddPolicy()}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprint(w, "TIP\tHEIGHT\tSTATE")
	for _, p := range policies {
		fmt.Fprintf(w, "\t%s", consensus.PolicyName(p))
	}
	fmt.Fprintln(w)

	for _, tip := range tips {
		d := cfg.Chain().Hasher.Digest(tip)
		fmt.Fprintf(w, "%s\t%d\t%d", d, tip.Height, tip.State)
		for _, p := range policies {
			verdict := "accept"
			if err := tv.IsTipValid(ctx, d, p); err != nil {
				verdict = "reject"
			}
			fmt.Fprintf(w, "\t%s", verdict)
		}
		fmt.Fprintln(w)
	}

	return w.Flush()
}
