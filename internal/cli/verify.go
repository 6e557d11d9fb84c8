package cli

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tcfw/forkchain/internal/config"
	"github.com/tcfw/forkchain/internal/utils/logging"
	"github.com/tcfw/forkchain/pkg/consensus"
)

var (
	verifyCmd = &cobra.Command{
		Use:   "verify FILE",
		Short: "verify a chain file under a policy. Use '-' for stdin",
		Args:  cobra.ExactArgs(1),
		RunE:  runVerify,
	}
)

func init() {
	verifyCmd.Flags().StringP("policy", "p", "", "policy to verify under (unconditional|even-after:H|odd-after:H)")

	viper.BindPFlag(config.Cfg_chain_policy, verifyCmd.Flags().Lookup("policy"))
}

func runVerify(cmd *cobra.Command, args []string) error {
	f, err := readChainFile(args[0])
	if err != nil {
		return err
	}

	if f.Hasher != "" && f.Hasher != viper.GetString(config.Cfg_chain_hasher) {
		logging.WithFields(logging.Fields{
			"file":       f.Hasher,
			"configured": viper.GetString(config.Cfg_chain_hasher),
		}).Warn("chain file was mined with a different hasher")
	}

	v, err := newValidator()
	if err != nil {
		return errors.Wrap(err, "creating validator")
	}

	policy := cfg.Chain().Policy
	if err := v.CheckFrom(f.Headers[0], f.Headers[1:], policy); err != nil {
		fmt.Fprintf(cmd.OutOrStdout(), "rejected under %s: %s\n", consensus.PolicyName(policy), err)
		return errors.Wrap(err, "chain rejected")
	}

	fmt.Fprintf(cmd.OutOrStdout(), "accepted %d headers under %s\n", len(f.Headers)-1, consensus.PolicyName(policy))
	return nil
}
