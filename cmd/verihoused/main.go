// Command verihoused runs a local, end-to-end simulation of the
// fairness-verifiable betting protocol: key generation, the seed commitment
// phase, a betting round, settlement, reveal and the dispute window, with
// every boundary operation logged.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "verihoused",
		Short:         "fairness-verifiable betting house simulator",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("log-level", "info", "zap log level")
	root.AddCommand(simulateCmd())
	return root
}

func simulateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "run one full game against an in-memory ledger",
		RunE:  runSimulate,
	}
	cmd.Flags().Uint64("stake", 100, "fixed stake per bet, in minor units")
	cmd.Flags().Duration("window", 0, "dispute window; 0 selects one hour")
	cmd.Flags().Int("players", 4, "number of betting players")
	cmd.Flags().Int("bits", 1024, "bit size of each Paillier prime factor")
	cmd.Flags().Bool("cheat", false, "make the dealer reveal a false seed sum")

	viper.SetEnvPrefix("verihouse")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		panic(err)
	}
	return cmd
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return cfg.Build()
}
