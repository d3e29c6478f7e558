package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

type rootCmdConfig struct {
	verbose bool
	ctx     context.Context
	cancel  context.CancelFunc
}

func main() {
	if err := cliParser().Execute(); err != nil {
		os.Exit(1)
	}
}

func cliParser() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "wsi-tree",
		Short: "wsi-tree is a tool to grow and evaluate ID3 decision trees",
		Long:  `A tool to grow ID3 decision trees from categorical data, evaluate them over repeated train/test splits, and use them to make predictions`,
	}
	config := &rootCmdConfig{}
	rootCmd.PersistentFlags().BoolVarP(&(config.verbose), "verbose", "v", false, "log progress to STDERR")
	rootCmd.AddCommand(
		versionCmd(),
		evaluateCmd(config),
		splitCmd(config),
		setCmd(config),
		treeCmd(config),
		predictCmd(config),
	)
	return rootCmd
}

// Logf logs to STDERR when the verbose flag is set.
func (rcc *rootCmdConfig) Logf(format string, a ...interface{}) {
	logger(rcc.verbose).Logf(format, a...)
}

// Context returns a context that is cancelled on SIGINT or SIGTERM.
func (rcc *rootCmdConfig) Context() context.Context {
	if rcc.ctx == nil {
		rcc.ctx, rcc.cancel = signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	}
	return rcc.ctx
}
