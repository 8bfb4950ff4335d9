package main

import (
	"context"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type rootCmdConfig struct {
	verbose    bool
	logFile    string
	timeout    time.Duration
	logger     *zap.Logger
	ctx        context.Context
	cancelFunc context.CancelFunc
}

func main() {
	if err := cliParser().Execute(); err != nil {
		os.Exit(1)
	}
}

func cliParser() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "arbor",
		Short: "arbor is a tool to grow and prune ID3 decision trees",
		Long:  `A tool to grow decision trees from categorical data, prune them against validation data, test them, and use them to classify instances`,
	}
	config := &rootCmdConfig{}
	rootCmd.PersistentFlags().BoolVarP(&(config.verbose), "verbose", "v", false, "log debug messages")
	rootCmd.PersistentFlags().StringVar(&(config.logFile), "log-file", "", "path to a file to which JSON logs are appended besides STDERR")
	rootCmd.PersistentFlags().DurationVar(&(config.timeout), "timeout", 0, "time allowed for the command to complete (defaults to 0: no limit)")
	rootCmd.AddCommand(versionCmd(), growCmd(config), pruneCmd(config), testCmd(config), predictCmd(config), xmlCmd(config), setCmd(config))
	return rootCmd
}

/*
Context returns the context for the command being run, which is done
when the timeout flag expires.
*/
func (rcc *rootCmdConfig) Context() context.Context {
	rcc.setContextAndCancelFunc()
	return rcc.ctx
}

// ContextCancelFunc returns the function cancelling the command's context
func (rcc *rootCmdConfig) ContextCancelFunc() context.CancelFunc {
	rcc.setContextAndCancelFunc()
	return rcc.cancelFunc
}

func (rcc *rootCmdConfig) setContextAndCancelFunc() {
	if rcc.ctx == nil {
		if rcc.timeout > 0 {
			rcc.ctx, rcc.cancelFunc = context.WithTimeout(context.Background(), rcc.timeout)
		} else {
			rcc.ctx, rcc.cancelFunc = context.WithCancel(context.Background())
		}
	}
}
