package main

import (
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/pbanos/arbor/dataset"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type splitCmdConfig struct {
	*setCmdConfig
	splitOutput   string
	trainFraction float64
	seed          int64
}

func splitCmd(setConfig *setCmdConfig) *cobra.Command {
	config := &splitCmdConfig{setCmdConfig: setConfig}
	cmd := &cobra.Command{
		Use:   "split",
		Short: "Split a set into training and validation sets",
		Long:  `Shuffle a set and split it into an output set, with the given fraction of its instances, and a split set with the rest`,
		Run: func(cmd *cobra.Command, args []string) {
			err := config.Validate()
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				config.exit(1)
			}
			logger := config.Logger()
			s, err := readSchema(logger, config.metadataInput, config.classAttribute)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				config.exit(2)
			}
			d, err := readDataset(config.Context(), logger, config.setInput, s)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				config.exit(3)
			}
			training, validation, err := dataset.Split(d, config.trainFraction, rand.New(rand.NewSource(config.seed)))
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				config.exit(4)
			}
			for i, part := range []struct {
				output string
				d      dataset.Dataset
			}{{config.setOutput, training}, {config.splitOutput, validation}} {
				output, err := openDatasetWriter(config.Context(), logger, part.output, s)
				if err != nil {
					fmt.Fprintln(os.Stderr, err)
					config.exit(5 + 2*i)
				}
				_, err = output.Write(config.Context(), part.d)
				if cerr := output.Close(); err == nil {
					err = cerr
				}
				if err != nil {
					fmt.Fprintln(os.Stderr, err)
					config.exit(6 + 2*i)
				}
			}
			logger.Info("set split",
				zap.Int("instances", len(d)),
				zap.Int("output", len(training)),
				zap.Int("split", len(validation)),
			)
			config.exit(0)
		},
	}
	cmd.PersistentFlags().StringVarP(&(config.splitOutput), "split-output", "s", "", "path to a CSV (.csv) or SQLite3 (.db) file, or a PostgreSQL or MongoDB URL to dump the split set (required)")
	cmd.PersistentFlags().Float64VarP(&(config.trainFraction), "train-fraction", "f", dataset.DefaultTrainFraction, "fraction of the instances of the set that go to the output set")
	cmd.PersistentFlags().Int64Var(&(config.seed), "seed", time.Now().UnixNano(), "seed for the shuffle of the set")
	return cmd
}

func (scc *splitCmdConfig) Validate() error {
	if err := scc.setCmdConfig.Validate(); err != nil {
		return err
	}
	if scc.splitOutput == "" {
		return fmt.Errorf("required split-output flag was not set")
	}
	if scc.trainFraction <= 0 || scc.trainFraction >= 1 {
		return fmt.Errorf("train-fraction flag was set to an invalid value: it must be between 0 and 1")
	}
	return nil
}
