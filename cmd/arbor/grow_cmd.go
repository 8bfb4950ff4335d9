package main

import (
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/pbanos/arbor"
	"github.com/pbanos/arbor/dataset"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type growCmdConfig struct {
	*rootCmdConfig
	pruningConfig
	dataInput      string
	metadataInput  string
	output         string
	classAttribute string
	holdOut        bool
	trainFraction  float64
	seed           int64
}

func growCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &growCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "grow",
		Short: "Grow a tree from a set of data",
		Long:  `Grow a tree from a set of data to predict its class, optionally holding out part of the data to prune it.`,
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
			trainingSet, err := readDataset(config.Context(), logger, config.dataInput, s)
			if err != nil {
				fmt.Fprintf(os.Stderr, "reading training set: %v\n", err)
				config.exit(3)
			}
			var validationSet dataset.Dataset
			if config.holdOut {
				trainingSet, validationSet, err = dataset.Split(trainingSet, config.trainFraction, rand.New(rand.NewSource(config.seed)))
				if err != nil {
					fmt.Fprintln(os.Stderr, err)
					config.exit(4)
				}
			}
			logger.Info("growing tree",
				zap.Int("instances", len(trainingSet)),
				zap.Int("attributes", len(s.Attributes)),
				zap.String("class", s.Class.Name()),
			)
			t, err := arbor.Grow(s, trainingSet, arbor.WithLogger(logger))
			if err != nil {
				fmt.Fprintf(os.Stderr, "growing the tree: %v\n", err)
				config.exit(5)
			}
			nodes, leaves := t.Size()
			logger.Info("tree grown", zap.Int("nodes", nodes), zap.Int("leaves", leaves), zap.Int("depth", t.MaxLevel()))
			logger.Debug("grown tree\n" + t.String())
			if config.holdOut {
				result, err := config.pruningConfig.prune(config.rootCmdConfig, t, validationSet)
				if err != nil {
					fmt.Fprintf(os.Stderr, "pruning the tree: %v\n", err)
					config.exit(6)
				}
				t = result.Tree
			}
			err = saveTree(config.Context(), config.output, t)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				config.exit(7)
			}
			config.exit(0)
		},
	}
	cmd.PersistentFlags().StringVarP(&(config.dataInput), "input", "i", "", "path to an input CSV (.csv), C4.5 (.data) or SQLite3 (.db) file, or a PostgreSQL or MongoDB URL with data to use to grow the tree (defaults to STDIN, interpreted as CSV)")
	cmd.PersistentFlags().StringVarP(&(config.metadataInput), "metadata", "m", "", "path to a YML or C4.5 names (.names, .c45-names) file describing the attributes and the class (required)")
	cmd.PersistentFlags().StringVarP(&(config.output), "output", "o", "", "path to a JSON file or redis://host:port/name location to which the generated tree will be written (defaults to STDOUT in JSON)")
	cmd.PersistentFlags().StringVarP(&(config.classAttribute), "class-attribute", "c", "", "name of the attribute the generated tree should predict (YML metadata only, defaults to the class defined on it or its last attribute)")
	cmd.PersistentFlags().BoolVarP(&(config.holdOut), "prune", "p", false, "hold out part of the input data as validation set and prune the tree against it")
	cmd.PersistentFlags().Float64Var(&(config.trainFraction), "train-fraction", dataset.DefaultTrainFraction, "fraction of the input data used to grow the tree when pruning")
	cmd.PersistentFlags().Int64Var(&(config.seed), "seed", time.Now().UnixNano(), "seed for the shuffle that splits training and validation data when pruning")
	config.addFlags(cmd)
	return cmd
}

func (gcc *growCmdConfig) Validate() error {
	if gcc.metadataInput == "" {
		return fmt.Errorf("required metadata flag was not set")
	}
	if gcc.trainFraction <= 0 || gcc.trainFraction >= 1 {
		return fmt.Errorf("train-fraction flag was set to an invalid value: it must be between 0 and 1")
	}
	return gcc.pruningConfig.Validate()
}
