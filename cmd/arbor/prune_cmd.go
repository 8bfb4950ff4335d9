package main

import (
	"fmt"
	"os"

	"github.com/pbanos/arbor"
	"github.com/pbanos/arbor/dataset"
	"github.com/pbanos/arbor/tree"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type pruningConfig struct {
	maxPasses     int
	metricsOutput string
}

type pruneCmdConfig struct {
	*rootCmdConfig
	pruningConfig
	treeInput      string
	dataInput      string
	metadataInput  string
	classAttribute string
	output         string
}

func pruneCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &pruneCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Prune a tree against a validation set",
		Long:  `Prune a tree collapsing the nodes whose removal improves its accuracy on a validation set of data`,
		Run: func(cmd *cobra.Command, args []string) {
			err := config.Validate()
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				config.exit(1)
			}
			s, err := readSchema(config.Logger(), config.metadataInput, config.classAttribute)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				config.exit(2)
			}
			t, err := loadTree(config.Context(), config.treeInput, s)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				config.exit(3)
			}
			validation, err := readDataset(config.Context(), config.Logger(), config.dataInput, s)
			if err != nil {
				fmt.Fprintf(os.Stderr, "reading validation set: %v\n", err)
				config.exit(4)
			}
			result, err := config.prune(config.rootCmdConfig, t, validation)
			if err != nil {
				fmt.Fprintf(os.Stderr, "pruning the tree: %v\n", err)
				config.exit(5)
			}
			err = saveTree(config.Context(), config.output, result.Tree)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				config.exit(6)
			}
			config.exit(0)
		},
	}
	cmd.PersistentFlags().StringVarP(&(config.treeInput), "tree", "t", "", "path to a JSON file or redis://host:port/name location from which the tree to prune will be read (required)")
	cmd.PersistentFlags().StringVarP(&(config.dataInput), "input", "i", "", "path to an input CSV (.csv), C4.5 (.data) or SQLite3 (.db) file, or a PostgreSQL or MongoDB URL with the validation data (defaults to STDIN, interpreted as CSV)")
	cmd.PersistentFlags().StringVarP(&(config.metadataInput), "metadata", "m", "", "path to a YML or C4.5 names (.names, .c45-names) file describing the attributes and the class (required)")
	cmd.PersistentFlags().StringVarP(&(config.classAttribute), "class-attribute", "c", "", "name of the attribute the tree predicts (YML metadata only, defaults to the class defined on it or its last attribute)")
	cmd.PersistentFlags().StringVarP(&(config.output), "output", "o", "", "path to a JSON file or redis://host:port/name location to which the pruned tree will be written (defaults to STDOUT in JSON)")
	config.addFlags(cmd)
	return cmd
}

func (pcc *pruneCmdConfig) Validate() error {
	if pcc.treeInput == "" {
		return fmt.Errorf("required tree flag was not set")
	}
	if pcc.metadataInput == "" {
		return fmt.Errorf("required metadata flag was not set")
	}
	return pcc.pruningConfig.Validate()
}

func (pc *pruningConfig) addFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().IntVar(&(pc.maxPasses), "max-passes", 0, "limit to the passes made over the tree looking for nodes to collapse (defaults to 0: no limit)")
	cmd.PersistentFlags().StringVar(&(pc.metricsOutput), "metrics-output", "", "path to a file to which pruning metrics will be written in Prometheus text format")
}

func (pc *pruningConfig) Validate() error {
	if pc.maxPasses < 0 {
		return fmt.Errorf("max-passes flag was set to an invalid value: it must not be negative")
	}
	return nil
}

func (pc *pruningConfig) prune(rcc *rootCmdConfig, t *tree.Tree, validation dataset.Dataset) (*arbor.Result, error) {
	reg := prometheus.NewRegistry()
	p := &arbor.Pruner{
		MaxPasses: pc.maxPasses,
		Logger:    rcc.Logger(),
		Metrics:   arbor.NewMetrics(reg),
	}
	rcc.Logger().Info("pruning tree", zap.Int("validationInstances", len(validation)))
	result, err := p.Prune(rcc.Context(), t, validation)
	if err != nil {
		return nil, err
	}
	nodes, leaves := result.Tree.Size()
	rcc.Logger().Info("tree pruned", zap.Int("nodes", nodes), zap.Int("leaves", leaves))
	rcc.Logger().Debug("pruned tree\n" + result.Tree.String())
	if pc.metricsOutput != "" {
		if err = prometheus.WriteToTextfile(pc.metricsOutput, reg); err != nil {
			return nil, fmt.Errorf("writing metrics to %s: %v", pc.metricsOutput, err)
		}
	}
	return result, nil
}
