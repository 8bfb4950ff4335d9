package main

import (
	"fmt"
	"os"

	"github.com/pbanos/arbor"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type testCmdConfig struct {
	*rootCmdConfig
	treeInput      string
	dataInput      string
	metadataInput  string
	classAttribute string
}

func testCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &testCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "test",
		Short: "Test the performance of a tree",
		Long:  `Test the performance of a tree against a test data set`,
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
			testingSet, err := readDataset(config.Context(), config.Logger(), config.dataInput, s)
			if err != nil {
				fmt.Fprintf(os.Stderr, "reading testing set: %v\n", err)
				config.exit(4)
			}
			if err = s.Validate(testingSet); err != nil {
				fmt.Fprintf(os.Stderr, "validating testing set: %v\n", err)
				config.exit(5)
			}
			config.Logger().Info("testing tree", zap.Int("instances", len(testingSet)))
			accuracy := arbor.Accuracy(t, testingSet)
			fmt.Printf("%f success rate over %d instances\n", accuracy, len(testingSet))
			config.exit(0)
		},
	}
	cmd.PersistentFlags().StringVarP(&(config.dataInput), "input", "i", "", "path to an input CSV (.csv), C4.5 (.data) or SQLite3 (.db) file, or a PostgreSQL or MongoDB URL with the data to test the tree against (defaults to STDIN, interpreted as CSV)")
	cmd.PersistentFlags().StringVarP(&(config.metadataInput), "metadata", "m", "", "path to a YML or C4.5 names (.names, .c45-names) file describing the attributes and the class (required)")
	cmd.PersistentFlags().StringVarP(&(config.treeInput), "tree", "t", "", "path to a JSON file or redis://host:port/name location from which the tree to test will be read (required)")
	cmd.PersistentFlags().StringVarP(&(config.classAttribute), "class-attribute", "c", "", "name of the attribute the tree predicts (YML metadata only, defaults to the class defined on it or its last attribute)")
	return cmd
}

func (tcc *testCmdConfig) Validate() error {
	if tcc.treeInput == "" {
		return fmt.Errorf("required tree flag was not set")
	}
	if tcc.metadataInput == "" {
		return fmt.Errorf("required metadata flag was not set")
	}
	return nil
}
