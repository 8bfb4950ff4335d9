package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type setCmdConfig struct {
	*rootCmdConfig
	setInput       string
	metadataInput  string
	classAttribute string
	setOutput      string
}

func setCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &setCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Manage sets of data",
		Long:  `Manage sets of data: copy a set from one source to another, validating its instances`,
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
			if err = s.Validate(d); err != nil {
				fmt.Fprintln(os.Stderr, err)
				config.exit(4)
			}
			output, err := openDatasetWriter(config.Context(), logger, config.setOutput, s)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				config.exit(5)
			}
			count, err := output.Write(config.Context(), d)
			if err != nil {
				output.Close()
				fmt.Fprintln(os.Stderr, err)
				config.exit(6)
			}
			if err = output.Close(); err != nil {
				fmt.Fprintln(os.Stderr, err)
				config.exit(7)
			}
			logger.Info("set copied", zap.Int("instances", count))
			config.exit(0)
		},
	}
	cmd.PersistentFlags().StringVarP(&(config.setInput), "input", "i", "", "path to an input CSV (.csv), C4.5 (.data) or SQLite3 (.db) file, or a PostgreSQL or MongoDB URL with the set (defaults to STDIN, interpreted as CSV)")
	cmd.PersistentFlags().StringVarP(&(config.metadataInput), "metadata", "m", "", "path to a YML or C4.5 names (.names, .c45-names) file describing the attributes and the class (required)")
	cmd.PersistentFlags().StringVarP(&(config.classAttribute), "class-attribute", "c", "", "name of the class attribute (YML metadata only, defaults to the class defined on it or its last attribute)")
	cmd.PersistentFlags().StringVarP(&(config.setOutput), "output", "o", "", "path to a CSV (.csv) or SQLite3 (.db) file, or a PostgreSQL or MongoDB URL to dump the output set (defaults to STDOUT in CSV)")
	cmd.AddCommand(splitCmd(config))
	return cmd
}

func (scc *setCmdConfig) Validate() error {
	if scc.metadataInput == "" {
		return fmt.Errorf("required metadata flag was not set")
	}
	return nil
}
