package main

import (
	"fmt"
	"os"

	"github.com/pbanos/arbor/tree/xml"
	"github.com/spf13/cobra"
)

type xmlCmdConfig struct {
	*rootCmdConfig
	treeInput      string
	metadataInput  string
	classAttribute string
	output         string
	legacyIDs      bool
}

func xmlCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &xmlCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "xml",
		Short: "Render a tree as XML",
		Long:  `Render a tree as an XML document with a node element per node, detailing its class distribution and entropy`,
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
			f := os.Stdout
			if config.output != "" {
				f, err = os.Create(config.output)
				if err != nil {
					fmt.Fprintln(os.Stderr, err)
					config.exit(4)
				}
				defer f.Close()
			}
			err = xml.Encode(f, t, xml.Options{LegacyIDs: config.legacyIDs})
			if err != nil {
				fmt.Fprintf(os.Stderr, "writing XML: %v\n", err)
				config.exit(5)
			}
		},
	}
	cmd.PersistentFlags().StringVarP(&(config.metadataInput), "metadata", "m", "", "path to a YML or C4.5 names (.names, .c45-names) file describing the attributes and the class (required)")
	cmd.PersistentFlags().StringVarP(&(config.treeInput), "tree", "t", "", "path to a JSON file or redis://host:port/name location from which the tree will be read (required)")
	cmd.PersistentFlags().StringVarP(&(config.classAttribute), "class-attribute", "c", "", "name of the attribute the tree predicts (YML metadata only, defaults to the class defined on it or its last attribute)")
	cmd.PersistentFlags().StringVarP(&(config.output), "output", "o", "", "path to a file to which the XML will be written (defaults to STDOUT)")
	cmd.PersistentFlags().BoolVar(&(config.legacyIDs), "legacy-ids", false, "number nodes as earlier tools did: ids shifted by one except for the root")
	return cmd
}

func (xcc *xmlCmdConfig) Validate() error {
	if xcc.metadataInput == "" {
		return fmt.Errorf("required metadata flag was not set")
	}
	if xcc.treeInput == "" {
		return fmt.Errorf("required tree flag was not set")
	}
	return nil
}
