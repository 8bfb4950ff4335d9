package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pbanos/arbor/domain"
	"github.com/pbanos/arbor/tree"
	"github.com/spf13/cobra"
)

type predictCmdConfig struct {
	*rootCmdConfig
	treeInput      string
	metadataInput  string
	classAttribute string
}

func predictCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &predictCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "predict [attribute=value]...",
		Short: "Predict the class of an instance answering questions",
		Long:  `Use the loaded tree to predict the class of an instance, asking for the values of the attributes the tree needs that were not given as arguments`,
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
			values, err := parseValues(s, args)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				config.exit(3)
			}
			t, err := loadTree(config.Context(), config.treeInput, s)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				config.exit(4)
			}
			inst, err := requestInstance(t, values, os.Stdin, os.Stdout)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				config.exit(5)
			}
			prediction, err := t.PredictionFor(inst)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				config.exit(6)
			}
			fmt.Printf("Predicted %s is %s, classes along their probabilities are %v\n", s.Class.Name(), prediction.Label(), prediction)
			config.exit(0)
		},
	}
	cmd.PersistentFlags().StringVarP(&(config.metadataInput), "metadata", "m", "", "path to a YML or C4.5 names (.names, .c45-names) file describing the attributes and the class (required)")
	cmd.PersistentFlags().StringVarP(&(config.treeInput), "tree", "t", "", "path to a JSON file or redis://host:port/name location from which the tree will be read (required)")
	cmd.PersistentFlags().StringVarP(&(config.classAttribute), "class-attribute", "c", "", "name of the attribute the tree predicts (YML metadata only, defaults to the class defined on it or its last attribute)")
	return cmd
}

func (pcc *predictCmdConfig) Validate() error {
	if pcc.metadataInput == "" {
		return fmt.Errorf("required metadata flag was not set")
	}
	if pcc.treeInput == "" {
		return fmt.Errorf("required tree flag was not set")
	}
	return nil
}

/*
parseValues takes a schema and a list of attribute=value arguments and
returns a map from attribute index to value code.
*/
func parseValues(s *domain.Schema, args []string) (map[int]int, error) {
	values := make(map[int]int)
	for _, arg := range args {
		parts := strings.SplitN(arg, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid argument %q: expected attribute=value", arg)
		}
		a := s.Attribute(parts[0])
		if a == domain.NotFound {
			return nil, fmt.Errorf("unknown attribute %q", parts[0])
		}
		code := s.Attributes[a].IndexOf(parts[1])
		if code == domain.NotFound {
			return nil, fmt.Errorf("%q is not a valid value for %s: valid values are %v", parts[1], parts[0], s.Attributes[a].Categories())
		}
		values[a] = code
	}
	return values, nil
}

/*
requestInstance walks the tree from its root and returns an instance with
the values needed to reach a leaf. Values missing from the given map are
requested on w and read from r, one per line, until a valid one is given.
Attributes never needed are left with their first category.
*/
func requestInstance(t *tree.Tree, values map[int]int, r io.Reader, w io.Writer) (domain.Instance, error) {
	inst := make(domain.Instance, len(t.Schema.Attributes)+1)
	scanner := bufio.NewScanner(r)
	n := t.Root
	for !n.IsLeaf() {
		a := t.Schema.Attributes[n.SplitAttribute]
		code, ok := values[n.SplitAttribute]
		if !ok {
			fmt.Fprintf(w, "Please provide the instance's %s:\n(valid values are %v)\n", a.Name(), a.Categories())
			for {
				if !scanner.Scan() {
					if err := scanner.Err(); err != nil {
						return nil, err
					}
					return nil, fmt.Errorf("no value given for %s", a.Name())
				}
				v := strings.TrimSpace(scanner.Text())
				code = a.IndexOf(v)
				if code != domain.NotFound {
					break
				}
				fmt.Fprintf(w, "%s is not a valid value for the instance's %s. Please provide one of %v.\n", v, a.Name(), a.Categories())
			}
			values[n.SplitAttribute] = code
		}
		inst[n.SplitAttribute] = code
		var next *tree.Node
		for _, child := range n.Children {
			if child.IncomingValue == code {
				next = child
				break
			}
		}
		if next == nil {
			break
		}
		n = next
	}
	for a, code := range values {
		inst[a] = code
	}
	return inst, nil
}
