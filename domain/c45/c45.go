/*
Package c45 reads schemas and instances from the C4.5 file pair used by
the UCI repository datasets: a .c45-names file describing the class values
and attributes, and a .data file with one comma separated instance per line.
*/
package c45

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pbanos/arbor/domain"
)

// ClassName is the name given to the class domain read from a names file
const ClassName = "class"

/*
ReadNames takes an io.Reader on a .c45-names document and returns the
schema it describes or an error.

The document is expected to contain a line with "class values" followed
(after optional blank lines) by a line with the comma separated class
values, and a line with "| attributes" followed by one line per attribute
in the form "name: value1, value2, value3." Whitespace within values is
removed and the trailing period is optional.
*/
func ReadNames(r io.Reader) (*domain.Schema, error) {
	scanner := bufio.NewScanner(r)
	var class *domain.AttributeDomain
	var attributes []*domain.AttributeDomain
	state := 0
	for l := 1; scanner.Scan(); l++ {
		line := scanner.Text()
		switch state {
		case 0:
			if strings.Contains(line, "class values") {
				state = 1
			}
		case 1:
			if len(strings.TrimSpace(line)) == 0 {
				continue
			}
			class = domain.New(ClassName)
			for _, v := range splitValues(line) {
				if _, err := class.AddCategory(v); err != nil {
					return nil, fmt.Errorf("line %d: class value %s: %v", l, v, err)
				}
			}
			state = 2
		case 2:
			if strings.Contains(line, "| attributes") {
				state = 3
			}
		case 3:
			line = strings.TrimSpace(line)
			if len(line) <= 1 || strings.HasPrefix(line, "|") {
				continue
			}
			colon := strings.Index(line, ":")
			if colon < 0 {
				return nil, fmt.Errorf("line %d: attribute declaration without ':'", l)
			}
			ad := domain.New(strings.TrimSpace(line[:colon]))
			for _, v := range splitValues(line[colon+1:]) {
				if _, err := ad.AddCategory(v); err != nil {
					return nil, fmt.Errorf("line %d: attribute %s: value %s: %v", l, ad.Name(), v, err)
				}
			}
			attributes = append(attributes, ad)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading names: %v", err)
	}
	if class == nil || class.Len() == 0 {
		return nil, fmt.Errorf("names document has no class values")
	}
	if len(attributes) == 0 {
		return nil, fmt.Errorf("names document has no attributes")
	}
	return domain.NewSchema(class, attributes...), nil
}

/*
ReadData takes an io.Reader on a .data document and a schema and returns
the instances encoded from it. Each non-blank line must have a value for
every attribute followed by the class value; otherwise a
*domain.MalformedInputError with the 0-based row is returned.
*/
func ReadData(r io.Reader, s *domain.Schema) ([]domain.Instance, error) {
	scanner := bufio.NewScanner(r)
	var instances []domain.Instance
	for row := 0; scanner.Scan(); {
		line := scanner.Text()
		if len(strings.TrimSpace(line)) == 0 {
			continue
		}
		values := strings.Split(line, ",")
		for i, v := range values {
			values[i] = stripSpaces(v)
		}
		inst, err := s.Encode(values)
		if err != nil {
			if mie, ok := err.(*domain.MalformedInputError); ok {
				mie.Row = row
			}
			return nil, err
		}
		instances = append(instances, inst)
		row++
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading data: %v", err)
	}
	return instances, nil
}

/*
ReadFiles takes the paths of a names and a data file and returns the schema
and instances read from them.
*/
func ReadFiles(namesPath, dataPath string) (*domain.Schema, []domain.Instance, error) {
	nf, err := os.Open(namesPath)
	if err != nil {
		return nil, nil, fmt.Errorf("opening names file %s: %v", namesPath, err)
	}
	defer nf.Close()
	s, err := ReadNames(nf)
	if err != nil {
		return nil, nil, fmt.Errorf("parsing names file %s: %v", namesPath, err)
	}
	df, err := os.Open(dataPath)
	if err != nil {
		return nil, nil, fmt.Errorf("opening data file %s: %v", dataPath, err)
	}
	defer df.Close()
	instances, err := ReadData(df, s)
	if err != nil {
		return nil, nil, fmt.Errorf("parsing data file %s: %w", dataPath, err)
	}
	return s, instances, nil
}

func splitValues(line string) []string {
	line = strings.TrimSpace(line)
	line = strings.TrimSuffix(line, ".")
	var values []string
	for _, v := range strings.Split(line, ",") {
		v = stripSpaces(v)
		if v != "" {
			values = append(values, v)
		}
	}
	return values
}

func stripSpaces(s string) string {
	return strings.Join(strings.Fields(s), "")
}
