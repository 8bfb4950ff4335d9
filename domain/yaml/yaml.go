/*
Package yaml provides methods to parse domain.Schema specifications,
also known as metadata, from YAML documents.
*/
package yaml

import (
	"fmt"
	"os"

	"github.com/pbanos/arbor/domain"
	yaml "gopkg.in/yaml.v2"
)

/*
ReadSchema takes a slice of bytes with a schema specification in YAML and
the name of the class attribute and returns the schema parsed from it or
an error.

The YAML is expected to be an object with an attributes property. Its value
should be an object with a property for each attribute with its name and the
list of its categories. Properties are read in document order, which
determines the position of each attribute in instances and the code of
each category.

The class is the attribute named by className. When className is empty the
class property of the document is used, and when that is missing too, the
last attribute is taken as the class.
*/
func ReadSchema(md []byte, className string) (*domain.Schema, error) {
	metadata := struct {
		Class      string        `yaml:"class"`
		Attributes yaml.MapSlice `yaml:"attributes"`
	}{}
	err := yaml.Unmarshal(md, &metadata)
	if err != nil {
		return nil, fmt.Errorf("parsing yml schema: %v", err)
	}
	if len(metadata.Attributes) == 0 {
		return nil, fmt.Errorf("metadata has no attribute information")
	}
	if className == "" {
		className = metadata.Class
	}
	var class *domain.AttributeDomain
	var attributes []*domain.AttributeDomain
	for _, item := range metadata.Attributes {
		name := fmt.Sprintf("%v", item.Key)
		values, ok := item.Value.([]interface{})
		if !ok {
			return nil, fmt.Errorf("invalid declaration of type %T for attribute %s: expected a list of categories", item.Value, name)
		}
		ad := domain.New(name)
		for _, v := range values {
			if _, err := ad.AddCategory(fmt.Sprintf("%v", v)); err != nil {
				return nil, fmt.Errorf("attribute %s: category %v: %v", name, v, err)
			}
		}
		if name == className {
			class = ad
			continue
		}
		attributes = append(attributes, ad)
	}
	if class == nil {
		if className != "" {
			return nil, fmt.Errorf("class attribute %q is not defined", className)
		}
		class = attributes[len(attributes)-1]
		attributes = attributes[:len(attributes)-1]
	}
	return domain.NewSchema(class, attributes...), nil
}

/*
ReadSchemaFromFile takes a filepath string and a class name, reads the file
contents and uses ReadSchema to parse it and return the schema or an error.
*/
func ReadSchemaFromFile(filepath, className string) (*domain.Schema, error) {
	md, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("reading schema yml file %s: %v", filepath, err)
	}
	s, err := ReadSchema(md, className)
	if err != nil {
		err = fmt.Errorf("parsing schema yml file %s: %v", filepath, err)
	}
	return s, err
}

/*
WriteSchema takes a schema and returns its YAML specification in the format
ReadSchema parses, with the class listed last.
*/
func WriteSchema(s *domain.Schema) ([]byte, error) {
	attributes := make(yaml.MapSlice, 0, len(s.Attributes)+1)
	for _, a := range append(append([]*domain.AttributeDomain{}, s.Attributes...), s.Class) {
		attributes = append(attributes, yaml.MapItem{Key: a.Name(), Value: a.Categories()})
	}
	return yaml.Marshal(struct {
		Class      string        `yaml:"class"`
		Attributes yaml.MapSlice `yaml:"attributes"`
	}{s.Class.Name(), attributes})
}
