package domain

import (
	"fmt"

	"go.uber.org/multierr"
)

/*
Instance is an integer-encoded sample: one code per attribute of a schema
followed by the code of its class. Instances are never modified once
loaded, so they are shared by reference between datasets.
*/
type Instance []int

/*
Schema groups the class domain and the ordered attribute domains that
give meaning to the codes in instances.
*/
type Schema struct {
	Class      *AttributeDomain
	Attributes []*AttributeDomain
}

/*
NewSchema takes a class domain and a list of attribute domains and
returns a schema with them.
*/
func NewSchema(class *AttributeDomain, attributes ...*AttributeDomain) *Schema {
	return &Schema{Class: class, Attributes: attributes}
}

// ClassIndex returns the position of the class code in instances
func (s *Schema) ClassIndex() int {
	return len(s.Attributes)
}

// ClassCount returns the number of categories of the class
func (s *Schema) ClassCount() int {
	return s.Class.Len()
}

// Attribute returns the index of the attribute with the given name or NotFound
func (s *Schema) Attribute(name string) int {
	for i, a := range s.Attributes {
		if a.Name() == name {
			return i
		}
	}
	return NotFound
}

/*
Encode takes the category names for every attribute followed by the
class and returns the instance representing them, or a
*MalformedInputError if the number of values is wrong or any value is not
a category of its domain.
*/
func (s *Schema) Encode(values []string) (Instance, error) {
	if len(values) != len(s.Attributes)+1 {
		return nil, &MalformedInputError{Row: NotFound, Reason: fmt.Sprintf("expected %d values, got %d", len(s.Attributes)+1, len(values))}
	}
	inst := make(Instance, len(values))
	for i, v := range values {
		d := s.domainAt(i)
		code := d.IndexOf(v)
		if code == NotFound {
			return nil, &MalformedInputError{Row: NotFound, Reason: fmt.Sprintf("unknown value %q for %s", v, d.Name())}
		}
		inst[i] = code
	}
	return inst, nil
}

/*
Decode takes an instance and returns the category names it represents,
or an error if any code is out of range.
*/
func (s *Schema) Decode(inst Instance) ([]string, error) {
	if len(inst) != len(s.Attributes)+1 {
		return nil, &MalformedInputError{Row: NotFound, Reason: fmt.Sprintf("expected %d codes, got %d", len(s.Attributes)+1, len(inst))}
	}
	values := make([]string, len(inst))
	for i, code := range inst {
		v, err := s.domainAt(i).CategoryAt(code)
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	return values, nil
}

/*
Check takes an instance and returns a *MalformedInputError if its length
does not match the schema or any of its codes is outside its domain.
*/
func (s *Schema) Check(inst Instance) error {
	if len(inst) != len(s.Attributes)+1 {
		return &MalformedInputError{Row: NotFound, Reason: fmt.Sprintf("expected %d codes, got %d", len(s.Attributes)+1, len(inst))}
	}
	for i, code := range inst {
		d := s.domainAt(i)
		if !d.Valid(code) {
			return &MalformedInputError{Row: NotFound, Reason: fmt.Sprintf("code %d out of range for %s with %d categories", code, d.Name(), d.Len())}
		}
	}
	return nil
}

/*
Validate checks every instance in the slice and returns nil if all of
them are well formed. Otherwise it returns the *MalformedInputError for
each offending instance combined into a single error.
*/
func (s *Schema) Validate(instances []Instance) error {
	var err error
	for i, inst := range instances {
		if cerr := s.Check(inst); cerr != nil {
			mie := cerr.(*MalformedInputError)
			mie.Row = i
			err = multierr.Append(err, mie)
		}
	}
	return err
}

func (s *Schema) domainAt(i int) *AttributeDomain {
	if i == len(s.Attributes) {
		return s.Class
	}
	return s.Attributes[i]
}

/*
MalformedInputError reports an instance that does not fit the schema. Row
is the position of the instance in its input or NotFound when unknown.
*/
type MalformedInputError struct {
	Row    int
	Reason string
}

func (e *MalformedInputError) Error() string {
	if e.Row == NotFound {
		return fmt.Sprintf("malformed instance: %s", e.Reason)
	}
	return fmt.Sprintf("malformed instance %d: %s", e.Row, e.Reason)
}
