/*
Package csv reads and writes datasets as CSV documents whose header names
the attributes and the class of a schema.
*/
package csv

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/pbanos/arbor/dataset"
	"github.com/pbanos/arbor/domain"
)

/*
Writer is a dataset sink that writes instances as CSV rows
*/
type Writer struct {
	count  int
	schema *domain.Schema
	w      *csv.Writer
}

/*
Read takes an io.Reader for a CSV stream and a schema and returns the
dataset parsed from the reader or an error.

The header or first row of the CSV content is expected to consist of the
names of every attribute of the schema and the class, in any order. The
rest of the rows should consist of valid categories for each column.
*/
func Read(reader io.Reader, s *domain.Schema) (dataset.Dataset, error) {
	var result dataset.Dataset
	err := ReadByInstance(reader, s, func(_ int, inst domain.Instance) (bool, error) {
		result = append(result, inst)
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

/*
ReadByInstance takes an io.Reader for a CSV stream, a schema and a lambda
function on an integer and an instance that returns a boolean value. It
parses the instances from the reader and for each it calls the lambda
function with the instance and its index as parameters. If the lambda
function returns true, it will continue processing the next instance,
otherwise it will stop. An error is returned if something goes wrong when
reading the stream or parsing an instance.
*/
func ReadByInstance(reader io.Reader, s *domain.Schema, lambda func(int, domain.Instance) (bool, error)) error {
	r := csv.NewReader(reader)
	header, err := r.Read()
	if err != nil {
		return fmt.Errorf("reading header: %v", err)
	}
	columns, err := parseColumnsFromCSVHeader(header, s)
	if err != nil {
		return err
	}
	values := make([]string, len(columns))
	for l := 2; ; l++ {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("reading body: %v", err)
		}
		for i, c := range columns {
			values[c] = row[i]
		}
		inst, err := s.Encode(values)
		if err != nil {
			if mie, ok := err.(*domain.MalformedInputError); ok {
				mie.Row = l - 2
			}
			return fmt.Errorf("parsing line %d: %w", l, err)
		}
		ok, err := lambda(l-2, inst)
		if err != nil {
			return err
		}
		if !ok {
			break
		}
	}
	return nil
}

/*
ReadFromFilePath takes a filepath string and a schema, opens the file to
which the filepath points to and uses Read to return the dataset in it.
If filepath is "" os.Stdin is read instead.
*/
func ReadFromFilePath(filepath string, s *domain.Schema) (dataset.Dataset, error) {
	var f *os.File
	var err error
	if filepath == "" {
		f = os.Stdin
	} else {
		f, err = os.Open(filepath)
		if err != nil {
			return nil, fmt.Errorf("reading dataset: %v", err)
		}
		defer f.Close()
	}
	d, err := Read(f, s)
	if err != nil {
		err = fmt.Errorf("parsing CSV file %s: %w", filepath, err)
	}
	return d, err
}

/*
NewWriter takes an io.Writer and a schema and returns a Writer that will
write instances on the io.Writer, after writing the header with the names
of the attributes and the class.
*/
func NewWriter(writer io.Writer, s *domain.Schema) (*Writer, error) {
	w := csv.NewWriter(writer)
	record := make([]string, 0, len(s.Attributes)+1)
	for _, a := range s.Attributes {
		record = append(record, a.Name())
	}
	record = append(record, s.Class.Name())
	err := w.Write(record)
	if err != nil {
		return nil, fmt.Errorf("writing CSV header: %v", err)
	}
	return &Writer{schema: s, w: w}, nil
}

// Write takes a dataset and writes its instances, returning how many were written
func (cw *Writer) Write(d dataset.Dataset) (int, error) {
	for n, inst := range d {
		if err := cw.WriteInstance(inst); err != nil {
			return n, err
		}
	}
	return len(d), nil
}

// WriteInstance writes a single instance as a CSV row
func (cw *Writer) WriteInstance(inst domain.Instance) error {
	record, err := cw.schema.Decode(inst)
	if err != nil {
		return fmt.Errorf("decoding instance %d: %v", cw.count+1, err)
	}
	err = cw.w.Write(record)
	if err != nil {
		return fmt.Errorf("writing CSV row for instance %d: %v", cw.count+1, err)
	}
	cw.count++
	return nil
}

// Count returns the number of instances written so far
func (cw *Writer) Count() int {
	return cw.count
}

// Flush ensures buffered rows are written to the underlying io.Writer
func (cw *Writer) Flush() error {
	cw.w.Flush()
	return cw.w.Error()
}

/*
WriteDataset takes an io.Writer, a schema and a dataset and dumps the
dataset to the writer in CSV format.
*/
func WriteDataset(writer io.Writer, s *domain.Schema, d dataset.Dataset) error {
	cw, err := NewWriter(writer, s)
	if err != nil {
		return err
	}
	_, err = cw.Write(d)
	if err != nil {
		return err
	}
	return cw.Flush()
}

func parseColumnsFromCSVHeader(header []string, s *domain.Schema) ([]int, error) {
	if len(header) != len(s.Attributes)+1 {
		return nil, fmt.Errorf("parsing header: expected %d columns, got %d", len(s.Attributes)+1, len(header))
	}
	columns := make([]int, len(header))
	seen := make(map[int]bool)
	for i, name := range header {
		c := s.Attribute(name)
		if name == s.Class.Name() {
			c = s.ClassIndex()
		}
		if c == domain.NotFound {
			return nil, fmt.Errorf("parsing header: reference to unknown attribute %s", name)
		}
		if seen[c] {
			return nil, fmt.Errorf("parsing header: repeated column %s", name)
		}
		seen[c] = true
		columns[i] = c
	}
	return columns, nil
}
