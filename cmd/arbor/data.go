package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/pbanos/arbor/dataset"
	"github.com/pbanos/arbor/dataset/csv"
	"github.com/pbanos/arbor/dataset/mongodataset"
	"github.com/pbanos/arbor/dataset/sqldataset"
	"github.com/pbanos/arbor/dataset/sqldataset/pgadapter"
	"github.com/pbanos/arbor/dataset/sqldataset/sqlite3adapter"
	"github.com/pbanos/arbor/domain"
	"github.com/pbanos/arbor/domain/c45"
	"github.com/pbanos/arbor/domain/yaml"
	"go.uber.org/zap"
)

const (
	postgreSQLPrefix = "postgresql://"
	mongoDBPrefix    = "mongodb://"
	sqlite3Suffix    = ".db"
	c45DataSuffix    = ".data"
)

var c45NamesSuffixes = []string{".names", ".c45-names"}

type datasetWriter interface {
	Write(ctx context.Context, d dataset.Dataset) (int, error)
	Close() error
}

/*
readSchema takes the path to a metadata file and the name of the class
attribute and returns the schema it describes. Files with a C4.5 names
suffix are parsed as such, any other as YAML. C4.5 names files always
name their class c45.ClassName, so any other class name is rejected for
them.
*/
func readSchema(logger *zap.Logger, metadataInput, className string) (*domain.Schema, error) {
	logger.Debug("reading schema", zap.String("metadata", metadataInput))
	for _, suffix := range c45NamesSuffixes {
		if strings.HasSuffix(metadataInput, suffix) {
			if className != "" && className != c45.ClassName {
				return nil, fmt.Errorf("class attribute %s cannot be set for C4.5 names file %s, whose class is always %s", className, metadataInput, c45.ClassName)
			}
			f, err := os.Open(metadataInput)
			if err != nil {
				return nil, fmt.Errorf("opening C4.5 names file %s: %v", metadataInput, err)
			}
			defer f.Close()
			s, err := c45.ReadNames(f)
			if err != nil {
				return nil, fmt.Errorf("parsing C4.5 names file %s: %w", metadataInput, err)
			}
			return s, nil
		}
	}
	return yaml.ReadSchemaFromFile(metadataInput, className)
}

/*
readDataset takes a context, the location of a dataset and a schema and
returns the dataset loaded from it. The location is a PostgreSQL or
MongoDB URL, a SQLite3 (.db), C4.5 data (.data) or CSV file path, or empty
to read CSV from STDIN.
*/
func readDataset(ctx context.Context, logger *zap.Logger, input string, s *domain.Schema) (dataset.Dataset, error) {
	switch {
	case input == "":
		logger.Debug("reading CSV dataset from STDIN")
		return csv.Read(os.Stdin, s)
	case strings.HasPrefix(input, postgreSQLPrefix):
		logger.Debug("creating PostgreSQL adapter to read dataset", zap.String("url", input))
		adapter, err := pgadapter.New(input)
		if err != nil {
			return nil, err
		}
		return loadSQLDataset(ctx, adapter, s)
	case strings.HasPrefix(input, mongoDBPrefix):
		logger.Debug("dialing MongoDB to read dataset", zap.String("url", input))
		mds, err := mongodataset.Dial(ctx, input, s)
		if err != nil {
			return nil, err
		}
		defer mds.Close()
		return mds.Load(ctx)
	case strings.HasSuffix(input, sqlite3Suffix):
		logger.Debug("creating SQLite3 adapter to read dataset", zap.String("path", input))
		adapter, err := sqlite3adapter.New(input)
		if err != nil {
			return nil, err
		}
		return loadSQLDataset(ctx, adapter, s)
	case strings.HasSuffix(input, c45DataSuffix):
		logger.Debug("reading C4.5 dataset", zap.String("path", input))
		f, err := os.Open(input)
		if err != nil {
			return nil, fmt.Errorf("opening C4.5 data file %s: %v", input, err)
		}
		defer f.Close()
		instances, err := c45.ReadData(f, s)
		if err != nil {
			return nil, fmt.Errorf("parsing C4.5 data file %s: %w", input, err)
		}
		return dataset.New(instances), nil
	}
	logger.Debug("reading CSV dataset", zap.String("path", input))
	return csv.ReadFromFilePath(input, s)
}

func loadSQLDataset(ctx context.Context, adapter sqldataset.Adapter, s *domain.Schema) (dataset.Dataset, error) {
	ds, err := sqldataset.Open(adapter, s)
	if err != nil {
		adapter.Close()
		return nil, err
	}
	defer ds.Close()
	return ds.Load(ctx)
}

/*
openDatasetWriter takes a context, the location of a dataset and a schema
and returns a datasetWriter to store instances there. The location is a
PostgreSQL or MongoDB URL, a SQLite3 (.db) or CSV file path, or empty to
write CSV onto STDOUT.
*/
func openDatasetWriter(ctx context.Context, logger *zap.Logger, output string, s *domain.Schema) (datasetWriter, error) {
	switch {
	case strings.HasPrefix(output, postgreSQLPrefix):
		logger.Debug("creating PostgreSQL adapter to write dataset", zap.String("url", output))
		adapter, err := pgadapter.New(output)
		if err != nil {
			return nil, err
		}
		return createSQLDataset(ctx, adapter, s)
	case strings.HasPrefix(output, mongoDBPrefix):
		logger.Debug("dialing MongoDB to write dataset", zap.String("url", output))
		mds, err := mongodataset.Dial(ctx, output, s)
		if err != nil {
			return nil, err
		}
		return &mongoDatasetWriter{mds}, nil
	case strings.HasSuffix(output, sqlite3Suffix):
		logger.Debug("creating SQLite3 adapter to write dataset", zap.String("path", output))
		adapter, err := sqlite3adapter.New(output)
		if err != nil {
			return nil, err
		}
		return createSQLDataset(ctx, adapter, s)
	}
	f := os.Stdout
	if output != "" {
		logger.Debug("creating CSV file to write dataset", zap.String("path", output))
		var err error
		f, err = os.Create(output)
		if err != nil {
			return nil, err
		}
	}
	w, err := csv.NewWriter(f, s)
	if err != nil {
		f.Close()
		return nil, err
	}
	return &csvDatasetWriter{w, f}, nil
}

func createSQLDataset(ctx context.Context, adapter sqldataset.Adapter, s *domain.Schema) (datasetWriter, error) {
	ds, err := sqldataset.Open(adapter, s)
	if err != nil {
		adapter.Close()
		return nil, err
	}
	if err = ds.Create(ctx); err != nil {
		ds.Close()
		return nil, err
	}
	return ds, nil
}

type csvDatasetWriter struct {
	w *csv.Writer
	f *os.File
}

func (cdw *csvDatasetWriter) Write(_ context.Context, d dataset.Dataset) (int, error) {
	return cdw.w.Write(d)
}

func (cdw *csvDatasetWriter) Close() error {
	err := cdw.w.Flush()
	if cdw.f != os.Stdout {
		if cerr := cdw.f.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

type mongoDatasetWriter struct {
	*mongodataset.Dataset
}

func (mdw *mongoDatasetWriter) Close() error {
	mdw.Dataset.Close()
	return nil
}
