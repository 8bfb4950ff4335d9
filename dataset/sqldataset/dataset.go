package sqldataset

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/pbanos/arbor/dataset"
	"github.com/pbanos/arbor/domain"
)

// SamplesTable is the name of the table holding the instances
const SamplesTable = "samples"

// MaxInsertionsPerStatement is the number of rows added per insert command by Write
const MaxInsertionsPerStatement = 10

/*
Adapter is an interface providing the database specifics needed to
store datasets on an SQL backend.
*/
type Adapter interface {
	// DB returns the database handle
	DB() *sql.DB
	// ColumnName takes an attribute name and returns the column
	// name to use for it or an error if it cannot be used
	ColumnName(string) (string, error)
	// Placeholder returns the bind parameter for the nth (1-based)
	// argument of a statement
	Placeholder(n int) string
	// Close releases the database handle
	Close() error
}

/*
Dataset is a dataset stored on an SQL database through an Adapter
*/
type Dataset struct {
	adapter Adapter
	schema  *domain.Schema
	columns []string
}

/*
Open takes an Adapter and a schema and returns a Dataset backed by the
adapter's database or an error if some attribute name cannot be used as
column name.
*/
func Open(a Adapter, s *domain.Schema) (*Dataset, error) {
	columns := make([]string, 0, len(s.Attributes)+1)
	for _, ad := range append(append([]*domain.AttributeDomain{}, s.Attributes...), s.Class) {
		c, err := a.ColumnName(ad.Name())
		if err != nil {
			return nil, err
		}
		columns = append(columns, c)
	}
	return &Dataset{adapter: a, schema: s, columns: columns}, nil
}

/*
Create ensures the samples table exists on the database
*/
func (ds *Dataset) Create(ctx context.Context) error {
	var stmt bytes.Buffer
	stmt.WriteString("CREATE TABLE IF NOT EXISTS ")
	stmt.WriteString(SamplesTable)
	stmt.WriteString("(")
	for i, c := range ds.columns {
		if i > 0 {
			stmt.WriteString(", ")
		}
		stmt.WriteString(fmt.Sprintf(`"%s" TEXT NOT NULL`, c))
	}
	stmt.WriteString(")")
	_, err := ds.adapter.DB().ExecContext(ctx, stmt.String())
	if err != nil {
		return fmt.Errorf("ensuring samples table exists: %v", err)
	}
	return nil
}

/*
Write takes a context and a dataset and inserts its instances in the
samples table within a transaction. It returns the number of instances
inserted or an error, in which case no instance is inserted.
*/
func (ds *Dataset) Write(ctx context.Context, d dataset.Dataset) (int, error) {
	if len(d) == 0 {
		return 0, nil
	}
	tx, err := ds.adapter.DB().BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("starting transaction: %v", err)
	}
	for start := 0; start < len(d); start += MaxInsertionsPerStatement {
		end := start + MaxInsertionsPerStatement
		if end > len(d) {
			end = len(d)
		}
		stmt, args, err := ds.insertStatement(d[start:end])
		if err != nil {
			tx.Rollback()
			return 0, err
		}
		_, err = tx.ExecContext(ctx, stmt, args...)
		if err != nil {
			tx.Rollback()
			return 0, fmt.Errorf("inserting instances %d to %d: %v", start, end-1, err)
		}
	}
	err = tx.Commit()
	if err != nil {
		return 0, fmt.Errorf("committing instances: %v", err)
	}
	return len(d), nil
}

/*
Load takes a context and returns every instance in the samples table
encoded with the dataset's schema, or an error if the table cannot be
queried or a row holds an unknown category.
*/
func (ds *Dataset) Load(ctx context.Context) (dataset.Dataset, error) {
	quoted := make([]string, len(ds.columns))
	for i, c := range ds.columns {
		quoted[i] = fmt.Sprintf(`"%s"`, c)
	}
	query := fmt.Sprintf("SELECT %s FROM %s", strings.Join(quoted, ", "), SamplesTable)
	rows, err := ds.adapter.DB().QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying samples: %v", err)
	}
	defer rows.Close()
	var result dataset.Dataset
	values := make([]string, len(ds.columns))
	dest := make([]interface{}, len(ds.columns))
	for i := range values {
		dest[i] = &values[i]
	}
	for row := 0; rows.Next(); row++ {
		err = rows.Scan(dest...)
		if err != nil {
			return nil, fmt.Errorf("scanning sample %d: %v", row, err)
		}
		inst, err := ds.schema.Encode(values)
		if err != nil {
			if mie, ok := err.(*domain.MalformedInputError); ok {
				mie.Row = row
			}
			return nil, err
		}
		result = append(result, inst)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating samples: %v", err)
	}
	return result, nil
}

// Count returns the number of instances in the samples table
func (ds *Dataset) Count(ctx context.Context) (int, error) {
	var count int
	err := ds.adapter.DB().QueryRowContext(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s", SamplesTable)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting samples: %v", err)
	}
	return count, nil
}

// Close closes the underlying adapter
func (ds *Dataset) Close() error {
	return ds.adapter.Close()
}

func (ds *Dataset) insertStatement(d dataset.Dataset) (string, []interface{}, error) {
	var stmt bytes.Buffer
	args := make([]interface{}, 0, len(d)*len(ds.columns))
	stmt.WriteString("INSERT INTO ")
	stmt.WriteString(SamplesTable)
	stmt.WriteString(` ("`)
	stmt.WriteString(strings.Join(ds.columns, `", "`))
	stmt.WriteString(`") VALUES `)
	for i, inst := range d {
		values, err := ds.schema.Decode(inst)
		if err != nil {
			return "", nil, err
		}
		if i > 0 {
			stmt.WriteString(", ")
		}
		stmt.WriteString("(")
		for j, v := range values {
			if j > 0 {
				stmt.WriteString(", ")
			}
			args = append(args, v)
			stmt.WriteString(ds.adapter.Placeholder(len(args)))
		}
		stmt.WriteString(")")
	}
	return stmt.String(), args, nil
}
