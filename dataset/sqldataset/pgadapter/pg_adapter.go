/*
Package pgadapter provides an implementation of the Adapter
interface in the sqldataset package that works over a PostgreSQL database.
*/
package pgadapter

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/pbanos/arbor/dataset/sqldataset"

	// Import of PostgreSQL driver
	_ "github.com/lib/pq"
)

// MaxColumnNameLength is the identifier length limit of PostgreSQL
const MaxColumnNameLength = 63

type adapter struct {
	db *sql.DB
}

/*
New takes a PostgreSQL database connection URL and returns
an Adapter that works on the database or an error if it fails to connect to it.
*/
func New(url string) (sqldataset.Adapter, error) {
	db, err := sql.Open("postgres", url)
	if err != nil {
		return nil, err
	}
	return &adapter{db}, nil
}

func (a *adapter) DB() *sql.DB {
	return a.db
}

func (a *adapter) ColumnName(attributeName string) (string, error) {
	if attributeName == "" {
		return "", fmt.Errorf("empty attribute name cannot be used as column name")
	}
	if strings.ContainsAny(attributeName, `"`) {
		return "", fmt.Errorf(`attribute name '%s' contains invalid character '"'`, attributeName)
	}
	if len(attributeName) > MaxColumnNameLength {
		return "", fmt.Errorf("attribute name '%s' is longer than %d bytes", attributeName, MaxColumnNameLength)
	}
	return attributeName, nil
}

func (a *adapter) Placeholder(n int) string {
	return fmt.Sprintf("$%d", n)
}

func (a *adapter) Close() error {
	return a.db.Close()
}
