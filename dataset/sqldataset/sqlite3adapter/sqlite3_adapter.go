/*
Package sqlite3adapter provides an implementation of the Adapter
interface in the sqldataset package that works over an SQLite3 database.
*/
package sqlite3adapter

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/pbanos/arbor/dataset/sqldataset"

	// Import of sqlite3 driver
	_ "github.com/mattn/go-sqlite3"
)

type adapter struct {
	db *sql.DB
}

/*
New takes a path to an SQLite3 database file and returns an Adapter that works
on the file's database or an error if it fails to open as an sqlite3 database.
*/
func New(path string) (sqldataset.Adapter, error) {
	db, err := sql.Open("sqlite3", path)
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
	return attributeName, nil
}

func (a *adapter) Placeholder(int) string {
	return "?"
}

func (a *adapter) Close() error {
	return a.db.Close()
}
