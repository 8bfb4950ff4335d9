/*
Package sqldataset stores and loads datasets on SQL databases.

Instances are kept on a single samples table with a TEXT column per
attribute plus one for the class, holding category names rather than
codes, so that the table stays readable and independent of the order of
categories in the schema. Database specifics are provided by an Adapter;
see the sqlite3adapter and pgadapter packages.
*/
package sqldataset
