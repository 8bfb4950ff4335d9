/*
Package mongodataset stores and loads datasets on a MongoDB database.

Each instance is a document on the samples collection with a field per
attribute and one for the class, holding category names.
*/
package mongodataset

import (
	"context"
	"fmt"
	"strings"

	"github.com/pbanos/arbor/dataset"
	"github.com/pbanos/arbor/domain"
	mgo "gopkg.in/mgo.v2"
	"gopkg.in/mgo.v2/bson"
)

const (
	samplesCollectionName = "samples"
)

/*
Dataset is a dataset stored on a MongoDB database
*/
type Dataset struct {
	session *mgo.Session
	schema  *domain.Schema
}

/*
Open takes a MongoDB database session and a schema and returns a Dataset
that works on the default database for that session, or an error if the
schema names cannot be used as document fields or the collection indexes
cannot be ensured.
*/
func Open(ctx context.Context, session *mgo.Session, s *domain.Schema) (*Dataset, error) {
	if err := checkFieldNames(s); err != nil {
		return nil, err
	}
	mds := &Dataset{session, s}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	index := mgo.Index{
		Key:        []string{s.Class.Name()},
		Background: true,
	}
	if err := mds.samplesCollection().EnsureIndex(index); err != nil {
		return nil, err
	}
	return mds, nil
}

/*
Dial takes a MongoDB URL and a schema and returns a Dataset on the database
named in the URL.
*/
func Dial(ctx context.Context, url string, s *domain.Schema) (*Dataset, error) {
	session, err := mgo.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("connecting to %s: %v", url, err)
	}
	mds, err := Open(ctx, session, s)
	if err != nil {
		session.Close()
		return nil, err
	}
	return mds, nil
}

// Write takes a context and a dataset and inserts its instances as documents
func (mds *Dataset) Write(ctx context.Context, d dataset.Dataset) (int, error) {
	docs := make([]interface{}, 0, len(d))
	for _, inst := range d {
		doc, err := toDocument(mds.schema, inst)
		if err != nil {
			return 0, err
		}
		docs = append(docs, doc)
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	err := mds.samplesCollection().Insert(docs...)
	if err != nil {
		return 0, err
	}
	return len(d), nil
}

/*
Load takes a context and returns every instance in the samples collection
or an error. The iteration stops when the context is done.
*/
func (mds *Dataset) Load(ctx context.Context) (dataset.Dataset, error) {
	var result dataset.Dataset
	var doc bson.M
	iter := mds.samplesCollection().Find(nil).Iter()
	defer iter.Close()
	for row := 0; iter.Next(&doc); row++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		inst, err := fromDocument(mds.schema, doc)
		if err != nil {
			if mie, ok := err.(*domain.MalformedInputError); ok {
				mie.Row = row
			}
			return nil, err
		}
		result = append(result, inst)
		doc = nil
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Count returns the number of documents in the samples collection
func (mds *Dataset) Count(context.Context) (int, error) {
	return mds.samplesCollection().Count()
}

// Close closes the underlying session
func (mds *Dataset) Close() {
	mds.session.Close()
}

func (mds *Dataset) samplesCollection() *mgo.Collection {
	return mds.session.DB("").C(samplesCollectionName)
}

func checkFieldNames(s *domain.Schema) error {
	for _, ad := range append(append([]*domain.AttributeDomain{}, s.Attributes...), s.Class) {
		name := ad.Name()
		if name == "_id" {
			return fmt.Errorf("invalid attribute name %q: reserved collection field", "_id")
		}
		if name == "" || strings.ContainsAny(name, ".$") {
			return fmt.Errorf("invalid attribute name %q: empty or contains reserved characters %q or %q", name, ".", "$")
		}
	}
	return nil
}

func toDocument(s *domain.Schema, inst domain.Instance) (bson.M, error) {
	values, err := s.Decode(inst)
	if err != nil {
		return nil, err
	}
	doc := make(bson.M, len(values))
	for i, a := range s.Attributes {
		doc[a.Name()] = values[i]
	}
	doc[s.Class.Name()] = values[len(values)-1]
	return doc, nil
}

func fromDocument(s *domain.Schema, doc bson.M) (domain.Instance, error) {
	values := make([]string, 0, len(s.Attributes)+1)
	for _, a := range append(append([]*domain.AttributeDomain{}, s.Attributes...), s.Class) {
		v, ok := doc[a.Name()]
		if !ok {
			return nil, &domain.MalformedInputError{Row: domain.NotFound, Reason: fmt.Sprintf("missing field %s", a.Name())}
		}
		values = append(values, fmt.Sprintf("%v", v))
	}
	return s.Encode(values)
}
