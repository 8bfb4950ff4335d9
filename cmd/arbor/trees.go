package main

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/pbanos/arbor/domain"
	"github.com/pbanos/arbor/tree"
	jsontree "github.com/pbanos/arbor/tree/json"
	"github.com/pbanos/arbor/tree/redisstore"
)

const (
	redisPrefix    = "redis://"
	memoryPrefix   = "memory://"
	redisKeyPrefix = "arbor"
)

// memoryTrees holds the trees saved to memory:// locations until the process exits
var memoryTrees = tree.NewMemoryStore()

func isStoreLocation(location string) bool {
	return strings.HasPrefix(location, redisPrefix) || strings.HasPrefix(location, memoryPrefix)
}

/*
openTreeStore takes a context and a redis://[user:password@]host:port/name
or memory://name location and returns the store it points to along with
the name of the tree in it.
*/
func openTreeStore(ctx context.Context, location string) (tree.Store, string, error) {
	if strings.HasPrefix(location, memoryPrefix) {
		name := strings.TrimPrefix(location, memoryPrefix)
		if name == "" {
			return nil, "", fmt.Errorf("tree location %s names no tree", location)
		}
		return memoryTrees, name, nil
	}
	u, err := url.Parse(location)
	if err != nil {
		return nil, "", fmt.Errorf("parsing tree location %s: %v", location, err)
	}
	name := strings.TrimPrefix(u.Path, "/")
	if name == "" {
		return nil, "", fmt.Errorf("tree location %s names no tree", location)
	}
	server := &url.URL{Scheme: u.Scheme, User: u.User, Host: u.Host}
	store, err := redisstore.Dial(ctx, server.String(), redisKeyPrefix)
	if err != nil {
		return nil, "", err
	}
	return store, name, nil
}

/*
loadTree takes a context, the location of a tree and a schema and returns
the tree stored there. The location is a Redis or memory tree location, a
path to a JSON file or empty to read JSON from STDIN.
*/
func loadTree(ctx context.Context, location string, s *domain.Schema) (*tree.Tree, error) {
	if isStoreLocation(location) {
		store, name, err := openTreeStore(ctx, location)
		if err != nil {
			return nil, err
		}
		defer store.Close(ctx)
		return store.Load(ctx, name, s)
	}
	f := os.Stdin
	if location != "" {
		var err error
		f, err = os.Open(location)
		if err != nil {
			return nil, fmt.Errorf("opening tree file %s: %v", location, err)
		}
		defer f.Close()
	}
	t, err := jsontree.Read(f, s)
	if err != nil {
		return nil, fmt.Errorf("reading tree: %v", err)
	}
	return t, nil
}

/*
saveTree takes a context, the location for a tree and the tree and stores
the tree there. The location is a Redis or memory tree location, a path
to a JSON file or empty to write JSON onto STDOUT.
*/
func saveTree(ctx context.Context, location string, t *tree.Tree) error {
	if isStoreLocation(location) {
		store, name, err := openTreeStore(ctx, location)
		if err != nil {
			return err
		}
		defer store.Close(ctx)
		return store.Save(ctx, name, t)
	}
	f := os.Stdout
	if location != "" {
		var err error
		f, err = os.Create(location)
		if err != nil {
			return err
		}
		defer f.Close()
	}
	return jsontree.Write(f, t)
}
