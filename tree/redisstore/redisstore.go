/*
Package redisstore provides a tree.Store backed by a Redis database.

Each tree is saved on a hash under the key "<prefix>:<name>". The hash
holds the class and attribute names of the tree's schema plus one field
per node, keyed by the node's ID, with the node encoded as JSON.
*/
package redisstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"github.com/pbanos/arbor/domain"
	"github.com/pbanos/arbor/tree"
	jsontree "github.com/pbanos/arbor/tree/json"
	"github.com/redis/go-redis/v9"
)

const (
	classField      = "class"
	attributesField = "attributes"
)

type redisStore struct {
	rc     *redis.Client
	prefix string
}

// New builds a tree.Store backed by a redis DB
func New(rc *redis.Client, prefix string) tree.Store {
	return &redisStore{rc, prefix}
}

/*
Dial takes a Redis URL (redis://[user:password@]host:port/db) and a
prefix and returns a tree.Store on that database, or an error if the URL
cannot be parsed or the server does not answer.
*/
func Dial(ctx context.Context, url, prefix string) (tree.Store, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parsing redis URL %q: %v", url, err)
	}
	rc := redis.NewClient(opts)
	if err = rc.Ping(ctx).Err(); err != nil {
		rc.Close()
		return nil, fmt.Errorf("connecting to redis at %s: %v", opts.Addr, err)
	}
	return New(rc, prefix), nil
}

func (rs *redisStore) Save(ctx context.Context, name string, t *tree.Tree) error {
	jAttributes, err := json.Marshal(jsontree.AttributeNames(t.Schema))
	if err != nil {
		return fmt.Errorf("saving tree %q: encoding attributes: %v", name, err)
	}
	fields := map[string]interface{}{
		classField:      t.Schema.Class.Name(),
		attributesField: string(jAttributes),
	}
	err = t.Traverse(false, func(n *tree.Node) error {
		data, err := jsontree.EncodeNode(n)
		if err != nil {
			return fmt.Errorf("encoding node %d: %v", n.ID, err)
		}
		fields[strconv.Itoa(n.ID)] = string(data)
		return nil
	})
	if err != nil {
		return fmt.Errorf("saving tree %q: %v", name, err)
	}
	key := rs.keyFor(name)
	_, err = rs.rc.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		pipe.HSet(ctx, key, fields)
		return nil
	})
	if err != nil {
		return fmt.Errorf("saving tree %q in redis: %v", name, err)
	}
	return nil
}

func (rs *redisStore) Load(ctx context.Context, name string, s *domain.Schema) (*tree.Tree, error) {
	fields, err := rs.rc.HGetAll(ctx, rs.keyFor(name)).Result()
	if err != nil {
		return nil, fmt.Errorf("retrieving tree %q: %v", name, err)
	}
	if len(fields) == 0 {
		return nil, tree.ErrTreeNotFound
	}
	var attributes []string
	if err = json.Unmarshal([]byte(fields[attributesField]), &attributes); err != nil {
		return nil, fmt.Errorf("retrieving tree %q: decoding attributes: %v", name, err)
	}
	if err = jsontree.CheckSchema(s, fields[classField], attributes); err != nil {
		return nil, fmt.Errorf("retrieving tree %q: %v", name, err)
	}
	var nodes []*tree.Node
	for k, data := range fields {
		if k == classField || k == attributesField {
			continue
		}
		n, err := jsontree.DecodeNode([]byte(data))
		if err != nil {
			return nil, fmt.Errorf("retrieving tree %q: decoding node %s: %v", name, k, err)
		}
		nodes = append(nodes, n)
	}
	// IDs grow in depth-first pre-order
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].ID < nodes[j].ID })
	t, err := jsontree.Assemble(s, nodes)
	if err != nil {
		return nil, fmt.Errorf("retrieving tree %q: %v", name, err)
	}
	return t, nil
}

func (rs *redisStore) Delete(ctx context.Context, name string) error {
	_, err := rs.rc.Del(ctx, rs.keyFor(name)).Result()
	if err != nil {
		return fmt.Errorf("deleting tree %q from redis: %v", name, err)
	}
	return nil
}

func (rs *redisStore) Close(ctx context.Context) error {
	return rs.rc.Close()
}

func (rs *redisStore) keyFor(name string) string {
	return fmt.Sprintf("%s:%s", rs.prefix, name)
}
