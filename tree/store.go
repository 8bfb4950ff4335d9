package tree

import (
	"context"
	"sync"

	"github.com/pbanos/arbor/domain"
)

// ErrTreeNotFound is returned by stores when no tree is saved under a name
const ErrTreeNotFound = Error("tree not found in store")

/*
Store is an interface to manage a store where trees can be saved,
loaded and deleted by name.

All its methods take a context that may allow cancelling the operation
(thus forcing the return of an error) if the implementation allows it.
*/
type Store interface {
	// Save takes a name and a tree and stores the tree under that
	// name, replacing any tree previously saved with it.
	Save(ctx context.Context, name string, t *Tree) error
	// Load takes a name and a schema and returns the tree stored
	// under that name, ErrTreeNotFound if there is none, or an error
	// if the store cannot be queried or the tree does not fit the
	// schema.
	Load(ctx context.Context, name string, s *domain.Schema) (*Tree, error)
	// Delete takes a name and removes the tree stored under it, if
	// any.
	Delete(ctx context.Context, name string) error
	// Close closes the store, freeing any resources in use.
	Close(ctx context.Context) error
}

type memoryStore struct {
	trees map[string]*Tree
	lock  *sync.RWMutex
}

// NewMemoryStore returns an implementation of Store with the process
// memory space as underlying backend. Trees are cloned on the way in and
// out.
func NewMemoryStore() Store {
	return &memoryStore{
		trees: make(map[string]*Tree),
		lock:  &sync.RWMutex{},
	}
}

func (ms *memoryStore) Save(ctx context.Context, name string, t *Tree) error {
	return ms.withLock(ctx, func(ctx context.Context) error {
		ms.trees[name] = t.Clone()
		return nil
	})
}

func (ms *memoryStore) Load(ctx context.Context, name string, s *domain.Schema) (*Tree, error) {
	var t *Tree
	err := ms.withRLock(ctx, func(ctx context.Context) error {
		st, ok := ms.trees[name]
		if !ok {
			return ErrTreeNotFound
		}
		t = &Tree{s, st.Root.Clone()}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (ms *memoryStore) Delete(ctx context.Context, name string) error {
	return ms.withLock(ctx, func(ctx context.Context) error {
		delete(ms.trees, name)
		return nil
	})
}

func (ms *memoryStore) Close(ctx context.Context) error {
	return nil
}

func (ms *memoryStore) withLock(ctx context.Context, f func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	gotLock := make(chan struct{})
	go func() {
		ms.lock.Lock()
		select {
		case <-ctx.Done():
			ms.lock.Unlock()
		case gotLock <- struct{}{}:
		}
	}()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-gotLock:
		defer ms.lock.Unlock()
	}
	return f(ctx)
}

func (ms *memoryStore) withRLock(ctx context.Context, f func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	gotLock := make(chan struct{})
	go func() {
		ms.lock.RLock()
		select {
		case <-ctx.Done():
			ms.lock.RUnlock()
		case gotLock <- struct{}{}:
		}
	}()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-gotLock:
		defer ms.lock.RUnlock()
	}
	return f(ctx)
}
